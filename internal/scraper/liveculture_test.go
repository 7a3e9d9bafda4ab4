package scraper

import (
	"context"
	"testing"
	"time"

	"github.com/pfrederiksen/odense-concerts/internal/concert"
)

const liveCulturePage = `<html><body>
<section class="cards">
  <div class="card">
    <a href="/koncert/dodo/"><div class="cover" data-srcset="/img/dodo-600.jpg 600w, /img/dodo-1200.jpg 1200w"></div></a>
    <div class="singleBoxTitle"><span>Dodo and the Dodos</span></div>
    <div class="heroLabels">
      <span class="heroLabels__single--date">07.11.26 - 08.11.26</span>
      <span class="heroLabels__single--venue">Kulturmaskinen</span>
    </div>
    <div class="singleBoxCity">Odense C</div>
    <div class="ticketButton"><span class="ticketButton__time">19:30</span></div>
    <div class="boxtitle__pricing__amount">325 kr.</div>
  </div>
  <div class="card">
    <a href="/gavekort/"><div class="cover" data-srcset="/img/gave.jpg 1x"></div></a>
    <div class="singleBoxTitle"><span>Gavekort</span></div>
    <div class="heroLabels"><span class="heroLabels__single--date">01.01.27</span></div>
  </div>
  <div class="card">
    <a href="/koncert/magasinet/"><div class="cover" data-srcset="/img/m.jpg 1x"></div></a>
    <div class="singleBoxTitle"><span>Aftenshowet</span></div>
    <div class="heroLabels">
      <span class="heroLabels__single--date">12.11.26</span>
      <span class="heroLabels__single--venue">Magasinet</span>
    </div>
  </div>
  <div class="card">
    <a href="/comedy/spang/"><div class="cover" data-srcset="/img/spang.jpg 1x"></div></a>
    <div class="singleBoxTitle"><span>Jonatan Spang</span></div>
    <div class="heroLabels">
      <span class="heroLabels__single--date">20.11.26</span>
      <span class="heroLabels__single--venue">Fredericia Teater</span>
    </div>
  </div>
  <div class="card">
    <a href="/koncert/hemmelig/"><div class="cover" data-srcset="/img/h.jpg 1x"></div></a>
    <div class="singleBoxTitle"><span>Hemmelig koncert</span></div>
    <div class="heroLabels"><span class="heroLabels__single--date">21.11.26</span></div>
  </div>
  <div class="card">
    <a href="/koncert/aurora/"><div class="cover" data-srcset="/img/aurora.jpg 1x"></div></a>
    <div class="singleBoxTitle"><span>Aurora</span></div>
    <div class="heroLabels">
      <span class="heroLabels__single--date">28.11.26</span>
      <span class="heroLabels__single--venue">Musikhuset Esbjerg</span>
    </div>
    <div class="ticketButton"><span class="ticketButton__time">Udsolgt</span></div>
  </div>
  <div class="card">
    <a href="/koncert/nyt-navn/"><div class="cover" data-srcset="/img/nyt.jpg 1x"></div></a>
    <div class="singleBoxTitle"><span>Nyt Navn</span></div>
    <div class="heroLabels">
      <span class="heroLabels__single--date">04.12.26</span>
      <span class="heroLabels__single--venue">Dexter</span>
    </div>
  </div>
</section>
<div class="search">
  <div class="searchItem"><div><div>Dodo and the Dodos</div></div><span class="searchTag">Koncert</span></div>
  <div class="searchItem"><div><div>Gavekort</div></div></div>
  <div class="searchItem"><div><div>Aftenshowet</div></div><span class="searchTag">Koncert</span></div>
  <div class="searchItem"><div><div>Jonatan Spang</div></div><span class="searchTag">Comedy</span></div>
  <div class="searchItem"><div><div>Aurora</div></div><span class="searchTag">Koncert</span></div>
  <div class="searchItem"><div><div>Nyt Navn</div></div><span class="searchTag">Koncert</span><span class="searchTag">Pop</span></div>
</div>
</body></html>`

func TestLiveCulture_Fetch(t *testing.T) {
	server, _ := newSite(t, map[string]string{"/": liveCulturePage}, "text/html; charset=utf-8")

	l := NewLiveCulture(newTestFetcher())
	l.baseURL = server.URL

	concerts, err := l.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	var titles []string
	for _, c := range concerts {
		titles = append(titles, c.Title)
	}
	want := []string{"Dodo and the Dodos", "Aurora", "Nyt Navn"}
	if len(titles) != len(want) {
		t.Fatalf("Fetch() titles = %v, want %v", titles, want)
	}
	for i := range want {
		if titles[i] != want[i] {
			t.Errorf("title %d = %q, want %q", i, titles[i], want[i])
		}
	}

	dodo := concerts[0]
	if dodo.Venue != "Kulturmaskinen" {
		t.Errorf("Venue = %q", dodo.Venue)
	}
	// Multi-day events use the first day.
	wantDate(t, dodo, time.Date(2026, 11, 7, 0, 0, 0, 0, concert.Location))
	// The ticket button shows a door time, so the price comes from the pricing box.
	wantPrice(t, dodo, 325)
	if dodo.Desc != "Odense C" {
		t.Errorf("Desc = %q", dodo.Desc)
	}
	if dodo.ImgURL != server.URL+"/img/dodo-1200.jpg" {
		t.Errorf("ImgURL = %q", dodo.ImgURL)
	}
	if dodo.URL != server.URL+"/koncert/dodo/" {
		t.Errorf("URL = %q", dodo.URL)
	}

	wantSoldOut(t, concerts[1])

	if concerts[2].Price != nil || concerts[2].SoldOut {
		t.Errorf("card without ticket button should have unknown price")
	}
}

func TestLiveCulture_SkipsCardWithoutImage(t *testing.T) {
	page := `<section class="cards">
  <div class="card">
    <a href="/koncert/uden-billede/"></a>
    <div class="singleBoxTitle"><span>Uden billede</span></div>
    <div class="heroLabels"><span class="heroLabels__single--date">14.11.26</span></div>
  </div>
  <div class="card">
    <a href="/koncert/gavekort-koncert/"><div class="cover" data-srcset="/img/gk.jpg 1x"></div></a>
    <div class="singleBoxTitle"><span>Gavekort + koncert</span></div>
    <div class="heroLabels"><span class="heroLabels__single--date">15.11.26</span></div>
  </div>
</section>
<div class="search">
  <div class="searchItem"><div><div>Uden billede</div></div><span class="searchTag">Koncert</span></div>
  <div class="searchItem"><div><div>Gavekort + koncert</div></div><span class="searchTag">Koncert</span></div>
</div>`
	server, _ := newSite(t, map[string]string{"/": page}, "text/html; charset=utf-8")

	l := NewLiveCulture(newTestFetcher())
	l.baseURL = server.URL

	concerts, err := l.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	// Only the bare "Gavekort" title is a gift card.
	if len(concerts) != 1 || concerts[0].Title != "Gavekort + koncert" {
		t.Fatalf("Fetch() = %v, want only Gavekort + koncert", concerts)
	}
	if concerts[0].ImgURL != server.URL+"/img/gk.jpg" {
		t.Errorf("ImgURL = %q", concerts[0].ImgURL)
	}
}
