package scraper

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/odense-concerts/internal/concert"
	"github.com/pfrederiksen/odense-concerts/internal/filter"
	"github.com/pfrederiksen/odense-concerts/internal/logger"
)

const LiveCultureURL = "https://liveculture.dk"

// LiveCulture lists the events promoted by Live Culture across several
// venues. Magasinet and ODEON have their own sources, gift cards and comedy
// are dropped.
type LiveCulture struct {
	fetcher *Fetcher
	baseURL string
	filter  *filter.Filter
}

// NewLiveCulture creates the Live Culture source
func NewLiveCulture(f *Fetcher) *LiveCulture {
	return &LiveCulture{
		fetcher: f,
		baseURL: LiveCultureURL,
		filter: &filter.Filter{
			ExcludeExactTitles: []string{"Gavekort"},
			ExcludeVenues:      []string{"Magasinet", "ODEON"},
			ExcludeTags:        []string{"Comedy"},
		},
	}
}

func (l *LiveCulture) Name() string { return "liveculture" }

func (l *LiveCulture) Fetch(ctx context.Context) ([]*concert.Concert, error) {
	doc, err := l.fetcher.Document(ctx, Get(l.baseURL+"/"))
	if err != nil {
		return nil, err
	}
	return l.parse(doc)
}

// searchTags maps each title in the search index to its tags
func searchTags(doc *goquery.Document) map[string][]string {
	tags := make(map[string][]string)
	doc.Find(".searchItem").Each(func(i int, item *goquery.Selection) {
		title := text(item, "div div")
		if title == "" {
			return
		}
		var itemTags []string
		item.Find(".searchTag").Each(func(j int, tag *goquery.Selection) {
			itemTags = append(itemTags, clean(tag.Text()))
		})
		tags[title] = append(tags[title], itemTags...)
	})
	return tags
}

func (l *LiveCulture) parse(doc *goquery.Document) ([]*concert.Concert, error) {
	index := searchTags(doc)
	concerts := make([]*concert.Concert, 0)

	cards := doc.Find(".card")
	for i := 0; i < cards.Length(); i++ {
		card := cards.Eq(i)

		title, err := requireText(card, ".singleBoxTitle span", "title")
		if err != nil {
			return nil, fmt.Errorf("card %d: %w", i, err)
		}
		venue := text(card, ".heroLabels__single--venue")

		// Cards without a search index entry are not public events.
		tags, indexed := index[title]
		if !indexed {
			logger.Debug("Skipping card missing from search index", logger.Fields{"source": l.Name(), "title": title})
			continue
		}
		if !l.filter.Matches(filter.Candidate{Title: title, Venue: venue, Tags: tags}) {
			continue
		}

		dateText, err := requireText(card, ".heroLabels__single--date", "date")
		if err != nil {
			return nil, fmt.Errorf("card %q: %w", title, err)
		}
		first, _, _ := strings.Cut(dateText, " - ")
		date, err := ParseDanishDate("2.1.06", first)
		if err != nil {
			return nil, fmt.Errorf("card %q: parsing date: %w", title, err)
		}

		link, err := requireAttr(card, "a", "href", "url")
		if err != nil {
			return nil, fmt.Errorf("card %q: %w", title, err)
		}

		img := resolve(l.baseURL, BestFromSrcset(card.Find("a > .cover").First().AttrOr("data-srcset", "")))
		if img == "" {
			logger.Warn("No image, skipping", logger.Fields{"source": l.Name(), "title": title})
			continue
		}

		c := &concert.Concert{
			Title:  title,
			Venue:  venue,
			Date:   date,
			Desc:   text(card, ".singleBoxCity"),
			ImgURL: img,
			URL:    resolve(l.baseURL, link),
		}
		l.price(card).Apply(c)

		concerts = append(concerts, c)
	}

	return concerts, nil
}

// price reads the ticket button. When the button shows a door time the
// amount sits in a separate pricing element.
func (l *LiveCulture) price(card *goquery.Selection) Price {
	button := card.Find(".ticketButton__time").First()
	if button.Length() == 0 {
		return Price{}
	}
	label := clean(button.Text())
	if strings.Contains(label, ":") {
		label = text(card, ".boxtitle__pricing__amount")
	}
	return ParsePrice(label)
}
