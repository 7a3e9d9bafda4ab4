package scraper

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/odense-concerts/internal/concert"
	"github.com/pfrederiksen/odense-concerts/internal/logger"
)

const (
	VaerketURL   = "https://odensevaerket.dk"
	vaerketVenue = "Odense Værket"
)

// "24. oktober", "24-25. oktober" or "24.-25. oktober"; multi-day events use the first day
var vaerketDate = regexp.MustCompile(`^(\d{1,2})\.?(?:-\d{1,2})?\.?\s*(\p{L}+)`)

// Vaerket lists the concerts sold in Odense Værket's web shop. Product names
// read "<date> – <title> – Entrébillet" and carry no year.
type Vaerket struct {
	fetcher *Fetcher
	baseURL string
	now     func() time.Time
}

// NewVaerket creates the Odense Værket source
func NewVaerket(f *Fetcher) *Vaerket {
	return &Vaerket{
		fetcher: f,
		baseURL: VaerketURL,
		now:     time.Now,
	}
}

func (v *Vaerket) Name() string { return "vaerket" }

func (v *Vaerket) Fetch(ctx context.Context) ([]*concert.Concert, error) {
	req := Get(v.baseURL + "/kultur-musikhus/")
	req.UTF8 = true
	doc, err := v.fetcher.Document(ctx, req)
	if err != nil {
		return nil, err
	}
	return v.parse(doc)
}

func (v *Vaerket) parse(doc *goquery.Document) ([]*concert.Concert, error) {
	now := v.now()
	concerts := make([]*concert.Concert, 0)

	products := doc.Find(".products > li")
	for i := 0; i < products.Length(); i++ {
		product := products.Eq(i)

		heading, err := requireText(product, "h2", "title")
		if err != nil {
			return nil, fmt.Errorf("product %d: %w", i, err)
		}
		dateText, title, ok := strings.Cut(strings.TrimSuffix(heading, " – Entrébillet"), " – ")
		if !ok {
			logger.Warn("Product name without date, skipping", logger.Fields{"source": v.Name(), "name": heading})
			continue
		}

		date, err := parseVaerketDate(dateText, now)
		if err != nil {
			return nil, fmt.Errorf("product %q: %w", heading, err)
		}

		link, err := requireAttr(product, ".woocommerce-LoopProduct-link", "href", "url")
		if err != nil {
			return nil, fmt.Errorf("product %q: %w", heading, err)
		}

		img := resolve(v.baseURL, BestFromImg(product.Find("img").First()))
		if img == "" {
			logger.Warn("No image, skipping", logger.Fields{"source": v.Name(), "title": heading})
			continue
		}

		c := &concert.Concert{
			Title:  strings.TrimSpace(title),
			Venue:  vaerketVenue,
			Date:   date,
			ImgURL: img,
			URL:    resolve(v.baseURL, link),
		}
		ParsePrice(text(product, ".price")).Apply(c)

		concerts = append(concerts, c)
	}

	return concerts, nil
}

func parseVaerketDate(label string, now time.Time) (time.Time, error) {
	m := vaerketDate.FindStringSubmatch(strings.TrimSpace(label))
	if m == nil {
		return time.Time{}, fmt.Errorf("unrecognized date %q", label)
	}
	t, err := ParseDanishDate("2. January", m[1]+". "+m[2])
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", label, err)
	}
	return InferYear(t, now), nil
}
