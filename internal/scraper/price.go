package scraper

import (
	"bytes"
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/pfrederiksen/odense-concerts/internal/concert"
)

var priceDigits = regexp.MustCompile(`\d+`)

// Price is the outcome of reading a ticket price label
type Price struct {
	// Amount is nil when the label carries no usable number.
	Amount  *int
	SoldOut bool
}

// ParsePrice interprets a Danish price label.
//
//	"Gratis entré"  -> 0
//	"Udsolgt"       -> sold out
//	"1.295,00 kr."  -> 1295
//	"Billetter"     -> unknown
//
// Thousands separators (".") are dropped and the decimal comma becomes a
// point before the first run of digits is taken.
func ParsePrice(label string) Price {
	s := strings.ToLower(label)

	if strings.Contains(s, "gratis") {
		return Price{Amount: concert.IntPtr(0)}
	}
	if strings.Contains(s, "udsolgt") {
		return Price{SoldOut: true}
	}

	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")

	match := priceDigits.FindString(s)
	if match == "" {
		return Price{}
	}
	n, err := strconv.Atoi(match)
	if err != nil {
		return Price{}
	}
	return Price{Amount: &n}
}

// Apply copies the price onto c
func (p Price) Apply(c *concert.Concert) {
	c.Price = p.Amount
	c.SoldOut = p.SoldOut
	if p.SoldOut {
		c.Price = nil
	}
}

// amount decodes a JSON price that may be a number, a numeric string or a label
type amount struct {
	Price
}

func (a *amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		a.Price = Price{}
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		n := int(math.Round(f))
		a.Price = Price{Amount: &n}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
		n := int(math.Round(f))
		a.Price = Price{Amount: &n}
		return nil
	}
	a.Price = ParsePrice(s)
	return nil
}
