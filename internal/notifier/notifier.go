package notifier

import (
	"context"
	"strings"

	"github.com/pfrederiksen/odense-concerts/internal/concert"
	"github.com/pfrederiksen/odense-concerts/internal/render"
)

// maxTweetLength is Twitter's limit in characters
const maxTweetLength = 280

// Notifier defines the interface for announcing concerts
type Notifier interface {
	// Notify announces the given concerts in order
	Notify(ctx context.Context, concerts []*concert.Concert) error
}

// formatTweet formats a concert as a tweet
func formatTweet(f render.Format, c *concert.Concert) string {
	var b strings.Builder
	b.WriteString("🎶 " + c.Title + "\n")
	b.WriteString("📍 " + c.Venue + "\n")
	b.WriteString("📅 " + f.Long(c.Date) + "\n")
	if price := f.Price(c); price != "" {
		b.WriteString("🎟️ " + price + "\n")
	}
	b.WriteString("\n" + c.URL + "\n")
	b.WriteString("\n#Odense #koncert")

	return truncate(b.String(), maxTweetLength)
}

// truncate shortens s to at most n runes, ending with "..."
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}
