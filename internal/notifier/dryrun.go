package notifier

import (
	"context"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/pfrederiksen/odense-concerts/internal/concert"
	"github.com/pfrederiksen/odense-concerts/internal/render"
)

// DryRunNotifier prints what would be tweeted without actually posting
type DryRunNotifier struct {
	out    io.Writer
	format render.Format
}

// NewDryRunNotifier creates a new dry-run notifier writing to out
func NewDryRunNotifier(out io.Writer, format render.Format) *DryRunNotifier {
	return &DryRunNotifier{out: out, format: format}
}

// Notify prints the tweets that would be posted
func (n *DryRunNotifier) Notify(ctx context.Context, concerts []*concert.Concert) error {
	for i, c := range concerts {
		if err := ctx.Err(); err != nil {
			return err
		}
		tweet := formatTweet(n.format, c)
		fmt.Fprintf(n.out, "--- Tweet %d/%d ---\n", i+1, len(concerts))
		fmt.Fprintln(n.out, tweet)
		fmt.Fprintf(n.out, "\n(Length: %d characters)\n\n", utf8.RuneCountInString(tweet))
	}
	return nil
}
