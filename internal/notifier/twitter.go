package notifier

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/dghubble/go-twitter/twitter" //nolint:staticcheck // Using stable v1.1 API
	"github.com/dghubble/oauth1"
	"github.com/pfrederiksen/odense-concerts/internal/concert"
	"github.com/pfrederiksen/odense-concerts/internal/logger"
	"github.com/pfrederiksen/odense-concerts/internal/render"
)

// ErrMissingCredentials is returned when a TWITTER_* variable is unset
var ErrMissingCredentials = errors.New("missing required Twitter credentials in environment variables")

// TwitterNotifier posts concerts to Twitter
type TwitterNotifier struct {
	client *twitter.Client
	format render.Format
	// limit caps the posts per Notify call; 0 means no limit.
	limit int
	delay time.Duration
}

// NewTwitterNotifier creates a new Twitter notifier using environment variables
// Required environment variables:
// - TWITTER_API_KEY
// - TWITTER_API_SECRET
// - TWITTER_ACCESS_TOKEN
// - TWITTER_ACCESS_SECRET
func NewTwitterNotifier(format render.Format, limit int, delay time.Duration) (*TwitterNotifier, error) {
	apiKey := os.Getenv("TWITTER_API_KEY")
	apiSecret := os.Getenv("TWITTER_API_SECRET")
	accessToken := os.Getenv("TWITTER_ACCESS_TOKEN")
	accessSecret := os.Getenv("TWITTER_ACCESS_SECRET")

	if apiKey == "" || apiSecret == "" || accessToken == "" || accessSecret == "" {
		return nil, ErrMissingCredentials
	}

	config := oauth1.NewConfig(apiKey, apiSecret)
	token := oauth1.NewToken(accessToken, accessSecret)
	httpClient := config.Client(oauth1.NoContext, token)

	return newTwitterNotifier(httpClient, format, limit, delay), nil
}

func newTwitterNotifier(httpClient *http.Client, format render.Format, limit int, delay time.Duration) *TwitterNotifier {
	return &TwitterNotifier{
		client: twitter.NewClient(httpClient),
		format: format,
		limit:  limit,
		delay:  delay,
	}
}

// Notify posts one tweet per concert, waiting between tweets
func (n *TwitterNotifier) Notify(ctx context.Context, concerts []*concert.Concert) error {
	if n.limit > 0 && len(concerts) > n.limit {
		logger.Warn("Too many new concerts, announcing the first ones", logger.Fields{
			"new":     len(concerts),
			"skipped": len(concerts) - n.limit,
		})
		concerts = concerts[:n.limit]
	}

	for i, c := range concerts {
		tweet := formatTweet(n.format, c)

		_, _, err := n.client.Statuses.Update(tweet, nil)
		if err != nil {
			return fmt.Errorf("failed to post tweet for concert %s: %w", c.ID(), err)
		}
		logger.Info("Posted tweet", logger.Fields{
			"title": c.Title,
			"venue": c.Venue,
		})

		// Rate limiting: wait between tweets
		if i < len(concerts)-1 && n.delay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(n.delay):
			}
		}
	}

	return nil
}
