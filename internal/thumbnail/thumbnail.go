package thumbnail

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/pfrederiksen/odense-concerts/internal/concert"
	"github.com/pfrederiksen/odense-concerts/internal/logger"
	"github.com/pfrederiksen/odense-concerts/internal/metrics"
	"github.com/pfrederiksen/odense-concerts/internal/storage"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultSize    = 768
	DefaultQuality = 80
	DefaultWorkers = 8
)

// forbidden are the characters removed from file names
const forbidden = `<>:"/\|?*`

// maxImageBytes bounds a single image download
const maxImageBytes = 32 << 20

// Options configures a Generator
type Options struct {
	Dir       string
	URLPrefix string
	// Size is the bounding box in pixels; images are never upscaled.
	Size      int
	MinWidth  int
	Quality   int
	Workers   int
	Timeout   time.Duration
	UserAgent string
	Metrics   *metrics.Recorder
}

// Counts summarizes a MakeAll run
type Counts struct {
	Created int
	Cached  int
	Failed  int
}

// Generator makes thumbnails for concerts
type Generator struct {
	client *http.Client
	opts   Options
}

// New creates a Generator, filling unset options with defaults
func New(opts Options) (*Generator, error) {
	if opts.Size <= 0 {
		opts.Size = DefaultSize
	}
	if opts.MinWidth <= 0 {
		opts.MinWidth = opts.Size
	}
	if opts.Quality <= 0 {
		opts.Quality = DefaultQuality
	}
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.Dir == "" {
		return nil, errors.New("thumbnail directory is required")
	}

	if err := os.MkdirAll(opts.Dir, 0755); err != nil {
		return nil, fmt.Errorf("creating thumbnail directory: %w", err)
	}

	return &Generator{
		client: &http.Client{Timeout: opts.Timeout},
		opts:   opts,
	}, nil
}

// FileName returns the thumbnail file name for c
func FileName(c *concert.Concert) string {
	day := c.Date.In(concert.Location).Format("2006-01-02")
	name := day + " - " + c.Venue + " - " + c.Title + ".jpg"
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(forbidden, r) {
			return -1
		}
		return r
	}, name)
}

// Make ensures a thumbnail exists for c and points c.ImgURL at it.
// It reports whether the file was already there.
func (g *Generator) Make(ctx context.Context, c *concert.Concert) (cached bool, err error) {
	name := FileName(c)
	path := filepath.Join(g.opts.Dir, name)

	if _, err := os.Stat(path); err == nil {
		c.ImgURL = g.url(name)
		return true, nil
	}

	img, err := g.fetch(ctx, c.ImgURL)
	if err != nil {
		return false, err
	}

	bounds := img.Bounds()
	if bounds.Dx() < g.opts.MinWidth {
		logger.Warn("Small image", logger.Fields{
			"name":  name,
			"width": bounds.Dx(),
		})
	}
	if bounds.Dx() < bounds.Dy() {
		logger.Warn("Portrait image", logger.Fields{"name": name})
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resize(img, g.opts.Size), &jpeg.Options{Quality: g.opts.Quality}); err != nil {
		return false, fmt.Errorf("encoding %s: %w", name, err)
	}
	if err := storage.WriteFile(path, buf.Bytes()); err != nil {
		return false, err
	}

	c.ImgURL = g.url(name)
	return false, nil
}

// MakeAll runs Make for every concert on a bounded pool of workers.
// A failed concert keeps its remote image URL.
func (g *Generator) MakeAll(ctx context.Context, concerts []*concert.Concert) (Counts, error) {
	var (
		mu     sync.Mutex
		counts Counts
	)

	var eg errgroup.Group
	eg.SetLimit(g.opts.Workers)

	for _, c := range concerts {
		if ctx.Err() != nil {
			break
		}
		c := c
		eg.Go(func() error {
			cached, err := g.Make(ctx, c)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				counts.Failed++
				g.opts.Metrics.Thumbnail(metrics.ThumbnailFailed)
				logger.Error("Thumbnail failed", logger.Fields{
					"title": c.Title,
					"venue": c.Venue,
					"url":   c.ImgURL,
				}, err)
			case cached:
				counts.Cached++
				g.opts.Metrics.Thumbnail(metrics.ThumbnailCached)
			default:
				counts.Created++
				g.opts.Metrics.Thumbnail(metrics.ThumbnailCreated)
			}
			return nil
		})
	}

	_ = eg.Wait()

	logger.Info("Thumbnails done", logger.Fields{
		"created": counts.Created,
		"cached":  counts.Cached,
		"failed":  counts.Failed,
	})

	return counts, ctx.Err()
}

// url is the page reference for a thumbnail. The name stays raw on disk but is
// escaped here so characters such as '#' survive as part of the path.
func (g *Generator) url(name string) string {
	escaped := url.PathEscape(name)
	if g.opts.URLPrefix == "" {
		return escaped
	}
	return strings.TrimSuffix(g.opts.URLPrefix, "/") + "/" + escaped
}

// fetch downloads and decodes an image
func (g *Generator) fetch(ctx context.Context, rawURL string) (image.Image, error) {
	if rawURL == "" {
		return nil, errors.New("concert has no image URL")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if g.opts.UserAgent != "" {
		req.Header.Set("User-Agent", g.opts.UserAgent)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d from %s", resp.StatusCode, rawURL)
	}

	img, format, err := image.Decode(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("decoding image from %s: %w", rawURL, err)
	}
	logger.Debug("Fetched image", logger.Fields{"url": rawURL, "format": format})

	return img, nil
}

// resize fits img inside a size x size box keeping its aspect ratio.
// Transparent areas become white since JPEG has no alpha channel.
func resize(img image.Image, size int) image.Image {
	src := img.Bounds()
	w, h := src.Dx(), src.Dy()
	if w > size || h > size {
		if w >= h {
			w, h = size, max(1, h*size/w)
		} else {
			w, h = max(1, w*size/h), size
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, src, draw.Over, nil)
	return dst
}
