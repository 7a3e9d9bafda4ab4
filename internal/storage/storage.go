package storage

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pfrederiksen/odense-concerts/internal/concert"
)

var (
	// ErrNotFound is returned when a snapshot has not been written yet.
	ErrNotFound = errors.New("snapshot not found")
	// ErrConcertNotFound is returned by FindByID.
	ErrConcertNotFound = errors.New("concert not found")
)

// Store handles persistence of concert snapshots
type Store struct {
	dataDir string
}

// New creates a Store rooted at dataDir, creating the directory if needed
func New(dataDir string) (*Store, error) {
	dataDir, err := ExpandHome(dataDir)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Store{
		dataDir: dataDir,
	}, nil
}

// ExpandHome expands a leading ~/ to the user's home directory
func ExpandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, path[2:]), nil
}

// Dir returns the data directory
func (s *Store) Dir() string {
	return s.dataDir
}

// Path returns the location of a snapshot. Absolute names are used as is.
func (s *Store) Path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.dataDir, name)
}

// LoadConcerts loads a snapshot from disk
func (s *Store) LoadConcerts(name string) ([]*concert.Concert, error) {
	path := s.Path(name)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	concerts, err := concert.Read(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing snapshot %s: %w", path, err)
	}
	return concerts, nil
}

// SaveConcerts writes a snapshot to disk, replacing the previous one atomically
func (s *Store) SaveConcerts(name string, concerts []*concert.Concert) error {
	var buf bytes.Buffer
	if err := concert.Write(&buf, concerts); err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	if err := WriteFile(s.Path(name), buf.Bytes()); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return nil
}

// FindByID retrieves a concert by ID from a snapshot
func (s *Store) FindByID(name, id string) (*concert.Concert, error) {
	concerts, err := s.LoadConcerts(name)
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}

	for _, c := range concerts {
		if c.ID() == id {
			return c, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrConcertNotFound, id)
}

// LoadExtra reads the hand-maintained concert file. A missing file yields no
// concerts; concerts whose date lies before now are dropped.
func LoadExtra(path string, now time.Time) ([]*concert.Concert, error) {
	path, err := ExpandHome(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []*concert.Concert{}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	all, err := concert.Read(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	upcoming := make([]*concert.Concert, 0, len(all))
	for _, c := range all {
		if !c.Date.Before(now) {
			upcoming = append(upcoming, c)
		}
	}
	return upcoming, nil
}

// WriteFile writes data to a temporary file beside path and renames it into place
func WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
