package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pfrederiksen/odense-concerts/internal/concert"
)

func testConcerts() []*concert.Concert {
	return []*concert.Concert{
		{
			Title:  "Lars Lilholt",
			Venue:  "Posten",
			Date:   time.Date(2026, 11, 14, 20, 0, 0, 0, concert.Location),
			Price:  concert.IntPtr(295),
			Desc:   "Jubilæumsturné",
			ImgURL: "images/2026-11-14 - Posten - Lars Lilholt.jpg",
			URL:    "https://postenlive.dk/event/lars-lilholt/",
		},
		{
			Title:   "Tobias Rahim",
			Venue:   "Dexter",
			Date:    time.Date(2026, 12, 1, 0, 0, 0, 0, concert.Location),
			SoldOut: true,
			ImgURL:  "https://dexter.dk/img/rahim.jpg",
			URL:     "https://dexter.dk/event/tobias-rahim/",
		},
	}
}

func TestSaveLoadConcerts(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	want := testConcerts()
	if err := store.SaveConcerts("concerts.json", want); err != nil {
		t.Fatalf("SaveConcerts() error = %v", err)
	}

	got, err := store.LoadConcerts("concerts.json")
	if err != nil {
		t.Fatalf("LoadConcerts() error = %v", err)
	}

	if len(got) != len(want) {
		t.Fatalf("LoadConcerts() returned %d concerts, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].ID() != want[i].ID() {
			t.Errorf("concert %d: ID = %s, want %s", i, got[i].ID(), want[i].ID())
		}
		if !got[i].Date.Equal(want[i].Date) {
			t.Errorf("concert %d: Date = %v, want %v", i, got[i].Date, want[i].Date)
		}
		if got[i].SoldOut != want[i].SoldOut {
			t.Errorf("concert %d: SoldOut = %v, want %v", i, got[i].SoldOut, want[i].SoldOut)
		}
	}
	if got[0].Price == nil || *got[0].Price != 295 {
		t.Errorf("Price = %v, want 295", got[0].Price)
	}
	if got[1].Price != nil {
		t.Errorf("sold out concert Price = %v, want nil", *got[1].Price)
	}

	// No temp files may be left behind.
	entries, err := os.ReadDir(store.Dir())
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("data dir has %d entries, want only the snapshot", len(entries))
	}
}

func TestLoadConcerts_NotFound(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	_, err = store.LoadConcerts("concerts.json")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("LoadConcerts() error = %v, want ErrNotFound", err)
	}
}

func TestLoadConcerts_Malformed(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "concerts.json"), []byte(`[{"title": "x", "date": "soon"}]`), 0644); err != nil {
		t.Fatal(err)
	}

	_, err = store.LoadConcerts("concerts.json")
	if err == nil {
		t.Fatal("LoadConcerts() expected error for malformed date")
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("malformed snapshot must not be reported as missing")
	}
}

func TestFindByID(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	concerts := testConcerts()
	if err := store.SaveConcerts("concerts.json", concerts); err != nil {
		t.Fatalf("SaveConcerts() error = %v", err)
	}

	tests := []struct {
		name      string
		id        string
		wantTitle string
		wantErr   error
	}{
		{"first concert", concerts[0].ID(), "Lars Lilholt", nil},
		{"second concert", concerts[1].ID(), "Tobias Rahim", nil},
		{"unknown id", "nonexistent-id", "", ErrConcertNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.FindByID("concerts.json", tt.id)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("FindByID() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("FindByID() error = %v", err)
			}
			if got.Title != tt.wantTitle {
				t.Errorf("FindByID() title = %q, want %q", got.Title, tt.wantTitle)
			}
		})
	}
}

func TestLoadExtra(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "extra.json")
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, concert.Location)

	t.Run("missing file yields no concerts", func(t *testing.T) {
		got, err := LoadExtra(path, now)
		if err != nil {
			t.Fatalf("LoadExtra() error = %v", err)
		}
		if len(got) != 0 {
			t.Errorf("LoadExtra() returned %d concerts, want 0", len(got))
		}
	})

	t.Run("past concerts are dropped", func(t *testing.T) {
		data := `[
  {"title": "Gammel koncert", "venue": "Kansas City", "date": "2026-10-01T20:00:00", "price": 100, "sold_out": false, "desc": "", "img_url": "https://example.com/a.jpg", "url": "https://example.com/a"},
  {"title": "Ny koncert", "venue": "Kansas City", "date": "2026-11-01T20:00:00", "price": null, "sold_out": false, "desc": "", "img_url": "https://example.com/b.jpg", "url": "https://example.com/b"}
]`
		if err := os.WriteFile(path, []byte(data), 0644); err != nil {
			t.Fatal(err)
		}

		got, err := LoadExtra(path, now)
		if err != nil {
			t.Fatalf("LoadExtra() error = %v", err)
		}
		if len(got) != 1 || got[0].Title != "Ny koncert" {
			t.Errorf("LoadExtra() = %v, want only 'Ny koncert'", got)
		}
	})

	t.Run("invalid JSON is an error", func(t *testing.T) {
		if err := os.WriteFile(path, []byte("{"), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadExtra(path, now); err == nil {
			t.Error("LoadExtra() expected error for invalid JSON")
		}
	})
}

func TestWriteFile_Replaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site", "index.html")

	if err := WriteFile(path, []byte("first")); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if err := WriteFile(path, []byte("second")); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "second" {
		t.Errorf("file content = %q, want %q", data, "second")
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	got, err := ExpandHome("~/concerts")
	if err != nil {
		t.Fatalf("ExpandHome() error = %v", err)
	}
	if want := filepath.Join(home, "concerts"); got != want {
		t.Errorf("ExpandHome() = %q, want %q", got, want)
	}

	got, err = ExpandHome("data")
	if err != nil || got != "data" {
		t.Errorf("ExpandHome(relative) = %q, %v", got, err)
	}
}
