package waypoint

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ivlev/geotour/internal/geo"
)

func testWaypoints() []Waypoint {
	return []Waypoint{
		{ID: "colosseum", Center: geo.LonLat{Lon: 12.49223, Lat: 41.89021}, Zoom: 16.5, Pitch: 60, Title: "Colosseum"},
		{ID: "forum", Center: geo.LonLat{Lon: 12.48530, Lat: 41.89247}, Zoom: 16.8, Pitch: 55, Title: "Roman Forum"},
		{ID: "pantheon", Center: geo.LonLat{Lon: 12.47687, Lat: 41.89861}, Zoom: 17.5, Pitch: 60, Title: "Pantheon"},
	}
}

func TestNewStore(t *testing.T) {
	s, err := NewStore("Rome", testWaypoints())
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	if s.Len() != 3 {
		t.Errorf("Expected 3 waypoints, got %d", s.Len())
	}
	if s.Title() != "Rome" {
		t.Errorf("Expected title Rome, got %q", s.Title())
	}

	w, ok := s.At(1)
	if !ok || w.ID != "forum" {
		t.Errorf("At(1) = %q, %v; want forum", w.ID, ok)
	}
	if _, ok := s.At(3); ok {
		t.Error("At(3) should be out of range")
	}
	if _, ok := s.At(-1); ok {
		t.Error("At(-1) should be out of range")
	}

	if got := s.IndexOf("pantheon"); got != 2 {
		t.Errorf("IndexOf(pantheon) = %d, want 2", got)
	}
	if got := s.IndexOf("trevi"); got != -1 {
		t.Errorf("IndexOf(trevi) = %d, want -1", got)
	}
}

func TestStoreIsImmutable(t *testing.T) {
	src := testWaypoints()
	s, err := NewStore("Rome", src)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	src[0].Title = "changed"
	all := s.All()
	all[1].Title = "changed"

	if w, _ := s.At(0); w.Title != "Colosseum" {
		t.Errorf("store shares the caller's slice: %q", w.Title)
	}
	if w, _ := s.At(1); w.Title != "Roman Forum" {
		t.Errorf("All() leaked internal storage: %q", w.Title)
	}
}

func TestNewStoreValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func([]Waypoint) []Waypoint
		want   error
	}{
		{"empty", func([]Waypoint) []Waypoint { return nil }, ErrEmptyTour},
		{"missing id", func(w []Waypoint) []Waypoint { w[0].ID = ""; return w }, ErrInvalidWaypoint},
		{"duplicate id", func(w []Waypoint) []Waypoint { w[2].ID = "forum"; return w }, ErrInvalidWaypoint},
		{"bad latitude", func(w []Waypoint) []Waypoint { w[1].Center.Lat = 95; return w }, geo.ErrInvalidCoordinates},
		{"negative zoom", func(w []Waypoint) []Waypoint { w[1].Zoom = -1; return w }, ErrInvalidWaypoint},
		{"pitch too steep", func(w []Waypoint) []Waypoint { w[2].Pitch = 90; return w }, ErrInvalidWaypoint},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewStore("Rome", tt.mutate(testWaypoints()))
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestNearest(t *testing.T) {
	s, _ := NewStore("Rome", testWaypoints())

	// Camera parked ~100 m from the forum.
	i, ok := s.Nearest(geo.LonLat{Lon: 12.48600, Lat: 41.89200}, 0.002)
	if !ok || i != 1 {
		t.Errorf("Nearest = %d, %v; want 1, true", i, ok)
	}

	// Somewhere over Trastevere.
	if i, ok := s.Nearest(geo.LonLat{Lon: 12.4700, Lat: 41.8890}, 0.002); ok {
		t.Errorf("Nearest should find nothing, got %d", i)
	}
}

func TestNearestPicksClosest(t *testing.T) {
	wps := testWaypoints()
	wps = append(wps, Waypoint{ID: "arch", Center: geo.LonLat{Lon: 12.49080, Lat: 41.88980}, Title: "Arch of Constantine"})
	s, _ := NewStore("Rome", wps)

	// Both the colosseum (index 0) and the arch are inside the threshold;
	// the camera sits almost on the arch.
	i, ok := s.Nearest(geo.LonLat{Lon: 12.49085, Lat: 41.88985}, 0.002)
	if !ok || i != 3 {
		t.Errorf("Nearest = %d, %v; want 3, true", i, ok)
	}
}

func TestCloserThan(t *testing.T) {
	wps := testWaypoints()
	wps = append(wps, Waypoint{ID: "arch", Center: geo.LonLat{Lon: 12.49080, Lat: 41.88980}, Title: "Arch of Constantine"})
	s, _ := NewStore("Rome", wps)

	pairs := s.CloserThan(0.002)
	if len(pairs) != 1 {
		t.Fatalf("Expected 1 close pair, got %d", len(pairs))
	}
	if pairs[0].A != 0 || pairs[0].B != 3 {
		t.Errorf("Unexpected pair %+v", pairs[0])
	}
	if pairs[0].Meters <= 0 || pairs[0].Meters > 200 {
		t.Errorf("Unexpected distance %.1f m", pairs[0].Meters)
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rome.yaml")
	orig, err := NewStore("Rome", testWaypoints())
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	if err := orig.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("Temporary file left behind: %v", err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.Len() != 3 || s.Title() != "Rome" {
		t.Errorf("Loaded %d waypoints titled %q", s.Len(), s.Title())
	}
	if w, _ := s.At(2); w.Center != testWaypoints()[2].Center {
		t.Errorf("Center mismatch: %s vs %s", w.Center, testWaypoints()[2].Center)
	}

	tour, err := ReadTour(path)
	if err != nil {
		t.Fatalf("ReadTour failed: %v", err)
	}
	if tour.Version != TourVersion {
		t.Errorf("Version = %q, want %q", tour.Version, TourVersion)
	}
}

func TestReadTourRejectsUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "typo.yaml")
	data := "title: Rome\nwaypoints:\n  - id: forum\n    centre: {lon: 12.4853, lat: 41.8924}\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadTour(path); err == nil {
		t.Error("Expected an error for the misspelt center key")
	}
}

func TestLoadEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, ErrEmptyTour) {
		t.Errorf("Expected ErrEmptyTour, got %v", err)
	}
}

func TestLoadSampleTour(t *testing.T) {
	s, err := Load(filepath.Join("..", "..", "tours", "rome.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.Len() != 10 {
		t.Errorf("Expected 10 waypoints, got %d", s.Len())
	}
	if pairs := s.CloserThan(0.002); len(pairs) != 0 {
		t.Errorf("Sample tour has ambiguous waypoints: %+v", pairs)
	}
}

func TestFindLatestTour(t *testing.T) {
	dir := t.TempDir()

	files := []string{"paris.yaml", "rome.yml", "berlin.yaml"}
	for i, name := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte("version: \"1.0\"\n"), 0644); err != nil {
			t.Fatal(err)
		}
		modTime := time.Now().Add(time.Duration(i-3) * time.Hour)
		os.Chtimes(path, modTime, modTime)
	}

	latest, err := FindLatestTour(dir)
	if err != nil {
		t.Fatalf("FindLatestTour failed: %v", err)
	}
	if filepath.Base(latest) != "berlin.yaml" {
		t.Errorf("Expected berlin.yaml, got %s", latest)
	}

	if _, err := FindLatestTour(t.TempDir()); err == nil {
		t.Error("Expected error for empty directory")
	}
}
