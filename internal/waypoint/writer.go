package waypoint

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// TourVersion is the format version written into saved tours.
const TourVersion = "1.0"

// ReadTour decodes a tour file. Unknown keys are rejected so a misspelt
// field in a hand-written tour fails loudly instead of reading as zero.
func ReadTour(path string) (*Tour, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)

	var tour Tour
	if err := dec.Decode(&tour); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &tour, nil
}

// Tour returns the store as a tour document.
func (s *Store) Tour() *Tour {
	return &Tour{Version: TourVersion, Title: s.title, Waypoints: s.All()}
}

// Save writes the store to path in canonical form (two-space indent, current
// version). The previous file is replaced only once the new one is complete.
func (s *Store) Save(path string) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(s.Tour()); err != nil {
		return fmt.Errorf("encode tour: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode tour: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
