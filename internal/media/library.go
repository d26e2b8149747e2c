// Package media resolves waypoint image refs into decoded images.
//
// A ref is a file path relative to the media directory, optionally followed
// by "#page" to pick a 1-based page of a PDF: "brochure.pdf#3".
package media

import (
	"context"
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

var ErrBadRef = errors.New("invalid media ref")

// Ref is a parsed image reference. Page is 0-based.
type Ref struct {
	Path string
	Page int
}

func (r Ref) String() string {
	if r.Page == 0 {
		return r.Path
	}
	return fmt.Sprintf("%s#%d", r.Path, r.Page+1)
}

func ParseRef(s string) (Ref, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Ref{}, fmt.Errorf("%w: empty", ErrBadRef)
	}

	path, page, found := strings.Cut(s, "#")
	if !found {
		return Ref{Path: s}, nil
	}
	n, err := strconv.Atoi(page)
	if err != nil || n < 1 || path == "" {
		return Ref{}, fmt.Errorf("%w: %q", ErrBadRef, s)
	}
	return Ref{Path: path, Page: n - 1}, nil
}

// Library decodes and caches images. It is safe for concurrent use.
type Library struct {
	dir     string
	dpi     int
	workers int
	log     zerolog.Logger

	mu    sync.Mutex
	cache map[Ref]image.Image
}

func NewLibrary(dir string, dpi, workers int, log zerolog.Logger) *Library {
	if workers <= 0 {
		workers = 1
	}
	return &Library{
		dir:     dir,
		dpi:     dpi,
		workers: workers,
		log:     log.With().Str("component", "media").Logger(),
		cache:   make(map[Ref]image.Image),
	}
}

// Open returns the decoded image for ref, decoding it on first use.
func (l *Library) Open(ref string) (image.Image, error) {
	r, err := ParseRef(ref)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	img, ok := l.cache[r]
	l.mu.Unlock()
	if ok {
		return img, nil
	}

	img, err = l.render(r)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", r, err)
	}

	l.mu.Lock()
	l.cache[r] = img
	l.mu.Unlock()
	return img, nil
}

// Preload decodes every ref with at most workers decodes in flight and
// returns the first error.
func (l *Library) Preload(ctx context.Context, refs []string) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(l.workers)

	for _, ref := range refs {
		if ref == "" {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			img, err := l.Open(ref)
			if err != nil {
				return err
			}
			b := img.Bounds()
			l.log.Debug().Str("ref", ref).Int("width", b.Dx()).Int("height", b.Dy()).Msg("preloaded")
			return nil
		})
	}
	return g.Wait()
}

// Cached returns the number of decoded images held.
func (l *Library) Cached() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.cache)
}

func (l *Library) render(r Ref) (image.Image, error) {
	path := r.Path
	if !filepath.IsAbs(path) {
		path = filepath.Join(l.dir, path)
	}

	src, err := OpenSource(path)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	if r.Page >= src.PageCount() {
		return nil, fmt.Errorf("%w: page %d of %d", ErrBadRef, r.Page+1, src.PageCount())
	}
	return src.RenderPage(r.Page, l.dpi)
}
