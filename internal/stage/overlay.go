package stage

import (
	"image"
	"time"

	"github.com/rs/zerolog"

	"github.com/ivlev/geotour/internal/animator"
	"github.com/ivlev/geotour/internal/clock"
	"github.com/ivlev/geotour/internal/media"
)

// Overlay is an image layer whose opacity follows linear transitions in time.
type Overlay struct {
	clock    clock.Clock
	log      zerolog.Logger
	timeline *Timeline
	library  *media.Library

	image   string
	picture image.Image
	visible bool

	from, to float64
	start    time.Time
	duration time.Duration
}

// NewOverlay creates a hidden overlay. With a library, Show decodes the image
// and fails when it cannot be loaded.
func NewOverlay(c clock.Clock, library *media.Library, timeline *Timeline, log zerolog.Logger) *Overlay {
	return &Overlay{
		clock:    c,
		log:      log.With().Str("component", "overlay").Logger(),
		timeline: timeline,
		library:  library,
	}
}

func (o *Overlay) Show(ref string) error {
	var pic image.Image
	if o.library != nil && ref != "" {
		img, err := o.library.Open(ref)
		if err != nil {
			return err
		}
		pic = img
	}

	o.image = ref
	o.picture = pic
	o.visible = true
	o.from, o.to, o.duration = 0, 0, 0
	o.start = o.clock.Now()

	o.log.Debug().Str("image", ref).Msg("show")
	o.timeline.Add("overlay", "show", "%s", ref)
	return nil
}

func (o *Overlay) SetOpacity(opacity float64, transition time.Duration) error {
	o.from = o.Opacity()
	o.to = animator.Clamp01(opacity)
	o.start = o.clock.Now()
	o.duration = transition

	o.log.Debug().Float64("from", o.from).Float64("to", o.to).Dur("transition", transition).Msg("opacity")
	o.timeline.Add("overlay", "opacity", "%.2f -> %.2f over %s", o.from, o.to, transition)
	return nil
}

func (o *Overlay) Hide() error {
	o.visible = false
	o.from, o.to, o.duration = 0, 0, 0
	o.log.Debug().Str("image", o.image).Msg("hide")
	o.timeline.Add("overlay", "hide", "%s", o.image)
	return nil
}

// Opacity returns the opacity at the current time; 0 when hidden.
func (o *Overlay) Opacity() float64 {
	if !o.visible {
		return 0
	}
	if o.duration <= 0 {
		return o.to
	}
	t := float64(clock.Since(o.clock, o.start)) / float64(o.duration)
	return animator.Lerp(o.from, o.to, animator.Linear(t))
}

func (o *Overlay) Visible() bool { return o.visible }

func (o *Overlay) Image() string { return o.image }

// Picture is the decoded image, or nil without a library.
func (o *Overlay) Picture() image.Image { return o.picture }
