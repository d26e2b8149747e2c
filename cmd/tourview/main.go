// Command tourview plays a tour in a window. The map is a plain projection
// of the waypoints; the camera, its bearing and the image overlay are drawn
// from the same stage drivers the CLI uses.
package main

import (
	"errors"
	"flag"
	"fmt"
	"image/color"
	"math"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/rs/zerolog"

	"github.com/ivlev/geotour/internal/clock"
	"github.com/ivlev/geotour/internal/config"
	"github.com/ivlev/geotour/internal/geo"
	"github.com/ivlev/geotour/internal/logging"
	"github.com/ivlev/geotour/internal/media"
	"github.com/ivlev/geotour/internal/scheduler"
	"github.com/ivlev/geotour/internal/stage"
	"github.com/ivlev/geotour/internal/tour"
	"github.com/ivlev/geotour/internal/waypoint"
)

const (
	screenWidth  = 960
	screenHeight = 640
	margin       = 60
)

var (
	waypointColor = color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}
	currentColor  = color.RGBA{R: 0xff, G: 0xc0, B: 0x30, A: 0xff}
	cameraColor   = color.RGBA{R: 0x30, G: 0xa0, B: 0xff, A: 0xff}
	routeColor    = color.RGBA{R: 0x50, G: 0x50, B: 0x50, A: 0xff}
)

// Game adapts the tour controller to ebiten's update/draw loop. Update pumps
// the scheduler queue, so every tour callback runs on ebiten's goroutine.
type Game struct {
	store   *waypoint.Store
	ctl     *tour.Controller
	queue   *scheduler.Queue
	camera  *stage.Camera
	overlay *stage.Overlay
	log     zerolog.Logger

	min, max geo.LonLat
	pictures map[string]*ebiten.Image
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}

	var cmd *tour.Command
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		cmd = &tour.Command{Kind: tour.CmdToggle}
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowRight):
		cmd = &tour.Command{Kind: tour.CmdNext}
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft):
		cmd = &tour.Command{Kind: tour.CmdPrevious}
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		cmd = &tour.Command{Kind: tour.CmdReset}
	default:
		for k := ebiten.Key0; k <= ebiten.Key9; k++ {
			if inpututil.IsKeyJustPressed(k) {
				cmd = &tour.Command{Kind: tour.CmdJumpTo, Index: int(k - ebiten.Key0)}
				break
			}
		}
	}
	if cmd != nil {
		if err := g.ctl.Apply(*cmd); err != nil {
			g.log.Error().Err(err).Str("command", cmd.String()).Msg("command failed")
		}
	}

	g.queue.Pump()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	st := g.ctl.State()

	all := g.store.All()
	for i := 1; i < len(all); i++ {
		x0, y0 := g.project(all[i-1].Center)
		x1, y1 := g.project(all[i].Center)
		vector.StrokeLine(screen, x0, y0, x1, y1, 1, routeColor, true)
	}
	for i, wp := range all {
		x, y := g.project(wp.Center)
		clr := waypointColor
		if i == st.CurrentIndex {
			clr = currentColor
		}
		vector.DrawFilledRect(screen, x-4, y-4, 8, 8, clr, true)
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%d %s", i, wp.Title), int(x)+8, int(y)-8)
	}

	// Camera position with a bearing needle. Bearing is clockwise from north.
	pose := g.camera.Pose()
	cx, cy := g.project(pose.Center)
	rad := pose.Bearing * math.Pi / 180
	vector.StrokeLine(screen, cx, cy, cx+float32(24*math.Sin(rad)), cy-float32(24*math.Cos(rad)), 3, cameraColor, true)
	vector.DrawFilledRect(screen, cx-3, cy-3, 6, 6, cameraColor, true)

	g.drawOverlay(screen)

	status := "paused"
	if st.IsPlaying {
		status = "playing"
	}
	ebitenutil.DebugPrint(screen, fmt.Sprintf(
		"%s  %d/%d  phase=%s  zoom=%.1f bearing=%.0f\nSPACE play/pause  <- -> step  0-9 jump  R reset  Q quit",
		status, st.CurrentIndex+1, g.store.Len(), st.Phase, pose.Zoom, pose.Bearing))
}

func (g *Game) drawOverlay(screen *ebiten.Image) {
	if !g.overlay.Visible() {
		return
	}
	alpha := float32(g.overlay.Opacity())
	if alpha <= 0 {
		return
	}

	w, h := float32(screenWidth/3), float32(screenHeight/3)
	x, y := float32(screenWidth)-w-16, float32(screenHeight)-h-16

	pic := g.picture()
	if pic == nil {
		vector.DrawFilledRect(screen, x, y, w, h, color.RGBA{R: 0xf0, G: 0xf0, B: 0xf0, A: uint8(alpha * 0xff)}, false)
		ebitenutil.DebugPrintAt(screen, g.overlay.Image(), int(x)+8, int(y)+8)
		return
	}

	b := pic.Bounds()
	scale := math.Min(float64(w)/float64(b.Dx()), float64(h)/float64(b.Dy()))
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleAlpha(alpha)
	screen.DrawImage(pic, op)
}

func (g *Game) picture() *ebiten.Image {
	src := g.overlay.Picture()
	if src == nil {
		return nil
	}
	ref := g.overlay.Image()
	if img, ok := g.pictures[ref]; ok {
		return img
	}
	img := ebiten.NewImageFromImage(src)
	g.pictures[ref] = img
	return img
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

// project maps a position into the window, keeping the tour's bounding box
// inside the margins.
func (g *Game) project(p geo.LonLat) (float32, float32) {
	spanX := math.Max(g.max.Lon-g.min.Lon, 1e-6)
	spanY := math.Max(g.max.Lat-g.min.Lat, 1e-6)
	scale := math.Min((screenWidth-2*margin)/spanX, (screenHeight-2*margin)/spanY)

	x := margin + (p.Lon-g.min.Lon)*scale
	y := screenHeight - margin - (p.Lat-g.min.Lat)*scale
	return float32(x), float32(y)
}

func bounds(store *waypoint.Store) (lo, hi geo.LonLat) {
	for i, wp := range store.All() {
		if i == 0 {
			lo, hi = wp.Center, wp.Center
			continue
		}
		lo.Lon = math.Min(lo.Lon, wp.Center.Lon)
		lo.Lat = math.Min(lo.Lat, wp.Center.Lat)
		hi.Lon = math.Max(hi.Lon, wp.Center.Lon)
		hi.Lat = math.Max(hi.Lat, wp.Center.Lat)
	}
	return lo, hi
}

func main() {
	configPath := flag.String("config", "", "Config file (default ./geotour.yaml)")
	tourPath := flag.String("tour", "", "Tour file (default: latest in toursDir)")
	withMedia := flag.Bool("media", false, "Decode waypoint images from mediaDir")
	flag.Parse()

	logger := logging.New(logging.Options{Out: os.Stderr, Level: "info"})
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("config")
	}
	logger = logging.New(logging.Options{Out: os.Stderr, Level: cfg.LogLevel})

	path := *tourPath
	if path == "" {
		path = cfg.TourPath
	}
	if path == "" {
		if path, err = waypoint.FindLatestTour(cfg.ToursDir); err != nil {
			logger.Fatal().Err(err).Str("dir", cfg.ToursDir).Msg("no tour")
		}
	}
	store, err := waypoint.Load(path)
	if err != nil {
		logger.Fatal().Err(err).Str("tour", path).Msg("load tour")
	}

	rc := &clock.RealClock{}
	queue := scheduler.NewQueue(rc)
	first, _ := store.At(0)
	camera := stage.NewCamera(rc, first.Pose(), nil, logger)

	var lib *media.Library
	if *withMedia {
		lib = media.NewLibrary(cfg.MediaDir, cfg.DPI, cfg.Workers, logger)
	}
	overlay := stage.NewOverlay(rc, lib, nil, logger)

	ctl := tour.New(store, camera, overlay, rc, queue, tour.Options{
		Timing:           cfg.Timing,
		ProximityDegrees: cfg.ProximityDegrees,
		Logger:           logger,
		OnStateChanged: func(sc tour.StateChange) {
			logger.Info().Bool("playing", sc.IsPlaying).Int("index", sc.CurrentIndex).Msg("state changed")
		},
	})

	lo, hi := bounds(store)
	game := &Game{
		store:    store,
		ctl:      ctl,
		queue:    queue,
		camera:   camera,
		overlay:  overlay,
		log:      logger,
		min:      lo,
		max:      hi,
		pictures: make(map[string]*ebiten.Image),
	}

	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle(store.Title())
	ebiten.SetTPS(cfg.FPS)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		logger.Fatal().Err(err).Msg("viewer stopped")
	}
}
