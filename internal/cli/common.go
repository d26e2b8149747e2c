package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ivlev/geotour/internal/clock"
	"github.com/ivlev/geotour/internal/config"
	"github.com/ivlev/geotour/internal/geo"
	"github.com/ivlev/geotour/internal/logging"
	"github.com/ivlev/geotour/internal/media"
	"github.com/ivlev/geotour/internal/reveal"
	"github.com/ivlev/geotour/internal/scheduler"
	"github.com/ivlev/geotour/internal/tour"
	"github.com/ivlev/geotour/internal/waypoint"
)

// env is what every subcommand starts from.
type env struct {
	cfg      *config.Config
	log      zerolog.Logger
	store    *waypoint.Store
	tourPath string
}

// loadEnv reads config, applies flag overrides and loads the tour.
// logContext, when set, is attached to every log event.
func loadEnv(cmd *cobra.Command, flags *globalFlags, logContext func(*zerolog.Event)) (*env, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, err
	}
	if flags.logLevel != "" {
		cfg.LogLevel = flags.logLevel
	}
	if flags.tourPath != "" {
		cfg.TourPath = flags.tourPath
	}
	cfg.BuildVersion = version

	log := logging.New(logging.Options{
		Out:     cmd.ErrOrStderr(),
		Level:   cfg.LogLevel,
		Context: logContext,
	})

	path := cfg.TourPath
	if path == "" {
		path, err = waypoint.FindLatestTour(cfg.ToursDir)
		if err != nil {
			return nil, err
		}
	}

	store, err := waypoint.Load(path)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("tour", path).Int("waypoints", store.Len()).Str("version", cfg.BuildVersion).Msg("tour loaded")

	return &env{cfg: cfg, log: log, store: store, tourPath: path}, nil
}

func (e *env) library() *media.Library {
	return media.NewLibrary(e.cfg.MediaDir, e.cfg.DPI, e.cfg.Workers, e.log)
}

func (e *env) controller(camera tour.Camera, overlay reveal.Overlay, c clock.Clock, s scheduler.Scheduler, onChange func(tour.StateChange)) *tour.Controller {
	return tour.New(e.store, camera, overlay, c, s, tour.Options{
		Timing:           e.cfg.Timing,
		ProximityDegrees: e.cfg.ProximityDegrees,
		Logger:           e.log,
		OnStateChanged:   onChange,
	})
}

// startPose is where the camera sits before the tour starts: parked on
// waypoint index, or an overview of the whole tour when index is negative.
func (e *env) startPose(index int) (waypoint.Pose, error) {
	if index >= 0 {
		wp, ok := e.store.At(index)
		if !ok {
			return waypoint.Pose{}, fmt.Errorf("waypoint %d: tour has %d waypoints", index, e.store.Len())
		}
		return wp.Pose(), nil
	}

	var lon, lat float64
	minZoom := -1.0
	for _, wp := range e.store.All() {
		lon += wp.Center.Lon
		lat += wp.Center.Lat
		if minZoom < 0 || wp.Zoom < minZoom {
			minZoom = wp.Zoom
		}
	}
	n := float64(e.store.Len())
	zoom := minZoom - 3
	if zoom < 0 {
		zoom = 0
	}
	return waypoint.Pose{Center: geo.LonLat{Lon: lon / n, Lat: lat / n}, Zoom: zoom}, nil
}

// resolveWaypoint accepts a waypoint id or index.
func resolveWaypoint(store *waypoint.Store, arg string) (int, error) {
	if i := store.IndexOf(arg); i >= 0 {
		return i, nil
	}
	if i, err := strconv.Atoi(arg); err == nil {
		if _, ok := store.At(i); ok {
			return i, nil
		}
	}
	return 0, fmt.Errorf("no waypoint %q in tour", arg)
}

func printState(w io.Writer, store *waypoint.Store, sc tour.StateChange) {
	wp, _ := store.At(sc.CurrentIndex)
	status := "paused"
	if sc.IsPlaying {
		status = "playing"
	}
	printLabelValue(w, status, fmt.Sprintf("%d/%d %s", sc.CurrentIndex+1, store.Len(), wp.Title))
}
