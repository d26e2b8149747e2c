package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ivlev/geotour/internal/bridge"
	"github.com/ivlev/geotour/internal/clock"
	"github.com/ivlev/geotour/internal/scheduler"
	"github.com/ivlev/geotour/internal/stage"
	"github.com/ivlev/geotour/internal/tour"
)

type playOptions struct {
	link     string
	parked   int
	autoplay bool
	json     bool
	media    bool
}

func newPlayCmd(flags *globalFlags) *cobra.Command {
	opts := &playOptions{}

	cmd := &cobra.Command{
		Use:     "play",
		Short:   "Play a tour in real time",
		GroupID: "tour",
		Long: `Play a tour in real time on an in-memory map stage.

Commands are read from stdin, one per line, either as text
(play, pause, toggle, next, prev, reset, jump N) or as JSON messages from an
embedding page ({"type":"directNavigate","index":3}). Ctrl-C exits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return runPlay(ctx, cmd, flags, opts)
		},
	}

	cmd.Flags().StringVar(&opts.link, "link", "", "Deep link to open, e.g. https://host/tour?waypoint=3")
	cmd.Flags().IntVar(&opts.parked, "parked", -1, "Start with the camera parked at this waypoint")
	cmd.Flags().BoolVar(&opts.autoplay, "autoplay", true, "Start playing immediately")
	cmd.Flags().BoolVar(&opts.json, "json", false, "Print state changes as bridge JSON messages")
	cmd.Flags().BoolVar(&opts.media, "media", false, "Decode waypoint images from mediaDir")
	return cmd
}

func runPlay(ctx context.Context, cmd *cobra.Command, flags *globalFlags, opts *playOptions) error {
	e, err := loadEnv(cmd, flags, nil)
	if err != nil {
		return err
	}

	parked := opts.parked
	if opts.link != "" {
		i, ok, err := bridge.ParseDeepLink(opts.link)
		if err != nil {
			return err
		}
		if ok {
			parked = i
		}
	}
	start, err := e.startPose(parked)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	rc := &clock.RealClock{}
	loop := scheduler.NewLoop(rc, e.cfg.FPS)
	camera := stage.NewCamera(rc, start, nil, e.log)

	overlay := stage.NewOverlay(rc, nil, nil, e.log)
	if opts.media {
		lib := e.library()
		if err := lib.Preload(ctx, imageRefs(e)); err != nil {
			return err
		}
		overlay = stage.NewOverlay(rc, lib, nil, e.log)
	}

	ctl := e.controller(camera, overlay, rc, loop, func(sc tour.StateChange) {
		if opts.json {
			data, err := bridge.Encode(sc)
			if err == nil {
				fmt.Fprintln(out, string(data))
			}
			return
		}
		printState(out, e.store, sc)
	})

	printSection(out, fmt.Sprintf("%s (%d waypoints)", e.store.Title(), e.store.Len()))

	if opts.autoplay {
		if err := loop.Post(ctx, func() { apply(ctl, tour.Command{Kind: tour.CmdPlay}, e.log) }); err != nil {
			return err
		}
	}
	go readCommands(ctx, cmd.InOrStdin(), loop, ctl, e.log)

	if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// readCommands feeds stdin lines to the loop until EOF or ctx is done.
func readCommands(ctx context.Context, in io.Reader, loop *scheduler.Loop, ctl *tour.Controller, log zerolog.Logger) {
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		cmd, err := parseLine(line)
		if err != nil {
			log.Warn().Err(err).Str("line", line).Msg("ignoring command")
			continue
		}
		if err := loop.Post(ctx, func() { apply(ctl, cmd, log) }); err != nil {
			return
		}
	}
}

// parseLine accepts a text command or a bridge JSON message.
func parseLine(line string) (tour.Command, error) {
	if bridge.IsMessage(line) {
		return bridge.Decode([]byte(line))
	}
	return tour.ParseCommand(line)
}

func apply(ctl *tour.Controller, cmd tour.Command, log zerolog.Logger) {
	if err := ctl.Apply(cmd); err != nil {
		log.Error().Err(err).Str("command", cmd.String()).Msg("command failed")
	}
}

func imageRefs(e *env) []string {
	var refs []string
	for _, wp := range e.store.All() {
		if wp.Image != "" {
			refs = append(refs, wp.Image)
		}
	}
	return refs
}
