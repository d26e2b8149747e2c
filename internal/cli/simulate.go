package cli

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ivlev/geotour/internal/scheduler"
	"github.com/ivlev/geotour/internal/stage"
	"github.com/ivlev/geotour/internal/system"
	"github.com/ivlev/geotour/internal/tour"
)

// simulationEpoch is the virtual start time of every simulation.
var simulationEpoch = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

type simulateOptions struct {
	script   string
	duration time.Duration
	parked   int
	autoplay bool
	stats    bool
	media    bool
	timeline bool
}

func newSimulateCmd(flags *globalFlags) *cobra.Command {
	opts := &simulateOptions{}

	cmd := &cobra.Command{
		Use:     "simulate",
		Short:   "Run a tour in virtual time and print what the drivers saw",
		GroupID: "tour",
		Long: `Run a tour against in-memory drivers in virtual time.

A script injects user commands at fixed tour times, for example:

  geotour simulate --script "2.5s:pause,4s:play,12s:jump 9" --for 40s`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(cmd, flags, opts)
		},
	}

	cmd.Flags().StringVar(&opts.script, "script", "", "Comma separated <time>:<command> steps")
	cmd.Flags().DurationVar(&opts.duration, "for", time.Minute, "Virtual time to simulate")
	cmd.Flags().IntVar(&opts.parked, "parked", -1, "Start with the camera parked at this waypoint")
	cmd.Flags().BoolVar(&opts.autoplay, "autoplay", true, "Press play at time zero")
	cmd.Flags().BoolVar(&opts.stats, "stats", false, "Print a performance report")
	cmd.Flags().BoolVar(&opts.media, "media", false, "Decode waypoint images from mediaDir")
	cmd.Flags().BoolVar(&opts.timeline, "timeline", true, "Print the driver timeline")
	return cmd
}

func runSimulate(cmd *cobra.Command, flags *globalFlags, opts *simulateOptions) error {
	steps, err := parseScript(opts.script)
	if err != nil {
		return err
	}
	if opts.autoplay {
		steps = append([]scriptStep{{At: 0, Cmd: tour.Command{Kind: tour.CmdPlay}}}, steps...)
	}

	var sim *scheduler.Simulator
	e, err := loadEnv(cmd, flags, func(ev *zerolog.Event) {
		if sim != nil {
			ev.Dur("tour_time", sim.Elapsed())
		}
	})
	if err != nil {
		return err
	}
	sim = scheduler.NewSimulator(simulationEpoch, e.cfg.FrameInterval())

	start, err := e.startPose(opts.parked)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	timeline := stage.NewTimeline(sim.Clock)
	camera := stage.NewCamera(sim.Clock, start, timeline, e.log)

	overlay := stage.NewOverlay(sim.Clock, nil, timeline, e.log)
	if opts.media {
		lib := e.library()
		if err := lib.Preload(cmd.Context(), imageRefs(e)); err != nil {
			return err
		}
		overlay = stage.NewOverlay(sim.Clock, lib, timeline, e.log)
	}

	var changes int
	ctl := e.controller(camera, overlay, sim.Clock, sim.Queue, func(sc tour.StateChange) {
		changes++
		timeline.Add("state", "changed", "playing=%t index=%d", sc.IsPlaying, sc.CurrentIndex)
	})

	wallStart := time.Now()
	for _, step := range steps {
		if step.At > opts.duration {
			break
		}
		sim.AdvanceTo(step.At)
		timeline.Add("user", step.Cmd.String(), "")
		if err := ctl.Apply(step.Cmd); err != nil {
			e.log.Warn().Err(err).Str("command", step.Cmd.String()).Msg("script command failed")
		}
	}
	sim.AdvanceTo(opts.duration)
	wall := time.Since(wallStart)

	printSection(out, fmt.Sprintf("%s: %s simulated", e.store.Title(), opts.duration))
	if opts.timeline {
		if _, err := timeline.WriteTo(out); err != nil {
			return err
		}
		fmt.Fprintln(out)
	}

	st := ctl.State()
	wp, _ := e.store.At(st.CurrentIndex)
	printLabelValue(out, "Current", fmt.Sprintf("%d/%d %s", st.CurrentIndex+1, e.store.Len(), wp.Title))
	printLabelValue(out, "Playing", fmt.Sprintf("%t", st.IsPlaying))
	printLabelValue(out, "Phase", st.Phase.String())
	printLabelValue(out, "State changes", fmt.Sprintf("%d", changes))

	if err := ctl.Err(); err != nil {
		printError(out, err.Error())
	} else {
		printSuccess(out, "simulation finished")
	}

	if opts.stats || e.cfg.ShowStats {
		fmt.Fprint(out, system.Collect(wall, opts.duration).String())
	}
	return nil
}
