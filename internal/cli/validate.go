package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ivlev/geotour/internal/geo"
)

func newValidateCmd(flags *globalFlags) *cobra.Command {
	var (
		media bool
		write string
	)

	cmd := &cobra.Command{
		Use:     "validate",
		Short:   "Check a tour file and list its waypoints",
		GroupID: "tooling",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd, flags, nil)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			printSection(out, fmt.Sprintf("%s (%s)", e.store.Title(), e.tourPath))
			for i, wp := range e.store.All() {
				printLabelValue(out, fmt.Sprintf("%2d %s", i, wp.ID),
					fmt.Sprintf("%s  %s  z%.1f p%.0f b%.0f  %s", wp.Title, wp.Center, wp.Zoom, wp.Pitch, wp.Bearing, wp.Image))
			}
			fmt.Fprintln(out)

			// Neighbours inside the parking threshold make "is the camera
			// already here" ambiguous on first play.
			pairs := e.store.CloserThan(e.cfg.ProximityDegrees)
			for _, p := range pairs {
				a, _ := e.store.At(p.A)
				b, _ := e.store.At(p.B)
				printWarning(out, fmt.Sprintf("%s and %s are %.0f m apart, inside the %.4f° parking threshold",
					a.ID, b.ID, p.Meters, e.cfg.ProximityDegrees))
			}

			if media {
				lib := e.library()
				if err := lib.Preload(cmd.Context(), imageRefs(e)); err != nil {
					return err
				}
				printSuccess(out, fmt.Sprintf("%d images decoded", lib.Cached()))
			}

			if write != "" {
				if err := e.store.Save(write); err != nil {
					return err
				}
				printSuccess(out, fmt.Sprintf("normalised tour written to %s", write))
			}

			first, _ := e.store.At(0)
			last, _ := e.store.At(e.store.Len() - 1)
			printSuccess(out, fmt.Sprintf("%d waypoints, %.1f km from first to last",
				e.store.Len(), geo.Meters(first.Center, last.Center)/1000))
			return nil
		},
	}

	cmd.Flags().BoolVar(&media, "media", false, "Also decode every referenced image")
	cmd.Flags().StringVar(&write, "write", "", "Write the validated tour in canonical form to this path")
	return cmd
}
