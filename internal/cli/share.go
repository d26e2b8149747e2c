package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ivlev/geotour/internal/share"
)

func newShareCmd(flags *globalFlags) *cobra.Command {
	var (
		base   string
		qrPath string
		size   int
	)

	cmd := &cobra.Command{
		Use:     "share <waypoint>",
		Short:   "Print a deep link to a waypoint and optionally write a QR code",
		GroupID: "tooling",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd, flags, nil)
			if err != nil {
				return err
			}
			index, err := resolveWaypoint(e.store, args[0])
			if err != nil {
				return err
			}
			if base == "" {
				base = e.cfg.ShareBaseURL
			}

			link, err := share.Link(base, index)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), link)

			if qrPath != "" {
				if err := share.WriteQR(link, qrPath, size); err != nil {
					return err
				}
				e.log.Info().Str("path", qrPath).Int("size", size).Msg("qr code written")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&base, "base", "", "Tour page URL (default shareBaseURL from config)")
	cmd.Flags().StringVar(&qrPath, "qr", "", "Write a QR code PNG to this path")
	cmd.Flags().IntVar(&size, "size", share.DefaultSize, "QR code size in pixels")
	return cmd
}
