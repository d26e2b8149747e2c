package cli

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	version = "dev"

	// Colors for help output sections
	groupTitleColor   = color.New(color.FgCyan, color.Bold)
	sectionTitleColor = color.New(color.FgBlue, color.Bold)
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	tourPath   string
	logLevel   string
}

func SetVersion(v string) {
	if v == "" {
		return
	}
	version = v
}

// Execute runs the geotour command line.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:     "geotour",
		Version: version,
		Short:   "Guided map tours with pausable reveal, rotation and flight phases",
		Long: `geotour plays guided tours over an ordered list of map waypoints.

For every waypoint it reveals an image, rotates the camera and then moves on,
and any phase can be paused and resumed with only its remaining time.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}
	rootCmd.SetVersionTemplate("{{.Version}}\n")
	rootCmd.SetHelpFunc(customHelpFunc)

	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "Config file (default ./geotour.yaml)")
	rootCmd.PersistentFlags().StringVar(&flags.tourPath, "tour", "", "Tour file (default: latest in toursDir)")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level: trace, debug, info, warn, error")

	rootCmd.AddGroup(&cobra.Group{ID: "tour", Title: "Tour Playback:"})
	rootCmd.AddGroup(&cobra.Group{ID: "tooling", Title: "Tour Tooling:"})

	rootCmd.AddCommand(
		newPlayCmd(flags),
		newSimulateCmd(flags),
		newValidateCmd(flags),
		newShareCmd(flags),
		&cobra.Command{
			Use:     "version",
			Short:   "Print the geotour version",
			Args:    cobra.NoArgs,
			GroupID: "tooling",
			Run: func(cmd *cobra.Command, args []string) {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), version)
			},
		},
	)
	return rootCmd
}

// customHelpFunc returns a custom help function that colors group titles
func customHelpFunc(cmd *cobra.Command, args []string) {
	var help strings.Builder

	if cmd.Long != "" {
		help.WriteString(cmd.Long)
		help.WriteString("\n\n")
	}

	help.WriteString(sectionTitleColor.Sprint("Usage:"))
	help.WriteString("\n")
	fmt.Fprintf(&help, "  %s\n\n", cmd.UseLine())

	for _, group := range cmd.Groups() {
		help.WriteString(groupTitleColor.Sprint(group.Title))
		help.WriteString("\n")

		for _, c := range cmd.Commands() {
			if c.GroupID == group.ID && !c.Hidden {
				fmt.Fprintf(&help, "  %-11s %s\n", c.Name(), c.Short)
			}
		}
		help.WriteString("\n")
	}

	if cmd.HasAvailableLocalFlags() || cmd.HasAvailablePersistentFlags() {
		help.WriteString(sectionTitleColor.Sprint("Flags:"))
		help.WriteString("\n")
		help.WriteString(cmd.LocalFlags().FlagUsages())
		help.WriteString(cmd.InheritedFlags().FlagUsages())
		help.WriteString("\n")
	}

	if cmd.HasAvailableSubCommands() {
		fmt.Fprintf(&help, "Use \"%s [command] --help\" for more information about a command.\n", cmd.CommandPath())
	}

	fmt.Fprint(cmd.OutOrStdout(), help.String())
}
