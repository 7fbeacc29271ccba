package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// configEnv names the environment variable holding the config file path.
const configEnv = "SARDANA2XLS_CONFIG"

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// options holds the flags of one invocation.
type options struct {
	configPath string
	seedPath   string
}

// NewRootCommand builds the sardana2xls command.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "sardana2xls <pool>",
		Short: "Export a Sardana Pool configuration to a spreadsheet",
		Long: `sardana2xls reads the controllers, motors, pseudo-motors, IO registers,
channels, measurement groups, instruments and doors of a Sardana Pool from
the Tango naming database and writes them into <pool>.xlsx.

The naming database address comes from TANGO_HOST (host:port) or the
tango section of the configuration file.`,
		Version: versionString(),
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd.Context(), opts, args[0])
		},
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "",
		"path to the YAML configuration file (env "+configEnv+")")
	cmd.Flags().StringVar(&opts.seedPath, "seed", "",
		"load a JSON naming database dump into the sqlite backend before exporting")

	return cmd
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	cmd := NewRootCommand()
	err := cmd.ExecuteContext(ctx)
	if err != nil && !isReported(err) {
		// Argument and flag errors do not go through the printer
		fmt.Fprintf(os.Stderr, "Error: %v\n\n%s", err, cmd.UsageString())
	}
	return err
}

// SetVersionInfo sets the version information for the CLI.
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}

func versionString() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)
}

// resolveConfigPath returns the --config flag, falling back to SARDANA2XLS_CONFIG.
// Empty means defaults and environment only.
func (o *options) resolveConfigPath() string {
	if o.configPath != "" {
		return o.configPath
	}
	return os.Getenv(configEnv)
}
