package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	groups     string
	matrix     string
	employees  string
	logLevel   string
}

func main() {
	var flags globalFlags

	rootCmd := &cobra.Command{
		Use:          "floorplanner",
		Short:        "Place organisational groups on floors by collaboration score",
		SilenceUsage: true,
	}
	addGlobalFlags(rootCmd.PersistentFlags(), &flags)

	rootCmd.AddCommand(validateCmd(&flags))
	rootCmd.AddCommand(topCmd(&flags))
	rootCmd.AddCommand(planCmd(&flags))
	rootCmd.AddCommand(matrixCmd(&flags))
	rootCmd.AddCommand(serveCmd(&flags))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addGlobalFlags(fs *pflag.FlagSet, f *globalFlags) {
	fs.StringVarP(&f.configPath, "config", "c", "floorplanner.yaml", "configuration file")
	fs.StringVar(&f.groups, "groups", "", "group attributes CSV (overrides data.groups)")
	fs.StringVar(&f.matrix, "matrix", "", "collaboration matrix CSV (overrides data.matrix)")
	fs.StringVar(&f.employees, "employees", "", "employee roster CSV (overrides data.employees)")
	fs.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides log.level)")
}

func validateCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load the group and matrix files and report data problems",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runValidate(flags)
		},
	}
}

func topCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "top [group]",
		Short: "Show the strongest collaborators of one group or of every group",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			return runTop(flags, name)
		},
	}
}

func planCmd(flags *globalFlags) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "plan [plan.yaml]",
		Short: "Apply a floor plan and show floor populations and scores",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runPlan(flags, args[0], asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the resulting plan as JSON")
	return cmd
}

func matrixCmd(flags *globalFlags) *cobra.Command {
	var compare []int

	cmd := &cobra.Command{
		Use:   "matrix [plan.yaml]",
		Short: "Show the floor-to-floor collaboration matrix of a plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runMatrix(flags, args[0], compare)
		},
	}

	cmd.Flags().IntSliceVar(&compare, "compare", nil, "compare two floors side by side, e.g. --compare 1,2")
	return cmd
}

func serveCmd(flags *globalFlags) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the planning HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runServe(flags, port)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "HTTP server port (overrides server.port)")
	return cmd
}
