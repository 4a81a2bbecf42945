package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/KaiSMsa/Nord-H2UB-dss/internal/config"
	"github.com/KaiSMsa/Nord-H2UB-dss/internal/logging"
	"github.com/KaiSMsa/Nord-H2UB-dss/internal/server"
	"github.com/KaiSMsa/Nord-H2UB-dss/pkg/engine"
)

// app carries the state shared by all commands once flags are parsed.
type app struct {
	configFile string
	cfg        *config.Config
	log        logr.Logger
	flush      func()
}

func main() {
	a := &app{log: logr.Discard(), flush: func() {}}
	rootCmd := newRootCmd(a)
	err := rootCmd.Execute()
	a.flush()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "tankplanner",
		Short:        "Multi-period fuel storage capacity planner for bunkering ports",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "YAML config file")
	pf.String("log-level", "info", "log level: info, debug or trace")
	pf.String("log-format", "console", "log format: console or json")

	rootCmd.AddCommand(solveCmd(a))
	rootCmd.AddCommand(validateCmd(a))
	rootCmd.AddCommand(costCmd(a))
	rootCmd.AddCommand(exportCmd(a))
	rootCmd.AddCommand(rewriteCmd())
	rootCmd.AddCommand(serveCmd(a))
	return rootCmd
}

// setup resolves layered configuration and builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	v := config.New()
	if err := config.BindFlags(v, cmd.Flags()); err != nil {
		return err
	}
	cfg, err := config.Load(v, a.configFile)
	if err != nil {
		return err
	}
	log, flush, err := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		return err
	}
	a.cfg, a.log, a.flush = cfg, log, flush
	cmd.SetContext(logr.NewContext(cmd.Context(), log))
	return nil
}

// addPlannerFlags registers the model and engine flags.
func addPlannerFlags(fs *pflag.FlagSet) {
	fs.String("variant", "single", "model variant: single or multi")
	fs.Int("slots", 0, "tank slots per fuel for the multi variant (0 = 10)")
	fs.String("initial-fuel", "", "fuel already in service at the start (default: first fuel)")
	fs.String("close-bound", "auto", "lifetime closing bound: auto, on or off")
	fs.String("normalize-rate", "auto", "divide the change rate by 100 in transition costs: auto, on or off")
	fs.String("engine", engine.DefaultEngine, "solver engine: bnb or cbc")
	fs.Int("node-limit", engine.DefaultNodeLimit, "branch-and-bound node limit per block")
	fs.Duration("time-limit", 0, "time limit for external engines (0 = none)")
	fs.String("cbc-path", "", "path to the cbc executable")
}

func solveCmd(a *app) *cobra.Command {
	var output, lpFile string
	var summary bool

	cmd := &cobra.Command{
		Use:   "solve [input]",
		Short: "Build and solve the capacity plan and print the result as JSON",
		Long: "Build and solve the capacity plan. The input is a JSON or YAML file, " +
			"a project directory holding input.json or input.yaml, or - for JSON on stdin.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSolve(cmd.Context(), cmd.OutOrStdout(), args[0], solveOutput{
				path:    output,
				lpFile:  lpFile,
				summary: summary,
			})
		},
	}
	addPlannerFlags(cmd.Flags())
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the JSON result to a file instead of stdout")
	cmd.Flags().StringVar(&lpFile, "lp", "", "also write the model in LP format to this file")
	cmd.Flags().BoolVar(&summary, "summary", false, "print a plan table instead of JSON")
	return cmd
}

func validateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [input]",
		Short: "Validate a planning input without solving it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runValidate(cmd.OutOrStdout(), args[0])
		},
	}
	addPlannerFlags(cmd.Flags())
	return cmd
}

func costCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cost [input]",
		Short: "Display the cost tables derived from the input",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCost(cmd.OutOrStdout(), args[0])
		},
	}
	addPlannerFlags(cmd.Flags())
	return cmd
}

func exportCmd(a *app) *cobra.Command {
	var output, dialect string

	cmd := &cobra.Command{
		Use:   "export [input]",
		Short: "Write the planning model in LP format without solving it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runExport(cmd.OutOrStdout(), args[0], output, dialect)
		},
	}
	addPlannerFlags(cmd.Flags())
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&dialect, "dialect", "cplex", "name dialect: cplex (name[i,j]) or strict (name_i_j)")
	return cmd
}

func rewriteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rewrite-lp [input.lp] [output.lp]",
		Short: "Rewrite bracketed variable names name[i,j] to name_i_j",
		Long:  "Rewrite bracketed variable names in an LP file for strict readers. Use - for stdin or stdout.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRewrite(cmd.InOrStdin(), cmd.OutOrStdout(), args[0], args[1])
		},
	}
}

func serveCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the planning HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := a.cfg.PlannerOptions()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return server.New(a.cfg.Addr, opts, a.log).Run(ctx)
		},
	}
	addPlannerFlags(cmd.Flags())
	cmd.Flags().String("addr", ":8080", "listen address")
	return cmd
}
