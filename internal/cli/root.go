// Package cli defines the linegroup-mcp command tree.
//
// The root command runs the MCP server on stdio. Subcommands group
// segments from JSON without an MCP client and print build information.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ironsheep/line-grouping-mcp/internal/config"
	"github.com/ironsheep/line-grouping-mcp/internal/logging"
	"github.com/ironsheep/line-grouping-mcp/internal/server"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// rootOptions holds global CLI flags.
type rootOptions struct {
	configPath string
	logLevel   string
}

// app carries the dependencies built by the root pre-run hook.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
}

func (a *app) init(opts *rootOptions) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if opts.logLevel != "" {
		if _, err := logging.ParseLevel(opts.logLevel); err != nil {
			return err
		}
		cfg.Log.Level = opts.logLevel
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("logger initialization failed: %w", err)
	}

	a.cfg = cfg
	a.logger = logger
	return nil
}

func (a *app) sync() {
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

// NewRootCommand creates the root command with its flags and subcommands.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}
	a := &app{}

	cmd := &cobra.Command{
		Use:   "linegroup-mcp",
		Short: "MCP server that groups line segments by proximity and orientation",
		Long: "linegroup-mcp detects straight line segments in images and groups them\n" +
			"into lines, e.g. lane-marking dashes into lanes. Run without a\n" +
			"subcommand it serves MCP over stdin/stdout.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(opts)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.sync()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), a)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "config file path (YAML)")
	pf.StringVar(&opts.logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	cmd.AddCommand(
		newServeCommand(a),
		newGroupCommand(a),
		newVersionCommand(),
	)
	return cmd
}

// Execute runs the command tree with ctx, which cancels the server.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

func newServeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve MCP over stdin/stdout (the default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), a)
		},
	}
}

func runServe(ctx context.Context, a *app) error {
	server.Version = Version
	a.logger.Info("starting line grouping MCP server",
		zap.String("version", Version),
		zap.String("commit", GitCommit),
		zap.String("relation", a.cfg.Grouping.Relation),
		zap.Float64("radius", a.cfg.Grouping.Radius),
		zap.Float64("angle_threshold", a.cfg.Grouping.AngleThreshold))

	srv := server.New(a.cfg, a.logger)
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		// No config or logger needed.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		PersistentPostRun: func(cmd *cobra.Command, args []string) {},
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "linegroup-mcp %s\n", Version)
			fmt.Fprintf(out, "  Build time: %s\n", BuildDate)
			fmt.Fprintf(out, "  Git commit: %s\n", GitCommit)
		},
	}
}
