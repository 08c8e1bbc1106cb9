package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"tm/config"
	"tm/domain/projection"
	"tm/infra/wal"
	"tm/logging"
	"tm/service"
)

// app holds what a single invocation loads: config, logger, and the task
// service, which is opened (and the log replayed) only by commands that
// need it.
type app struct {
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *slog.Logger
	store  wal.Log
	svc    *service.TaskService
}

func newRootCmd(a *app, version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "tm",
		Short: "tm - task time tracker",
		Long: `tm records when tasks are started and stopped in an append-only log
and summarizes the time spent on them.

Every run replays the whole log to rebuild task state.`,
		Args:              cobra.ArbitraryArgs,
		RunE:              a.runDispatch,
		PersistentPreRunE: a.load,
		SilenceUsage:      true,
		SilenceErrors:     true,
		Version:           version,
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file (default $HOME/.config/tm/config.yaml)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(a.startCmd())
	root.AddCommand(a.stopCmd())
	root.AddCommand(a.renameCmd())
	root.AddCommand(a.describeCmd())
	root.AddCommand(a.sizeCmd())
	root.AddCommand(a.deleteCmd())
	root.AddCommand(a.summaryCmd())
	root.AddCommand(a.exportCmd())
	root.AddCommand(a.configCmd())
	return root
}

// Execute runs the command line and reports any error on stderr.
func Execute(version string) error {
	return run(context.Background(), version, os.Args[1:], os.Stdout, os.Stderr)
}

func run(ctx context.Context, version string, args []string, stdout, stderr io.Writer) error {
	a := &app{}
	root := newRootCmd(a, version)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if cerr := a.close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
	}
	return err
}

func (a *app) load(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.verbose {
		cfg.Log.Level = "debug"
	}
	a.cfg = cfg
	a.logger = logging.New(cmd.ErrOrStderr(), logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
	return nil
}

// service opens the log and replays it on first use.
func (a *app) service(ctx context.Context) (*service.TaskService, error) {
	if a.svc != nil {
		return a.svc, nil
	}
	store, err := wal.New(a.cfg.WAL())
	if err != nil {
		return nil, err
	}

	policy := projection.SkipInconsistent
	if a.cfg.Replay.Strict {
		policy = projection.AbortOnInconsistency
	}
	svc, err := service.Open(ctx, store, service.Options{Policy: policy, Logger: a.logger})
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	a.store, a.svc = store, svc
	return svc, nil
}

func (a *app) close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}

// runDispatch handles names that are not subcommands so unknown commands
// are reported the same way the service rejects them.
func (a *app) runDispatch(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}
	svc, err := a.service(cmd.Context())
	if err != nil {
		return err
	}
	c, err := svc.Execute(cmd.Context(), args[0], args[1:])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), confirmation(c))
	return nil
}
