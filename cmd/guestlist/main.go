package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"guestlist/internal/config"
	"guestlist/internal/handler"
	"guestlist/internal/logging"
	"guestlist/internal/securestore"
	"guestlist/internal/storage"
)

// app holds everything a command needs once the store is open.
type app struct {
	cfg      *config.Config
	log      zerolog.Logger
	kv       *securestore.Store
	guests   *handler.GuestHandler
	logLevel string
}

func (a *app) open(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	a.cfg = cfg

	level := cfg.LogLevel
	if a.logLevel != "" {
		level = a.logLevel
	}
	a.log = logging.New(cmd.ErrOrStderr(), level, true)

	passphrase, fallback, err := cfg.ResolvePassphrase()
	if err != nil {
		return err
	}
	if fallback {
		a.log.Warn().Msg("GUESTLIST_PASSPHRASE not set, using development passphrase")
	}

	kv, err := securestore.New(cmd.Context(), &securestore.Config{
		Path:       cfg.DBPath(),
		Passphrase: passphrase,
		Logger:     &a.log,
	})
	if err != nil {
		return fmt.Errorf("failed to open guest store: %w", err)
	}
	a.kv = kv
	a.guests = handler.NewGuestHandler(storage.NewStorage(kv, storage.WithLogger(a.log)))
	return nil
}

func (a *app) close(_ *cobra.Command, _ []string) error {
	if a.kv == nil {
		return nil
	}
	err := a.kv.Close()
	a.kv = nil
	return err
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:                "guestlist",
		Short:              "Manage a guest list with RSVP tracking",
		SilenceUsage:       true,
		PersistentPreRunE:  a.open,
		PersistentPostRunE: a.close,
	}
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(
		newAddCmd(a),
		newListCmd(a),
		newStatsCmd(a),
		newDeleteCmd(a),
		newShellCmd(a),
	)
	return root
}

// run executes one command line. The store is closed even when the command
// fails, since cobra skips post-run hooks on error.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	a := &app{}
	defer a.close(nil, nil)

	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.ExecuteContext(ctx)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}
