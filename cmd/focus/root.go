package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"focusconsole/internal/config"
	"focusconsole/internal/domain/ports"
	"focusconsole/internal/infrastructure/logger"
	"focusconsole/internal/infrastructure/storage"
	"focusconsole/internal/service/connection"
	"focusconsole/internal/service/console"
	"focusconsole/pkg/focus"
)

// Execute разбирает аргументы, запускает консоль и возвращает код завершения.
func Execute(stdin io.Reader, stdout, stderr io.Writer, args ...string) int {
	if args == nil {
		args = []string{}
	}

	exitCode := console.ExitOK
	cmd := newRootCmd(stdin, &exitCode)
	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return console.ExitError
	}
	return exitCode
}

func newRootCmd(stdin io.Reader, exitCode *int) *cobra.Command {
	var (
		quiet      bool
		device     string
		configPath string
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:   "focus",
		Short: "Interactive console for Focus-enabled keyboards",
		Long: `focus opens a serial connection to a keyboard running the Focus plugin,
sends every typed line as a command and prints the response lines until
the device answers with a single ".". Type quit or exit to leave.`,
		Version:       fmt.Sprintf("%s (%s)", version, commit),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.LoadDotEnv(".env"); err != nil {
				return fmt.Errorf("load .env: %w", err)
			}

			explicit := cmd.Flags().Changed("config")
			if !explicit {
				configPath = config.DefaultPath()
			}
			cfg, err := config.Load(configPath, explicit)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("quiet") {
				cfg.Quiet = quiet
			}
			if cmd.Flags().Changed("device") {
				cfg.Device = device
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			go func() {
				// после первого сигнала повторный Ctrl-C завершает процесс сразу
				<-ctx.Done()
				stop()
			}()

			code, err := runConsole(ctx, cfg, stdin, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			*exitCode = code
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "operate quietly, only displaying raw communication")
	cmd.Flags().StringVarP(&device, "device", "d", config.DefaultDevice(), "device to open")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "config file (default "+config.DefaultPath()+")")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "diagnostic log level: debug, info, warn, error, off")

	cmd.AddCommand(newPortsCmd())
	return cmd
}

func newPortsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ports",
		Short: "List available serial ports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return connection.NewConnectionService().WritePorts(cmd.OutOrStdout())
		},
	}
}

func runConsole(ctx context.Context, cfg config.Config, stdin io.Reader, stdout, stderr io.Writer) (int, error) {
	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return console.ExitError, err
	}
	log := logger.NewZeroLogger(stderr, level)

	transport := focus.NewTransport(cfg.Transport(func(msg string) {
		log.Debug("%s", msg)
	}))

	session := console.NewSession(transport, console.NewLineInput(stdin), console.Options{
		Quiet:   cfg.Quiet,
		Out:     stdout,
		Logger:  log,
		History: openHistory(cfg, stdin, log),
	})
	return session.Run(ctx), nil
}

// openHistory открывает историю команд только для интерактивного ввода
func openHistory(cfg config.Config, stdin io.Reader, log ports.Logger) ports.History {
	if cfg.HistoryFile == "" || !isTerminal(stdin) {
		return nil
	}
	history, err := storage.NewFileHistory(cfg.HistoryFile, cfg.HistoryLimit)
	if err != nil {
		log.Warn("History disabled: %v", err)
		return nil
	}
	log.Debug("Loaded %d history entries from %s", len(history.Entries()), cfg.HistoryFile)
	return history
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
