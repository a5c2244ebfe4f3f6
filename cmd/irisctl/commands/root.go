package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"iris_api/pkg/contextx"
	"iris_api/pkg/logx"
)

func Execute() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return NewRootCommand().ExecuteContext(ctx)
}

func NewRootCommand() *cobra.Command {
	var (
		logLevel  string
		logFormat string
		logCloser io.Closer
	)

	root := &cobra.Command{
		Use:           "irisctl",
		Short:         "Train and check the iris species classifier",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			log, closer, err := logx.NewLogger(logx.Options{
				Level:  logLevel,
				Format: logFormat,
			})
			if err != nil {
				return err
			}

			logCloser = closer
			slog.SetDefault(log)
			cmd.SetContext(contextx.WithLogger(cmd.Context(), log))

			return nil
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if logCloser == nil {
				return nil
			}

			return logCloser.Close()
		},
	}

	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text or json)")

	root.SetErr(os.Stderr)
	root.AddCommand(trainCmd(), smokeCmd())

	return root
}
