package cmd

import (
	"context"
	"os"

	"github.com/oseayemenre/bookstore/internal/logger"
	"github.com/spf13/cobra"
)

func Run() error {
	ctx := context.Background()

	cmd := &cobra.Command{
		Use:   "bookstore",
		Short: "online bookstore api, event worker and admin tooling",
	}

	cmd.AddCommand(HTTPCommand(ctx))
	cmd.AddCommand(WorkerCommand(ctx))
	cmd.AddCommand(CreateAdminCommand(ctx))

	if err := cmd.Execute(); err != nil {
		return err
	}

	return nil
}

func newLogger(env string, component string) (*logger.SlogLogger, error) {
	return logger.New(os.Stderr, env, component)
}
