package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/oseayemenre/bookstore/internal/config"
	"github.com/oseayemenre/bookstore/internal/events"
	"github.com/oseayemenre/bookstore/internal/store"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/spf13/cobra"
)

func WorkerCommand(ctx context.Context) *cobra.Command {
	var env string
	var envFile string
	var prefetch int

	cmd := &cobra.Command{
		Use:   "worker",
		Short: "consume bookstore events into user notifications",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger, err := newLogger(env, "worker")

			if err != nil {
				return err
			}

			cfg, err := config.Load(envFile)

			if err != nil {
				return err
			}

			if cfg.Rabbit_mq_conn == "" {
				return fmt.Errorf("missing required config: RABBIT_MQ_CONN")
			}

			logger.Info("db", "status", "connecting to db...")
			db, err := store.NewMongoStore(ctx, cfg.Mongo_uri, cfg.Mongo_db)

			if err != nil {
				return err
			}

			defer db.Close(context.Background())
			logger.Info("db", "status", "db connected")

			logger.Info("queue", "status", "connecting to queue...")
			conn, err := amqp.Dial(cfg.Rabbit_mq_conn)

			if err != nil {
				return fmt.Errorf("error connecting to rabbitmq: %v", err)
			}

			defer conn.Close()

			ch, err := conn.Channel()

			if err != nil {
				return fmt.Errorf("error opening channel: %v", err)
			}

			defer ch.Close()

			queue, err := events.DeclareQueue(ch)

			if err != nil {
				return fmt.Errorf("error declaring queue: %v", err)
			}

			if err := ch.Qos(prefetch, 0, false); err != nil {
				return fmt.Errorf("error setting qos: %v", err)
			}

			deliveries, err := ch.ConsumeWithContext(ctx, queue.Name, "", false, false, false, false, nil)

			if err != nil {
				return fmt.Errorf("error consuming messages from queue: %v", err)
			}

			logger.Info("worker startup", "status", "consuming "+queue.Name)
			events.NewConsumer(db, logger).Run(ctx, deliveries)
			logger.Info("worker shutdown", "status", "shutdown complete...")

			return nil
		},
	}

	cmd.Flags().StringVarP(&env, "env", "e", "dev", "current working environment")
	cmd.Flags().StringVar(&envFile, "env-file", ".env", "path to env file")
	cmd.Flags().IntVar(&prefetch, "prefetch", 10, "unacknowledged deliveries held at once")

	return cmd
}
