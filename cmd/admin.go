package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/oseayemenre/bookstore/internal/bcrypt"
	"github.com/oseayemenre/bookstore/internal/config"
	"github.com/oseayemenre/bookstore/internal/models"
	"github.com/oseayemenre/bookstore/internal/store"
	"github.com/spf13/cobra"
)

func CreateAdminCommand(ctx context.Context) *cobra.Command {
	var env string
	var envFile string
	var username string
	var password string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "create an admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" || password == "" {
				return fmt.Errorf("username and password are required")
			}

			logger, err := newLogger(env, "admin")

			if err != nil {
				return err
			}

			cfg, err := config.Load(envFile)

			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
			defer cancel()

			db, err := store.NewMongoStore(ctx, cfg.Mongo_uri, cfg.Mongo_db)

			if err != nil {
				return err
			}

			defer db.Close(context.Background())

			if err := db.EnsureIndexes(ctx); err != nil {
				return err
			}

			hashed, err := bcrypt.HashPassword(password)

			if err != nil {
				return err
			}

			id, err := db.CreateAdmin(ctx, &models.Admin{Username: username, Password: hashed})

			if err != nil {
				return err
			}

			logger.Info("admin created", "id", id.Hex(), "username", username)
			return nil
		},
	}

	cmd.Flags().StringVarP(&env, "env", "e", "dev", "current working environment")
	cmd.Flags().StringVar(&envFile, "env-file", ".env", "path to env file")
	cmd.Flags().StringVarP(&username, "username", "u", "", "admin username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "admin password")

	return cmd
}
