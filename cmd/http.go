package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/oseayemenre/bookstore/internal/api"
	"github.com/oseayemenre/bookstore/internal/config"
	"github.com/oseayemenre/bookstore/internal/events"
	"github.com/oseayemenre/bookstore/internal/logger"
	"github.com/oseayemenre/bookstore/internal/metrics"
	"github.com/oseayemenre/bookstore/internal/payment"
	"github.com/oseayemenre/bookstore/internal/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/spf13/cobra"
)

type Server struct {
	logger      logger.Logger
	objectStore store.ObjectStore
	store       *store.MongoStore
	config      *config.Config
	gateway     payment.Gateway
	publisher   events.Publisher
	hub         *events.Hub
	registry    *prometheus.Registry
}

func (s *Server) Mount() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.config.CorsOrigins(),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := s.store.Ping(ctx); err != nil {
			http.Error(w, "db unavailable", http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok\n"))
	})

	r.Handle("/metrics", metrics.Handler(s.registry))

	if s.config.Object_store == "local" {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(s.config.Uploads_dir))))
	}

	server := api.New(r, s.logger, s.objectStore, s.store, s.config, s.gateway, s.publisher, s.hub, metrics.NewServerMetrics(s.registry))

	server.RegisterRoutes()

	return r
}

func newObjectStore(ctx context.Context, cfg *config.Config) (store.ObjectStore, error) {
	switch cfg.Object_store {
	case "cloudinary":
		cld, err := cloudinary.NewFromParams(cfg.Cloudinary_cloud, cfg.Cloudinary_key, cfg.Cloudinary_secret)

		if err != nil {
			return nil, fmt.Errorf("error configuring cloudinary: %v", err)
		}

		return store.NewCloudinaryStore(cld), nil
	case "s3":
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.S3_region))

		if err != nil {
			return nil, fmt.Errorf("unable to load SDK config: %v", err)
		}

		client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.UsePathStyle = true
		})

		return store.NewS3Store(client, cfg.S3_bucket, cfg.S3_region), nil
	default:
		return store.NewLocalStore(cfg.Uploads_dir, cfg.Host)
	}
}

func HTTPCommand(ctx context.Context) *cobra.Command {
	var addr int
	var env string
	var envFile string

	cmd := &cobra.Command{
		Use:   "http",
		Short: "run bookstore http server",
		RunE: func(cmd *cobra.Command, args []string) error {
			sig := make(chan os.Signal, 1)
			signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

			logger, err := newLogger(env, "http")

			if err != nil {
				return err
			}

			cfg, err := config.Load(envFile)

			if err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(ctx)
			defer cancel()

			objectStore, err := newObjectStore(ctx, cfg)

			if err != nil {
				return err
			}

			logger.Info("db", "status", "connecting to db...")
			db, err := store.NewMongoStore(ctx, cfg.Mongo_uri, cfg.Mongo_db)

			if err != nil {
				return err
			}

			defer db.Close(context.Background())

			if err := db.EnsureIndexes(ctx); err != nil {
				return err
			}
			logger.Info("db", "status", "db connected")

			var gateway payment.Gateway

			if cfg.Razorpay_key_id != "" && cfg.Razorpay_key_secret != "" {
				gateway = payment.NewRazorpayGateway(cfg.Razorpay_key_id, cfg.Razorpay_key_secret)
			} else {
				logger.Warn("razorpay keys not set, online payments disabled", "service", "http")
			}

			hub := events.NewHub(logger)
			go hub.Run(ctx)

			publishers := events.Multi{hub}

			if cfg.Rabbit_mq_conn != "" {
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

				if _, err := events.DeclareQueue(ch); err != nil {
					return fmt.Errorf("error declaring queue: %v", err)
				}

				publishers = append(publishers, events.NewRabbitPublisher(ch))
				logger.Info("queue", "status", "queue connected")
			} else {
				logger.Warn("RABBIT_MQ_CONN not set, notifications will not be queued", "service", "http")
			}

			registry := prometheus.NewRegistry()
			registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

			server := &Server{
				logger:      logger,
				objectStore: objectStore,
				store:       db,
				config:      cfg,
				gateway:     gateway,
				publisher:   publishers,
				hub:         hub,
				registry:    registry,
			}

			httpServer := &http.Server{
				Addr:              fmt.Sprintf(":%d", addr),
				Handler:           server.Mount(),
				ReadHeaderTimeout: 10 * time.Second,
				IdleTimeout:       15 * time.Minute,
			}
			errCh := make(chan error, 1)

			logger.Info("server startup", "status", fmt.Sprintf("server starting on port: %d", addr))
			go func() {
				if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- err
				}
			}()

			select {
			case err := <-errCh:
				return err

			case <-sig:
				logger.Info("server shutdown", "status", "kill signal received")
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
				defer shutdownCancel()

				cancel()

				if err := httpServer.Shutdown(shutdownCtx); err != nil {
					return fmt.Errorf("error shutting down server: %v", err)
				}

				logger.Info("server shutdown", "status", "shutdown complete...")
				return nil
			}
		},
	}

	cmd.Flags().IntVarP(&addr, "addr", "a", 3000, "server port")
	cmd.Flags().StringVarP(&env, "env", "e", "dev", "current working environment")
	cmd.Flags().StringVar(&envFile, "env-file", ".env", "path to env file")

	return cmd
}
