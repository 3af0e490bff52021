package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/streadway/amqp"
	"gorm.io/gorm"

	"productsapi/internal/config"
	"productsapi/internal/database"
	"productsapi/internal/repositories"
	"productsapi/internal/server"
	"productsapi/internal/services"
	"productsapi/pkg/rabbitmq"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "productsapi",
	Short:         "REST API for the product catalogue",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Connect to the database, sync the schema and start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the products table and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		db, err := connect(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		defer database.Close(db)

		if err := database.Migrate(cmd.Context(), db); err != nil {
			return err
		}
		log.Info().Msg("schema is up to date")
		return nil
	},
}

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Log product events from RabbitMQ until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		if !cfg.EventsEnabled() {
			return errors.New("RABBITMQ_URL is not set")
		}

		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQ.URL}, log)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		log.Info().Str("queue", rabbitmq.Queue).Msg("waiting for product events")
		return consumeUntilDone(ctx, func() error {
			return mqClient.Consume(func(msg amqp.Delivery) error {
				log.Info().
					Str("routing_key", msg.RoutingKey).
					RawJSON("event", msg.Body).
					Msg("product event received")
				return nil
			})
		}, mqClient.Close, log)
	},
}

// consumeUntilDone runs consume until ctx ends or consume returns on its own.
// closeFn is called exactly once, when ctx ends first, to unblock consume.
// Returning before ctx ends is reported as an error.
func consumeUntilDone(ctx context.Context, consume func() error, closeFn func() error, log zerolog.Logger) error {
	done := make(chan struct{})
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		select {
		case <-ctx.Done():
			if err := closeFn(); err != nil {
				log.Error().Err(err).Msg("error closing RabbitMQ client")
			}
		case <-done:
		}
	}()

	err := consume()
	close(done)
	<-closed

	if ctx.Err() != nil {
		log.Info().Msg("stopped consuming product events")
		return nil
	}
	if err == nil {
		err = rabbitmq.ErrDeliveriesClosed
	}
	return errors.Wrap(err, "consumer stopped")
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(eventsCmd)
}

func setup() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	return cfg, config.NewLogger(cfg.Logger), nil
}

func connect(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*gorm.DB, error) {
	db, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		log.Error().Err(err).Msg(database.ConnectionFailedMessage)
		return nil, err
	}
	return db, nil
}

func serve(ctx context.Context) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	// --- Database ---
	db, err := connect(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer database.Close(db)

	if err := database.Migrate(ctx, db); err != nil {
		return err
	}

	// --- Product events (optional) ---
	var publisher services.EventPublisher
	if cfg.EventsEnabled() {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQ.URL}, log)
		if err != nil {
			return err
		}
		defer mqClient.Close()
		publisher = mqClient
	} else {
		log.Info().Msg("RABBITMQ_URL is not set, product events are disabled")
	}

	// --- HTTP server ---
	app := server.NewApp(cfg, repositories.NewGORMProductRepository(db), publisher, log)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	listenErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Server.Port).Msg("starting server")
		listenErr <- app.Listen(cfg.Server.Port)
	}()

	select {
	case err := <-listenErr:
		return errors.Wrap(err, "server failed to start")
	case <-quit:
	}

	log.Info().Msg("shutting down server")
	if err := app.Shutdown(); err != nil {
		log.Error().Err(err).Msg("error during Fiber shutdown")
	}
	log.Info().Msg("server gracefully stopped")
	return nil
}
