package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"picreveal-quiz-service/internal/app"
	"picreveal-quiz-service/internal/config"
	"picreveal-quiz-service/internal/domain"
	"picreveal-quiz-service/internal/infra/memory"
	pgbank "picreveal-quiz-service/internal/infra/postgres"
	redisbank "picreveal-quiz-service/internal/infra/redis"
	transport "picreveal-quiz-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the picture-reveal quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	bankTTL := config.TTLDuration(cfg.Bank.TTL, 10*time.Minute)

	// Loader and editor: Postgres when configured, otherwise the in-memory
	// bank store seeded with a sample bank.
	var loader memory.BankLoader
	var editor app.BankEditor
	if pool != nil {
		loader = pgbank.NewBankLoader(pool)
		editor = pgbank.NewBankEditor(pool)
	} else {
		store := memory.NewBankStore(sampleBanks())
		loader = store
		editor = store
	}

	var banks app.BankRepository
	var invalidator app.BankCacheInvalidator
	if redisClient != nil {
		repo := redisbank.NewBankRepository(redisClient, loader, bankTTL)
		banks = repo
		invalidator = repo
	} else {
		repo := memory.NewBankRepository(loader, bankTTL)
		banks = repo
		invalidator = repo
	}

	var store app.SessionRepository
	if redisClient != nil {
		store = redisbank.NewSessionStore(redisClient, redisTTL)
	} else {
		store = memory.NewSessionStore()
	}

	service := app.NewGameService(store, banks, editor, app.WithBankCacheInvalidator(invalidator))

	defaults := transport.GameDefaults{
		GridSize:         config.IntOr(cfg.Game.GridSize, 4),
		TimeLimitSeconds: config.IntOr(cfg.Game.TimeLimitSeconds, 15),
		SpeedTimeLimit:   config.IntOr(cfg.Game.SpeedTimeLimit, 5),
	}
	wsHandler := transport.NewWSHandler(service, defaults)
	bankHandler := transport.NewBankHandler(service, banks)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	bankHandler.Register(mux)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting picreveal quiz service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// sampleBanks provides a minimal bank for demo deployments without Postgres.
func sampleBanks() map[string]domain.Bank {
	return map[string]domain.Bank{
		"bank-1": {
			ID: "bank-1",
			Questions: []domain.Question{
				{
					ID:           "q1",
					Prompt:       "What is 2 + 2?",
					Options:      []string{"3", "4", "5"},
					CorrectIndex: 1,
				},
				{
					ID:           "q2",
					Prompt:       "Which planet is known as the Red Planet?",
					Options:      []string{"Venus", "Jupiter", "Mars", "Saturn"},
					CorrectIndex: 2,
				},
				{
					ID:           "q3",
					Prompt:       "How many legs does a spider have?",
					Options:      []string{"6", "8", "10"},
					CorrectIndex: 1,
				},
			},
		},
	}
}
