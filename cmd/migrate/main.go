// Command migrate applies the messaging core's schema migrations to the
// configured PostgreSQL database.
package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/uniboe/messaging/internal/chat/repositories/repomanager"
	"github.com/uniboe/messaging/internal/config"
	"github.com/uniboe/messaging/internal/logging"
)

func main() {
	ctx := context.Background()

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	// Optional .env; absence is not an error.
	_ = godotenv.Load()

	cfg := config.LoadConfig()

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		logger.Error(ctx, "failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		logger.Error(ctx, "migrations failed", "error", err)
		os.Exit(1)
	}

	logger.Info(ctx, "migrations applied")
}
