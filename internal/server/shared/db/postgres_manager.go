package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/sethvargo/go-retry"

	"github.com/myumkm/myumkm/internal/server/conversations"
	"github.com/myumkm/myumkm/internal/server/messages"
	"github.com/myumkm/myumkm/internal/server/migrations"
	"github.com/myumkm/myumkm/internal/server/users"
)

type PostgresRepositoryManager struct {
	db            *sql.DB
	users         users.Repository
	conversations conversations.Repository
	messages      messages.Repository
}

func (m *PostgresRepositoryManager) Conn() *sql.DB {
	return m.db
}

func (m *PostgresRepositoryManager) Users() users.Repository {
	return m.users
}

func (m *PostgresRepositoryManager) Conversations() conversations.Repository {
	return m.conversations
}

func (m *PostgresRepositoryManager) Messages() messages.Repository {
	return m.messages
}

func (m *PostgresRepositoryManager) Close() error {
	return m.db.Close()
}

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	if err := goose.UpContext(ctx, m.db, "."); err != nil {
		return err
	}

	return nil
}

// waitForDB pings the database with exponential backoff; the container
// orchestration often starts the server before postgres accepts
// connections.
func waitForDB(ctx context.Context, db *sql.DB) error {
	backoff := retry.WithMaxDuration(30*time.Second, retry.NewExponential(500*time.Millisecond))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := db.PingContext(ctx); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
}

func NewPostgresRepositoryManager(ctx context.Context, dsn string) (RepositoryManager, error) {

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	if err := waitForDB(ctx, db); err != nil {
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	m := &PostgresRepositoryManager{
		db:            db,
		users:         users.NewPostgresRepository(db),
		conversations: conversations.NewPostgresRepository(db),
		messages:      messages.NewPostgresRepository(db),
	}

	if err := m.RunMigrations(ctx); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return m, nil
}
