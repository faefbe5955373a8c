package transcript

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// Turn is one completed query: the prompt, the normalized triage token, and
// the reply the user saw. The transcript is an audit trail only; nothing
// reads it back into the conversation.
type Turn struct {
	bun.BaseModel `bun:"table:transcript_turns,alias:tt"`

	ID         int64     `bun:"id,pk,autoincrement"`
	SessionID  string    `bun:"session_id,notnull"`
	Prompt     string    `bun:"prompt,notnull"`
	Category   string    `bun:"category,notnull"`
	Recognized bool      `bun:"recognized,notnull"`
	Reply      string    `bun:"reply,notnull"`
	CreatedAt  time.Time `bun:"created_at,notnull"`
}

// Store is the persistence contract used by the router.
type Store interface {
	Append(ctx context.Context, turn *Turn) error
}

type Config struct {
	DSN     string        `envconfig:"DSN" split_words:"true"`
	Timeout time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"5s"`
}

// Enabled reports whether a transcript backend is configured at all.
func (c Config) Enabled() bool {
	return strings.TrimSpace(c.DSN) != ""
}

type PostgresStore struct {
	db      *bun.DB
	timeout time.Duration
}

var _ Store = (*PostgresStore)(nil)

func NewPostgres(cfg Config) (*PostgresStore, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, errors.New("transcript dsn is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())

	return &PostgresStore{
		db:      db,
		timeout: timeout,
	}, nil
}

// EnsureSchema creates the transcript table when it does not exist yet.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if _, err := s.db.NewCreateTable().Model((*Turn)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("transcript: ensure schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Append(ctx context.Context, turn *Turn) error {
	if turn == nil {
		return errors.New("transcript turn is nil")
	}
	if turn.CreatedAt.IsZero() {
		turn.CreatedAt = time.Now().UTC()
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if _, err := s.db.NewInsert().Model(turn).Exec(ctx); err != nil {
		return fmt.Errorf("transcript: append turn: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// Noop is used when no transcript backend is configured.
type Noop struct{}

var _ Store = Noop{}

func (Noop) Append(context.Context, *Turn) error {
	return nil
}
