package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/utpal74/ai-task-scheduler/model"
	"go.uber.org/zap"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	google_id     TEXT PRIMARY KEY,
	name          TEXT NOT NULL DEFAULT '',
	email         TEXT NOT NULL DEFAULT '',
	refresh_token TEXT NOT NULL DEFAULT '',
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS tasks (
	id                UUID PRIMARY KEY,
	title             TEXT NOT NULL,
	description       TEXT NOT NULL DEFAULT '',
	tags              TEXT NOT NULL DEFAULT '',
	due_date          TIMESTAMPTZ,
	created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	user_google_id    TEXT NOT NULL REFERENCES users(google_id),
	calendar_event_id TEXT
);

CREATE INDEX IF NOT EXISTS idx_tasks_created_at ON tasks(created_at);
CREATE INDEX IF NOT EXISTS idx_tasks_user ON tasks(user_google_id);
`

// ConnectPostgres opens a pgx pool and pings it.
func ConnectPostgres(ctx context.Context, databaseURL string, logger *zap.Logger) (*pgxpool.Pool, error) {
	if databaseURL == "" {
		return nil, &configError{"DATABASE_URL environment variable is not set"}
	}

	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse db config: %w", err)
	}
	poolCfg.MaxConns = 10
	poolCfg.MinConns = 1
	poolCfg.MaxConnIdleTime = time.Minute

	logger.Info("Initializing PostgreSQL connection pool",
		zap.String("host", poolCfg.ConnConfig.Host),
		zap.String("db", poolCfg.ConnConfig.Database),
	)

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping: %w", err)
	}

	logger.Info("PostgreSQL connection established successfully")
	return pool, nil
}

type PostgresStore struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgresStore(db *pgxpool.Pool, logger *zap.Logger) *PostgresStore {
	return &PostgresStore{db: db, logger: logger}
}

// Migrate creates the users and tasks tables if they do not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	s.logger.Info("PostgreSQL schema applied")
	return nil
}

const userColumns = `google_id, name, email, refresh_token, created_at, updated_at`

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.GoogleID, &u.Name, &u.Email, &u.RefreshToken, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *PostgresStore) FindByIdentity(ctx context.Context, googleID string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE google_id = $1`
	return scanUser(s.db.QueryRow(ctx, query, googleID))
}

func (s *PostgresStore) FindAny(ctx context.Context) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at, google_id LIMIT 1`
	return scanUser(s.db.QueryRow(ctx, query))
}

func (s *PostgresStore) Upsert(ctx context.Context, googleID, refreshToken, email, name string) (*model.User, error) {
	query := `
		INSERT INTO users (google_id, name, email, refresh_token)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (google_id) DO UPDATE SET
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			refresh_token = COALESCE(NULLIF(EXCLUDED.refresh_token, ''), users.refresh_token),
			updated_at = NOW()
		RETURNING ` + userColumns
	user, err := scanUser(s.db.QueryRow(ctx, query, googleID, name, email, refreshToken))
	if err != nil {
		s.logger.Error("Failed to upsert user", zap.String("google_id", googleID), zap.Error(err))
		return nil, err
	}
	return user, nil
}

func (s *PostgresStore) Create(ctx context.Context, task *model.Task) error {
	query := `
		INSERT INTO tasks (id, title, description, tags, due_date, user_google_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`
	id := uuid.New()
	var createdAt time.Time
	err := s.db.QueryRow(ctx, query,
		id, task.Title, task.Description, task.Tags, task.DueDate, task.UserGoogleID,
	).Scan(&createdAt)
	if err != nil {
		s.logger.Error("Failed to insert task", zap.String("user_google_id", task.UserGoogleID), zap.Error(err))
		return err
	}

	task.ID = id.String()
	task.CreatedAt = createdAt
	s.logger.Info("Task inserted", zap.String("task_id", task.ID))
	return nil
}

func (s *PostgresStore) SetCalendarEventID(ctx context.Context, taskID, eventID string) error {
	id, err := uuid.Parse(taskID)
	if err != nil {
		return fmt.Errorf("invalid task id %q: %w", taskID, err)
	}
	tag, err := s.db.Exec(ctx, `UPDATE tasks SET calendar_event_id = $2 WHERE id = $1`, id, eventID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context) ([]model.Task, error) {
	query := `
		SELECT id, title, description, tags, due_date, created_at, user_google_id,
		       COALESCE(calendar_event_id, '')
		FROM tasks
		ORDER BY created_at ASC, id ASC
	`
	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		var (
			t  model.Task
			id uuid.UUID
		)
		if err := rows.Scan(&id, &t.Title, &t.Description, &t.Tags, &t.DueDate,
			&t.CreatedAt, &t.UserGoogleID, &t.CalendarEventID); err != nil {
			return nil, err
		}
		t.ID = id.String()
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *PostgresStore) Close(context.Context) error {
	s.db.Close()
	return nil
}
