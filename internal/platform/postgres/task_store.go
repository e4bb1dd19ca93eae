package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/store"
)

const taskColumns = `id, title, description, priority, status, due_date, created_at, updated_at`

const (
	insertTaskQuery = `
		INSERT INTO tasks (` + taskColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	selectAllTasksQuery = `
		SELECT ` + taskColumns + `
		FROM tasks
		ORDER BY created_at, id
	`

	selectTaskQuery = `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE id = $1
	`

	selectTaskForUpdateQuery = selectTaskQuery + ` FOR UPDATE`

	updateTaskQuery = `
		UPDATE tasks
		SET title = $1, description = $2, priority = $3, status = $4, due_date = $5, updated_at = $6
		WHERE id = $7
	`

	deleteTaskQuery = `
		DELETE FROM tasks
		WHERE id = $1
		RETURNING ` + taskColumns
)

// storeComponent tags every log line from this component.
const storeComponent = "task_store"

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
	newID  domain.IDFactory
	now    func() time.Time
}

// Option configures a PostgresTaskStore.
type Option func(*PostgresTaskStore)

// WithIDFactory overrides how identifiers for new tasks are generated.
func WithIDFactory(f domain.IDFactory) Option {
	return func(s *PostgresTaskStore) {
		if f != nil {
			s.newID = f
		}
	}
}

// WithClock overrides the time source used for created_at and updated_at.
func WithClock(now func() time.Time) Option {
	return func(s *PostgresTaskStore) {
		if now != nil {
			s.now = now
		}
	}
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the TaskStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger, opts ...Option) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	s := &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", storeComponent)),
		newID:  domain.DefaultIDFactory,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithTx returns a store that runs every query inside tx.
// The caller owns the transaction.
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) *PostgresTaskStore {
	clone := *s
	clone.db = tx
	return &clone
}

// clock returns the current time at the precision TIMESTAMPTZ stores, so the
// entity handed back matches what a later read returns.
func (s *PostgresTaskStore) clock() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		task     domain.Task
		priority string
		status   string
	)
	err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&priority,
		&status,
		&task.DueDate,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	task.Priority = domain.Priority(priority)
	task.Status = domain.Status(status)
	task.CreatedAt = task.CreatedAt.UTC()
	task.UpdatedAt = task.UpdatedAt.UTC()
	return &task, nil
}

// Create implements store.TaskStore.Create.
// It assigns a fresh ID and timestamps, validates the result and inserts it.
func (s *PostgresTaskStore) Create(ctx context.Context, fields domain.TaskFields) (*domain.Task, error) {
	log := logger.ForComponent(ctx, s.logger, storeComponent)

	task, err := domain.NewTask(s.newID(), fields, s.clock())
	if err != nil {
		log.Warn("task validation failed during create", slog.String("error", err.Error()))
		return nil, err
	}

	_, err = s.db.ExecContext(
		ctx,
		insertTaskQuery,
		task.ID,
		task.Title,
		task.Description,
		string(task.Priority),
		string(task.Status),
		task.DueDate,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return nil, store.NewStoreError("task", "create", "failed to insert task", MapError(err))
	}

	log.Info("task created successfully",
		slog.String("task_id", task.ID.String()),
		slog.String("status", string(task.Status)))
	return task, nil
}

// FindAll implements store.TaskStore.FindAll.
// Tasks are returned oldest first; an empty table yields an empty, non-nil slice.
func (s *PostgresTaskStore) FindAll(ctx context.Context) ([]*domain.Task, error) {
	log := logger.ForComponent(ctx, s.logger, storeComponent)

	rows, err := s.db.QueryContext(ctx, selectAllTasksQuery)
	if err != nil {
		log.Error("failed to query tasks", slog.String("error", err.Error()))
		return nil, store.NewStoreError("task", "list", "failed to query tasks", MapError(err))
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Error("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	tasks := make([]*domain.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			log.Error("failed to scan task row", slog.String("error", err.Error()))
			return nil, store.NewStoreError("task", "list", "failed to scan task", MapError(err))
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating task rows", slog.String("error", err.Error()))
		return nil, store.NewStoreError("task", "list", "failed to read tasks", MapError(err))
	}

	log.Debug("tasks retrieved", slog.Int("count", len(tasks)))
	return tasks, nil
}

// FindByID implements store.TaskStore.FindByID.
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *PostgresTaskStore) FindByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	log := logger.ForComponent(ctx, s.logger, storeComponent)

	log.Debug("retrieving task by ID", slog.String("task_id", id.String()))

	task, err := scanTask(s.db.QueryRowContext(ctx, selectTaskQuery, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found", slog.String("task_id", id.String()))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task by ID",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, store.NewStoreError("task", "get", "failed to query task", MapError(err))
	}

	return task, nil
}

// Update implements store.TaskStore.Update.
// The row is locked, merged with the update in Go, validated and written back
// within a single transaction. An empty update returns the row unchanged.
func (s *PostgresTaskStore) Update(
	ctx context.Context,
	id uuid.UUID,
	update domain.TaskUpdate,
) (*domain.Task, error) {
	log := logger.ForComponent(ctx, s.logger, storeComponent)

	var updated *domain.Task
	err := s.inTx(ctx, func(ctx context.Context, q store.DBTX) error {
		task, err := scanTask(q.QueryRowContext(ctx, selectTaskForUpdateQuery, id))
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return store.ErrTaskNotFound
			}
			return store.NewStoreError("task", "update", "failed to lock task", MapError(err))
		}

		if update.IsEmpty() {
			updated = task
			return nil
		}

		if err := task.Apply(update, s.clock()); err != nil {
			return err
		}

		_, err = q.ExecContext(
			ctx,
			updateTaskQuery,
			task.Title,
			task.Description,
			string(task.Priority),
			string(task.Status),
			task.DueDate,
			task.UpdatedAt,
			task.ID,
		)
		if err != nil {
			return store.NewStoreError("task", "update", "failed to update task", MapError(err))
		}

		updated = task
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrTaskNotFound):
			log.Debug("task not found for update", slog.String("task_id", id.String()))
		case errors.Is(err, domain.ErrValidation):
			log.Warn("task validation failed during update",
				slog.String("error", err.Error()),
				slog.String("task_id", id.String()))
		default:
			log.Error("failed to update task",
				slog.String("error", err.Error()),
				slog.String("task_id", id.String()))
		}
		return nil, err
	}

	log.Info("task updated successfully",
		slog.String("task_id", id.String()),
		slog.String("status", string(updated.Status)))
	return updated, nil
}

// Delete implements store.TaskStore.Delete.
// Returns the removed row, or store.ErrTaskNotFound if the task does not exist.
func (s *PostgresTaskStore) Delete(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	log := logger.ForComponent(ctx, s.logger, storeComponent)

	task, err := scanTask(s.db.QueryRowContext(ctx, deleteTaskQuery, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found for delete", slog.String("task_id", id.String()))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, store.NewStoreError("task", "delete", "failed to delete task", MapError(err))
	}

	log.Info("task deleted successfully", slog.String("task_id", id.String()))
	return task, nil
}

// inTx runs fn in a new transaction when the store holds a *sql.DB, and
// directly on the existing transaction otherwise.
func (s *PostgresTaskStore) inTx(ctx context.Context, fn func(ctx context.Context, q store.DBTX) error) error {
	if db, ok := s.db.(*sql.DB); ok {
		return store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
			return fn(ctx, tx)
		})
	}
	return fn(ctx, s.db)
}
