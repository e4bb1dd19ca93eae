//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/platform/postgres"
	"github.com/phrazzld/tasks-api/internal/store"
	"github.com/phrazzld/tasks-api/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresTaskStore_Lifecycle(t *testing.T) {
	db := testdb.Open(t)

	testdb.InTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		taskStore := postgres.NewPostgresTaskStore(tx, nil)

		created, err := taskStore.Create(ctx, sampleFields())
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, created.ID)

		found, err := taskStore.FindByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.Title, found.Title)
		assert.Equal(t, created.DueDate, found.DueDate)
		assert.True(t, created.CreatedAt.Equal(found.CreatedAt), "created_at %s != stored %s", created.CreatedAt, found.CreatedAt)
		assert.True(t, created.UpdatedAt.Equal(found.UpdatedAt), "updated_at %s != stored %s", created.UpdatedAt, found.UpdatedAt)

		all, err := taskStore.FindAll(ctx)
		require.NoError(t, err)
		ids := make([]uuid.UUID, 0, len(all))
		for _, task := range all {
			ids = append(ids, task.ID)
		}
		assert.Contains(t, ids, created.ID)

		status := domain.StatusInProgress
		updated, err := taskStore.Update(ctx, created.ID, domain.TaskUpdate{Status: &status})
		require.NoError(t, err)
		assert.Equal(t, domain.StatusInProgress, updated.Status)
		assert.Equal(t, created.Title, updated.Title)
		assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))

		refetched, err := taskStore.FindByID(ctx, created.ID)
		require.NoError(t, err)
		assert.True(t, updated.UpdatedAt.Equal(refetched.UpdatedAt), "updated_at %s != stored %s", updated.UpdatedAt, refetched.UpdatedAt)

		deleted, err := taskStore.Delete(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, deleted.ID)

		_, err = taskStore.FindByID(ctx, created.ID)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)

		_, err = taskStore.Delete(ctx, created.ID)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})
}

func TestPostgresTaskStore_FindAllOrdersByCreation(t *testing.T) {
	db := testdb.Open(t)

	testdb.InTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()

		_, err := tx.ExecContext(ctx, "DELETE FROM tasks")
		require.NoError(t, err)

		base := time.Now().UTC().Truncate(time.Second)
		tick := 0
		taskStore := postgres.NewPostgresTaskStore(tx, nil, postgres.WithClock(func() time.Time {
			tick++
			return base.Add(time.Duration(tick) * time.Second)
		}))

		var want []uuid.UUID
		for _, title := range []string{"one", "two", "three"} {
			fields := sampleFields()
			fields.Title = title
			task, err := taskStore.Create(ctx, fields)
			require.NoError(t, err)
			want = append(want, task.ID)
		}

		all, err := taskStore.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 3)
		for i, task := range all {
			assert.Equal(t, want[i], task.ID)
		}
	})
}

func TestPostgresTaskStore_CheckConstraints(t *testing.T) {
	db := testdb.Open(t)

	testdb.InTx(t, db, func(t *testing.T, tx *sql.Tx) {
		_, err := tx.ExecContext(context.Background(), `
			INSERT INTO tasks (id, title, description, priority, status, due_date)
			VALUES ($1, 'x', 'y', 'URGENT', 'PENDING', '2025-01-01')
		`, uuid.New())
		require.Error(t, err)
		assert.True(t, postgres.HasCode(err, postgres.CodeCheckViolation))
		assert.Equal(t, "tasks_priority_check", postgres.ConstraintName(err))
		assert.ErrorIs(t, postgres.MapError(err), store.ErrInvalidEntity)
	})
}
