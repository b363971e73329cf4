package reservations

import (
	"context"
	"errors"
	"testing"

	"github.com/avelarde/reservline-backend/pkg/db"
	"github.com/avelarde/reservline-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:reservations_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.Reservation{}))
	return conn
}

func TestInsertAssignsMonotonicIDs(t *testing.T) {
	t.Parallel()

	repo := NewRepository(newTestDB(t))
	ctx := context.Background()

	first, err := repo.Insert(ctx, mustInterval(t, "2024-01-15T10:00:00Z", "2024-01-15T11:00:00Z"), "table for two")
	require.NoError(t, err)
	second, err := repo.Insert(ctx, mustInterval(t, "2024-01-15T11:00:00Z", "2024-01-15T12:00:00Z"), "")
	require.NoError(t, err)

	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)
	assert.Equal(t, "2024-01-15T10:00:00Z", first.StartTime)
	assert.Equal(t, "table for two", first.Description)
	assert.NotEmpty(t, first.CreatedAt)
}

func TestInsertRejectsDuplicateSlot(t *testing.T) {
	t.Parallel()

	repo := NewRepository(newTestDB(t))
	ctx := context.Background()
	iv := mustInterval(t, "2024-01-15T10:00:00Z", "2024-01-15T11:00:00Z")

	_, err := repo.Insert(ctx, iv, "")
	require.NoError(t, err)

	_, err = repo.Insert(ctx, iv, "again")
	require.Error(t, err)
	assert.True(t, db.IsUniqueViolation(err), "expected unique violation, got %v", err)
}

func TestListOrdersByStartTimeAndFilters(t *testing.T) {
	t.Parallel()

	repo := NewRepository(newTestDB(t))
	ctx := context.Background()

	// insert out of order
	for _, slot := range [][2]string{
		{"2024-01-16T09:00:00Z", "2024-01-16T10:00:00Z"},
		{"2024-01-15T10:00:00Z", "2024-01-15T11:00:00Z"},
		{"2024-01-15T14:00:00Z", "2024-01-15T15:00:00Z"},
	} {
		_, err := repo.Insert(ctx, mustInterval(t, slot[0], slot[1]), "")
		require.NoError(t, err)
	}

	all, err := repo.List(ctx, Range{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "2024-01-15T10:00:00Z", all[0].StartTime)
	assert.Equal(t, "2024-01-15T14:00:00Z", all[1].StartTime)
	assert.Equal(t, "2024-01-16T09:00:00Z", all[2].StartTime)

	day, err := NewRange("2024-01-15", "2024-01-15")
	require.NoError(t, err)
	filtered, err := repo.List(ctx, day)
	require.NoError(t, err)
	require.Len(t, filtered, 2)

	lowerOnly, err := NewRange("2024-01-16", "")
	require.NoError(t, err)
	tail, err := repo.List(ctx, lowerOnly)
	require.NoError(t, err)
	require.Len(t, tail, 1)
	assert.Equal(t, "2024-01-16T09:00:00Z", tail[0].StartTime)
}

func TestFindByIntervalRequiresExactMatch(t *testing.T) {
	t.Parallel()

	repo := NewRepository(newTestDB(t))
	ctx := context.Background()

	_, err := repo.Insert(ctx, mustInterval(t, "2024-01-15T10:00:00Z", "2024-01-15T11:00:00Z"), "")
	require.NoError(t, err)

	found, err := repo.FindByInterval(ctx, mustInterval(t, "2024-01-15T10:00:00Z", "2024-01-15T11:00:00Z"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), found.ID)

	_, err = repo.FindByInterval(ctx, mustInterval(t, "2024-01-15T10:00:00Z", "2024-01-15T11:30:00Z"))
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound), "partial overlap must not match, got %v", err)
}

func TestFindOverlapping(t *testing.T) {
	t.Parallel()

	repo := NewRepository(newTestDB(t))
	ctx := context.Background()

	_, err := repo.Insert(ctx, mustInterval(t, "2024-01-15T10:00:00Z", "2024-01-15T11:00:00Z"), "")
	require.NoError(t, err)
	_, err = repo.Insert(ctx, mustInterval(t, "2024-01-15T12:00:00Z", "2024-01-15T13:00:00Z"), "")
	require.NoError(t, err)

	hits, err := repo.FindOverlapping(ctx, mustInterval(t, "2024-01-15T10:30:00Z", "2024-01-15T12:30:00Z"))
	require.NoError(t, err)
	assert.Len(t, hits, 2)

	touching, err := repo.FindOverlapping(ctx, mustInterval(t, "2024-01-15T11:00:00Z", "2024-01-15T12:00:00Z"))
	require.NoError(t, err)
	assert.Empty(t, touching, "touching endpoints must not overlap")
}

func TestDeleteReportsExistence(t *testing.T) {
	t.Parallel()

	repo := NewRepository(newTestDB(t))
	ctx := context.Background()

	created, err := repo.Insert(ctx, mustInterval(t, "2024-01-15T10:00:00Z", "2024-01-15T11:00:00Z"), "")
	require.NoError(t, err)

	removed, err := repo.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, removed, "second delete must report missing record")
}

func TestTransactionRollsBackOnError(t *testing.T) {
	t.Parallel()

	repo := NewRepository(newTestDB(t))
	ctx := context.Background()

	err := repo.Transaction(ctx, func(tx Repository) error {
		if _, err := tx.Insert(ctx, mustInterval(t, "2024-01-15T10:00:00Z", "2024-01-15T11:00:00Z"), ""); err != nil {
			return err
		}
		return errors.New("boom")
	})
	require.Error(t, err)

	all, err := repo.List(ctx, Range{})
	require.NoError(t, err)
	assert.Empty(t, all, "rolled-back insert must not persist")
}
