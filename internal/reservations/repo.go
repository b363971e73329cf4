package reservations

import (
	"context"
	"database/sql"
	"time"

	"github.com/avelarde/reservline-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository encapsulates reservation persistence. Insert performs no
// conflict checking; the overlap policy lives in the service so it stays
// testable independent of storage.
type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	Insert(ctx context.Context, interval Interval, description string) (*models.Reservation, error)
	List(ctx context.Context, rng Range) ([]models.Reservation, error)
	FindByID(ctx context.Context, id int64) (*models.Reservation, error)
	FindByInterval(ctx context.Context, interval Interval) (*models.Reservation, error)
	FindOverlapping(ctx context.Context, interval Interval) ([]models.Reservation, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository constructs a reservation repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Transaction runs fn against a repository bound to a single serializable
// transaction, so a conflict check and the insert it guards commit or roll
// back together. Serializable isolation matters on postgres: at the default
// read-committed level two concurrent overlap checks can both see zero rows
// and both insert. SQLite is serializable already, so the option is a no-op
// there.
func (r *repository) Transaction(ctx context.Context, fn func(Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&repository{db: tx})
	}, &sql.TxOptions{Isolation: sql.LevelSerializable})
}

func (r *repository) Insert(ctx context.Context, interval Interval, description string) (*models.Reservation, error) {
	record := models.Reservation{
		StartTime:   interval.StartString(),
		EndTime:     interval.EndString(),
		Description: description,
		CreatedAt:   time.Now().UTC().Truncate(time.Second).Format(timeLayout),
	}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *repository) List(ctx context.Context, rng Range) ([]models.Reservation, error) {
	query := r.db.WithContext(ctx).Model(&models.Reservation{})
	if rng.Start != nil {
		query = query.Where("start_time >= ?", rng.Start.Format(timeLayout))
	}
	if rng.End != nil {
		query = query.Where("start_time <= ?", rng.End.Format(timeLayout))
	}

	var records []models.Reservation
	if err := query.Order("start_time ASC, id ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repository) FindByID(ctx context.Context, id int64) (*models.Reservation, error) {
	var record models.Reservation
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *repository) FindByInterval(ctx context.Context, interval Interval) (*models.Reservation, error) {
	var record models.Reservation
	err := r.db.WithContext(ctx).
		First(&record, "start_time = ? AND end_time = ?", interval.StartString(), interval.EndString()).
		Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// FindOverlapping returns every record whose half-open interval intersects
// the given one. The SQL predicate mirrors Interval.Overlaps; both sides
// compare normalized RFC3339 text.
func (r *repository) FindOverlapping(ctx context.Context, interval Interval) ([]models.Reservation, error) {
	var records []models.Reservation
	err := r.db.WithContext(ctx).
		Where("start_time < ? AND end_time > ?", interval.EndString(), interval.StartString()).
		Order("start_time ASC, id ASC").
		Find(&records).
		Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repository) Delete(ctx context.Context, id int64) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&models.Reservation{}, "id = ?", id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
