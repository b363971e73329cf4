package reservations

import (
	"context"
	"errors"
	"fmt"

	"github.com/avelarde/reservline-backend/pkg/db"
	"github.com/avelarde/reservline-backend/pkg/db/models"
	pkgerrors "github.com/avelarde/reservline-backend/pkg/errors"
	"gorm.io/gorm"
)

// Service exposes the reservation operations with validation and conflict policy.
type Service interface {
	Create(ctx context.Context, params CreateParams) (CreateResultDTO, error)
	CheckAvailability(ctx context.Context, startTime, endTime string) (AvailabilityDTO, error)
	List(ctx context.Context, params ListParams) (ListResultDTO, error)
	Cancel(ctx context.Context, params CancelParams) (CancelResultDTO, error)
}

type service struct {
	repo Repository
}

// NewService builds a reservation service over the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reservation repo is required")
	}
	return &service{repo: repo}, nil
}

// Create books the slot unless an existing reservation overlaps it. The
// overlap check and insert run in one transaction so two racing creates for
// overlapping intervals cannot both commit.
func (s *service) Create(ctx context.Context, params CreateParams) (CreateResultDTO, error) {
	interval, err := NewInterval(params.StartTime, params.EndTime)
	if err != nil {
		return CreateResultDTO{}, err
	}

	var created *models.Reservation
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		overlapping, err := tx.FindOverlapping(ctx, interval)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "query overlapping reservations")
		}
		if len(overlapping) > 0 {
			return pkgerrors.New(pkgerrors.CodeConflict, "time slot conflicts with existing reservation").
				WithDetails(map[string]any{"conflicts": toConflicts(overlapping)})
		}

		created, err = tx.Insert(ctx, interval, params.Description)
		if err != nil {
			if db.IsUniqueViolation(err) {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "reservation already exists for this time slot")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert reservation")
		}
		return nil
	})
	if err != nil {
		// The losing side of a serializable-isolation race reports SQLSTATE
		// 40001 at commit; answer it the same way as a detected overlap.
		if db.IsSerializationFailure(err) {
			return CreateResultDTO{}, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "time slot conflicts with existing reservation")
		}
		return CreateResultDTO{}, err
	}

	return CreateResultDTO{
		ID:        created.ID,
		StartTime: created.StartTime,
		EndTime:   created.EndTime,
	}, nil
}

// CheckAvailability reports whether the slot is free. Never mutates state.
func (s *service) CheckAvailability(ctx context.Context, startTime, endTime string) (AvailabilityDTO, error) {
	interval, err := NewInterval(startTime, endTime)
	if err != nil {
		return AvailabilityDTO{}, err
	}

	overlapping, err := s.repo.FindOverlapping(ctx, interval)
	if err != nil {
		return AvailabilityDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "query overlapping reservations")
	}

	return AvailabilityDTO{
		Available: len(overlapping) == 0,
		Conflicts: toConflicts(overlapping),
	}, nil
}

// List returns reservations whose start time falls inside the optional
// inclusive date range, ordered by start time.
func (s *service) List(ctx context.Context, params ListParams) (ListResultDTO, error) {
	rng, err := NewRange(params.StartDate, params.EndDate)
	if err != nil {
		return ListResultDTO{}, err
	}

	records, err := s.repo.List(ctx, rng)
	if err != nil {
		return ListResultDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reservations")
	}

	items := make([]ReservationDTO, 0, len(records))
	for _, record := range records {
		items = append(items, ReservationDTO{
			ID:          record.ID,
			StartTime:   record.StartTime,
			EndTime:     record.EndTime,
			Description: record.Description,
			CreatedAt:   record.CreatedAt,
		})
	}

	return ListResultDTO{Reservations: items, Count: len(items)}, nil
}

// Cancel removes a reservation by id, or by exact interval match when no id
// is supplied. Deletion is terminal; there is no soft-delete state.
func (s *service) Cancel(ctx context.Context, params CancelParams) (CancelResultDTO, error) {
	record, err := s.resolveCancelTarget(ctx, params)
	if err != nil {
		return CancelResultDTO{}, err
	}

	removed, err := s.repo.Delete(ctx, record.ID)
	if err != nil {
		return CancelResultDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete reservation")
	}
	if !removed {
		return CancelResultDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "reservation not found")
	}

	return CancelResultDTO{
		Canceled:  true,
		ID:        record.ID,
		StartTime: record.StartTime,
		EndTime:   record.EndTime,
	}, nil
}

func (s *service) resolveCancelTarget(ctx context.Context, params CancelParams) (*models.Reservation, error) {
	if params.ID != nil {
		record, err := s.repo.FindByID(ctx, *params.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound,
					fmt.Sprintf("reservation %d not found", *params.ID))
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load reservation")
		}
		return record, nil
	}

	hasStart := params.StartTime != ""
	hasEnd := params.EndTime != ""
	if !hasStart && !hasEnd {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			"either id or both start_time and end_time are required")
	}
	if hasStart != hasEnd {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			"start_time and end_time must be supplied together")
	}

	interval, err := NewInterval(params.StartTime, params.EndTime)
	if err != nil {
		return nil, err
	}

	record, err := s.repo.FindByInterval(ctx, interval)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no reservation matches that exact time slot")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load reservation")
	}
	return record, nil
}

func toConflicts(records []models.Reservation) []ConflictDTO {
	conflicts := make([]ConflictDTO, 0, len(records))
	for _, record := range records {
		conflicts = append(conflicts, ConflictDTO{
			ID:        record.ID,
			StartTime: record.StartTime,
			EndTime:   record.EndTime,
		})
	}
	return conflicts
}

var _ Service = (*service)(nil)
