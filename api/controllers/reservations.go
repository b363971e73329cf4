package controllers

import (
	"net/http"

	"github.com/avelarde/reservline-backend/api/responses"
	"github.com/avelarde/reservline-backend/api/validators"
	"github.com/avelarde/reservline-backend/internal/reservations"
	pkgerrors "github.com/avelarde/reservline-backend/pkg/errors"
	"github.com/avelarde/reservline-backend/pkg/logger"
)

type createReservationPayload struct {
	StartTime   string `json:"start_time" validate:"required"`
	EndTime     string `json:"end_time" validate:"required"`
	Description string `json:"description"`
}

const maxDescriptionLen = 500

// CreateReservation books a new slot unless it conflicts with an existing one.
func CreateReservation(svc reservations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reservation service unavailable"))
			return
		}

		var payload createReservationPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.Create(ctx, reservations.CreateParams{
			StartTime:   payload.StartTime,
			EndTime:     payload.EndTime,
			Description: validators.SanitizeString(payload.Description, maxDescriptionLen),
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// CheckAvailability reports whether a slot is free without mutating state.
func CheckAvailability(svc reservations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reservation service unavailable"))
			return
		}

		result, err := svc.CheckAvailability(ctx,
			validators.QueryString(r, "start_time"),
			validators.QueryString(r, "end_time"),
		)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// ListReservations returns reservations ordered by start time, optionally
// bounded by an inclusive date range.
func ListReservations(svc reservations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reservation service unavailable"))
			return
		}

		result, err := svc.List(ctx, reservations.ListParams{
			StartDate: validators.QueryString(r, "start_date"),
			EndDate:   validators.QueryString(r, "end_date"),
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// CancelReservation removes a reservation by id, or by exact start/end pair.
func CancelReservation(svc reservations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reservation service unavailable"))
			return
		}

		id, err := validators.QueryInt64(r, "id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.Cancel(ctx, reservations.CancelParams{
			ID:        id,
			StartTime: validators.QueryString(r, "start_time"),
			EndTime:   validators.QueryString(r, "end_time"),
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
