package vapi

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/avelarde/reservline-backend/internal/reservations"
	pkgerrors "github.com/avelarde/reservline-backend/pkg/errors"
	"github.com/avelarde/reservline-backend/pkg/logger"
	"github.com/avelarde/reservline-backend/pkg/metrics"
)

// Function names accepted by the dispatcher.
const (
	FnCreateReservation = "create_reservation"
	FnCheckAvailability = "check_availability"
	FnListReservations  = "list_reservations"
	FnCancelReservation = "cancel_reservation"
)

// Dispatcher routes batched tool calls onto the reservation service. Each
// call is handled independently; a failure is folded into that call's result
// string and never aborts the batch.
type Dispatcher struct {
	svc     reservations.Service
	logg    *logger.Logger
	metrics *metrics.ToolCallMetrics
}

// NewDispatcher builds a dispatcher over the reservation service.
func NewDispatcher(svc reservations.Service, logg *logger.Logger) (*Dispatcher, error) {
	if svc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reservation service is required")
	}
	return &Dispatcher{svc: svc, logg: logg}, nil
}

// WithMetrics attaches per-function call metrics.
func (d *Dispatcher) WithMetrics(m *metrics.ToolCallMetrics) *Dispatcher {
	d.metrics = m
	return d
}

// Dispatch processes every call in input order and returns one result per
// call, keyed by the originating toolCallId.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) Response {
	results := make([]CallResult, 0, len(req.Calls))
	for _, call := range req.Calls {
		results = append(results, d.dispatchCall(ctx, call))
	}
	return Response{Results: results}
}

func (d *Dispatcher) dispatchCall(ctx context.Context, call ToolCall) (result CallResult) {
	result.ToolCallID = call.ToolCallID
	started := time.Now()

	if d.logg != nil {
		ctx = d.logg.WithToolCall(ctx, call.ToolCallID, call.Function.Name)
	}

	defer func() {
		d.metrics.ObserveDuration(call.Function.Name, time.Since(started))
		if rec := recover(); rec != nil {
			err := fmt.Errorf("panic: %v", rec)
			if d.logg != nil {
				d.logg.Error(ctx, "tool call panicked", err)
			}
			d.metrics.IncFailure(call.Function.Name)
			result.Result = errorResult(err)
		}
	}()

	payload, err := d.invoke(ctx, call.Function)
	if err != nil {
		if d.logg != nil {
			d.logg.Warn(d.logg.WithField(ctx, "error", err.Error()), "tool call failed")
		}
		d.metrics.IncFailure(call.Function.Name)
		result.Result = errorResult(err)
		return result
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		d.metrics.IncFailure(call.Function.Name)
		result.Result = errorResult(pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode result"))
		return result
	}

	d.metrics.IncSuccess(call.Function.Name)
	result.Result = singleLine(string(encoded))
	return result
}

func (d *Dispatcher) invoke(ctx context.Context, fn FunctionCall) (any, error) {
	switch fn.Name {
	case FnCreateReservation:
		var args createArgs
		if err := decodeArgs(fn.Arguments, &args); err != nil {
			return nil, err
		}
		return d.svc.Create(ctx, reservations.CreateParams{
			StartTime:   args.StartTime,
			EndTime:     args.EndTime,
			Description: args.Description,
		})
	case FnCheckAvailability:
		var args availabilityArgs
		if err := decodeArgs(fn.Arguments, &args); err != nil {
			return nil, err
		}
		return d.svc.CheckAvailability(ctx, args.StartTime, args.EndTime)
	case FnListReservations:
		var args listArgs
		if err := decodeArgs(fn.Arguments, &args); err != nil {
			return nil, err
		}
		return d.svc.List(ctx, reservations.ListParams{
			StartDate: args.StartDate,
			EndDate:   args.EndDate,
		})
	case FnCancelReservation:
		var args cancelArgs
		if err := decodeArgs(fn.Arguments, &args); err != nil {
			return nil, err
		}
		return d.svc.Cancel(ctx, reservations.CancelParams{
			ID:        args.ID,
			StartTime: args.StartTime,
			EndTime:   args.EndTime,
		})
	default:
		return nil, pkgerrors.New(pkgerrors.CodeUnknownFunction,
			fmt.Sprintf("unknown function: %s", fn.Name))
	}
}

type createArgs struct {
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Description string `json:"description"`
}

type availabilityArgs struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type listArgs struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type cancelArgs struct {
	ID        *int64 `json:"id"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// decodeArgs maps the loose argument mapping onto the operation's typed
// argument struct. Anything not conforming surfaces as a validation error.
func decodeArgs(args Arguments, dest any) error {
	if args == nil {
		args = Arguments{}
	}
	raw, err := json.Marshal(args)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid arguments")
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid arguments")
	}
	return nil
}

// errorResult encodes any failure as a single-line {"error": ...} string, the
// shape the platform renders back to the caller. Details the error code marks
// as publishable ride along, so a conflict result still lists the blocking
// reservations.
func errorResult(err error) string {
	msg := "unknown error"
	payload := map[string]any{}

	if typed := pkgerrors.As(err); typed != nil {
		if typed.Message() != "" {
			msg = typed.Message()
		}
		if pkgerrors.MetadataFor(typed.Code()).DetailsAllowed {
			if details := typed.Details(); details != nil {
				payload["details"] = details
			}
		}
	} else if err != nil {
		msg = err.Error()
	}
	payload["error"] = msg

	encoded, mErr := json.Marshal(payload)
	if mErr != nil {
		return `{"error":"unknown error"}`
	}
	return singleLine(string(encoded))
}

// singleLine strips every line break; the platform rejects multi-line results.
func singleLine(s string) string {
	return strings.NewReplacer("\n", " ", "\r", "").Replace(s)
}
