package webhooks

import (
	"encoding/json"
	"net/http"

	"github.com/avelarde/reservline-backend/api/responses"
	"github.com/avelarde/reservline-backend/internal/webhooks/vapi"
	pkgerrors "github.com/avelarde/reservline-backend/pkg/errors"
	"github.com/avelarde/reservline-backend/pkg/logger"
)

// VapiWebhook handles the batched tool-call protocol. A malformed outer
// request is rejected, but once the batch loop starts every failure stays
// inside its call's result and the delivery itself reports success.
func VapiWebhook(dispatcher *vapi.Dispatcher, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if dispatcher == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "webhook dispatcher unavailable"))
			return
		}

		var req vapi.Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request format"))
			return
		}
		if req.Calls == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid request format"))
			return
		}

		resp := dispatcher.Dispatch(ctx, req)

		if logg != nil {
			logg.Info(logg.WithField(ctx, "calls", len(req.Calls)), "webhook batch processed")
		}
		responses.WriteRaw(w, http.StatusOK, resp)
	}
}
