package orders

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/tableserve-backend/api/responses"
	"github.com/angelmondragon/tableserve-backend/api/validators"
	internalorders "github.com/angelmondragon/tableserve-backend/internal/orders"
	pkgerrors "github.com/angelmondragon/tableserve-backend/pkg/errors"
	"github.com/angelmondragon/tableserve-backend/pkg/logger"
)

type createBatchRequest struct {
	Lines []internalorders.OrderLineRequest `json:"lines" validate:"dive"`
}

// CreateBatch is the order service batch-create endpoint: every line of one
// submission, grouped under the session in the URL.
func CreateBatch(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}
		sessionID, err := validators.ParseUUIDParam(r, "sessionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		restaurantID, err := restaurantFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createBatchRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if restaurantID != nil {
			for _, line := range payload.Lines {
				if line.RestaurantID != *restaurantID {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "lines belong to another restaurant"))
					return
				}
			}
		}

		result, err := svc.SubmitBatch(r.Context(), internalorders.BatchRequest{
			SessionID:      sessionID,
			IdempotencyKey: strings.TrimSpace(r.Header.Get("Idempotency-Key")),
			SubmittedBy:    staffFromContext(r),
			Lines:          payload.Lines,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if result.Replayed {
			responses.WriteSuccess(w, result)
			return
		}
		responses.WriteCreated(w, result)
	}
}

// ListBatches returns every batch of a session, oldest first.
func ListBatches(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}
		sessionID, err := validators.ParseUUIDParam(r, "sessionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		restaurantID, err := restaurantFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		batches, err := svc.ListSessionBatches(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		visible := make([]internalorders.Batch, 0, len(batches))
		for _, batch := range batches {
			if restaurantID != nil && batch.RestaurantID != *restaurantID {
				continue
			}
			visible = append(visible, batch)
		}
		responses.WriteSuccess(w, visible)
	}
}

// BatchDetail returns one batch with its lines. Batches of another restaurant
// are reported as missing.
func BatchDetail(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}
		batchID, err := validators.ParseUUIDParam(r, "batchId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		restaurantID, err := restaurantFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		batch, err := svc.GetBatch(r.Context(), batchID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if restaurantID != nil && batch.RestaurantID != *restaurantID {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "order batch not found"))
			return
		}
		responses.WriteSuccess(w, batch)
	}
}
