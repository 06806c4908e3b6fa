package orders

import (
	"context"
	"net/http"

	cartcontrollers "github.com/angelmondragon/tableserve-backend/api/controllers/cart"
	"github.com/angelmondragon/tableserve-backend/api/responses"
	"github.com/angelmondragon/tableserve-backend/api/validators"
	pkgerrors "github.com/angelmondragon/tableserve-backend/pkg/errors"
	"github.com/angelmondragon/tableserve-backend/pkg/logger"
)

// TableSelector stores the table the ordering screen targets per cart scope.
type TableSelector interface {
	Select(ctx context.Context, scopeKey string, tableNumber int) error
	Selected(ctx context.Context, scopeKey string) (*int, error)
	Reset(ctx context.Context, scopeKey string) error
}

type selectTableRequest struct {
	TableNumber int `json:"table_number" validate:"required,min=1"`
}

type tableResponse struct {
	TableNumber *int `json:"table_number"`
}

func TableFetch(tables TableSelector, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if tables == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "table selection unavailable"))
			return
		}
		scope, err := cartcontrollers.ScopeFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		table, err := tables.Selected(r.Context(), scope.Key())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load table selection"))
			return
		}
		responses.WriteSuccess(w, tableResponse{TableNumber: table})
	}
}

// TableSelect sets the target table of the scope.
func TableSelect(tables TableSelector, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if tables == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "table selection unavailable"))
			return
		}
		scope, err := cartcontrollers.ScopeFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload selectTableRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := tables.Select(r.Context(), scope.Key(), payload.TableNumber); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "select table"))
			return
		}
		table := payload.TableNumber
		responses.WriteSuccess(w, tableResponse{TableNumber: &table})
	}
}

// TableReset clears the target table of the scope.
func TableReset(tables TableSelector, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if tables == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "table selection unavailable"))
			return
		}
		scope, err := cartcontrollers.ScopeFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := tables.Reset(r.Context(), scope.Key()); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reset table selection"))
			return
		}
		responses.WriteNoContent(w)
	}
}
