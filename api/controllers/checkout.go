package controllers

import (
	"net/http"

	"github.com/podomall/podomall-backend/api/responses"
	"github.com/podomall/podomall-backend/api/validators"
	checkoutsvc "github.com/podomall/podomall-backend/internal/checkout"
	pkgerrors "github.com/podomall/podomall-backend/pkg/errors"
	"github.com/podomall/podomall-backend/pkg/logger"
)

// Checkout converts the caller's cart into an order.
func Checkout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		userID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload checkoutsvc.Input
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Execute(r.Context(), userID, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
