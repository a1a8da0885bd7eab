package controllers

import (
	"net/http"

	"github.com/podomall/podomall-backend/api/responses"
	"github.com/podomall/podomall-backend/api/validators"
	"github.com/podomall/podomall-backend/internal/users"
	pkgerrors "github.com/podomall/podomall-backend/pkg/errors"
	"github.com/podomall/podomall-backend/pkg/logger"
)

// ListAddresses returns the caller's saved shipping addresses.
func ListAddresses(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "users service unavailable"))
			return
		}

		userID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		addresses, err := svc.ListAddresses(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"addresses": addresses})
	}
}

// CreateAddress saves a new shipping address for the caller.
func CreateAddress(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "users service unavailable"))
			return
		}

		userID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload users.AddressInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		address, err := svc.CreateAddress(r.Context(), userID, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, address)
	}
}
