package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/podomall/podomall-backend/api/responses"
	"github.com/podomall/podomall-backend/api/validators"
	"github.com/podomall/podomall-backend/internal/users"
	pkgerrors "github.com/podomall/podomall-backend/pkg/errors"
	"github.com/podomall/podomall-backend/pkg/logger"
)

type provisionRequest struct {
	UserID uuid.UUID `json:"user_id" validate:"required"`
	Email  string    `json:"email" validate:"required,email"`
}

// ProvisionUser handles the account-created callback from the identity
// provider. Replays are harmless: provisioning is idempotent.
func ProvisionUser(svc users.ProvisionService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "provision service unavailable"))
			return
		}

		var payload provisionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Provision(r.Context(), payload.UserID, payload.Email); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]string{"status": "provisioned"})
	}
}
