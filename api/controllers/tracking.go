package controllers

import (
	"net/http"

	"github.com/podomall/podomall-backend/api/responses"
	"github.com/podomall/podomall-backend/api/validators"
	"github.com/podomall/podomall-backend/internal/shipping"
	pkgerrors "github.com/podomall/podomall-backend/pkg/errors"
	"github.com/podomall/podomall-backend/pkg/logger"
)

// TrackingWebhook ingests a carrier status callback. The same payloads also
// arrive through the Pub/Sub consumer; both paths share the idempotent apply.
func TrackingWebhook(svc shipping.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "shipping service unavailable"))
			return
		}

		var update shipping.CarrierUpdate
		if err := validators.DecodeJSONBody(r, &update); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.ApplyCarrierUpdate(r.Context(), update); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "applied"})
	}
}
