package controllers

import (
	"net/http"

	"github.com/just-aly/tryfit-backend/api/responses"
	"github.com/just-aly/tryfit-backend/api/validators"
	checkoutsvc "github.com/just-aly/tryfit-backend/internal/checkout"
	pkgerrors "github.com/just-aly/tryfit-backend/pkg/errors"
	"github.com/just-aly/tryfit-backend/pkg/logger"
)

type checkoutRequest struct {
	RecipientName string `json:"recipientName" validate:"required,max=120"`
	Address       string `json:"address" validate:"required,max=500"`
}

// Checkout places one order per selected product and size group.
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

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.PlaceOrder(r.Context(), userID, checkoutsvc.PlaceOrderInput{
			RecipientName: payload.RecipientName,
			Address:       payload.Address,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
