package controllers

import (
	"net/http"
	"strings"

	"github.com/ShubhamSahu-2005/ezwoods-backend/api/middleware"
	"github.com/ShubhamSahu-2005/ezwoods-backend/api/responses"
	"github.com/ShubhamSahu-2005/ezwoods-backend/api/validators"
	checkoutsvc "github.com/ShubhamSahu-2005/ezwoods-backend/internal/checkout"
	"github.com/ShubhamSahu-2005/ezwoods-backend/pkg/enums"
	pkgerrors "github.com/ShubhamSahu-2005/ezwoods-backend/pkg/errors"
	"github.com/ShubhamSahu-2005/ezwoods-backend/pkg/logger"
	"github.com/ShubhamSahu-2005/ezwoods-backend/pkg/types"
)

type shippingRequest struct {
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address" validate:"required"`
	City      string `json:"city,omitempty"`
	State     string `json:"state,omitempty"`
	ZipCode   string `json:"zip_code" validate:"required"`
	Country   string `json:"country,omitempty"`
}

func (s shippingRequest) toShipping() types.ShippingDetails {
	return types.ShippingDetails{
		Email:     strings.TrimSpace(s.Email),
		FirstName: strings.TrimSpace(s.FirstName),
		LastName:  strings.TrimSpace(s.LastName),
		Phone:     strings.TrimSpace(s.Phone),
		Address:   strings.TrimSpace(s.Address),
		City:      strings.TrimSpace(s.City),
		State:     strings.TrimSpace(s.State),
		ZipCode:   strings.TrimSpace(s.ZipCode),
		Country:   strings.TrimSpace(s.Country),
	}
}

type beginCheckoutRequest struct {
	Shipping    shippingRequest `json:"shipping" validate:"required"`
	PaymentPlan string          `json:"payment_plan" validate:"required"`
}

// CheckoutBegin validates the cart, opens a gateway order, and returns the
// widget session.
func CheckoutBegin(svc *checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var payload beginCheckoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		plan, err := enums.ParsePaymentPlan(strings.TrimSpace(payload.PaymentPlan))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment plan"))
			return
		}

		session, err := svc.Begin(r.Context(), checkoutsvc.BeginInput{
			SessionID:   middleware.SessionIDFromContext(r.Context()),
			Shipping:    payload.Shipping.toShipping(),
			PaymentPlan: plan,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, session)
	}
}

type confirmCheckoutRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id" validate:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" validate:"required"`
	RazorpaySignature string `json:"razorpay_signature" validate:"required"`
}

// CheckoutConfirm verifies the payment signature and records the order.
func CheckoutConfirm(svc *checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var payload confirmCheckoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.HandleSuccess(r.Context(), checkoutsvc.ConfirmInput{
			SessionID:         middleware.SessionIDFromContext(r.Context()),
			RazorpayOrderID:   strings.TrimSpace(payload.RazorpayOrderID),
			RazorpayPaymentID: strings.TrimSpace(payload.RazorpayPaymentID),
			Signature:         strings.TrimSpace(payload.RazorpaySignature),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// CheckoutDismiss records that the customer closed the payment widget.
func CheckoutDismiss(svc *checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		sessionID := middleware.SessionIDFromContext(r.Context())
		if err := svc.HandleDismiss(r.Context(), sessionID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"state": svc.State(sessionID).String()})
	}
}

// CheckoutQuote prices the session's cart for the requested payment plan
// without opening an attempt.
func CheckoutQuote(svc *checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		plan := enums.PaymentPlanFullOnline
		if raw := strings.TrimSpace(r.URL.Query().Get("plan")); raw != "" {
			parsed, err := enums.ParsePaymentPlan(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment plan"))
				return
			}
			plan = parsed
		}

		quote, err := svc.Quote(middleware.SessionIDFromContext(r.Context()), plan)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, quote)
	}
}

// CheckoutState reports where the session's attempt currently stands.
func CheckoutState(svc *checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		state := svc.State(middleware.SessionIDFromContext(r.Context()))
		responses.WriteSuccess(w, map[string]string{"state": state.String()})
	}
}
