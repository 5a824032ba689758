package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ShubhamSahu-2005/ezwoods-backend/api/middleware"
	"github.com/ShubhamSahu-2005/ezwoods-backend/api/responses"
	"github.com/ShubhamSahu-2005/ezwoods-backend/api/validators"
	"github.com/ShubhamSahu-2005/ezwoods-backend/internal/cart"
	checkoutsvc "github.com/ShubhamSahu-2005/ezwoods-backend/internal/checkout"
	productsvc "github.com/ShubhamSahu-2005/ezwoods-backend/internal/products"
	"github.com/ShubhamSahu-2005/ezwoods-backend/pkg/enums"
	pkgerrors "github.com/ShubhamSahu-2005/ezwoods-backend/pkg/errors"
	"github.com/ShubhamSahu-2005/ezwoods-backend/pkg/logger"
)

type cartLineResponse struct {
	ProductID     uuid.UUID       `json:"product_id"`
	Name          string          `json:"name"`
	Image         *string         `json:"image,omitempty"`
	SelectedColor *string         `json:"selected_color,omitempty"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Quantity      int             `json:"quantity"`
	LineTotal     decimal.Decimal `json:"line_total"`
}

type cartResponse struct {
	Items []cartLineResponse    `json:"items"`
	Quote *checkoutsvc.QuoteDTO `json:"quote,omitempty"`
}

// CartFetch returns the session's cart with its current quote.
func CartFetch(carts *cart.Manager, checkout *checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.SessionIDFromContext(r.Context())
		writeCart(r, w, carts, checkout, logg, sessionID)
	}
}

type addCartItemRequest struct {
	ProductID     string  `json:"product_id" validate:"required"`
	SelectedColor *string `json:"selected_color,omitempty"`
	Quantity      int     `json:"quantity" validate:"required,min=1"`
}

// CartAddItem resolves the product and merges it into the session's cart.
// Lines merge when product and color both match.
func CartAddItem(carts *cart.Manager, products productsvc.Service, checkout *checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if products == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := uuid.Parse(strings.TrimSpace(payload.ProductID))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		product, err := products.GetProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !product.InStock {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product is out of stock"))
			return
		}
		if err := validateColor(product, payload.SelectedColor); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var image *string
		if len(product.Images) > 0 {
			image = &product.Images[0]
		}

		sessionID := middleware.SessionIDFromContext(r.Context())
		if err := carts.Get(sessionID).AddItem(cart.Item{
			ProductID:     product.ID,
			Name:          product.Name,
			Image:         image,
			SelectedColor: payload.SelectedColor,
			UnitPrice:     product.Price,
			Quantity:      payload.Quantity,
		}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		writeCart(r, w, carts, checkout, logg, sessionID)
	}
}

type updateCartItemRequest struct {
	SelectedColor *string `json:"selected_color,omitempty"`
	Quantity      int     `json:"quantity"`
}

// CartUpdateItem sets a line's quantity. Zero or negative removes the line.
func CartUpdateItem(carts *cart.Manager, checkout *checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := parseProductID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sessionID := middleware.SessionIDFromContext(r.Context())
		if err := carts.Get(sessionID).UpdateQuantity(productID, payload.SelectedColor, payload.Quantity); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		writeCart(r, w, carts, checkout, logg, sessionID)
	}
}

// CartRemoveItem drops a line regardless of quantity. The color query
// parameter scopes removal to a single variant.
func CartRemoveItem(carts *cart.Manager, checkout *checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := parseProductID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var color *string
		if raw := strings.TrimSpace(r.URL.Query().Get("color")); raw != "" {
			color = &raw
		}

		sessionID := middleware.SessionIDFromContext(r.Context())
		carts.Get(sessionID).RemoveItem(productID, color)

		writeCart(r, w, carts, checkout, logg, sessionID)
	}
}

// CartClear empties the session's cart.
func CartClear(carts *cart.Manager, checkout *checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.SessionIDFromContext(r.Context())
		carts.Get(sessionID).Clear()
		writeCart(r, w, carts, checkout, logg, sessionID)
	}
}

func writeCart(r *http.Request, w http.ResponseWriter, carts *cart.Manager, checkout *checkoutsvc.Service, logg *logger.Logger, sessionID string) {
	items := carts.Get(sessionID).Snapshot()

	lines := make([]cartLineResponse, 0, len(items))
	for _, item := range items {
		lines = append(lines, cartLineResponse{
			ProductID:     item.ProductID,
			Name:          item.Name,
			Image:         item.Image,
			SelectedColor: item.SelectedColor,
			UnitPrice:     item.UnitPrice,
			Quantity:      item.Quantity,
			LineTotal:     item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))),
		})
	}

	payload := cartResponse{Items: lines}
	if checkout != nil {
		quote, err := checkout.Quote(sessionID, enums.PaymentPlanFullOnline)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		payload.Quote = quote
	}

	responses.WriteSuccess(w, payload)
}

func validateColor(product *productsvc.ProductDTO, selected *string) error {
	if selected == nil || strings.TrimSpace(*selected) == "" {
		return nil
	}
	want := strings.TrimSpace(*selected)
	for _, color := range product.Colors {
		if strings.EqualFold(color, want) {
			return nil
		}
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "selected color is not available for this product").
		WithDetails(map[string]any{"available": product.Colors})
}
