package razorpay

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	rzp "github.com/razorpay/razorpay-go"

	"github.com/ShubhamSahu-2005/ezwoods-backend/pkg/config"
	pkgerrors "github.com/ShubhamSahu-2005/ezwoods-backend/pkg/errors"
	"github.com/ShubhamSahu-2005/ezwoods-backend/pkg/logger"
)

var (
	errKeyPairRequired = errors.New("razorpay key id and secret are required")
	errLoggerRequired  = errors.New("razorpay logger is required")
)

// Client exposes Razorpay primitives with centralized auth, logging, and error mapping.
type Client struct {
	sdk         *rzp.Client
	keyID       string
	keySecret   string
	currency    string
	displayName string
	logger      *logger.Logger
}

// NewClient initializes the Razorpay wrapper and validates the credentials.
func NewClient(ctx context.Context, cfg config.RazorpayConfig, logg *logger.Logger) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	if !cfg.Enabled() {
		return nil, errKeyPairRequired
	}

	keyID := strings.TrimSpace(cfg.KeyID)
	keySecret := strings.TrimSpace(cfg.KeySecret)

	c := &Client{
		sdk:         rzp.NewClient(keyID, keySecret),
		keyID:       keyID,
		keySecret:   keySecret,
		currency:    cfg.Currency,
		displayName: cfg.DisplayName,
		logger:      logg,
	}

	logg.Info(ctx, "razorpay client initialized")
	return c, nil
}

// KeyID returns the publishable key handed to the hosted checkout widget.
func (c *Client) KeyID() string {
	if c == nil {
		return ""
	}
	return c.keyID
}

// Currency reports the configured settlement currency.
func (c *Client) Currency() string {
	if c == nil {
		return ""
	}
	return c.currency
}

// DisplayName reports the merchant name shown in the checkout widget.
func (c *Client) DisplayName() string {
	if c == nil {
		return ""
	}
	return c.displayName
}

// NewReceipt returns a unique receipt reference for gateway orders.
func (c *Client) NewReceipt(prefix string) string {
	key := strings.TrimSpace(prefix)
	if key == "" {
		key = "ezw"
	}
	return fmt.Sprintf("%s-%s", key, uuid.NewString())
}

// Order is the gateway-side order a payment is captured against.
type Order struct {
	ID          string
	AmountMinor int64
	Currency    string
	Receipt     string
	Status      string
}

// OrderCreateParams describes the gateway order to open.
type OrderCreateParams struct {
	AmountMinor int64
	Currency    string
	Receipt     string
	Notes       map[string]any
}

// CreateOrder opens a gateway order for the given minor-unit amount.
func (c *Client) CreateOrder(ctx context.Context, params OrderCreateParams) (*Order, error) {
	currency := params.Currency
	if currency == "" {
		currency = c.currency
	}
	receipt := params.Receipt
	if receipt == "" {
		receipt = c.NewReceipt("order")
	}

	c.log(ctx, "request", "create_order", map[string]any{
		"amount":   params.AmountMinor,
		"currency": currency,
		"receipt":  receipt,
	})

	data := map[string]interface{}{
		"amount":   params.AmountMinor,
		"currency": currency,
		"receipt":  receipt,
	}
	if len(params.Notes) > 0 {
		data["notes"] = params.Notes
	}

	resp, err := c.sdk.Order.Create(data, nil)
	if err != nil {
		c.log(ctx, "error", "create_order", map[string]any{"error": err.Error()})
		return nil, pkgerrors.Wrap(pkgerrors.CodeGateway, err, "create gateway order")
	}

	order := &Order{
		ID:          stringField(resp, "id"),
		AmountMinor: int64Field(resp, "amount"),
		Currency:    stringField(resp, "currency"),
		Receipt:     stringField(resp, "receipt"),
		Status:      stringField(resp, "status"),
	}
	if order.ID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeGateway, "gateway order response missing id")
	}

	c.log(ctx, "response", "create_order", map[string]any{
		"gateway_order_id": order.ID,
		"status":           order.Status,
	})
	return order, nil
}

// VerifyPaymentSignature checks the HMAC the widget hands back after a
// successful payment. The signed payload is "<order_id>|<payment_id>".
func (c *Client) VerifyPaymentSignature(orderID, paymentID, signature string) bool {
	if c == nil || orderID == "" || paymentID == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(c.keySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

func (c *Client) log(ctx context.Context, phase, op string, fields map[string]any) {
	if c == nil || c.logger == nil {
		return
	}
	logFields := map[string]any{
		"operation": op,
		"phase":     phase,
	}
	for k, v := range fields {
		logFields[k] = v
	}
	ctx = c.logger.WithFields(ctx, logFields)
	switch phase {
	case "error":
		c.logger.Error(ctx, fmt.Sprintf("razorpay %s", op), errors.New(fmt.Sprint(fields["error"])))
	default:
		c.logger.Info(ctx, fmt.Sprintf("razorpay %s", phase))
	}
}

func stringField(resp map[string]interface{}, key string) string {
	if v, ok := resp[key].(string); ok {
		return v
	}
	return ""
}

func int64Field(resp map[string]interface{}, key string) int64 {
	switch v := resp[key].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	}
	return 0
}
