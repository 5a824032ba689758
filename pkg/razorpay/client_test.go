package razorpay

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ShubhamSahu-2005/ezwoods-backend/pkg/config"
	"github.com/ShubhamSahu-2005/ezwoods-backend/pkg/logger"
)

func newTestLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: zerolog.ErrorLevel})
}

func TestNewClientRequiresCredentials(t *testing.T) {
	t.Parallel()

	_, err := NewClient(context.Background(), config.RazorpayConfig{}, newTestLogger())
	if err == nil {
		t.Fatalf("expected error for missing key pair")
	}

	_, err = NewClient(context.Background(), config.RazorpayConfig{KeyID: "rzp_test_key"}, newTestLogger())
	if err == nil {
		t.Fatalf("expected error for missing secret")
	}

	client, err := NewClient(context.Background(), config.RazorpayConfig{
		KeyID:       "rzp_test_key",
		KeySecret:   "secret",
		Currency:    "INR",
		DisplayName: "EzWoods",
	}, newTestLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.KeyID() != "rzp_test_key" {
		t.Fatalf("unexpected key id %q", client.KeyID())
	}
	if client.Currency() != "INR" {
		t.Fatalf("unexpected currency %q", client.Currency())
	}
}

func TestVerifyPaymentSignature(t *testing.T) {
	t.Parallel()

	secret := "test-secret"
	client := &Client{keySecret: secret}

	orderID := "order_123"
	paymentID := "pay_456"

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	signature := hex.EncodeToString(mac.Sum(nil))

	if !client.VerifyPaymentSignature(orderID, paymentID, signature) {
		t.Fatalf("expected valid signature to verify")
	}
	if client.VerifyPaymentSignature(orderID, paymentID, "deadbeef") {
		t.Fatalf("expected forged signature to fail")
	}
	if client.VerifyPaymentSignature("order_other", paymentID, signature) {
		t.Fatalf("expected signature over different order to fail")
	}
	if client.VerifyPaymentSignature(orderID, paymentID, "") {
		t.Fatalf("expected empty signature to fail")
	}
}

func TestNewReceipt(t *testing.T) {
	t.Parallel()

	client := &Client{}
	receipt := client.NewReceipt("order")
	if !strings.HasPrefix(receipt, "order-") {
		t.Fatalf("unexpected receipt prefix %q", receipt)
	}
	if client.NewReceipt("") == client.NewReceipt("") {
		t.Fatalf("expected receipts to be unique")
	}
}
