package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// ShippingDetails is the customer-facing destination captured at checkout,
// persisted as JSONB on the order row.
type ShippingDetails struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address"`
	City      string `json:"city,omitempty"`
	State     string `json:"state,omitempty"`
	ZipCode   string `json:"zip_code"`
	Country   string `json:"country,omitempty"`
}

// MissingFields lists the required fields that are empty.
func (s ShippingDetails) MissingFields() []string {
	var missing []string
	for _, field := range []struct {
		name  string
		value string
	}{
		{"email", s.Email},
		{"first_name", s.FirstName},
		{"address", s.Address},
		{"zip_code", s.ZipCode},
	} {
		if strings.TrimSpace(field.value) == "" {
			missing = append(missing, field.name)
		}
	}
	return missing
}

// Complete reports whether the fields required to place an order are present.
func (s ShippingDetails) Complete() bool {
	return len(s.MissingFields()) == 0
}

// Value marshals the details into JSON for Postgres.
func (s ShippingDetails) Value() (driver.Value, error) {
	buf, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return buf, nil
}

// Scan decodes JSONB into the struct.
func (s *ShippingDetails) Scan(value interface{}) error {
	if value == nil {
		*s = ShippingDetails{}
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("shipping details: unsupported scan type %T", value)
	}

	var result ShippingDetails
	if err := json.Unmarshal(raw, &result); err != nil {
		return err
	}
	*s = result
	return nil
}
