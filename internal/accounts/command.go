package accounts

import (
	"fmt"
	"strings"
)

// CreateCommand registers a payment account.
type CreateCommand struct {
	Name            string `json:"name"`
	StripeAccountID string `json:"stripeAccountId"`
	IsGlobalDefault bool   `json:"isGlobalDefault"`
}

func (c CreateCommand) validate() error {
	var missing []string
	if strings.TrimSpace(c.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(c.StripeAccountID) == "" {
		missing = append(missing, "stripeAccountId")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidCommand, strings.Join(missing, ", "))
	}
	return nil
}

// UpdateCommand changes account fields. Nil fields are left untouched.
type UpdateCommand struct {
	Name            *string `json:"name,omitempty"`
	StripeAccountID *string `json:"stripeAccountId,omitempty"`
	IsGlobalDefault *bool   `json:"isGlobalDefault,omitempty"`
}

// LinkCommand links an account to a property.
type LinkCommand struct {
	PropertyID string `json:"propertyId"`
	IsDefault  bool   `json:"isDefault"`
}

func (c LinkCommand) validate() error {
	if strings.TrimSpace(c.PropertyID) == "" {
		return fmt.Errorf("%w: missing propertyId", ErrInvalidCommand)
	}
	return nil
}
