// Package accounts manages payment account links through the backend. Every
// mutation is followed by a full re-fetch of the account projection.
package accounts

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Link associates an account with a property.
type Link struct {
	PropertyID string `json:"propertyId"`
	IsDefault  bool   `json:"isDefault"`
}

// Account is a payment account and the properties it is linked to.
type Account struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	StripeAccountID string `json:"stripeAccountId"`
	IsGlobalDefault bool   `json:"isGlobalDefault"`
	Links           []Link `json:"links"`
}

// Projection is the full set of accounts as last fetched from the backend.
type Projection struct {
	Accounts []Account `json:"accounts"`
}

// Validate reports every property with more than one default link and more
// than one global default account.
func (p Projection) Validate() error {
	var result *multierror.Error

	defaults := make(map[string][]string)
	var order []string
	var globals []string

	for _, a := range p.Accounts {
		if a.IsGlobalDefault {
			globals = append(globals, a.ID)
		}
		for _, l := range a.Links {
			if !l.IsDefault {
				continue
			}
			if _, seen := defaults[l.PropertyID]; !seen {
				order = append(order, l.PropertyID)
			}
			defaults[l.PropertyID] = append(defaults[l.PropertyID], a.ID)
		}
	}

	for _, property := range order {
		if ids := defaults[property]; len(ids) > 1 {
			result = multierror.Append(result, fmt.Errorf("%w: property %s has %v", ErrMultiplePropertyDefaults, property, ids))
		}
	}
	if len(globals) > 1 {
		result = multierror.Append(result, fmt.Errorf("%w: %v", ErrMultipleGlobalDefaults, globals))
	}

	return result.ErrorOrNil()
}

// Account returns the account with id.
func (p Projection) Account(id string) (Account, bool) {
	for _, a := range p.Accounts {
		if a.ID == id {
			return a, true
		}
	}
	return Account{}, false
}

// HasLink reports whether account id is linked to property.
func (p Projection) HasLink(id, property string) bool {
	a, ok := p.Account(id)
	if !ok {
		return false
	}
	for _, l := range a.Links {
		if l.PropertyID == property {
			return true
		}
	}
	return false
}

// DefaultFor returns the account that receives payments for property: the
// linked default, or the global default when the property has no links.
func (p Projection) DefaultFor(property string) (Account, bool) {
	linked := false
	for _, a := range p.Accounts {
		for _, l := range a.Links {
			if l.PropertyID != property {
				continue
			}
			linked = true
			if l.IsDefault {
				return a, true
			}
		}
	}
	if linked {
		return Account{}, false
	}

	for _, a := range p.Accounts {
		if a.IsGlobalDefault {
			return a, true
		}
	}
	return Account{}, false
}
