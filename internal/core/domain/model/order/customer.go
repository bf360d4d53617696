package order

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"storefront/internal/pkg/errs"
	"storefront/internal/pkg/guard"
)

var ErrCustomerIsNotConstructed = errors.New("Customer must be created via NewCustomer")

// Customer holds the contact details captured at checkout.
type Customer struct {
	name    string
	email   string
	address string
	guard   guard.ConstructorGuard
}

// NewCustomer requires name and a parseable email. Address is optional.
func NewCustomer(name, email, address string) (Customer, error) {
	var errList []error
	if strings.TrimSpace(name) == "" {
		errList = append(errList, errs.NewValueIsRequiredError("customer.name"))
	}
	if strings.TrimSpace(email) == "" {
		errList = append(errList, errs.NewValueIsRequiredError("customer.email"))
	} else if _, err := mail.ParseAddress(email); err != nil {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("customer.email", fmt.Errorf("%q: %w", email, err)))
	}
	if err := errors.Join(errList...); err != nil {
		return Customer{}, err
	}

	return Customer{
		name:    strings.TrimSpace(name),
		email:   strings.TrimSpace(email),
		address: strings.TrimSpace(address),
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c Customer) Name() string { return c.name }
func (c Customer) Email() string { return c.email }
func (c Customer) Address() string { return c.address }

func (c Customer) Validate() error {
	return c.guard.Validate(ErrCustomerIsNotConstructed)
}
