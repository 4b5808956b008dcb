package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Name     string   `json:"name" validate:"required,min=2"`
	Email    string   `json:"email" validate:"required,email"`
	Phone    string   `json:"phone" validate:"omitempty,phone"`
	Kind     string   `json:"kind" validate:"omitempty,oneof=credit debit"`
	Quantity *float64 `json:"quantity" validate:"omitempty,gt=0"`
}

func TestStruct(t *testing.T) {
	qty := 2.0
	assert.Nil(t, Struct(&sample{Name: "Asha", Email: "a@b.co", Phone: "+91 98765 43210", Kind: "debit", Quantity: &qty}))

	neg := -1.0
	errs := Struct(&sample{Name: "A", Email: "nope", Phone: "call me", Kind: "refund", Quantity: &neg})
	assert.Equal(t, map[string]string{
		"name":     "name must be at least 2 characters long!",
		"email":    "Invalid email!",
		"phone":    "Invalid phone number!",
		"kind":     "kind must be one of: credit, debit!",
		"quantity": "quantity must be greater than 0!",
	}, errs)

	assert.Equal(t, "name is required!", Struct(&sample{Email: "a@b.co"})["name"])
}

func TestPhoneTag(t *testing.T) {
	type contact struct {
		Phone string `json:"phone" validate:"required,phone"`
	}
	for _, ok := range []string{"9876543210", "+91-98765-43210", "022 2345 6789", " 9876543210 "} {
		assert.Nil(t, Struct(&contact{Phone: ok}), ok)
	}
	for _, bad := range []string{"12345", "abc1234567", "+"} {
		assert.Equal(t, "Invalid phone number!", Struct(&contact{Phone: bad})["phone"], bad)
	}
}
