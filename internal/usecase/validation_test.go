package usecase

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateConvertLeadInput(t *testing.T) {
	assert.Empty(t, ValidateConvertLeadInput(ConvertLeadInput{DealName: "Acme expansion", DealValue: 0}))

	errs := ValidateConvertLeadInput(ConvertLeadInput{DealName: "", DealValue: -1})
	assert.Len(t, errs, 2)
	assert.Equal(t, "dealName", errs[0].Field)
	assert.Equal(t, "dealValue", errs[1].Field)

	long := strings.Repeat("x", 201)
	errs = ValidateConvertLeadInput(ConvertLeadInput{DealName: long, DealValue: 10})
	assert.Len(t, errs, 1)
	assert.Equal(t, "must not exceed 200 characters", errs[0].Message)
}

func TestValidateCreateQuoteInput(t *testing.T) {
	ok := CreateQuoteInput{
		DealID:     15,
		CustomerID: 42,
		Total:      100,
		LineItems:  []QuoteLineItemInput{{ProductID: 1, Quantity: 1, PriceAtTime: 100}},
	}
	assert.Empty(t, ValidateCreateQuoteInput(ok))

	errs := ValidateCreateQuoteInput(CreateQuoteInput{
		Total:     -1,
		LineItems: []QuoteLineItemInput{{ProductID: 0, Quantity: 0}},
	})
	fields := make([]string, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, e.Field)
	}
	assert.Contains(t, fields, "deal_id")
	assert.Contains(t, fields, "customer_id")
	assert.Contains(t, fields, "total")
	assert.Contains(t, fields, "lineItems[0].product_id")
	assert.Contains(t, fields, "lineItems[0].quantity")
}

func TestJoinValidationErrors(t *testing.T) {
	msg := joinValidationErrors([]ValidationError{
		{"dealName", "is required"},
		{"dealValue", "must not be negative"},
	})
	assert.Equal(t, "validation failed: dealName (is required), dealValue (must not be negative)", msg)
}
