package usecase

import (
	"fmt"
	"strings"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func joinValidationErrors(errs []ValidationError) string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.Field+" ("+e.Message+")")
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func ValidateConvertLeadInput(input ConvertLeadInput) []ValidationError {
	var errs []ValidationError

	if strings.TrimSpace(input.DealName) == "" {
		errs = append(errs, ValidationError{"dealName", "is required"})
	} else if len(input.DealName) > 200 {
		errs = append(errs, ValidationError{"dealName", "must not exceed 200 characters"})
	}

	if input.DealValue < 0 {
		errs = append(errs, ValidationError{"dealValue", "must not be negative"})
	}

	return errs
}

func ValidateCreateQuoteInput(input CreateQuoteInput) []ValidationError {
	var errs []ValidationError

	if input.DealID <= 0 {
		errs = append(errs, ValidationError{"deal_id", "is required"})
	}
	if input.CustomerID <= 0 {
		errs = append(errs, ValidationError{"customer_id", "is required"})
	}
	if input.Total < 0 {
		errs = append(errs, ValidationError{"total", "must not be negative"})
	}
	for i, item := range input.LineItems {
		if item.ProductID <= 0 {
			errs = append(errs, ValidationError{fmt.Sprintf("lineItems[%d].product_id", i), "is required"})
		}
		if item.Quantity <= 0 {
			errs = append(errs, ValidationError{fmt.Sprintf("lineItems[%d].quantity", i), "must be positive"})
		}
	}

	return errs
}
