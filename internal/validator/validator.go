// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"pennywise/internal/models"
)

var dateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("statement_dialect", validateStatementDialect)
		_ = v.RegisterValidation("card_type", validateCardType)
		_ = v.RegisterValidation("aggregate_op", validateAggregateOp)
		_ = v.RegisterValidation("group_by", validateGroupBy)
		_ = v.RegisterValidation("category", validateCategory)
		_ = v.RegisterValidation("iso_date", validateISODate)
	}
}

func validateStatementDialect(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "credit", "debit":
		return true
	}
	return false
}

func validateCardType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "credit", "debit":
		return true
	}
	return false
}

func validateAggregateOp(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "sum", "avg", "count", "min", "max":
		return true
	}
	return false
}

func validateGroupBy(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "category", "month", "merchant", "card_type", "bank", "account_last4":
		return true
	}
	return false
}

func validateCategory(fl validator.FieldLevel) bool {
	return models.IsValidCategory(fl.Field().String())
}

func validateISODate(fl validator.FieldLevel) bool {
	return dateRegex.MatchString(fl.Field().String())
}
