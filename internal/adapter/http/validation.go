package http

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// Reusable error payload
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
type ErrorResponse struct {
	Error   string       `json:"error"`
	Details []FieldError `json:"details,omitempty"`
}

var reAddr = regexp.MustCompile(`^0x[a-f0-9]{40}$`)

type CustomValidator struct{ v *validator.Validate }

func NewValidator() *CustomValidator {
	v := validator.New()

	// account address = 0x + 40-char lowercase hex
	_ = v.RegisterValidation("addr", func(fl validator.FieldLevel) bool {
		return reAddr.MatchString(fl.Field().String())
	})
	// token symbol known to the ledger
	_ = v.RegisterValidation("symbol", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "MUSD" || s == "MBTC"
	})

	return &CustomValidator{v: v}
}

func (cv *CustomValidator) Validate(i any) error { return cv.v.Struct(i) }

// Map validator.ValidationErrors → []FieldError with readable messages.
func ToFieldErrors(err error) []FieldError {
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "_", Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(ve))
	for _, e := range ve {
		field := e.Field()
		switch e.Tag() {
		case "required":
			out = append(out, FieldError{Field: field, Message: "is required"})
		case "addr":
			out = append(out, FieldError{Field: field, Message: "must be a 0x-prefixed 40-char lowercase hex address"})
		case "symbol":
			out = append(out, FieldError{Field: field, Message: "must be MUSD or MBTC"})
		case "gt":
			out = append(out, FieldError{Field: field, Message: "must be greater than " + e.Param()})
		case "gte":
			out = append(out, FieldError{Field: field, Message: "must be greater than or equal to " + e.Param()})
		case "oneof":
			out = append(out, FieldError{Field: field, Message: "must be one of " + e.Param()})
		default:
			out = append(out, FieldError{Field: field, Message: e.Tag() + " validation failed"})
		}
	}
	return out
}
