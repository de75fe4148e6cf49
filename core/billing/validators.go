package billing

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/tmbureta/academia/core"
)

var (
	payMethodTag  = "paymethod"
	payMethodText = "invalid payment method"

	statusTag  = "billstatus"
	statusText = "invalid status"
)

// InitValidators registers the billing package's custom validators.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(payMethodTag, payMethodValidation)
	core.RegisterCustomTranslation(validate, translator, payMethodTag, payMethodText)

	_ = validate.RegisterValidation(statusTag, statusValidation)
	core.RegisterCustomTranslation(validate, translator, statusTag, statusText)
}

func payMethodValidation(fl validator.FieldLevel) bool {
	m := Method(fl.Field().String())
	for _, known := range AllMethods {
		if m == known {
			return true
		}
	}
	return false
}

func statusValidation(fl validator.FieldLevel) bool {
	switch Status(fl.Field().String()) {
	case StatusPendente, StatusParcial, StatusVencido, StatusPago:
		return true
	}
	return false
}
