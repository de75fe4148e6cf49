package support

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/tmbureta/academia/core"
)

// "Em Análise" carries a space, so these cannot be oneof tags.
var (
	sectorTag  = "ticketsector"
	sectorText = "invalid sector"

	statusTag  = "ticketstatus"
	statusText = "invalid status"
)

// InitValidators registers the support package's custom validators.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(sectorTag, sectorValidation)
	core.RegisterCustomTranslation(validate, translator, sectorTag, sectorText)

	_ = validate.RegisterValidation(statusTag, statusValidation)
	core.RegisterCustomTranslation(validate, translator, statusTag, statusText)
}

func sectorValidation(fl validator.FieldLevel) bool {
	s := Sector(fl.Field().String())
	for _, known := range AllSectors {
		if s == known {
			return true
		}
	}
	return false
}

func statusValidation(fl validator.FieldLevel) bool {
	s := Status(fl.Field().String())
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}
