package docflow

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/nyaruka/phonenumbers"
)

// Rule failures surface verbatim as the ozzo field message, so these
// carry the user-facing French strings.
var (
	errInvalidTelephone    = errors.New("numéro de téléphone invalide")
	errInvalidTypeDocument = errors.New("type de document invalide")
)

// moroccan ICE identifiers are 15 digits
var iceRule = []validation.Rule{
	validation.Required,
	validation.Length(15, 15),
	is.Digit,
}

// ValidatePhoneNumber parses the number against the given default
// region, "MA" when empty.
func ValidatePhoneNumber(value any) error {
	raw, _ := value.(string)
	if raw == "" {
		return nil
	}

	num, err := phonenumbers.Parse(raw, "MA")
	if err != nil {
		return errInvalidTelephone
	}

	if !phonenumbers.IsValidNumber(num) {
		return errInvalidTelephone
	}

	return nil
}

// ValidateSociete checks the fields a company record must carry before
// it is persisted.
func ValidateSociete(raisonSociale, ice, telephone string) error {
	return validation.Errors{
		"raisonSociale": validation.Validate(raisonSociale, validation.Required, validation.Length(1, 200)),
		"ice":           validation.Validate(ice, iceRule...),
		"telephone":     validation.Validate(telephone, validation.By(ValidatePhoneNumber)),
	}.Filter()
}
