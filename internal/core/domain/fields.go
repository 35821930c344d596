package domain

import "regexp"

// Official Mexican identifier formats.
var (
	curpPattern       = regexp.MustCompile(`^[A-Z]{4}\d{6}[HM][A-Z]{5}[A-Z0-9]{2}$`)
	rfcPattern        = regexp.MustCompile(`^[A-ZÑ&]{3,4}\d{6}[A-Z0-9]{3}$`)
	postalCodePattern = regexp.MustCompile(`^\d{5}$`)
	phonePattern      = regexp.MustCompile(`^\d{10}$`)
	datePattern       = regexp.MustCompile(`^\d{2}-\d{2}-\d{4}$`)
)

// Field names as exposed in payloads and error messages.
const (
	FieldCURP       = "curp"
	FieldRFC        = "rfc"
	FieldPostalCode = "cp"
	FieldPhone      = "phone"
	FieldDate       = "date"
	FieldName       = "name"
	FieldEmail      = "email"
)

func ValidateCURP(s string) error       { return match(curpPattern, FieldCURP, s) }
func ValidateRFC(s string) error        { return match(rfcPattern, FieldRFC, s) }
func ValidatePostalCode(s string) error { return match(postalCodePattern, FieldPostalCode, s) }
func ValidatePhone(s string) error      { return match(phonePattern, FieldPhone, s) }

// ValidateDate accepts DD-MM-YYYY. Only the shape is checked, not the calendar.
func ValidateDate(s string) error { return match(datePattern, FieldDate, s) }

func match(re *regexp.Regexp, field, s string) error {
	if !re.MatchString(s) {
		return &FormatError{Field: field}
	}
	return nil
}
