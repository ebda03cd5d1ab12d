package services

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	appErr "github.com/esc-directory/consultants/pkg/errors"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// requiredOrder fixes the order missing fields are reported in.
var requiredOrder = []string{"firm", "contact", "email", "service", "regions"}

var textFieldOrder = []string{"firm", "contact", "email", "service", "regions", "phone"}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("basic_email", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	// Postgres text columns reject NUL and invalid UTF-8.
	_ = v.RegisterValidation("storable", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return utf8.ValidString(s) && !strings.ContainsRune(s, 0)
	})
	return v
}

// normalizeInput trims every text field and validates the result. Missing
// fields are reported before a malformed email.
func normalizeInput(in ConsultantInput) (ConsultantInput, error) {
	out := ConsultantInput{
		Firm:    strings.TrimSpace(in.Firm),
		Contact: strings.TrimSpace(in.Contact),
		Email:   strings.TrimSpace(in.Email),
		Service: strings.TrimSpace(in.Service),
	}
	if in.Phone != nil {
		if p := strings.TrimSpace(*in.Phone); p != "" {
			out.Phone = &p
		}
	}
	if in.Regions != nil {
		out.Regions = make([]string, len(in.Regions))
		for i, r := range in.Regions {
			out.Regions[i] = strings.TrimSpace(r)
		}
	}

	err := validate.Struct(out)
	if err == nil {
		return out, nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return ConsultantInput{}, appErr.Wrap(err, appErr.CodeInvalid, "invalid consultant input")
	}

	missing := map[string]bool{}
	unstorable := map[string]bool{}
	badEmail := false
	for _, fe := range verrs {
		field, _, _ := strings.Cut(fe.Field(), "[")
		switch fe.Tag() {
		case "basic_email":
			badEmail = true
		case "storable":
			unstorable[field] = true
		default:
			missing[field] = true
		}
	}
	if len(missing) > 0 {
		var names []string
		for _, name := range requiredOrder {
			if missing[name] {
				names = append(names, name)
			}
		}
		return ConsultantInput{}, appErr.New(appErr.CodeInvalid, "missing required fields: "+strings.Join(names, ", ")).
			WithMeta("fields", names)
	}
	if len(unstorable) > 0 {
		var names []string
		for _, name := range textFieldOrder {
			if unstorable[name] {
				names = append(names, name)
			}
		}
		return ConsultantInput{}, appErr.New(appErr.CodeInvalid, "invalid characters in fields: "+strings.Join(names, ", ")).
			WithMeta("fields", names)
	}
	if badEmail {
		return ConsultantInput{}, ErrInvalidEmail
	}
	return ConsultantInput{}, appErr.Wrap(err, appErr.CodeInvalid, "invalid consultant input")
}
