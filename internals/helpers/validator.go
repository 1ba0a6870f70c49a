package helper

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"schoolku_backend/internals/constants"

	"github.com/go-playground/locales/fr"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	frTranslations "github.com/go-playground/validator/v10/translations/fr"
	"github.com/gofiber/fiber/v2"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
	trans        ut.Translator

	hhmmRe = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
)

// ValidationError carries the joined message plus per-field messages.
type ValidationError struct {
	Message string
	Fields  map[string][]string
}

func (e *ValidationError) Error() string { return e.Message }

// Validator returns the shared validator with French messages and JSON field names.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})

		_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
			return hhmmRe.MatchString(fl.Field().String())
		})

		locale := fr.New()
		uni := ut.New(locale, locale)
		trans, _ = uni.GetTranslator("fr")
		_ = frTranslations.RegisterDefaultTranslations(v, trans)

		registerTranslation(v, "hhmm", "{0} doit être une heure au format HH:MM")
		registerTranslation(v, "datetime", "{0} doit être une date au format AAAA-MM-JJ")
		registerTranslation(v, "uuid", "{0} doit être un UUID valide")
		registerTranslation(v, "oneof", "{0} doit être l'une des valeurs [{1}]")
		registerTranslation(v, "required_without", "{0} est requis")
		registerTranslation(v, "gtfield", "{0} doit être postérieur à {1}")

		validate = v
	})
	return validate
}

func registerTranslation(v *validator.Validate, tag, msg string) {
	_ = v.RegisterTranslation(tag, trans, func(t ut.Translator) error {
		return t.Add(tag, msg, true)
	}, func(t ut.Translator, fe validator.FieldError) string {
		out, err := t.T(tag, fe.Field(), lowerFirst(fe.Param()))
		if err != nil {
			return fe.Error()
		}
		return out
	})
}

// ValidateStruct runs the validator and converts failures to *ValidationError.
func ValidateStruct(v *validator.Validate, s any) error {
	if err := v.Struct(s); err != nil {
		return toValidationError(err)
	}
	return nil
}

func toValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &ValidationError{Message: err.Error()}
	}
	fields := make(map[string][]string, len(verrs))
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msg := fe.Translate(trans)
		key := fieldKey(fe.Namespace())
		fields[key] = append(fields[key], msg)
		msgs = append(msgs, msg)
	}
	return &ValidationError{Message: strings.Join(msgs, ", "), Fields: fields}
}

// BindAndValidate parses the body into dst, normalizes it when supported, then validates.
func BindAndValidate[T any](c *fiber.Ctx, v *validator.Validate, dst *T) error {
	if len(c.Body()) > 0 {
		if err := c.BodyParser(dst); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, constants.MsgInvalidBody)
		}
	}
	if n, ok := any(dst).(interface{ Normalize() }); ok {
		n.Normalize()
	}
	return ValidateStruct(v, dst)
}

// "CreateRequest.grades[0].score" -> "grades[0].score"
func fieldKey(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
