package services

import (
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/yungbote/eduhub-backend/internal/domain"
)

const (
	notBlankTag = "notblank"
	levelTag    = "level"
	roleTag     = "role"
)

// Validator checks operation inputs and reports failures as validation
// errors keyed by JSON field name.
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

func NewValidator() *Validator {
	validate := validator.New()
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation(notBlankTag, notBlank)
	_ = validate.RegisterValidation(levelTag, func(fl validator.FieldLevel) bool {
		return domain.Level(fl.Field().String()).Valid()
	})
	_ = validate.RegisterValidation(roleTag, func(fl validator.FieldLevel) bool {
		return domain.Role(fl.Field().String()).Valid()
	})

	registerTranslation(validate, translator, notBlankTag, "{0} must not be blank")
	registerTranslation(validate, translator, levelTag, "{0} must be one of beginner, intermediate, advanced")
	registerTranslation(validate, translator, roleTag, "{0} must be one of student, instructor")

	return &Validator{validate: validate, translator: translator}
}

func registerTranslation(validate *validator.Validate, translator ut.Translator, tag, text string) {
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

func notBlank(fl validator.FieldLevel) bool {
	field := fl.Field()
	switch field.Kind() {
	case reflect.String:
		return strings.TrimSpace(field.String()) != ""
	case reflect.Slice, reflect.Map, reflect.Array:
		return field.Len() > 0
	default:
		return !field.IsZero()
	}
}

// Struct validates s. The returned error carries one field entry per
// failing rule.
func (v *Validator) Struct(op string, s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return domain.Wrap(domain.CodeValidation, op, err)
	}
	fields := make([]domain.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, domain.FieldError{Field: fieldPath(fe), Error: fe.Translate(v.translator)})
	}
	return domain.FieldsError(domain.CodeValidation, op, fields)
}

// fieldPath drops the struct name from the namespace, so nested fields read
// "tags[1]" rather than "NewCourse.tags[1]".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func invalid(op, field, msg string) error {
	return domain.FieldsError(domain.CodeValidation, op, []domain.FieldError{{Field: field, Error: msg}})
}
