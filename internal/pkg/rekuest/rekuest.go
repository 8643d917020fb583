package rekuest

import (
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"zonefinder.dev/backend/internal/constant"
	"zonefinder.dev/backend/internal/pkg/i18n"
	"zonefinder.dev/backend/internal/pkg/zferr"
)

var Validate = newValidator()

var koMessages = map[string]string{
	"required":  "{0} 항목은 필수입니다",
	"max":       "{0} 항목이 너무 깁니다 (최대 {1})",
	"min":       "{0} 항목이 너무 짧습니다 (최소 {1})",
	"latitude":  "{0} 항목은 올바른 위도여야 합니다",
	"longitude": "{0} 항목은 올바른 경도여야 합니다",
	"gt":        "{0} 항목은 {1}보다 커야 합니다",
	"lte":       "{0} 항목은 {1} 이하여야 합니다",
	"oneof":     "{0} 항목은 [{1}] 중 하나여야 합니다",
	"url":       "{0} 항목은 올바른 URL이어야 합니다",
	"alphanum":  "{0} 항목은 영문자와 숫자만 사용할 수 있습니다",
}

func init() {
	entr, _ := i18n.UT.GetTranslator("en")
	if err := enTranslations.RegisterDefaultTranslations(Validate, entr); err != nil {
		log.Warn().Err(err).Str("locale", "en").Msg("could not register translation")
	}

	kotr, _ := i18n.UT.GetTranslator("ko")
	for tag, text := range koMessages {
		text := text
		err := Validate.RegisterTranslation(tag, kotr, func(t ut.Translator) error {
			return t.Add(tag, text, true)
		}, func(t ut.Translator, fe validator.FieldError) string {
			msg, err := t.T(fe.Tag(), fe.Field(), fe.Param())
			if err != nil {
				return fe.Error()
			}
			return msg
		})
		if err != nil {
			log.Warn().Err(err).Str("locale", "ko").Str("tag", tag).Msg("could not register translation")
		}
	}
}

type ErrorResponse struct {
	Field     string `json:"field,omitempty"`
	Violation string `json:"violation"`
	Message   string `json:"message"`
}

func TranslatorFromCtx(c *fiber.Ctx) ut.Translator {
	if t, ok := c.Locals(constant.ContextKeyTranslator).(ut.Translator); ok {
		return t
	}
	return i18n.UT.GetFallback()
}

func translate(utt ut.Translator, ve validator.ValidationErrors) []*ErrorResponse {
	trans := make([]*ErrorResponse, 0, len(ve))
	for _, fe := range ve {
		trans = append(trans, &ErrorResponse{
			Field:     fe.Namespace(),
			Violation: fe.Tag(),
			Message:   strings.TrimSpace(fe.Translate(utt)),
		})
	}
	return trans
}

func validateStruct(c *fiber.Ctx, s any) []*ErrorResponse {
	err := Validate.Struct(s)
	if err == nil {
		return nil
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []*ErrorResponse{{Violation: "invalid", Message: err.Error()}}
	}
	return translate(TranslatorFromCtx(c), errs)
}

// ValidBody parses the request body into dest and validates it. dest shall always be a pointer.
func ValidBody(c *fiber.Ctx, dest any) error {
	if err := c.BodyParser(dest); err != nil {
		return zferr.ErrInvalidReq.Msg("invalid request: %s", err)
	}
	return ValidStruct(c, dest)
}

// ValidQuery parses the query string into dest and validates it.
func ValidQuery(c *fiber.Ctx, dest any) error {
	if err := c.QueryParser(dest); err != nil {
		return zferr.ErrInvalidReq.Msg("invalid query: %s", err)
	}
	return ValidStruct(c, dest)
}

func ValidStruct(c *fiber.Ctx, dest any) error {
	if errs := validateStruct(c, dest); errs != nil {
		return zferr.NewInvalidViolations(errs)
	}
	return nil
}

func ValidVar(field any, tag string) error {
	return Validate.Var(field, tag)
}
