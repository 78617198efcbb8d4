package Controllers

import (
	"errors"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/gofiber/fiber/v2"

	"Aegis/Recurrence"
	"Aegis/Tasks"
)

var (
	validate *validator.Validate
	trans    ut.Translator
)

func init() {
	english := en.New()
	uni := ut.New(english, english)
	trans, _ = uni.GetTranslator("en")
	validate = validator.New()
	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		panic(err)
	}
}

// validateStruct runs validator tags and returns translated messages.
func validateStruct(input interface{}) []string {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return []string{err.Error()}
	}
	messages := make([]string, 0, len(fieldErrors))
	for _, fieldError := range fieldErrors {
		messages = append(messages, fieldError.Translate(trans))
	}
	return messages
}

// respondError maps core errors onto HTTP statuses: NotFound 404,
// InvalidState 409, duplicate signal 409 with the existing task attached,
// validation 400, configuration 422.
func respondError(ctx *fiber.Ctx, err error) error {
	var duplicate *Tasks.DuplicateError
	switch {
	case errors.As(err, &duplicate):
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":         err.Error(),
			"duplicate":     true,
			"existing_task": duplicate.Existing,
		})
	case errors.Is(err, Tasks.ErrNotFound):
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, Tasks.ErrInvalidState):
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, Tasks.ErrValidation):
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, Recurrence.ErrConfiguration):
		return ctx.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}
