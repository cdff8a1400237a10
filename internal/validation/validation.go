package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Struct: Request DTO'sunu validate tag'lerine göre doğrular; hata varsa
// alan bazlı mesajlarla 400 döner.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return fiber.NewError(fiber.StatusBadRequest, strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s zorunlu", fe.Field())
	case "gt":
		return fmt.Sprintf("%s %s'den büyük olmalı", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("%s en az %s olmalı", fe.Field(), fe.Param())
	case "lte":
		return fmt.Sprintf("%s en fazla %s olmalı", fe.Field(), fe.Param())
	case "email":
		return fmt.Sprintf("%s geçerli bir e-posta olmalı", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s şunlardan biri olmalı: %s", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("%s en az %s eleman içermeli", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s geçersiz", fe.Field())
	}
}
