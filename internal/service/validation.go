package service

import (
	"errors"
	"fmt"
	"strings"

	"giftlist/internal/models"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type categoryInput struct {
	Name string `validate:"required,max=255"`
}

// validateStruct runs the struct tags of v and reports the first failing field as a
// ValidationError.
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		switch fe.Tag() {
		case "required":
			return models.NewValidationError(fmt.Sprintf("%s is required", fe.Field()))
		case "max":
			return models.NewValidationError(fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param()))
		default:
			return models.NewValidationError(fmt.Sprintf("%s is invalid", fe.Field()))
		}
	}
	return models.NewValidationError(err.Error())
}

func normalizeGiftFields(f models.GiftFields) (models.GiftFields, error) {
	f.Name = strings.TrimSpace(f.Name)
	f.Description = trimOptional(f.Description)
	f.Price = trimOptional(f.Price)
	f.WhereToBuy = trimOptional(f.WhereToBuy)
	f.Picture = trimOptional(f.Picture)
	if err := validateStruct(f); err != nil {
		return f, err
	}
	return f, nil
}

func normalizeCategoryName(name string) (string, error) {
	in := categoryInput{Name: strings.TrimSpace(name)}
	if err := validateStruct(in); err != nil {
		return "", err
	}
	return in.Name, nil
}

// trimOptional trims s and turns a blank value into nil.
func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
