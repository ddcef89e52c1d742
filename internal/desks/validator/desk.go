package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Alexandrudiun/spaces/pkg/logger"
	"github.com/Alexandrudiun/spaces/pkg/model"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type DeskValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewDeskValidator(log *logger.Logger) *DeskValidator {
	return &DeskValidator{
		validate: validator.New(),
		logger:   log,
	}
}

func (v *DeskValidator) ValidateCreate(req *model.DeskCreate) error {
	return v.validateStruct(req)
}

func (v *DeskValidator) ValidateUpdate(req *model.DeskUpdate) error {
	return v.validateStruct(req)
}

func (v *DeskValidator) ValidateBookingRequest(req *model.BookingRequest) error {
	return v.validateStruct(req)
}

func (v *DeskValidator) validateStruct(s any) error {
	if err := v.validate.Struct(s); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translate(validationErrs)
		}
		return err
	}
	return nil
}

func translate(errs validator.ValidationErrors) ValidationErrors {
	var out ValidationErrors
	for _, err := range errs {
		message := err.Error()
		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		}
		out = append(out, ValidationError{Field: err.Field(), Message: message})
	}
	return out
}
