package app

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"quiz-client/internal/domain"
)

var emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("emailshape", func(fl validator.FieldLevel) bool {
		return emailShape.MatchString(fl.Field().String())
	})
	return v
}

// normalizeParticipant trims identity fields and lower-cases the email.
func normalizeParticipant(p domain.Participant) domain.Participant {
	p.Name = strings.TrimSpace(p.Name)
	p.Email = domain.NormalizeEmail(p.Email)
	p.Grade = strings.TrimSpace(p.Grade)
	return p
}

// ValidateParticipant checks required fields and the email shape. It never touches the network.
func ValidateParticipant(p domain.Participant) error {
	err := validate.Struct(p)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, strings.ToLower(fe.Field())+" ("+fe.Tag()+")")
	}
	return fmt.Errorf("%w: %s", domain.ErrValidation, strings.Join(fields, ", "))
}
