package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	validator "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const DateLayout = "2006-01-02"

var ErrInvalid = errors.New("invalid value")

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks struct tags and returns an error wrapping ErrInvalid that lists the failing fields.
func Validate(v any) error {
	if err := validate.Struct(v); err != nil {
		return wrapValidation(err)
	}
	return nil
}

func wrapValidation(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s(%s)", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(fields, ", "))
}

func IsDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// IsMonth reports whether s looks like YYYY-MM.
func IsMonth(s string) bool {
	_, err := time.Parse("2006-01", s)
	return err == nil
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

func NewID() string {
	return uuid.NewString()
}
