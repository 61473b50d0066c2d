package edit

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("field"); name != "" {
			return name
		}
		return strings.ToLower(f.Name)
	})
	return v
}

type form struct {
	Name     string `field:"name" validate:"max=100"`
	Username string `field:"username" validate:"max=100"`
	Email    string `field:"email" validate:"omitempty,email"`
	Age      *int   `field:"age" validate:"omitnil,min=1,max=120"`
}

// ValidationError lists the fields a draft failed on.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+e.Fields[k])
	}
	return "invalid draft: " + strings.Join(parts, ", ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidDraft }

// Validate checks the draft against the constraints of the edit form: a
// well-formed email when given and an integer age between 1 and 120 when
// given.
func (d Draft) Validate() error {
	f := form{
		Name:     d.Name,
		Username: d.Username,
		Email:    strings.TrimSpace(d.Email),
	}
	problems := map[string]string{}

	if age := strings.TrimSpace(d.Age); age != "" {
		n, err := strconv.Atoi(age)
		if err != nil {
			problems["age"] = "must be a whole number"
		} else {
			f.Age = &n
		}
	}

	if err := validate.Struct(f); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return fmt.Errorf("%w: %w", ErrInvalidDraft, err)
		}
		for _, fe := range verrs {
			problems[fe.Field()] = describe(fe)
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return &ValidationError{Fields: problems}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "email":
		return "must be a valid email"
	case "min":
		if fe.Field() == "age" {
			return "must be at least " + fe.Param()
		}
		return "must be at least " + fe.Param() + " characters"
	case "max":
		if fe.Field() == "age" {
			return "must be at most " + fe.Param()
		}
		return "must be at most " + fe.Param() + " characters"
	default:
		return "is invalid"
	}
}
