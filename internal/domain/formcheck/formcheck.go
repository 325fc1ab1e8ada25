// Package formcheck runs struct-tag validation for local form checks and
// translates the first violated rule into a domain error.
package formcheck

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Rule maps a validator tag to the domain error it stands for.
type Rule struct {
	Tag string
	Err error
}

// Check validates v against its `validate` tags.
// Rules are checked in order; the first rule whose tag any field violates wins,
// so callers control which message the user sees first.
// PRE: v is a struct or pointer to struct
// POST: Returns nil when every tag passes
func Check(v any, rules ...Rule) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	for _, rule := range rules {
		for _, fe := range verrs {
			if fe.Tag() == rule.Tag {
				return rule.Err
			}
		}
	}
	fe := verrs[0]
	return fmt.Errorf("%s is invalid", strings.ToLower(fe.Field()))
}

// Blank returns nil for an empty string so optional fields encode as JSON null.
func Blank(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return strings.TrimSpace(s)
}
