// Package validators registers the account and contact field formats on
// gin's validator engine.
package validators

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"unicode"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const (
	TagUsernameFormat = "username_format"
	TagPhoneFormat    = "phone_format"
)

var (
	phonePattern = regexp.MustCompile(`^\+?[0-9\s\-]+$`)

	registerOnce sync.Once
	registerErr  error
)

// ValidUsername reports whether s contains only letters, digits, spaces,
// hyphens and underscores.
func ValidUsername(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			continue
		}
		return false
	}
	return true
}

// ValidPhone reports whether s looks like a phone number: an optional leading
// plus followed by digits, spaces and hyphens.
func ValidPhone(s string) bool {
	return phonePattern.MatchString(s)
}

// Register installs the custom tags on gin's default validator and makes
// field errors report JSON names. Safe to call more than once.
func Register() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
			return
		}
		registerErr = RegisterOn(v)
	})
	return registerErr
}

// RegisterOn installs the custom tags on v.
func RegisterOn(v *validator.Validate) error {
	v.RegisterTagNameFunc(jsonFieldName)

	if err := v.RegisterValidation(TagUsernameFormat, func(fl validator.FieldLevel) bool {
		return ValidUsername(fl.Field().String())
	}); err != nil {
		return err
	}
	return v.RegisterValidation(TagPhoneFormat, func(fl validator.FieldLevel) bool {
		return ValidPhone(fl.Field().String())
	})
}

func jsonFieldName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}
