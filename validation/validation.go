// Package validation checks decoded JSON payloads against declarative rule sets.
//
// Payloads are validated as map[string]any rather than typed structs so that a
// field holding the wrong JSON type (title: false) is reported instead of being
// swallowed by the decoder. Every violation is collected; nothing short-circuits.
package validation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// Payload is a decoded JSON object. Missing keys and JSON null are both absent values.
type Payload map[string]any

// Decode parses a request body. An empty or non-object body yields an empty payload,
// so that presence rules report every required field.
func Decode(body []byte) Payload {
	p := Payload{}
	if len(bytes.TrimSpace(body)) == 0 {
		return p
	}
	if err := json.Unmarshal(body, &p); err != nil {
		return Payload{}
	}
	return p
}

// String returns the string at key and whether it was a string.
func (p Payload) String(key string) (string, bool) {
	s, ok := p[key].(string)
	return s, ok
}

// Number returns the number at key and whether it was a JSON number.
func (p Payload) Number(key string) (float64, bool) {
	n, ok := p[key].(float64)
	return n, ok
}

// Has reports whether key is present and not null.
func (p Payload) Has(key string) bool {
	v, ok := p[key]
	return ok && v != nil
}

// Rule inspects one field value. present is false when the key is missing or null.
// It returns the violation message, or "" when the value passes.
type Rule struct {
	check func(v *validator.Validate, field string, value any, present bool) string
	// optional rules stop evaluation of the remaining rules when the value is absent.
	optional bool
}

// Field binds rules to a payload key.
type Field struct {
	Name  string
	Rules []Rule
}

// RuleSet is the ordered list of fields checked for one operation.
type RuleSet []Field

// Engine runs rule sets. It is safe for concurrent use.
type Engine struct {
	validate *validator.Validate
}

// New builds an engine with the custom tags registered. It panics if a tag
// cannot be registered, since every password check would then be skipped.
func New() *Engine {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := registerTags(v); err != nil {
		panic(fmt.Sprintf("validation: %v", err))
	}
	return &Engine{validate: v}
}

func registerTags(v *validator.Validate) error {
	if err := v.RegisterValidation(TagStrongPassword, func(fl validator.FieldLevel) bool {
		return IsStrongPassword(fl.Field().String())
	}); err != nil {
		return fmt.Errorf("register %s: %w", TagStrongPassword, err)
	}
	return nil
}

// Validate returns every violation of rules by p, or nil when p is valid.
func (e *Engine) Validate(p Payload, rules RuleSet) []string {
	var violations []string
	for _, field := range rules {
		value, present := p[field.Name]
		present = present && value != nil
		for _, rule := range field.Rules {
			if rule.optional {
				if !present {
					break
				}
				continue
			}
			if msg := rule.check(e.validate, field.Name, value, present); msg != "" {
				violations = append(violations, msg)
			}
		}
	}
	return violations
}

// Password policy: at least MinPasswordLength runes with one lowercase letter,
// one uppercase letter, one digit and one symbol.
const MinPasswordLength = 8

// TagStrongPassword is the validator tag backing the StrongPassword rule.
const TagStrongPassword = "strong_password"

// IsStrongPassword applies the password policy.
func IsStrongPassword(s string) bool {
	var length, lower, upper, digit, symbol int
	for _, r := range s {
		length++
		switch {
		case unicode.IsLower(r):
			lower++
		case unicode.IsUpper(r):
			upper++
		case unicode.IsDigit(r):
			digit++
		case unicode.IsLetter(r):
			// uncased letters count toward length only
		default:
			symbol++
		}
	}
	return length >= MinPasswordLength && lower > 0 && upper > 0 && digit > 0 && symbol > 0
}
