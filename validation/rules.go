package validation

import "github.com/go-playground/validator/v10"

// Optional skips the field's remaining rules when it is missing or null.
var Optional = Rule{optional: true}

// NotEmpty rejects missing, null and empty-string values.
var NotEmpty = Rule{check: func(_ *validator.Validate, field string, value any, present bool) string {
	if s, ok := value.(string); !present || (ok && s == "") {
		return field + " should not be empty"
	}
	return ""
}}

// IsString rejects anything that is not a JSON string.
var IsString = Rule{check: func(_ *validator.Validate, field string, value any, _ bool) string {
	if _, ok := value.(string); !ok {
		return field + " must be a string"
	}
	return ""
}}

// IsNumber rejects anything that is not a JSON number.
var IsNumber = Rule{check: func(_ *validator.Validate, field string, value any, _ bool) string {
	if _, ok := value.(float64); !ok {
		return field + " must be a number conforming to the specified constraints"
	}
	return ""
}}

// IsEmail rejects values that are not syntactically valid email addresses.
var IsEmail = Rule{check: func(v *validator.Validate, field string, value any, _ bool) string {
	s, ok := value.(string)
	if !ok || v.Var(s, "required,email") != nil {
		return field + " must be an email"
	}
	return ""
}}

// StrongPassword rejects values failing the password policy.
var StrongPassword = Rule{check: func(v *validator.Validate, field string, value any, _ bool) string {
	s, ok := value.(string)
	if !ok || v.Var(s, TagStrongPassword) != nil {
		return field + " is not strong enough"
	}
	return ""
}}

// Rule sets for each inbound operation.
var (
	RegisterRules = RuleSet{
		{Name: "name", Rules: []Rule{NotEmpty, IsString}},
		{Name: "email", Rules: []Rule{NotEmpty, IsEmail}},
		{Name: "password", Rules: []Rule{NotEmpty, StrongPassword}},
	}

	CreatePostRules = RuleSet{
		{Name: "title", Rules: []Rule{IsString}},
		{Name: "content", Rules: []Rule{IsString}},
	}

	UpdatePostRules = RuleSet{
		{Name: "title", Rules: []Rule{Optional, IsString}},
		{Name: "content", Rules: []Rule{Optional, IsString}},
	}

	CreateCommentRules = RuleSet{
		{Name: "post_id", Rules: []Rule{IsNumber}},
		{Name: "content", Rules: []Rule{NotEmpty, IsString}},
	}
)
