// Package inputval validates operator-submitted form input before it is
// forwarded to the tracking service. Struct fields opt in with a
// `validate` tag; the `label` tag supplies the human-readable name used
// in messages.
package inputval

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// FieldError is one validation failure.
type FieldError struct {
	Field   string
	Message string
}

// Result collects validation failures in field order.
type Result struct {
	Errors []FieldError
}

// HasErrors reports whether any rule failed.
func (r *Result) HasErrors() bool { return len(r.Errors) > 0 }

// First returns the first failure message, or "".
func (r *Result) First() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0].Message
}

// All joins every failure message with "; ".
func (r *Result) All() string {
	if len(r.Errors) == 0 {
		return ""
	}
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, "; ")
}

func (r *Result) add(field, message string) {
	r.Errors = append(r.Errors, FieldError{Field: field, Message: message})
}

// Validate runs the `validate` tag rules on every string field of the
// struct. Supported rules: required, max=N, min=N, email, httpurl,
// objectid, imei. Format rules are skipped on empty values; `required`
// owns emptiness.
func Validate(input any) *Result {
	res := &Result{}

	v := reflect.ValueOf(input)
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return res
	}
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := f.Tag.Get("validate")
		if tag == "" || f.Type.Kind() != reflect.String {
			continue
		}
		label := f.Tag.Get("label")
		if label == "" {
			label = f.Name
		}
		value := v.Field(i).String()
		trimmed := strings.TrimSpace(value)

		for _, rule := range strings.Split(tag, ",") {
			rule = strings.TrimSpace(rule)
			switch {
			case rule == "required":
				if trimmed == "" {
					res.add(f.Name, label+" is required.")
				}
			case strings.HasPrefix(rule, "max="):
				n, err := strconv.Atoi(rule[4:])
				if err == nil && len([]rune(trimmed)) > n {
					res.add(f.Name, fmt.Sprintf("%s must be at most %d characters.", label, n))
				}
			case strings.HasPrefix(rule, "min="):
				n, err := strconv.Atoi(rule[4:])
				if err == nil && trimmed != "" && len([]rune(trimmed)) < n {
					res.add(f.Name, fmt.Sprintf("%s must be at least %d characters.", label, n))
				}
			case rule == "email":
				if trimmed != "" && !IsValidEmail(trimmed) {
					res.add(f.Name, "A valid email address is required.")
				}
			case rule == "httpurl":
				if trimmed != "" && !IsValidHTTPURL(trimmed) {
					res.add(f.Name, label+" must be a valid http(s) URL.")
				}
			case rule == "objectid":
				if trimmed != "" && !IsValidObjectID(trimmed) {
					res.add(f.Name, label+" must be a valid id.")
				}
			case rule == "imei":
				if trimmed != "" && !IsValidIMEI(trimmed) {
					res.add(f.Name, label+" must be a 15-digit IMEI.")
				}
			}
		}
	}
	return res
}
