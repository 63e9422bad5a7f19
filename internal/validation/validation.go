// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package validation validates decoded request bodies with struct tags and
// reports failures as a list of field/message pairs keyed by JSON name.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/olegiv/sitecms-go/internal/model"
	"github.com/olegiv/sitecms-go/internal/util"
)

// FieldError is one failed field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors is returned by Struct when validation fails.
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, len(e))
	for i, fe := range e {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validator wraps a configured go-playground validator. It is safe for
// concurrent use.
type Validator struct {
	validate *validator.Validate
}

// New creates a validator that names fields by their json tag and knows the
// domain rules publish_status, enquiry_status, enquiry_priority, role,
// media_folder and slug.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	mustRegister(v, "publish_status", stringRule(model.IsPublishStatus))
	mustRegister(v, "enquiry_status", stringRule(model.IsEnquiryStatus))
	mustRegister(v, "enquiry_priority", stringRule(model.IsEnquiryPriority))
	mustRegister(v, "role", stringRule(model.IsValidRole))
	mustRegister(v, "media_folder", stringRule(model.IsMediaFolder))
	mustRegister(v, "slug", stringRule(util.IsValidSlug))

	return &Validator{validate: v}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("registering validation %q: %v", tag, err))
	}
}

// stringRule adapts a predicate. Empty values pass; "required" handles those.
func stringRule(ok func(string) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || ok(s)
	}
}

// Struct validates s. It returns Errors for rule failures and a plain error
// when s cannot be validated at all.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := make(Errors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fieldPath(fe), Message: message(fe)})
	}
	return out
}

// fieldPath drops the top-level struct name from the namespace, so nested
// fields read "social.twitter" and list items "keywords[1]".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_without":
		return "This field is required"
	case "email":
		return "Must be a valid email address"
	case "url", "http_url":
		return "Must be a valid URL"
	case "min":
		if isSized(fe.Kind()) {
			return fmt.Sprintf("Must be at least %s characters long", fe.Param())
		}
		return fmt.Sprintf("Must be at least %s", fe.Param())
	case "max":
		if isSized(fe.Kind()) {
			return fmt.Sprintf("Must be at most %s characters long", fe.Param())
		}
		return fmt.Sprintf("Must be at most %s", fe.Param())
	case "len":
		return fmt.Sprintf("Must be exactly %s characters long", fe.Param())
	case "oneof":
		return "Must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "publish_status":
		return "Must be one of: " + strings.Join(model.PublishStatuses, ", ")
	case "enquiry_status":
		return "Must be one of: " + strings.Join(model.EnquiryStatuses, ", ")
	case "enquiry_priority":
		return "Must be one of: " + strings.Join(model.EnquiryPriorities, ", ")
	case "role":
		return "Must be one of: " + model.RoleAdmin + ", " + model.RoleEditor
	case "media_folder":
		return "Must be one of: " + strings.Join(model.MediaFolders, ", ")
	case "slug":
		return "Must contain only lowercase letters, numbers and single hyphens"
	case "gte":
		return fmt.Sprintf("Must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("Must be less than or equal to %s", fe.Param())
	default:
		return fmt.Sprintf("Invalid value (failed on '%s' rule)", fe.Tag())
	}
}

func isSized(k reflect.Kind) bool {
	return k == reflect.String || k == reflect.Slice || k == reflect.Map
}
