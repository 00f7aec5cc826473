package validation_test

import (
	"testing"

	"github.com/outstackhq/outstack/internal/platform/validation"
)

func TestGoplaygroundValidator_ValidateStruct(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		given    any
		field    string
		hasError bool
		errMsg   string
	}{
		{"Required field is present", struct {
			Name string `validate:"required"`
		}{Name: "Antonio"}, "Name", false, ""},
		{"Required field is missing", struct {
			Name string `validate:"required"`
		}{}, "Name", true, "Name is required"},
		{"URL field is invalid", struct {
			BaseURL string `json:"base_url" validate:"required,url"`
		}{BaseURL: "not-a-url"}, "base_url", true, "base_url must be a valid URL"},
		{"Zero value skipped with omitempty", struct {
			PageSize int `json:"page_size" validate:"omitempty,gte=1,lte=100"`
		}{}, "page_size", false, ""},
		{"Value above the allowed maximum", struct {
			PageSize int `json:"page_size" validate:"omitempty,gte=1,lte=100"`
		}{PageSize: 500}, "page_size", true, "page_size must be less than or equal to 100"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			v := validation.NewGoPlaygroundValidator()

			errs := v.ValidateStruct(tc.given)
			if errs != nil && !tc.hasError {
				t.Errorf("v.ValidateStruct(%v) = %+v, want: %+v", tc.given, errs, nil)
			}

			gotMsg, wantMsg := errs[tc.field], tc.errMsg
			if gotMsg != wantMsg {
				t.Errorf("errs[%q] = %q, want: %q", tc.field, gotMsg, wantMsg)
			}
		})
	}
}
