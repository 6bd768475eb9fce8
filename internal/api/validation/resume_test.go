package validation

import (
	"errors"
	"testing"

	"resume-render/pkg/models"
	"resume-render/pkg/utils"
)

func TestValidateResumeAccepts(t *testing.T) {
	v := New()
	tests := []struct {
		name string
		data models.ResumeData
	}{
		{"name only", models.ResumeData{Name: "Ada Lovelace"}},
		{"valid email", models.ResumeData{Name: "Ada", Email: models.StringPtr("ada@example.com")}},
		{"blank email is absent", models.ResumeData{Name: "Ada", Email: models.StringPtr("   ")}},
		{"experience", models.ResumeData{Name: "Ada", Experience: []models.Experience{{Company: "Analytical Engines", Role: "Contributor"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := v.ValidateResume(&tt.data); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateResumeAggregatesFailures(t *testing.T) {
	v := New()
	data := models.ResumeData{
		Name:  "  ",
		Email: models.StringPtr("not-an-email"),
		Experience: []models.Experience{
			{Company: "Analytical Engines", Role: "Contributor"},
			{Company: "", Role: ""},
		},
	}

	err := v.ValidateResume(&data)
	if !errors.Is(err, utils.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	var verr *Error
	if !errors.As(err, &verr) {
		t.Fatalf("expected *Error, got %T", err)
	}

	got := map[string]string{}
	for _, f := range verr.Fields {
		got[f.Field] = f.Message
	}
	want := map[string]string{
		"name":                  "is required",
		"email":                 "must be a valid email address",
		"experience[1].company": "is required",
		"experience[1].role":    "is required",
	}
	if len(got) != len(want) {
		t.Fatalf("fields = %v, want %v", got, want)
	}
	for field, msg := range want {
		if got[field] != msg {
			t.Errorf("field %s: got %q, want %q", field, got[field], msg)
		}
	}
}

func TestValidateResumeDoesNotMutateInput(t *testing.T) {
	email := models.StringPtr(" ")
	data := models.ResumeData{Name: "Ada", Email: email}
	_ = New().ValidateResume(&data)
	if data.Email != email {
		t.Fatalf("input was modified")
	}
}
