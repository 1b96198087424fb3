package validator

import (
	"strings"
	"testing"
)

type sampleRequest struct {
	Name string   `validate:"required"`
	Type string   `validate:"required,oneof=group one_on_one"`
	IDs  []string `validate:"min=1,max=5"`
}

func TestValidatePasses(t *testing.T) {
	cv := New()
	req := sampleRequest{Name: "Priya", Type: "group", IDs: []string{"a"}}
	if err := cv.Validate(&req); err != nil {
		t.Fatalf("valid struct rejected: %v", err)
	}
}

func TestValidateFlattensFieldErrors(t *testing.T) {
	cv := New()
	req := sampleRequest{Type: "webinar", IDs: nil}
	err := cv.Validate(&req)
	if err == nil {
		t.Fatal("expected validation failure")
	}
	msg := err.Error()
	for _, want := range []string{"name is required", "type must be one of: group one_on_one", "ids must have at least 1 items"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q missing %q", msg, want)
		}
	}
}
