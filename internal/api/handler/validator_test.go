package handler

import (
	"strings"
	"testing"
)

func TestEchoValidator_Messages(t *testing.T) {
	v := NewValidator()

	if err := v.Validate(&listProductsQuery{Q: "chair"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := v.Validate(&listProductsQuery{Q: strings.Repeat("x", 257)})
	if err == nil || err.Error() != "q must be at most 256 characters" {
		t.Fatalf("unexpected max message: %v", err)
	}

	type tagged struct {
		Email string `validate:"email"`
	}
	err = v.Validate(&tagged{Email: "nope"})
	if err == nil || err.Error() != "email failed validation (email)" {
		t.Fatalf("unexpected fallback message: %v", err)
	}
}
