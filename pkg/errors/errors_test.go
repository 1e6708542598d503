package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code   Code
		status int
	}{
		{CodeValidation, http.StatusBadRequest},
		{CodeNotFound, http.StatusNotFound},
		{CodeEmptyCart, http.StatusUnprocessableEntity},
		{CodeItemUnavailable, http.StatusConflict},
		{CodeStateConflict, http.StatusUnprocessableEntity},
		{CodeConflict, http.StatusConflict},
		{CodeDependency, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		if got := MetadataFor(tt.code).HTTPStatus; got != tt.status {
			t.Fatalf("MetadataFor(%s).HTTPStatus = %d, want %d", tt.code, got, tt.status)
		}
	}
}

func TestMetadataForUnknownCodeFallsBackToInternal(t *testing.T) {
	meta := MetadataFor(Code("NOPE"))
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("unexpected status %d", meta.HTTPStatus)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := fmt.Errorf("boom")
	err := Wrap(CodeDependency, cause, "db write failed")
	if !errors.Is(err, cause) {
		t.Fatal("expected wrapped cause to survive errors.Is")
	}
	if err.Code() != CodeDependency {
		t.Fatalf("unexpected code %s", err.Code())
	}
}

func TestAsFindsTypedErrorInChain(t *testing.T) {
	inner := New(CodeItemUnavailable, "item sold out")
	wrapped := fmt.Errorf("checkout: %w", inner)

	typed := As(wrapped)
	if typed == nil {
		t.Fatal("expected typed error")
	}
	if typed.Code() != CodeItemUnavailable {
		t.Fatalf("unexpected code %s", typed.Code())
	}
}

func TestHasCode(t *testing.T) {
	err := New(CodeEmptyCart, "nothing to checkout")
	if !HasCode(err, CodeEmptyCart) {
		t.Fatal("expected HasCode to match")
	}
	if HasCode(err, CodeNotFound) {
		t.Fatal("unexpected code match")
	}
	if HasCode(errors.New("plain"), CodeEmptyCart) {
		t.Fatal("plain error should not match")
	}
}

func TestWithDetails(t *testing.T) {
	err := New(CodeValidation, "bad input").WithDetails(map[string]string{"price": "must be positive"})
	details, ok := err.Details().(map[string]string)
	if !ok || details["price"] != "must be positive" {
		t.Fatalf("unexpected details: %#v", err.Details())
	}
}
