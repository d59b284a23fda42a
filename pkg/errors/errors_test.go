package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestMetadataForUnknownCodeFallsBackToInternal(t *testing.T) {
	meta := MetadataFor(Code("NOPE"))
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal metadata, got %d", meta.HTTPStatus)
	}
}

func TestAsUnwrapsThroughWrapping(t *testing.T) {
	base := New(CodeStateConflict, "listing already moved")
	wrapped := fmt.Errorf("placing order: %w", base)

	typed := As(wrapped)
	if typed == nil {
		t.Fatal("expected typed error")
	}
	if typed.Code() != CodeStateConflict {
		t.Fatalf("expected state conflict, got %s", typed.Code())
	}
}

func TestDumpCapturesUpstreamDetail(t *testing.T) {
	upstream := &UpstreamError{Status: 409, Method: "POST", Path: "/listings/7/approve", Body: `{"message":"already approved"}`}
	err := Wrap(CodeStateConflict, upstream, "approve refused")

	d := Dump(err)
	if d.Code != CodeStateConflict {
		t.Fatalf("expected code in dump, got %s", d.Code)
	}
	if d.UpstreamStatus != 409 {
		t.Fatalf("expected upstream status 409, got %d", d.UpstreamStatus)
	}
	if len(d.Chain) < 2 {
		t.Fatalf("expected chain entries, got %v", d.Chain)
	}
}

func TestWrapNilCauseBehavesLikeNew(t *testing.T) {
	err := Wrap(CodeValidation, nil, "days out of range")
	if err.Unwrap() != nil {
		t.Fatal("expected no cause")
	}
	if !errors.Is(error(err), error(err)) {
		t.Fatal("error should match itself")
	}
}
