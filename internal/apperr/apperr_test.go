package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf_DomainKinds(t *testing.T) {
	cases := []struct {
		err  error
		kind Kind
	}{
		{Validation("bad input"), KindValidation},
		{Auth("bad token"), KindAuth},
		{Forbidden("not yours"), KindForbidden},
		{NotFound("missing"), KindNotFound},
		{Conflict("duplicate"), KindConflict},
	}
	for _, c := range cases {
		if got := KindOf(c.err); got != c.kind {
			t.Errorf("KindOf(%v) = %d, want %d", c.err, got, c.kind)
		}
	}
}

func TestKindOf_UnrecognizedErrorIsInternal(t *testing.T) {
	if got := KindOf(errors.New("connection refused")); got != KindInternal {
		t.Fatalf("expected KindInternal, got %d", got)
	}
}

func TestKindOf_SurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("outer: %w", NotFound("project not found"))
	if !Is(err, KindNotFound) {
		t.Fatalf("expected KindNotFound through wrapping, got %d", KindOf(err))
	}
}

func TestWrap_KeepsCause(t *testing.T) {
	cause := errors.New("token expired")
	err := Wrap(KindAuth, "invalid token", cause)
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to unwrap")
	}
	if KindOf(err) != KindAuth {
		t.Fatalf("expected KindAuth, got %d", KindOf(err))
	}
}
