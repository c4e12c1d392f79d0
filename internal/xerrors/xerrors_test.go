package xerrors

import (
	"errors"
	"testing"
)

func TestWrapPreservesKindAndCause(t *testing.T) {
	cause := errors.New("buffer too large")
	err := Wrap(Allocation, "reserving output buffer", cause)

	if !Is(err, Allocation) {
		t.Fatalf("Is(err, Allocation) = false, want true")
	}
	if got := errors.Unwrap(err); got == nil {
		t.Fatalf("Unwrap returned nil, want wrapped cause")
	}
}

func TestKindOfDefaultsToInternal(t *testing.T) {
	if got := KindOf(errors.New("plain error")); got != Internal {
		t.Errorf("KindOf(plain) = %v, want Internal", got)
	}
}

func TestKindString(t *testing.T) {
	cases := map[Kind]string{
		Internal:        "internal",
		Decode:          "decode",
		Allocation:      "allocation",
		InvalidPayload:  "invalid_payload",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", k, got, want)
		}
	}
}
