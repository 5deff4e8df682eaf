package peer

import (
	"errors"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	wrapped := errors.New("boom")

	e := newError(ErrKindPlatform, "create offer", wrapped)
	if got := e.Error(); got != "platform: create offer: boom" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(e, wrapped) {
		t.Errorf("errors.Is(e, wrapped) = false, want true")
	}

	bare := newError(ErrKindNotReady, "data channel not open", nil)
	if got := bare.Error(); got != "not-ready: data channel not open" {
		t.Errorf("Error() = %q", got)
	}
}

func TestErrorKindString(t *testing.T) {
	cases := map[ErrorKind]string{
		ErrKindTransport: "transport",
		ErrKindNotReady:  "not-ready",
		ErrKindProtocol:  "protocol",
		ErrKindPlatform:  "platform",
		ErrorKind(99):    "unknown",
	}
	for kind, want := range cases {
		if got := kind.String(); got != want {
			t.Errorf("ErrorKind(%d).String() = %q, want %q", int(kind), got, want)
		}
	}
}
