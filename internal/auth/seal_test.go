package auth

import (
	"bytes"
	"errors"
	"testing"
)

func TestSealer_RoundTrip(t *testing.T) {
	s, err := NewSealer("handoff-secret-0123456789")
	if err != nil {
		t.Fatalf("NewSealer() error = %v", err)
	}

	plain := []byte(`{"token":"gho_abc"}`)
	box, err := s.Seal(plain)
	if err != nil {
		t.Fatalf("Seal() error = %v", err)
	}
	if bytes.Contains(box, []byte("gho_abc")) {
		t.Error("sealed payload contains the plaintext token")
	}

	got, err := s.Open(box)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if !bytes.Equal(got, plain) {
		t.Errorf("Open() = %q, want %q", got, plain)
	}
}

func TestSealer_FreshNonce(t *testing.T) {
	s, _ := NewSealer("handoff-secret-0123456789")

	a, _ := s.Seal([]byte("same"))
	b, _ := s.Seal([]byte("same"))
	if bytes.Equal(a, b) {
		t.Error("sealing the same plaintext twice should not produce identical boxes")
	}
}

func TestSealer_RejectsTamperingAndWrongKey(t *testing.T) {
	s1, _ := NewSealer("handoff-secret-0123456789")
	s2, _ := NewSealer("another-secret-9876543210")

	box, _ := s1.Seal([]byte("payload"))

	if _, err := s2.Open(box); !errors.Is(err, ErrUnseal) {
		t.Errorf("Open() with wrong key error = %v, want ErrUnseal", err)
	}

	tampered := append([]byte(nil), box...)
	tampered[len(tampered)-1] ^= 0xff
	if _, err := s1.Open(tampered); !errors.Is(err, ErrUnseal) {
		t.Errorf("Open() on tampered box error = %v, want ErrUnseal", err)
	}

	if _, err := s1.Open([]byte("short")); !errors.Is(err, ErrUnseal) {
		t.Errorf("Open() on short input error = %v, want ErrUnseal", err)
	}
}

func TestNewSealer_ShortSecret(t *testing.T) {
	if _, err := NewSealer("short"); err == nil {
		t.Fatal("NewSealer() should reject short secrets")
	}
}
