package crypt

import (
	"errors"
	"testing"
	"time"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	for _, plain := range []string{"", "short", "longer payload with spaces and 한글"} {
		enc, err := EncryptBytes([]byte(plain))
		if err != nil {
			t.Fatalf("EncryptBytes(%q): %v", plain, err)
		}
		dec, err := DecryptBytes(enc)
		if err != nil {
			t.Fatalf("DecryptBytes: %v", err)
		}
		if string(dec) != plain {
			t.Errorf("round trip = %q, want %q", dec, plain)
		}
	}
}

func TestDecryptRejectsTamperedCiphertext(t *testing.T) {
	enc, err := EncryptBytes([]byte("order-123"))
	if err != nil {
		t.Fatalf("EncryptBytes: %v", err)
	}

	tampered := []byte(enc)
	tampered[len(tampered)/2] ^= 1
	if _, err := DecryptBytes(string(tampered)); !errors.Is(err, ErrDecrypt) {
		t.Errorf("err = %v, want ErrDecrypt", err)
	}

	if _, err := DecryptBytes("not-base64!!"); !errors.Is(err, ErrDecrypt) {
		t.Errorf("bad encoding: err = %v, want ErrDecrypt", err)
	}
}

func TestNonceUniqueness(t *testing.T) {
	a, _ := EncryptBytes([]byte("same"))
	b, _ := EncryptBytes([]byte("same"))
	if a == b {
		t.Error("two encryptions of the same plaintext are identical (nonce reuse)")
	}
}

func TestOrderTokenRoundTrip(t *testing.T) {
	token, err := SealOrderToken(77, time.Minute)
	if err != nil {
		t.Fatalf("SealOrderToken: %v", err)
	}

	id, err := OpenOrderToken(token)
	if err != nil {
		t.Fatalf("OpenOrderToken: %v", err)
	}
	if id != 77 {
		t.Errorf("order id = %d, want 77", id)
	}
}

func TestOrderTokenExpiry(t *testing.T) {
	token, err := SealOrderToken(77, -time.Second)
	if err != nil {
		t.Fatalf("SealOrderToken: %v", err)
	}
	if _, err := OpenOrderToken(token); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("err = %v, want ErrTokenExpired", err)
	}
}

func TestOrderTokenRejectsGarbage(t *testing.T) {
	if _, err := OpenOrderToken("garbage-token"); err == nil {
		t.Error("garbage token should not open")
	}
}
