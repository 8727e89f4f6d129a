package guestpass_test

import (
	"strings"
	"testing"

	"github.com/sujinlee/moamall/pkg/guestpass"
)

func TestHashVerifyRoundTrip(t *testing.T) {
	for _, pw := range []string{"secret123", "pw9999", "한글비밀번호", "  padded  "} {
		stored, err := guestpass.Hash(pw)
		if err != nil {
			t.Fatalf("Hash(%q) failed: %v", pw, err)
		}
		if !guestpass.Verify(pw, stored) {
			t.Errorf("Verify(%q) = false for its own hash", pw)
		}
	}
}

func TestVerifyRejectsWrongPassword(t *testing.T) {
	stored, err := guestpass.Hash("correct-horse")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if guestpass.Verify("battery-staple", stored) {
		t.Error("Verify accepted a different password")
	}
	if guestpass.Verify("correct-horsE", stored) {
		t.Error("Verify accepted a near-miss password")
	}
}

func TestSaltUniqueness(t *testing.T) {
	a, err := guestpass.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	b, err := guestpass.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}

	if a == b {
		t.Error("two hashes of the same password are identical (salt reuse)")
	}
	if !guestpass.Verify("same-password", a) || !guestpass.Verify("same-password", b) {
		t.Error("both stored forms should verify against the original password")
	}
}

func TestVerifyMalformedStoredForm(t *testing.T) {
	cases := []string{
		"",
		"not-a-valid-hash",
		"deadbeef",                 // one component
		"a:b:c",                    // too many components
		"zzzz:" + strings.Repeat("ab", 64), // non-hex salt
		strings.Repeat("ab", 16) + ":zzzz", // non-hex key
		strings.Repeat("ab", 16) + ":" + strings.Repeat("ab", 8), // short key
	}
	for _, stored := range cases {
		if guestpass.Verify("whatever", stored) {
			t.Errorf("Verify(%q) = true for malformed stored form", stored)
		}
	}
}

func TestHashRejectsEmpty(t *testing.T) {
	for _, pw := range []string{"", "   ", "\t\n"} {
		if _, err := guestpass.Hash(pw); err == nil {
			t.Errorf("Hash(%q) should fail for empty-after-trim input", pw)
		}
	}
}

func TestStoredFormShape(t *testing.T) {
	stored, err := guestpass.Hash("shape-check")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}

	parts := strings.Split(stored, ":")
	if len(parts) != 2 {
		t.Fatalf("stored form has %d components, want 2", len(parts))
	}
	if len(parts[0]) != 32 { // 16 salt bytes, hex-encoded
		t.Errorf("salt component is %d chars, want 32", len(parts[0]))
	}
	if len(parts[1]) != 128 { // 64 key bytes, hex-encoded
		t.Errorf("key component is %d chars, want 128", len(parts[1]))
	}
}
