package services

import (
	"regexp"
	"testing"
	"time"
)

var guestNumberPattern = regexp.MustCompile(`^GUEST-\d{8}-[0-9A-F]{8}$`)

func TestGenerateGuestOrderNumberFormat(t *testing.T) {
	now := time.Date(2026, 4, 12, 23, 30, 0, 0, time.FixedZone("KST", 9*3600))

	n, err := GenerateGuestOrderNumber(now)
	if err != nil {
		t.Fatalf("GenerateGuestOrderNumber: %v", err)
	}
	if !guestNumberPattern.MatchString(n) {
		t.Fatalf("number %q does not match GUEST-YYYYMMDD-XXXXXXXX", n)
	}
	// 23:30 KST on the 12th is still the 12th in UTC (14:30).
	if got, want := n[6:14], "20260412"; got != want {
		t.Errorf("date component = %q, want UTC date %q", got, want)
	}
}

func TestGenerateGuestOrderNumberUsesUTCDate(t *testing.T) {
	// 08:30 KST on the 13th is 23:30 UTC on the 12th.
	now := time.Date(2026, 4, 13, 8, 30, 0, 0, time.FixedZone("KST", 9*3600))

	n, err := GenerateGuestOrderNumber(now)
	if err != nil {
		t.Fatalf("GenerateGuestOrderNumber: %v", err)
	}
	if got, want := n[6:14], "20260412"; got != want {
		t.Errorf("date component = %q, want %q", got, want)
	}
}

func TestGenerateGuestOrderNumberRandomSuffix(t *testing.T) {
	now := time.Now()
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		n, err := GenerateGuestOrderNumber(now)
		if err != nil {
			t.Fatalf("GenerateGuestOrderNumber: %v", err)
		}
		if seen[n] {
			t.Fatalf("duplicate number %q within 50 generations", n)
		}
		seen[n] = true
	}
}

func TestNormalizeGuestOrderNumber(t *testing.T) {
	cases := map[string]string{
		"  guest-20260412-a1b2c3d4  ": "GUEST-20260412-A1B2C3D4",
		"GUEST-20260412-A1B2C3D4":     "GUEST-20260412-A1B2C3D4",
		"":                            "",
		"   ":                         "",
	}
	for in, want := range cases {
		if got := NormalizeGuestOrderNumber(in); got != want {
			t.Errorf("NormalizeGuestOrderNumber(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizePhone(t *testing.T) {
	cases := map[string]string{
		"010-1234-5678":    "01012345678",
		"+82 10 1234 5678": "821012345678",
		"(02) 555-0199":    "025550199",
		"abc":              "",
	}
	for in, want := range cases {
		if got := NormalizePhone(in); got != want {
			t.Errorf("NormalizePhone(%q) = %q, want %q", in, got, want)
		}
	}
}
