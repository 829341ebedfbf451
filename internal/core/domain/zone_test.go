package domain

import (
	"strings"
	"testing"
)

func TestValidateZoneName(t *testing.T) {
	valid := []string{
		"ab",
		"zone1",
		"My.Zone_01",
		"a" + strings.Repeat("b", 58) + "c",
		"trailing.dot.",
	}
	for _, name := range valid {
		if err := ValidateZoneName(name); err != nil {
			t.Fatalf("ValidateZoneName(%q) = %v, want nil", name, err)
		}
	}

	invalid := []string{
		"",
		"a",                                 // too short
		"1zone",                             // must start with a letter
		"_zone",                             // must start with a letter
		"zone-",                             // must not end with a dash
		"zone_",                             // must not end with an underscore
		"has space",                         // no spaces
		"a" + strings.Repeat("b", 60) + "c", // too long
	}
	for _, name := range invalid {
		if err := ValidateZoneName(name); err == nil {
			t.Fatalf("ValidateZoneName(%q) = nil, want error", name)
		}
	}
}

func TestValidateReferenceKey_ErrorCode(t *testing.T) {
	err := ValidateReferenceKey("!bad")
	if GetErrorCode(err) != ErrInvalidReferenceKey.Code {
		t.Fatalf("error code = %q, want %q", GetErrorCode(err), ErrInvalidReferenceKey.Code)
	}
}

func TestLimits_Validate(t *testing.T) {
	if err := DefaultLimits().Validate(); err != nil {
		t.Fatalf("DefaultLimits().Validate() = %v, want nil", err)
	}

	bad := Limits{MaxPayloadCount: -1}
	if err := bad.Validate(); err == nil {
		t.Fatal("Validate() = nil for negative limit, want error")
	}

	// Zero limits are legal; they just deny all admissions.
	if err := (Limits{}).Validate(); err != nil {
		t.Fatalf("Validate() = %v for zero limits, want nil", err)
	}
}
