package domain

import (
	"errors"
	"testing"
)

func TestValidSSN(t *testing.T) {
	cases := []struct {
		ssn  string
		want bool
	}{
		{"123-45-6789", true},
		{"123456789", true},
		{"12345678", false},   // 8 digits
		{"1234567890", false}, // 10 digits
		{"12345678A", false},  // non-digit
		{"123-45-678A", false},
		{"", false},
		{"---------", false},
	}
	for _, tc := range cases {
		if got := ValidSSN(tc.ssn); got != tc.want {
			t.Errorf("ValidSSN(%q) = %v, want %v", tc.ssn, got, tc.want)
		}
	}
}

func TestParseDOB(t *testing.T) {
	t.Run("DD/MM/YYYY is accepted", func(t *testing.T) {
		dob, err := ParseDOB("31/01/1990")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if dob.Day() != 31 || int(dob.Month()) != 1 || dob.Year() != 1990 {
			t.Errorf("parsed = %v, want 31 Jan 1990", dob)
		}
	})

	t.Run("other formats are rejected even when the date is valid", func(t *testing.T) {
		for _, dob := range []string{"1990-01-31", "01/31/1990", "31-01-1990", "not a date"} {
			if _, err := ParseDOB(dob); !errors.Is(err, ErrInvalidDOB) {
				t.Errorf("ParseDOB(%q) error = %v, want ErrInvalidDOB", dob, err)
			}
		}
	})

	t.Run("impossible calendar dates are rejected", func(t *testing.T) {
		if _, err := ParseDOB("31/02/1990"); !errors.Is(err, ErrInvalidDOB) {
			t.Errorf("error = %v, want ErrInvalidDOB", err)
		}
	})
}

func TestGate(t *testing.T) {
	cases := []struct {
		name  string
		level VerificationLevel
		step  Step
		want  error
	}{
		{"fresh user may attempt step one", LevelUnverified, StepBasicInfo, nil},
		{"level 1 repeats step one", LevelBasicInfoConfirmed, StepBasicInfo, ErrStepCompleted},
		{"level 1 may attempt step two", LevelBasicInfoConfirmed, StepDocument, nil},
		{"level 0 may not skip to step two", LevelUnverified, StepDocument, ErrStepForbidden},
		{"level 0 may not skip to step three", LevelUnverified, StepSelfie, ErrStepForbidden},
		{"level 2 may attempt step three", LevelDocumentConfirmed, StepSelfie, nil},
		{"level 3 repeats step three", LevelFullyVerified, StepSelfie, ErrStepCompleted},
		{"level 3 repeats step one", LevelFullyVerified, StepBasicInfo, ErrStepCompleted},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.level.Gate(tc.step); !errors.Is(err, tc.want) {
				t.Errorf("Gate(%d, %d) = %v, want %v", tc.level, tc.step, err, tc.want)
			}
		})
	}
}

func TestParseDocumentType(t *testing.T) {
	for _, valid := range []string{"passport", "national ID", "driver's license"} {
		if _, err := ParseDocumentType(valid); err != nil {
			t.Errorf("ParseDocumentType(%q) error = %v", valid, err)
		}
	}
	for _, invalid := range []string{"Passport", "id card", "", "drivers license"} {
		if _, err := ParseDocumentType(invalid); !errors.Is(err, ErrInvalidDocumentType) {
			t.Errorf("ParseDocumentType(%q) error = %v, want ErrInvalidDocumentType", invalid, err)
		}
	}
}

func TestDocumentTemplateCode(t *testing.T) {
	if got := DocumentDriversLicense.TemplateCode(); got != "PDF417" {
		t.Errorf("driver's license template = %q, want PDF417", got)
	}
	if got := DocumentPassport.TemplateCode(); got != "MRZ" {
		t.Errorf("passport template = %q, want MRZ", got)
	}
	if got := DocumentNationalID.TemplateCode(); got != "MRZ" {
		t.Errorf("national ID template = %q, want MRZ", got)
	}
}
