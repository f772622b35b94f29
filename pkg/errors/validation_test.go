package errors

import (
	"testing"
)

func TestValidateItemID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"numeric", "1001", false},
		{"slug", "iron-plate", false},
		{"unicode", "铁板", false},

		{"empty", "", true},
		{"blank", "   ", true},
		{"too long", string(make([]byte, 300)), true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateItemID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateItemID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("ValidateItemID(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestValidatePlanID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"uuid", "6ba7b810-9dad-11d1-80b4-00c04fd430c8", false},
		{"short", "abc123", false},

		{"empty", "", true},
		{"traversal", "../../etc/passwd", true},
		{"slash", "a/b", true},
		{"dot", "plan.json", true},
		{"too long", string(make([]byte, 80)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePlanID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePlanID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeInvalidInput,
		ErrCodeInvalidFormat,
		ErrCodeInvalidPolicy,
		ErrCodeInvalidPath,
		ErrCodeInvalidConfig,
		ErrCodeInvalidDatabase,
		ErrCodeInvalidRecipe,
		ErrCodeNoValidRecipe,
		ErrCodeNotFound,
		ErrCodeItemNotFound,
		ErrCodePlanNotFound,
		ErrCodeFileNotFound,
		ErrCodeBackend,
		ErrCodeTimeout,
		ErrCodeInternal,
		ErrCodeUnsupported,
	}

	seen := make(map[Code]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %s", code)
		}
		seen[code] = true
	}
}
