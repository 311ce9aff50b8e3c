package errors

import (
	"strings"
	"testing"
)

func TestValidateNodeID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "root", false},
		{"numeric", "42", false},
		{"with spaces", "web server", false},
		{"unicode", "nœud", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", MaxNodeIDLength+1), true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
		{"control char", "foo\x01bar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNodeID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNodeID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidTree) {
				t.Errorf("ValidateNodeID(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidTree)
			}
		})
	}
}

func TestValidateLabelCounts(t *testing.T) {
	tests := []struct {
		name                 string
		nodes, costs, prizes int
		wantErr              bool
	}{
		{"root only", 1, 0, 0, false},
		{"three nodes", 3, 2, 2, false},
		{"too few costs", 3, 1, 2, true},
		{"too many prizes", 3, 2, 3, true},
		{"labels for root", 3, 3, 3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLabelCounts(tt.nodes, tt.costs, tt.prizes)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeLabelCountMismatch) {
				t.Errorf("code = %v, want %v", GetCode(err), ErrCodeLabelCountMismatch)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative", "trees/a.json", false},
		{"absolute", "/tmp/a.json", false},
		{"empty", "", true},
		{"blank", "   ", true},
		{"null byte", "a\x00.json", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidatePath(tt.input); (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
