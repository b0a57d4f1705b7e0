package product

import (
	"testing"

	pkgerrors "github.com/rentiva/rentiva-backend/pkg/errors"
)

func TestParseQRPayload(t *testing.T) {
	valid := []struct {
		payload string
		want    int64
	}{
		{"https://rentiva.app/products/42", 42},
		{"http://localhost:3000/products/1", 1},
		{"42", 42},
		{"  https://rentiva.app/products/7  ", 7},
	}
	for _, tc := range valid {
		got, err := ParseQRPayload(tc.payload)
		if err != nil {
			t.Errorf("ParseQRPayload(%q): %v", tc.payload, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseQRPayload(%q) = %d, want %d", tc.payload, got, tc.want)
		}
	}

	invalid := []string{
		"",
		"   ",
		"https://rentiva.app/products/",
		"https://rentiva.app/products/abc",
		"https://rentiva.app/products/-5",
		"https://rentiva.app/products/0",
		"https://rentiva.app/products/1.5",
	}
	for _, payload := range invalid {
		_, err := ParseQRPayload(payload)
		if err == nil {
			t.Errorf("ParseQRPayload(%q): expected error", payload)
			continue
		}
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeInvalidFormat {
			t.Errorf("ParseQRPayload(%q): expected invalid format code, got %v", payload, err)
		}
	}
}
