package sanitizer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/smartbuy/auth/pkg/sanitizer"
)

func TestNormalizeEmail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercases", "User@Example.COM", "user@example.com"},
		{"trims whitespace", "  user@example.com  ", "user@example.com"},
		{"consolidates dots in local part", "a..b@example.com", "a.b@example.com"},
		{"strips leading and trailing dots", ".user.@example.com", "user@example.com"},
		{"leaves invalid shapes alone", "not-an-email", "not-an-email"},
		{"leaves double at alone", "a@b@c", "a@b@c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, sanitizer.NormalizeEmail(tt.input))
		})
	}
}
