package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

func TestValidateEmail(t *testing.T) {
	valid := []string{"a@b.co", "jane.doe@example.com", "x+y@sub.domain.org"}
	invalid := []string{"", "plain", "a@b", "jane@example", "@b.co", "a @b.co", "a@b .co", "a@@b.co"}

	for _, s := range valid {
		assert.True(t, ValidateEmail(s), s)
	}
	for _, s := range invalid {
		assert.False(t, ValidateEmail(s), s)
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		password string
		want     bool
	}{
		{"Passw0rd", true},
		{"abcDEF123", true},
		{"Pa0", false},
		{"password1", false},
		{"PASSWORD1", false},
		{"Password", false},
		{"Passw0rd!", false},
		{" Passw0rd", false},
		{"LongerPassw0rd2024", true},
		{"Pässw0rd", false},
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidatePassword(tt.password), tt.password)
	}
}

func TestPasswordHasher(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	hash, err := h.Hash("Passw0rd")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	assert.NotEqual(t, "Passw0rd", hash)
	assert.True(t, h.Verify(hash, "Passw0rd"))
	assert.False(t, h.Verify(hash, "wrong"))
	assert.False(t, h.Verify("not-a-hash", "Passw0rd"))
}
