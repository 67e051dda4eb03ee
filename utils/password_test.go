package utils_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dollers-electro/utils"
)

func TestValidatePasswordStrength(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"accepts strong password", "Str0ngPass1", false},
		{"rejects too short", "Ab1x", true},
		{"rejects missing uppercase", "weakpass1", true},
		{"rejects missing digit", "WeakPassword", true},
		{"rejects missing lowercase", "WEAKPASS1", true},
		{"rejects empty", "", true},
		{"accepts minimum length", "Abcdefg1", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := utils.ValidatePasswordStrength(tt.password)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := utils.HashPassword("Str0ngPass1")
	require.NoError(t, err)
	require.NotEqual(t, "Str0ngPass1", hash)

	assert.NoError(t, utils.CheckPassword(hash, "Str0ngPass1"))
	assert.Error(t, utils.CheckPassword(hash, "WrongPass1"))
}

func TestGenerateTempPassword(t *testing.T) {
	pw, err := utils.GenerateTempPassword(12)
	require.NoError(t, err)
	assert.Len(t, pw, 12)
	assert.NoError(t, utils.ValidatePasswordStrength(pw))

	// Two draws colliding would mean the generator is not random at all.
	pw2, err := utils.GenerateTempPassword(12)
	require.NoError(t, err)
	assert.NotEqual(t, pw, pw2)
}

func TestGenerateSecureToken(t *testing.T) {
	tok, err := utils.GenerateSecureToken(32)
	require.NoError(t, err)
	assert.Len(t, tok, 64) // hex encoding doubles the length
}
