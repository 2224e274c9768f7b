package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vladislavdragonenkov/foodorder/internal/service/validation"
)

func validProfile() validation.Profile {
	return validation.Profile{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Address:   "12 Marylebone Road",
		Phone:     "08012345678",
	}
}

func TestValidateProfile_Accepts(t *testing.T) {
	result := validation.New().ValidateProfile(validProfile())
	assert.True(t, result.Valid)
	assert.Empty(t, result.Reasons)
}

func TestValidateProfile_CollectsReasons(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *validation.Profile)
		reasons []string
	}{
		{
			name:    "empty first name",
			mutate:  func(p *validation.Profile) { p.FirstName = "" },
			reasons: []string{"First name must not be empty"},
		},
		{
			name:    "digits in last name",
			mutate:  func(p *validation.Profile) { p.LastName = "L0velace" },
			reasons: []string{"Last name can only contain alphabets"},
		},
		{
			name:    "one letter name",
			mutate:  func(p *validation.Profile) { p.FirstName = "A" },
			reasons: []string{"First name must have between 2 - 25 characters"},
		},
		{
			name:   "address with symbols and too short",
			mutate: func(p *validation.Profile) { p.Address = "a#1" },
			reasons: []string{
				"Address can only contain alphanumeric characters",
				"Address must have between 6 - 40 characters",
			},
		},
		{
			name:    "short phone",
			mutate:  func(p *validation.Profile) { p.Phone = "12345" },
			reasons: []string{"Phone number must have 11 digits"},
		},
		{
			name:    "letters in phone",
			mutate:  func(p *validation.Profile) { p.Phone = "0801234567x" },
			reasons: []string{"Phone number can only contain numbers"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := validProfile()
			tt.mutate(&profile)

			result := validation.New().ValidateProfile(profile)
			assert.False(t, result.Valid)
			assert.Equal(t, tt.reasons, result.Reasons)
		})
	}
}

func TestValidateAddress(t *testing.T) {
	v := validation.New()

	assert.True(t, v.ValidateAddress("221B Baker Street").Valid)
	assert.Equal(t, []string{"Address must not be empty"}, v.ValidateAddress("").Reasons)
	assert.False(t, v.ValidateAddress("Baker Street, 221B").Valid)
}
