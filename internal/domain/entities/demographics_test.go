package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGender(t *testing.T) {
	for _, g := range []Gender{GenderMale, GenderFemale, GenderUndefined} {
		got, err := ParseGender(g.String())
		require.NoError(t, err)
		assert.Equal(t, g, got)
	}

	got, err := ParseGender("female")
	require.NoError(t, err)
	assert.Equal(t, GenderFemale, got)

	_, err = ParseGender("robot")
	assert.Error(t, err)
}

func TestParseRace(t *testing.T) {
	got, err := ParseRace("african_american")
	require.NoError(t, err)
	assert.Equal(t, RaceAfricanAmerican, got)

	_, err = ParseRace("")
	assert.Error(t, err)
}

func TestRaceValid(t *testing.T) {
	assert.False(t, Race(0).Valid())
	assert.True(t, RaceOther.Valid())
	assert.False(t, Race(99).Valid())
	assert.Equal(t, "Race(99)", Race(99).String())
}

func TestGenderFHIRCode(t *testing.T) {
	assert.Equal(t, "male", GenderMale.FHIRCode())
	assert.Equal(t, "female", GenderFemale.FHIRCode())
	assert.Equal(t, "unknown", GenderUndefined.FHIRCode())
}
