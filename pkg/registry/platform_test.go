package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlatformString(t *testing.T) {
	assert.Equal(t, "linux/amd64", Platform{OS: "linux", Architecture: "amd64"}.String())
	assert.Equal(t, "linux/arm/v7", Platform{OS: "linux", Architecture: "arm", Variant: "v7"}.String())
	// Only arm/v7 keeps its variant; other variants collapse to os/arch.
	assert.Equal(t, "linux/arm64", Platform{OS: "linux", Architecture: "arm64", Variant: "v8"}.String())
	assert.Equal(t, "linux/arm", Platform{OS: "linux", Architecture: "arm", Variant: "v6"}.String())
}

func TestExtractPlatformsKeepsOnlyRequiredLinuxEntries(t *testing.T) {
	required := NewPlatformSet("linux/amd64", "linux/arm64")

	entries := []Platform{
		{OS: "linux", Architecture: "amd64"},
		{OS: "linux", Architecture: "arm64", Variant: "v8"},
		{OS: "linux", Architecture: "386"},
		{OS: "windows", Architecture: "amd64"},
		{OS: "linux"},
	}

	found := ExtractPlatforms(entries, required)
	assert.Equal(t, []string{"linux/amd64", "linux/arm64"}, found.Strings())
}

func TestExtractPlatformsIsOrderIndependent(t *testing.T) {
	required := NewPlatformSet("linux/amd64", "linux/arm64")

	forward := ExtractPlatforms([]Platform{
		{OS: "linux", Architecture: "amd64"},
		{OS: "linux", Architecture: "arm64"},
	}, required)
	reversed := ExtractPlatforms([]Platform{
		{OS: "linux", Architecture: "arm64"},
		{OS: "linux", Architecture: "amd64"},
	}, required)

	assert.Equal(t, forward, reversed)
}

func TestExtractPlatformsDistinguishesArmV7(t *testing.T) {
	required := NewPlatformSet("linux/arm/v7")

	found := ExtractPlatforms([]Platform{{OS: "linux", Architecture: "arm", Variant: "v7"}}, required)
	assert.True(t, found.Contains("linux/arm/v7"))
	assert.False(t, found.Contains("linux/arm"))

	// A variant-less arm entry never satisfies a linux/arm/v7 requirement.
	found = ExtractPlatforms([]Platform{{OS: "linux", Architecture: "arm"}}, required)
	assert.Empty(t, found)

	// And an arm/v7 entry never satisfies a variant-less linux/arm requirement.
	found = ExtractPlatforms([]Platform{{OS: "linux", Architecture: "arm", Variant: "v7"}}, NewPlatformSet("linux/arm"))
	assert.Empty(t, found)
}

func TestCoversAndDifference(t *testing.T) {
	required := NewPlatformSet("linux/amd64", "linux/arm64")

	published := NewPlatformSet("linux/amd64", "linux/arm64")
	assert.True(t, published.Covers(required))
	assert.Empty(t, required.Difference(published))

	// Removing any one required platform flips completeness.
	for _, p := range required.Strings() {
		reduced := PlatformSet{}
		for member := range published {
			if member != p {
				reduced[member] = true
			}
		}
		assert.False(t, reduced.Covers(required), "expected incomplete without %s", p)
		assert.Equal(t, []string{p}, required.Difference(reduced))
	}
}

func TestCompleteAcceptsSuperset(t *testing.T) {
	required := NewPlatformSet("linux/amd64", "linux/arm64")

	published := ExtractPlatforms([]Platform{
		{OS: "linux", Architecture: "amd64"},
		{OS: "linux", Architecture: "arm64"},
		{OS: "linux", Architecture: "386"},
	}, required)

	result := TagResult{Exists: true, Platforms: published}
	require.True(t, result.Complete(required))
}

func TestCompleteIsFalseForAbsentTags(t *testing.T) {
	required := NewPlatformSet("linux/amd64")
	assert.False(t, TagResult{}.Complete(required))
}
