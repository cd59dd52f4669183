package fingerprint

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateIsKeyOrderIndependent(t *testing.T) {
	a := map[string]any{"first_name": "Jamie", "last_name": "Nairn", "nationality": "Scotland"}
	b := map[string]any{"nationality": "Scotland", "last_name": "Nairn", "first_name": "Jamie"}

	assert.Equal(t, Generate(a), Generate(b))
}

func TestGenerateDetectsChange(t *testing.T) {
	a := map[string]any{"first_name": "Jamie", "bio": "Midfielder"}
	b := map[string]any{"first_name": "Jamie", "bio": "Captain"}

	assert.True(t, HasChanged(Generate(a), Generate(b)))
}

func TestGenerateWithExclusionsSkipsCMSMeta(t *testing.T) {
	a := map[string]any{
		"_id":        "player-1",
		"_rev":       "abc123",
		"_updatedAt": "2026-01-01T00:00:00Z",
		"firstName":  "Jamie",
	}
	b := map[string]any{
		"_id":        "player-1",
		"_rev":       "def456",
		"_updatedAt": "2026-02-01T00:00:00Z",
		"firstName":  "Jamie",
	}

	assert.Equal(t,
		GenerateWithExclusions(a, CMSMetaExclusions()),
		GenerateWithExclusions(b, CMSMetaExclusions()),
	)
}

func TestGenerateWithExclusionsNestedPrefix(t *testing.T) {
	a := map[string]any{"meta": map[string]any{"version": 1, "source": "cms"}, "name": "Acme"}
	b := map[string]any{"meta": map[string]any{"version": 2, "source": "feed"}, "name": "Acme"}

	exclusions := map[string]bool{"meta": true}
	assert.Equal(t, GenerateWithExclusions(a, exclusions), GenerateWithExclusions(b, exclusions))
}

func TestForRequestCoversStructFields(t *testing.T) {
	type req struct {
		SanityID  string  `json:"sanity_id"`
		FirstName string  `json:"first_name"`
		Bio       *string `json:"bio,omitempty"`
	}

	bio := "Goalkeeper"
	fp1, err := ForRequest(req{SanityID: "p1", FirstName: "Alan", Bio: &bio})
	assert.NoError(t, err)
	fp2, err := ForRequest(req{SanityID: "p1", FirstName: "Alan", Bio: &bio})
	assert.NoError(t, err)
	fp3, err := ForRequest(req{SanityID: "p1", FirstName: "Alan"})
	assert.NoError(t, err)

	assert.Equal(t, fp1, fp2)
	assert.NotEqual(t, fp1, fp3)
}
