package sanity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveImageURLDirectAsset(t *testing.T) {
	field := map[string]any{
		"asset": map[string]any{
			"url": "https://cdn.example.com/images/player.jpg",
		},
	}

	got := ResolveImageURL(field)
	assert.NotNil(t, got)
	assert.Equal(t, "https://cdn.example.com/images/player.jpg", *got)
}

func TestResolveImageURLAssetRef(t *testing.T) {
	field := map[string]any{
		"asset": map[string]any{
			"_ref":  "image-abc123-800x600-jpg",
			"_type": "reference",
		},
	}

	assert.Nil(t, ResolveImageURL(field))
}

func TestResolveImageURLMalformed(t *testing.T) {
	assert.Nil(t, ResolveImageURL(nil))
	assert.Nil(t, ResolveImageURL("not an image"))
	assert.Nil(t, ResolveImageURL(map[string]any{}))
	assert.Nil(t, ResolveImageURL(map[string]any{"asset": map[string]any{"url": ""}}))
}
