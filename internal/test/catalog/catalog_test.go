package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"audiobook-backend/internal/catalog"
)

func TestValidVoice(t *testing.T) {
	assert.True(t, catalog.ValidVoice("elevenlabs", "el_rachel"))
	assert.True(t, catalog.ValidVoice("openai", "oa_nova"))

	assert.False(t, catalog.ValidVoice("elevenlabs", "oa_nova"))
	assert.False(t, catalog.ValidVoice("unknown", "el_rachel"))
	assert.False(t, catalog.ValidVoice("elevenlabs", ""))
	assert.False(t, catalog.ValidVoice("", ""))
}

func TestValidFormat(t *testing.T) {
	assert.True(t, catalog.ValidFormat("mp3", "128k"))
	assert.True(t, catalog.ValidFormat("m4b", "64k"))

	assert.False(t, catalog.ValidFormat("mp3", ""))
	assert.False(t, catalog.ValidFormat("mp3", "999k"))
	assert.False(t, catalog.ValidFormat("m4b", "192k"))
	assert.False(t, catalog.ValidFormat("flac", "128k"))
}

// Formats without bitrates accept only an empty bitrate.
func TestValidFormat_Lossless(t *testing.T) {
	assert.True(t, catalog.ValidFormat("wav", ""))
	assert.False(t, catalog.ValidFormat("wav", "128k"))
}

func TestValidMode(t *testing.T) {
	assert.True(t, catalog.ValidMode(catalog.ModeSingleVoice))
	assert.True(t, catalog.ValidMode(catalog.ModeDualVoice))
	assert.False(t, catalog.ValidMode(""))
	assert.False(t, catalog.ValidMode("trio_voice"))
}
