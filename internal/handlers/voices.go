package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"audiobook-backend/internal/catalog"
	"audiobook-backend/internal/models"
)

type VoicesHandler struct{}

func NewVoicesHandler() *VoicesHandler {
	return &VoicesHandler{}
}

// GetVoices serves the static narrator and output-format catalog the
// submission form renders its selectors from.
func (h *VoicesHandler) GetVoices(c *gin.Context) {
	providers := make([]models.TTSProviderOption, len(catalog.Providers))
	for i, p := range catalog.Providers {
		voices := make([]models.VoiceOption, len(p.Voices))
		for j, v := range p.Voices {
			voices[j] = models.VoiceOption{ID: v.ID, Name: v.Name}
		}
		providers[i] = models.TTSProviderOption{ID: p.ID, Name: p.Name, Voices: voices}
	}

	formats := make([]models.AudioFormatOption, len(catalog.Formats))
	for i, f := range catalog.Formats {
		formats[i] = models.AudioFormatOption{ID: f.ID, Name: f.Name, Bitrates: f.Bitrates}
	}

	c.JSON(http.StatusOK, models.VoicesResponse{
		Providers: providers,
		Formats:   formats,
	})
}
