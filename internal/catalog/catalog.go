package catalog

// Static, read-only narrator and output-format configuration. These values
// change only with a deploy; there is no lifecycle beyond process startup.

type Voice struct {
	ID   string
	Name string
}

type TTSProvider struct {
	ID     string
	Name   string
	Voices []Voice
}

type AudioFormat struct {
	ID       string
	Name     string
	Bitrates []string
}

// Conversion modes supported by the processing service.
const (
	ModeSingleVoice = "single_voice"
	ModeDualVoice   = "dual_voice"
)

var Providers = []TTSProvider{
	{
		ID:   "elevenlabs",
		Name: "ElevenLabs",
		Voices: []Voice{
			{ID: "el_rachel", Name: "Rachel"},
			{ID: "el_adam", Name: "Adam"},
			{ID: "el_charlotte", Name: "Charlotte"},
			{ID: "el_daniel", Name: "Daniel"},
		},
	},
	{
		ID:   "openai",
		Name: "OpenAI",
		Voices: []Voice{
			{ID: "oa_alloy", Name: "Alloy"},
			{ID: "oa_nova", Name: "Nova"},
			{ID: "oa_onyx", Name: "Onyx"},
		},
	},
}

var Formats = []AudioFormat{
	{ID: "mp3", Name: "MP3", Bitrates: []string{"64k", "128k", "192k"}},
	{ID: "m4b", Name: "M4B (audiobook)", Bitrates: []string{"64k", "128k"}},
	{ID: "wav", Name: "WAV", Bitrates: []string{}},
}

// ValidVoice reports whether the provider/voice pair is in the catalog.
func ValidVoice(providerID, voiceID string) bool {
	for _, p := range Providers {
		if p.ID != providerID {
			continue
		}
		for _, v := range p.Voices {
			if v.ID == voiceID {
				return true
			}
		}
	}
	return false
}

// ValidFormat reports whether the format is in the catalog, and if the format
// carries bitrates, that the bitrate is one of them. Formats without bitrates
// (lossless) accept an empty bitrate only.
func ValidFormat(formatID, bitrate string) bool {
	for _, f := range Formats {
		if f.ID != formatID {
			continue
		}
		if len(f.Bitrates) == 0 {
			return bitrate == ""
		}
		for _, b := range f.Bitrates {
			if b == bitrate {
				return true
			}
		}
		return false
	}
	return false
}

func ValidMode(mode string) bool {
	return mode == ModeSingleVoice || mode == ModeDualVoice
}
