package speech

import (
	"strings"

	pkgai "github.com/avinci-labs/avinci/pkg/ai"
)

// Regions recognized by the voice mapping. Every location resolves to exactly
// one of these, falling back to RegionNorth.
const (
	RegionTamil = "tamil"
	RegionNorth = "north"
	RegionSouth = "south"
	RegionWest  = "west"
	RegionEast  = "east"
)

// regionMarkers maps location substrings to regions. Matching is
// case-insensitive and first-match wins in the order listed here.
var regionMarkers = []struct {
	marker string
	region string
}{
	{"tamil", RegionTamil},
	{"chennai", RegionTamil},
	{"madurai", RegionTamil},
	{"delhi", RegionNorth},
	{"lucknow", RegionNorth},
	{"jaipur", RegionNorth},
	{"punjab", RegionNorth},
	{"bangalore", RegionSouth},
	{"hyderabad", RegionSouth},
	{"kochi", RegionSouth},
	{"kerala", RegionSouth},
	{"mumbai", RegionWest},
	{"pune", RegionWest},
	{"nashik", RegionWest},
	{"ahmedabad", RegionWest},
	{"kolkata", RegionEast},
	{"patna", RegionEast},
}

const (
	defaultVoiceID = "WeK8ylKjTV2trMlayizC"
	tamilVoiceID   = "rgltZvTfiMmgWweZhh7n"
)

// voiceTable maps region and gender to a provider voice id. The female and
// male columns currently share voices per region; the split is kept so new
// voices slot in without touching call sites.
var voiceTable = map[string]map[string]string{
	RegionTamil: {"female": tamilVoiceID, "male": tamilVoiceID},
	RegionNorth: {"female": defaultVoiceID, "male": defaultVoiceID},
	RegionSouth: {"female": defaultVoiceID, "male": defaultVoiceID},
	RegionWest:  {"female": defaultVoiceID, "male": defaultVoiceID},
	RegionEast:  {"female": defaultVoiceID, "male": defaultVoiceID},
}

// RegionFromLocation derives a voice region from a free-text location.
// Unrecognized locations fall back to the north region.
func RegionFromLocation(location string) string {
	loc := strings.ToLower(location)
	for _, m := range regionMarkers {
		if strings.Contains(loc, m.marker) {
			return m.region
		}
	}
	return RegionNorth
}

// VoiceForPersona picks the provider voice id for a region and gender.
func VoiceForPersona(region, gender string) string {
	voices, ok := voiceTable[region]
	if !ok {
		voices = voiceTable[RegionNorth]
	}
	g := strings.ToLower(strings.TrimSpace(gender))
	if g != "female" && g != "male" {
		g = "female"
	}
	return voices[g]
}

// SettingsForRegion returns the synthesis tuning for a region. Tamil speech
// takes slightly higher stability and similarity to keep the accent steady.
func SettingsForRegion(region string) pkgai.VoiceSettings {
	if region == RegionTamil {
		return pkgai.VoiceSettings{
			Stability:       0.65,
			SimilarityBoost: 0.85,
			Style:           0.6,
			UseSpeakerBoost: true,
		}
	}
	return pkgai.VoiceSettings{
		Stability:       0.6,
		SimilarityBoost: 0.8,
		Style:           0.5,
		UseSpeakerBoost: true,
	}
}
