package optimizer

import (
	"strings"
)

// Level controls how far the model may depart from the original résumé.
type Level string

const (
	// Conservative keeps wording close to the original.
	Conservative Level = "Conservative"
	// Balanced is the default level.
	Balanced Level = "Balanced"
	// Aggressive lets the model rewrite freely.
	Aggressive Level = "Aggressive"

	// ExperienceTemperature is used for every experience section rewrite regardless of level.
	ExperienceTemperature = 0.3
)

// Levels lists the levels in increasing order of freedom.
//
//nolint:gochecknoglobals // Fixed list used by the form and CLI help
var Levels = []Level{Conservative, Balanced, Aggressive}

// Temperature returns the sampling temperature for the level. Unknown levels use 0.7.
func (l Level) Temperature() (temperature float64) {
	switch l {
	case Conservative:
		temperature = 0.3
	case Aggressive:
		temperature = 0.9
	default:
		temperature = 0.7
	}
	return temperature
}

// ParseLevel matches a level name case-insensitively. An empty name is Balanced. An unknown
// name also resolves to Balanced, at its 0.7 temperature, and reports known as false.
func ParseLevel(name string) (level Level, known bool) {
	level = Balanced
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		known = true
		return level, known
	}

	for _, candidate := range Levels {
		if strings.EqualFold(trimmed, string(candidate)) {
			level = candidate
			known = true
			return level, known
		}
	}

	return level, known
}
