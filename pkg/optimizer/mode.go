package optimizer

import (
	"strings"

	"github.com/pkg/errors"
)

// Mode selects the flow a request runs through.
type Mode string

const (
	// ModeTailor rewrites the résumé for the job description.
	ModeTailor Mode = "tailor"
	// ModeAnalyze returns advice instead of a rewritten résumé.
	ModeAnalyze Mode = "analyze"
)

// ParseMode matches a mode name case-insensitively. An empty name is ModeTailor.
func ParseMode(name string) (mode Mode, err error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", string(ModeTailor):
		mode = ModeTailor
	case string(ModeAnalyze), "analysis":
		mode = ModeAnalyze
	default:
		err = errors.Errorf("unknown mode '%s': must be '%s' or '%s'", name, ModeTailor, ModeAnalyze)
	}
	return mode, err
}
