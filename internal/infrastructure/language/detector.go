// Package language guesses whether extracted text is English or Spanish,
// so bilingual sources (e.g. an es section on an en site) still get
// scored against the right lexicon.
package language

import (
	"github.com/pemistahl/lingua-go"

	"heatwatch/internal/domain"
	"heatwatch/internal/ports"
)

// minTextLength below which detection is too unreliable to override the
// source's configured tag.
const minTextLength = 120

// Detector wraps a lingua detector restricted to the two lexicon languages.
type Detector struct {
	detector lingua.LanguageDetector
}

var _ ports.LanguageDetector = (*Detector)(nil)

// NewDetector builds the en/es detector. The minimum relative distance
// keeps ambiguous texts from flipping the configured language.
func NewDetector() *Detector {
	detector := lingua.NewLanguageDetectorBuilder().
		FromLanguages(lingua.English, lingua.Spanish).
		WithMinimumRelativeDistance(0.25).
		Build()
	return &Detector{detector: detector}
}

// Detect returns the detected language tag and whether the guess is
// confident enough to use.
func (d *Detector) Detect(text string) (string, bool) {
	if len(text) < minTextLength {
		return "", false
	}

	detected, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return "", false
	}

	switch detected {
	case lingua.English:
		return domain.LangEnglish, true
	case lingua.Spanish:
		return domain.LangSpanish, true
	default:
		return "", false
	}
}
