// Package score implements the deterministic keyword scorer and the fixed
// relevance classifier. Scoring is integer arithmetic over an immutable
// lexicon, so identical inputs always produce identical output.
package score

import (
	"fmt"

	"heatwatch/internal/domain"
	"heatwatch/internal/lexicon"
)

// Match reports one lexicon rule that occurred in the text.
type Match struct {
	Phrase       string
	Tier         lexicon.Tier
	Count        int
	Weight       int
	Contribution int
}

type compiledRule struct {
	rule    lexicon.Rule
	pattern pattern
}

// Scorer evaluates article text against a compiled lexicon.
type Scorer struct {
	rules      map[string][]compiledRule
	exclusions map[string][]pattern
}

// NewScorer compiles every lexicon phrase once up front; a phrase that does
// not compile is a configuration error and fails construction.
func NewScorer(lex *lexicon.Lexicon) (*Scorer, error) {
	s := &Scorer{
		rules:      make(map[string][]compiledRule),
		exclusions: make(map[string][]pattern),
	}

	for _, lang := range lex.Languages() {
		for _, rule := range lex.Rules(lang) {
			p, err := compile(rule.Phrase)
			if err != nil {
				return nil, fmt.Errorf("compile rule: %w", err)
			}
			s.rules[lang] = append(s.rules[lang], compiledRule{rule: rule, pattern: p})
		}
		for _, phrase := range lex.Exclusions(lang) {
			p, err := compile(phrase)
			if err != nil {
				return nil, fmt.Errorf("compile exclusion: %w", err)
			}
			s.exclusions[lang] = append(s.exclusions[lang], p)
		}
	}

	return s, nil
}

// Score counts non-overlapping occurrences of every rule for the language
// and sums weight*count. Empty or unusable text yields (0, nil) rather
// than an error. Any exclusion hit forces a zero score.
func (s *Scorer) Score(text, lang string) (int, []Match) {
	words := Tokenize(text)
	if len(words) == 0 {
		return 0, nil
	}

	lang = normalizeLang(lang)

	for _, excl := range s.exclusions[lang] {
		if excl.count(words) > 0 {
			return 0, nil
		}
	}

	total := 0
	var matches []Match
	for _, cr := range s.rules[lang] {
		count := cr.pattern.count(words)
		if count == 0 {
			continue
		}
		contribution := cr.rule.Weight * count
		total += contribution
		matches = append(matches, Match{
			Phrase:       cr.rule.Phrase,
			Tier:         cr.rule.Tier,
			Count:        count,
			Weight:       cr.rule.Weight,
			Contribution: contribution,
		})
	}

	return total, matches
}

func normalizeLang(lang string) string {
	if lang == domain.LangSpanish {
		return domain.LangSpanish
	}
	return domain.LangEnglish
}

// Classify maps a heat score onto its relevance band. Lower bounds are
// inclusive: exactly 20 is HIGHLY_RELEVANT, exactly 50 EXTREMELY_RELEVANT.
func Classify(total int) domain.RelevanceCategory {
	switch {
	case total >= 50:
		return domain.ExtremelyRelevant
	case total >= 20:
		return domain.HighlyRelevant
	case total >= 10:
		return domain.ModeratelyRelevant
	case total >= 1:
		return domain.MinimallyRelevant
	default:
		return domain.NotRelevant
	}
}
