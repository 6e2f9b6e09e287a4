// Package lexicon holds the bilingual weighted keyword table used for
// relevance scoring. The table is built once at startup and treated as
// read-only afterwards.
package lexicon

import (
	"fmt"

	"heatwatch/internal/domain"
)

// Tier groups phrases that carry the same weight.
type Tier string

const (
	TierPrimaryDeath     Tier = "primary_death"
	TierLocationSpecific Tier = "location_specific"
	TierContextualDeath  Tier = "contextual_death"
	TierHeatIllness      Tier = "heat_illness"
	TierMedicalCoroner   Tier = "medical_coroner"
	TierEnvironmental    Tier = "environmental"
)

// tierWeights fixes the point value of each tier.
var tierWeights = map[Tier]int{
	TierPrimaryDeath:     10,
	TierLocationSpecific: 8,
	TierContextualDeath:  7,
	TierHeatIllness:      5,
	TierMedicalCoroner:   3,
	TierEnvironmental:    2,
}

// Weight returns the fixed point value of the tier, or 0 for unknown tiers.
func (t Tier) Weight() int {
	return tierWeights[t]
}

// Rule is one scorable phrase pattern. Phrase syntax: space-separated
// tokens matched against normalized text; a token may list alternatives
// as "a|b"; the token "*" allows a bounded gap of arbitrary tokens.
type Rule struct {
	Phrase   string
	Tier     Tier
	Weight   int
	Language string
}

// Lexicon is the immutable rule table, keyed by language tag.
type Lexicon struct {
	rules      map[string][]Rule
	exclusions map[string][]string
}

// New validates rules and builds a lexicon. Rule order is preserved per
// language so scoring output stays deterministic.
func New(rules []Rule, exclusions map[string][]string) (*Lexicon, error) {
	byLang := make(map[string][]Rule)
	for i, rule := range rules {
		if rule.Phrase == "" {
			return nil, fmt.Errorf("rule %d: empty phrase", i)
		}
		if _, ok := tierWeights[rule.Tier]; !ok {
			return nil, fmt.Errorf("rule %q: unknown tier %q", rule.Phrase, rule.Tier)
		}
		if rule.Weight <= 0 {
			return nil, fmt.Errorf("rule %q: weight must be positive, got %d", rule.Phrase, rule.Weight)
		}
		if rule.Weight != rule.Tier.Weight() {
			return nil, fmt.Errorf("rule %q: weight %d does not match tier %q weight %d",
				rule.Phrase, rule.Weight, rule.Tier, rule.Tier.Weight())
		}
		if rule.Language == "" {
			return nil, fmt.Errorf("rule %q: missing language", rule.Phrase)
		}
		byLang[rule.Language] = append(byLang[rule.Language], rule)
	}

	excl := make(map[string][]string, len(exclusions))
	for lang, phrases := range exclusions {
		excl[lang] = append([]string(nil), phrases...)
	}

	return &Lexicon{rules: byLang, exclusions: excl}, nil
}

// Rules returns the ordered rule set for a language tag. Unknown tags fall
// back to English, matching how sources without a Spanish edition are scored.
// Callers must not mutate the returned slice.
func (l *Lexicon) Rules(lang string) []Rule {
	if rules, ok := l.rules[lang]; ok {
		return rules
	}
	return l.rules[domain.LangEnglish]
}

// Exclusions returns phrases that short-circuit scoring to zero for a
// language. Callers must not mutate the returned slice.
func (l *Lexicon) Exclusions(lang string) []string {
	return l.exclusions[lang]
}

// Languages lists every language tag the lexicon carries rules for.
func (l *Lexicon) Languages() []string {
	langs := make([]string, 0, len(l.rules))
	for lang := range l.rules {
		langs = append(langs, lang)
	}
	return langs
}
