package lexicon

import (
	"testing"

	"heatwatch/internal/domain"
)

func TestTierWeights(t *testing.T) {
	t.Parallel()

	cases := []struct {
		tier Tier
		want int
	}{
		{TierPrimaryDeath, 10},
		{TierLocationSpecific, 8},
		{TierContextualDeath, 7},
		{TierHeatIllness, 5},
		{TierMedicalCoroner, 3},
		{TierEnvironmental, 2},
		{Tier("bogus"), 0},
	}

	for _, tc := range cases {
		if got := tc.tier.Weight(); got != tc.want {
			t.Fatalf("Weight(%s) = %d, want %d", tc.tier, got, tc.want)
		}
	}
}

func TestNewValidation(t *testing.T) {
	t.Parallel()

	valid := Rule{
		Phrase:   "heat wave",
		Tier:     TierEnvironmental,
		Weight:   2,
		Language: domain.LangEnglish,
	}

	cases := []struct {
		name   string
		mutate func(r Rule) Rule
	}{
		{"empty phrase", func(r Rule) Rule { r.Phrase = ""; return r }},
		{"unknown tier", func(r Rule) Rule { r.Tier = "mystery"; return r }},
		{"zero weight", func(r Rule) Rule { r.Weight = 0; return r }},
		{"weight tier mismatch", func(r Rule) Rule { r.Weight = 9; return r }},
		{"missing language", func(r Rule) Rule { r.Language = ""; return r }},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if _, err := New([]Rule{tc.mutate(valid)}, nil); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}

	if _, err := New([]Rule{valid}, nil); err != nil {
		t.Fatalf("valid rule rejected: %v", err)
	}
}

func TestRulesOrderPreserved(t *testing.T) {
	t.Parallel()

	rules := []Rule{
		{Phrase: "heat death", Tier: TierPrimaryDeath, Weight: 10, Language: domain.LangEnglish},
		{Phrase: "heat stroke", Tier: TierHeatIllness, Weight: 5, Language: domain.LangEnglish},
		{Phrase: "heat wave", Tier: TierEnvironmental, Weight: 2, Language: domain.LangEnglish},
	}
	lex, err := New(rules, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got := lex.Rules(domain.LangEnglish)
	if len(got) != len(rules) {
		t.Fatalf("expected %d rules, got %d", len(rules), len(got))
	}
	for i := range rules {
		if got[i].Phrase != rules[i].Phrase {
			t.Fatalf("rule %d: got %q, want %q", i, got[i].Phrase, rules[i].Phrase)
		}
	}
}

func TestRulesFallbackToEnglish(t *testing.T) {
	t.Parallel()

	lex := Default()

	english := lex.Rules(domain.LangEnglish)
	if len(english) == 0 {
		t.Fatalf("no english rules in default lexicon")
	}
	unknown := lex.Rules("fr")
	if len(unknown) != len(english) {
		t.Fatalf("unknown language should fall back to english: got %d rules, want %d",
			len(unknown), len(english))
	}
}

func TestDefaultLexicon(t *testing.T) {
	t.Parallel()

	lex := Default()

	if len(lex.Rules(domain.LangSpanish)) == 0 {
		t.Fatalf("default lexicon has no spanish rules")
	}
	if len(lex.Exclusions(domain.LangEnglish)) == 0 {
		t.Fatalf("default lexicon has no english exclusions")
	}

	for _, lang := range lex.Languages() {
		for _, rule := range lex.Rules(lang) {
			if rule.Weight != rule.Tier.Weight() {
				t.Fatalf("rule %q: weight %d does not match tier weight %d",
					rule.Phrase, rule.Weight, rule.Tier.Weight())
			}
		}
	}
}
