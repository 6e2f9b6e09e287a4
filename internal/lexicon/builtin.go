package lexicon

import "heatwatch/internal/domain"

// Default builds the built-in bilingual heat-death lexicon. The phrase
// tables intentionally favor recall: hyphenated and spaced surface forms
// collapse to the same normalized phrase (e.g. "heat-related death" and
// "heat related death").
func Default() *Lexicon {
	lex, err := New(builtinRules(), builtinExclusions())
	if err != nil {
		// The built-in table is validated by tests; a failure here is a
		// programming error, not an input error.
		panic(err)
	}
	return lex
}

func builtinRules() []Rule {
	var rules []Rule

	add := func(lang string, tier Tier, phrases ...string) {
		for _, phrase := range phrases {
			rules = append(rules, Rule{
				Phrase:   phrase,
				Tier:     tier,
				Weight:   tier.Weight(),
				Language: lang,
			})
		}
	}

	add(domain.LangEnglish, TierPrimaryDeath,
		"heat death",
		"heat related death",
		"heat caused death",
		"heat fatality",
		"died from heat",
		"died of heat",
		"heat exposure death",
		"hyperthermia death",
		"heat stroke death",
		"died from hyperthermia",
		"succumbed to heat",
		"heat related fatality",
		"heat victim",
		"heat casualty",
	)

	add(domain.LangEnglish, TierLocationSpecific,
		"died in vehicle * heat",
		"found in car * heat",
		"outdoor death * heat",
		"homeless * heat death",
		"farm worker * heat death",
		"agricultural worker * heat",
		"air conditioning failure * death",
		"a c failure * death",
		"no air conditioning * death",
		"no a c * death",
		"mobile home * heat death",
	)

	add(domain.LangEnglish, TierContextualDeath,
		"found dead * heat",
		"body found * heat",
		"unresponsive * heat",
		"pronounced dead * heat",
		"died after * heat wave",
		"succumbed * heat",
		"extreme heat * died",
	)

	add(domain.LangEnglish, TierHeatIllness,
		"heat stroke",
		"heat exhaustion",
		"hyperthermia",
		"heat illness",
		"heat related illness",
		"heat emergency",
		"heat associated",
		"severe dehydration",
	)

	add(domain.LangEnglish, TierMedicalCoroner,
		"coroner * heat",
		"medical examiner * heat",
		"autopsy * heat",
		"cause of death * heat",
		"heat related cause",
		"environmental heat * death",
		"heat as contributing factor",
	)

	add(domain.LangEnglish, TierEnvironmental,
		"excessive heat warning",
		"heat wave",
		"extreme heat",
		"triple digit temperature",
		"record heat",
		"blistering heat",
		"record breaking heat",
		"dangerous heat",
		"heat advisory",
		"scorching heat|temperature",
		"heat claims lives",
		"deadly heat",
		"heat turns deadly",
	)

	add(domain.LangSpanish, TierPrimaryDeath,
		"muerte por calor",
		"falleció por calor",
		"murió por calor",
		"sucumbió por calor",
		"falleció por el calor",
		"hipertermia fatal",
	)

	add(domain.LangSpanish, TierHeatIllness,
		"golpe de calor",
		"insolación",
		"hipertermia",
		"deshidratación severa",
		"enfermedad por calor",
	)

	add(domain.LangSpanish, TierEnvironmental,
		"ola de calor",
		"calor extremo",
		"temperatura récord",
		"aviso de calor",
		"calor peligroso",
		"calor mortal",
	)

	return rules
}

// builtinExclusions lists phrases whose presence marks the text as using
// "heat" in an unrelated sense; any hit forces a zero score.
func builtinExclusions() map[string][]string {
	return map[string][]string{
		domain.LangEnglish: {
			"heated argument",
			"heated debate",
			"heat of the moment",
			"preheat",
			"preheated",
			"preheating",
			"heat pump",
			"heating system",
		},
	}
}
