package score

import (
	"fmt"
	"strings"
	"unicode"
)

// maxGap bounds how many tokens a "*" may skip. Keeps contextual patterns
// like "found dead * heat" from pairing words half an article apart.
const maxGap = 12

// Tokenize normalizes text for matching: lowercase, hyphen and punctuation
// treated as token boundaries, invalid UTF-8 dropped. "Heat-Related Death"
// and "heat related death" produce the same token stream.
func Tokenize(text string) []string {
	text = strings.ToValidUTF8(text, "")
	text = strings.ToLower(text)
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

type patternToken struct {
	alts []string
	gap  bool
}

func (t patternToken) matches(word string) bool {
	for _, alt := range t.alts {
		if alt == word {
			return true
		}
	}
	return false
}

// pattern is a compiled phrase: a sequence of literal tokens (each with
// optional alternatives) and bounded gaps.
type pattern struct {
	phrase string
	tokens []patternToken
}

func compile(phrase string) (pattern, error) {
	fields := strings.Fields(strings.ToLower(phrase))
	if len(fields) == 0 {
		return pattern{}, fmt.Errorf("empty phrase")
	}

	tokens := make([]patternToken, 0, len(fields))
	for _, field := range fields {
		if field == "*" {
			tokens = append(tokens, patternToken{gap: true})
			continue
		}
		alts := strings.Split(field, "|")
		for _, alt := range alts {
			if alt == "" {
				return pattern{}, fmt.Errorf("phrase %q: empty alternative", phrase)
			}
		}
		tokens = append(tokens, patternToken{alts: alts})
	}

	if tokens[0].gap || tokens[len(tokens)-1].gap {
		return pattern{}, fmt.Errorf("phrase %q: gap cannot begin or end a phrase", phrase)
	}
	for i := 1; i < len(tokens); i++ {
		if tokens[i].gap && tokens[i-1].gap {
			return pattern{}, fmt.Errorf("phrase %q: consecutive gaps", phrase)
		}
	}

	return pattern{phrase: phrase, tokens: tokens}, nil
}

// count returns the number of non-overlapping occurrences in the token
// stream. Gaps take the first viable continuation, which is sufficient for
// the lexicon's gap-then-literal patterns.
func (p pattern) count(words []string) int {
	matched := 0
	for i := 0; i < len(words); {
		end, ok := p.matchAt(words, i)
		if ok {
			matched++
			i = end
			continue
		}
		i++
	}
	return matched
}

func (p pattern) matchAt(words []string, start int) (int, bool) {
	pos := start
	for i := 0; i < len(p.tokens); i++ {
		tok := p.tokens[i]
		if tok.gap {
			i++
			next := p.tokens[i] // compile rejects trailing gaps
			found := false
			for skip := 0; skip <= maxGap && pos+skip < len(words); skip++ {
				if next.matches(words[pos+skip]) {
					pos += skip + 1
					found = true
					break
				}
			}
			if !found {
				return 0, false
			}
			continue
		}
		if pos >= len(words) || !tok.matches(words[pos]) {
			return 0, false
		}
		pos++
	}
	return pos, true
}
