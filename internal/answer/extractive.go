package answer

import (
	"errors"
	"math"
	"regexp"
	"strings"
)

// ExtractiveQA is a local question-answering model. It splits the
// context into sentences and returns the one whose token set best
// matches the question, with the overlap coefficient as confidence.
type ExtractiveQA struct {
	tokenPattern    *regexp.Regexp
	sentencePattern *regexp.Regexp
	stopwords       map[string]struct{}
}

// NewExtractiveQA creates an extractive QA model.
func NewExtractiveQA() *ExtractiveQA {
	return &ExtractiveQA{
		tokenPattern:    regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`),
		sentencePattern: regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`),
		stopwords:       defaultStopwords(),
	}
}

// Name returns the identifier of this QA implementation.
func (q *ExtractiveQA) Name() string { return "extractive" }

// Answer selects the best-matching sentence from the context.
func (q *ExtractiveQA) Answer(question, context string) (string, float64, error) {
	if strings.TrimSpace(context) == "" {
		return "", 0, errors.New("empty context")
	}
	sentences := q.splitSentences(context)
	qset := q.tokenSet(question)

	bestIdx := 0
	bestScore := -1.0
	for i, sentence := range sentences {
		score := q.ochiai(qset, sentence)
		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}
	if bestScore < 0 {
		bestScore = 0
	}
	if bestScore > 1 {
		bestScore = 1
	}
	return strings.TrimSpace(sentences[bestIdx]), bestScore, nil
}

// splitSentences returns the punctuated sentences plus any trailing
// unpunctuated fragment. Non-blank input yields at least one candidate.
func (q *ExtractiveQA) splitSentences(context string) []string {
	locs := q.sentencePattern.FindAllStringIndex(context, -1)
	sentences := make([]string, 0, len(locs)+1)
	end := 0
	for _, loc := range locs {
		sentences = append(sentences, context[loc[0]:loc[1]])
		end = loc[1]
	}
	if tail := strings.TrimSpace(context[end:]); tail != "" {
		sentences = append(sentences, tail)
	}
	return sentences
}

func (q *ExtractiveQA) tokenSet(s string) map[string]struct{} {
	tokens := q.tokenPattern.FindAllString(strings.ToLower(s), -1)
	m := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		if _, isStop := q.stopwords[t]; isStop {
			continue
		}
		m[t] = struct{}{}
	}
	return m
}

// ochiai computes |A∩B| / sqrt(|A||B|) over the question token set and
// the sentence's distinct tokens.
func (q *ExtractiveQA) ochiai(qset map[string]struct{}, sentence string) float64 {
	tokens := q.tokenPattern.FindAllString(strings.ToLower(sentence), -1)
	seen := make(map[string]struct{}, len(tokens))
	inter := 0
	for _, t := range tokens {
		if _, isStop := q.stopwords[t]; isStop {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		if _, ok := qset[t]; ok {
			inter++
		}
	}
	if len(qset) == 0 || len(seen) == 0 {
		return 0
	}
	return float64(inter) / math.Sqrt(float64(len(qset))*float64(len(seen)))
}

func defaultStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of", "in", "on", "at", "by", "with", "as", "is", "are", "was", "were", "be", "been", "being", "it", "this", "that", "these", "those", "from", "up", "down", "over", "under", "again", "further", "than", "so", "such", "into", "about", "between", "through", "during", "before", "after", "above", "below", "out", "off", "own", "same", "too", "very", "can", "will", "just", "don", "should", "now",
		"what", "which", "who", "whom", "when", "where", "why", "how",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
