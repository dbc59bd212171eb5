package matching

import (
	"math"
	"regexp"
	"strings"
)

var tokenSplitRegex = regexp.MustCompile(`\W+`)

// ProfileDocument flattens a profile's free-text and tag fields into one
// lowercase space-joined document for text similarity.
func ProfileDocument(p *Profile) string {
	parts := make([]string, 0, 4+len(p.Interests)+len(p.TravelStyles))
	parts = append(parts, p.Bio)
	parts = append(parts, p.Interests...)
	parts = append(parts, p.TravelStyles...)
	parts = append(parts, p.NextDestination, p.CurrentCity)

	return strings.ToLower(strings.Join(parts, " "))
}

// tokenizeDocument splits on non-word runs and drops tokens of length <= 2.
func tokenizeDocument(doc string) []string {
	raw := tokenSplitRegex.Split(strings.ToLower(doc), -1)

	tokens := make([]string, 0, len(raw))
	for _, t := range raw {
		if len(t) > 2 {
			tokens = append(tokens, t)
		}
	}

	return tokens
}

// TFIDFVector weighs a document's terms against the supplied corpus and
// returns the weights aligned to the document's unique-token ordering.
// When comparing two profiles both vectors must be built over the same
// corpus (the two documents together) so dimensions line up for Cosine.
func TFIDFVector(doc string, corpus []string) []float64 {
	tokens := tokenizeDocument(doc)
	if len(tokens) == 0 {
		return nil
	}

	counts := make(map[string]int, len(tokens))
	order := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if counts[t] == 0 {
			order = append(order, t)
		}
		counts[t]++
	}

	corpusTokens := make([]map[string]bool, len(corpus))
	for i, d := range corpus {
		set := make(map[string]bool)
		for _, t := range tokenizeDocument(d) {
			set[t] = true
		}
		corpusTokens[i] = set
	}

	total := float64(len(tokens))
	vec := make([]float64, len(order))
	for i, term := range order {
		tf := float64(counts[term]) / total

		df := 0
		for _, set := range corpusTokens {
			if set[term] {
				df++
			}
		}

		idf := math.Log(float64(len(corpus)) / float64(df+1))
		vec[i] = tf * idf
	}

	return vec
}

// pairDocumentSimilarity is the text signal for two profiles: cosine of
// the two TF-IDF vectors built over the shared two-document corpus.
// Dimensions differ between the vectors when vocabularies differ, so the
// vectors are aligned over the union vocabulary first.
func pairDocumentSimilarity(a, b *Profile) float64 {
	docA := ProfileDocument(a)
	docB := ProfileDocument(b)
	corpus := []string{docA, docB}

	vocab, idxOf := unionVocabulary(docA, docB)
	if len(vocab) == 0 {
		return 0
	}

	vecA := alignVector(docA, corpus, vocab, idxOf)
	vecB := alignVector(docB, corpus, vocab, idxOf)

	return clamp01(Cosine(vecA, vecB))
}

func unionVocabulary(docs ...string) ([]string, map[string]int) {
	var vocab []string
	idxOf := make(map[string]int)
	for _, doc := range docs {
		for _, t := range tokenizeDocument(doc) {
			if _, ok := idxOf[t]; !ok {
				idxOf[t] = len(vocab)
				vocab = append(vocab, t)
			}
		}
	}
	return vocab, idxOf
}

// alignVector projects a document's TF-IDF weights onto the shared
// vocabulary ordering so both vectors agree on dimension semantics.
func alignVector(doc string, corpus, vocab []string, idxOf map[string]int) []float64 {
	tokens := tokenizeDocument(doc)
	aligned := make([]float64, len(vocab))
	if len(tokens) == 0 {
		return aligned
	}

	weights := TFIDFVector(doc, corpus)

	seen := make(map[string]bool, len(tokens))
	pos := 0
	for _, t := range tokens {
		if seen[t] {
			continue
		}
		seen[t] = true
		aligned[idxOf[t]] = weights[pos]
		pos++
	}

	return aligned
}
