package ranking

import (
	"math"
	"regexp"
	"strings"

	"github.com/jonathan/resume-parser/internal/nlp"
)

var termPattern = regexp.MustCompile(`\w\w+`)

// terms lowercases text and returns its words of two or more characters, without stop words
func terms(text string) []string {
	var out []string
	for _, t := range termPattern.FindAllString(strings.ToLower(text), -1) {
		if !nlp.IsStopWord(t) {
			out = append(out, t)
		}
	}
	return out
}

// tfidfSimilarity is the cosine similarity of the TF-IDF vectors of two
// documents, with the vocabulary and smoothed idf ln((1+n)/(1+df))+1 computed
// over exactly these two documents.
func tfidfSimilarity(a, b string) float64 {
	docs := [2]map[string]float64{termCounts(a), termCounts(b)}
	if len(docs[0]) == 0 || len(docs[1]) == 0 {
		return 0
	}

	df := make(map[string]int)
	for _, doc := range docs {
		for term := range doc {
			df[term]++
		}
	}
	const n = 2
	for _, doc := range docs {
		for term, tf := range doc {
			doc[term] = tf * (math.Log(float64(1+n)/float64(1+df[term])) + 1)
		}
	}

	var dot, normA, normB float64
	for term, wa := range docs[0] {
		normA += wa * wa
		if wb, ok := docs[1][term]; ok {
			dot += wa * wb
		}
	}
	for _, wb := range docs[1] {
		normB += wb * wb
	}
	if dot == 0 {
		return 0
	}
	return clamp(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}

func termCounts(text string) map[string]float64 {
	counts := make(map[string]float64)
	for _, t := range terms(text) {
		counts[t]++
	}
	return counts
}

func clamp(v float64) float64 {
	switch {
	case math.IsNaN(v) || v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
