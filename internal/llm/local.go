package llm

import (
	"context"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/jonathan/resume-parser/internal/nlp"
)

// DefaultDimensions is the vector size of the local embedder
const DefaultDimensions = 1024

// acronyms are expanded before hashing so that "ML" and "machine learning" share features
var acronyms = map[string][]string{
	"ml":     {"machine", "learning"},
	"ai":     {"artificial", "intelligence"},
	"dl":     {"deep", "learning"},
	"nlp":    {"natural", "language", "processing"},
	"cv":     {"computer", "vision"},
	"k8s":    {"kubernetes"},
	"js":     {"javascript"},
	"ts":     {"typescript"},
	"py":     {"python"},
	"golang": {"go"},
	"db":     {"database"},
	"dbs":    {"databases"},
	"aws":    {"amazon", "web", "services"},
	"gcp":    {"google", "cloud"},
	"sre":    {"site", "reliability", "engineering"},
	"qa":     {"quality", "assurance"},
	"ui":     {"user", "interface"},
	"ux":     {"user", "experience"},
	"phd":    {"doctorate"},
}

var wordPattern = regexp.MustCompile(`[\p{L}\p{N}][\p{L}\p{N}+#]*`)

// LocalEmbedder is a deterministic feature-hashing embedder. Each word is
// hashed to a signed bucket and weighted by 1+ln(tf). It needs no network and
// is safe for concurrent use.
type LocalEmbedder struct {
	dims int
}

// NewLocalEmbedder creates a local embedder; dims <= 0 selects DefaultDimensions
func NewLocalEmbedder(dims int) *LocalEmbedder {
	if dims <= 0 {
		dims = DefaultDimensions
	}
	return &LocalEmbedder{dims: dims}
}

// Embed returns the hashed bag-of-words vector of text
func (e *LocalEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, word := range embeddingWords(text) {
		counts[word]++
	}

	vec := make([]float32, e.dims)
	for word, tf := range counts {
		h := xxhash.Sum64String(word)
		weight := float32(1 + math.Log(float64(tf)))
		if h&(1<<63) != 0 {
			weight = -weight
		}
		vec[h%uint64(e.dims)] += weight
	}
	return vec, nil
}

// Model identifies the local embedding space by its dimensions
func (e *LocalEmbedder) Model() string {
	return "local-hash-" + strconv.Itoa(e.dims)
}

// Close is a no-op
func (e *LocalEmbedder) Close() error {
	return nil
}

// embeddingWords lowercases text, drops stop words and expands acronyms
func embeddingWords(text string) []string {
	var words []string
	for _, w := range wordPattern.FindAllString(strings.ToLower(text), -1) {
		if expanded, ok := acronyms[w]; ok {
			words = append(words, expanded...)
			continue
		}
		if nlp.IsStopWord(w) {
			continue
		}
		words = append(words, w)
	}
	return words
}
