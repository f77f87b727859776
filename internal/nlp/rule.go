package nlp

import (
	"context"
	"unicode/utf8"
)

// RuleAnalyzer is the default Analyzer. It relies on capitalization, a given-name
// gazetteer and organisation keywords instead of a statistical model.
type RuleAnalyzer struct{}

// NewRuleAnalyzer creates a rule-based analyzer
func NewRuleAnalyzer() *RuleAnalyzer {
	return &RuleAnalyzer{}
}

// Analyze annotates text. It fails only on invalid UTF-8 or a cancelled context.
func (a *RuleAnalyzer) Analyze(ctx context.Context, text string) (*Document, error) {
	if err := checkInput(ctx, text); err != nil {
		return nil, err
	}
	tokens := Tokenize(text)
	return &Document{
		Text:       text,
		Tokens:     tokens,
		Sentences:  segmentSentences(text, tokens),
		Entities:   recognizeEntities(text, tokens),
		NounChunks: chunkByRules(text, tokens),
	}, nil
}

func checkInput(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return &AnalysisError{Message: "analysis cancelled", Cause: err}
	}
	if !utf8.ValidString(text) {
		return &AnalysisError{Message: "text is not valid UTF-8"}
	}
	return nil
}
