package convo

import "strings"

// ConsentAnswer is the classification of a caller's reply to the
// consent question.
type ConsentAnswer int

const (
	ConsentUnclear ConsentAnswer = iota
	ConsentYes
	ConsentNo
)

func (c ConsentAnswer) String() string {
	switch c {
	case ConsentYes:
		return "given"
	case ConsentNo:
		return "declined"
	}
	return "unclear"
}

// ConsentClassifier maps a free-text utterance to a ConsentAnswer via
// case-insensitive substring matching against two keyword sets. It is
// pure and total: anything matching neither set is Unclear.
//
// The declined set is checked first. If an utterance somehow matches
// both sets ("I'm not sure, ok"), treating it as consent would be the
// riskier mistake.
type ConsentClassifier struct {
	given    []string
	declined []string
}

// NewConsentClassifier returns a classifier with the default English
// keyword sets. Both sets are localizable.
func NewConsentClassifier() *ConsentClassifier {
	return &ConsentClassifier{
		given:    []string{"yes", "sure", "okay", "ok", "fine", "i consent", "agreed", "go ahead"},
		declined: []string{"no", "don't", "do not", "not okay", "won't", "nope", "decline", "refuse"},
	}
}

// Classify never fails; unmatched utterances are ConsentUnclear.
func (c *ConsentClassifier) Classify(utterance string) ConsentAnswer {
	lower := strings.ToLower(utterance)
	for _, kw := range c.declined {
		if strings.Contains(lower, kw) {
			return ConsentNo
		}
	}
	for _, kw := range c.given {
		if strings.Contains(lower, kw) {
			return ConsentYes
		}
	}
	return ConsentUnclear
}
