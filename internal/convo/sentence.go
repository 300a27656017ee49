package convo

import (
	"regexp"
	"strings"
)

// citationPattern matches inline citation tags emitted by
// knowledge-grounded completions, e.g. "[doc3]". They are stripped
// before a sentence is spoken or recorded.
var citationPattern = regexp.MustCompile(`\[doc\d+\]`)

// defaultTerminators mark sentence boundaries in streamed model output.
var defaultTerminators = []string{".", "!", "?", ";", "。", "！", "？", "；", "\n"}

// SentenceAssembler turns an ordered stream of text fragments into an
// ordered stream of speakable sentences. The whole accumulated buffer
// is flushed once per fragment that contains any terminator; a fragment
// carrying several terminators still produces a single emission, so an
// emitted sentence may contain embedded terminators.
type SentenceAssembler struct {
	terminators []string
	buf         strings.Builder
}

// NewSentenceAssembler returns an assembler using the default
// terminator set.
func NewSentenceAssembler() *SentenceAssembler {
	return &SentenceAssembler{terminators: defaultTerminators}
}

// Feed appends fragment to the buffer and returns the sentences made
// complete by it (zero or one per call).
func (a *SentenceAssembler) Feed(fragment string) []string {
	if fragment == "" {
		return nil
	}
	a.buf.WriteString(fragment)
	hit := false
	for _, t := range a.terminators {
		if strings.Contains(fragment, t) {
			hit = true
			break
		}
	}
	if !hit {
		return nil
	}
	if s, ok := a.flush(); ok {
		return []string{s}
	}
	return nil
}

// Flush emits any trailing sentence left in the buffer at stream end.
func (a *SentenceAssembler) Flush() (string, bool) {
	return a.flush()
}

// flush strips citations from the buffered text and clears the buffer
// if the result is speakable. Whitespace-only or citation-only content
// is suppressed and left buffered.
func (a *SentenceAssembler) flush() (string, bool) {
	sentence := strings.TrimSpace(citationPattern.ReplaceAllString(strings.TrimSpace(a.buf.String()), ""))
	if sentence == "" {
		return "", false
	}
	a.buf.Reset()
	return sentence, true
}
