// Package prompts holds the prompt corpora used to build benchmark requests.
package prompts

import (
	"math/rand/v2"
)

// DefaultPrompt is the fixed prompt used by the single-configuration tool
// when no corpus sampling is requested.
const DefaultPrompt = "Explain the concept of artificial intelligence step by step."

// Pair is a long context document and the question asked about it.
type Pair struct {
	Context string
	Prompt  string
}

// Source picks request content. It only reads immutable tables, so one
// Source may be shared by every worker.
type Source struct {
	fixed string
	short []string
	long  []Pair
}

// NewSource returns a Source over the built-in corpora. A non-empty fixed
// prompt replaces short prompt sampling; long context sampling is unaffected.
func NewSource(fixed string) *Source {
	return &Source{
		fixed: fixed,
		short: shortPrompts,
		long:  longContextPairs,
	}
}

// NewSourceFrom builds a Source over caller supplied tables. The slices are
// copied.
func NewSourceFrom(short []string, long []Pair) *Source {
	return &Source{
		short: append([]string(nil), short...),
		long:  append([]Pair(nil), long...),
	}
}

// NextContent returns the user message for one request.
func (s *Source) NextContent(useLongContext bool) string {
	if useLongContext && len(s.long) > 0 {
		p := s.long[rand.IntN(len(s.long))]
		return p.Context + "\n\n" + p.Prompt
	}
	if s.fixed != "" || len(s.short) == 0 {
		if s.fixed == "" {
			return DefaultPrompt
		}
		return s.fixed
	}
	return s.short[rand.IntN(len(s.short))]
}

// ShortPrompts returns a copy of the built-in short prompt set.
func ShortPrompts() []string {
	return append([]string(nil), shortPrompts...)
}

// LongContextPairs returns a copy of the built-in long context set.
func LongContextPairs() []Pair {
	return append([]Pair(nil), longContextPairs...)
}
