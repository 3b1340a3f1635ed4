package chat

import (
	"strings"
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
)

// DefaultTriggerKeywords is the keyword set that summons the assistant when
// nothing else is configured.
var DefaultTriggerKeywords = []string{"help", "support"}

// Trigger decides whether a chat message should be answered by the assistant:
// a case-insensitive substring match against a fixed keyword set, evaluated
// with an Aho-Corasick automaton so the cost stays flat as keywords are added.
type Trigger struct {
	matcher *goahocorasick.Machine
}

// NewTrigger builds the automaton from the keyword set. Empty keywords are
// rejected by the automaton, so they are filtered out up front.
func NewTrigger(keywords []string) (*Trigger, error) {
	patterns := make([][]rune, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		patterns = append(patterns, lowerRunes(kw))
	}

	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return nil, err
	}
	return &Trigger{matcher: m}, nil
}

// Match reports whether text contains any trigger keyword.
func (t *Trigger) Match(text string) bool {
	return len(t.matcher.MultiPatternSearch(lowerRunes(text), true)) > 0
}

func lowerRunes(s string) []rune {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		out = append(out, unicode.ToLower(r))
	}
	return out
}
