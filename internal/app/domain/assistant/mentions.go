package assistant

import (
	"sync"

	ahocorasick "github.com/petar-dambovaliev/aho-corasick"
)

// MentionScanner finds known attraction names inside assistant replies so
// the UI can link attraction cards under a chat bubble. Matching is case
// insensitive and whole-word to avoid tagging substrings like "Fort" inside
// "comfort".
type MentionScanner struct {
	mu      sync.RWMutex
	names   []string
	matcher ahocorasick.AhoCorasick
	ready   bool
}

func NewMentionScanner(names []string) *MentionScanner {
	s := &MentionScanner{}
	s.SetNames(names)
	return s
}

// SetNames rebuilds the automaton; called at startup and after admin edits
// to the attraction catalog.
func (s *MentionScanner) SetNames(names []string) {
	builder := ahocorasick.NewAhoCorasickBuilder(ahocorasick.Opts{
		AsciiCaseInsensitive: true,
		MatchOnlyWholeWords:  true,
		MatchKind:            ahocorasick.LeftMostLongestMatch,
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.names = append([]string(nil), names...)
	s.matcher = builder.Build(names)
	s.ready = len(names) > 0
}

// Scan returns the distinct attraction names mentioned in content, in order
// of first appearance.
func (s *MentionScanner) Scan(content string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.ready {
		return nil
	}

	var found []string
	seen := make(map[int]bool)
	for _, match := range s.matcher.FindAll(content) {
		if seen[match.Pattern()] {
			continue
		}
		seen[match.Pattern()] = true
		found = append(found, s.names[match.Pattern()])
	}
	return found
}
