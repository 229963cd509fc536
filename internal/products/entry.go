package products

import "strings"

// Separator splits the target from the notification address on a product line.
const Separator = "|"

// Entry is one product to watch.
type Entry struct {
	// Line is the trimmed source line and the identity of the entry.
	Line string
	// Target is the page URL to fetch. Never empty.
	Target string
	// NotifyAddress is the recipient for this product; empty means the sender's default.
	NotifyAddress string
}

// HasAddress reports whether the line carried its own recipient.
func (e Entry) HasAddress() bool {
	return e.NotifyAddress != ""
}

// ParseLine splits a line on the first separator and trims both parts.
// It returns false for blank lines and lines without a target.
func ParseLine(line string) (Entry, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Entry{}, false
	}

	target, address, _ := strings.Cut(line, Separator)
	entry := Entry{
		Line:          line,
		Target:        strings.TrimSpace(target),
		NotifyAddress: strings.TrimSpace(address),
	}
	if entry.Target == "" {
		return Entry{}, false
	}
	return entry, true
}

// entrySet keeps the first occurrence of each line in insertion order.
type entrySet struct {
	seen    map[string]struct{}
	entries []Entry
}

func newEntrySet() *entrySet {
	return &entrySet{seen: make(map[string]struct{})}
}

// add returns false when an entry with the same line is already present.
func (s *entrySet) add(e Entry) bool {
	if _, ok := s.seen[e.Line]; ok {
		return false
	}
	s.seen[e.Line] = struct{}{}
	s.entries = append(s.entries, e)
	return true
}

func (s *entrySet) list() []Entry {
	return s.entries
}
