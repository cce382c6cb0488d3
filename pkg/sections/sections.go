package sections

import (
	"strings"
	"unicode"
)

// DefaultName is the section name used for text that precedes the first header.
const DefaultName = "general"

// HeaderMode selects how header lines are recognised.
type HeaderMode int

const (
	// MarkdownHeaders treats lines starting with one or more '#' as headers.
	MarkdownHeaders HeaderMode = iota
	// UppercaseHeaders treats non-empty, entirely uppercase lines as headers.
	UppercaseHeaders
)

// String returns the mode name.
func (m HeaderMode) String() (name string) {
	switch m {
	case MarkdownHeaders:
		name = "markdown"
	case UppercaseHeaders:
		name = "uppercase"
	default:
		name = "unknown"
	}
	return name
}

// ModeForFilename picks the header mode for a document type. Markdown files use '#'
// headers, plain text extracted from uploads uses uppercase headings.
func ModeForFilename(filename string) (mode HeaderMode) {
	lower := strings.ToLower(filename)
	if strings.HasSuffix(lower, ".md") || strings.HasSuffix(lower, ".markdown") {
		mode = MarkdownHeaders
		return mode
	}
	mode = UppercaseHeaders
	return mode
}

// Sections maps section names to bodies and remembers first-insertion order.
type Sections struct {
	names  []string
	bodies map[string]string
}

// New creates an empty collection.
func New() (secs *Sections) {
	secs = &Sections{
		names:  make([]string, 0),
		bodies: make(map[string]string),
	}
	return secs
}

// Set stores body under name. A name that already exists keeps its position and gets the new body.
func (s *Sections) Set(name, body string) {
	if _, exists := s.bodies[name]; !exists {
		s.names = append(s.names, name)
	}
	s.bodies[name] = body
}

// Get returns the body stored under name.
func (s *Sections) Get(name string) (body string, ok bool) {
	body, ok = s.bodies[name]
	return body, ok
}

// Names returns the section names in insertion order.
func (s *Sections) Names() (names []string) {
	names = make([]string, len(s.names))
	copy(names, s.names)
	return names
}

// Len returns the number of sections.
func (s *Sections) Len() (n int) {
	n = len(s.names)
	return n
}

// Map returns a copy of the sections as a plain map.
func (s *Sections) Map() (m map[string]string) {
	m = make(map[string]string, len(s.bodies))
	for name, body := range s.bodies {
		m[name] = body
	}
	return m
}

// Segment splits text into named sections using header lines as delimiters.
//
// Lines are newline terminated, with CRLF read as LF, so a trailing newline does not add an
// empty line to the last body. A header only closes the previous section when that section collected at least one line.
func Segment(text string, mode HeaderMode) (secs *Sections) {
	secs = New()
	if text == "" {
		return secs
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	current := DefaultName
	buffer := make([]string, 0)

	for _, line := range strings.Split(strings.TrimSuffix(text, "\n"), "\n") {
		name, isHeader := headerName(line, mode)
		if !isHeader {
			buffer = append(buffer, line)
			continue
		}

		if len(buffer) > 0 {
			secs.Set(strings.ToLower(current), strings.Join(buffer, "\n"))
			buffer = buffer[:0]
		}
		current = name
	}

	if len(buffer) > 0 {
		secs.Set(strings.ToLower(current), strings.Join(buffer, "\n"))
	}

	return secs
}

// headerName reports whether line is a header under mode and returns its name.
func headerName(line string, mode HeaderMode) (name string, isHeader bool) {
	trimmed := strings.TrimSpace(line)

	switch mode {
	case MarkdownHeaders:
		if strings.HasPrefix(trimmed, "#") {
			name = strings.TrimSpace(strings.Trim(trimmed, "#"))
			isHeader = true
		}
	case UppercaseHeaders:
		if isUppercaseLine(trimmed) {
			name = trimmed
			isHeader = true
		}
	}

	return name, isHeader
}

// isUppercaseLine is true for non-empty text with at least one letter and no lowercase letters.
func isUppercaseLine(text string) (upper bool) {
	hasLetter := false
	for _, r := range text {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			hasLetter = true
		}
	}
	upper = hasLetter
	return upper
}
