package source

import (
	"sort"
	"strings"
)

// Span is a half-open byte range [From, To) into a file's content.
type Span struct {
	From int
	To   int
}

// Len returns the number of bytes covered.
func (s Span) Len() int {
	if s.To < s.From {
		return 0
	}
	return s.To - s.From
}

// IsEmpty reports whether the span covers no bytes.
func (s Span) IsEmpty() bool { return s.Len() == 0 }

// Cover returns the smallest span containing both s and o.
func (s Span) Cover(o Span) Span {
	if o.From < s.From {
		s.From = o.From
	}
	if o.To > s.To {
		s.To = o.To
	}
	return s
}

// File is one source text plus the line table needed to turn byte offsets
// into line/column positions for diagnostics.
type File struct {
	Path    string
	Content string

	lineStarts []int
}

// NewFile indexes content for position lookups.
func NewFile(path, content string) *File {
	starts := []int{0}
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &File{Path: path, Content: content, lineStarts: starts}
}

// Text returns the raw bytes under span, or false when the span does not lie
// inside the file.
func (f *File) Text(span Span) (string, bool) {
	if f == nil || span.From < 0 || span.To > len(f.Content) || span.From > span.To {
		return "", false
	}
	return f.Content[span.From:span.To], true
}

// TrimmedText is Text with surrounding whitespace removed.
func (f *File) TrimmedText(span Span) (string, bool) {
	text, ok := f.Text(span)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(text), true
}

// Position converts a byte offset into a 1-based line/column position.
// Offsets past the end clamp to the end of the file.
func (f *File) Position(offset int) *Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(f.Content) {
		offset = len(f.Content)
	}
	line := sort.Search(len(f.lineStarts), func(i int) bool {
		return f.lineStarts[i] > offset
	}) - 1
	return &Position{
		Line:   line + 1,
		Column: offset - f.lineStarts[line] + 1,
		Index:  offset,
	}
}

// Location converts a span into a line/column Location for the emitter.
func (f *File) Location(span Span) *Location {
	return NewLocation(&f.Path, f.Position(span.From), f.Position(span.To))
}

// Lines splits the content into lines without their terminators.
func (f *File) Lines() []string {
	if f.Content == "" {
		return []string{}
	}
	return strings.Split(strings.TrimSuffix(f.Content, "\n"), "\n")
}
