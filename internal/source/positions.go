package source

// Position represents a specific location in the source code with line, column, and index information.
type Position struct {
	Line   int // Line number in the source code.
	Column int // Column number in the source code.
	Index  int // Byte offset in the source code.
}

// Advance moves the position past toSkip, one byte of Index per byte and one
// column per rune. Newlines reset the column.
func (p *Position) Advance(toSkip string) *Position {
	for _, char := range toSkip {
		if char == '\n' {
			p.Line++
			p.Column = 1
			p.Index++
			continue
		}
		p.Column++
		p.Index += len(string(char))
	}
	return p
}
