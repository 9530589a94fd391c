package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilePosition(t *testing.T) {
	f := NewFile("main.vx", "let x = 1;\nlet yy = 2;\n")

	tests := []struct {
		name   string
		offset int
		line   int
		column int
	}{
		{"start of file", 0, 1, 1},
		{"middle of first line", 4, 1, 5},
		{"start of second line", 11, 2, 1},
		{"inside second line", 15, 2, 5},
		{"past the end clamps", 1000, 3, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := f.Position(tt.offset)
			assert.Equal(t, tt.line, pos.Line)
			assert.Equal(t, tt.column, pos.Column)
		})
	}
}

func TestFileText(t *testing.T) {
	f := NewFile("main.vx", "let  answer = 42;")

	text, ok := f.Text(Span{From: 5, To: 11})
	require.True(t, ok)
	assert.Equal(t, "answer", text)

	trimmed, ok := f.TrimmedText(Span{From: 3, To: 11})
	require.True(t, ok)
	assert.Equal(t, "answer", trimmed)

	_, ok = f.Text(Span{From: 10, To: 100})
	assert.False(t, ok)
	_, ok = f.Text(Span{From: 5, To: 2})
	assert.False(t, ok)
}

func TestSpanCover(t *testing.T) {
	a := Span{From: 4, To: 9}
	b := Span{From: 1, To: 6}
	assert.Equal(t, Span{From: 1, To: 9}, a.Cover(b))
	assert.Equal(t, 5, a.Len())
	assert.True(t, Span{From: 3, To: 3}.IsEmpty())
}

func TestPositionAdvance(t *testing.T) {
	p := &Position{Line: 1, Column: 1}
	p.Advance("ab\ncd")
	assert.Equal(t, 2, p.Line)
	assert.Equal(t, 3, p.Column)
	assert.Equal(t, 5, p.Index)
}

func TestLocationString(t *testing.T) {
	f := NewFile("a.vx", "x\ny")
	loc := f.Location(Span{From: 0, To: 3})
	assert.Equal(t, "location(1:1 - 2:2)", loc.String())
	assert.True(t, loc.Contains(&Position{Line: 1, Column: 1}))
	assert.False(t, loc.Contains(&Position{Line: 3, Column: 1}))
}
