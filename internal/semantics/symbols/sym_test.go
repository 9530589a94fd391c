package symbols

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInternIsStable(t *testing.T) {
	in := NewInterner()

	a := in.Intern("x")
	b := in.Intern("y")
	again := in.Intern("x")

	assert.Equal(t, a, again)
	assert.NotEqual(t, a, b)
	assert.True(t, a.IsValid())
	assert.Equal(t, "y", in.Name(b))
	assert.Equal(t, 2, in.Len())
}

func TestLookupDoesNotAllocate(t *testing.T) {
	in := NewInterner()

	_, ok := in.Lookup("missing")
	assert.False(t, ok)
	assert.Equal(t, 0, in.Len())
	assert.Equal(t, "", in.Name(NoID))
	assert.Equal(t, "", in.Name(99))
}

func TestSymbolKindString(t *testing.T) {
	assert.Equal(t, "parameter", SymbolParameter.String())
	assert.Equal(t, "unknown", SymbolKind(-1).String())
}
