package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetNumberBitSize(t *testing.T) {
	tests := []struct {
		kind     TYPE_NAME
		expected uint16
	}{
		{TYPE_I8, 8},
		{TYPE_U8, 8},
		{TYPE_BYTE, 8},
		{TYPE_I16, 16},
		{TYPE_U32, 32},
		{TYPE_CHAR, 32},
		{TYPE_F64, 64},
		{TYPE_INT, 64},
		{TYPE_FLOAT, 64},
		{TYPE_STRING, 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.expected, GetNumberBitSize(tt.kind))
		})
	}
}

func TestClassification(t *testing.T) {
	tests := []struct {
		kind     TYPE_NAME
		signed   bool
		unsigned bool
		float    bool
	}{
		{TYPE_INT, true, false, false},
		{TYPE_I32, true, false, false},
		{TYPE_UINT, false, true, false},
		{TYPE_BYTE, false, true, false},
		{TYPE_F32, false, false, true},
		{TYPE_FLOAT, false, false, true},
		{TYPE_STRING, false, false, false},
		{TYPE_CHAR, false, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.signed, IsSigned(tt.kind))
			assert.Equal(t, tt.unsigned, IsUnsigned(tt.kind))
			assert.Equal(t, tt.float, IsFloatTypeName(tt.kind))
			assert.Equal(t, tt.signed || tt.unsigned, IsIntegerTypeName(tt.kind))
			assert.Equal(t, tt.signed || tt.unsigned || tt.float, IsNumericTypeName(tt.kind))
		})
	}
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "signed 64-bit integer", Describe(TYPE_INT))
	assert.Equal(t, "unsigned 8-bit integer", Describe(TYPE_BYTE))
	assert.Equal(t, "32-bit float", Describe(TYPE_F32))
	assert.Equal(t, "string", Describe(TYPE_STRING))
	assert.Equal(t, "unknown", Describe("Point"))
}

func TestPrimitivesAreDistinct(t *testing.T) {
	seen := make(map[TYPE_NAME]bool)
	for _, p := range Primitives {
		assert.False(t, seen[p], p)
		seen[p] = true
	}
}
