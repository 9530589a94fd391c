package types

// resolveDefault maps int, uint and float to their sized spelling.
func resolveDefault(kind TYPE_NAME) TYPE_NAME {
	switch kind {
	case TYPE_INT:
		return DEFAULT_INT_TYPE
	case TYPE_UINT:
		return DEFAULT_UINT_TYPE
	case TYPE_FLOAT:
		return DEFAULT_FLOAT_TYPE
	}
	return kind
}

func GetNumberBitSize(kind TYPE_NAME) uint16 {
	switch resolveDefault(kind) {
	case TYPE_I8, TYPE_U8, TYPE_BYTE:
		return 8
	case TYPE_I16, TYPE_U16:
		return 16
	case TYPE_I32, TYPE_U32, TYPE_F32, TYPE_CHAR:
		return 32
	case TYPE_I64, TYPE_U64, TYPE_F64:
		return 64
	default:
		return 0
	}
}

func IsSigned(kind TYPE_NAME) bool {
	switch resolveDefault(kind) {
	case TYPE_I8, TYPE_I16, TYPE_I32, TYPE_I64:
		return true
	default:
		return false
	}
}

func IsUnsigned(kind TYPE_NAME) bool {
	switch resolveDefault(kind) {
	case TYPE_U8, TYPE_U16, TYPE_U32, TYPE_U64, TYPE_BYTE:
		return true
	default:
		return false
	}
}

// IsNumericTypeName checks if a type name is numeric
func IsNumericTypeName(typeName TYPE_NAME) bool {
	return IsIntegerTypeName(typeName) || IsFloatTypeName(typeName)
}

// IsIntegerTypeName checks if a type name is an integer type
func IsIntegerTypeName(typeName TYPE_NAME) bool {
	return IsSigned(typeName) || IsUnsigned(typeName)
}

func IsFloatTypeName(typeName TYPE_NAME) bool {
	switch resolveDefault(typeName) {
	case TYPE_F32, TYPE_F64:
		return true
	default:
		return false
	}
}

// Describe is a short human description such as "signed 64-bit integer".
func Describe(kind TYPE_NAME) string {
	if IsNumericTypeName(kind) {
		switch {
		case IsSigned(kind):
			return "signed " + bits(kind) + " integer"
		case IsIntegerTypeName(kind):
			return "unsigned " + bits(kind) + " integer"
		}
		return bits(kind) + " float"
	}
	switch kind {
	case TYPE_STRING:
		return "string"
	case TYPE_CHAR:
		return "unicode scalar"
	}
	return "unknown"
}

func bits(kind TYPE_NAME) string {
	switch GetNumberBitSize(kind) {
	case 8:
		return "8-bit"
	case 16:
		return "16-bit"
	case 32:
		return "32-bit"
	case 64:
		return "64-bit"
	}
	return "?-bit"
}
