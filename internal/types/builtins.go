package types

// TYPE_NAME is the spelling of a primitive type in source.
type TYPE_NAME string

const (
	TYPE_INT    TYPE_NAME = "int"
	TYPE_I8     TYPE_NAME = "i8"
	TYPE_I16    TYPE_NAME = "i16"
	TYPE_I32    TYPE_NAME = "i32"
	TYPE_I64    TYPE_NAME = "i64"
	TYPE_UINT   TYPE_NAME = "uint"
	TYPE_U8     TYPE_NAME = "u8"
	TYPE_U16    TYPE_NAME = "u16"
	TYPE_U32    TYPE_NAME = "u32"
	TYPE_U64    TYPE_NAME = "u64"
	TYPE_FLOAT  TYPE_NAME = "float"
	TYPE_F32    TYPE_NAME = "f32"
	TYPE_F64    TYPE_NAME = "f64"
	TYPE_STRING TYPE_NAME = "str"
	TYPE_CHAR   TYPE_NAME = "char"
	TYPE_BYTE   TYPE_NAME = "byte"
)

// Primitives lists every primitive type the prelude declares, in
// declaration order. bool, void and the other reserved spellings are not
// here because they never go through scope lookup.
var Primitives = []TYPE_NAME{
	TYPE_INT, TYPE_I8, TYPE_I16, TYPE_I32, TYPE_I64,
	TYPE_UINT, TYPE_U8, TYPE_U16, TYPE_U32, TYPE_U64,
	TYPE_FLOAT, TYPE_F32, TYPE_F64,
	TYPE_STRING, TYPE_CHAR, TYPE_BYTE,
}

// Default widths of the unsized spellings.
const (
	DEFAULT_INT_TYPE   TYPE_NAME = TYPE_I64
	DEFAULT_UINT_TYPE  TYPE_NAME = TYPE_U64
	DEFAULT_FLOAT_TYPE TYPE_NAME = TYPE_F64
)
