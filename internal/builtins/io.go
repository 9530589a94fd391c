package builtins

// NativeFunction is a function the runtime provides. Lowering only needs its
// name; Params documents the expected arguments.
type NativeFunction struct {
	Name       string   // name in source, e.g. "println"
	Params     []string // parameter names, "..." marks a variadic tail
	NativeName string   // runtime symbol, e.g. "vex_io_println"
}

// IOBuiltins are the console functions.
var IOBuiltins = []NativeFunction{
	{Name: "print", Params: []string{"..."}, NativeName: "vex_io_print"},
	{Name: "println", Params: []string{"..."}, NativeName: "vex_io_println"},
}

// CoreBuiltins are always available and never shadowed by an import.
var CoreBuiltins = []NativeFunction{
	{Name: "panic", Params: []string{"message"}, NativeName: "vex_panic"},
	{Name: "assert", Params: []string{"cond", "message"}, NativeName: "vex_assert"},
	{Name: "len", Params: []string{"value"}, NativeName: "vex_len"},
}
