package diagnostics

// Error codes for the Vex front end
const (
	// Lexer errors (L prefix)
	ErrUnexpectedCharacter = "L0001"
	ErrUnterminatedString  = "L0002"

	// Parser errors (P prefix)
	ErrUnexpectedToken   = "P0001"
	ErrExpectedToken     = "P0002"
	ErrInvalidExpression = "P0003"

	// Lowering errors (E prefix, CodeBase 4000)
	ErrLiteral              = "E4001"
	ErrUnresolvedIdentifier = "E4002"
	ErrInternal             = "E4003"
	ErrScope                = "E4004"
)
