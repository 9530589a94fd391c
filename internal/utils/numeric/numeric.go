package numeric

import (
	"fmt"
	"math/big"
	"regexp"
	"strconv"
	"strings"
)

// Regex pattern components for number formats
const (
	HexDigits = `[0-9a-fA-F]`
	HexNumber = `0[xX]` + HexDigits + `(?:` + HexDigits + `|_` + HexDigits + `)*`

	OctDigits = `[0-7]`
	OctNumber = `0[oO]` + OctDigits + `(?:` + OctDigits + `|_` + OctDigits + `)*`

	BinDigits = `[01]`
	BinNumber = `0[bB]` + BinDigits + `(?:` + BinDigits + `|_` + BinDigits + `)*`

	DecDigits = `[0-9]`
	DecNumber = DecDigits + `(?:` + DecDigits + `|_` + DecDigits + `)*`

	FloatFrac = `\.` + DecDigits + `(?:` + DecDigits + `|_` + DecDigits + `)*`
	FloatExp  = `[eE][+-]?` + DecDigits + `(?:` + DecDigits + `|_` + DecDigits + `)*`

	// RealPattern needs a fractional part or an exponent so `1..2` lexes as a range.
	RealPattern    = DecNumber + `(?:` + FloatFrac + `(?:` + FloatExp + `)?|` + FloatExp + `)`
	IntegerPattern = `(?:` + HexNumber + `|` + OctNumber + `|` + BinNumber + `|` + DecNumber + `)`
)

var (
	decimalRegex = regexp.MustCompile(`^` + DecNumber + `$`)
	hexRegex     = regexp.MustCompile(`^` + HexNumber + `$`)
	octalRegex   = regexp.MustCompile(`^` + OctNumber + `$`)
	binaryRegex  = regexp.MustCompile(`^` + BinNumber + `$`)
	realRegex    = regexp.MustCompile(`^` + RealPattern + `$`)
)

// IsReal checks for a decimal point or an exponent
func IsReal(s string) bool {
	return realRegex.MatchString(s)
}

func IsDecimal(s string) bool {
	return decimalRegex.MatchString(s)
}

func IsHexadecimal(s string) bool {
	return hexRegex.MatchString(s)
}

func IsOctal(s string) bool {
	return octalRegex.MatchString(s)
}

func IsBinary(s string) bool {
	return binaryRegex.MatchString(s)
}

// IsInteger accepts every integer spelling the lexer produces
func IsInteger(s string) bool {
	return IsDecimal(s) || IsHexadecimal(s) || IsOctal(s) || IsBinary(s)
}

// StringToInteger parses an integer literal in any supported base.
// Literals that overflow int64 report an error carrying the big value.
func StringToInteger(s string) (int64, error) {
	if !IsInteger(s) {
		return 0, fmt.Errorf("invalid integer literal: %s", s)
	}
	// Remove any underscores used for readability
	clean := strings.ReplaceAll(s, "_", "")
	var (
		value int64
		err   error
	)
	switch {
	case IsHexadecimal(clean):
		value, err = strconv.ParseInt(clean[2:], 16, 64)
	case IsOctal(clean):
		value, err = strconv.ParseInt(clean[2:], 8, 64)
	case IsBinary(clean):
		value, err = strconv.ParseInt(clean[2:], 2, 64)
	default:
		value, err = strconv.ParseInt(clean, 10, 64)
	}
	if err != nil {
		if big, bigErr := StringToBigInt(s); bigErr == nil {
			return 0, fmt.Errorf("integer literal %s does not fit in 64 bits", big.String())
		}
		return 0, err
	}
	return value, nil
}

// StringToBigInt parses a string into a big.Int, handling hex, octal, binary, and decimal formats
func StringToBigInt(s string) (*big.Int, error) {
	s = strings.ReplaceAll(s, "_", "")

	base := 10
	trimmed := s

	if IsHexadecimal(s) {
		base = 16
		trimmed = s[2:]
	} else if IsOctal(s) {
		base = 8
		trimmed = s[2:]
	} else if IsBinary(s) {
		base = 2
		trimmed = s[2:]
	}

	result := new(big.Int)
	_, ok := result.SetString(trimmed, base)
	if !ok {
		return nil, fmt.Errorf("invalid integer literal: %s", s)
	}

	return result, nil
}

// numeric to ordinal: 1 -> 1st, 2 -> 2nd, 3 -> 3rd, 4 -> 4th, etc.
func NumericToOrdinal(n int) string {
	if n <= 0 {
		return ""
	}

	switch n % 100 {
	case 11, 12, 13:
		return fmt.Sprintf("%dth", n)
	}

	switch n % 10 {
	case 1:
		return fmt.Sprintf("%dst", n)
	case 2:
		return fmt.Sprintf("%dnd", n)
	case 3:
		return fmt.Sprintf("%drd", n)
	default:
		return fmt.Sprintf("%dth", n)
	}
}
