package hirlower

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"vex/internal/hir"
	"vex/internal/utils/numeric"

	"github.com/shopspring/decimal"
)

var errTrailing = errors.New("more than one character")

func parseInt(text string) (hir.IntLiteral, error) {
	v, err := numeric.StringToInteger(text)
	if err != nil {
		return hir.IntLiteral{}, err
	}
	return hir.IntLiteral{Value: v}, nil
}

// parseReal splits a decimal literal into its whole and fractional digits.
// "3.14" is Whole 3, Fraction 14, Scale 2.
func parseReal(text string) (hir.RealLiteral, error) {
	d, err := decimal.NewFromString(strings.ReplaceAll(text, "_", ""))
	if err != nil {
		return hir.RealLiteral{}, err
	}
	whole := d.Truncate(0)
	if !whole.BigInt().IsInt64() {
		return hir.RealLiteral{}, fmt.Errorf("%s does not fit in 64 bits", whole)
	}
	if d.Exponent() >= 0 {
		return hir.RealLiteral{Whole: whole.IntPart()}, nil
	}
	frac := d.Sub(whole).Coefficient()
	if !frac.IsInt64() {
		return hir.RealLiteral{}, fmt.Errorf("fraction of %s has too many digits", text)
	}
	return hir.RealLiteral{
		Whole:    whole.IntPart(),
		Fraction: frac.Int64(),
		Scale:    -d.Exponent(),
	}, nil
}

func parseStr(text string) (hir.StrLiteral, error) {
	v, err := strconv.Unquote(text)
	if err != nil {
		return hir.StrLiteral{}, err
	}
	return hir.StrLiteral{Value: v}, nil
}

func parseChar(text string) (hir.CharLiteral, error) {
	if len(text) < 3 || text[0] != '\'' || text[len(text)-1] != '\'' {
		return hir.CharLiteral{}, strconv.ErrSyntax
	}
	v, _, tail, err := strconv.UnquoteChar(text[1:len(text)-1], '\'')
	if err != nil {
		return hir.CharLiteral{}, err
	}
	if tail != "" {
		return hir.CharLiteral{}, errTrailing
	}
	return hir.CharLiteral{Value: v}, nil
}

func parseBool(text string) (hir.BoolLiteral, error) {
	switch text {
	case "true":
		return hir.BoolLiteral{Value: true}, nil
	case "false":
		return hir.BoolLiteral{Value: false}, nil
	}
	return hir.BoolLiteral{}, strconv.ErrSyntax
}
