package store

import (
	"fmt"

	"github.com/expr-lang/expr"
)

// Expr compiles an expr-lang expression into a Computed field. The
// expression is evaluated on every read with the record's plain fields as
// its environment, e.g. Expr(`firstName + " " + lastName`).
//
// Compilation errors are reported here, at declaration time; a runtime
// evaluation failure yields nil for the field rather than failing the read.
func Expr(src string) (Computed, error) {
	program, err := expr.Compile(src, expr.AllowUndefinedVariables())
	if err != nil {
		return nil, fmt.Errorf("compile computed field %q: %w", src, err)
	}
	return func(rec Record) any {
		out, err := expr.Run(program, map[string]any(rec))
		if err != nil {
			return nil
		}
		return out
	}, nil
}

// MustExpr is like Expr but panics on a compilation error. Intended for
// seed declarations, where a bad expression is a programmer mistake.
func MustExpr(src string) Computed {
	fn, err := Expr(src)
	if err != nil {
		panic(err)
	}
	return fn
}
