package builtins

import (
	"math"
	"strconv"
	"strings"

	"github.com/cwbudde/go-rexx/internal/interp/runtime"
	"github.com/cwbudde/go-rexx/pkg/ident"
)

func registerMath(m *ident.Map[Function]) {
	m.Set("ABS", fnAbs)
	m.Set("MAX", fnMax)
	m.Set("MIN", fnMin)
	m.Set("TRUNC", fnTrunc)
	m.Set("SIGN", fnSign)
	m.Set("DATATYPE", fnDatatype)
}

func fnAbs(ctx Context, args []runtime.Value) (runtime.Value, error) {
	f, err := argNumber(args, 0)
	if err != nil {
		return nil, err
	}
	return ctx.Settings().Number(math.Abs(f)), nil
}

// MAX and MIN accept any number of numeric arguments.
func fnMax(ctx Context, args []runtime.Value) (runtime.Value, error) {
	best, err := argNumber(args, 0)
	if err != nil {
		return nil, err
	}
	for n := 1; n < len(args); n++ {
		f, err := argNumber(args, n)
		if err != nil {
			return nil, err
		}
		if f > best {
			best = f
		}
	}
	return ctx.Settings().Number(best), nil
}

func fnMin(ctx Context, args []runtime.Value) (runtime.Value, error) {
	best, err := argNumber(args, 0)
	if err != nil {
		return nil, err
	}
	for n := 1; n < len(args); n++ {
		f, err := argNumber(args, n)
		if err != nil {
			return nil, err
		}
		if f < best {
			best = f
		}
	}
	return ctx.Settings().Number(best), nil
}

// TRUNC(number [,digits]) truncates toward zero keeping the given number
// of fractional digits (default 0).
func fnTrunc(ctx Context, args []runtime.Value) (runtime.Value, error) {
	f, err := argNumber(args, 0)
	if err != nil {
		return nil, err
	}
	digitsF, err := optNumber(args, 1, 0)
	if err != nil {
		return nil, err
	}
	scale := math.Pow(10, digitsF)
	return ctx.Settings().Number(math.Trunc(f*scale) / scale), nil
}

func fnSign(ctx Context, args []runtime.Value) (runtime.Value, error) {
	f, err := argNumber(args, 0)
	if err != nil {
		return nil, err
	}
	switch {
	case f > 0:
		return ctx.Settings().Number(1), nil
	case f < 0:
		return ctx.Settings().Number(-1), nil
	default:
		return ctx.Settings().Number(0), nil
	}
}

// DATATYPE(string [,type]) reports NUM/CHAR without a type argument, or
// tests against the requested type (NUM, WHOLE, UPPER, LOWER).
func fnDatatype(_ Context, args []runtime.Value) (runtime.Value, error) {
	s, err := argString(args, 0)
	if err != nil {
		return nil, err
	}
	f, perr := strconv.ParseFloat(strings.TrimSpace(s), 64)
	isNumeric := perr == nil && s != ""

	if len(args) < 2 {
		if isNumeric {
			return runtime.NewString("NUM"), nil
		}
		return runtime.NewString("CHAR"), nil
	}

	switch strings.ToUpper(args[1].String()) {
	case "N", "NUM":
		return runtime.Bool(isNumeric), nil
	case "W", "WHOLE":
		return runtime.Bool(isNumeric && f == math.Trunc(f)), nil
	case "U", "UPPER":
		return runtime.Bool(s != "" && s == strings.ToUpper(s)), nil
	case "L", "LOWER":
		return runtime.Bool(s != "" && s == strings.ToLower(s)), nil
	}
	return runtime.Bool(false), nil
}
