package builtins

import (
	"fmt"
	"strings"

	"github.com/cwbudde/go-rexx/internal/interp/runtime"
	"github.com/cwbudde/go-rexx/pkg/ident"
)

func registerStrings(m *ident.Map[Function]) {
	m.Set("LENGTH", fnLength)
	m.Set("UPPER", fnUpper)
	m.Set("LOWER", fnLower)
	m.Set("STRIP", fnStrip)
	m.Set("SUBSTR", fnSubstr)
	m.Set("POS", fnPos)
	m.Set("REVERSE", fnReverse)
	m.Set("SPACE", fnSpace)
	m.Set("COPIES", fnCopies)
	m.Set("WORD", fnWord)
	m.Set("WORDS", fnWords)
}

// LENGTH(string) returns the rune count of the string form.
func fnLength(ctx Context, args []runtime.Value) (runtime.Value, error) {
	s, err := argString(args, 0)
	if err != nil {
		return nil, err
	}
	return ctx.Settings().Number(float64(len([]rune(s)))), nil
}

func fnUpper(_ Context, args []runtime.Value) (runtime.Value, error) {
	s, err := argString(args, 0)
	if err != nil {
		return nil, err
	}
	return runtime.NewString(strings.ToUpper(s)), nil
}

func fnLower(_ Context, args []runtime.Value) (runtime.Value, error) {
	s, err := argString(args, 0)
	if err != nil {
		return nil, err
	}
	return runtime.NewString(strings.ToLower(s)), nil
}

// STRIP(string [,option] [,character]) trims leading and/or trailing
// occurrences of character (default blank). Option is L, T or B.
func fnStrip(_ Context, args []runtime.Value) (runtime.Value, error) {
	s, err := argString(args, 0)
	if err != nil {
		return nil, err
	}
	option := strings.ToUpper(optString(args, 1, "B"))
	cutset := optString(args, 2, " ")
	switch option {
	case "L":
		s = strings.TrimLeft(s, cutset)
	case "T":
		s = strings.TrimRight(s, cutset)
	case "B", "":
		s = strings.Trim(s, cutset)
	default:
		return nil, fmt.Errorf("STRIP option must be L, T or B, got %q", option)
	}
	return runtime.NewString(s), nil
}

// SUBSTR(string, start [,length] [,pad]) with 1-based start, padded to
// length when the string is too short.
func fnSubstr(_ Context, args []runtime.Value) (runtime.Value, error) {
	s, err := argString(args, 0)
	if err != nil {
		return nil, err
	}
	startF, err := argNumber(args, 1)
	if err != nil {
		return nil, err
	}
	runes := []rune(s)
	start := int(startF)
	if start < 1 {
		return nil, fmt.Errorf("SUBSTR start must be positive, got %d", start)
	}
	lengthF, err := optNumber(args, 2, float64(len(runes)-start+1))
	if err != nil {
		return nil, err
	}
	length := int(lengthF)
	if length < 0 {
		length = 0
	}
	pad := optString(args, 3, " ")
	if pad == "" {
		pad = " "
	}

	var sb strings.Builder
	for i := 0; i < length; i++ {
		idx := start - 1 + i
		if idx < len(runes) {
			sb.WriteRune(runes[idx])
		} else {
			sb.WriteString(pad[:1])
		}
	}
	return runtime.NewString(sb.String()), nil
}

// POS(needle, haystack [,start]) returns the 1-based position of needle,
// or 0 when absent.
func fnPos(ctx Context, args []runtime.Value) (runtime.Value, error) {
	needle, err := argString(args, 0)
	if err != nil {
		return nil, err
	}
	haystack, err := argString(args, 1)
	if err != nil {
		return nil, err
	}
	startF, err := optNumber(args, 2, 1)
	if err != nil {
		return nil, err
	}
	start := int(startF)
	if start < 1 {
		start = 1
	}
	runes := []rune(haystack)
	if start > len(runes) {
		return ctx.Settings().Number(0), nil
	}
	idx := strings.Index(string(runes[start-1:]), needle)
	if idx < 0 {
		return ctx.Settings().Number(0), nil
	}
	prefix := len([]rune(string(runes[start-1:])[:idx]))
	return ctx.Settings().Number(float64(start + prefix)), nil
}

func fnReverse(_ Context, args []runtime.Value) (runtime.Value, error) {
	s, err := argString(args, 0)
	if err != nil {
		return nil, err
	}
	runes := []rune(s)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return runtime.NewString(string(runes)), nil
}

// SPACE(string [,n] [,pad]) normalizes inter-word spacing to n pad
// characters (default 1 blank).
func fnSpace(_ Context, args []runtime.Value) (runtime.Value, error) {
	s, err := argString(args, 0)
	if err != nil {
		return nil, err
	}
	nF, err := optNumber(args, 1, 1)
	if err != nil {
		return nil, err
	}
	n := int(nF)
	if n < 0 {
		return nil, fmt.Errorf("SPACE count must be non-negative, got %d", n)
	}
	pad := optString(args, 2, " ")
	if pad == "" {
		pad = " "
	}
	words := strings.Fields(s)
	return runtime.NewString(strings.Join(words, strings.Repeat(pad[:1], n))), nil
}

func fnCopies(_ Context, args []runtime.Value) (runtime.Value, error) {
	s, err := argString(args, 0)
	if err != nil {
		return nil, err
	}
	nF, err := argNumber(args, 1)
	if err != nil {
		return nil, err
	}
	if nF < 0 {
		return nil, fmt.Errorf("COPIES count must be non-negative, got %v", nF)
	}
	return runtime.NewString(strings.Repeat(s, int(nF))), nil
}

// WORD(string, n) returns the nth blank-delimited word, or "".
func fnWord(_ Context, args []runtime.Value) (runtime.Value, error) {
	s, err := argString(args, 0)
	if err != nil {
		return nil, err
	}
	nF, err := argNumber(args, 1)
	if err != nil {
		return nil, err
	}
	words := strings.Fields(s)
	n := int(nF)
	if n < 1 || n > len(words) {
		return runtime.NewString(""), nil
	}
	return runtime.NewString(words[n-1]), nil
}

func fnWords(ctx Context, args []runtime.Value) (runtime.Value, error) {
	s, err := argString(args, 0)
	if err != nil {
		return nil, err
	}
	return ctx.Settings().Number(float64(len(strings.Fields(s)))), nil
}
