package jsonvalue

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Parse decodes JSON text into a Value tree, preserving object key order.
func Parse(text string) (*Value, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	v, err := parseValue(dec)
	if err != nil {
		return nil, err
	}
	// Trailing garbage after the first value is an error.
	if dec.More() {
		return nil, fmt.Errorf("unexpected trailing content in JSON text")
	}
	return v, nil
}

// LooksLikeJSON reports whether text plausibly holds a JSON object or
// array. It is the cheap pre-test before attempting a full Parse on
// assignment results.
func LooksLikeJSON(text string) bool {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < 2 {
		return false
	}
	first, last := trimmed[0], trimmed[len(trimmed)-1]
	return (first == '{' && last == '}') || (first == '[' && last == ']')
}

func parseValue(dec *json.Decoder) (*Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return fromToken(dec, tok)
}

func fromToken(dec *json.Decoder, tok json.Token) (*Value, error) {
	switch t := tok.(type) {
	case nil:
		return NewNull(), nil
	case bool:
		return NewBoolean(t), nil
	case string:
		return NewString(t), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return nil, err
		}
		return NewNumber(f), nil
	case json.Delim:
		switch t {
		case '{':
			obj := NewObject()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("object key is not a string: %v", keyTok)
				}
				child, err := parseValue(dec)
				if err != nil {
					return nil, err
				}
				obj.ObjectSet(key, child)
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return nil, err
			}
			return obj, nil
		case '[':
			arr := NewArray()
			for dec.More() {
				child, err := parseValue(dec)
				if err != nil {
					return nil, err
				}
				arr.ArrayAppend(child)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return nil, err
			}
			return arr, nil
		}
	}
	return nil, fmt.Errorf("unexpected JSON token: %v", tok)
}
