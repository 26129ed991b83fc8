package expr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

type tokenKind int

const (
	tokIdent tokenKind = iota
	tokString
	tokNumber
	tokBool
	tokNull
	tokEq
	tokNeq
	tokLt
	tokLte
	tokGt
	tokGte
	tokAnd
	tokOr
	tokNot
	tokLParen
	tokRParen
)

type token struct {
	kind tokenKind
	text string
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isDelimiter(c byte) bool {
	return isSpace(c) || strings.IndexByte("()!=&|<>", c) >= 0
}

// comparisonOps maps the first byte of an operator to the token it produces
// alone and when followed by '='. '=' on its own is rejected.
var comparisonOps = map[byte][2]tokenKind{
	'!': {tokNot, tokNeq},
	'<': {tokLt, tokLte},
	'>': {tokGt, tokGte},
	'=': {-1, tokEq},
}

func lex(input string) ([]token, error) {
	var out []token
	for i := 0; i < len(input); {
		c := input[i]
		switch {
		case isSpace(c):
			i++
		case c == '(':
			out = append(out, token{tokLParen, "("})
			i++
		case c == ')':
			out = append(out, token{tokRParen, ")"})
			i++
		case c == '&' || c == '|':
			if i+1 >= len(input) || input[i+1] != c {
				return nil, fmt.Errorf("predicate/expr: unexpected %q; use %q", string(c), string([]byte{c, c}))
			}
			kind := tokAnd
			if c == '|' {
				kind = tokOr
			}
			out = append(out, token{kind, input[i : i+2]})
			i += 2
		case strings.IndexByte("!<>=", c) >= 0:
			op := comparisonOps[c]
			if i+1 < len(input) && input[i+1] == '=' {
				out = append(out, token{op[1], input[i : i+2]})
				i += 2
				continue
			}
			if op[0] < 0 {
				return nil, errors.New("predicate/expr: unexpected '='; use '=='")
			}
			out = append(out, token{op[0], input[i : i+1]})
			i++
		case c == '"' || c == '\'':
			end := i + 1
			for end < len(input) && input[end] != c {
				if input[end] == '\\' {
					end++
				}
				end++
			}
			if end >= len(input) {
				return nil, errors.New("predicate/expr: unterminated string literal")
			}
			raw := input[i+1 : end]
			if c == '\'' {
				raw = strings.ReplaceAll(raw, `"`, `\"`)
				raw = strings.ReplaceAll(raw, `\'`, `'`)
			}
			value, err := strconv.Unquote(`"` + raw + `"`)
			if err != nil {
				return nil, fmt.Errorf("predicate/expr: invalid string literal: %w", err)
			}
			out = append(out, token{tokString, value})
			i = end + 1
		default:
			start := i
			for i < len(input) && !isDelimiter(input[i]) {
				i++
			}
			out = append(out, classifyWord(input[start:i]))
		}
	}
	return out, nil
}

func classifyWord(word string) token {
	switch strings.ToLower(word) {
	case "true", "false":
		return token{tokBool, strings.ToLower(word)}
	case "null", "nil":
		return token{tokNull, "null"}
	}
	if strings.IndexByte("+-.0123456789", word[0]) >= 0 {
		if _, err := strconv.ParseFloat(word, 64); err == nil {
			return token{tokNumber, word}
		}
	}
	return token{tokIdent, word}
}
