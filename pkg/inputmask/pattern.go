package inputmask

import (
	"fmt"
	"regexp"
	"strings"
)

const leadingSpace = " \t\n\r\v\f"

// bracket-style delimiters close with their counterpart.
var bracketPairs = map[byte]byte{'(': ')', '[': ']', '{': '}', '<': '>'}

// Pattern is a compiled, delimiter-wrapped regular expression such as
// `/^[0-9]{3}-[0-9]{4}$/i`. The body is evaluated by the RE2 engine.
type Pattern struct {
	src   string
	expr  string
	re    *regexp.Regexp
	diags []string
}

// dollarDiagnostic notes that D is always in force: without m, $ matches
// only at the very end, so "abc\n" fails /^abc$/.
const dollarDiagnostic = "modifier 'D' is implied: $ never matches before a trailing newline"

// Compile parses a delimited pattern and compiles its body.
//
// Modifiers i, m, s and U map to RE2 flags, x strips whitespace and
// comments, A anchors the match at the start of the subject. D, u, S, X, J
// and n are accepted without effect and only reported by Diagnostics, as are
// repeated modifiers. Anything else fails.
func Compile(expr string) (*Pattern, error) {
	s := strings.TrimLeft(expr, leadingSpace)
	if s == "" {
		return nil, &SyntaxError{Pattern: expr, Reason: "empty regular expression"}
	}
	open := s[0]
	if !isDelimiter(open) {
		return nil, &SyntaxError{Pattern: expr, Reason: "delimiter must not be alphanumeric, backslash or whitespace"}
	}
	closing := open
	if c, ok := bracketPairs[open]; ok {
		closing = c
	}
	end := closingIndex(s, open, closing)
	if end < 0 {
		return nil, &SyntaxError{Pattern: expr, Reason: fmt.Sprintf("no ending delimiter %q found", closing)}
	}
	body, mods := s[1:end], s[end+1:]

	p := &Pattern{src: expr}
	var flags strings.Builder
	var extended, anchored bool
	seen := make(map[rune]bool, len(mods))
	for _, m := range mods {
		if m == ' ' || m == '\n' || m == '\r' {
			continue
		}
		if seen[m] {
			p.diags = append(p.diags, fmt.Sprintf("modifier %q repeated", m))
			continue
		}
		seen[m] = true
		switch m {
		case 'i', 'm', 's', 'U':
			flags.WriteRune(m)
		case 'x':
			extended = true
		case 'A':
			anchored = true
		case 'D':
			p.diags = append(p.diags, dollarDiagnostic)
		case 'u', 'S', 'X', 'J', 'n':
			p.diags = append(p.diags, fmt.Sprintf("modifier %q has no effect", m))
		default:
			return nil, &SyntaxError{Pattern: expr, Reason: fmt.Sprintf("unknown modifier %q", m)}
		}
	}

	if extended {
		body = stripExtended(body)
	}
	if anchored {
		body = `\A(?:` + body + `)`
	}
	if flags.Len() > 0 {
		body = "(?" + flags.String() + ")" + body
	}
	re, err := regexp.Compile(body)
	if err != nil {
		return nil, &SyntaxError{Pattern: expr, Reason: err.Error(), Err: err}
	}
	p.expr = body
	p.re = re
	return p, nil
}

// IsValidPattern reports whether pattern compiles. Soft diagnostics do not
// make a pattern invalid.
func IsValidPattern(pattern string) bool {
	_, err := Compile(pattern)
	return err == nil
}

// MatchString reports whether s contains a match of the pattern.
func (p *Pattern) MatchString(s string) bool {
	return p.re.MatchString(s)
}

// String returns the pattern as written, delimiters and modifiers included.
func (p *Pattern) String() string { return p.src }

// Expr returns the RE2 expression handed to the engine.
func (p *Pattern) Expr() string { return p.expr }

// Diagnostics returns the non-fatal notes collected while compiling.
func (p *Pattern) Diagnostics() []string {
	if len(p.diags) == 0 {
		return nil
	}
	return append([]string(nil), p.diags...)
}

func isDelimiter(c byte) bool {
	if c == '\\' {
		return false
	}
	switch {
	case '!' <= c && c <= '/', ':' <= c && c <= '@', '[' <= c && c <= '`', '{' <= c && c <= '~':
		return true
	}
	return false
}

// closingIndex returns the index of the delimiter that ends the body, or -1.
// Escaped characters are skipped; bracket delimiters nest.
func closingIndex(s string, open, closing byte) int {
	depth := 1
	for i := 1; i < len(s); i++ {
		c := s[i]
		if c == '\\' {
			i++
			continue
		}
		if c == closing {
			depth--
			if depth == 0 {
				return i
			}
			continue
		}
		if open != closing && c == open {
			depth++
		}
	}
	return -1
}

// stripExtended drops unescaped whitespace and #-comments outside
// character classes.
func stripExtended(body string) string {
	var b strings.Builder
	inClass := false
	for i := 0; i < len(body); i++ {
		c := body[i]
		switch {
		case c == '\\' && i+1 < len(body):
			i++
			if body[i] == ' ' {
				b.WriteString(`\x20`)
			} else {
				b.WriteByte(c)
				b.WriteByte(body[i])
			}
		case inClass:
			if c == ']' {
				inClass = false
			}
			b.WriteByte(c)
		case c == '[':
			inClass = true
			b.WriteByte(c)
			if i+1 < len(body) && body[i+1] == '^' {
				i++
				b.WriteByte('^')
			}
			// a leading ']' is literal
			if i+1 < len(body) && body[i+1] == ']' {
				i++
				b.WriteByte(']')
			}
		case c == '#':
			for i+1 < len(body) && body[i+1] != '\n' {
				i++
			}
		case c == ' ', c == '\t', c == '\n', c == '\r', c == '\f', c == '\v':
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
