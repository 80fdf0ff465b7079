package pdf

import (
	"strconv"
	"strings"
)

// TextFromContentStream pulls the shown text out of a decoded page content
// stream. Literal strings passed to Tj, TJ, ' and " are emitted; text
// positioning operators and ET start a new line. Hex strings are decoded
// only when every byte is printable, since their glyph mapping depends on
// the font.
func TextFromContentStream(stream []byte) string {
	s := &scanner{data: stream}
	var (
		out     strings.Builder
		pending []string
	)
	newline := func() {
		if out.Len() > 0 && !strings.HasSuffix(out.String(), "\n") {
			out.WriteByte('\n')
		}
	}

	for {
		tok, kind := s.next()
		switch kind {
		case tokEOF:
			return collapse(out.String())
		case tokString:
			pending = append(pending, tok)
		case tokArrayEnd:
			// Strings inside a TJ array are kept until the operator arrives.
		case tokNumber:
			// Large negative kerning inside TJ arrays is a word gap.
			if s.depth > 0 && isWordGap(tok) {
				pending = append(pending, " ")
			}
		case tokOperator:
			switch tok {
			case "Tj", "TJ":
				out.WriteString(strings.Join(pending, ""))
			case "'", "\"":
				newline()
				out.WriteString(strings.Join(pending, ""))
			case "Td", "TD", "T*", "ET":
				newline()
			}
			pending = pending[:0]
		}
	}
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokString
	tokNumber
	tokOperator
	tokArrayEnd
)

type scanner struct {
	data  []byte
	pos   int
	depth int
}

func (s *scanner) next() (string, tokenKind) {
	for s.pos < len(s.data) {
		c := s.data[s.pos]
		switch {
		case isSpace(c):
			s.pos++
		case c == '%':
			for s.pos < len(s.data) && s.data[s.pos] != '\n' && s.data[s.pos] != '\r' {
				s.pos++
			}
		case c == '(':
			return s.literal(), tokString
		case c == '<' && s.peek(1) == '<':
			s.pos += 2
		case c == '>' && s.peek(1) == '>':
			s.pos += 2
		case c == '<':
			return s.hex(), tokString
		case c == '[':
			s.depth++
			s.pos++
		case c == ']':
			if s.depth > 0 {
				s.depth--
			}
			s.pos++
			return "", tokArrayEnd
		case c == '/':
			s.pos++
			s.word()
		case c == '-' || c == '+' || c == '.' || (c >= '0' && c <= '9'):
			return s.word(), tokNumber
		default:
			w := s.word()
			if w == "" {
				s.pos++
				continue
			}
			return w, tokOperator
		}
	}
	return "", tokEOF
}

func (s *scanner) peek(off int) byte {
	if s.pos+off < len(s.data) {
		return s.data[s.pos+off]
	}
	return 0
}

func (s *scanner) word() string {
	start := s.pos
	for s.pos < len(s.data) && !isSpace(s.data[s.pos]) && !isDelimiter(s.data[s.pos]) {
		s.pos++
	}
	return string(s.data[start:s.pos])
}

// literal reads a balanced (...) string, resolving escapes.
func (s *scanner) literal() string {
	s.pos++ // (
	var b strings.Builder
	nesting := 1
	for s.pos < len(s.data) {
		c := s.data[s.pos]
		s.pos++
		switch c {
		case '\\':
			if s.pos >= len(s.data) {
				return b.String()
			}
			e := s.data[s.pos]
			s.pos++
			switch e {
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			case 'b', 'f':
			case '\r', '\n':
				// Line continuation.
			default:
				if e >= '0' && e <= '7' {
					v := int(e - '0')
					for i := 0; i < 2 && s.pos < len(s.data) && s.data[s.pos] >= '0' && s.data[s.pos] <= '7'; i++ {
						v = v*8 + int(s.data[s.pos]-'0')
						s.pos++
					}
					b.WriteByte(byte(v))
				} else {
					b.WriteByte(e)
				}
			}
		case '(':
			nesting++
			b.WriteByte(c)
		case ')':
			nesting--
			if nesting == 0 {
				return b.String()
			}
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// hex reads a <...> string. Non-printable results are dropped.
func (s *scanner) hex() string {
	s.pos++ // <
	var digits []byte
	for s.pos < len(s.data) && s.data[s.pos] != '>' {
		if c := s.data[s.pos]; !isSpace(c) {
			digits = append(digits, c)
		}
		s.pos++
	}
	s.pos++ // >
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}

	out := make([]byte, 0, len(digits)/2)
	for i := 0; i < len(digits); i += 2 {
		hi, ok1 := hexVal(digits[i])
		lo, ok2 := hexVal(digits[i+1])
		if !ok1 || !ok2 {
			return ""
		}
		v := hi<<4 | lo
		if v < 0x20 || v > 0x7e {
			return ""
		}
		out = append(out, v)
	}
	return string(out)
}

func hexVal(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// wordGap is the TJ displacement, in thousandths of an em, read as a space.
const wordGap = -200

func isWordGap(num string) bool {
	v, err := strconv.ParseFloat(num, 64)
	return err == nil && v <= wordGap
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == 0
}

func isDelimiter(c byte) bool {
	return strings.IndexByte("()<>[]{}/%", c) >= 0
}

// collapse trims each line and drops empty ones.
func collapse(text string) string {
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			kept = append(kept, l)
		}
	}
	return strings.Join(kept, "\n")
}
