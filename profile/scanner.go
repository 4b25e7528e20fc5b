package profile

import (
	"fmt"
	"strconv"

	"github.com/vmtrace/cpuprof/errs"
)

// scanner is a minimal incremental JSON reader over a single byte buffer.
//
// It exists because the decoder must hand out value spans that alias the
// input buffer (zero copy for the opaque payloads) and the encoder must
// reproduce input bytes exactly; a buffering deserializer can do neither.
type scanner struct {
	data []byte
	pos  int
}

func newScanner(data []byte) *scanner {
	return &scanner{data: data}
}

func (s *scanner) errf(format string, args ...any) error {
	return fmt.Errorf("%w: offset %d: %s", errs.ErrInvalidDocument, s.pos, fmt.Sprintf(format, args...))
}

func (s *scanner) skipSpace() {
	for s.pos < len(s.data) {
		switch s.data[s.pos] {
		case ' ', '\t', '\n', '\r':
			s.pos++
		default:
			return
		}
	}
}

// peek returns the next non-space byte without consuming it.
func (s *scanner) peek() (byte, error) {
	s.skipSpace()
	if s.pos >= len(s.data) {
		return 0, s.errf("unexpected end of input")
	}

	return s.data[s.pos], nil
}

func (s *scanner) expect(c byte) error {
	b, err := s.peek()
	if err != nil {
		return err
	}
	if b != c {
		return s.errf("expected %q, found %q", c, b)
	}
	s.pos++

	return nil
}

// end verifies nothing but whitespace remains after the top-level value.
func (s *scanner) end() error {
	s.skipSpace()
	if s.pos != len(s.data) {
		return s.errf("trailing data after document")
	}

	return nil
}

// readString consumes a string literal and returns its raw (still escaped)
// content without the surrounding quotes.
func (s *scanner) readString() ([]byte, error) {
	if err := s.expect('"'); err != nil {
		return nil, err
	}

	start := s.pos
	for s.pos < len(s.data) {
		switch s.data[s.pos] {
		case '\\':
			s.pos += 2
		case '"':
			str := s.data[start:s.pos]
			s.pos++

			return str, nil
		default:
			s.pos++
		}
	}

	return nil, s.errf("unterminated string")
}

func isNumberByte(c byte) bool {
	return (c >= '0' && c <= '9') || c == '-' || c == '+' || c == '.' || c == 'e' || c == 'E'
}

func (s *scanner) numberToken() ([]byte, error) {
	s.skipSpace()
	start := s.pos
	for s.pos < len(s.data) && isNumberByte(s.data[s.pos]) {
		s.pos++
	}
	if s.pos == start {
		return nil, s.errf("expected number")
	}

	return s.data[start:s.pos], nil
}

func (s *scanner) readUint64() (uint64, error) {
	tok, err := s.numberToken()
	if err != nil {
		return 0, err
	}

	v, err := strconv.ParseUint(string(tok), 10, 64)
	if err != nil {
		return 0, s.errf("invalid unsigned integer %q", tok)
	}

	return v, nil
}

func (s *scanner) readUint32() (uint32, error) {
	tok, err := s.numberToken()
	if err != nil {
		return 0, err
	}

	v, err := strconv.ParseUint(string(tok), 10, 32)
	if err != nil {
		return 0, s.errf("invalid unsigned integer %q", tok)
	}

	return uint32(v), nil
}

func (s *scanner) readInt64() (int64, error) {
	tok, err := s.numberToken()
	if err != nil {
		return 0, err
	}

	v, err := strconv.ParseInt(string(tok), 10, 64)
	if err != nil {
		return 0, s.errf("invalid integer %q", tok)
	}

	return v, nil
}

// eachMember iterates the members of a JSON object. The callback receives the
// raw key bytes and must consume exactly one value from the scanner.
func (s *scanner) eachMember(fn func(key []byte) error) error {
	if err := s.expect('{'); err != nil {
		return err
	}

	b, err := s.peek()
	if err != nil {
		return err
	}
	if b == '}' {
		s.pos++

		return nil
	}

	for {
		key, err := s.readString()
		if err != nil {
			return err
		}
		if err := s.expect(':'); err != nil {
			return err
		}
		if err := fn(key); err != nil {
			return err
		}

		b, err := s.peek()
		if err != nil {
			return err
		}
		switch b {
		case ',':
			s.pos++
		case '}':
			s.pos++

			return nil
		default:
			return s.errf("expected ',' or '}' in object, found %q", b)
		}
	}
}

// eachElement iterates the elements of a JSON array. The callback receives
// the element index and must consume exactly one value from the scanner.
func (s *scanner) eachElement(fn func(index int) error) error {
	if err := s.expect('['); err != nil {
		return err
	}

	b, err := s.peek()
	if err != nil {
		return err
	}
	if b == ']' {
		s.pos++

		return nil
	}

	for index := 0; ; index++ {
		if err := fn(index); err != nil {
			return err
		}

		b, err := s.peek()
		if err != nil {
			return err
		}
		switch b {
		case ',':
			s.pos++
		case ']':
			s.pos++

			return nil
		default:
			return s.errf("expected ',' or ']' in array, found %q", b)
		}
	}
}

// skipValue consumes one JSON value of any kind and returns the exact bytes
// it occupied. The returned span aliases the scanner's buffer.
func (s *scanner) skipValue() ([]byte, error) {
	b, err := s.peek()
	if err != nil {
		return nil, err
	}

	start := s.pos
	switch b {
	case '"':
		_, err = s.readString()
	case '{', '[':
		err = s.skipComposite()
	case 't':
		err = s.skipLiteral("true")
	case 'f':
		err = s.skipLiteral("false")
	case 'n':
		err = s.skipLiteral("null")
	default:
		_, err = s.numberToken()
	}
	if err != nil {
		return nil, err
	}

	return s.data[start:s.pos], nil
}

// skipComposite consumes a balanced object or array, honoring strings so
// brackets inside them do not count.
func (s *scanner) skipComposite() error {
	depth := 0
	for s.pos < len(s.data) {
		switch s.data[s.pos] {
		case '{', '[':
			depth++
			s.pos++
		case '}', ']':
			depth--
			s.pos++
			if depth == 0 {
				return nil
			}
			if depth < 0 {
				s.pos--

				return s.errf("unbalanced %q", s.data[s.pos])
			}
		case '"':
			if _, err := s.readString(); err != nil {
				return err
			}
		default:
			s.pos++
		}
	}

	return s.errf("unterminated value")
}

func (s *scanner) skipLiteral(lit string) error {
	if len(s.data)-s.pos < len(lit) || string(s.data[s.pos:s.pos+len(lit)]) != lit {
		return s.errf("invalid literal")
	}
	s.pos += len(lit)

	return nil
}
