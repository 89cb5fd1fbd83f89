package step

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf16"
)

const magic = "ISO-10303-21"

// Parse reads a STEP physical file from disk
func Parse(filename string) (*File, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return Read(file)
}

// Read parses a STEP physical file from r
func Read(r io.Reader) (*File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	p := &parser{data: data}
	return p.parse()
}

type parser struct {
	data []byte
	pos  int
}

func (p *parser) errorf(format string, args ...any) error {
	line := bytes.Count(p.data[:min(p.pos, len(p.data))], []byte("\n")) + 1
	return fmt.Errorf("line %d: %s", line, fmt.Sprintf(format, args...))
}

func (p *parser) eof() bool {
	return p.pos >= len(p.data)
}

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.data[p.pos]
}

// skipSpace skips whitespace and /* */ comments
func (p *parser) skipSpace() {
	for !p.eof() {
		c := p.data[p.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			p.pos++
		case c == '/' && p.pos+1 < len(p.data) && p.data[p.pos+1] == '*':
			end := bytes.Index(p.data[p.pos+2:], []byte("*/"))
			if end < 0 {
				p.pos = len(p.data)
				return
			}
			p.pos += end + 4
		default:
			return
		}
	}
}

func (p *parser) expect(c byte) error {
	p.skipSpace()
	if p.peek() != c {
		if p.eof() {
			return p.errorf("expected %q, got end of file", c)
		}
		return p.errorf("expected %q, got %q", c, p.peek())
	}
	p.pos++
	return nil
}

func isIdentStart(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || c == '_'
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9') || c == '-'
}

func (p *parser) ident() string {
	start := p.pos
	for !p.eof() && isIdentPart(p.data[p.pos]) {
		p.pos++
	}
	return strings.ToUpper(string(p.data[start:p.pos]))
}

func (p *parser) parse() (*File, error) {
	p.skipSpace()
	if !bytes.HasPrefix(p.data[p.pos:], []byte(magic)) {
		return nil, fmt.Errorf("not a STEP physical file: missing %s header", magic)
	}

	f := newFile()
	section := ""

	for {
		p.skipSpace()
		if p.eof() {
			return nil, p.errorf("unexpected end of file, missing END-%s", magic)
		}

		c := p.peek()
		switch {
		case c == '#':
			if section != "DATA" {
				return nil, p.errorf("entity instance outside DATA section")
			}
			inst, err := p.instance()
			if err != nil {
				return nil, err
			}
			if inst == nil {
				f.Skipped++
				continue
			}
			f.add(inst)

		case isIdentStart(c):
			name := p.ident()
			p.skipSpace()

			if p.peek() == ';' {
				p.pos++
				switch name {
				case magic, "HEADER", "DATA":
					section = name
				case "ENDSEC":
					section = ""
				case "END-" + magic:
					return f, nil
				default:
					return nil, p.errorf("unknown keyword %s", name)
				}
				continue
			}

			// Header entities: FILE_DESCRIPTION, FILE_NAME, FILE_SCHEMA
			if section != "HEADER" {
				return nil, p.errorf("unexpected %s outside HEADER section", name)
			}
			args, err := p.list()
			if err != nil {
				return nil, err
			}
			if err := p.expect(';'); err != nil {
				return nil, err
			}
			if name == "FILE_SCHEMA" && len(args.List) > 0 {
				for _, s := range args.List[0].List {
					if id, ok := s.AsString(); ok {
						f.Schemas = append(f.Schemas, id)
					}
				}
			}

		default:
			return nil, p.errorf("unexpected character %q", c)
		}
	}
}

// instance parses "#id = TYPE(args);". Complex instances "#id = (A()B());"
// are consumed and reported as nil.
func (p *parser) instance() (*Instance, error) {
	p.pos++ // '#'
	start := p.pos
	for !p.eof() && p.data[p.pos] >= '0' && p.data[p.pos] <= '9' {
		p.pos++
	}
	id, err := strconv.Atoi(string(p.data[start:p.pos]))
	if err != nil {
		return nil, p.errorf("invalid instance id: %v", err)
	}

	if err := p.expect('='); err != nil {
		return nil, err
	}
	p.skipSpace()

	if p.peek() == '(' {
		if _, err := p.list(); err != nil {
			return nil, err
		}
		return nil, p.expect(';')
	}

	if !isIdentStart(p.peek()) {
		return nil, p.errorf("expected entity name for #%d", id)
	}
	name := p.ident()

	args, err := p.list()
	if err != nil {
		return nil, fmt.Errorf("#%d %s: %w", id, name, err)
	}
	if err := p.expect(';'); err != nil {
		return nil, err
	}

	return &Instance{ID: id, Type: name, Args: args.List}, nil
}

func (p *parser) list() (Value, error) {
	if err := p.expect('('); err != nil {
		return Value{}, err
	}

	list := Value{Kind: KindList}
	p.skipSpace()
	if p.peek() == ')' {
		p.pos++
		return list, nil
	}

	for {
		p.skipSpace()
		v, err := p.value()
		if err != nil {
			return Value{}, err
		}
		list.List = append(list.List, v)

		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
		case ')':
			p.pos++
			return list, nil
		default:
			// Partial records of a complex instance are not comma separated
			if v.Kind == KindTyped && isIdentStart(p.peek()) {
				continue
			}
			if p.eof() {
				return Value{}, p.errorf("unterminated list")
			}
			return Value{}, p.errorf("expected ',' or ')', got %q", p.peek())
		}
	}
}

func (p *parser) value() (Value, error) {
	c := p.peek()
	switch {
	case c == '$':
		p.pos++
		return Value{Kind: KindNull}, nil

	case c == '*':
		p.pos++
		return Value{Kind: KindDerived}, nil

	case c == '#':
		p.pos++
		start := p.pos
		for !p.eof() && p.data[p.pos] >= '0' && p.data[p.pos] <= '9' {
			p.pos++
		}
		id, err := strconv.Atoi(string(p.data[start:p.pos]))
		if err != nil {
			return Value{}, p.errorf("invalid reference: %v", err)
		}
		return Value{Kind: KindRef, Ref: id}, nil

	case c == '\'':
		s, err := p.str()
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindString, Str: s}, nil

	case c == '.':
		p.pos++
		end := bytes.IndexByte(p.data[p.pos:], '.')
		if end < 0 {
			return Value{}, p.errorf("unterminated enumeration")
		}
		e := string(p.data[p.pos : p.pos+end])
		p.pos += end + 1
		return Value{Kind: KindEnum, Str: strings.ToUpper(e)}, nil

	case c == '"':
		p.pos++
		end := bytes.IndexByte(p.data[p.pos:], '"')
		if end < 0 {
			return Value{}, p.errorf("unterminated binary")
		}
		b := string(p.data[p.pos : p.pos+end])
		p.pos += end + 1
		return Value{Kind: KindBinary, Str: b}, nil

	case c == '(':
		return p.list()

	case c == '-' || c == '+' || (c >= '0' && c <= '9'):
		return p.number()

	case isIdentStart(c):
		name := p.ident()
		args, err := p.list()
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindTyped, Str: name, List: args.List}, nil
	}

	if p.eof() {
		return Value{}, p.errorf("unexpected end of file")
	}
	return Value{}, p.errorf("unexpected character %q", c)
}

func (p *parser) number() (Value, error) {
	start := p.pos
	isReal := false
	for !p.eof() {
		c := p.data[p.pos]
		if c == '.' || c == 'E' || c == 'e' {
			isReal = true
		} else if !(c >= '0' && c <= '9') && c != '-' && c != '+' {
			break
		}
		p.pos++
	}
	text := string(p.data[start:p.pos])

	if isReal {
		// "1." is a valid STEP real
		f, err := strconv.ParseFloat(strings.TrimSuffix(text, "."), 64)
		if err != nil {
			return Value{}, p.errorf("invalid real %q", text)
		}
		return Value{Kind: KindReal, Real: f}, nil
	}

	i, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return Value{}, p.errorf("invalid integer %q", text)
	}
	return Value{Kind: KindInteger, Int: i}, nil
}

// str reads a quoted string; '' is an escaped quote
func (p *parser) str() (string, error) {
	p.pos++ // opening quote
	var sb strings.Builder
	for {
		if p.eof() {
			return "", p.errorf("unterminated string")
		}
		c := p.data[p.pos]
		p.pos++
		if c == '\'' {
			if p.peek() == '\'' {
				sb.WriteByte('\'')
				p.pos++
				continue
			}
			return decodeControl(sb.String()), nil
		}
		sb.WriteByte(c)
	}
}

// decodeControl expands the \X\hh and \X2\hhhh...\X0\ encodings
func decodeControl(s string) string {
	if !strings.Contains(s, `\X`) {
		return s
	}

	var sb strings.Builder
	for i := 0; i < len(s); {
		switch {
		case strings.HasPrefix(s[i:], `\X2\`):
			end := strings.Index(s[i+4:], `\X0\`)
			if end < 0 {
				sb.WriteString(s[i:])
				return sb.String()
			}
			raw, err := hex.DecodeString(s[i+4 : i+4+end])
			if err != nil || len(raw)%2 != 0 {
				sb.WriteString(s[i : i+8+end])
			} else {
				units := make([]uint16, len(raw)/2)
				for j := range units {
					units[j] = uint16(raw[2*j])<<8 | uint16(raw[2*j+1])
				}
				sb.WriteString(string(utf16.Decode(units)))
			}
			i += 8 + end

		case strings.HasPrefix(s[i:], `\X\`) && i+5 <= len(s):
			raw, err := hex.DecodeString(s[i+3 : i+5])
			if err != nil {
				sb.WriteString(s[i : i+5])
			} else {
				sb.WriteRune(rune(raw[0]))
			}
			i += 5

		default:
			sb.WriteByte(s[i])
			i++
		}
	}
	return sb.String()
}
