package rowmap

import (
	"fmt"
	"strings"
)

// parseTextArray reads a PostgreSQL array literal into its elements, nil for
// SQL NULL. Quoting and backslash escapes follow the array output syntax;
// nested arrays never occur because aggregates and multi-enumeration columns
// are one-dimensional.
func parseTextArray(raw any) ([]*string, error) {
	if b, ok := raw.([]byte); ok {
		raw = string(b)
	}
	s, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("%w: array column holds %T", ErrRowDecoding, raw)
	}
	if len(s) < 2 || s[0] != '{' || s[len(s)-1] != '}' {
		return nil, fmt.Errorf("%w: malformed array literal %q", ErrRowDecoding, s)
	}

	body := s[1 : len(s)-1]
	if body == "" {
		return nil, nil
	}

	var (
		out       []*string
		current   strings.Builder
		quoted    bool
		wasQuoted bool
	)
	flush := func() {
		value := current.String()
		if !wasQuoted && value == "NULL" {
			out = append(out, nil)
		} else {
			v := value
			out = append(out, &v)
		}
		current.Reset()
		wasQuoted = false
	}

	for i := 0; i < len(body); i++ {
		ch := body[i]
		if quoted {
			switch ch {
			case '\\':
				i++
				if i < len(body) {
					current.WriteByte(body[i])
				}
			case '"':
				quoted = false
			default:
				current.WriteByte(ch)
			}
			continue
		}

		switch ch {
		case '"':
			quoted = true
			wasQuoted = true
		case ',':
			flush()
		default:
			current.WriteByte(ch)
		}
	}
	flush()

	if quoted {
		return nil, fmt.Errorf("%w: unterminated quote in array literal %q", ErrRowDecoding, s)
	}
	return out, nil
}
