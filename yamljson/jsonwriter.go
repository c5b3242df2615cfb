package yamljson

import "io"

// Escaping table and AppendString adapted from
// https://github.com/goccy/go-json/blob/master/internal/encoder/string.go
// without the unsafe word-at-a-time fast path.

var needEscape = [256]bool{
	'"':  true,
	'\\': true,
	0x00: true,
	0x01: true,
	0x02: true,
	0x03: true,
	0x04: true,
	0x05: true,
	0x06: true,
	0x07: true,
	0x08: true,
	0x09: true,
	0x0a: true,
	0x0b: true,
	0x0c: true,
	0x0d: true,
	0x0e: true,
	0x0f: true,
	0x10: true,
	0x11: true,
	0x12: true,
	0x13: true,
	0x14: true,
	0x15: true,
	0x16: true,
	0x17: true,
	0x18: true,
	0x19: true,
	0x1a: true,
	0x1b: true,
	0x1c: true,
	0x1d: true,
	0x1e: true,
	0x1f: true,
	/* 0x20 - 0xff */
}

const hexDigits = "0123456789abcdef"

// AppendString appends s to buf as a quoted JSON string.
func AppendString(buf []byte, s string) []byte {
	buf = append(buf, '"')
	i, j := 0, 0
	for j < len(s) {
		c := s[j]
		if !needEscape[c] {
			j++
			continue
		}
		buf = append(buf, s[i:j]...)
		switch c {
		case '\\', '"':
			buf = append(buf, '\\', c)
		case '\n':
			buf = append(buf, '\\', 'n')
		case '\r':
			buf = append(buf, '\\', 'r')
		case '\t':
			buf = append(buf, '\\', 't')
		default:
			buf = append(buf, `\u00`...)
			buf = append(buf, hexDigits[c>>4], hexDigits[c&0xF])
		}
		j++
		i = j
	}
	return append(append(buf, s[i:]...), '"')
}

type writeFrame struct {
	inObject bool
	n        int
}

// WriteJSON streams the reader's events to w as a single JSON document,
// never materializing the tree. An empty document is written as null.
func WriteJSON(w io.Writer, r *Reader) error {
	buf := make([]byte, 0, 4096)
	var stack []writeFrame
	wrote := false

	valuePrefix := func() {
		if len(stack) == 0 {
			return
		}
		top := &stack[len(stack)-1]
		if !top.inObject {
			if top.n > 0 {
				buf = append(buf, ',')
			}
			top.n++
		}
	}

	for {
		e, err := r.Next()
		if err != nil {
			return err
		}
		switch e.Kind {
		case End:
			if !wrote {
				buf = append(buf, "null"...)
			}
			_, err := w.Write(buf)
			return err
		case PropertyName:
			top := &stack[len(stack)-1]
			if top.n > 0 {
				buf = append(buf, ',')
			}
			top.n++
			buf = AppendString(buf, e.Value)
			buf = append(buf, ':')
		case String:
			valuePrefix()
			buf = AppendString(buf, e.Value)
		case StartObject:
			valuePrefix()
			buf = append(buf, '{')
			stack = append(stack, writeFrame{inObject: true})
		case StartArray:
			valuePrefix()
			buf = append(buf, '[')
			stack = append(stack, writeFrame{inObject: false})
		case EndObject:
			buf = append(buf, '}')
			stack = stack[:len(stack)-1]
		case EndArray:
			buf = append(buf, ']')
			stack = stack[:len(stack)-1]
		}
		wrote = true
		if len(buf) >= 1<<16 {
			if _, err := w.Write(buf); err != nil {
				return err
			}
			buf = buf[:0]
		}
	}
}
