// Package jsonpp implements the JSON serialization pretty-print options
// spec.md §6 names: {off, indent_2, indent_2_one_line_array}. The low-level
// float/string appenders are adapted from the teacher's jsonenc package
// (allocation-free strconv.AppendFloat + a fast-path string escaper).
package jsonpp

import (
	"math"
	"strconv"
	"unicode/utf8"
)

// Mode selects the pretty-print style spec.md §6 enumerates.
type Mode int

const (
	// Off emits compact JSON with no insignificant whitespace.
	Off Mode = iota
	// Indent2 emits two-space indented JSON, arrays included.
	Indent2
	// Indent2OneLineArray indents objects but keeps every array on one line.
	Indent2OneLineArray
)

// Field is one key/value pair of an object being encoded. Value may be any
// of: float64, int, string, bool, nil, []Field (nested object), or []any
// (array of encodable values).
type Field struct {
	Key   string
	Value any
}

// AppendObject appends an object built from fields to dst, using the given
// pretty-print Mode.
func AppendObject(dst []byte, mode Mode, fields []Field) []byte {
	return appendObject(dst, mode, 0, fields)
}

func appendObject(dst []byte, mode Mode, depth int, fields []Field) []byte {
	dst = append(dst, '{')
	for i, f := range fields {
		if i > 0 {
			dst = append(dst, ',')
		}
		dst = newline(dst, mode, depth+1)
		dst = AppendString(dst, f.Key)
		dst = append(dst, ':')
		if mode != Off {
			dst = append(dst, ' ')
		}
		dst = appendValue(dst, mode, depth+1, f.Value)
	}
	if len(fields) > 0 {
		dst = newline(dst, mode, depth)
	}
	return append(dst, '}')
}

func appendValue(dst []byte, mode Mode, depth int, v any) []byte {
	switch t := v.(type) {
	case nil:
		return append(dst, "null"...)
	case bool:
		if t {
			return append(dst, "true"...)
		}
		return append(dst, "false"...)
	case string:
		return AppendString(dst, t)
	case float64:
		return AppendFloat64(dst, t)
	case float32:
		return AppendFloat32(dst, t)
	case int:
		return strconv.AppendInt(dst, int64(t), 10)
	case int64:
		return strconv.AppendInt(dst, t, 10)
	case uint32:
		return strconv.AppendUint(dst, uint64(t), 10)
	case []Field:
		return appendObject(dst, mode, depth, t)
	case []any:
		return appendArray(dst, mode, depth, t)
	default:
		return append(dst, "null"...)
	}
}

func appendArray(dst []byte, mode Mode, depth int, items []any) []byte {
	arrayMode := mode
	if mode == Indent2OneLineArray {
		arrayMode = Off
	}
	dst = append(dst, '[')
	for i, item := range items {
		if i > 0 {
			dst = append(dst, ',')
			if arrayMode != Off {
				dst = append(dst, ' ')
			}
		}
		dst = newline(dst, arrayMode, depth+1)
		dst = appendValue(dst, arrayMode, depth+1, item)
	}
	if len(items) > 0 {
		dst = newline(dst, arrayMode, depth)
	}
	return append(dst, ']')
}

func newline(dst []byte, mode Mode, depth int) []byte {
	if mode == Off {
		return dst
	}
	dst = append(dst, '\n')
	for i := 0; i < depth; i++ {
		dst = append(dst, ' ', ' ')
	}
	return dst
}

// AppendFloat64 appends val as a JSON number, falling back to a quoted
// sentinel for NaN/Inf (which JSON numbers cannot represent), matching
// jsonenc.AppendFloat64's convention.
func AppendFloat64(dst []byte, val float64) []byte { return appendFloat(dst, val, 64) }

// AppendFloat32 is AppendFloat64 for the narrower type.
func AppendFloat32(dst []byte, val float32) []byte { return appendFloat(dst, float64(val), 32) }

func appendFloat(dst []byte, val float64, bitSize int) []byte {
	switch {
	case math.IsNaN(val):
		return append(dst, `"NaN"`...)
	case math.IsInf(val, 1):
		return append(dst, `"Infinity"`...)
	case math.IsInf(val, -1):
		return append(dst, `"-Infinity"`...)
	}
	format := byte('f')
	if abs := math.Abs(val); abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}
	dst = strconv.AppendFloat(dst, val, format, -1, bitSize)
	if format == 'e' {
		n := len(dst)
		if n >= 4 && dst[n-4] == 'e' && dst[n-3] == '-' && dst[n-2] == '0' {
			dst[n-2] = dst[n-1]
			dst = dst[:n-1]
		}
	}
	return dst
}

const hexDigits = "0123456789abcdef"

var noEscape = func() (t [256]bool) {
	for i := 0; i <= 0x7e; i++ {
		t[i] = i >= 0x20 && i != '\\' && i != '"'
	}
	return
}()

// AppendString appends s to dst as a quoted, escaped JSON string, using the
// fast no-escape-table check from jsonenc.AppendString before falling back
// to per-rune escaping.
func AppendString(dst []byte, s string) []byte {
	dst = append(dst, '"')
	for i := 0; i < len(s); i++ {
		if !noEscape[s[i]] {
			return appendStringSlow(dst, s, i)
		}
	}
	return append(append(dst, s...), '"')
}

func appendStringSlow(dst []byte, s string, start int) []byte {
	dst = append(dst, s[:start]...)
	for i := start; i < len(s); {
		c := s[i]
		if c < utf8.RuneSelf {
			switch c {
			case '"', '\\':
				dst = append(dst, '\\', c)
			case '\n':
				dst = append(dst, '\\', 'n')
			case '\r':
				dst = append(dst, '\\', 'r')
			case '\t':
				dst = append(dst, '\\', 't')
			default:
				if c < 0x20 {
					dst = append(dst, '\\', 'u', '0', '0', hexDigits[c>>4], hexDigits[c&0xf])
				} else {
					dst = append(dst, c)
				}
			}
			i++
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			dst = append(dst, '\\', 'u', 'f', 'f', 'f', 'd')
			i++
			continue
		}
		dst = append(dst, s[i:i+size]...)
		i += size
	}
	return append(dst, '"')
}
