package runtime

import (
	"fmt"
	"strconv"
	"strings"
)

// formatSpec is a parsed string-interpolation format specifier, e.g. the
// "05d" in `$"{n:05d}"` (spec.md §4.B, grounded on runtime_string_format.c's
// hand-rolled spec scanner). Rather than re-implement that scanner's
// character-by-character width/precision accumulation, this package parses
// the same surface grammar and then hands off to fmt's verb machinery,
// which already implements identical width/zero-pad/left-align/precision
// semantics for every verb the Language's format chars need.
type formatSpec struct {
	leftAlign    bool
	zeroPad      bool
	width        int
	hasPrecision bool
	precision    int
	typ          byte // 'd','x','X','o','b','f','e','E','g','G','%','s', or 0 for "use the default"
}

func parseFormatSpec(spec string) formatSpec {
	var fs formatSpec
	i := 0
	n := len(spec)
	for i < n && (spec[i] == '-' || spec[i] == '0') {
		if spec[i] == '-' {
			fs.leftAlign = true
		} else {
			fs.zeroPad = true
		}
		i++
	}
	start := i
	for i < n && spec[i] >= '0' && spec[i] <= '9' {
		i++
	}
	if i > start {
		fs.width, _ = strconv.Atoi(spec[start:i])
	}
	if i < n && spec[i] == '.' {
		i++
		start = i
		for i < n && spec[i] >= '0' && spec[i] <= '9' {
			i++
		}
		fs.hasPrecision = true
		if i > start {
			fs.precision, _ = strconv.Atoi(spec[start:i])
		}
	}
	if i < n {
		fs.typ = spec[i]
	}
	return fs
}

// verb builds the fmt verb string (e.g. "%05d", "%-10.2f") this spec maps
// to, given a default type character for when the spec omitted one.
func (fs formatSpec) verb(defaultTyp byte) string {
	var b strings.Builder
	b.WriteByte('%')
	if fs.leftAlign {
		b.WriteByte('-')
	}
	if fs.zeroPad && !fs.leftAlign {
		b.WriteByte('0')
	}
	if fs.width > 0 {
		fmt.Fprintf(&b, "%d", fs.width)
	}
	if fs.hasPrecision {
		fmt.Fprintf(&b, ".%d", fs.precision)
	}
	typ := fs.typ
	if typ == 0 {
		typ = defaultTyp
	}
	b.WriteByte(typ)
	return b.String()
}

// FormatLong renders an integral value per spec (rt_format_long): d/x/X/o/b
// with width, zero-pad, and left-align; an empty or unrecognized type char
// falls back to plain decimal.
func FormatLong(v int64, spec string) string {
	fs := parseFormatSpec(spec)
	switch fs.typ {
	case 'd', 'x', 'X', 'o', 'b':
		return fmt.Sprintf(fs.verb(fs.typ), v)
	default:
		return fmt.Sprintf(fs.verb('d'), v)
	}
}

// FormatDouble renders a floating-point value per spec (rt_format_double):
// f/e/E/g/G with the usual precision default of 6 for f/e/E, plus a `%`
// type char that multiplies by 100 and appends a literal percent sign.
func FormatDouble(v float64, spec string) string {
	fs := parseFormatSpec(spec)
	if fs.typ == '%' {
		if !fs.hasPrecision {
			fs.hasPrecision = true
			fs.precision = 6
		}
		fs.typ = 'f'
		return fmt.Sprintf(fs.verb('f'), v*100) + "%"
	}
	switch fs.typ {
	case 'f', 'e', 'E', 'g', 'G':
		if (fs.typ == 'f' || fs.typ == 'e' || fs.typ == 'E') && !fs.hasPrecision {
			fs.hasPrecision = true
			fs.precision = 6
		}
		return fmt.Sprintf(fs.verb(fs.typ), v)
	default:
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
}

// FormatString renders a string value per spec (rt_format_string): width
// pads (left-aligned with a trailing `-`), and precision truncates to at
// most that many bytes — the "maxlen truncation for strings" rule.
func FormatString(v string, spec string) string {
	fs := parseFormatSpec(spec)
	if fs.hasPrecision && fs.precision < len(v) {
		v = v[:fs.precision]
	}
	if fs.width > len(v) {
		pad := strings.Repeat(" ", fs.width-len(v))
		if fs.leftAlign {
			return v + pad
		}
		return pad + v
	}
	return v
}
