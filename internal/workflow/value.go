package workflow

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// object is a parsed JSON object. Keys enumerate the way a browser
// enumerates them: array-index keys ascending, then the rest in
// insertion order. A repeated key keeps its first position and its
// last value.
type object struct {
	keys   []string
	fields map[string]any
}

func newObject() *object {
	return &object{fields: make(map[string]any)}
}

func (o *object) get(key string) (any, bool) {
	v, ok := o.fields[key]
	return v, ok
}

func (o *object) set(key string, v any) {
	if _, ok := o.fields[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.fields[key] = v
}

func (o *object) orderedKeys() []string {
	var index, named []string
	for _, k := range o.keys {
		if isArrayIndex(k) {
			index = append(index, k)
		} else {
			named = append(named, k)
		}
	}
	sort.Slice(index, func(i, j int) bool {
		a, _ := strconv.ParseUint(index[i], 10, 64)
		b, _ := strconv.ParseUint(index[j], 10, 64)
		return a < b
	})
	return append(index, named...)
}

func isArrayIndex(k string) bool {
	if k == "" || len(k) > 10 || (k != "0" && k[0] == '0') {
		return false
	}
	n, err := strconv.ParseUint(k, 10, 64)
	return err == nil && n < math.MaxUint32
}

// parseValue turns a gjson node into nil, bool, float64, string, []any or *object
func parseValue(r gjson.Result) any {
	switch r.Type {
	case gjson.False:
		return false
	case gjson.True:
		return true
	case gjson.Number:
		return r.Num
	case gjson.String:
		return r.Str
	case gjson.JSON:
		if r.IsArray() {
			items := []any{}
			r.ForEach(func(_, item gjson.Result) bool {
				items = append(items, parseValue(item))
				return true
			})
			return items
		}
		obj := newObject()
		r.ForEach(func(key, value gjson.Result) bool {
			obj.set(key.Str, parseValue(value))
			return true
		})
		return obj
	}
	return nil
}

// lookup follows object keys; anything that is not an object ends the walk
func lookup(v any, path ...string) (any, bool) {
	for _, key := range path {
		obj, ok := v.(*object)
		if !ok {
			return nil, false
		}
		if v, ok = obj.get(key); !ok {
			return nil, false
		}
	}
	return v, true
}

func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case float64:
		return x != 0 && !math.IsNaN(x)
	case string:
		return x != ""
	}
	return true
}

// stringify serializes v as JSON. An empty indent gives the compact form.
func stringify(v any, indent string) string {
	var b strings.Builder
	writeValue(&b, v, indent, "")
	return b.String()
}

func writeValue(b *strings.Builder, v any, indent, prefix string) {
	switch x := v.(type) {
	case nil:
		b.WriteString("null")
	case bool:
		b.WriteString(strconv.FormatBool(x))
	case float64:
		if math.IsInf(x, 0) || math.IsNaN(x) {
			b.WriteString("null")
			return
		}
		b.WriteString(formatNumber(x))
	case string:
		writeQuoted(b, x)
	case []any:
		if len(x) == 0 {
			b.WriteString("[]")
			return
		}
		inner := prefix + indent
		b.WriteByte('[')
		for i, item := range x {
			if i > 0 {
				b.WriteByte(',')
			}
			newline(b, indent, inner)
			writeValue(b, item, indent, inner)
		}
		newline(b, indent, prefix)
		b.WriteByte(']')
	case *object:
		keys := x.orderedKeys()
		if len(keys) == 0 {
			b.WriteString("{}")
			return
		}
		inner := prefix + indent
		b.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				b.WriteByte(',')
			}
			newline(b, indent, inner)
			writeQuoted(b, k)
			b.WriteByte(':')
			if indent != "" {
				b.WriteByte(' ')
			}
			writeValue(b, x.fields[k], indent, inner)
		}
		newline(b, indent, prefix)
		b.WriteByte('}')
	}
}

func newline(b *strings.Builder, indent, prefix string) {
	if indent == "" {
		return
	}
	b.WriteByte('\n')
	b.WriteString(prefix)
}

const hexDigits = "0123456789abcdef"

// writeQuoted escapes only what JSON requires: quotes, backslashes and
// control characters. Everything else, including U+2028 and U+2029, is
// written as is.
func writeQuoted(b *strings.Builder, s string) {
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 {
				b.WriteString(`\u00`)
				b.WriteByte(hexDigits[r>>4])
				b.WriteByte(hexDigits[r&0xf])
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
}

// formatNumber prints the shortest round-trip form, switching to
// exponent notation outside [1e-6, 1e21) like Number.prototype.toString.
func formatNumber(f float64) string {
	if f == 0 {
		return "0"
	}
	if abs := math.Abs(f); abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	mantissa, exp, _ := strings.Cut(strconv.FormatFloat(f, 'e', -1, 64), "e")
	return mantissa + "e" + exp[:1] + strings.TrimLeft(exp[1:], "0")
}

// displayString is the text a value becomes inside a template string
func displayString(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(x)
	case float64:
		switch {
		case math.IsNaN(x):
			return "NaN"
		case math.IsInf(x, 1):
			return "Infinity"
		case math.IsInf(x, -1):
			return "-Infinity"
		}
		return formatNumber(x)
	case string:
		return x
	case []any:
		parts := make([]string, len(x))
		for i, item := range x {
			if item != nil {
				parts[i] = displayString(item)
			}
		}
		return strings.Join(parts, ",")
	}
	return "[object Object]"
}
