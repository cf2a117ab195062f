// Package jsonenc renders a canonical value.Value as RFC 8259 JSON. It
// hand-writes string and number formatting rather than routing through
// encoding/json's marshaler, because KSON's value model distinguishes
// exact integers from decimals (encoding/json's float64 does not) and
// because KSON additionally escapes U+2028/U+2029 and forward slashes,
// which encoding/json's encoder has no option to do.
package jsonenc

import (
	"strconv"
	"strings"

	"github.com/kson-lang/kson/internal/kson/value"
)

// Options configures JSON rendering.
type Options struct {
	Indent     string // e.g. "  "; empty means compact (no whitespace)
	RetainTags bool   // render embed blocks as {"embedTag":...,"embedContent":...}
}

// Encode renders v as a JSON document per opts.
func Encode(v *value.Value, opts Options) string {
	var b strings.Builder
	encodeValue(&b, v, opts, 0)
	return b.String()
}

func encodeValue(b *strings.Builder, v *value.Value, opts Options, depth int) {
	switch v.Kind {
	case value.KindNull:
		b.WriteString("null")
	case value.KindBoolean:
		if v.Bool {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case value.KindInteger:
		b.WriteString(strconv.FormatInt(v.Int, 10))
	case value.KindDecimal:
		b.WriteString(formatFloat(v.Float))
	case value.KindString:
		encodeString(b, v.Str)
	case value.KindEmbed:
		encodeEmbed(b, v, opts, depth)
	case value.KindList:
		encodeList(b, v, opts, depth)
	case value.KindObject:
		encodeObject(b, v, opts, depth)
	}
}

func encodeList(b *strings.Builder, v *value.Value, opts Options, depth int) {
	if len(v.Items) == 0 {
		b.WriteString("[]")
		return
	}
	b.WriteByte('[')
	for i, item := range v.Items {
		if i > 0 {
			b.WriteByte(',')
		}
		writeNewlineIndent(b, opts, depth+1)
		encodeValue(b, item, opts, depth+1)
	}
	writeNewlineIndent(b, opts, depth)
	b.WriteByte(']')
}

func encodeObject(b *strings.Builder, v *value.Value, opts Options, depth int) {
	keys := v.Props.Keys()
	if len(keys) == 0 {
		b.WriteString("{}")
		return
	}
	b.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		writeNewlineIndent(b, opts, depth+1)
		encodeString(b, k)
		b.WriteByte(':')
		if opts.Indent != "" {
			b.WriteByte(' ')
		}
		child, _ := v.Props.Get(k)
		encodeValue(b, child, opts, depth+1)
	}
	writeNewlineIndent(b, opts, depth)
	b.WriteByte('}')
}

// encodeEmbed renders an embed block. With RetainTags (the lossless
// default), it becomes a two-key object so a consumer can reconstruct
// the original tag; otherwise it degrades to its body as a plain string.
func encodeEmbed(b *strings.Builder, v *value.Value, opts Options, depth int) {
	if !opts.RetainTags {
		encodeString(b, v.Embed.Body)
		return
	}
	b.WriteByte('{')
	writeNewlineIndent(b, opts, depth+1)
	encodeString(b, "embedTag")
	b.WriteByte(':')
	if opts.Indent != "" {
		b.WriteByte(' ')
	}
	encodeString(b, v.Embed.Tag)
	b.WriteByte(',')
	writeNewlineIndent(b, opts, depth+1)
	encodeString(b, "embedContent")
	b.WriteByte(':')
	if opts.Indent != "" {
		b.WriteByte(' ')
	}
	encodeString(b, v.Embed.Body)
	writeNewlineIndent(b, opts, depth)
	b.WriteByte('}')
}

func writeNewlineIndent(b *strings.Builder, opts Options, depth int) {
	if opts.Indent == "" {
		return
	}
	b.WriteByte('\n')
	for i := 0; i < depth; i++ {
		b.WriteString(opts.Indent)
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// encodeString writes a JSON string literal, escaping the quote, the
// backslash and control characters, plus the forward slash and the two line separator
// code points JSON allows raw but many embedding contexts (script tags,
// JSONP) do not.
func encodeString(b *strings.Builder, s string) {
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '/':
			b.WriteString(`\/`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case ' ', ' ':
			b.WriteString(`\u`)
			b.WriteString(hex4(uint16(r)))
		default:
			if r < 0x20 {
				b.WriteString(`\u`)
				b.WriteString(hex4(uint16(r)))
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
}

func hex4(v uint16) string {
	const digits = "0123456789abcdef"
	return string([]byte{
		digits[(v>>12)&0xF],
		digits[(v>>8)&0xF],
		digits[(v>>4)&0xF],
		digits[v&0xF],
	})
}
