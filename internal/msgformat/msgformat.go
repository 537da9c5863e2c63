// Package msgformat renders the two placeholder dialects used by message
// templates: sequential "{}" slots for business errors and indexed "{0}" slots
// for catalog entries.
package msgformat

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	placeholder = "{}"
	escapeChar  = '\\'
	quoteChar   = '\''
	nilText     = "null"
)

// Sequential substitutes each "{}" in template with the next argument.
// Substitution runs over the shorter of the two sequences: surplus
// placeholders stay literal and surplus arguments are dropped. A placeholder
// written as `\{}` is emitted literally and `\\{}` emits a single backslash
// followed by the argument.
func Sequential(template string, args ...any) string {
	if template == "" || len(args) == 0 {
		return template
	}

	var b strings.Builder
	b.Grow(len(template) + len(args)*8)

	handled := 0
	for argIndex := 0; argIndex < len(args); argIndex++ {
		rel := strings.Index(template[handled:], placeholder)
		if rel < 0 {
			break
		}
		idx := handled + rel

		if idx > 0 && template[idx-1] == escapeChar {
			if idx > 1 && template[idx-2] == escapeChar {
				b.WriteString(template[handled : idx-1])
				b.WriteString(Stringify(args[argIndex]))
				handled = idx + len(placeholder)
				continue
			}

			// escaped slot does not consume an argument
			argIndex--
			b.WriteString(template[handled : idx-1])
			b.WriteString(placeholder)
			handled = idx + len(placeholder)
			continue
		}

		b.WriteString(template[handled:idx])
		b.WriteString(Stringify(args[argIndex]))
		handled = idx + len(placeholder)
	}

	b.WriteString(template[handled:])
	return b.String()
}

// Indexed substitutes "{n}" slots with args[n]. Slots pointing past the end of
// args are left untouched. Text between single quotes is literal and a doubled
// quote renders one quote. A format suffix such as "{0,number}" is accepted
// and ignored.
func Indexed(template string, args ...any) string {
	if len(args) == 0 {
		return template
	}

	var b strings.Builder
	b.Grow(len(template) + len(args)*8)

	inQuote := false
	for i := 0; i < len(template); i++ {
		c := template[i]

		if c == quoteChar {
			if i+1 < len(template) && template[i+1] == quoteChar {
				b.WriteByte(quoteChar)
				i++
				continue
			}
			inQuote = !inQuote
			continue
		}

		if inQuote || c != '{' {
			b.WriteByte(c)
			continue
		}

		end := strings.IndexByte(template[i:], '}')
		if end < 0 {
			b.WriteString(template[i:])
			break
		}
		end += i

		slot := template[i+1 : end]
		if comma := strings.IndexByte(slot, ','); comma >= 0 {
			slot = slot[:comma]
		}

		n, err := strconv.Atoi(strings.TrimSpace(slot))
		if err != nil || n < 0 || n >= len(args) {
			b.WriteString(template[i : end+1])
		} else {
			b.WriteString(Stringify(args[n]))
		}
		i = end
	}

	return b.String()
}

// Stringify renders a template argument. Nil renders as "null".
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return nilText
	case string:
		return t
	case []byte:
		return string(t)
	default:
		return fmt.Sprint(v)
	}
}
