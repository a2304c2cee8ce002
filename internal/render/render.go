// Package render turns JSON values into syntax-tagged HTML markup.
package render

import (
	"html"
	"strings"

	"github.com/ezlaw/ezlaw/internal/jsonvalue"
)

// CSS classes attached to each token.
const (
	ClassNull        = "json-null"
	ClassBoolean     = "json-boolean"
	ClassNumber      = "json-number"
	ClassString      = "json-string"
	ClassKey         = "json-key"
	ClassPunctuation = "json-punctuation"
)

const indentUnit = "  "

// task is either literal markup or a value to expand at a nesting level.
type task struct {
	markup string
	value  *jsonvalue.Value
	level  int
}

// Render returns the markup for v. Scalars and empty containers render on
// one line; non-empty containers put each child on its own line, indented
// two spaces per nesting level.
func Render(v jsonvalue.Value) string {
	var b strings.Builder
	stack := []task{{value: &v}}

	for len(stack) > 0 {
		t := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if t.value == nil {
			b.WriteString(t.markup)
			continue
		}
		cur := t.value

		switch cur.Kind() {
		case jsonvalue.Null:
			b.WriteString(span(ClassNull, "null"))
		case jsonvalue.Bool:
			lit := "false"
			if cur.Bool() {
				lit = "true"
			}
			b.WriteString(span(ClassBoolean, lit))
		case jsonvalue.Number:
			b.WriteString(span(ClassNumber, html.EscapeString(cur.Number().String())))
		case jsonvalue.String:
			b.WriteString(span(ClassString, quoted(cur.Str())))
		case jsonvalue.Array:
			items := cur.Items()
			if len(items) == 0 {
				b.WriteString(span(ClassPunctuation, "[]"))
				continue
			}
			b.WriteString(span(ClassPunctuation, "[") + "\n")
			stack = pushChildren(stack, t.level, len(items), func(i int) []task {
				return []task{{value: &items[i], level: t.level + 1}}
			}, "]")
		case jsonvalue.Object:
			members := cur.Members()
			if len(members) == 0 {
				b.WriteString(span(ClassPunctuation, "{}"))
				continue
			}
			b.WriteString(span(ClassPunctuation, "{") + "\n")
			stack = pushChildren(stack, t.level, len(members), func(i int) []task {
				return []task{
					{markup: span(ClassKey, quoted(members[i].Key)) + span(ClassPunctuation, ": ")},
					{value: &members[i].Value, level: t.level + 1},
				}
			}, "}")
		}
	}
	return b.String()
}

// pushChildren schedules n children of a container at level followed by the
// closing delimiter. Tasks are pushed in reverse so they pop in order.
func pushChildren(stack []task, level, n int, child func(i int) []task, closing string) []task {
	prefix := strings.Repeat(indentUnit, level)

	stack = append(stack, task{markup: prefix + span(ClassPunctuation, closing)})
	for i := n - 1; i >= 0; i-- {
		tail := "\n"
		if i < n-1 {
			tail = span(ClassPunctuation, ",") + "\n"
		}
		stack = append(stack, task{markup: tail})

		parts := child(i)
		for j := len(parts) - 1; j >= 0; j-- {
			stack = append(stack, parts[j])
		}
		stack = append(stack, task{markup: prefix + indentUnit})
	}
	return stack
}

func span(class, body string) string {
	return `<span class="` + class + `">` + body + `</span>`
}

// quoted renders s as a JSON string literal, then escapes it for HTML so
// that nothing in s can open a tag or an attribute.
func quoted(s string) string {
	lit, err := jsonvalue.Quote(s)
	if err != nil {
		// Quote only fails on writer errors, which a bytes.Buffer never returns.
		lit = `"` + s + `"`
	}
	return html.EscapeString(lit)
}
