package render

import (
	"html"
	"strings"

	"github.com/ezlaw/ezlaw/internal/jsonvalue"
)

// RenderDocument wraps the markup for v in a titled display block.
func RenderDocument(v jsonvalue.Value, title string) string {
	var b strings.Builder
	b.WriteString(`<div class="json-document">`)
	if title != "" {
		b.WriteString(`<div class="json-filename">`)
		b.WriteString(html.EscapeString(title))
		b.WriteString(`</div>`)
	}
	b.WriteString(`<pre class="json-display">`)
	b.WriteString(Render(v))
	b.WriteString(`</pre></div>`)
	return b.String()
}
