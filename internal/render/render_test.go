package render

import (
	"html"
	"regexp"
	"strings"
	"testing"

	"github.com/ezlaw/ezlaw/internal/jsonvalue"
)

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// plainText strips markup and entity escaping, leaving the JSON literal.
func plainText(markup string) string {
	return html.UnescapeString(tagPattern.ReplaceAllString(markup, ""))
}

func mustParse(t *testing.T, s string) jsonvalue.Value {
	t.Helper()
	v, err := jsonvalue.Parse([]byte(s))
	if err != nil {
		t.Fatalf("Parse(%q): %v", s, err)
	}
	return v
}

func TestRenderScalars(t *testing.T) {
	tests := []struct {
		name string
		in   jsonvalue.Value
		want string
	}{
		{"null", jsonvalue.NullValue(), `<span class="json-null">null</span>`},
		{"true", jsonvalue.BoolValue(true), `<span class="json-boolean">true</span>`},
		{"false", jsonvalue.BoolValue(false), `<span class="json-boolean">false</span>`},
		{"number", jsonvalue.NumberValue(42), `<span class="json-number">42</span>`},
		{"string", jsonvalue.StringValue("hi"), `<span class="json-string">&#34;hi&#34;</span>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Render(tt.in); got != tt.want {
				t.Errorf("Render = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderEmptyContainers(t *testing.T) {
	if got := Render(jsonvalue.ArrayValue()); got != `<span class="json-punctuation">[]</span>` {
		t.Errorf("empty array = %q", got)
	}
	if got := Render(jsonvalue.ObjectValue()); got != `<span class="json-punctuation">{}</span>` {
		t.Errorf("empty object = %q", got)
	}
	for _, v := range []jsonvalue.Value{jsonvalue.ArrayValue(), jsonvalue.ObjectValue()} {
		if strings.Contains(Render(v), "\n") {
			t.Error("empty container must render on one line")
		}
	}
}

func TestRenderNestedLayout(t *testing.T) {
	v := mustParse(t, `{"a":[1,true],"b":{}}`)
	got := plainText(Render(v))
	want := "{\n" +
		"  \"a\": [\n" +
		"    1,\n" +
		"    true\n" +
		"  ],\n" +
		"  \"b\": {}\n" +
		"}"
	if got != want {
		t.Errorf("layout mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestRenderEscapesMarkup(t *testing.T) {
	out := Render(jsonvalue.StringValue("<script>alert('x')</script>"))
	if strings.Contains(out, "<script>") {
		t.Fatalf("rendered output contains a raw script tag: %s", out)
	}
	if strings.Contains(out, "'") {
		t.Errorf("single quote not escaped: %s", out)
	}

	keyed := Render(mustParse(t, `{"<b>&\"":1}`))
	if strings.Contains(keyed, "<b>") {
		t.Errorf("object key not escaped: %s", keyed)
	}
}

func TestRenderRoundTrip(t *testing.T) {
	docs := []string{
		`null`,
		`"quote \" backslash \\ newline \n tab \t <tag> & 'apos'"`,
		`[]`,
		`{}`,
		`[1, -2.5e10, "x", null, false, [], {}]`,
		`{"LegiScan_Dataset_Info":{"session_name":"2025 Regular Session","year_start":2025},
		  "Sample_Files_Included":["bill_1.json","bill_2.json"],
		  "Extracted_Legal_Documents":{"bill_1.json":{"bill":{"title":"A & B <act>","votes":[{"yea":10}]}}}}`,
		`{"unicode":"café ☃","empty":""}`,
	}
	for _, doc := range docs {
		v := mustParse(t, doc)
		back, err := jsonvalue.Parse([]byte(plainText(Render(v))))
		if err != nil {
			t.Errorf("rendered literal for %s does not parse: %v", doc, err)
			continue
		}
		if !jsonvalue.Equal(v, back) {
			t.Errorf("round-trip mismatch for %s", doc)
		}
	}
}

func TestRenderDeepNestingDoesNotRecurse(t *testing.T) {
	const depth = 20000
	v := jsonvalue.NullValue()
	for i := 0; i < depth; i++ {
		v = jsonvalue.ArrayValue(v)
	}
	out := Render(v)
	if got := strings.Count(out, `<span class="json-null">`); got != 1 {
		t.Errorf("expected one null leaf, got %d", got)
	}
	if !strings.HasSuffix(out, `<span class="json-punctuation">]</span>`) {
		t.Error("expected output to close the outer array")
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	v := mustParse(t, `{"z":1,"a":2,"m":[3]}`)
	first := Render(v)
	for i := 0; i < 5; i++ {
		if Render(v) != first {
			t.Fatal("Render output changed between calls")
		}
	}
	text := plainText(first)
	z, a, m := strings.Index(text, `"z"`), strings.Index(text, `"a"`), strings.Index(text, `"m"`)
	if z < 0 || a < 0 || m < 0 {
		t.Fatalf("missing keys in %q", text)
	}
	if !(z < a && a < m) {
		t.Errorf("object keys must keep insertion order, got %q", text)
	}
}

func TestRenderDocument(t *testing.T) {
	out := RenderDocument(jsonvalue.ArrayValue(), "Dataset <1>")
	if !strings.Contains(out, `<pre class="json-display">`) {
		t.Error("missing display block")
	}
	if strings.Contains(out, "<1>") {
		t.Error("title must be escaped")
	}
}
