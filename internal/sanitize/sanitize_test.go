package sanitize

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestStripTags(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "Lunch Menu", "Lunch Menu"},
		{"bold", "<b>Lunch</b> Menu", "Lunch Menu"},
		{"script body dropped", "Menu<script>alert(1)</script>", "Menu"},
		{"entities decoded", "Fish &amp; Chips", "Fish & Chips"},
		{"escaped markup", "&lt;i&gt;x&lt;/i&gt;", "ix/i"},
		{"stray bracket", "a < b > c", "a  b  c"},
		{"whitespace kept", "  <p>Menu</p>  ", "  Menu  "},
		{"invalid utf8 dropped", "\xff<b>bad</b>", "bad"},
		{"invalid utf8 inside text", "Caf\xe9 <i>menu</i>", "Caf menu"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripTags(tt.input))
		})
	}
}

func TestStripTagsReturnsValidUTF8(t *testing.T) {
	for _, in := range []string{"\xff\xfe", "<b>\xc3</b>", "ok\x80<p>x</p>"} {
		assert.True(t, utf8.ValidString(StripTags(in)), "invalid output for %q", in)
	}
}

func TestStripTagsNeverReturnsMarkup(t *testing.T) {
	inputs := []string{
		"<a href='x'>link</a>",
		"<<script>>alert(1)<</script>>",
		"<img src=x onerror=alert(1)>",
		"<!-- comment --><div>text</div>",
		"&#60;b&#62;bold&#60;/b&#62;",
	}

	for _, in := range inputs {
		out := StripTags(in)
		assert.False(t, strings.ContainsAny(out, "<>"), "markup left in %q -> %q", in, out)
	}
}

func TestFilterPostHTML(t *testing.T) {
	out := FilterPostHTML(`<p class="lead">Fresh <strong>daily</strong>.</p><script>alert(1)</script><a href="https://example.com" onclick="x()">site</a>`)

	assert.Contains(t, out, `<p class="lead">`)
	assert.Contains(t, out, "<strong>daily</strong>")
	assert.Contains(t, out, `href="https://example.com"`)
	assert.NotContains(t, out, "<script")
	assert.NotContains(t, out, "onclick")
	assert.NotContains(t, out, "alert(1)")
}

func TestFilterPostHTMLKeepsAbbrTitle(t *testing.T) {
	out := FilterPostHTML(`<abbr title="Hypertext Markup Language">HTML</abbr>`)
	assert.Equal(t, `<abbr title="Hypertext Markup Language">HTML</abbr>`, out)
}

func TestDescription(t *testing.T) {
	input := `<p>Fresh daily.</p><iframe src="https://evil.example"></iframe><style>p{}</style>`

	t.Run("privileged keeps input", func(t *testing.T) {
		assert.Equal(t, input, Description(input, true))
	})

	t.Run("unprivileged is filtered", func(t *testing.T) {
		out := Description(input, false)
		assert.Equal(t, "<p>Fresh daily.</p>", out)
	})
}
