package htmltomarkdown_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/dq"
	"github.com/fwojciec/dq/htmltomarkdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConverter_Convert(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		page string
		want []string
	}{
		{
			name: "page heading and anchors",
			page: `<h1 id="fmt">Package fmt</h1><h2 id="Println">func <a href="#Println">Println</a></h2>`,
			want: []string{"# Package fmt", "## func", "[Println](#Println)"},
		},
		{
			name: "links between pages stay relative",
			page: `<p>See <a href="net/http/index#Client">http.Client</a>.</p>`,
			want: []string{"[http.Client](net/http/index#Client)"},
		},
		{
			name: "code block language from data-language",
			page: `<pre data-language="go">if a &lt; b {
	return
}</pre>`,
			want: []string{"```go\n", "if a < b {"},
		},
		{
			name: "code block that already has a code element",
			page: `<pre data-language="js"><code class="language-ts">let x = 1</code></pre>`,
			want: []string{"```ts\n", "let x = 1"},
		},
		{
			name: "parameter table",
			page: `<table><tr><th>Parameter</th><th>Description</th></tr><tr><td><code>sep</code></td><td>separator</td></tr></table>`,
			want: []string{"| Parameter", "Description", "`sep`"},
		},
		{
			name: "page fragment without a root element",
			page: `<p>Package <strong>fmt</strong> implements formatted I/O.</p><p>Second paragraph.</p>`,
			want: []string{"Package **fmt** implements formatted I/O.\n\nSecond paragraph."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			md, err := htmltomarkdown.NewConverter().Convert(tt.page)

			require.NoError(t, err)
			for _, want := range tt.want {
				assert.Contains(t, md, want)
			}
		})
	}
}

func TestConverter_Convert_DocsetPage(t *testing.T) {
	t.Parallel()

	// Given a page body as stored in a docset bundle
	page := `<h1>Array.prototype.map()</h1>
<p>The <code>map()</code> method creates a new array.</p>
<h2 id="syntax">Syntax</h2>
<pre data-language="js">map(callbackFn)</pre>
<h2 id="examples">Examples</h2>
<pre data-language="js">const doubled = [1, 2].map((x) =&gt; x * 2);</pre>`

	// When it is rendered
	md, err := htmltomarkdown.NewConverter().Convert(page)

	// Then the structure survives in reading order
	require.NoError(t, err)
	syntax := strings.Index(md, "## Syntax")
	examples := strings.Index(md, "## Examples")
	require.GreaterOrEqual(t, syntax, 0)
	require.Greater(t, examples, syntax)
	assert.Contains(t, md[syntax:examples], "```js\n")
	assert.Contains(t, md[syntax:examples], "map(callbackFn)")
	assert.Contains(t, md[examples:], "(x) => x * 2")
	assert.NotContains(t, md, "data-language")
}

func TestConverter_Convert_Empty(t *testing.T) {
	t.Parallel()

	for _, page := range []string{"", " \n\t"} {
		_, err := htmltomarkdown.NewConverter().Convert(page)
		assert.Equal(t, dq.EINVALID, dq.ErrorCode(err), "%q", page)
	}
}
