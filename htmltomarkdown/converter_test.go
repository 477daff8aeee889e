package htmltomarkdown_test

import (
	"testing"

	"github.com/fwojciec/docchat/htmltomarkdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConverter_Convert(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		html string
		want []string
	}{
		{"headings", `<h1>Sources</h1><h2>Web</h2>`, []string{"# Sources", "## Web"}},
		{"links", `<p>See <a href="https://segment.com/docs/">the docs</a>.</p>`, []string{"[the docs](https://segment.com/docs/)"}},
		{"lists", `<ul><li>Track</li><li>Identify</li></ul>`, []string{"- Track", "- Identify"}},
		{"code blocks", `<pre><code class="language-js">analytics.track()</code></pre>`, []string{"```js", "analytics.track()"}},
		{"tables", `<table><thead><tr><th>Call</th></tr></thead><tbody><tr><td>page</td></tr></tbody></table>`, []string{"| Call |", "| page |"}},
	}

	conv := htmltomarkdown.NewConverter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			md, err := conv.Convert(tt.html)

			require.NoError(t, err)
			for _, want := range tt.want {
				assert.Contains(t, md, want)
			}
		})
	}

	t.Run("blank input gives blank output", func(t *testing.T) {
		t.Parallel()

		md, err := conv.Convert(" \n ")

		require.NoError(t, err)
		assert.Empty(t, md)
	})
}
