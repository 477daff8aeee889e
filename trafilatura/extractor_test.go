package trafilatura_test

import (
	"testing"

	"github.com/fwojciec/docchat"
	"github.com/fwojciec/docchat/trafilatura"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const docsPage = `<!DOCTYPE html>
<html>
<head><title>Sources Overview | Segment Documentation</title></head>
<body>
<nav><a href="/docs/">Home</a><a href="/docs/connections/">Connections</a></nav>
<article>
<h1>Sources Overview</h1>
<p>Sources send data into Segment. A source is a website, server library, mobile SDK, or cloud application that can send data into Segment.</p>
<p>Segment supports several ways to implement tracking. The most common is to use the Analytics.js library on your website.</p>
<pre><code>analytics.track("Order Completed", { revenue: 42 });</code></pre>
</article>
<footer>Copyright Segment Inc.</footer>
</body>
</html>`

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("keeps main content", func(t *testing.T) {
		t.Parallel()

		result, err := trafilatura.NewExtractor().Extract(docsPage)

		require.NoError(t, err)
		assert.NotEmpty(t, result.Title)
		content := result.ContentHTML + result.Text
		assert.Contains(t, content, "Sources send data into Segment")
		assert.NotContains(t, content, "Copyright Segment Inc.")
	})

	t.Run("rejects empty input", func(t *testing.T) {
		t.Parallel()

		_, err := trafilatura.NewExtractor().Extract("  ")

		assert.Equal(t, docchat.EINVALID, docchat.ErrorCode(err))
	})
}
