package readability_test

import (
	"testing"

	"github.com/fwojciec/docchat"
	"github.com/fwojciec/docchat/readability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("returns article and title", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head><title>Audiences | Lytics Docs</title></head>
<body>
<nav><a href="/">Home</a></nav>
<article>
<h1>Audiences</h1>
<p>Audiences are groups of user profiles that share attributes or behaviors. Lytics evaluates audience membership in real time as new events arrive.</p>
<p>You can export audiences to downstream tools such as ad networks and email providers to activate them.</p>
</article>
</body>
</html>`

		result, err := readability.NewExtractor().Extract(html)

		require.NoError(t, err)
		assert.Contains(t, result.Title, "Audiences")
		assert.Contains(t, result.ContentHTML, "groups of user profiles")
		assert.Empty(t, result.Text)
	})

	t.Run("rejects empty input", func(t *testing.T) {
		t.Parallel()

		_, err := readability.NewExtractor().Extract("")

		require.Error(t, err)
		assert.Equal(t, docchat.EINVALID, docchat.ErrorCode(err))
	})
}
