package goquery_test

import (
	"testing"

	"github.com/fwojciec/docchat"
	"github.com/fwojciec/docchat/goquery"
	"github.com/stretchr/testify/assert"
)

func TestDetector_Detect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		html string
		want docchat.Framework
	}{
		{"docusaurus meta", `<head><meta name="generator" content="Docusaurus v3.1.0"></head>`, docchat.FrameworkDocusaurus},
		{"mkdocs meta", `<head><meta name="generator" content="mkdocs-1.5.3, mkdocs-material-9.5"></head>`, docchat.FrameworkMkDocs},
		{"sphinx meta", `<head><meta name="generator" content="Sphinx 7.2.6"></head>`, docchat.FrameworkSphinx},
		{"docusaurus markup", `<body><div id="__docusaurus_skipToContent_fallback"></div></body>`, docchat.FrameworkDocusaurus},
		{"mkdocs markup", `<body data-md-color-scheme="default"></body>`, docchat.FrameworkMkDocs},
		{"read the docs markup", `<body><nav class="wy-nav-side"></nav></body>`, docchat.FrameworkSphinx},
		{"gitbook markup", `<body><aside data-testid="space.sidebar"></aside></body>`, docchat.FrameworkGitBook},
		{"readme markup", `<body><div class="rm-Sidebar"></div></body>`, docchat.FrameworkReadMe},
		{"unknown", `<body><p>Hello</p></body>`, docchat.FrameworkUnknown},
		{"unknown generator falls through to markup", `<head><meta name="generator" content="Hugo 0.120"></head><body><div class="sphinxsidebar"></div></body>`, docchat.FrameworkSphinx},
	}

	d := goquery.NewDetector()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, d.Detect("<html>"+tt.html+"</html>"))
		})
	}
}
