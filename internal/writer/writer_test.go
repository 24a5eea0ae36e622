package writer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlug(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "path slashes become dashes",
			url:  "https://b.example/2020/01/my-post.html",
			want: "2020-01-my-post.html",
		},
		{
			name: "html suffix added",
			url:  "https://b.example/2020/01/my-post",
			want: "2020-01-my-post.html",
		},
		{
			name: "single segment",
			url:  "https://b.example/about",
			want: "about.html",
		},
		{
			name: "empty path",
			url:  "https://b.example",
			want: "index.html",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slug(tt.url))
		})
	}
}

func TestNewCreatesBlogDirectories(t *testing.T) {
	base := t.TempDir()
	cacheDir := filepath.Join(base, "cache")
	outputDir := filepath.Join(base, "md")

	s, err := New(cacheDir, outputDir, "https://example.blogspot.com/some-blog")
	require.NoError(t, err)

	assert.DirExists(t, filepath.Join(cacheDir, "some-blog"))
	assert.DirExists(t, filepath.Join(outputDir, "some-blog"))
	assert.Equal(t, filepath.Join(cacheDir, "some-blog", "post.html"), s.CachePath("post.html"))
	assert.Equal(t, filepath.Join(outputDir, "some-blog", "post.md"), s.MarkdownPath("post.html"))
}

func TestNewTrailingSlashRoot(t *testing.T) {
	base := t.TempDir()

	_, err := New(filepath.Join(base, "cache"), filepath.Join(base, "md"), "https://example.blogspot.com/some-blog/")
	require.NoError(t, err)

	assert.DirExists(t, filepath.Join(base, "cache", "some-blog"))
}

func TestArticleRoundtrip(t *testing.T) {
	base := t.TempDir()
	s, err := New(filepath.Join(base, "cache"), filepath.Join(base, "md"), "https://b.example/blog")
	require.NoError(t, err)

	const slug = "2020-01-post.html"
	assert.False(t, s.HasCached(slug))

	require.NoError(t, s.SaveArticle(slug, "A Post", "<p>body</p>"))
	assert.True(t, s.HasCached(slug))

	html, err := s.ReadArticle(slug)
	require.NoError(t, err)
	assert.Contains(t, html, "<title>A Post</title>")
	assert.Contains(t, html, "<p>body</p>")

	assert.False(t, s.HasMarkdown(slug))
	require.NoError(t, s.WriteMarkdown(slug, "# A Post\n\nbody"))
	assert.True(t, s.HasMarkdown(slug))

	data, err := os.ReadFile(s.MarkdownPath(slug))
	require.NoError(t, err)
	assert.Equal(t, "# A Post\n\nbody", string(data))
}

func TestWrapDocumentEscapesTitle(t *testing.T) {
	doc := WrapDocument(`Tips & <tricks>`, "<p>x</p>")

	assert.Contains(t, doc, "<title>Tips &amp; &lt;tricks&gt;</title>")
	assert.Contains(t, doc, "<p>x</p>")
}
