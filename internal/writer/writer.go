package writer

import (
	"fmt"
	"html"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Store lays out the on-disk archive for one blog: article HTML under
// <cacheDir>/<root>/ and markdown renditions under <outputDir>/<root>/,
// where root is the final path segment of the blog URL.
type Store struct {
	cacheDir string
	mdDir    string
}

// New creates the archive directories for the blog at blogURL.
func New(cacheDir, outputDir, blogURL string) (*Store, error) {
	root := rootName(blogURL)

	s := &Store{
		cacheDir: filepath.Join(cacheDir, root),
		mdDir:    filepath.Join(outputDir, root),
	}

	for _, dir := range []string{s.cacheDir, s.mdDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}
	return s, nil
}

// rootName is the final path segment of the blog URL, the per-blog
// subdirectory name.
func rootName(blogURL string) string {
	name := strings.TrimSuffix(blogURL, "/")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if name == "" {
		name = "blog"
	}
	return name
}

// Slug derives the archive filename for an article URL: the URL path with
// slashes replaced by dashes, carrying an .html extension.
func Slug(articleURL string) string {
	p := ""
	if u, err := url.Parse(articleURL); err == nil {
		p = strings.TrimPrefix(u.Path, "/")
	}
	if p == "" {
		p = "index"
	}

	p = strings.ReplaceAll(p, "/", "-")
	if !strings.HasSuffix(p, ".html") {
		p += ".html"
	}
	return p
}

// CachePath returns the article HTML path for a slug.
func (s *Store) CachePath(slug string) string {
	return filepath.Join(s.cacheDir, slug)
}

// MarkdownPath returns the markdown path for a slug.
func (s *Store) MarkdownPath(slug string) string {
	return filepath.Join(s.mdDir, strings.TrimSuffix(slug, ".html")+".md")
}

// HasCached reports whether the article HTML is already archived.
func (s *Store) HasCached(slug string) bool {
	return fileExists(s.CachePath(slug))
}

// HasMarkdown reports whether the markdown rendition already exists.
func (s *Store) HasMarkdown(slug string) bool {
	return fileExists(s.MarkdownPath(slug))
}

// SaveArticle wraps the extracted post body in a minimal HTML document
// titled after the article and writes it to the cache.
func (s *Store) SaveArticle(slug, title, postHTML string) error {
	doc := WrapDocument(title, postHTML)

	path := s.CachePath(slug)
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// ReadArticle returns the archived HTML for a slug.
func (s *Store) ReadArticle(slug string) (string, error) {
	data, err := os.ReadFile(s.CachePath(slug))
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", s.CachePath(slug), err)
	}
	return string(data), nil
}

// WriteMarkdown writes the markdown rendition for a slug.
func (s *Store) WriteMarkdown(slug, markdown string) error {
	path := s.MarkdownPath(slug)
	if err := os.WriteFile(path, []byte(markdown), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// WrapDocument builds the minimal offline-readable HTML document stored in
// the cache.
func WrapDocument(title, bodyHTML string) string {
	return fmt.Sprintf(
		"<html>\n<head>\n<title>%s</title>\n</head>\n<body>\n%s\n</body>\n</html>\n",
		html.EscapeString(title), bodyHTML,
	)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
