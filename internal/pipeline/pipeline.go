package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"github.com/charmbracelet/log"

	"github.com/jtorra/blogscrapper/internal/blog"
	"github.com/jtorra/blogscrapper/internal/config"
	"github.com/jtorra/blogscrapper/internal/converter"
	"github.com/jtorra/blogscrapper/internal/fetcher"
	"github.com/jtorra/blogscrapper/internal/writer"
)

type crawl struct {
	cfg      *config.Config
	fetch    *fetcher.Fetcher
	store    *writer.Store
	platform blog.Platform
	counter  int
}

// Run executes the full blogscrapper pipeline: walk the blog's listing pages
// from the start URL, archive every article, and render each one to markdown.
func Run(ctx context.Context, cfg *config.Config) error {
	store, err := writer.New(cfg.CacheDir, cfg.OutputDir, cfg.URL)
	if err != nil {
		return err
	}

	c := &crawl{
		cfg:   cfg,
		fetch: fetcher.New(cfg.UserAgent, cfg.DelaySeconds, !cfg.IgnoreRobots),
		store: store,
	}

	pageURL := cfg.URL
	for pageURL != "" {
		if err := ctx.Err(); err != nil {
			return err
		}

		log.Debug("scraping listing page", "url", pageURL)
		body, err := c.fetch.Fetch(ctx, pageURL)
		if err != nil {
			return fmt.Errorf("listing page: %w", err)
		}

		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("parsing listing page %s: %w", pageURL, err)
		}

		c.autodetect(pageURL, doc)

		var entryErr error
		blog.Entries(c.platform, doc).EachWithBreak(func(_ int, entry *goquery.Selection) bool {
			if ctx.Err() != nil {
				return false
			}
			entryErr = c.scrapeArticle(ctx, pageURL, entry)
			return entryErr == nil
		})
		if entryErr != nil {
			return entryErr
		}

		pageURL = resolveURL(pageURL, blog.NextURL(c.platform, doc))
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	log.Info("crawl finished", "articles", c.counter)
	return nil
}

// autodetect fixes the platform on first contact; it stays sticky for the
// rest of the run.
func (c *crawl) autodetect(pageURL string, doc *goquery.Document) {
	if c.platform != blog.Unknown {
		return
	}
	c.platform = blog.Detect(pageURL, doc)
	if c.platform == blog.Unknown {
		log.Warn("blog platform not recognized, no articles will match", "url", pageURL)
		return
	}
	log.Info("platform detected", "mode", c.platform)
}

// scrapeArticle archives one listing entry and renders it to markdown.
// Fetch and extraction failures are logged and skipped; write failures abort
// the run.
func (c *crawl) scrapeArticle(ctx context.Context, pageURL string, entry *goquery.Selection) error {
	articleURL, title, ok := blog.EntryLink(entry)
	if !ok {
		log.Warn("listing entry without a link, skipping")
		return nil
	}
	articleURL = resolveURL(pageURL, articleURL)

	slug := writer.Slug(articleURL)
	c.counter++
	log.Info("article", "n", fmt.Sprintf("%04d", c.counter), "title", title)
	log.Debug("article paths", "url", articleURL, "slug", slug)

	if c.store.HasCached(slug) {
		log.Info("already archived", "path", c.store.CachePath(slug))
	} else {
		postHTML, ok, err := c.fetchPost(ctx, articleURL)
		if err != nil {
			log.Error("fetching article", "url", articleURL, "err", err)
			return nil
		}
		if !ok {
			log.Warn("post body not found, skipping", "url", articleURL)
			return nil
		}

		if err := c.store.SaveArticle(slug, title, postHTML); err != nil {
			return err
		}
		log.Info("saved", "path", c.store.CachePath(slug))
	}

	return c.markdownify(slug, articleURL)
}

// fetchPost retrieves an article page and isolates its post body, falling
// back to readability extraction when no known selector matches.
func (c *crawl) fetchPost(ctx context.Context, articleURL string) (string, bool, error) {
	body, err := c.fetch.Fetch(ctx, articleURL)
	if err != nil {
		return "", false, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", false, fmt.Errorf("parsing article page: %w", err)
	}

	post, ok := blog.ExtractPost(c.platform, doc, c.cfg.Selector)
	if ok {
		postHTML, err := goquery.OuterHtml(post)
		if err != nil {
			return "", false, err
		}
		return postHTML, true, nil
	}

	log.Debug("no post selector matched, trying readability", "url", articleURL)
	postHTML, err := blog.ReadabilityExtract(string(body), articleURL)
	if err != nil {
		log.Debug("readability extraction failed", "url", articleURL, "err", err)
		return "", false, nil
	}
	return postHTML, postHTML != "", nil
}

// markdownify renders the archived article to markdown unless the rendition
// already exists.
func (c *crawl) markdownify(slug, articleURL string) error {
	if c.store.HasMarkdown(slug) {
		return nil
	}

	articleHTML, err := c.store.ReadArticle(slug)
	if err != nil {
		return err
	}

	md, err := converter.ConvertHTML(articleHTML, articleURL)
	if err != nil {
		log.Error("markdown conversion failed", "slug", slug, "err", err)
		return nil
	}

	if err := c.store.WriteMarkdown(slug, md); err != nil {
		return err
	}
	log.Debug("markdown written", "path", c.store.MarkdownPath(slug))
	return nil
}

// resolveURL makes ref absolute against base. An empty or unparseable ref
// resolves to "".
func resolveURL(base, ref string) string {
	if ref == "" {
		return ""
	}
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	return b.ResolveReference(r).String()
}
