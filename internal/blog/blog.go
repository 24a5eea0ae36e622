package blog

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/giulianopz/go-readability"
)

// Platform identifies the blog engine behind a site. Listing layout,
// pagination links, and post-body markup all depend on it.
type Platform int

const (
	Unknown Platform = iota
	Blogspot
	WordPress
)

func (p Platform) String() string {
	switch p {
	case Blogspot:
		return "blogspot"
	case WordPress:
		return "wordpress"
	}
	return "unknown"
}

// Detect identifies the platform from the listing URL and page markup.
// Blogspot is recognized by a "blogspot" URL or a blogger <link> element,
// WordPress by a "wordpress" URL or a wordpress anchor somewhere on the page.
func Detect(pageURL string, doc *goquery.Document) Platform {
	if strings.Contains(pageURL, "blogspot") || hasLinkHref(doc, "link", "blogger") {
		return Blogspot
	}
	if strings.Contains(pageURL, "wordpress") || hasLinkHref(doc, "a", "wordpress") {
		return WordPress
	}
	return Unknown
}

func hasLinkHref(doc *goquery.Document, tag, substr string) bool {
	found := false
	doc.Find(tag).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if href, ok := s.Attr("href"); ok && strings.Contains(href, substr) {
			found = true
			return false
		}
		return true
	})
	return found
}

// Entries returns the article entries on a listing page.
func Entries(p Platform, doc *goquery.Document) *goquery.Selection {
	switch p {
	case Blogspot:
		return doc.Find("h3.post-title, h3.entry-title")
	case WordPress:
		entries := doc.Find("article")
		if entries.Length() == 0 {
			entries = doc.Find("div.post, div.type-post, div.item.entry")
		}
		return entries
	}
	return doc.Selection.Slice(0, 0)
}

// EntryLink returns the article URL and title for a listing entry, taken from
// the entry's first anchor. The title attribute wins over the link text, and
// a trailing slash on the URL is trimmed.
func EntryLink(entry *goquery.Selection) (articleURL, title string, ok bool) {
	link := entry.Find("a").First()
	if link.Length() == 0 {
		return "", "", false
	}

	articleURL = strings.TrimSuffix(link.AttrOr("href", ""), "/")
	if articleURL == "" {
		return "", "", false
	}

	title = link.AttrOr("title", "")
	if title == "" {
		title = link.Text()
	}
	return articleURL, strings.TrimSpace(title), true
}

// NextURL returns the next (older) listing page URL, or "" when the crawl has
// reached the last page.
func NextURL(p Platform, doc *goquery.Document) string {
	var link *goquery.Selection

	switch p {
	case Blogspot:
		link = doc.Find("a.blog-pager-older-link").First()
	case WordPress:
		link = doc.Find("div.nav-previous").First().Find("a").First()
		if link.Length() == 0 {
			link = doc.Find("div.navigation").First().Find("a").First()
		}
		if link.Length() == 0 {
			link = doc.Find("a.next.page-numbers").First()
		}
	default:
		return ""
	}

	return link.AttrOr("href", "")
}

// wordpressSelectors is the ordered chain tried for a WordPress post body.
var wordpressSelectors = []string{
	"div.post-entry",
	"div.content",
	"div.entry-content",
	"div.content-area",
	"div.storycontent",
}

// noiseSelectors are elements removed from a located post body before saving.
var noiseSelectors = "div.sharedaddy, div.entry-meta, div#comments, script, small, footer"

// ExtractPost isolates the post body on an article page and strips noise
// elements from it. A non-empty selector overrides platform autodetection.
// ok is false when nothing matched.
func ExtractPost(p Platform, doc *goquery.Document, selector string) (post *goquery.Selection, ok bool) {
	if selector != "" {
		post = doc.Find(selector).First()
	} else {
		switch p {
		case Blogspot:
			post = doc.Find("div.post-body.entry-content").First()
		case WordPress:
			for _, sel := range wordpressSelectors {
				post = doc.Find(sel).First()
				if post.Length() > 0 {
					break
				}
			}
		default:
			return nil, false
		}
	}

	if post == nil || post.Length() == 0 {
		return nil, false
	}

	post.Find(noiseSelectors).Remove()
	return post, true
}

// ReadabilityExtract is the fallback when no selector matches: it runs the
// whole article page through readability extraction and returns the content
// HTML of the dominant text block.
func ReadabilityExtract(pageHTML, pageURL string) (string, error) {
	parser, err := readability.New(pageHTML, pageURL, readability.LogLevel(-1))
	if err != nil {
		return "", err
	}

	result, err := parser.Parse()
	if err != nil {
		return "", err
	}
	return result.Content, nil
}
