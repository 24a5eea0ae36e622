package converter

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
)

// removeTags are HTML tags that should be stripped entirely during conversion.
var removeTags = []string{
	"nav", "header", "footer", "aside", "script", "style", "noscript", "iframe",
}

var multiBlankLines = regexp.MustCompile(`\n{3,}`)

// ConvertHTML converts an archived article document to markdown.
// articleURL is used to resolve relative links to absolute.
func ConvertHTML(articleHTML string, articleURL string) (string, error) {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)

	for _, tag := range removeTags {
		conv.Register.TagType(tag, converter.TagTypeRemove, converter.PriorityStandard)
	}

	md, err := conv.ConvertString(articleHTML, converter.WithDomain(domainFromURL(articleURL)))
	if err != nil {
		return "", fmt.Errorf("html-to-markdown conversion: %w", err)
	}

	return CleanMarkdown(md), nil
}

// CleanMarkdown normalizes whitespace in markdown output.
func CleanMarkdown(md string) string {
	// Collapse 3+ blank lines to 2
	md = multiBlankLines.ReplaceAllString(md, "\n\n")

	// Trim trailing whitespace per line
	lines := strings.Split(md, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	md = strings.Join(lines, "\n")

	// Trim leading/trailing blank lines
	md = strings.TrimSpace(md)

	return md
}

func domainFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Scheme + "://" + u.Host
}
