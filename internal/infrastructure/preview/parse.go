package preview

import (
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Parse extracts OpenGraph metadata from an HTML document, falling back to
// <title>, the description meta tag and Twitter card tags
func Parse(r io.Reader, base *url.URL) (*Metadata, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}

	meta := &Metadata{
		Title: firstNonEmpty(
			metaContent(doc, "property", "og:title"),
			metaContent(doc, "name", "twitter:title"),
			strings.TrimSpace(doc.Find("title").First().Text()),
		),
		Description: firstNonEmpty(
			metaContent(doc, "property", "og:description"),
			metaContent(doc, "name", "description"),
			metaContent(doc, "name", "twitter:description"),
		),
		Image: firstNonEmpty(
			metaContent(doc, "property", "og:image"),
			metaContent(doc, "name", "twitter:image"),
		),
		SiteName: metaContent(doc, "property", "og:site_name"),
	}

	canonical := metaContent(doc, "property", "og:url")
	if base != nil {
		meta.Image = resolve(base, meta.Image)
		meta.URL = resolve(base, canonical)
		if meta.URL == "" {
			meta.URL = base.String()
		}
		if meta.SiteName == "" {
			meta.SiteName = base.Hostname()
		}
	} else {
		meta.URL = canonical
	}

	return meta, nil
}

func metaContent(doc *goquery.Document, attr, key string) string {
	var value string
	doc.Find("meta").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if v, ok := sel.Attr(attr); ok && strings.EqualFold(strings.TrimSpace(v), key) {
			value = strings.TrimSpace(sel.AttrOr("content", ""))
			return value == ""
		}
		return true
	})
	return value
}

func resolve(base *url.URL, ref string) string {
	if ref == "" {
		return ""
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	return base.ResolveReference(u).String()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
