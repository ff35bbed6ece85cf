package content

import (
	"bytes"
	"fmt"
	"net/url"

	"github.com/PuerkitoBio/goquery"

	"github.com/baxromumarov/jobscout/internal/urlutil"
)

// Page is a parsed HTML document together with its rendered text.
type Page struct {
	URL  *url.URL
	Doc  *goquery.Document
	Text string
}

func ParsePage(rawURL string, body []byte) (*Page, error) {
	base, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse page url: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &Page{URL: base, Doc: doc, Text: HTMLToText(string(body))}, nil
}

// BlockText renders the page with block and list-item line breaks.
func (p *Page) BlockText() string {
	if len(p.Doc.Nodes) == 0 {
		return ""
	}
	return BlockText(p.Doc.Nodes[0])
}

// Links returns the same-host links matched by selector, resolved against the page url,
// in document order.
func (p *Page) Links(selector string) []*url.URL {
	var out []*url.URL
	p.Doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok {
			return
		}
		u := urlutil.Resolve(p.URL, href)
		if u == nil || !urlutil.SameHost(p.URL.Hostname(), u.Hostname()) || urlutil.IsStaticAsset(u.Path) {
			return
		}
		out = append(out, u)
	})
	return out
}
