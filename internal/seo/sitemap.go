package seo

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"
)

const sitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// lastmod entries carry a date only, no time-of-day.
const lastmodLayout = "2006-01-02"

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc      string `xml:"loc"`
	LastMod  string `xml:"lastmod,omitempty"`
	Priority string `xml:"priority,omitempty"`
}

// BuildSitemap produces the aggregate sitemap document: one root entry
// with priority 1.0 plus one entry per listing id. Every listing entry
// within a single build shares the same lastmod, which reflects
// generation time rather than entity mutation time.
func BuildSitemap(publicBaseURL string, listingIDs []string, generatedAt time.Time) ([]byte, error) {
	base := strings.TrimRight(publicBaseURL, "/")
	lastmod := generatedAt.Format(lastmodLayout)

	set := urlSet{
		Xmlns: sitemapNamespace,
		URLs:  make([]sitemapURL, 0, len(listingIDs)+1),
	}
	set.URLs = append(set.URLs, sitemapURL{
		Loc:      base + "/",
		Priority: "1.0",
	})
	for _, id := range listingIDs {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:     fmt.Sprintf("%s/listing/%s", base, id),
			LastMod: lastmod,
		})
	}

	body, err := xml.MarshalIndent(set, "", "   ")
	if err != nil {
		return nil, fmt.Errorf("marshal sitemap: %w", err)
	}
	return append([]byte(xml.Header), body...), nil
}
