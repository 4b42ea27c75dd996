package seo

import (
	"bytes"
	"fmt"
	"html/template"
	"strconv"
	"strings"
)

// brand is the site name appended to every page title.
const brand = "BilikMatch"

// defaultListingDescription is used when a listing has no description.
const defaultListingDescription = "Find your perfect room with BilikMatch."

// SiteConfig carries the URL roots injected at process start. The
// public base is where crawlers index content; the redirect base is
// the client-rendered application human visitors are sent to.
type SiteConfig struct {
	PublicBaseURL       string
	RedirectBaseURL     string
	DefaultListingImage string
	DefaultAvatarImage  string
}

// Renderer turns entities into self-contained, crawler-ready HTML
// documents. Rendering is pure and deterministic: no clock, no
// randomness, no I/O. All field interpolation goes through
// html/template, so values are escaped by construction.
type Renderer struct {
	cfg         SiteConfig
	listingTmpl *template.Template
	tenantTmpl  *template.Template
}

// NewRenderer parses the page templates and returns a ready Renderer.
func NewRenderer(cfg SiteConfig) (*Renderer, error) {
	cfg.PublicBaseURL = strings.TrimRight(cfg.PublicBaseURL, "/")
	cfg.RedirectBaseURL = strings.TrimRight(cfg.RedirectBaseURL, "/")

	listingTmpl, err := template.New("listing").Parse(listingTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse listing template: %w", err)
	}
	tenantTmpl, err := template.New("tenant").Parse(tenantTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse tenant template: %w", err)
	}
	return &Renderer{
		cfg:         cfg,
		listingTmpl: listingTmpl,
		tenantTmpl:  tenantTmpl,
	}, nil
}

// accommodationSchema is the JSON-LD structured-data block embedded in
// listing pages.
type accommodationSchema struct {
	Context     string `json:"@context"`
	Type        string `json:"@type"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Address     string `json:"address"`
	Image       string `json:"image"`
	PriceRange  string `json:"priceRange"`
}

type listingPage struct {
	Title       string
	Description string
	Keywords    string
	Canonical   string
	OGImage     string
	Heading     string
	Rent        string
	Location    string
	Schema      accommodationSchema
	RedirectURL string
	BotPattern  string
}

type tenantPage struct {
	Title       string
	Description string
	Canonical   string
	OGImage     string
	Heading     string
	RedirectURL string
	BotPattern  string
}

// RenderListing produces the static snapshot document for a listing.
func (r *Renderer) RenderListing(l Listing, id string) ([]byte, error) {
	description := l.Description
	if description == "" {
		description = defaultListingDescription
	}
	ogImage := r.cfg.DefaultListingImage
	if len(l.ImageURLs) > 0 {
		ogImage = l.ImageURLs[0]
	}

	keywords := make([]string, 0, len(l.SearchTags)+len(l.ManualTags)+2)
	keywords = append(keywords, l.SearchTags...)
	keywords = append(keywords, l.ManualTags...)
	keywords = append(keywords, l.CondominiumName, l.Location)

	page := listingPage{
		Title:       fmt.Sprintf("%s in %s | %s", l.CondominiumName, l.Location, brand),
		Description: description,
		Keywords:    strings.Join(keywords, ", "),
		Canonical:   fmt.Sprintf("%s/listing/%s", r.cfg.PublicBaseURL, id),
		OGImage:     ogImage,
		Heading:     l.CondominiumName,
		Rent:        "RM " + formatAmount(l.Rent),
		Location:    l.Location,
		Schema: accommodationSchema{
			Context:     "https://schema.org",
			Type:        "Accommodation",
			Name:        l.CondominiumName,
			Description: description,
			Address:     l.Location,
			Image:       ogImage,
			PriceRange:  "RM " + formatAmount(l.Rent),
		},
		RedirectURL: fmt.Sprintf("%s/features/property_detail.html?id=%s", r.cfg.RedirectBaseURL, id),
		BotPattern:  BotPattern(),
	}

	var buf bytes.Buffer
	if err := r.listingTmpl.Execute(&buf, page); err != nil {
		return nil, fmt.Errorf("render listing %s: %w", id, err)
	}
	return buf.Bytes(), nil
}

// RenderTenant produces the static snapshot document for a tenant
// profile. Callers are expected to have applied the role gate; the
// renderer itself does not check it.
func (r *Renderer) RenderTenant(p TenantProfile, id string) ([]byte, error) {
	ogImage := p.ProfileImageURL
	if ogImage == "" {
		ogImage = r.cfg.DefaultAvatarImage
	}

	page := tenantPage{
		Title:       fmt.Sprintf("%s is looking for a room in %s | %s", p.DisplayName, p.Location, brand),
		Description: fmt.Sprintf("Budget: RM%s | Age: %d", formatAmount(p.Budget), p.Age),
		Canonical:   fmt.Sprintf("%s/tenant/%s", r.cfg.PublicBaseURL, id),
		OGImage:     ogImage,
		Heading:     p.DisplayName,
		RedirectURL: fmt.Sprintf("%s/features/tenant_detail.html?id=%s", r.cfg.RedirectBaseURL, id),
		BotPattern:  BotPattern(),
	}

	var buf bytes.Buffer
	if err := r.tenantTmpl.Execute(&buf, page); err != nil {
		return nil, fmt.Errorf("render tenant %s: %w", id, err)
	}
	return buf.Bytes(), nil
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

const listingTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>{{.Title}}</title>
    <meta name="description" content="{{.Description}}">
    <meta name="keywords" content="{{.Keywords}}">

    <link rel="canonical" href="{{.Canonical}}">

    <meta property="og:type" content="website">
    <meta property="og:url" content="{{.Canonical}}">
    <meta property="og:title" content="{{.Title}}">
    <meta property="og:description" content="{{.Description}}">
    <meta property="og:image" content="{{.OGImage}}">

    <meta property="twitter:card" content="summary_large_image">
    <meta property="twitter:title" content="{{.Title}}">
    <meta property="twitter:description" content="{{.Description}}">
    <meta property="twitter:image" content="{{.OGImage}}">

    <script type="application/ld+json">{{.Schema}}</script>

    <script>
      var userAgent = navigator.userAgent.toLowerCase();
      var isBot = new RegExp({{.BotPattern}}, "i").test(userAgent);
      if (!isBot) {
          window.location.replace({{.RedirectURL}});
      }
    </script>
</head>
<body>
    <h1>{{.Heading}}</h1>
    <p>{{.Description}}</p>
    <img src="{{.OGImage}}" alt="{{.Heading}}" />
    <ul>
      <li>Rent: {{.Rent}}</li>
      <li>Location: {{.Location}}</li>
    </ul>
    <p><a href="{{.RedirectURL}}">Click here if you are not redirected...</a></p>
</body>
</html>
`

const tenantTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>{{.Title}}</title>
    <meta name="description" content="{{.Description}}">
    <link rel="canonical" href="{{.Canonical}}">

    <meta property="og:type" content="profile">
    <meta property="og:url" content="{{.Canonical}}">
    <meta property="og:title" content="{{.Title}}">
    <meta property="og:description" content="{{.Description}}">
    <meta property="og:image" content="{{.OGImage}}">
    <meta property="twitter:card" content="summary">

    <script>
      var userAgent = navigator.userAgent.toLowerCase();
      var isBot = new RegExp({{.BotPattern}}, "i").test(userAgent);
      if (!isBot) {
          window.location.replace({{.RedirectURL}});
      }
    </script>
</head>
<body>
    <h1>{{.Heading}}</h1>
    <p>{{.Description}}</p>
    <img src="{{.OGImage}}" alt="{{.Heading}}" />
    <p><a href="{{.RedirectURL}}">View Profile</a></p>
</body>
</html>
`
