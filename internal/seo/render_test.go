package seo

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func testSiteConfig() SiteConfig {
	return SiteConfig{
		PublicBaseURL:       "https://bilikmatch.com",
		RedirectBaseURL:     "https://kotarokaseko.github.io/bilikmatch_tenant",
		DefaultListingImage: "https://bilikmatch.com/assets/default-og.jpg",
		DefaultAvatarImage:  "https://bilikmatch.com/assets/default-avatar.png",
	}
}

func TestRenderListing_TitleAndCanonical(t *testing.T) {
	t.Parallel()

	r, err := NewRenderer(testSiteConfig())
	require.NoError(t, err)

	html, err := r.RenderListing(Listing{
		CondominiumName: "Casa",
		Location:        "KL",
		Rent:            1200,
	}, "abc123")
	require.NoError(t, err)

	doc := string(html)
	require.Contains(t, doc, "<title>Casa in KL | BilikMatch</title>")
	require.Contains(t, doc, `<link rel="canonical" href="https://bilikmatch.com/listing/abc123">`)
	require.Contains(t, doc, `<meta property="og:type" content="website">`)
	require.Contains(t, doc, `<meta property="twitter:card" content="summary_large_image">`)
}

func TestRenderListing_DefaultsAndKeywords(t *testing.T) {
	t.Parallel()

	r, err := NewRenderer(testSiteConfig())
	require.NoError(t, err)

	html, err := r.RenderListing(Listing{
		CondominiumName: "Casa",
		Location:        "KL",
		Rent:            900,
		SearchTags:      []string{"room", "kl"},
		ManualTags:      []string{"featured"},
	}, "p1")
	require.NoError(t, err)

	doc := string(html)
	// No description supplied: the generic one is used everywhere.
	require.Contains(t, doc, "Find your perfect room with BilikMatch.")
	// No images supplied: the default OG asset is used.
	require.Contains(t, doc, "https://bilikmatch.com/assets/default-og.jpg")
	require.Contains(t, doc, `content="room, kl, featured, Casa, KL"`)
}

func TestRenderListing_RepresentativeImage(t *testing.T) {
	t.Parallel()

	r, err := NewRenderer(testSiteConfig())
	require.NoError(t, err)

	html, err := r.RenderListing(Listing{
		CondominiumName: "Casa",
		Location:        "KL",
		ImageURLs:       []string{"https://img.example.com/a.jpg", "https://img.example.com/b.jpg"},
	}, "p2")
	require.NoError(t, err)

	doc := string(html)
	require.Contains(t, doc, "https://img.example.com/a.jpg")
	require.NotContains(t, doc, "https://img.example.com/b.jpg")
}

func TestRenderListing_StructuredData(t *testing.T) {
	t.Parallel()

	r, err := NewRenderer(testSiteConfig())
	require.NoError(t, err)

	html, err := r.RenderListing(Listing{
		CondominiumName: "Casa",
		Location:        "KL",
		Description:     "Sunny room",
		Rent:            1200,
	}, "p3")
	require.NoError(t, err)

	doc := string(html)
	require.Contains(t, doc, `<script type="application/ld+json">`)
	require.Contains(t, doc, `"@type":"Accommodation"`)
	require.Contains(t, doc, `"priceRange":"RM 1200"`)
	require.Contains(t, doc, `"address":"KL"`)
}

func TestRenderListing_EscapesInterpolatedFields(t *testing.T) {
	t.Parallel()

	r, err := NewRenderer(testSiteConfig())
	require.NoError(t, err)

	html, err := r.RenderListing(Listing{
		CondominiumName: `Casa <script>alert("x")</script>`,
		Location:        "KL",
		Description:     `"><img src=x onerror=alert(1)>`,
	}, "p4")
	require.NoError(t, err)

	doc := string(html)
	require.NotContains(t, doc, "<script>alert")
	require.NotContains(t, doc, "<img src=x onerror")
}

func TestRenderListing_Deterministic(t *testing.T) {
	t.Parallel()

	r, err := NewRenderer(testSiteConfig())
	require.NoError(t, err)

	l := Listing{
		CondominiumName: "Casa",
		Location:        "KL",
		Description:     "Sunny room",
		Rent:            1200,
		SearchTags:      []string{"kl", "room"},
		ImageURLs:       []string{"https://img.example.com/a.jpg"},
	}

	first, err := r.RenderListing(l, "p5")
	require.NoError(t, err)
	second, err := r.RenderListing(l, "p5")
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestRenderListing_RedirectScript(t *testing.T) {
	t.Parallel()

	r, err := NewRenderer(testSiteConfig())
	require.NoError(t, err)

	html, err := r.RenderListing(Listing{CondominiumName: "Casa", Location: "KL"}, "p6")
	require.NoError(t, err)

	doc := string(html)
	require.Contains(t, doc, "window.location.replace")
	require.Contains(t, doc, BotPattern())
	// The fallback anchor carries the full redirect target.
	require.Contains(t, doc,
		`href="https://kotarokaseko.github.io/bilikmatch_tenant/features/property_detail.html?id=p6"`)
}

func TestRenderTenant(t *testing.T) {
	t.Parallel()

	r, err := NewRenderer(testSiteConfig())
	require.NoError(t, err)

	html, err := r.RenderTenant(TenantProfile{
		DisplayName: "Aina",
		Location:    "KL",
		Budget:      800,
		Age:         24,
		Role:        RoleTenant,
	}, "u1")
	require.NoError(t, err)

	doc := string(html)
	require.Contains(t, doc, "<title>Aina is looking for a room in KL | BilikMatch</title>")
	require.Contains(t, doc, "Budget: RM800 | Age: 24")
	require.Contains(t, doc, `<link rel="canonical" href="https://bilikmatch.com/tenant/u1">`)
	require.Contains(t, doc, `<meta property="og:type" content="profile">`)
	require.Contains(t, doc, `<meta property="twitter:card" content="summary">`)
	// No profile image: default avatar.
	require.Contains(t, doc, "https://bilikmatch.com/assets/default-avatar.png")
	require.Contains(t, doc,
		`href="https://kotarokaseko.github.io/bilikmatch_tenant/features/tenant_detail.html?id=u1"`)
}

func TestRenderTenant_Deterministic(t *testing.T) {
	t.Parallel()

	r, err := NewRenderer(testSiteConfig())
	require.NoError(t, err)

	p := TenantProfile{DisplayName: "Aina", Location: "KL", Budget: 800, Age: 24, Role: RoleTenant}
	first, err := r.RenderTenant(p, "u2")
	require.NoError(t, err)
	second, err := r.RenderTenant(p, "u2")
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestNewRenderer_TrimsTrailingSlashes(t *testing.T) {
	t.Parallel()

	cfg := testSiteConfig()
	cfg.PublicBaseURL = "https://bilikmatch.com/"
	r, err := NewRenderer(cfg)
	require.NoError(t, err)

	html, err := r.RenderListing(Listing{CondominiumName: "Casa", Location: "KL"}, "p7")
	require.NoError(t, err)
	require.False(t, strings.Contains(string(html), "bilikmatch.com//listing"))
}
