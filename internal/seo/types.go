// Package seo holds the pure domain core of the snapshot generator:
// entity schemas, the content-change detector, the HTML renderer, the
// sitemap builder, and the user-agent bot classifier. Nothing in this
// package performs I/O.
package seo

// EntityKind identifies which source collection an entity belongs to.
type EntityKind string

const (
	// KindListing is a room listing from the posts collection.
	KindListing EntityKind = "listing"
	// KindTenant is a tenant profile from the users_prof collection.
	KindTenant EntityKind = "tenant"
)

// RoleTenant is the only profile role that is SEO-relevant.
const RoleTenant = "tenant"

// Listing is a room listing document. Field names mirror the source
// collection schema; payloads are decoded into this struct at the
// boundary so the renderer never sees raw documents.
type Listing struct {
	CondominiumName string   `firestore:"condominiumName" json:"condominiumName"`
	Location        string   `firestore:"location" json:"location"`
	Description     string   `firestore:"description" json:"description"`
	Rent            float64  `firestore:"rent" json:"rent"`
	ImageURLs       []string `firestore:"imageUrls" json:"imageUrls"`
	SearchTags      []string `firestore:"search_tag" json:"search_tag"`
	ManualTags      []string `firestore:"manualTags" json:"manualTags"`
}

// Renderable reports whether the listing carries the fields required
// to produce a snapshot. Listings without a condominium name are
// skipped by every generation path.
func (l Listing) Renderable() bool {
	return l.CondominiumName != ""
}

// TenantProfile is a tenant profile document keyed by account id.
type TenantProfile struct {
	DisplayName     string  `firestore:"displayName" json:"displayName"`
	Location        string  `firestore:"location" json:"location"`
	Budget          float64 `firestore:"budget" json:"budget"`
	Age             int     `firestore:"age" json:"age"`
	ProfileImageURL string  `firestore:"profileImageUrl" json:"profileImageUrl"`
	Role            string  `firestore:"role" json:"role"`
}

// SEORelevant reports whether the profile should ever produce a
// snapshot. Only profiles with the tenant role are indexed.
func (p TenantProfile) SEORelevant() bool {
	return p.Role == RoleTenant
}
