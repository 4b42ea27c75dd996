package pipeline

import "fmt"

// SitemapObject is the bucket path of the aggregate sitemap artifact.
const SitemapObject = "sitemap.xml"

// ListingObject returns the bucket path of a listing snapshot.
func ListingObject(id string) string {
	return fmt.Sprintf("posts/%s.html", id)
}

// TenantObject returns the bucket path of a tenant profile snapshot.
func TenantObject(id string) string {
	return fmt.Sprintf("tenants/%s.html", id)
}
