package seo

import "sort"

// ShouldRegenerateListing decides whether a listing write warrants a
// new snapshot. A nil before means the listing was just created.
//
// Only content-significant fields participate: search tags (compared
// as an order-insensitive set), description, and condominium name.
// Rent, location, manual tags, and images are rendered but do not
// trigger regeneration on their own; an edit touching only those
// leaves the snapshot stale until the next qualifying change or a
// bulk regeneration.
func ShouldRegenerateListing(before *Listing, after Listing) bool {
	if before == nil {
		return true
	}
	if !equalStringSets(before.SearchTags, after.SearchTags) {
		return true
	}
	if before.Description != after.Description {
		return true
	}
	return before.CondominiumName != after.CondominiumName
}

// ShouldRegenerateTenant decides whether a tenant profile write
// warrants a new snapshot. Profiles whose role is not "tenant" never
// regenerate, regardless of what changed; any pre-existing snapshot
// is left in place.
func ShouldRegenerateTenant(before *TenantProfile, after TenantProfile) bool {
	if !after.SEORelevant() {
		return false
	}
	if before == nil {
		return true
	}
	return before.DisplayName != after.DisplayName || before.Location != after.Location
}

func equalStringSets(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	as := append([]string(nil), a...)
	bs := append([]string(nil), b...)
	sort.Strings(as)
	sort.Strings(bs)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}
