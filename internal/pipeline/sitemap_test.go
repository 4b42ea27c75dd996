package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bilikmatch/seogen/internal/database"
	"github.com/bilikmatch/seogen/internal/storage"
)

func TestRefresher_RebuildSitemap(t *testing.T) {
	t.Parallel()

	db := database.NewMemoryProvider()
	db.SetListings(listingDocs(3))

	store := storage.NewMemoryProvider()
	fixed := time.Date(2026, time.August, 29, 10, 0, 0, 0, time.UTC)
	refresher := NewRefresher(db, store, "https://bilikmatch.com", time.Hour, zap.NewNop(),
		func() time.Time { return fixed })

	n, err := refresher.RebuildSitemap(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, n)

	data, ok := store.Object("sitemap.xml")
	require.True(t, ok)
	body := string(data)
	// Root entry plus one per listing.
	require.Equal(t, 4, strings.Count(body, "<url>"))
	require.Contains(t, body, "<loc>https://bilikmatch.com/listing/p0</loc>")
	require.Contains(t, body, "<lastmod>2026-08-29</lastmod>")

	opts, ok := store.Options("sitemap.xml")
	require.True(t, ok)
	require.Equal(t, "application/xml", opts.ContentType)
	require.True(t, opts.PublicRead)
}

func TestRefresher_EmptyCollectionStillWritesRoot(t *testing.T) {
	t.Parallel()

	store := storage.NewMemoryProvider()
	refresher := NewRefresher(database.NewMemoryProvider(), store,
		"https://bilikmatch.com", time.Hour, zap.NewNop(), nil)

	n, err := refresher.RebuildSitemap(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, n)

	data, ok := store.Object("sitemap.xml")
	require.True(t, ok)
	require.Equal(t, 1, strings.Count(string(data), "<url>"))
}

func TestRefresher_FailedWriteLeavesPreviousSitemap(t *testing.T) {
	t.Parallel()

	db := database.NewMemoryProvider()
	db.SetListings(listingDocs(1))

	store := storage.NewMemoryProvider()
	refresher := NewRefresher(db, store, "https://bilikmatch.com", time.Hour, zap.NewNop(), nil)

	_, err := refresher.RebuildSitemap(context.Background())
	require.NoError(t, err)
	previous, ok := store.Object("sitemap.xml")
	require.True(t, ok)

	failing := &flakyStore{MemoryProvider: store, failObject: "sitemap.xml"}
	broken := NewRefresher(db, failing, "https://bilikmatch.com", time.Hour, zap.NewNop(), nil)

	_, err = broken.RebuildSitemap(context.Background())
	require.Error(t, err)

	current, ok := store.Object("sitemap.xml")
	require.True(t, ok)
	require.Equal(t, previous, current)
}

func TestRefresher_ProjectionErrorPropagates(t *testing.T) {
	t.Parallel()

	db := &database.MockProvider{}
	db.On("ListingIDs", mock.Anything).Return(nil, errors.New("firestore unavailable"))

	store := &storage.MockProvider{}
	refresher := NewRefresher(db, store, "https://bilikmatch.com", time.Hour, zap.NewNop(), nil)

	_, err := refresher.RebuildSitemap(context.Background())
	require.Error(t, err)
	store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
