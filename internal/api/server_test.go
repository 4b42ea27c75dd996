package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bilikmatch/seogen/internal/config"
	"github.com/bilikmatch/seogen/internal/pipeline"
	"github.com/bilikmatch/seogen/internal/seo"
)

type stubBulk struct {
	res  pipeline.BulkResult
	err  error
	kind seo.EntityKind
}

func (s *stubBulk) RegenerateAll(_ context.Context, kind seo.EntityKind) (pipeline.BulkResult, error) {
	s.kind = kind
	return s.res, s.err
}

type stubRefresher struct {
	n   int
	err error
}

func (s *stubRefresher) RebuildSitemap(context.Context) (int, error) {
	return s.n, s.err
}

func newTestServer(bulk Regenerator, refresher SitemapRebuilder, cfg config.Config) *httptest.Server {
	srv := NewServer(bulk, refresher, cfg, zap.NewNop())
	return httptest.NewServer(srv.Handler())
}

func doPost(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Post(url, "", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestServer_RegenerateListings(t *testing.T) {
	t.Parallel()

	bulk := &stubBulk{res: pipeline.BulkResult{Scanned: 5, Written: 4, Skipped: 1}}
	ts := newTestServer(bulk, &stubRefresher{}, config.Config{})
	defer ts.Close()

	status, body := doPost(t, ts.URL+"/v1/listings/regenerate")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "Success! Generated HTML for 4 posts.", body)
	require.Equal(t, seo.KindListing, bulk.kind)
}

func TestServer_RegenerateTenants(t *testing.T) {
	t.Parallel()

	bulk := &stubBulk{res: pipeline.BulkResult{Scanned: 3, Written: 2, Skipped: 1}}
	ts := newTestServer(bulk, &stubRefresher{}, config.Config{})
	defer ts.Close()

	status, body := doPost(t, ts.URL+"/v1/tenants/regenerate")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "Success! Generated HTML for 2 tenant profiles.", body)
	require.Equal(t, seo.KindTenant, bulk.kind)
}

func TestServer_RegenerateError(t *testing.T) {
	t.Parallel()

	bulk := &stubBulk{
		res: pipeline.BulkResult{Scanned: 5, Written: 4, Failures: []pipeline.ItemFailure{{ID: "p2"}}},
		err: errors.New("1 of 5 writes failed"),
	}
	ts := newTestServer(bulk, &stubRefresher{}, config.Config{})
	defer ts.Close()

	status, body := doPost(t, ts.URL+"/v1/listings/regenerate")
	require.Equal(t, http.StatusInternalServerError, status)
	require.Equal(t, "Error: 1 of 5 writes failed", body)
}

func TestServer_RebuildSitemap(t *testing.T) {
	t.Parallel()

	ts := newTestServer(&stubBulk{}, &stubRefresher{n: 12}, config.Config{})
	defer ts.Close()

	status, body := doPost(t, ts.URL+"/v1/sitemap/rebuild")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "Sitemap generated.", body)
}

func TestServer_RebuildSitemapError(t *testing.T) {
	t.Parallel()

	ts := newTestServer(&stubBulk{}, &stubRefresher{err: errors.New("bucket gone")}, config.Config{})
	defer ts.Close()

	status, body := doPost(t, ts.URL+"/v1/sitemap/rebuild")
	require.Equal(t, http.StatusInternalServerError, status)
	require.Equal(t, "Error: bucket gone", body)
}

func TestServer_Health(t *testing.T) {
	t.Parallel()

	ts := newTestServer(&stubBulk{}, &stubRefresher{}, config.Config{})
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestServer_APIKey(t *testing.T) {
	t.Parallel()

	cfg := config.Config{Auth: config.AuthConfig{Enabled: true, APIKey: "sekret"}}
	bulk := &stubBulk{res: pipeline.BulkResult{Written: 1}}
	ts := newTestServer(bulk, &stubRefresher{}, cfg)
	defer ts.Close()

	// No key.
	status, _ := doPost(t, ts.URL+"/v1/listings/regenerate")
	require.Equal(t, http.StatusForbidden, status)

	// Header key.
	req, err := http.NewRequest(http.MethodPost, ts.URL+"/v1/listings/regenerate", nil)
	require.NoError(t, err)
	req.Header.Set("X-API-Key", "sekret")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Query-parameter key.
	status, _ = doPost(t, ts.URL+"/v1/listings/regenerate?api_key=sekret")
	require.Equal(t, http.StatusOK, status)

	// Wrong key.
	status, _ = doPost(t, ts.URL+"/v1/listings/regenerate?api_key=nope")
	require.Equal(t, http.StatusForbidden, status)
}
