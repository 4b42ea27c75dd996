package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const minimalYAML = `
storage:
  gcs_bucket: bilikmatch-seo
database:
  project_id: bilikmatch-prod
pubsub:
  project_id: bilikmatch-prod
  subscription: seo-changes
`

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(writeConfigFile(t, minimalYAML))
	require.NoError(t, err)

	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, "gcs", cfg.Storage.Provider)
	require.Equal(t, "bilikmatch-seo", cfg.Storage.GCSBucket)
	require.Equal(t, 3600, cfg.Storage.CacheMaxAgeSeconds)
	require.Equal(t, "firestore", cfg.Database.Provider)
	require.Equal(t, "(default)", cfg.Database.Database)
	require.Equal(t, "posts", cfg.Database.ListingsCollection)
	require.Equal(t, "users_prof", cfg.Database.TenantsCollection)
	require.Equal(t, "https://bilikmatch.com", cfg.Site.PublicBaseURL)
	require.Equal(t, 8, cfg.Bulk.Concurrency)
	require.Equal(t, time.Hour, cfg.CacheMaxAge())
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(writeConfigFile(t, minimalYAML+`
server:
  port: 9090
storage:
  provider: memory
  gcs_bucket: bilikmatch-seo
  cache_max_age_seconds: 600
bulk:
  concurrency: 2
site:
  public_base_url: https://staging.bilikmatch.com
  redirect_base_url: https://staging.bilikmatch.com/app
`))
	require.NoError(t, err)

	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, "memory", cfg.Storage.Provider)
	require.Equal(t, 10*time.Minute, cfg.CacheMaxAge())
	require.Equal(t, 2, cfg.Bulk.Concurrency)
	require.Equal(t, "https://staging.bilikmatch.com", cfg.Site.PublicBaseURL)
}

func TestLoad_MissingFileFails(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoad_ValidationFailures(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		yaml string
	}{
		{
			name: "gcs without bucket",
			yaml: `
database:
  project_id: bilikmatch-prod
pubsub:
  project_id: bilikmatch-prod
  subscription: seo-changes
`,
		},
		{
			name: "firestore without project",
			yaml: `
storage:
  gcs_bucket: bilikmatch-seo
pubsub:
  project_id: bilikmatch-prod
  subscription: seo-changes
`,
		},
		{
			name: "pubsub without subscription",
			yaml: `
storage:
  gcs_bucket: bilikmatch-seo
database:
  project_id: bilikmatch-prod
pubsub:
  project_id: bilikmatch-prod
`,
		},
		{
			name: "auth enabled without key",
			yaml: minimalYAML + `
auth:
  enabled: true
`,
		},
		{
			name: "zero concurrency",
			yaml: minimalYAML + `
bulk:
  concurrency: 0
`,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := Load(writeConfigFile(t, tc.yaml))
			require.Error(t, err)
		})
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("SEOGEN_SERVER_PORT", "9191")

	cfg, err := Load(writeConfigFile(t, minimalYAML))
	require.NoError(t, err)
	require.Equal(t, 9191, cfg.Server.Port)
}

func TestValidate_MemoryProvidersNeedNoCredentials(t *testing.T) {
	t.Parallel()

	cfg := Config{
		Server:  ServerConfig{Port: 8080},
		Storage: StorageConfig{Provider: "memory"},
		Database: DatabaseConfig{
			Provider: "memory",
		},
		PubSub: PubSubConfig{Provider: "memory"},
		Site: SiteConfig{
			PublicBaseURL:   "https://bilikmatch.com",
			RedirectBaseURL: "https://kotarokaseko.github.io/bilikmatch_tenant",
		},
		Bulk: BulkConfig{Concurrency: 4},
	}
	require.NoError(t, cfg.Validate())
}
