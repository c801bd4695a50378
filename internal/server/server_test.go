package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/siteplan/internal/config"
	"github.com/sells-group/siteplan/internal/model"
	"github.com/sells-group/siteplan/internal/monitoring"
	"github.com/sells-group/siteplan/internal/store"
)

func newTestServer(t *testing.T) (*Server, http.Handler, store.Store) {
	t.Helper()

	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))

	cfg := config.ServerConfig{
		CORSOrigins:      []string{"*"},
		ImportRatePerMin: 600,
		ImportBurst:      100,
	}
	srv := New(st, monitoring.NewMetrics(), cfg)
	return srv, srv.Router(cfg), st
}

func seedRecords(t *testing.T, st store.Store) {
	t.Helper()
	records := []model.PageRecord{
		{ClusterName: "Implants", PrimaryKeyword: "implants london", SearchVolume: 500, PageType: "Service", FullURLPath: "/uk/london/implants", Status: model.StatusLive},
		{ClusterName: "Implants", PrimaryKeyword: "implants manchester", SearchVolume: 300, PageType: "Service", FullURLPath: "/uk/manchester/implants", Status: model.StatusPlanned},
		{ClusterName: "Implants", PrimaryKeyword: "implantate berlin", SearchVolume: 200, PageType: "Service", FullURLPath: "/de/berlin/implants", Status: model.StatusPlanned},
	}
	require.NoError(t, st.PutRecords(context.Background(), "acme", records))
}

func TestServer_Health(t *testing.T) {
	_, router, _ := newTestServer(t)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ok")
}

func TestServer_Metrics(t *testing.T) {
	_, router, _ := newTestServer(t)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestServer_Tree(t *testing.T) {
	_, router, st := newTestServer(t)
	seedRecords(t, st)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/tenants/acme/sitemap/tree", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Tenant string                `json:"tenant"`
		Tree   []*model.SiteTreeNode `json:"tree"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "acme", resp.Tenant)
	require.Len(t, resp.Tree, 2)
	assert.Equal(t, "uk", resp.Tree[0].Segment)
	assert.Equal(t, 800, resp.Tree[0].TotalVolume)
	assert.Equal(t, 2, resp.Tree[0].TotalPages)
	assert.Equal(t, 1, resp.Tree[0].LivePages)
}

func TestServer_Tree_LocationFilter(t *testing.T) {
	_, router, st := newTestServer(t)
	seedRecords(t, st)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/tenants/acme/sitemap/tree?location=de", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Tree []*model.SiteTreeNode `json:"tree"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Tree, 1)
	assert.Equal(t, "de", resp.Tree[0].Segment)
}

func TestServer_Stats(t *testing.T) {
	_, router, st := newTestServer(t)
	seedRecords(t, st)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/tenants/acme/sitemap/stats", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var stats model.WebsiteStats
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &stats))
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1000, stats.TotalVolume)
	assert.Equal(t, 1, stats.Live)
	assert.Equal(t, 2, stats.Planned)
	assert.Equal(t, 33, stats.ProgressPercent)
}

func TestServer_Stats_UnknownTenantIsEmpty(t *testing.T) {
	_, router, _ := newTestServer(t)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/tenants/ghost/sitemap/stats", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var stats model.WebsiteStats
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &stats))
	assert.Equal(t, 0, stats.Total)
	assert.Equal(t, 0, stats.ProgressPercent)
}

func TestServer_Locations(t *testing.T) {
	_, router, st := newTestServer(t)
	seedRecords(t, st)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/tenants/acme/sitemap/locations", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Locations []string `json:"locations"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, []string{"uk", "de"}, resp.Locations)
}

func TestServer_Import(t *testing.T) {
	_, router, st := newTestServer(t)

	body := "Cluster,Implants,1900,Commercial,Service,/implants,P1,abroad;replacement\n" +
		"Cluster,Veneers,720,Commercial,Service,/veneers"
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/tenants/acme/sitemap/import", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rr.Code)

	var resp importResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Total)
	assert.Equal(t, 2, resp.Added)
	assert.NotEmpty(t, resp.ImportID)

	records, err := st.GetRecords(context.Background(), "acme")
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestServer_Import_CarriesForwardAndReportsDropped(t *testing.T) {
	_, router, st := newTestServer(t)
	seedRecords(t, st)

	// Re-import keeps only the london page; the live status must survive.
	body := "Implants,implants london,999,Commercial,Service,/uk/london/implants"
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/tenants/acme/sitemap/import", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rr.Code)

	var resp importResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, 1, resp.CarriedForward)
	assert.ElementsMatch(t, []string{"/uk/manchester/implants", "/de/berlin/implants"}, resp.DroppedPaths)

	records, err := st.GetRecords(context.Background(), "acme")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, model.StatusLive, records[0].Status)
	assert.Equal(t, 999, records[0].SearchVolume)
}

func TestServer_Import_DryRunPersistsNothing(t *testing.T) {
	_, router, st := newTestServer(t)

	body := "Cluster,Implants,1900,Commercial,Service,/implants"
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/tenants/acme/sitemap/import?dry_run=true", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rr.Code)

	var resp importResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.DryRun)

	records, err := st.GetRecords(context.Background(), "acme")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestServer_Import_NoValidRows(t *testing.T) {
	_, router, _ := newTestServer(t)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/tenants/acme/sitemap/import", strings.NewReader("bad,row\nworse")))
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Contains(t, rr.Body.String(), "no valid rows")
}

func TestServer_Import_EmptyBody(t *testing.T) {
	_, router, _ := newTestServer(t)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/tenants/acme/sitemap/import", strings.NewReader("")))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestServer_Import_RateLimited(t *testing.T) {
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))

	cfg := config.ServerConfig{ImportRatePerMin: 1, ImportBurst: 1}
	srv := New(st, monitoring.NewMetrics(), cfg)
	router := srv.Router(cfg)

	body := "Cluster,Implants,1900,Commercial,Service,/implants"
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/tenants/acme/sitemap/import", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/tenants/acme/sitemap/import", strings.NewReader(body)))
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
}

func TestServer_RequestMetricsUseRoutePattern(t *testing.T) {
	srv, router, st := newTestServer(t)
	seedRecords(t, st)

	// Two tenants must collapse into one histogram series per route.
	for _, tenant := range []string{"acme", "beta"} {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/tenants/"+tenant+"/sitemap/stats", nil))
		require.Equal(t, http.StatusOK, rr.Code)
	}

	families, err := srv.metrics.Registry.Gather()
	require.NoError(t, err)

	found := false
	for _, fam := range families {
		if fam.GetName() != "siteplan_http_request_duration_seconds" {
			continue
		}
		require.Len(t, fam.GetMetric(), 1)
		for _, label := range fam.GetMetric()[0].GetLabel() {
			if label.GetName() == "route" {
				assert.Equal(t, "/tenants/{tenant}/sitemap/stats", label.GetValue())
				found = true
			}
		}
	}
	assert.True(t, found, "request duration series missing")
}

func TestServer_UpdatePage(t *testing.T) {
	_, router, st := newTestServer(t)
	seedRecords(t, st)

	body := `{"path":"/uk/manchester/implants","status":"in_dev","notes":"brief sent"}`
	req := httptest.NewRequest(http.MethodPatch, "/tenants/acme/sitemap/pages", strings.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	records, err := st.GetRecords(context.Background(), "acme")
	require.NoError(t, err)
	assert.Equal(t, model.StatusInDev, records[1].Status)
	assert.Equal(t, "brief sent", records[1].Notes)
}

func TestServer_UpdatePage_InvalidStatus(t *testing.T) {
	_, router, st := newTestServer(t)
	seedRecords(t, st)

	body := `{"path":"/uk/manchester/implants","status":"shipped"}`
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPatch, "/tenants/acme/sitemap/pages", strings.NewReader(body)))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestServer_UpdatePage_NotFound(t *testing.T) {
	_, router, st := newTestServer(t)
	seedRecords(t, st)

	body := `{"path":"/nope","status":"live"}`
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPatch, "/tenants/acme/sitemap/pages", strings.NewReader(body)))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestServer_DeletePage(t *testing.T) {
	_, router, st := newTestServer(t)
	seedRecords(t, st)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/tenants/acme/sitemap/pages?path=/de/berlin/implants", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	records, err := st.GetRecords(context.Background(), "acme")
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestServer_DeletePage_RequiresPath(t *testing.T) {
	_, router, _ := newTestServer(t)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/tenants/acme/sitemap/pages", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestServer_ListImports(t *testing.T) {
	_, router, st := newTestServer(t)

	_, err := st.LogImport(context.Background(), store.ImportLogEntry{TenantID: "acme", RowsImported: 3})
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/tenants/acme/sitemap/imports", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Imports []store.ImportLogEntry `json:"imports"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Imports, 1)
	assert.Equal(t, 3, resp.Imports[0].RowsImported)
}
