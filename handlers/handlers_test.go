package handlers_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kofimuad/galamsay-analysis/database"
	"github.com/kofimuad/galamsay-analysis/middleware"
	"github.com/kofimuad/galamsay-analysis/models"
	"github.com/kofimuad/galamsay-analysis/routes"
	"github.com/kofimuad/galamsay-analysis/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestAPI(t *testing.T) (*gin.Engine, *database.Store, *gorm.DB) {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "api_test.db"))
	require.NoError(t, err)
	store := database.NewStore(db)

	r := gin.New()
	routes.SetupRoutes(r, store)
	return r, store, db
}

func seedRun(t *testing.T, store *database.Store, rows []models.CityData, rejected int) *models.AnalysisRun {
	t.Helper()
	run := services.BuildRun(rows, rejected)
	require.NoError(t, store.SaveRun(context.Background(), run))
	return run
}

func defaultRows() []models.CityData {
	return []models.CityData{
		{City: "Kumasi", Region: "Ashanti", Sites: 25},
		{City: "Accra", Region: "Greater Accra", Sites: 20},
		{City: "Takoradi", Region: "Western", Sites: 18},
		{City: "Tamale", Region: "Northern", Sites: 7},
		{City: "Bolgatanga", Region: "Upper East", Sites: 5},
		{City: "Obuasi", Region: "Ashanti", Sites: 10},
	}
}

func performRequest(r *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}

func TestRoot_ListsEndpoints(t *testing.T) {
	r, _, _ := newTestAPI(t)

	w := performRequest(r, "GET", "/")
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	decodeJSON(t, w, &resp)
	assert.Equal(t, "Galamsay Analysis API", resp["message"])

	endpoints, ok := resp["endpoints"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, endpoints, "total_sites")
	assert.Contains(t, endpoints, "health")
}

func TestHealth_Healthy(t *testing.T) {
	r, store, _ := newTestAPI(t)
	seedRun(t, store, defaultRows(), 0)

	w := performRequest(r, "GET", "/health")
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	decodeJSON(t, w, &resp)
	assert.Equal(t, "healthy", resp["status"])
	assert.Equal(t, "connected", resp["database"])
	assert.EqualValues(t, 1, resp["analysis_runs"])
}

func TestHealth_DatabaseDown(t *testing.T) {
	r, _, db := newTestAPI(t)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	w := performRequest(r, "GET", "/health")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var resp map[string]any
	decodeJSON(t, w, &resp)
	assert.Equal(t, "unhealthy", resp["status"])
	assert.Equal(t, "disconnected", resp["database"])
}

func TestListAnalyses_EmptyDatabase(t *testing.T) {
	r, _, _ := newTestAPI(t)

	w := performRequest(r, "GET", "/analyses")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestListAnalyses_NewestFirstWithoutChildren(t *testing.T) {
	r, store, _ := newTestAPI(t)
	first := seedRun(t, store, defaultRows(), 0)
	second := seedRun(t, store, defaultRows()[:2], 1)

	w := performRequest(r, "GET", "/analyses")
	assert.Equal(t, http.StatusOK, w.Code)

	var resp []models.AnalysisRunSummary
	decodeJSON(t, w, &resp)
	require.Len(t, resp, 2)
	assert.Equal(t, second.ID, resp[0].ID)
	assert.Equal(t, first.ID, resp[1].ID)

	assert.NotContains(t, w.Body.String(), "city_data")
}

func TestListAnalyses_LimitAndOffset(t *testing.T) {
	r, store, _ := newTestAPI(t)
	for i := 0; i < 3; i++ {
		seedRun(t, store, defaultRows(), 0)
	}

	w := performRequest(r, "GET", "/analyses?limit=2")
	assert.Equal(t, http.StatusOK, w.Code)
	var resp []models.AnalysisRunSummary
	decodeJSON(t, w, &resp)
	assert.Len(t, resp, 2)

	w = performRequest(r, "GET", "/analyses?limit=2&offset=2")
	decodeJSON(t, w, &resp)
	assert.Len(t, resp, 1)
}

func TestListAnalyses_RejectsBadPagination(t *testing.T) {
	r, _, _ := newTestAPI(t)

	for _, path := range []string{
		"/analyses?limit=0",
		"/analyses?limit=101",
		"/analyses?offset=-1",
		"/analyses?limit=abc",
	} {
		w := performRequest(r, "GET", path)
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
	}
}

func TestLatestAnalysis_NoRuns(t *testing.T) {
	r, _, _ := newTestAPI(t)

	w := performRequest(r, "GET", "/analyses/latest")
	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp map[string]string
	decodeJSON(t, w, &resp)
	assert.Contains(t, resp["error"], "analyze")
}

func TestLatestAnalysis_ReturnsDetail(t *testing.T) {
	r, store, _ := newTestAPI(t)
	seedRun(t, store, defaultRows(), 0)
	run := seedRun(t, store, defaultRows(), 2)

	w := performRequest(r, "GET", "/analyses/latest")
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	decodeJSON(t, w, &resp)
	assert.EqualValues(t, run.ID, resp["id"])
	assert.EqualValues(t, 85, resp["total_galamsay_sites"])
	assert.Equal(t, "Ashanti", resp["region_with_highest_sites"])
	assert.EqualValues(t, 35, resp["highest_sites_count"])
	assert.EqualValues(t, 17.0, resp["average_sites_per_region"])
	assert.EqualValues(t, 6, resp["valid_count"])
	assert.EqualValues(t, 2, resp["rejected_count"])
	assert.NotEmpty(t, resp["timestamp"])

	cityData, ok := resp["city_data"].([]any)
	require.True(t, ok)
	assert.Len(t, cityData, 6)

	exceeding, ok := resp["cities_exceeding_threshold"].([]any)
	require.True(t, ok)
	require.Len(t, exceeding, 3)
	firstRow, ok := exceeding[0].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 10, firstRow["threshold"])
}

func TestLatestAnalysis_EmptyRunKeepsChildArrays(t *testing.T) {
	r, store, _ := newTestAPI(t)
	run := seedRun(t, store, nil, 0)

	w := performRequest(r, "GET", "/analyses/latest")
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	decodeJSON(t, w, &resp)
	assert.EqualValues(t, run.ID, resp["id"])
	assert.Nil(t, resp["region_with_highest_sites"])

	cityData, ok := resp["city_data"].([]any)
	require.True(t, ok, "city_data must be a JSON array")
	assert.Empty(t, cityData)

	exceeding, ok := resp["cities_exceeding_threshold"].([]any)
	require.True(t, ok, "cities_exceeding_threshold must be a JSON array")
	assert.Empty(t, exceeding)

	// The by-id detail serves the same shape.
	w = performRequest(r, "GET", fmt.Sprintf("/analyses/%d", run.ID))
	assert.Equal(t, http.StatusOK, w.Code)
	decodeJSON(t, w, &resp)
	_, ok = resp["city_data"].([]any)
	assert.True(t, ok, "city_data must be a JSON array")
}

func TestRegionHighest_EmptyRunHasNullRegion(t *testing.T) {
	r, store, _ := newTestAPI(t)
	seedRun(t, store, nil, 0)

	w := performRequest(r, "GET", "/metrics/region-highest")
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	decodeJSON(t, w, &resp)
	assert.Nil(t, resp["region"])
	assert.EqualValues(t, 0, resp["galamsay_sites"])
}

func TestGetAnalysis_ByID(t *testing.T) {
	r, store, _ := newTestAPI(t)
	run := seedRun(t, store, defaultRows(), 0)
	seedRun(t, store, defaultRows()[:2], 0)

	w := performRequest(r, "GET", fmt.Sprintf("/analyses/%d", run.ID))
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	decodeJSON(t, w, &resp)
	assert.EqualValues(t, run.ID, resp["id"])
	assert.Contains(t, resp, "city_data")
}

func TestGetAnalysis_NotFound(t *testing.T) {
	r, _, _ := newTestAPI(t)

	w := performRequest(r, "GET", "/analyses/999")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "not found")
}

func TestGetAnalysis_InvalidID(t *testing.T) {
	r, _, _ := newTestAPI(t)

	w := performRequest(r, "GET", "/analyses/abc")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTotalSites_FromLatest(t *testing.T) {
	r, store, _ := newTestAPI(t)
	seedRun(t, store, defaultRows(), 0)
	latest := seedRun(t, store, defaultRows()[:3], 0)

	w := performRequest(r, "GET", "/metrics/total-sites")
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	decodeJSON(t, w, &resp)
	assert.EqualValues(t, 63, resp["total_galamsay_sites"])
	assert.EqualValues(t, latest.ID, resp["analysis_id"])
	assert.NotEmpty(t, resp["timestamp"])
}

func TestTotalSites_TargetsAnalysisID(t *testing.T) {
	r, store, _ := newTestAPI(t)
	first := seedRun(t, store, defaultRows(), 0)
	seedRun(t, store, defaultRows()[:3], 0)

	w := performRequest(r, "GET", fmt.Sprintf("/metrics/total-sites?analysis_id=%d", first.ID))
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	decodeJSON(t, w, &resp)
	assert.EqualValues(t, 85, resp["total_galamsay_sites"])
	assert.EqualValues(t, first.ID, resp["analysis_id"])

	w = performRequest(r, "GET", "/metrics/total-sites?analysis_id=99999")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = performRequest(r, "GET", "/metrics/total-sites?analysis_id=abc")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTotalSites_NoRuns(t *testing.T) {
	r, _, _ := newTestAPI(t)

	w := performRequest(r, "GET", "/metrics/total-sites")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRegionHighest(t *testing.T) {
	r, store, _ := newTestAPI(t)
	run := seedRun(t, store, defaultRows(), 0)

	w := performRequest(r, "GET", "/metrics/region-highest")
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	decodeJSON(t, w, &resp)
	assert.Equal(t, "Ashanti", resp["region"])
	assert.EqualValues(t, 35, resp["galamsay_sites"])
	assert.EqualValues(t, run.ID, resp["analysis_id"])
}

func TestAveragePerRegion(t *testing.T) {
	r, store, _ := newTestAPI(t)
	seedRun(t, store, defaultRows(), 0)

	w := performRequest(r, "GET", "/metrics/average-per-region")
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	decodeJSON(t, w, &resp)
	assert.EqualValues(t, 17.0, resp["average_sites_per_region"])
}

func TestCitiesExceeding_ReturnsStoredRows(t *testing.T) {
	r, store, _ := newTestAPI(t)
	seedRun(t, store, defaultRows(), 0)

	w := performRequest(r, "GET", "/metrics/cities-exceeding-threshold")
	assert.Equal(t, http.StatusOK, w.Code)

	var resp []models.CityExceedsThreshold
	decodeJSON(t, w, &resp)
	require.Len(t, resp, 3)
	assert.Equal(t, "Kumasi", resp[0].City)
	assert.Equal(t, 10, resp[0].Threshold)
}

func TestCitiesExceeding_ThresholdFilter(t *testing.T) {
	r, store, _ := newTestAPI(t)
	seedRun(t, store, defaultRows(), 0)

	w := performRequest(r, "GET", "/metrics/cities-exceeding-threshold?threshold=19")
	assert.Equal(t, http.StatusOK, w.Code)
	var resp []models.CityExceedsThreshold
	decodeJSON(t, w, &resp)
	require.Len(t, resp, 2)
	assert.Equal(t, "Kumasi", resp[0].City)
	assert.Equal(t, "Accra", resp[1].City)

	// Zero disables the extra filter.
	w = performRequest(r, "GET", "/metrics/cities-exceeding-threshold?threshold=0")
	decodeJSON(t, w, &resp)
	assert.Len(t, resp, 3)

	w = performRequest(r, "GET", "/metrics/cities-exceeding-threshold?threshold=abc")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCityByName(t *testing.T) {
	r, store, _ := newTestAPI(t)
	run := seedRun(t, store, defaultRows(), 0)

	w := performRequest(r, "GET", "/city/obuasi")
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	decodeJSON(t, w, &resp)
	assert.Equal(t, "Obuasi", resp["city"])
	assert.Equal(t, "Ashanti", resp["region"])
	assert.EqualValues(t, 10, resp["galamsay_sites"])
	assert.Equal(t, false, resp["flagged"])
	assert.EqualValues(t, run.ID, resp["analysis_id"])
}

func TestCityByName_WithSpace(t *testing.T) {
	r, store, _ := newTestAPI(t)
	seedRun(t, store, []models.CityData{{City: "Cape Coast", Region: "Central", Sites: 8}}, 0)

	w := performRequest(r, "GET", "/city/Cape%20Coast")
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	decodeJSON(t, w, &resp)
	assert.Equal(t, "Cape Coast", resp["city"])
}

func TestCityByName_NotFound(t *testing.T) {
	r, store, _ := newTestAPI(t)
	seedRun(t, store, defaultRows(), 0)

	w := performRequest(r, "GET", "/city/Atlantis")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Atlantis")
}

func TestRegionByName(t *testing.T) {
	r, store, _ := newTestAPI(t)
	seedRun(t, store, defaultRows(), 0)

	w := performRequest(r, "GET", "/region/ashanti")
	assert.Equal(t, http.StatusOK, w.Code)

	var resp []models.CityData
	decodeJSON(t, w, &resp)
	require.Len(t, resp, 2)
	assert.Equal(t, "Kumasi", resp[0].City)
	assert.Equal(t, "Obuasi", resp[1].City)
}

func TestRegionByName_UnknownRegionEmptyList(t *testing.T) {
	r, store, _ := newTestAPI(t)
	seedRun(t, store, defaultRows(), 0)

	w := performRequest(r, "GET", "/region/Volta")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestRegionByName_NoRuns(t *testing.T) {
	r, _, _ := newTestAPI(t)

	w := performRequest(r, "GET", "/region/Ashanti")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRegionByName_TargetsAnalysisID(t *testing.T) {
	r, store, _ := newTestAPI(t)
	first := seedRun(t, store, []models.CityData{{City: "Obuasi", Region: "Ashanti", Sites: 45}}, 0)
	seedRun(t, store, []models.CityData{{City: "Konongo", Region: "Ashanti", Sites: 19}}, 0)

	w := performRequest(r, "GET", fmt.Sprintf("/region/Ashanti?analysis_id=%d", first.ID))
	assert.Equal(t, http.StatusOK, w.Code)

	var resp []models.CityData
	decodeJSON(t, w, &resp)
	require.Len(t, resp, 1)
	assert.Equal(t, "Obuasi", resp[0].City)
}

func TestRequestID_Generated(t *testing.T) {
	r, _, _ := newTestAPI(t)

	w := performRequest(r, "GET", "/")
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}

func TestRequestID_EchoesProvided(t *testing.T) {
	r, _, _ := newTestAPI(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/", nil)
	req.Header.Set(middleware.RequestIDHeader, "test-id-123")
	r.ServeHTTP(w, req)

	assert.Equal(t, "test-id-123", w.Header().Get(middleware.RequestIDHeader))
}

func TestPrometheusMetrics_Exposed(t *testing.T) {
	r, _, _ := newTestAPI(t)

	performRequest(r, "GET", "/health")
	w := performRequest(r, "GET", "/metrics")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "galamsay_http_requests_total")
}
