package httpapi

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RakanBA/AYAN/internal/app"
	"github.com/RakanBA/AYAN/internal/catalog"
	"github.com/RakanBA/AYAN/internal/gamification"
	"github.com/RakanBA/AYAN/internal/model"
	"github.com/RakanBA/AYAN/internal/recognition"
	"github.com/RakanBA/AYAN/internal/store"
)

const jpegDataURL = "data:image/jpeg;base64,/9j/4AAQSkZJRg=="

type identifierFunc func(ctx context.Context, req recognition.Request) (model.Landmark, error)

func (f identifierFunc) Identify(ctx context.Context, req recognition.Request) (model.Landmark, error) {
	return f(ctx, req)
}

func landmarkIdentifier(cat *catalog.Catalog, id string) identifierFunc {
	return func(context.Context, recognition.Request) (model.Landmark, error) {
		lm, _ := cat.ByID(id)
		return lm, nil
	}
}

func failingIdentifier(err error) identifierFunc {
	return func(context.Context, recognition.Request) (model.Landmark, error) {
		return model.Landmark{}, err
	}
}

func newTestRouter(t *testing.T, id func(*catalog.Catalog) app.Identifier, origins ...string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cat := catalog.Default()
	core := app.New(app.Deps{
		Game:       gamification.New(store.NewMemoryStore(), gamification.DefaultRules(), nil),
		Catalog:    cat,
		Identifier: id(cat),
	})
	h := NewHandler(core, nil, FixedOrigin(true))
	return NewRouter(RouterConfig{Handler: h, CORSOrigins: origins})
}

func kingdomCentre(cat *catalog.Catalog) app.Identifier {
	return landmarkIdentifier(cat, "kingdom-centre")
}

func doRequest(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHealthz(t *testing.T) {
	r := newTestRouter(t, kingdomCentre)

	rec := doRequest(t, r, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode(t, rec)["status"])
}

func TestRequestIDIsEchoedOrGenerated(t *testing.T) {
	r := newTestRouter(t, kingdomCentre)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(headerRequestID, "req-123")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, "req-123", rec.Header().Get(headerRequestID))

	rec = doRequest(t, r, http.MethodGet, "/healthz", nil)
	assert.NotEmpty(t, rec.Header().Get(headerRequestID))
}

func TestCORSPreflight(t *testing.T) {
	r := newTestRouter(t, kingdomCentre)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/identify", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
}

func TestCORSRestrictedOrigins(t *testing.T) {
	r := newTestRouter(t, kingdomCentre, "https://ayan.example.com")

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "https://ayan.example.com")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://ayan.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestStateStartsOnScan(t *testing.T) {
	r := newTestRouter(t, kingdomCentre)

	rec := doRequest(t, r, http.MethodGet, "/api/v1/state", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode(t, rec)
	assert.Equal(t, "scan", view["screen"])
	assert.Equal(t, "en", view["language"])
	assert.Equal(t, "ltr", view["direction"])
	assert.Equal(t, float64(0), view["points"])
	assert.Equal(t, false, view["can_go_back"])
}

func TestNavigateAndBack(t *testing.T) {
	r := newTestRouter(t, kingdomCentre)

	rec := doRequest(t, r, http.MethodPost, "/api/v1/navigate", map[string]string{"screen": "rewards"})
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode(t, rec)
	assert.Equal(t, "rewards", view["screen"])
	assert.Equal(t, true, view["can_go_back"])

	rec = doRequest(t, r, http.MethodPost, "/api/v1/back", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "scan", decode(t, rec)["screen"])
}

func TestNavigateRejectsUnknownScreen(t *testing.T) {
	r := newTestRouter(t, kingdomCentre)

	rec := doRequest(t, r, http.MethodPost, "/api/v1/navigate", map[string]string{"screen": "settings"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/navigate", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCaptureFromDataURL(t *testing.T) {
	r := newTestRouter(t, kingdomCentre)

	rec := doRequest(t, r, http.MethodPost, "/api/v1/scan/start", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "camera", decode(t, rec)["screen"])

	rec = doRequest(t, r, http.MethodPost, "/api/v1/capture", map[string]string{"image_data_url": jpegDataURL})
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode(t, rec)
	assert.Equal(t, "loading", view["screen"])
	body := view["body"].(map[string]any)
	assert.Equal(t, true, body["has_capture"])
}

func TestCaptureFromMultipart(t *testing.T) {
	r := newTestRouter(t, kingdomCentre)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "photo.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10, 'J', 'F', 'I', 'F'})
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/capture", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "loading", decode(t, rec)["screen"])
}

func TestCaptureRequiresImage(t *testing.T) {
	r := newTestRouter(t, kingdomCentre)

	rec := doRequest(t, r, http.MethodPost, "/api/v1/capture", map[string]string{"image_data_url": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, r, http.MethodPost, "/api/v1/capture", map[string]string{"image_data_url": "not-a-data-url"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestIdentifySuccessRewardsScan(t *testing.T) {
	r := newTestRouter(t, kingdomCentre)

	rec := doRequest(t, r, http.MethodPost, "/api/v1/capture", map[string]string{"image_data_url": jpegDataURL})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, r, http.MethodPost, "/api/v1/identify", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	view := decode(t, rec)
	assert.Equal(t, "results", view["screen"])
	assert.Equal(t, float64(10), view["points"])

	notice, ok := view["notification"].(map[string]any)
	require.True(t, ok, "expected a badge notification")
	assert.Equal(t, "first-scan", notice["id"])

	body := view["body"].(map[string]any)
	assert.Equal(t, true, body["from_capture"])
	assert.Equal(t, jpegDataURL, body["image_source"])

	rec = doRequest(t, r, http.MethodPost, "/api/v1/badge/dismiss", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	_, stillShown := decode(t, rec)["notification"]
	assert.False(t, stillShown)

	rec = doRequest(t, r, http.MethodGet, "/api/v1/history", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	entries := decode(t, rec)["entries"].([]any)
	assert.Len(t, entries, 1)
}

func TestIdentifyWithoutCaptureConflicts(t *testing.T) {
	r := newTestRouter(t, kingdomCentre)

	rec := doRequest(t, r, http.MethodPost, "/api/v1/identify", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, app.ErrNoCapture.Error(), decode(t, rec)["error"])
}

func TestIdentifyFailureStatuses(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		kind   string
	}{
		{"not a building", &recognition.Error{Kind: recognition.KindNotABuilding, Label: "Tree"}, http.StatusUnprocessableEntity, "not_a_building"},
		{"landmark not found", &recognition.Error{Kind: recognition.KindLandmarkNotFound, Label: "Unknown"}, http.StatusUnprocessableEntity, "landmark_not_found"},
		{"service", &recognition.Error{Kind: recognition.KindService}, http.StatusBadGateway, "service"},
		{"insecure", &recognition.Error{Kind: recognition.KindInsecureTransport}, http.StatusBadRequest, "insecure_transport"},
		{"unexpected", recognition.ErrEmptyImage, http.StatusInternalServerError, app.KindUnexpected},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRouter(t, func(*catalog.Catalog) app.Identifier { return failingIdentifier(tc.err) })

			rec := doRequest(t, r, http.MethodPost, "/api/v1/capture", map[string]string{"image_data_url": jpegDataURL})
			require.Equal(t, http.StatusOK, rec.Code)

			rec = doRequest(t, r, http.MethodPost, "/api/v1/identify", nil)
			require.Equal(t, tc.status, rec.Code, rec.Body.String())
			resp := decode(t, rec)
			failure := resp["failure"].(map[string]any)
			assert.Equal(t, tc.kind, failure["kind"])
			assert.NotEmpty(t, failure["title"])
			view := resp["view"].(map[string]any)
			assert.Equal(t, "loading", view["screen"])

			rec = doRequest(t, r, http.MethodPost, "/api/v1/cancel", nil)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "scan", decode(t, rec)["screen"])
		})
	}
}

func TestIdentifyUsesRequestScheme(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var seen []bool
	cat := catalog.Default()
	core := app.New(app.Deps{
		Game:    gamification.New(store.NewMemoryStore(), gamification.DefaultRules(), nil),
		Catalog: cat,
		Identifier: identifierFunc(func(_ context.Context, req recognition.Request) (model.Landmark, error) {
			seen = append(seen, req.OriginSecure)
			lm, _ := cat.ByID("hegra")
			return lm, nil
		}),
	})
	r := NewRouter(RouterConfig{Handler: NewHandler(core, nil, nil)})

	for _, proto := range []string{"http", "https"} {
		rec := doRequest(t, r, http.MethodPost, "/api/v1/capture", map[string]string{"image_data_url": jpegDataURL})
		require.Equal(t, http.StatusOK, rec.Code)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/identify", nil)
		req.Header.Set("X-Forwarded-Proto", proto)
		rec = httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	}
	assert.Equal(t, []bool{false, true}, seen)
}

func TestPendingFailureBlocksNavigation(t *testing.T) {
	r := newTestRouter(t, func(*catalog.Catalog) app.Identifier {
		return failingIdentifier(&recognition.Error{Kind: recognition.KindNotABuilding})
	})

	require.Equal(t, http.StatusOK, doRequest(t, r, http.MethodPost, "/api/v1/scan/start", nil).Code)
	rec := doRequest(t, r, http.MethodPost, "/api/v1/capture", map[string]string{"image_data_url": jpegDataURL})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doRequest(t, r, http.MethodPost, "/api/v1/identify", nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = doRequest(t, r, http.MethodPost, "/api/v1/navigate", map[string]string{"screen": "explore"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, app.ErrFailurePending.Error(), decode(t, rec)["error"])
	assert.Equal(t, http.StatusConflict, doRequest(t, r, http.MethodPost, "/api/v1/scan/start", nil).Code)
	assert.Equal(t, http.StatusConflict, doRequest(t, r, http.MethodPost, "/api/v1/scan/again", nil).Code)
	assert.Equal(t, http.StatusConflict, doRequest(t, r, http.MethodPost, "/api/v1/landmarks/hegra/open", nil).Code)

	rec = doRequest(t, r, http.MethodGet, "/api/v1/state", nil)
	view := decode(t, rec)
	assert.Equal(t, "loading", view["screen"])
	assert.NotNil(t, view["body"].(map[string]any)["failure"])

	rec = doRequest(t, r, http.MethodPost, "/api/v1/back", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	view = decode(t, rec)
	assert.Equal(t, "camera", view["screen"])

	rec = doRequest(t, r, http.MethodPost, "/api/v1/navigate", map[string]string{"screen": "explore"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNavigateToResultsNeedsSelection(t *testing.T) {
	r := newTestRouter(t, kingdomCentre)

	rec := doRequest(t, r, http.MethodPost, "/api/v1/navigate", map[string]string{"screen": "results"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, app.ErrNothingSelected.Error(), decode(t, rec)["error"])
}

func TestLandmarksQuery(t *testing.T) {
	r := newTestRouter(t, kingdomCentre)

	rec := doRequest(t, r, http.MethodGet, "/api/v1/landmarks", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode(t, rec)
	assert.Equal(t, float64(9), resp["total"])
	assert.Len(t, resp["items"], catalog.PageSize)
	assert.Equal(t, true, resp["has_more"])

	rec = doRequest(t, r, http.MethodGet, "/api/v1/landmarks?page=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp = decode(t, rec)
	assert.Len(t, resp["items"], 9)
	assert.Equal(t, false, resp["has_more"])

	rec = doRequest(t, r, http.MethodGet, "/api/v1/landmarks?category=Modern", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(4), decode(t, rec)["total"])

	rec = doRequest(t, r, http.MethodGet, "/api/v1/landmarks?search=hegra", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), decode(t, rec)["total"])
}

func TestLandmarksRejectsBadQuery(t *testing.T) {
	r := newTestRouter(t, kingdomCentre)

	rec := doRequest(t, r, http.MethodGet, "/api/v1/landmarks?page=0", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, r, http.MethodGet, "/api/v1/landmarks?sort=random", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOpenLandmark(t *testing.T) {
	r := newTestRouter(t, kingdomCentre)

	rec := doRequest(t, r, http.MethodPost, "/api/v1/landmarks/masmak-fortress/open", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode(t, rec)
	assert.Equal(t, "results", view["screen"])
	body := view["body"].(map[string]any)
	assert.Equal(t, false, body["from_capture"])

	rec = doRequest(t, r, http.MethodPost, "/api/v1/landmarks/atlantis/open", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSetLanguage(t *testing.T) {
	r := newTestRouter(t, kingdomCentre)

	rec := doRequest(t, r, http.MethodPost, "/api/v1/language", map[string]string{"language": "ar"})
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode(t, rec)
	assert.Equal(t, "ar", view["language"])
	assert.Equal(t, "rtl", view["direction"])

	rec = doRequest(t, r, http.MethodPost, "/api/v1/language", map[string]string{"language": "fr"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMessages(t *testing.T) {
	r := newTestRouter(t, kingdomCentre)

	rec := doRequest(t, r, http.MethodGet, "/api/v1/i18n/ar", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode(t, rec)
	assert.Equal(t, "rtl", resp["direction"])
	assert.NotEmpty(t, resp["messages"])

	rec = doRequest(t, r, http.MethodGet, "/api/v1/i18n/fr", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSwaggerSpecUsesRequestHost(t *testing.T) {
	r := newTestRouter(t, kingdomCentre)

	req := httptest.NewRequest(http.MethodGet, "/docs/openapi.json", nil)
	req.Host = "ayan.example.com"
	req.Header.Set("X-Forwarded-Proto", "https")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	doc := decode(t, rec)
	servers := doc["servers"].([]any)
	require.Len(t, servers, 1)
	assert.Equal(t, "https://ayan.example.com", servers[0].(map[string]any)["url"])
	paths := doc["paths"].(map[string]any)
	assert.Contains(t, paths, "/api/v1/identify")

	rec = doRequest(t, r, http.MethodGet, "/docs", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "swagger-ui")
}

func TestRequestBaseURL(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Host = "localhost:9000"
	assert.Equal(t, "http://localhost:9000", requestBaseURL(req))

	req.TLS = &tls.ConnectionState{}
	assert.Equal(t, "https://localhost:9000", requestBaseURL(req))

	req.TLS = nil
	req.Header.Set("X-Forwarded-Proto", "https, http")
	assert.Equal(t, "https://localhost:9000", requestBaseURL(req))

	req.Host = ""
	req.Header.Del("X-Forwarded-Proto")
	assert.Equal(t, "http://localhost:8080", requestBaseURL(req))
}

func TestMetricsEndpoint(t *testing.T) {
	r := newTestRouter(t, kingdomCentre)

	doRequest(t, r, http.MethodGet, "/healthz", nil)
	rec := doRequest(t, r, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ayan_http_requests_total")
}
