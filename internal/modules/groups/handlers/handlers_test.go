package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/graham/internal/modules/groups"
)

type memoryRepo struct {
	stored groups.GroupSet
}

func (m *memoryRepo) Load(ctx context.Context) (groups.GroupSet, error) {
	return m.stored.Clone(), nil
}

func (m *memoryRepo) Save(ctx context.Context, set groups.GroupSet) error {
	m.stored = set.Clone()
	return nil
}

func setupRouter(t *testing.T) (*chi.Mux, *memoryRepo) {
	repo := &memoryRepo{stored: groups.GroupSet{
		groups.DefaultGroup(),
		{Name: "Tech", Tickers: []string{"AAPL", "MSFT"}},
	}}
	service := groups.NewService(repo, zerolog.Nop())
	require.NoError(t, service.Init(context.Background()))

	router := chi.NewRouter()
	router.Route("/api", NewHandler(service, zerolog.Nop()).RegisterRoutes)
	return router, repo
}

func do(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleList(t *testing.T) {
	router, _ := setupRouter(t)

	w := do(router, http.MethodGet, "/api/groups", "")

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Groups []groups.TickerGroup `json:"groups"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Groups, 2)
	assert.True(t, resp.Groups[0].IsDefault)
	assert.Equal(t, "Tech", resp.Groups[1].Name)
}

func TestHandleCreate(t *testing.T) {
	router, repo := setupRouter(t)

	w := do(router, http.MethodPost, "/api/groups", `{"name":"Energy"}`)

	require.Equal(t, http.StatusCreated, w.Code)
	var resp struct {
		Index int                `json:"index"`
		Group groups.TickerGroup `json:"group"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Index)
	assert.Equal(t, "Energy", resp.Group.Name)
	assert.Len(t, repo.stored, 3)
}

func TestHandleCreate_Validation(t *testing.T) {
	router, _ := setupRouter(t)

	assert.Equal(t, http.StatusBadRequest, do(router, http.MethodPost, "/api/groups", `{}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(router, http.MethodPost, "/api/groups", `{"name":"   "}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(router, http.MethodPost, "/api/groups", `not json`).Code)
}

func TestHandleDelete(t *testing.T) {
	router, repo := setupRouter(t)

	assert.Equal(t, http.StatusConflict, do(router, http.MethodDelete, "/api/groups/0", "").Code)
	assert.Equal(t, http.StatusNotFound, do(router, http.MethodDelete, "/api/groups/7", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(router, http.MethodDelete, "/api/groups/abc", "").Code)

	w := do(router, http.MethodDelete, "/api/groups/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, repo.stored, 1)
}

func TestHandleTickers(t *testing.T) {
	router, repo := setupRouter(t)

	w := do(router, http.MethodPost, "/api/groups/1/tickers", `{"symbol":" nvda "}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"AAPL", "MSFT", "NVDA"}, repo.stored[1].Tickers)

	w = do(router, http.MethodPost, "/api/groups/1/tickers", `{"symbol":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(router, http.MethodDelete, "/api/groups/1/tickers/msft", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"AAPL", "NVDA"}, repo.stored[1].Tickers)

	w = do(router, http.MethodDelete, "/api/groups/1/tickers", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, repo.stored[1].Tickers)

	var errResp map[string]string
	w = do(router, http.MethodPost, "/api/groups/9/tickers", `{"symbol":"X"}`)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
	assert.Equal(t, groups.ErrGroupNotFound.Error(), errResp["error"])
}
