package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/saiinfotech/catalog-be/internal/api"
	"github.com/saiinfotech/catalog-be/internal/auth"
	"github.com/saiinfotech/catalog-be/internal/database"
	"github.com/saiinfotech/catalog-be/internal/images"
	"github.com/saiinfotech/catalog-be/internal/services"
	"github.com/saiinfotech/catalog-be/internal/websocket"
)

const (
	testAdminUsername = "admin"
	testAdminPassword = "test-admin-pass"
)

// fakeUploader stands in for the external image host.
type fakeUploader struct {
	calls [][]images.File
	fail  bool
}

func (f *fakeUploader) UploadAll(ctx context.Context, files []images.File) ([]string, error) {
	f.calls = append(f.calls, files)
	if f.fail {
		return nil, errors.New("image host unavailable")
	}
	urls := make([]string, len(files))
	for i, file := range files {
		urls[i] = "https://cdn.example/" + file.Name
	}
	return urls, nil
}

// testEnv wires the full router over a throwaway database.
type testEnv struct {
	router   http.Handler
	users    services.UserServiceProvider
	products services.ProductServiceProvider
	events   services.EventServiceProvider
	uploader *fakeUploader
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))

	tokens, err := auth.New("test-secret")
	require.NoError(t, err)

	userService := services.NewUserService(db)
	productService := services.NewProductService(db)
	eventService := services.NewEventService(db, nil)
	uploader := &fakeUploader{}

	router := api.NewRouter(
		tokens, userService, productService, eventService,
		uploader, websocket.NewHub(),
		testAdminUsername, testAdminPassword,
	)

	return &testEnv{
		router:   router,
		users:    userService,
		products: productService,
		events:   eventService,
		uploader: uploader,
	}
}

// doJSON performs a request with an optional JSON body and bearer token.
func (env *testEnv) doJSON(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

// login bootstraps the admin account and returns a valid bearer token.
func (env *testEnv) login(t *testing.T) string {
	t.Helper()

	w := env.doJSON(t, http.MethodPost, "/api/auth/setup", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = env.doJSON(t, http.MethodPost, "/api/auth/login", map[string]string{
		"username": testAdminUsername,
		"password": testAdminPassword,
	}, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}
