package handlers_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type uploadFile struct {
	name string
	size int
}

func (env *testEnv) doUpload(t *testing.T, files []uploadFile, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, f := range files {
		part, err := mw.CreateFormFile("images", f.name)
		require.NoError(t, err)
		_, err = part.Write(bytes.Repeat([]byte{0xAB}, f.size))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func TestUpload_RequiresToken(t *testing.T) {
	env := newTestEnv(t)

	w := env.doUpload(t, []uploadFile{{name: "a.jpg", size: 100}}, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, env.uploader.calls)
}

func TestUpload_Success(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	w := env.doUpload(t, []uploadFile{
		{name: "cover.jpg", size: 2048},
		{name: "side.jpg", size: 1024},
	}, token)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		ImageURLs []string `json:"imageUrls"`
	}
	decodeJSON(t, w, &resp)
	require.Len(t, resp.ImageURLs, 2)
	assert.Equal(t, "https://cdn.example/cover.jpg", resp.ImageURLs[0])
	assert.Equal(t, "https://cdn.example/side.jpg", resp.ImageURLs[1])

	require.Len(t, env.uploader.calls, 1)
	require.Len(t, env.uploader.calls[0], 2)
	assert.Equal(t, "cover.jpg", env.uploader.calls[0][0].Name)
}

func TestUpload_NoFiles(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	w := env.doUpload(t, nil, token)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]string
	decodeJSON(t, w, &resp)
	assert.Equal(t, "No files uploaded", resp["message"])
	assert.Empty(t, env.uploader.calls)
}

func TestUpload_TooManyFiles(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	files := make([]uploadFile, 11)
	for i := range files {
		files[i] = uploadFile{name: "img.jpg", size: 64}
	}

	w := env.doUpload(t, files, token)
	require.Equal(t, http.StatusBadRequest, w.Code)

	// The external host is never contacted.
	assert.Empty(t, env.uploader.calls)
}

func TestUpload_OversizeFile(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	w := env.doUpload(t, []uploadFile{
		{name: "ok.jpg", size: 1024},
		{name: "huge.jpg", size: 5<<20 + 1},
	}, token)
	require.Equal(t, http.StatusBadRequest, w.Code)

	// The external host is never contacted.
	assert.Empty(t, env.uploader.calls)
}

func TestUpload_HostFailure(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)
	env.uploader.fail = true

	w := env.doUpload(t, []uploadFile{{name: "a.jpg", size: 512}}, token)
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var resp map[string]string
	decodeJSON(t, w, &resp)
	assert.Equal(t, "Failed to upload images", resp["message"])
}
