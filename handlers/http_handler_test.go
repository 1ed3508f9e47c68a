package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/fotopool/fotopool-sessions/logging"
	"github.com/fotopool/fotopool-sessions/models"
	"github.com/fotopool/fotopool-sessions/services"
	"github.com/fotopool/fotopool-sessions/store"
)

func newTestRouter(ttl time.Duration, maxPhotos int, maxFileBytes int64) *gin.Engine {
	gin.SetMode(gin.TestMode)

	l := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	blobs := store.NewMemoryBlobStore()
	sessStore := store.NewSessionStoreImpl(blobs)

	sessSvc := services.NewSessionServiceImpl(sessStore, ttl, l)
	photoSvc := services.NewPhotoServiceImpl(sessStore, blobs, maxPhotos, maxFileBytes, l)

	engine := gin.New()
	engine.Use(RequestID())
	NewHttpHandler(sessSvc, photoSvc, l).Register(engine)
	return engine
}

func defaultTestRouter() *gin.Engine {
	return newTestRouter(7*24*time.Hour, 50, 25*1024*1024)
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createSession(t *testing.T, r *gin.Engine, title string) models.CreateSessionReply {
	t.Helper()

	w := doJSON(t, r, http.MethodPost, "/api/session", map[string]any{"title": title})
	require.Equal(t, http.StatusOK, w.Code)

	var reply models.CreateSessionReply
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reply))
	return reply
}

func uploadMultipart(t *testing.T, r *gin.Engine, sessionID string, fields map[string]string, fname string, content []byte) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if content != nil {
		fw, err := mw.CreateFormFile("file", fname)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/session/"+sessionID+"/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateSessionEndpoint(t *testing.T) {
	r := defaultTestRouter()

	reply := createSession(t, r, "Wedding")
	require.Len(t, reply.SessionID, 8)
	require.WithinDuration(t, time.Now().UTC().Add(7*24*time.Hour), reply.ExpiresAt, time.Minute)
}

func TestCreateSessionEmptyBody(t *testing.T) {
	r := defaultTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/session", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestGetSessionEndpoint(t *testing.T) {
	r := defaultTestRouter()
	reply := createSession(t, r, "Wedding")

	w := doJSON(t, r, http.MethodGet, "/api/session/"+reply.SessionID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var session models.Session
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &session))
	require.Equal(t, "Wedding", session.Title)
	require.Equal(t, 0, session.PhotoCount)
}

func TestGetSessionNotFound(t *testing.T) {
	r := defaultTestRouter()

	w := doJSON(t, r, http.MethodGet, "/api/session/missing1", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Contains(t, body["error"], "session not found")
}

func TestGetSessionExpired(t *testing.T) {
	r := newTestRouter(-time.Hour, 50, 25*1024*1024)
	reply := createSession(t, r, "Old")

	w := doJSON(t, r, http.MethodGet, "/api/session/"+reply.SessionID, nil)
	require.Equal(t, http.StatusGone, w.Code)
}

func TestUploadAndFetchPhoto(t *testing.T) {
	r := defaultTestRouter()
	reply := createSession(t, r, "Wedding")

	content := bytes.Repeat([]byte{0xCD}, 1024)
	w := uploadMultipart(t, r, reply.SessionID, map[string]string{"groupId": "family"}, "a.jpg", content)
	require.Equal(t, http.StatusOK, w.Code)

	var upload models.UploadReply
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &upload))
	require.True(t, upload.OK)
	require.Equal(t, "a.jpg", upload.Fname)
	require.Equal(t, 1, upload.PhotoCount)

	w = doJSON(t, r, http.MethodGet, "/api/session/"+reply.SessionID+"/photo/a.jpg", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, content, w.Body.Bytes())
	require.Equal(t, "public, max-age=86400", w.Header().Get("Cache-Control"))

	// no thumbnail was uploaded, the thumb path falls back to the photo
	w = doJSON(t, r, http.MethodGet, "/api/session/"+reply.SessionID+"/thumb/a.jpg", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, content, w.Body.Bytes())
}

func TestUploadRespectsFnameField(t *testing.T) {
	r := defaultTestRouter()
	reply := createSession(t, r, "Wedding")

	w := uploadMultipart(t, r, reply.SessionID, map[string]string{"fname": "renamed.jpg"}, "orig.jpg", []byte("x"))
	require.Equal(t, http.StatusOK, w.Code)

	var upload models.UploadReply
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &upload))
	require.Equal(t, "renamed.jpg", upload.Fname)
}

func TestUploadMissingFile(t *testing.T) {
	r := defaultTestRouter()
	reply := createSession(t, r, "Wedding")

	w := uploadMultipart(t, r, reply.SessionID, map[string]string{"fname": "a.jpg"}, "", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadQuotaExceeded(t *testing.T) {
	r := newTestRouter(time.Hour, 1, 25*1024*1024)
	reply := createSession(t, r, "Small")

	w := uploadMultipart(t, r, reply.SessionID, nil, "a.jpg", []byte("x"))
	require.Equal(t, http.StatusOK, w.Code)

	w = uploadMultipart(t, r, reply.SessionID, nil, "b.jpg", []byte("x"))
	require.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestUploadPayloadTooLarge(t *testing.T) {
	r := newTestRouter(time.Hour, 50, 16)
	reply := createSession(t, r, "Tiny")

	w := uploadMultipart(t, r, reply.SessionID, nil, "big.jpg", bytes.Repeat([]byte{0x01}, 64))
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFetchMissingAsset(t *testing.T) {
	r := defaultTestRouter()
	reply := createSession(t, r, "Wedding")

	for _, kind := range []string{"photo", "thumb"} {
		w := doJSON(t, r, http.MethodGet, "/api/session/"+reply.SessionID+"/"+kind+"/nope.jpg", nil)
		require.Equal(t, http.StatusNotFound, w.Code, kind)
	}
}

func TestUnmatchedRoute(t *testing.T) {
	r := defaultTestRouter()

	w := doJSON(t, r, http.MethodGet, "/api/unknown", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "Not found", strings.TrimSpace(w.Body.String()))
}

func TestRequestIDHeader(t *testing.T) {
	r := defaultTestRouter()

	w := doJSON(t, r, http.MethodPost, "/api/session", map[string]any{})
	require.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
