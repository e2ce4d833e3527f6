package server

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"instawinx/internal/config"
	"instawinx/internal/storage"
	"instawinx/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testEnv struct {
	t         *testing.T
	app       *fiber.App
	db        *gorm.DB
	uploadDir string
}

func newTestEnv(t *testing.T, opts ...func(*config.Config)) *testEnv {
	t.Helper()
	uploadDir := t.TempDir()
	cfg := &config.Config{
		Env:             "test",
		SessionTTLHours: 1,
		BodyLimitMB:     10,
		UploadBackend:   "local",
		UploadDir:       uploadDir,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	db := testutil.NewSQLiteDB(t)
	store, err := storage.NewLocal(uploadDir)
	require.NoError(t, err)

	srv, err := NewServerWithDeps(cfg, db, nil, store)
	require.NoError(t, err)
	return &testEnv{t: t, app: srv.NewApp(), db: db, uploadDir: uploadDir}
}

// browser keeps cookies between requests like a real client.
type browser struct {
	env     *testEnv
	cookies map[string]*http.Cookie
}

func (e *testEnv) browser() *browser {
	return &browser{env: e, cookies: map[string]*http.Cookie{}}
}

func (b *browser) do(req *http.Request) *http.Response {
	b.env.t.Helper()
	for _, c := range b.cookies {
		req.AddCookie(c)
	}
	resp, err := b.env.app.Test(req, -1)
	require.NoError(b.env.t, err)
	for _, c := range resp.Cookies() {
		if c.MaxAge < 0 || c.Value == "" {
			delete(b.cookies, c.Name)
			continue
		}
		b.cookies[c.Name] = c
	}
	return resp
}

func (b *browser) get(path string) *http.Response {
	return b.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (b *browser) postForm(path string, form url.Values) *http.Response {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

func (b *browser) postImage(path, filename, caption string, data []byte) *http.Response {
	b.env.t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if filename != "" {
		part, err := w.CreateFormFile("image", filename)
		require.NoError(b.env.t, err)
		_, err = part.Write(data)
		require.NoError(b.env.t, err)
	}
	require.NoError(b.env.t, w.WriteField("caption", caption))
	require.NoError(b.env.t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return b.do(req)
}

func (b *browser) register(username, password, fairyType string) *http.Response {
	return b.postForm("/register", url.Values{
		"username":   {username},
		"password":   {password},
		"fairy_type": {fairyType},
	})
}

func (b *browser) login(username, password string) *http.Response {
	return b.postForm("/login", url.Values{"username": {username}, "password": {password}})
}

// signUp registers and logs in, draining the login flash.
func (b *browser) signUp(username string) {
	b.env.t.Helper()
	require.Equal(b.env.t, fiber.StatusSeeOther, b.register(username, "segredo1", "Fada da Luz").StatusCode)
	require.Equal(b.env.t, "/", b.login(username, "segredo1").Header.Get("Location"))
	b.get("/")
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return out
}

func flashMessages(t *testing.T, body map[string]any) []string {
	t.Helper()
	raw, ok := body["flashes"].([]any)
	require.True(t, ok, "flashes missing: %v", body)
	var out []string
	for _, f := range raw {
		out = append(out, f.(map[string]any)["message"].(string))
	}
	return out
}
