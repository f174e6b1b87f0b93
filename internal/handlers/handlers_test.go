package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s3-uploads-api/internal/errs"
	"github.com/s3-uploads-api/internal/logger"
	"github.com/s3-uploads-api/internal/middleware"
	"github.com/s3-uploads-api/internal/models"
	"github.com/s3-uploads-api/internal/utils"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeUploader struct {
	file     *models.LocalFile
	image    *models.ImageRef
	contents string
	stagedAt string
	err      error
}

func (f *fakeUploader) UploadFile(_ context.Context, file *models.LocalFile) (*models.UploadResult, error) {
	f.file = file
	f.stagedAt = file.Path
	if data, err := os.ReadFile(file.Path); err == nil {
		f.contents = string(data)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &models.UploadResult{Name: file.Name, URL: "//b.s3.amazonaws.com/k.txt"}, nil
}

func (f *fakeUploader) UploadImage(_ context.Context, img *models.ImageRef) (*models.UploadResult, error) {
	f.image = img
	if f.err != nil {
		return nil, f.err
	}
	name := img.Name
	if img.IsRemote() {
		name = "remote.png"
	}
	return &models.UploadResult{Name: name, URL: "//b.s3.amazonaws.com/k.png"}, nil
}

type fakeAdmin struct {
	view  models.AdminView
	s3req *models.S3SettingsRequest
	creds *models.CredentialsRequest
	err   error
}

func (f *fakeAdmin) View(csrf string) models.AdminView {
	v := f.view
	v.CSRF = csrf
	return v
}

func (f *fakeAdmin) SaveS3Settings(_ context.Context, req models.S3SettingsRequest) error {
	f.s3req = &req
	return f.err
}

func (f *fakeAdmin) SaveCredentials(_ context.Context, req models.CredentialsRequest) error {
	f.creds = &req
	return f.err
}

func newTestRouter(t *testing.T, up *fakeUploader, admin *fakeAdmin) *gin.Engine {
	t.Helper()
	return SetupRouter(RouterDeps{
		Log:            logger.Nop(),
		AdminJWTSecret: testSecret,
		Upload:         NewUploadHandler(up, t.TempDir()),
		Admin:          NewAdminHandler(admin),
	})
}

func multipartBody(t *testing.T, field, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func adminToken(t *testing.T) string {
	t.Helper()
	tok, err := utils.GenerateAdminToken("root", testSecret, time.Hour)
	require.NoError(t, err)
	return "Bearer " + tok
}

func TestUploadFile(t *testing.T) {
	up := &fakeUploader{}
	router := newTestRouter(t, up, &fakeAdmin{})

	body, ct := multipartBody(t, "file", "notes.txt", "hello")
	req := httptest.NewRequest(http.MethodPost, "/api/upload/file", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var got []models.UploadResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "notes.txt", got[0].Name)
	assert.Equal(t, "//b.s3.amazonaws.com/k.txt", got[0].URL)

	assert.Equal(t, "hello", up.contents)
	assert.Equal(t, int64(5), up.file.Size)

	_, err := os.Stat(up.stagedAt)
	assert.True(t, os.IsNotExist(err), "staged file should be removed")
}

func TestUploadFile_Errors(t *testing.T) {
	tests := []struct {
		name    string
		field   string
		err     error
		status  int
		message string
	}{
		{"missing field", "other", nil, http.StatusBadRequest, "invalid file"},
		{"too big", "file", errs.FileTooBig(2048), http.StatusRequestEntityTooLarge, "[[error:file-too-big, 2048]]"},
		{"store failure", "file", errs.Wrap(errs.KindStoreWrite, "storage", "put", assert.AnError), http.StatusInternalServerError, "upload failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(t, &fakeUploader{err: tt.err}, &fakeAdmin{})

			body, ct := multipartBody(t, tt.field, "a.bin", "x")
			req := httptest.NewRequest(http.MethodPost, "/api/upload/file", body)
			req.Header.Set("Content-Type", ct)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			var resp map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.message, resp["error"])
		})
	}
}

func TestUploadImage_Multipart(t *testing.T) {
	up := &fakeUploader{}
	router := newTestRouter(t, up, &fakeAdmin{})

	body, ct := multipartBody(t, "image", "cat.png", "png-bytes")
	req := httptest.NewRequest(http.MethodPost, "/api/upload/image", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, up.image)
	assert.False(t, up.image.IsRemote())
	assert.Equal(t, "cat.png", up.image.Name)
	assert.NotEmpty(t, up.image.Path)
}

func TestUploadImage_RemoteURL(t *testing.T) {
	up := &fakeUploader{}
	router := newTestRouter(t, up, &fakeAdmin{})

	req := httptest.NewRequest(http.MethodPost, "/api/upload/image", strings.NewReader(`{"url":"https://cdn.example.com/a/cat.png"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, up.image)
	assert.Equal(t, "https://cdn.example.com/a/cat.png", up.image.URL)

	// missing url
	req = httptest.NewRequest(http.MethodPost, "/api/upload/image", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdmin_RequiresToken(t *testing.T) {
	router := newTestRouter(t, &fakeUploader{}, &fakeAdmin{})

	for _, path := range []string{"/admin/plugins/s3-uploads", "/api/admin/plugins/s3-uploads", "/api/admin/menu"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

// fetchCSRF loads the admin data route and returns the issued cookie.
func fetchCSRF(t *testing.T, router *gin.Engine) (*http.Cookie, models.AdminView) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/admin/plugins/s3-uploads", nil)
	req.Header.Set("Authorization", adminToken(t))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var view models.AdminView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))

	for _, ck := range w.Result().Cookies() {
		if ck.Name == middleware.CSRFCookie {
			return ck, view
		}
	}
	t.Fatal("csrf cookie not set")
	return nil, view
}

func TestAdminData(t *testing.T) {
	admin := &fakeAdmin{view: models.AdminView{Bucket: "b", Region: "eu-west-1"}}
	router := newTestRouter(t, &fakeUploader{}, admin)

	cookie, view := fetchCSRF(t, router)
	assert.Equal(t, "b", view.Bucket)
	assert.Equal(t, "eu-west-1", view.Region)
	assert.Equal(t, cookie.Value, view.CSRF)
}

func TestRenderAdmin(t *testing.T) {
	admin := &fakeAdmin{view: models.AdminView{Bucket: "my-bucket", Path: "uploads/"}}
	router := newTestRouter(t, &fakeUploader{}, admin)

	req := httptest.NewRequest(http.MethodGet, "/admin/plugins/s3-uploads", nil)
	req.Header.Set("Authorization", adminToken(t))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `value="my-bucket"`)
	assert.Contains(t, w.Body.String(), `value="uploads/"`)
	assert.Contains(t, w.Body.String(), `name="_csrf"`)
}

func TestS3Settings_JSON(t *testing.T) {
	admin := &fakeAdmin{}
	router := newTestRouter(t, &fakeUploader{}, admin)
	cookie, _ := fetchCSRF(t, router)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/plugins/s3-uploads/s3settings",
		strings.NewReader(`{"bucket":"b2","region":"ap-south-1"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", adminToken(t))
	req.Header.Set(middleware.CSRFHeader, cookie.Value)
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `"Saved!"`, w.Body.String())
	require.NotNil(t, admin.s3req)
	assert.Equal(t, models.S3SettingsRequest{Bucket: "b2", Region: "ap-south-1"}, *admin.s3req)
}

func TestCredentials_Form(t *testing.T) {
	admin := &fakeAdmin{}
	router := newTestRouter(t, &fakeUploader{}, admin)
	cookie, _ := fetchCSRF(t, router)

	form := url.Values{}
	form.Set("_csrf", cookie.Value)
	form.Set("accessKeyId", "AKIA")
	form.Set("secretAccessKey", "shh")

	req := httptest.NewRequest(http.MethodPost, "/api/admin/plugins/s3-uploads/credentials", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", adminToken(t))
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, admin.creds)
	assert.Equal(t, "AKIA", admin.creds.AccessKeyID)
	assert.Equal(t, "shh", admin.creds.SecretAccessKey)
}

func TestS3Settings_EmptyBodySavesEmptyFields(t *testing.T) {
	admin := &fakeAdmin{}
	router := newTestRouter(t, &fakeUploader{}, admin)
	cookie, _ := fetchCSRF(t, router)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/plugins/s3-uploads/s3settings", nil)
	req.Header.Set("Authorization", adminToken(t))
	req.Header.Set(middleware.CSRFHeader, cookie.Value)
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, admin.s3req)
	assert.Equal(t, models.S3SettingsRequest{}, *admin.s3req)
}

func TestAdminSave_RejectsMissingCSRF(t *testing.T) {
	admin := &fakeAdmin{}
	router := newTestRouter(t, &fakeUploader{}, admin)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/plugins/s3-uploads/credentials", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", adminToken(t))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Nil(t, admin.creds)
}

func TestAdminSave_StoreError(t *testing.T) {
	admin := &fakeAdmin{err: assert.AnError}
	router := newTestRouter(t, &fakeUploader{}, admin)
	cookie, _ := fetchCSRF(t, router)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/plugins/s3-uploads/s3settings", strings.NewReader(`{"bucket":"b"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", adminToken(t))
	req.Header.Set(middleware.CSRFHeader, cookie.Value)
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "Saved!")
}

func TestMenu(t *testing.T) {
	router := newTestRouter(t, &fakeUploader{}, &fakeAdmin{})

	req := httptest.NewRequest(http.MethodGet, "/api/admin/menu", nil)
	req.Header.Set("Authorization", adminToken(t))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var header models.AdminHeader
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &header))
	require.Len(t, header.Plugins, 1)
	assert.Equal(t, "/plugins/s3-uploads", header.Plugins[0].Route)
	assert.Equal(t, "fa-envelope-o", header.Plugins[0].Icon)
	assert.Equal(t, "S3 Uploads", header.Plugins[0].Name)
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t, &fakeUploader{}, &fakeAdmin{})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRespondError_LogsThroughRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	router := SetupRouter(RouterDeps{
		Log:            logger.New(&logger.Config{Level: "debug", Format: "json", Output: &buf}),
		AdminJWTSecret: testSecret,
		Upload:         NewUploadHandler(&fakeUploader{err: errs.FileTooBig(1)}, t.TempDir()),
		Admin:          NewAdminHandler(&fakeAdmin{}),
	})

	body, ct := multipartBody(t, "file", "a.bin", "x")
	req := httptest.NewRequest(http.MethodPost, "/api/upload/file", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Contains(t, buf.String(), `"route":"/api/upload/file"`)
	assert.Contains(t, buf.String(), "request failed")
	assert.Contains(t, buf.String(), `"level":"debug"`)
}
