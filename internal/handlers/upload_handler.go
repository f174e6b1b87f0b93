package handlers

import (
	"context"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/s3-uploads-api/internal/errs"
	"github.com/s3-uploads-api/internal/models"
)

// Uploader is the upload pipeline entry point.
type Uploader interface {
	UploadFile(ctx context.Context, file *models.LocalFile) (*models.UploadResult, error)
	UploadImage(ctx context.Context, img *models.ImageRef) (*models.UploadResult, error)
}

// UploadHandler stages multipart uploads on disk and hands them to the
// pipeline. Staged files are removed once the upload finishes.
type UploadHandler struct {
	uploader Uploader
	tmpDir   string
}

func NewUploadHandler(uploader Uploader, tmpDir string) *UploadHandler {
	if tmpDir == "" {
		tmpDir = os.TempDir()
	}
	return &UploadHandler{uploader: uploader, tmpDir: tmpDir}
}

// UploadFile handles a generic file upload
// POST /api/upload/file (multipart field "file")
func (h *UploadHandler) UploadFile(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		respondError(c, errs.Validation("invalid file"))
		return
	}

	staged, cleanup, err := h.stage(c, fh)
	if err != nil {
		respondError(c, err)
		return
	}
	defer cleanup()

	result, err := h.uploader.UploadFile(c.Request.Context(), staged)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, []models.UploadResult{*result})
}

// UploadImage handles an image upload, either multipart field "image" or a
// JSON body {"url": "..."} pointing at a remote image.
// POST /api/upload/image
func (h *UploadHandler) UploadImage(c *gin.Context) {
	var ref models.ImageRef

	if c.ContentType() == gin.MIMEJSON {
		var req models.RemoteImageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, errs.Validation("invalid image"))
			return
		}
		ref.URL = req.URL
	} else {
		fh, err := c.FormFile("image")
		if err != nil {
			respondError(c, errs.Validation("invalid image"))
			return
		}

		staged, cleanup, err := h.stage(c, fh)
		if err != nil {
			respondError(c, err)
			return
		}
		defer cleanup()
		ref.LocalFile = *staged
	}

	result, err := h.uploader.UploadImage(c.Request.Context(), &ref)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, []models.UploadResult{*result})
}

func (h *UploadHandler) stage(c *gin.Context, fh *multipart.FileHeader) (*models.LocalFile, func(), error) {
	dst := filepath.Join(h.tmpDir, "s3-uploads-"+uuid.NewString())
	if err := c.SaveUploadedFile(fh, dst); err != nil {
		wrapped := errs.Wrap(errs.KindFileRead, "upload", "stage upload", err)
		requestLog(c).ErrorWith("failed to stage upload", wrapped, map[string]interface{}{"name": fh.Filename})
		return nil, nil, wrapped
	}

	file := &models.LocalFile{Path: dst, Name: fh.Filename, Size: fh.Size}
	return file, func() { _ = os.Remove(dst) }, nil
}
