package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/s3-uploads-api/internal/middleware"
	"github.com/s3-uploads-api/internal/models"
	"github.com/s3-uploads-api/internal/services"
)

// AdminTemplateName is the name the settings page is rendered under.
const AdminTemplateName = "admin/plugins/s3-uploads"

// SettingsAdmin is the settings page backend.
type SettingsAdmin interface {
	View(csrf string) models.AdminView
	SaveS3Settings(ctx context.Context, req models.S3SettingsRequest) error
	SaveCredentials(ctx context.Context, req models.CredentialsRequest) error
}

type AdminHandler struct {
	admin SettingsAdmin
}

func NewAdminHandler(admin SettingsAdmin) *AdminHandler {
	return &AdminHandler{admin: admin}
}

// RenderAdmin renders the settings page
// GET /admin/plugins/s3-uploads
func (h *AdminHandler) RenderAdmin(c *gin.Context) {
	c.HTML(http.StatusOK, AdminTemplateName, h.admin.View(middleware.CSRFToken(c)))
}

// AdminData returns the settings page data as JSON
// GET /api/admin/plugins/s3-uploads
func (h *AdminHandler) AdminData(c *gin.Context) {
	c.JSON(http.StatusOK, h.admin.View(middleware.CSRFToken(c)))
}

// S3Settings saves bucket, host, path and region
// POST /api/admin/plugins/s3-uploads/s3settings
func (h *AdminHandler) S3Settings(c *gin.Context) {
	var req models.S3SettingsRequest
	if !bindOptional(c, &req) {
		return
	}

	if err := h.admin.SaveS3Settings(c.Request.Context(), req); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save settings"})
		return
	}

	c.JSON(http.StatusOK, "Saved!")
}

// Credentials saves the access key pair
// POST /api/admin/plugins/s3-uploads/credentials
func (h *AdminHandler) Credentials(c *gin.Context) {
	var req models.CredentialsRequest
	if !bindOptional(c, &req) {
		return
	}

	if err := h.admin.SaveCredentials(c.Request.Context(), req); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save settings"})
		return
	}

	c.JSON(http.StatusOK, "Saved!")
}

// Menu returns the admin navigation with this service's entry appended
// GET /api/admin/menu
func (h *AdminHandler) Menu(c *gin.Context) {
	c.JSON(http.StatusOK, services.AdminMenu(&models.AdminHeader{Plugins: []models.MenuEntry{}}))
}

// bindOptional binds JSON or form bodies. An empty body leaves every field
// at its zero value.
func bindOptional(c *gin.Context, obj interface{}) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBind(obj); err != nil && !errors.Is(err, io.EOF) {
		requestLog(c).Warn("invalid settings body: " + err.Error())
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}
