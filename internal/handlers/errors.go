package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/s3-uploads-api/internal/errs"
	"github.com/s3-uploads-api/internal/logger"
)

// respondError maps an error kind to a status. Operational errors get an
// opaque message; the detail was already logged by the service.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch errs.KindOf(err) {
	case errs.KindValidation:
		status = http.StatusBadRequest
	case errs.KindQuotaExceeded:
		status = http.StatusRequestEntityTooLarge
	}

	requestLog(c).Debug("request failed: " + err.Error())
	c.JSON(status, gin.H{"error": errs.PublicMessage(err)})
}

// requestLog returns the request-scoped logger tagged with the matched route.
func requestLog(c *gin.Context) *logger.Logger {
	return logger.FromContext(c.Request.Context()).With("route", c.FullPath())
}
