package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/s3-uploads-api/internal/utils"
)

const (
	CSRFCookie  = "_csrf"
	CSRFHeader  = "X-CSRF-Token"
	csrfCtxKey  = "csrf_token"
	csrfFormKey = "_csrf"
)

// ApplyCSRF issues a token as a cookie (double-submit) and exposes it to
// handlers through CSRFToken.
func ApplyCSRF() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(CSRFCookie)
		if err != nil || token == "" {
			token, err = utils.GenerateCSRFToken()
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue csrf token"})
				c.Abort()
				return
			}
			c.SetSameSite(http.SameSiteStrictMode)
			c.SetCookie(CSRFCookie, token, 0, "/", "", false, true)
		}

		c.Set(csrfCtxKey, token)
		c.Next()
	}
}

// VerifyCSRF rejects requests whose header or form token does not match the
// cookie.
func VerifyCSRF() gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, _ := c.Cookie(CSRFCookie)

		sent := c.GetHeader(CSRFHeader)
		if sent == "" {
			sent = c.PostForm(csrfFormKey)
		}

		if !utils.TokensEqual(cookie, sent) {
			c.JSON(http.StatusForbidden, gin.H{"error": "invalid csrf token"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// CSRFToken returns the token set by ApplyCSRF.
func CSRFToken(c *gin.Context) string {
	return c.GetString(csrfCtxKey)
}
