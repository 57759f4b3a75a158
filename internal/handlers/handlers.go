package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// parseID reads a numeric :id path param. Writes the 400 response itself so
// call sites can just bail out.
func parseID(c *gin.Context, name string) (uint, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name + " id"})
		return 0, false
	}
	return uint(id), true
}

// validImageRef accepts the two image representations the API speaks:
// base64 data URIs embedded in JSON, or plain http(s) URLs.
func validImageRef(s string) bool {
	return strings.HasPrefix(s, "data:image/") ||
		strings.HasPrefix(s, "http://") ||
		strings.HasPrefix(s, "https://")
}
