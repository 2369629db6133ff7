// admin.go - Admin-only maintenance endpoints

package handlers

import (
	"go-blog-backend/apperror"
	"go-blog-backend/jobs"
	"go-blog-backend/response"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	purger *jobs.Purger
}

// Purge runs the purge job now instead of waiting for its schedule.
func (h *AdminHandler) Purge(c *gin.Context) {
	res, err := h.purger.Run(c.Request.Context())
	if err != nil {
		response.Error(c, apperror.Internal(err))
		return
	}
	response.OK(c, "Purge completed", res)
}
