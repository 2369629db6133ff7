// request.go - Small helpers for reading requests

package handlers

import (
	"errors"
	"strconv"

	"go-blog-backend/apperror"
	"go-blog-backend/middleware"
	"go-blog-backend/repository"
	"go-blog-backend/validation"

	"github.com/gin-gonic/gin"
)

// readPayload returns the JSON body as a loose map. A missing or malformed
// body reads as empty so validation can report every field.
func readPayload(c *gin.Context) validation.Payload {
	body, err := c.GetRawData()
	if err != nil {
		return validation.Payload{}
	}
	return validation.Decode(body)
}

// pathID parses the :id segment. Anything that is not a positive integer can
// never name a record, so it reads as not found.
func pathID(c *gin.Context, notFound string) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperror.NotFound(notFound)
	}
	return uint(id), nil
}

// storeError maps repository sentinels onto error kinds.
func storeError(err error, notFound string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperror.NotFound(notFound)
	}
	return apperror.Internal(err)
}

func actorID(c *gin.Context) uint {
	if user, ok := middleware.CurrentUser(c); ok {
		return user.ID
	}
	return 0
}
