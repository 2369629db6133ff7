// comments.go - Handles comment creation and deletion

package handlers

import (
	"math"

	"go-blog-backend/apperror"
	"go-blog-backend/events"
	"go-blog-backend/repository"
	"go-blog-backend/response"
	"go-blog-backend/validation"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const commentNotFound = "Comment not found"

type CommentHandler struct {
	comments  *repository.Comments
	validator *validation.Engine
	bus       *events.Bus
	log       *logrus.Logger
}

// Create attaches a comment to a live post. A post_id that is a number but
// cannot name a post (fractional, zero, negative) is a missing parent.
func (h *CommentHandler) Create(c *gin.Context) {
	payload := readPayload(c)
	if violations := h.validator.Validate(payload, validation.CreateCommentRules); len(violations) > 0 {
		response.Error(c, apperror.Validation(violations))
		return
	}
	postID, _ := payload.Number("post_id")
	content, _ := payload.String("content")
	if postID < 1 || postID != math.Trunc(postID) || postID > math.MaxUint32 {
		response.Error(c, apperror.NotFound(postNotFound))
		return
	}

	comment, err := h.comments.Create(c.Request.Context(), uint(postID), content)
	if err != nil {
		response.Error(c, storeError(err, postNotFound))
		return
	}
	h.bus.Publish(events.Event{Type: events.CommentCreated, ID: comment.ID, PostID: comment.PostID, ActorID: actorID(c)})
	h.log.WithFields(logrus.Fields{"comment_id": comment.ID, "post_id": comment.PostID}).Info("comment created")
	response.Created(c, "Comment created successfully", comment)
}

func (h *CommentHandler) Delete(c *gin.Context) {
	id, err := pathID(c, commentNotFound)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.comments.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, storeError(err, commentNotFound))
		return
	}
	h.bus.Publish(events.Event{Type: events.CommentDeleted, ID: id, ActorID: actorID(c)})
	h.log.WithField("comment_id", id).Info("comment deleted")
	response.OK(c, "Comment deleted successfully", nil)
}

func (h *CommentHandler) Reset(c *gin.Context) {
	if err := h.comments.Reset(c.Request.Context()); err != nil {
		response.Error(c, apperror.Internal(err))
		return
	}
	h.log.Warn("comments reset")
	response.OK(c, "Comments reset successfully", nil)
}
