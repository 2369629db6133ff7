// posts.go - Handles post creation, listing, update and deletion

package handlers // Declares the package name

import ( // Import required packages
	"go-blog-backend/apperror"   // Error kinds
	"go-blog-backend/events"     // Content events
	"go-blog-backend/repository" // Post persistence
	"go-blog-backend/response"   // JSON envelopes
	"go-blog-backend/validation" // Payload rules

	"github.com/gin-gonic/gin"    // Gin web framework
	"github.com/sirupsen/logrus" // Structured logging
)

const postNotFound = "Post not found"

type PostHandler struct {
	posts     *repository.Posts
	validator *validation.Engine
	bus       *events.Bus
	log       *logrus.Logger
}

func (h *PostHandler) Create(c *gin.Context) { // Handler to create a post
	payload := readPayload(c)
	if violations := h.validator.Validate(payload, validation.CreatePostRules); len(violations) > 0 {
		response.Error(c, apperror.Validation(violations)) // 400 listing every failing field
		return
	}
	title, _ := payload.String("title")
	content, _ := payload.String("content")

	post, err := h.posts.Create(c.Request.Context(), title, content)
	if err != nil {
		response.Error(c, apperror.Internal(err))
		return
	}
	h.bus.Publish(events.Event{Type: events.PostCreated, ID: post.ID, ActorID: actorID(c)})
	h.log.WithField("post_id", post.ID).Info("post created")
	response.Created(c, "Post created successfully", post)
}

func (h *PostHandler) List(c *gin.Context) {
	posts, err := h.posts.List(c.Request.Context())
	if err != nil {
		response.Error(c, apperror.Internal(err))
		return
	}
	response.OK(c, "Get all posts", posts)
}

func (h *PostHandler) Get(c *gin.Context) {
	id, err := pathID(c, postNotFound)
	if err != nil {
		response.Error(c, err)
		return
	}
	post, err := h.posts.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, storeError(err, postNotFound))
		return
	}
	response.OK(c, "Get post", post)
}

// Update checks that the post exists before looking at the body, so an
// unknown id is a 404 even when the payload is invalid.
func (h *PostHandler) Update(c *gin.Context) {
	id, err := pathID(c, postNotFound)
	if err != nil {
		response.Error(c, err)
		return
	}
	ctx := c.Request.Context()
	if _, err := h.posts.Get(ctx, id); err != nil { // STEP 1: existence
		response.Error(c, storeError(err, postNotFound))
		return
	}

	payload := readPayload(c) // STEP 2: validation
	if violations := h.validator.Validate(payload, validation.UpdatePostRules); len(violations) > 0 {
		response.Error(c, apperror.Validation(violations))
		return
	}
	var changes repository.PostChanges
	if title, ok := payload.String("title"); ok {
		changes.Title = &title
	}
	if content, ok := payload.String("content"); ok {
		changes.Content = &content
	}

	post, err := h.posts.Update(ctx, id, changes) // STEP 3: apply, still 404 if deleted meanwhile
	if err != nil {
		response.Error(c, storeError(err, postNotFound))
		return
	}
	h.bus.Publish(events.Event{Type: events.PostUpdated, ID: post.ID, ActorID: actorID(c)})
	h.log.WithField("post_id", post.ID).Info("post updated")
	response.OK(c, "Post updated successfully", post)
}

// Delete soft-deletes the post. Its comments become unreachable with it.
func (h *PostHandler) Delete(c *gin.Context) {
	id, err := pathID(c, postNotFound)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.posts.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, storeError(err, postNotFound)) // Repeated deletes land here
		return
	}
	h.bus.Publish(events.Event{Type: events.PostDeleted, ID: id, ActorID: actorID(c)})
	h.log.WithField("post_id", id).Info("post deleted")
	response.OK(c, "Post deleted successfully", nil)
}

// Reset removes every post and comment and restarts both id sequences.
func (h *PostHandler) Reset(c *gin.Context) {
	if err := h.posts.Reset(c.Request.Context()); err != nil {
		response.Error(c, apperror.Internal(err))
		return
	}
	h.log.Warn("posts and comments reset")
	response.OK(c, "Posts reset successfully", nil)
}
