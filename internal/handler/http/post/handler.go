package post

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"favorite-feed/internal/domain/entity"
	"favorite-feed/internal/handler/http/auth"
	"favorite-feed/internal/handler/http/pathutil"
	"favorite-feed/internal/handler/http/respond"
	postUC "favorite-feed/internal/usecase/post"
)

// Service is the part of the post use case the handlers call.
type Service interface {
	Create(ctx context.Context, in postUC.CreateInput) (*entity.Post, error)
	Get(ctx context.Context, id int64) (*entity.Post, error)
	List(ctx context.Context) ([]*entity.Post, error)
	Update(ctx context.Context, in postUC.UpdateInput) (*entity.Post, error)
	Delete(ctx context.Context, actorID, id int64) error
}

var errNoActor = errors.New("unauthorized: no authenticated user")

type ListHandler struct{ Svc Service }

// ServeHTTP lists posts, newest first.
// @Summary      List posts
// @Tags         posts
// @Security     BearerAuth
// @Produce      json
// @Success      200 {array} post.DTO "wrapped in a data envelope"
// @Failure      401 {string} string "Authentication required - missing or invalid JWT token"
// @Failure      500 {string} string "Internal server error"
// @Router       /posts [get]
func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	posts, err := h.Svc.List(r.Context())
	if err != nil {
		respond.SafeError(w, statusFor(err), err)
		return
	}
	out := make([]DTO, 0, len(posts))
	for _, p := range posts {
		out = append(out, toDTO(p))
	}
	respond.JSON(w, http.StatusOK, map[string][]DTO{"data": out})
}

type GetHandler struct{ Svc Service }

// ServeHTTP returns one post.
// @Summary      Get post
// @Tags         posts
// @Security     BearerAuth
// @Produce      json
// @Param        id path int true "Post ID"
// @Success      200 {object} post.DTO
// @Failure      400 {string} string "Bad request - invalid id"
// @Failure      401 {string} string "Authentication required - missing or invalid JWT token"
// @Failure      404 {string} string "Post not found"
// @Router       /posts/{id} [get]
func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.PathID(r, "id")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	p, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		respond.SafeError(w, statusFor(err), err)
		return
	}
	respond.JSON(w, http.StatusOK, toDTO(p))
}

// CreateHandler publishes a post authored by the caller. The response is
// written as soon as the post is stored.
type CreateHandler struct{ Svc Service }

// ServeHTTP creates a post.
// @Summary      Publish post
// @Description  Stores the post and schedules notifications to the author's followers.
// @Tags         posts
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        post body object true "title, body and optional image_path"
// @Success      201 {object} post.DTO
// @Failure      400 {string} string "Bad request - invalid input"
// @Failure      401 {string} string "Authentication required - missing or invalid JWT token"
// @Failure      413 {string} string "Request body too large"
// @Router       /posts [post]
func (h CreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	actorID, ok := auth.ActorFromContext(r.Context())
	if !ok {
		respond.SafeError(w, http.StatusUnauthorized, errNoActor)
		return
	}

	var req createRequest
	if code, err := decode(r, &req); err != nil {
		respond.SafeError(w, code, err)
		return
	}

	p, err := h.Svc.Create(r.Context(), postUC.CreateInput{
		AuthorID:  actorID,
		Title:     req.Title,
		Body:      req.Body,
		ImagePath: req.ImagePath,
	})
	if err != nil {
		respond.SafeError(w, statusFor(err), err)
		return
	}
	respond.JSON(w, http.StatusCreated, toDTO(p))
}

type UpdateHandler struct{ Svc Service }

// ServeHTTP updates the fields present in the body.
// @Summary      Update post
// @Tags         posts
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id   path int    true "Post ID"
// @Param        post body object true "fields to change"
// @Success      200 {object} post.DTO
// @Failure      400 {string} string "Bad request - invalid input"
// @Failure      401 {string} string "Authentication required - missing or invalid JWT token"
// @Failure      403 {string} string "Forbidden - only the author may modify this post"
// @Failure      404 {string} string "Post not found"
// @Router       /posts/{id} [put]
func (h UpdateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	actorID, ok := auth.ActorFromContext(r.Context())
	if !ok {
		respond.SafeError(w, http.StatusUnauthorized, errNoActor)
		return
	}
	id, err := pathutil.PathID(r, "id")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	var req updateRequest
	if code, err := decode(r, &req); err != nil {
		respond.SafeError(w, code, err)
		return
	}

	p, err := h.Svc.Update(r.Context(), postUC.UpdateInput{
		ID:        id,
		ActorID:   actorID,
		Title:     req.Title,
		Body:      req.Body,
		ImagePath: req.ImagePath,
	})
	if err != nil {
		respond.SafeError(w, statusFor(err), err)
		return
	}
	respond.JSON(w, http.StatusOK, toDTO(p))
}

type DeleteHandler struct{ Svc Service }

// ServeHTTP deletes a post and every favorite on it.
// @Summary      Delete post
// @Tags         posts
// @Security     BearerAuth
// @Param        id path int true "Post ID"
// @Success      204 "No Content"
// @Failure      400 {string} string "Bad request - invalid id"
// @Failure      401 {string} string "Authentication required - missing or invalid JWT token"
// @Failure      403 {string} string "Forbidden - only the author may modify this post"
// @Failure      404 {string} string "Post not found"
// @Router       /posts/{id} [delete]
func (h DeleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	actorID, ok := auth.ActorFromContext(r.Context())
	if !ok {
		respond.SafeError(w, http.StatusUnauthorized, errNoActor)
		return
	}
	id, err := pathutil.PathID(r, "id")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	if err := h.Svc.Delete(r.Context(), actorID, id); err != nil {
		respond.SafeError(w, statusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decode(r *http.Request, v any) (int, error) {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil {
		return 0, nil
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge, errors.New("request body too large")
	}
	return http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err)
}

func statusFor(err error) int {
	var verr *entity.ValidationError
	switch {
	case errors.Is(err, postUC.ErrInvalidPostID), errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.Is(err, postUC.ErrPostNotFound):
		return http.StatusNotFound
	case errors.Is(err, postUC.ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
