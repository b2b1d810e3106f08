package favorite

import (
	"context"
	"errors"
	"net/http"

	"favorite-feed/internal/domain/entity"
	"favorite-feed/internal/handler/http/auth"
	"favorite-feed/internal/handler/http/pathutil"
	"favorite-feed/internal/handler/http/respond"
	favUC "favorite-feed/internal/usecase/favorite"
)

// Service is the part of the favorite use case the handlers call.
type Service interface {
	Create(ctx context.Context, actorID int64, target entity.Target) (*entity.Favorite, error)
	Destroy(ctx context.Context, actorID int64, target entity.Target) error
	ListGrouped(ctx context.Context, actorID int64) (*favUC.Grouped, error)
}

var errNoActor = errors.New("unauthorized: no authenticated user")

// IndexHandler serves GET /favorites.
type IndexHandler struct{ Svc Service }

// ServeHTTP lists the caller's favorites grouped by kind.
// @Summary      List favorites
// @Description  Returns the caller's post and user favorites. Empty groups are empty arrays.
// @Tags         favorites
// @Security     BearerAuth
// @Produce      json
// @Success      200 {object} favorite.IndexDTO "wrapped in a data envelope"
// @Failure      401 {string} string "Authentication required - missing or invalid JWT token"
// @Failure      500 {string} string "Internal server error"
// @Router       /favorites [get]
func (h IndexHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	actorID, ok := auth.ActorFromContext(r.Context())
	if !ok {
		respond.SafeError(w, http.StatusUnauthorized, errNoActor)
		return
	}

	grouped, err := h.Svc.ListGrouped(r.Context(), actorID)
	if err != nil {
		respond.SafeError(w, statusFor(err), err)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]IndexDTO{
		"data": {Posts: toDTOs(grouped.Posts), Users: toDTOs(grouped.Users)},
	})
}

// StoreHandler serves POST /favorites/{kind}s/{id}.
type StoreHandler struct {
	Svc  Service
	Kind entity.TargetKind
}

// StorePostHandler favorites the post in the path.
func StorePostHandler(svc Service) StoreHandler {
	return StoreHandler{Svc: svc, Kind: entity.TargetPost}
}

// StoreUserHandler favorites (follows) the user in the path.
func StoreUserHandler(svc Service) StoreHandler {
	return StoreHandler{Svc: svc, Kind: entity.TargetUser}
}

// ServeHTTP favorites the target in the path.
// @Summary      Favorite a post or follow a user
// @Description  Creates a favorite owned by the caller. Following a user subscribes to their new posts.
// @Tags         favorites
// @Security     BearerAuth
// @Produce      json
// @Param        id path int true "Post or user ID"
// @Success      201 {object} favorite.DTO
// @Failure      400 {string} string "Bad request - invalid id"
// @Failure      401 {string} string "Authentication required - missing or invalid JWT token"
// @Failure      404 {string} string "Target not found"
// @Failure      409 {string} string "Favorite already exists"
// @Failure      422 {string} string "Validation failed - e.g. favoriting yourself"
// @Router       /favorites/posts/{id} [post]
// @Router       /favorites/users/{id} [post]
func (h StoreHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	actorID, target, ok := actorAndTarget(w, r, h.Kind)
	if !ok {
		return
	}

	fav, err := h.Svc.Create(r.Context(), actorID, target)
	if err != nil {
		respond.SafeError(w, statusFor(err), err)
		return
	}
	respond.JSON(w, http.StatusCreated, toDTO(fav))
}

// DestroyHandler serves DELETE /favorites/{kind}s/{id}.
type DestroyHandler struct {
	Svc  Service
	Kind entity.TargetKind
}

// DestroyPostHandler removes the actor's favorite on the post in the path.
func DestroyPostHandler(svc Service) DestroyHandler {
	return DestroyHandler{Svc: svc, Kind: entity.TargetPost}
}

// DestroyUserHandler unfollows the user in the path.
func DestroyUserHandler(svc Service) DestroyHandler {
	return DestroyHandler{Svc: svc, Kind: entity.TargetUser}
}

// ServeHTTP removes the caller's favorite on the target in the path.
// @Summary      Unfavorite a post or unfollow a user
// @Tags         favorites
// @Security     BearerAuth
// @Param        id path int true "Post or user ID"
// @Success      204 "No Content"
// @Failure      400 {string} string "Bad request - invalid id"
// @Failure      401 {string} string "Authentication required - missing or invalid JWT token"
// @Failure      404 {string} string "Favorite not found"
// @Router       /favorites/posts/{id} [delete]
// @Router       /favorites/users/{id} [delete]
func (h DestroyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	actorID, target, ok := actorAndTarget(w, r, h.Kind)
	if !ok {
		return
	}

	if err := h.Svc.Destroy(r.Context(), actorID, target); err != nil {
		respond.SafeError(w, statusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func actorAndTarget(w http.ResponseWriter, r *http.Request, kind entity.TargetKind) (int64, entity.Target, bool) {
	actorID, ok := auth.ActorFromContext(r.Context())
	if !ok {
		respond.SafeError(w, http.StatusUnauthorized, errNoActor)
		return 0, entity.Target{}, false
	}
	id, err := pathutil.PathID(r, "id")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return 0, entity.Target{}, false
	}
	return actorID, entity.Target{Kind: kind, ID: id}, true
}

// statusFor maps use case errors to response codes.
func statusFor(err error) int {
	var verr *entity.ValidationError
	switch {
	case errors.Is(err, favUC.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, favUC.ErrTargetNotFound), errors.Is(err, favUC.ErrFavoriteNotFound):
		return http.StatusNotFound
	case errors.As(err, &verr), errors.Is(err, favUC.ErrInvalidTarget), errors.Is(err, favUC.ErrInvalidActor):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
