package favorite

import (
	"net/http"
)

// Register mounts the favorite routes. authz wraps every route.
func Register(mux *http.ServeMux, svc Service, authz func(http.Handler) http.Handler) {
	mux.Handle("GET /favorites", authz(IndexHandler{Svc: svc}))

	mux.Handle("POST /favorites/posts/{id}", authz(StorePostHandler(svc)))
	mux.Handle("DELETE /favorites/posts/{id}", authz(DestroyPostHandler(svc)))

	mux.Handle("POST /favorites/users/{id}", authz(StoreUserHandler(svc)))
	mux.Handle("DELETE /favorites/users/{id}", authz(DestroyUserHandler(svc)))
}
