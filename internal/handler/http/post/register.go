package post

import (
	"net/http"
)

// Register mounts the post routes. authz wraps every route.
func Register(mux *http.ServeMux, svc Service, authz func(http.Handler) http.Handler) {
	mux.Handle("GET /posts", authz(ListHandler{Svc: svc}))
	mux.Handle("GET /posts/{id}", authz(GetHandler{Svc: svc}))

	mux.Handle("POST /posts", authz(CreateHandler{Svc: svc}))
	mux.Handle("PUT /posts/{id}", authz(UpdateHandler{Svc: svc}))
	mux.Handle("DELETE /posts/{id}", authz(DeleteHandler{Svc: svc}))
}
