package matching

import (
	"github.com/gorilla/mux"

	"github.com/wanderlink/wanderlink-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1/matching").Subrouter()
	api.Use(authMiddleware.Authenticate)

	api.HandleFunc("/discover", handler.Discover).Methods("POST")
	api.HandleFunc("/daily", handler.GetDailyPicks).Methods("GET")
	api.HandleFunc("/compatibility/{userId}", handler.GetCompatibility).Methods("GET")
	api.HandleFunc("/swipes", handler.RecordSwipe).Methods("POST")
}
