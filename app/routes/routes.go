package routes

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"taskmanager/app/controllers"
	"taskmanager/app/middleware"
)

// HealthMessage is the body served on GET /.
const HealthMessage = "Task Manager API is running"

// RegisterRoutes sets up all routes for the application. Task routes and
// /api/auth/me require a valid token.
func RegisterRoutes(router *mux.Router, authController *controllers.AuthController, taskController *controllers.TaskController, verifier middleware.TokenVerifier, logger *slog.Logger) {
	router.HandleFunc("/", health).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()

	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register", authController.Register).Methods(http.MethodPost)
	auth.HandleFunc("/login", authController.Login).Methods(http.MethodPost)
	auth.Handle("/me", middleware.Auth(verifier, logger)(http.HandlerFunc(authController.Me))).Methods(http.MethodGet)

	tasks := api.PathPrefix("/tasks").Subrouter()
	tasks.Use(middleware.Auth(verifier, logger))
	tasks.HandleFunc("", taskController.GetTasks).Methods(http.MethodGet)
	tasks.HandleFunc("", taskController.CreateTask).Methods(http.MethodPost)
	tasks.HandleFunc("/{taskID}", taskController.GetTaskByID).Methods(http.MethodGet)
	tasks.HandleFunc("/{taskID}", taskController.UpdateTask).Methods(http.MethodPut)
	tasks.HandleFunc("/{taskID}", taskController.DeleteTask).Methods(http.MethodDelete)
}

// NewHandler builds the router and wraps it in the logging, recovery and
// CORS middlewares.
func NewHandler(authController *controllers.AuthController, taskController *controllers.TaskController, verifier middleware.TokenVerifier, logger *slog.Logger) http.Handler {
	router := mux.NewRouter()
	router.Use(middleware.Recover(logger), middleware.RequestLogger(logger))
	RegisterRoutes(router, authController, taskController, verifier, logger)
	return middleware.CORS()(router)
}

func health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, HealthMessage)
}
