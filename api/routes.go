package api

import (
	"github.com/gorilla/mux"

	"github.com/garnizeh/devconnect/internal/config"
	"github.com/garnizeh/devconnect/internal/db"
	"github.com/garnizeh/devconnect/internal/post"
	"github.com/garnizeh/devconnect/internal/profile"
	"github.com/garnizeh/devconnect/internal/repository/sqlite"
	"github.com/garnizeh/devconnect/internal/token"
	"github.com/garnizeh/devconnect/pkg/github"
)

func SetupRoutes(cfg *config.Config, version, buildTime string, db *db.DB) (*mux.Router, error) {
	r := mux.NewRouter()

	// Middleware chain
	r.Use(LoggingMiddleware)
	r.Use(CORSMiddleware)
	r.Use(RecoveryMiddleware)

	// Repository and collaborators
	repo := sqlite.New(db, logger)
	tokens := token.NewManager(cfg.JWTSecret, cfg.TokenDuration)
	gh, err := github.NewClient(cfg.GitHub, nil)
	if err != nil {
		return nil, err
	}

	// Engines
	profileEngine := profile.NewEngine(repo, repo, cfg.StorageTimeout, logger)
	postEngine := post.NewEngine(repo, repo, cfg.StorageTimeout, logger)

	// Handlers
	systemHandler := &SystemHandler{}
	authHandler := NewAuthHandler(repo, tokens)
	profileHandler := NewProfileHandler(profileEngine, gh)
	postsHandler := NewPostsHandler(postEngine)

	// Open endpoints
	r.HandleFunc("/version", systemHandler.VersionHandler(version, buildTime)).Methods("GET")
	r.HandleFunc("/health", systemHandler.HealthHandler).Methods("GET")
	r.HandleFunc("/api/users", authHandler.Register).Methods("POST")
	r.HandleFunc("/api/auth", authHandler.Login).Methods("POST")
	r.HandleFunc("/api/profile", profileHandler.List).Methods("GET")
	r.HandleFunc("/api/profile/user/{id}", profileHandler.ByUser).Methods("GET")
	r.HandleFunc("/api/profile/github/{username}", profileHandler.GithubRepos).Methods("GET")

	// Protected routes
	priv := r.PathPrefix("/api").Subrouter()
	priv.Use(AuthMiddleware(tokens))

	priv.HandleFunc("/auth", authHandler.Current).Methods("GET")

	priv.HandleFunc("/profile/me", profileHandler.Me).Methods("GET")
	priv.HandleFunc("/profile", profileHandler.Upsert).Methods("POST")
	priv.HandleFunc("/profile", profileHandler.DeleteAccount).Methods("DELETE")
	priv.HandleFunc("/profile/experience", profileHandler.AddExperience).Methods("PUT")
	priv.HandleFunc("/profile/experience/{id}", profileHandler.RemoveExperience).Methods("DELETE")
	priv.HandleFunc("/profile/education", profileHandler.AddEducation).Methods("PUT")
	priv.HandleFunc("/profile/education/{id}", profileHandler.RemoveEducation).Methods("DELETE")

	priv.HandleFunc("/posts", postsHandler.Create).Methods("POST")
	priv.HandleFunc("/posts", postsHandler.List).Methods("GET")
	priv.HandleFunc("/posts/like/{id}", postsHandler.Like).Methods("PUT")
	priv.HandleFunc("/posts/unlike/{id}", postsHandler.Unlike).Methods("PUT")
	priv.HandleFunc("/posts/comment/{id}", postsHandler.AddComment).Methods("PUT")
	priv.HandleFunc("/posts/comment/{id}/{commentId}", postsHandler.RemoveComment).Methods("DELETE")
	priv.HandleFunc("/posts/{id}", postsHandler.Get).Methods("GET")
	priv.HandleFunc("/posts/{id}", postsHandler.Delete).Methods("DELETE")

	return r, nil
}
