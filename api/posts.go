package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/garnizeh/devconnect/internal/post"
	"github.com/garnizeh/devconnect/internal/validate"
)

type PostsHandler struct {
	engine *post.Engine
}

func NewPostsHandler(e *post.Engine) *PostsHandler {
	return &PostsHandler{engine: e}
}

var postTextRules = validate.Rules{
	validate.NonEmpty("text", "Text is required"),
}

type postTextRequest struct {
	Text string `json:"text"`
}

// Create stores a new post authored by the caller.
func (h *PostsHandler) Create(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeMsg(w, http.StatusBadRequest, "Invalid request")
		return
	}
	if violations := postTextRules.Check(r.Context(), body); len(violations) > 0 {
		writeViolations(w, violations)
		return
	}

	var req postTextRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeMsg(w, http.StatusBadRequest, "Invalid request")
		return
	}

	p, err := h.engine.Create(r.Context(), callerID(r), req.Text)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, p, http.StatusOK)
}

// List returns all posts, most recent first.
func (h *PostsHandler) List(w http.ResponseWriter, r *http.Request) {
	posts, err := h.engine.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, posts, http.StatusOK)
}

// Get returns one post by id.
func (h *PostsHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.engine.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, p, http.StatusOK)
}

// Delete removes the caller's own post.
func (h *PostsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.Delete(r.Context(), mux.Vars(r)["id"], callerID(r)); err != nil {
		writeError(w, err)
		return
	}

	writeMsg(w, http.StatusOK, "Post deleted!")
}

// Like records the caller's like and returns the updated like list.
func (h *PostsHandler) Like(w http.ResponseWriter, r *http.Request) {
	likes, err := h.engine.Like(r.Context(), mux.Vars(r)["id"], callerID(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, likes, http.StatusOK)
}

// Unlike removes the caller's like and returns the updated like list.
func (h *PostsHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	likes, err := h.engine.Unlike(r.Context(), mux.Vars(r)["id"], callerID(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, likes, http.StatusOK)
}

// AddComment appends a comment and returns the updated comment list.
func (h *PostsHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeMsg(w, http.StatusBadRequest, "Invalid request")
		return
	}
	if violations := postTextRules.Check(r.Context(), body); len(violations) > 0 {
		writeViolations(w, violations)
		return
	}

	var req postTextRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeMsg(w, http.StatusBadRequest, "Invalid request")
		return
	}

	comments, err := h.engine.AddComment(r.Context(), mux.Vars(r)["id"], callerID(r), req.Text)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, comments, http.StatusOK)
}

// RemoveComment removes the caller's comment by comment id and returns the
// updated comment list.
func (h *PostsHandler) RemoveComment(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	comments, err := h.engine.RemoveComment(r.Context(), vars["id"], callerID(r), vars["commentId"])
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, comments, http.StatusOK)
}
