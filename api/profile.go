package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/garnizeh/devconnect/internal/apperr"
	"github.com/garnizeh/devconnect/internal/profile"
	"github.com/garnizeh/devconnect/internal/validate"
	"github.com/garnizeh/devconnect/pkg/github"
	"github.com/garnizeh/devconnect/pkg/models"
)

type ProfileHandler struct {
	engine *profile.Engine
	repos  *github.Client
}

func NewProfileHandler(e *profile.Engine, gh *github.Client) *ProfileHandler {
	return &ProfileHandler{engine: e, repos: gh}
}

var upsertProfileRules = validate.Rules{
	validate.NonEmpty("status", "Status is required!"),
	validate.NonEmpty("skills", "Skills are required!"),
}

var experienceRules = validate.Rules{
	validate.NonEmpty("title", "title is required!"),
	validate.NonEmpty("company", "company is required!"),
	validate.NonEmpty("from", "from date is required!"),
}

var educationRules = validate.Rules{
	validate.NonEmpty("school", "school is required!"),
	validate.NonEmpty("degree", "degree is required!"),
	validate.NonEmpty("fieldofstudy", "fieldofstudy is required!"),
	validate.NonEmpty("from", "from date is required!"),
}

// Me returns the caller's profile.
func (h *ProfileHandler) Me(w http.ResponseWriter, r *http.Request) {
	p, err := h.engine.Get(r.Context(), callerID(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, p, http.StatusOK)
}

// Upsert creates the caller's profile or merge-updates the supplied fields.
func (h *ProfileHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeMsg(w, http.StatusBadRequest, "Invalid request")
		return
	}
	if violations := upsertProfileRules.Check(r.Context(), body); len(violations) > 0 {
		writeViolations(w, violations)
		return
	}

	var in profile.Input
	if err := json.Unmarshal(body, &in); err != nil {
		writeMsg(w, http.StatusBadRequest, "Invalid request")
		return
	}

	p, err := h.engine.Upsert(r.Context(), callerID(r), in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, p, http.StatusOK)
}

// List returns every profile; no authentication required.
func (h *ProfileHandler) List(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.engine.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, profiles, http.StatusOK)
}

// ByUser returns one profile by its owning user id; no authentication
// required.
func (h *ProfileHandler) ByUser(w http.ResponseWriter, r *http.Request) {
	p, err := h.engine.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		if apperr.KindOf(err) == apperr.NotFound {
			writeMsg(w, http.StatusNotFound, "Profile not found!!")
			return
		}
		writeError(w, err)
		return
	}

	writeJSON(w, p, http.StatusOK)
}

// DeleteAccount removes the caller's profile and user record.
func (h *ProfileHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.DeleteAccount(r.Context(), callerID(r)); err != nil {
		writeError(w, err)
		return
	}

	writeMsg(w, http.StatusOK, "user deleted!")
}

// AddExperience validates and prepends an experience entry.
func (h *ProfileHandler) AddExperience(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeMsg(w, http.StatusBadRequest, "Invalid request")
		return
	}
	if violations := experienceRules.Check(r.Context(), body); len(violations) > 0 {
		writeViolations(w, violations)
		return
	}

	var entry models.Experience
	if err := json.Unmarshal(body, &entry); err != nil {
		writeMsg(w, http.StatusBadRequest, "Invalid request")
		return
	}

	p, err := h.engine.AddExperience(r.Context(), callerID(r), entry)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, p, http.StatusOK)
}

// RemoveExperience removes one experience entry by id.
func (h *ProfileHandler) RemoveExperience(w http.ResponseWriter, r *http.Request) {
	p, err := h.engine.RemoveExperience(r.Context(), callerID(r), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, p, http.StatusOK)
}

// AddEducation validates and prepends an education entry.
func (h *ProfileHandler) AddEducation(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeMsg(w, http.StatusBadRequest, "Invalid request")
		return
	}
	if violations := educationRules.Check(r.Context(), body); len(violations) > 0 {
		writeViolations(w, violations)
		return
	}

	var entry models.Education
	if err := json.Unmarshal(body, &entry); err != nil {
		writeMsg(w, http.StatusBadRequest, "Invalid request")
		return
	}

	p, err := h.engine.AddEducation(r.Context(), callerID(r), entry)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, p, http.StatusOK)
}

// RemoveEducation removes one education entry by id.
func (h *ProfileHandler) RemoveEducation(w http.ResponseWriter, r *http.Request) {
	p, err := h.engine.RemoveEducation(r.Context(), callerID(r), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, p, http.StatusOK)
}

// GithubRepos proxies the user's five most recent public repositories; no
// authentication required.
func (h *ProfileHandler) GithubRepos(w http.ResponseWriter, r *http.Request) {
	repos, err := h.repos.ListRepos(r.Context(), mux.Vars(r)["username"])
	if err != nil {
		if errors.Is(err, github.ErrNoProfile) {
			writeMsg(w, http.StatusNotFound, "No github profile Found")
			return
		}
		writeError(w, err)
		return
	}

	writeJSON(w, repos, http.StatusOK)
}
