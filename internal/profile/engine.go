// Package profile implements the profile mutation engine: upserting a
// user's profile document and inserting/removing the ordered experience
// and education entries inside it.
package profile

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/garnizeh/devconnect/internal/apperr"
	"github.com/garnizeh/devconnect/pkg/models"
	"github.com/garnizeh/devconnect/pkg/repository"
)

// casAttempts bounds the read-modify-write retry loop when a conditional
// update loses to a concurrent writer.
const casAttempts = 3

type Engine struct {
	profiles       repository.ProfileRepo
	users          repository.UserRepo
	storageTimeout time.Duration
	logger         *slog.Logger
}

func NewEngine(pr repository.ProfileRepo, ur repository.UserRepo, storageTimeout time.Duration, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{profiles: pr, users: ur, storageTimeout: storageTimeout, logger: logger}
}

// Input carries the fields of a profile submission. Pointers distinguish
// "absent" from "empty": absent fields never overwrite stored data.
type Input struct {
	Company        *string `json:"company"`
	Website        *string `json:"website"`
	Location       *string `json:"location"`
	Status         *string `json:"status"`
	Skills         *string `json:"skills"`
	Bio            *string `json:"bio"`
	GithubUsername *string `json:"githubusername"`
	Youtube        *string `json:"youtube"`
	Twitter        *string `json:"twitter"`
	Facebook       *string `json:"facebook"`
	Linkedin       *string `json:"linkedin"`
	Instagram      *string `json:"instagram"`
}

// Upsert creates the caller's profile or merge-updates only the supplied
// fields of an existing one.
func (e *Engine) Upsert(ctx context.Context, ownerID string, in Input) (*models.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, e.storageTimeout)
	defer cancel()

	for attempt := 0; attempt < casAttempts; attempt++ {
		existing, err := e.profiles.GetProfileByUserID(ctx, ownerID)
		if err != nil {
			return nil, storageErr("load profile", err)
		}

		if existing == nil {
			p := &models.Profile{
				ID:         uuid.NewString(),
				UserID:     ownerID,
				Experience: []models.Experience{},
				Education:  []models.Education{},
			}
			applyInput(p, in)
			if err := e.profiles.CreateProfile(ctx, p); err != nil {
				return nil, storageErr("create profile", err)
			}
			return p, nil
		}

		applyInput(existing, in)
		if err := e.profiles.UpdateProfile(ctx, existing); err != nil {
			if errors.Is(err, repository.ErrVersionConflict) {
				continue
			}
			return nil, storageErr("update profile", err)
		}
		return existing, nil
	}

	return nil, apperr.New(apperr.Conflict, "Profile was modified concurrently, please retry")
}

// Get returns the profile owned by userID.
func (e *Engine) Get(ctx context.Context, userID string) (*models.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, e.storageTimeout)
	defer cancel()

	p, err := e.profiles.GetProfileByUserID(ctx, userID)
	if err != nil {
		return nil, storageErr("load profile", err)
	}
	if p == nil {
		return nil, apperr.New(apperr.NotFound, "Profile not found for this user!!")
	}

	return p, nil
}

// List returns every profile.
func (e *Engine) List(ctx context.Context) ([]models.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, e.storageTimeout)
	defer cancel()

	out, err := e.profiles.ListProfiles(ctx)
	if err != nil {
		return nil, storageErr("list profiles", err)
	}
	if out == nil {
		out = []models.Profile{}
	}

	return out, nil
}

// AddExperience assigns the entry a fresh id and inserts it at the front of
// the caller's experience list.
func (e *Engine) AddExperience(ctx context.Context, ownerID string, entry models.Experience) (*models.Profile, error) {
	return e.mutate(ctx, ownerID, func(p *models.Profile) {
		entry.ID = uuid.NewString()
		p.Experience = append([]models.Experience{entry}, p.Experience...)
	})
}

// RemoveExperience excises the entry with the given id. Removing an id that
// is not present is a no-op, not an error.
func (e *Engine) RemoveExperience(ctx context.Context, ownerID, entryID string) (*models.Profile, error) {
	return e.mutate(ctx, ownerID, func(p *models.Profile) {
		out := p.Experience[:0]
		for _, exp := range p.Experience {
			if exp.ID != entryID {
				out = append(out, exp)
			}
		}
		p.Experience = out
	})
}

// AddEducation assigns the entry a fresh id and inserts it at the front of
// the caller's education list.
func (e *Engine) AddEducation(ctx context.Context, ownerID string, entry models.Education) (*models.Profile, error) {
	return e.mutate(ctx, ownerID, func(p *models.Profile) {
		entry.ID = uuid.NewString()
		p.Education = append([]models.Education{entry}, p.Education...)
	})
}

// RemoveEducation excises the entry with the given id; absent ids are a no-op.
func (e *Engine) RemoveEducation(ctx context.Context, ownerID, entryID string) (*models.Profile, error) {
	return e.mutate(ctx, ownerID, func(p *models.Profile) {
		out := p.Education[:0]
		for _, edu := range p.Education {
			if edu.ID != entryID {
				out = append(out, edu)
			}
		}
		p.Education = out
	})
}

// DeleteAccount removes the caller's profile and user record. The caller's
// posts are intentionally left in place, matching the original behavior.
func (e *Engine) DeleteAccount(ctx context.Context, ownerID string) error {
	ctx, cancel := context.WithTimeout(ctx, e.storageTimeout)
	defer cancel()

	if err := e.profiles.DeleteProfileByUserID(ctx, ownerID); err != nil {
		return storageErr("delete profile", err)
	}
	if err := e.users.DeleteUser(ctx, ownerID); err != nil {
		return storageErr("delete user", err)
	}
	e.logger.Info("account deleted", slog.String("user", ownerID))

	return nil
}

// mutate runs a load-mutate-store cycle under the storage timeout, retrying
// a bounded number of times when the conditional update loses.
func (e *Engine) mutate(ctx context.Context, ownerID string, fn func(p *models.Profile)) (*models.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, e.storageTimeout)
	defer cancel()

	for attempt := 0; attempt < casAttempts; attempt++ {
		p, err := e.profiles.GetProfileByUserID(ctx, ownerID)
		if err != nil {
			return nil, storageErr("load profile", err)
		}
		if p == nil {
			return nil, apperr.New(apperr.NotFound, "Profile not found for this user!!")
		}

		fn(p)

		if err := e.profiles.UpdateProfile(ctx, p); err != nil {
			if errors.Is(err, repository.ErrVersionConflict) {
				continue
			}
			return nil, storageErr("update profile", err)
		}
		return p, nil
	}

	return nil, apperr.New(apperr.Conflict, "Profile was modified concurrently, please retry")
}

// applyInput copies only the supplied fields onto the profile. Social links
// merge into the nested social object; links that were not supplied keep
// their stored value.
func applyInput(p *models.Profile, in Input) {
	if in.Company != nil {
		p.Company = *in.Company
	}
	if in.Website != nil {
		p.Website = *in.Website
	}
	if in.Location != nil {
		p.Location = *in.Location
	}
	if in.Status != nil {
		p.Status = *in.Status
	}
	if in.Bio != nil {
		p.Bio = *in.Bio
	}
	if in.GithubUsername != nil {
		p.GithubUsername = *in.GithubUsername
	}
	if in.Skills != nil {
		p.Skills = SplitSkills(*in.Skills)
	}

	social := func() *models.SocialLinks {
		if p.Social == nil {
			p.Social = &models.SocialLinks{}
		}
		return p.Social
	}
	if in.Youtube != nil {
		social().Youtube = *in.Youtube
	}
	if in.Twitter != nil {
		social().Twitter = *in.Twitter
	}
	if in.Facebook != nil {
		social().Facebook = *in.Facebook
	}
	if in.Linkedin != nil {
		social().Linkedin = *in.Linkedin
	}
	if in.Instagram != nil {
		social().Instagram = *in.Instagram
	}
}

// SplitSkills turns a comma-separated skills string into a trimmed slice,
// preserving order and dropping empty elements.
func SplitSkills(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func storageErr(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperr.Wrap(apperr.Timeout, op+" timed out", err)
	}
	return apperr.Wrap(apperr.StorageUnavailable, op+" failed", err)
}
