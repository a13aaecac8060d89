package repository

import (
	"context"
	"errors"

	"github.com/garnizeh/devconnect/pkg/models"
)

// Repository interfaces for domain documents. These are the public contracts
// consumers should depend on; concrete implementations live under internal/.
//
// Get* methods return (nil, nil) when no document matches. Update applies a
// conditional write: it only succeeds when the stored document still carries
// the version the caller read, and returns ErrVersionConflict otherwise.

var (
	// ErrDuplicateEmail reports a unique-constraint violation on users.email.
	ErrDuplicateEmail = errors.New("repository: email already registered")
	// ErrVersionConflict reports a lost conditional update; callers should
	// re-read the document and retry the mutation.
	ErrVersionConflict = errors.New("repository: document version conflict")
)

type UserRepo interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	DeleteUser(ctx context.Context, id string) error
}

type ProfileRepo interface {
	CreateProfile(ctx context.Context, p *models.Profile) error
	GetProfileByUserID(ctx context.Context, userID string) (*models.Profile, error)
	ListProfiles(ctx context.Context) ([]models.Profile, error)
	UpdateProfile(ctx context.Context, p *models.Profile) error
	DeleteProfileByUserID(ctx context.Context, userID string) error
}

type PostRepo interface {
	CreatePost(ctx context.Context, p *models.Post) error
	GetPostByID(ctx context.Context, id string) (*models.Post, error)
	ListPosts(ctx context.Context) ([]models.Post, error)
	UpdatePost(ctx context.Context, p *models.Post) error
	DeletePost(ctx context.Context, id string) error
}
