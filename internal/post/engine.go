// Package post implements the post interaction engine: creating and
// deleting posts, toggling likes, and appending/removing comments, with
// ownership enforced on the destructive operations.
package post

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/garnizeh/devconnect/internal/apperr"
	"github.com/garnizeh/devconnect/pkg/models"
	"github.com/garnizeh/devconnect/pkg/repository"
)

const casAttempts = 3

type Engine struct {
	posts          repository.PostRepo
	users          repository.UserRepo
	storageTimeout time.Duration
	logger         *slog.Logger
}

func NewEngine(pr repository.PostRepo, ur repository.UserRepo, storageTimeout time.Duration, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{posts: pr, users: ur, storageTimeout: storageTimeout, logger: logger}
}

// Create stores a new post with a name/avatar snapshot of the author taken
// at creation time.
func (e *Engine) Create(ctx context.Context, authorID, text string) (*models.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, e.storageTimeout)
	defer cancel()

	author, err := e.users.GetUserByID(ctx, authorID)
	if err != nil {
		return nil, storageErr("load user", err)
	}
	if author == nil {
		return nil, apperr.New(apperr.Unauthenticated, "User not found")
	}

	p := &models.Post{
		ID:       uuid.NewString(),
		UserID:   authorID,
		Text:     text,
		Name:     author.Name,
		Avatar:   author.Avatar,
		Likes:    []models.Like{},
		Comments: []models.Comment{},
		Created:  time.Now().UTC().UnixMilli(),
	}
	if err := e.posts.CreatePost(ctx, p); err != nil {
		return nil, storageErr("create post", err)
	}

	return p, nil
}

// Get returns one post by id.
func (e *Engine) Get(ctx context.Context, postID string) (*models.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, e.storageTimeout)
	defer cancel()

	return e.load(ctx, postID)
}

// List returns all posts, most recent first.
func (e *Engine) List(ctx context.Context) ([]models.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, e.storageTimeout)
	defer cancel()

	out, err := e.posts.ListPosts(ctx)
	if err != nil {
		return nil, storageErr("list posts", err)
	}
	if out == nil {
		out = []models.Post{}
	}

	return out, nil
}

// Delete removes a post. Only the post's author may delete it.
func (e *Engine) Delete(ctx context.Context, postID, callerID string) error {
	ctx, cancel := context.WithTimeout(ctx, e.storageTimeout)
	defer cancel()

	p, err := e.load(ctx, postID)
	if err != nil {
		return err
	}
	if p.UserID != callerID {
		return apperr.New(apperr.Forbidden, "User not authorized")
	}
	if err := e.posts.DeletePost(ctx, postID); err != nil {
		return storageErr("delete post", err)
	}

	return nil
}

// Like prepends a like by callerID. Liking a post twice is a conflict;
// there is exactly one like per (post, user) pair.
func (e *Engine) Like(ctx context.Context, postID, callerID string) ([]models.Like, error) {
	p, err := e.mutate(ctx, postID, func(p *models.Post) error {
		if p.HasLike(callerID) {
			return apperr.New(apperr.Conflict, "Post already liked")
		}
		p.Likes = append([]models.Like{{UserID: callerID}}, p.Likes...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p.Likes, nil
}

// Unlike removes the caller's like. Unliking a post that the caller never
// liked is a conflict.
func (e *Engine) Unlike(ctx context.Context, postID, callerID string) ([]models.Like, error) {
	p, err := e.mutate(ctx, postID, func(p *models.Post) error {
		if !p.HasLike(callerID) {
			return apperr.New(apperr.Conflict, "Post has not yet been liked")
		}
		out := make([]models.Like, 0, len(p.Likes)-1)
		for _, l := range p.Likes {
			if l.UserID != callerID {
				out = append(out, l)
			}
		}
		p.Likes = out
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p.Likes, nil
}

// AddComment prepends a comment with a fresh id and a snapshot of the
// commenter taken at comment time.
func (e *Engine) AddComment(ctx context.Context, postID, callerID, text string) ([]models.Comment, error) {
	ctx, cancel := context.WithTimeout(ctx, e.storageTimeout)
	defer cancel()

	commenter, err := e.users.GetUserByID(ctx, callerID)
	if err != nil {
		return nil, storageErr("load user", err)
	}
	if commenter == nil {
		return nil, apperr.New(apperr.Unauthenticated, "User not found")
	}

	p, err := e.mutate(ctx, postID, func(p *models.Post) error {
		c := models.Comment{
			ID:      uuid.NewString(),
			UserID:  callerID,
			Text:    text,
			Name:    commenter.Name,
			Avatar:  commenter.Avatar,
			Created: time.Now().UTC().UnixMilli(),
		}
		p.Comments = append([]models.Comment{c}, p.Comments...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p.Comments, nil
}

// RemoveComment removes the comment with the given id after verifying the
// caller authored that specific comment. Removal is keyed by comment id,
// never by the caller's user id, so a user with several comments on one
// post always removes the one they targeted.
func (e *Engine) RemoveComment(ctx context.Context, postID, callerID, commentID string) ([]models.Comment, error) {
	p, err := e.mutate(ctx, postID, func(p *models.Post) error {
		c := p.FindComment(commentID)
		if c == nil {
			return apperr.New(apperr.NotFound, "Comment not found!")
		}
		if c.UserID != callerID {
			return apperr.New(apperr.Forbidden, "User not authorized")
		}
		out := make([]models.Comment, 0, len(p.Comments)-1)
		for _, cm := range p.Comments {
			if cm.ID != commentID {
				out = append(out, cm)
			}
		}
		p.Comments = out
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p.Comments, nil
}

func (e *Engine) load(ctx context.Context, postID string) (*models.Post, error) {
	p, err := e.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, storageErr("load post", err)
	}
	if p == nil {
		return nil, apperr.New(apperr.NotFound, "Post not found!")
	}

	return p, nil
}

// mutate runs a load-mutate-store cycle under the storage timeout, retrying
// a bounded number of times when the conditional update loses. fn may veto
// the mutation by returning an error, which is passed through untouched.
func (e *Engine) mutate(ctx context.Context, postID string, fn func(p *models.Post) error) (*models.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, e.storageTimeout)
	defer cancel()

	for attempt := 0; attempt < casAttempts; attempt++ {
		p, err := e.load(ctx, postID)
		if err != nil {
			return nil, err
		}

		if err := fn(p); err != nil {
			return nil, err
		}

		if err := e.posts.UpdatePost(ctx, p); err != nil {
			if errors.Is(err, repository.ErrVersionConflict) {
				continue
			}
			return nil, storageErr("update post", err)
		}
		return p, nil
	}

	return nil, apperr.New(apperr.Conflict, "Post was modified concurrently, please retry")
}

func storageErr(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperr.Wrap(apperr.Timeout, op+" timed out", err)
	}
	return apperr.Wrap(apperr.StorageUnavailable, op+" failed", err)
}
