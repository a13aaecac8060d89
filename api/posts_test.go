package api_test

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"github.com/garnizeh/devconnect/api"
	"github.com/garnizeh/devconnect/internal/post"
	"github.com/garnizeh/devconnect/internal/token"
	"github.com/garnizeh/devconnect/pkg/models"
	"github.com/garnizeh/devconnect/pkg/repository/mock"
)

func newPostsRouter(m *mock.Mocks) (*mux.Router, *token.Manager) {
	tm := token.NewManager(testSecret, time.Hour)
	engine := post.NewEngine(m.Posts, m.Users, 5*time.Second, nil)
	h := api.NewPostsHandler(engine)

	r := mux.NewRouter()
	priv := r.PathPrefix("/api").Subrouter()
	priv.Use(api.AuthMiddleware(tm))
	priv.HandleFunc("/posts", h.Create).Methods("POST")
	priv.HandleFunc("/posts", h.List).Methods("GET")
	priv.HandleFunc("/posts/like/{id}", h.Like).Methods("PUT")
	priv.HandleFunc("/posts/unlike/{id}", h.Unlike).Methods("PUT")
	priv.HandleFunc("/posts/comment/{id}", h.AddComment).Methods("PUT")
	priv.HandleFunc("/posts/comment/{id}/{commentId}", h.RemoveComment).Methods("DELETE")
	priv.HandleFunc("/posts/{id}", h.Get).Methods("GET")
	priv.HandleFunc("/posts/{id}", h.Delete).Methods("DELETE")

	return r, tm
}

func createPost(t *testing.T, r http.Handler, hdr map[string]string, text string) models.Post {
	t.Helper()
	rec := doRequest(t, r, http.MethodPost, "/api/posts", map[string]string{"text": text}, hdr)
	if rec.Code != http.StatusOK {
		t.Fatalf("create post: status = %d, body %s", rec.Code, rec.Body.Bytes())
	}
	var p models.Post
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		t.Fatalf("unmarshal post: %v", err)
	}
	return p
}

func TestCreatePost(t *testing.T) {
	m := mock.NewMocks()
	seedUser(t, m, "u1", "Alice", "a@x.com", "pass1234")
	r, tm := newPostsRouter(m)
	hdr := authHeader(t, tm, "u1")

	p := createPost(t, r, hdr, "hello world")
	if p.UserID != "u1" || p.Text != "hello world" || p.Name != "Alice" {
		t.Fatalf("unexpected post: %+v", p)
	}
	if p.ID == "" {
		t.Fatal("post id not assigned")
	}
	if len(p.Likes) != 0 || len(p.Comments) != 0 {
		t.Fatalf("fresh post not empty: %+v", p)
	}
}

func TestCreatePostValidation(t *testing.T) {
	m := mock.NewMocks()
	seedUser(t, m, "u1", "Alice", "a@x.com", "pass1234")
	r, tm := newPostsRouter(m)

	rec := doRequest(t, r, http.MethodPost, "/api/posts", map[string]string{}, authHeader(t, tm, "u1"))
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "Text is required") {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.Bytes())
	}
}

func TestCreatePostUnknownUser(t *testing.T) {
	m := mock.NewMocks()
	r, tm := newPostsRouter(m)

	rec := doRequest(t, r, http.MethodPost, "/api/posts", map[string]string{"text": "hi"}, authHeader(t, tm, "ghost"))
	if rec.Code != http.StatusUnauthorized || !strings.Contains(rec.Body.String(), "User not found") {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.Bytes())
	}
}

func TestLikeTwice(t *testing.T) {
	m := mock.NewMocks()
	seedUser(t, m, "u1", "Alice", "a@x.com", "pass1234")
	seedUser(t, m, "u2", "Bob", "b@x.com", "pass1234")
	r, tm := newPostsRouter(m)
	alice := authHeader(t, tm, "u1")
	bob := authHeader(t, tm, "u2")

	p := createPost(t, r, alice, "like me")

	rec := doRequest(t, r, http.MethodPut, "/api/posts/like/"+p.ID, nil, bob)
	if rec.Code != http.StatusOK {
		t.Fatalf("first like: status = %d, body %s", rec.Code, rec.Body.Bytes())
	}
	var likes []models.Like
	if err := json.Unmarshal(rec.Body.Bytes(), &likes); err != nil || len(likes) != 1 {
		t.Fatalf("likes body %s", rec.Body.Bytes())
	}

	rec = doRequest(t, r, http.MethodPut, "/api/posts/like/"+p.ID, nil, bob)
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "Post already liked") {
		t.Fatalf("second like: status = %d, body %s", rec.Code, rec.Body.Bytes())
	}

	stored, err := m.Posts.GetPostByID(t.Context(), p.ID)
	if err != nil || stored == nil {
		t.Fatalf("reload post: %v", err)
	}
	if len(stored.Likes) != 1 {
		t.Fatalf("like count = %d, want 1", len(stored.Likes))
	}
}

func TestUnlike(t *testing.T) {
	m := mock.NewMocks()
	seedUser(t, m, "u1", "Alice", "a@x.com", "pass1234")
	seedUser(t, m, "u2", "Bob", "b@x.com", "pass1234")
	r, tm := newPostsRouter(m)
	alice := authHeader(t, tm, "u1")
	bob := authHeader(t, tm, "u2")

	p := createPost(t, r, alice, "like me")

	// unliking before liking is rejected
	rec := doRequest(t, r, http.MethodPut, "/api/posts/unlike/"+p.ID, nil, bob)
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "Post has not yet been liked") {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.Bytes())
	}

	doRequest(t, r, http.MethodPut, "/api/posts/like/"+p.ID, nil, bob)

	rec = doRequest(t, r, http.MethodPut, "/api/posts/unlike/"+p.ID, nil, bob)
	if rec.Code != http.StatusOK {
		t.Fatalf("unlike: status = %d, body %s", rec.Code, rec.Body.Bytes())
	}
	var likes []models.Like
	if err := json.Unmarshal(rec.Body.Bytes(), &likes); err != nil || len(likes) != 0 {
		t.Fatalf("likes body %s", rec.Body.Bytes())
	}
}

func TestDeletePostOwnership(t *testing.T) {
	m := mock.NewMocks()
	seedUser(t, m, "u1", "Alice", "a@x.com", "pass1234")
	seedUser(t, m, "u2", "Bob", "b@x.com", "pass1234")
	r, tm := newPostsRouter(m)
	alice := authHeader(t, tm, "u1")
	bob := authHeader(t, tm, "u2")

	p := createPost(t, r, alice, "mine")

	rec := doRequest(t, r, http.MethodDelete, "/api/posts/"+p.ID, nil, bob)
	if rec.Code != http.StatusUnauthorized || !strings.Contains(rec.Body.String(), "User not authorized") {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.Bytes())
	}

	rec = doRequest(t, r, http.MethodDelete, "/api/posts/"+p.ID, nil, alice)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Post deleted!") {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.Bytes())
	}

	rec = doRequest(t, r, http.MethodGet, "/api/posts/"+p.ID, nil, alice)
	if rec.Code != http.StatusNotFound || !strings.Contains(rec.Body.String(), "Post not found!") {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.Bytes())
	}
}

func TestCommentsOverHTTP(t *testing.T) {
	m := mock.NewMocks()
	seedUser(t, m, "u1", "Alice", "a@x.com", "pass1234")
	seedUser(t, m, "u2", "Bob", "b@x.com", "pass1234")
	r, tm := newPostsRouter(m)
	alice := authHeader(t, tm, "u1")
	bob := authHeader(t, tm, "u2")

	p := createPost(t, r, alice, "discuss")

	rec := doRequest(t, r, http.MethodPut, "/api/posts/comment/"+p.ID, map[string]string{"text": "first"}, bob)
	if rec.Code != http.StatusOK {
		t.Fatalf("add comment: status = %d, body %s", rec.Code, rec.Body.Bytes())
	}
	var comments []models.Comment
	if err := json.Unmarshal(rec.Body.Bytes(), &comments); err != nil || len(comments) != 1 {
		t.Fatalf("comments body %s", rec.Body.Bytes())
	}
	if comments[0].Name != "Bob" || comments[0].UserID != "u2" {
		t.Fatalf("commenter snapshot wrong: %+v", comments[0])
	}
	commentID := comments[0].ID

	// only the comment's author may remove it
	rec = doRequest(t, r, http.MethodDelete, "/api/posts/comment/"+p.ID+"/"+commentID, nil, alice)
	if rec.Code != http.StatusUnauthorized || !strings.Contains(rec.Body.String(), "User not authorized") {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.Bytes())
	}

	rec = doRequest(t, r, http.MethodDelete, "/api/posts/comment/"+p.ID+"/"+commentID, nil, bob)
	if rec.Code != http.StatusOK {
		t.Fatalf("remove comment: status = %d, body %s", rec.Code, rec.Body.Bytes())
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &comments); err != nil || len(comments) != 0 {
		t.Fatalf("comments body %s", rec.Body.Bytes())
	}

	rec = doRequest(t, r, http.MethodDelete, "/api/posts/comment/"+p.ID+"/"+commentID, nil, bob)
	if rec.Code != http.StatusNotFound || !strings.Contains(rec.Body.String(), "Comment not found!") {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.Bytes())
	}
}

func TestListPostsNewestFirst(t *testing.T) {
	m := mock.NewMocks()
	seedUser(t, m, "u1", "Alice", "a@x.com", "pass1234")
	r, tm := newPostsRouter(m)
	hdr := authHeader(t, tm, "u1")

	createPost(t, r, hdr, "first")
	time.Sleep(2 * time.Millisecond)
	createPost(t, r, hdr, "second")

	rec := doRequest(t, r, http.MethodGet, "/api/posts", nil, hdr)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.Bytes())
	}
	var posts []models.Post
	if err := json.Unmarshal(rec.Body.Bytes(), &posts); err != nil || len(posts) != 2 {
		t.Fatalf("body %s", rec.Body.Bytes())
	}
	if posts[0].Text != "second" || posts[1].Text != "first" {
		t.Fatalf("posts out of order: %q, %q", posts[0].Text, posts[1].Text)
	}
}
