package models

// Domain models matching the document layout in db/migrations/0001_init.sql.
// Profile and Post are stored as JSON documents; the Version field backs the
// conditional update check in the repository layer and is not serialized.

type User struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Avatar       string `json:"avatar,omitempty"`
	PasswordHash string `json:"-"`
	Created      int64  `json:"created"`
}

type SocialLinks struct {
	Youtube   string `json:"youtube,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	Linkedin  string `json:"linkedin,omitempty"`
	Instagram string `json:"instagram,omitempty"`
}

type Experience struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location,omitempty"`
	From        string `json:"from"`
	To          string `json:"to,omitempty"`
	Current     bool   `json:"current,omitempty"`
	Description string `json:"description,omitempty"`
}

type Education struct {
	ID           string `json:"id"`
	School       string `json:"school"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"fieldofstudy"`
	From         string `json:"from"`
	To           string `json:"to,omitempty"`
	Current      bool   `json:"current,omitempty"`
	Description  string `json:"description,omitempty"`
}

// Profile is owned by exactly one user; UserID is unique across profiles.
// Experience and Education entries are kept newest-first.
type Profile struct {
	ID             string       `json:"id"`
	UserID         string       `json:"user"`
	Company        string       `json:"company,omitempty"`
	Website        string       `json:"website,omitempty"`
	Location       string       `json:"location,omitempty"`
	Status         string       `json:"status,omitempty"`
	Skills         []string     `json:"skills,omitempty"`
	Bio            string       `json:"bio,omitempty"`
	GithubUsername string       `json:"githubusername,omitempty"`
	Social         *SocialLinks `json:"social,omitempty"`
	Experience     []Experience `json:"experience"`
	Education      []Education  `json:"education"`
	Updated        int64        `json:"updated"`

	Version int64 `json:"-"`
}

// Like records that a single user liked a post; at most one per (post, user).
type Like struct {
	UserID string `json:"user"`
}

type Comment struct {
	ID      string `json:"id"`
	UserID  string `json:"user"`
	Text    string `json:"text"`
	Name    string `json:"name,omitempty"`
	Avatar  string `json:"avatar,omitempty"`
	Created int64  `json:"created"`
}

// Post carries a denormalized name/avatar snapshot of its author taken at
// creation time. Likes and Comments are kept newest-first.
type Post struct {
	ID       string    `json:"id"`
	UserID   string    `json:"user"`
	Text     string    `json:"text"`
	Name     string    `json:"name,omitempty"`
	Avatar   string    `json:"avatar,omitempty"`
	Likes    []Like    `json:"likes"`
	Comments []Comment `json:"comments"`
	Created  int64     `json:"created"`

	Version int64 `json:"-"`
}

// HasLike reports whether userID already liked the post.
func (p *Post) HasLike(userID string) bool {
	for _, l := range p.Likes {
		if l.UserID == userID {
			return true
		}
	}
	return false
}

// FindComment returns the comment with the given id, or nil.
func (p *Post) FindComment(commentID string) *Comment {
	for i := range p.Comments {
		if p.Comments[i].ID == commentID {
			return &p.Comments[i]
		}
	}
	return nil
}
