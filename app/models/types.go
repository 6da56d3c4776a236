package models

// User is a registered account. Password holds the bcrypt hash, never the
// plaintext.
type User struct {
	ID        int64
	Username  string
	Name      string
	Password  string
	Email     string
	Birthdate string
	IsAdmin   bool
}

// Post is a movie review. AuthorID is nil for posts created anonymously.
type Post struct {
	ID         int64
	Title      string
	Review     string
	Rating     int
	AuthorID   *int64
	AuthorName string
	Comments   []*Comment
}

// Comment is a reply on a post. AuthorID is nil for anonymous comments.
type Comment struct {
	ID         int64
	Content    string
	PostID     int64
	AuthorID   *int64
	AuthorName string
}

// Actor is whoever issues a request: a signed-in user or an anonymous
// visitor (nil UserID).
type Actor struct {
	UserID  *int64
	IsAdmin bool
}
