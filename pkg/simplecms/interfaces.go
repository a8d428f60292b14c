package simplecms

import (
	"context"
	"io"
	"time"
)

// BlobStore defines the interface for image storage backends
type BlobStore interface {
	// Upload stores the bytes from reader under objectKey, replacing any
	// existing object
	Upload(ctx context.Context, objectKey string, reader io.Reader, mimeType string) error

	// Download opens the object stored under objectKey
	Download(ctx context.Context, objectKey string) (io.ReadCloser, error)

	// Delete removes the object; ErrBlobNotFound when it does not exist
	Delete(ctx context.Context, objectKey string) error

	// GetSignedURL returns a time-limited read URL for objectKey
	GetSignedURL(ctx context.Context, objectKey string, ttl time.Duration) (string, error)

	// GetObjectMeta retrieves metadata for an object
	GetObjectMeta(ctx context.Context, objectKey string) (*ObjectMeta, error)
}

// UserStore persists users.
type UserStore interface {
	CreateUser(ctx context.Context, user *User) error
	GetUser(ctx context.Context, id int64) (*User, error)
	GetUserByName(ctx context.Context, name string) (*User, error)
	UpdateUser(ctx context.Context, user *User) error
}

// ArticleStore persists articles. DeleteArticle also removes the article's
// sections and their styles.
type ArticleStore interface {
	CreateArticle(ctx context.Context, article *Article) error
	GetArticle(ctx context.Context, id int64) (*Article, error)
	// FindArticleID returns the id of the owner's article with that name,
	// or 0 when there is none
	FindArticleID(ctx context.Context, userID int64, name string) (int64, error)
	ListArticles(ctx context.Context, userID int64) ([]*Article, error)
	UpdateArticle(ctx context.Context, article *Article) error
	DeleteArticle(ctx context.Context, id int64) error
}

// SectionStore persists sections. DeleteSection also removes the style.
type SectionStore interface {
	CreateSection(ctx context.Context, section *Section) error
	GetSection(ctx context.Context, id int64) (*Section, error)
	ListSections(ctx context.Context, articleID int64) ([]*SectionView, error)
	UpdateSection(ctx context.Context, section *Section) error
	DeleteSection(ctx context.Context, id int64) error
}

// StyleStore persists section styles.
type StyleStore interface {
	CreateStyle(ctx context.Context, style *Style) error
	GetStyle(ctx context.Context, sectionID int64) (*Style, error)
	UpdateStyle(ctx context.Context, style *Style) error
}

// IntentStore persists pending blob intents.
type IntentStore interface {
	CreateIntent(ctx context.Context, intent *Intent) error
	DeleteIntent(ctx context.Context, intent *Intent) error
	// ListIntents returns intents created before the given time, oldest first
	ListIntents(ctx context.Context, createdBefore time.Time) ([]*Intent, error)
	// KeyReferenced reports whether any article or section row names the key
	KeyReferenced(ctx context.Context, key string) (bool, error)
}

// Repository combines every store the service needs.
type Repository interface {
	UserStore
	ArticleStore
	SectionStore
	StyleStore
	IntentStore
}

// TokenIssuer signs access tokens for authenticated users.
type TokenIssuer interface {
	// Issue returns a signed token embedding userID, or
	// ErrSigningSecretMissing when no secret is configured
	Issue(userID int64) (string, error)
}

// EventSink defines the interface for lifecycle events
type EventSink interface {
	ArticleCreated(ctx context.Context, article *Article) error
	ArticleDeleted(ctx context.Context, articleID int64) error
	SectionCreated(ctx context.Context, section *Section) error
	SectionUpdated(ctx context.Context, section *Section) error
	SectionDeleted(ctx context.Context, sectionID int64) error
	BlobUploaded(ctx context.Context, key string, size int64) error
	BlobDeleted(ctx context.Context, key string) error
	IntentReconciled(ctx context.Context, intent *Intent, purged bool) error
}
