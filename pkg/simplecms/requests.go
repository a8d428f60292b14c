package simplecms

// Command types, one per operation. They are built by the validation
// package from client input and carry only validated values.

// RegisterCommand creates a user account.
type RegisterCommand struct {
	Name     string
	Password string
	Author   string
	Email    string
	Phone    string
}

// LoginCommand authenticates a user by name.
type LoginCommand struct {
	Name     string
	Password string
}

// UpdateProfileCommand changes a user's profile. Empty fields are left
// unchanged; a non-empty Password is re-hashed.
type UpdateProfileCommand struct {
	UserID   int64
	Name     string
	Password string
	Author   string
	Email    string
	Phone    string
}

// CreateArticleCommand creates an article and stores its main image.
type CreateArticleCommand struct {
	UserID      int64
	Name        string
	Title       string
	Keywords    string
	Description string
	ImageName   string
	Image       *Upload
}

// UpdateArticleDataCommand replaces the descriptive fields of an article.
type UpdateArticleDataCommand struct {
	ID          int64
	Name        string
	Title       string
	Keywords    string
	Description string
}

// PublishStateCommand sets the published flag of an article.
type PublishStateCommand struct {
	ID        int64
	IsPublish bool
}

// CreateSectionCommand adds a section with its style to an article.
// Content is an Image exactly when Upload must be present.
type CreateSectionCommand struct {
	ArticleID int64
	Content   SectionContent
	Style     StyleAttributes
	Upload    *Upload
}

// UpdateSectionCommand replaces a section's content and style.
//
// When Content is an Image, Content.Key may be empty: the existing key is
// kept for a section that already holds an image, and a fresh key is
// generated for a section entering the image type.
type UpdateSectionCommand struct {
	ID      int64
	Content SectionContent
	Style   StyleAttributes
	Upload  *Upload
}
