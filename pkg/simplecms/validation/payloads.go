package validation

// Payload shapes decoded from request bodies. JSON bodies use the json tags,
// urlencoded and multipart bodies the form tags.

// RegisterPayload is the body of a registration request.
type RegisterPayload struct {
	Name     string `json:"name" form:"name" validate:"required,max=255"`
	Password string `json:"password" form:"password" validate:"required,max=72"`
	Author   string `json:"author" form:"author" validate:"max=255"`
	Email    string `json:"email" form:"email" validate:"omitempty,email,max=255"`
	Phone    string `json:"phone" form:"phone" validate:"max=64"`
}

// LoginPayload is the body of a login request.
type LoginPayload struct {
	Name     string `json:"name" form:"name" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// ProfilePayload is the body of a profile update. Empty fields are kept.
type ProfilePayload struct {
	Name     string `json:"name" form:"name" validate:"max=255"`
	Password string `json:"password" form:"password" validate:"max=72"`
	Author   string `json:"author" form:"author" validate:"max=255"`
	Email    string `json:"email" form:"email" validate:"omitempty,email,max=255"`
	Phone    string `json:"phone" form:"phone" validate:"max=64"`
}

// IDPayload carries the id of the row a request acts on.
type IDPayload struct {
	ID int64 `json:"id" form:"id" validate:"required,gt=0"`
}

// ArticlePayload is the multipart body of an article creation.
type ArticlePayload struct {
	Name        string `json:"name" form:"name" validate:"required,max=255"`
	Title       string `json:"title" form:"title" validate:"required,max=255"`
	Keywords    string `json:"keywords" form:"keywords" validate:"max=255"`
	Description string `json:"description" form:"description"`
	ImageName   string `json:"image_name" form:"image_name" validate:"required,max=512"`
}

// ArticleDataPayload replaces the descriptive fields of an article.
type ArticleDataPayload struct {
	ID          int64  `json:"id" form:"id" validate:"required,gt=0"`
	Name        string `json:"name" form:"name" validate:"required,max=255"`
	Title       string `json:"title" form:"title" validate:"required,max=255"`
	Keywords    string `json:"keywords" form:"keywords" validate:"max=255"`
	Description string `json:"description" form:"description"`
}

// PublishPayload sets the published flag of an article.
type PublishPayload struct {
	ID        int64 `json:"id" form:"id" validate:"required,gt=0"`
	IsPublish *bool `json:"is_publish" form:"is_publish" validate:"required"`
}

// SectionPayload is the body of a section create (ArticleID set) or update
// (ID set), with the style fields inline.
type SectionPayload struct {
	ID          int64  `json:"id" form:"id"`
	ArticleID   int64  `json:"article_id" form:"article_id"`
	Content     string `json:"content" form:"content"`
	ContentType string `json:"content_type" form:"content_type" validate:"required,oneof=paragraph subtitle image"`
	ImageName   string `json:"image_name" form:"image_name" validate:"max=512"`

	Width        string `json:"width" form:"width" validate:"max=64"`
	Height       string `json:"height" form:"height" validate:"max=64"`
	FontSize     string `json:"font_size" form:"font_size" validate:"max=64"`
	FontWeight   string `json:"font_weight" form:"font_weight" validate:"max=64"`
	FontFamily   string `json:"font_family" form:"font_family" validate:"max=255"`
	LineHeight   string `json:"line_height" form:"line_height" validate:"max=64"`
	MarginTop    string `json:"margin_top" form:"margin_top" validate:"max=64"`
	TextAlign    string `json:"text_align" form:"text_align" validate:"omitempty,oneof=left right center justify start end"`
	TextColor    string `json:"text_color" form:"text_color" validate:"max=64"`
	BorderRadius string `json:"border_radius" form:"border_radius" validate:"max=64"`
}
