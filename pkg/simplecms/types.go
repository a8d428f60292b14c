package simplecms

import (
	"time"

	"github.com/google/uuid"
)

// ContentType is the kind of content a section holds.
type ContentType string

const (
	ContentTypeParagraph ContentType = "paragraph"
	ContentTypeSubtitle  ContentType = "subtitle"
	ContentTypeImage     ContentType = "image"
)

// ContentTypes lists every section content type in display order.
var ContentTypes = []ContentType{ContentTypeParagraph, ContentTypeSubtitle, ContentTypeImage}

// IsValid reports whether t is a known content type.
func (t ContentType) IsValid() bool {
	switch t {
	case ContentTypeParagraph, ContentTypeSubtitle, ContentTypeImage:
		return true
	}
	return false
}

// User is an account that owns articles.
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Password  string    `json:"-"`
	Author    string    `json:"author"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Article is a titled post owned by a user. ImageName is the blob key of the
// article's main image and never changes after creation.
type Article struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Name        string    `json:"name"`
	Title       string    `json:"title"`
	Keywords    string    `json:"keywords"`
	Description string    `json:"description"`
	ImageName   string    `json:"image_name"`
	IsPublish   bool      `json:"is_publish"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// ImageURL is a signed read URL filled in by list operations.
	ImageURL string `json:"image_url,omitempty"`
}

// Section is a content block of an article. ImageName is set exactly when
// ContentType is image.
type Section struct {
	ID          int64       `json:"id"`
	ArticleID   int64       `json:"article_id"`
	Content     string      `json:"content"`
	ContentType ContentType `json:"content_type"`
	ImageName   *string     `json:"image_name"`
}

// Style holds the presentation attributes of exactly one section.
type Style struct {
	SectionID    int64  `json:"section_id"`
	Width        string `json:"width"`
	Height       string `json:"height"`
	FontSize     string `json:"font_size"`
	FontWeight   string `json:"font_weight"`
	FontFamily   string `json:"font_family"`
	LineHeight   string `json:"line_height"`
	MarginTop    string `json:"margin_top"`
	TextAlign    string `json:"text_align"`
	TextColor    string `json:"text_color"`
	BorderRadius string `json:"border_radius"`
}

// StyleAttributes are the editable fields of a Style.
type StyleAttributes struct {
	Width        string
	Height       string
	FontSize     string
	FontWeight   string
	FontFamily   string
	LineHeight   string
	MarginTop    string
	TextAlign    string
	TextColor    string
	BorderRadius string
}

// StyleFor builds the style row of the given section.
func (a StyleAttributes) StyleFor(sectionID int64) *Style {
	return &Style{
		SectionID:    sectionID,
		Width:        a.Width,
		Height:       a.Height,
		FontSize:     a.FontSize,
		FontWeight:   a.FontWeight,
		FontFamily:   a.FontFamily,
		LineHeight:   a.LineHeight,
		MarginTop:    a.MarginTop,
		TextAlign:    a.TextAlign,
		TextColor:    a.TextColor,
		BorderRadius: a.BorderRadius,
	}
}

// SectionView is a section joined with its style, as returned by list
// operations. The embedded structs flatten into a single JSON object.
type SectionView struct {
	Section
	Style
}

// IntentOp is the blob operation an intent guards.
type IntentOp string

const (
	IntentOpPut    IntentOp = "put"
	IntentOpDelete IntentOp = "delete"
)

// Intent records a blob mutation that is in flight. An intent that outlives
// its request is reconciled by SweepIntents.
type Intent struct {
	ID        uuid.UUID `json:"id"`
	Op        IntentOp  `json:"op"`
	BlobKey   string    `json:"blob_key"`
	Entity    string    `json:"entity"`
	EntityID  int64     `json:"entity_id"`
	CreatedAt time.Time `json:"created_at"`
}

// ObjectMeta describes a stored blob.
type ObjectMeta struct {
	Key         string
	Size        int64
	ContentType string
	UpdatedAt   time.Time
	ETag        string
}

// Upload is an attached file as received from a client.
type Upload struct {
	FileName    string
	ContentType string
	Data        []byte
}

// Size returns the number of bytes in the upload.
func (u *Upload) Size() int64 {
	if u == nil {
		return 0
	}
	return int64(len(u.Data))
}

// AuthResult is returned by register and login.
type AuthResult struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// SweepReport summarises a reconciliation pass over pending intents.
type SweepReport struct {
	Scanned     int `json:"scanned"`
	BlobsKept   int `json:"blobs_kept"`
	BlobsPurged int `json:"blobs_purged"`
	Failed      int `json:"failed"`
}
