// Package validation turns decoded request payloads into typed service
// commands. It never performs I/O: a payload either becomes a command or a
// *simplecms.ValidationError naming the offending fields.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"

	"github.com/tendant/simple-cms/pkg/simplecms"
)

// DefaultMaxUploadBytes bounds attached image files
const DefaultMaxUploadBytes = 10 << 20

// ErrArticleIDNotNumber indicates an article_id_query that is not an integer
var ErrArticleIDNotNumber = errors.New("article id can not be transform into a number")

// Validator validates payloads against their shapes
type Validator struct {
	validate       *validator.Validate
	maxUploadBytes int64
}

// Option configures a Validator
type Option func(*Validator)

// WithMaxUploadBytes sets the size limit of attached files
func WithMaxUploadBytes(n int64) Option {
	return func(v *Validator) {
		if n > 0 {
			v.maxUploadBytes = n
		}
	}
}

// New creates a Validator
func New(opts ...Option) *Validator {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	v := &Validator{validate: validate, maxUploadBytes: DefaultMaxUploadBytes}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// MaxUploadBytes returns the size limit of attached files
func (v *Validator) MaxUploadBytes() int64 {
	return v.maxUploadBytes
}

// check runs the struct tags of payload and converts the failures
func (v *Validator) check(payload interface{}) *simplecms.ValidationError {
	err := v.validate.Struct(payload)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return simplecms.NewValidationError("body", err.Error())
	}
	verr := &simplecms.ValidationError{Fields: make(map[string]string, len(fieldErrs))}
	for _, fe := range fieldErrs {
		verr.Fields[fe.Field()] = message(fe)
	}
	return verr
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	}
	return fmt.Sprintf("failed on %s", fe.Tag())
}

// Register validates a registration
func (v *Validator) Register(p RegisterPayload) (simplecms.RegisterCommand, error) {
	if verr := v.check(p); verr != nil {
		return simplecms.RegisterCommand{}, verr
	}
	return simplecms.RegisterCommand{
		Name:     strings.TrimSpace(p.Name),
		Password: p.Password,
		Author:   p.Author,
		Email:    p.Email,
		Phone:    p.Phone,
	}, nil
}

// Login validates a login
func (v *Validator) Login(p LoginPayload) (simplecms.LoginCommand, error) {
	if verr := v.check(p); verr != nil {
		return simplecms.LoginCommand{}, verr
	}
	return simplecms.LoginCommand{Name: strings.TrimSpace(p.Name), Password: p.Password}, nil
}

// UpdateProfile validates a profile change of the given user
func (v *Validator) UpdateProfile(userID int64, p ProfilePayload) (simplecms.UpdateProfileCommand, error) {
	if verr := v.check(p); verr != nil {
		return simplecms.UpdateProfileCommand{}, verr
	}
	return simplecms.UpdateProfileCommand{
		UserID:   userID,
		Name:     strings.TrimSpace(p.Name),
		Password: p.Password,
		Author:   p.Author,
		Email:    p.Email,
		Phone:    p.Phone,
	}, nil
}

// ID validates the id of a delete request
func (v *Validator) ID(p IDPayload) (int64, error) {
	if verr := v.check(p); verr != nil {
		return 0, verr
	}
	return p.ID, nil
}

// CreateArticle validates a new article of the given user with its image
func (v *Validator) CreateArticle(userID int64, p ArticlePayload, image *simplecms.Upload) (simplecms.CreateArticleCommand, error) {
	verr := v.check(p)
	if image == nil || len(image.Data) == 0 {
		if verr == nil {
			verr = &simplecms.ValidationError{Fields: map[string]string{}}
		}
		verr.Fields["image"] = "an image file is required"
	}
	if verr != nil {
		return simplecms.CreateArticleCommand{}, verr
	}
	return simplecms.CreateArticleCommand{
		UserID:      userID,
		Name:        strings.TrimSpace(p.Name),
		Title:       p.Title,
		Keywords:    p.Keywords,
		Description: p.Description,
		ImageName:   p.ImageName,
		Image:       image,
	}, nil
}

// UpdateArticleData validates an article data change
func (v *Validator) UpdateArticleData(p ArticleDataPayload) (simplecms.UpdateArticleDataCommand, error) {
	if verr := v.check(p); verr != nil {
		return simplecms.UpdateArticleDataCommand{}, verr
	}
	return simplecms.UpdateArticleDataCommand{
		ID:          p.ID,
		Name:        strings.TrimSpace(p.Name),
		Title:       p.Title,
		Keywords:    p.Keywords,
		Description: p.Description,
	}, nil
}

// PublishState validates a publish flag change
func (v *Validator) PublishState(p PublishPayload) (simplecms.PublishStateCommand, error) {
	if verr := v.check(p); verr != nil {
		return simplecms.PublishStateCommand{}, verr
	}
	return simplecms.PublishStateCommand{ID: p.ID, IsPublish: *p.IsPublish}, nil
}

// ArticleIDQuery parses the article_id_query parameter of a section listing
func (v *Validator) ArticleIDQuery(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, simplecms.NewValidationError("article_id_query", "is required")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, ErrArticleIDNotNumber
	}
	if id <= 0 {
		return 0, simplecms.NewValidationError("article_id_query", "must be greater than 0")
	}
	return id, nil
}

// CreateSection validates a new section. An image section's key and file
// are checked by the service, which owns the blob rules.
func (v *Validator) CreateSection(p SectionPayload, upload *simplecms.Upload) (simplecms.CreateSectionCommand, error) {
	verr := v.check(p)
	if p.ArticleID <= 0 {
		verr = addField(verr, "article_id", "is required")
	}
	if verr != nil {
		return simplecms.CreateSectionCommand{}, verr
	}
	return simplecms.CreateSectionCommand{
		ArticleID: p.ArticleID,
		Content:   contentOf(p),
		Style:     styleOf(p),
		Upload:    upload,
	}, nil
}

// UpdateSection validates a section replacement
func (v *Validator) UpdateSection(p SectionPayload, upload *simplecms.Upload) (simplecms.UpdateSectionCommand, error) {
	verr := v.check(p)
	if p.ID <= 0 {
		verr = addField(verr, "id", "is required")
	}
	if verr != nil {
		return simplecms.UpdateSectionCommand{}, verr
	}
	return simplecms.UpdateSectionCommand{
		ID:      p.ID,
		Content: contentOf(p),
		Style:   styleOf(p),
		Upload:  upload,
	}, nil
}

// Upload checks an attached file against the size limit and sniffs its
// content type, which must be an image.
func (v *Validator) Upload(field, fileName string, data []byte) (*simplecms.Upload, error) {
	if len(data) == 0 {
		return nil, nil
	}
	if int64(len(data)) > v.maxUploadBytes {
		return nil, simplecms.NewValidationError(field, fmt.Sprintf("must be at most %d bytes", v.maxUploadBytes))
	}
	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return nil, simplecms.NewValidationError(field, fmt.Sprintf("must be an image, got %s", mtype.String()))
	}
	return &simplecms.Upload{
		FileName:    fileName,
		ContentType: mtype.String(),
		Data:        data,
	}, nil
}

func addField(verr *simplecms.ValidationError, field, msg string) *simplecms.ValidationError {
	if verr == nil {
		return simplecms.NewValidationError(field, msg)
	}
	verr.Fields[field] = msg
	return verr
}

func contentOf(p SectionPayload) simplecms.SectionContent {
	switch simplecms.ContentType(p.ContentType) {
	case simplecms.ContentTypeImage:
		return simplecms.Image{Key: strings.TrimSpace(p.ImageName), Caption: p.Content}
	case simplecms.ContentTypeSubtitle:
		return simplecms.Subtitle{Text: p.Content}
	default:
		return simplecms.Paragraph{Text: p.Content}
	}
}

func styleOf(p SectionPayload) simplecms.StyleAttributes {
	return simplecms.StyleAttributes{
		Width:        p.Width,
		Height:       p.Height,
		FontSize:     p.FontSize,
		FontWeight:   p.FontWeight,
		FontFamily:   p.FontFamily,
		LineHeight:   p.LineHeight,
		MarginTop:    p.MarginTop,
		TextAlign:    p.TextAlign,
		TextColor:    p.TextColor,
		BorderRadius: p.BorderRadius,
	}
}
