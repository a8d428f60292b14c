package validation_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/simple-cms/pkg/simplecms"
	"github.com/tendant/simple-cms/pkg/simplecms/validation"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func fields(t *testing.T, err error) map[string]string {
	t.Helper()
	var verr *simplecms.ValidationError
	require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
	return verr.Fields
}

func TestRegister(t *testing.T) {
	v := validation.New()

	cmd, err := v.Register(validation.RegisterPayload{Name: " jack ", Password: "secret", Email: "jack@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "jack", cmd.Name)
	assert.Equal(t, "secret", cmd.Password)

	_, err = v.Register(validation.RegisterPayload{Email: "not-an-email"})
	f := fields(t, err)
	assert.Equal(t, "is required", f["name"])
	assert.Equal(t, "is required", f["password"])
	assert.Contains(t, f["email"], "email")
}

func TestPublishState_RequiresFlag(t *testing.T) {
	v := validation.New()

	_, err := v.PublishState(validation.PublishPayload{ID: 3})
	assert.Contains(t, fields(t, err), "is_publish")

	no := false
	cmd, err := v.PublishState(validation.PublishPayload{ID: 3, IsPublish: &no})
	require.NoError(t, err)
	assert.Equal(t, simplecms.PublishStateCommand{ID: 3, IsPublish: false}, cmd)
}

func TestCreateArticle_RequiresImage(t *testing.T) {
	v := validation.New()
	payload := validation.ArticlePayload{Name: "first", Title: "First", ImageName: "cover.png"}

	_, err := v.CreateArticle(7, payload, nil)
	assert.Contains(t, fields(t, err), "image")

	upload := &simplecms.Upload{FileName: "cover.png", ContentType: "image/png", Data: pngHeader}
	cmd, err := v.CreateArticle(7, payload, upload)
	require.NoError(t, err)
	assert.Equal(t, int64(7), cmd.UserID)
	assert.Equal(t, "cover.png", cmd.ImageName)
	assert.Same(t, upload, cmd.Image)
}

func TestArticleIDQuery(t *testing.T) {
	v := validation.New()

	id, err := v.ArticleIDQuery("12")
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)

	_, err = v.ArticleIDQuery("twelve")
	assert.ErrorIs(t, err, validation.ErrArticleIDNotNumber)

	// trailing garbage is rejected rather than truncated to the leading digits
	_, err = v.ArticleIDQuery("12abc")
	assert.ErrorIs(t, err, validation.ErrArticleIDNotNumber)

	_, err = v.ArticleIDQuery("")
	assert.Contains(t, fields(t, err), "article_id_query")
}

func TestSections_BuildContentVariant(t *testing.T) {
	v := validation.New()

	tests := []struct {
		name    string
		payload validation.SectionPayload
		want    simplecms.SectionContent
	}{
		{"paragraph", validation.SectionPayload{ArticleID: 1, ContentType: "paragraph", Content: "text", ImageName: "ignored.png"}, simplecms.Paragraph{Text: "text"}},
		{"subtitle", validation.SectionPayload{ArticleID: 1, ContentType: "subtitle", Content: "Heading"}, simplecms.Subtitle{Text: "Heading"}},
		{"image", validation.SectionPayload{ArticleID: 1, ContentType: "image", Content: "alt", ImageName: "pic.png"}, simplecms.Image{Key: "pic.png", Caption: "alt"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := v.CreateSection(tt.payload, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, cmd.Content)
		})
	}
}

func TestSections_Errors(t *testing.T) {
	v := validation.New()

	_, err := v.CreateSection(validation.SectionPayload{ContentType: "video"}, nil)
	f := fields(t, err)
	assert.Contains(t, f, "article_id")
	assert.Contains(t, f["content_type"], "one of")

	_, err = v.UpdateSection(validation.SectionPayload{ContentType: "paragraph"}, nil)
	assert.Contains(t, fields(t, err), "id")

	cmd, err := v.UpdateSection(validation.SectionPayload{ID: 4, ContentType: "paragraph", TextAlign: "center", Width: "100%"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "center", cmd.Style.TextAlign)
	assert.Equal(t, "100%", cmd.Style.Width)
}

func TestUpload(t *testing.T) {
	v := validation.New(validation.WithMaxUploadBytes(32))

	upload, err := v.Upload("image", "pic.png", pngHeader)
	require.NoError(t, err)
	assert.Equal(t, "image/png", upload.ContentType)

	_, err = v.Upload("image", "notes.txt", []byte("plain text"))
	assert.Contains(t, fields(t, err)["image"], "must be an image")

	_, err = v.Upload("image", "big.png", append(append([]byte{}, pngHeader...), make([]byte, 64)...))
	assert.Contains(t, fields(t, err)["image"], "at most 32 bytes")

	upload, err = v.Upload("image", "empty.png", nil)
	require.NoError(t, err)
	assert.Nil(t, upload)
}
