package simplecms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func imageSection(key string) *Section {
	s := &Section{ID: 7, ArticleID: 3}
	s.SetBody(Image{Key: key, Caption: "alt"})
	return s
}

func textSection() *Section {
	s := &Section{ID: 7, ArticleID: 3}
	s.SetBody(Paragraph{Text: "hello"})
	return s
}

func TestPlanSectionUpdate(t *testing.T) {
	file := &Upload{FileName: "pic.png", Data: []byte("img")}
	newKey := func() string { return "generated.png" }

	tests := []struct {
		name       string
		prev       *Section
		next       SectionContent
		upload     *Upload
		wantAction blobAction
		wantKey    string
		wantNext   SectionContent
		wantErr    error
	}{
		{
			name:       "text to text",
			prev:       textSection(),
			next:       Subtitle{Text: "title"},
			wantAction: blobNone,
			wantNext:   Subtitle{Text: "title"},
		},
		{
			name:       "text to text ignores file",
			prev:       textSection(),
			next:       Paragraph{Text: "x"},
			upload:     file,
			wantAction: blobNone,
			wantNext:   Paragraph{Text: "x"},
		},
		{
			name:       "image to text releases key",
			prev:       imageSection("old.png"),
			next:       Paragraph{Text: "x"},
			wantAction: blobRelease,
			wantKey:    "old.png",
			wantNext:   Paragraph{Text: "x"},
		},
		{
			name:       "image to image keeps key",
			prev:       imageSection("old.png"),
			next:       Image{Key: "new.png", Caption: "c"},
			upload:     file,
			wantAction: blobPut,
			wantKey:    "old.png",
			wantNext:   Image{Key: "old.png", Caption: "c"},
		},
		{
			name:       "text to image uses client key",
			prev:       textSection(),
			next:       Image{Key: "client.png"},
			upload:     file,
			wantAction: blobPut,
			wantKey:    "client.png",
			wantNext:   Image{Key: "client.png"},
		},
		{
			name:       "text to image generates key",
			prev:       textSection(),
			next:       Image{Caption: "c"},
			upload:     file,
			wantAction: blobPut,
			wantKey:    "generated.png",
			wantNext:   Image{Key: "generated.png", Caption: "c"},
		},
		{
			name:    "image without file",
			prev:    textSection(),
			next:    Image{Key: "client.png"},
			wantErr: ErrMissingAsset,
		},
		{
			name:    "image with empty file",
			prev:    imageSection("old.png"),
			next:    Image{},
			upload:  &Upload{FileName: "empty.png"},
			wantErr: ErrMissingAsset,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := planSectionUpdate(tt.prev, tt.next, tt.upload, newKey)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantAction, plan.Action, plan.Action.String())
			assert.Equal(t, tt.wantKey, plan.Key)
			assert.Equal(t, tt.wantNext, plan.Next)
		})
	}
}

func TestPlanSectionCreate(t *testing.T) {
	file := &Upload{FileName: "pic.png", Data: []byte("img")}

	plan, err := planSectionCreate(Paragraph{Text: "x"}, file)
	require.NoError(t, err)
	assert.Equal(t, blobNone, plan.Action)

	plan, err = planSectionCreate(Image{Key: "pic.png"}, file)
	require.NoError(t, err)
	assert.Equal(t, blobPut, plan.Action)
	assert.Equal(t, "pic.png", plan.Key)

	_, err = planSectionCreate(Image{}, file)
	assert.ErrorIs(t, err, ErrMissingAsset)

	_, err = planSectionCreate(Image{Key: "pic.png"}, nil)
	assert.ErrorIs(t, err, ErrMissingAsset)
}

func TestEntersNewKey(t *testing.T) {
	prev := imageSection("old.png")

	same := &sectionTransition{Action: blobPut, Key: "old.png"}
	assert.False(t, same.entersNewKey(prev))

	fresh := &sectionTransition{Action: blobPut, Key: "new.png"}
	assert.True(t, fresh.entersNewKey(prev))

	release := &sectionTransition{Action: blobRelease, Key: "new.png"}
	assert.False(t, release.entersNewKey(prev))
}
