package simplecms

import "fmt"

// blobAction is what a section change does to the blob store.
type blobAction int

const (
	blobNone    blobAction = iota // no blob call
	blobPut                       // upload Key, before the row change
	blobRelease                   // delete Key, after the row change
)

func (a blobAction) String() string {
	switch a {
	case blobNone:
		return "none"
	case blobPut:
		return "put"
	case blobRelease:
		return "release"
	}
	return fmt.Sprintf("blobAction(%d)", int(a))
}

// sectionTransition is the planned effect of writing Next into a section.
type sectionTransition struct {
	Next   SectionContent
	Action blobAction
	Key    string
}

// planSectionCreate checks a new section's content against its upload.
// An image needs both a key and a file; other content ignores any file.
func planSectionCreate(next SectionContent, upload *Upload) (*sectionTransition, error) {
	img, ok := next.(Image)
	if !ok {
		return &sectionTransition{Next: next, Action: blobNone}, nil
	}
	if img.Key == "" {
		return nil, fmt.Errorf("%w: image_name is required for image sections", ErrMissingAsset)
	}
	if upload == nil || len(upload.Data) == 0 {
		return nil, fmt.Errorf("%w: an image file is required for image sections", ErrMissingAsset)
	}
	return &sectionTransition{Next: img, Action: blobPut, Key: img.Key}, nil
}

// planSectionUpdate decides the blob side of replacing prev's content with
// next:
//
//	non-image -> non-image: no blob call
//	image     -> non-image: release the old key after the row update
//	any       -> image:     put the file; an image section keeps its key,
//	                        others take next's key or a generated one
func planSectionUpdate(prev *Section, next SectionContent, upload *Upload, newKey func() string) (*sectionTransition, error) {
	p := &transitionPlanner{prev: prev, upload: upload, newKey: newKey}
	next.Accept(p)
	if p.err != nil {
		return nil, p.err
	}
	return p.plan, nil
}

type transitionPlanner struct {
	prev   *Section
	upload *Upload
	newKey func() string

	plan *sectionTransition
	err  error
}

func (p *transitionPlanner) leaveImage(next SectionContent) {
	if key := p.prev.ImageKey(); key != "" {
		p.plan = &sectionTransition{Next: next, Action: blobRelease, Key: key}
		return
	}
	p.plan = &sectionTransition{Next: next, Action: blobNone}
}

func (p *transitionPlanner) VisitParagraph(c Paragraph) { p.leaveImage(c) }
func (p *transitionPlanner) VisitSubtitle(c Subtitle)   { p.leaveImage(c) }

func (p *transitionPlanner) VisitImage(c Image) {
	if p.upload == nil || len(p.upload.Data) == 0 {
		p.err = fmt.Errorf("%w: an image file is required for image sections", ErrMissingAsset)
		return
	}

	key := p.prev.ImageKey()
	if key == "" {
		key = c.Key
	}
	if key == "" {
		key = p.newKey()
	}
	p.plan = &sectionTransition{
		Next:   Image{Key: key, Caption: c.Caption},
		Action: blobPut,
		Key:    key,
	}
}

// entersNewKey reports whether the transition puts a key the section did
// not own before.
func (t *sectionTransition) entersNewKey(prev *Section) bool {
	return t.Action == blobPut && t.Key != prev.ImageKey()
}
