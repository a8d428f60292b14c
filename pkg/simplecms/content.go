package simplecms

import "fmt"

// SectionContent is the body of a section. It is one of Paragraph, Subtitle
// or Image; no other implementations exist outside this package.
type SectionContent interface {
	ContentType() ContentType
	Accept(v ContentVisitor)
	sectionContent()
}

// ContentVisitor dispatches on the concrete SectionContent. Every content
// type has a method here, so adding a type breaks each visitor until it
// handles the new case.
type ContentVisitor interface {
	VisitParagraph(Paragraph)
	VisitSubtitle(Subtitle)
	VisitImage(Image)
}

// Paragraph is body text.
type Paragraph struct {
	Text string
}

// Subtitle is a heading line.
type Subtitle struct {
	Text string
}

// Image is a picture stored in the blob store under Key. Caption is the
// section's text content, typically used as alt text.
type Image struct {
	Key     string
	Caption string
}

func (Paragraph) ContentType() ContentType { return ContentTypeParagraph }
func (Subtitle) ContentType() ContentType  { return ContentTypeSubtitle }
func (Image) ContentType() ContentType     { return ContentTypeImage }

func (c Paragraph) Accept(v ContentVisitor) { v.VisitParagraph(c) }
func (c Subtitle) Accept(v ContentVisitor)  { v.VisitSubtitle(c) }
func (c Image) Accept(v ContentVisitor)     { v.VisitImage(c) }

func (Paragraph) sectionContent() {}
func (Subtitle) sectionContent()  {}
func (Image) sectionContent()     {}

// Body returns the section's content as a SectionContent.
func (s *Section) Body() (SectionContent, error) {
	switch s.ContentType {
	case ContentTypeParagraph:
		return Paragraph{Text: s.Content}, nil
	case ContentTypeSubtitle:
		return Subtitle{Text: s.Content}, nil
	case ContentTypeImage:
		if s.ImageName == nil || *s.ImageName == "" {
			return nil, fmt.Errorf("section %d: %w", s.ID, ErrImageKeyMissing)
		}
		return Image{Key: *s.ImageName, Caption: s.Content}, nil
	}
	return nil, fmt.Errorf("section %d: unknown content type %q", s.ID, s.ContentType)
}

// SetBody replaces the section's content columns with c. The image key is
// set only for Image content and cleared otherwise.
func (s *Section) SetBody(c SectionContent) {
	c.Accept(sectionWriter{s})
}

type sectionWriter struct {
	s *Section
}

func (w sectionWriter) VisitParagraph(p Paragraph) {
	w.s.Content = p.Text
	w.s.ContentType = ContentTypeParagraph
	w.s.ImageName = nil
}

func (w sectionWriter) VisitSubtitle(t Subtitle) {
	w.s.Content = t.Text
	w.s.ContentType = ContentTypeSubtitle
	w.s.ImageName = nil
}

func (w sectionWriter) VisitImage(i Image) {
	key := i.Key
	w.s.Content = i.Caption
	w.s.ContentType = ContentTypeImage
	w.s.ImageName = &key
}

// ImageKey returns the section's blob key, or "" when it holds no image.
func (s *Section) ImageKey() string {
	if s.ImageName == nil {
		return ""
	}
	return *s.ImageName
}
