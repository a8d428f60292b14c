package simplecms

import (
	"context"
	"fmt"

	"github.com/tendant/simple-cms/pkg/simplecms/objectkey"
)

// Section operations

// ListSections returns the article's sections joined with their styles.
// With signed URLs enabled the image_name of image sections is replaced by
// a read URL.
func (s *service) ListSections(ctx context.Context, articleID int64) ([]*SectionView, error) {
	views, err := s.repository.ListSections(ctx, articleID)
	if err != nil {
		return nil, fmt.Errorf("list sections of article %d: %w", articleID, err)
	}

	if !s.signURLs {
		return views, nil
	}
	for _, view := range views {
		key := view.ImageKey()
		if key == "" {
			continue
		}
		url, err := s.blobStore.GetSignedURL(ctx, key, s.signedURLTTL)
		if err != nil {
			return nil, &SectionError{SectionID: view.ID, Op: "list", Err: &StorageError{Key: key, Op: "sign", Err: err}}
		}
		view.ImageName = &url
	}
	return views, nil
}

func (s *service) CreateSection(ctx context.Context, cmd CreateSectionCommand) (*SectionView, error) {
	plan, err := planSectionCreate(cmd.Content, cmd.Upload)
	if err != nil {
		return nil, &SectionError{Op: "create", Err: err}
	}
	if _, err := s.repository.GetArticle(ctx, cmd.ArticleID); err != nil {
		return nil, &SectionError{Op: "create", Err: err}
	}

	section := &Section{ArticleID: cmd.ArticleID}
	section.SetBody(plan.Next)
	var style *Style

	insert := func() error {
		if err := s.repository.CreateSection(ctx, section); err != nil {
			return err
		}
		style = cmd.Style.StyleFor(section.ID)
		if err := s.repository.CreateStyle(ctx, style); err != nil {
			if derr := s.repository.DeleteSection(ctx, section.ID); derr != nil {
				s.logger.Error("failed to remove section without style", "section_id", section.ID, "error", derr)
			}
			return fmt.Errorf("create style: %w", err)
		}
		return nil
	}

	switch plan.Action {
	case blobPut:
		if err := s.ensureKeyFree(ctx, plan.Key); err != nil {
			return nil, &SectionError{Op: "create", Err: err}
		}
		err = s.putBlob(ctx, plan.Key, "section", 0, cmd.Upload, insert)
	default:
		err = insert()
	}
	if err != nil {
		return nil, &SectionError{SectionID: section.ID, Op: "create", Err: err}
	}

	s.fire(func() error { return s.eventSink.SectionCreated(ctx, section) })
	return &SectionView{Section: *section, Style: *style}, nil
}

// UpdateSection replaces a section's content and style, moving its image
// through the blob store as the content type requires.
func (s *service) UpdateSection(ctx context.Context, cmd UpdateSectionCommand) (*SectionView, error) {
	prev, err := s.repository.GetSection(ctx, cmd.ID)
	if err != nil {
		return nil, &SectionError{SectionID: cmd.ID, Op: "update", Err: err}
	}

	plan, err := planSectionUpdate(prev, cmd.Content, cmd.Upload, func() string {
		return s.keyGenerator.GenerateKey(&objectkey.KeyMetadata{
			Scope:     "sections",
			ArticleID: prev.ArticleID,
			OwnerID:   prev.ID,
			FileName:  cmd.Upload.FileName,
		})
	})
	if err != nil {
		return nil, &SectionError{SectionID: cmd.ID, Op: "update", Err: err}
	}

	next := *prev
	next.SetBody(plan.Next)
	style := cmd.Style.StyleFor(prev.ID)

	write := func() error {
		if err := s.repository.UpdateSection(ctx, &next); err != nil {
			return err
		}
		if err := s.repository.UpdateStyle(ctx, style); err != nil {
			return fmt.Errorf("update style: %w", err)
		}
		return nil
	}

	switch plan.Action {
	case blobPut:
		if plan.entersNewKey(prev) {
			if err := s.ensureKeyFree(ctx, plan.Key); err != nil {
				return nil, &SectionError{SectionID: cmd.ID, Op: "update", Err: err}
			}
		}
		err = s.putBlob(ctx, plan.Key, "section", prev.ID, cmd.Upload, write)
	case blobRelease:
		err = s.releaseBlobs(ctx, []string{plan.Key}, "section", prev.ID, write)
	default:
		err = write()
	}
	if err != nil {
		return nil, &SectionError{SectionID: cmd.ID, Op: "update", Err: err}
	}

	s.fire(func() error { return s.eventSink.SectionUpdated(ctx, &next) })
	return &SectionView{Section: next, Style: *style}, nil
}

func (s *service) DeleteSection(ctx context.Context, id int64) error {
	section, err := s.repository.GetSection(ctx, id)
	if err != nil {
		return &SectionError{SectionID: id, Op: "delete", Err: err}
	}

	var keys []string
	if key := section.ImageKey(); key != "" {
		keys = append(keys, key)
	}
	err = s.releaseBlobs(ctx, keys, "section", id, func() error {
		return s.repository.DeleteSection(ctx, id)
	})
	if err != nil {
		return &SectionError{SectionID: id, Op: "delete", Err: err}
	}

	s.fire(func() error { return s.eventSink.SectionDeleted(ctx, id) })
	return nil
}
