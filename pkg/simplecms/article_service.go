package simplecms

import (
	"context"
	"fmt"
)

// Article operations

func (s *service) ListArticles(ctx context.Context, userID int64) ([]*Article, error) {
	articles, err := s.repository.ListArticles(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list articles of user %d: %w", userID, err)
	}

	if s.signURLs {
		for _, article := range articles {
			url, err := s.blobStore.GetSignedURL(ctx, article.ImageName, s.signedURLTTL)
			if err != nil {
				s.logger.Warn("failed to sign article image url", "article_id", article.ID, "key", article.ImageName, "error", err)
				continue
			}
			article.ImageURL = url
		}
	}
	return articles, nil
}

func (s *service) CreateArticle(ctx context.Context, cmd CreateArticleCommand) (*Article, error) {
	if cmd.Image == nil || len(cmd.Image.Data) == 0 {
		return nil, NewValidationError("image", "an image file is required")
	}
	if cmd.ImageName == "" {
		return nil, NewValidationError("image_name", "required")
	}

	existingID, err := s.repository.FindArticleID(ctx, cmd.UserID, cmd.Name)
	if err != nil {
		return nil, &ArticleError{Op: "create", Err: err}
	}
	if existingID != 0 {
		return nil, &ArticleError{ArticleID: existingID, Op: "create", Err: ErrArticleNameExists}
	}
	if err := s.ensureKeyFree(ctx, cmd.ImageName); err != nil {
		return nil, &ArticleError{Op: "create", Err: err}
	}

	now := s.now()
	article := &Article{
		UserID:      cmd.UserID,
		Name:        cmd.Name,
		Title:       cmd.Title,
		Keywords:    cmd.Keywords,
		Description: cmd.Description,
		ImageName:   cmd.ImageName,
		IsPublish:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.putBlob(ctx, article.ImageName, "article", 0, cmd.Image, func() error {
		return s.repository.CreateArticle(ctx, article)
	})
	if err != nil {
		return nil, &ArticleError{Op: "create", Err: err}
	}

	s.fire(func() error { return s.eventSink.ArticleCreated(ctx, article) })
	return article, nil
}

func (s *service) UpdateArticleData(ctx context.Context, cmd UpdateArticleDataCommand) (*Article, error) {
	article, err := s.repository.GetArticle(ctx, cmd.ID)
	if err != nil {
		return nil, &ArticleError{ArticleID: cmd.ID, Op: "update_data", Err: err}
	}

	if cmd.Name != article.Name {
		existingID, err := s.repository.FindArticleID(ctx, article.UserID, cmd.Name)
		if err != nil {
			return nil, &ArticleError{ArticleID: cmd.ID, Op: "update_data", Err: err}
		}
		if existingID != 0 && existingID != article.ID {
			return nil, &ArticleError{ArticleID: cmd.ID, Op: "update_data", Err: ErrArticleNameExists}
		}
	}

	article.Name = cmd.Name
	article.Title = cmd.Title
	article.Keywords = cmd.Keywords
	article.Description = cmd.Description
	article.UpdatedAt = s.now()

	if err := s.repository.UpdateArticle(ctx, article); err != nil {
		return nil, &ArticleError{ArticleID: cmd.ID, Op: "update_data", Err: err}
	}
	return article, nil
}

func (s *service) UpdatePublishState(ctx context.Context, cmd PublishStateCommand) (*Article, error) {
	article, err := s.repository.GetArticle(ctx, cmd.ID)
	if err != nil {
		return nil, &ArticleError{ArticleID: cmd.ID, Op: "update_publish_state", Err: err}
	}

	article.IsPublish = cmd.IsPublish
	article.UpdatedAt = s.now()

	if err := s.repository.UpdateArticle(ctx, article); err != nil {
		return nil, &ArticleError{ArticleID: cmd.ID, Op: "update_publish_state", Err: err}
	}
	return article, nil
}

// DeleteArticle removes the article with its sections and styles. Section
// images are deleted once their rows are gone; the article's own image is
// left in the blob store.
func (s *service) DeleteArticle(ctx context.Context, id int64) error {
	if _, err := s.repository.GetArticle(ctx, id); err != nil {
		return &ArticleError{ArticleID: id, Op: "delete", Err: err}
	}

	sections, err := s.repository.ListSections(ctx, id)
	if err != nil {
		return &ArticleError{ArticleID: id, Op: "delete", Err: err}
	}
	var keys []string
	for _, section := range sections {
		if key := section.ImageKey(); key != "" {
			keys = append(keys, key)
		}
	}

	err = s.releaseBlobs(ctx, keys, "article", id, func() error {
		return s.repository.DeleteArticle(ctx, id)
	})
	if err != nil {
		return &ArticleError{ArticleID: id, Op: "delete", Err: err}
	}

	s.fire(func() error { return s.eventSink.ArticleDeleted(ctx, id) })
	return nil
}

// ensureKeyFree fails when a row already references key.
func (s *service) ensureKeyFree(ctx context.Context, key string) error {
	referenced, err := s.repository.KeyReferenced(ctx, key)
	if err != nil {
		return err
	}
	if referenced {
		return fmt.Errorf("%w: %s", ErrImageNameInUse, key)
	}
	return nil
}
