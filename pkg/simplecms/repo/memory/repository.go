package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tendant/simple-cms/pkg/simplecms"
)

// Repository implements simplecms.Repository using in-memory storage
type Repository struct {
	mu       sync.RWMutex
	users    map[int64]*simplecms.User
	articles map[int64]*simplecms.Article
	sections map[int64]*simplecms.Section
	styles   map[int64]*simplecms.Style // section_id -> style
	intents  map[uuid.UUID]*simplecms.Intent

	nextUserID    int64
	nextArticleID int64
	nextSectionID int64
}

// New creates a new in-memory repository
func New() *Repository {
	return &Repository{
		users:    make(map[int64]*simplecms.User),
		articles: make(map[int64]*simplecms.Article),
		sections: make(map[int64]*simplecms.Section),
		styles:   make(map[int64]*simplecms.Style),
		intents:  make(map[uuid.UUID]*simplecms.Intent),
	}
}

func copySection(s *simplecms.Section) *simplecms.Section {
	c := *s
	if s.ImageName != nil {
		key := *s.ImageName
		c.ImageName = &key
	}
	return &c
}

// User operations

func (r *Repository) CreateUser(ctx context.Context, user *simplecms.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Name == user.Name {
			return fmt.Errorf("create user %q: %w", user.Name, simplecms.ErrUserNameExists)
		}
	}
	r.nextUserID++
	user.ID = r.nextUserID
	userCopy := *user
	r.users[user.ID] = &userCopy
	return nil
}

func (r *Repository) GetUser(ctx context.Context, id int64) (*simplecms.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, exists := r.users[id]
	if !exists {
		return nil, simplecms.ErrUserNotFound
	}
	userCopy := *user
	return &userCopy, nil
}

func (r *Repository) GetUserByName(ctx context.Context, name string) (*simplecms.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Name == name {
			userCopy := *u
			return &userCopy, nil
		}
	}
	return nil, simplecms.ErrUserNotFound
}

func (r *Repository) UpdateUser(ctx context.Context, user *simplecms.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[user.ID]; !exists {
		return simplecms.ErrUserNotFound
	}
	userCopy := *user
	r.users[user.ID] = &userCopy
	return nil
}

// Article operations

func (r *Repository) CreateArticle(ctx context.Context, article *simplecms.Article) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkArticleName(article); err != nil {
		return err
	}
	r.nextArticleID++
	article.ID = r.nextArticleID
	articleCopy := *article
	r.articles[article.ID] = &articleCopy
	return nil
}

func (r *Repository) GetArticle(ctx context.Context, id int64) (*simplecms.Article, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	article, exists := r.articles[id]
	if !exists {
		return nil, simplecms.ErrArticleNotFound
	}
	articleCopy := *article
	return &articleCopy, nil
}

func (r *Repository) FindArticleID(ctx context.Context, userID int64, name string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.articles {
		if a.UserID == userID && a.Name == name {
			return a.ID, nil
		}
	}
	return 0, nil
}

func (r *Repository) ListArticles(ctx context.Context, userID int64) ([]*simplecms.Article, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*simplecms.Article
	for _, a := range r.articles {
		if a.UserID == userID {
			articleCopy := *a
			result = append(result, &articleCopy)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *Repository) UpdateArticle(ctx context.Context, article *simplecms.Article) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.articles[article.ID]; !exists {
		return simplecms.ErrArticleNotFound
	}
	if err := r.checkArticleName(article); err != nil {
		return err
	}
	articleCopy := *article
	r.articles[article.ID] = &articleCopy
	return nil
}

// checkArticleName mirrors the (user_id, name) unique key. Callers hold mu.
func (r *Repository) checkArticleName(article *simplecms.Article) error {
	for _, a := range r.articles {
		if a.ID != article.ID && a.UserID == article.UserID && a.Name == article.Name {
			return fmt.Errorf("article %q: %w", article.Name, simplecms.ErrArticleNameExists)
		}
	}
	return nil
}

// DeleteArticle removes the article and cascades to its sections and styles
func (r *Repository) DeleteArticle(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.articles[id]; !exists {
		return simplecms.ErrArticleNotFound
	}
	for sid, s := range r.sections {
		if s.ArticleID == id {
			delete(r.sections, sid)
			delete(r.styles, sid)
		}
	}
	delete(r.articles, id)
	return nil
}

// Section operations

func (r *Repository) CreateSection(ctx context.Context, section *simplecms.Section) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.articles[section.ArticleID]; !exists {
		return fmt.Errorf("create section: %w", simplecms.ErrArticleNotFound)
	}
	r.nextSectionID++
	section.ID = r.nextSectionID
	r.sections[section.ID] = copySection(section)
	return nil
}

func (r *Repository) GetSection(ctx context.Context, id int64) (*simplecms.Section, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	section, exists := r.sections[id]
	if !exists {
		return nil, simplecms.ErrSectionNotFound
	}
	return copySection(section), nil
}

func (r *Repository) ListSections(ctx context.Context, articleID int64) ([]*simplecms.SectionView, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*simplecms.SectionView
	for _, s := range r.sections {
		if s.ArticleID != articleID {
			continue
		}
		view := &simplecms.SectionView{Section: *copySection(s)}
		if style, ok := r.styles[s.ID]; ok {
			view.Style = *style
		}
		result = append(result, view)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Section.ID < result[j].Section.ID })
	return result, nil
}

func (r *Repository) UpdateSection(ctx context.Context, section *simplecms.Section) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sections[section.ID]; !exists {
		return simplecms.ErrSectionNotFound
	}
	r.sections[section.ID] = copySection(section)
	return nil
}

// DeleteSection removes the section and its style
func (r *Repository) DeleteSection(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sections[id]; !exists {
		return simplecms.ErrSectionNotFound
	}
	delete(r.sections, id)
	delete(r.styles, id)
	return nil
}

// Style operations

func (r *Repository) CreateStyle(ctx context.Context, style *simplecms.Style) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sections[style.SectionID]; !exists {
		return fmt.Errorf("create style: %w", simplecms.ErrSectionNotFound)
	}
	if _, exists := r.styles[style.SectionID]; exists {
		return fmt.Errorf("style for section %d already exists", style.SectionID)
	}
	styleCopy := *style
	r.styles[style.SectionID] = &styleCopy
	return nil
}

func (r *Repository) GetStyle(ctx context.Context, sectionID int64) (*simplecms.Style, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	style, exists := r.styles[sectionID]
	if !exists {
		return nil, simplecms.ErrStyleNotFound
	}
	styleCopy := *style
	return &styleCopy, nil
}

func (r *Repository) UpdateStyle(ctx context.Context, style *simplecms.Style) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.styles[style.SectionID]; !exists {
		return simplecms.ErrStyleNotFound
	}
	styleCopy := *style
	r.styles[style.SectionID] = &styleCopy
	return nil
}

// Intent operations

func (r *Repository) CreateIntent(ctx context.Context, intent *simplecms.Intent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	intentCopy := *intent
	r.intents[intent.ID] = &intentCopy
	return nil
}

func (r *Repository) DeleteIntent(ctx context.Context, intent *simplecms.Intent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.intents, intent.ID)
	return nil
}

func (r *Repository) ListIntents(ctx context.Context, createdBefore time.Time) ([]*simplecms.Intent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*simplecms.Intent
	for _, intent := range r.intents {
		if intent.CreatedAt.Before(createdBefore) {
			intentCopy := *intent
			result = append(result, &intentCopy)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}

func (r *Repository) KeyReferenced(ctx context.Context, key string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.articles {
		if a.ImageName == key {
			return true, nil
		}
	}
	for _, s := range r.sections {
		if s.ImageName != nil && *s.ImageName == key {
			return true, nil
		}
	}
	return false, nil
}
