// Package gormdb implements simplecms.Repository on top of gorm, for the
// MySQL and SQLite deployments.
package gormdb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tendant/simple-cms/pkg/simplecms"
)

// Repository implements simplecms.Repository using gorm
type Repository struct {
	db *gorm.DB
}

// New wraps an open gorm handle
func New(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Open connects through the named driver ("mysql" or "sqlite")
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "mysql", "mariadb":
		dialector = mysql.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if driver == "sqlite" {
		// a single connection keeps ":memory:" databases shared
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get underlying SQL DB: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

// AutoMigrate creates or updates the tables for all models
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&userRow{},
		&articleRow{},
		&sectionRow{},
		&styleRow{},
		&intentRow{},
	)
}

// Close closes the database connection
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func notFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}

// User operations

func (r *Repository) CreateUser(ctx context.Context, user *simplecms.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&userRow{}).Where("name = ?", user.Name).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("create user %q: %w", user.Name, simplecms.ErrUserNameExists)
		}
		row := toUserRow(user)
		if err := tx.Create(row).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return simplecms.ErrUserNameExists
			}
			return fmt.Errorf("create user: %w", err)
		}
		user.ID = row.ID
		return nil
	})
}

func (r *Repository) GetUser(ctx context.Context, id int64) (*simplecms.User, error) {
	var row userRow
	if err := r.db.WithContext(ctx).First(&row, id).Error; err != nil {
		return nil, notFound(err, simplecms.ErrUserNotFound)
	}
	return row.model(), nil
}

func (r *Repository) GetUserByName(ctx context.Context, name string) (*simplecms.User, error) {
	var row userRow
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&row).Error; err != nil {
		return nil, notFound(err, simplecms.ErrUserNotFound)
	}
	return row.model(), nil
}

func (r *Repository) UpdateUser(ctx context.Context, user *simplecms.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing userRow
		if err := tx.First(&existing, user.ID).Error; err != nil {
			return notFound(err, simplecms.ErrUserNotFound)
		}
		return tx.Model(&existing).Updates(map[string]interface{}{
			"name":       user.Name,
			"password":   user.Password,
			"author":     user.Author,
			"email":      user.Email,
			"phone":      user.Phone,
			"updated_at": user.UpdatedAt,
		}).Error
	})
}

// Article operations

func (r *Repository) CreateArticle(ctx context.Context, article *simplecms.Article) error {
	row := toArticleRow(article)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return simplecms.ErrArticleNameExists
		}
		return fmt.Errorf("create article: %w", err)
	}
	article.ID = row.ID
	return nil
}

func (r *Repository) GetArticle(ctx context.Context, id int64) (*simplecms.Article, error) {
	var row articleRow
	if err := r.db.WithContext(ctx).First(&row, id).Error; err != nil {
		return nil, notFound(err, simplecms.ErrArticleNotFound)
	}
	return row.model(), nil
}

func (r *Repository) FindArticleID(ctx context.Context, userID int64, name string) (int64, error) {
	var rows []articleRow
	err := r.db.WithContext(ctx).
		Select("id").
		Where("user_id = ? AND name = ?", userID, name).
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].ID, nil
}

func (r *Repository) ListArticles(ctx context.Context, userID int64) ([]*simplecms.Article, error) {
	var rows []articleRow
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	articles := make([]*simplecms.Article, 0, len(rows))
	for i := range rows {
		articles = append(articles, rows[i].model())
	}
	return articles, nil
}

// UpdateArticle writes the mutable columns; image_name is never rewritten
func (r *Repository) UpdateArticle(ctx context.Context, article *simplecms.Article) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing articleRow
		if err := tx.First(&existing, article.ID).Error; err != nil {
			return notFound(err, simplecms.ErrArticleNotFound)
		}
		err := tx.Model(&existing).Updates(map[string]interface{}{
			"name":        article.Name,
			"title":       article.Title,
			"keywords":    article.Keywords,
			"description": article.Description,
			"is_publish":  article.IsPublish,
			"updated_at":  article.UpdatedAt,
		}).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return simplecms.ErrArticleNameExists
		}
		return err
	})
}

// DeleteArticle removes the article with its sections and their styles
func (r *Repository) DeleteArticle(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var sectionIDs []int64
		if err := tx.Model(&sectionRow{}).Where("article_id = ?", id).Pluck("id", &sectionIDs).Error; err != nil {
			return err
		}
		if len(sectionIDs) > 0 {
			if err := tx.Where("section_id IN ?", sectionIDs).Delete(&styleRow{}).Error; err != nil {
				return err
			}
			if err := tx.Where("article_id = ?", id).Delete(&sectionRow{}).Error; err != nil {
				return err
			}
		}
		result := tx.Delete(&articleRow{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return simplecms.ErrArticleNotFound
		}
		return nil
	})
}

// Section operations

func (r *Repository) CreateSection(ctx context.Context, section *simplecms.Section) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&articleRow{}).Where("id = ?", section.ArticleID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return fmt.Errorf("create section: %w", simplecms.ErrArticleNotFound)
		}
		row := toSectionRow(section)
		if err := tx.Create(row).Error; err != nil {
			return fmt.Errorf("create section: %w", err)
		}
		section.ID = row.ID
		return nil
	})
}

func (r *Repository) GetSection(ctx context.Context, id int64) (*simplecms.Section, error) {
	var row sectionRow
	if err := r.db.WithContext(ctx).First(&row, id).Error; err != nil {
		return nil, notFound(err, simplecms.ErrSectionNotFound)
	}
	return row.model(), nil
}

// ListSections returns the sections of an article joined with their styles
func (r *Repository) ListSections(ctx context.Context, articleID int64) ([]*simplecms.SectionView, error) {
	var sections []sectionRow
	if err := r.db.WithContext(ctx).Where("article_id = ?", articleID).Order("id").Find(&sections).Error; err != nil {
		return nil, err
	}
	if len(sections) == 0 {
		return []*simplecms.SectionView{}, nil
	}

	ids := make([]int64, 0, len(sections))
	for _, s := range sections {
		ids = append(ids, s.ID)
	}
	var styles []styleRow
	if err := r.db.WithContext(ctx).Where("section_id IN ?", ids).Find(&styles).Error; err != nil {
		return nil, err
	}
	bySection := make(map[int64]*styleRow, len(styles))
	for i := range styles {
		bySection[styles[i].SectionID] = &styles[i]
	}

	views := make([]*simplecms.SectionView, 0, len(sections))
	for i := range sections {
		view := &simplecms.SectionView{Section: *sections[i].model()}
		if style, ok := bySection[sections[i].ID]; ok {
			view.Style = *style.model()
		}
		views = append(views, view)
	}
	return views, nil
}

func (r *Repository) UpdateSection(ctx context.Context, section *simplecms.Section) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing sectionRow
		if err := tx.First(&existing, section.ID).Error; err != nil {
			return notFound(err, simplecms.ErrSectionNotFound)
		}
		return tx.Model(&existing).Updates(map[string]interface{}{
			"content":      section.Content,
			"content_type": string(section.ContentType),
			"image_name":   section.ImageName,
		}).Error
	})
}

// DeleteSection removes the section and its style
func (r *Repository) DeleteSection(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&styleRow{}, id).Error; err != nil {
			return err
		}
		result := tx.Delete(&sectionRow{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return simplecms.ErrSectionNotFound
		}
		return nil
	})
}

// Style operations

func (r *Repository) CreateStyle(ctx context.Context, style *simplecms.Style) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&sectionRow{}).Where("id = ?", style.SectionID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return fmt.Errorf("create style: %w", simplecms.ErrSectionNotFound)
		}
		if err := tx.Create(toStyleRow(style)).Error; err != nil {
			return fmt.Errorf("create style: %w", err)
		}
		return nil
	})
}

func (r *Repository) GetStyle(ctx context.Context, sectionID int64) (*simplecms.Style, error) {
	var row styleRow
	if err := r.db.WithContext(ctx).First(&row, sectionID).Error; err != nil {
		return nil, notFound(err, simplecms.ErrStyleNotFound)
	}
	return row.model(), nil
}

func (r *Repository) UpdateStyle(ctx context.Context, style *simplecms.Style) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing styleRow
		if err := tx.First(&existing, style.SectionID).Error; err != nil {
			return notFound(err, simplecms.ErrStyleNotFound)
		}
		return tx.Save(toStyleRow(style)).Error
	})
}

// Intent operations

func (r *Repository) CreateIntent(ctx context.Context, intent *simplecms.Intent) error {
	return r.db.WithContext(ctx).Create(toIntentRow(intent)).Error
}

func (r *Repository) DeleteIntent(ctx context.Context, intent *simplecms.Intent) error {
	return r.db.WithContext(ctx).Delete(&intentRow{}, "id = ?", intent.ID.String()).Error
}

func (r *Repository) ListIntents(ctx context.Context, createdBefore time.Time) ([]*simplecms.Intent, error) {
	var rows []intentRow
	if err := r.db.WithContext(ctx).Where("created_at < ?", createdBefore).Order("created_at").Find(&rows).Error; err != nil {
		return nil, err
	}
	intents := make([]*simplecms.Intent, 0, len(rows))
	for i := range rows {
		intent, err := rows[i].model()
		if err != nil {
			return nil, fmt.Errorf("intent %s: %w", rows[i].ID, err)
		}
		intents = append(intents, intent)
	}
	return intents, nil
}

func (r *Repository) KeyReferenced(ctx context.Context, key string) (bool, error) {
	db := r.db.WithContext(ctx)
	var count int64
	if err := db.Model(&articleRow{}).Where("image_name = ?", key).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}
	if err := db.Model(&sectionRow{}).Where("image_name = ?", key).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
