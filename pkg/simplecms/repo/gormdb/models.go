package gormdb

import (
	"time"

	"github.com/google/uuid"

	"github.com/tendant/simple-cms/pkg/simplecms"
)

type userRow struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	Name      string `gorm:"uniqueIndex:idx_users_name;size:255;not null"`
	Password  string `gorm:"size:255;not null"`
	Author    string `gorm:"size:255"`
	Email     string `gorm:"size:255"`
	Phone     string `gorm:"size:64"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (userRow) TableName() string { return "users" }

type articleRow struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	UserID      int64  `gorm:"uniqueIndex:idx_articles_user_name;not null"`
	Name        string `gorm:"uniqueIndex:idx_articles_user_name;size:255;not null"`
	Title       string `gorm:"size:255"`
	Keywords    string `gorm:"size:255"`
	Description string `gorm:"type:text"`
	ImageName   string `gorm:"index;size:512;not null"`
	IsPublish   bool   `gorm:"not null;default:false"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (articleRow) TableName() string { return "articles" }

type sectionRow struct {
	ID          int64   `gorm:"primaryKey;autoIncrement"`
	ArticleID   int64   `gorm:"index;not null"`
	Content     string  `gorm:"type:text"`
	ContentType string  `gorm:"size:16;not null"`
	ImageName   *string `gorm:"index;size:512"`
}

func (sectionRow) TableName() string { return "sections" }

type styleRow struct {
	SectionID    int64 `gorm:"primaryKey;autoIncrement:false"`
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

func (styleRow) TableName() string { return "styles" }

type intentRow struct {
	ID        string `gorm:"primaryKey;size:36"`
	Op        string `gorm:"size:16;not null"`
	BlobKey   string `gorm:"size:512;not null"`
	Entity    string `gorm:"size:32;not null"`
	EntityID  int64
	CreatedAt time.Time `gorm:"index"`
}

func (intentRow) TableName() string { return "blob_intents" }

func toUserRow(u *simplecms.User) *userRow {
	return &userRow{
		ID: u.ID, Name: u.Name, Password: u.Password, Author: u.Author, Email: u.Email, Phone: u.Phone,
		CreatedAt: u.CreatedAt, UpdatedAt: u.UpdatedAt,
	}
}

func (r *userRow) model() *simplecms.User {
	return &simplecms.User{
		ID: r.ID, Name: r.Name, Password: r.Password, Author: r.Author, Email: r.Email, Phone: r.Phone,
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

func toArticleRow(a *simplecms.Article) *articleRow {
	return &articleRow{
		ID: a.ID, UserID: a.UserID, Name: a.Name, Title: a.Title, Keywords: a.Keywords,
		Description: a.Description, ImageName: a.ImageName, IsPublish: a.IsPublish,
		CreatedAt: a.CreatedAt, UpdatedAt: a.UpdatedAt,
	}
}

func (r *articleRow) model() *simplecms.Article {
	return &simplecms.Article{
		ID: r.ID, UserID: r.UserID, Name: r.Name, Title: r.Title, Keywords: r.Keywords,
		Description: r.Description, ImageName: r.ImageName, IsPublish: r.IsPublish,
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

func toSectionRow(s *simplecms.Section) *sectionRow {
	return &sectionRow{
		ID: s.ID, ArticleID: s.ArticleID, Content: s.Content,
		ContentType: string(s.ContentType), ImageName: s.ImageName,
	}
}

func (r *sectionRow) model() *simplecms.Section {
	return &simplecms.Section{
		ID: r.ID, ArticleID: r.ArticleID, Content: r.Content,
		ContentType: simplecms.ContentType(r.ContentType), ImageName: r.ImageName,
	}
}

func toStyleRow(s *simplecms.Style) *styleRow {
	return &styleRow{
		SectionID: s.SectionID, Width: s.Width, Height: s.Height, FontSize: s.FontSize,
		FontWeight: s.FontWeight, FontFamily: s.FontFamily, LineHeight: s.LineHeight,
		MarginTop: s.MarginTop, TextAlign: s.TextAlign, TextColor: s.TextColor, BorderRadius: s.BorderRadius,
	}
}

func (r *styleRow) model() *simplecms.Style {
	return &simplecms.Style{
		SectionID: r.SectionID, Width: r.Width, Height: r.Height, FontSize: r.FontSize,
		FontWeight: r.FontWeight, FontFamily: r.FontFamily, LineHeight: r.LineHeight,
		MarginTop: r.MarginTop, TextAlign: r.TextAlign, TextColor: r.TextColor, BorderRadius: r.BorderRadius,
	}
}

func toIntentRow(i *simplecms.Intent) *intentRow {
	return &intentRow{
		ID: i.ID.String(), Op: string(i.Op), BlobKey: i.BlobKey, Entity: i.Entity,
		EntityID: i.EntityID, CreatedAt: i.CreatedAt,
	}
}

func (r *intentRow) model() (*simplecms.Intent, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return nil, err
	}
	return &simplecms.Intent{
		ID: id, Op: simplecms.IntentOp(r.Op), BlobKey: r.BlobKey, Entity: r.Entity,
		EntityID: r.EntityID, CreatedAt: r.CreatedAt,
	}, nil
}
