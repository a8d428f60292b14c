package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tendant/simple-cms/pkg/simplecms"
)

//go:embed schema.sql
var schemaSQL string

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Repository implements simplecms.Repository using PostgreSQL
type Repository struct {
	db DBTX
}

// New creates a new PostgreSQL repository
func New(db DBTX) *Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository with connection pool
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool}
}

// Migrate creates the tables when they do not exist yet
func Migrate(ctx context.Context, db DBTX) error {
	if _, err := db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// handlePostgresError translates driver errors into simplecms errors
func (r *Repository) handlePostgresError(operation string, err error, notFound error) error {
	if errors.Is(err, pgx.ErrNoRows) && notFound != nil {
		return notFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			switch {
			case strings.Contains(pgErr.ConstraintName, "articles_user_name"):
				return simplecms.ErrArticleNameExists
			case strings.Contains(pgErr.ConstraintName, "users_name"):
				return simplecms.ErrUserNameExists
			}
			return fmt.Errorf("%s: duplicate entry", operation)
		case "23503": // foreign_key_violation
			if strings.Contains(pgErr.ConstraintName, "article_id") {
				return fmt.Errorf("%s: %w", operation, simplecms.ErrArticleNotFound)
			}
			if strings.Contains(pgErr.ConstraintName, "section_id") {
				return fmt.Errorf("%s: %w", operation, simplecms.ErrSectionNotFound)
			}
			return fmt.Errorf("%s: referenced record not found", operation)
		case "23502": // not_null_violation
			return fmt.Errorf("%s: required field %s is missing", operation, pgErr.ColumnName)
		case "23514": // check_violation
			return fmt.Errorf("%s: check %s violated", operation, pgErr.ConstraintName)
		case "42P01": // undefined_table
			return fmt.Errorf("%s: table does not exist - database migration required", operation)
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}

	return fmt.Errorf("database error in %s: %w", operation, err)
}

// User operations

const userColumns = `id, name, password, author, email, phone, created_at, updated_at`

func scanUser(row pgx.Row) (*simplecms.User, error) {
	var u simplecms.User
	err := row.Scan(&u.ID, &u.Name, &u.Password, &u.Author, &u.Email, &u.Phone, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repository) CreateUser(ctx context.Context, user *simplecms.User) error {
	query := `
		INSERT INTO users (name, password, author, email, phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	err := r.db.QueryRow(ctx, query,
		user.Name, user.Password, user.Author, user.Email, user.Phone, user.CreatedAt, user.UpdatedAt,
	).Scan(&user.ID)
	if err != nil {
		return r.handlePostgresError("create user", err, nil)
	}
	return nil
}

func (r *Repository) GetUser(ctx context.Context, id int64) (*simplecms.User, error) {
	user, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, r.handlePostgresError("get user", err, simplecms.ErrUserNotFound)
	}
	return user, nil
}

func (r *Repository) GetUserByName(ctx context.Context, name string) (*simplecms.User, error) {
	user, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE name = $1`, name))
	if err != nil {
		return nil, r.handlePostgresError("get user by name", err, simplecms.ErrUserNotFound)
	}
	return user, nil
}

func (r *Repository) UpdateUser(ctx context.Context, user *simplecms.User) error {
	query := `
		UPDATE users SET name = $2, password = $3, author = $4, email = $5, phone = $6, updated_at = $7
		WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, user.ID, user.Name, user.Password, user.Author, user.Email, user.Phone, user.UpdatedAt)
	if err != nil {
		return r.handlePostgresError("update user", err, nil)
	}
	if tag.RowsAffected() == 0 {
		return simplecms.ErrUserNotFound
	}
	return nil
}

// Article operations

const articleColumns = `id, user_id, name, title, keywords, description, image_name, is_publish, created_at, updated_at`

func scanArticle(row pgx.Row) (*simplecms.Article, error) {
	var a simplecms.Article
	err := row.Scan(&a.ID, &a.UserID, &a.Name, &a.Title, &a.Keywords, &a.Description,
		&a.ImageName, &a.IsPublish, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *Repository) CreateArticle(ctx context.Context, article *simplecms.Article) error {
	query := `
		INSERT INTO articles (user_id, name, title, keywords, description, image_name, is_publish, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`
	err := r.db.QueryRow(ctx, query,
		article.UserID, article.Name, article.Title, article.Keywords, article.Description,
		article.ImageName, article.IsPublish, article.CreatedAt, article.UpdatedAt,
	).Scan(&article.ID)
	if err != nil {
		return r.handlePostgresError("create article", err, nil)
	}
	return nil
}

func (r *Repository) GetArticle(ctx context.Context, id int64) (*simplecms.Article, error) {
	article, err := scanArticle(r.db.QueryRow(ctx, `SELECT `+articleColumns+` FROM articles WHERE id = $1`, id))
	if err != nil {
		return nil, r.handlePostgresError("get article", err, simplecms.ErrArticleNotFound)
	}
	return article, nil
}

func (r *Repository) FindArticleID(ctx context.Context, userID int64, name string) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `SELECT id FROM articles WHERE user_id = $1 AND name = $2`, userID, name).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, r.handlePostgresError("find article id", err, nil)
	}
	return id, nil
}

func (r *Repository) ListArticles(ctx context.Context, userID int64) ([]*simplecms.Article, error) {
	rows, err := r.db.Query(ctx, `SELECT `+articleColumns+` FROM articles WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, r.handlePostgresError("list articles", err, nil)
	}
	defer rows.Close()

	var articles []*simplecms.Article
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, r.handlePostgresError("scan article", err, nil)
		}
		articles = append(articles, article)
	}
	if err := rows.Err(); err != nil {
		return nil, r.handlePostgresError("list articles", err, nil)
	}
	return articles, nil
}

// UpdateArticle writes the mutable columns; image_name is never rewritten
func (r *Repository) UpdateArticle(ctx context.Context, article *simplecms.Article) error {
	query := `
		UPDATE articles SET name = $2, title = $3, keywords = $4, description = $5, is_publish = $6, updated_at = $7
		WHERE id = $1`
	tag, err := r.db.Exec(ctx, query,
		article.ID, article.Name, article.Title, article.Keywords, article.Description, article.IsPublish, article.UpdatedAt)
	if err != nil {
		return r.handlePostgresError("update article", err, nil)
	}
	if tag.RowsAffected() == 0 {
		return simplecms.ErrArticleNotFound
	}
	return nil
}

func (r *Repository) DeleteArticle(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		return r.handlePostgresError("delete article", err, nil)
	}
	if tag.RowsAffected() == 0 {
		return simplecms.ErrArticleNotFound
	}
	return nil
}

// Section operations

func (r *Repository) CreateSection(ctx context.Context, section *simplecms.Section) error {
	query := `
		INSERT INTO sections (article_id, content, content_type, image_name)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	err := r.db.QueryRow(ctx, query,
		section.ArticleID, section.Content, string(section.ContentType), section.ImageName,
	).Scan(&section.ID)
	if err != nil {
		return r.handlePostgresError("create section", err, nil)
	}
	return nil
}

func (r *Repository) GetSection(ctx context.Context, id int64) (*simplecms.Section, error) {
	var s simplecms.Section
	var contentType string
	err := r.db.QueryRow(ctx,
		`SELECT id, article_id, content, content_type, image_name FROM sections WHERE id = $1`, id,
	).Scan(&s.ID, &s.ArticleID, &s.Content, &contentType, &s.ImageName)
	if err != nil {
		return nil, r.handlePostgresError("get section", err, simplecms.ErrSectionNotFound)
	}
	s.ContentType = simplecms.ContentType(contentType)
	return &s, nil
}

// ListSections joins each section with its style row
func (r *Repository) ListSections(ctx context.Context, articleID int64) ([]*simplecms.SectionView, error) {
	query := `
		SELECT s.id, s.article_id, s.content, s.content_type, s.image_name,
		       COALESCE(st.section_id, s.id), COALESCE(st.width, ''), COALESCE(st.height, ''),
		       COALESCE(st.font_size, ''), COALESCE(st.font_weight, ''), COALESCE(st.font_family, ''),
		       COALESCE(st.line_height, ''), COALESCE(st.margin_top, ''), COALESCE(st.text_align, ''),
		       COALESCE(st.text_color, ''), COALESCE(st.border_radius, '')
		FROM sections s
		LEFT JOIN styles st ON st.section_id = s.id
		WHERE s.article_id = $1
		ORDER BY s.id`
	rows, err := r.db.Query(ctx, query, articleID)
	if err != nil {
		return nil, r.handlePostgresError("list sections", err, nil)
	}
	defer rows.Close()

	var views []*simplecms.SectionView
	for rows.Next() {
		var v simplecms.SectionView
		var contentType string
		err := rows.Scan(&v.Section.ID, &v.ArticleID, &v.Content, &contentType, &v.ImageName,
			&v.SectionID, &v.Width, &v.Height, &v.FontSize, &v.FontWeight, &v.FontFamily,
			&v.LineHeight, &v.MarginTop, &v.TextAlign, &v.TextColor, &v.BorderRadius)
		if err != nil {
			return nil, r.handlePostgresError("scan section", err, nil)
		}
		v.ContentType = simplecms.ContentType(contentType)
		views = append(views, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, r.handlePostgresError("list sections", err, nil)
	}
	return views, nil
}

func (r *Repository) UpdateSection(ctx context.Context, section *simplecms.Section) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE sections SET content = $2, content_type = $3, image_name = $4 WHERE id = $1`,
		section.ID, section.Content, string(section.ContentType), section.ImageName)
	if err != nil {
		return r.handlePostgresError("update section", err, nil)
	}
	if tag.RowsAffected() == 0 {
		return simplecms.ErrSectionNotFound
	}
	return nil
}

func (r *Repository) DeleteSection(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM sections WHERE id = $1`, id)
	if err != nil {
		return r.handlePostgresError("delete section", err, nil)
	}
	if tag.RowsAffected() == 0 {
		return simplecms.ErrSectionNotFound
	}
	return nil
}

// Style operations

func (r *Repository) CreateStyle(ctx context.Context, style *simplecms.Style) error {
	query := `
		INSERT INTO styles (section_id, width, height, font_size, font_weight, font_family,
		                    line_height, margin_top, text_align, text_color, border_radius)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.db.Exec(ctx, query, style.SectionID, style.Width, style.Height, style.FontSize, style.FontWeight,
		style.FontFamily, style.LineHeight, style.MarginTop, style.TextAlign, style.TextColor, style.BorderRadius)
	if err != nil {
		return r.handlePostgresError("create style", err, nil)
	}
	return nil
}

func (r *Repository) GetStyle(ctx context.Context, sectionID int64) (*simplecms.Style, error) {
	var s simplecms.Style
	err := r.db.QueryRow(ctx, `
		SELECT section_id, width, height, font_size, font_weight, font_family,
		       line_height, margin_top, text_align, text_color, border_radius
		FROM styles WHERE section_id = $1`, sectionID,
	).Scan(&s.SectionID, &s.Width, &s.Height, &s.FontSize, &s.FontWeight, &s.FontFamily,
		&s.LineHeight, &s.MarginTop, &s.TextAlign, &s.TextColor, &s.BorderRadius)
	if err != nil {
		return nil, r.handlePostgresError("get style", err, simplecms.ErrStyleNotFound)
	}
	return &s, nil
}

func (r *Repository) UpdateStyle(ctx context.Context, style *simplecms.Style) error {
	query := `
		UPDATE styles SET width = $2, height = $3, font_size = $4, font_weight = $5, font_family = $6,
		                  line_height = $7, margin_top = $8, text_align = $9, text_color = $10, border_radius = $11
		WHERE section_id = $1`
	tag, err := r.db.Exec(ctx, query, style.SectionID, style.Width, style.Height, style.FontSize, style.FontWeight,
		style.FontFamily, style.LineHeight, style.MarginTop, style.TextAlign, style.TextColor, style.BorderRadius)
	if err != nil {
		return r.handlePostgresError("update style", err, nil)
	}
	if tag.RowsAffected() == 0 {
		return simplecms.ErrStyleNotFound
	}
	return nil
}

// Intent operations

func (r *Repository) CreateIntent(ctx context.Context, intent *simplecms.Intent) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO blob_intents (id, op, blob_key, entity, entity_id, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		intent.ID, string(intent.Op), intent.BlobKey, intent.Entity, intent.EntityID, intent.CreatedAt)
	if err != nil {
		return r.handlePostgresError("create intent", err, nil)
	}
	return nil
}

func (r *Repository) DeleteIntent(ctx context.Context, intent *simplecms.Intent) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM blob_intents WHERE id = $1`, intent.ID); err != nil {
		return r.handlePostgresError("delete intent", err, nil)
	}
	return nil
}

func (r *Repository) ListIntents(ctx context.Context, createdBefore time.Time) ([]*simplecms.Intent, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, op, blob_key, entity, entity_id, created_at
		FROM blob_intents WHERE created_at < $1 ORDER BY created_at`, createdBefore)
	if err != nil {
		return nil, r.handlePostgresError("list intents", err, nil)
	}
	defer rows.Close()

	var intents []*simplecms.Intent
	for rows.Next() {
		var i simplecms.Intent
		var op string
		if err := rows.Scan(&i.ID, &op, &i.BlobKey, &i.Entity, &i.EntityID, &i.CreatedAt); err != nil {
			return nil, r.handlePostgresError("scan intent", err, nil)
		}
		i.Op = simplecms.IntentOp(op)
		intents = append(intents, &i)
	}
	if err := rows.Err(); err != nil {
		return nil, r.handlePostgresError("list intents", err, nil)
	}
	return intents, nil
}

func (r *Repository) KeyReferenced(ctx context.Context, key string) (bool, error) {
	var referenced bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM articles WHERE image_name = $1)
		    OR EXISTS (SELECT 1 FROM sections WHERE image_name = $1)`, key,
	).Scan(&referenced)
	if err != nil {
		return false, r.handlePostgresError("key referenced", err, nil)
	}
	return referenced, nil
}
