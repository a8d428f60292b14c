package simplecms

import "context"

// Service is the main interface of the blog backend: accounts, articles
// and their sections.
type Service interface {
	// Account operations
	Register(ctx context.Context, cmd RegisterCommand) (*AuthResult, error)
	Login(ctx context.Context, cmd LoginCommand) (*AuthResult, error)
	GetProfile(ctx context.Context, userID int64) (*User, error)
	UpdateProfile(ctx context.Context, cmd UpdateProfileCommand) (*User, error)

	// Article operations
	ListArticles(ctx context.Context, userID int64) ([]*Article, error)
	CreateArticle(ctx context.Context, cmd CreateArticleCommand) (*Article, error)
	UpdateArticleData(ctx context.Context, cmd UpdateArticleDataCommand) (*Article, error)
	UpdatePublishState(ctx context.Context, cmd PublishStateCommand) (*Article, error)
	DeleteArticle(ctx context.Context, id int64) error

	// Section operations
	ListSections(ctx context.Context, articleID int64) ([]*SectionView, error)
	CreateSection(ctx context.Context, cmd CreateSectionCommand) (*SectionView, error)
	UpdateSection(ctx context.Context, cmd UpdateSectionCommand) (*SectionView, error)
	DeleteSection(ctx context.Context, id int64) error

	// SweepIntents reconciles blob intents created before the grace period
	SweepIntents(ctx context.Context) (*SweepReport, error)
}
