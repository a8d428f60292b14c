package simplecms_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tendant/simple-cms/pkg/simplecms"
	"github.com/tendant/simple-cms/pkg/simplecms/auth"
	"github.com/tendant/simple-cms/pkg/simplecms/objectkey"
	"github.com/tendant/simple-cms/pkg/simplecms/presigned"
	"github.com/tendant/simple-cms/pkg/simplecms/repo/memory"
	memorystorage "github.com/tendant/simple-cms/pkg/simplecms/storage/memory"
)

var (
	pngA = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 'a'}
	pngB = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 'b'}
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func upload(data []byte) *simplecms.Upload {
	return &simplecms.Upload{FileName: "pic.png", ContentType: "image/png", Data: data}
}

func generatedKeys() objectkey.Generator {
	return objectkey.NewCustomFuncGenerator(func(m *objectkey.KeyMetadata) string {
		return fmt.Sprintf("generated/%d/%d.png", m.ArticleID, m.OwnerID)
	})
}

func newService(t *testing.T, repo simplecms.Repository, store simplecms.BlobStore, opts ...simplecms.Option) simplecms.Service {
	t.Helper()
	opts = append([]simplecms.Option{
		simplecms.WithRepository(repo),
		simplecms.WithBlobStore(store),
		simplecms.WithTokenIssuer(auth.New("test-secret", time.Hour)),
		simplecms.WithBcryptCost(4),
		simplecms.WithKeyGenerator(generatedKeys()),
		simplecms.WithLogger(quietLogger()),
	}, opts...)
	svc, err := simplecms.New(opts...)
	require.NoError(t, err)
	return svc
}

func createArticle(t *testing.T, svc simplecms.Service, userID int64, name, cover string) *simplecms.Article {
	t.Helper()
	article, err := svc.CreateArticle(context.Background(), simplecms.CreateArticleCommand{
		UserID:    userID,
		Name:      name,
		Title:     "Title " + name,
		ImageName: cover,
		Image:     upload(pngA),
	})
	require.NoError(t, err)
	return article
}

func TestServiceCreation(t *testing.T) {
	tests := []struct {
		name        string
		options     []simplecms.Option
		expectError bool
	}{
		{
			name:        "no options should fail",
			options:     []simplecms.Option{},
			expectError: true,
		},
		{
			name:        "without blob store should fail",
			options:     []simplecms.Option{simplecms.WithRepository(memory.New())},
			expectError: true,
		},
		{
			name: "bcrypt cost out of range should fail",
			options: []simplecms.Option{
				simplecms.WithRepository(memory.New()),
				simplecms.WithBlobStore(memorystorage.New()),
				simplecms.WithBcryptCost(64),
			},
			expectError: true,
		},
		{
			name: "with repository and blob store should succeed",
			options: []simplecms.Option{
				simplecms.WithRepository(memory.New()),
				simplecms.WithBlobStore(memorystorage.New()),
			},
			expectError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := simplecms.New(tt.options...)
			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, svc)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, svc)
			}
		})
	}
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	tokens := auth.New("test-secret", time.Hour)
	svc := newService(t, memory.New(), memorystorage.New(), simplecms.WithTokenIssuer(tokens))

	res, err := svc.Register(ctx, simplecms.RegisterCommand{Name: "jack", Password: "pw", Email: "jack@example.com"})
	require.NoError(t, err)
	assert.NotZero(t, res.User.ID)
	assert.NotEqual(t, "pw", res.User.Password)

	userID, err := tokens.Parse(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, userID)

	_, err = svc.Register(ctx, simplecms.RegisterCommand{Name: "jack", Password: "other"})
	assert.ErrorIs(t, err, simplecms.ErrUserNameExists)
	assert.True(t, simplecms.IsConflict(err))

	_, err = svc.Login(ctx, simplecms.LoginCommand{Name: "jack", Password: "wrong"})
	assert.ErrorIs(t, err, simplecms.ErrIncorrectCredentials)

	_, err = svc.Login(ctx, simplecms.LoginCommand{Name: "nobody", Password: "pw"})
	assert.ErrorIs(t, err, simplecms.ErrIncorrectCredentials)

	login, err := svc.Login(ctx, simplecms.LoginCommand{Name: "jack", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, login.User.ID)
	assert.NotEmpty(t, login.Token)
}

func TestRegisterWithoutTokenIssuer(t *testing.T) {
	svc, err := simplecms.New(
		simplecms.WithRepository(memory.New()),
		simplecms.WithBlobStore(memorystorage.New()),
		simplecms.WithBcryptCost(4),
	)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), simplecms.RegisterCommand{Name: "jack", Password: "pw"})
	assert.ErrorIs(t, err, simplecms.ErrSigningSecretMissing)
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, memory.New(), memorystorage.New())

	jack, err := svc.Register(ctx, simplecms.RegisterCommand{Name: "jack", Password: "pw"})
	require.NoError(t, err)
	_, err = svc.Register(ctx, simplecms.RegisterCommand{Name: "jill", Password: "pw"})
	require.NoError(t, err)

	user, err := svc.UpdateProfile(ctx, simplecms.UpdateProfileCommand{UserID: jack.User.ID, Author: "Jack", Password: "new-pw"})
	require.NoError(t, err)
	assert.Equal(t, "Jack", user.Author)
	assert.Equal(t, "jack", user.Name)

	_, err = svc.Login(ctx, simplecms.LoginCommand{Name: "jack", Password: "new-pw"})
	assert.NoError(t, err)

	_, err = svc.UpdateProfile(ctx, simplecms.UpdateProfileCommand{UserID: jack.User.ID, Name: "jill"})
	assert.ErrorIs(t, err, simplecms.ErrUserNameExists)

	_, err = svc.GetProfile(ctx, 999)
	assert.True(t, simplecms.IsNotFound(err))
}

func TestArticleOperations(t *testing.T) {
	ctx := context.Background()
	store := memorystorage.New()
	svc := newService(t, memory.New(), store)

	_, err := svc.CreateArticle(ctx, simplecms.CreateArticleCommand{UserID: 1, Name: "first", ImageName: "cover.png"})
	var verr *simplecms.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "image")

	first := createArticle(t, svc, 1, "first", "cover.png")
	assert.False(t, first.IsPublish)
	assert.Equal(t, []string{"cover.png"}, store.Keys())

	_, err = svc.CreateArticle(ctx, simplecms.CreateArticleCommand{UserID: 1, Name: "first", ImageName: "cover2.png", Image: upload(pngA)})
	assert.ErrorIs(t, err, simplecms.ErrArticleNameExists)

	// the name is unique per owner only
	createArticle(t, svc, 2, "first", "cover-of-user-2.png")

	_, err = svc.CreateArticle(ctx, simplecms.CreateArticleCommand{UserID: 1, Name: "second", ImageName: "cover.png", Image: upload(pngA)})
	assert.ErrorIs(t, err, simplecms.ErrImageNameInUse)

	second := createArticle(t, svc, 1, "second", "cover-second.png")

	_, err = svc.UpdateArticleData(ctx, simplecms.UpdateArticleDataCommand{ID: second.ID, Name: "first", Title: "t"})
	assert.ErrorIs(t, err, simplecms.ErrArticleNameExists)

	updated, err := svc.UpdateArticleData(ctx, simplecms.UpdateArticleDataCommand{ID: second.ID, Name: "second", Title: "New", Keywords: "go"})
	require.NoError(t, err)
	assert.Equal(t, "New", updated.Title)
	assert.Equal(t, "cover-second.png", updated.ImageName)

	published, err := svc.UpdatePublishState(ctx, simplecms.PublishStateCommand{ID: second.ID, IsPublish: true})
	require.NoError(t, err)
	assert.True(t, published.IsPublish)

	published, err = svc.UpdatePublishState(ctx, simplecms.PublishStateCommand{ID: second.ID, IsPublish: false})
	require.NoError(t, err)
	assert.False(t, published.IsPublish)

	articles, err := svc.ListArticles(ctx, 1)
	require.NoError(t, err)
	require.Len(t, articles, 2)
	assert.Equal(t, "first", articles[0].Name)
	assert.Equal(t, "New", articles[1].Title)

	_, err = svc.UpdatePublishState(ctx, simplecms.PublishStateCommand{ID: 999, IsPublish: true})
	assert.ErrorIs(t, err, simplecms.ErrArticleNotFound)
}

func TestListArticlesSignedURLs(t *testing.T) {
	ctx := context.Background()
	signer := presigned.New(
		presigned.WithSecretKey("url-secret"),
		presigned.WithURLPattern("/api/v1/blobs/{key}"),
		presigned.WithBaseURL("http://cms.local"),
	)
	svc := newService(t, memory.New(), memorystorage.New(memorystorage.WithSigner(signer)), simplecms.WithSignedURLs(0))
	createArticle(t, svc, 1, "first", "covers/first.png")

	articles, err := svc.ListArticles(ctx, 1)
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, "covers/first.png", articles[0].ImageName)
	assert.Contains(t, articles[0].ImageURL, "http://cms.local/api/v1/blobs/covers/first.png?signature=")

	// a store that cannot sign leaves the url empty
	unsigned := newService(t, memory.New(), memorystorage.New(), simplecms.WithSignedURLs(time.Hour))
	createArticle(t, unsigned, 1, "first", "cover.png")
	articles, err = unsigned.ListArticles(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, articles[0].ImageURL)
}

func TestSectionTransitions(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	store := memorystorage.New()
	svc := newService(t, repo, store)
	article := createArticle(t, svc, 1, "first", "cover.png")

	view, err := svc.CreateSection(ctx, simplecms.CreateSectionCommand{
		ArticleID: article.ID,
		Content:   simplecms.Paragraph{Text: "hello"},
		Style:     simplecms.StyleAttributes{TextAlign: "left", FontSize: "12px"},
	})
	require.NoError(t, err)
	assert.Nil(t, view.ImageName)
	assert.Equal(t, view.ID, view.SectionID)
	assert.Equal(t, "12px", view.FontSize)
	id := view.ID

	// paragraph -> image takes the client's name
	view, err = svc.UpdateSection(ctx, simplecms.UpdateSectionCommand{
		ID: id, Content: simplecms.Image{Key: "pic.png", Caption: "alt"}, Upload: upload(pngA),
	})
	require.NoError(t, err)
	require.NotNil(t, view.ImageName)
	assert.Equal(t, "pic.png", *view.ImageName)
	assert.Equal(t, "alt", view.Content)
	assert.ElementsMatch(t, []string{"cover.png", "pic.png"}, store.Keys())

	// image -> image keeps the key and replaces the bytes
	view, err = svc.UpdateSection(ctx, simplecms.UpdateSectionCommand{
		ID: id, Content: simplecms.Image{Key: "renamed.png"}, Upload: upload(pngB),
	})
	require.NoError(t, err)
	assert.Equal(t, "pic.png", *view.ImageName)
	assert.Equal(t, pngB, download(t, store, "pic.png"))
	assert.ElementsMatch(t, []string{"cover.png", "pic.png"}, store.Keys())

	// image -> subtitle releases the blob
	view, err = svc.UpdateSection(ctx, simplecms.UpdateSectionCommand{
		ID: id, Content: simplecms.Subtitle{Text: "heading"}, Style: simplecms.StyleAttributes{FontWeight: "bold"},
	})
	require.NoError(t, err)
	assert.Nil(t, view.ImageName)
	assert.Equal(t, simplecms.ContentTypeSubtitle, view.ContentType)
	assert.Equal(t, "bold", view.FontWeight)
	assert.Empty(t, view.FontSize)
	assert.ElementsMatch(t, []string{"cover.png"}, store.Keys())

	// subtitle -> image without a name generates one
	view, err = svc.UpdateSection(ctx, simplecms.UpdateSectionCommand{
		ID: id, Content: simplecms.Image{}, Upload: upload(pngA),
	})
	require.NoError(t, err)
	generated := fmt.Sprintf("generated/%d/%d.png", article.ID, id)
	assert.Equal(t, generated, *view.ImageName)
	assert.ElementsMatch(t, []string{"cover.png", generated}, store.Keys())

	_, err = svc.UpdateSection(ctx, simplecms.UpdateSectionCommand{ID: id, Content: simplecms.Image{Key: "x.png"}})
	assert.ErrorIs(t, err, simplecms.ErrMissingAsset)

	stored, err := repo.GetSection(ctx, id)
	require.NoError(t, err)
	body, err := stored.Body()
	require.NoError(t, err)
	assert.Equal(t, simplecms.Image{Key: generated}, body)

	views, err := svc.ListSections(ctx, article.ID)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, generated, *views[0].ImageName)

	require.NoError(t, svc.DeleteArticle(ctx, article.ID))
	assert.ElementsMatch(t, []string{"cover.png"}, store.Keys())
	views, err = svc.ListSections(ctx, article.ID)
	require.NoError(t, err)
	assert.Empty(t, views)
}

func TestCreateSectionRules(t *testing.T) {
	ctx := context.Background()
	store := memorystorage.New()
	svc := newService(t, memory.New(), store)
	article := createArticle(t, svc, 1, "first", "cover.png")

	_, err := svc.CreateSection(ctx, simplecms.CreateSectionCommand{
		ArticleID: article.ID, Content: simplecms.Image{Key: "pic.png"},
	})
	assert.ErrorIs(t, err, simplecms.ErrMissingAsset)

	_, err = svc.CreateSection(ctx, simplecms.CreateSectionCommand{
		ArticleID: article.ID, Content: simplecms.Image{}, Upload: upload(pngA),
	})
	assert.ErrorIs(t, err, simplecms.ErrMissingAsset)

	_, err = svc.CreateSection(ctx, simplecms.CreateSectionCommand{
		ArticleID: article.ID, Content: simplecms.Image{Key: "cover.png"}, Upload: upload(pngA),
	})
	assert.ErrorIs(t, err, simplecms.ErrImageNameInUse)

	_, err = svc.CreateSection(ctx, simplecms.CreateSectionCommand{
		ArticleID: 999, Content: simplecms.Paragraph{Text: "x"},
	})
	assert.ErrorIs(t, err, simplecms.ErrArticleNotFound)

	// a file sent with text content is ignored
	view, err := svc.CreateSection(ctx, simplecms.CreateSectionCommand{
		ArticleID: article.ID, Content: simplecms.Paragraph{Text: "x"}, Upload: upload(pngA),
	})
	require.NoError(t, err)
	assert.Nil(t, view.ImageName)
	assert.ElementsMatch(t, []string{"cover.png"}, store.Keys())

	img, err := svc.CreateSection(ctx, simplecms.CreateSectionCommand{
		ArticleID: article.ID, Content: simplecms.Image{Key: "pic.png", Caption: "alt"}, Upload: upload(pngA),
	})
	require.NoError(t, err)
	assert.Equal(t, "pic.png", *img.ImageName)

	require.NoError(t, svc.DeleteSection(ctx, img.ID))
	assert.ElementsMatch(t, []string{"cover.png"}, store.Keys())
	assert.True(t, simplecms.IsNotFound(svc.DeleteSection(ctx, img.ID)))
}

func download(t *testing.T, store simplecms.BlobStore, key string) []byte {
	t.Helper()
	rc, err := store.Download(context.Background(), key)
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	return data
}

// mockBlobStore is a testify mock of simplecms.BlobStore
type mockBlobStore struct {
	mock.Mock
}

func (m *mockBlobStore) Upload(ctx context.Context, objectKey string, reader io.Reader, mimeType string) error {
	return m.Called(ctx, objectKey, mimeType).Error(0)
}

func (m *mockBlobStore) Download(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	args := m.Called(ctx, objectKey)
	rc, _ := args.Get(0).(io.ReadCloser)
	return rc, args.Error(1)
}

func (m *mockBlobStore) Delete(ctx context.Context, objectKey string) error {
	return m.Called(ctx, objectKey).Error(0)
}

func (m *mockBlobStore) GetSignedURL(ctx context.Context, objectKey string, ttl time.Duration) (string, error) {
	args := m.Called(ctx, objectKey, ttl)
	return args.String(0), args.Error(1)
}

func (m *mockBlobStore) GetObjectMeta(ctx context.Context, objectKey string) (*simplecms.ObjectMeta, error) {
	args := m.Called(ctx, objectKey)
	meta, _ := args.Get(0).(*simplecms.ObjectMeta)
	return meta, args.Error(1)
}

func pendingIntents(t *testing.T, repo simplecms.IntentStore) []*simplecms.Intent {
	t.Helper()
	intents, err := repo.ListIntents(context.Background(), time.Now().Add(24*time.Hour))
	require.NoError(t, err)
	return intents
}

func TestUploadFailureReconcilesIntent(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	store := new(mockBlobStore)
	store.On("Upload", mock.Anything, "cover.png", "image/png").Return(nil)
	store.On("Upload", mock.Anything, "pic.png", "image/png").Return(errors.New("bucket unavailable"))
	store.On("Delete", mock.Anything, "pic.png").Return(simplecms.ErrBlobNotFound)

	svc := newService(t, repo, store)
	article := createArticle(t, svc, 1, "first", "cover.png")

	_, err := svc.CreateSection(ctx, simplecms.CreateSectionCommand{
		ArticleID: article.ID, Content: simplecms.Image{Key: "pic.png"}, Upload: upload(pngA),
	})
	var serr *simplecms.StorageError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "upload", serr.Op)

	views, err := repo.ListSections(ctx, article.ID)
	require.NoError(t, err)
	assert.Empty(t, views)
	assert.Empty(t, pendingIntents(t, repo))
	store.AssertCalled(t, "Delete", mock.Anything, "pic.png")
}

// failingSections rejects new sections after the blob upload succeeded
type failingSections struct {
	*memory.Repository
}

func (f failingSections) CreateSection(ctx context.Context, section *simplecms.Section) error {
	return errors.New("insert failed")
}

func TestCommitFailurePurgesUploadedBlob(t *testing.T) {
	ctx := context.Background()
	repo := failingSections{memory.New()}
	store := memorystorage.New()
	svc := newService(t, repo, store)
	article := createArticle(t, svc, 1, "first", "cover.png")

	_, err := svc.CreateSection(ctx, simplecms.CreateSectionCommand{
		ArticleID: article.ID, Content: simplecms.Image{Key: "pic.png"}, Upload: upload(pngA),
	})
	require.Error(t, err)
	assert.ElementsMatch(t, []string{"cover.png"}, store.Keys())
	assert.Empty(t, pendingIntents(t, repo))
}

func TestFailedDeleteIsSwept(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	repo := memory.New()
	store := new(mockBlobStore)
	store.On("Upload", mock.Anything, mock.Anything, "image/png").Return(nil)
	store.On("Delete", mock.Anything, "pic.png").Return(errors.New("timeout")).Once()
	store.On("Delete", mock.Anything, "pic.png").Return(nil).Once()

	svc := newService(t, repo, store,
		simplecms.WithClock(func() time.Time { return now }),
		simplecms.WithIntentGracePeriod(15*time.Minute),
	)
	article := createArticle(t, svc, 1, "first", "cover.png")
	img, err := svc.CreateSection(ctx, simplecms.CreateSectionCommand{
		ArticleID: article.ID, Content: simplecms.Image{Key: "pic.png"}, Upload: upload(pngA),
	})
	require.NoError(t, err)

	// the rows go even though the blob delete failed
	require.NoError(t, svc.DeleteSection(ctx, img.ID))
	_, err = repo.GetSection(ctx, img.ID)
	assert.ErrorIs(t, err, simplecms.ErrSectionNotFound)

	intents := pendingIntents(t, repo)
	require.Len(t, intents, 1)
	assert.Equal(t, simplecms.IntentOpDelete, intents[0].Op)
	assert.Equal(t, "pic.png", intents[0].BlobKey)

	// too young for the sweep
	report, err := svc.SweepIntents(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Scanned)

	now = now.Add(time.Hour)
	report, err = svc.SweepIntents(ctx)
	require.NoError(t, err)
	assert.Equal(t, &simplecms.SweepReport{Scanned: 1, BlobsPurged: 1}, report)
	assert.Empty(t, pendingIntents(t, repo))
	store.AssertNumberOfCalls(t, "Delete", 2)
}

func TestSweepKeepsReferencedBlobs(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	repo := memory.New()
	store := memorystorage.New()
	svc := newService(t, repo, store, simplecms.WithClock(func() time.Time { return now }))
	createArticle(t, svc, 1, "first", "cover.png")

	// a crash between upload and insert leaves an orphan and its intent
	require.NoError(t, store.Upload(ctx, "orphan.png", bytes.NewReader(pngA), "image/png"))
	for _, key := range []string{"orphan.png", "cover.png"} {
		require.NoError(t, repo.CreateIntent(ctx, &simplecms.Intent{
			ID:        uuid.New(),
			Op:        simplecms.IntentOpPut,
			BlobKey:   key,
			Entity:    "section",
			CreatedAt: now.Add(-time.Hour),
		}))
	}

	report, err := svc.SweepIntents(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Scanned)
	assert.Equal(t, 1, report.BlobsPurged)
	assert.Equal(t, 1, report.BlobsKept)
	assert.ElementsMatch(t, []string{"cover.png"}, store.Keys())
}

func TestDeleteSectionWithoutImage(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	store := new(mockBlobStore)
	store.On("Upload", mock.Anything, mock.Anything, "image/png").Return(nil)
	store.On("Delete", mock.Anything, "pic.png").Return(nil)

	svc := newService(t, repo, store)
	article := createArticle(t, svc, 1, "first", "cover.png")

	for _, content := range []simplecms.SectionContent{
		simplecms.Paragraph{Text: "body"},
		simplecms.Subtitle{Text: "heading"},
	} {
		view, err := svc.CreateSection(ctx, simplecms.CreateSectionCommand{ArticleID: article.ID, Content: content})
		require.NoError(t, err)

		calls := len(store.Calls)
		require.NoError(t, svc.DeleteSection(ctx, view.ID))
		assert.Len(t, store.Calls, calls, "deleting a %s section touched the blob store", content.ContentType())
	}
	assert.Empty(t, pendingIntents(t, repo))

	// leaving image content deletes the old blob exactly once
	img, err := svc.CreateSection(ctx, simplecms.CreateSectionCommand{
		ArticleID: article.ID, Content: simplecms.Image{Key: "pic.png"}, Upload: upload(pngA),
	})
	require.NoError(t, err)

	_, err = svc.UpdateSection(ctx, simplecms.UpdateSectionCommand{ID: img.ID, Content: simplecms.Paragraph{Text: "now text"}})
	require.NoError(t, err)
	store.AssertNumberOfCalls(t, "Delete", 1)
	store.AssertCalled(t, "Delete", mock.Anything, "pic.png")

	stored, err := repo.GetSection(ctx, img.ID)
	require.NoError(t, err)
	assert.Equal(t, simplecms.ContentTypeParagraph, stored.ContentType)
	assert.Nil(t, stored.ImageName)

	// the section no longer owns a blob, so deleting it is blob-free too
	calls := len(store.Calls)
	require.NoError(t, svc.DeleteSection(ctx, img.ID))
	assert.Len(t, store.Calls, calls)
	store.AssertNumberOfCalls(t, "Delete", 1)
}
