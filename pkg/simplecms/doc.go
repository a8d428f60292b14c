// Package simplecms is the core of a small blog backend: users own
// articles, and articles are made of sections whose content is a
// paragraph, a subtitle or an image.
//
// Images live in a BlobStore and rows live in a Repository. A section holds
// an image key exactly when its content is an Image; the service moves
// blobs in and out of the store as sections change type, guarding each blob
// mutation with an Intent so a crash between the two stores can be
// reconciled later by SweepIntents.
//
// Basic usage:
//
//	svc, err := simplecms.New(
//		simplecms.WithRepository(memory.New()),
//		simplecms.WithBlobStore(memorystorage.New()),
//		simplecms.WithTokenIssuer(auth.New("secret", 24*time.Hour)),
//	)
//
//	res, err := svc.Register(ctx, simplecms.RegisterCommand{Name: "jack", Password: "pw"})
//	article, err := svc.CreateArticle(ctx, simplecms.CreateArticleCommand{
//		UserID:    res.User.ID,
//		Name:      "first",
//		ImageName: "first-cover.png",
//		Image:     &simplecms.Upload{FileName: "cover.png", ContentType: "image/png", Data: png},
//	})
package simplecms
