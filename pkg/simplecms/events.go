package simplecms

import (
	"context"
	"errors"
	"log/slog"
)

// NoopEventSink is a no-operation implementation of EventSink
type NoopEventSink struct{}

// NewNoopEventSink creates a new no-operation event sink
func NewNoopEventSink() EventSink {
	return &NoopEventSink{}
}

func (n *NoopEventSink) ArticleCreated(ctx context.Context, article *Article) error { return nil }
func (n *NoopEventSink) ArticleDeleted(ctx context.Context, articleID int64) error   { return nil }
func (n *NoopEventSink) SectionCreated(ctx context.Context, section *Section) error  { return nil }
func (n *NoopEventSink) SectionUpdated(ctx context.Context, section *Section) error  { return nil }
func (n *NoopEventSink) SectionDeleted(ctx context.Context, sectionID int64) error   { return nil }
func (n *NoopEventSink) BlobUploaded(ctx context.Context, key string, size int64) error {
	return nil
}
func (n *NoopEventSink) BlobDeleted(ctx context.Context, key string) error { return nil }
func (n *NoopEventSink) IntentReconciled(ctx context.Context, intent *Intent, purged bool) error {
	return nil
}

// LoggingEventSink writes every event to a structured logger
type LoggingEventSink struct {
	logger *slog.Logger
}

// NewLoggingEventSink creates a new logging event sink
func NewLoggingEventSink(logger *slog.Logger) EventSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingEventSink{logger: logger}
}

func (l *LoggingEventSink) ArticleCreated(ctx context.Context, article *Article) error {
	l.logger.InfoContext(ctx, "article created", "article_id", article.ID, "user_id", article.UserID, "name", article.Name)
	return nil
}

func (l *LoggingEventSink) ArticleDeleted(ctx context.Context, articleID int64) error {
	l.logger.InfoContext(ctx, "article deleted", "article_id", articleID)
	return nil
}

func (l *LoggingEventSink) SectionCreated(ctx context.Context, section *Section) error {
	l.logger.InfoContext(ctx, "section created", "section_id", section.ID, "article_id", section.ArticleID, "content_type", section.ContentType)
	return nil
}

func (l *LoggingEventSink) SectionUpdated(ctx context.Context, section *Section) error {
	l.logger.InfoContext(ctx, "section updated", "section_id", section.ID, "content_type", section.ContentType)
	return nil
}

func (l *LoggingEventSink) SectionDeleted(ctx context.Context, sectionID int64) error {
	l.logger.InfoContext(ctx, "section deleted", "section_id", sectionID)
	return nil
}

func (l *LoggingEventSink) BlobUploaded(ctx context.Context, key string, size int64) error {
	l.logger.DebugContext(ctx, "blob uploaded", "key", key, "size", size)
	return nil
}

func (l *LoggingEventSink) BlobDeleted(ctx context.Context, key string) error {
	l.logger.DebugContext(ctx, "blob deleted", "key", key)
	return nil
}

func (l *LoggingEventSink) IntentReconciled(ctx context.Context, intent *Intent, purged bool) error {
	l.logger.DebugContext(ctx, "intent reconciled", "intent_id", intent.ID, "op", intent.Op, "key", intent.BlobKey, "purged", purged)
	return nil
}

// MultiEventSink fans every event out to several sinks. All sinks see each
// event; their errors are joined.
type MultiEventSink []EventSink

func (m MultiEventSink) each(fn func(EventSink) error) error {
	var errs []error
	for _, sink := range m {
		if err := fn(sink); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m MultiEventSink) ArticleCreated(ctx context.Context, article *Article) error {
	return m.each(func(s EventSink) error { return s.ArticleCreated(ctx, article) })
}

func (m MultiEventSink) ArticleDeleted(ctx context.Context, articleID int64) error {
	return m.each(func(s EventSink) error { return s.ArticleDeleted(ctx, articleID) })
}

func (m MultiEventSink) SectionCreated(ctx context.Context, section *Section) error {
	return m.each(func(s EventSink) error { return s.SectionCreated(ctx, section) })
}

func (m MultiEventSink) SectionUpdated(ctx context.Context, section *Section) error {
	return m.each(func(s EventSink) error { return s.SectionUpdated(ctx, section) })
}

func (m MultiEventSink) SectionDeleted(ctx context.Context, sectionID int64) error {
	return m.each(func(s EventSink) error { return s.SectionDeleted(ctx, sectionID) })
}

func (m MultiEventSink) BlobUploaded(ctx context.Context, key string, size int64) error {
	return m.each(func(s EventSink) error { return s.BlobUploaded(ctx, key, size) })
}

func (m MultiEventSink) BlobDeleted(ctx context.Context, key string) error {
	return m.each(func(s EventSink) error { return s.BlobDeleted(ctx, key) })
}

func (m MultiEventSink) IntentReconciled(ctx context.Context, intent *Intent, purged bool) error {
	return m.each(func(s EventSink) error { return s.IntentReconciled(ctx, intent, purged) })
}
