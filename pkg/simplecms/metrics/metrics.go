// Package metrics exports lifecycle events as Prometheus metrics.
package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tendant/simple-cms/pkg/simplecms"
)

const namespace = "simplecms"

// EventSink counts lifecycle events. It implements simplecms.EventSink.
type EventSink struct {
	articles  *prometheus.CounterVec
	sections  *prometheus.CounterVec
	blobOps   *prometheus.CounterVec
	blobBytes prometheus.Counter
	intents   *prometheus.CounterVec
}

var _ simplecms.EventSink = (*EventSink)(nil)

// NewEventSink creates the collectors and registers them with reg
func NewEventSink(reg prometheus.Registerer) (*EventSink, error) {
	s := &EventSink{
		articles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "article_events_total",
			Help:      "Article lifecycle events by event.",
		}, []string{"event"}),
		sections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "section_events_total",
			Help:      "Section lifecycle events by event and content type.",
		}, []string{"event", "content_type"}),
		blobOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "blob_operations_total",
			Help:      "Blob store operations by operation.",
		}, []string{"op"}),
		blobBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "blob_uploaded_bytes_total",
			Help:      "Bytes uploaded to the blob store.",
		}),
		intents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "intents_reconciled_total",
			Help:      "Reconciled blob intents by op and outcome.",
		}, []string{"op", "outcome"}),
	}

	for _, c := range []prometheus.Collector{s.articles, s.sections, s.blobOps, s.blobBytes, s.intents} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *EventSink) ArticleCreated(ctx context.Context, article *simplecms.Article) error {
	s.articles.WithLabelValues("created").Inc()
	return nil
}

func (s *EventSink) ArticleDeleted(ctx context.Context, articleID int64) error {
	s.articles.WithLabelValues("deleted").Inc()
	return nil
}

func (s *EventSink) SectionCreated(ctx context.Context, section *simplecms.Section) error {
	s.sections.WithLabelValues("created", string(section.ContentType)).Inc()
	return nil
}

func (s *EventSink) SectionUpdated(ctx context.Context, section *simplecms.Section) error {
	s.sections.WithLabelValues("updated", string(section.ContentType)).Inc()
	return nil
}

func (s *EventSink) SectionDeleted(ctx context.Context, sectionID int64) error {
	s.sections.WithLabelValues("deleted", "").Inc()
	return nil
}

func (s *EventSink) BlobUploaded(ctx context.Context, key string, size int64) error {
	s.blobOps.WithLabelValues("upload").Inc()
	s.blobBytes.Add(float64(size))
	return nil
}

func (s *EventSink) BlobDeleted(ctx context.Context, key string) error {
	s.blobOps.WithLabelValues("delete").Inc()
	return nil
}

func (s *EventSink) IntentReconciled(ctx context.Context, intent *simplecms.Intent, purged bool) error {
	outcome := "kept"
	if purged {
		outcome = "purged"
	}
	s.intents.WithLabelValues(string(intent.Op), outcome).Inc()
	return nil
}
