package metrics

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/simple-cms/pkg/simplecms"
)

func TestEventSink(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewEventSink(reg)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, sink.ArticleCreated(ctx, &simplecms.Article{ID: 1}))
	require.NoError(t, sink.SectionCreated(ctx, &simplecms.Section{ContentType: simplecms.ContentTypeImage}))
	require.NoError(t, sink.SectionUpdated(ctx, &simplecms.Section{ContentType: simplecms.ContentTypeParagraph}))
	require.NoError(t, sink.BlobUploaded(ctx, "k", 128))
	require.NoError(t, sink.BlobUploaded(ctx, "k2", 72))
	require.NoError(t, sink.IntentReconciled(ctx, &simplecms.Intent{Op: simplecms.IntentOpPut}, true))

	assert.Equal(t, 1.0, testutil.ToFloat64(sink.articles.WithLabelValues("created")))
	assert.Equal(t, 1.0, testutil.ToFloat64(sink.sections.WithLabelValues("created", "image")))
	assert.Equal(t, 2.0, testutil.ToFloat64(sink.blobOps.WithLabelValues("upload")))
	assert.Equal(t, 200.0, testutil.ToFloat64(sink.blobBytes))
	assert.Equal(t, 1.0, testutil.ToFloat64(sink.intents.WithLabelValues("put", "purged")))

	_, err = NewEventSink(reg)
	assert.Error(t, err, "registering twice must fail")
}
