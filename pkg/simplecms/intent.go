package simplecms

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Blob mutations run as a small saga around the relational change:
//
//	put:    record intent, upload blob, change rows, clear intent
//	delete: record intent, change rows, delete blob if unreferenced, clear intent
//
// A failed step leaves the intent in place and reconciles it at once; what
// the request path cannot reconcile is picked up by SweepIntents.

func (s *service) beginIntent(ctx context.Context, op IntentOp, key, entity string, entityID int64) (*Intent, error) {
	intent := &Intent{
		ID:        uuid.New(),
		Op:        op,
		BlobKey:   key,
		Entity:    entity,
		EntityID:  entityID,
		CreatedAt: s.now(),
	}
	if err := s.repository.CreateIntent(ctx, intent); err != nil {
		return nil, fmt.Errorf("record %s intent for %s: %w", op, key, err)
	}
	return intent, nil
}

// finishIntent clears an intent whose saga completed.
func (s *service) finishIntent(ctx context.Context, intent *Intent) {
	if err := s.repository.DeleteIntent(ctx, intent); err != nil {
		s.logger.Warn("failed to clear blob intent", "intent_id", intent.ID, "key", intent.BlobKey, "error", err)
	}
}

// abortIntent reconciles an intent whose saga failed part way.
func (s *service) abortIntent(ctx context.Context, intent *Intent, cause error) {
	if _, err := s.reconcile(ctx, intent); err != nil {
		s.logger.Error("failed to reconcile blob intent",
			"intent_id", intent.ID, "key", intent.BlobKey, "op", intent.Op, "cause", cause, "error", err)
	}
}

// reconcile deletes the intent's blob unless a row still references it, then
// clears the intent. It reports whether the blob was deleted.
func (s *service) reconcile(ctx context.Context, intent *Intent) (bool, error) {
	referenced, err := s.repository.KeyReferenced(ctx, intent.BlobKey)
	if err != nil {
		return false, fmt.Errorf("check references of %s: %w", intent.BlobKey, err)
	}

	purged := false
	if !referenced {
		if err := s.blobStore.Delete(ctx, intent.BlobKey); err != nil && !errors.Is(err, ErrBlobNotFound) {
			return false, &StorageError{Key: intent.BlobKey, Op: "delete", Err: err}
		}
		purged = true
		s.fire(func() error { return s.eventSink.BlobDeleted(ctx, intent.BlobKey) })
	}

	if err := s.repository.DeleteIntent(ctx, intent); err != nil {
		return purged, fmt.Errorf("clear intent %s: %w", intent.ID, err)
	}
	s.fire(func() error { return s.eventSink.IntentReconciled(ctx, intent, purged) })
	return purged, nil
}

func (s *service) SweepIntents(ctx context.Context) (*SweepReport, error) {
	intents, err := s.repository.ListIntents(ctx, s.now().Add(-s.intentGrace))
	if err != nil {
		return nil, fmt.Errorf("list intents: %w", err)
	}

	report := &SweepReport{Scanned: len(intents)}
	for _, intent := range intents {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		purged, err := s.reconcile(ctx, intent)
		switch {
		case err != nil:
			report.Failed++
			s.logger.Error("intent sweep failed", "intent_id", intent.ID, "key", intent.BlobKey, "error", err)
		case purged:
			report.BlobsPurged++
		default:
			report.BlobsKept++
		}
	}

	if report.Scanned > 0 {
		s.logger.Info("intent sweep finished",
			"scanned", report.Scanned, "kept", report.BlobsKept, "purged", report.BlobsPurged, "failed", report.Failed)
	}
	return report, nil
}

// putBlob uploads an image under key inside a put intent and then runs
// commit. The intent is cleared when commit succeeds.
func (s *service) putBlob(ctx context.Context, key, entity string, entityID int64, upload *Upload, commit func() error) error {
	intent, err := s.beginIntent(ctx, IntentOpPut, key, entity, entityID)
	if err != nil {
		return err
	}

	if err := s.blobStore.Upload(ctx, key, bytes.NewReader(upload.Data), upload.ContentType); err != nil {
		err = &StorageError{Key: key, Op: "upload", Err: err}
		s.abortIntent(ctx, intent, err)
		return err
	}
	s.fire(func() error { return s.eventSink.BlobUploaded(ctx, key, upload.Size()) })

	if err := commit(); err != nil {
		s.abortIntent(ctx, intent, err)
		return err
	}

	s.finishIntent(ctx, intent)
	return nil
}

// releaseBlobs runs commit inside delete intents for keys, then deletes
// every key no row references any more. Only a failed commit is returned.
func (s *service) releaseBlobs(ctx context.Context, keys []string, entity string, entityID int64, commit func() error) error {
	intents := make([]*Intent, 0, len(keys))
	for _, key := range keys {
		intent, err := s.beginIntent(ctx, IntentOpDelete, key, entity, entityID)
		if err != nil {
			for _, started := range intents {
				s.finishIntent(ctx, started)
			}
			return err
		}
		intents = append(intents, intent)
	}

	if err := commit(); err != nil {
		for _, intent := range intents {
			s.abortIntent(ctx, intent, err)
		}
		return err
	}

	// The rows are gone at this point; a blob that fails to delete stays
	// behind its intent for the next sweep.
	for _, intent := range intents {
		if _, err := s.reconcile(ctx, intent); err != nil {
			s.logger.Error("failed to delete released blob", "key", intent.BlobKey, "error", err)
		}
	}
	return nil
}

// fire delivers an event, logging sink failures.
func (s *service) fire(deliver func() error) {
	if err := deliver(); err != nil {
		s.logger.Warn("event sink failed", "error", err)
	}
}
