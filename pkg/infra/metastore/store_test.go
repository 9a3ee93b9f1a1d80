package metastore_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/m-mizutani/gt"
	"gopkg.in/yaml.v3"

	"github.com/m-mizutani/drover/pkg/domain/model"
	"github.com/m-mizutani/drover/pkg/infra/metastore"
)

func TestStore_UpsertCreatesRecord(t *testing.T) {
	ctx := context.Background()
	store := metastore.New(t.TempDir())

	meta, err := store.Upsert(ctx, "run-1", &model.MetadataPatch{
		SourceTitle: "Nightly build",
		Confidence:  model.ConfidenceHigh,
		CreatedBy:   "ci",
	})
	gt.NoError(t, err)

	gt.Value(t, meta.Source.ID).Equal("run-1")
	gt.Value(t, meta.Source.Title).Equal("Nightly build")
	gt.Value(t, meta.Confidence).Equal(model.ConfidenceHigh)
	gt.Value(t, meta.RoundingRule).Equal(model.DefaultRoundingRule)
	gt.Value(t, meta.CreatedBy).Equal("ci")
	gt.Value(t, meta.CreatedAt).NotEqual("")

	// The record is on disk, parseable, and complete
	data, err := os.ReadFile(store.Path("run-1"))
	gt.NoError(t, err)

	var onDisk model.RunMetadata
	gt.NoError(t, yaml.Unmarshal(data, &onDisk))
	gt.Value(t, &onDisk).Equal(meta)
}

func TestStore_UpsertIsSetOnce(t *testing.T) {
	ctx := context.Background()
	store := metastore.New(t.TempDir())

	first, err := store.Upsert(ctx, "run-2", &model.MetadataPatch{
		SourceTitle: "Original",
		CreatedBy:   "alice",
	})
	gt.NoError(t, err)

	second, err := store.Upsert(ctx, "run-2", &model.MetadataPatch{
		SourceTitle: "Replacement",
		CreatedBy:   "bob",
	})
	gt.NoError(t, err)

	gt.Value(t, second.Source.Title).Equal("Original")
	gt.Value(t, second.CreatedBy).Equal("alice")
	gt.Value(t, second.CreatedAt).Equal(first.CreatedAt)
}

func TestStore_ApproverOverwrites(t *testing.T) {
	ctx := context.Background()
	store := metastore.New(t.TempDir())

	_, err := store.Upsert(ctx, "run-3", &model.MetadataPatch{
		Approver: "alice",
		Note:     "looks good",
	})
	gt.NoError(t, err)

	meta, err := store.Upsert(ctx, "run-3", &model.MetadataPatch{
		Approver: "bob",
		Note:     "re-approved",
	})
	gt.NoError(t, err)

	gt.Value(t, meta.PushAuthorizedBy).Equal("bob")
	gt.Value(t, meta.PushAuthorizedNote).Equal("re-approved")
}

func TestStore_MalformedFileTreatedAsEmpty(t *testing.T) {
	ctx := context.Background()
	baseDir := t.TempDir()
	store := metastore.New(baseDir)

	runDir := filepath.Join(baseDir, "run-4")
	gt.NoError(t, os.MkdirAll(runDir, 0o755))
	gt.NoError(t, os.WriteFile(filepath.Join(runDir, "meta.yaml"), []byte("{{{not yaml"), 0o644))

	meta, err := store.Upsert(ctx, "run-4", &model.MetadataPatch{CreatedBy: "ci"})
	gt.NoError(t, err)
	gt.Value(t, meta.CreatedBy).Equal("ci")
	gt.Value(t, meta.Source.ID).Equal("run-4")
}

func TestStore_InvalidRunID(t *testing.T) {
	ctx := context.Background()
	store := metastore.New(t.TempDir())

	tests := []string{"", "../escape", ".hidden", "a/b"}
	for _, id := range tests {
		_, err := store.Upsert(ctx, id, nil)
		gt.Error(t, err)

		_, err = store.Get(ctx, id)
		gt.Error(t, err)
	}
}

func TestStore_GetMissingReturnsNil(t *testing.T) {
	ctx := context.Background()
	store := metastore.New(t.TempDir())

	meta, err := store.Get(ctx, "never-written")
	gt.NoError(t, err)
	gt.Nil(t, meta)
}

func TestStore_GetAfterUpsert(t *testing.T) {
	ctx := context.Background()
	store := metastore.New(t.TempDir())

	written, err := store.Upsert(ctx, "run-5", &model.MetadataPatch{SourceTitle: "Read me back"})
	gt.NoError(t, err)

	got, err := store.Get(ctx, "run-5")
	gt.NoError(t, err)
	gt.Value(t, got).Equal(written)
}

func TestStore_ConcurrentUpserts(t *testing.T) {
	ctx := context.Background()
	store := metastore.New(t.TempDir())

	errs := make(chan error, 16)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Upsert(ctx, "run-6", &model.MetadataPatch{CreatedBy: "ci"})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		gt.NoError(t, err)
	}

	meta, err := store.Get(ctx, "run-6")
	gt.NoError(t, err)
	gt.NotNil(t, meta)
	gt.Value(t, meta.CreatedBy).Equal("ci")
}

func TestStore_Path(t *testing.T) {
	store := metastore.New("runs")
	gt.Value(t, store.Path("run-7")).Equal(filepath.Join("runs", "run-7", "meta.yaml"))
}
