package metastore

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"gopkg.in/yaml.v3"

	"github.com/m-mizutani/drover/pkg/domain/model"
	"github.com/m-mizutani/drover/pkg/domain/types"
)

const metaFileName = "meta.yaml"

// Store owns the on-disk provenance records, one YAML document per run
// under <baseDir>/<run_id>/meta.yaml. Upserts for the same run are
// serialized by a per-run mutex and written via temp file + rename, so
// concurrent writers cannot interleave a read-modify-write.
type Store struct {
	baseDir string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates a store rooted at baseDir. The directory is created
// lazily on first write.
func New(baseDir string) *Store {
	return &Store{
		baseDir: baseDir,
		locks:   make(map[string]*sync.Mutex),
	}
}

// Path returns the record location for a run id
func (s *Store) Path(runID string) string {
	return filepath.Join(s.baseDir, runID, metaFileName)
}

func (s *Store) runLock(runID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.locks[runID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[runID] = l
	}
	return l
}

// Upsert merges patch into the existing record for runID and writes
// the full merged record back before returning it. A missing record is
// treated as empty, never as an error.
func (s *Store) Upsert(ctx context.Context, runID string, patch *model.MetadataPatch) (*model.RunMetadata, error) {
	if !model.ValidRunID(runID) {
		return nil, goerr.New("invalid run id", goerr.V("run_id", runID), goerr.T(types.ErrTagValidation))
	}

	l := s.runLock(runID)
	l.Lock()
	defer l.Unlock()

	meta, err := s.read(ctx, runID)
	if err != nil {
		return nil, err
	}

	meta.Merge(runID, patch, time.Now().UTC())

	if err := s.write(runID, meta); err != nil {
		return nil, err
	}

	return meta, nil
}

// Get returns the record for runID, or nil when none exists yet
func (s *Store) Get(ctx context.Context, runID string) (*model.RunMetadata, error) {
	if !model.ValidRunID(runID) {
		return nil, goerr.New("invalid run id", goerr.V("run_id", runID), goerr.T(types.ErrTagValidation))
	}

	if _, err := os.Stat(s.Path(runID)); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to stat metadata file", goerr.V("path", s.Path(runID)), goerr.T(types.ErrTagStorage))
	}

	return s.read(ctx, runID)
}

// read loads the record, tolerating both a missing file and malformed
// content by returning an empty record.
func (s *Store) read(ctx context.Context, runID string) (*model.RunMetadata, error) {
	data, err := os.ReadFile(s.Path(runID))
	if err != nil {
		if os.IsNotExist(err) {
			return &model.RunMetadata{}, nil
		}
		return nil, goerr.Wrap(err, "failed to read metadata file", goerr.V("path", s.Path(runID)), goerr.T(types.ErrTagStorage))
	}

	var meta model.RunMetadata
	if err := yaml.Unmarshal(data, &meta); err != nil {
		ctxlog.From(ctx).Warn("Malformed metadata file, treating as empty",
			"path", s.Path(runID),
			"error", err,
		)
		return &model.RunMetadata{}, nil
	}

	return &meta, nil
}

func (s *Store) write(runID string, meta *model.RunMetadata) error {
	dst := s.Path(runID)
	dir := filepath.Dir(dst)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return goerr.Wrap(err, "failed to create run directory", goerr.V("dir", dir), goerr.T(types.ErrTagStorage))
	}

	data, err := yaml.Marshal(meta)
	if err != nil {
		return goerr.Wrap(err, "failed to encode metadata", goerr.T(types.ErrTagStorage))
	}

	tmp, err := os.CreateTemp(dir, ".meta-*.yaml")
	if err != nil {
		return goerr.Wrap(err, "failed to create temp file", goerr.V("dir", dir), goerr.T(types.ErrTagStorage))
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return goerr.Wrap(err, "failed to write metadata", goerr.V("path", tmpName), goerr.T(types.ErrTagStorage))
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return goerr.Wrap(err, "failed to close temp file", goerr.V("path", tmpName), goerr.T(types.ErrTagStorage))
	}

	if err := os.Rename(tmpName, dst); err != nil {
		os.Remove(tmpName)
		return goerr.Wrap(err, "failed to replace metadata file", goerr.V("path", dst), goerr.T(types.ErrTagStorage))
	}

	return nil
}
