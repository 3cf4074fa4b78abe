package store

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmorgan81/pairgen/internal/log"
)

const metaSuffix = ".meta.json"

// FileStore keeps objects under Dir, with metadata in a JSON sidecar file.
type FileStore struct {
	Dir string
}

func (s *FileStore) Upload(ctx context.Context, params UploadParams) error {
	log := log.FromContextOrDiscard(ctx).WithGroup("file")
	path := filepath.Join(s.Dir, filepath.FromSlash(params.Name))
	log.Info("writing", "file", path)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(path, params.Data, 0o600); err != nil {
		return err
	}
	if len(params.Metadata) == 0 {
		return nil
	}
	meta, err := json.Marshal(params.Metadata)
	if err != nil {
		return err
	}
	return os.WriteFile(path+metaSuffix, meta, 0o600)
}

func (s *FileStore) List(ctx context.Context, suffix string) ([]Object, error) {
	log := log.FromContextOrDiscard(ctx).WithGroup("file").With("dir", s.Dir, "suffix", suffix)
	log.Info("listing")

	var objs []Object
	err := filepath.WalkDir(s.Dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasSuffix(path, metaSuffix) || !strings.HasSuffix(path, suffix) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(s.Dir, path)
		if err != nil {
			return err
		}

		obj := Object{Name: filepath.ToSlash(rel), Updated: info.ModTime()}
		meta, err := os.ReadFile(path + metaSuffix)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return err
		default:
			if err := json.Unmarshal(meta, &obj.Metadata); err != nil {
				return err
			}
		}
		objs = append(objs, obj)
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return objs, err
}
