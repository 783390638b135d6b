package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/marvelguide/core/internal/domain/entities"
	"github.com/marvelguide/core/internal/ports"
)

const defaultFileMode fs.FileMode = 0644

// MovieFileRepository implements the MovieRepository interface on top of a
// single JSON file holding an array of movie records.
type MovieFileRepository struct {
	path string

	// writeMu serializes read-modify-write cycles. Plain reads never take it:
	// saves replace the file by rename, so a reader sees a whole file.
	writeMu sync.Mutex
}

// NewMovieRepository creates a new movie repository backed by the file at path
func NewMovieRepository(path string) ports.MovieRepository {
	return &MovieFileRepository{path: path}
}

// Path returns the data file location
func (r *MovieFileRepository) Path() string {
	return r.path
}

// Load reads and decodes the full record array, keeping file order.
func (r *MovieFileRepository) Load(ctx context.Context) ([]entities.Movie, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("read movies file: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var movies []entities.Movie
	if err := dec.Decode(&movies); err != nil {
		return nil, fmt.Errorf("decode movies file %s: %w", r.path, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("decode movies file %s: unexpected data after array", r.path)
	}

	if movies == nil {
		movies = []entities.Movie{}
	}

	return movies, nil
}

// Save overwrites the data file with the full record array.
func (r *MovieFileRepository) Save(ctx context.Context, movies []entities.Movie) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if movies == nil {
		movies = []entities.Movie{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(movies); err != nil {
		return fmt.Errorf("encode movies: %w", err)
	}

	if err := writeFileAtomic(r.path, buf.Bytes()); err != nil {
		return fmt.Errorf("write movies file: %w", err)
	}

	return nil
}

// UpdateWatched sets the watched flag on the first record with the given id
// and writes the collection back. It reports whether a record matched.
func (r *MovieFileRepository) UpdateWatched(ctx context.Context, id int, watched bool, skipUnmatched bool) (bool, error) {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	movies, err := r.Load(ctx)
	if err != nil {
		return false, err
	}

	matched := entities.MarkWatched(movies, id, watched)
	if !matched && skipUnmatched {
		return false, nil
	}

	if err := r.Save(ctx, movies); err != nil {
		return matched, err
	}

	return matched, nil
}

// writeFileAtomic writes data to a temp file next to path and renames it into
// place, keeping the mode of the file it replaces.
func writeFileAtomic(path string, data []byte) (err error) {
	mode := defaultFileMode
	if info, statErr := os.Stat(path); statErr == nil {
		mode = info.Mode().Perm()
	} else if !errors.Is(statErr, fs.ErrNotExist) {
		return statErr
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return err
	}
	if err = tmp.Chmod(mode); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}
