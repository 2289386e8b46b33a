// Package audio indexes recorded audio files by bare filename.
package audio

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

var ErrAudioNotFound = errors.New("audio not found")

var contentTypes = map[string]string{
	".mp3": "audio/mpeg",
	".m4a": "audio/mp4",
}

// IsAudioFile reports whether name has a recognized audio extension.
func IsAudioFile(name string) bool {
	_, ok := contentTypes[strings.ToLower(filepath.Ext(name))]
	return ok
}

// ContentType returns the MIME type for a recognized audio file.
func ContentType(name string) string {
	if ct, ok := contentTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return ct
	}
	return "application/octet-stream"
}

// BuildIndex walks root and maps every lowercase audio filename to its path.
// Directory structure does not matter for lookups; on duplicate names the last file walked wins.
func BuildIndex(fsys afero.Fs, root string) (map[string]string, error) {
	index := make(map[string]string)

	err := afero.Walk(fsys, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !IsAudioFile(info.Name()) {
			return nil
		}
		index[strings.ToLower(info.Name())] = path
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk audio dir %s: %w", root, err)
	}

	return index, nil
}

// Resolver serves audio bytes by logical filename. The index is built once and read-only afterwards.
type Resolver struct {
	fs    afero.Fs
	index map[string]string
}

// NewResolver scans root once. A missing root yields an empty index.
func NewResolver(fsys afero.Fs, root string) (*Resolver, error) {
	exists, err := afero.DirExists(fsys, root)
	if err != nil {
		return nil, fmt.Errorf("stat audio dir %s: %w", root, err)
	}
	if !exists {
		return &Resolver{fs: fsys, index: map[string]string{}}, nil
	}

	index, err := BuildIndex(fsys, root)
	if err != nil {
		return nil, err
	}

	return &Resolver{fs: fsys, index: index}, nil
}

// Len returns the number of indexed files.
func (r *Resolver) Len() int {
	return len(r.index)
}

// Lookup returns the indexed path for filename, ignoring case.
func (r *Resolver) Lookup(filename string) (string, bool) {
	path, ok := r.index[strings.ToLower(filename)]
	return path, ok
}

// Resolve reads the file registered under filename.
func (r *Resolver) Resolve(filename string) ([]byte, error) {
	path, ok := r.Lookup(filename)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrAudioNotFound, filename)
	}

	data, err := afero.ReadFile(r.fs, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrAudioNotFound, filename)
		}
		return nil, fmt.Errorf("read audio %s: %w", path, err)
	}

	return data, nil
}
