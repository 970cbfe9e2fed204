// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package status

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📊 FileStatus represents the outcome of processing one file
type FileStatus int

const (
	StatusUnknown   FileStatus = iota
	StatusUnchanged            // no rule changed the content
	StatusChanged              // content was rewritten
	StatusErrored              // the file could not be read, decoded or written
)

// String returns a string representation of FileStatus
func (s FileStatus) String() string {
	switch s {
	case StatusUnchanged:
		return "unchanged"
	case StatusChanged:
		return "changed"
	case StatusErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// 📄 Document is a decoded text file plus what is needed to write it back
// exactly as it was found
type Document struct {
	Path     string      // path as given to Read
	Text     string      // decoded content
	Encoding Encoding    // on-disk encoding
	Mode     os.FileMode // permissions to restore on write
	ModTime  time.Time   // modification time when read
	Checksum string      // SHA-256 of the raw bytes
}

// 💾 Manager handles all file system access for a run. Relative paths are
// resolved against its base directory.
type Manager struct {
	baseDir   string
	formatter FileFormatter
}

// 🏭 New creates a new file manager rooted at baseDir
func New(baseDir string) *Manager {
	return &Manager{
		baseDir:   filepath.Clean(baseDir),
		formatter: NewDefaultFileFormatter(),
	}
}

// BaseDir returns the directory relative paths are resolved against
func (m *Manager) BaseDir() string {
	return m.baseDir
}

// Abs returns the absolute path for a path relative to the base directory
func (m *Manager) Abs(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(m.baseDir, filepath.FromSlash(path))
}

// Exists reports whether path names a regular file
func (m *Manager) Exists(path string) bool {
	info, err := os.Stat(m.Abs(path))
	return err == nil && info.Mode().IsRegular()
}

// 🔍 Checksum returns the hex SHA-256 of data
func Checksum(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// 📖 Read loads and decodes the whole file at path
func (m *Manager) Read(ctx context.Context, path string) (*Document, error) {
	absPath := m.Abs(path)

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, errors.Errorf("stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, errors.Errorf("%s is not a regular file", path)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, errors.Errorf("reading file: %w", err)
	}

	text, enc, err := Decode(data)
	if err != nil {
		return nil, errors.Errorf("decoding %s: %w", path, err)
	}

	zerolog.Ctx(ctx).Trace().
		Str("path", path).
		Str("encoding", enc.String()).
		Int("bytes", len(data)).
		Msg("read file")

	return &Document{
		Path:     path,
		Text:     text,
		Encoding: enc,
		Mode:     info.Mode().Perm(),
		ModTime:  info.ModTime(),
		Checksum: Checksum(data),
	}, nil
}

// ✍️ Write replaces the document's file with text, encoded the way the
// document was read and with its original permissions
func (m *Manager) Write(ctx context.Context, doc *Document, text string) error {
	data, err := Encode(text, doc.Encoding)
	if err != nil {
		return errors.Errorf("encoding %s: %w", doc.Path, err)
	}

	if err := m.WriteFileAtomic(ctx, doc.Path, data, doc.Mode); err != nil {
		return err
	}

	zerolog.Ctx(ctx).Trace().
		Str("path", doc.Path).
		Str("encoding", doc.Encoding.String()).
		Str("checksum", Checksum(data)).
		Msg("wrote file")

	return nil
}

// 🔒 WriteFileAtomic writes data to a temp file in the target's directory,
// syncs it, applies mode and renames it over the target. Readers see either
// the old or the new content, never a mix.
func (m *Manager) WriteFileAtomic(ctx context.Context, path string, data []byte, mode os.FileMode) (err error) {
	absPath := m.Abs(path)
	dir := filepath.Dir(absPath)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Errorf("creating parent directories: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(absPath)+".*.tmp")
	if err != nil {
		return errors.Errorf("creating temp file: %w", err)
	}
	tempPath := tmp.Name()

	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tempPath)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return errors.Errorf("writing temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return errors.Errorf("syncing temp file: %w", err)
	}
	if err = tmp.Chmod(mode); err != nil {
		return errors.Errorf("setting file mode: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return errors.Errorf("closing temp file: %w", err)
	}
	if err = os.Rename(tempPath, absPath); err != nil {
		return errors.Errorf("renaming temp file: %w", err)
	}

	return nil
}

// 📣 Track logs the outcome of processing one file
func (m *Manager) Track(ctx context.Context, path string, st FileStatus, replacements int, err error) {
	logger := zerolog.Ctx(ctx)
	if err != nil {
		logger.Error().Err(err).Str("path", path).Msg(m.formatter.FormatError(err))
		return
	}
	logger.Debug().
		Str("path", path).
		Str("status", st.String()).
		Int("replacements", replacements).
		Msg(m.formatter.FormatFileOperation(path, st, replacements))
}

// 📈 Progress logs how many files of a batch are done
func (m *Manager) Progress(ctx context.Context, done, total int) {
	zerolog.Ctx(ctx).Debug().
		Int("processed", done).
		Int("total", total).
		Msg(m.formatter.FormatProgress(done, total))
}
