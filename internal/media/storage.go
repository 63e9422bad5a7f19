// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package media stores uploaded files on disk. Uploads are sniffed for their
// real content type, routed into a folder, renamed to a random UUID and, for
// raster images, normalized and thumbnailed.
package media

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/olegiv/sitecms-go/internal/imaging"
	"github.com/olegiv/sitecms-go/internal/model"
	"github.com/olegiv/sitecms-go/internal/util"
)

var (
	// ErrTooLarge is returned when an upload exceeds the configured size limit.
	ErrTooLarge = errors.New("file too large")
	// ErrUnsupportedType is returned when the sniffed content type is not allowed.
	ErrUnsupportedType = errors.New("file type not allowed")
	// ErrInvalidFolder is returned for an unknown target folder.
	ErrInvalidFolder = errors.New("invalid media folder")
	// ErrEmptyFile is returned for zero-byte uploads.
	ErrEmptyFile = errors.New("file is empty")
)

const thumbsDir = "thumbs"

// Storage writes uploads below a root directory served at baseURL.
type Storage struct {
	root    string
	baseURL string
	maxSize int64
}

// NewStorage creates a storage rooted at dir. baseURL is the public prefix the
// directory is served under, e.g. "/uploads".
func NewStorage(dir, baseURL string, maxSize int64) *Storage {
	return &Storage{
		root:    dir,
		baseURL: strings.TrimRight(baseURL, "/"),
		maxSize: maxSize,
	}
}

// Root returns the storage directory.
func (s *Storage) Root() string { return s.root }

// MaxSize returns the upload size limit in bytes.
func (s *Storage) MaxSize() int64 { return s.maxSize }

// Stored describes a file written by Save.
type Stored struct {
	Filename     string // generated name on disk
	OriginalName string
	MimeType     string
	Size         int64
	Folder       string
	Path         string // relative to the storage root, slash separated
	URL          string
	ThumbnailURL string
	Width        int
	Height       int
}

// Save reads an upload, validates it and writes it to disk. folder may be
// empty to route by content type.
func (s *Storage) Save(r io.Reader, originalName, folder string) (*Stored, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	if int64(len(data)) > s.maxSize {
		return nil, ErrTooLarge
	}
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}

	detected := mimetype.Detect(data)
	mimeType, _, _ := strings.Cut(detected.String(), ";")
	if !model.IsSupportedMimeType(mimeType) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, mimeType)
	}

	if folder == "" {
		folder = model.FolderFor(mimeType)
	}
	if !model.IsMediaFolder(folder) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFolder, folder)
	}

	name, err := util.SanitizeFilename(originalName)
	if err != nil {
		name = "upload" + detected.Extension()
	}

	stem := uuid.NewString()
	out := &Stored{
		OriginalName: name,
		MimeType:     mimeType,
		Folder:       folder,
	}

	var thumb *imaging.Image
	ext := detected.Extension()
	if model.IsRasterImage(mimeType) {
		res, err := imaging.Process(data, model.ThumbnailSize)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedType, err)
		}
		data = res.Original.Data
		ext = res.Original.Ext
		out.MimeType = res.Original.MimeType
		out.Width = res.Original.Width
		out.Height = res.Original.Height
		thumb = res.Thumbnail
	}

	out.Filename = stem + ext
	out.Size = int64(len(data))
	out.Path = path.Join(folder, out.Filename)
	if err := s.write(out.Path, data); err != nil {
		return nil, err
	}
	out.URL = s.url(out.Path)

	if thumb != nil {
		thumbPath := path.Join(folder, thumbsDir, stem+thumb.Ext)
		if err := s.write(thumbPath, thumb.Data); err != nil {
			_ = s.Delete(out.Path)
			return nil, err
		}
		out.ThumbnailURL = s.url(thumbPath)
	} else if model.IsRasterImage(out.MimeType) {
		out.ThumbnailURL = out.URL
	}

	return out, nil
}

// write stores data at rel through a temp file and rename so readers never
// see a partial file.
func (s *Storage) write(rel string, data []byte) error {
	full, err := util.SafeJoinPath(s.root, filepath.FromSlash(rel))
	if err != nil {
		return err
	}
	dir := filepath.Dir(full)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating media directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := io.Copy(tmp, bytes.NewReader(data)); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing media file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing media file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("writing media file: %w", err)
	}
	if err := os.Rename(tmp.Name(), full); err != nil {
		return fmt.Errorf("writing media file: %w", err)
	}
	return nil
}

func (s *Storage) url(rel string) string {
	return s.baseURL + "/" + rel
}

// Delete removes a stored file and its thumbnail. Missing files are ignored.
func (s *Storage) Delete(rel string) error {
	full, err := util.SafeJoinPath(s.root, filepath.FromSlash(rel))
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("deleting media file: %w", err)
	}

	stem := strings.TrimSuffix(filepath.Base(full), filepath.Ext(full))
	if stem == "" {
		return nil
	}
	thumbs, _ := filepath.Glob(filepath.Join(filepath.Dir(full), thumbsDir, stem+".*"))
	for _, t := range thumbs {
		if err := os.Remove(t); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("deleting thumbnail: %w", err)
		}
	}
	return nil
}
