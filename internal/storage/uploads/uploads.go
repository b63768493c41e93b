// Package uploads keeps student identification images on disk. Stored files
// are served by the API under URLPrefix.
package uploads

import (
	"SmartBus/entity"
	"SmartBus/internal/lib/errs"
	"SmartBus/internal/lib/sl"
	"bytes"
	"errors"
	"fmt"
	"github.com/google/uuid"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

const URLPrefix = "/uploads/"

var allowed = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

type Store struct {
	dir     string
	maxSize int64
	log     *slog.Logger
}

func New(dir string, maxSize int64, log *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &Store{
		dir:     dir,
		maxSize: maxSize,
		log:     log.With(sl.Module("uploads")),
	}, nil
}

func (s *Store) Dir() string {
	return s.dir
}

// Save checks that upload is a JPEG or PNG image within the size limit and
// writes it under a random name. It returns the public path of the file.
func (s *Store) Save(upload *entity.Upload) (string, error) {
	if upload == nil || upload.Content == nil {
		return "", errs.Invalid("image is required")
	}
	if s.maxSize > 0 && upload.Size > s.maxSize {
		return "", errs.Invalidf("image exceeds the %d MB limit", s.maxSize>>20)
	}

	ext := strings.ToLower(filepath.Ext(upload.Filename))
	want, ok := allowed[ext]
	if !ok {
		return "", errs.Invalidf("only JPEG and PNG images are accepted")
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(upload.Content, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]
	if http.DetectContentType(head) != want {
		return "", errs.Invalidf("only JPEG and PNG images are accepted")
	}

	name := uuid.NewString() + ext
	f, err := os.OpenFile(filepath.Join(s.dir, name), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}

	reader := io.MultiReader(bytes.NewReader(head), upload.Content)
	if s.maxSize > 0 {
		reader = io.LimitReader(reader, s.maxSize+1)
	}
	written, err := io.Copy(f, reader)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err == nil && s.maxSize > 0 && written > s.maxSize {
		err = errs.Invalidf("image exceeds the %d MB limit", s.maxSize>>20)
	}
	if err != nil {
		_ = os.Remove(filepath.Join(s.dir, name))
		if errs.Is(err, errs.InvalidInput) {
			return "", err
		}
		return "", fmt.Errorf("write upload file: %w", err)
	}

	s.log.With(
		slog.String("file", name),
		slog.Int64("size", written),
	).Debug("image stored")

	return URLPrefix + name, nil
}

// Remove deletes the file behind a public path returned by Save. Missing
// files are ignored.
func (s *Store) Remove(publicPath string) error {
	if !strings.HasPrefix(publicPath, URLPrefix) {
		return nil
	}
	name := path.Base(publicPath)
	if name == "." || name == "/" {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove upload file: %w", err)
	}
	return nil
}

// FileServer serves the files under dir at URLPrefix. Directories answer
// 404 so stored names cannot be listed.
func FileServer(dir string) http.Handler {
	return http.StripPrefix(URLPrefix, http.FileServer(filesOnly{http.Dir(dir)}))
}

type filesOnly struct {
	fs http.FileSystem
}

func (f filesOnly) Open(name string) (http.File, error) {
	file, err := f.fs.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	if info.IsDir() {
		_ = file.Close()
		return nil, os.ErrNotExist
	}
	return file, nil
}
