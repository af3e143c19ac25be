package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidType = errors.New("file type not allowed")
var ErrTooLarge = errors.New("file too large")

const MaxFileSize = 5 << 20 // 5 MB

// allowedTypes mirrors what the frontend offers for the id photo.
// image/jpg is not a registered MIME type but some clients send it anyway.
var allowedTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/jpg":  {},
}

// Store writes accepted id photos into a single directory and hands back
// the relative path recorded on the registration.
type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) Dir() string {
	return s.dir
}

// Save validates and persists one uploaded file. The returned path is
// relative (e.g. "uploads/photo-1712345678901-3f2a.jpg") so it can be served
// under the static prefix as-is.
func (s *Store) Save(fh *multipart.FileHeader) (string, error) {
	if fh.Size > MaxFileSize {
		return "", ErrTooLarge
	}

	if err := checkType(fh); err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	name := uniqueName(fh.Filename)
	dst := filepath.Join(s.dir, name)

	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}

	// cap the copy too, Size comes from the client
	_, err = io.Copy(out, io.LimitReader(src, MaxFileSize+1))

	if cerr := out.Close(); err == nil {
		err = cerr
	}

	if err != nil {
		_ = os.Remove(dst)
		return "", err
	}

	if fi, statErr := os.Stat(dst); statErr == nil && fi.Size() > MaxFileSize {
		_ = os.Remove(dst)
		return "", ErrTooLarge
	}

	return filepath.ToSlash(filepath.Join(filepath.Base(s.dir), name)), nil
}

func checkType(fh *multipart.FileHeader) error {
	ct := strings.ToLower(strings.TrimSpace(fh.Header.Get("Content-Type")))

	if i := strings.Index(ct, ";"); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}

	if ct == "" || ct == "application/octet-stream" {
		// sniff when the client sent nothing useful
		sniffed, err := sniffType(fh)
		if err != nil {
			return err
		}
		ct = sniffed
	}

	if _, ok := allowedTypes[ct]; !ok {
		return ErrInvalidType
	}

	return nil
}

func sniffType(fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	buf := make([]byte, 512)
	n, err := f.Read(buf)

	if err != nil && err != io.EOF {
		return "", err
	}

	return http.DetectContentType(buf[:n]), nil
}

// uniqueName keeps the original extension and base, adding a millisecond
// timestamp and a uuid fragment. Best-effort uniqueness, good enough for
// the expected upload rate.
func uniqueName(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	base := strings.TrimSuffix(filepath.Base(original), filepath.Ext(original))
	base = sanitizeBase(base)

	if base == "" {
		base = "idPhoto"
	}

	frag := uuid.NewString()[:8]

	return fmt.Sprintf("%s-%d-%s%s", base, time.Now().UnixMilli(), frag, ext)
}

func sanitizeBase(base string) string {
	var b strings.Builder

	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	return strings.Trim(b.String(), "_")
}
