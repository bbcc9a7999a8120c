package local

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/ogurasousui/codex-staff-registry/internal/core/staff"
	"github.com/sirupsen/logrus"
)

// DefaultMaxPhotoBytes は写真 1 枚あたりの既定の上限サイズです。
const DefaultMaxPhotoBytes int64 = 5 << 20

const sniffLength = 512

// PhotoStore はローカルファイルシステムに職員写真を保存します。
// キーは "<uuid><拡張子>" で、パス区切り文字を含みません。
type PhotoStore struct {
	baseDir  string
	maxBytes int64
	logger   logrus.FieldLogger
}

// NewPhotoStore は baseDir を作成し PhotoStore を返します。maxBytes が 0 以下の場合は既定値を使います。
func NewPhotoStore(baseDir string, maxBytes int64, logger logrus.FieldLogger) (*PhotoStore, error) {
	if strings.TrimSpace(baseDir) == "" {
		return nil, errors.New("local: base directory is required")
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxPhotoBytes
	}
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}

	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("local: create photo directory %s: %w", baseDir, err)
	}

	return &PhotoStore{baseDir: baseDir, maxBytes: maxBytes, logger: logger}, nil
}

// Save は写真を保存し、保存先のキーを返します。キーの拡張子は内容から判定した形式に合わせます。
// 画像以外のコンテンツは staff.ErrUnsupportedPhotoType、上限超過は staff.ErrPhotoTooLarge になります。
func (s *PhotoStore) Save(ctx context.Context, photo staff.Photo) (string, error) {
	if photo.Content == nil {
		return "", fmt.Errorf("local: empty photo: %w", staff.ErrUnsupportedPhotoType)
	}
	if photo.Size > s.maxBytes {
		return "", staff.ErrPhotoTooLarge
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	reader := bufio.NewReaderSize(photo.Content, sniffLength)
	head, err := reader.Peek(sniffLength)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return "", fmt.Errorf("local: read photo: %w", err)
	}

	// 申告された Content-Type は信用せず、先頭バイトから判定した形式で保存する。
	contentType := http.DetectContentType(head)
	ext, ok := staff.PhotoExtension(contentType)
	if !ok {
		return "", fmt.Errorf("local: content type %q: %w", contentType, staff.ErrUnsupportedPhotoType)
	}

	key := uuid.New().String() + ext
	path := filepath.Join(s.baseDir, key)

	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("local: create %s: %w", key, err)
	}

	written, copyErr := io.Copy(dst, io.LimitReader(reader, s.maxBytes+1))
	closeErr := dst.Close()

	switch {
	case copyErr != nil:
		_ = os.Remove(path)
		return "", fmt.Errorf("local: write %s: %w", key, copyErr)
	case closeErr != nil:
		_ = os.Remove(path)
		return "", fmt.Errorf("local: close %s: %w", key, closeErr)
	case written > s.maxBytes:
		_ = os.Remove(path)
		return "", staff.ErrPhotoTooLarge
	}

	s.logger.WithFields(logrus.Fields{
		"photo_key": key,
		"filename":  photo.Filename,
		"bytes":     written,
	}).Debug("photo saved")

	return key, nil
}

// Open は保存済みの写真を開きます。存在しない場合は staff.ErrPhotoNotFound を返します。
func (s *PhotoStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	path, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, staff.ErrPhotoNotFound
		}
		return nil, fmt.Errorf("local: open %s: %w", key, err)
	}
	return f, nil
}

// Delete は写真を削除します。存在しないキーの削除は成功扱いです。
func (s *PhotoStore) Delete(_ context.Context, key string) error {
	if key == "" {
		return nil
	}

	path, err := s.resolve(key)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("local: delete %s: %w", key, err)
	}
	return nil
}

func (s *PhotoStore) resolve(key string) (string, error) {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) {
		return "", fmt.Errorf("local: invalid key %q: %w", key, staff.ErrPhotoNotFound)
	}
	return filepath.Join(s.baseDir, key), nil
}
