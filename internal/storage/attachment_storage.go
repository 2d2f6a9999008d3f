package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/h2non/filetype"
)

// Заголовка такой длины filetype хватает для определения типа.
const sniffLen = 261

var (
	ErrFileTooLarge    = errors.New("storage: file too large")
	ErrUnsupportedType = errors.New("storage: unsupported file type")
	ErrEmptyFile       = errors.New("storage: empty file")
)

// Разрешённые типы вложений по содержимому файла.
var allowedMIME = map[string]struct{}{
	"image/jpeg":      {},
	"image/png":       {},
	"image/gif":       {},
	"image/webp":      {},
	"application/pdf": {},
}

// StoredFile сохранённое вложение.
type StoredFile struct {
	Path string `json:"path"`
	Size int64  `json:"size"`
	MIME string `json:"mime"`
}

// AttachmentStorage хранит вложения чатов на локальном диске.
type AttachmentStorage struct {
	rootPath       string
	maxUploadBytes int64
}

// NewAttachmentStorage создаёт файловое хранилище.
func NewAttachmentStorage(rootPath string, maxUploadMB int64) (*AttachmentStorage, error) {
	if err := os.MkdirAll(rootPath, 0o755); err != nil {
		return nil, fmt.Errorf("storage: не удалось создать каталог %s: %w", rootPath, err)
	}

	return &AttachmentStorage{
		rootPath:       rootPath,
		maxUploadBytes: maxUploadMB * 1024 * 1024,
	}, nil
}

// Root каталог, из которого файлы раздаются статикой.
func (s *AttachmentStorage) Root() string {
	return s.rootPath
}

// Save проверяет тип по содержимому и сохраняет файл в каталог чата.
// Путь в результате относительный, с прямыми слэшами.
func (s *AttachmentStorage) Save(ctx context.Context, chatID uuid.UUID, originalName string, r io.Reader) (*StoredFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("storage: ошибка чтения файла: %w", err)
	}
	if n == 0 {
		return nil, ErrEmptyFile
	}
	head = head[:n]

	kind, err := filetype.Match(head)
	if err != nil || kind == filetype.Unknown {
		return nil, ErrUnsupportedType
	}
	if _, ok := allowedMIME[kind.MIME.Value]; !ok {
		return nil, ErrUnsupportedType
	}

	chatDir := filepath.Join(s.rootPath, chatID.String())
	if err := os.MkdirAll(chatDir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: не удалось создать каталог чата: %w", err)
	}

	base := strings.TrimSuffix(sanitizeFilename(originalName), filepath.Ext(originalName))
	fileName := fmt.Sprintf("%d_%s.%s", time.Now().UnixNano(), base, kind.Extension)
	targetPath := filepath.Join(chatDir, fileName)
	tempPath := targetPath + ".tmp"

	f, err := os.Create(tempPath)
	if err != nil {
		return nil, fmt.Errorf("storage: не удалось создать файл: %w", err)
	}
	defer f.Close()

	limited := io.LimitedReader{R: io.MultiReader(bytes.NewReader(head), r), N: s.maxUploadBytes + 1}
	written, err := io.Copy(f, &limited)
	if err != nil {
		_ = os.Remove(tempPath)
		return nil, fmt.Errorf("storage: ошибка записи файла: %w", err)
	}

	if written > s.maxUploadBytes {
		_ = os.Remove(tempPath)
		return nil, ErrFileTooLarge
	}

	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("storage: ошибка закрытия файла: %w", err)
	}

	if err := os.Rename(tempPath, targetPath); err != nil {
		return nil, fmt.Errorf("storage: не удалось переименовать файл: %w", err)
	}

	return &StoredFile{
		Path: chatID.String() + "/" + fileName,
		Size: written,
		MIME: kind.MIME.Value,
	}, nil
}

// Delete удаляет файл из хранилища.
func (s *AttachmentStorage) Delete(ctx context.Context, relativePath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	target := filepath.Join(s.rootPath, filepath.Clean("/"+relativePath))
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: не удалось удалить файл: %w", err)
	}
	return nil
}

// sanitizeFilename удаляет потенциально опасные символы.
func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "..", "")
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, " ", "_")
	if name == "" || name == "." {
		name = "file"
	}
	return name
}
