package storage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d, 'I', 'H', 'D', 'R'}

func TestAttachmentStorage_SavePNG(t *testing.T) {
	root := t.TempDir()
	s, err := NewAttachmentStorage(root, 1)
	require.NoError(t, err)
	chatID := uuid.New()

	content := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{1}, 500)...)
	file, err := s.Save(context.Background(), chatID, "../my photo.png", bytes.NewReader(content))

	require.NoError(t, err)
	assert.Equal(t, "image/png", file.MIME)
	assert.Equal(t, int64(len(content)), file.Size)
	assert.True(t, strings.HasPrefix(file.Path, chatID.String()+"/"))
	assert.True(t, strings.HasSuffix(file.Path, "_my_photo.png"))

	stored, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(file.Path)))
	require.NoError(t, err)
	assert.Equal(t, content, stored)

	require.NoError(t, s.Delete(context.Background(), file.Path))
	_, err = os.Stat(filepath.Join(root, filepath.FromSlash(file.Path)))
	assert.True(t, os.IsNotExist(err))
}

func TestAttachmentStorage_SavePDF(t *testing.T) {
	s, err := NewAttachmentStorage(t.TempDir(), 1)
	require.NoError(t, err)

	file, err := s.Save(context.Background(), uuid.New(), "invoice.pdf", strings.NewReader("%PDF-1.7\n%âãÏÓ\n1 0 obj\n"))

	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.MIME)
}

func TestAttachmentStorage_RejectsUnknownType(t *testing.T) {
	s, err := NewAttachmentStorage(t.TempDir(), 1)
	require.NoError(t, err)

	_, err = s.Save(context.Background(), uuid.New(), "notes.png", strings.NewReader("just some plain text"))
	assert.ErrorIs(t, err, ErrUnsupportedType)

	_, err = s.Save(context.Background(), uuid.New(), "empty.png", bytes.NewReader(nil))
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestAttachmentStorage_RejectsTooLarge(t *testing.T) {
	root := t.TempDir()
	s, err := NewAttachmentStorage(root, 1)
	require.NoError(t, err)
	chatID := uuid.New()

	content := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{1}, 1024*1024)...)
	_, err = s.Save(context.Background(), chatID, "big.png", bytes.NewReader(content))

	assert.ErrorIs(t, err, ErrFileTooLarge)
	entries, _ := os.ReadDir(filepath.Join(root, chatID.String()))
	assert.Empty(t, entries)
}

func TestAttachmentStorage_CancelledContext(t *testing.T) {
	s, err := NewAttachmentStorage(t.TempDir(), 1)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = s.Save(ctx, uuid.New(), "a.png", bytes.NewReader(pngHeader))
	assert.ErrorIs(t, err, context.Canceled)
}
