package services

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"alfredoptarigan/hiring-agent/internal/models"
)

var (
	ErrUnsupportedResume = errors.New("resume must be a PDF document")
	ErrResumeTooLarge    = errors.New("resume exceeds the upload size limit")
)

var pdfMagic = []byte("%PDF-")

// StoredResume describes a resume written to the upload directory.
type StoredResume struct {
	Filename string
	Path     string
	Size     int64
}

type ResumeStorage interface {
	SaveResume(file *multipart.FileHeader) (StoredResume, error)
	ResumePath(filename string) string
	DeleteResume(filename string) error
	EnsureUploadDir() error
}

type resumeStorage struct {
	uploadPath  string
	maxFileSize int64
}

// NewResumeStorage keeps uploaded resumes under uploadPath. A maxFileSize of
// zero disables the size check.
func NewResumeStorage(uploadPath string, maxFileSize int64) ResumeStorage {
	return &resumeStorage{
		uploadPath:  uploadPath,
		maxFileSize: maxFileSize,
	}
}

func (s *resumeStorage) EnsureUploadDir() error {
	if err := os.MkdirAll(s.uploadPath, 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	return nil
}

// SaveResume validates an uploaded resume and copies it to storage under a
// generated name. Both the extension and the PDF header are checked.
func (s *resumeStorage) SaveResume(file *multipart.FileHeader) (StoredResume, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext != ".pdf" {
		return StoredResume{}, fmt.Errorf("%w: got %q", ErrUnsupportedResume, ext)
	}

	if s.maxFileSize > 0 && file.Size > s.maxFileSize {
		return StoredResume{}, fmt.Errorf("%w: %d bytes, limit %d", ErrResumeTooLarge, file.Size, s.maxFileSize)
	}

	src, err := file.Open()
	if err != nil {
		return StoredResume{}, fmt.Errorf("failed to open uploaded resume: %w", err)
	}
	defer src.Close()

	reader := bufio.NewReader(src)
	header, _ := reader.Peek(len(pdfMagic))
	if !bytes.Equal(header, pdfMagic) {
		return StoredResume{}, fmt.Errorf("%w: missing PDF header", ErrUnsupportedResume)
	}

	stored := StoredResume{
		Filename: fmt.Sprintf("%s_%s%s", models.FileTypeResume, uuid.New().String(), ext),
	}
	stored.Path = filepath.Join(s.uploadPath, stored.Filename)

	dst, err := os.Create(stored.Path)
	if err != nil {
		return StoredResume{}, fmt.Errorf("failed to create resume file: %w", err)
	}

	stored.Size, err = io.Copy(dst, reader)
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(stored.Path)
		return StoredResume{}, fmt.Errorf("failed to save resume: %w", err)
	}

	return stored, nil
}

// ResumePath resolves a stored name inside the upload directory. Directory
// components in filename are dropped.
func (s *resumeStorage) ResumePath(filename string) string {
	return filepath.Join(s.uploadPath, filepath.Base(filename))
}

func (s *resumeStorage) DeleteResume(filename string) error {
	if err := os.Remove(s.ResumePath(filename)); err != nil {
		return fmt.Errorf("failed to delete resume: %w", err)
	}
	return nil
}
