package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileStorage keeps uploaded files addressable by a storage-relative name.
type FileStorage interface {
	UploadFileFromReader(src io.Reader, fileName string) (string, error)
	DownloadFile(name string) (io.ReadCloser, error)
	DeleteFile(name string) error
	FileExists(name string) (bool, error)
	DeleteOlderThan(age time.Duration) (int, error)
}

type LocalFileStorage struct {
	uploadPath string
}

func NewLocalFileStorage(uploadPath string) *LocalFileStorage {
	return &LocalFileStorage{uploadPath: uploadPath}
}

func (s *LocalFileStorage) resolve(name string) (string, error) {
	clean := filepath.Clean("/" + name)
	if strings.Contains(name, "..") {
		return "", fmt.Errorf("invalid file name %q", name)
	}
	return filepath.Join(s.uploadPath, clean), nil
}

// UploadFileFromReader copies src into storage and returns the stored name.
func (s *LocalFileStorage) UploadFileFromReader(src io.Reader, fileName string) (string, error) {
	if err := EnsureDirectoryExists(s.uploadPath); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}
	filePath, err := s.resolve(fileName)
	if err != nil {
		return "", err
	}

	dst, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(filePath)
		return "", fmt.Errorf("failed to copy file content: %w", err)
	}

	return fileName, nil
}

// DownloadFile opens a stored file for reading
func (s *LocalFileStorage) DownloadFile(name string) (io.ReadCloser, error) {
	fullPath, err := s.resolve(name)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

// DeleteFile removes a file from storage. Missing files are not an error.
func (s *LocalFileStorage) DeleteFile(name string) error {
	fullPath, err := s.resolve(name)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// FileExists checks if a file exists in storage
func (s *LocalFileStorage) FileExists(name string) (bool, error) {
	fullPath, err := s.resolve(name)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check file existence: %w", err)
	}
	return true, nil
}

// DeleteOlderThan removes regular files last modified more than age ago.
func (s *LocalFileStorage) DeleteOlderThan(age time.Duration) (int, error) {
	entries, err := os.ReadDir(s.uploadPath)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("error reading upload directory: %w", err)
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if time.Since(info.ModTime()) <= age {
			continue
		}
		if err := os.Remove(filepath.Join(s.uploadPath, entry.Name())); err != nil {
			return removed, fmt.Errorf("error deleting expired file %s: %w", entry.Name(), err)
		}
		removed++
	}
	return removed, nil
}
