package services

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	apperrors "market/errors"
	"market/services/logger"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

const (
	maxImageSize  = 5 << 20
	maxImageFiles = 10
)

// ImageStore stores an image and returns its public URL.
type ImageStore interface {
	Upload(ctx context.Context, file io.Reader, name string) (string, error)
}

// CloudinaryStore uploads into one Cloudinary folder.
type CloudinaryStore struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryStore(cld *cloudinary.Cloudinary, folder string) *CloudinaryStore {
	return &CloudinaryStore{cld: cld, folder: folder}
}

func (s *CloudinaryStore) Upload(ctx context.Context, file io.Reader, _ string) (string, error) {
	resp, err := s.cld.Upload.Upload(ctx, file, uploader.UploadParams{Folder: s.folder})
	if err != nil {
		return "", err
	}
	if resp.Error.Message != "" {
		return "", fmt.Errorf("cloudinary: %s", resp.Error.Message)
	}
	return resp.SecureURL, nil
}

type UploadService struct {
	store  ImageStore
	logger logger.Logger
}

// NewUploadService accepts a nil store; uploads then fail with 502.
func NewUploadService(store ImageStore, log logger.Logger) *UploadService {
	return &UploadService{store: store, logger: log}
}

// UploadImages checks every file is an image under 5MB, then uploads them in
// order and returns the URLs.
func (s *UploadService) UploadImages(ctx context.Context, files []*multipart.FileHeader) ([]string, error) {
	if len(files) == 0 {
		return nil, apperrors.NewValidationError(map[string]string{"files": "no file"})
	}
	if len(files) > maxImageFiles {
		return nil, apperrors.NewValidationError(map[string]string{"files": fmt.Sprintf("at most %d files", maxImageFiles)})
	}
	if s.store == nil {
		return nil, apperrors.NewAppError(apperrors.ErrCodeUpload, "Image storage is not configured", nil)
	}
	for _, fh := range files {
		if fh.Size > maxImageSize {
			return nil, apperrors.NewValidationError(map[string]string{"files": fh.Filename + " is larger than 5MB"})
		}
	}

	urls := make([]string, 0, len(files))
	for _, fh := range files {
		url, err := s.uploadOne(ctx, fh)
		if err != nil {
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func (s *UploadService) uploadOne(ctx context.Context, fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", apperrors.NewValidationError(map[string]string{"files": "cannot open " + fh.Filename})
	}
	defer src.Close()

	head := make([]byte, 512)
	n, _ := io.ReadFull(src, head)
	if !strings.HasPrefix(http.DetectContentType(head[:n]), "image/") {
		return "", apperrors.NewValidationError(map[string]string{"files": fh.Filename + " is not an image"})
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", apperrors.NewAppError(apperrors.ErrCodeUpload, "Upload failed", err)
	}

	url, err := s.store.Upload(ctx, src, fh.Filename)
	if err != nil {
		s.logger.Error("❌ upload %s: %v", fh.Filename, err)
		return "", apperrors.NewAppError(apperrors.ErrCodeUpload, "Upload failed", err)
	}
	return url, nil
}
