package services

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"video2quiz/internal/config"
)

// StorageService persists uploaded media and hands back a stable
// reference the pipeline can address the content by.
type StorageService interface {
	SaveUpload(ctx context.Context, file multipart.File, header *multipart.FileHeader) (*StoredFile, error)
}

// StoredFile describes one persisted upload.
type StoredFile struct {
	// Ref is the stable reference passed to the transcription stage:
	// a filesystem path for local storage, a presigned URL for MinIO.
	Ref        string    `json:"ref"`
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// LocalStorageService stores uploads on the local filesystem, one file
// per job under the upload directory.
type LocalStorageService struct {
	dir string
}

// NewLocalStorageService creates the upload directory if needed.
func NewLocalStorageService(dir string) (*LocalStorageService, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalStorageService{dir: dir}, nil
}

func (s *LocalStorageService) SaveUpload(ctx context.Context, file multipart.File, header *multipart.FileHeader) (*StoredFile, error) {
	ext := filepath.Ext(header.Filename)
	if ext == "" {
		ext = ".mp4"
	}
	path := filepath.Join(s.dir, uuid.New().String()+ext)

	dst, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create upload file: %w", err)
	}
	defer dst.Close()

	size, err := io.Copy(dst, file)
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("failed to write upload: %w", err)
	}

	return &StoredFile{
		Ref:        path,
		Name:       header.Filename,
		Size:       size,
		UploadedAt: time.Now(),
	}, nil
}

// MinioStorageService stores uploads in a MinIO bucket and references
// them by presigned GET URL so remote stage services can fetch them.
type MinioStorageService struct {
	client *minio.Client
	bucket string
}

// NewMinioStorageService connects using the MinIO settings from env
// and ensures the bucket exists.
func NewMinioStorageService(env *config.Env) (*MinioStorageService, error) {
	client, err := minio.New(env.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(env.MinioAccessKey, env.MinioSecretKey, ""),
		Secure: env.MinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, env.MinioBucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, env.MinioBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &MinioStorageService{client: client, bucket: env.MinioBucket}, nil
}

func (s *MinioStorageService) SaveUpload(ctx context.Context, file multipart.File, header *multipart.FileHeader) (*StoredFile, error) {
	key := fmt.Sprintf("uploads/%s/%s", uuid.New().String(), filepath.Base(header.Filename))

	info, err := s.client.PutObject(ctx, s.bucket, key, file, header.Size, minio.PutObjectOptions{
		ContentType: header.Header.Get("Content-Type"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload to MinIO: %w", err)
	}

	// Presign for long enough to cover the slowest pipeline run.
	url, err := s.client.PresignedGetObject(ctx, s.bucket, key, 24*time.Hour, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to presign object: %w", err)
	}

	return &StoredFile{
		Ref:        url.String(),
		Name:       header.Filename,
		Size:       info.Size,
		UploadedAt: time.Now(),
	}, nil
}
