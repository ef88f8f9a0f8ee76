package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"

	"video2quiz/internal/api/v1/dto"
	"video2quiz/internal/app/pipeline"
	"video2quiz/internal/app/store"
)

// IntakeService accepts an upload, creates the job record and hands it
// to the orchestrator. It calls Start exactly once per job id.
type IntakeService interface {
	UploadAndStart(ctx context.Context, file multipart.File, header *multipart.FileHeader) (*dto.UploadJobResponse, error)
	CreateAndStart(ctx context.Context, req *dto.CreateJobRequest) (*dto.UploadJobResponse, error)
}

// ErrBusy signals the worker pool rejected the job; the upload is kept
// and the caller may retry the start later.
var ErrBusy = errors.New("processing capacity exceeded")

// IntakeServiceImpl wires storage, the job store and the orchestrator.
type IntakeServiceImpl struct {
	storage      StorageService
	store        *store.Store
	orchestrator *pipeline.Orchestrator
}

// NewIntakeService creates a new intake service.
func NewIntakeService(storage StorageService, jobStore *store.Store, orchestrator *pipeline.Orchestrator) *IntakeServiceImpl {
	return &IntakeServiceImpl{
		storage:      storage,
		store:        jobStore,
		orchestrator: orchestrator,
	}
}

// UploadAndStart persists the uploaded file, then creates and starts
// the job.
func (s *IntakeServiceImpl) UploadAndStart(ctx context.Context, file multipart.File, header *multipart.FileHeader) (*dto.UploadJobResponse, error) {
	stored, err := s.storage.SaveUpload(ctx, file, header)
	if err != nil {
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}
	return s.startJob(ctx, stored.Ref, stored.Name)
}

// CreateAndStart creates and starts a job for content already in
// storage.
func (s *IntakeServiceImpl) CreateAndStart(ctx context.Context, req *dto.CreateJobRequest) (*dto.UploadJobResponse, error) {
	return s.startJob(ctx, req.SourceRef, req.FileName)
}

func (s *IntakeServiceImpl) startJob(ctx context.Context, sourceRef, fileName string) (*dto.UploadJobResponse, error) {
	id, err := s.store.Create(sourceRef, fileName)
	if err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	if err := s.orchestrator.Start(ctx, id); err != nil {
		if errors.Is(err, pipeline.ErrPoolSaturated) {
			return nil, fmt.Errorf("%w: %v", ErrBusy, err)
		}
		return nil, fmt.Errorf("failed to start job %s: %w", id, err)
	}

	job, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	return &dto.UploadJobResponse{
		ID:      id,
		Message: "File uploaded successfully",
		Status:  string(job.Status),
	}, nil
}
