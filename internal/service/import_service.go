package service

import (
	"alcyxob/triplan/internal/csvimport"
	"alcyxob/triplan/internal/domain"
	"alcyxob/triplan/internal/pkg/logger"
	"alcyxob/triplan/internal/repository"
	"alcyxob/triplan/internal/storage"
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxUploadBytes caps the size of an accepted CSV file.
const MaxUploadBytes = 5 << 20

var (
	ErrImportNotFound         = errors.New("import not found")
	ErrImportAlreadyCommitted = errors.New("import already committed")
	ErrImportInProgress       = errors.New("import commit in progress")
)

type ImportService interface {
	Upload(ctx context.Context, userID primitive.ObjectID, fileName string, raw []byte) (*domain.ImportJob, error)
	// SetMapping stores the mapping and returns the preview rows.
	SetMapping(ctx context.Context, userID, jobID primitive.ObjectID, mapping domain.ColumnMapping) ([]domain.Workout, error)
	Preview(ctx context.Context, userID, jobID primitive.ObjectID) ([]domain.Workout, error)
	// Commit inserts every row that passes csvimport.Keep and returns how many were stored.
	// A job is committed at most once; a concurrent or repeated call gets
	// ErrImportInProgress or ErrImportAlreadyCommitted and writes nothing.
	Commit(ctx context.Context, userID, jobID primitive.ObjectID) (int, error)
	SourceURL(ctx context.Context, userID, jobID primitive.ObjectID) (string, error)
	Template() string
}

type importService struct {
	log        *logger.Logger
	importRepo repository.ImportRepository
	workouts   WorkoutService
	files      storage.FileStorage
}

func NewImportService(importRepo repository.ImportRepository, workouts WorkoutService, files storage.FileStorage, log *logger.Logger) ImportService {
	return &importService{
		log:        log.With("service", "ImportService"),
		importRepo: importRepo,
		workouts:   workouts,
		files:      files,
	}
}

func (s *importService) Upload(ctx context.Context, userID primitive.ObjectID, fileName string, raw []byte) (*domain.ImportJob, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	var p problems
	if len(raw) > MaxUploadBytes {
		p.add("file", "must be at most %d bytes", MaxUploadBytes)
	}
	if ext := strings.ToLower(path.Ext(fileName)); ext != ".csv" {
		p.add("file", "must be a .csv file")
	}
	if err := p.err(); err != nil {
		return nil, err
	}

	up, err := csvimport.ParseUpload(string(raw))
	if err != nil {
		return nil, &ValidationError{Problems: []FieldProblem{{Field: "file", Message: err.Error()}}}
	}

	objectKey := fmt.Sprintf("imports/%s/%s.csv", userID.Hex(), uuid.NewString())
	if err := s.files.PutObject(ctx, objectKey, "text/csv", bytes.NewReader(raw), int64(len(raw))); err != nil {
		return nil, persistErr("archive", "import", primitive.NilObjectID, err)
	}

	job := &domain.ImportJob{
		UserID:      userID,
		FileName:    path.Base(fileName),
		S3ObjectKey: objectKey,
		Size:        int64(len(raw)),
		Headers:     up.Headers,
		Rows:        up.Rows,
		Status:      domain.ImportUploaded,
	}
	id, err := s.importRepo.Create(ctx, job)
	if err != nil {
		// The job is the only reference to the archived file.
		if delErr := s.files.DeleteObject(ctx, objectKey); delErr != nil {
			s.log.Warn("failed to remove orphaned upload", "key", objectKey, "error", delErr)
		}
		return nil, persistErr("create", "import", primitive.NilObjectID, err)
	}
	job.ID = id
	s.log.Info("csv uploaded", "user_id", userID.Hex(), "import_id", id.Hex(), "rows", len(up.Rows))
	return job, nil
}

func (s *importService) SetMapping(ctx context.Context, userID, jobID primitive.ObjectID, mapping domain.ColumnMapping) ([]domain.Workout, error) {
	job, err := s.load(ctx, userID, jobID)
	if err != nil {
		return nil, err
	}
	if err := statusErr(job.Status); err != nil {
		return nil, err
	}
	preview, err := uploadOf(job).Preview(mapping)
	if err != nil {
		return nil, err
	}
	if err := s.importRepo.SetMapping(ctx, userID, jobID, mapping); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, s.lostRace(ctx, userID, jobID)
		}
		return nil, importRepoErr("set mapping", jobID, err)
	}
	return preview, nil
}

func (s *importService) Preview(ctx context.Context, userID, jobID primitive.ObjectID) ([]domain.Workout, error) {
	job, err := s.load(ctx, userID, jobID)
	if err != nil {
		return nil, err
	}
	return uploadOf(job).Preview(mappingOf(job))
}

func (s *importService) Commit(ctx context.Context, userID, jobID primitive.ObjectID) (int, error) {
	job, err := s.load(ctx, userID, jobID)
	if err != nil {
		return 0, err
	}
	if err := statusErr(job.Status); err != nil {
		return 0, err
	}
	// Checked before claiming so an unmapped job reports its missing fields.
	if _, err := uploadOf(job).Transform(mappingOf(job)); err != nil {
		return 0, err
	}

	claimed, err := s.importRepo.ClaimCommit(ctx, userID, jobID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, s.lostRace(ctx, userID, jobID)
		}
		return 0, importRepoErr("claim", jobID, err)
	}
	rows, err := uploadOf(claimed).Transform(mappingOf(claimed))
	if err != nil {
		s.release(ctx, userID, jobID)
		return 0, err
	}
	for i := range rows {
		rows[i].ImportID = &jobID
	}

	created, err := s.workouts.BulkCreate(ctx, userID, rows)
	if err != nil {
		// An ordered insert may have written a prefix before failing.
		n, delErr := s.workouts.DeleteImported(ctx, userID, jobID)
		if delErr != nil {
			s.log.Error("failed to roll back partial import, job stays committing", "import_id", jobID.Hex(), "error", delErr)
			return 0, err
		}
		if n > 0 {
			s.log.Warn("rolled back partial import", "import_id", jobID.Hex(), "removed", n)
		}
		s.release(ctx, userID, jobID)
		return 0, err
	}
	if err := s.importRepo.MarkCommitted(ctx, userID, jobID, len(created)); err != nil {
		// The rows are stored and the job stays committing, so a retry cannot insert them again.
		s.log.Error("import rows stored but job not marked committed", "import_id", jobID.Hex(), "rows", len(created), "error", err)
		return 0, importRepoErr("mark committed", jobID, err)
	}
	s.log.Info("import committed", "user_id", userID.Hex(), "import_id", jobID.Hex(), "rows", len(created))
	return len(created), nil
}

func (s *importService) SourceURL(ctx context.Context, userID, jobID primitive.ObjectID) (string, error) {
	job, err := s.load(ctx, userID, jobID)
	if err != nil {
		return "", err
	}
	url, err := s.files.GeneratePresignedDownloadURL(ctx, job.S3ObjectKey, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return "", persistErr("presign", "import", jobID, err)
	}
	return url, nil
}

func (s *importService) Template() string { return csvimport.Template }

func (s *importService) load(ctx context.Context, userID, jobID primitive.ObjectID) (*domain.ImportJob, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	job, err := s.importRepo.GetByID(ctx, userID, jobID)
	if err != nil {
		return nil, importRepoErr("get", jobID, err)
	}
	return job, nil
}

func (s *importService) release(ctx context.Context, userID, jobID primitive.ObjectID) {
	if err := s.importRepo.ReleaseCommit(ctx, userID, jobID); err != nil {
		s.log.Error("failed to release import claim", "import_id", jobID.Hex(), "error", err)
	}
}

// lostRace explains a conditional update that matched nothing: either the job
// is gone or another request moved it on.
func (s *importService) lostRace(ctx context.Context, userID, jobID primitive.ObjectID) error {
	job, err := s.load(ctx, userID, jobID)
	if err != nil {
		return err
	}
	if err := statusErr(job.Status); err != nil {
		return err
	}
	return ErrImportInProgress
}

func statusErr(status domain.ImportStatus) error {
	switch status {
	case domain.ImportCommitting:
		return ErrImportInProgress
	case domain.ImportCommitted:
		return ErrImportAlreadyCommitted
	}
	return nil
}

func uploadOf(job *domain.ImportJob) *csvimport.Upload {
	return &csvimport.Upload{Headers: job.Headers, Rows: job.Rows}
}

// An unmapped job checks as a mapping with every field missing.
func mappingOf(job *domain.ImportJob) domain.ColumnMapping {
	if job.Mapping == nil {
		return domain.ColumnMapping{}
	}
	return *job.Mapping
}

func importRepoErr(op string, jobID primitive.ObjectID, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrImportNotFound
	}
	return persistErr(op, "import", jobID, err)
}
