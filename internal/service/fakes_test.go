package service

import (
	"bytes"
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/triplan/internal/domain"
	"alcyxob/triplan/internal/editor"
	"alcyxob/triplan/internal/repository"
	"alcyxob/triplan/internal/storage"
)

type memPlanRepo struct {
	mu      sync.Mutex
	plans   map[primitive.ObjectID]domain.Plan
	creates int
	updates int
	failErr error
}

func newMemPlanRepo() *memPlanRepo {
	return &memPlanRepo{plans: map[primitive.ObjectID]domain.Plan{}}
}

func (r *memPlanRepo) Create(_ context.Context, p *domain.Plan) (*domain.Plan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failErr != nil {
		return nil, r.failErr
	}
	r.creates++
	p.ID = primitive.NewObjectID()
	p.CreatedAt = time.Now().UTC()
	p.UpdatedAt = p.CreatedAt
	r.plans[p.ID] = p.Clone()
	return p, nil
}

func (r *memPlanRepo) GetByID(_ context.Context, userID, planID primitive.ObjectID) (*domain.Plan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.plans[planID]
	if !ok || p.UserID != userID {
		return nil, repository.ErrNotFound
	}
	c := p.Clone()
	return &c, nil
}

func (r *memPlanRepo) ListByUser(_ context.Context, userID primitive.ObjectID) ([]domain.Plan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Plan{}
	for _, p := range r.plans {
		if p.UserID == userID {
			out = append(out, p.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memPlanRepo) Update(_ context.Context, userID, planID primitive.ObjectID, title string, weeks []domain.Week) (*domain.Plan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failErr != nil {
		return nil, r.failErr
	}
	p, ok := r.plans[planID]
	if !ok || p.UserID != userID {
		return nil, repository.ErrNotFound
	}
	r.updates++
	if title != "" {
		p.Title = title
	}
	if weeks != nil {
		p.Weeks = domain.CloneWeeks(weeks)
	}
	p.UpdatedAt = time.Now().UTC()
	r.plans[planID] = p
	c := p.Clone()
	return &c, nil
}

func (r *memPlanRepo) Delete(_ context.Context, userID, planID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.plans[planID]
	if !ok || p.UserID != userID {
		return repository.ErrNotFound
	}
	delete(r.plans, planID)
	return nil
}

type memWorkoutRepo struct {
	mu         sync.Mutex
	workouts   map[primitive.ObjectID]domain.Workout
	createMany int
	failErr    error
	// partialN rows are written before CreateMany returns failErr.
	partialN int
	// When set, CreateMany signals inserting and then waits for resume.
	inserting chan struct{}
	resume    chan struct{}
}

func newMemWorkoutRepo() *memWorkoutRepo {
	return &memWorkoutRepo{workouts: map[primitive.ObjectID]domain.Workout{}}
}

func (r *memWorkoutRepo) Create(_ context.Context, w *domain.Workout) (*domain.Workout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failErr != nil {
		return nil, r.failErr
	}
	w.ID = primitive.NewObjectID()
	r.workouts[w.ID] = *w
	return w, nil
}

func (r *memWorkoutRepo) CreateMany(_ context.Context, ws []domain.Workout) ([]domain.Workout, error) {
	if r.resume != nil {
		r.inserting <- struct{}{}
		<-r.resume
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failErr != nil {
		for i := 0; i < r.partialN && i < len(ws); i++ {
			w := ws[i]
			w.ID = primitive.NewObjectID()
			r.workouts[w.ID] = w
		}
		return nil, r.failErr
	}
	r.createMany++
	out := make([]domain.Workout, len(ws))
	for i, w := range ws {
		w.ID = primitive.NewObjectID()
		r.workouts[w.ID] = w
		out[i] = w
	}
	return out, nil
}

func (r *memWorkoutRepo) GetByID(_ context.Context, userID, id primitive.ObjectID) (*domain.Workout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.workouts[id]
	if !ok || w.UserID != userID {
		return nil, repository.ErrNotFound
	}
	return &w, nil
}

func (r *memWorkoutRepo) List(_ context.Context, userID primitive.ObjectID, f repository.WorkoutFilter) ([]domain.Workout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Workout{}
	for _, w := range r.workouts {
		if w.UserID != userID {
			continue
		}
		if f.From != "" && w.Date < f.From {
			continue
		}
		if f.To != "" && w.Date > f.To {
			continue
		}
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out, nil
}

func (r *memWorkoutRepo) Update(_ context.Context, w *domain.Workout) (*domain.Workout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.workouts[w.ID]
	if !ok || cur.UserID != w.UserID {
		return nil, repository.ErrNotFound
	}
	r.workouts[w.ID] = *w
	return w, nil
}

func (r *memWorkoutRepo) Delete(_ context.Context, userID, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.workouts[id]
	if !ok || w.UserID != userID {
		return repository.ErrNotFound
	}
	delete(r.workouts, id)
	return nil
}

func (r *memWorkoutRepo) DeleteByImport(_ context.Context, userID, importID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, w := range r.workouts {
		if w.UserID == userID && w.ImportID != nil && *w.ImportID == importID {
			delete(r.workouts, id)
			n++
		}
	}
	return n, nil
}

func (r *memWorkoutRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.workouts)
}

type memImportRepo struct {
	mu      sync.Mutex
	jobs    map[primitive.ObjectID]domain.ImportJob
	markErr error
}

func newMemImportRepo() *memImportRepo {
	return &memImportRepo{jobs: map[primitive.ObjectID]domain.ImportJob{}}
}

func (r *memImportRepo) Create(_ context.Context, job *domain.ImportJob) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job.ID = primitive.NewObjectID()
	r.jobs[job.ID] = *job
	return job.ID, nil
}

func (r *memImportRepo) GetByID(_ context.Context, userID, jobID primitive.ObjectID) (*domain.ImportJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[jobID]
	if !ok || j.UserID != userID {
		return nil, repository.ErrNotFound
	}
	return &j, nil
}

func (r *memImportRepo) SetMapping(_ context.Context, userID, jobID primitive.ObjectID, m domain.ColumnMapping) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[jobID]
	if !ok || j.UserID != userID || (j.Status != domain.ImportUploaded && j.Status != domain.ImportMapped) {
		return repository.ErrNotFound
	}
	j.Mapping = &m
	j.Status = domain.ImportMapped
	r.jobs[jobID] = j
	return nil
}

// transition moves a job from one status to another, as the conditional
// Mongo updates do.
func (r *memImportRepo) transition(userID, jobID primitive.ObjectID, from, to domain.ImportStatus) (*domain.ImportJob, error) {
	j, ok := r.jobs[jobID]
	if !ok || j.UserID != userID || j.Status != from {
		return nil, repository.ErrNotFound
	}
	j.Status = to
	r.jobs[jobID] = j
	return &j, nil
}

func (r *memImportRepo) ClaimCommit(_ context.Context, userID, jobID primitive.ObjectID) (*domain.ImportJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.transition(userID, jobID, domain.ImportMapped, domain.ImportCommitting)
}

func (r *memImportRepo) ReleaseCommit(_ context.Context, userID, jobID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, err := r.transition(userID, jobID, domain.ImportCommitting, domain.ImportMapped)
	return err
}

func (r *memImportRepo) MarkCommitted(_ context.Context, userID, jobID primitive.ObjectID, n int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.markErr != nil {
		return r.markErr
	}
	j, err := r.transition(userID, jobID, domain.ImportCommitting, domain.ImportCommitted)
	if err != nil {
		return err
	}
	j.ImportedCount = n
	r.jobs[jobID] = *j
	return nil
}

func (r *memImportRepo) status(jobID primitive.ObjectID) domain.ImportStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.jobs[jobID].Status
}

type memProfileRepo struct {
	mu       sync.Mutex
	profiles map[primitive.ObjectID]domain.AthleteProfile
	failErr  error
}

func newMemProfileRepo() *memProfileRepo {
	return &memProfileRepo{profiles: map[primitive.ObjectID]domain.AthleteProfile{}}
}

func (r *memProfileRepo) GetByUser(_ context.Context, userID primitive.ObjectID) (*domain.AthleteProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failErr != nil {
		return nil, r.failErr
	}
	p, ok := r.profiles[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r *memProfileRepo) Upsert(_ context.Context, p *domain.AthleteProfile) (*domain.AthleteProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failErr != nil {
		return nil, r.failErr
	}
	now := time.Now().UTC()
	stored, ok := r.profiles[p.UserID]
	if !ok {
		stored = domain.AthleteProfile{ID: primitive.NewObjectID(), UserID: p.UserID, CreatedAt: now}
	}
	stored.FullName = p.FullName
	stored.TrainingLevel = p.TrainingLevel
	stored.SportFocus = p.SportFocus
	stored.RaceDate = p.RaceDate
	stored.UpdatedAt = now
	r.profiles[p.UserID] = stored
	return &stored, nil
}

type memSessions struct {
	mu     sync.Mutex
	states map[string]editor.State
}

func newMemSessions() *memSessions {
	return &memSessions{states: map[string]editor.State{}}
}

func sessionKey(userID, planID primitive.ObjectID) string { return userID.Hex() + ":" + planID.Hex() }

func (s *memSessions) Get(_ context.Context, userID, planID primitive.ObjectID) (*editor.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[sessionKey(userID, planID)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &st, nil
}

func (s *memSessions) Put(_ context.Context, userID, planID primitive.ObjectID, st editor.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[sessionKey(userID, planID)] = st
	return nil
}

func (s *memSessions) Delete(_ context.Context, userID, planID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, sessionKey(userID, planID))
	return nil
}

var _ storage.FileStorage = (*memStorage)(nil)

type memStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMemStorage() *memStorage {
	return &memStorage{objects: map[string][]byte{}}
}

func (m *memStorage) PutObject(_ context.Context, key, _ string, body io.Reader, _ int64) error {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(body); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = buf.Bytes()
	return nil
}

func (m *memStorage) GeneratePresignedDownloadURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://files.test/" + key, nil
}

func (m *memStorage) DeleteObject(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}
