package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/andhika-lab/uni-timetable-api/internal/dto"
	"github.com/andhika-lab/uni-timetable-api/internal/models"
	"github.com/andhika-lab/uni-timetable-api/internal/timetable"
	appErrors "github.com/andhika-lab/uni-timetable-api/pkg/errors"
	"github.com/andhika-lab/uni-timetable-api/pkg/jobs"
)

type timeSlotLister interface {
	ListAll(ctx context.Context) ([]models.TimeSlot, error)
}

type courseLister interface {
	ListAll(ctx context.Context) ([]models.Course, error)
}

type classroomLister interface {
	ListAll(ctx context.Context) ([]models.Classroom, error)
}

type teacherLister interface {
	ListAll(ctx context.Context) ([]models.Teacher, error)
}

type groupReader interface {
	List(ctx context.Context, filter models.GroupFilter) ([]models.StudentGroup, error)
	FindByID(ctx context.Context, id string) (*models.StudentGroup, error)
	ListAssignments(ctx context.Context) ([]models.GroupCourse, error)
}

type timetableStore interface {
	ListByGroup(ctx context.Context, groupID string) ([]models.TimetableEntry, error)
	ReplaceForGroups(ctx context.Context, tx *sqlx.Tx, groupIDs []string, entries []models.TimetableEntry) error
}

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

type timetableExporter interface {
	RenderGroupTimetable(groupName string, entries []models.TimetableEntry) ([]byte, error)
}

type generationObserver interface {
	ObserveGeneration(result string, duration time.Duration, entries int)
}

// TimetableServiceConfig governs caching and run retention.
type TimetableServiceConfig struct {
	CacheTTL time.Duration
	RunTTL   time.Duration
}

// TimetableService drives the full generation pipeline: load inputs, run the
// feasibility pre-check, generate, validate, persist and serve the accepted
// schedule. The engine itself holds no locks, so the service serializes
// generation runs with an internal mutex; the async path funnels through a
// single queue worker for the same reason.
type TimetableService struct {
	slots      timeSlotLister
	courses    courseLister
	classrooms classroomLister
	teachers   teacherLister
	groups     groupReader
	entries    timetableStore
	tx         txProvider
	engine     *timetable.Engine
	exporter   timetableExporter
	cache      *redis.Client
	metrics    generationObserver
	validator  *validator.Validate
	logger     *zap.Logger
	cacheTTL   time.Duration

	genMu sync.Mutex
	runs  *runStore
	queue *jobs.Queue
}

// NewTimetableService wires scheduling dependencies. The cache client and
// metrics observer may be nil.
func NewTimetableService(
	slots timeSlotLister,
	courses courseLister,
	classrooms classroomLister,
	teachers teacherLister,
	groups groupReader,
	entries timetableStore,
	tx txProvider,
	engine *timetable.Engine,
	exporter timetableExporter,
	cache *redis.Client,
	metrics generationObserver,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg TimetableServiceConfig,
) *TimetableService {
	if engine == nil {
		engine = timetable.NewEngine(nil, logger, timetable.Config{})
	}
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 10 * time.Minute
	}
	if cfg.RunTTL <= 0 {
		cfg.RunTTL = time.Hour
	}
	return &TimetableService{
		slots:      slots,
		courses:    courses,
		classrooms: classrooms,
		teachers:   teachers,
		groups:     groups,
		entries:    entries,
		tx:         tx,
		engine:     engine,
		exporter:   exporter,
		cache:      cache,
		metrics:    metrics,
		validator:  validate,
		logger:     logger,
		cacheTTL:   cfg.CacheTTL,
		runs:       newRunStore(cfg.RunTTL),
	}
}

// Generate runs the whole pipeline synchronously. Failures map onto the error
// taxonomy: infeasible input, unschedulable course (with the structured
// placement failure wrapped inside), or a validator rejection that discards
// the result before persistence.
func (s *TimetableService) Generate(ctx context.Context, req dto.GenerateTimetableRequest) (*dto.GenerateTimetableResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid generation payload")
	}

	s.genMu.Lock()
	defer s.genMu.Unlock()

	in, err := s.loadInputs(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := timetable.CheckFeasible(in); err != nil {
		return nil, appErrors.Clone(appErrors.ErrInfeasible, err.Error())
	}

	start := time.Now()
	result, failure := s.engine.Generate(in)
	if failure != nil {
		s.observeGeneration("unschedulable", time.Since(start), 0)
		return nil, appErrors.Wrap(failure, appErrors.ErrUnschedulable.Code, appErrors.ErrUnschedulable.Status, failure.Reason)
	}

	report := timetable.Validate(result)
	total := 0
	for _, entries := range result {
		total += len(entries)
	}
	if !report.Valid {
		// The generated schedule cannot be trusted; discard rather than persist.
		s.observeGeneration("invalid", time.Since(start), total)
		return nil, appErrors.Clone(appErrors.ErrInvalidSchedule,
			fmt.Sprintf("discarding generated timetable: %d classroom and %d teacher conflicts", report.RoomConflicts, report.TeacherConflicts))
	}

	if !req.DryRun {
		if err := s.persist(ctx, in.Groups, result); err != nil {
			s.observeGeneration("persist_error", time.Since(start), total)
			return nil, err
		}
	}
	s.observeGeneration("succeeded", time.Since(start), total)

	return &dto.GenerateTimetableResponse{
		Entries:      result,
		TotalEntries: total,
		Validation:   report,
		Persisted:    !req.DryRun,
	}, nil
}

// CheckFeasibility exposes the static pre-check without attempting
// generation. A feasible verdict is necessary but not sufficient.
func (s *TimetableService) CheckFeasibility(ctx context.Context, req dto.GenerateTimetableRequest) (*dto.FeasibilityResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid feasibility payload")
	}
	in, err := s.loadInputs(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := timetable.CheckFeasible(in); err != nil {
		return &dto.FeasibilityResponse{Feasible: false, Reason: err.Error()}, nil
	}
	return &dto.FeasibilityResponse{Feasible: true}, nil
}

// GroupTimetable returns a group's stored entries, read through the cache.
func (s *TimetableService) GroupTimetable(ctx context.Context, groupID string) ([]models.TimetableEntry, error) {
	if groupID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "group id is required")
	}
	if _, err := s.groups.FindByID(ctx, groupID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student group not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student group")
	}

	key := cacheKeyForGroup(groupID)
	if s.cache != nil {
		if payload, err := s.cache.Get(ctx, key).Bytes(); err == nil {
			var cached []models.TimetableEntry
			if err := json.Unmarshal(payload, &cached); err == nil {
				return cached, nil
			}
		}
	}

	entries, err := s.entries.ListByGroup(ctx, groupID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list timetable entries")
	}

	if s.cache != nil {
		if payload, err := json.Marshal(entries); err == nil {
			if err := s.cache.Set(ctx, key, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn("failed to cache group timetable", zap.String("group_id", groupID), zap.Error(err))
			}
		}
	}
	return entries, nil
}

// ExportGroupTimetable renders a group's timetable as a PDF.
func (s *TimetableService) ExportGroupTimetable(ctx context.Context, groupID string) ([]byte, string, error) {
	if s.exporter == nil {
		return nil, "", appErrors.Clone(appErrors.ErrInternal, "timetable exporter unavailable")
	}
	group, err := s.groups.FindByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", appErrors.Clone(appErrors.ErrNotFound, "student group not found")
		}
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student group")
	}
	entries, err := s.GroupTimetable(ctx, groupID)
	if err != nil {
		return nil, "", err
	}
	pdf, err := s.exporter.RenderGroupTimetable(group.Name, entries)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render timetable pdf")
	}
	filename := fmt.Sprintf("timetable_%s.pdf", strings.ReplaceAll(strings.ToLower(group.Name), " ", "_"))
	return pdf, filename, nil
}

// StartWorker launches the single-worker generation queue.
func (s *TimetableService) StartWorker(ctx context.Context) {
	if s.queue != nil {
		return
	}
	s.queue = jobs.NewQueue("timetable-generation", s.handleRunJob, jobs.QueueConfig{
		Workers: 1,
		Logger:  s.logger,
	})
	s.queue.Start(ctx)
}

// StopWorker drains the generation queue.
func (s *TimetableService) StopWorker() {
	if s.queue != nil {
		s.queue.Stop()
	}
}

// EnqueueGeneration registers an async generation run and queues it.
func (s *TimetableService) EnqueueGeneration(req dto.GenerateTimetableRequest) (*dto.RunStatusResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid generation payload")
	}
	if s.queue == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "generation worker is not running")
	}

	run := generationRun{
		ID:         uuid.NewString(),
		Status:     dto.RunStatusQueued,
		Request:    req,
		EnqueuedAt: time.Now().UTC(),
	}
	s.runs.Save(run)

	if err := s.queue.Enqueue(jobs.Job{ID: run.ID, Type: "generate_timetable", Payload: req}); err != nil {
		s.runs.Delete(run.ID)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue generation run")
	}
	return run.toResponse(), nil
}

// GetRun reports the status of an async generation run.
func (s *TimetableService) GetRun(runID string) (*dto.RunStatusResponse, error) {
	run, ok := s.runs.Get(runID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "generation run not found or expired")
	}
	return run.toResponse(), nil
}

func (s *TimetableService) handleRunJob(ctx context.Context, job jobs.Job) error {
	req, ok := job.Payload.(dto.GenerateTimetableRequest)
	if !ok {
		return fmt.Errorf("unexpected payload type %T for job %s", job.Payload, job.ID)
	}
	s.runs.SetRunning(job.ID)

	resp, err := s.Generate(ctx, req)
	if err != nil {
		var failure *timetable.PlacementFailure
		errors.As(err, &failure)
		s.runs.SetFailed(job.ID, appErrors.FromError(err).Message, failure)
		return nil
	}
	s.runs.SetSucceeded(job.ID, resp.TotalEntries, resp.Validation)
	return nil
}

func (s *TimetableService) loadInputs(ctx context.Context, req dto.GenerateTimetableRequest) (timetable.Inputs, error) {
	groups, err := s.groups.List(ctx, models.GroupFilter{Year: req.Year, Semester: req.Semester})
	if err != nil {
		return timetable.Inputs{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student groups")
	}
	if len(groups) == 0 {
		return timetable.Inputs{}, appErrors.Clone(appErrors.ErrNotFound, "no student groups match the requested scope")
	}

	slots, err := s.slots.ListAll(ctx)
	if err != nil {
		return timetable.Inputs{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load time slots")
	}
	courses, err := s.courses.ListAll(ctx)
	if err != nil {
		return timetable.Inputs{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load courses")
	}
	classrooms, err := s.classrooms.ListAll(ctx)
	if err != nil {
		return timetable.Inputs{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load classrooms")
	}
	teachers, err := s.teachers.ListAll(ctx)
	if err != nil {
		return timetable.Inputs{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teachers")
	}
	assignments, err := s.groups.ListAssignments(ctx)
	if err != nil {
		return timetable.Inputs{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course assignments")
	}

	inScope := make(map[string]bool, len(groups))
	for _, group := range groups {
		inScope[group.ID] = true
	}
	groupCourses := make(map[string][]string, len(groups))
	for _, assignment := range assignments {
		if !inScope[assignment.GroupID] {
			continue
		}
		groupCourses[assignment.GroupID] = append(groupCourses[assignment.GroupID], assignment.CourseID)
	}

	return timetable.Inputs{
		Groups:       groups,
		Courses:      courses,
		Classrooms:   classrooms,
		Teachers:     teachers,
		TimeSlots:    slots,
		GroupCourses: groupCourses,
	}, nil
}

func (s *TimetableService) persist(ctx context.Context, groups []models.StudentGroup, result map[string][]models.TimetableEntry) error {
	if s.tx == nil {
		return appErrors.Clone(appErrors.ErrInternal, "transaction provider missing")
	}
	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	groupIDs := make([]string, 0, len(groups))
	for _, group := range groups {
		groupIDs = append(groupIDs, group.ID)
	}
	flat := make([]models.TimetableEntry, 0)
	for _, entries := range result {
		flat = append(flat, entries...)
	}

	if err = s.entries.ReplaceForGroups(ctx, tx, groupIDs, flat); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store timetable entries")
		return err
	}
	if err = tx.Commit(); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit timetable transaction")
		return err
	}

	if s.cache != nil {
		for _, groupID := range groupIDs {
			if err := s.cache.Del(ctx, cacheKeyForGroup(groupID)).Err(); err != nil {
				s.logger.Warn("failed to invalidate timetable cache", zap.String("group_id", groupID), zap.Error(err))
			}
		}
	}
	return nil
}

func (s *TimetableService) observeGeneration(result string, duration time.Duration, entries int) {
	if s.metrics == nil {
		return
	}
	s.metrics.ObserveGeneration(result, duration, entries)
}

func cacheKeyForGroup(groupID string) string {
	return "timetable:group:" + groupID
}
