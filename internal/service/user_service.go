package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"edutech_backend/internal/catalog"
	"edutech_backend/internal/model"
	"edutech_backend/internal/repository"
	"edutech_backend/internal/util"
	"edutech_backend/pkg/logger"
	"edutech_backend/pkg/monitoring"

	"go.uber.org/zap"
)

// UserService owns the single active user record. All mutations run
// serially under one mutex and overwrite the whole snapshot; a failed save
// leaves the in-memory record ahead of durable state, which stays valid
// and can be retried on the next mutation.
type UserService struct {
	mu      sync.Mutex
	store   repository.SnapshotStore
	catalog *catalog.Catalog
	current *model.User
}

func NewUserService(store repository.SnapshotStore, cat *catalog.Catalog) *UserService {
	return &UserService{store: store, catalog: cat}
}

// Bootstrap restores the persisted profile, if any. A corrupt snapshot is
// a clean reset: there is no versioning or migration scheme.
func (s *UserService) Bootstrap(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.store.Load(ctx)
	if err != nil {
		if errors.Is(err, util.ErrSnapshotNotFound) {
			return nil
		}
		if errors.Is(err, util.ErrSnapshotCorrupt) {
			logger.Log.Warn("Snapshot unreadable, resetting profile", zap.Error(err))
			return s.store.Clear(ctx)
		}
		return err
	}

	s.normalize(user)
	s.recomputeProgress(user)
	s.current = user
	logger.Log.Info("Profile restored", zap.String("userId", user.ID), zap.String("name", user.Name))
	return nil
}

// Current returns a deep copy of the active record.
func (s *UserService) Current() (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil, util.ErrNoActiveProfile
	}
	return s.current.Clone(), nil
}

// CreateProfile starts a fresh record. If a profile already exists it is
// returned unchanged: replacing it requires an explicit logout first, so
// there is exactly one record active at a time.
func (s *UserService) CreateProfile(ctx context.Context, name, email string, level model.ExperienceLevel) (*model.User, bool, error) {
	if !level.Valid() {
		return nil, false, util.ErrInvalidLevel
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil {
		return s.current.Clone(), false, nil
	}

	user := model.NewUser(name, email, level)
	if err := s.save(ctx, user); err != nil {
		return nil, false, err
	}
	s.current = user
	return user.Clone(), true, nil
}

// Update applies fn to the active record and persists the result as one
// whole-object write. fn runs with the record locked; returning an error
// aborts the mutation entirely.
func (s *UserService) Update(ctx context.Context, fn func(user *model.User) error) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return nil, util.ErrNoActiveProfile
	}
	if err := fn(s.current); err != nil {
		return nil, err
	}
	if err := s.save(ctx, s.current); err != nil {
		// In-memory state is ahead of durable state until the next
		// successful save. The caller may retry.
		return s.current.Clone(), err
	}
	return s.current.Clone(), nil
}

// Logout clears the snapshot and drops the record. Destroyed, not archived.
func (s *UserService) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return util.ErrNoActiveProfile
	}
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("%w: %v", util.ErrSnapshotWrite, err)
	}
	s.current = nil
	return nil
}

func (s *UserService) save(ctx context.Context, user *model.User) error {
	if err := s.store.Save(ctx, user); err != nil {
		monitoring.SnapshotWrites.WithLabelValues("error").Inc()
		logger.Log.Error("Snapshot save failed", zap.Error(err))
		return err
	}
	monitoring.SnapshotWrites.WithLabelValues("ok").Inc()
	return nil
}

// normalize backfills nil collections from older snapshots so the rest of
// the code never nil-checks maps.
func (s *UserService) normalize(user *model.User) {
	if user.EnrolledCourses == nil {
		user.EnrolledCourses = []string{}
	}
	if user.CourseProgress == nil {
		user.CourseProgress = map[string]*model.CourseProgress{}
	}
	if user.Certificates == nil {
		user.Certificates = []model.Certificate{}
	}
	for _, p := range user.CourseProgress {
		if p.CompletedModules == nil {
			p.CompletedModules = []string{}
		}
		if p.QuizScores == nil {
			p.QuizScores = map[string]int{}
		}
	}
}

// recomputeProgress rederives every stored percentage against the live
// catalog. The stored value is only a display cache; trusting it would let
// catalog content changes leave stale numbers behind.
func (s *UserService) recomputeProgress(user *model.User) {
	for courseID, progress := range user.CourseProgress {
		course, err := s.catalog.GetCourse(courseID)
		if err != nil {
			logger.Log.Warn("Progress references course missing from catalog",
				zap.String("courseId", courseID))
			continue
		}
		progress.OverallProgress = util.Percent(len(progress.CompletedModules), len(course.Modules))
	}
}
