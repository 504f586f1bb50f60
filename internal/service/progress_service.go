package service

import (
	"context"
	"time"

	"edutech_backend/internal/catalog"
	"edutech_backend/internal/model"
	"edutech_backend/internal/util"
	"edutech_backend/pkg/logger"
	"edutech_backend/pkg/monitoring"

	"go.uber.org/zap"
)

// ProgressService is the progress engine: the single source of truth for
// enrollment, module unlock state, and completion. Modules unlock strictly
// in catalog order; completion is permanent.
type ProgressService struct {
	users   *UserService
	catalog *catalog.Catalog
	certs   *CertificateService
	hub     *EventHub
}

func NewProgressService(users *UserService, cat *catalog.Catalog, certs *CertificateService, hub *EventHub) *ProgressService {
	return &ProgressService{users: users, catalog: cat, certs: certs, hub: hub}
}

// ModuleState derives the unlock state of one module. Module 0 is locked
// only while the user is not enrolled; any later module stays locked until
// its predecessor is completed, which makes skipping ahead impossible.
func ModuleState(course *model.Course, progress *model.CourseProgress, index int) model.ModuleState {
	if progress == nil {
		return model.ModuleLocked
	}
	if index > 0 && !progress.IsModuleCompleted(course.Modules[index-1].ID) {
		return model.ModuleLocked
	}
	if progress.IsModuleCompleted(course.Modules[index].ID) {
		return model.ModuleCompleted
	}
	if index == progress.CurrentModuleIndex {
		return model.ModuleCurrent
	}
	return model.ModuleUpcoming
}

// Enroll is idempotent: enrolling twice leaves the existing progress
// untouched. Unknown courses are a hard failure, not a silent no-op.
func (s *ProgressService) Enroll(ctx context.Context, courseID string) (*model.CourseProgress, error) {
	if _, err := s.catalog.GetCourse(courseID); err != nil {
		return nil, err
	}

	var result *model.CourseProgress
	user, err := s.users.Update(ctx, func(u *model.User) error {
		// The two halves are checked separately: a snapshot can hold the
		// enrollment without its progress record or vice versa, and a
		// blind append here would duplicate the enrollment entry.
		enrolled := u.IsEnrolled(courseID)
		progress, ok := u.CourseProgress[courseID]
		if !ok {
			progress = model.NewCourseProgress(courseID, time.Now())
			u.CourseProgress[courseID] = progress
		}
		if !enrolled {
			u.EnrolledCourses = append(u.EnrolledCourses, courseID)
		}
		result = progress
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.hub.Publish(Event{
		Type:     EventEnrollmentChanged,
		CourseID: courseID,
		Payload:  user.EnrolledCourses,
	})
	logger.Log.Info("Enrolled in course", zap.String("userId", user.ID), zap.String("courseId", courseID))
	return result.Clone(), nil
}

// RecordQuizPass applies one passing quiz result: set-inserts the module
// into the completion set, records the latest score, advances the current
// module index, and rederives overall progress. When progress reaches 100
// the course certificate is issued exactly once. Returns the updated
// progress and whether this pass completed the course.
func (s *ProgressService) RecordQuizPass(ctx context.Context, courseID, moduleID string, score int) (*model.CourseProgress, bool, error) {
	course, err := s.catalog.GetCourse(courseID)
	if err != nil {
		return nil, false, err
	}
	index, _, err := s.catalog.FindModule(courseID, moduleID)
	if err != nil {
		return nil, false, err
	}

	var (
		result        *model.CourseProgress
		justCompleted bool
		certificate   *model.Certificate
	)
	user, err := s.users.Update(ctx, func(u *model.User) error {
		progress, ok := u.CourseProgress[courseID]
		if !ok || !u.IsEnrolled(courseID) {
			return util.ErrNotEnrolled
		}
		// The evaluator checks the unlock chain when the attempt opens;
		// this record may belong to a different profile by now, so the
		// chain is re-verified against the record actually being credited.
		if ModuleState(course, progress, index) == model.ModuleLocked {
			return util.ErrModuleLocked
		}

		if !progress.IsModuleCompleted(moduleID) {
			progress.CompletedModules = append(progress.CompletedModules, moduleID)
		}
		progress.QuizScores[moduleID] = score
		if progress.CurrentModuleIndex < len(course.Modules)-1 {
			progress.CurrentModuleIndex++
		}
		progress.OverallProgress = util.Percent(len(progress.CompletedModules), len(course.Modules))
		progress.LastAccessedAt = time.Now()

		if progress.OverallProgress == 100 && !u.HasCertificate(courseID) {
			cert := s.certs.Issue(u, course)
			certificate = &cert
			justCompleted = true
		}
		result = progress
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	s.hub.Publish(Event{
		Type:     EventQuizPassed,
		CourseID: courseID,
		Payload:  map[string]any{"moduleId": moduleID, "score": score},
	})
	s.hub.Publish(Event{
		Type:     EventUnlockStateChanged,
		CourseID: courseID,
		Payload:  map[string]any{"currentModuleIndex": result.CurrentModuleIndex},
	})
	if justCompleted {
		s.hub.Publish(Event{
			Type:     EventCourseCompleted,
			CourseID: courseID,
			Payload:  certificate,
		})
		logger.Log.Info("Course completed",
			zap.String("userId", user.ID),
			zap.String("courseId", courseID),
			zap.String("certificateId", certificate.ID))
		monitoring.CertificatesIssued.Inc()
	}

	return result.Clone(), justCompleted, nil
}

// ModuleOverview is the derived per-module view the presentation layer
// renders on a course page.
type ModuleOverview struct {
	Index     int               `json:"index"`
	ModuleID  string            `json:"moduleId"`
	Title     string            `json:"title"`
	State     model.ModuleState `json:"state"`
	QuizScore *int              `json:"quizScore,omitempty"`
}

// CourseOverview aggregates progress and unlock states for one course.
type CourseOverview struct {
	CourseID        string           `json:"courseId"`
	Enrolled        bool             `json:"enrolled"`
	OverallProgress int              `json:"overallProgress"`
	Modules         []ModuleOverview `json:"modules"`
	LastAccessedAt  *time.Time       `json:"lastAccessedAt,omitempty"`
}

// Overview derives the full unlock picture for a course. It never mutates;
// an unenrolled user simply sees every module locked.
func (s *ProgressService) Overview(courseID string) (*CourseOverview, error) {
	course, err := s.catalog.GetCourse(courseID)
	if err != nil {
		return nil, err
	}
	user, err := s.users.Current()
	if err != nil {
		return nil, err
	}

	overview := &CourseOverview{
		CourseID: courseID,
		Enrolled: user.IsEnrolled(courseID),
		Modules:  make([]ModuleOverview, 0, len(course.Modules)),
	}

	var progress *model.CourseProgress
	if overview.Enrolled {
		progress = user.CourseProgress[courseID]
	}
	if progress != nil {
		overview.OverallProgress = progress.OverallProgress
		overview.LastAccessedAt = &progress.LastAccessedAt
	}

	for i := range course.Modules {
		mod := ModuleOverview{
			Index:    i,
			ModuleID: course.Modules[i].ID,
			Title:    course.Modules[i].Title,
			State:    ModuleState(course, progress, i),
		}
		if progress != nil {
			if score, ok := progress.QuizScores[mod.ModuleID]; ok {
				sc := score
				mod.QuizScore = &sc
			}
		}
		overview.Modules = append(overview.Modules, mod)
	}
	return overview, nil
}
