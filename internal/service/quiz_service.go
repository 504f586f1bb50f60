package service

import (
	"context"
	"sync"
	"time"

	"edutech_backend/internal/catalog"
	"edutech_backend/internal/model"
	"edutech_backend/internal/util"
	"edutech_backend/pkg/logger"
	"edutech_backend/pkg/monitoring"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const attemptTTL = 2 * time.Hour

// attempt holds all per-attempt state, bound to the profile that opened
// it. Nothing here is durable: an abandoned attempt simply ages out with
// no persisted side effect.
type attempt struct {
	id           string
	userID       string
	courseID     string
	moduleID     string
	quiz         *model.Quiz
	currentIndex int
	selections   map[int]int // question index -> chosen option
	correctCount int
	completed    bool
	touchedAt    time.Time
}

// AttemptView is the caller-facing projection of an attempt. Correct
// answers are not exposed mid-attempt.
type AttemptView struct {
	AttemptID      string `json:"attemptId"`
	CourseID       string `json:"courseId"`
	ModuleID       string `json:"moduleId"`
	CurrentIndex   int    `json:"currentIndex"`
	TotalQuestions int    `json:"totalQuestions"`
	Answered       int    `json:"answered"`
	Completed      bool   `json:"completed"`
}

// AnswerResult reveals correctness of a single recorded answer, matching
// the original UI which shows the verdict immediately after selection.
type AnswerResult struct {
	AttemptView
	QuestionIndex int    `json:"questionIndex"`
	OptionIndex   int    `json:"optionIndex"`
	Correct       bool   `json:"correct"`
	CorrectOption int    `json:"correctOption"`
	Explanation   string `json:"explanation,omitempty"`
}

// FinalizeResult is the attempt verdict. On a pass it carries the updated
// course progress produced by the progress engine.
type FinalizeResult struct {
	Score           int                   `json:"score"`
	Passed          bool                  `json:"passed"`
	PassingScore    int                   `json:"passingScore"`
	CorrectCount    int                   `json:"correctCount"`
	TotalQuestions  int                   `json:"totalQuestions"`
	CourseCompleted bool                  `json:"courseCompleted"`
	Progress        *model.CourseProgress `json:"progress,omitempty"`
}

// QuizService runs quiz attempts. Attempt state lives only in this
// registry; a failing attempt is discarded whole, so a retry starts from
// question zero with nothing retained.
type QuizService struct {
	mu       sync.Mutex
	attempts map[string]*attempt

	catalog  *catalog.Catalog
	users    *UserService
	progress *ProgressService
	stop     chan struct{}
	stopOnce sync.Once
}

func NewQuizService(cat *catalog.Catalog, users *UserService, progress *ProgressService) *QuizService {
	s := &QuizService{
		attempts: make(map[string]*attempt),
		catalog:  cat,
		users:    users,
		progress: progress,
		stop:     make(chan struct{}),
	}
	go s.sweepLoop()
	return s
}

// StartAttempt opens a fresh attempt for a module. The module must be
// reachable: the user enrolled and the module not locked by the unlock
// chain. Re-attempting an already-completed module is allowed.
func (s *QuizService) StartAttempt(courseID, moduleID string) (*AttemptView, error) {
	course, err := s.catalog.GetCourse(courseID)
	if err != nil {
		return nil, err
	}
	index, mod, err := s.catalog.FindModule(courseID, moduleID)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Current()
	if err != nil {
		return nil, err
	}
	if !user.IsEnrolled(courseID) {
		return nil, util.ErrNotEnrolled
	}
	if ModuleState(course, user.CourseProgress[courseID], index) == model.ModuleLocked {
		return nil, util.ErrModuleLocked
	}

	a := &attempt{
		id:         uuid.New().String(),
		userID:     user.ID,
		courseID:   courseID,
		moduleID:   moduleID,
		quiz:       &mod.Quiz,
		selections: make(map[int]int),
		touchedAt:  time.Now(),
	}

	s.mu.Lock()
	s.attempts[a.id] = a
	s.mu.Unlock()

	logger.Log.Debug("Quiz attempt started",
		zap.String("attemptId", a.id),
		zap.String("moduleId", moduleID))
	return a.view(), nil
}

// ownerID resolves the active profile. An attempt opened by a different
// profile is unreachable: it must not outlive the profile that opened it.
func (s *QuizService) ownerID() (string, error) {
	user, err := s.users.Current()
	if err != nil {
		return "", err
	}
	return user.ID, nil
}

// SelectAnswer records the chosen option for a question. The first answer
// is final: a second selection for the same question is a no-op that
// returns the originally recorded result.
func (s *QuizService) SelectAnswer(attemptID string, questionIndex, optionIndex int) (*AnswerResult, error) {
	owner, err := s.ownerID()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.attempts[attemptID]
	if !ok || a.userID != owner {
		return nil, util.ErrAttemptNotFound
	}
	if a.completed {
		return nil, util.ErrAttemptFinalized
	}
	if questionIndex < 0 || questionIndex >= len(a.quiz.Questions) {
		return nil, util.ErrQuestionOutOfRange
	}

	question := a.quiz.Questions[questionIndex]

	if prior, answered := a.selections[questionIndex]; answered {
		return a.answerResult(questionIndex, prior), nil
	}

	if optionIndex < 0 || optionIndex >= len(question.Options) {
		return nil, util.ErrOptionOutOfRange
	}

	a.selections[questionIndex] = optionIndex
	if optionIndex == question.CorrectAnswer {
		a.correctCount++
	}
	a.touchedAt = time.Now()

	return a.answerResult(questionIndex, optionIndex), nil
}

// Advance moves to the next question; on the last question it marks the
// attempt complete so Finalize can score it. The current question must be
// answered first.
func (s *QuizService) Advance(attemptID string) (*AttemptView, error) {
	owner, err := s.ownerID()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.attempts[attemptID]
	if !ok || a.userID != owner {
		return nil, util.ErrAttemptNotFound
	}
	if a.completed {
		return nil, util.ErrAttemptFinalized
	}
	if _, answered := a.selections[a.currentIndex]; !answered {
		return nil, util.ErrAttemptIncomplete
	}

	if a.currentIndex < len(a.quiz.Questions)-1 {
		a.currentIndex++
	} else {
		a.completed = true
	}
	a.touchedAt = time.Now()
	return a.view(), nil
}

// Finalize scores the attempt: score = round(100 * correct / total),
// passed on score >= passingScore (ties pass). A pass feeds the progress
// engine; either way the attempt is evicted, so a retry is a full reset.
func (s *QuizService) Finalize(ctx context.Context, attemptID string) (*FinalizeResult, error) {
	owner, err := s.ownerID()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	a, ok := s.attempts[attemptID]
	if !ok || a.userID != owner {
		s.mu.Unlock()
		return nil, util.ErrAttemptNotFound
	}
	if !a.completed {
		s.mu.Unlock()
		return nil, util.ErrAttemptIncomplete
	}
	delete(s.attempts, attemptID)
	s.mu.Unlock()

	total := len(a.quiz.Questions)
	score := util.Percent(a.correctCount, total)
	passed := score >= a.quiz.PassingScore

	result := &FinalizeResult{
		Score:          score,
		Passed:         passed,
		PassingScore:   a.quiz.PassingScore,
		CorrectCount:   a.correctCount,
		TotalQuestions: total,
	}

	if !passed {
		monitoring.QuizAttemptsFinalized.WithLabelValues("failed").Inc()
		logger.Log.Info("Quiz failed",
			zap.String("moduleId", a.moduleID),
			zap.Int("score", score),
			zap.Int("passingScore", a.quiz.PassingScore))
		return result, nil
	}

	progress, courseCompleted, err := s.progress.RecordQuizPass(ctx, a.courseID, a.moduleID, score)
	if err != nil {
		return nil, err
	}
	result.CourseCompleted = courseCompleted
	result.Progress = progress

	monitoring.QuizAttemptsFinalized.WithLabelValues("passed").Inc()
	return result, nil
}

// Abandon drops an attempt with no side effect.
func (s *QuizService) Abandon(attemptID string) error {
	owner, err := s.ownerID()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.attempts[attemptID]; !ok || a.userID != owner {
		return util.ErrAttemptNotFound
	}
	delete(s.attempts, attemptID)
	return nil
}

func (s *QuizService) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *QuizService) sweepLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.mu.Lock()
			for id, a := range s.attempts {
				if time.Since(a.touchedAt) > attemptTTL {
					delete(s.attempts, id)
				}
			}
			s.mu.Unlock()
		}
	}
}

func (a *attempt) view() *AttemptView {
	return &AttemptView{
		AttemptID:      a.id,
		CourseID:       a.courseID,
		ModuleID:       a.moduleID,
		CurrentIndex:   a.currentIndex,
		TotalQuestions: len(a.quiz.Questions),
		Answered:       len(a.selections),
		Completed:      a.completed,
	}
}

func (a *attempt) answerResult(questionIndex, optionIndex int) *AnswerResult {
	question := a.quiz.Questions[questionIndex]
	return &AnswerResult{
		AttemptView:   *a.view(),
		QuestionIndex: questionIndex,
		OptionIndex:   optionIndex,
		Correct:       optionIndex == question.CorrectAnswer,
		CorrectOption: question.CorrectAnswer,
		Explanation:   question.Explanation,
	}
}
