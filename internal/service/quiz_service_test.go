package service

import (
	"context"
	"testing"

	"edutech_backend/internal/model"
	"edutech_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartAttemptRequiresEnrollment(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	_, err := env.quiz.StartAttempt("course-acct", "mod-1")
	require.ErrorIs(t, err, util.ErrNotEnrolled)
}

func TestStartAttemptRejectsLockedModule(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)
	env.enroll(t, "course-acct")

	_, err := env.quiz.StartAttempt("course-acct", "mod-2")
	require.ErrorIs(t, err, util.ErrModuleLocked)

	env.passModule(t, "course-acct", "mod-1")
	view, err := env.quiz.StartAttempt("course-acct", "mod-2")
	require.NoError(t, err)
	assert.Equal(t, 2, view.TotalQuestions)
}

func TestStartAttemptAllowsCompletedModule(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)
	env.enroll(t, "course-acct")
	env.passModule(t, "course-acct", "mod-1")

	_, err := env.quiz.StartAttempt("course-acct", "mod-1")
	require.NoError(t, err)
}

func TestFirstAnswerIsFinal(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)
	env.enroll(t, "course-acct")

	view, err := env.quiz.StartAttempt("course-acct", "mod-1")
	require.NoError(t, err)

	// Wrong answer first (correct option for q1 is 0).
	first, err := env.quiz.SelectAnswer(view.AttemptID, 0, 2)
	require.NoError(t, err)
	assert.False(t, first.Correct)
	assert.Equal(t, 0, first.CorrectOption)

	// The second selection is ignored; the recorded result comes back.
	second, err := env.quiz.SelectAnswer(view.AttemptID, 0, 0)
	require.NoError(t, err)
	assert.False(t, second.Correct)
	assert.Equal(t, 2, second.OptionIndex)
	assert.Equal(t, 1, second.Answered)
}

func TestSelectAnswerValidatesIndices(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)
	env.enroll(t, "course-acct")

	view, err := env.quiz.StartAttempt("course-acct", "mod-1")
	require.NoError(t, err)

	_, err = env.quiz.SelectAnswer(view.AttemptID, 9, 0)
	require.ErrorIs(t, err, util.ErrQuestionOutOfRange)

	_, err = env.quiz.SelectAnswer(view.AttemptID, 0, 7)
	require.ErrorIs(t, err, util.ErrOptionOutOfRange)

	_, err = env.quiz.SelectAnswer("no-such-attempt", 0, 0)
	require.ErrorIs(t, err, util.ErrAttemptNotFound)
}

func TestAdvanceRequiresAnswer(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)
	env.enroll(t, "course-acct")

	view, err := env.quiz.StartAttempt("course-acct", "mod-1")
	require.NoError(t, err)

	_, err = env.quiz.Advance(view.AttemptID)
	require.ErrorIs(t, err, util.ErrAttemptIncomplete)

	_, err = env.quiz.SelectAnswer(view.AttemptID, 0, 0)
	require.NoError(t, err)

	next, err := env.quiz.Advance(view.AttemptID)
	require.NoError(t, err)
	assert.Equal(t, 1, next.CurrentIndex)
	assert.False(t, next.Completed)

	// Advancing past the last question completes the attempt.
	_, err = env.quiz.SelectAnswer(view.AttemptID, 1, 1)
	require.NoError(t, err)
	last, err := env.quiz.Advance(view.AttemptID)
	require.NoError(t, err)
	assert.True(t, last.Completed)
}

func TestFinalizeRequiresCompletion(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)
	env.enroll(t, "course-acct")

	view, err := env.quiz.StartAttempt("course-acct", "mod-1")
	require.NoError(t, err)

	_, err = env.quiz.Finalize(context.Background(), view.AttemptID)
	require.ErrorIs(t, err, util.ErrAttemptIncomplete)
}

// completeAttempt answers both questions with the given options and
// advances through to completion.
func completeAttempt(t *testing.T, env *testEnv, attemptID string, options [2]int) {
	t.Helper()
	for i, opt := range options {
		_, err := env.quiz.SelectAnswer(attemptID, i, opt)
		require.NoError(t, err)
		_, err = env.quiz.Advance(attemptID)
		require.NoError(t, err)
	}
}

func TestFinalizeScoring(t *testing.T) {
	tests := []struct {
		name      string
		moduleID  string
		options   [2]int // chosen options for the two questions
		wantScore int
		wantPass  bool
	}{
		// mod-1 passing score 70: one of two right rounds to 50, fails.
		{"half right below threshold", "mod-1", [2]int{0, 2}, 50, false},
		// mod-2 passing score 50: 50 ties the threshold, a tie passes.
		{"tie passes inclusively", "mod-2", [2]int{2, 0}, 50, true},
		{"all right", "mod-1", [2]int{0, 1}, 100, true},
		{"all wrong", "mod-1", [2]int{3, 3}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.login(t)
			env.enroll(t, "course-acct")
			if tt.moduleID == "mod-2" {
				env.passModule(t, "course-acct", "mod-1")
			}

			view, err := env.quiz.StartAttempt("course-acct", tt.moduleID)
			require.NoError(t, err)
			completeAttempt(t, env, view.AttemptID, tt.options)

			result, err := env.quiz.Finalize(context.Background(), view.AttemptID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantScore, result.Score)
			assert.Equal(t, tt.wantPass, result.Passed)

			if tt.wantPass {
				require.NotNil(t, result.Progress)
				assert.Contains(t, result.Progress.CompletedModules, tt.moduleID)
			} else {
				assert.Nil(t, result.Progress)
			}
		})
	}
}

func TestFailedAttemptLeavesNoTrace(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)
	env.enroll(t, "course-acct")

	view, err := env.quiz.StartAttempt("course-acct", "mod-1")
	require.NoError(t, err)
	completeAttempt(t, env, view.AttemptID, [2]int{3, 3})

	result, err := env.quiz.Finalize(context.Background(), view.AttemptID)
	require.NoError(t, err)
	require.False(t, result.Passed)

	// Nothing recorded on the profile, not even the failing score.
	user, err := env.users.Current()
	require.NoError(t, err)
	progress := user.CourseProgress["course-acct"]
	assert.Empty(t, progress.CompletedModules)
	assert.Empty(t, progress.QuizScores)
	assert.Equal(t, 0, progress.CurrentModuleIndex)

	// The attempt is gone; a retry starts over from question zero.
	_, err = env.quiz.SelectAnswer(view.AttemptID, 0, 0)
	require.ErrorIs(t, err, util.ErrAttemptNotFound)

	retry, err := env.quiz.StartAttempt("course-acct", "mod-1")
	require.NoError(t, err)
	assert.NotEqual(t, view.AttemptID, retry.AttemptID)
	assert.Equal(t, 0, retry.CurrentIndex)
	assert.Equal(t, 0, retry.Answered)
}

func TestFinalizeScoresFourQuestionQuiz(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)
	env.enroll(t, "course-quant")

	view, err := env.quiz.StartAttempt("course-quant", "quant-1")
	require.NoError(t, err)

	// Three of four right (correct options are 0, 1, 2, 3).
	for i, opt := range []int{0, 1, 2, 0} {
		_, err := env.quiz.SelectAnswer(view.AttemptID, i, opt)
		require.NoError(t, err)
		_, err = env.quiz.Advance(view.AttemptID)
		require.NoError(t, err)
	}

	result, err := env.quiz.Finalize(context.Background(), view.AttemptID)
	require.NoError(t, err)
	assert.Equal(t, 75, result.Score)
	assert.True(t, result.Passed)
	assert.Equal(t, 3, result.CorrectCount)
	assert.Equal(t, 4, result.TotalQuestions)
	require.NotNil(t, result.Progress)
	assert.Equal(t, 100, result.Progress.OverallProgress)
}

func TestAttemptDoesNotOutliveProfile(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)
	env.enroll(t, "course-acct")
	env.passModule(t, "course-acct", "mod-1")

	// Fully answer a second-module attempt but do not finalize it.
	view, err := env.quiz.StartAttempt("course-acct", "mod-2")
	require.NoError(t, err)
	completeAttempt(t, env, view.AttemptID, [2]int{2, 3})

	require.NoError(t, env.users.Logout(context.Background()))

	_, err = env.quiz.Finalize(context.Background(), view.AttemptID)
	require.ErrorIs(t, err, util.ErrNoActiveProfile)

	// A fresh profile cannot adopt the orphaned attempt and skip ahead.
	_, created, err := env.users.CreateProfile(context.Background(), "Arun", "arun@example.com", model.Analyst)
	require.NoError(t, err)
	require.True(t, created)
	env.enroll(t, "course-acct")

	_, err = env.quiz.Finalize(context.Background(), view.AttemptID)
	require.ErrorIs(t, err, util.ErrAttemptNotFound)
	_, err = env.quiz.SelectAnswer(view.AttemptID, 0, 0)
	require.ErrorIs(t, err, util.ErrAttemptNotFound)
	_, err = env.quiz.Advance(view.AttemptID)
	require.ErrorIs(t, err, util.ErrAttemptNotFound)

	user, err := env.users.Current()
	require.NoError(t, err)
	assert.Empty(t, user.CourseProgress["course-acct"].CompletedModules)
	assert.Equal(t, 0, user.CourseProgress["course-acct"].OverallProgress)
}

func TestAbandonHasNoSideEffect(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)
	env.enroll(t, "course-acct")

	view, err := env.quiz.StartAttempt("course-acct", "mod-1")
	require.NoError(t, err)
	_, err = env.quiz.SelectAnswer(view.AttemptID, 0, 0)
	require.NoError(t, err)

	require.NoError(t, env.quiz.Abandon(view.AttemptID))
	require.ErrorIs(t, env.quiz.Abandon(view.AttemptID), util.ErrAttemptNotFound)

	user, err := env.users.Current()
	require.NoError(t, err)
	assert.Empty(t, user.CourseProgress["course-acct"].CompletedModules)
}
