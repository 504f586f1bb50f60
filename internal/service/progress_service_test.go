package service

import (
	"context"
	"testing"
	"time"

	"edutech_backend/internal/model"
	"edutech_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrollUnknownCourse(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	_, err := env.progress.Enroll(context.Background(), "course-nope")
	require.ErrorIs(t, err, util.ErrCourseNotFound)
}

func TestEnrollIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	first, err := env.progress.Enroll(context.Background(), "course-acct")
	require.NoError(t, err)
	require.Equal(t, 0, first.CurrentModuleIndex)
	require.Empty(t, first.CompletedModules)

	// Make some progress, then enroll again.
	env.passModule(t, "course-acct", "mod-1")

	again, err := env.progress.Enroll(context.Background(), "course-acct")
	require.NoError(t, err)
	assert.Equal(t, []string{"mod-1"}, again.CompletedModules)

	user, err := env.users.Current()
	require.NoError(t, err)
	assert.Equal(t, []string{"course-acct"}, user.EnrolledCourses)
}

func TestModuleStateUnlockChain(t *testing.T) {
	env := newTestEnv(t)
	course, err := env.catalog.GetCourse("course-acct")
	require.NoError(t, err)

	// Not enrolled: everything locked.
	for i := range course.Modules {
		assert.Equal(t, model.ModuleLocked, ModuleState(course, nil, i))
	}

	// Freshly enrolled: first module current, the rest locked.
	progress := model.NewCourseProgress("course-acct", time.Now())
	assert.Equal(t, model.ModuleCurrent, ModuleState(course, progress, 0))
	assert.Equal(t, model.ModuleLocked, ModuleState(course, progress, 1))
	assert.Equal(t, model.ModuleLocked, ModuleState(course, progress, 2))

	// First module done: it reads completed, the second unlocks.
	progress.CompletedModules = []string{"mod-1"}
	progress.CurrentModuleIndex = 1
	assert.Equal(t, model.ModuleCompleted, ModuleState(course, progress, 0))
	assert.Equal(t, model.ModuleCurrent, ModuleState(course, progress, 1))
	assert.Equal(t, model.ModuleLocked, ModuleState(course, progress, 2))

	// Unlocked but not the pointer target reads upcoming.
	progress.CurrentModuleIndex = 0
	assert.Equal(t, model.ModuleUpcoming, ModuleState(course, progress, 1))
}

func TestRecordQuizPassDerivesProgress(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)
	env.enroll(t, "course-acct")

	progress, completed, err := env.progress.RecordQuizPass(context.Background(), "course-acct", "mod-1", 100)
	require.NoError(t, err)
	assert.False(t, completed)
	assert.Equal(t, []string{"mod-1"}, progress.CompletedModules)
	assert.Equal(t, 1, progress.CurrentModuleIndex)
	assert.Equal(t, 33, progress.OverallProgress)
	assert.Equal(t, 100, progress.QuizScores["mod-1"])
}

func TestRecordQuizPassIsSetInsert(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)
	env.enroll(t, "course-acct")

	_, _, err := env.progress.RecordQuizPass(context.Background(), "course-acct", "mod-1", 100)
	require.NoError(t, err)

	// Re-passing the same module keeps one entry and overwrites the score.
	progress, completed, err := env.progress.RecordQuizPass(context.Background(), "course-acct", "mod-1", 80)
	require.NoError(t, err)
	assert.False(t, completed)
	assert.Equal(t, []string{"mod-1"}, progress.CompletedModules)
	assert.Equal(t, 33, progress.OverallProgress)
	assert.Equal(t, 80, progress.QuizScores["mod-1"])
}

func TestRecordQuizPassRejectsLockedModule(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)
	env.enroll(t, "course-acct")

	// The second module stays locked until the first is completed, even
	// for a caller that skips the attempt lifecycle.
	_, _, err := env.progress.RecordQuizPass(context.Background(), "course-acct", "mod-2", 100)
	require.ErrorIs(t, err, util.ErrModuleLocked)

	user, err := env.users.Current()
	require.NoError(t, err)
	assert.Empty(t, user.CourseProgress["course-acct"].CompletedModules)
}

func TestEnrollBackfillsMissingProgress(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	// A snapshot can hold the enrollment without its progress record.
	_, err := env.users.Update(context.Background(), func(u *model.User) error {
		u.EnrolledCourses = append(u.EnrolledCourses, "course-acct")
		return nil
	})
	require.NoError(t, err)

	progress, err := env.progress.Enroll(context.Background(), "course-acct")
	require.NoError(t, err)
	require.NotNil(t, progress)

	user, err := env.users.Current()
	require.NoError(t, err)
	assert.Equal(t, []string{"course-acct"}, user.EnrolledCourses)
	require.NotNil(t, user.CourseProgress["course-acct"])
}

func TestRecordQuizPassRequiresEnrollment(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	_, _, err := env.progress.RecordQuizPass(context.Background(), "course-acct", "mod-1", 100)
	require.ErrorIs(t, err, util.ErrNotEnrolled)
}

func TestIndexSaturatesOnLastModule(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)
	env.enroll(t, "course-tiny")

	progress, completed, err := env.progress.RecordQuizPass(context.Background(), "course-tiny", "tiny-1", 100)
	require.NoError(t, err)
	assert.True(t, completed)
	assert.Equal(t, 0, progress.CurrentModuleIndex)
	assert.Equal(t, 100, progress.OverallProgress)
}

func TestCourseWalkthroughIssuesOneCertificate(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)
	env.enroll(t, "course-acct")

	wantProgress := []int{33, 67, 100}
	for i, moduleID := range []string{"mod-1", "mod-2", "mod-3"} {
		result := env.passModule(t, "course-acct", moduleID)
		assert.Equal(t, wantProgress[i], result.Progress.OverallProgress)
		assert.Equal(t, i == 2, result.CourseCompleted)
	}

	user, err := env.users.Current()
	require.NoError(t, err)
	require.Len(t, user.Certificates, 1)

	cert := user.Certificates[0]
	assert.Equal(t, "course-acct", cert.CourseID)
	assert.Equal(t, "Basics of Accounting", cert.CourseName)
	assert.Equal(t, "Priya", cert.UserName)
	assert.Equal(t, model.FounderName, cert.FounderName)

	// Re-passing a module at 100% must not mint a second certificate.
	env.passModule(t, "course-acct", "mod-2")
	user, err = env.users.Current()
	require.NoError(t, err)
	assert.Len(t, user.Certificates, 1)
}

func TestOverviewDerivesStates(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	// Unenrolled overview shows all modules locked.
	overview, err := env.progress.Overview("course-acct")
	require.NoError(t, err)
	assert.False(t, overview.Enrolled)
	for _, mod := range overview.Modules {
		assert.Equal(t, model.ModuleLocked, mod.State)
	}

	env.enroll(t, "course-acct")
	env.passModule(t, "course-acct", "mod-1")

	overview, err = env.progress.Overview("course-acct")
	require.NoError(t, err)
	assert.True(t, overview.Enrolled)
	assert.Equal(t, 33, overview.OverallProgress)
	require.Len(t, overview.Modules, 3)
	assert.Equal(t, model.ModuleCompleted, overview.Modules[0].State)
	assert.Equal(t, model.ModuleCurrent, overview.Modules[1].State)
	assert.Equal(t, model.ModuleLocked, overview.Modules[2].State)

	require.NotNil(t, overview.Modules[0].QuizScore)
	assert.Equal(t, 100, *overview.Modules[0].QuizScore)
	assert.Nil(t, overview.Modules[1].QuizScore)
}
