package model

import (
	"time"

	"github.com/google/uuid"
)

type ExperienceLevel string

const (
	Fresher      ExperienceLevel = "fresher"
	Associate    ExperienceLevel = "associate"
	Analyst      ExperienceLevel = "analyst"
	Professional ExperienceLevel = "professional"
)

func (l ExperienceLevel) Valid() bool {
	switch l {
	case Fresher, Associate, Analyst, Professional:
		return true
	}
	return false
}

// User is the single persisted record. Every mutation overwrites the whole
// object in the snapshot store; there are no partial updates.
// swagger:model User
type User struct {
	ID              string                     `json:"id"`
	Name            string                     `json:"name"`
	Email           string                     `json:"email"`
	ExperienceLevel ExperienceLevel            `json:"experienceLevel"`
	EnrolledCourses []string                   `json:"enrolledCourses"`
	CourseProgress  map[string]*CourseProgress `json:"courseProgress"`
	Certificates    []Certificate              `json:"certificates"`
}

func NewUser(name, email string, level ExperienceLevel) *User {
	return &User{
		ID:              uuid.New().String(),
		Name:            name,
		Email:           email,
		ExperienceLevel: level,
		EnrolledCourses: []string{},
		CourseProgress:  map[string]*CourseProgress{},
		Certificates:    []Certificate{},
	}
}

func (u *User) IsEnrolled(courseID string) bool {
	for _, id := range u.EnrolledCourses {
		if id == courseID {
			return true
		}
	}
	return false
}

func (u *User) HasCertificate(courseID string) bool {
	for _, cert := range u.Certificates {
		if cert.CourseID == courseID {
			return true
		}
	}
	return false
}

// Clone deep-copies the record so readers never share state with the
// serialized mutation path.
func (u *User) Clone() *User {
	out := *u
	out.EnrolledCourses = append([]string(nil), u.EnrolledCourses...)
	out.Certificates = append([]Certificate(nil), u.Certificates...)
	out.CourseProgress = make(map[string]*CourseProgress, len(u.CourseProgress))
	for id, p := range u.CourseProgress {
		out.CourseProgress[id] = p.Clone()
	}
	return &out
}

// CourseProgress tracks one (user, course) pair. OverallProgress is always
// derived from CompletedModules and the catalog module count; a stored
// value is only a display cache and is recomputed on snapshot load.
// swagger:model CourseProgress
type CourseProgress struct {
	CourseID           string         `json:"courseId"`
	CompletedModules   []string       `json:"completedModules"`
	CurrentModuleIndex int            `json:"currentModuleIndex"`
	OverallProgress    int            `json:"overallProgress"`
	QuizScores         map[string]int `json:"quizScores"`
	LastAccessedAt     time.Time      `json:"lastAccessedAt"`
}

func NewCourseProgress(courseID string, now time.Time) *CourseProgress {
	return &CourseProgress{
		CourseID:           courseID,
		CompletedModules:   []string{},
		CurrentModuleIndex: 0,
		OverallProgress:    0,
		QuizScores:         map[string]int{},
		LastAccessedAt:     now,
	}
}

// IsModuleCompleted reports set membership in CompletedModules.
func (p *CourseProgress) IsModuleCompleted(moduleID string) bool {
	for _, id := range p.CompletedModules {
		if id == moduleID {
			return true
		}
	}
	return false
}

func (p *CourseProgress) Clone() *CourseProgress {
	out := *p
	out.CompletedModules = append([]string(nil), p.CompletedModules...)
	out.QuizScores = make(map[string]int, len(p.QuizScores))
	for id, s := range p.QuizScores {
		out.QuizScores[id] = s
	}
	return &out
}

// ModuleState is the derived unlock state of one module for one user.
type ModuleState string

const (
	ModuleLocked    ModuleState = "locked"
	ModuleCurrent   ModuleState = "current"
	ModuleCompleted ModuleState = "completed"
	ModuleUpcoming  ModuleState = "upcoming"
)
