package model

import (
	"time"

	"github.com/google/uuid"
)

// FounderName is printed on every certificate.
const FounderName = "Surendar"

// Certificate is immutable once issued. Course and user names are captured
// at issuance time so later catalog or profile edits never rewrite it.
// swagger:model Certificate
type Certificate struct {
	ID          string    `json:"id"`
	CourseID    string    `json:"courseId"`
	CourseName  string    `json:"courseName"`
	UserName    string    `json:"userName"`
	CompletedAt time.Time `json:"completedAt"`
	FounderName string    `json:"founderName"`
}

func NewCertificate(courseID, courseName, userName string, at time.Time) Certificate {
	return Certificate{
		ID:          uuid.New().String(),
		CourseID:    courseID,
		CourseName:  courseName,
		UserName:    userName,
		CompletedAt: at,
		FounderName: FounderName,
	}
}
