package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"edutech_backend/internal/model"
	"edutech_backend/internal/util"
)

// CertificateService issues and exports completion certificates. Issuance
// happens exactly once per (user, course): the courseID dedup guard runs
// even if completion recomputation fires more than once.
type CertificateService struct {
	storage *StorageService
}

func NewCertificateService(storage *StorageService) *CertificateService {
	return &CertificateService{storage: storage}
}

// Issue appends a new certificate to the user record, capturing course and
// recipient names at this instant. Callers check HasCertificate first; the
// guard here is the last line of defense against duplicates.
func (s *CertificateService) Issue(user *model.User, course *model.Course) model.Certificate {
	for _, existing := range user.Certificates {
		if existing.CourseID == course.ID {
			return existing
		}
	}
	cert := model.NewCertificate(course.ID, course.Title, user.Name, time.Now())
	user.Certificates = append(user.Certificates, cert)
	return cert
}

func (s *CertificateService) Find(user *model.User, certificateID string) (*model.Certificate, error) {
	for i := range user.Certificates {
		if user.Certificates[i].ID == certificateID {
			return &user.Certificates[i], nil
		}
	}
	return nil, util.ErrCertificateNotFound
}

// Export renders the certificate to a small text artifact and stores it
// through the configured storage provider, returning the artifact URL.
func (s *CertificateService) Export(ctx context.Context, cert *model.Certificate) (string, error) {
	body := renderCertificate(cert)
	filename := fmt.Sprintf("certificates/%s.txt", cert.ID)
	return s.storage.Provider().Upload(ctx, filename, bytes.NewReader(body), int64(len(body)), "text/plain; charset=utf-8")
}

func renderCertificate(cert *model.Certificate) []byte {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "CERTIFICATE OF COMPLETION")
	fmt.Fprintln(&buf)
	fmt.Fprintf(&buf, "This certifies that %s\n", cert.UserName)
	fmt.Fprintf(&buf, "has successfully completed the course\n")
	fmt.Fprintf(&buf, "%q\n", cert.CourseName)
	fmt.Fprintln(&buf)
	fmt.Fprintf(&buf, "Completed on: %s\n", cert.CompletedAt.Format(util.DateFormat))
	fmt.Fprintf(&buf, "Certificate ID: %s\n", cert.ID)
	fmt.Fprintf(&buf, "Founder: %s\n", cert.FounderName)
	return buf.Bytes()
}
