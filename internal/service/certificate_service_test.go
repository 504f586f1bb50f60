package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"edutech_backend/internal/config"
	"edutech_backend/internal/model"
	"edutech_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueDeduplicatesPerCourse(t *testing.T) {
	env := newTestEnv(t)
	user := model.NewUser("Priya", "priya@example.com", model.Fresher)
	course, err := env.catalog.GetCourse("course-acct")
	require.NoError(t, err)

	first := env.certs.Issue(user, course)
	second := env.certs.Issue(user, course)

	assert.Equal(t, first.ID, second.ID)
	require.Len(t, user.Certificates, 1)
	assert.Equal(t, "Basics of Accounting", first.CourseName)
	assert.Equal(t, "Priya", first.UserName)
	assert.Equal(t, model.FounderName, first.FounderName)
}

func TestIssueCapturesNameAtIssuance(t *testing.T) {
	env := newTestEnv(t)
	user := model.NewUser("Priya", "priya@example.com", model.Fresher)
	course, err := env.catalog.GetCourse("course-tiny")
	require.NoError(t, err)

	cert := env.certs.Issue(user, course)
	user.Name = "Renamed Later"

	assert.Equal(t, "Priya", cert.UserName)
	assert.Equal(t, "Priya", user.Certificates[0].UserName)
}

func TestFindCertificate(t *testing.T) {
	env := newTestEnv(t)
	user := model.NewUser("Priya", "priya@example.com", model.Fresher)
	course, err := env.catalog.GetCourse("course-acct")
	require.NoError(t, err)
	issued := env.certs.Issue(user, course)

	found, err := env.certs.Find(user, issued.ID)
	require.NoError(t, err)
	assert.Equal(t, issued.ID, found.ID)

	_, err = env.certs.Find(user, "cert-nope")
	require.ErrorIs(t, err, util.ErrCertificateNotFound)
}

func TestExportWritesArtifact(t *testing.T) {
	dir := t.TempDir()
	storage := &StorageService{provider: &LocalStorageProvider{
		Config: &config.StorageConfig{LocalPath: dir},
	}}
	certs := NewCertificateService(storage)

	cat := testCatalog(t)
	user := model.NewUser("Priya", "priya@example.com", model.Fresher)
	course, err := cat.GetCourse("course-acct")
	require.NoError(t, err)
	cert := certs.Issue(user, course)

	url, err := certs.Export(context.Background(), &cert)
	require.NoError(t, err)
	assert.Equal(t, "/exports/certificates/"+cert.ID+".txt", url)

	body, err := os.ReadFile(filepath.Join(dir, "certificates", cert.ID+".txt"))
	require.NoError(t, err)
	assert.Contains(t, string(body), "CERTIFICATE OF COMPLETION")
	assert.Contains(t, string(body), "Priya")
	assert.Contains(t, string(body), "Basics of Accounting")
	assert.Contains(t, string(body), model.FounderName)
}
