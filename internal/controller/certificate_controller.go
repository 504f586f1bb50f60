package controller

import (
	"edutech_backend/internal/service"
	"edutech_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CertificateController struct {
	CertificateService *service.CertificateService
	UserService        *service.UserService
}

func NewCertificateController(certService *service.CertificateService, userService *service.UserService) *CertificateController {
	return &CertificateController{
		CertificateService: certService,
		UserService:        userService,
	}
}

// ListCertificates godoc
// @Summary List earned certificates
// @Tags certificates
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Certificate}
// @Failure 401 {object} util.Response "No active profile"
// @Router /api/certificates [get]
func (c *CertificateController) ListCertificates(ctx *gin.Context) {
	user, err := c.UserService.Current()
	if err != nil {
		util.FailFromError(ctx, err)
		return
	}
	util.Success(ctx, user.Certificates)
}

// ExportCertificate godoc
// @Summary Export a certificate artifact
// @Description Renders the certificate to a file through the configured storage provider and returns its URL.
// @Tags certificates
// @Produce  json
// @Security ApiKeyAuth
// @Param   certificateId path string true "Certificate ID"
// @Success 200 {object} util.Response{data=object}
// @Failure 401 {object} util.Response "No active profile"
// @Failure 404 {object} util.Response "Certificate not found"
// @Router /api/certificates/{certificateId}/export [post]
func (c *CertificateController) ExportCertificate(ctx *gin.Context) {
	user, err := c.UserService.Current()
	if err != nil {
		util.FailFromError(ctx, err)
		return
	}

	cert, err := c.CertificateService.Find(user, ctx.Param("certificateId"))
	if err != nil {
		util.FailFromError(ctx, err)
		return
	}

	url, err := c.CertificateService.Export(ctx.Request.Context(), cert)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"url": url})
}
