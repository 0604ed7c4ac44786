package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Kiko915/techterview-mainapp-sub001/internal/certificates"
)

func certificateID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid certificate id")
		return uuid.Nil, false
	}
	return id, true
}

// handleVerifyCertificate serves the public verification endpoint. No auth:
// possession of the id is the capability.
func (s *Server) handleVerifyCertificate(c *gin.Context) {
	id, ok := certificateID(c)
	if !ok {
		return
	}
	cert, err := s.certs.Verify(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"valid":       true,
		"certificate": cert,
	})
}

func (s *Server) handleListCertificates(c *gin.Context) {
	certs, err := s.certs.ListForUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"certificates": certs})
}

func (s *Server) handleCertificateImage(c *gin.Context) {
	id, ok := certificateID(c)
	if !ok {
		return
	}
	cert, err := s.certs.Get(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		fail(c, err)
		return
	}

	png, err := s.certs.RenderPNG(cert)
	if err != nil {
		fail(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

func (s *Server) handleCertificateDownload(c *gin.Context) {
	id, ok := certificateID(c)
	if !ok {
		return
	}
	cert, err := s.certs.Get(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		fail(c, err)
		return
	}

	pdf, err := s.certs.ExportPDF(cert)
	if err != nil {
		fail(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+certificates.ExportFilename(cert)+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
