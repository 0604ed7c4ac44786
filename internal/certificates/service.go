// Package certificates issues and verifies track-completion certificates.
// A certificate is immutable once written: its id, name and title snapshots,
// and issuance time never change, and re-issuing for the same (user, track)
// pair always returns the original row.
package certificates

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Kiko915/techterview-mainapp-sub001/internal/domain"
	"github.com/Kiko915/techterview-mainapp-sub001/internal/logger"
	"github.com/Kiko915/techterview-mainapp-sub001/internal/store"
)

// certificateNamespace seeds the deterministic certificate id. Two racing
// issuance attempts for one (user, track) pair compute the same id and
// collide on the primary key, so at most one row ever exists.
var certificateNamespace = uuid.MustParse("7c9e6679-7425-40de-944b-e07fc1f90ae7")

// IDFor returns the certificate id for a (user, track) pair.
func IDFor(userID uuid.UUID, trackID string) uuid.UUID {
	return uuid.NewSHA1(certificateNamespace, []byte(userID.String()+":"+trackID))
}

// Service issues, lists, and verifies certificates.
type Service struct {
	certs store.CertificateRepo

	// publicOrigin is the web client origin embedded in verification URLs.
	publicOrigin string

	log *logger.Logger
}

func NewService(certs store.CertificateRepo, publicOrigin string, log *logger.Logger) *Service {
	return &Service{
		certs:        certs,
		publicOrigin: strings.TrimRight(publicOrigin, "/"),
		log:          log.With("service", "certificates"),
	}
}

// Issue creates the certificate for the pair, or returns the existing one.
// trackTitle and userName are frozen into the row at first issuance; later
// calls never update them.
func (s *Service) Issue(ctx context.Context, userID uuid.UUID, trackID, trackTitle, userName string) (*domain.Certificate, error) {
	cert := &domain.Certificate{
		ID:         IDFor(userID, trackID),
		UserID:     userID,
		TrackID:    trackID,
		TrackTitle: trackTitle,
		UserName:   userName,
		IssuedAt:   time.Now().UTC(),
	}

	stored, err := s.certs.CreateIfAbsent(ctx, cert)
	if err != nil {
		return nil, fmt.Errorf("issue certificate: %w", err)
	}
	if stored.IssuedAt.Equal(cert.IssuedAt) {
		s.log.Info("certificate issued",
			"certificateId", stored.ID.String(),
			"userId", userID.String(),
			"trackId", trackID,
		)
	}
	return stored, nil
}

// Verify resolves a certificate id for the public verification page. It
// requires no authentication; the id itself is the capability. Unknown ids
// return store.ErrNotFound.
func (s *Service) Verify(ctx context.Context, id uuid.UUID) (*domain.Certificate, error) {
	return s.certs.GetByID(ctx, id)
}

// Get returns one of the user's certificates after an ownership check.
func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*domain.Certificate, error) {
	cert, err := s.certs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cert.UserID != userID {
		return nil, store.ErrNotFound
	}
	return cert, nil
}

// ListForUser returns the user's certificates, newest first.
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Certificate, error) {
	return s.certs.ListByUser(ctx, userID)
}

// VerificationURL is the public link encoded into the certificate QR code.
func (s *Service) VerificationURL(id uuid.UUID) string {
	return s.publicOrigin + "/verify/" + id.String()
}
