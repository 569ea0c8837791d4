package reportflow

import (
	"context"

	"childguard/backend/internal/device"
	"childguard/backend/internal/models"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ReportSender posts a payload. *apiclient.Client satisfies it.
type ReportSender interface {
	SubmitReport(ctx context.Context, submission models.ReportSubmission) error
}

// Submitter turns a confirmed working copy into one request. It never retries
// and never sends a partial report.
type Submitter struct {
	Locator device.Locator
	Files   device.FileEncoder
	Client  ReportSender
	// ReporterName comes from the stored login session.
	ReporterName string
	Logger       *zap.Logger
}

func (s *Submitter) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// Submit asks for location permission, takes a fresh position fix, encodes
// all evidence and posts the report.
func (s *Submitter) Submit(ctx context.Context, work Draft) error {
	perm, err := s.Locator.RequestPermission(ctx)
	if err != nil {
		return &DeviceIOError{Op: "request location permission", Err: err}
	}
	if perm != device.Granted {
		return ErrPermissionDenied
	}

	pos, err := s.Locator.CurrentPosition(ctx)
	if err != nil {
		return &DeviceIOError{Op: "get current position", Err: err}
	}

	evidence, err := s.encodeEvidence(ctx, work.Evidence)
	if err != nil {
		return err
	}

	payload := BuildPayload(work, evidence, pos, s.ReporterName)
	if err := s.Client.SubmitReport(ctx, payload); err != nil {
		s.logger().Warn("report submission failed", zap.Error(err))
		return &SubmissionError{Err: err}
	}

	s.logger().Info("report submitted",
		zap.String("nature_of_abuse", work.NatureOfAbuse),
		zap.Int("evidence", len(evidence)))
	return nil
}

// encodeEvidence reads every attachment concurrently. The first failure
// aborts the whole batch; output order matches input order.
func (s *Submitter) encodeEvidence(ctx context.Context, uris []string) ([]models.EvidenceFile, error) {
	out := make([]models.EvidenceFile, len(uris))
	g, gctx := errgroup.WithContext(ctx)
	for i, uri := range uris {
		g.Go(func() error {
			encoded, err := s.Files.ReadAsBase64(gctx, uri)
			if err != nil {
				return &DeviceIOError{Op: "read evidence", URI: uri, Err: err}
			}
			out[i] = models.EvidenceFile{Filename: device.FileName(uri), Base64: encoded}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// BuildPayload assembles the wire body from a working copy.
func BuildPayload(work Draft, evidence []models.EvidenceFile, pos device.Position, reporterName string) models.ReportSubmission {
	if evidence == nil {
		evidence = []models.EvidenceFile{}
	}
	return models.ReportSubmission{
		AbuserName:          work.AbuserName,
		AbuserGender:        work.AbuserGender,
		AbuserAge:           work.AbuserAge,
		Relationship:        work.Relationship,
		NatureOfAbuse:       work.NatureOfAbuse,
		IncidentDescription: work.IncidentDescription,
		Location:            work.Location,
		VictimName:          work.VictimName,
		VictimDescription:   work.VictimDescription,
		VictimGender:        work.VictimGender,
		VictimAge:           work.VictimAge,
		ReporterName:        reporterName,
		ReporterPhone:       work.ReporterPhone,
		Evidence:            evidence,
		Latitude:            pos.Latitude,
		Longitude:           pos.Longitude,
		AbuserAnonymous:     work.AbuserAnonymous,
		VictimAnonymous:     work.VictimAnonymous,
	}
}
