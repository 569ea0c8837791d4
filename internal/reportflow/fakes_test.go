package reportflow_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"childguard/backend/internal/device"
	"childguard/backend/internal/models"
	"childguard/backend/internal/reportflow"

	"github.com/stretchr/testify/mock"
)

type fakeLocator struct {
	mu          sync.Mutex
	perm        device.Permission
	pos         device.Position
	posErr      error
	addr        device.Address
	permissions int
}

func (l *fakeLocator) RequestPermission(ctx context.Context) (device.Permission, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.permissions++
	return l.perm, nil
}

func (l *fakeLocator) CurrentPosition(ctx context.Context) (device.Position, error) {
	return l.pos, l.posErr
}

func (l *fakeLocator) ReverseGeocode(ctx context.Context, pos device.Position) (device.Address, error) {
	return l.addr, nil
}

// fakeFiles returns "b64:<uri>" and sleeps longer for earlier files so
// completion order is the reverse of attach order.
type fakeFiles struct {
	fail map[string]error
}

func (f fakeFiles) ReadAsBase64(ctx context.Context, uri string) (string, error) {
	if err, ok := f.fail[uri]; ok {
		return "", err
	}
	delay := 30 * time.Millisecond
	if uri == "file:///evidence/B.jpg" {
		delay = 0
	}
	select {
	case <-time.After(delay):
	case <-ctx.Done():
		return "", ctx.Err()
	}
	return "b64:" + uri, nil
}

type capturingSender struct {
	mu    sync.Mutex
	calls int
	got   models.ReportSubmission
	err   error
}

func (s *capturingSender) SubmitReport(ctx context.Context, submission models.ReportSubmission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.got = submission
	return s.err
}

type MockConfirmer struct {
	mock.Mock
}

func (m *MockConfirmer) Confirm(ctx context.Context, summary reportflow.Summary) (bool, error) {
	args := m.Called(summary)
	return args.Bool(0), args.Error(1)
}

type fakeProfile struct {
	reporter reportflow.Reporter
	err      error
}

func (p fakeProfile) CurrentReporter(ctx context.Context) (reportflow.Reporter, error) {
	return p.reporter, p.err
}

var errUnreadable = errors.New("unreadable")

func completeDraft() reportflow.Draft {
	return reportflow.Draft{
		AbuserName:          "Juan Dela Cruz",
		AbuserGender:        "Male",
		AbuserAge:           "36-45",
		Relationship:        "Neighbor",
		NatureOfAbuse:       "Physical Abuse",
		IncidentDescription: "Hit the child with a belt",
		Location:            "Quezon City",
		VictimName:          "Maria",
		VictimDescription:   "Girl, about 8, bruises on arms",
		VictimGender:        "Female",
		VictimAge:           "6-12",
		ReporterPhone:       "09171234567",
	}
}

type harness struct {
	ctrl      *reportflow.Controller
	locator   *fakeLocator
	sender    *capturingSender
	confirmer *MockConfirmer
	picker    *device.QueuePicker
}

func newHarness(library ...string) *harness {
	h := &harness{
		locator:   &fakeLocator{perm: device.Granted, pos: device.Position{Latitude: 14.676, Longitude: 121.0437}},
		sender:    &capturingSender{},
		confirmer: new(MockConfirmer),
		picker:    device.NewQueuePicker(library, nil),
	}
	submitter := &reportflow.Submitter{
		Locator:      h.locator,
		Files:        fakeFiles{},
		Client:       h.sender,
		ReporterName: "Reporter Ana",
	}
	h.ctrl = reportflow.NewController(h.picker, reportflow.NewGate(nil, h.confirmer), submitter, nil)
	return h
}
