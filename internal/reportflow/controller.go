package reportflow

import (
	"context"
	"sync"

	"childguard/backend/internal/config"
	"childguard/backend/internal/device"

	"go.uber.org/zap"
)

// EvidenceSource picks where a new attachment comes from.
type EvidenceSource int

const (
	FromLibrary EvidenceSource = iota
	FromCamera
)

// Outcome is the result of a Submit call that did not fail.
type Outcome int

const (
	Cancelled Outcome = iota
	Submitted
)

// Controller owns one draft and the step index. It is safe for concurrent
// use so prefill lookups can land while the user is typing.
type Controller struct {
	mu    sync.Mutex
	draft Draft
	step  Step

	// phoneFromProfile locks the reporter phone once the profile supplied it.
	phoneFromProfile bool

	picker    device.ImagePicker
	gate      *Gate
	submitter *Submitter
	logger    *zap.Logger
}

func NewController(picker device.ImagePicker, gate *Gate, submitter *Submitter, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		step:      Step1,
		picker:    picker,
		gate:      gate,
		submitter: submitter,
		logger:    logger,
	}
}

func (c *Controller) Step() Step {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.step
}

// Draft returns a copy of the current draft.
func (c *Controller) Draft() Draft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft.Clone()
}

// Load replaces the draft, for front-ends that collect all fields up front.
// A profile-sourced phone survives the swap.
func (c *Controller) Load(d Draft) {
	c.mu.Lock()
	defer c.mu.Unlock()
	phone := c.draft.ReporterPhone
	c.draft = d.Clone()
	if c.phoneFromProfile {
		c.draft.ReporterPhone = phone
	}
}

// SetField writes one field. Values are not validated until submission.
// The reporter phone is read-only once the profile has supplied it.
func (c *Controller) SetField(f Field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if f == FieldReporterPhone && c.phoneFromProfile {
		return ErrReadOnlyField
	}
	return c.draft.Set(f, value)
}

// Advance moves forward one step, saturating at Step3. The current step's
// fields are not checked.
func (c *Controller) Advance() Step {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.step < Step3 {
		c.step++
	}
	return c.step
}

// Retreat moves back one step, saturating at Step1.
func (c *Controller) Retreat() Step {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.step > Step1 {
		c.step--
	}
	return c.step
}

// ToggleAnonymous flips the flag for role and returns its new value. Names,
// genders and ages are left as typed; substitution happens in PrepareSubmission.
func (c *Controller) ToggleAnonymous(role Role) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch role {
	case Perpetrator:
		c.draft.AbuserAnonymous = !c.draft.AbuserAnonymous
		return c.draft.AbuserAnonymous
	default:
		c.draft.VictimAnonymous = !c.draft.VictimAnonymous
		return c.draft.VictimAnonymous
	}
}

// AttachEvidence opens the picker and appends the chosen file. It reports
// false when the user cancelled.
func (c *Controller) AttachEvidence(ctx context.Context, source EvidenceSource) (bool, error) {
	if c.Step() != Step2 {
		return false, ErrWrongStep
	}

	var (
		res device.PickResult
		err error
	)
	if source == FromCamera {
		res, err = c.picker.CaptureFromCamera(ctx)
	} else {
		res, err = c.picker.PickFromLibrary(ctx)
	}
	if err != nil {
		return false, &DeviceIOError{Op: "pick evidence", Err: err}
	}
	if res.Cancelled || res.URI == "" {
		return false, nil
	}

	c.mu.Lock()
	c.draft.Evidence = append(c.draft.Evidence, res.URI)
	c.mu.Unlock()
	return true, nil
}

// PrepareSubmission builds the working copy: anonymous roles get "Unknown"
// as name and, when left empty, as gender and age. It fails with a
// *ValidationError if any required field is still empty.
func (c *Controller) PrepareSubmission() (Draft, error) {
	work := c.Draft()

	if work.AbuserAnonymous {
		work.AbuserName = config.UnknownValue
		work.AbuserGender = orUnknown(work.AbuserGender)
		work.AbuserAge = orUnknown(work.AbuserAge)
	}
	if work.VictimAnonymous {
		work.VictimName = config.UnknownValue
		work.VictimGender = orUnknown(work.VictimGender)
		work.VictimAge = orUnknown(work.VictimAge)
	}

	if missing := work.Missing(); len(missing) > 0 {
		return Draft{}, &ValidationError{Missing: missing}
	}
	return work, nil
}

func orUnknown(v string) string {
	if v == "" {
		return config.UnknownValue
	}
	return v
}

// Submit runs prepare, confirmation and submission. The draft is reset only
// after the backend accepted the report; on cancel or any error it is left
// untouched and the form stays on the current step.
func (c *Controller) Submit(ctx context.Context) (Outcome, error) {
	work, err := c.PrepareSubmission()
	if err != nil {
		return Cancelled, err
	}

	approved, err := c.gate.Confirm(ctx, work)
	if err != nil {
		return Cancelled, err
	}
	if !approved {
		c.logger.Debug("report submission cancelled at confirmation")
		return Cancelled, nil
	}

	if err := c.submitter.Submit(ctx, work); err != nil {
		return Cancelled, err
	}

	c.Reset()
	return Submitted, nil
}

// Reset discards the draft and returns to Step1.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = Draft{}
	c.step = Step1
	c.phoneFromProfile = false
}
