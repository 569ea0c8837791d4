package reportflow

import (
	"context"

	"childguard/backend/internal/apiclient"
	"childguard/backend/internal/device"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Reporter is the logged-in user filing the report.
type Reporter struct {
	Name  string
	Phone string
}

// ProfileSource loads the reporter's profile.
type ProfileSource interface {
	CurrentReporter(ctx context.Context) (Reporter, error)
}

// APIProfile reads the profile of the stored session from the backend.
type APIProfile struct {
	Client  *apiclient.Client
	Session apiclient.Session
}

func (p APIProfile) CurrentReporter(ctx context.Context) (Reporter, error) {
	user, err := p.Client.WithToken(p.Session.Token).GetUser(ctx, p.Session.UserID)
	if err != nil {
		return Reporter{}, err
	}
	return Reporter{Name: user.Name, Phone: user.Phone}, nil
}

// Prefill fills the reporter phone from the profile and the location text
// from a reverse-geocoded fix. Both lookups run concurrently. The profile
// phone is authoritative: it replaces whatever was typed and locks the field.
// The location only fills an empty field. A denied location permission is not
// an error here; the user can type the location.
func (c *Controller) Prefill(ctx context.Context, profile ProfileSource, locator device.Locator) error {
	var g errgroup.Group

	if profile != nil {
		g.Go(func() error {
			r, err := profile.CurrentReporter(ctx)
			if err != nil {
				c.logger.Warn("profile prefill failed", zap.Error(err))
				return err
			}
			c.setProfilePhone(r.Phone)
			return nil
		})
	}

	if locator != nil {
		g.Go(func() error {
			perm, err := locator.RequestPermission(ctx)
			if err != nil || perm != device.Granted {
				return err
			}
			pos, err := locator.CurrentPosition(ctx)
			if err != nil {
				c.logger.Warn("location prefill failed", zap.Error(err))
				return err
			}
			addr, err := locator.ReverseGeocode(ctx, pos)
			if err != nil {
				c.logger.Warn("reverse geocode failed", zap.Error(err))
				return err
			}
			c.setIfEmpty(FieldLocation, addr.Label())
			return nil
		})
	}

	return g.Wait()
}

func (c *Controller) setProfilePhone(phone string) {
	if phone == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft.ReporterPhone = phone
	c.phoneFromProfile = true
}

func (c *Controller) setIfEmpty(f Field, value string) {
	if value == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.draft.Get(f) == "" {
		c.draft.Set(f, value)
	}
}
