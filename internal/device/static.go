package device

import (
	"context"
	"errors"
	"sync"
)

// ErrNoPosition is returned by StaticLocator when no fix is configured.
var ErrNoPosition = errors.New("device: position unavailable")

// Geocoder labels a coordinate pair. *apiclient.Client satisfies it.
type Geocoder interface {
	Locate(ctx context.Context, lat, lon float64) (string, error)
}

// StaticLocator serves a fixed position, for terminals without a GPS.
type StaticLocator struct {
	Permission Permission
	Position   *Position
	// Geocoder is optional; without it ReverseGeocode returns an empty Address.
	Geocoder Geocoder
}

func (l StaticLocator) RequestPermission(ctx context.Context) (Permission, error) {
	return l.Permission, nil
}

func (l StaticLocator) CurrentPosition(ctx context.Context) (Position, error) {
	if l.Position == nil {
		return Position{}, ErrNoPosition
	}
	return *l.Position, nil
}

func (l StaticLocator) ReverseGeocode(ctx context.Context, pos Position) (Address, error) {
	if l.Geocoder == nil {
		return Address{}, nil
	}
	label, err := l.Geocoder.Locate(ctx, pos.Latitude, pos.Longitude)
	if err != nil {
		return Address{}, err
	}
	return Address{Name: label}, nil
}

// QueuePicker hands out pre-selected files in order. An exhausted queue
// behaves like the user cancelling the picker.
type QueuePicker struct {
	mu      sync.Mutex
	library []string
	camera  []string
}

func NewQueuePicker(library, camera []string) *QueuePicker {
	return &QueuePicker{
		library: append([]string(nil), library...),
		camera:  append([]string(nil), camera...),
	}
}

func (p *QueuePicker) PickFromLibrary(ctx context.Context) (PickResult, error) {
	return p.next(&p.library), nil
}

func (p *QueuePicker) CaptureFromCamera(ctx context.Context) (PickResult, error) {
	return p.next(&p.camera), nil
}

func (p *QueuePicker) next(queue *[]string) PickResult {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(*queue) == 0 {
		return PickResult{Cancelled: true}
	}
	uri := (*queue)[0]
	*queue = (*queue)[1:]
	return PickResult{URI: uri}
}

// Remaining reports how many library and camera picks are left.
func (p *QueuePicker) Remaining() (library, camera int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.library), len(p.camera)
}
