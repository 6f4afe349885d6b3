package devices

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/sanitizer/internal/common"
	"github.com/dmitrijs2005/sanitizer/internal/server/models"
)

// ErrInjected is returned by simulated devices for configured faults.
var ErrInjected = errors.New("injected i/o fault")

// SimSpec describes a simulated device and the faults it should exhibit.
type SimSpec struct {
	Serial     string `json:"serial"`
	Model      string `json:"model"`
	Capacity   int64  `json:"capacity"`
	SectorSize int    `json:"sector_size"`

	SupportsSecureErase bool  `json:"supports_secure_erase"`
	SupportsCryptoErase bool  `json:"supports_crypto_erase"`
	EraseErr            error `json:"-"`

	// FailSector starts failing writes that touch it once it has been
	// written FailAfter times. Failures are permanent.
	FailSector *int64 `json:"fail_sector,omitempty"`
	FailAfter  int    `json:"fail_after,omitempty"`

	// TransientFailures makes the first N writes fail.
	TransientFailures int `json:"transient_failures,omitempty"`

	// CorruptSectors return inverted data on read.
	CorruptSectors []int64 `json:"corrupt_sectors,omitempty"`
	// UnreadableSectors fail on read.
	UnreadableSectors []int64 `json:"unreadable_sectors,omitempty"`

	// WriteDelay slows every write. Nanoseconds in JSON.
	WriteDelay time.Duration `json:"write_delay,omitempty"`
}

// MemoryDevice is an in-memory Handle used for development and tests.
type MemoryDevice struct {
	mu         sync.Mutex
	spec       SimSpec
	info       models.Device
	data       []byte
	writes     map[int64]int
	transients int
	closed     bool
	opens      int
	erased     int
}

func newMemoryDevice(spec SimSpec) *MemoryDevice {
	if spec.SectorSize == 0 {
		spec.SectorSize = 512
	}
	info := models.Device{
		ID:                  models.DeviceID(spec.Serial, spec.Model),
		Serial:              spec.Serial,
		Model:               spec.Model,
		Path:                "sim://" + spec.Serial,
		Capacity:            spec.Capacity,
		SectorSize:          spec.SectorSize,
		Connected:           true,
		SupportsSecureErase: spec.SupportsSecureErase,
		SupportsCryptoErase: spec.SupportsCryptoErase,
	}
	data := make([]byte, spec.Capacity)
	for i := range data {
		data[i] = 0x5A
	}
	return &MemoryDevice{
		spec:       spec,
		info:       info,
		data:       data,
		writes:     make(map[int64]int),
		transients: spec.TransientFailures,
	}
}

func (d *MemoryDevice) Identity() models.Device { return d.info }

func (d *MemoryDevice) ReadAt(p []byte, off int64) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return 0, ErrClosed
	}
	if off < 0 || off+int64(len(p)) > int64(len(d.data)) {
		return 0, ErrOutOfRange
	}
	ss := int64(d.spec.SectorSize)
	for _, s := range d.spec.UnreadableSectors {
		if overlaps(off, int64(len(p)), s*ss, ss) {
			return 0, fmt.Errorf("read sector %d: %w", s, ErrInjected)
		}
	}
	n := copy(p, d.data[off:off+int64(len(p))])
	for _, s := range d.spec.CorruptSectors {
		start := s * ss
		if !overlaps(off, int64(len(p)), start, ss) {
			continue
		}
		for i := max(start, off); i < min(start+ss, off+int64(len(p))); i++ {
			p[i-off] = ^p[i-off]
		}
	}
	return n, nil
}

func (d *MemoryDevice) WriteAt(p []byte, off int64) (int, error) {
	if d.spec.WriteDelay > 0 {
		time.Sleep(d.spec.WriteDelay)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return 0, ErrClosed
	}
	if off < 0 || off+int64(len(p)) > int64(len(d.data)) {
		return 0, ErrOutOfRange
	}
	if d.transients > 0 {
		d.transients--
		return 0, fmt.Errorf("write at %d: %w", off, ErrInjected)
	}
	ss := int64(d.spec.SectorSize)
	if fs := d.spec.FailSector; fs != nil && overlaps(off, int64(len(p)), *fs*ss, ss) {
		if d.writes[*fs] >= d.spec.FailAfter {
			return 0, fmt.Errorf("write sector %d: %w", *fs, ErrInjected)
		}
		d.writes[*fs]++
	}
	return copy(d.data[off:], p), nil
}

func (d *MemoryDevice) Flush() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}
	return nil
}

func (d *MemoryDevice) NativeErase(ctx context.Context, kind EraseKind) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}
	switch kind {
	case EraseSecure:
		if !d.spec.SupportsSecureErase {
			return ErrUnsupported
		}
	case EraseCrypto:
		if !d.spec.SupportsCryptoErase {
			return ErrUnsupported
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if d.spec.EraseErr != nil {
		return d.spec.EraseErr
	}
	for i := range d.data {
		d.data[i] = 0
	}
	d.erased++
	return nil
}

func (d *MemoryDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

// Snapshot returns a copy of the device contents.
func (d *MemoryDevice) Snapshot() []byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]byte, len(d.data))
	copy(out, d.data)
	return out
}

// Closed reports whether the last opened handle was closed.
func (d *MemoryDevice) Closed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

// Opens reports how many times the device was opened.
func (d *MemoryDevice) Opens() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.opens
}

func overlaps(off, n, start, size int64) bool {
	return off < start+size && start < off+n
}

// Simulator is a Provider backed by MemoryDevices.
type Simulator struct {
	mu      sync.Mutex
	devices map[string]*MemoryDevice
}

func NewSimulator(specs ...SimSpec) *Simulator {
	s := &Simulator{devices: make(map[string]*MemoryDevice, len(specs))}
	for _, spec := range specs {
		s.Add(spec)
	}
	return s
}

// Add attaches a new simulated device and returns it.
func (s *Simulator) Add(spec SimSpec) *MemoryDevice {
	d := newMemoryDevice(spec)
	s.mu.Lock()
	s.devices[d.info.ID] = d
	s.mu.Unlock()
	return d
}

// Device returns the simulated device with the given id.
func (s *Simulator) Device(id string) *MemoryDevice {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.devices[id]
}

func (s *Simulator) Scan(ctx context.Context) ([]models.Device, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Device, 0, len(s.devices))
	for _, d := range s.devices {
		out = append(out, d.info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Simulator) Open(ctx context.Context, deviceID string) (Handle, error) {
	s.mu.Lock()
	d, ok := s.devices[deviceID]
	s.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("open %s: %w", deviceID, common.ErrDeviceNotFound)
	}
	d.mu.Lock()
	d.closed = false
	d.opens++
	d.mu.Unlock()
	return d, nil
}
