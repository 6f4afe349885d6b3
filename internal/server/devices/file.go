package devices

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/dmitrijs2005/sanitizer/internal/common"
	"github.com/dmitrijs2005/sanitizer/internal/server/models"
)

// InventoryEntry describes a block device or image file. Identity comes from
// the inventory because raw identify commands are outside this module.
type InventoryEntry struct {
	Path       string `json:"path"`
	Serial     string `json:"serial"`
	Model      string `json:"model"`
	SectorSize int    `json:"sector_size"`
}

// FileProvider opens devices through the operating system's file interface.
type FileProvider struct {
	mu        sync.Mutex
	inventory []InventoryEntry
}

func NewFileProvider(inventory []InventoryEntry) *FileProvider {
	return &FileProvider{inventory: inventory}
}

func (p *FileProvider) Scan(ctx context.Context) ([]models.Device, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]models.Device, 0, len(p.inventory))
	for _, e := range p.inventory {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out = append(out, describe(e))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (p *FileProvider) Open(ctx context.Context, deviceID string) (Handle, error) {
	p.mu.Lock()
	var entry *InventoryEntry
	for i := range p.inventory {
		if models.DeviceID(p.inventory[i].Serial, p.inventory[i].Model) == deviceID {
			entry = &p.inventory[i]
			break
		}
	}
	p.mu.Unlock()

	if entry == nil {
		return nil, fmt.Errorf("open %s: %w", deviceID, common.ErrDeviceNotFound)
	}
	f, err := os.OpenFile(entry.Path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", entry.Path, err)
	}
	info := describe(*entry)
	if !info.Connected {
		f.Close()
		return nil, fmt.Errorf("open %s: %w", entry.Path, common.ErrDeviceNotFound)
	}
	return &fileHandle{f: f, info: info}, nil
}

func describe(e InventoryEntry) models.Device {
	ss := e.SectorSize
	if ss == 0 {
		ss = 512
	}
	d := models.Device{
		ID:         models.DeviceID(e.Serial, e.Model),
		Serial:     e.Serial,
		Model:      e.Model,
		Path:       e.Path,
		SectorSize: ss,
	}
	if st, err := os.Stat(e.Path); err == nil {
		d.Connected = true
		d.Capacity = st.Size() - st.Size()%int64(ss)
	}
	return d
}

type fileHandle struct {
	f    *os.File
	info models.Device
}

func (h *fileHandle) Identity() models.Device { return h.info }

func (h *fileHandle) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off+int64(len(p)) > h.info.Capacity {
		return 0, ErrOutOfRange
	}
	return h.f.ReadAt(p, off)
}

func (h *fileHandle) WriteAt(p []byte, off int64) (int, error) {
	if off < 0 || off+int64(len(p)) > h.info.Capacity {
		return 0, ErrOutOfRange
	}
	return h.f.WriteAt(p, off)
}

func (h *fileHandle) Flush() error { return h.f.Sync() }

func (h *fileHandle) NativeErase(ctx context.Context, kind EraseKind) error {
	return ErrUnsupported
}

func (h *fileHandle) Close() error { return h.f.Close() }
