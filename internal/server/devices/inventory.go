package devices

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/dmitrijs2005/sanitizer/internal/common"
	"github.com/dmitrijs2005/sanitizer/internal/server/models"
)

// Inventory is the on-disk list of devices the server may sanitize.
type Inventory struct {
	Files     []InventoryEntry `json:"files"`
	Simulated []SimSpec        `json:"simulated"`
}

// DefaultSimulated is used when no inventory file is configured.
func DefaultSimulated() []SimSpec {
	return []SimSpec{
		{Serial: "SIM-0001", Model: "Simulated SSD", Capacity: 8 << 20, SectorSize: 512, SupportsSecureErase: true, SupportsCryptoErase: true},
		{Serial: "SIM-0002", Model: "Simulated HDD", Capacity: 8 << 20, SectorSize: 4096},
	}
}

// LoadInventory reads an inventory file and returns a Provider covering
// every device it lists. An empty path yields the default simulators.
func LoadInventory(path string) (Provider, error) {
	if path == "" {
		return NewSimulator(DefaultSimulated()...), nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read inventory: %w", err)
	}

	var inv Inventory
	if err := json.Unmarshal(b, &inv); err != nil {
		return nil, fmt.Errorf("parse inventory: %w", err)
	}

	var providers []Provider
	if len(inv.Files) > 0 {
		providers = append(providers, NewFileProvider(inv.Files))
	}
	if len(inv.Simulated) > 0 {
		providers = append(providers, NewSimulator(inv.Simulated...))
	}
	if len(providers) == 0 {
		return nil, errors.New("inventory lists no devices")
	}
	if len(providers) == 1 {
		return providers[0], nil
	}
	return Multi(providers...), nil
}

// MultiProvider merges several providers. Device IDs are assumed unique
// across them; the first provider reporting an ID wins.
type MultiProvider struct {
	providers []Provider
}

func Multi(providers ...Provider) *MultiProvider {
	return &MultiProvider{providers: providers}
}

func (m *MultiProvider) Scan(ctx context.Context) ([]models.Device, error) {
	seen := make(map[string]struct{})
	var out []models.Device
	for _, p := range m.providers {
		devs, err := p.Scan(ctx)
		if err != nil {
			return nil, err
		}
		for _, d := range devs {
			if _, ok := seen[d.ID]; ok {
				continue
			}
			seen[d.ID] = struct{}{}
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MultiProvider) Open(ctx context.Context, deviceID string) (Handle, error) {
	for _, p := range m.providers {
		h, err := p.Open(ctx, deviceID)
		if err == nil {
			return h, nil
		}
		if !errors.Is(err, common.ErrDeviceNotFound) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("open %s: %w", deviceID, common.ErrDeviceNotFound)
}
