package devices

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/sanitizer/internal/common"
	"github.com/dmitrijs2005/sanitizer/internal/server/models"
)

func TestFileProvider(t *testing.T) {
	dir := t.TempDir()
	img := filepath.Join(dir, "disk.img")
	require.NoError(t, os.WriteFile(img, make([]byte, 4096+100), 0o600))

	p := NewFileProvider([]InventoryEntry{
		{Path: img, Serial: "F1", Model: "IMG"},
		{Path: filepath.Join(dir, "gone.img"), Serial: "F2", Model: "IMG"},
	})

	devs, err := p.Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, devs, 2)

	byID := map[string]models.Device{}
	for _, d := range devs {
		byID[d.ID] = d
	}
	d1 := byID[models.DeviceID("F1", "IMG")]
	assert.True(t, d1.Connected)
	assert.Equal(t, int64(4096), d1.Capacity)
	assert.False(t, byID[models.DeviceID("F2", "IMG")].Connected)

	h, err := p.Open(context.Background(), d1.ID)
	require.NoError(t, err)
	defer h.Close()

	_, err = h.WriteAt([]byte{0xAB}, 0)
	require.NoError(t, err)
	require.NoError(t, h.Flush())

	buf := make([]byte, 1)
	_, err = h.ReadAt(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, byte(0xAB), buf[0])

	_, err = h.WriteAt([]byte{0}, 4096)
	assert.ErrorIs(t, err, ErrOutOfRange)
	assert.ErrorIs(t, h.NativeErase(context.Background(), EraseSecure), ErrUnsupported)

	_, err = p.Open(context.Background(), models.DeviceID("F2", "IMG"))
	assert.Error(t, err)
	_, err = p.Open(context.Background(), "nope")
	assert.ErrorIs(t, err, common.ErrDeviceNotFound)
}
