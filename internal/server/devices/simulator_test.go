package devices

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/sanitizer/internal/common"
	"github.com/dmitrijs2005/sanitizer/internal/server/models"
)

func TestSimulator_ScanAndOpen(t *testing.T) {
	sim := NewSimulator(
		SimSpec{Serial: "S1", Model: "M", Capacity: 4096},
		SimSpec{Serial: "S2", Model: "M", Capacity: 8192, SectorSize: 4096},
	)
	devs, err := sim.Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, devs, 2)

	for _, d := range devs {
		assert.Equal(t, models.DeviceID(d.Serial, d.Model), d.ID)
		assert.True(t, d.Connected)
	}

	h, err := sim.Open(context.Background(), models.DeviceID("S2", "M"))
	require.NoError(t, err)
	assert.Equal(t, 4096, h.Identity().SectorSize)

	_, err = sim.Open(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrDeviceNotFound)
}

func TestMemoryDevice_WriteRead(t *testing.T) {
	sim := NewSimulator()
	d := sim.Add(SimSpec{Serial: "S", Model: "M", Capacity: 2048})

	_, err := d.WriteAt([]byte{1, 2, 3, 4}, 512)
	require.NoError(t, err)

	buf := make([]byte, 4)
	_, err = d.ReadAt(buf, 512)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, buf)

	_, err = d.WriteAt(make([]byte, 8), 2044)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestMemoryDevice_PermanentFault(t *testing.T) {
	sector := int64(1)
	sim := NewSimulator()
	d := sim.Add(SimSpec{Serial: "S", Model: "M", Capacity: 2048, FailSector: &sector, FailAfter: 1})

	_, err := d.WriteAt(make([]byte, 1024), 0)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err = d.WriteAt(make([]byte, 1024), 0)
		assert.ErrorIs(t, err, ErrInjected)
	}

	_, err = d.WriteAt(make([]byte, 512), 1024)
	assert.NoError(t, err)
}

func TestMemoryDevice_TransientFault(t *testing.T) {
	sim := NewSimulator()
	d := sim.Add(SimSpec{Serial: "S", Model: "M", Capacity: 1024, TransientFailures: 2})

	_, err := d.WriteAt(make([]byte, 512), 0)
	assert.ErrorIs(t, err, ErrInjected)
	_, err = d.WriteAt(make([]byte, 512), 0)
	assert.ErrorIs(t, err, ErrInjected)
	_, err = d.WriteAt(make([]byte, 512), 0)
	assert.NoError(t, err)
}

func TestMemoryDevice_CorruptAndUnreadable(t *testing.T) {
	sim := NewSimulator()
	d := sim.Add(SimSpec{
		Serial: "S", Model: "M", Capacity: 2048,
		CorruptSectors:    []int64{1},
		UnreadableSectors: []int64{3},
	})
	_, err := d.WriteAt(make([]byte, 2048), 0)
	require.NoError(t, err)

	buf := make([]byte, 512)
	_, err = d.ReadAt(buf, 512)
	require.NoError(t, err)
	assert.Equal(t, byte(0xFF), buf[0])

	_, err = d.ReadAt(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, byte(0x00), buf[0])

	_, err = d.ReadAt(buf, 1536)
	assert.True(t, errors.Is(err, ErrInjected))
}

func TestMemoryDevice_NativeErase(t *testing.T) {
	sim := NewSimulator()
	plain := sim.Add(SimSpec{Serial: "A", Model: "M", Capacity: 1024})
	capable := sim.Add(SimSpec{Serial: "B", Model: "M", Capacity: 1024, SupportsSecureErase: true})

	assert.ErrorIs(t, plain.NativeErase(context.Background(), EraseSecure), ErrUnsupported)
	require.NoError(t, capable.NativeErase(context.Background(), EraseSecure))
	assert.Equal(t, make([]byte, 1024), capable.Snapshot())
	assert.ErrorIs(t, capable.NativeErase(context.Background(), EraseCrypto), ErrUnsupported)
}

func TestMemoryDevice_Closed(t *testing.T) {
	sim := NewSimulator()
	d := sim.Add(SimSpec{Serial: "S", Model: "M", Capacity: 1024})
	require.NoError(t, d.Close())
	assert.True(t, d.Closed())

	_, err := d.WriteAt([]byte{0}, 0)
	assert.ErrorIs(t, err, ErrClosed)

	_, err = sim.Open(context.Background(), d.Identity().ID)
	require.NoError(t, err)
	assert.False(t, d.Closed())
	assert.Equal(t, 1, d.Opens())
}
