package sanitize

import (
	"bytes"
	"context"
	"fmt"
	"math/rand/v2"
	"sort"
	"time"

	"github.com/dmitrijs2005/sanitizer/internal/server/devices"
	"github.com/dmitrijs2005/sanitizer/internal/server/models"
)

const (
	DefaultChunkSize      = 1 << 20
	DefaultAttempts       = 3
	DefaultBackoff        = 100 * time.Millisecond
	DefaultSampleFraction = 0.01
)

// Options tunes the engine. Zero values take the defaults above.
type Options struct {
	ChunkSize      int
	Attempts       int
	Backoff        time.Duration
	SampleFraction float64
}

func (o Options) withDefaults() Options {
	if o.ChunkSize == 0 {
		o.ChunkSize = DefaultChunkSize
	}
	if o.Attempts <= 0 {
		o.Attempts = DefaultAttempts
	}
	if o.Backoff < 0 {
		o.Backoff = 0
	}
	if o.SampleFraction <= 0 {
		o.SampleFraction = DefaultSampleFraction
	}
	if o.SampleFraction > 1 {
		o.SampleFraction = 1
	}
	return o
}

// Request is one device's share of a job.
type Request struct {
	JobID      string
	DeviceID   string
	Method     Method
	Passes     int
	Verify     bool
	Seed       []byte
	Unreadable []int64
	// Cancelled is polled between chunks.
	Cancelled func() bool
}

// Progress is a snapshot published after every chunk.
type Progress struct {
	Pass         int
	PassCount    int
	BytesWritten int64
	TotalBytes   int64
}

// Fraction is the completed share in [0, 1].
func (p Progress) Fraction() float64 {
	if p.TotalBytes == 0 {
		return 0
	}
	f := float64(p.BytesWritten) / float64(p.TotalBytes)
	if f > 1 {
		return 1
	}
	return f
}

// Result describes what was done, including on failure.
type Result struct {
	Passes           []models.PassRecord
	BytesWritten     int64
	Verified         bool
	VerificationNote string
}

// Engine runs sanitization methods against device handles.
type Engine struct {
	opts Options
	// sleep is replaced in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

func NewEngine(opts Options) *Engine {
	return &Engine{opts: opts.withDefaults(), sleep: sleepCtx}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Execute runs req against h. progress may be nil. The returned Result is
// populated even when err is non-nil so partial pass records survive.
func (e *Engine) Execute(ctx context.Context, h devices.Handle, req Request, progress func(Progress)) (Result, error) {
	switch {
	case req.Method.Hardware():
		return e.hardware(ctx, h, req)
	case req.Method.Advisory():
		return Result{Verified: true, VerificationNote: "physical destruction attested by operator"}, nil
	}
	return e.overwrite(ctx, h, req, progress)
}

func (e *Engine) hardware(ctx context.Context, h devices.Handle, req Request) (Result, error) {
	kind := devices.EraseSecure
	if req.Method == MethodCryptoErase {
		kind = devices.EraseCrypto
	}
	if err := h.NativeErase(ctx, kind); err != nil {
		return Result{}, fmt.Errorf("device %s: %s: %w", req.DeviceID, req.Method, err)
	}
	info := h.Identity()
	return Result{
		Passes: []models.PassRecord{{
			JobID:        req.JobID,
			DeviceID:     req.DeviceID,
			PassIndex:    0,
			Pattern:      string(req.Method),
			BytesWritten: info.Capacity,
		}},
		BytesWritten:     info.Capacity,
		Verified:         true,
		VerificationNote: "completion reported by device firmware",
	}, nil
}

func (e *Engine) overwrite(ctx context.Context, h devices.Handle, req Request, progress func(Progress)) (Result, error) {
	info := h.Identity()
	ss := int64(info.SectorSize)
	if ss <= 0 || e.opts.ChunkSize <= 0 || int64(e.opts.ChunkSize)%ss != 0 {
		return Result{}, ErrInvalidBuffer
	}

	plan := req.Method.Plan(req.Passes)
	if len(plan) == 0 {
		return Result{}, fmt.Errorf("method %q has no pass plan", req.Method)
	}
	total := info.Capacity - info.Capacity%ss
	key := StreamKey(req.Seed, req.DeviceID)
	buf := make([]byte, e.opts.ChunkSize)

	var res Result
	snap := Progress{PassCount: len(plan), TotalBytes: total * int64(len(plan))}

	for pass, pat := range plan {
		rec := models.PassRecord{
			JobID:     req.JobID,
			DeviceID:  req.DeviceID,
			PassIndex: pass,
			Pattern:   pat.String(),
		}
		snap.Pass = pass

		for off := int64(0); off < total; {
			if err := e.interrupted(ctx, req); err != nil {
				res.Passes = append(res.Passes, rec)
				return res, err
			}

			n := min(int64(len(buf)), total-off)
			chunk := buf[:n]
			pat.Fill(chunk, key, pass, off)

			retried, err := e.writeChunk(ctx, h, chunk, off)
			rec.SectorsRetried += retried * (n / ss)
			if err != nil {
				rec.SectorsFailed += n / ss
				res.Passes = append(res.Passes, rec)
				if ctxErr := ctx.Err(); ctxErr != nil {
					return res, ctxErr
				}
				return res, &SectorError{
					DeviceID:    req.DeviceID,
					FirstSector: off / ss,
					SectorCount: n / ss,
					Err:         err,
				}
			}

			off += n
			rec.BytesWritten += n
			res.BytesWritten += n
			snap.BytesWritten = res.BytesWritten
			if progress != nil {
				progress(snap)
			}
		}

		if err := h.Flush(); err != nil {
			res.Passes = append(res.Passes, rec)
			return res, &SectorError{DeviceID: req.DeviceID, FirstSector: 0, SectorCount: total / ss, Err: err}
		}
		res.Passes = append(res.Passes, rec)
	}

	if !req.Verify {
		res.VerificationNote = "verification not requested"
		return res, nil
	}
	last := len(plan) - 1
	note, err := e.verify(ctx, h, req, plan[last], key, last, total)
	if err != nil {
		return res, err
	}
	res.Verified = true
	res.VerificationNote = note
	return res, nil
}

func (e *Engine) interrupted(ctx context.Context, req Request) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if req.Cancelled != nil && req.Cancelled() {
		return ErrCancelled
	}
	return nil
}

// writeChunk returns how many retries were needed.
func (e *Engine) writeChunk(ctx context.Context, h devices.Handle, chunk []byte, off int64) (int64, error) {
	var err error
	for attempt := 0; attempt < e.opts.Attempts; attempt++ {
		if attempt > 0 {
			if serr := e.sleep(ctx, time.Duration(attempt)*e.opts.Backoff); serr != nil {
				return int64(attempt), serr
			}
		}
		if _, err = h.WriteAt(chunk, off); err == nil {
			return int64(attempt), nil
		}
	}
	return int64(e.opts.Attempts - 1), err
}

func (e *Engine) verify(ctx context.Context, h devices.Handle, req Request, pat Pattern, key []byte, pass int, total int64) (string, error) {
	ss := int64(h.Identity().SectorSize)
	sectors := total / ss
	if sectors == 0 {
		return "device has no addressable sectors", nil
	}

	want := int64(float64(sectors) * e.opts.SampleFraction)
	want = max(want, 1)
	want = min(want, sectors)

	excepted := make(map[int64]bool, len(req.Unreadable))
	for _, s := range req.Unreadable {
		excepted[s] = true
	}

	got := make([]byte, ss)
	expected := make([]byte, ss)
	skipped := 0
	for _, s := range sampleSectors(sectors, want) {
		if err := e.interrupted(ctx, req); err != nil {
			return "", err
		}
		off := s * ss
		if _, err := h.ReadAt(got, off); err != nil {
			if excepted[s] {
				skipped++
				continue
			}
			return "", &VerificationError{DeviceID: req.DeviceID, Sector: s, Err: err}
		}
		pat.Fill(expected, key, pass, off)
		if !bytes.Equal(got, expected) {
			if excepted[s] {
				skipped++
				continue
			}
			return "", &VerificationError{DeviceID: req.DeviceID, Sector: s}
		}
	}
	note := fmt.Sprintf("%d of %d sectors sampled, all matched final pattern %s", want, sectors, pat)
	if skipped > 0 {
		note += fmt.Sprintf(" (%d excepted as unreadable)", skipped)
	}
	return note, nil
}

func sampleSectors(total, n int64) []int64 {
	if n >= total {
		out := make([]int64, total)
		for i := range out {
			out[i] = int64(i)
		}
		return out
	}
	seen := make(map[int64]struct{}, n)
	for int64(len(seen)) < n {
		seen[rand.Int64N(total)] = struct{}{}
	}
	out := make([]int64, 0, n)
	for s := range seen {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
