package sanitize

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"strings"

	"golang.org/x/crypto/chacha20"
)

// Pattern is the content written by one pass: a repeating byte sequence or
// a keyed pseudo-random stream.
type Pattern struct {
	random bool
	bytes  []byte
}

func Fixed(b ...byte) Pattern { return Pattern{bytes: b} }

func Random() Pattern { return Pattern{random: true} }

func (p Pattern) IsRandom() bool { return p.random }

func (p Pattern) String() string {
	if p.random {
		return "random"
	}
	parts := make([]string, len(p.bytes))
	for i, b := range p.bytes {
		parts[i] = fmt.Sprintf("0x%02X", b)
	}
	return strings.Join(parts, " ")
}

// Fill writes the pattern bytes for the absolute device range starting at
// off into buf. Random passes depend only on (key, pass, off), so any
// range can be regenerated for verification.
func (p Pattern) Fill(buf []byte, key []byte, pass int, off int64) {
	if p.random {
		fillRandom(buf, key, pass, off)
		return
	}
	n := int64(len(p.bytes))
	if n == 1 {
		for i := range buf {
			buf[i] = p.bytes[0]
		}
		return
	}
	for i := range buf {
		buf[i] = p.bytes[(off+int64(i))%n]
	}
}

// StreamKey derives the per-device stream key from the job seed.
func StreamKey(seed []byte, deviceID string) []byte {
	h := sha256.New()
	h.Write(seed)
	h.Write([]byte(deviceID))
	return h.Sum(nil)
}

// segmentShift bounds one ChaCha20 stream to its 32-bit block counter.
const segmentShift = 38

func fillRandom(buf []byte, key []byte, pass int, off int64) {
	for len(buf) > 0 {
		seg := off >> segmentShift
		inSeg := off & (1<<segmentShift - 1)
		n := int64(len(buf))
		if rest := int64(1)<<segmentShift - inSeg; n > rest {
			n = rest
		}

		var nonce [chacha20.NonceSize]byte
		binary.BigEndian.PutUint32(nonce[0:4], uint32(pass))
		binary.BigEndian.PutUint64(nonce[4:], uint64(seg))
		c, err := chacha20.NewUnauthenticatedCipher(key, nonce[:])
		if err != nil {
			panic(err)
		}
		c.SetCounter(uint32(inSeg / 64))
		if skip := inSeg % 64; skip > 0 {
			var junk [64]byte
			c.XORKeyStream(junk[:skip], junk[:skip])
		}

		chunk := buf[:n]
		clear(chunk)
		c.XORKeyStream(chunk, chunk)

		buf = buf[n:]
		off += n
	}
}

func gutmann() []Pattern {
	plan := make([]Pattern, 0, 35)
	for i := 0; i < 4; i++ {
		plan = append(plan, Random())
	}
	plan = append(plan,
		Fixed(0x55), Fixed(0xAA),
		Fixed(0x92, 0x49, 0x24), Fixed(0x49, 0x24, 0x92), Fixed(0x24, 0x92, 0x49),
	)
	for b := 0; b <= 0xFF; b += 0x11 {
		plan = append(plan, Fixed(byte(b)))
	}
	plan = append(plan,
		Fixed(0x92, 0x49, 0x24), Fixed(0x49, 0x24, 0x92), Fixed(0x24, 0x92, 0x49),
		Fixed(0x6D, 0xB6, 0xDB), Fixed(0xB6, 0xDB, 0x6D), Fixed(0xDB, 0x6D, 0xB6),
	)
	for i := 0; i < 4; i++ {
		plan = append(plan, Random())
	}
	return plan
}
