// Package sanitize implements the erasure methods: their pass plans, the
// chunked overwrite loop with retries, hardware erase delegation and
// read-back verification.
package sanitize

import (
	"fmt"

	"github.com/dmitrijs2005/sanitizer/internal/common"
	"github.com/dmitrijs2005/sanitizer/internal/server/models"
)

// Method is one of a closed set of sanitization methods.
type Method string

const (
	MethodZeroFill    Method = "zero-fill"
	MethodNistClear   Method = "nist-clear"
	MethodDoD3        Method = "dod-3"
	MethodDoD7        Method = "dod-7"
	MethodGutmann     Method = "gutmann"
	MethodSecureErase Method = "secure-erase"
	MethodCryptoErase Method = "crypto-erase"
	MethodDestroy     Method = "destroy"
)

var methods = []Method{
	MethodZeroFill, MethodNistClear, MethodDoD3, MethodDoD7,
	MethodGutmann, MethodSecureErase, MethodCryptoErase, MethodDestroy,
}

// Methods lists every supported method.
func Methods() []Method {
	out := make([]Method, len(methods))
	copy(out, methods)
	return out
}

// ParseMethod accepts the canonical names plus the short aliases used by
// older clients.
func ParseMethod(s string) (Method, error) {
	switch s {
	case "zeros", "zero":
		return MethodZeroFill, nil
	case "random":
		return MethodNistClear, nil
	case "dod":
		return MethodDoD3, nil
	}
	for _, m := range methods {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown method %q: %w", s, common.ErrInvalidRequest)
}

// Hardware reports whether the method delegates to the device firmware.
func (m Method) Hardware() bool {
	return m == MethodSecureErase || m == MethodCryptoErase
}

// Advisory reports whether the method performs no I/O at all.
func (m Method) Advisory() bool { return m == MethodDestroy }

// Overwrite reports whether the method writes patterns to the media.
func (m Method) Overwrite() bool { return !m.Hardware() && !m.Advisory() }

func (m Method) Compliance() models.ComplianceLevel {
	switch {
	case m.Hardware():
		return models.CompliancePurge
	case m.Advisory():
		return models.ComplianceDestroy
	}
	return models.ComplianceClear
}

// Standards lists the published standards the method satisfies.
func (m Method) Standards() []string {
	switch m {
	case MethodZeroFill, MethodNistClear:
		return []string{"NIST SP 800-88"}
	case MethodDoD3, MethodDoD7:
		return []string{"NIST SP 800-88", "DoD 5220.22-M"}
	case MethodGutmann:
		return []string{"NIST SP 800-88", "Gutmann"}
	case MethodSecureErase:
		return []string{"NIST SP 800-88", "ATA Secure Erase"}
	case MethodCryptoErase:
		return []string{"NIST SP 800-88", "Cryptographic Erase"}
	case MethodDestroy:
		return []string{"NIST SP 800-88"}
	}
	return nil
}

// Plan returns the ordered passes for an overwrite method, repeated
// repeat times. It returns nil for hardware and advisory methods.
func (m Method) Plan(repeat int) []Pattern {
	if repeat < 1 {
		repeat = 1
	}
	var base []Pattern
	switch m {
	case MethodZeroFill:
		base = []Pattern{Fixed(0x00)}
	case MethodNistClear:
		base = []Pattern{Random()}
	case MethodDoD3:
		base = []Pattern{Fixed(0x00), Fixed(0xFF), Random()}
	case MethodDoD7:
		base = []Pattern{
			Fixed(0x00), Fixed(0xFF), Random(), Fixed(0x96),
			Fixed(0x00), Fixed(0xFF), Random(),
		}
	case MethodGutmann:
		base = gutmann()
	default:
		return nil
	}
	plan := make([]Pattern, 0, len(base)*repeat)
	for i := 0; i < repeat; i++ {
		plan = append(plan, base...)
	}
	return plan
}
