package log

import (
	"fmt"

	oapErrors "github.com/steccami/OAP/pkg/errors"
)

// CaptureWarnings routes library warnings raised through errors.Warn into the
// structured logging pipeline instead of the standard library logger. The
// provider is resolved at emit time, so swapping providers later still takes
// effect.
//
// Applications call this once at startup, typically right after
// SetLoggerProvider.
func CaptureWarnings() {
	oapErrors.SetZerologWarnFunc(func(w error) {
		GetLoggerWithName("warnings").Warn(w.Error(),
			ErrorTypeKey, fmt.Sprintf("%T", w),
		)
	})
}
