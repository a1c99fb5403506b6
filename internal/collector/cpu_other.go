//go:build !unix

package collector

import (
	"errors"
	"time"
)

var errCPUUnsupported = errors.New("process cpu time is not supported on this platform")

func processCPUTime() (time.Duration, error) {
	return 0, errCPUUnsupported
}
