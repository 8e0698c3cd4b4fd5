// Package errorf constructs errors with printf formatting, logging them at
// the site of creation so the origin of a returned error is visible in the
// logs at debug level.
package errorf

import (
	"fmt"

	"lantern.dev/pkg/utils/log"
)

// E creates a new error from a format string and parameters.
func E(format string, a ...any) (err error) {
	err = fmt.Errorf(format, a...)
	log.D.Ln(err.Error())
	return
}
