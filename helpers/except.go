// Except.go: Contains functions to make handling panics less PITA

package helpers

import (
	"fmt"
	"runtime"

	"github.com/agora-bot/agora/cache"
	"github.com/getsentry/raven-go"
	"github.com/pkg/errors"
)

// Recover recover()s, logs the error and reports it to sentry
func Recover() {
	err := recover()
	if err != nil {
		reportPanic(err)
	}
}

// RecoverWith recover()s like Recover and additionally calls cb with the error
func RecoverWith(cb func(err error)) {
	recovered := recover()
	if recovered != nil {
		err := reportPanic(recovered)
		if cb != nil {
			cb(err)
		}
	}
}

func reportPanic(recovered interface{}) error {
	err, ok := recovered.(error)
	if !ok {
		err = fmt.Errorf("%#v", recovered)
	}

	entry := cache.GetLogger().WithField("module", "helpers")
	if DEBUG_MODE {
		buf := make([]byte, 1<<16)
		stackSize := runtime.Stack(buf, false)
		entry = entry.WithField("stack", string(buf[0:stackSize]))
	}
	entry.Errorf("recovered from panic: %s", err.Error())

	raven.CaptureError(err, map[string]string{})
	return err
}

// RelaxLog logs $err and reports it to sentry. No-op if $err is nil
func RelaxLog(err error) {
	if err != nil {
		cache.GetLogger().WithField("module", "helpers").Errorf("%+v", err)
		raven.CaptureError(errors.Cause(err), map[string]string{})
	}
}

// Relax is a helper to reduce if-checks if panicking is allowed
// If $err is nil this is a no-op. Panics otherwise.
func Relax(err error) {
	if err != nil {
		panic(err)
	}
}
