// Package logging builds the structured loggers used across the
// simulation driver and its consumer streams, in the teacher's
// logfmt-over-stdout style (see smd.SCLogInit).
package logging

import (
	"os"

	kitlog "github.com/go-kit/kit/log"
)

// New returns a logfmt logger over stdout tagged with the given component
// name, e.g. New("simulation"), New("viz-server").
func New(component string) kitlog.Logger {
	klog := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout))
	return kitlog.With(klog, "component", component, "ts", kitlog.DefaultTimestampUTC)
}
