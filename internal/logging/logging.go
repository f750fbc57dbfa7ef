// Package logging builds the logr.Logger shared by all components.
package logging

import (
	"io"
	"log"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
)

// New returns a logger writing to w. Debug enables V(1) messages.
func New(w io.Writer, debug bool) logr.Logger {
	if debug {
		stdr.SetVerbosity(1)
	} else {
		stdr.SetVerbosity(0)
	}
	return stdr.NewWithOptions(log.New(w, "todo: ", log.LstdFlags), stdr.Options{LogCaller: stdr.None})
}
