package logging

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestNew_DebugGatesVerbose(t *testing.T) {
	var buf bytes.Buffer

	log := New(&buf, false)
	log.V(1).Info("hidden")
	log.Error(errors.New("boom"), "create task failed", "id", 3)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("V(1) message logged without debug: %q", out)
	}
	if !strings.Contains(out, "create task failed") || !strings.Contains(out, "boom") {
		t.Errorf("error not logged: %q", out)
	}

	buf.Reset()
	log = New(&buf, true)
	log.V(1).Info("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("V(1) message missing with debug: %q", buf.String())
	}
	New(&buf, false)
}
