package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_Verbosity(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, 1)

	logger.Info("shown", "step", "medical-history")
	logger.V(1).Info("detail")
	logger.V(2).Info("hidden")

	out := buf.String()
	assert.Contains(t, out, `intake: "level"=0 "msg"="shown" "step"="medical-history"`)
	assert.Contains(t, out, `"msg"="detail"`)
	assert.NotContains(t, out, "hidden")
}

func TestNew_NegativeVerbosity(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, -3).V(1).Info("quiet")
	assert.Empty(t, buf.String())
}
