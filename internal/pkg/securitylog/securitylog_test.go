package securitylog

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvent_WritesStructuredEntry(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(os.Stderr) })

	Event("digest_mismatch").WithField("txnid", "TXN-1").Warn("payment callback rejected")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "security", entry["channel"])
	assert.Equal(t, "digest_mismatch", entry["event"])
	assert.Equal(t, "TXN-1", entry["txnid"])
	assert.Equal(t, "warning", entry["level"])
}
