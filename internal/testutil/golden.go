package testutil

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// updateGolden rewrites golden files instead of comparing against them.
var updateGolden = os.Getenv("UPDATE_GOLDEN") == "true"

// AssertGoldenJSON compares a JSON document, typically the data of a GraphQL
// response, with testdata/<name>. Formatting differences are ignored.
// With UPDATE_GOLDEN=true the file is rewritten, indented.
func AssertGoldenJSON(t *testing.T, name string, actual []byte) {
	t.Helper()

	path := filepath.Join("testdata", name)

	if updateGolden {
		var buf bytes.Buffer
		require.NoError(t, json.Indent(&buf, actual, "", "  "), "golden content is not JSON")
		buf.WriteByte('\n')
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
		t.Logf("Updated golden file: %s", path)
		return
	}

	golden, err := os.ReadFile(path)
	require.NoError(t, err, "failed to read golden file %s (run with UPDATE_GOLDEN=true to create it)", path)
	assert.JSONEq(t, string(golden), string(actual), "response does not match %s", path)
}
