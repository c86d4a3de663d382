package reporter

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wharflab/hush/internal/rules"
)

func TestJSONReporter(t *testing.T) {
	kept, meta := fixture()
	meta.FileErrors = 1

	var buf bytes.Buffer
	require.NoError(t, NewJSONReporter(&buf).Report(kept, nil, meta))
	snaps.MatchStandaloneJSON(t, buf.String())

	var output JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &output))

	require.Len(t, output.Files, 1)
	assert.Equal(t, "src/Quiet.java", output.Files[0].File)
	require.Len(t, output.Files[0].Violations, 2)
	assert.Equal(t, "ClassLength", output.Files[0].Violations[0].RuleCode, "sorted by line")
	assert.Equal(t, "numbers", output.Files[0].Violations[1].ModuleID)

	require.Len(t, output.Suppressed, 1)
	assert.Equal(t, "tags", output.Suppressed[0].Rule)
	assert.Equal(t, "suppress.comment", output.Suppressed[0].RuleSet)

	assert.Equal(t, Summary{Total: 2, Errors: 1, Warnings: 1, Files: 1, Suppressed: 1, FileErrors: 1}, output.Summary)
	assert.Equal(t, 1, output.FilesScanned)
	assert.Equal(t, 1, output.RuleSets)
}

func TestJSONReporterMultipleFiles(t *testing.T) {
	violations := []rules.Violation{
		rules.NewViolation(rules.NewLineLocation(`src\B.java`, 1), "X", "m", rules.SeverityInfo),
		rules.NewViolation(rules.NewLineLocation("src/A.java", 2), "Y", "m", rules.SeverityStyle),
	}

	var buf bytes.Buffer
	require.NoError(t, NewJSONReporter(&buf).Report(violations, nil, ReportMetadata{FilesScanned: 2}))

	var output JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &output))
	require.Len(t, output.Files, 2)
	assert.Equal(t, 1, output.Summary.Info)
	assert.Equal(t, 1, output.Summary.Style)
}

func TestJSONReporterEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONReporter(&buf).Report(nil, nil, ReportMetadata{}))

	// Empty lists encode as [] rather than null.
	assert.Contains(t, buf.String(), `"files": []`)
	assert.Contains(t, buf.String(), `"suppressed": []`)
}
