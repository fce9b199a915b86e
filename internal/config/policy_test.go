package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/cdlex/internal/assemble"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePolicy(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "export.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_FullPolicy(t *testing.T) {
	path := writePolicy(t, `
namespace_prefixes = ["Buildings.Controls.OBC.CDL", "MyProject.Controls"]
marker_prefix      = "__cdl"
group_by           = "parameter-set"
record_classes     = "project"
workers            = 8
`)

	policy, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"Buildings.Controls.OBC.CDL", "MyProject.Controls"}, policy.NamespacePrefixes)
	assert.Equal(t, 8, policy.Workers)

	opts := policy.Options()
	assert.Equal(t, assemble.GroupBySequenceAndParameterSet, opts.GroupBy)
	assert.Equal(t, assemble.RecordClassProject, opts.RecordClasses)
}

func TestLoad_EmptyFileUsesDefaults(t *testing.T) {
	path := writePolicy(t, "")

	policy, err := Load(path)
	require.NoError(t, err)

	opts := policy.Options()
	assert.Equal(t, assemble.GroupBySequence, opts.GroupBy)
	assert.Equal(t, assemble.RecordClassDeclared, opts.RecordClasses)
	assert.NotNil(t, policy.Classifier())
}

func TestLoad_Errors(t *testing.T) {
	t.Run("syntax error", func(t *testing.T) {
		path := writePolicy(t, `group_by = "sequence`)
		_, err := Load(path)
		require.ErrorContains(t, err, "parsing policy file")
	})

	t.Run("unknown group_by", func(t *testing.T) {
		path := writePolicy(t, `group_by = "by-vibe"`)
		_, err := Load(path)
		require.ErrorContains(t, err, "invalid group_by")
	})

	t.Run("unknown record_classes", func(t *testing.T) {
		path := writePolicy(t, `record_classes = "renamed"`)
		_, err := Load(path)
		require.ErrorContains(t, err, "invalid record_classes")
	})

	t.Run("negative workers", func(t *testing.T) {
		path := writePolicy(t, `workers = -1`)
		_, err := Load(path)
		require.ErrorContains(t, err, "must not be negative")
	})
}
