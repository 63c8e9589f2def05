package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const schema = `
package: schema
tables:
  - name: users
    columns:
      - {name: id, type: Integer}
      - {name: name, type: VarChar}
`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return strings.TrimSpace(out.String()), err
}

func writeSchema(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "schema.yaml")
	require.NoError(t, os.WriteFile(path, []byte(schema), 0644))
	return path
}

func TestRootCmd_Flags(t *testing.T) {
	dir := t.TempDir()
	input := writeSchema(t, dir)
	output := filepath.Join(dir, "out")

	path, err := execute(t, "-i", input, "-o", output)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(output, "schema.gen.go"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "package schema")
}

func TestRootCmd_Precedence(t *testing.T) {
	dir := t.TempDir()
	input := writeSchema(t, dir)
	output := filepath.Join(dir, "out")

	cfgFile := filepath.Join(dir, "tablegen.yaml")
	cfg := "input: " + input + "\noutput: " + output + "\npackage: fromfile\n"
	require.NoError(t, os.WriteFile(cfgFile, []byte(cfg), 0644))

	testCases := []struct {
		name    string
		env     string
		args    []string
		wantPkg string
	}{
		{name: "config file", wantPkg: "fromfile"},
		{name: "env over file", env: "fromenv", wantPkg: "fromenv"},
		{name: "flag over env", env: "fromenv", args: []string{"-p", "fromflag"}, wantPkg: "fromflag"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.env != "" {
				t.Setenv("TABLEGEN_PACKAGE", tc.env)
			}
			path, err := execute(t, append([]string{"--config", cfgFile}, tc.args...)...)
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(output, tc.wantPkg+".gen.go"), path)

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Contains(t, string(data), "package "+tc.wantPkg)
		})
	}
}

func TestRootCmd_MissingInput(t *testing.T) {
	_, err := execute(t, "-o", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "input and output are required")
}
