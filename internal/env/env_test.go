package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromOS(t *testing.T) {
	t.Setenv("GANTRY_TEST_MARKER", "present")

	vars := FromOS()
	assert.Equal(t, "present", vars["GANTRY_TEST_MARKER"])
}

func TestMerge(t *testing.T) {
	base := Vars{"A": "1", "B": "2"}
	overlay := Vars{"B": "override", "C": "3"}

	merged := Merge(base, overlay)
	assert.Equal(t, Vars{"A": "1", "B": "override", "C": "3"}, merged)
	assert.Equal(t, "2", base["B"], "merge must not mutate inputs")
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deploy.env")
	require.NoError(t, os.WriteFile(path, []byte("IMAGE_TAG=v1.2.3\nREPLICAS=3\n"), 0o644))

	vars, err := LoadEnvFile(path)
	require.NoError(t, err)
	assert.Equal(t, Vars{"IMAGE_TAG": "v1.2.3", "REPLICAS": "3"}, vars)
}

func TestLoadEnvFileMissing(t *testing.T) {
	_, err := LoadEnvFile(filepath.Join(t.TempDir(), "absent.env"))
	require.Error(t, err)
}

func TestParseInlineVars(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Vars
		wantErr bool
	}{
		{name: "empty input", input: "", want: Vars{}},
		{name: "single pair", input: "A=1", want: Vars{"A": "1"}},
		{name: "multiple pairs", input: "A=1,B=two", want: Vars{"A": "1", "B": "two"}},
		{name: "spaces trimmed", input: " A = 1 , B = 2 ", want: Vars{"A": "1", "B": "2"}},
		{name: "value may contain equals", input: "A=x=y", want: Vars{"A": "x=y"}},
		{name: "missing value", input: "A", wantErr: true},
		{name: "empty key", input: "=1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseInlineVars(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
