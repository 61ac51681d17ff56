package research

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newScriptSource 在临时目录中写入 shell 脚本，参数顺序与调研脚本一致：
// --industry <topic> --count <n> --sample
func newScriptSource(t *testing.T, body string) *ScriptSource {
	t.Helper()
	dir := t.TempDir()
	script := filepath.Join(dir, "research.sh")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\n"+body+"\n"), 0755))
	return &ScriptSource{
		Interpreter: "sh",
		Script:      script,
		WorkDir:     dir,
		OutputDir:   filepath.Join(dir, "prospects"),
		Timeout:     10 * time.Second,
	}
}

func TestScriptSource_MissingScript(t *testing.T) {
	s := &ScriptSource{Interpreter: "sh", Script: filepath.Join(t.TempDir(), "missing.py")}
	got := s.Fetch(context.Background(), "healthcare", 7)
	assert.Equal(t, ExternalUnavailable, got.Kind)
	assert.Contains(t, got.Reason, "not found")
}

func TestScriptSource_NonZeroExit(t *testing.T) {
	s := newScriptSource(t, `echo "Error: upstream blocked" >&2; exit 3`)
	got := s.Fetch(context.Background(), "healthcare", 7)
	assert.Equal(t, ExternalUnavailable, got.Kind)
	assert.Contains(t, got.Reason, "research failed")
}

func TestScriptSource_MissingInterpreter(t *testing.T) {
	s := newScriptSource(t, `exit 0`)
	s.Interpreter = "definitely-not-an-interpreter"
	got := s.Fetch(context.Background(), "healthcare", 7)
	assert.Equal(t, ExternalUnavailable, got.Kind)
}

func TestScriptSource_NoArtifact(t *testing.T) {
	s := newScriptSource(t, `exit 0`)
	got := s.Fetch(context.Background(), "healthcare", 7)
	assert.Equal(t, ExternalUnavailable, got.Kind)
	assert.Contains(t, got.Reason, "output unusable")
}

func TestScriptSource_MalformedArtifact(t *testing.T) {
	s := newScriptSource(t, `mkdir -p prospects/$2 && echo '{"prospects": "oops"' > prospects/$2/2026-10-18-prospects.json`)
	got := s.Fetch(context.Background(), "healthcare", 7)
	assert.Equal(t, ExternalUnavailable, got.Kind)
}

func TestScriptSource_Timeout(t *testing.T) {
	s := newScriptSource(t, `exec sleep 5`)
	s.Timeout = 100 * time.Millisecond
	got := s.Fetch(context.Background(), "healthcare", 7)
	assert.Equal(t, ExternalUnavailable, got.Kind)
	assert.Contains(t, got.Reason, "timed out")
}

func TestScriptSource_Success(t *testing.T) {
	body := `test "$1" = "--industry" && test "$3" = "--count" && test "$5" = "--sample" || exit 9
mkdir -p prospects/$2
echo '{"prospects":[]}' > prospects/$2/2026-10-17-prospects.json
cat > prospects/$2/2026-10-18-prospects.json <<EOF
{"prospects":[{"company_name":"Care Prairie Group","location":"Ames, IA","estimated_employees":$4,"website":"https://careprairie.com"}]}
EOF
echo "Error: partial results" >&2`
	s := newScriptSource(t, body)

	got := s.Fetch(context.Background(), "healthcare", 7)
	require.Equal(t, ExternalSuccess, got.Kind, got.Reason)
	require.Len(t, got.Records, 1)
	assert.Equal(t, "Care Prairie Group", got.Records[0].CompanyName)
	assert.EqualValues(t, "7", got.Records[0].EstimatedEmployees)
}

func TestNoneSource(t *testing.T) {
	got := NoneSource{}.Fetch(context.Background(), "healthcare", 7)
	assert.Equal(t, ExternalUnavailable, got.Kind)
	assert.Equal(t, "unavailable", got.Kind.String())
}

func TestScriptSource_RelativePaths(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "demo"), 0755))
	require.NoError(t, os.Mkdir(filepath.Join(root, "scripts"), 0755))
	body := `#!/bin/sh
mkdir -p prospects/$2
echo '{"prospects": [{"company_name": "Cedar Clinic", "location": "Ames, IA", "estimated_employees": 40, "website": "https://cedarclinic.com"}]}' > prospects/$2/2026-10-18-prospects.json
`
	require.NoError(t, os.WriteFile(filepath.Join(root, "scripts", "research_prospects.py"), []byte(body), 0755))

	// 与默认配置相同：从 demo 目录启动，脚本在上级目录中运行
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(filepath.Join(root, "demo")))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	s := &ScriptSource{
		Interpreter: "sh",
		Script:      "../scripts/research_prospects.py",
		WorkDir:     "..",
		OutputDir:   "../prospects",
		Timeout:     10 * time.Second,
	}

	got := s.Fetch(context.Background(), "healthcare", 7)
	require.Equal(t, ExternalSuccess, got.Kind, got.Reason)
	require.Len(t, got.Records, 1)
	assert.Equal(t, "Cedar Clinic", got.Records[0].CompanyName)
}
