package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"forcealign/internal/config"
	"forcealign/internal/testsupport"
)

type cliTestEnv struct {
	cfg            *config.Config
	baseDir        string
	configPath     string
	transcriptPath string
	emissionsPath  string
	vocabPath      string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	t.Setenv("HOME", t.TempDir())
	cfg := testsupport.NewConfig(t, opts...)
	base := testsupport.BaseDir(cfg)

	configPath := filepath.Join(base, "config.toml")
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	testsupport.WriteText(t, configPath, string(data))

	payload := testsupport.AlignPayload(t,
		[]string{"Hello world.", "Second one."},
		[]string{"hello|world", "second|one"},
		2,
	)
	env := &cliTestEnv{
		cfg:            cfg,
		baseDir:        base,
		configPath:     configPath,
		transcriptPath: filepath.Join(base, "input", "transcript.json"),
		emissionsPath:  filepath.Join(base, "input", "emissions.json"),
		vocabPath:      filepath.Join(base, "input", "vocab.json"),
	}
	testsupport.WriteJSON(t, env.transcriptPath, map[string]any{
		"language": payload["language"],
		"segments": payload["segments"],
	})
	testsupport.WriteJSON(t, env.emissionsPath, map[string]any{"emissions": payload["emissions"]})
	testsupport.WriteJSON(t, env.vocabPath, payload["vocabulary"])
	return env
}

func (env *cliTestEnv) alignArgs(extra ...string) []string {
	args := []string{
		"align",
		"--transcript", env.transcriptPath,
		"--emissions", env.emissionsPath,
		"--vocab", env.vocabPath,
	}
	return append(args, extra...)
}

func runCLI(t *testing.T, configPath string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
