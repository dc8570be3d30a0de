package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/klutter-gen/internal/codegen/generator"
	"github.com/Alia5/klutter-gen/internal/log"
	fixtures "github.com/Alia5/klutter-gen/internal/testing"
)

const greetingSource = "platform/src/commonMain/kotlin/com/example/Greeting.kt"

func setupProject(t *testing.T) string {
	t.Helper()
	return fixtures.ExtractArchive(t, fixtures.LoadArchive(t, "../codegen/generator/testdata/project.txtar"))
}

func newGenerate(root string, stdout, stderr io.Writer) *Generate {
	return &Generate{
		ProjectFlags: ProjectFlags{Root: root},
		NoColor:      true,
		stdout:       stdout,
		stderr:       stderr,
	}
}

func TestGenerateCommand(t *testing.T) {
	root := setupProject(t)
	var stdout, stderr, raw bytes.Buffer

	c := newGenerate(root, &stdout, &stderr)
	require.NoError(t, c.Run(slog.Default(), log.NewRaw(&raw)))

	assert.Contains(t, stdout.String(), "✓ Generated 4 files, 4 written, 0 removed")
	assert.Contains(t, stdout.String(), "   → lib/src/adapter.dart")
	assert.Empty(t, stderr.String())
	assert.Contains(t, raw.String(), "lib/src/adapter.dart: ")
	assert.Contains(t, raw.String(), "| class Adapter {")

	_, err := os.Stat(filepath.Join(root, "lib", "src", "adapter.dart"))
	assert.NoError(t, err)
}

func TestGenerateCommandDryRun(t *testing.T) {
	root := setupProject(t)
	var stdout bytes.Buffer

	c := newGenerate(root, &stdout, io.Discard)
	c.DryRun = true
	c.Lang = []string{"dart"}
	require.NoError(t, c.Run(slog.Default(), log.NewRaw(nil)))

	assert.Contains(t, stdout.String(), "✓ Rendered 2 files (dry run)")
	_, err := os.Stat(filepath.Join(root, "lib"))
	assert.True(t, os.IsNotExist(err))
}

func TestGenerateCommandReportsValidation(t *testing.T) {
	root := setupProject(t)
	fixtures.WriteFiles(t, root, map[string]string{
		"platform/src/commonMain/kotlin/com/example/Broken.kt": `package com.example

class Broken {
    @KlutterAdaptee("broken")
    fun broken(): Unknown = Unknown()
}
`,
	})
	var stdout, stderr bytes.Buffer

	err := newGenerate(root, &stdout, &stderr).Run(slog.Default(), log.NewRaw(nil))
	var failed *generator.ValidationFailedError
	require.ErrorAs(t, err, &failed)

	assert.Contains(t, stderr.String(), "❌ VALIDATION FAILED: 1 problem, nothing was generated")
	assert.Contains(t, stderr.String(), "Unknown")
	assert.Empty(t, stdout.String())
}

func TestScanCommandJSON(t *testing.T) {
	root := setupProject(t)
	var stdout bytes.Buffer

	c := &Scan{ProjectFlags: ProjectFlags{Root: root}, Format: "json", stdout: &stdout}
	require.NoError(t, c.Run(slog.Default()))

	var dump scanDump
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &dump))
	assert.Equal(t, "com.example.my_plugin", dump.ChannelName)
	assert.Len(t, dump.SimpleControllers, 2)
	require.Len(t, dump.BroadcastControllers, 1)
	assert.Equal(t, "Counter", dump.BroadcastControllers[0].Name)
	assert.Len(t, dump.Messages, 1)
	assert.Len(t, dump.Enums, 1)
	assert.Len(t, dump.Files, 2)
}

func TestScanCommandYAMLToFile(t *testing.T) {
	root := setupProject(t)
	dest := filepath.Join(t.TempDir(), "out", "scan.yaml")

	c := &Scan{ProjectFlags: ProjectFlags{Root: root}, Format: "yaml", Output: dest}
	require.NoError(t, c.Run(slog.Default()))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Contains(t, string(data), "channelName: com.example.my_plugin")
	assert.Contains(t, string(data), "wireValue: bla")
}

func TestScanCommandValidate(t *testing.T) {
	root := setupProject(t)
	fixtures.WriteFiles(t, root, map[string]string{
		"platform/src/commonMain/kotlin/com/example/Broken.kt": `package com.example

class Broken {
    @KlutterAdaptee("broken")
    fun broken(): Unknown = Unknown()
}
`,
	})

	var stdout, stderr bytes.Buffer
	c := &Scan{ProjectFlags: ProjectFlags{Root: root}, Format: "json", stdout: &stdout, stderr: &stderr, NoColor: true}
	require.NoError(t, c.Run(slog.Default()))
	assert.NotEmpty(t, stdout.String())

	stdout.Reset()
	c.Validate = true
	err := c.Run(slog.Default())
	var failed *generator.ValidationFailedError
	require.ErrorAs(t, err, &failed)
	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "VALIDATION FAILED")
}

func TestWatchRegeneratesOnChange(t *testing.T) {
	root := setupProject(t)
	adapter := filepath.Join(root, "lib", "src", "adapter.dart")

	c := &Watch{Generate: *newGenerate(root, io.Discard, io.Discard), Delay: 20 * time.Millisecond}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Watch(ctx, slog.Default(), log.NewRaw(nil)) }()

	require.Eventually(t, func() bool {
		_, err := os.Stat(adapter)
		return err == nil
	}, 5*time.Second, 20*time.Millisecond)

	fixtures.WriteFiles(t, root, map[string]string{
		greetingSource: `package com.example

class Greeting {

    @KlutterAdaptee(name = "doFooBar")
    fun doFooBar(): String = "foobar"

    @KlutterAdaptee(name = "extra")
    fun extra(): Int = 1
}
`,
	})

	require.Eventually(t, func() bool {
		data, err := os.ReadFile(adapter)
		return err == nil && strings.Contains(string(data), "'extra'")
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}
