package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vertti/bspcheck/pkg/testutil"
)

func executeCommand(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	resetFlags(rootCmd)
	err := rootCmd.Execute()
	return buf.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func sparkbotProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	testutil.WriteTree(t, root, testutil.SparkbotTree())
	return root
}

func TestVersionFlag(t *testing.T) {
	output, err := executeCommand("--version")
	require.NoError(t, err)
	assert.Contains(t, output, "bspcheck")
}

func TestHelpFlag(t *testing.T) {
	output, err := executeCommand("--help")
	require.NoError(t, err)
	assert.Contains(t, output, "verify")
	assert.Contains(t, output, "smoke")
}

func TestVerifyCommand_Valid(t *testing.T) {
	root := sparkbotProject(t)

	output, err := executeCommand("verify", "--root", root)
	require.NoError(t, err)
	assert.Contains(t, output, "Verifying Desktop SparkBot")
	assert.Contains(t, output, "[OK] Kconfig")
	assert.Contains(t, output, "[OK] includes")
	assert.Contains(t, output, "All 4 checks passed.")
	assert.Contains(t, output, "idf.py set-target esp32s3")
}

func TestRootCommand_RunsVerify(t *testing.T) {
	root := sparkbotProject(t)

	output, err := executeCommand("--root", root)
	require.NoError(t, err)
	assert.Contains(t, output, "All 4 checks passed.")
}

func TestVerifyCommand_MissingKconfig(t *testing.T) {
	root := sparkbotProject(t)
	require.NoError(t, os.Remove(filepath.Join(root, "main", "Kconfig.projbuild")))

	output, err := executeCommand("verify", "--root", root)
	require.ErrorIs(t, err, ErrCheckFailed)
	assert.Contains(t, output, "[FAIL] Kconfig")
	assert.Contains(t, output, "does not exist")
	assert.Contains(t, output, "1 of 4 checks failed")
	assert.NotContains(t, output, "idf.py flash monitor")
}

func TestVerifyCommand_MissingCacheDirective(t *testing.T) {
	root := sparkbotProject(t)
	tree := testutil.SparkbotTree()
	kconfig := bytes.ReplaceAll([]byte(tree["main/Kconfig.projbuild"]), []byte("select LV_GIF_CACHE_DECODE_DATA\n"), nil)
	require.NoError(t, os.WriteFile(filepath.Join(root, "main", "Kconfig.projbuild"), kconfig, 0o600))

	output, err := executeCommand("verify", "--root", root)
	require.ErrorIs(t, err, ErrCheckFailed)
	assert.Contains(t, output, "LVGL GIF cache directive")
}

func TestVerifyCommand_CustomProfile(t *testing.T) {
	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{
		"main/Kconfig.projbuild":       "config BOARD_TYPE_DEMO\n",
		"main/CMakeLists.txt":          "set(BOARD_TYPE \"demo\")\n",
		"main/boards/demo/demo.cc":     "#include \"demo.h\"\n",
		"main/boards/demo/demo.h":      "",
		"main/boards/demo/config.json": "{}",
	})
	profile := filepath.Join(t.TempDir(), "demo.yaml")
	require.NoError(t, os.WriteFile(profile, []byte(`board: demo
symbol: BOARD_TYPE_DEMO
description: Demo
kconfig:
  path: main/Kconfig.projbuild
  tokens: [{text: BOARD_TYPE_DEMO}]
cmake:
  path: main/CMakeLists.txt
  tokens: [{text: 'set(BOARD_TYPE "demo")'}]
dir: main/boards/demo
files: [demo.cc, demo.h, config.json]
source:
  path: main/boards/demo/demo.cc
  tokens: [{text: '#include "demo.h"'}]
`), 0o600))

	output, err := executeCommand("verify", "--root", root, "--profile", profile)
	require.NoError(t, err, output)
	assert.Contains(t, output, "Verifying Demo integration")
}

func TestVerifyCommand_BadProfile(t *testing.T) {
	profile := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(profile, []byte("unknown_field: 1\n"), 0o600))

	_, err := executeCommand("verify", "--root", t.TempDir(), "--profile", profile)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCheckFailed)
}

func TestVerifyCommand_RejectsArgs(t *testing.T) {
	_, err := executeCommand("verify", "extra")
	require.Error(t, err)
}

func TestProfileCommand(t *testing.T) {
	output, err := executeCommand("profile", "--root", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, output, "board: desktop-sparkbot")
	assert.Contains(t, output, "BOARD_TYPE_DESKTOP_SPARKBOT")
}

func TestSmokeCommand_ToolMissing(t *testing.T) {
	root := sparkbotProject(t)

	output, err := executeCommand("smoke", "--root", root, "--tool", "bspcheck-no-such-tool-12345")
	require.ErrorIs(t, err, ErrCheckFailed)
	assert.Contains(t, output, "[FAIL]")
	assert.NoFileExists(t, filepath.Join(root, "sdkconfig.test"))
}
