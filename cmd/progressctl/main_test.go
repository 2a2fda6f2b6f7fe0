package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestLevelCmd(t *testing.T) {
	out, err := run(t, "level", "2500")
	require.NoError(t, err)
	assert.Contains(t, out, "level:         3")
	assert.Contains(t, out, "progress:      50%")
	assert.Contains(t, out, "xp to next:    500")

	_, err = run(t, "level", "-1")
	assert.Error(t, err)

	_, err = run(t, "level", "lots")
	assert.Error(t, err)
}

func TestStepCmd(t *testing.T) {
	out, err := run(t, "step", "code_review")
	require.NoError(t, err)
	assert.Contains(t, out, "[x] 👋 Onboarding")
	assert.Contains(t, out, "[>] 👀 Code Review")
	assert.Contains(t, out, "[ ] ✅ Complete")

	out, err = run(t, "step", "bogus_state")
	require.NoError(t, err)
	assert.Contains(t, out, "[>] 👋 Onboarding")
}

func TestCatalogCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quests.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
quests:
  - id: git-basics
    title: Git Basics
  - id: first-pr
    title: First PR
    difficulty: advanced
    xp_reward: 950
`), 0o600))

	out, err := run(t, "catalog", path)
	require.NoError(t, err)
	assert.Contains(t, out, "2 quests, 1000 xp total (level 2)")

	_, err = run(t, "catalog", filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
