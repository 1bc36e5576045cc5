package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"hbsq/partial"
)

// execute runs the command tree with args from an empty working directory.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	saved, savedLeader, savedNoColor := Config, leaderKey, color.NoColor
	t.Cleanup(func() { Config, leaderKey, color.NoColor = saved, savedLeader, savedNoColor })
	color.NoColor = true

	t.Chdir(t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestTreeCommand(t *testing.T) {
	dir := withTemplates(t, "components/button.hbs", "layout.hbs", "node_modules/x.hbs")

	out, err := execute(t, "tree", "-r", dir, "--format", "json")
	require.NoError(t, err)

	var entries []resolveResult
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	assert.Equal(t, []resolveResult{
		{Path: "components/button", Location: filepath.Join(dir, "components", "button.hbs")},
		{Path: "layout", Location: filepath.Join(dir, "layout.hbs")},
	}, entries)
}

func TestResolveCommand(t *testing.T) {
	dir := withTemplates(t, "components/_card.hbs", "pages/home/index.hbs")

	out, err := execute(t, "resolve", "-r", dir, "components/card")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "components", "_card.hbs")+"\n", out)

	out, err = execute(t, "resolve", "-r", dir, "--format", "yaml", "pages/home")
	require.NoError(t, err)
	var result resolveResult
	require.NoError(t, yaml.Unmarshal([]byte(out), &result))
	assert.Equal(t, filepath.Join(dir, "pages", "home", "index.hbs"), result.Location)

	_, err = execute(t, "resolve", "-r", dir, "components/missing")
	assert.ErrorIs(t, err, errPartialNotFound)
}

func TestCompleteCommandListsAndAccepts(t *testing.T) {
	dir := withTemplates(t, "components/button.hbs", "components/badge.hbs")
	page := filepath.Join(t.TempDir(), "page.hbs")
	require.NoError(t, os.WriteFile(page, []byte(`{{> "components/b"}}`), 0644))

	out, err := execute(t, "complete", "-r", dir, page, "--offset", "17", "--format", "json")
	require.NoError(t, err)
	var listed completeResult
	require.NoError(t, json.Unmarshal([]byte(out), &listed))
	require.Len(t, listed.Candidates, 2)
	assert.Equal(t, "badge", listed.Candidates[0].Name)
	assert.Equal(t, "partial", listed.Candidates[0].Kind)
	assert.Equal(t, `{{> "components/b"}}`, listed.Text, "listing leaves the text alone")
	assert.Equal(t, 17, listed.Cursor)

	_, err = execute(t, "complete", "-r", dir, page, "--offset", "17", "--accept", "button", "--write")
	require.NoError(t, err)
	data, err := os.ReadFile(page)
	require.NoError(t, err)
	assert.Equal(t, `{{> "components/button"}}`, string(data))
}

func TestCompleteCommandErrors(t *testing.T) {
	dir := withTemplates(t, "components/button.hbs")
	page := filepath.Join(t.TempDir(), "page.hbs")
	require.NoError(t, os.WriteFile(page, []byte(`{{> comp`), 0644))

	_, err := execute(t, "complete", "-r", dir, page, "--offset", "99")
	assert.ErrorContains(t, err, "outside")

	_, err = execute(t, "complete", "-r", dir, page, "--offset", "8", "--accept", "nope")
	assert.ErrorIs(t, err, errNoCandidate)

	_, err = execute(t, "complete", "-r", dir, page, "--offset", "8", "--accept", "x", "--cancel")
	assert.Error(t, err)
}

func TestRunCompletionOnTextBuffer(t *testing.T) {
	dir := withTemplates(t, "components/button.hbs")
	c := &partial.Completer{Roots: partial.NewDirRoots([]string{dir}, nil), Ext: ".hbs"}

	buf := partial.NewTextBuffer(`{{> 'comp`, 9)
	result, err := runCompletion(c, buf, "components/")
	require.NoError(t, err)
	assert.Equal(t, "components", result.Accepted)
	assert.Equal(t, "{{> components/", result.Text, "unpaired quote is dropped")
	assert.Equal(t, 15, result.Cursor)
}

func TestWriteFormatted(t *testing.T) {
	var buf bytes.Buffer
	ok, err := writeFormatted(&buf, "text", nil)
	assert.False(t, ok)
	assert.NoError(t, err)

	ok, err = writeFormatted(&buf, "xml", nil)
	assert.True(t, ok)
	assert.ErrorContains(t, err, "unknown format")
}

func TestInfoListsFileTypes(t *testing.T) {
	dir := withTemplates(t)
	out, err := execute(t, "info", "-r", dir, "-r", filepath.Join(dir, "gone"))
	require.NoError(t, err)

	assert.Contains(t, out, "Handlebars")
	assert.Contains(t, out, ".hbs .handlebars")
	assert.Contains(t, out, "missing")
}
