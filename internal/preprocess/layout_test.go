package preprocess_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/espalier/internal/preprocess"
	"github.com/aretw0/espalier/pkg/schema"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestExpander_Flattening(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "network.yml", `
title: Network
sublayout_defaults: net_defaults.yml
steps:
  - id: host
    type: text
    message: "Host?"
  - id: port
    type: text
    message: "Port?"
`)
	writeFile(t, dir, "auth.yml", `
steps:
  - id: user
    type: text
    message: "User?"
`)
	main := writeFile(t, dir, "main.yml", `
layout_id: main
title: Main
steps:
  - id: intro
    type: info
    title: Welcome
  - sublayout: network.yml
    subid: net
  - sublayout: auth.yml
    subid: auth
  - id: done
    type: confirm
    message: "Proceed?"
`)

	expanded, err := preprocess.NewExpander(nil).Expand(main)
	require.NoError(t, err)

	// 2 root steps + 2 network steps + 1 auth step + 1 synthesized header
	// for the titled network sublayout (auth has neither title nor
	// description, so no header).
	require.Len(t, expanded.Steps, 6)

	ids := make([]string, 0, len(expanded.Steps))
	for _, step := range expanded.Steps {
		ids = append(ids, step.ID)
	}
	assert.Equal(t, []string{"intro", "_header_net", "host", "port", "user", "done"}, ids)

	header := expanded.Steps[1]
	assert.Equal(t, schema.StepInfo, header.Type)
	assert.Equal(t, "Network", header.Title)

	// The root document keeps its own metadata.
	assert.Equal(t, "main", expanded.LayoutID)
}

func TestExpander_NestedSublayouts(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "inner.yml", `
steps:
  - id: deep
    type: text
    message: "Deep?"
`)
	writeFile(t, dir, "outer.yml", `
steps:
  - sublayout: inner.yml
    subid: inner
  - id: shallow
    type: text
    message: "Shallow?"
`)
	main := writeFile(t, dir, "main.yml", `
layout_id: main
title: Main
steps:
  - sublayout: outer.yml
    subid: outer
`)

	expanded, err := preprocess.NewExpander(nil).Expand(main)
	require.NoError(t, err)
	require.Len(t, expanded.Steps, 2)
	assert.Equal(t, "deep", expanded.Steps[0].ID)
	assert.Equal(t, "shallow", expanded.Steps[1].ID)
}

func TestExpander_CycleDetection(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.yml", `
layout_id: a
title: A
steps:
  - sublayout: b.yml
    subid: b
`)
	writeFile(t, dir, "b.yml", `
steps:
  - sublayout: a.yml
    subid: a
`)

	_, err := preprocess.NewExpander(nil).Expand(filepath.Join(dir, "a.yml"))
	assert.ErrorIs(t, err, preprocess.ErrCircularReference)
}

func TestExpander_SelfReference(t *testing.T) {
	dir := t.TempDir()
	self := writeFile(t, dir, "self.yml", `
layout_id: self
title: Self
steps:
  - sublayout: self.yml
    subid: again
`)

	_, err := preprocess.NewExpander(nil).Expand(self)
	assert.ErrorIs(t, err, preprocess.ErrCircularReference)
}

func TestExpander_DuplicateIDsAfterMerge(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "one.yml", `
steps:
  - id: host
    type: text
    message: "Host?"
`)
	writeFile(t, dir, "two.yml", `
steps:
  - id: host
    type: text
    message: "Other host?"
`)
	main := writeFile(t, dir, "main.yml", `
layout_id: main
title: Main
steps:
  - sublayout: one.yml
    subid: one
  - sublayout: two.yml
    subid: two
`)

	_, err := preprocess.NewExpander(nil).Expand(main)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate step ids after expansion")
	assert.Contains(t, err.Error(), "host")
}

func TestExpander_MissingSublayout(t *testing.T) {
	dir := t.TempDir()
	main := writeFile(t, dir, "main.yml", `
layout_id: main
title: Main
steps:
  - sublayout: ghost.yml
    subid: ghost
`)

	_, err := preprocess.NewExpander(nil).Expand(main)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghost.yml")
}

func TestExpander_Snapshot(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "sub.yml", `
steps:
  - id: inner
    type: text
    message: "Inner?"
`)
	main := writeFile(t, dir, "main.yml", `
layout_id: main
title: Main
steps:
  - sublayout: sub.yml
    subid: sub
`)

	out := filepath.Join(dir, "out", "virtual.yml")
	_, err := preprocess.NewExpander(nil).ExpandToFile(main, out)
	require.NoError(t, err)

	reloaded, err := schema.Load(out)
	require.NoError(t, err)
	require.Len(t, reloaded.Steps, 1)
	assert.Equal(t, "inner", reloaded.Steps[0].ID)
}
