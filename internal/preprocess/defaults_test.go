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

func TestDefaultsMerger_Layering(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "global.yml", "defaults:\n  env: B\n  region: eu\n")
	writeFile(t, dir, "db.yml", `
title: Database
sublayout_defaults: db_defaults.yml
steps:
  - id: env
    type: text
    message: "Env?"
`)
	writeFile(t, dir, "db_defaults.yml", "defaults:\n  env: C\n")
	main := writeFile(t, dir, "main.yml", `
layout_id: main
title: Main
defaults_file: global.yml
steps:
  - sublayout: db.yml
    subid: db
`)

	def, err := schema.Load(main)
	require.NoError(t, err)

	merged := preprocess.NewDefaultsMerger(nil).Merge(main, def)

	// Sublayout layer wins over the global layer key-by-key; untouched
	// global keys survive.
	assert.Equal(t, "C", merged["env"])
	assert.Equal(t, "eu", merged["region"])
}

func TestDefaultsMerger_SiblingCollision(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.yml", `
title: A
sublayout_defaults: a_defaults.yml
steps:
  - id: shared
    type: text
    message: "A?"
`)
	writeFile(t, dir, "a_defaults.yml", "defaults:\n  shared: from-a\n  only_a: 1\n")
	writeFile(t, dir, "b.yml", `
title: B
sublayout_defaults: b_defaults.yml
steps:
  - id: other
    type: text
    message: "B?"
`)
	writeFile(t, dir, "b_defaults.yml", "defaults:\n  shared: from-b\n  only_b: 2\n")
	main := writeFile(t, dir, "main.yml", `
layout_id: main
title: Main
steps:
  - sublayout: a.yml
    subid: a
  - sublayout: b.yml
    subid: b
`)

	def, err := schema.Load(main)
	require.NoError(t, err)

	merged := preprocess.NewDefaultsMerger(nil).Merge(main, def)

	// Later sibling wins collisions; both sets' unique keys are present.
	assert.Equal(t, "from-b", merged["shared"])
	assert.Equal(t, 1, merged["only_a"])
	assert.Equal(t, 2, merged["only_b"])
}

func TestDefaultsMerger_NestedSublayoutDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "parts"), 0o755))
	writeFile(t, dir, "parts/net.yml", `
title: Network
sublayout_defaults: net_defaults.yml
steps:
  - id: host
    type: text
    message: "Host?"
`)
	writeFile(t, dir, "parts/net_defaults.yml", "defaults:\n  host: example.org\n")
	main := writeFile(t, dir, "main.yml", `
layout_id: main
title: Main
steps:
  - sublayout: parts/net.yml
    subid: net
`)

	def, err := schema.Load(main)
	require.NoError(t, err)

	merged := preprocess.NewDefaultsMerger(nil).Merge(main, def)

	// The defaults path is relative to the sublayout file, not the main
	// layout, so the layer in parts/ must be picked up.
	assert.Equal(t, "example.org", merged["host"])
}

func TestDefaultsMerger_MissingLayersAreSoft(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "sub.yml", `
title: Sub
sublayout_defaults: gone.yml
steps:
  - id: x
    type: text
    message: "X?"
`)
	main := writeFile(t, dir, "main.yml", `
layout_id: main
title: Main
defaults_file: also_gone.yml
steps:
  - sublayout: sub.yml
    subid: sub
`)

	def, err := schema.Load(main)
	require.NoError(t, err)

	merged := preprocess.NewDefaultsMerger(nil).Merge(main, def)
	assert.Empty(t, merged)
}

func TestDefaultsMerger_Snapshot(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "global.yml", "defaults:\n  env: prod\n")
	main := writeFile(t, dir, "main.yml", `
layout_id: main
title: Main
defaults_file: global.yml
steps:
  - id: env
    type: text
    message: "Env?"
`)

	def, err := schema.Load(main)
	require.NoError(t, err)

	out := filepath.Join(dir, "unified.yml")
	merged, err := preprocess.NewDefaultsMerger(nil).MergeToFile(main, def, out)
	require.NoError(t, err)
	assert.Equal(t, "prod", merged["env"])

	reloaded, err := schema.LoadDefaults(out)
	require.NoError(t, err)
	assert.Equal(t, "prod", reloaded["env"])
}
