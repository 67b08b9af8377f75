package schema_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/espalier/pkg/schema"
)

func TestParse_FullDocument(t *testing.T) {
	doc := []byte(`
layout_id: setup
title: Setup Wizard
description: Configure the service.
icon: "🔧"
defaults_file: defaults.yml
steps:
  - id: env
    type: select
    message: "Environment?"
    default: dev
    choices:
      - dev
      - name: Production
        value: prod
  - id: replicas
    type: text
    message: "Replicas?"
    validate: integer
    condition: "env == prod"
  - id: summary
    type: computed
    compute: env
output_mapping:
  deploy:
    environment: env
`)

	def, err := schema.Parse(doc)
	require.NoError(t, err)

	assert.Equal(t, "setup", def.LayoutID)
	assert.Equal(t, "Setup Wizard", def.Title)
	assert.Equal(t, "defaults.yml", def.DefaultsFile)
	assert.False(t, def.IsFragment())
	require.Len(t, def.Steps, 3)

	env := def.Steps[0]
	assert.Equal(t, schema.StepSelect, env.Type)
	assert.Equal(t, "dev", env.Default)
	require.Len(t, env.Choices, 2)
	assert.Equal(t, "dev", env.Choices[0].AnswerValue())
	assert.False(t, env.Choices[0].HasValue)
	assert.Equal(t, "prod", env.Choices[1].AnswerValue())
	assert.Equal(t, "Production", env.Choices[1].Name)

	assert.Equal(t, "env == prod", def.Steps[1].VisibilityCondition())
	assert.Equal(t, "integer", def.Steps[1].Validate)
	assert.Equal(t, "env", def.Steps[2].Compute)
	assert.Equal(t, "env", def.OutputMapping["deploy"].(map[string]any)["environment"])
}

func TestParse_LegacyIDAlias(t *testing.T) {
	def, err := schema.Parse([]byte("id: legacy\ntitle: Old\nsteps: []\n"))
	require.NoError(t, err)
	assert.Equal(t, "legacy", def.LayoutID)
}

func TestParse_WhenAlias(t *testing.T) {
	def, err := schema.Parse([]byte(`
layout_id: x
title: X
steps:
  - id: opt
    type: text
    message: "Opt?"
    when: "dbg == true"
`))
	require.NoError(t, err)
	assert.Equal(t, "dbg == true", def.Steps[0].VisibilityCondition())
}

func TestParse_FragmentDetection(t *testing.T) {
	def, err := schema.Parse([]byte(`
title: Database Settings
sublayout_defaults: db_defaults.yml
steps:
  - id: db_host
    type: text
    message: "Host?"
`))
	require.NoError(t, err)
	assert.True(t, def.IsFragment())
	assert.Equal(t, "db_defaults.yml", def.SublayoutDefaults)
}

func TestParse_Failures(t *testing.T) {
	t.Run("empty document", func(t *testing.T) {
		_, err := schema.Parse([]byte(""))
		assert.ErrorIs(t, err, schema.ErrEmptyDocument)
	})

	t.Run("malformed YAML", func(t *testing.T) {
		_, err := schema.Parse([]byte("steps: [unclosed"))
		assert.Error(t, err)
	})
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		_, err := schema.Load(filepath.Join(dir, "nope.yml"))
		assert.Error(t, err)
	})

	t.Run("round trip", func(t *testing.T) {
		path := filepath.Join(dir, "flow.yml")
		require.NoError(t, os.WriteFile(path, []byte("layout_id: f\ntitle: F\nsteps: []\n"), 0o644))

		def, err := schema.Load(path)
		require.NoError(t, err)
		assert.Equal(t, "f", def.LayoutID)
	})
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "defaults.yml")
	require.NoError(t, os.WriteFile(path, []byte("defaults:\n  env: prod\n  port: 8080\n"), 0o644))

	defaults, err := schema.LoadDefaults(path)
	require.NoError(t, err)
	assert.Equal(t, "prod", defaults["env"])
	assert.Equal(t, 8080, defaults["port"])
}
