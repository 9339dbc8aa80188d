package casefile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const incidentYAML = `title: The Hollow Creek Affair
required_characters: [emma, victor]
delay_units: 2
tier_thresholds: [0, 2]
cutscene_text:
  - A scream from the mill.
`

const cluesYAML = `- id: c_ledger
  display_text: A ledger with torn pages.
  notebook_summary: The ledger is missing three pages.
- id: c_watch
  display_text: A stopped pocket watch.
  notebook_summary: Stopped at a quarter past nine.
  unlock:
    character: victor
    tier: 0
`

const accusationJSON = `{
  "culprit": "victor",
  "minimum_clues": 1,
  "mistake_limit": 3,
  "failure_ending": "The town stops listening.",
  "bad_ending": "The case goes cold.",
  "suspects": [
    {
      "suspect": "victor",
      "confession": "Fine.",
      "motive": "The mill.",
      "statements": [
        {"id": "v1", "text": "I was home.", "requires_evidence": true, "required_evidence": "c_watch"},
        {"id": "v2", "text": "So?"}
      ]
    }
  ]
}`

const emmaYAML = `introduction:
  lines: ["I'm Emma."]
tiers:
  - threshold: 0
    first_visit: ["Terrible business."]
    repeat_pool: ["Still shaken."]
`

const victorJSON = `{
  "introduction": {"lines": ["Victor."]},
  "tiers": [
    {"threshold": 0, "first_visit": ["My watch stopped."], "unlocks_clues": ["c_watch"]}
  ]
}`

func writeCaseDir(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "hollow_creek")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "characters"), 0o755))

	files := map[string]string{
		"incident.yaml":          incidentYAML,
		"clues.yaml":             cluesYAML,
		"accusation.json":        accusationJSON,
		"characters/emma.yaml":   emmaYAML,
		"characters/victor.json": victorJSON,
		"characters/ignored.txt": "not a dialog tree",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func TestLoadMixedFormats(t *testing.T) {
	c, err := Load(writeCaseDir(t))
	require.NoError(t, err)

	assert.Equal(t, "hollow_creek", c.Name)
	assert.Equal(t, []string{"emma", "victor"}, c.Incident.RequiredCharacters)
	assert.Equal(t, 2, c.Incident.DelayUnits)
	require.Len(t, c.Clues, 2)
	assert.Equal(t, "victor", c.Clues[1].Unlock.Character)
	assert.True(t, c.Clues[0].Unlock.Immediate())

	// Character ids come from filenames, sorted; stray files are skipped.
	require.Len(t, c.Characters, 2)
	assert.Equal(t, "emma", c.Characters[0].Character)
	assert.Equal(t, "victor", c.Characters[1].Character)

	assert.Equal(t, "victor", c.Accusation.Culprit)
	require.NoError(t, c.Validate())
}

func TestLoadMissingDocument(t *testing.T) {
	dir := writeCaseDir(t)
	require.NoError(t, os.Remove(filepath.Join(dir, "incident.yaml")))

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "incident")
}

func TestLoadRejectsMalformedDocument(t *testing.T) {
	dir := writeCaseDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "clues.yaml"), []byte("{{nope"), 0o644))

	_, err := Load(dir)
	require.Error(t, err)
}
