// Package catalog picks human-facing wording for a message category. Callers
// pass only category keys and substitution variables; the prose itself lives
// in a YAML phrase table so tone can change without touching engine code.
package catalog

import (
	_ "embed"
	"fmt"
	"math/rand"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Message categories the engine emits.
const (
	CatGreeting        = "greeting"
	CatHelp            = "help"
	CatListHeader      = "list_header"
	CatListEmpty       = "list_empty"
	CatTaskDone        = "task_done"
	CatTaskDoneFail    = "task_done_fail"
	CatTaskAdded       = "task_added"
	CatTaskRemoved     = "task_removed"
	CatTaskPostponed   = "task_postponed"
	CatPromptIndices   = "prompt_indices"
	CatPromptText      = "prompt_text"
	CatCancelAck       = "cancel_ack"
	CatMenuHeader      = "menu_header"
	CatProgress        = "progress"
	CatCheckinMorning  = "checkin_morning"
	CatCheckinMidday   = "checkin_midday"
	CatCheckinEvening  = "checkin_evening"
	CatCheckinAck      = "checkin_ack"
	CatCheckinReminder = "checkin_reminder"
	CatApology         = "apology"
)

//go:embed phrases.yaml
var embeddedPhrases []byte

type phraseFile struct {
	Phrases map[string][]string `yaml:"phrases"`
}

// Catalog resolves a category key to one of its phrasings, substituting
// {name} variables. Selection is uniform over the category's variants.
type Catalog struct {
	phrases map[string][]string
	rng     *rand.Rand
}

type Option func(*Catalog)

// WithSeed makes phrase selection deterministic. Tests use it; production
// leaves the default source.
func WithSeed(seed int64) Option {
	return func(c *Catalog) {
		c.rng = rand.New(rand.NewSource(seed))
	}
}

// New loads the embedded phrase table.
func New(opts ...Option) (*Catalog, error) {
	return parse(embeddedPhrases, opts...)
}

// Load reads a phrase table from disk, replacing the embedded default.
func Load(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog read %s: %w", path, err)
	}
	return parse(raw)
}

func parse(raw []byte, opts ...Option) (*Catalog, error) {
	var file phraseFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("catalog parse: %w", err)
	}
	if len(file.Phrases) == 0 {
		return nil, fmt.Errorf("catalog has no phrases")
	}
	c := &Catalog{phrases: file.Phrases}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Pick returns one phrasing for the category with {name} variables
// substituted. An unknown category degrades to the category key so the
// conversation never goes silent.
func (c *Catalog) Pick(category string, vars map[string]string) string {
	variants := c.phrases[category]
	if len(variants) == 0 {
		return category
	}
	var text string
	if len(variants) == 1 {
		text = variants[0]
	} else if c.rng != nil {
		text = variants[c.rng.Intn(len(variants))]
	} else {
		text = variants[rand.Intn(len(variants))]
	}
	for k, v := range vars {
		text = strings.ReplaceAll(text, "{"+k+"}", v)
	}
	return strings.TrimSpace(text)
}
