// Package catalog loads the quest reference data from a YAML file.
package catalog

import (
	"context"
	"fmt"
	"os"
	"strings"

	"questpath/internal/model"

	"gopkg.in/yaml.v3"
)

type questEntry struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Difficulty  string `yaml:"difficulty"`
	XPReward    int    `yaml:"xp_reward"`
}

type file struct {
	Quests []questEntry `yaml:"quests"`
}

// Catalog is an immutable list of quests.
type Catalog struct {
	quests []*model.Quest
}

func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read quest catalog: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse validates a YAML catalog. IDs must be present and unique; an empty
// difficulty means beginner and a missing reward takes the difficulty default.
func Parse(data []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse quest catalog: %w", err)
	}

	seen := make(map[string]struct{}, len(f.Quests))
	quests := make([]*model.Quest, 0, len(f.Quests))

	for i, e := range f.Quests {
		id := strings.TrimSpace(e.ID)
		if id == "" {
			return nil, fmt.Errorf("quest #%d has no id", i+1)
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("duplicate quest id %q", id)
		}
		seen[id] = struct{}{}

		difficulty := model.Difficulty(strings.ToLower(strings.TrimSpace(e.Difficulty)))
		if difficulty == "" {
			difficulty = model.DifficultyBeginner
		}
		if !difficulty.Valid() {
			return nil, fmt.Errorf("quest %q: unknown difficulty %q", id, e.Difficulty)
		}

		reward := e.XPReward
		if reward <= 0 {
			reward = difficulty.DefaultReward()
		}

		quests = append(quests, &model.Quest{
			ID:          id,
			Title:       e.Title,
			Description: e.Description,
			Difficulty:  difficulty,
			XPReward:    reward,
		})
	}

	return &Catalog{quests: quests}, nil
}

// ListQuests returns copies so callers cannot mutate the catalog.
func (c *Catalog) ListQuests(_ context.Context) ([]*model.Quest, error) {
	out := make([]*model.Quest, len(c.quests))
	for i, q := range c.quests {
		cp := *q
		out[i] = &cp
	}
	return out, nil
}

func (c *Catalog) Len() int {
	return len(c.quests)
}
