package command

import (
	"fmt"
	"os"
	"strings"

	"github.com/pixil98/go-covenants/internal/rules"
	"github.com/pixil98/go-covenants/internal/storage"
)

// BoardConfig picks the layout rooms are played on. Without a layouts
// path the built-in board is used.
type BoardConfig struct {
	LayoutsPath string `json:"layouts_path"`
	Layout      string `json:"layout"`
}

func (c *BoardConfig) validate() error {
	if c.LayoutsPath == "" {
		if c.Layout != "" {
			return fmt.Errorf("board: layout %q requires layouts_path", c.Layout)
		}
		return nil
	}

	_, err := os.Stat(c.LayoutsPath)
	if err != nil {
		return fmt.Errorf("board: invalid layouts_path %q: %w", c.LayoutsPath, err)
	}
	return nil
}

func (c *BoardConfig) buildMap() (*rules.Map, error) {
	if c.LayoutsPath == "" {
		return rules.DefaultMap(), nil
	}

	store, err := storage.NewFileStore[*rules.Layout](c.LayoutsPath)
	if err != nil {
		return nil, fmt.Errorf("loading layouts: %w", err)
	}

	ids := store.Ids()
	name := c.Layout
	if name == "" {
		if len(ids) != 1 {
			return nil, fmt.Errorf("layout must be set when %s holds %d layouts", c.LayoutsPath, len(ids))
		}
		name = ids[0]
	}

	layout, ok := store.Get(name)
	if !ok {
		return nil, fmt.Errorf("layout %q not found (have: %s)", name, strings.Join(ids, ", "))
	}
	return rules.NewMap(layout)
}
