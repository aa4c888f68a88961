package catalog

import (
	"cmp"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/raphaelgruber/showmarks/internal/models"
	"github.com/raphaelgruber/showmarks/internal/parser"
)

// LoadMarkdownDir reads every *.md file under dir/episodes (or dir itself when
// it has no episodes subdirectory) and validates the result. Episodes are
// ordered by number; equal numbers keep file name order.
func LoadMarkdownDir(dir string) ([]models.Episode, error) {
	root := markdownRoot(dir)
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read markdown catalog: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && isMarkdown(e.Name()) {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)

	episodes := make([]models.Episode, 0, len(names))
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(root, name))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		ep, err := parser.Parse(string(data))
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		episodes = append(episodes, ep)
	}

	slices.SortStableFunc(episodes, func(a, b models.Episode) int {
		return cmp.Compare(a.EpisodeNumber, b.EpisodeNumber)
	})

	if err := Validate(episodes); err != nil {
		return nil, err
	}
	return episodes, nil
}

// markdownRoot is the directory holding the episode documents of an export at dir.
func markdownRoot(dir string) string {
	root := filepath.Join(dir, "episodes")
	if info, err := os.Stat(root); err == nil && info.IsDir() {
		return root
	}
	return dir
}

func isMarkdown(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".md")
}
