// Package parser reads and writes episodes as Markdown documents with YAML
// frontmatter.
package parser

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/raphaelgruber/showmarks/internal/models"
)

// ErrNoFrontmatter indicates a document without a leading "---" block.
var ErrNoFrontmatter = errors.New("missing frontmatter")

// Frontmatter is the YAML header of an episode document.
type Frontmatter struct {
	EpisodeNumber int         `yaml:"episode_number"`
	Title         string      `yaml:"title,omitempty"`
	Date          models.Date `yaml:"date"`
	YouTubeID     string      `yaml:"youtube_id"`
	URL           string      `yaml:"url,omitempty"`
	Timestamps    int         `yaml:"timestamps"`
}

var (
	h1Regex = regexp.MustCompile(`^#\s+(.+)$`)
	// "- [00:12:30](https://...) Topic" as written by Render.
	linkedItemRegex = regexp.MustCompile(`^[-*]\s+\[(\d+:\d{1,2}:\d{1,2})\]\([^)]*\)\s*(.*)$`)
	// "- 00:12:30 Topic", optionally with a dash between offset and topic.
	plainItemRegex = regexp.MustCompile(`^[-*]\s+(\d+:\d{1,2}:\d{1,2})\s+(?:[–-]\s+)?(.*)$`)
)

// Render writes ep as a Markdown document.
func Render(ep models.Episode) ([]byte, error) {
	front, err := yaml.Marshal(Frontmatter{
		EpisodeNumber: ep.EpisodeNumber,
		Title:         ep.Title,
		Date:          ep.Date,
		YouTubeID:     ep.YouTubeID,
		URL:           ep.VideoURL(),
		Timestamps:    ep.TimestampCount(),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal frontmatter: %w", err)
	}

	var b bytes.Buffer
	b.WriteString("---\n")
	b.Write(front)
	b.WriteString("---\n\n")
	fmt.Fprintf(&b, "# %s\n\n", ep.Title)
	for _, ts := range ep.Timestamps {
		fmt.Fprintf(&b, "- [%s](%s) %s\n", ts.Timestamp, ep.TimestampURL(ts), ts.Topic)
	}
	return b.Bytes(), nil
}

// Parse reads an episode document. The title comes from frontmatter or the
// first h1; timestamps come from list items that start with an h:m:s offset.
// Other lines are ignored.
func Parse(content string) (models.Episode, error) {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	if !strings.HasPrefix(content, "---\n") {
		return models.Episode{}, ErrNoFrontmatter
	}
	endIdx := strings.Index(content[4:], "\n---")
	if endIdx < 0 {
		return models.Episode{}, ErrNoFrontmatter
	}
	frontmatterYAML := content[4 : 4+endIdx]
	body := strings.TrimPrefix(content[4+endIdx+4:], "\n")

	var fm Frontmatter
	if err := yaml.Unmarshal([]byte(frontmatterYAML), &fm); err != nil {
		return models.Episode{}, fmt.Errorf("parse frontmatter: %w", err)
	}

	ep := models.Episode{
		EpisodeNumber: fm.EpisodeNumber,
		Title:         fm.Title,
		Date:          fm.Date,
		YouTubeID:     fm.YouTubeID,
	}

	scanner := bufio.NewScanner(strings.NewReader(body))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if ep.Title == "" {
			if match := h1Regex.FindStringSubmatch(line); match != nil {
				ep.Title = strings.TrimSpace(match[1])
				continue
			}
		}
		if ts, ok := parseItem(line); ok {
			ep.Timestamps = append(ep.Timestamps, ts)
		}
	}
	if err := scanner.Err(); err != nil {
		return models.Episode{}, fmt.Errorf("scan body: %w", err)
	}
	return ep, nil
}

func parseItem(line string) (models.Timestamp, bool) {
	for _, re := range []*regexp.Regexp{linkedItemRegex, plainItemRegex} {
		if match := re.FindStringSubmatch(line); match != nil {
			return models.Timestamp{
				Timestamp: match[1],
				Topic:     strings.TrimSpace(match[2]),
			}, true
		}
	}
	return models.Timestamp{}, false
}

// Filename is "<number>-<slug>.md", e.g. "012-intro-to-rust.md".
func Filename(ep models.Episode) string {
	slug := models.Slugify(ep.Title)
	if slug == "" {
		return fmt.Sprintf("%03d.md", ep.EpisodeNumber)
	}
	return fmt.Sprintf("%03d-%s.md", ep.EpisodeNumber, slug)
}
