// Package models defines data structures for the showmarks episode catalog.
package models

import (
	"fmt"
	"strconv"
	"strings"
)

// videoBaseURL is the watch page every YouTube ID is resolved against.
const videoBaseURL = "https://www.youtube.com/watch?v="

// Episode is one show episode with its topic timestamps.
type Episode struct {
	EpisodeNumber int         `json:"episode_number" yaml:"episode_number"`
	Title         string      `json:"title" yaml:"title" validate:"required"`
	Date          Date        `json:"date" yaml:"date"`
	YouTubeID     string      `json:"youtube_id" yaml:"youtube_id"`
	Timestamps    []Timestamp `json:"timestamps" yaml:"timestamps" validate:"dive"`
}

// Timestamp marks a topic at an offset within an episode.
type Timestamp struct {
	Timestamp string `json:"timestamp" yaml:"timestamp" validate:"required,hms"`
	Topic     string `json:"topic" yaml:"topic" validate:"required"`
}

// TimestampCount returns the number of timestamps. A nil list counts as zero.
func (e Episode) TimestampCount() int {
	return len(e.Timestamps)
}

// VideoURL returns the watch URL for the episode.
func (e Episode) VideoURL() string {
	return videoBaseURL + e.YouTubeID
}

// TimestampURL returns a deep link that starts playback at ts.
func (e Episode) TimestampURL(ts Timestamp) string {
	return fmt.Sprintf("%s&t=%ds", e.VideoURL(), ts.Seconds())
}

// Seconds returns the offset of the timestamp in seconds.
func (t Timestamp) Seconds() int {
	return ParseOffset(t.Timestamp)
}

// ParseOffset converts an "h:m:s" offset to total seconds (h*3600 + m*60 + s).
// Missing or non-numeric components count as zero.
func ParseOffset(hms string) int {
	parts := strings.Split(strings.TrimSpace(hms), ":")
	var h, m, s int
	if len(parts) > 0 {
		h = atoiOrZero(parts[0])
	}
	if len(parts) > 1 {
		m = atoiOrZero(parts[1])
	}
	if len(parts) > 2 {
		s = atoiOrZero(parts[2])
	}
	return h*3600 + m*60 + s
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
