// Package catalog loads the episode collection from disk and keeps an
// immutable snapshot of it in memory.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/raphaelgruber/showmarks/internal/models"
)

// Sentinel errors for catalog loading.
var (
	// ErrUnsupportedFormat indicates a catalog file extension that is neither JSON nor YAML.
	ErrUnsupportedFormat = errors.New("unsupported catalog format")

	// ErrInvalidEpisode indicates a record that failed validation.
	ErrInvalidEpisode = errors.New("invalid episode")
)

// Format is the encoding of a catalog file.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

var hmsPattern = regexp.MustCompile(`^\d+:\d{1,2}:\d{1,2}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Error messages use the wire field names.
	v.RegisterTagNameFunc(jsonFieldName)
	_ = v.RegisterValidation("hms", func(fl validator.FieldLevel) bool {
		return hmsPattern.MatchString(fl.Field().String())
	})
	return v
}

// FormatFor derives the format from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Load reads and validates the catalog at path. A directory is read as a
// Markdown export.
func Load(path string) ([]models.Episode, error) {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return LoadMarkdownDir(path)
	}

	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	return Decode(f, format)
}

// Decode parses and validates a catalog in the given format.
func Decode(r io.Reader, format Format) ([]models.Episode, error) {
	var episodes []models.Episode

	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&episodes); err != nil {
			return nil, fmt.Errorf("decode json catalog: %w", err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&episodes); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode yaml catalog: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	if err := Validate(episodes); err != nil {
		return nil, err
	}
	return episodes, nil
}

// Encode writes episodes in the given format. The output can be read back by Decode.
func Encode(w io.Writer, episodes []models.Episode, format Format) error {
	if episodes == nil {
		episodes = []models.Episode{}
	}
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(episodes); err != nil {
			return fmt.Errorf("encode json catalog: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(episodes); err != nil {
			return fmt.Errorf("encode yaml catalog: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("encode yaml catalog: %w", err)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return nil
}

// Validate checks every episode. It does not modify them.
func Validate(episodes []models.Episode) error {
	for i := range episodes {
		if err := validate.Struct(&episodes[i]); err != nil {
			return fmt.Errorf("%w at index %d (episode %d): %s",
				ErrInvalidEpisode, i, episodes[i].EpisodeNumber, describe(err))
		}
	}
	return nil
}

// describe flattens validator errors into "field: tag" pairs.
func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s: %s", strings.TrimPrefix(fe.Namespace(), "Episode."), fe.Tag()))
	}
	return strings.Join(parts, ", ")
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}
