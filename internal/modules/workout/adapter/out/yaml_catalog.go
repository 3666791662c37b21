package out

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"pajama/internal/modules/workout/domain"
	workoutout "pajama/internal/modules/workout/port/out"
	"pajama/internal/platform/markdown"
)

//go:embed catalog.yaml
var builtinCatalog []byte

type catalogFile struct {
	Workouts []domain.Workout `yaml:"workouts"`
}

type YAMLCatalog struct {
	workouts []domain.Workout
}

// NewYAMLCatalog parses the embedded catalog. Every entry must validate.
func NewYAMLCatalog() (workoutout.Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(builtinCatalog, &file); err != nil {
		return nil, fmt.Errorf("parse builtin catalog: %w", err)
	}
	for _, w := range file.Workouts {
		if err := w.Validate(); err != nil {
			return nil, fmt.Errorf("builtin workout %s: %w", w.ID, err)
		}
	}
	return &YAMLCatalog{workouts: file.Workouts}, nil
}

func (c *YAMLCatalog) Builtins(context.Context) ([]domain.Workout, error) {
	out := make([]domain.Workout, len(c.workouts))
	copy(out, c.workouts)
	return out, nil
}

// YAMLDefinitionReader loads a single workout definition from disk. Markdown
// files carry the definition as frontmatter; their body becomes the
// description unless the frontmatter sets one.
type YAMLDefinitionReader struct{}

func NewYAMLDefinitionReader() workoutout.DefinitionReader {
	return YAMLDefinitionReader{}
}

func (YAMLDefinitionReader) ReadDefinition(_ context.Context, path string) (domain.Workout, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return domain.Workout{}, fmt.Errorf("read workout file: %w", err)
	}
	body := ""
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		meta, rest, err := markdown.SplitFrontmatter(string(raw))
		if err != nil {
			return domain.Workout{}, fmt.Errorf("parse workout file: %w", err)
		}
		raw, body = meta, strings.TrimSpace(rest)
	}
	var w domain.Workout
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return domain.Workout{}, fmt.Errorf("parse workout file: %w", err)
	}
	if w.Description == "" {
		w.Description = body
	}
	return w, nil
}
