// Package taxonomy loads the project/task/subtask hierarchy and maps free-text
// descriptions onto its most specific label.
package taxonomy

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// MaxDepth is the number of levels searched: project, task and three subtask levels.
const MaxDepth = 5

// Node is one level of the hierarchy. Projects keep their children under
// "Tasks", every deeper level under "subtasks".
type Node struct {
	Name     string `json:"name" yaml:"name" validate:"required"`
	Tasks    []Node `json:"Tasks,omitempty" yaml:"Tasks,omitempty" validate:"dive"`
	Subtasks []Node `json:"subtasks,omitempty" yaml:"subtasks,omitempty" validate:"dive"`
}

// Children returns the node's children for a node at depth, where projects
// are depth 1. Projects read "Tasks" only, deeper levels "subtasks" only.
func (n Node) Children(depth int) []Node {
	if depth == 1 {
		return n.Tasks
	}
	return n.Subtasks
}

// Taxonomy is the root document.
type Taxonomy struct {
	Projects []Node `json:"projects" yaml:"projects" validate:"required,dive"`
}

// Index answers subtask queries against a loaded taxonomy. It is never
// mutated after construction and is safe for concurrent use.
type Index struct {
	projects []Node
	context  string
}

// Load reads a taxonomy definition. Files ending in .yaml or .yml are read
// as YAML, everything else as JSON.
func Load(path string) (*Index, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read taxonomy %s: %w", path, err)
	}

	var doc Taxonomy
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(content, &doc)
	default:
		err = json.Unmarshal(content, &doc)
	}
	if err != nil {
		return nil, fmt.Errorf("decode taxonomy %s: %w", path, err)
	}

	index, err := New(doc)
	if err != nil {
		return nil, fmt.Errorf("taxonomy %s: %w", path, err)
	}
	return index, nil
}

// New validates doc and builds an index over it.
func New(doc Taxonomy) (*Index, error) {
	if len(doc.Projects) == 0 {
		return nil, errors.New("taxonomy has no projects")
	}
	if err := validator.New().Struct(doc); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	encoded, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode taxonomy context: %w", err)
	}

	return &Index{
		projects: doc.Projects,
		context:  string(encoded),
	}, nil
}

// JSON returns the taxonomy serialized for use as prompt context.
func (i *Index) JSON() string {
	return i.context
}

// Projects returns a copy of the top-level nodes.
func (i *Index) Projects() []Node {
	return append([]Node(nil), i.projects...)
}

// FindSubtask returns the most specific node name contained in description,
// compared case-insensitively. Within a branch descendants are checked before
// their ancestor; branches are visited in document order.
func (i *Index) FindSubtask(description string) (string, bool) {
	needle := strings.ToLower(description)
	for _, project := range i.projects {
		if name, ok := deepestMatch(project, needle, 1); ok {
			return name, true
		}
	}
	return "", false
}

func deepestMatch(node Node, description string, depth int) (string, bool) {
	if depth < MaxDepth {
		for _, child := range node.Children(depth) {
			if name, ok := deepestMatch(child, description, depth+1); ok {
				return name, true
			}
		}
	}
	if strings.Contains(description, strings.ToLower(node.Name)) {
		return node.Name, true
	}
	return "", false
}
