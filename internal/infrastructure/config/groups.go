package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ersonp/worldpurse/internal/domain/services"
)

// GroupsConfig holds the world group definitions from groups.yaml.
// The file is a mapping of group name to a list of world names:
//
//	survival:
//	  - world_b
//	  - world_c
//	creative:
//	  - flatlands
//
// Document order is preserved because a world listed under two groups
// keeps its most recent assignment.
type GroupsConfig struct {
	Groups []services.GroupDefinition
}

// UnmarshalYAML decodes the top-level mapping without losing key order.
func (c *GroupsConfig) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("groups file must map group names to world lists")
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		var name string
		if err := node.Content[i].Decode(&name); err != nil {
			return fmt.Errorf("decoding group name: %w", err)
		}
		var worlds []string
		if err := node.Content[i+1].Decode(&worlds); err != nil {
			return fmt.Errorf("decoding worlds of group %q: %w", name, err)
		}
		c.Groups = append(c.Groups, services.GroupDefinition{Name: name, Worlds: worlds})
	}
	return nil
}

// LoadGroups loads the world group configuration from the data
// directory. A missing file yields an empty configuration: every world
// keeps an independent balance.
func LoadGroups(dataDir string) (*GroupsConfig, error) {
	data, err := os.ReadFile(filepath.Join(dataDir, DefaultGroupsFile))
	if os.IsNotExist(err) {
		return &GroupsConfig{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading groups file: %w", err)
	}

	var cfg GroupsConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing groups file: %w", err)
	}
	return &cfg, nil
}
