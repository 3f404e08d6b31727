package trackeval

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Category is one fine-grained label of the evaluation schema.  SuperCategory
// optionally names the coarse class the category rolls up into.
type Category struct {
	Name          string `yaml:"name"`
	SuperCategory string `yaml:"supercategory,omitempty"`
}

// Config holds the category vocabulary and super class membership used for
// one evaluation run.  Category order fixes the row order of the result
// table.
type Config struct {
	Categories []Category `yaml:"categories"`
}

// SuperClass is a coarse label and the fine-grained categories it subsumes
type SuperClass struct {
	Name    string
	Members []string
}

// CategoryNames returns the fine-grained category names in schema order
func (c Config) CategoryNames() []string {
	names := make([]string, 0, len(c.Categories))
	for _, cat := range c.Categories {
		names = append(names, cat.Name)
	}
	return names
}

// SuperClasses returns the super classes in order of first appearance in the
// category list.  Categories without a super category belong to no super
// class but still contribute to OVERALL.
func (c Config) SuperClasses() []SuperClass {
	var order []string
	members := make(map[string][]string)

	for _, cat := range c.Categories {
		if cat.SuperCategory == "" {
			continue
		}
		if _, ok := members[cat.SuperCategory]; !ok {
			order = append(order, cat.SuperCategory)
		}
		members[cat.SuperCategory] = append(members[cat.SuperCategory], cat.Name)
	}

	supers := make([]SuperClass, 0, len(order))
	for _, name := range order {
		supers = append(supers, SuperClass{Name: name, Members: members[name]})
	}
	return supers
}

// LoadConfig reads an evaluation schema from the given YAML file
func LoadConfig(file string) (Config, error) {

	data, err := os.ReadFile(file)

	if err != nil {
		return Config{}, fmt.Errorf("error opening file: %w", err)
	}

	var cfg Config

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("error parsing config: %w", err)
	}

	if len(cfg.Categories) == 0 {
		return Config{}, fmt.Errorf("config %s defines no categories", file)
	}

	return cfg, nil
}

// DefaultConfig returns the BDD100K box-track schema
func DefaultConfig() Config {
	return Config{
		Categories: []Category{
			{Name: "pedestrian", SuperCategory: "human"},
			{Name: "rider", SuperCategory: "human"},
			{Name: "car", SuperCategory: "vehicle"},
			{Name: "truck", SuperCategory: "vehicle"},
			{Name: "bus", SuperCategory: "vehicle"},
			{Name: "train", SuperCategory: "vehicle"},
			{Name: "motorcycle", SuperCategory: "bike"},
			{Name: "bicycle", SuperCategory: "bike"},
		},
	}
}
