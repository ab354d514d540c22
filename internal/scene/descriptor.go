package scene

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Descriptor is the parsed form of a scene file.
type Descriptor struct {
	Name          string             `yaml:"name"`
	Title         string             `yaml:"title"`
	Entities      []EntityDescriptor `yaml:"entities"`
	Notifications []NotificationSpec `yaml:"notifications"`
}

// EntityDescriptor is one node of a scene's entity tree.
type EntityDescriptor struct {
	Name     string             `yaml:"name"`
	Children []EntityDescriptor `yaml:"children,omitempty"`
}

// NotificationSpec names a trigger the scene exposes and the message shown
// when it is posted.
type NotificationSpec struct {
	Name    string `yaml:"name"`
	Message string `yaml:"message"`
}

// parseDescriptor decodes and sanity-checks a scene file. A missing name
// falls back to the file's base name.
func parseDescriptor(data []byte, fallbackName string) (*Descriptor, error) {
	var d Descriptor
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, err
	}
	if d.Name == "" {
		d.Name = fallbackName
	}
	if d.Title == "" {
		d.Title = d.Name
	}

	seen := make(map[string]bool, len(d.Notifications))
	for i, n := range d.Notifications {
		name := strings.TrimSpace(n.Name)
		if name == "" {
			return nil, fmt.Errorf("notifications[%d]: name is required", i)
		}
		if seen[name] {
			return nil, fmt.Errorf("notifications[%d]: duplicate trigger %q", i, name)
		}
		seen[name] = true
	}
	if err := checkEntities(d.Entities, "entities"); err != nil {
		return nil, err
	}
	return &d, nil
}

func checkEntities(entities []EntityDescriptor, path string) error {
	for i, e := range entities {
		p := fmt.Sprintf("%s[%d]", path, i)
		if strings.TrimSpace(e.Name) == "" {
			return fmt.Errorf("%s: name is required", p)
		}
		if err := checkEntities(e.Children, p+".children"); err != nil {
			return err
		}
	}
	return nil
}

// countEntities returns the number of entities at the top level, or in the
// whole tree when recursive is set.
func countEntities(entities []EntityDescriptor, recursive bool) int {
	n := len(entities)
	if !recursive {
		return n
	}
	for _, e := range entities {
		n += countEntities(e.Children, true)
	}
	return n
}
