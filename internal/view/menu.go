package view

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/odyssey-erp/odyssey-admin/internal/rbac"
	"github.com/odyssey-erp/odyssey-admin/internal/shared"
)

// MenuItem is one sidebar link.
type MenuItem struct {
	Label      string `yaml:"label"`
	Path       string `yaml:"path"`
	Permission string `yaml:"permission"`
}

// MenuSection groups sidebar links.
type MenuSection struct {
	Title string     `yaml:"title"`
	Items []MenuItem `yaml:"items"`
}

// Menu is the whole sidebar.
type Menu struct {
	Sections []MenuSection `yaml:"sections"`
}

// ParseMenu decodes the YAML menu definition.
func ParseMenu(raw []byte) (Menu, error) {
	var m Menu
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return Menu{}, fmt.Errorf("view: parse menu: %w", err)
	}
	for _, s := range m.Sections {
		for _, item := range s.Items {
			if item.Label == "" || !strings.HasPrefix(item.Path, "/") {
				return Menu{}, fmt.Errorf("view: menu item %q in %q needs a label and an absolute path", item.Label, s.Title)
			}
		}
	}
	return m, nil
}

// For keeps the items p may open and drops empty sections.
// Anonymous users get no menu.
func (m Menu) For(p *shared.Principal) []MenuSection {
	if p == nil {
		return nil
	}
	out := make([]MenuSection, 0, len(m.Sections))
	for _, s := range m.Sections {
		visible := MenuSection{Title: s.Title}
		for _, item := range s.Items {
			if rbac.Allowed(p, item.Permission) {
				visible.Items = append(visible.Items, item)
			}
		}
		if len(visible.Items) > 0 {
			out = append(out, visible)
		}
	}
	return out
}
