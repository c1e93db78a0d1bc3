package convert

import (
	"sort"
	"strings"
)

// PresetCatalog resolves client-facing preset names to engine configuration
// references. Built once at startup from configuration and immutable
// afterwards.
type PresetCatalog struct {
	refs  map[string]string
	names []string
}

// NewPresetCatalog builds a catalog from name -> engine reference entries.
func NewPresetCatalog(entries map[string]string) *PresetCatalog {
	refs := make(map[string]string, len(entries))
	names := make([]string, 0, len(entries))
	for name, ref := range entries {
		name = strings.TrimSpace(name)
		ref = strings.TrimSpace(ref)
		if name == "" || ref == "" {
			continue
		}
		refs[name] = ref
		names = append(names, name)
	}
	sort.Strings(names)
	return &PresetCatalog{refs: refs, names: names}
}

// Resolve returns the engine configuration reference for a preset name.
func (c *PresetCatalog) Resolve(name string) (string, bool) {
	ref, ok := c.refs[strings.TrimSpace(name)]
	return ref, ok
}

// Names returns the known preset names in sorted order.
func (c *PresetCatalog) Names() []string {
	return append([]string(nil), c.names...)
}
