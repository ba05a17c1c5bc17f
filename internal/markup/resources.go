package markup

import "sort"

// ResourceDictionary is a keyed collection of string resources. It is a
// valid template document but not a visual element, so it cannot be
// rendered.
type ResourceDictionary struct {
	entries map[string]string
}

// NewResourceDictionary returns an empty dictionary.
func NewResourceDictionary() *ResourceDictionary {
	return &ResourceDictionary{entries: make(map[string]string)}
}

// Lookup returns the resource stored under key.
func (d *ResourceDictionary) Lookup(key string) (string, bool) {
	v, ok := d.entries[key]
	return v, ok
}

// Keys returns the resource keys in sorted order.
func (d *ResourceDictionary) Keys() []string {
	keys := make([]string, 0, len(d.entries))
	for k := range d.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of resources.
func (d *ResourceDictionary) Len() int { return len(d.entries) }
