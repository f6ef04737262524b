package publish

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strings"
)

// LoadMapping reads a JSON object of base name to object key. Values that
// are full URLs are reduced to their path, so a previously published
// mapping file can be fed back in for re-signing.
func LoadMapping(mappingPath string) (Mapping, error) {
	data, err := os.ReadFile(mappingPath)
	if err != nil {
		return nil, fmt.Errorf("load mapping: %w", err)
	}

	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("load mapping %s: %w", mappingPath, err)
	}

	m := make(Mapping, len(raw))
	for name, v := range raw {
		m[name] = keyFromValue(v)
	}
	return m, nil
}

// Save writes the mapping as indented JSON with names sorted.
func (m Mapping) Save(mappingPath string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("save mapping: %w", err)
	}
	if err := os.WriteFile(mappingPath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("save mapping %s: %w", mappingPath, err)
	}
	return nil
}

func keyFromValue(v string) string {
	if !strings.HasPrefix(v, "http://") && !strings.HasPrefix(v, "https://") {
		return strings.TrimPrefix(v, "/")
	}
	u, err := url.Parse(v)
	if err != nil {
		return v
	}
	return strings.TrimPrefix(u.Path, "/")
}
