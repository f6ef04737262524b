// Package fingerprint derives deterministic identities for loaded dataset
// content. A fingerprint is a UUIDv5 of the raw file bytes inside a
// site-scoped namespace, so the same bytes always produce the same identity
// and any edit produces a new one. Gallery view state is keyed off this
// identity: when it changes, browsers treat the record list as a new list.
package fingerprint

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
)

// NamespaceForSite returns a deterministic UUIDv5 namespace for a site
// domain. Example: uuid.NewSHA1(uuid.NameSpaceDNS, []byte("foley.example.org")).
func NamespaceForSite(site string) uuid.UUID {
	s := strings.TrimSpace(strings.ToLower(site))
	s = strings.TrimSuffix(s, ".")
	return uuid.NewSHA1(uuid.NameSpaceDNS, []byte(s))
}

// Content returns the fingerprint of raw content within a site's namespace.
func Content(site string, data []byte) uuid.UUID {
	return uuid.NewSHA1(NamespaceForSite(site), data)
}

// File fingerprints a file's bytes and reports its size.
func File(site, path string) (uuid.UUID, int64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return uuid.Nil, 0, fmt.Errorf("read %s: %w", path, err)
	}
	return Content(site, data), int64(len(data)), nil
}
