package publish

import (
	"path"

	"soundstage.systems/foleydeck/internal/dataset"
)

// RewriteStats summarizes one manifest rewrite.
type RewriteStats struct {
	Records  int
	Updated  int // records with at least one replaced ref
	Replaced int // individual refs replaced
}

// RewriteManifest replaces video refs whose base name appears in urls,
// preserving record and videos key order. Refs with no mapping entry are
// left untouched; refs that are already URLs never match a base name. The
// previous content is kept in a .backup copy, and nothing is written when
// no ref changed.
func RewriteManifest(manifestPath string, urls map[string]string) (*RewriteStats, error) {
	records, err := dataset.Load(manifestPath)
	if err != nil {
		return nil, err
	}

	stats := &RewriteStats{Records: len(records)}
	for i := range records {
		rec := &records[i]
		updated := false
		for _, method := range rec.Methods() {
			ref := rec.Videos[method]
			u, ok := urls[path.Base(ref)]
			if !ok || u == ref {
				continue
			}
			rec.Videos[method] = u
			stats.Replaced++
			updated = true
		}
		if updated {
			stats.Updated++
		}
	}

	if stats.Replaced == 0 {
		return stats, nil
	}

	if _, err := dataset.BackupFile(manifestPath); err != nil {
		return nil, err
	}
	if err := dataset.WriteFile(manifestPath, records); err != nil {
		return nil, err
	}
	return stats, nil
}
