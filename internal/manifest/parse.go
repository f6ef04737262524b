// Package manifest builds comparison-record datasets from a directory of
// rendered videos plus a captions CSV from the annotation pipeline.
package manifest

import "strings"

// ParsedFile is one rendition classified by its file name.
type ParsedFile struct {
	// Token is the model name as written in the file name.
	Token string
	// ID is the clip identifier shared by all renditions of one source clip.
	ID string
}

// ParseFilename classifies a rendered video by name. The render pipeline
// emits three shapes:
//
//	Ours__<variant>__<id>.mp4   the in-house model, variant ignored
//	V_AURA_<id>.mp4             underscores inside the model name
//	<Model>_<id>.mp4            everything else
//
// oursToken is the model token assigned to Ours__ files. Names like
// "1-1.mp4" belong to hand-curated datasets and are skipped, as is anything
// that is not an .mp4 or has no model prefix. The second return is false
// for skipped files.
func ParseFilename(name, oursToken string) (ParsedFile, bool) {
	dot := strings.LastIndex(name, ".")
	if dot < 0 || !strings.EqualFold(name[dot:], ".mp4") {
		return ParsedFile{}, false
	}
	stem := name[:dot]
	if stem == "" {
		return ParsedFile{}, false
	}

	if stem[0] >= '0' && stem[0] <= '9' && strings.Contains(stem, "-") {
		return ParsedFile{}, false
	}

	if strings.HasPrefix(stem, "Ours__") {
		parts := strings.Split(stem, "__")
		return ParsedFile{Token: oursToken, ID: parts[len(parts)-1]}, true
	}

	if !strings.Contains(stem, "_") {
		return ParsedFile{}, false
	}

	parts := strings.Split(stem, "_")
	if strings.HasPrefix(stem, "V_AURA_") {
		return ParsedFile{Token: "V_AURA", ID: parts[len(parts)-1]}, true
	}
	return ParsedFile{Token: parts[0], ID: parts[len(parts)-1]}, true
}
