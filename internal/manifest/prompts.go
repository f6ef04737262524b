package manifest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// LoadPrompts reads the annotation CSV and maps numeric clip ids to their
// sound captions. The id is the numeric stem of the "video" column's file
// name; the caption comes from "SoundCaption". Rows whose stem is not
// numeric are ignored, and later rows win when an id repeats.
func LoadPrompts(csvPath string) (map[int]string, error) {
	f, err := os.Open(csvPath)
	if err != nil {
		return nil, fmt.Errorf("load prompts: %w", err)
	}
	defer f.Close()

	// Annotation exports sometimes carry a UTF-8 BOM that would otherwise
	// glue itself onto the first header name.
	r := csv.NewReader(transform.NewReader(f, unicode.UTF8BOM.NewDecoder()))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("load prompts %s: read header: %w", csvPath, err)
	}

	videoCol, captionCol := -1, -1
	for i, h := range header {
		switch strings.TrimSpace(h) {
		case "video":
			videoCol = i
		case "SoundCaption":
			captionCol = i
		}
	}
	if videoCol < 0 || captionCol < 0 {
		return nil, fmt.Errorf("load prompts %s: need video and SoundCaption columns, got %v", csvPath, header)
	}

	prompts := make(map[int]string)
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("load prompts %s: %w", csvPath, err)
		}
		if videoCol >= len(row) || captionCol >= len(row) {
			continue
		}

		base := path.Base(strings.TrimSpace(row[videoCol]))
		stem := strings.TrimSuffix(base, path.Ext(base))
		id, err := strconv.Atoi(stem)
		if err != nil {
			continue
		}
		prompts[id] = row[captionCol]
	}
	return prompts, nil
}
