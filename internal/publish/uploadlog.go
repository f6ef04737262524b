// Package publish turns upload reports into serving URLs and rewrites
// dataset video refs to point at them.
package publish

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path"
	"regexp"
	"strings"
)

// uploadLineRe matches coscmd batch-upload report lines:
//
//	Upload /local/renders/GT_3.mp4   =>   cos://bucket/foley_demo/GT_3.mp4
var uploadLineRe = regexp.MustCompile(`Upload\s+(.+?)\s+=>\s+cos://[^/]+/(.+)`)

// Mapping maps a video file's base name to its object key in the bucket.
type Mapping map[string]string

// ParseUploadLog extracts base name to object key pairs from a coscmd
// upload report. Lines that do not match the report format are ignored;
// later lines win when a name repeats.
func ParseUploadLog(r io.Reader) (Mapping, error) {
	m := make(Mapping)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		match := uploadLineRe.FindStringSubmatch(scanner.Text())
		if match == nil {
			continue
		}
		local := strings.TrimSpace(match[1])
		key := strings.TrimSpace(match[2])
		if local == "" || key == "" {
			continue
		}
		m[path.Base(local)] = key
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("parse upload log: %w", err)
	}
	return m, nil
}

// LoadUploadLog parses the upload report file at logPath.
func LoadUploadLog(logPath string) (Mapping, error) {
	f, err := os.Open(logPath)
	if err != nil {
		return nil, fmt.Errorf("load upload log: %w", err)
	}
	defer f.Close()

	m, err := ParseUploadLog(f)
	if err != nil {
		return nil, fmt.Errorf("load upload log %s: %w", logPath, err)
	}
	return m, nil
}
