package manifest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"soundstage.systems/foleydeck/internal/dataset"
	"soundstage.systems/foleydeck/pkg/ffprobe"
)

// Prober reports media properties of local files. *ffprobe.Client
// satisfies it.
type Prober interface {
	Probe(ctx context.Context, path string) (*ffprobe.Result, error)
}

// Builder scans a directory of rendered videos into comparison records.
type Builder struct {
	// InputDir holds the rendered .mp4 files, one flat directory.
	InputDir string
	// BaseDir, when set, makes stored refs relative to it. Empty keeps
	// InputDir in the ref.
	BaseDir string
	// OursToken is the model token assigned to Ours__ renditions.
	// Defaults to DefaultOursToken.
	OursToken string
	// PromptsCSV optionally points at the annotation CSV for captions.
	PromptsCSV string
	// Limit caps the record count. 0 means no cap.
	Limit int
	// Prober, when set, probes every referenced file and counts warnings.
	Prober Prober
}

// Stats summarizes one build for the operator.
type Stats struct {
	Records        int
	Methods        []string
	MissingPrompts int
	SkippedFiles   int
	Probed         int
	ProbeWarnings  int
}

// Build scans InputDir and assembles records in sorted clip-id order with
// sequence ids assigned 1..n. Videos keys are emitted ground truth first,
// then ours, then the remaining methods in canonical order.
func (b *Builder) Build(ctx context.Context) ([]dataset.Record, *Stats, error) {
	oursToken := b.OursToken
	if oursToken == "" {
		oursToken = DefaultOursToken
	}
	oursID := MethodID(oursToken)

	entries, err := os.ReadDir(b.InputDir)
	if err != nil {
		return nil, nil, fmt.Errorf("scan input: %w", err)
	}

	stats := &Stats{}
	groups := make(map[string]map[string]string) // clip id -> method id -> ref
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		pf, ok := ParseFilename(name, oursToken)
		if !ok {
			if strings.EqualFold(filepath.Ext(name), ".mp4") {
				stats.SkippedFiles++
			}
			continue
		}

		ref, err := b.refFor(name)
		if err != nil {
			return nil, nil, err
		}
		methods := groups[pf.ID]
		if methods == nil {
			methods = make(map[string]string)
			groups[pf.ID] = methods
		}
		methods[MethodID(pf.Token)] = ref
	}

	var prompts map[int]string
	if b.PromptsCSV != "" {
		prompts, err = LoadPrompts(b.PromptsCSV)
		if err != nil {
			return nil, nil, err
		}
	}

	ids := make([]string, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	sortClipIDs(ids)

	if b.Limit > 0 && len(ids) > b.Limit {
		ids = ids[:b.Limit]
	}

	methodSet := make(map[string]struct{})
	records := make([]dataset.Record, 0, len(ids))
	for i, id := range ids {
		rec := dataset.Record{
			SequenceID: i + 1,
			VideoID:    id,
		}

		if prompts != nil {
			found := false
			if n, err := strconv.Atoi(id); err == nil {
				if p, ok := prompts[n]; ok {
					rec.Prompt = p
					found = true
				}
			}
			if !found {
				stats.MissingPrompts++
				slog.Warn("no caption for clip", "video_id", id)
			}
		}

		methods := groups[id]
		order := make([]string, 0, len(methods))
		for m := range methods {
			order = append(order, m)
		}
		for _, m := range emissionOrder(order, oursID) {
			rec.SetVideo(m, methods[m])
			methodSet[m] = struct{}{}
		}
		records = append(records, rec)
	}

	stats.Records = len(records)
	stats.Methods = make([]string, 0, len(methodSet))
	for m := range methodSet {
		stats.Methods = append(stats.Methods, m)
	}
	sort.Strings(stats.Methods)

	if b.Prober != nil {
		b.probeAll(ctx, records, stats)
	}
	return records, stats, nil
}

func (b *Builder) refFor(name string) (string, error) {
	full := filepath.Join(b.InputDir, name)
	if b.BaseDir == "" {
		return filepath.ToSlash(filepath.Clean(full)), nil
	}
	rel, err := filepath.Rel(b.BaseDir, full)
	if err != nil {
		return "", fmt.Errorf("relativize %s against %s: %w", full, b.BaseDir, err)
	}
	return filepath.ToSlash(rel), nil
}

func (b *Builder) probeAll(ctx context.Context, records []dataset.Record, stats *Stats) {
	for _, rec := range records {
		for _, m := range rec.Methods() {
			if ctx.Err() != nil {
				return
			}

			ref := rec.Videos[m]
			local := ref
			if b.BaseDir != "" {
				local = filepath.Join(b.BaseDir, filepath.FromSlash(ref))
			}

			res, err := b.Prober.Probe(ctx, local)
			stats.Probed++
			if err != nil {
				stats.ProbeWarnings++
				slog.Warn("probe failed", "file", local, "error", err)
				continue
			}
			if res.Duration == 0 {
				stats.ProbeWarnings++
				slog.Warn("zero duration", "file", local, "method", m)
			}
			if !res.HasAudio() {
				stats.ProbeWarnings++
				slog.Warn("no audio stream", "file", local, "method", m)
			}
		}
	}
}

// sortClipIDs orders numeric ids ascending, then everything else by name.
func sortClipIDs(ids []string) {
	sort.SliceStable(ids, func(i, j int) bool {
		ni, iok := parseClipNum(ids[i])
		nj, jok := parseClipNum(ids[j])
		switch {
		case iok && jok:
			return ni < nj
		case iok:
			return true
		case jok:
			return false
		default:
			return ids[i] < ids[j]
		}
	})
}

func parseClipNum(id string) (int, bool) {
	n, err := strconv.Atoi(id)
	return n, err == nil
}
