package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"soundstage.systems/foleydeck/internal/dataset"
	"soundstage.systems/foleydeck/internal/manifest"
	"soundstage.systems/foleydeck/pkg/ffprobe"
)

func newManifestCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "manifest",
		Short: "Build and maintain comparison record files",
	}

	cmd.AddCommand(newManifestBuildCommand())

	return cmd
}

func newManifestBuildCommand() *cobra.Command {
	var (
		inputDir   string
		outPath    string
		baseDir    string
		oursToken  string
		promptsCSV string
		limit      int
		probe      bool
		ffprobeBin string
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Scan a directory of rendered clips into a record file",
		Long: `Scan a flat directory of rendered comparison clips and assemble a JSONL
record file. Clips must follow the render pipeline naming scheme:

  GT_<id>.mp4                 ground truth
  Ours__<variant>__<id>.mp4   our model
  <Model>_<id>.mp4            baseline models

Renditions sharing a clip id become one record. An annotation CSV can
attach the text prompt for each numeric clip id, and --probe verifies
every referenced file has a decodable audio stream.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			b := &manifest.Builder{
				InputDir:   inputDir,
				BaseDir:    baseDir,
				OursToken:  oursToken,
				PromptsCSV: promptsCSV,
				Limit:      limit,
			}
			if probe {
				b.Prober = &ffprobe.Client{Path: ffprobeBin}
			}

			records, stats, err := b.Build(cmd.Context())
			if err != nil {
				return err
			}
			if len(records) == 0 {
				return fmt.Errorf("no comparison clips found in %s", inputDir)
			}

			backup, err := dataset.BackupFile(outPath)
			if err != nil {
				return err
			}
			if err := dataset.WriteFile(outPath, records); err != nil {
				return err
			}

			counts := make(map[string]int, len(stats.Methods))
			for _, rec := range records {
				for _, m := range rec.Methods() {
					counts[m]++
				}
			}
			rows := make([][]string, 0, len(stats.Methods))
			for _, m := range stats.Methods {
				rows = append(rows, []string{m, strconv.Itoa(counts[m])})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Method", "Clips"},
				rows,
				[]columnAlignment{alignLeft, alignRight},
			))

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d records to %s\n", len(records), outPath)
			if backup != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Previous manifest kept at %s\n", backup)
			}
			if stats.SkippedFiles > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Skipped %d .mp4 files outside the naming scheme\n", stats.SkippedFiles)
			}
			if promptsCSV != "" && stats.MissingPrompts > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Missing prompts for %d clips\n", stats.MissingPrompts)
			}
			if probe {
				fmt.Fprintf(cmd.OutOrStdout(), "Probed %d files, %d warnings\n", stats.Probed, stats.ProbeWarnings)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputDir, "input", "i", "", "Directory of rendered .mp4 clips")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Record file to write")
	cmd.Flags().StringVar(&baseDir, "base", "", "Media root; stored refs become relative to it")
	cmd.Flags().StringVar(&oursToken, "ours-token", manifest.DefaultOursToken, "Model token assigned to Ours__ renditions")
	cmd.Flags().StringVar(&promptsCSV, "prompts", "", "Annotation CSV with per-clip prompts")
	cmd.Flags().IntVar(&limit, "limit", 0, "Cap the record count (0 = no cap)")
	cmd.Flags().BoolVar(&probe, "probe", false, "Probe every clip with ffprobe and report warnings")
	cmd.Flags().StringVar(&ffprobeBin, "ffprobe", "", "ffprobe executable (default: PATH lookup)")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}
