package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"soundstage.systems/foleydeck/internal/publish"
	"soundstage.systems/foleydeck/pkg/cos"
)

func newURLsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "urls",
		Short: "Point dataset video refs at object-storage URLs",
	}

	cmd.AddCommand(newURLsPublishCommand())
	cmd.AddCommand(newURLsSignCommand())

	return cmd
}

func newURLsPublishCommand() *cobra.Command {
	var (
		logPath     string
		mappingPath string
		manifests   []string
		bucket      string
		region      string
		sign        bool
		ttl         time.Duration
		workers     int
		coscmdBin   string
	)

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Resolve an upload report into URLs and rewrite manifests",
		Long: `Read a coscmd batch-upload report, resolve every uploaded video to its
serving URL, and rewrite the given manifests to reference those URLs.
The name-to-key mapping is saved so the URLs can be re-signed later
without the original report.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := publish.LoadUploadLog(logPath)
			if err != nil {
				return err
			}
			if len(m) == 0 {
				return fmt.Errorf("no uploads found in %s", logPath)
			}

			client := cos.New(bucket, region)
			client.Path = coscmdBin

			resolver := &publish.Resolver{
				Signer:  client,
				Sign:    sign,
				TTL:     ttl,
				Workers: workers,
			}
			urls, stats, err := resolver.Resolve(cmd.Context(), m)
			if err != nil {
				return err
			}

			if err := m.Save(mappingPath); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Resolved %d videos (%d signed, %d public, %d fallback)\n",
				len(urls), stats.Signed, stats.Public, stats.Fallback)
			fmt.Fprintf(cmd.OutOrStdout(), "Mapping saved to %s\n", mappingPath)

			return rewriteManifests(cmd, manifests, urls)
		},
	}

	cmd.Flags().StringVar(&logPath, "log", "", "coscmd batch-upload report")
	cmd.Flags().StringVar(&mappingPath, "mapping", "urls.json", "Where to save the name-to-key mapping")
	cmd.Flags().StringArrayVarP(&manifests, "manifest", "m", nil, "Record file to rewrite (repeatable)")
	cmd.Flags().StringVar(&bucket, "bucket", "", "COS bucket, including the appid suffix")
	cmd.Flags().StringVar(&region, "region", "", "COS region, e.g. ap-guangzhou")
	cmd.Flags().BoolVar(&sign, "sign", false, "Presign serving URLs with coscmd")
	cmd.Flags().DurationVar(&ttl, "ttl", cos.DefaultSignTTL, "Signed URL lifetime")
	cmd.Flags().IntVar(&workers, "workers", 0, "Signing pool size (0 = default)")
	cmd.Flags().StringVar(&coscmdBin, "coscmd", "", "coscmd executable (default: PATH lookup)")
	_ = cmd.MarkFlagRequired("log")
	_ = cmd.MarkFlagRequired("bucket")
	_ = cmd.MarkFlagRequired("region")

	return cmd
}

func newURLsSignCommand() *cobra.Command {
	var (
		mappingPath string
		manifests   []string
		bucket      string
		region      string
		ttl         time.Duration
		workers     int
		coscmdBin   string
	)

	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Re-sign previously published URLs from a saved mapping",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := publish.LoadMapping(mappingPath)
			if err != nil {
				return err
			}
			if len(m) == 0 {
				return fmt.Errorf("no entries in %s", mappingPath)
			}

			client := cos.New(bucket, region)
			client.Path = coscmdBin

			resolver := &publish.Resolver{
				Signer:  client,
				Sign:    true,
				TTL:     ttl,
				Workers: workers,
			}
			urls, stats, err := resolver.Resolve(cmd.Context(), m)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Resolved %d videos (%d signed, %d fallback)\n",
				len(urls), stats.Signed, stats.Fallback)

			return rewriteManifests(cmd, manifests, urls)
		},
	}

	cmd.Flags().StringVar(&mappingPath, "mapping", "urls.json", "Saved name-to-key mapping")
	cmd.Flags().StringArrayVarP(&manifests, "manifest", "m", nil, "Record file to rewrite (repeatable)")
	cmd.Flags().StringVar(&bucket, "bucket", "", "COS bucket, including the appid suffix")
	cmd.Flags().StringVar(&region, "region", "", "COS region, e.g. ap-guangzhou")
	cmd.Flags().DurationVar(&ttl, "ttl", cos.DefaultSignTTL, "Signed URL lifetime")
	cmd.Flags().IntVar(&workers, "workers", 0, "Signing pool size (0 = default)")
	cmd.Flags().StringVar(&coscmdBin, "coscmd", "", "coscmd executable (default: PATH lookup)")
	_ = cmd.MarkFlagRequired("bucket")
	_ = cmd.MarkFlagRequired("region")

	return cmd
}

func rewriteManifests(cmd *cobra.Command, manifests []string, urls map[string]string) error {
	if len(manifests) == 0 {
		return nil
	}

	rows := make([][]string, 0, len(manifests))
	for _, path := range manifests {
		stats, err := publish.RewriteManifest(path, urls)
		if err != nil {
			return err
		}
		rows = append(rows, []string{
			path,
			strconv.Itoa(stats.Records),
			strconv.Itoa(stats.Updated),
			strconv.Itoa(stats.Replaced),
		})
	}

	fmt.Fprintln(cmd.OutOrStdout(), renderTable(
		[]string{"Manifest", "Records", "Updated", "Refs replaced"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight},
	))
	return nil
}
