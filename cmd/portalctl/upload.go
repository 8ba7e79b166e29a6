package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/rental-portal/internal/dropzone"
	"github.com/JaimeStill/rental-portal/internal/uploads"
	"github.com/JaimeStill/rental-portal/internal/validation"
)

var (
	uploadPolicy string
	uploadFolder string
)

var uploadCmd = &cobra.Command{
	Use:   "upload [files...]",
	Short: "Validate and upload local files to the provider",
	Long: `Upload runs the files through the selected validation policy and uploads
every accepted file in parallel. Rejected files are reported with their
reason and are never sent. Nothing is written to the upload ledger.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUpload,
}

func init() {
	uploadCmd.Flags().StringVarP(&uploadPolicy, "policy", "p", "tenant", "Validation policy (tenant or admin)")
	uploadCmd.Flags().StringVarP(&uploadFolder, "folder", "f", "", "Sub-folder under the configured upload folder")
}

func runUpload(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)

	policy, err := validation.NewPolicies(&cfg.Uploads.Policies).Lookup(uploadPolicy)
	if err != nil {
		return err
	}

	candidates := make([]*validation.Candidate, 0, len(args))
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		candidates = append(candidates, &validation.Candidate{
			Filename:    filepath.Base(path),
			ContentType: uploads.DetectContentType("", data),
			Size:        int64(len(data)),
			Data:        data,
		})
	}

	uploader := uploads.New(provider(), signer, nil, nil, logger)
	dz := dropzone.New(uploader, nil, nil, cfg.Uploads.Concurrency, logger)

	batch := dz.NewBatch(policy, uploads.ResolveFolder(cfg.Uploads.Folder, uploadFolder))
	batch.Add(ctx, candidates...)

	if _, err := batch.Submit(ctx); err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FILE\tSTATE\tDETAIL")
	var uploaded, rejected, failed int
	for _, f := range batch.Files() {
		fmt.Fprintf(w, "%s\t%s\t%s\n", f.Name, f.State, detail(f))
		switch {
		case f.State == dropzone.StateRejected:
			rejected++
		case f.Result != nil:
			uploaded++
		default:
			failed++
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\n%d uploaded, %d rejected, %d failed\n", uploaded, rejected, failed)

	if rejected+failed > 0 {
		return fmt.Errorf("%d of %d files not uploaded", rejected+failed, len(args))
	}
	return nil
}

func detail(f dropzone.File) string {
	switch {
	case f.Result != nil:
		return f.Result.SecureURL
	case f.Reason != "":
		return f.Reason
	default:
		return f.Error
	}
}
