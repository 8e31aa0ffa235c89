package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fwojciec/rag"
	ragfs "github.com/fwojciec/rag/fs"
)

func (a *app) search(ctx context.Context, args []string) error {
	query := strings.TrimSpace(strings.Join(args, " "))
	hits, err := a.client.Search(ctx, query)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}
	if len(hits) == 0 {
		fmt.Fprintln(a.stdout, "No matches.")
		return nil
	}
	for i, hit := range hits {
		if i > 0 {
			fmt.Fprintln(a.stdout)
		}
		fmt.Fprintf(a.stdout, "[%d] %s\n", i+1, hit.DocName)
		fmt.Fprintf(a.stdout, "    %s\n", strings.Join(strings.Fields(hit.Text()), " "))
	}
	return nil
}

func (a *app) docs(ctx context.Context) error {
	docs, err := a.client.Documents(ctx)
	if err != nil {
		return fmt.Errorf("docs: %w", err)
	}
	if len(docs) == 0 {
		fmt.Fprintln(a.stdout, "No documents.")
		return nil
	}
	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tSIZE\tMODIFIED\tINDEXED")
	for _, d := range docs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", d.Name, formatSize(d.Size), formatTime(d.ModTime), yesNo(d.Indexed))
	}
	return tw.Flush()
}

func (a *app) upload(ctx context.Context, patterns []string) error {
	if len(patterns) == 0 {
		return fmt.Errorf("upload: expected at least one file or pattern: %w", rag.ErrValidation)
	}
	paths, err := ragfs.ExpandPaths(patterns)
	if err != nil {
		return fmt.Errorf("upload: %w", err)
	}
	for _, path := range paths {
		res, err := a.uploadFile(ctx, path)
		if err != nil {
			return fmt.Errorf("upload %s: %w", path, err)
		}
		fmt.Fprintf(a.stdout, "Uploaded %s (%d chunks added)\n", res.Filename, res.Added)
	}
	return nil
}

func (a *app) uploadFile(ctx context.Context, path string) (rag.UploadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return rag.UploadResult{}, err
	}
	defer f.Close()
	return a.client.Upload(ctx, path, f)
}

func (a *app) ingest(ctx context.Context) error {
	res, err := a.client.Ingest(ctx)
	if err != nil {
		return fmt.Errorf("ingest: %w", err)
	}
	if res.JobID != "" {
		fmt.Fprintf(a.stdout, "Ingest queued as job %s.\n", res.JobID)
		return nil
	}
	fmt.Fprintf(a.stdout, "Indexed %d items into %d chunks (%d added).\n", res.RawItems, res.Chunks, res.Added)
	return nil
}

func (a *app) health(ctx context.Context) error {
	h, err := a.client.Health(ctx)
	if err != nil {
		return fmt.Errorf("health: %w", err)
	}
	if h.Backend != "" {
		fmt.Fprintf(a.stdout, "%s (%s)\n", h.Status, h.Backend)
		return nil
	}
	fmt.Fprintln(a.stdout, h.Status)
	return nil
}

func formatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(time.DateTime)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
