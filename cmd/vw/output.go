package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/alfredjeanlab/vendorwatch/internal/model"
	"github.com/alfredjeanlab/vendorwatch/internal/ui"
)

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

func printVendorTable(v *model.Vendor) {
	fmt.Printf("ID:          %s\n", v.ID)
	fmt.Printf("Name:        %s\n", v.Name)
	fmt.Printf("Website:     %s\n", v.Website)
	fmt.Printf("Root Domain: %s\n", v.RootDomain)
	fmt.Printf("Created At:  %s\n", v.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("Updated At:  %s\n", v.UpdatedAt.Format("2006-01-02 15:04:05"))
}

func printVendorListTable(vendors []*model.Vendor, total int) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tWEBSITE\tROOT DOMAIN")
	for _, v := range vendors {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", v.ID, v.Name, v.Website, v.RootDomain)
	}
	w.Flush()
	fmt.Printf("\n%d vendors (%d total)\n", len(vendors), total)
}

func printEventTable(e *model.RiskEvent) {
	fmt.Printf("ID:        %s\n", e.ID)
	fmt.Printf("Vendor:    %s\n", e.VendorID)
	fmt.Printf("Severity:  %s\n", ui.RenderSeverity(string(e.Severity), string(e.Severity)))
	fmt.Printf("Type:      %s\n", e.Type)
	fmt.Printf("Source:    %s\n", e.Source)
	fmt.Printf("Alerted:   %t\n", e.AlertSent)
	fmt.Printf("Created:   %s\n", e.CreatedAt.Format("2006-01-02 15:04:05"))
	if e.Summary != "" {
		fmt.Printf("\n%s\n", e.Summary)
	}
	if len(e.Findings) > 0 {
		fmt.Println("\nFindings:")
		for _, f := range e.Findings {
			fmt.Printf("  [%s] %s (%s)\n", f.Category.Label(), f.Fact,
				ui.RenderSeverity(string(f.Concern), string(f.Concern)))
		}
	}
	if e.RecommendedAction != "" {
		fmt.Printf("\n%s\n", e.RecommendedAction)
	}
	if len(e.ContextSources) > 0 {
		fmt.Printf("\nContext: %s\n", ui.RenderMuted(strings.Join(e.ContextSources, ", ")))
	}
}

func printEventListTable(events []*model.RiskEvent, total int) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tVENDOR\tSEVERITY\tTYPE\tALERTED\tSUMMARY")
	for _, e := range events {
		summary := e.Summary
		if len(summary) > 60 {
			summary = summary[:57] + "..."
		}
		// First line only; canonical summaries span multiple lines.
		if i := strings.IndexByte(summary, '\n'); i >= 0 {
			summary = summary[:i]
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\t%s\n",
			e.ID,
			e.VendorID,
			ui.RenderSeverity(string(e.Severity), string(e.Severity)),
			e.Type,
			e.AlertSent,
			summary,
		)
	}
	w.Flush()
	fmt.Printf("\n%d events (%d total)\n", len(events), total)
}

func printSnapshotListTable(snapshots []*model.Snapshot, total int) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tFINGERPRINT\tFIELDS\tEXTRACTED FROM\tCREATED")
	for _, s := range snapshots {
		fp := s.Fingerprint
		if len(fp) > 12 {
			fp = fp[:12]
		}
		fields := 0
		if s.Structured != nil {
			fields = s.Structured.PopulatedFields()
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
			s.ID, fp, fields, s.ExtractionSource, s.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	w.Flush()
	fmt.Printf("\n%d snapshots (%d total)\n", len(snapshots), total)
}
