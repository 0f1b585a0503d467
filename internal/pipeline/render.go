package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/xuri/excelize/v2"

	"github.com/ppiankov/claimroute/internal/model"
)

// OutputPath returns <dir>/<stem>_output.json for a source path or URL
func OutputPath(dir, source string) string {
	name := source
	if IsRemote(source) {
		if u, err := url.Parse(source); err == nil {
			name = path.Base(u.Path)
			if name == "/" || name == "." {
				name = u.Host
			}
		}
	}
	name = filepath.Base(name)
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	if stem == "" {
		stem = "claim"
	}
	return filepath.Join(dir, stem+"_output.json")
}

// MarshalOutput renders a claim output as 2-space indented JSON
func MarshalOutput(out model.ClaimOutput) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteJSON writes the claim output file, creating its directory
func WriteJSON(out model.ClaimOutput, outPath string) error {
	data, err := MarshalOutput(out)
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFB000"))
	boxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	routeColors = map[model.Route]lipgloss.Color{
		model.RouteFastTrack:       lipgloss.Color("#00FF00"),
		model.RouteManualReview:    lipgloss.Color("#FFD966"),
		model.RouteInvestigation:   lipgloss.Color("#FF0000"),
		model.RouteSpecialistQueue: lipgloss.Color("#00FFB0"),
	}
)

// RenderSummary prints a boxed terminal summary of one claim
func RenderSummary(w io.Writer, r *Result) {
	out := r.Output
	routeStyle := lipgloss.NewStyle().Bold(true).Foreground(routeColors[out.RecommendedRoute])

	title := "Claim " + out.ClaimID
	if r.Source != "" {
		title = r.Source
	}

	lines := []string{
		titleStyle.Render(title),
		labelStyle.Render("Route:     ") + routeStyle.Render(out.RecommendedRoute.String()),
		labelStyle.Render("Reasoning: ") + out.Reasoning,
	}
	if len(out.MissingFields) > 0 {
		lines = append(lines, labelStyle.Render("Missing:   ")+strings.Join(out.MissingFields, ", "))
	}
	if r.Routing.FraudIndicators.Detected {
		lines = append(lines, labelStyle.Render("Fraud:     ")+strings.Join(r.Routing.FraudIndicators.Matches, ", "))
	}
	if r.Routing.InjuryIndicators.Detected {
		lines = append(lines, labelStyle.Render("Injury:    ")+strings.Join(r.Routing.InjuryIndicators.Matches, ", "))
	}
	for _, warning := range r.Validation.Warnings {
		lines = append(lines, warnStyle.Render("! "+warning))
	}
	if r.Mode != "" {
		lines = append(lines, labelStyle.Render("Extracted: ")+r.Mode)
	}

	_, _ = fmt.Fprintln(w, boxStyle.Render(strings.Join(lines, "\n")))
}

// RouteCounts tallies results per route
func RouteCounts(results []*Result) map[model.Route]int {
	counts := make(map[model.Route]int, len(model.Routes))
	for _, r := range results {
		if r != nil {
			counts[r.Output.RecommendedRoute]++
		}
	}
	return counts
}

// RenderDistribution prints the route distribution of a batch
func RenderDistribution(w io.Writer, results []*Result) {
	counts := RouteCounts(results)
	_, _ = fmt.Fprintln(w, titleStyle.Render("Route distribution"))
	for _, rt := range model.Routes {
		style := lipgloss.NewStyle().Foreground(routeColors[rt])
		_, _ = fmt.Fprintf(w, "  %-20s %d\n", style.Render(rt.String()), counts[rt])
	}
}

var workbookHeaders = []string{
	"Source",
	"Claim ID",
	"Processed At",
	"Route",
	"Reasoning",
	"Missing Fields",
	"Estimated Damage",
	"Fraud Indicators",
	"Injury Indicators",
	"Warnings",
}

// WriteWorkbook writes all routed claims to an XLSX file with a
// "Claims" sheet and a "Routes" distribution sheet
func WriteWorkbook(results []*Result, outPath string) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const claims = "Claims"
	if err := f.SetSheetName("Sheet1", claims); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	for i, h := range workbookHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(claims, cell, h)
	}

	row := 2
	for _, r := range results {
		if r == nil {
			continue
		}
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(claims, cell, v)
		}

		write(1, r.Source)
		write(2, r.Output.ClaimID)
		write(3, r.Output.ProcessedAt)
		write(4, r.Output.RecommendedRoute.String())
		write(5, r.Output.Reasoning)
		write(6, strings.Join(r.Output.MissingFields, ", "))
		if d := r.Routing.EstimatedDamage; d != nil {
			write(7, *d)
		}
		write(8, strings.Join(r.Routing.FraudIndicators.Matches, ", "))
		write(9, strings.Join(r.Routing.InjuryIndicators.Matches, ", "))
		write(10, strings.Join(r.Validation.Warnings, "; "))
		row++
	}

	_ = f.SetColWidth(claims, "A", "A", 36) // source
	_ = f.SetColWidth(claims, "B", "C", 38) // id, timestamp
	_ = f.SetColWidth(claims, "D", "D", 20) // route
	_ = f.SetColWidth(claims, "E", "E", 80) // reasoning
	_ = f.SetColWidth(claims, "F", "F", 40)
	_ = f.SetColWidth(claims, "G", "G", 16)
	_ = f.SetColWidth(claims, "H", "J", 32)

	const routes = "Routes"
	if _, err := f.NewSheet(routes); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	_ = f.SetCellValue(routes, "A1", "Route")
	_ = f.SetCellValue(routes, "B1", "Claims")
	counts := RouteCounts(results)
	for i, rt := range model.Routes {
		nameCell, _ := excelize.CoordinatesToCellName(1, i+2)
		countCell, _ := excelize.CoordinatesToCellName(2, i+2)
		_ = f.SetCellValue(routes, nameCell, rt.String())
		_ = f.SetCellValue(routes, countCell, counts[rt])
	}
	_ = f.SetColWidth(routes, "A", "A", 22)

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := f.SaveAs(outPath); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}
