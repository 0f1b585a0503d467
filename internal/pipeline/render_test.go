package pipeline

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ppiankov/claimroute/internal/model"
)

func TestOutputPath(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{"data/input/ACORD_1.pdf", filepath.Join("out", "ACORD_1_output.json")},
		{"claim.v2.html", filepath.Join("out", "claim.v2_output.json")},
		{"https://portal.example.com/fnol/web_form.html?id=3", filepath.Join("out", "web_form_output.json")},
		{"https://portal.example.com/", filepath.Join("out", "portal.example_output.json")},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			assert.Equal(t, tt.want, OutputPath("out", tt.source))
		})
	}
}

func TestWriteJSON(t *testing.T) {
	res := newTestPipeline(t).ProcessRecord(nil)
	path := filepath.Join(t.TempDir(), "nested", "claim_output.json")

	require.NoError(t, WriteJSON(res.Output, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"recommended_route": "Manual review"`)
}

func TestRenderSummary(t *testing.T) {
	res := newTestPipeline(t).ProcessRecord(&model.ClaimRecord{
		Asset: model.AssetDetails{DamageDescription: model.String("Staged collision, hospital visit")},
	})
	res.Source = "ACORD_3.pdf"

	var buf bytes.Buffer
	RenderSummary(&buf, res)

	out := buf.String()
	assert.Contains(t, out, "ACORD_3.pdf")
	assert.Contains(t, out, "Manual review")
	assert.Contains(t, out, "staged")
	assert.Contains(t, out, "hospital")
}

func TestRenderDistribution(t *testing.T) {
	p := newTestPipeline(t)
	results := []*Result{p.ProcessRecord(nil), p.ProcessRecord(nil), nil}

	counts := RouteCounts(results)
	assert.Equal(t, 2, counts[model.RouteManualReview])
	assert.Equal(t, 0, counts[model.RouteFastTrack])

	var buf bytes.Buffer
	RenderDistribution(&buf, results)
	assert.Contains(t, buf.String(), "Manual review")
	assert.Contains(t, buf.String(), "Specialist Queue")
}

func TestWriteWorkbook(t *testing.T) {
	p := newTestPipeline(t)
	first := p.ProcessRecord(nil)
	first.Source = "a.pdf"
	second := p.ProcessRecord(&model.ClaimRecord{Asset: model.AssetDetails{EstimatedDamage: model.Float(900)}})
	second.Source = "b.pdf"

	path := filepath.Join(t.TempDir(), "routes.xlsx")
	require.NoError(t, WriteWorkbook([]*Result{first, second}, path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{"Claims", "Routes"}, f.GetSheetList())

	header, err := f.GetCellValue("Claims", "D1")
	require.NoError(t, err)
	assert.Equal(t, "Route", header)

	source, err := f.GetCellValue("Claims", "A3")
	require.NoError(t, err)
	assert.Equal(t, "b.pdf", source)

	damage, err := f.GetCellValue("Claims", "G3")
	require.NoError(t, err)
	assert.Equal(t, "900", damage)

	manual, err := f.GetCellValue("Routes", "B3")
	require.NoError(t, err)
	assert.Equal(t, "2", manual)
}
