package extract

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/claimroute/internal/cache"
	"github.com/ppiankov/claimroute/internal/extract/adapters"
	"github.com/ppiankov/claimroute/internal/llm"
	"github.com/ppiankov/claimroute/internal/model"
)

const acordText = `
        AUTOMOBILE LOSS NOTICE
        POLICY NUMBER: POL-123456            NAME OF INSURED: John Smith
        DATE OF LOSS: 02/01/2026             TIME: 3:30 PM
        LOCATION OF LOSS: 123 Main St, Springfield
        DESCRIPTION OF ACCIDENT: Rear-ended at a stop light
        V.I.N.: 1HGBH41JXMN109186
        MAKE: Honda    MODEL: Accord    YEAR: 2021
        DESCRIBE DAMAGE: Rear bumper and trunk
        ESTIMATE AMOUNT: $12,500.00
        CLAIM TYPE: auto
`

func TestExtractRegex_FixedPatterns(t *testing.T) {
	f := ExtractRegex(`
        POLICY NUMBER: POL-123456
        DATE OF LOSS: 02/01/2026
        V.I.N.: 1HGBH41JXMN109186
        ESTIMATE AMOUNT: $12,500.00
        `)

	assert.Equal(t, "POL-123456", f[KeyPolicyNumber])
	assert.Equal(t, "02/01/2026", f[KeyDateOfLoss])
	assert.Equal(t, "1HGBH41JXMN109186", f[KeyVIN])
	assert.Equal(t, "12500", f[KeyEstimatedDamage])
}

func TestExtractRegex_Labels(t *testing.T) {
	f := ExtractRegex(acordText)

	assert.Equal(t, "John Smith", f[KeyPolicyholderName])
	assert.Equal(t, "John Smith", f[KeyClaimant])
	assert.Equal(t, "3:30 PM", f[KeyTimeOfLoss])
	assert.Equal(t, "123 Main St, Springfield", f[KeyLocation])
	assert.Equal(t, "Rear-ended at a stop light", f[KeyDescription])
	assert.Equal(t, "Honda", f[KeyMake])
	assert.Equal(t, "Accord", f[KeyModel])
	assert.Equal(t, "2021", f[KeyYear])
	assert.Equal(t, "Rear bumper and trunk", f[KeyDamageDescription])
	assert.Equal(t, "auto", f[KeyClaimType])
}

func TestExtractRegex_VINRejectsIOQ(t *testing.T) {
	f := ExtractRegex("V.I.N.: 1HGBH41JXMN10918O")
	_, ok := f[KeyVIN]
	assert.False(t, ok)
}

func TestExtractRegex_LabelEstimateParsed(t *testing.T) {
	f := ExtractRegex("Estimated Damage: $3,400.50\nInitial Estimate: n/a")
	assert.Equal(t, "3400.5", f[KeyEstimatedDamage])

	f = ExtractRegex("Estimated Damage: unknown")
	_, ok := f[KeyEstimatedDamage]
	assert.False(t, ok)
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"$12,500.00", 12500, true},
		{"12500", 12500, true},
		{" $ 800 ", 800, true},
		{"-1,200", -1200, true},
		{"($450.25)", -450.25, true},
		{"", 0, false},
		{"$", 0, false},
		{"about 500", 0, false},
		{"NaN", 0, false},
		{"nan", 0, false},
		{"Inf", 0, false},
		{"+Inf", 0, false},
		{"-Infinity", 0, false},
		{"$Infinity", 0, false},
		{"1e3", 0, false},
		{"0x1F", 0, false},
		{"1" + strings.Repeat("0", 400), 0, false},
		{".5", 0.5, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseAmount(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromLLM(t *testing.T) {
	f := FromLLM(map[string]any{
		"policy_number":    " POL-9 ",
		"estimated_damage": 1200.5,
		"year":             2021.0,
		"vin":              nil,
		"claimant":         "",
		"not_a_field":      "x",
	})

	assert.Equal(t, Fields{"policy_number": "POL-9", "estimated_damage": "1200.5", "year": "2021"}, f)
}

func TestFields_Merge(t *testing.T) {
	ai := Fields{KeyPolicyNumber: "AI-1"}
	regex := Fields{KeyPolicyNumber: "RX-1", KeyVIN: "1HGBH41JXMN109186"}

	merged := ai.Merge(regex)
	assert.Equal(t, "AI-1", merged[KeyPolicyNumber])
	assert.Equal(t, "1HGBH41JXMN109186", merged[KeyVIN])
}

func TestBuildRecord(t *testing.T) {
	rec := BuildRecord(ExtractRegex(acordText))

	assert.Equal(t, "POL-123456", model.Deref(rec.Policy.PolicyNumber))
	assert.Equal(t, "1HGBH41JXMN109186", model.Deref(rec.Asset.AssetID))
	assert.Equal(t, DefaultAssetType, model.Deref(rec.Asset.AssetType))
	require.NotNil(t, rec.Asset.EstimatedDamage)
	require.NotNil(t, rec.InitialEstimate)
	assert.Equal(t, 12500.0, *rec.Asset.EstimatedDamage)
	assert.Equal(t, 12500.0, *rec.InitialEstimate)
	assert.NotSame(t, rec.Asset.EstimatedDamage, rec.InitialEstimate)
	assert.Nil(t, rec.Incident.PoliceReportNumber)
	assert.NotNil(t, rec.Attachments)
	assert.NotNil(t, rec.Parties.ThirdParties)
}

func TestBuildRecord_Empty(t *testing.T) {
	rec := BuildRecord(Fields{})

	assert.Nil(t, rec.Policy.PolicyNumber)
	assert.Nil(t, rec.Asset.EstimatedDamage)
	assert.Nil(t, rec.InitialEstimate)
	assert.Equal(t, DefaultAssetType, model.Deref(rec.Asset.AssetType))
}

type fakeProvider struct {
	fields map[string]any
	err    error
	calls  atomic.Int32
}

func (p *fakeProvider) Name() string { return "fake" }
func (p *fakeProvider) IsAvailable(context.Context) bool { return true }

func (p *fakeProvider) ExtractFields(_ context.Context, req llm.ExtractRequest) (*llm.ExtractResponse, error) {
	p.calls.Add(1)
	if p.err != nil {
		return nil, p.err
	}
	return &llm.ExtractResponse{Fields: p.fields, Model: req.Model}, nil
}

type countingLimiter struct {
	keys []string
}

func (l *countingLimiter) Wait(_ context.Context, key string) error {
	l.keys = append(l.keys, key)
	return nil
}

func TestExtractor_RegexOnly(t *testing.T) {
	e := New(Options{})
	assert.False(t, e.UsesAI())

	res, err := e.Extract(context.Background(), adapters.Document{Source: "fnol.txt", Data: []byte(acordText)})
	require.NoError(t, err)

	assert.Equal(t, ModeRegex, res.Mode)
	assert.Equal(t, "POL-123456", model.Deref(res.Record.Policy.PolicyNumber))
}

func TestExtractor_AIWithRegexFill(t *testing.T) {
	provider := &fakeProvider{fields: map[string]any{
		"policy_number": "POL-AI-1",
		"claimant":      "Jane Smith",
		"vin":           nil,
	}}
	limiter := &countingLimiter{}
	e := New(Options{Provider: provider, Model: "gpt-4o-mini", Limiter: limiter})

	res, err := e.ExtractText(context.Background(), "fnol.pdf", acordText)
	require.NoError(t, err)

	assert.Equal(t, ModeAI, res.Mode)
	assert.Equal(t, "POL-AI-1", res.Fields[KeyPolicyNumber], "LLM value wins")
	assert.Equal(t, "Jane Smith", res.Fields[KeyClaimant])
	assert.Equal(t, "1HGBH41JXMN109186", res.Fields[KeyVIN], "regex fills the gap")
	assert.Equal(t, []string{"fake"}, limiter.keys)
}

func TestExtractor_AIFailureFallsBack(t *testing.T) {
	provider := &fakeProvider{err: errors.New("API error (500)")}
	c := cache.NewMemoryCache(time.Minute, time.Minute)
	e := New(Options{Provider: provider, Cache: c})

	res, err := e.ExtractText(context.Background(), "fnol.pdf", acordText)
	require.NoError(t, err)
	assert.Equal(t, ModeFallback, res.Mode)
	assert.Equal(t, "POL-123456", res.Fields[KeyPolicyNumber])
	assert.Equal(t, 0, c.Len(), "fallback results are not cached")
}

func TestExtractor_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	provider := &fakeProvider{err: context.Canceled}
	e := New(Options{Provider: provider})

	_, err := e.ExtractText(ctx, "fnol.pdf", acordText)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExtractor_Cache(t *testing.T) {
	provider := &fakeProvider{fields: map[string]any{"policy_number": "POL-AI-1"}}
	c := cache.NewMemoryCache(time.Minute, time.Minute)
	e := New(Options{Provider: provider, Model: "m", Cache: c})

	first, err := e.ExtractText(context.Background(), "a.pdf", acordText)
	require.NoError(t, err)
	assert.False(t, first.Cached)

	second, err := e.ExtractText(context.Background(), "b.pdf", acordText)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Fields, second.Fields)
	assert.Equal(t, int32(1), provider.calls.Load())
}

func TestExtractor_BlankTextGivesEmptyRecord(t *testing.T) {
	provider := &fakeProvider{fields: map[string]any{"policy_number": "POL-AI-1"}}
	c := cache.NewMemoryCache(time.Minute, time.Minute)
	e := New(Options{Provider: provider, Model: "m", Cache: c})

	res, err := e.ExtractText(context.Background(), "blank.txt", " \n\t ")
	require.NoError(t, err)

	assert.Empty(t, res.Fields)
	assert.False(t, res.Cached)
	assert.Nil(t, res.Record.Policy.PolicyNumber)
	assert.Nil(t, res.Record.Parties.Claimant)
	assert.Nil(t, res.Record.Asset.EstimatedDamage)
	assert.Equal(t, DefaultAssetType, model.Deref(res.Record.Asset.AssetType))
	assert.Equal(t, int32(0), provider.calls.Load(), "blank text must not reach the LLM")
	assert.Equal(t, 0, c.Len(), "blank text must not be cached")
}

type scanRunner struct{}

func (scanRunner) Run(context.Context, string, ...string) ([]byte, []byte, error) {
	return []byte("  \f\n"), nil, nil
}

func TestExtractor_PDFWithoutTextLayer(t *testing.T) {
	e := New(Options{Adapters: adapters.NewRegistry("pdftotext", scanRunner{}, nil)})

	res, err := e.Extract(context.Background(), adapters.Document{Source: "scan.pdf", Data: []byte("%PDF-1.7")})
	require.NoError(t, err)
	assert.Empty(t, res.Fields)
	assert.Nil(t, res.Record.Policy.PolicyNumber)
}

func TestExtractor_NonFiniteAmountIsMissing(t *testing.T) {
	e := New(Options{})

	for _, amount := range []string{"NaN", "Inf", "-Infinity", "1e400"} {
		t.Run(amount, func(t *testing.T) {
			res, err := e.ExtractText(context.Background(), "fnol.txt", "Estimated Damage: "+amount+"\n")
			require.NoError(t, err)
			assert.Nil(t, res.Record.Asset.EstimatedDamage)
			assert.Nil(t, res.Record.InitialEstimate)
		})
	}
}
