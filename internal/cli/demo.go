package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ppiankov/claimroute/internal/model"
	"github.com/ppiankov/claimroute/internal/pipeline"
)

// demoCmd represents the demo command
var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Route five built-in sample claims",
	Long: `Demo routes five sample claims without any document or API key:
1. Fast-track eligible claim
2. Claim with missing mandatory fields
3. Claim with fraud indicators
4. Personal injury claim
5. High-value claim

Outputs are written to <output-dir>/demo_<name>_output.json.`,
	Args: cobra.NoArgs,
	RunE: runDemo,
}

func init() {
	rootCmd.AddCommand(demoCmd)
	demoCmd.Flags().StringVar(&outputDir, "output-dir", "", "output directory for JSON results (default from config)")
	demoCmd.Flags().StringVar(&xlsxPath, "xlsx", "", "also write an XLSX workbook of routed claims")
}

type demoClaim struct {
	Name   string
	Record *model.ClaimRecord
}

func demoContact(phone, email string) *model.ContactDetails {
	return &model.ContactDetails{Phone: model.String(phone), Email: model.String(email)}
}

func demoClaims() []demoClaim {
	s := model.String
	f := model.Float

	return []demoClaim{
		{
			Name: "Fast-track Claim",
			Record: &model.ClaimRecord{
				Policy: model.PolicyInfo{
					PolicyNumber:     s("POL-2026-FT-001"),
					PolicyholderName: s("Sarah Johnson"),
				},
				Incident: model.IncidentInfo{
					DateOfLoss:  s("2026-02-01"),
					TimeOfLoss:  s("14:30"),
					Location:    s("Intersection of Main St and 5th Avenue, Springfield, IL"),
					Description: s("Minor rear-end collision at traffic light"),
				},
				Parties: model.InvolvedParties{
					Claimant:     s("Sarah Johnson"),
					ThirdParties: []string{},
					Contact:      demoContact("(555) 123-4567", "sarah.johnson@email.com"),
				},
				Asset: model.AssetDetails{
					AssetType:       s("Vehicle"),
					AssetID:         s("1HGBH41JXMN109186"),
					EstimatedDamage: f(12500),
					Make:            s("Honda"),
					Model:           s("Civic"),
					Year:            s("2022"),
				},
				ClaimType:       s("auto"),
				Attachments:     []string{},
				InitialEstimate: f(12500),
			},
		},
		{
			Name: "Missing Fields Claim",
			Record: &model.ClaimRecord{
				Policy: model.PolicyInfo{
					PolicyholderName: s("Robert Williams"),
				},
				Incident: model.IncidentInfo{
					DateOfLoss:  s("2026-02-03"),
					Description: s("Single vehicle accident"),
				},
				Parties: model.InvolvedParties{ThirdParties: []string{}},
				Asset: model.AssetDetails{
					AssetType: s("Vehicle"),
				},
				Attachments: []string{},
			},
		},
		{
			Name: "Fraud Investigation Claim",
			Record: &model.ClaimRecord{
				Policy: model.PolicyInfo{
					PolicyNumber:     s("POL-2026-INV-003"),
					PolicyholderName: s("David Thompson"),
				},
				Incident: model.IncidentInfo{
					DateOfLoss: s("2026-02-05"),
					Location:   s("Empty parking lot, Chicago, IL"),
					Description: s("Damage pattern appears inconsistent with reported scenario. " +
						"The incident description contains several inconsistent details. " +
						"Damage appears staged and fraudulent."),
				},
				Parties: model.InvolvedParties{
					Claimant:     s("David Thompson"),
					ThirdParties: []string{},
					Contact:      demoContact("(555) 345-6789", "d.thompson@email.com"),
				},
				Asset: model.AssetDetails{
					AssetType:       s("Vehicle"),
					AssetID:         s("WBA8E1C50GK123456"),
					EstimatedDamage: f(18500),
				},
				ClaimType:       s("auto"),
				Attachments:     []string{},
				InitialEstimate: f(18500),
			},
		},
		{
			Name: "Injury Claim",
			Record: &model.ClaimRecord{
				Policy: model.PolicyInfo{
					PolicyNumber:     s("POL-2026-INJ-004"),
					PolicyholderName: s("Emily Rodriguez"),
				},
				Incident: model.IncidentInfo{
					DateOfLoss: s("2026-02-07"),
					Location:   s("Intersection of Congress Ave and 6th St, Austin, TX"),
					Description: s("Two-vehicle collision resulted in personal injury. " +
						"Driver sustained whiplash. Passenger suffered broken arm. " +
						"Both transported to hospital by ambulance."),
				},
				Parties: model.InvolvedParties{
					Claimant:     s("Emily Rodriguez"),
					ThirdParties: []string{},
					Contact:      demoContact("(555) 456-7890", "emily.rodriguez@email.com"),
				},
				Asset: model.AssetDetails{
					AssetType:       s("Vehicle"),
					AssetID:         s("5YJ3E1EA1KF123456"),
					EstimatedDamage: f(35000),
				},
				ClaimType:       s("injury"),
				Attachments:     []string{},
				InitialEstimate: f(35000),
			},
		},
		{
			Name: "High-value Complex Claim",
			Record: &model.ClaimRecord{
				Policy: model.PolicyInfo{
					PolicyNumber:     s("POL-2026-CPX-005"),
					PolicyholderName: s("Anderson Family Trust"),
				},
				Incident: model.IncidentInfo{
					DateOfLoss:  s("2026-02-06"),
					Location:    s("Interstate 35, Dallas, TX"),
					Description: s("Multi-vehicle collision, total loss, vehicle fire"),
				},
				Parties: model.InvolvedParties{
					Claimant:     s("Anderson Family Trust"),
					ThirdParties: []string{},
					Contact:      demoContact("(555) 567-8901", "trust@andersonfamily.com"),
				},
				Asset: model.AssetDetails{
					AssetType:       s("Vehicle"),
					AssetID:         s("WDDUX8GB1PA123456"),
					EstimatedDamage: f(125000),
				},
				ClaimType:       s("auto"),
				Attachments:     []string{},
				InitialEstimate: f(125000),
			},
		},
	}
}

// demoOutputPath returns <dir>/demo_<snake name>_output.json
func demoOutputPath(dir, name string) string {
	slug := strings.ToLower(strings.ReplaceAll(name, " ", "_"))
	return filepath.Join(dir, "demo_"+slug+"_output.json")
}

func runDemo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(v)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("output-dir") {
		cfg.Output.Dir = outputDir
	}

	p, err := pipeline.NewPipeline(cfg, nil, logger)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	var results []*pipeline.Result
	for _, claim := range demoClaims() {
		result := p.ProcessRecord(claim.Record)
		result.Source = claim.Name

		outPath := demoOutputPath(cfg.Output.Dir, claim.Name)
		if err := pipeline.WriteJSON(result.Output, outPath); err != nil {
			return err
		}
		results = append(results, result)

		pipeline.RenderSummary(out, result)
		fmt.Fprintf(os.Stderr, "✓ Output saved to: %s\n\n", outPath)
	}

	pipeline.RenderDistribution(out, results)

	if xlsxPath != "" {
		if err := pipeline.WriteWorkbook(results, xlsxPath); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "✓ Workbook saved to: %s\n", xlsxPath)
	}
	return nil
}
