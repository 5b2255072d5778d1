// Package output provides utilities for formatting and displaying underwriting results.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/dev-underwriter/internal/analysis"
	"github.com/iwvelando/dev-underwriter/pkg/btr"
	"github.com/iwvelando/dev-underwriter/pkg/format"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type row struct {
	label string
	value string
}

func writeRows(w io.Writer, rows []row) {
	width := 0
	for _, r := range rows {
		width = max(width, len(r.label))
	}
	for _, r := range rows {
		fmt.Fprintf(w, "%-*s | %s\n", width, r.label, r.value)
	}
}

// PrettyFormat outputs a human-readable rather than machine-readable report.
func PrettyFormat(w io.Writer, report analysis.Report) {
	sections := 0
	for _, deal := range report.Deals {
		if sections > 0 {
			fmt.Fprintf(w, "\n")
		}
		prettyDeal(w, deal)
		sections++
	}
	for _, project := range report.Projects {
		if sections > 0 {
			fmt.Fprintf(w, "\n")
		}
		prettyProject(w, project)
		sections++
	}
}

func prettyDeal(w io.Writer, deal analysis.DealReport) {
	in, r := deal.Inputs, deal.Results
	p := message.NewPrinter(language.English)

	fmt.Fprintf(w, "--- Results for deal %s ---\n", deal.Name)
	if in.PlanName != "" {
		_, _ = p.Fprintf(w, "Plan %s, %.0f sf, ASP %s\n", in.PlanName, in.PlanSF, format.Currency(in.ASP))
	} else {
		fmt.Fprintf(w, "ASP %s\n", format.Currency(in.ASP))
	}
	fmt.Fprintf(w, "\n")

	writeRows(w, []row{
		{"Total lot basis", format.Currency(r.TotalLotBasis)},
		{"Total contract cost", format.Currency(r.TotalContractCost)},
		{"Upgrades", format.Currency(r.TotalUpgrades)},
		{"Municipal & soft costs", format.Currency(r.TotalMuniSoftCosts)},
		{"Fixed house costs", format.Currency(r.TotalFixedHouse)},
		{"Utility charges", format.Currency(r.UtilityCharges)},
		{"Total project cost", format.Currency(r.TotalProjectCost)},
		{"Loan amount", format.Currency(r.LoanAmount)},
		{"Equity required", format.Currency(r.EquityRequired)},
		{"Interest carry", format.Currency(r.InterestCarry)},
		{"Cost of capital carry", format.Currency(r.CostOfCapitalCarry)},
		{"Total carry", format.Currency(r.TotalCarry)},
		{"Total all-in cost", format.Currency(r.TotalAllInCost)},
		{"Selling costs", format.Currency(r.SellingCosts)},
		{"Net sales proceeds", format.Currency(r.NetSalesProceeds)},
		{"Net profit", format.Currency(r.NetProfit)},
		{"Net profit margin", fmt.Sprintf("%s (%s)", format.Percent(r.NPM), r.NPMLabel)},
		{"Land cost ratio", fmt.Sprintf("%s (%s)", format.Percent(r.LandCostRatio), r.LandLabel)},
		{"Breakeven ASP", format.Currency(r.BreakevenASP)},
		{"Minimum ASP at 5%", format.Currency(r.MinASP5Pct)},
	})

	fmt.Fprintf(w, "\nScenario          | Profit       | Margin\n")
	fmt.Fprintf(w, "________          | ______       | ______\n")
	for _, s := range r.Sensitivities() {
		fmt.Fprintf(w, "%-17s | %-12s | %s\n", s.Name, format.Currency(s.Profit), format.Percent(s.NPM))
	}

	fmt.Fprintf(w, "\nRecommendation: %s\n", r.Recommendation)

	if opt := deal.Optimization; opt != nil {
		fmt.Fprintf(w, "\nOptimization (%s for a %s margin):\n", opt.Field, format.Percent(opt.TargetMargin))
		fmt.Fprintf(w, "  Configured: %s at %s\n", format.Cents(opt.Original), format.Percent(opt.OriginalNPM))
		fmt.Fprintf(w, "  Solved:     %s at %s (change %s)\n", format.Cents(opt.Value), format.Percent(opt.ResultNPM), format.Cents(opt.Change()))
		_, _ = p.Fprintf(w, "  Iterations: %d, converged: %t\n", opt.Iterations, opt.Converged)
		for _, note := range opt.Notes {
			fmt.Fprintf(w, "  Note: %s\n", note)
		}
	}

	for _, warning := range deal.Warnings {
		fmt.Fprintf(w, "Warning: %s\n", warning)
	}
}

func prettyProject(w io.Writer, project analysis.ProjectReport) {
	p := message.NewPrinter(language.English)
	b := project.Budget

	fmt.Fprintf(w, "--- Results for project %s ---\n", project.Name)
	_, _ = p.Fprintf(w, "%d units, %.0f sf, %d months\n\n", project.Project.TotalUnits, b.SquareFeet, b.Months)

	rows := make([]row, 0, len(b.Categories)+3)
	for _, c := range b.Categories {
		rows = append(rows, row{c.Label, format.Currency(c.Total)})
	}
	rows = append(rows,
		row{"Grand total", format.Currency(b.GrandTotal)},
		row{"Per unit", format.Currency(b.PerUnit)},
		row{"Per sf", format.Cents(b.PerSF)},
	)
	writeRows(w, rows)
	if b.ExcludedLines > 0 {
		_, _ = p.Fprintf(w, "(%d excluded budget lines)\n", b.ExcludedLines)
	}

	fmt.Fprintf(w, "\nMonth | Spend        | Cumulative   | Started | Delivered\n")
	fmt.Fprintf(w, "_____ | _____        | __________   | _______ | _________\n")
	for m := 0; m < b.Months; m++ {
		started, delivered := 0, 0
		if m < len(project.Schedule.Months) {
			started = project.Schedule.Months[m].Started
			delivered = project.Schedule.Months[m].Delivered
		}
		_, _ = p.Fprintf(w, "%5d | %-12s | %-12s | %7d | %9d\n",
			m+1, format.Currency(b.Monthly[m]), format.Currency(b.Cumulative[m]), started, delivered)
	}

	f := project.Financing
	fmt.Fprintf(w, "\nFinancing:\n")
	for _, l := range project.Layers {
		fmt.Fprintf(w, "  %-18s %s\n", l.Type, format.Currency(l.Amount))
	}
	writeRows(w, []row{
		{"  Total debt", format.Currency(f.TotalDebt)},
		{"  Total equity", format.Currency(f.TotalEquity)},
		{"  Sources gap", format.Currency(f.SourcesGap)},
		{"  Debt to cost", format.Percent(f.DebtToCost)},
		{"  Construction interest", format.Currency(f.ConstructionInterest)},
		{"  Origination fees", format.Currency(f.OriginationFees)},
		{"  Annual debt service", format.Currency(f.AnnualDebtService)},
		{"  DSCR", format.Multiple(f.DSCR)},
	})

	i := project.Income
	fmt.Fprintf(w, "\nStabilized income:\n")
	writeRows(w, []row{
		{"  Gross potential rent", format.Currency(i.GrossPotentialRent)},
		{"  Vacancy loss", fmt.Sprintf("%s (%s)", format.Currency(i.VacancyLoss), format.Percent(i.VacancyPct))},
		{"  Other income", format.Currency(i.OtherIncome)},
		{"  Effective gross income", format.Currency(i.EGI)},
		{"  Total expenses", format.Currency(i.TotalExpenses)},
		{"  NOI", format.Currency(i.NOI)},
		{"  NOI per unit", format.Currency(i.NOIPerUnit)},
		{"  Yield on cost", format.Percent(i.YieldOnCost)},
	})

	if project.Bids.Count > 0 || project.Bids.Selected != nil {
		prettyBids(w, project.Bids)
	}
	if project.Fees.IncludedCount > 0 {
		_, _ = p.Fprintf(w, "\nBuilder fees: %s across %d fees (%s per unit)\n",
			format.Currency(project.Fees.Total), project.Fees.IncludedCount, format.Currency(project.Fees.PerUnit))
	}

	if remaining := project.Schedule.Remaining(project.Project.TotalUnits); remaining != 0 {
		fmt.Fprintf(w, "Warning: schedule leaves %d units unassigned\n", remaining)
	}
}

func prettyBids(w io.Writer, bids btr.BidSummary) {
	fmt.Fprintf(w, "\nBids: %d priced, low %s, high %s, average %s, spread %s\n",
		bids.Count, format.Currency(bids.Low), format.Currency(bids.High),
		format.Currency(bids.Average), format.Currency(bids.Spread))
	if bids.Latest != "" {
		fmt.Fprintf(w, "Latest bid: %s\n", bids.Latest)
	}
	if bids.Selected != nil {
		fmt.Fprintf(w, "Selected: %s at %s\n", bids.Selected.Contractor, format.Currency(bids.Selected.Amount))
	}
}

func quote(value string) string {
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}

// CsvFormat outputs in comma-separated value format: one row per deal, then
// one row per project month.
func CsvFormat(w io.Writer, report analysis.Report) {
	if len(report.Deals) > 0 {
		csvDeals(w, report.Deals)
	}
	if len(report.Projects) > 0 {
		if len(report.Deals) > 0 {
			fmt.Fprintf(w, "\n")
		}
		csvProjects(w, report.Projects)
	}
}

func csvDeals(w io.Writer, deals []analysis.DealReport) {
	fmt.Fprintf(w, `"deal","plan","asp","total project cost","total carry","total all-in cost","net profit","npm","land cost ratio","breakeven asp","recommendation"`)
	for _, s := range deals[0].Results.Sensitivities()[1:] {
		fmt.Fprintf(w, `,"npm (%s)"`, s.Name)
	}
	fmt.Fprintf(w, "\n")

	for _, deal := range deals {
		r := deal.Results
		fmt.Fprintf(w, "%s,%s", quote(deal.Name), quote(deal.Inputs.PlanName))
		for _, v := range []float64{deal.Inputs.ASP, r.TotalProjectCost, r.TotalCarry, r.TotalAllInCost, r.NetProfit} {
			fmt.Fprintf(w, `,"%.2f"`, v)
		}
		fmt.Fprintf(w, `,"%.6f","%.6f","%.2f",%s`, r.NPM, r.LandCostRatio, r.BreakevenASP, quote(string(r.Recommendation)))
		for _, s := range r.Sensitivities()[1:] {
			fmt.Fprintf(w, `,"%.6f"`, s.NPM)
		}
		fmt.Fprintf(w, "\n")
	}
}

func csvProjects(w io.Writer, projects []analysis.ProjectReport) {
	// Category columns follow the first project; every project reports all
	// categories in the same order.
	fmt.Fprintf(w, `"project","month"`)
	for _, c := range projects[0].Budget.Categories {
		fmt.Fprintf(w, `,%s`, quote(c.Label))
	}
	fmt.Fprintf(w, `,"total","cumulative","started","delivered"`)
	fmt.Fprintf(w, "\n")

	for _, project := range projects {
		b := project.Budget
		for m := 0; m < b.Months; m++ {
			fmt.Fprintf(w, `%s,"%d"`, quote(project.Name), m+1)
			for _, c := range b.Categories {
				fmt.Fprintf(w, `,"%.2f"`, c.Monthly[m])
			}
			started, delivered := 0, 0
			if m < len(project.Schedule.Months) {
				started = project.Schedule.Months[m].Started
				delivered = project.Schedule.Months[m].Delivered
			}
			fmt.Fprintf(w, `,"%.2f","%.2f","%d","%d"`, b.Monthly[m], b.Cumulative[m], started, delivered)
			fmt.Fprintf(w, "\n")
		}
	}
}
