// Package analysis defines the reports produced for a configuration and
// includes functions for computing them.
package analysis

import (
	"fmt"

	"github.com/iwvelando/dev-underwriter/internal/config"
	"github.com/iwvelando/dev-underwriter/internal/optimizer"
	"github.com/iwvelando/dev-underwriter/pkg/btr"
	"github.com/iwvelando/dev-underwriter/pkg/optimization"
	"github.com/iwvelando/dev-underwriter/pkg/underwrite"
	"github.com/iwvelando/dev-underwriter/pkg/validation"
	"go.uber.org/zap"
)

// DealReport holds the underwriting of one deal.
type DealReport struct {
	Name         string                 `json:"name"`
	Inputs       underwrite.DealInputs  `json:"inputs"`
	Results      underwrite.DealResults `json:"results"`
	Optimization *optimization.Summary  `json:"optimization,omitempty"`
	Warnings     []string               `json:"warnings,omitempty"`
}

// ProjectReport holds every roll-up for one BTR project.
type ProjectReport struct {
	Name      string               `json:"name"`
	Project   btr.Project          `json:"project"`
	Budget    btr.BudgetSummary    `json:"budget"`
	Layers    []btr.FinancingLayer `json:"financing_layers,omitempty"`
	Financing btr.FinancingSummary `json:"financing"`
	Income    btr.IncomeSummary    `json:"income"`
	Schedule  btr.Schedule         `json:"schedule"`
	Bids      btr.BidSummary       `json:"bids"`
	Fees      btr.FeeSummary       `json:"fees"`
}

// Report is the output of a full run.
type Report struct {
	Deals    []DealReport    `json:"deals"`
	Projects []ProjectReport `json:"projects"`
}

// Run underwrites every active deal and rolls up every active project.
// Invalid inputs stop the run with an error naming the deal or project.
func Run(logger *zap.Logger, conf config.Configuration) (Report, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	report := Report{
		Deals:    []DealReport{},
		Projects: []ProjectReport{},
	}
	runner := optimizer.NewRunner(logger)

	for _, deal := range conf.Deals {
		if !deal.Active {
			logger.Debug(fmt.Sprintf("skipping deal %s because it is inactive", deal.Name),
				zap.String("op", "analysis.Run"),
			)
			continue
		}
		dealReport, err := RunDeal(logger, runner, deal)
		if err != nil {
			return report, err
		}
		report.Deals = append(report.Deals, dealReport)
	}

	for _, project := range conf.Projects {
		if !project.Active {
			logger.Debug(fmt.Sprintf("skipping project %s because it is inactive", project.Name),
				zap.String("op", "analysis.Run"),
			)
			continue
		}
		projectReport, err := RunProject(logger, project)
		if err != nil {
			return report, err
		}
		report.Projects = append(report.Projects, projectReport)
	}

	return report, nil
}

// RunDeal resolves, validates and underwrites one deal, then runs its
// optimizer directive if present.
func RunDeal(logger *zap.Logger, runner *optimizer.Runner, deal config.DealConfig) (DealReport, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if runner == nil {
		runner = optimizer.NewRunner(logger)
	}

	in, err := deal.Resolve()
	if err != nil {
		return DealReport{}, err
	}
	if err := validation.ValidateDeal(in); err != nil {
		return DealReport{}, fmt.Errorf("deal %s: invalid inputs: %w", deal.Name, err)
	}

	results := underwrite.Underwrite(in)
	dealReport := DealReport{Name: deal.Name, Inputs: in, Results: results}

	if err := validation.CheckResults(results); err != nil {
		dealReport.Warnings = append(dealReport.Warnings, err.Error())
		logger.Warn("deal produced non-finite results",
			zap.String("op", "analysis.RunDeal"),
			zap.String("deal", deal.Name),
			zap.Error(err),
		)
	}

	if deal.Optimizer != nil {
		summary, err := runner.Optimize(deal.Name, in, deal.Optimizer)
		if err != nil {
			return DealReport{}, err
		}
		dealReport.Optimization = &summary
	}

	logger.Debug("underwrote deal",
		zap.String("op", "analysis.RunDeal"),
		zap.String("deal", deal.Name),
		zap.Float64("npm", results.NPM),
		zap.String("recommendation", string(results.Recommendation)),
	)

	return dealReport, nil
}

// RunProject validates a project and computes its budget, financing, income,
// delivery, bid and fee roll-ups. Financing is sized on the budget's grand
// total and DSCR uses the configured stabilized NOI when set.
func RunProject(logger *zap.Logger, pc config.ProjectConfig) (ProjectReport, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	project := pc.Project()
	items := pc.BudgetItems()
	if err := validation.ValidateProject(project, items); err != nil {
		return ProjectReport{}, fmt.Errorf("project %s: invalid budget: %w", pc.Name, err)
	}

	budget := btr.SummarizeBudget(project, items)
	layers := pc.Financing.LayersFor(budget.GrandTotal)
	if err := validation.ValidateFinancing(layers); err != nil {
		return ProjectReport{}, fmt.Errorf("project %s: invalid financing: %w", pc.Name, err)
	}

	income := btr.AnalyzeIncome(pc.Income.IncomeItems(), project.TotalUnits, budget.GrandTotal)
	noi := income.NOI
	if pc.StabilizedNOI != nil {
		noi = *pc.StabilizedNOI
	}

	projectReport := ProjectReport{
		Name:      pc.Name,
		Project:   project,
		Budget:    budget,
		Layers:    layers,
		Financing: btr.AnalyzeFinancing(layers, budget.GrandTotal, noi),
		Income:    income,
		Schedule:  btr.DeliverySchedule(pc.Timeline.UnitStarts(project), pc.Timeline.Duration()),
		Bids:      btr.SummarizeBids(pc.Bids),
		Fees:      btr.SummarizeFees(pc.Fees.FeesFor(project.TotalUnits), project.TotalUnits),
	}

	if remaining := projectReport.Schedule.Remaining(project.TotalUnits); remaining != 0 {
		logger.Warn(fmt.Sprintf("project %s schedule leaves %d units unassigned", pc.Name, remaining),
			zap.String("op", "analysis.RunProject"),
		)
	}

	logger.Debug("rolled up project",
		zap.String("op", "analysis.RunProject"),
		zap.String("project", pc.Name),
		zap.Float64("grandTotal", budget.GrandTotal),
		zap.Float64("noi", noi),
	)

	return projectReport, nil
}
