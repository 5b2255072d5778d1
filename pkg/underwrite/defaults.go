package underwrite

// DefaultInputs returns the standard assumptions for a new deal. Lot price,
// floor plan and asking price are left at zero for the caller to supply.
func DefaultInputs() DealInputs {
	return DealInputs{
		ClosingCosts:  2500,
		DueDiligence:  1500,
		OtherAcqCosts: 500,

		DurationDays:      150,
		InterestRate:      0.0975,
		CostOfCapitalRate: 0.16,

		SiteSpecific: 10875,
		SoftCosts:    2650,
		Contingency:  11000,
		BuilderFee:   17500,

		HardieColorPlus:  3500,
		ElevationUpgrade: 3500,

		WaterTap:       3000,
		SewerSSSD:      2500,
		SewerTap:       2000,
		BuildingPermit: 2500,
		PlanReview:     1250,
		TradePermits:   400,

		AdditionalSiteWork: 5000,

		BuilderWarranty: 5000,
		BuildersRisk:    1500,
		POFee:           3000,
		PMFee:           3500,
		AMFee:           5000,
		MiscFixed:       11000,

		SellingCostPct:     0.085,
		SellingConcessions: 5000,
	}
}
