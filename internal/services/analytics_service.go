package services

import (
	"fmt"
	"math"
	"sort"
	"strings"

	apperrors "pennywise/internal/errors"
	"pennywise/internal/models"
)

// Aggregate operations.
const (
	OpSum   = "sum"
	OpAvg   = "avg"
	OpCount = "count"
	OpMin   = "min"
	OpMax   = "max"
)

// Grouping keys.
const (
	GroupByCategory = "category"
	GroupByMonth    = "month"
	GroupByMerchant = "merchant"
	GroupByCardType = "card_type"
	GroupByBank     = "bank"
	GroupByAccount  = "account_last4"
)

// anomalyMinSample is the smallest outflow sample a standard deviation is
// computed over.
const anomalyMinSample = 3

// analyticsService implements the read-side operations. Every call loads the
// full current ledger and runs a single linear pass per grouping; results are
// pure functions of (snapshot, parameters).
type analyticsService struct {
	ledger LedgerServicer
}

// NewAnalyticsService creates a new AnalyticsServicer over the given ledger.
func NewAnalyticsService(ledger LedgerServicer) AnalyticsServicer {
	return &analyticsService{ledger: ledger}
}

// Aggregate computes sum, avg, count, min, or max over the filtered snapshot,
// optionally grouped by a single dimension.
func (s *analyticsService) Aggregate(params AggregateParams) (*AggregateResult, error) {
	data, err := s.filtered(TransactionFilter{
		StartDate:           params.StartDate,
		EndDate:             params.EndDate,
		Category:            params.Category,
		DescriptionContains: params.DescriptionContains,
		CardType:            params.CardType,
		Bank:                params.Bank,
		AccountLast4:        params.AccountLast4,
	})
	if err != nil {
		return nil, err
	}

	if len(data) == 0 {
		return &AggregateResult{Result: f64ptr(0), Note: "No matching transactions"}, nil
	}

	// Summing a specific merchant without flow filters reports spending and
	// refunds separately rather than a bare net that hides refunds.
	if params.DescriptionContains != nil && params.Operation == OpSum && !params.ExpensesOnly && !params.IncomeOnly {
		return &AggregateResult{Count: len(data), Breakdown: merchantBreakdown(data)}, nil
	}

	if params.ExpensesOnly {
		data = filterFlow(data, func(amount float64) bool { return amount < 0 })
	}
	if params.IncomeOnly {
		data = filterFlow(data, func(amount float64) bool { return amount > 0 })
	}
	if len(data) == 0 {
		return &AggregateResult{Result: f64ptr(0), Note: "No matching transactions"}, nil
	}

	if params.GroupBy != "" {
		return groupedAggregate(data, params.Operation, params.GroupBy)
	}
	return scalarAggregate(data, params.Operation)
}

func scalarAggregate(data []models.Transaction, operation string) (*AggregateResult, error) {
	switch operation {
	case OpSum:
		var total float64
		for _, t := range data {
			total += t.Amount
		}
		return &AggregateResult{Result: f64ptr(round2(total)), Count: len(data)}, nil

	case OpAvg:
		var total float64
		for _, t := range data {
			total += t.Amount
		}
		return &AggregateResult{Result: f64ptr(round2(total / float64(len(data)))), Count: len(data)}, nil

	case OpCount:
		return &AggregateResult{Result: f64ptr(float64(len(data))), Count: len(data)}, nil

	case OpMin, OpMax:
		extreme := data[0]
		for _, t := range data[1:] {
			if (operation == OpMin && t.Amount < extreme.Amount) ||
				(operation == OpMax && t.Amount > extreme.Amount) {
				extreme = t
			}
		}
		detail := detailOf(extreme, "")
		return &AggregateResult{Result: f64ptr(round2(extreme.Amount)), Transaction: &detail}, nil

	default:
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unknown aggregate operation: "+operation)
	}
}

func groupedAggregate(data []models.Transaction, operation, groupBy string) (*AggregateResult, error) {
	switch operation {
	case OpSum, OpAvg, OpCount:
		sums := map[string]float64{}
		counts := map[string]int{}
		for _, t := range data {
			key := groupKey(t, groupBy)
			sums[key] += t.Amount
			counts[key]++
		}

		grouped := make([]GroupValue, 0, len(sums))
		for key := range sums {
			var value float64
			switch operation {
			case OpSum:
				value = round2(sums[key])
			case OpAvg:
				value = round2(sums[key] / float64(counts[key]))
			case OpCount:
				value = float64(counts[key])
			}
			grouped = append(grouped, GroupValue{Group: key, Value: value})
		}

		sort.SliceStable(grouped, func(i, j int) bool {
			if operation == OpCount {
				return grouped[i].Value > grouped[j].Value
			}
			return math.Abs(grouped[i].Value) > math.Abs(grouped[j].Value)
		})
		return &AggregateResult{Count: len(data), Grouped: grouped}, nil

	case OpMin, OpMax:
		extremes := map[string]models.Transaction{}
		for _, t := range data {
			key := groupKey(t, groupBy)
			current, seen := extremes[key]
			if !seen ||
				(operation == OpMin && t.Amount < current.Amount) ||
				(operation == OpMax && t.Amount > current.Amount) {
				extremes[key] = t
			}
		}

		details := make([]TransactionDetail, 0, len(extremes))
		for key, t := range extremes {
			details = append(details, detailOf(t, key))
		}
		sort.SliceStable(details, func(i, j int) bool {
			if operation == OpMin {
				return details[i].Amount < details[j].Amount
			}
			return math.Abs(details[i].Amount) > math.Abs(details[j].Amount)
		})
		return &AggregateResult{Count: len(details), Transactions: details}, nil

	default:
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unknown aggregate operation: "+operation)
	}
}

// ComparePeriods compares two date windows, either as scalar totals with
// difference and percent change, or as independent per-category breakdowns.
// A zero first-period total yields a zero percent change, never a division
// fault.
func (s *analyticsService) ComparePeriods(p1, p2 Period, groupBy string) (*ComparisonResult, error) {
	snapshot, err := s.ledger.Load()
	if err != nil {
		return nil, err
	}

	in := func(t models.Transaction, p Period) bool {
		return !t.Date.Before(p.Start) && !t.Date.After(p.End)
	}
	dates := func(p Period) string {
		return p.Start.Format(models.DateLayout) + " to " + p.End.Format(models.DateLayout)
	}

	if groupBy == GroupByCategory {
		byCat := func(p Period) map[string]float64 {
			out := map[string]float64{}
			for _, t := range snapshot {
				if in(t, p) {
					out[t.Category] = round2(out[t.Category] + t.Amount)
				}
			}
			return out
		}
		return &ComparisonResult{
			Period1: PeriodSummary{Dates: dates(p1), ByCategory: byCat(p1)},
			Period2: PeriodSummary{Dates: dates(p2), ByCategory: byCat(p2)},
		}, nil
	}

	var total1, total2 float64
	for _, t := range snapshot {
		if in(t, p1) {
			total1 += t.Amount
		}
		if in(t, p2) {
			total2 += t.Amount
		}
	}
	total1 = round2(total1)
	total2 = round2(total2)

	diff := round2(total2 - total1)
	pct := 0.0
	if total1 != 0 {
		pct = round1(diff / math.Abs(total1) * 100)
	}

	return &ComparisonResult{
		Period1:       PeriodSummary{Dates: dates(p1), Total: f64ptr(total1)},
		Period2:       PeriodSummary{Dates: dates(p2), Total: f64ptr(total2)},
		Difference:    f64ptr(diff),
		PercentChange: f64ptr(pct),
	}, nil
}

// FindRecurring groups the ledger by merchant text and reports groups that
// occur at least minOccurrences times, sorted by descending occurrence count.
func (s *analyticsService) FindRecurring(minOccurrences int) (*RecurringResult, error) {
	if minOccurrences < 1 {
		minOccurrences = 3
	}

	snapshot, err := s.ledger.Load()
	if err != nil {
		return nil, err
	}

	counts := map[string]int{}
	totals := map[string]float64{}
	for _, t := range snapshot {
		counts[t.Description]++
		totals[t.Description] += t.Amount
	}

	charges := make([]RecurringCharge, 0)
	for desc, count := range counts {
		if count < minOccurrences {
			continue
		}
		charges = append(charges, RecurringCharge{
			Description: desc,
			Count:       count,
			AvgAmount:   round2(totals[desc] / float64(count)),
			Total:       round2(totals[desc]),
		})
	}

	sort.SliceStable(charges, func(i, j int) bool {
		if charges[i].Count != charges[j].Count {
			return charges[i].Count > charges[j].Count
		}
		return charges[i].Description < charges[j].Description
	})

	return &RecurringResult{RecurringCount: len(charges), RecurringCharges: charges}, nil
}

// DetectAnomalies flags outflow transactions whose amount is more than
// threshold population standard deviations below the outflow mean, i.e.
// unusually large expenses. Fewer than three qualifying outflows yields an
// empty result with a note rather than a statistic over too little data.
func (s *analyticsService) DetectAnomalies(category *string, threshold float64) (*AnomalyResult, error) {
	if threshold <= 0 {
		threshold = 2
	}

	snapshot, err := s.ledger.Load()
	if err != nil {
		return nil, err
	}

	var expenses []models.Transaction
	for _, t := range snapshot {
		if category != nil && !strings.EqualFold(t.Category, *category) {
			continue
		}
		if t.Amount < 0 {
			expenses = append(expenses, t)
		}
	}

	if len(expenses) < anomalyMinSample {
		return &AnomalyResult{
			Note:      "Not enough transactions to detect anomalies",
			Anomalies: []TransactionDetail{},
		}, nil
	}

	var sum float64
	for _, t := range expenses {
		sum += t.Amount
	}
	mean := sum / float64(len(expenses))

	var variance float64
	for _, t := range expenses {
		variance += (t.Amount - mean) * (t.Amount - mean)
	}
	stddev := math.Sqrt(variance / float64(len(expenses)))

	cutoff := mean - threshold*stddev

	anomalies := make([]TransactionDetail, 0)
	for _, t := range expenses {
		if t.Amount < cutoff {
			anomalies = append(anomalies, detailOf(t, ""))
		}
	}
	sort.SliceStable(anomalies, func(i, j int) bool {
		return anomalies[i].Amount < anomalies[j].Amount
	})

	return &AnomalyResult{
		AnomalyCount:  len(anomalies),
		ThresholdUsed: fmt.Sprintf("%g standard deviations", threshold),
		Anomalies:     anomalies,
	}, nil
}

// filtered loads the snapshot and applies the filter in a single pass.
func (s *analyticsService) filtered(filter TransactionFilter) ([]models.Transaction, error) {
	snapshot, err := s.ledger.Load()
	if err != nil {
		return nil, err
	}

	var out []models.Transaction
	for _, t := range snapshot {
		if matchesFilter(t, filter) {
			out = append(out, t)
		}
	}
	return out, nil
}

func matchesFilter(t models.Transaction, f TransactionFilter) bool {
	if f.StartDate != nil && t.Date.Before(*f.StartDate) {
		return false
	}
	if f.EndDate != nil && t.Date.After(*f.EndDate) {
		return false
	}
	if f.Category != nil && !strings.EqualFold(t.Category, *f.Category) {
		return false
	}
	if f.DescriptionContains != nil &&
		!strings.Contains(strings.ToLower(t.Description), strings.ToLower(*f.DescriptionContains)) {
		return false
	}
	if f.MinAmount != nil && t.Amount < *f.MinAmount {
		return false
	}
	if f.MaxAmount != nil && t.Amount > *f.MaxAmount {
		return false
	}
	if f.CardType != nil && (t.CardType == nil || !strings.EqualFold(*t.CardType, *f.CardType)) {
		return false
	}
	if f.Bank != nil && (t.Bank == nil || !strings.EqualFold(*t.Bank, *f.Bank)) {
		return false
	}
	if f.AccountLast4 != nil && (t.AccountLast4 == nil || *t.AccountLast4 != *f.AccountLast4) {
		return false
	}
	return true
}

func merchantBreakdown(data []models.Transaction) *MerchantBreakdown {
	b := &MerchantBreakdown{TransactionCount: len(data)}
	for _, t := range data {
		if t.Amount < 0 {
			b.TotalSpent += -t.Amount
			b.ExpenseCount++
		} else if t.Amount > 0 {
			b.TotalRefunds += t.Amount
			b.RefundCount++
		}
		b.Net += t.Amount
	}
	b.TotalSpent = round2(b.TotalSpent)
	b.TotalRefunds = round2(b.TotalRefunds)
	b.Net = round2(b.Net)
	return b
}

func groupKey(t models.Transaction, groupBy string) string {
	switch groupBy {
	case GroupByMonth:
		return t.Date.Format("2006-01")
	case GroupByMerchant:
		return t.Description
	case GroupByCategory:
		return t.Category
	case GroupByCardType:
		return strOrUnknown(t.CardType)
	case GroupByBank:
		return strOrUnknown(t.Bank)
	case GroupByAccount:
		return strOrUnknown(t.AccountLast4)
	default:
		return t.Category
	}
}

func detailOf(t models.Transaction, group string) TransactionDetail {
	return TransactionDetail{
		Group:       group,
		Date:        t.DateString(),
		Description: t.Description,
		Amount:      round2(t.Amount),
		Category:    t.Category,
	}
}

func filterFlow(data []models.Transaction, keep func(float64) bool) []models.Transaction {
	var out []models.Transaction
	for _, t := range data {
		if keep(t.Amount) {
			out = append(out, t)
		}
	}
	return out
}

func strOrUnknown(s *string) string {
	if s == nil || *s == "" {
		return "unknown"
	}
	return *s
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}

func f64ptr(f float64) *float64 {
	return &f
}
