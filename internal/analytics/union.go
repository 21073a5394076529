package analytics

import (
	"sort"

	"github.com/alexanderramin/sitewise/internal/domain"
)

// UnionLiability is a union's estimated benefit liability.
type UnionLiability struct {
	UnionID          int64              `json:"union_id"`
	UnionName        string             `json:"union_name"`
	TotalLiability   float64            `json:"total_liability"`
	BenefitBreakdown map[string]float64 `json:"benefit_breakdown"`
}

// UnionLiabilities prices the hours logged under each payroll code against
// every union's rate schedule and splits the result evenly across unions.
//
// Labor records carry no union membership, so each union is allocated 1/N of
// the hours under a code. Codes with no matching rate contribute nothing.
// Output follows the order of unions.
func UnionLiabilities(unions []domain.Union, rates []domain.UnionRate, labor []domain.LaborRecord) []UnionLiability {
	if len(unions) == 0 {
		return []UnionLiability{}
	}

	hoursByCode := make(map[string][]float64)
	for _, rec := range labor {
		hoursByCode[rec.PayrollCode] = append(hoursByCode[rec.PayrollCode], rec.Hours)
	}
	codeTotals := make(map[string]float64, len(hoursByCode))
	for code, hours := range hoursByCode {
		var sum float64
		for _, h := range sortedCopy(hours) {
			sum += h
		}
		codeTotals[code] = sum
	}

	ratesByUnion := make(map[int64][]domain.UnionRate)
	for _, r := range rates {
		ratesByUnion[r.UnionID] = append(ratesByUnion[r.UnionID], r)
	}
	for _, rs := range ratesByUnion {
		sort.Slice(rs, func(i, j int) bool {
			if rs[i].BenefitType != rs[j].BenefitType {
				return rs[i].BenefitType < rs[j].BenefitType
			}
			if rs[i].PayrollCode != rs[j].PayrollCode {
				return rs[i].PayrollCode < rs[j].PayrollCode
			}
			return rs[i].Rate < rs[j].Rate
		})
	}

	allocation := 1.0 / float64(len(unions))
	out := make([]UnionLiability, 0, len(unions))
	for _, u := range unions {
		breakdown := make(map[string]float64)
		for _, r := range ratesByUnion[u.ID] {
			breakdown[r.BenefitType] += codeTotals[r.PayrollCode] * r.Rate * allocation
		}
		var total float64
		for _, benefit := range sortedKeys(breakdown) {
			total += breakdown[benefit]
		}
		out = append(out, UnionLiability{
			UnionID:          u.ID,
			UnionName:        u.Name,
			TotalLiability:   total,
			BenefitBreakdown: breakdown,
		})
	}
	return out
}
