// internal/pipeline/metrics.go
package pipeline

import (
	"salespipe-service/internal/domain/customer"
)

// Aggregate derives pipeline statistics from a record snapshot. Pure
// function; an empty snapshot yields zero rates without dividing by zero.
func Aggregate(records []customer.Customer) customer.Metrics {
	m := customer.Metrics{TotalCount: len(records)}

	highPriority := 0
	for i := range records {
		c := &records[i]
		switch c.Status {
		case customer.StatusApproach, customer.StatusNegotiating:
			m.ActiveDealCount++
		case customer.StatusWon:
			m.WonCount++
		}
		if c.Priority == customer.PriorityHigh {
			highPriority++
		}
		m.TotalEstimatedValue += c.EstimatedValueOrZero()
	}

	if m.TotalCount > 0 {
		m.ConversionRate = float64(m.WonCount) / float64(m.TotalCount)
		m.HighPriorityRate = float64(highPriority) / float64(m.TotalCount)
	}
	return m
}
