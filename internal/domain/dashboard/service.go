package dashboard

import "context"

// DashboardService computes the dashboard counts from list totals.
type DashboardService interface {
	GetStats(ctx context.Context) (Stats, error)
}
