package dashboard

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hris-admin-console/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-admin-console/internal/domain/dashboard"
	"github.com/cmlabs-hris/hris-admin-console/internal/domain/employee"
	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/datefmt"
	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/listquery"
	"golang.org/x/sync/errgroup"
)

type DashboardServiceImpl struct {
	employees  employee.EmployeeService
	attendance attendance.AttendanceService
	now        func() time.Time
}

func NewDashboardService(employees employee.EmployeeService, attendance attendance.AttendanceService) dashboard.DashboardService {
	return &DashboardServiceImpl{
		employees:  employees,
		attendance: attendance,
		now:        time.Now,
	}
}

// GetStats reads both counts from list totals, one single-row page each, in parallel.
func (s *DashboardServiceImpl) GetStats(ctx context.Context) (dashboard.Stats, error) {
	today := datefmt.Today(s.now())
	stats := dashboard.Stats{Today: today}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		res, err := s.employees.ListEmployees(gCtx, listquery.Params{Page: 1, Limit: 1})
		if err != nil {
			return err
		}
		stats.TotalEmployees = res.Meta.Total
		return nil
	})

	g.Go(func() error {
		res, err := s.attendance.ListAttendance(gCtx, listquery.Params{
			Page:  1,
			Limit: 1,
			Filters: map[string]string{
				attendance.FilterStartDate: today,
				attendance.FilterEndDate:   today,
			},
		})
		if err != nil {
			return err
		}
		stats.TodayCheckIns = res.Meta.Total
		return nil
	})

	if err := g.Wait(); err != nil {
		return dashboard.Stats{}, err
	}
	return stats, nil
}
