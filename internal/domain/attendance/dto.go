package attendance

import (
	"time"

	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/listquery"
	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/pagination"
	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/validator"
)

// List sort keys and filter fields understood by GET /attendance.
const (
	SortByCheckInTime  = "checkInTime"
	SortByCheckOutTime = "checkOutTime"

	FilterUserID    = "userId"
	FilterStartDate = "startDate"
	FilterEndDate   = "endDate"
)

// ExportPageSize is the page size used to walk every page of an export.
const ExportPageSize = 100

// DefaultListParams starts the attendance view on today's check-ins, newest first.
func DefaultListParams(today string) listquery.Params {
	return listquery.Params{
		Page:      1,
		Limit:     pagination.LimitOptions[0],
		SortBy:    SortByCheckInTime,
		SortOrder: listquery.SortDesc,
		Filters: map[string]string{
			FilterStartDate: today,
			FilterEndDate:   today,
		},
	}
}

var validSortFields = []string{SortByCheckInTime, SortByCheckOutTime}

// ValidateFilters checks the date filters and sort key of params.
func ValidateFilters(params listquery.Params) error {
	var errs validator.ValidationErrors

	if params.SortBy != "" && !validator.IsInSlice(params.SortBy, validSortFields) {
		errs.Add("sortBy", "sortBy must be one of: checkInTime, checkOutTime")
	}

	var start, end time.Time
	var hasStart, hasEnd bool
	if s := params.Filter(FilterStartDate); s != "" {
		if start, hasStart = validator.IsValidDate(s); !hasStart {
			errs.Add(FilterStartDate, "startDate must be in YYYY-MM-DD format")
		}
	}
	if s := params.Filter(FilterEndDate); s != "" {
		if end, hasEnd = validator.IsValidDate(s); !hasEnd {
			errs.Add(FilterEndDate, "endDate must be in YYYY-MM-DD format")
		}
	}
	if hasStart && hasEnd && start.After(end) {
		errs.Add(FilterEndDate, ErrInvalidDateRange.Error())
	}

	return errs.OrNil()
}

// ListResult is one page of attendance records.
type ListResult struct {
	Items []Attendance
	Meta  pagination.Meta
}

// Photo is a downloaded check-in photo.
type Photo struct {
	ContentType string
	Data        []byte
}
