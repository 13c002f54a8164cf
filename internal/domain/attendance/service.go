package attendance

import (
	"context"

	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/listquery"
	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/querycache"
)

// AttendanceService reads attendance records. Attendance is never written from the console.
type AttendanceService interface {
	// ListAttendance returns one page for params, served from the request cache when fresh
	ListAttendance(ctx context.Context, params listquery.Params) (ListResult, error)

	// ListQuery is the cache query behind ListAttendance
	ListQuery(params listquery.Params) querycache.Spec[ListResult]

	// ExportAttendance walks every page matching params' filters and sort
	ExportAttendance(ctx context.Context, params listquery.Params) ([]Attendance, error)

	// Photo downloads a check-in photo with the operator's credentials
	Photo(ctx context.Context, photoURL string) (Photo, error)

	// PhotoURL resolves a stored photo path against the attendance service origin
	PhotoURL(path string) string
}
