package http

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/hris-admin-console/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-admin-console/internal/domain/employee"
	"github.com/cmlabs-hris/hris-admin-console/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/datefmt"
	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/export"
	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/listquery"
	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/querycache"
	"github.com/go-chi/chi/v5"
)

const attendanceTopic = "attendance"

type AttendanceHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Photo(w http.ResponseWriter, r *http.Request)
	Export(w http.ResponseWriter, r *http.Request)
	// Reset returns the list to today's records, for a new session.
	Reset()
}

type attendanceHandlerImpl struct {
	*Pages
	attendanceService attendance.AttendanceService
	employeeService   employee.EmployeeService
	list              *listView[attendance.ListResult]
	now               func() time.Time
}

type attendanceListPage struct {
	page
	Params    listquery.Params
	Result    attendance.ListResult
	Employees []employee.Employee
	Fields    map[string]string
}

func NewAttendanceHandler(p *Pages, attendanceService attendance.AttendanceService, employeeService employee.EmployeeService, cache *querycache.Client, ui ListViewSettings) AttendanceHandler {
	h := &attendanceHandlerImpl{
		Pages:             p,
		attendanceService: attendanceService,
		employeeService:   employeeService,
		now:               time.Now,
	}
	h.list = newListView(cache, listViewConfig[attendance.ListResult]{
		Topic: attendanceTopic,
		Initial: func() listquery.Params {
			return attendance.DefaultListParams(datefmt.Today(h.now()))
		},
		Filters:    []string{attendance.FilterUserID, attendance.FilterStartDate, attendance.FilterEndDate},
		Query:      attendanceService.ListQuery,
		Validate:   attendance.ValidateFilters,
		Debounce:   ui.SearchDebounce,
		RenderWait: ui.RenderWait,
		Hub:        cache.Hub(),
	})
	return h
}

// List implements AttendanceHandler.
func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	params, snap, verr := h.list.Load(r.Context(), r.URL.Query())

	pg := h.base(r.Context(), "Attendance", "attendance", attendanceTopic)
	pg.Key = snap.Key.String()
	pg.Pending = pending(snap)

	data := attendanceListPage{page: pg, Params: params, Result: snap.Data}
	status := http.StatusOK
	if verr != nil {
		f := response.Classify(verr)
		data.Fields = f.Fields
		if len(f.Fields) == 0 {
			data.Error = f.Message
		}
		status = f.Status
	} else if snap.Err != nil {
		slog.Error("Attendance list error", "key", pg.Key, "error", snap.Err)
		f := response.Classify(snap.Err)
		if f.SignIn {
			redirectToLogin(w, r)
			return
		}
		data.Error = f.Message
	}

	options, err := h.employeeService.Options(r.Context())
	if err != nil {
		slog.Warn("Employee options unavailable", "error", err)
	}
	data.Employees = options

	w.Header().Set("X-Query-Key", pg.Key)
	h.views.Page(w, status, "attendance", data)
}

// Photo implements AttendanceHandler. It streams a check-in photo downloaded
// with the operator's credentials, so the browser never sees the backend token.
func (h *attendanceHandlerImpl) Photo(w http.ResponseWriter, r *http.Request) {
	photo, err := h.attendanceService.Photo(r.Context(), r.URL.Query().Get("src"))
	if err != nil {
		slog.Warn("Attendance photo error", "error", err)
		response.HandleError(w, err)
		return
	}

	contentType := photo.ContentType
	if contentType == "" {
		contentType = http.DetectContentType(photo.Data)
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "private, max-age=300")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	_, _ = w.Write(photo.Data)
}

// Export implements AttendanceHandler. Every page matching the current filters
// and sort is written as an xlsx workbook or a pdf table.
func (h *attendanceHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if format != "xlsx" && format != "pdf" {
		response.NotFound(w, "Unknown export format")
		return
	}

	params := h.list.Params()
	records, err := h.attendanceService.ExportAttendance(r.Context(), params)
	if err != nil {
		slog.Error("Attendance export error", "error", err)
		f := response.Classify(err)
		h.notifyFailure(f, "Export failed")
		h.fail(w, r, f, "/attendance")
		return
	}

	var buf bytes.Buffer
	contentType := export.ContentTypeXLSX
	if format == "pdf" {
		contentType = export.ContentTypePDF
		err = export.AttendancePDF(&buf, exportTitle(params), records)
	} else {
		err = export.AttendanceXLSX(&buf, records)
	}
	if err != nil {
		slog.Error("Attendance export encode error", "format", format, "error", err)
		h.fail(w, r, response.Classify(err), "/attendance")
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.%s"`, exportName(params), format))
	_, _ = buf.WriteTo(w)
}

// Reset implements AttendanceHandler.
func (h *attendanceHandlerImpl) Reset() {
	h.list.Reset()
}

// exportRange describes the date filters of p, joined by sep.
func exportRange(p listquery.Params, sep string) string {
	start, end := p.Filter(attendance.FilterStartDate), p.Filter(attendance.FilterEndDate)
	switch {
	case start != "" && end != "":
		return start + sep + "to" + sep + end
	case start != "":
		return "from" + sep + start
	case end != "":
		return "until" + sep + end
	default:
		return "all"
	}
}

func exportName(p listquery.Params) string {
	return "attendance-" + exportRange(p, "-")
}

func exportTitle(p listquery.Params) string {
	return "Attendance " + exportRange(p, " ")
}
