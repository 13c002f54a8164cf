package http

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/cmlabs-hris/hris-admin-console/internal/domain/employee"
	"github.com/cmlabs-hris/hris-admin-console/internal/domain/user"
	"github.com/cmlabs-hris/hris-admin-console/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/listquery"
	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/notify"
	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/querycache"
	"github.com/go-chi/chi/v5"
)

const employeesTopic = "employees"

type EmployeeHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Search(w http.ResponseWriter, r *http.Request)
	New(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Edit(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	ConfirmDelete(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	// Reset returns the list to its default parameters, for a new session.
	Reset()
}

type employeeHandlerImpl struct {
	*Pages
	employeeService employee.EmployeeService
	list            *listView[employee.ListResult]
}

type employeeListPage struct {
	page
	Params listquery.Params
	Result employee.ListResult
	Roles  []user.Role
}

type employeeFormPage struct {
	page
	Editing  bool
	Action   string
	Values   employee.FormValues
	Original employee.FormValues
	Fields   map[string]string
	Roles    []user.Role
}

type employeeDeletePage struct {
	page
	Employee employee.Employee
}

func NewEmployeeHandler(p *Pages, employeeService employee.EmployeeService, cache *querycache.Client, ui ListViewSettings) EmployeeHandler {
	return &employeeHandlerImpl{
		Pages:           p,
		employeeService: employeeService,
		list: newListView(cache, listViewConfig[employee.ListResult]{
			Topic:      employeesTopic,
			Initial:    employee.DefaultListParams,
			Filters:    []string{employee.FilterRole},
			Query:      employeeService.ListQuery,
			Debounce:   ui.SearchDebounce,
			RenderWait: ui.RenderWait,
			Hub:        cache.Hub(),
		}),
	}
}

// List implements EmployeeHandler.
func (h *employeeHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	params, snap, _ := h.list.Load(r.Context(), r.URL.Query())
	h.renderList(w, r, params, snap, "layout")
}

// Search implements EmployeeHandler. Only the last keystroke of a burst
// answers with results; superseded keystrokes answer 204.
func (h *employeeHandlerImpl) Search(w http.ResponseWriter, r *http.Request) {
	if !h.list.Search(r.Context(), r.URL.Query().Get("q")) {
		response.NoContent(w)
		return
	}
	params, snap, _ := h.list.Load(r.Context(), url.Values{})
	h.renderList(w, r, params, snap, "employee_results")
}

func (h *employeeHandlerImpl) renderList(w http.ResponseWriter, r *http.Request, params listquery.Params, snap querycache.Snapshot[employee.ListResult], block string) {
	pg := h.base(r.Context(), "Employees", "employees", employeesTopic)
	pg.Key = snap.Key.String()
	pg.Pending = pending(snap)
	if snap.Err != nil {
		slog.Error("Employee list error", "key", pg.Key, "error", snap.Err)
		f := response.Classify(snap.Err)
		if f.SignIn {
			redirectToLogin(w, r)
			return
		}
		pg.Error = f.Message
	}

	data := employeeListPage{page: pg, Params: params, Result: snap.Data, Roles: user.Roles()}
	w.Header().Set("X-Query-Key", pg.Key)
	if block == "layout" {
		h.views.Page(w, http.StatusOK, "employees", data)
		return
	}
	h.views.Partial(w, http.StatusOK, "employees", block, data)
}

// New implements EmployeeHandler.
func (h *employeeHandlerImpl) New(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, http.StatusOK, employee.Create{}, employee.NewFormValues(), nil, "")
}

// Create implements EmployeeHandler.
func (h *employeeHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	values, ok := formValues(w, r)
	if !ok {
		return
	}
	h.submit(w, r, employee.Create{}, values)
}

// Edit implements EmployeeHandler.
func (h *employeeHandlerImpl) Edit(w http.ResponseWriter, r *http.Request) {
	e, err := h.employeeService.GetEmployee(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, response.Classify(err), "/employees")
		return
	}
	h.renderForm(w, r, http.StatusOK, employee.Edit{Employee: e}, employee.FormValuesFrom(e), nil, "")
}

// Update implements EmployeeHandler. The patch is diffed against the record
// the form was rendered from; the backend is consulted only when the form
// carries no loaded values.
func (h *employeeHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	values, ok := formValues(w, r)
	if !ok {
		return
	}
	original, loaded := loadedEmployee(r, id)
	if !loaded {
		e, err := h.employeeService.GetEmployee(r.Context(), id)
		if err != nil {
			h.fail(w, r, response.Classify(err), "/employees")
			return
		}
		original = e
	}
	h.submit(w, r, employee.Edit{Employee: original}, values)
}

func (h *employeeHandlerImpl) submit(w http.ResponseWriter, r *http.Request, mode employee.FormMode, values employee.FormValues) {
	saved, err := employee.SubmitForm(r.Context(), h.employeeService, mode, values)
	if err != nil {
		f := response.Classify(err)
		if f.SignIn {
			redirectToLogin(w, r)
			return
		}
		slog.Warn("Employee form rejected", "status", f.Status, "error", err)
		message := ""
		if len(f.Fields) == 0 {
			message = f.Message
		}
		values.Password = ""
		h.renderForm(w, r, f.Status, mode, values, f.Fields, message)
		return
	}

	switch mode.(type) {
	case employee.Create:
		h.notifications.Notify(notify.LevelSuccess, "Employee created", saved.Name+" was added.")
	case employee.Edit:
		h.notifications.Notify(notify.LevelSuccess, "Employee updated", saved.Name+" was saved.")
	}
	http.Redirect(w, r, "/employees", http.StatusSeeOther)
}

func (h *employeeHandlerImpl) renderForm(w http.ResponseWriter, r *http.Request, status int, mode employee.FormMode, values employee.FormValues, fields map[string]string, message string) {
	data := employeeFormPage{
		page:   h.base(r.Context(), "Add employee", "employees"),
		Action: "/employees",
		Values: values,
		Fields: fields,
		Roles:  user.Roles(),
	}
	if m, ok := mode.(employee.Edit); ok {
		data.Title = "Edit employee"
		data.Editing = true
		data.Action = "/employees/" + url.PathEscape(m.Employee.ID)
		data.Original = employee.FormValuesFrom(m.Employee)
	}
	data.Error = message
	h.views.Page(w, status, "employee_form", data)
}

// ConfirmDelete implements EmployeeHandler.
func (h *employeeHandlerImpl) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	e, err := h.employeeService.GetEmployee(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, response.Classify(err), "/employees")
		return
	}
	h.views.Page(w, http.StatusOK, "employee_delete", employeeDeletePage{
		page:     h.base(r.Context(), "Delete employee", "employees"),
		Employee: e,
	})
}

// Delete implements EmployeeHandler. The confirmation is dismissed whatever the outcome.
func (h *employeeHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.employeeService.DeleteEmployee(r.Context(), id); err != nil {
		slog.Error("Delete employee error", "employee_id", id, "error", err)
		f := response.Classify(err)
		if f.SignIn {
			redirectToLogin(w, r)
			return
		}
		h.notifyFailure(f, "Could not delete employee")
	} else {
		h.notifications.Notify(notify.LevelSuccess, "Employee deleted", "")
	}
	http.Redirect(w, r, "/employees", http.StatusSeeOther)
}

// Reset implements EmployeeHandler.
func (h *employeeHandlerImpl) Reset() {
	h.list.Reset()
}

func formValues(w http.ResponseWriter, r *http.Request) (employee.FormValues, bool) {
	if err := r.ParseForm(); err != nil {
		slog.Error("Employee form parse error", "error", err)
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return employee.FormValues{}, false
	}
	return employee.FormValues{
		Email:    strings.TrimSpace(r.PostForm.Get("email")),
		Name:     strings.TrimSpace(r.PostForm.Get("name")),
		Password: r.PostForm.Get("password"),
		Role:     user.Role(r.PostForm.Get("role")),
	}, true
}

// loadedEmployee rebuilds the record an edit form was rendered from out of its
// hidden fields.
func loadedEmployee(r *http.Request, id string) (employee.Employee, bool) {
	if !r.PostForm.Has("original_email") {
		return employee.Employee{}, false
	}
	return employee.Employee{
		ID:    id,
		Email: r.PostForm.Get("original_email"),
		Name:  r.PostForm.Get("original_name"),
		Role:  user.Role(r.PostForm.Get("original_role")),
	}, true
}
