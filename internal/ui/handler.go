// Package ui serves the HRM pages: the employee and attendance forms and
// tables, plus the small UI state actions (theme, modal).
package ui

import (
	"context"
	"embed"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"mvphrm/internal/attendance"
	"mvphrm/internal/employee"
	"mvphrm/internal/httpmiddleware"
	"mvphrm/internal/logging"
	"mvphrm/internal/model"
	"mvphrm/internal/uistate"
)

//go:embed templates/*.html
var templateFS embed.FS

// DefaultEmployeeID is the employee shown on the attendance page when the
// request names none.
const DefaultEmployeeID = 1

// Templates parses the embedded page templates.
func Templates() *template.Template {
	return template.Must(template.New("").ParseFS(templateFS, "templates/*.html"))
}

// Handler renders the pages.
type Handler struct {
	employees  *employee.Service
	attendance *attendance.Service
	states     *uistate.Registry
	loggers    *logging.Set
	renderWait time.Duration
}

// NewHandler creates a handler. Reads slower than renderWait render as
// loading and finish in the background.
func NewHandler(emp *employee.Service, att *attendance.Service, states *uistate.Registry, loggers *logging.Set, renderWait time.Duration) *Handler {
	if renderWait <= 0 {
		renderWait = 5 * time.Second
	}
	return &Handler{
		employees:  emp,
		attendance: att,
		states:     states,
		loggers:    loggers,
		renderWait: renderWait,
	}
}

// Register installs the templates on engine and mounts the page routes on r,
// which must run behind the session middleware.
func (h *Handler) Register(engine *gin.Engine, r gin.IRoutes) {
	engine.SetHTMLTemplate(Templates())

	r.GET("/", func(c *gin.Context) { c.Redirect(http.StatusFound, "/employees") })
	r.GET("/employees", h.employeesPage)
	r.POST("/employees", h.createEmployee)
	r.POST("/employees/:id/delete", h.deleteEmployee)
	r.GET("/attendance", h.attendancePage)
	r.POST("/attendance", h.markAttendance)

	r.GET("/ui/state", func(c *gin.Context) { c.JSON(http.StatusOK, h.state(c).Snapshot()) })
	r.POST("/ui/theme", func(c *gin.Context) {
		h.state(c).ToggleTheme()
		c.Redirect(http.StatusSeeOther, returnPath(c))
	})
	r.POST("/ui/modal/open", func(c *gin.Context) {
		h.state(c).OpenModal()
		c.Redirect(http.StatusSeeOther, returnPath(c))
	})
	r.POST("/ui/modal/close", func(c *gin.Context) {
		h.state(c).CloseModal()
		c.Redirect(http.StatusSeeOther, returnPath(c))
	})
}

type pageData struct {
	Title          string
	Path           string
	UI             uistate.Snapshot
	CorrelationID  string
	Notice         string
	EmployeeForm   *EmployeeForm
	AttendanceForm *AttendanceForm
	EmployeeID     int
	Table          Table
}

func (h *Handler) state(c *gin.Context) *uistate.State {
	return h.states.For(httpmiddleware.SessionID(c))
}

func (h *Handler) uiLogger(c *gin.Context) *logging.Logger {
	return h.loggers.UI.WithCorrelationID(httpmiddleware.CorrelationID(c))
}

func (h *Handler) readCtx(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), h.renderWait)
}

func (h *Handler) page(c *gin.Context, title string) pageData {
	return pageData{
		Title:         title,
		Path:          c.Request.URL.RequestURI(),
		UI:            h.state(c).Snapshot(),
		CorrelationID: httpmiddleware.CorrelationID(c),
	}
}

func (h *Handler) renderEmployees(c *gin.Context, status int, form *EmployeeForm, notice string) {
	ctx, cancel := h.readCtx(c)
	defer cancel()

	data := h.page(c, "Employee Management")
	data.EmployeeForm = form
	data.Notice = notice
	data.Table = EmployeeList(h.employees.List(ctx))
	c.HTML(status, "employees.html", data)
}

func (h *Handler) employeesPage(c *gin.Context) {
	h.renderEmployees(c, http.StatusOK, &EmployeeForm{}, "")
}

func (h *Handler) createEmployee(c *gin.Context) {
	form := &EmployeeForm{
		Name:       c.PostForm("name"),
		Email:      c.PostForm("email"),
		Department: c.PostForm("department"),
	}
	form.Submit(c.Request.Context(), h.employees, h.uiLogger(c))
	status := http.StatusOK
	if !form.OK {
		status = http.StatusUnprocessableEntity
	}
	h.renderEmployees(c, status, form, "")
}

func (h *Handler) deleteEmployee(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		h.renderEmployees(c, http.StatusBadRequest, &EmployeeForm{}, "Invalid employee id")
		return
	}
	if err := h.employees.Delete(c.Request.Context(), id); err != nil {
		h.uiLogger(c).Warn("employee delete failed", logging.Context{Error: err.Error(), Fields: map[string]any{"employeeId": id}})
		h.renderEmployees(c, http.StatusUnprocessableEntity, &EmployeeForm{}, err.Error())
		return
	}
	c.Redirect(http.StatusSeeOther, "/employees")
}

// employeeParam reads ?employee_id; absent means DefaultEmployeeID and
// anything unparsable means no employee selected.
func employeeParam(c *gin.Context) int {
	raw, ok := c.GetQuery("employee_id")
	if !ok {
		return DefaultEmployeeID
	}
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || id < 0 {
		return 0
	}
	return id
}

func (h *Handler) renderAttendance(c *gin.Context, status int, form *AttendanceForm) {
	ctx, cancel := h.readCtx(c)
	defer cancel()

	data := h.page(c, "Attendance Records")
	data.AttendanceForm = form
	data.EmployeeID = employeeParam(c)
	data.Table = AttendanceTable(h.attendance.ForEmployee(ctx, data.EmployeeID))
	c.HTML(status, "attendance.html", data)
}

func (h *Handler) attendancePage(c *gin.Context) {
	form := NewAttendanceForm()
	h.renderAttendance(c, http.StatusOK, &form)
}

func (h *Handler) markAttendance(c *gin.Context) {
	form := AttendanceForm{
		EmployeeID: c.PostForm("employeeId"),
		Date:       c.PostForm("date"),
		Status:     model.AttendanceStatus(c.PostForm("status")),
	}
	form.Submit(c.Request.Context(), h.attendance, h.uiLogger(c))
	status := http.StatusOK
	if !form.OK {
		status = http.StatusUnprocessableEntity
	}
	h.renderAttendance(c, status, &form)
}

// returnPath is the local path to go back to after a UI action.
func returnPath(c *gin.Context) string {
	return localPath(c.PostForm("return"))
}

// localPath returns p when it is a path on this site and "/" otherwise.
// Browsers treat a backslash like a slash, so "/\host" is rejected too.
func localPath(p string) string {
	if !strings.HasPrefix(p, "/") || strings.ContainsRune(p, '\\') {
		return "/"
	}
	u, err := url.Parse(p)
	if err != nil || u.Scheme != "" || u.Host != "" || strings.HasPrefix(u.Path, "//") {
		return "/"
	}
	return p
}
