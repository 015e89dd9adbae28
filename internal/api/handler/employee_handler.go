package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/staffdesk/employee-directory/internal/api/metrics"
	"github.com/staffdesk/employee-directory/internal/core/ports"
)

// EmployeeHandler handles HTTP requests for employee records. Every route is
// expected behind middleware.Auth.
type EmployeeHandler struct {
	service ports.EmployeeService
}

func NewEmployeeHandler(service ports.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{service: service}
}

// List handles GET /api/employees.
//
// @Summary      List employees
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   employeeResponse
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/employees [get]
func (h *EmployeeHandler) List(c echo.Context) error {
	if _, err := ctxAccountID(c); err != nil {
		return err
	}

	list, err := h.service.ListEmployees(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEmployeeListResponse(list))
}

// Create handles POST /api/employees.
//
// @Summary      Create an employee
// @Tags         employees
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createEmployeeRequest  true  "Employee details"
// @Success      201   {object}  employeeResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/employees [post]
func (h *EmployeeHandler) Create(c echo.Context) error {
	if _, err := ctxAccountID(c); err != nil {
		return err
	}

	var req createEmployeeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	created, err := h.service.CreateEmployee(c.Request().Context(), toCreateInput(req))
	if err != nil {
		return err
	}
	metrics.EmployeeOperationsTotal.WithLabelValues("create").Inc()

	return c.JSON(http.StatusCreated, toEmployeeResponse(created))
}

// Get handles GET /api/employees/:id.
//
// @Summary      Get an employee
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Employee id"
// @Success      200  {object}  employeeResponse
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/employees/{id} [get]
func (h *EmployeeHandler) Get(c echo.Context) error {
	if _, err := ctxAccountID(c); err != nil {
		return err
	}

	emp, err := h.service.GetEmployee(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEmployeeResponse(emp))
}

// Update handles PUT /api/employees/:id. Only the submitted fields change.
//
// @Summary      Update an employee
// @Tags         employees
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                 true  "Employee id"
// @Param        body  body      updateEmployeeRequest  true  "Fields to change"
// @Success      200   {object}  employeeResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/employees/{id} [put]
func (h *EmployeeHandler) Update(c echo.Context) error {
	if _, err := ctxAccountID(c); err != nil {
		return err
	}

	var req updateEmployeeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	updated, err := h.service.UpdateEmployee(c.Request().Context(), c.Param("id"), toPatch(req))
	if err != nil {
		return err
	}
	metrics.EmployeeOperationsTotal.WithLabelValues("update").Inc()

	return c.JSON(http.StatusOK, toEmployeeResponse(updated))
}

// Delete handles DELETE /api/employees/:id.
//
// @Summary      Delete an employee
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Employee id"
// @Success      200  {object}  deleteEmployeeResponse
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/employees/{id} [delete]
func (h *EmployeeHandler) Delete(c echo.Context) error {
	if _, err := ctxAccountID(c); err != nil {
		return err
	}

	deleted, err := h.service.DeleteEmployee(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	metrics.EmployeeOperationsTotal.WithLabelValues("delete").Inc()

	return c.JSON(http.StatusOK, deleteEmployeeResponse{
		Message: "employee deleted successfully",
		Result:  toEmployeeResponse(deleted),
	})
}
