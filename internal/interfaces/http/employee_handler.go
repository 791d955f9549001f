package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/suite-pro/internal/application/dto"
	"github.com/tu-usuario/suite-pro/internal/application/usecase"
	"github.com/tu-usuario/suite-pro/internal/domain/entity"
)

// EmployeeHandler maneja los empleados (módulo hr) de la organización del token.
type EmployeeHandler struct {
	uc *usecase.EmployeeUseCase
}

// NewEmployeeHandler construye el handler inyectando el caso de uso.
func NewEmployeeHandler(uc *usecase.EmployeeUseCase) *EmployeeHandler {
	return &EmployeeHandler{uc: uc}
}

// Create godoc
// @Summary      Crear empleado
// @Description  Un cupo de empleados lleno responde 422 con el detalle del límite.
// @Tags         hr
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateEmployeeRequest  true  "Empleado"
// @Success      201   {object}  dto.EmployeeResponse
// @Failure      422   {object}  dto.LimitViolationResponse
// @Security     BearerAuth
// @Router       /api/hr/employees [post]
func (h *EmployeeHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateEmployeeRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(c.Context(), GetOrgID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toEmployeeResponse(out))
}

// BulkCreate godoc
// @Summary      Alta masiva de empleados
// @Description  Todo-o-nada: el lote completo se valida contra el cupo antes de insertar.
// @Tags         hr
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BulkCreateEmployeesRequest  true  "Lote de empleados"
// @Success      201   {array}  dto.EmployeeResponse
// @Failure      422   {object}  dto.LimitViolationResponse
// @Security     BearerAuth
// @Router       /api/hr/employees/bulk [post]
func (h *EmployeeHandler) BulkCreate(c *fiber.Ctx) error {
	var in dto.BulkCreateEmployeesRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	created, err := h.uc.BulkCreate(c.Context(), GetOrgID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.EmployeeResponse, 0, len(created))
	for _, e := range created {
		out = append(out, toEmployeeResponse(e))
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar empleados
// @Tags         hr
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {array}  dto.EmployeeResponse
// @Security     BearerAuth
// @Router       /api/hr/employees [get]
func (h *EmployeeHandler) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	list, err := h.uc.List(c.Context(), GetOrgID(c), limit, offset)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.EmployeeResponse, 0, len(list))
	for _, e := range list {
		out = append(out, toEmployeeResponse(e))
	}
	return c.JSON(out)
}

func toEmployeeResponse(e *entity.Employee) dto.EmployeeResponse {
	return dto.EmployeeResponse{
		ID:             e.ID,
		OrganizationID: e.OrganizationID,
		Name:           e.Name,
		Email:          e.Email,
		Position:       e.Position,
		Status:         e.Status,
		CreatedAt:      e.CreatedAt,
	}
}
