package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/suite-pro/internal/application/dto"
	"github.com/tu-usuario/suite-pro/internal/application/usecase"
)

// MemberHandler maneja las memberships de la organización del token.
type MemberHandler struct {
	uc *usecase.MemberUseCase
}

// NewMemberHandler construye el handler inyectando el caso de uso.
func NewMemberHandler(uc *usecase.MemberUseCase) *MemberHandler {
	return &MemberHandler{uc: uc}
}

// Invite godoc
// @Summary      Invitar miembro
// @Description  Incorpora (o reactiva) un usuario en la organización. Un cupo de usuarios lleno responde 422 con el detalle del límite.
// @Tags         members
// @Accept       json
// @Produce      json
// @Param        body  body  dto.InviteMemberRequest  true  "Invitación"
// @Success      201   {object}  dto.MembershipResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.LimitViolationResponse
// @Security     BearerAuth
// @Router       /api/members [post]
func (h *MemberHandler) Invite(c *fiber.Ctx) error {
	var in dto.InviteMemberRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Invite(c.Context(), GetOrgID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar miembros
// @Tags         members
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {array}  dto.MembershipResponse
// @Security     BearerAuth
// @Router       /api/members [get]
func (h *MemberHandler) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	out, err := h.uc.List(c.Context(), GetOrgID(c), limit, offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Deactivate godoc
// @Summary      Desactivar miembro
// @Description  Remoción suave e idempotente; una membership de otra organización responde 404.
// @Tags         members
// @Param        id  path  string  true  "ID de la membership"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/members/{id} [delete]
func (h *MemberHandler) Deactivate(c *fiber.Ctx) error {
	if err := h.uc.Deactivate(c.Context(), GetOrgID(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
