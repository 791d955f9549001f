package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/suite-pro/internal/application/dto"
	"github.com/tu-usuario/suite-pro/internal/application/subscription"
	"github.com/tu-usuario/suite-pro/internal/domain/repository"
)

// BillingHandler maneja suscripciones, cancelaciones, precios y el webhook de pagos.
type BillingHandler struct {
	engine     *subscription.Engine
	moduleRepo repository.ModuleRepository
	priceRepo  repository.ModulePriceRepository
}

// NewBillingHandler construye el handler inyectando el motor de asignación.
func NewBillingHandler(engine *subscription.Engine, moduleRepo repository.ModuleRepository, priceRepo repository.ModulePriceRepository) *BillingHandler {
	return &BillingHandler{engine: engine, moduleRepo: moduleRepo, priceRepo: priceRepo}
}

// Subscribe godoc
// @Summary      Suscribir módulo
// @Description  Suscribe la organización del token al módulo. Con proveedor de pagos configurado devuelve pending + URL de redirección; sin proveedor, activa de inmediato.
// @Tags         billing
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SubscribeRequest  true  "Suscripción"
// @Success      200   {object}  dto.SubscribeResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/billing/subscriptions [post]
func (h *BillingHandler) Subscribe(c *fiber.Ctx) error {
	var in dto.SubscribeRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.ModuleKey == "" || in.Plan == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "module_key y plan son requeridos"})
	}
	out, err := h.engine.Subscribe(c.Context(), subscription.SubscribeInput{
		OrganizationID: GetOrgID(c),
		ModuleKey:      in.ModuleKey,
		Plan:           in.Plan,
		BillingPeriod:  in.BillingPeriod,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Cancelar suscripción
// @Description  Inmediata deshabilita el módulo en la misma transacción; con cancel_at_period_end solo marca la suscripción. Una suscripción ajena responde 404.
// @Tags         billing
// @Accept       json
// @Param        id    path  string  true  "ID de la suscripción"
// @Param        body  body  dto.CancelSubscriptionRequest  false  "Modo de cancelación"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/billing/subscriptions/{id} [delete]
func (h *BillingHandler) Cancel(c *fiber.Ctx) error {
	var in dto.CancelSubscriptionRequest
	// Cuerpo opcional: sin cuerpo, cancelación inmediata.
	_ = c.BodyParser(&in)
	if err := h.engine.Cancel(c.Context(), GetOrgID(c), c.Params("id"), in.CancelAtPeriodEnd); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Webhook godoc
// @Summary      Callback del proveedor de pagos
// @Description  Idempotente por provider_ref: confirmaciones repetidas no re-activan nada. Solo status "confirmed" dispara la activación.
// @Tags         billing
// @Accept       json
// @Param        body  body  dto.PaymentWebhookRequest  true  "Notificación del proveedor"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/billing/webhook [post]
func (h *BillingHandler) Webhook(c *fiber.Ctx) error {
	var in dto.PaymentWebhookRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.ProviderRef == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "provider_ref es requerido"})
	}
	if in.Status != "confirmed" {
		// Otros estados (failed, expired) se ignoran: el pago queda pendiente.
		return c.SendStatus(fiber.StatusNoContent)
	}
	if err := h.engine.ConfirmPayment(c.Context(), in.ProviderRef); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Prices godoc
// @Summary      Precios de un módulo
// @Tags         billing
// @Produce      json
// @Param        key  path  string  true  "Key del módulo"
// @Success      200  {array}  dto.ModulePriceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/billing/modules/{key}/prices [get]
func (h *BillingHandler) Prices(c *fiber.Ctx) error {
	key := c.Params("key")
	module, err := h.moduleRepo.GetByKey(c.Context(), key)
	if err != nil {
		return writeError(c, err)
	}
	if module == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "módulo no encontrado"})
	}
	prices, err := h.priceRepo.ListByModule(c.Context(), module.ID)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.ModulePriceResponse, 0, len(prices))
	for _, p := range prices {
		out = append(out, dto.ModulePriceResponse{
			ModuleKey:     module.Key,
			Plan:          p.Plan,
			BillingPeriod: p.BillingPeriod,
			Amount:        p.Amount,
			Currency:      p.Currency,
		})
	}
	return c.JSON(out)
}
