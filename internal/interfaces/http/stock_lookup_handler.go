package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/agrolanc/stocksync/internal/application/dto"
	"github.com/agrolanc/stocksync/internal/application/usecase"
)

// StockLookupHandler maneja las consultas de stock y los endpoints de
// diagnóstico del catálogo.
type StockLookupHandler struct {
	uc *usecase.StockLookupUseCase
}

// NewStockLookupHandler construye el handler.
func NewStockLookupHandler(uc *usecase.StockLookupUseCase) *StockLookupHandler {
	return &StockLookupHandler{uc: uc}
}

// GetStock godoc
// @Summary      Consultar stock de varios SKUs
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        body  body  dto.GetStockRequest  true  "skus a consultar"
// @Success      200   {object}  dto.GetStockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/get-stock [post]
func (h *StockLookupHandler) GetStock(c *fiber.Ctx) error {
	var in dto.GetStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	data, err := h.uc.GetStock(c.Context(), in.Skus)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(dto.GetStockResponse{Ok: true, Count: len(data), Data: data})
}

// DebugProduct diagnóstico de la recuperación de un SKU (?sku=...).
func (h *StockLookupHandler) DebugProduct(c *fiber.Ctx) error {
	sku := strings.TrimSpace(c.Query("sku"))
	if sku == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "falta el parámetro ?sku="})
	}
	resp, err := h.uc.DebugProduct(c.Context(), sku)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(resp)
}

// DebugQtyPaths rutas de cantidad del registro completo de un SKU (?sku=...).
func (h *StockLookupHandler) DebugQtyPaths(c *fiber.Ctx) error {
	sku := strings.TrimSpace(c.Query("sku"))
	if sku == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "falta el parámetro ?sku="})
	}
	resp, err := h.uc.DebugQtyPaths(c.Context(), sku)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(resp)
}
