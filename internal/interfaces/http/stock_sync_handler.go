package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/agrolanc/stocksync/internal/application/dto"
	"github.com/agrolanc/stocksync/internal/application/usecase"
	"github.com/agrolanc/stocksync/internal/domain"
	"github.com/agrolanc/stocksync/internal/domain/normalize"
	"github.com/agrolanc/stocksync/internal/domain/recon"
)

// StockSyncHandler maneja el empuje de correcciones de stock al catálogo.
type StockSyncHandler struct {
	uc *usecase.DispatchUseCase
}

// NewStockSyncHandler construye el handler.
func NewStockSyncHandler(uc *usecase.DispatchUseCase) *StockSyncHandler {
	return &StockSyncHandler{uc: uc}
}

// Sync godoc
// @Summary      Sincronizar stock por lotes
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockSyncRequest  true  "updates [{sku, qty}]; dryRun previsualiza sin tocar el catálogo"
// @Success      200   {object}  dto.StockSyncResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/stock-sync [post]
func (h *StockSyncHandler) Sync(c *fiber.Ctx) error {
	var in dto.StockSyncRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	items := make([]recon.UpdateItem, 0, len(in.Updates))
	for _, u := range in.Updates {
		items = append(items, recon.UpdateItem{SKU: u.Sku, Quantity: normalize.ToQuantity(u.Qty)})
	}

	out, err := h.uc.Dispatch(c.Context(), items, usecase.DispatchOptions{
		DryRun:   in.DryRun,
		OnlyKeys: in.FilterSkus,
		Limit:    in.Limit,
	})
	if err != nil {
		return writeDomainError(c, err)
	}

	if out.DryRun {
		resp := dto.StockSyncDryRunResponse{
			Ok:     true,
			DryRun: true,
			Count:  out.Count,
			Sample: make([]dto.StockUpdateDTO, len(out.Sample)),
		}
		for i, it := range out.Sample {
			resp.Sample[i] = dto.StockUpdateDTO{Sku: it.SKU, Qty: it.Quantity.InexactFloat64()}
		}
		if out.Trimmed {
			resp.Note = "el filtro o el límite descartaron ítems"
		}
		return c.JSON(resp)
	}

	results := make([]map[string]any, len(out.Results))
	for i, r := range out.Results {
		results[i] = r
	}
	return c.JSON(dto.StockSyncResponse{Ok: true, Updated: out.Count, Batches: out.Batches, Results: results})
}

// writeDomainError traduce los centinelas de dominio al status HTTP.
func writeDomainError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrEmptyUpdateSet):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "EMPTY_UPDATE_SET", Message: "tras el filtro no queda ningún ítem que actualizar"})
	case errors.Is(err, domain.ErrUpstreamAuth):
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "UPSTREAM_AUTH", Message: "autenticación contra el catálogo remoto fallida"})
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "UPSTREAM_UNAVAILABLE", Message: "catálogo remoto no disponible"})
	case errors.Is(err, domain.ErrParse):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "PARSE", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
