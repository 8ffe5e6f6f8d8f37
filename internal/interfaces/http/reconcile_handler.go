package http

import (
	"bytes"
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"github.com/agrolanc/stocksync/internal/application/dto"
	"github.com/agrolanc/stocksync/internal/application/usecase"
	"github.com/agrolanc/stocksync/internal/domain/record"
	"github.com/agrolanc/stocksync/internal/infrastructure/excel"
)

// ReconcileHandler maneja la conciliación de las dos tablas de stock subidas.
type ReconcileHandler struct {
	uc *usecase.ReconcileUseCase
}

// NewReconcileHandler construye el handler.
func NewReconcileHandler(uc *usecase.ReconcileUseCase) *ReconcileHandler {
	return &ReconcileHandler{uc: uc}
}

// Reconcile godoc
// @Summary      Conciliar almacén contra webshop
// @Description  Recibe las dos exportaciones (multipart: warehouse, webshop; xlsx o csv),
//
//	cruza por SKU normalizado y devuelve las particiones con la
//	previsualización de correcciones.
//
// @Tags         reconcile
// @Accept       mpfd
// @Produce      json
// @Param        warehouse        formData  file    true   "exportación del almacén"
// @Param        webshop          formData  file    true   "exportación del webshop"
// @Param        refresh          formData  string  false  "true = refina las diferencias con lecturas en vivo"
// @Param        includeLeftOnly  formData  string  false  "true = incluir altas de claves solo-almacén"
// @Success      200  {object}  dto.ReconcileResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reconcile [post]
func (h *ReconcileHandler) Reconcile(c *fiber.Ctx) error {
	in, err := h.parseInput(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_UPLOAD", Message: err.Error()})
	}

	out, err := h.uc.Reconcile(c.Context(), *in)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(toReconcileResponse(out))
}

// Export igual que Reconcile pero responde el libro xlsx de tres hojas.
func (h *ReconcileHandler) Export(c *fiber.Ctx) error {
	in, err := h.parseInput(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_UPLOAD", Message: err.Error()})
	}

	out, err := h.uc.Reconcile(c.Context(), *in)
	if err != nil {
		return writeDomainError(c, err)
	}

	var buf bytes.Buffer
	if err := excel.WriteReport(&buf, *out.Result); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="keszlet_ellenorzes.xlsx"`)
	return c.Send(buf.Bytes())
}

func (h *ReconcileHandler) parseInput(c *fiber.Ctx) (*usecase.ReconcileInput, error) {
	warehouse, err := readUploadedTable(c, "warehouse")
	if err != nil {
		return nil, err
	}
	webshop, err := readUploadedTable(c, "webshop")
	if err != nil {
		return nil, err
	}
	return &usecase.ReconcileInput{
		Warehouse:       warehouse,
		Webshop:         webshop,
		Refresh:         c.FormValue("refresh") == "true",
		IncludeLeftOnly: c.FormValue("includeLeftOnly") == "true",
	}, nil
}

// readUploadedTable lee y parsea un archivo del formulario multipart.
func readUploadedTable(c *fiber.Ctx, field string) ([]record.Record, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "falta el archivo '"+field+"'")
	}
	data, err := readAll(fh)
	if err != nil {
		return nil, err
	}
	return excel.ReadTable(fh.Filename, data)
}

func readAll(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func toReconcileResponse(out *usecase.ReconcileOutput) dto.ReconcileResponse {
	res := out.Result
	resp := dto.ReconcileResponse{
		Ok: true,
		Counts: dto.ReconcileCounts{
			Equal:         len(res.Equal),
			Differing:     len(res.Differing),
			WarehouseOnly: len(res.LeftOnly),
			WebshopOnly:   len(res.RightOnly),
		},
		Differing:     make([]dto.ReconcileDiffDTO, len(res.Differing)),
		WarehouseOnly: make([]dto.ReconcileOnlyDTO, len(res.LeftOnly)),
		WebshopOnly:   make([]dto.ReconcileOnlyDTO, len(res.RightOnly)),
		Updates:       make([]dto.StockUpdateDTO, len(out.Updates)),
	}
	for i, p := range res.Differing {
		name := p.NameB
		if name == "" {
			name = p.NameA
		}
		resp.Differing[i] = dto.ReconcileDiffDTO{
			Sku:          p.Key,
			Name:         name,
			WarehouseQty: p.QuantityA.InexactFloat64(),
			WebshopQty:   p.QuantityB.InexactFloat64(),
		}
	}
	for i, a := range res.LeftOnly {
		resp.WarehouseOnly[i] = dto.ReconcileOnlyDTO{Sku: a.Key, Name: a.Name, Qty: a.Quantity.InexactFloat64()}
	}
	for i, a := range res.RightOnly {
		resp.WebshopOnly[i] = dto.ReconcileOnlyDTO{Sku: a.Key, Name: a.Name, Qty: a.Quantity.InexactFloat64()}
	}
	for i, u := range out.Updates {
		resp.Updates[i] = dto.StockUpdateDTO{Sku: u.SKU, Qty: u.Quantity.InexactFloat64()}
	}
	return resp
}
