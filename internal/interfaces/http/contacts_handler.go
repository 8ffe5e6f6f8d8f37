package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/agrolanc/stocksync/internal/application/dto"
	"github.com/agrolanc/stocksync/internal/application/usecase"
)

// ContactsHandler maneja la conciliación de contactos CRM ↔ plataforma de
// correo.
type ContactsHandler struct {
	uc *usecase.ContactSyncUseCase
}

// NewContactsHandler construye el handler.
func NewContactsHandler(uc *usecase.ContactSyncUseCase) *ContactsHandler {
	return &ContactsHandler{uc: uc}
}

// Reconcile godoc
// @Summary      Conciliar contactos CRM contra lista de correo
// @Tags         contacts
// @Accept       mpfd
// @Produce      json
// @Param        crm      formData  file  true  "exportación de contactos del CRM"
// @Param        mailing  formData  file  true  "lista exportada de la plataforma de correo"
// @Success      200  {object}  dto.ContactsReconcileResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/contacts/reconcile [post]
func (h *ContactsHandler) Reconcile(c *fiber.Ctx) error {
	crm, err := readUploadedTable(c, "crm")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_UPLOAD", Message: err.Error()})
	}
	mailing, err := readUploadedTable(c, "mailing")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_UPLOAD", Message: err.Error()})
	}

	diff, err := h.uc.Reconcile(crm, mailing)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(dto.ContactsReconcileResponse{
		Ok:             true,
		Missing:        diff.Missing,
		Extra:          diff.Extra,
		NameMismatches: diff.NameMismatches,
	})
}
