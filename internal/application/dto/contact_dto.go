package dto

import "github.com/agrolanc/stocksync/internal/domain/contact"

// ContactsReconcileResponse diferencias entre el CRM y la plataforma de
// correo: altas pendientes, bajas pendientes y nombres que no cuadran.
type ContactsReconcileResponse struct {
	Ok             bool                   `json:"ok"`
	Missing        []contact.Contact      `json:"missing"`
	Extra          []contact.Contact      `json:"extra"`
	NameMismatches []contact.NameMismatch `json:"nameMismatches"`
}
