package usecase

import (
	"github.com/agrolanc/stocksync/internal/domain"
	"github.com/agrolanc/stocksync/internal/domain/contact"
	"github.com/agrolanc/stocksync/internal/domain/record"
	"github.com/agrolanc/stocksync/pkg/logger"
)

// ContactSyncUseCase cruza la exportación de contactos del CRM con la lista
// de la plataforma de correo.
type ContactSyncUseCase struct {
	log *logger.Logger
}

// NewContactSyncUseCase construye el caso de uso.
func NewContactSyncUseCase(log *logger.Logger) *ContactSyncUseCase {
	return &ContactSyncUseCase{log: log}
}

// Reconcile normaliza ambas tablas a contactos canónicos (clave: email
// normalizado) y calcula altas pendientes, bajas pendientes y nombres que no
// cuadran. Ambas tablas deben traer al menos una fila con email utilizable.
func (uc *ContactSyncUseCase) Reconcile(crmRows, mailingRows []record.Record) (*contact.DiffResult, error) {
	crm := contact.NormalizeCRM(crmRows)
	mailing := contact.NormalizeMailing(mailingRows)
	if len(crm) == 0 || len(mailing) == 0 {
		return nil, domain.ErrInvalidInput
	}

	diff := contact.Diff(crm, mailing)
	uc.log.Info().
		Int("crm", len(crm)).Int("mailing", len(mailing)).
		Int("missing", len(diff.Missing)).Int("extra", len(diff.Extra)).
		Int("name_mismatches", len(diff.NameMismatches)).
		Msg("contactos conciliados")
	return diff, nil
}
