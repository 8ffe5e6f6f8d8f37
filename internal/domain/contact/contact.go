// Package contact concilia listas de contactos entre el export del CRM
// (Hansa) y la plataforma de correo (Mailchimp): el mismo join por clave
// normalizada del motor de stock, aplicado a direcciones de correo, más el
// informe de discrepancias de nombre sobre la intersección.
package contact

import (
	"sort"
	"strings"

	"github.com/agrolanc/stocksync/internal/domain/normalize"
	"github.com/agrolanc/stocksync/internal/domain/record"
)

// Contact un contacto ya normalizado de cualquiera de las dos fuentes.
type Contact struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Email string `json:"email"` // clave canónica (normalize.EmailKey)
	Tag   string `json:"tag,omitempty"`
}

// NormalizeCRM proyecta las filas del export Hansa a contactos canónicos.
// Las cabeceras cambian entre versiones del export, de ahí los candidatos.
// Filas sin email quedan fuera.
func NormalizeCRM(rows []record.Record) []Contact {
	out := make([]Contact, 0, len(rows))
	for _, r := range rows {
		email := normalize.EmailKey(record.FieldString(r, "Email-cím", "E-mail-cím"))
		if email == "" {
			continue
		}
		out = append(out, Contact{
			ID:    strings.TrimSpace(record.FieldString(r, "Kontakt sorszám", "Kontaktsorszám")),
			Name:  strings.TrimSpace(record.FieldString(r, "Kontaktszemély", "Név", "Kontakt személy neve")),
			Email: email,
			Tag:   strings.TrimSpace(record.FieldString(r, "Besorolás")),
		})
	}
	return out
}

// NormalizeMailing proyecta las filas del export Mailchimp/audiencia.
func NormalizeMailing(rows []record.Record) []Contact {
	out := make([]Contact, 0, len(rows))
	for _, r := range rows {
		email := normalize.EmailKey(record.FieldString(r, "Email Address", "Email address"))
		if email == "" {
			continue
		}
		first := strings.TrimSpace(record.FieldString(r, "First Name", "First name"))
		last := strings.TrimSpace(record.FieldString(r, "Last Name", "Last name"))
		out = append(out, Contact{
			ID:    strings.TrimSpace(record.FieldString(r, "Phone Number", "Phone number")),
			Name:  strings.TrimSpace(strings.Join([]string{first, last}, " ")),
			Email: email,
			Tag:   strings.TrimSpace(record.FieldString(r, "Tags", "tags")),
		})
	}
	return out
}

// NameMismatch misma dirección en ambas fuentes con nombre distinto.
type NameMismatch struct {
	Email       string `json:"email"`
	CRMName     string `json:"crmName"`
	MailingName string `json:"mailingName"`
}

// DiffResult las particiones del join de contactos. Missing/Extra son las
// diferencias de conjuntos; NameMismatches opera sobre la intersección.
type DiffResult struct {
	Missing        []Contact      // en el CRM, falta en la plataforma de correo
	Extra          []Contact      // en la plataforma, ya no existe en el CRM
	NameMismatches []NameMismatch // intersección con nombre discrepante
}

// Diff concilia las dos listas por email normalizado. Salida ordenada por
// email: determinista e independiente del orden de entrada.
func Diff(crm, mailing []Contact) *DiffResult {
	crmByEmail := indexByEmail(crm)
	mailingByEmail := indexByEmail(mailing)

	res := &DiffResult{}
	for _, c := range dedupeSorted(crm) {
		if m, shared := mailingByEmail[c.Email]; shared {
			if c.Name != "" && m.Name != "" && c.Name != m.Name {
				res.NameMismatches = append(res.NameMismatches, NameMismatch{
					Email:       c.Email,
					CRMName:     c.Name,
					MailingName: m.Name,
				})
			}
			continue
		}
		res.Missing = append(res.Missing, c)
	}
	for _, m := range dedupeSorted(mailing) {
		if _, shared := crmByEmail[m.Email]; !shared {
			res.Extra = append(res.Extra, m)
		}
	}
	return res
}

func indexByEmail(contacts []Contact) map[string]Contact {
	idx := make(map[string]Contact, len(contacts))
	for _, c := range contacts {
		if _, dup := idx[c.Email]; !dup {
			idx[c.Email] = c
		}
	}
	return idx
}

// dedupeSorted primera aparición por email, ordenado por email.
func dedupeSorted(contacts []Contact) []Contact {
	seen := make(map[string]struct{}, len(contacts))
	out := make([]Contact, 0, len(contacts))
	for _, c := range contacts {
		if _, dup := seen[c.Email]; dup {
			continue
		}
		seen[c.Email] = struct{}{}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out
}
