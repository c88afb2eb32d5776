package mapping

import (
	"database/sql"
	"time"

	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	"github.com/SscSPs/backoffice_ledger/internal/models"
)

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time.UTC()
	return &v
}

// ToModelDocument converts a domain Document to a model Document
func ToModelDocument(d domain.Document) models.Document {
	return models.Document{
		DocumentID:         d.DocumentID,
		DocNo:              d.DocNo,
		Kind:               string(d.Kind),
		Party:              d.Party,
		Amount:             d.Amount,
		CurrencyCode:       d.CurrencyCode,
		IssueDate:          d.IssueDate,
		DueDate:            nullTime(d.DueDate),
		Status:             string(d.Status),
		SettledAmount:      d.SettledAmount,
		Confirmed:          d.Confirmed,
		ConfirmedPostingID: NullString(d.ConfirmedPostingID),
		ConfirmedBy:        NullString(d.ConfirmedBy),
		ConfirmedAt:        nullTime(d.ConfirmedAt),
		Memo:               d.Memo,
		Version:            d.Version,
		AuditFields:        ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainDocument converts a model Document to a domain Document
func ToDomainDocument(m models.Document) domain.Document {
	d := domain.Document{
		DocumentID:         m.DocumentID,
		DocNo:              m.DocNo,
		Kind:               domain.DocumentKind(m.Kind),
		Party:              m.Party,
		Amount:             m.Amount,
		CurrencyCode:       m.CurrencyCode,
		IssueDate:          domain.NormalizeDate(m.IssueDate),
		DueDate:            timePtr(m.DueDate),
		Status:             domain.DocumentStatus(m.Status),
		SettledAmount:      m.SettledAmount,
		Confirmed:          m.Confirmed,
		ConfirmedPostingID: m.ConfirmedPostingID.String,
		ConfirmedBy:        m.ConfirmedBy.String,
		ConfirmedAt:        timePtr(m.ConfirmedAt),
		Memo:               m.Memo,
		Version:            m.Version,
		AuditFields:        ToDomainAuditFields(m.AuditFields),
	}
	if d.DueDate != nil {
		due := domain.NormalizeDate(*d.DueDate)
		d.DueDate = &due
	}
	return d
}

// ToModelSettlement converts a domain Settlement to its row model
func ToModelSettlement(d domain.Settlement) models.Settlement {
	return models.Settlement(d)
}

// ToDomainSettlement converts a settlement row to the domain type
func ToDomainSettlement(m models.Settlement) domain.Settlement {
	d := domain.Settlement(m)
	d.SettledDate = domain.NormalizeDate(d.SettledDate)
	return d
}
