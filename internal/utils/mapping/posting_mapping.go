package mapping

import (
	"database/sql"

	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	"github.com/SscSPs/backoffice_ledger/internal/models"
	"github.com/shopspring/decimal"
)

// NullString maps an empty string to SQL NULL.
func NullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// ToModelPosting converts a domain Posting to a model Posting
func ToModelPosting(d domain.Posting) models.Posting {
	refs := d.VoucherRefs
	if refs == nil {
		refs = []string{}
	}
	return models.Posting{
		PostingID:    d.PostingID,
		VoucherNo:    d.VoucherNo,
		BizDate:      d.BizDate,
		Kind:         string(d.Kind),
		AccountID:    d.AccountID,
		Amount:       d.Amount,
		Category:     d.Category,
		Site:         d.Site,
		Department:   d.Department,
		Counterparty: d.Counterparty,
		Memo:         d.Memo,
		VoucherRefs:  refs,
		TransferID:   NullString(d.TransferID),
		CreatedBy:    d.CreatedBy,
		CreatedAt:    d.CreatedAt,
	}
}

// ToDomainPosting converts a model Posting to a domain Posting
func ToDomainPosting(m models.Posting) domain.Posting {
	refs := m.VoucherRefs
	if refs == nil {
		refs = []string{}
	}
	return domain.Posting{
		PostingID:    m.PostingID,
		VoucherNo:    m.VoucherNo,
		BizDate:      domain.NormalizeDate(m.BizDate),
		Kind:         domain.PostingKind(m.Kind),
		AccountID:    m.AccountID,
		Amount:       m.Amount,
		Category:     m.Category,
		Site:         m.Site,
		Department:   m.Department,
		Counterparty: m.Counterparty,
		Memo:         m.Memo,
		VoucherRefs:  refs,
		TransferID:   m.TransferID.String,
		CreatedBy:    m.CreatedBy,
		CreatedAt:    m.CreatedAt.UTC(),
	}
}

// ToModelAccountTransaction converts a domain snapshot to its row model
func ToModelAccountTransaction(d domain.AccountTransaction) models.AccountTransaction {
	return models.AccountTransaction(d)
}

// ToDomainAccountTransaction converts a snapshot row to the domain type
func ToDomainAccountTransaction(m models.AccountTransaction) domain.AccountTransaction {
	d := domain.AccountTransaction(m)
	d.BizDate = domain.NormalizeDate(d.BizDate)
	d.CreatedAt = d.CreatedAt.UTC()
	return d
}

// ToModelTransfer converts a domain Transfer to a model Transfer
func ToModelTransfer(d domain.Transfer) models.Transfer {
	m := models.Transfer{
		TransferID:    d.TransferID,
		FromAccountID: d.FromAccountID,
		ToAccountID:   d.ToAccountID,
		FromAmount:    d.FromAmount,
		ToAmount:      d.ToAmount,
		BizDate:       d.BizDate,
		Memo:          d.Memo,
		OutPostingID:  d.OutPostingID,
		InPostingID:   d.InPostingID,
		CreatedBy:     d.CreatedBy,
		CreatedAt:     d.CreatedAt,
	}
	if d.Rate != nil {
		m.Rate = decimal.NewNullDecimal(*d.Rate)
	}
	return m
}

// ToDomainTransfer converts a model Transfer to a domain Transfer
func ToDomainTransfer(m models.Transfer) domain.Transfer {
	d := domain.Transfer{
		TransferID:    m.TransferID,
		FromAccountID: m.FromAccountID,
		ToAccountID:   m.ToAccountID,
		FromAmount:    m.FromAmount,
		ToAmount:      m.ToAmount,
		BizDate:       domain.NormalizeDate(m.BizDate),
		Memo:          m.Memo,
		OutPostingID:  m.OutPostingID,
		InPostingID:   m.InPostingID,
		CreatedBy:     m.CreatedBy,
		CreatedAt:     m.CreatedAt.UTC(),
	}
	if m.Rate.Valid {
		rate := m.Rate.Decimal
		d.Rate = &rate
	}
	return d
}
