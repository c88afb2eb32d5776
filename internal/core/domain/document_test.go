package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestDeriveDocumentStatus(t *testing.T) {
	tests := []struct {
		name    string
		amount  int64
		settled int64
		want    domain.DocumentStatus
	}{
		{"nothing settled", 2000, 0, domain.DocumentOpen},
		{"first partial", 2000, 800, domain.DocumentPartiallySettled},
		{"second partial", 2000, 1600, domain.DocumentPartiallySettled},
		{"exactly settled", 2000, 2000, domain.DocumentSettled},
		{"over settled", 2000, 2400, domain.DocumentSettled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.DeriveDocumentStatus(tt.amount, tt.settled))
		})
	}
}

func TestFormatNumbers(t *testing.T) {
	jan3 := time.Date(2023, 1, 3, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "AR20230103-001", domain.FormatDocumentNo(domain.DocumentReceivable, jan3, 1))
	assert.Equal(t, "AP20230103-012", domain.FormatDocumentNo(domain.DocumentPayable, jan3, 12))
	assert.Equal(t, "JZ20230101-001", domain.FormatVoucherNo(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), 1))
}

func TestDocumentKind_Posting(t *testing.T) {
	assert.Equal(t, domain.PostingIncome, domain.DocumentReceivable.PostingKind())
	assert.Equal(t, int64(500), domain.DocumentReceivable.SignedAmount(500))
	assert.Equal(t, domain.PostingExpense, domain.DocumentPayable.PostingKind())
	assert.Equal(t, int64(-500), domain.DocumentPayable.SignedAmount(500))
}

func TestPostingKind_AcceptsAmount(t *testing.T) {
	assert.True(t, domain.PostingIncome.AcceptsAmount(100))
	assert.False(t, domain.PostingIncome.AcceptsAmount(-100))
	assert.True(t, domain.PostingExpense.AcceptsAmount(-100))
	assert.False(t, domain.PostingExpense.AcceptsAmount(0))
	assert.True(t, domain.PostingTransferOut.AcceptsAmount(-1))
	assert.False(t, domain.PostingKind("refund").AcceptsAmount(100))
}

func TestNewAccountTransaction(t *testing.T) {
	p := domain.Posting{PostingID: "p1", AccountID: "acc", Amount: -250, BizDate: time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)}
	snap := domain.NewAccountTransaction("t1", p, 1000)
	assert.Equal(t, int64(1000), snap.BalanceBefore)
	assert.Equal(t, int64(750), snap.BalanceAfter)
	assert.Equal(t, snap.BalanceBefore+snap.Amount, snap.BalanceAfter)
}
