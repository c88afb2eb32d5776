package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/backoffice_ledger/internal/apperrors"
	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/backoffice_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/backoffice_ledger/internal/repositories/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithTransaction_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repos := store.Repositories()

	require.NoError(t, repos.AccountRepo.SaveAccount(ctx, domain.Account{AccountID: "a1", Name: "Cash", IsActive: true, Version: 1}))

	boom := errors.New("boom")
	err := store.WithTransaction(ctx, func(ctx context.Context, tx portsrepo.RepositoryProvider) error {
		if err := tx.AccountRepo.SaveAccount(ctx, domain.Account{AccountID: "a2", Name: "Bank"}); err != nil {
			return err
		}
		if _, err := tx.AccountRepo.IncrementAccountVersion(ctx, "a1", "u1", time.Now()); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = repos.AccountRepo.FindAccountByID(ctx, "a2")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	acc, err := repos.AccountRepo.FindAccountByID(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), acc.Version)
}

func TestWithTransaction_Commits(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	err := store.WithTransaction(ctx, func(ctx context.Context, tx portsrepo.RepositoryProvider) error {
		return tx.AccountRepo.SaveAccount(ctx, domain.Account{AccountID: "a1", Name: "Cash"})
	})
	require.NoError(t, err)

	_, err = store.Repositories().AccountRepo.FindAccountByID(ctx, "a1")
	assert.NoError(t, err)
}

func TestUpdateSalaryPayment_CompareAndSwap(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewStore().Repositories()

	p := domain.SalaryPayment{PaymentID: "p1", EmployeeID: "e1", Year: 2024, Month: 1, Version: 3}
	require.NoError(t, repos.SalaryRepo.SaveSalaryPayment(ctx, p))

	dup := p
	dup.PaymentID = "p2"
	assert.ErrorIs(t, repos.SalaryRepo.SaveSalaryPayment(ctx, dup), apperrors.ErrDuplicate)

	p.Version = 4
	err := repos.SalaryRepo.UpdateSalaryPayment(ctx, p, 2)
	var cmErr *apperrors.ConcurrentModificationError
	require.ErrorAs(t, err, &cmErr)
	assert.Equal(t, int64(3), cmErr.Current)

	require.NoError(t, repos.SalaryRepo.UpdateSalaryPayment(ctx, p, 3))
	stored, err := repos.SalaryRepo.FindSalaryPaymentByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(4), stored.Version)
}

func TestListAccountTransactions_Pages(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewStore().Repositories()

	day := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	created := time.Date(2023, 1, 10, 9, 0, 0, 0, time.UTC)
	ids := []string{"t1", "t2", "t3"}
	for i, id := range ids {
		require.NoError(t, repos.LedgerRepo.SaveAccountTransaction(ctx, domain.AccountTransaction{
			TransactionID: id,
			AccountID:     "acc",
			PostingID:     "p" + id,
			BizDate:       day.AddDate(0, 0, i),
			CreatedAt:     created.Add(time.Duration(i) * time.Second),
		}))
	}

	first, next, err := repos.LedgerRepo.ListAccountTransactions(ctx, "acc", 2, nil)
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, "t3", first[0].TransactionID)
	assert.Equal(t, "t2", first[1].TransactionID)
	require.NotNil(t, next)

	second, next, err := repos.LedgerRepo.ListAccountTransactions(ctx, "acc", 2, next)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, "t1", second[0].TransactionID)
	assert.Nil(t, next)
}
