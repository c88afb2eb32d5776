package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/backoffice_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/backoffice_ledger/internal/core/ports/services"
	"github.com/SscSPs/backoffice_ledger/internal/core/services"
	"github.com/SscSPs/backoffice_ledger/internal/dto"
	"github.com/SscSPs/backoffice_ledger/internal/platform/config"
	"github.com/SscSPs/backoffice_ledger/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const testUser = "user-1"

// fakeClock advances one millisecond per reading so creation times are strictly ordered.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock(start time.Time) *fakeClock {
	return &fakeClock{t: start}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Millisecond)
	return c.t
}

type recordingSink struct {
	mu     sync.Mutex
	events []domain.AuditEvent
}

func (r *recordingSink) Record(_ context.Context, event domain.AuditEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingSink) Events() []domain.AuditEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.AuditEvent(nil), r.events...)
}

// fixture wires every service to one in-memory store.
type fixture struct {
	ctx   context.Context
	store *memory.Store
	repos portsrepo.RepositoryProvider
	clock *fakeClock
	audit *recordingSink
	svc   *portssvc.ServiceContainer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	f := &fixture{
		ctx:   context.Background(),
		store: store,
		repos: store.Repositories(),
		clock: newFakeClock(time.Date(2024, 2, 10, 9, 0, 0, 0, time.UTC)),
		audit: &recordingSink{},
	}
	cfg := &config.Config{AllocationTolerancePercent: decimal.NewFromInt(1)}
	f.svc = services.NewServiceContainer(cfg, f.repos, store,
		services.WithClock(f.clock.Now),
		services.WithAuditSink(f.audit))

	for _, c := range []string{"USD", "EUR", "CNY"} {
		_, err := f.svc.Currency.CreateCurrency(f.ctx, dto.CreateCurrencyRequest{CurrencyCode: c, Symbol: c, Name: c}, testUser)
		require.NoError(t, err)
	}
	return f
}

func (f *fixture) account(t *testing.T, name, currency string, opening int64) string {
	t.Helper()
	acc, err := f.svc.Account.CreateAccount(f.ctx, dto.CreateAccountRequest{
		Name:           name,
		CurrencyCode:   currency,
		OpeningBalance: opening,
	}, testUser)
	require.NoError(t, err)
	return acc.AccountID
}

func (f *fixture) employee(t *testing.T, name string, joined time.Time, currency string, base int64) string {
	t.Helper()
	e, err := f.svc.Employee.CreateEmployee(f.ctx, dto.CreateEmployeeRequest{
		Name:           name,
		JoinDate:       joined,
		SalaryCurrency: currency,
	}, testUser)
	require.NoError(t, err)
	if base > 0 {
		_, err = f.svc.Employee.SetSalaryBase(f.ctx, e.EmployeeID, dto.SetSalaryBaseRequest{CurrencyCode: currency, Amount: base}, testUser)
		require.NoError(t, err)
	}
	return e.EmployeeID
}

func (f *fixture) balance(t *testing.T, accountID string) int64 {
	t.Helper()
	b, err := f.svc.Ledger.GetAccountBalance(f.ctx, accountID)
	require.NoError(t, err)
	return b.Balance
}

func (f *fixture) postingsOn(t *testing.T, day time.Time) int {
	t.Helper()
	n, err := f.repos.LedgerRepo.CountPostingsByBizDate(f.ctx, day)
	require.NoError(t, err)
	return n
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func version(v int64) *int64 {
	return &v
}
