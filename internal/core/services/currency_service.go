package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/backoffice_ledger/internal/apperrors"
	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/backoffice_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/backoffice_ledger/internal/core/ports/services"
	"github.com/SscSPs/backoffice_ledger/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type currencyService struct {
	BaseService
	currencyRepo portsrepo.CurrencyRepositoryFacade
}

var _ portssvc.CurrencySvcFacade = (*currencyService)(nil)

// NewCurrencyService creates a new currency service.
func NewCurrencyService(repo portsrepo.CurrencyRepositoryFacade, opts ...Option) portssvc.CurrencySvcFacade {
	return &currencyService{BaseService: newBaseService(opts), currencyRepo: repo}
}

func (s *currencyService) CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest, userID string) (*domain.Currency, error) {
	if err := requireActor(userID); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	currency := domain.Currency{
		CurrencyCode: strings.ToUpper(req.CurrencyCode),
		Symbol:       req.Symbol,
		Name:         req.Name,
		AuditFields:  domain.NewAuditFields(userID, s.Now()),
	}
	if err := s.currencyRepo.SaveCurrency(ctx, currency); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("currency %s: %w", currency.CurrencyCode, err)
		}
		s.LogError(ctx, err, "Failed to save currency", slog.String("currency_code", currency.CurrencyCode))
		return nil, err
	}

	s.LogInfo(ctx, "Currency created successfully", slog.String("currency_code", currency.CurrencyCode))
	return &currency, nil
}

func (s *currencyService) GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	return s.currencyRepo.FindCurrencyByCode(ctx, strings.ToUpper(currencyCode))
}

func (s *currencyService) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	currencies, err := s.currencyRepo.ListCurrencies(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list currencies")
		return nil, err
	}
	if currencies == nil {
		return []domain.Currency{}, nil
	}
	return currencies, nil
}

type exchangeRateService struct {
	BaseService
	rateRepo     portsrepo.ExchangeRateRepositoryFacade
	currencyRepo portsrepo.CurrencyReader
}

var _ portssvc.ExchangeRateSvcFacade = (*exchangeRateService)(nil)

// NewExchangeRateService creates a new exchange rate service.
func NewExchangeRateService(rateRepo portsrepo.ExchangeRateRepositoryFacade, currencyRepo portsrepo.CurrencyReader, opts ...Option) portssvc.ExchangeRateSvcFacade {
	return &exchangeRateService{BaseService: newBaseService(opts), rateRepo: rateRepo, currencyRepo: currencyRepo}
}

func (s *exchangeRateService) CreateExchangeRate(ctx context.Context, req dto.CreateExchangeRateRequest, userID string) (*domain.ExchangeRate, error) {
	if err := requireActor(userID); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if !req.Rate.IsPositive() {
		return nil, fmt.Errorf("%w: exchange rate must be positive", apperrors.ErrValidation)
	}

	for _, code := range []string{req.FromCurrencyCode, req.ToCurrencyCode} {
		if _, err := s.currencyRepo.FindCurrencyByCode(ctx, code); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: currency %s is not configured", apperrors.ErrValidation, code)
			}
			return nil, err
		}
	}

	rate := domain.ExchangeRate{
		ExchangeRateID:   uuid.NewString(),
		FromCurrencyCode: req.FromCurrencyCode,
		ToCurrencyCode:   req.ToCurrencyCode,
		Rate:             req.Rate,
		EffectiveDate:    domain.NormalizeDate(req.EffectiveDate),
		AuditFields:      domain.NewAuditFields(userID, s.Now()),
	}
	if err := s.rateRepo.SaveExchangeRate(ctx, rate); err != nil {
		s.LogError(ctx, err, "Failed to save exchange rate",
			slog.String("from", rate.FromCurrencyCode), slog.String("to", rate.ToCurrencyCode))
		return nil, err
	}

	s.LogInfo(ctx, "Exchange rate created successfully",
		slog.String("exchange_rate_id", rate.ExchangeRateID),
		slog.String("rate", rate.Rate.String()))
	return &rate, nil
}

func (s *exchangeRateService) GetExchangeRate(ctx context.Context, fromCurrencyCode, toCurrencyCode string, onDate time.Time) (*domain.ExchangeRate, error) {
	rate, err := s.rateRepo.FindExchangeRate(ctx, strings.ToUpper(fromCurrencyCode), strings.ToUpper(toCurrencyCode), domain.NormalizeDate(onDate))
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find exchange rate")
		}
		return nil, err
	}
	return rate, nil
}

func (s *exchangeRateService) Convert(ctx context.Context, amount int64, fromCurrencyCode, toCurrencyCode string, onDate time.Time) (decimal.Decimal, error) {
	return convertAmount(ctx, s.rateRepo, amount, strings.ToUpper(fromCurrencyCode), strings.ToUpper(toCurrencyCode), onDate)
}

// convertAmount expresses amount in minor units of to, using the rate in
// force on onDate. A missing rate is a validation error.
func convertAmount(ctx context.Context, rates portsrepo.ExchangeRateReader, amount int64, from, to string, onDate time.Time) (decimal.Decimal, error) {
	if from == to {
		return decimal.NewFromInt(amount), nil
	}
	rate, err := rates.FindExchangeRate(ctx, from, to, domain.NormalizeDate(onDate))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return decimal.Zero, fmt.Errorf("%w: no exchange rate from %s to %s on %s",
				apperrors.ErrValidation, from, to, onDate.Format("2006-01-02"))
		}
		return decimal.Zero, err
	}
	return rate.Convert(amount), nil
}
