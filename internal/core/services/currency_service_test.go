package services_test

import (
	"testing"
	"time"

	"github.com/SscSPs/backoffice_ledger/internal/apperrors"
	"github.com/SscSPs/backoffice_ledger/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type CurrencyServiceTestSuite struct {
	suite.Suite
	f *fixture
}

func (s *CurrencyServiceTestSuite) SetupTest() {
	s.f = newFixture(s.T())
}

func TestCurrencyServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CurrencyServiceTestSuite))
}

func (s *CurrencyServiceTestSuite) rate(from, to, value string, effective time.Time) {
	_, err := s.f.svc.ExchangeRate.CreateExchangeRate(s.f.ctx, dto.CreateExchangeRateRequest{
		FromCurrencyCode: from,
		ToCurrencyCode:   to,
		Rate:             decimal.RequireFromString(value),
		EffectiveDate:    effective,
	}, testUser)
	s.Require().NoError(err)
}

func (s *CurrencyServiceTestSuite) TestCreateCurrency_Duplicate() {
	_, err := s.f.svc.Currency.CreateCurrency(s.f.ctx, dto.CreateCurrencyRequest{CurrencyCode: "USD", Symbol: "$", Name: "US Dollar"}, testUser)
	s.ErrorIs(err, apperrors.ErrDuplicate)

	currencies, err := s.f.svc.Currency.ListCurrencies(s.f.ctx)
	s.Require().NoError(err)
	s.Len(currencies, 3)
}

func (s *CurrencyServiceTestSuite) TestCreateExchangeRate_Rejections() {
	cases := []struct {
		name string
		req  dto.CreateExchangeRateRequest
	}{
		{"zero rate", dto.CreateExchangeRateRequest{FromCurrencyCode: "EUR", ToCurrencyCode: "USD", Rate: decimal.Zero, EffectiveDate: date(2024, 1, 1)}},
		{"negative rate", dto.CreateExchangeRateRequest{FromCurrencyCode: "EUR", ToCurrencyCode: "USD", Rate: decimal.NewFromInt(-1), EffectiveDate: date(2024, 1, 1)}},
		{"same currency", dto.CreateExchangeRateRequest{FromCurrencyCode: "USD", ToCurrencyCode: "USD", Rate: decimal.NewFromInt(1), EffectiveDate: date(2024, 1, 1)}},
		{"unknown currency", dto.CreateExchangeRateRequest{FromCurrencyCode: "GBP", ToCurrencyCode: "USD", Rate: decimal.NewFromInt(1), EffectiveDate: date(2024, 1, 1)}},
		{"missing date", dto.CreateExchangeRateRequest{FromCurrencyCode: "EUR", ToCurrencyCode: "USD", Rate: decimal.NewFromInt(1)}},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			_, err := s.f.svc.ExchangeRate.CreateExchangeRate(s.f.ctx, tc.req, testUser)
			s.ErrorIs(err, apperrors.ErrValidation)
		})
	}
}

func (s *CurrencyServiceTestSuite) TestConvert_UsesRateInForce() {
	s.rate("EUR", "USD", "1.1", date(2024, 1, 1))
	s.rate("EUR", "USD", "1.2", date(2024, 3, 1))

	feb, err := s.f.svc.ExchangeRate.Convert(s.f.ctx, 1000, "EUR", "USD", date(2024, 2, 15))
	s.Require().NoError(err)
	s.True(decimal.NewFromInt(1100).Equal(feb), "got %s", feb)

	mar, err := s.f.svc.ExchangeRate.Convert(s.f.ctx, 1000, "eur", "usd", date(2024, 3, 1))
	s.Require().NoError(err)
	s.True(decimal.NewFromInt(1200).Equal(mar), "got %s", mar)

	same, err := s.f.svc.ExchangeRate.Convert(s.f.ctx, 1000, "CNY", "CNY", date(2024, 3, 1))
	s.Require().NoError(err)
	s.True(decimal.NewFromInt(1000).Equal(same))

	_, err = s.f.svc.ExchangeRate.Convert(s.f.ctx, 1000, "EUR", "USD", date(2023, 12, 31))
	s.ErrorIs(err, apperrors.ErrValidation)

	_, err = s.f.svc.ExchangeRate.Convert(s.f.ctx, 1000, "USD", "EUR", date(2024, 2, 15))
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *CurrencyServiceTestSuite) TestGetExchangeRate_NotFound() {
	_, err := s.f.svc.ExchangeRate.GetExchangeRate(s.f.ctx, "EUR", "CNY", date(2024, 1, 1))
	s.ErrorIs(err, apperrors.ErrNotFound)
}
