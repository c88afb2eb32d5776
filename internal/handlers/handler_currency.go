package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/backoffice_ledger/internal/core/ports/services"
	"github.com/SscSPs/backoffice_ledger/internal/dto"
	"github.com/gin-gonic/gin"
)

// currencyHandler handles HTTP requests related to currencies and exchange rates.
type currencyHandler struct {
	currencyService     portssvc.CurrencySvcFacade
	exchangeRateService portssvc.ExchangeRateSvcFacade
}

// RegisterCurrencyRoutes registers the currency and exchange rate routes.
func RegisterCurrencyRoutes(rg *gin.RouterGroup, currencyService portssvc.CurrencySvcFacade, exchangeRateService portssvc.ExchangeRateSvcFacade) {
	h := &currencyHandler{currencyService: currencyService, exchangeRateService: exchangeRateService}

	currencies := rg.Group("/currencies")
	{
		currencies.POST("", h.createCurrency)
		currencies.GET("", h.listCurrencies)
		currencies.GET("/:code", h.getCurrencyByCode)
	}

	rates := rg.Group("/exchange-rates")
	{
		rates.POST("", h.createExchangeRate)
		rates.GET("", h.getExchangeRate)
	}
}

// createCurrency godoc
// @Summary Create a currency
// @Description Registers a currency code
// @Tags currencies
// @Accept  json
// @Produce  json
// @Param   currency body dto.CreateCurrencyRequest true "Currency details"
// @Success 201 {object} domain.Currency
// @Failure 400 {object} ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 409 {object} ErrorResponse "Stale version or invalid status transition"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /currencies [post]
func (h *currencyHandler) createCurrency(c *gin.Context) {
	logger, userID, ok := requestContext(c)
	if !ok {
		return
	}
	var req dto.CreateCurrencyRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	created, err := h.currencyService.CreateCurrency(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to create currency")
		return
	}

	logger.Info("Currency created successfully", slog.String("currency_code", created.CurrencyCode))
	c.JSON(http.StatusCreated, created)
}

// listCurrencies godoc
// @Summary List currencies
// @Description Lists every known currency
// @Tags currencies
// @Produce  json
// @Success 200 {object} map[string][]domain.Currency
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /currencies [get]
func (h *currencyHandler) listCurrencies(c *gin.Context) {
	logger, _, ok := requestContext(c)
	if !ok {
		return
	}
	currencies, err := h.currencyService.ListCurrencies(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to list currencies")
		return
	}
	c.JSON(http.StatusOK, gin.H{"currencies": currencies})
}

// getCurrencyByCode godoc
// @Summary Get a currency
// @Description Returns a currency by its code
// @Tags currencies
// @Produce  json
// @Param   code path string true "Currency code"
// @Success 200 {object} domain.Currency
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /currencies/{code} [get]
func (h *currencyHandler) getCurrencyByCode(c *gin.Context) {
	logger, _, ok := requestContext(c)
	if !ok {
		return
	}
	currency, err := h.currencyService.GetCurrencyByCode(c.Request.Context(), strings.ToUpper(c.Param("code")))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve currency")
		return
	}
	c.JSON(http.StatusOK, currency)
}

// createExchangeRate godoc
// @Summary Create an exchange rate
// @Description Records a rate effective from a date
// @Tags exchange-rates
// @Accept  json
// @Produce  json
// @Param   rate body dto.CreateExchangeRateRequest true "Rate details"
// @Success 201 {object} dto.ExchangeRateResponse
// @Failure 400 {object} ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Not found"
// @Failure 409 {object} ErrorResponse "Stale version or invalid status transition"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /exchange-rates [post]
func (h *currencyHandler) createExchangeRate(c *gin.Context) {
	logger, userID, ok := requestContext(c)
	if !ok {
		return
	}
	var req dto.CreateExchangeRateRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	rate, err := h.exchangeRateService.CreateExchangeRate(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to create exchange rate")
		return
	}

	logger.Info("Exchange rate created successfully",
		slog.String("from", rate.FromCurrencyCode),
		slog.String("to", rate.ToCurrencyCode),
		slog.String("rate", rate.Rate.String()))
	c.JSON(http.StatusCreated, dto.ToExchangeRateResponse(rate))
}

// getExchangeRate godoc
// @Summary Get the rate in force
// @Description Returns the rate in force for from/to on date (YYYY-MM-DD, default today)
// @Tags exchange-rates
// @Produce  json
// @Param   from query string true "Source currency"
// @Param   to query string true "Target currency"
// @Param   date query string false "Business date YYYY-MM-DD"
// @Success 200 {object} dto.ExchangeRateResponse
// @Failure 400 {object} ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /exchange-rates [get]
func (h *currencyHandler) getExchangeRate(c *gin.Context) {
	logger, _, ok := requestContext(c)
	if !ok {
		return
	}
	from := strings.ToUpper(c.Query("from"))
	to := strings.ToUpper(c.Query("to"))
	if from == "" || to == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "query parameters 'from' and 'to' are required"})
		return
	}
	onDate := domain.NormalizeDate(time.Now().UTC())
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "query parameter 'date' must be YYYY-MM-DD"})
			return
		}
		onDate = parsed
	}

	rate, err := h.exchangeRateService.GetExchangeRate(c.Request.Context(), from, to, onDate)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve exchange rate")
		return
	}
	c.JSON(http.StatusOK, dto.ToExchangeRateResponse(rate))
}
