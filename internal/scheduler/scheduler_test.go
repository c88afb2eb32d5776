package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/backoffice_ledger/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) Generate(ctx context.Context, req dto.GenerateSalaryRequest, userID string) (*dto.GenerateSalaryResponse, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.GenerateSalaryResponse), args.Error(1)
}

func TestRunPayrollGeneration_UsesCurrentMonth(t *testing.T) {
	gen := new(mockGenerator)
	s, err := NewScheduler(gen, "0 6 1 * *", "system:payroll", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Jobs())

	s.now = func() time.Time { return time.Date(2024, time.March, 1, 6, 0, 0, 0, time.UTC) }
	gen.On("Generate", mock.Anything, dto.GenerateSalaryRequest{Year: 2024, Month: 3}, "system:payroll").
		Return(&dto.GenerateSalaryResponse{Created: 4}, nil).Once()

	require.NoError(t, s.RunPayrollGeneration(context.Background()))
	gen.AssertExpectations(t)
}

func TestRunPayrollGeneration_ReturnsError(t *testing.T) {
	gen := new(mockGenerator)
	s, err := NewScheduler(gen, "", "system:payroll", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Jobs())

	boom := errors.New("database unavailable")
	gen.On("Generate", mock.Anything, mock.Anything, "system:payroll").Return(nil, boom).Once()

	assert.ErrorIs(t, s.RunPayrollGeneration(context.Background()), boom)
}

func TestNewScheduler_InvalidSchedule(t *testing.T) {
	_, err := NewScheduler(new(mockGenerator), "every tuesday", "system:payroll", nil)
	assert.Error(t, err)
}

func TestStartStop(t *testing.T) {
	s, err := NewScheduler(new(mockGenerator), "0 6 1 * *", "system:payroll", nil)
	require.NoError(t, err)
	s.Start()
	s.Stop()
}
