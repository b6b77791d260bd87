package jobs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"himpunan-backend/internal/config"
	"himpunan-backend/internal/service"
)

// MockActivityService implements only what jobs call.
type MockActivityService struct {
	mock.Mock
	service.ActivityService
}

func (m *MockActivityService) RefreshStatuses(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func TestRefreshActivityStatuses(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := new(MockActivityService)
		svc.On("RefreshStatuses", mock.Anything).Return(int64(3), nil).Once()

		jr := NewJobRunner(&Services{Activity: svc}, &config.Config{})
		jr.RefreshActivityStatuses()

		svc.AssertExpectations(t)
	})

	t.Run("Failure is logged, not raised", func(t *testing.T) {
		svc := new(MockActivityService)
		svc.On("RefreshStatuses", mock.Anything).Return(int64(0), errors.New("db down")).Once()

		jr := NewJobRunner(&Services{Activity: svc}, &config.Config{})
		assert.NotPanics(t, jr.RunAll)
		svc.AssertExpectations(t)
	})

	t.Run("Panic is recovered", func(t *testing.T) {
		jr := NewJobRunner(&Services{Activity: &MockActivityService{}}, &config.Config{})
		assert.NotPanics(t, func() {
			jr.runWithRecovery("boom", func(context.Context) error { panic("boom") })
		})
	})
}
