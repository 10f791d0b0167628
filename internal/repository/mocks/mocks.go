package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/odysseylabs/odyssey/internal/domain/calendar"
	"github.com/odysseylabs/odyssey/internal/domain/hydration"
	"github.com/odysseylabs/odyssey/internal/domain/nudge"
)

// HydrationRepository is a mock for repository.HydrationRepository.
type HydrationRepository struct {
	mock.Mock
}

func (m *HydrationRepository) SaveDay(ctx context.Context, state hydration.State) error {
	args := m.Called(ctx, state)
	return args.Error(0)
}

func (m *HydrationRepository) LoadDay(ctx context.Context, dateKey string) (*hydration.State, error) {
	args := m.Called(ctx, dateKey)
	if state, ok := args.Get(0).(*hydration.State); ok {
		return state, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *HydrationRepository) SaveWindow(ctx context.Context, w hydration.Window) error {
	args := m.Called(ctx, w)
	return args.Error(0)
}

func (m *HydrationRepository) LoadWindow(ctx context.Context) (*hydration.Window, error) {
	args := m.Called(ctx)
	if w, ok := args.Get(0).(*hydration.Window); ok {
		return w, args.Error(1)
	}
	return nil, args.Error(1)
}

// CalendarRepository is a mock for repository.CalendarRepository.
type CalendarRepository struct {
	mock.Mock
}

func (m *CalendarRepository) EventsOverlapping(ctx context.Context, start, end time.Time) ([]calendar.Event, error) {
	args := m.Called(ctx, start, end)
	if events, ok := args.Get(0).([]calendar.Event); ok {
		return events, args.Error(1)
	}
	return nil, args.Error(1)
}

// NudgeRepository is a mock for repository.NudgeRepository.
type NudgeRepository struct {
	mock.Mock
}

func (m *NudgeRepository) Append(ctx context.Context, rec nudge.Record) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *NudgeRepository) Prune(ctx context.Context, cutoff time.Time) error {
	args := m.Called(ctx, cutoff)
	return args.Error(0)
}

func (m *NudgeRepository) ListSince(ctx context.Context, since time.Time) ([]nudge.Record, error) {
	args := m.Called(ctx, since)
	if recs, ok := args.Get(0).([]nudge.Record); ok {
		return recs, args.Error(1)
	}
	return nil, args.Error(1)
}
