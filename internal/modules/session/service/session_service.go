package service

import (
	"context"
	"fmt"
	"strings"

	"pajama/internal/modules/session/domain"
	timelinedto "pajama/internal/modules/timeline/dto"
	"pajama/internal/platform/clock"
	apperrors "pajama/internal/platform/errors"
	"pajama/internal/platform/id"
)

type SessionService struct {
	clock clock.Clock
	idGen id.Generator
}

func NewSessionService(clock clock.Clock, idGen id.Generator) *SessionService {
	return &SessionService{clock: clock, idGen: idGen}
}

func (s *SessionService) Start(_ context.Context, timeline timelinedto.TimelineOutput) (domain.ActiveSession, error) {
	if strings.TrimSpace(timeline.WorkoutID) == "" {
		return domain.ActiveSession{}, fmt.Errorf("%w: workout id is required", apperrors.ErrInvalidInput)
	}
	steps := make([]domain.Step, 0, len(timeline.Phases))
	for _, p := range timeline.Phases {
		steps = append(steps, domain.Step{Name: p.Name, Type: p.Type, Duration: p.Duration, Hint: p.Hint})
	}
	return domain.ActiveSession{
		SessionID:  s.idGen.New(),
		WorkoutID:  timeline.WorkoutID,
		Title:      timeline.Title,
		Multiplier: timeline.Multiplier,
		StartedAt:  s.clock.Now(),
		Steps:      steps,
	}, nil
}

// Elapsed is wall time since start, used when the caller reports none.
func (s *SessionService) Elapsed(active domain.ActiveSession) int {
	secs := int(s.clock.Now().Sub(active.StartedAt).Seconds())
	if secs < 0 {
		return 0
	}
	return secs
}
