package prefs

import (
	"context"
	"encoding/json"
	"strconv"

	"go.uber.org/zap"
)

const (
	KeyFloatingButtonPosition     = "floatingButtonPosition"
	KeyProfileCompletionDismissed = "profileCompletionDismissed"
)

type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Service reads and writes typed preferences. Malformed stored values read as absent.
type Service struct {
	store Storage
	log   *zap.Logger
}

func NewService(store Storage, log *zap.Logger) *Service {
	return &Service{store: store, log: log}
}

// FloatingButtonPosition returns the saved position, or nil when none is stored.
func (s *Service) FloatingButtonPosition(ctx context.Context) (*Position, error) {
	raw, ok, err := s.store.Get(ctx, KeyFloatingButtonPosition)
	if err != nil || !ok {
		return nil, err
	}
	var p Position
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		s.log.Warn("ignoring malformed preference", zap.String("key", KeyFloatingButtonPosition), zap.Error(err))
		return nil, nil
	}
	return &p, nil
}

func (s *Service) SetFloatingButtonPosition(ctx context.Context, p Position) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return s.store.Set(ctx, KeyFloatingButtonPosition, string(raw))
}

func (s *Service) ProfileCompletionDismissed(ctx context.Context) (bool, error) {
	raw, ok, err := s.store.Get(ctx, KeyProfileCompletionDismissed)
	if err != nil || !ok {
		return false, err
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		s.log.Warn("ignoring malformed preference", zap.String("key", KeyProfileCompletionDismissed), zap.String("value", raw))
		return false, nil
	}
	return v, nil
}

func (s *Service) DismissProfileCompletion(ctx context.Context) error {
	return s.store.Set(ctx, KeyProfileCompletionDismissed, "true")
}

func (s *Service) ResetProfileCompletion(ctx context.Context) error {
	return s.store.Remove(ctx, KeyProfileCompletionDismissed)
}
