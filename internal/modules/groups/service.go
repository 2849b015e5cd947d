package groups

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/aristath/graham/internal/utils"
)

var (
	ErrGroupNotFound = errors.New("group not found")
	ErrDefaultGroup  = errors.New("the default group cannot be deleted")
	ErrLastGroup     = errors.New("cannot delete the last remaining group")
	ErrInvalidName   = errors.New("group name is required")
	ErrInvalidSymbol = errors.New("ticker symbol is required")
)

// Service is the single owner of the group set. Reads return copies; every
// mutation edits a copy, persists it, and only then swaps it in.
type Service struct {
	repo Repository
	log  zerolog.Logger

	mu  sync.RWMutex
	set GroupSet
}

// NewService creates an empty service. Call Init before use.
func NewService(repo Repository, log zerolog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.With().Str("service", "groups").Logger(),
		set:  DefaultGroupSet(),
	}
}

// Init loads and repairs the persisted set. A repaired set is written back so the
// stored state converges on the normalized form.
func (s *Service) Init(ctx context.Context) error {
	raw, err := s.repo.Load(ctx)
	if err != nil {
		return err
	}

	set := Normalize(raw)
	if !equalSets(raw, set) {
		if err := s.repo.Save(ctx, set); err != nil {
			return fmt.Errorf("failed to persist repaired groups: %w", err)
		}
		s.log.Info().Int("groups", len(set)).Msg("Repaired persisted groups")
	}

	s.mu.Lock()
	s.set = set
	s.mu.Unlock()
	return nil
}

// Groups returns a copy of the current set.
func (s *Service) Groups() GroupSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.set.Clone()
}

// Group returns a copy of the group at index.
func (s *Service) Group(index int) (TickerGroup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if index < 0 || index >= len(s.set) {
		return TickerGroup{}, ErrGroupNotFound
	}
	return s.set[index : index+1].Clone()[0], nil
}

// AddTicker appends a normalized symbol to a group. Adding a symbol that is
// already present is a no-op.
func (s *Service) AddTicker(ctx context.Context, index int, symbol string) (TickerGroup, error) {
	symbol = utils.NormalizeSymbol(symbol)
	if symbol == "" {
		return TickerGroup{}, ErrInvalidSymbol
	}
	return s.mutateGroup(ctx, index, func(g *TickerGroup) bool {
		if slices.Contains(g.Tickers, symbol) {
			return false
		}
		g.Tickers = append(g.Tickers, symbol)
		return true
	})
}

// RemoveTicker drops a symbol from a group. Removing an absent symbol is a no-op.
func (s *Service) RemoveTicker(ctx context.Context, index int, symbol string) (TickerGroup, error) {
	symbol = utils.NormalizeSymbol(symbol)
	return s.mutateGroup(ctx, index, func(g *TickerGroup) bool {
		before := len(g.Tickers)
		g.Tickers = slices.DeleteFunc(g.Tickers, func(t string) bool { return t == symbol })
		return len(g.Tickers) != before
	})
}

// ClearTickers empties a group.
func (s *Service) ClearTickers(ctx context.Context, index int) (TickerGroup, error) {
	return s.mutateGroup(ctx, index, func(g *TickerGroup) bool {
		if len(g.Tickers) == 0 {
			return false
		}
		g.Tickers = []string{}
		return true
	})
}

// CreateGroup appends an empty group and returns its index.
func (s *Service) CreateGroup(ctx context.Context, name string) (int, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return -1, ErrInvalidName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.set.Clone()
	next = append(next, TickerGroup{Name: name, Tickers: []string{}})
	if err := s.commit(ctx, next); err != nil {
		return -1, err
	}

	s.log.Info().Str("name", name).Int("index", len(next)-1).Msg("Created group")
	return len(next) - 1, nil
}

// DeleteGroup removes a group. The default group and the last remaining group
// cannot be deleted.
func (s *Service) DeleteGroup(ctx context.Context, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.set) {
		return ErrGroupNotFound
	}
	if s.set[index].IsDefault {
		return ErrDefaultGroup
	}
	if len(s.set) <= 1 {
		return ErrLastGroup
	}

	name := s.set[index].Name
	next := slices.Delete(s.set.Clone(), index, index+1)
	if err := s.commit(ctx, next); err != nil {
		return err
	}

	s.log.Info().Str("name", name).Int("index", index).Msg("Deleted group")
	return nil
}

func (s *Service) mutateGroup(ctx context.Context, index int, mutate func(*TickerGroup) bool) (TickerGroup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.set) {
		return TickerGroup{}, ErrGroupNotFound
	}

	next := s.set.Clone()
	if !mutate(&next[index]) {
		return next[index], nil
	}
	if err := s.commit(ctx, next); err != nil {
		return TickerGroup{}, err
	}
	return next[index : index+1].Clone()[0], nil
}

// commit persists next and swaps it in. Callers hold mu.
func (s *Service) commit(ctx context.Context, next GroupSet) error {
	if err := s.repo.Save(ctx, next); err != nil {
		return fmt.Errorf("failed to save groups: %w", err)
	}
	s.set = next
	return nil
}

func equalSets(a, b GroupSet) bool {
	return slices.EqualFunc(a, b, func(x, y TickerGroup) bool {
		return x.Name == y.Name && x.IsDefault == y.IsDefault && slices.Equal(x.Tickers, y.Tickers)
	})
}
