// Package tournament runs round-robin deck gauntlets: every deck meets every
// other deck for a fixed number of simulated games.
package tournament

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TournamentState represents the state of a tournament
type TournamentState int

const (
	TournamentStateWaiting TournamentState = iota
	TournamentStateInProgress
	TournamentStateFinished
)

func (s TournamentState) String() string {
	switch s {
	case TournamentStateWaiting:
		return "WAITING"
	case TournamentStateInProgress:
		return "IN_PROGRESS"
	case TournamentStateFinished:
		return "FINISHED"
	default:
		return "UNKNOWN"
	}
}

var (
	ErrAlreadyStarted = errors.New("tournament already started")
	ErrNotEnoughDecks = errors.New("not enough decks")
	ErrUnknownPairing = errors.New("pairing not found")
)

// Points awarded per match.
const (
	PointsWin  = 3
	PointsDraw = 1
)

// Entrant is a deck taking part.
type Entrant struct {
	Name        string
	Points      int
	Wins        int
	Losses      int
	Draws       int
	GamesWon    int
	GamesPlayed int
}

// Pairing is one match of a round. Deck1 plays first in odd-numbered games.
type Pairing struct {
	Deck1      string
	Deck2      string
	Deck1Wins  int
	Deck2Wins  int
	Draws      int
	GamesTotal int
	Winner     string
	Finished   bool
}

// Round is one set of pairings in which every deck plays at most once.
type Round struct {
	Number   int
	Pairings []*Pairing
	Finished bool
}

// GameFunc plays one game between two decks, first going first, and
// returns the winning deck name or "" for a draw.
type GameFunc func(ctx context.Context, first, second string, game int) (string, error)

// Tournament is a round-robin over a set of decks.
type Tournament struct {
	ID            string
	Name          string
	State         TournamentState
	Entrants      map[string]*Entrant
	Order         []string
	Rounds        []*Round
	GamesPerMatch int
	CreateTime    time.Time
	StartTime     *time.Time
	EndTime       *time.Time
	mu            sync.RWMutex
}

// NewTournament creates a tournament. gamesPerMatch below 1 means one game.
func NewTournament(name string, gamesPerMatch int) *Tournament {
	return &Tournament{
		ID:            uuid.New().String(),
		Name:          name,
		State:         TournamentStateWaiting,
		Entrants:      make(map[string]*Entrant),
		GamesPerMatch: max(gamesPerMatch, 1),
		CreateTime:    time.Now(),
	}
}

// AddDeck enters a deck.
func (t *Tournament) AddDeck(name string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.State != TournamentStateWaiting {
		return ErrAlreadyStarted
	}
	if _, exists := t.Entrants[name]; exists {
		return fmt.Errorf("deck %s already entered", name)
	}
	t.Entrants[name] = &Entrant{Name: name}
	t.Order = append(t.Order, name)
	return nil
}

// Start schedules every round with the circle method.
func (t *Tournament) Start() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.State != TournamentStateWaiting {
		return ErrAlreadyStarted
	}
	if len(t.Entrants) < 2 {
		return ErrNotEnoughDecks
	}
	now := time.Now()
	t.StartTime = &now
	t.State = TournamentStateInProgress
	t.Rounds = schedule(t.Order, t.GamesPerMatch)
	return nil
}

// schedule builds a round-robin. An odd field gets a bye slot ("") that is
// never paired.
func schedule(decks []string, games int) []*Round {
	slots := append([]string(nil), decks...)
	if len(slots)%2 == 1 {
		slots = append(slots, "")
	}
	n := len(slots)
	rounds := make([]*Round, 0, n-1)
	for r := 0; r < n-1; r++ {
		round := &Round{Number: r + 1}
		for i := 0; i < n/2; i++ {
			a, b := slots[i], slots[n-1-i]
			if a == "" || b == "" {
				continue
			}
			if r%2 == 1 {
				a, b = b, a
			}
			round.Pairings = append(round.Pairings, &Pairing{Deck1: a, Deck2: b, GamesTotal: games})
		}
		rounds = append(rounds, round)
		// rotate every slot but the first
		last := slots[n-1]
		copy(slots[2:], slots[1:n-1])
		slots[1] = last
	}
	return rounds
}

// RecordGame records one game of a pairing. winner is "" for a draw. The
// match result is settled once all its games are in.
func (t *Tournament) RecordGame(roundNum int, deck1, deck2, winner string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if roundNum <= 0 || roundNum > len(t.Rounds) {
		return fmt.Errorf("invalid round number %d", roundNum)
	}
	round := t.Rounds[roundNum-1]
	for _, p := range round.Pairings {
		if !(p.Deck1 == deck1 && p.Deck2 == deck2) && !(p.Deck1 == deck2 && p.Deck2 == deck1) {
			continue
		}
		if p.Finished {
			return fmt.Errorf("match %s vs %s already finished", p.Deck1, p.Deck2)
		}
		switch winner {
		case p.Deck1:
			p.Deck1Wins++
		case p.Deck2:
			p.Deck2Wins++
		default:
			p.Draws++
		}
		for _, name := range []string{p.Deck1, p.Deck2} {
			e := t.Entrants[name]
			e.GamesPlayed++
			if name == winner {
				e.GamesWon++
			}
		}
		if p.Deck1Wins+p.Deck2Wins+p.Draws == p.GamesTotal {
			t.settle(p)
		}
		t.closeRound(round)
		return nil
	}
	return ErrUnknownPairing
}

func (t *Tournament) settle(p *Pairing) {
	p.Finished = true
	one, two := t.Entrants[p.Deck1], t.Entrants[p.Deck2]
	switch {
	case p.Deck1Wins > p.Deck2Wins:
		p.Winner = p.Deck1
		one.Wins++
		one.Points += PointsWin
		two.Losses++
	case p.Deck2Wins > p.Deck1Wins:
		p.Winner = p.Deck2
		two.Wins++
		two.Points += PointsWin
		one.Losses++
	default:
		one.Draws++
		one.Points += PointsDraw
		two.Draws++
		two.Points += PointsDraw
	}
}

func (t *Tournament) closeRound(round *Round) {
	for _, p := range round.Pairings {
		if !p.Finished {
			return
		}
	}
	round.Finished = true
	for _, r := range t.Rounds {
		if !r.Finished {
			return
		}
	}
	now := time.Now()
	t.EndTime = &now
	t.State = TournamentStateFinished
}

// Standings returns the entrants by points, then games won, then name.
func (t *Tournament) Standings() []Entrant {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]Entrant, 0, len(t.Order))
	for _, name := range t.Order {
		out = append(out, *t.Entrants[name])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Points != out[j].Points {
			return out[i].Points > out[j].Points
		}
		if out[i].GamesWon != out[j].GamesWon {
			return out[i].GamesWon > out[j].GamesWon
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Manager runs tournaments.
type Manager struct {
	tournaments map[string]*Tournament
	mu          sync.RWMutex
	logger      *zap.Logger
}

// NewManager creates a new tournament manager
func NewManager(logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		tournaments: make(map[string]*Tournament),
		logger:      logger,
	}
}

// CreateTournament creates and enters the decks of a new tournament.
func (m *Manager) CreateTournament(name string, decks []string, gamesPerMatch int) (*Tournament, error) {
	t := NewTournament(name, gamesPerMatch)
	for _, d := range decks {
		if err := t.AddDeck(d); err != nil {
			return nil, err
		}
	}

	m.mu.Lock()
	m.tournaments[t.ID] = t
	m.mu.Unlock()

	m.logger.Info("tournament created",
		zap.String("tournament_id", t.ID),
		zap.String("name", name),
		zap.Int("decks", len(decks)),
		zap.Int("games_per_match", t.GamesPerMatch),
	)
	return t, nil
}

// GetTournament retrieves a tournament by ID
func (m *Manager) GetTournament(tournamentID string) (*Tournament, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.tournaments[tournamentID]
	return t, ok
}

// Run starts the tournament and plays every game in schedule order. Within
// a match the decks alternate going first.
func (m *Manager) Run(ctx context.Context, t *Tournament, play GameFunc) error {
	if err := t.Start(); err != nil {
		return err
	}
	for _, round := range t.Rounds {
		for _, p := range round.Pairings {
			for g := 1; g <= p.GamesTotal; g++ {
				first, second := p.Deck1, p.Deck2
				if g%2 == 0 {
					first, second = second, first
				}
				winner, err := play(ctx, first, second, g)
				if err != nil {
					return fmt.Errorf("round %d, %s vs %s, game %d: %w", round.Number, p.Deck1, p.Deck2, g, err)
				}
				if err := t.RecordGame(round.Number, p.Deck1, p.Deck2, winner); err != nil {
					return err
				}
				m.logger.Debug("game recorded",
					zap.Int("round", round.Number),
					zap.String("first", first),
					zap.String("second", second),
					zap.String("winner", winner),
				)
			}
		}
		m.logger.Info("round finished",
			zap.String("tournament_id", t.ID),
			zap.Int("round", round.Number),
		)
	}
	return nil
}
