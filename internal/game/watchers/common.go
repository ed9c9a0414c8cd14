// Package watchers tracks per-turn facts that ability conditions consult.
package watchers

import (
	"github.com/lorcanasim/lorcana-engine/internal/game/rules"
)

// Registry keys of the default watchers.
const (
	SongsSungKey          = "SongsSungWatcher"
	CharactersBanishedKey = "CharactersBanishedWatcher"
	LoreGainedKey         = "LoreGainedWatcher"
	CardsDrawnKey         = "CardsDrawnWatcher"
)

// Counter is implemented by watchers that count something per player.
type Counter interface {
	rules.Watcher
	Count(playerID string) int
}

// NewDefaultRegistry returns a registry holding every default watcher.
func NewDefaultRegistry() *rules.WatcherRegistry {
	reg := rules.NewWatcherRegistry()
	reg.AddWatcher(NewSongsSungWatcher())
	reg.AddWatcher(NewCharactersBanishedWatcher())
	reg.AddWatcher(NewLoreGainedWatcher())
	reg.AddWatcher(NewCardsDrawnWatcher())
	return reg
}

// CountFor reads a counting watcher from the registry; missing watchers count zero.
func CountFor(reg *rules.WatcherRegistry, key, playerID string) int {
	if reg == nil {
		return 0
	}
	c, ok := reg.GetWatcher(key).(Counter)
	if !ok {
		return 0
	}
	return c.Count(playerID)
}

// SongsSungWatcher tracks songs sung by each player this turn.
type SongsSungWatcher struct {
	*rules.BaseWatcher
	songs map[string][]string // playerID -> song card IDs
}

// NewSongsSungWatcher creates a new songs sung watcher.
func NewSongsSungWatcher() *SongsSungWatcher {
	return &SongsSungWatcher{
		BaseWatcher: rules.NewBaseWatcher(rules.WatcherScopeTurn, SongsSungKey),
		songs:       make(map[string][]string),
	}
}

// Watch implements the Watcher interface.
func (w *SongsSungWatcher) Watch(event rules.Event) {
	if event.Type != rules.EventSongSung || event.PlayerID == "" {
		return
	}
	w.songs[event.PlayerID] = append(w.songs[event.PlayerID], event.SourceID)
	w.SetCondition(true)
}

// Reset clears the watcher's state.
func (w *SongsSungWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.songs = make(map[string][]string)
}

// Songs returns the song IDs a player sang.
func (w *SongsSungWatcher) Songs(playerID string) []string {
	return w.songs[playerID]
}

// Count returns the number of songs a player sang.
func (w *SongsSungWatcher) Count(playerID string) int {
	return len(w.songs[playerID])
}

// CharactersBanishedWatcher tracks characters banished this turn, by owner.
type CharactersBanishedWatcher struct {
	*rules.BaseWatcher
	byOwner     map[string]int
	inChallenge map[string]int
}

// NewCharactersBanishedWatcher creates a new banished characters watcher.
func NewCharactersBanishedWatcher() *CharactersBanishedWatcher {
	return &CharactersBanishedWatcher{
		BaseWatcher: rules.NewBaseWatcher(rules.WatcherScopeTurn, CharactersBanishedKey),
		byOwner:     make(map[string]int),
		inChallenge: make(map[string]int),
	}
}

// Watch implements the Watcher interface. Banish events carry the owner of
// the banished character as PlayerID.
func (w *CharactersBanishedWatcher) Watch(event rules.Event) {
	switch event.Type {
	case rules.EventCharacterBanished:
		w.byOwner[event.PlayerID]++
		w.SetCondition(true)
	case rules.EventBanishedInChallenge:
		w.inChallenge[event.PlayerID]++
	}
}

// Reset clears the watcher's state.
func (w *CharactersBanishedWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.byOwner = make(map[string]int)
	w.inChallenge = make(map[string]int)
}

// Count returns the number of the player's characters banished.
func (w *CharactersBanishedWatcher) Count(playerID string) int {
	return w.byOwner[playerID]
}

// InChallenge returns how many of the player's characters were banished in a challenge.
func (w *CharactersBanishedWatcher) InChallenge(playerID string) int {
	return w.inChallenge[playerID]
}

// Total returns the number of characters banished across all players.
func (w *CharactersBanishedWatcher) Total() int {
	total := 0
	for _, n := range w.byOwner {
		total += n
	}
	return total
}

// LoreGainedWatcher sums the lore each player gained this turn.
type LoreGainedWatcher struct {
	*rules.BaseWatcher
	lore map[string]int
}

// NewLoreGainedWatcher creates a new lore gained watcher.
func NewLoreGainedWatcher() *LoreGainedWatcher {
	return &LoreGainedWatcher{
		BaseWatcher: rules.NewBaseWatcher(rules.WatcherScopeTurn, LoreGainedKey),
		lore:        make(map[string]int),
	}
}

// Watch implements the Watcher interface.
func (w *LoreGainedWatcher) Watch(event rules.Event) {
	if event.Type != rules.EventLoreGained || event.PlayerID == "" || event.Amount <= 0 {
		return
	}
	w.lore[event.PlayerID] += event.Amount
	w.SetCondition(true)
}

// Reset clears the watcher's state.
func (w *LoreGainedWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.lore = make(map[string]int)
}

// Count returns the lore a player gained.
func (w *LoreGainedWatcher) Count(playerID string) int {
	return w.lore[playerID]
}

// CardsDrawnWatcher tracks cards drawn by players this turn.
type CardsDrawnWatcher struct {
	*rules.BaseWatcher
	cardsDrawn map[string]int
}

// NewCardsDrawnWatcher creates a new cards drawn watcher.
func NewCardsDrawnWatcher() *CardsDrawnWatcher {
	return &CardsDrawnWatcher{
		BaseWatcher: rules.NewBaseWatcher(rules.WatcherScopeTurn, CardsDrawnKey),
		cardsDrawn:  make(map[string]int),
	}
}

// Watch implements the Watcher interface.
func (w *CardsDrawnWatcher) Watch(event rules.Event) {
	if event.Type != rules.EventCardDrawn || event.PlayerID == "" {
		return
	}
	w.cardsDrawn[event.PlayerID]++
	w.SetCondition(true)
}

// Reset clears the watcher's state.
func (w *CardsDrawnWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.cardsDrawn = make(map[string]int)
}

// Count returns the number of cards drawn by a player.
func (w *CardsDrawnWatcher) Count(playerID string) int {
	return w.cardsDrawn[playerID]
}
