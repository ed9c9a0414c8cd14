package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lorcanasim/lorcana-engine/internal/game/protocol"
	"github.com/lorcanasim/lorcana-engine/internal/game/state"
)

var (
	turnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true)

	stepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AAAAAA"))

	actionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EEEEEE")).
			Background(lipgloss.Color("#5F5F87")).
			Padding(0, 1)

	choiceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87D7FF"))

	rejectStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F5F"))

	boardStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#3C3C3C")).
			PaddingLeft(1)

	resultStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#FFA500")).
			Padding(0, 2).
			Bold(true)
)

// renderer formats engine messages for a terminal.
type renderer struct {
	game *state.GameState
}

func newRenderer(gs *state.GameState) *renderer {
	return &renderer{game: gs}
}

func (r *renderer) message(msg protocol.Message) string {
	var line string
	switch m := msg.(type) {
	case protocol.StepExecuted:
		switch m.Step.Kind {
		case protocol.StepTurnBegan:
			line = turnStyle.Render(fmt.Sprintf("== turn %d: %s ==", r.game.Turn.TurnNumber(), r.playerName(m.Step.PlayerID)))
		default:
			line = stepStyle.Render("  " + r.describe(m.Step))
		}
	case protocol.ActionRequired:
		line = actionStyle.Render(fmt.Sprintf("%s to act (%d moves)", r.playerName(m.PlayerID), len(m.LegalMoves)))
	case protocol.ChoiceRequired:
		line = choiceStyle.Render(fmt.Sprintf("  %s chooses: %s", r.playerName(m.Choice.PlayerID), m.Choice.Prompt))
	case protocol.GameOver:
		line = resultStyle.Render(m.String())
	default:
		line = msg.String()
	}
	if rej := msg.Rejected(); rej != nil {
		line = lipgloss.JoinVertical(lipgloss.Left, rejectStyle.Render("  ! "+rej.String()), line)
	}
	return line
}

func (r *renderer) describe(s protocol.Step) string {
	parts := []string{string(s.Kind)}
	if s.SourceID != "" {
		parts = append(parts, r.cardName(s.SourceID))
	}
	if s.TargetID != "" && s.TargetID != s.SourceID {
		parts = append(parts, "-> "+r.cardName(s.TargetID))
	}
	if s.Amount != 0 {
		parts = append(parts, fmt.Sprintf("(%d)", s.Amount))
	}
	if s.Description != "" {
		parts = append(parts, "- "+s.Description)
	}
	return strings.Join(parts, " ")
}

func (r *renderer) cardName(id string) string {
	if c := r.game.Card(id); c != nil {
		return c.FullName()
	}
	if p := r.game.Player(id); p != nil {
		return p.Name
	}
	return id
}

func (r *renderer) playerName(id string) string {
	if p := r.game.Player(id); p != nil {
		return p.Name
	}
	return id
}

// board renders one column per player.
func (r *renderer) board() string {
	cols := make([]string, 0, len(r.game.Players))
	for _, p := range r.game.Players {
		var b strings.Builder
		fmt.Fprintf(&b, "%s\n", turnStyle.Render(p.Name))
		fmt.Fprintf(&b, "lore %d  hand %d  deck %d  ink %d/%d\n", p.Lore, len(p.Hand), len(p.Deck), p.Ink.Available(), p.Ink.Capacity())
		for _, c := range p.Characters {
			status := "ready"
			if c.Exerted {
				status = "exerted"
			}
			fmt.Fprintf(&b, "  %s %d/%d dmg %d %s\n", c.FullName(), r.game.Strength(c), r.game.Willpower(c), c.Damage, status)
		}
		for _, c := range p.Items {
			fmt.Fprintf(&b, "  [item] %s\n", c.FullName())
		}
		cols = append(cols, boardStyle.Width(48).Render(strings.TrimRight(b.String(), "\n")))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

// summary renders the final board and result.
func (r *renderer) summary(result protocol.GameOver) string {
	winner := "nobody"
	if result.Winner != "" {
		winner = r.playerName(result.Winner)
	}
	head := resultStyle.Render(fmt.Sprintf("%s after %d turns: %s", result.Reason, result.Turn, winner))
	return lipgloss.JoinVertical(lipgloss.Left, head, r.board())
}
