package browse

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/offermatch/internal/ranking"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

var errCancelled = errors.New("cancelled")

// RankFunc runs a ranking, reporting scored offers to progress.
type RankFunc func(ctx context.Context, progress ranking.Progress) (ranking.Summary, error)

type rankDoneMsg struct {
	summary ranking.Summary
	err     error
}

// rankProgressMsg carries the scored count once an offer has been scored.
// total excludes offers dropped by the contract filter.
type rankProgressMsg struct {
	scored int
	total  int
}

type spinnerTickMsg struct{}

type loaderModel struct {
	offers   int
	rankFn   RankFunc
	progress ranking.Progress
	ctx      context.Context
	frame    int

	started bool
	scored  int
	total   int

	result ranking.Summary
	err    error
	done   bool
}

func (m loaderModel) Init() tea.Cmd {
	return tea.Batch(m.doRank(), m.tick())
}

func (m loaderModel) doRank() tea.Cmd {
	rankFn, ctx, progress := m.rankFn, m.ctx, m.progress
	return func() tea.Msg {
		summary, err := rankFn(ctx, progress)
		return rankDoneMsg{summary: summary, err: err}
	}
}

func (m loaderModel) tick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(time.Time) tea.Msg {
		return spinnerTickMsg{}
	})
}

func (m loaderModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case rankProgressMsg:
		// Workers report concurrently, so counts can arrive out of order.
		m.started = true
		m.total = msg.total
		if msg.scored > m.scored {
			m.scored = msg.scored
		}
		return m, nil
	case rankDoneMsg:
		m.result = msg.summary
		m.err = msg.err
		m.done = true
		return m, tea.Quit
	case spinnerTickMsg:
		m.frame = (m.frame + 1) % len(spinnerFrames)
		return m, m.tick()
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.done = true
			m.err = errCancelled
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m loaderModel) View() string {
	if m.done {
		return ""
	}
	spinner := lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Render(spinnerFrames[m.frame])
	if !m.started {
		return fmt.Sprintf("%s Classement de %d offres...\n", spinner, m.offers)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s Classement des offres : %d/%d notées", spinner, m.scored, m.total)
	if filtered := m.offers - m.total; filtered > 0 {
		b.WriteString(hintStyle.Render(fmt.Sprintf(" (%d hors contrat)", filtered)))
	}
	b.WriteString("\n")
	return b.String()
}

// RunLoader shows a spinner with a live scored count while rankFn runs. It
// renders inline (no alt screen).
func RunLoader(ctx context.Context, offers int, rankFn RankFunc) (ranking.Summary, error) {
	var p *tea.Program
	m := loaderModel{
		offers: offers,
		rankFn: rankFn,
		ctx:    ctx,
		progress: func(scored, total int) {
			// Send returns immediately once the program has exited.
			p.Send(rankProgressMsg{scored: scored, total: total})
		},
	}
	p = tea.NewProgram(m)
	result, err := p.Run()
	if err != nil {
		return ranking.Summary{}, err
	}
	final := result.(loaderModel)
	return final.result, final.err
}
