package browse

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/offermatch/internal/model"
	"github.com/amishk599/offermatch/internal/ranking"
)

// Lines per offer item in the list view (title + subtitle + blank separator).
const offerItemHeight = 3

type viewState int

const (
	viewList viewState = iota
	viewDetail
)

var (
	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("39")) // bright blue

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			Foreground(lipgloss.Color("39"))

	statusBarStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236"))

	offerTitleStyle = lipgloss.NewStyle().
			Bold(true)

	offerSubtitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245"))

	selectedTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")). // bright white
				Background(lipgloss.Color("24"))  // dark blue bg

	selectedSubtitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252")).
				Background(lipgloss.Color("24"))

	detailLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				Width(16)

	detailTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				MarginBottom(1)

	dividerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Italic(true)

	matchedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))  // green
	missingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203")) // red
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

type browseModel struct {
	summary  ranking.Summary
	list     viewport.Model
	cursor   int
	width    int
	height   int
	ready    bool
	view     viewState
	detail   viewport.Model
	showDesc bool
}

func newModel(summary ranking.Summary) browseModel {
	return browseModel{summary: summary}
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recalcLayout()
		if m.view == viewDetail {
			m.detail.Width = m.width - 4
			m.detail.Height = m.height - 4
			m.detail.SetContent(m.renderDetail())
		}
		return m, nil

	case tea.KeyMsg:
		if m.view == viewDetail {
			return m.updateDetailView(msg)
		}
		return m.updateListView(msg)
	}
	return m, nil
}

func (m browseModel) updateListView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		m.moveCursor(-1)
		return m, nil
	case "down", "j":
		m.moveCursor(1)
		return m, nil
	case "enter":
		return m.openDetailView(), nil
	}

	// Forward other keys (pgup/pgdn/home/end) to the list viewport.
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m browseModel) updateDetailView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc", "backspace":
		m.view = viewList
		return m, nil
	case "r":
		m.showDesc = !m.showDesc
		m.detail.SetContent(m.renderDetail())
		m.detail.SetYOffset(0)
		return m, nil
	}

	var cmd tea.Cmd
	m.detail, cmd = m.detail.Update(msg)
	return m, cmd
}

func (m *browseModel) moveCursor(delta int) {
	m.cursor = clamp(m.cursor+delta, 0, max(len(m.summary.Ranked)-1, 0))
	m.list.SetContent(renderOffers(m.summary.Ranked, m.cursor))

	top := m.cursor * offerItemHeight
	bottom := top + offerItemHeight - 1
	if top < m.list.YOffset {
		m.list.SetYOffset(top)
	} else if bottom >= m.list.YOffset+m.list.Height {
		m.list.SetYOffset(bottom - m.list.Height + 1)
	}
}

func (m browseModel) openDetailView() browseModel {
	if len(m.summary.Ranked) == 0 {
		return m
	}
	m.view = viewDetail
	m.showDesc = false
	m.detail = viewport.New(m.width-4, m.height-4)
	m.detail.SetContent(m.renderDetail())
	return m
}

func (m *browseModel) recalcLayout() {
	// Header (1 line) + border top/bottom (2) + status bar (1) = 4 lines overhead.
	width := max(m.width-2, 20)
	height := max(m.height-4, 5)
	if !m.ready {
		m.list = viewport.New(width, height)
		m.ready = true
	} else {
		m.list.Width = width
		m.list.Height = height
	}
	m.list.SetContent(renderOffers(m.summary.Ranked, m.cursor))
}

func (m browseModel) View() string {
	if !m.ready {
		return "Initializing..."
	}
	if m.view == viewDetail {
		return m.viewDetail()
	}
	return m.viewList()
}

func (m browseModel) viewList() string {
	header := headerStyle.Render(fmt.Sprintf("Offres classées (%d)", len(m.summary.Ranked)))
	pane := borderStyle.Width(m.list.Width).Render(m.list.View())
	status := fmt.Sprintf(" %d offres | %d classées | %d contrat incompatible | %d sous le score minimum    ↑/↓ curseur  Enter détail  q quitter",
		m.summary.Offers, len(m.summary.Ranked), m.summary.Filtered, m.summary.BelowMin)
	return header + "\n" + pane + "\n" + statusBarStyle.Width(m.width).Render(status)
}

func (m browseModel) viewDetail() string {
	title := detailTitleStyle.Render("Détail de l'offre")
	content := borderStyle.Width(m.width - 2).Render(m.detail.View())
	status := statusBarStyle.Width(m.width).Render(" r description  esc/backspace retour  ↑/↓ défiler  q quitter")
	return title + "\n" + content + "\n" + status
}

func (m browseModel) renderDetail() string {
	if m.cursor >= len(m.summary.Ranked) {
		return ""
	}
	return renderDetail(m.summary.Ranked[m.cursor], m.cursor+1, m.showDesc, max(m.width-8, 20))
}

func renderDetail(r ranking.Ranked, rank int, showDesc bool, wrapWidth int) string {
	var b strings.Builder
	res := r.Result

	addField := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(detailLabelStyle.Render(label))
		b.WriteString(value)
		b.WriteByte('\n')
	}
	divider := func(label string) string {
		fill := strings.Repeat("─", max(wrapWidth-len(label), 3))
		return dividerStyle.Render(label + fill)
	}

	addField("Rang", fmt.Sprintf("%d", rank))
	addField("Titre", r.Offer.Title)
	addField("Contrat", r.Offer.ContractType)
	addField("Score", fmt.Sprintf("%d/100", res.Score))
	if res.DistanceKm != nil {
		addField("Distance", fmt.Sprintf("%.1f km", *res.DistanceKm))
	}
	if res.Error != "" {
		b.WriteString(errorStyle.Render("⚠ "+res.Error) + "\n")
	}

	if len(res.Breakdown.Contributions) > 0 {
		b.WriteByte('\n')
		b.WriteString(divider("── Détail du score ") + "\n\n")
		for _, c := range res.Breakdown.Contributions {
			addField(c.Name, fmt.Sprintf("%s %5.1f × %.2f", scoreBar(c.Score, 20), c.Score, c.Weight))
		}
	}

	if len(res.MatchedSkills)+len(res.MissingSkills) > 0 {
		b.WriteByte('\n')
		b.WriteString(divider("── Compétences ") + "\n\n")
		for _, s := range res.MatchedSkills {
			b.WriteString(matchedStyle.Render("  ✓ "+skillLine(s.Skill, s.Required)) + "\n")
		}
		for _, s := range res.MissingSkills {
			b.WriteString(missingStyle.Render("  ✗ "+skillLine(s.Skill, s.Required)) + "\n")
		}
	}

	b.WriteByte('\n')
	b.WriteString(divider("── Explication ") + "\n\n")
	b.WriteString(wordWrap(res.Explanation, wrapWidth) + "\n")

	if r.Offer.Description != "" {
		b.WriteByte('\n')
		if showDesc {
			b.WriteString(divider("── Description ") + "\n\n")
			b.WriteString(wordWrap(r.Offer.Description, wrapWidth) + "\n")
		} else {
			b.WriteString(hintStyle.Render("  appuyez sur r pour lire la description") + "\n")
		}
	}
	return b.String()
}

func skillLine(name string, required bool) string {
	if required {
		return name + " (requis)"
	}
	return name
}

// scoreBar draws a fixed-width bar for a 0-100 score.
func scoreBar(score float64, width int) string {
	filled := clamp(int(score/100*float64(width)+0.5), 0, width)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func renderOffers(ranked []ranking.Ranked, cursor int) string {
	if len(ranked) == 0 {
		return "  (aucune offre)"
	}

	var b strings.Builder
	for i, r := range ranked {
		titleSt := offerTitleStyle
		subtitleSt := offerSubtitleStyle
		prefix := "  "
		if i == cursor {
			titleSt = selectedTitleStyle
			subtitleSt = selectedSubtitleStyle
			prefix = "> "
		}

		b.WriteString(prefix)
		b.WriteString(titleSt.Render(fmt.Sprintf("%3d  %s", r.Result.Score, r.Offer.Title)))
		b.WriteByte('\n')
		b.WriteString(prefix)
		b.WriteString(subtitleSt.Render(subtitle(r)))
		b.WriteByte('\n')

		if i < len(ranked)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func subtitle(r ranking.Ranked) string {
	parts := []string{}
	if r.Offer.ContractType != "" {
		parts = append(parts, r.Offer.ContractType)
	}
	parts = append(parts, fmt.Sprintf("%d/%d compétences", len(r.Result.MatchedSkills), skillCount(r.Result)))
	if r.Result.DistanceKm != nil {
		parts = append(parts, fmt.Sprintf("%.0f km", *r.Result.DistanceKm))
	}
	return strings.Join(parts, " · ")
}

func skillCount(res model.MatchResult) int {
	return len(res.MatchedSkills) + len(res.MissingSkills)
}

func wordWrap(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) <= width {
			line += " " + w
		} else {
			lines = append(lines, line)
			line = w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Run launches the interactive ranked-offer browser in the alternate screen.
func Run(summary ranking.Summary) error {
	p := tea.NewProgram(newModel(summary), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
