package player

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pajama/internal/modules/session/domain"
	sessiondto "pajama/internal/modules/session/dto"
	"pajama/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type SessionPort interface {
	Complete(ctx context.Context, sessionID string, durationSecs, phasesCompleted int) (sessiondto.CompleteOutput, error)
	Abandon(ctx context.Context) error
}

// ─── messages ────────────────────────────────────────────────────────────────

type tickMsg struct{}

// CompletedMsg is emitted once the finished session has been recorded.
type CompletedMsg struct {
	Out sessiondto.CompleteOutput
	Err error
}

// AbandonedMsg is emitted after a stopped session has been discarded.
type AbandonedMsg struct{ Err error }

// ─── key bindings ────────────────────────────────────────────────────────────

type keyMap struct {
	Pause key.Binding
	Skip  key.Binding
	Stop  key.Binding
	Help  key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Pause: key.NewBinding(key.WithKeys(" ", "p"), key.WithHelp("space", "pause/resume")),
		Skip:  key.NewBinding(key.WithKeys("s", "right"), key.WithHelp("s", "skip")),
		Stop:  key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "stop")),
		Help:  key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pause, k.Skip, k.Stop, k.Help}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Pause, k.Skip}, {k.Stop, k.Help}}
}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port      SessionPort
	session   sessiondto.StartOutput
	ctrl      *domain.Controller
	bar       progress.Model
	help      help.Model
	keys      keyMap
	cue       domain.Cue
	hints     bool
	finishing bool
	width     int
}

// New prepares playback of a started session. hints toggles the exercise
// hint line.
func New(port SessionPort, session sessiondto.StartOutput, countdown int, hints bool) Model {
	steps := make([]domain.Step, 0, len(session.Steps))
	for _, s := range session.Steps {
		steps = append(steps, domain.Step{Name: s.Name, Type: s.Type, Duration: s.Duration, Hint: s.Hint})
	}
	ctrl := domain.NewController(steps, countdown)
	return Model{
		port:      port,
		session:   session,
		ctrl:      ctrl,
		bar:       progress.New(progress.WithSolidFill(string(theme.Teal)), progress.WithoutPercentage()),
		help:      help.New(),
		keys:      defaultKeys(),
		hints:     hints,
		finishing: ctrl.Snapshot().State == domain.StateDone,
	}
}

func (m Model) Init() tea.Cmd {
	if m.finishing {
		return m.completeCmd()
	}
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return tickMsg{} })
}

// Done reports whether playback has ended and the result is pending or
// delivered.
func (m Model) Done() bool {
	return m.finishing
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		m.bar.Width = max(msg.Width-8, 10)

	case tickMsg:
		if m.finishing {
			return m, nil
		}
		m.cue = m.ctrl.Tick()
		if m.ctrl.Snapshot().State == domain.StateDone {
			cmd := m.finish()
			return m, cmd
		}
		return m, tick()

	case tea.KeyMsg:
		if m.finishing {
			return m, nil
		}
		switch {
		case key.Matches(msg, m.keys.Pause):
			switch m.ctrl.Snapshot().State {
			case domain.StateCountdown:
				m.cue = m.ctrl.Skip()
			case domain.StatePaused:
				m.ctrl.Resume()
			default:
				m.ctrl.Pause()
			}
		case key.Matches(msg, m.keys.Skip):
			m.cue = m.ctrl.Skip()
			if m.ctrl.Snapshot().State == domain.StateDone {
				cmd := m.finish()
				return m, cmd
			}
		case key.Matches(msg, m.keys.Stop):
			m.ctrl.Stop()
			m.finishing = true
			return m, m.abandonCmd()
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
	}
	return m, nil
}

func (m *Model) finish() tea.Cmd {
	m.finishing = true
	return m.completeCmd()
}

func (m Model) completeCmd() tea.Cmd {
	run := m.ctrl.Progress()
	sessionID := m.session.SessionID
	port := m.port
	return func() tea.Msg {
		out, err := port.Complete(context.Background(), sessionID, run.DurationSecs, run.PhasesCompleted)
		return CompletedMsg{Out: out, Err: err}
	}
}

func (m Model) abandonCmd() tea.Cmd {
	port := m.port
	return func() tea.Msg {
		return AbandonedMsg{Err: port.Abandon(context.Background())}
	}
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	snap := m.ctrl.Snapshot()
	accent := theme.Accent(snap.Current.Type)
	var sb strings.Builder

	switch snap.State {
	case domain.StateCountdown:
		sb.WriteString(theme.Muted.Render("GET READY") + "\n\n")
		sb.WriteString(lipgloss.NewStyle().Foreground(accent).Bold(true).Render(snap.Current.Name) + "\n")
		sb.WriteString(theme.Hot.Render(fmt.Sprintf("starts in %ds", snap.Countdown)) + "\n")
		sb.WriteString(theme.Muted.Render("space to start now") + "\n")
	case domain.StateDone:
		sb.WriteString(lipgloss.NewStyle().Foreground(theme.Accent("done")).Bold(true).Render("All done.") + "\n")
		sb.WriteString(theme.Muted.Render("You showed up. That's what matters.") + "\n")
	default:
		label := strings.ToUpper(snap.Current.Type)
		if snap.State == domain.StatePaused {
			label += "  (paused)"
		}
		sb.WriteString(theme.Muted.Render(fmt.Sprintf("%s  %d/%d", label, snap.Index+1, snap.Count)) + "\n\n")
		sb.WriteString(lipgloss.NewStyle().Foreground(accent).Bold(true).Render(snap.Current.Name) + "\n")
		sb.WriteString(theme.Hot.Render(clock(snap.Remaining)) + "\n")
		if m.hints && snap.Current.Hint != "" {
			sb.WriteString(theme.Muted.Render(snap.Current.Hint) + "\n")
		}
	}

	sb.WriteString("\n" + m.bar.ViewAs(snap.Progress()) + "\n")
	sb.WriteString(theme.Muted.Render(fmt.Sprintf("%s / %s", clock(snap.Elapsed), clock(snap.TotalSeconds))) + "\n")

	if len(snap.Next) > 0 && snap.State != domain.StateDone {
		sb.WriteString("\n" + theme.Title.Render("Up next") + "\n")
		for _, s := range snap.Next {
			sb.WriteString(fmt.Sprintf("  %-24s %s\n", s.Name, clock(s.Duration)))
		}
	}
	if line := cueLine(m.cue); line != "" {
		sb.WriteString("\n" + theme.Hot.Render(line) + "\n")
	}
	sb.WriteString("\n" + m.help.View(m.keys))
	return theme.Pane.Render(sb.String())
}

func cueLine(cue domain.Cue) string {
	switch cue {
	case domain.CueTransition:
		return "» switch"
	case domain.CueStart:
		return "» go"
	case domain.CueTick:
		return "·"
	default:
		return ""
	}
}

func clock(secs int) string {
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
