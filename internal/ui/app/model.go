package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	historydto "pajama/internal/modules/history/dto"
	sessiondomain "pajama/internal/modules/session/domain"
	sessiondto "pajama/internal/modules/session/dto"
	settingsdto "pajama/internal/modules/settings/dto"
	apperrors "pajama/internal/platform/errors"
	"pajama/internal/ui/components"
	"pajama/internal/ui/theme"
	"pajama/internal/ui/views/picker"
	"pajama/internal/ui/views/player"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type sessionPort interface {
	player.SessionPort
	Start(ctx context.Context, workoutID string) (sessiondto.StartOutput, error)
	GetActive(ctx context.Context) (sessiondto.ActiveSessionOutput, error)
}

type historyPort interface {
	Stats(ctx context.Context) (historydto.StatsOutput, error)
}

type settingsPort interface {
	Show(ctx context.Context) (settingsdto.SettingsOutput, error)
}

// Ports groups what the app needs from the modules.
type Ports struct {
	Workouts picker.WorkoutPort
	Timeline picker.TimelinePort
	Session  sessionPort
	History  historyPort
	Settings settingsPort
}

// ─── screens and messages ────────────────────────────────────────────────────

type screen int

const (
	screenPicker screen = iota
	screenPlayer
	screenResult
)

type statsLoadedMsg struct {
	stats    historydto.StatsOutput
	settings settingsdto.SettingsOutput
	err      error
}

type sessionStartedMsg struct {
	out sessiondto.StartOutput
	err error
}

type activeLoadedMsg struct {
	active sessiondto.ActiveSessionOutput
	err    error
}

// ─── key bindings ────────────────────────────────────────────────────────────

type keyMap struct {
	Play key.Binding
	Back key.Binding
	Help key.Binding
	Quit key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Play: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "play")),
		Back: key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc", "back")),
		Help: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit: key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Play, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Play, k.Back}, {k.Help, k.Quit}}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model routes between the workout picker, the player and the result
// screen. Business logic stays behind the ports.
type Model struct {
	ports    Ports
	screen   screen
	picker   picker.Model
	player   player.Model
	keys     keyMap
	help     help.Model
	showHelp bool
	settings settingsdto.SettingsOutput
	stats    historydto.StatsOutput
	result   string
	status   string
	autoplay string
	width    int
	height   int
}

// NewModel opens on the picker, or starts workoutID straight away when it
// is not empty.
func NewModel(ports Ports, workoutID string) Model {
	return Model{
		ports:    ports,
		screen:   screenPicker,
		picker:   picker.New(ports.Workouts, ports.Timeline),
		keys:     defaultKeys(),
		help:     help.New(),
		status:   "ready",
		autoplay: workoutID,
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.picker.Init(), m.loadStatsCmd(), m.loadActiveCmd()}
	if m.autoplay != "" {
		cmds = append(cmds, m.startCmd(m.autoplay))
	}
	return tea.Batch(cmds...)
}

// ─── update ──────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		sz := tea.WindowSizeMsg{Width: msg.Width, Height: max(msg.Height-4, 1)}
		m.picker, _ = m.picker.Update(sz)
		m.player, _ = m.player.Update(sz)
		return m, nil

	case statsLoadedMsg:
		if msg.err != nil {
			m.status = "stats: " + msg.err.Error()
		} else {
			m.stats, m.settings = msg.stats, msg.settings
		}
		return m, nil

	case activeLoadedMsg:
		if msg.err == nil {
			m.status = fmt.Sprintf("unfinished session: %s (pajama session abandon to discard)", msg.active.Title)
		} else if !errors.Is(msg.err, apperrors.ErrNoActiveSession) {
			m.status = "active session check: " + msg.err.Error()
		}
		return m, nil

	case sessionStartedMsg:
		if msg.err != nil {
			m.status = "start failed: " + msg.err.Error()
			return m, nil
		}
		m.player = player.New(m.ports.Session, msg.out, sessiondomain.CountdownSecs, m.settings.AnnounceHints)
		m.player, _ = m.player.Update(tea.WindowSizeMsg{Width: m.width, Height: max(m.height-4, 1)})
		m.screen = screenPlayer
		m.status = "playing " + msg.out.Title
		return m, m.player.Init()

	case player.CompletedMsg:
		m.screen = screenResult
		m.result = completionText(msg)
		return m, m.loadStatsCmd()

	case player.AbandonedMsg:
		m.screen = screenPicker
		if msg.Err != nil {
			m.status = "abandon failed: " + msg.Err.Error()
		} else {
			m.status = "session stopped"
		}
		return m, nil

	case tea.KeyMsg:
		if m.screen == screenPlayer {
			break
		}
		if m.showHelp {
			if key.Matches(msg, m.keys.Help, m.keys.Back) {
				m.showHelp = false
			}
			return m, nil
		}
		if m.screen == screenPicker && m.picker.Filtering() {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.showHelp = true
			return m, nil
		case m.screen == screenResult:
			m.screen = screenPicker
			return m, nil
		case key.Matches(msg, m.keys.Play):
			if id, ok := m.picker.SelectedWorkoutID(); ok {
				return m, m.startCmd(id)
			}
		}
	}

	var cmd tea.Cmd
	switch m.screen {
	case screenPicker:
		m.picker, cmd = m.picker.Update(msg)
	case screenPlayer:
		m.player, cmd = m.player.Update(msg)
	}
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	header := theme.Title.Render("pajama")
	if banner := components.StreakText(m.stats.Streak, m.stats.Total, m.stats.ThisWeek, m.settings.WeeklyGoal); banner != "" {
		header = lipgloss.JoinHorizontal(lipgloss.Center, header, "  ", components.Banner(banner, 0))
	}

	var content string
	switch {
	case m.showHelp:
		content = m.help.View(m.keys)
	case m.screen == screenPlayer:
		content = lipgloss.Place(m.width, max(m.height-4, 1), lipgloss.Center, lipgloss.Center, m.player.View())
	case m.screen == screenResult:
		content = lipgloss.Place(m.width, max(m.height-4, 1), lipgloss.Center, lipgloss.Center,
			theme.PaneActive.Render(m.result+"\n\n"+theme.Muted.Render("any key: back  q: quit")))
	default:
		content = m.picker.View()
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, content, m.renderStatusBar())
}

func (m Model) renderStatusBar() string {
	left := m.status
	right := theme.Muted.Render("?:help  q:quit")
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	bar := left + strings.Repeat(" ", gap) + right
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

func completionText(msg player.CompletedMsg) string {
	if msg.Err != nil {
		return theme.Hot.Render("Could not record session: " + msg.Err.Error())
	}
	out := msg.Out
	var sb strings.Builder
	sb.WriteString(lipgloss.NewStyle().Foreground(theme.Accent("done")).Bold(true).Render("Session recorded") + "\n\n")
	sb.WriteString(fmt.Sprintf("%d/%d phases in %d:%02d\n", out.PhasesCompleted, out.PhasesTotal, out.DurationSecs/60, out.DurationSecs%60))
	switch {
	case out.Synced:
		sb.WriteString(theme.Muted.Render("synced"))
	case out.SyncReason != "":
		sb.WriteString(theme.Muted.Render("not synced: " + out.SyncReason))
	}
	return sb.String()
}

// ─── async commands ──────────────────────────────────────────────────────────

func (m Model) loadStatsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		stats, err := m.ports.History.Stats(ctx)
		if err != nil {
			return statsLoadedMsg{err: err}
		}
		settings, err := m.ports.Settings.Show(ctx)
		return statsLoadedMsg{stats: stats, settings: settings, err: err}
	}
}

func (m Model) loadActiveCmd() tea.Cmd {
	return func() tea.Msg {
		active, err := m.ports.Session.GetActive(context.Background())
		return activeLoadedMsg{active: active, err: err}
	}
}

func (m Model) startCmd(workoutID string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.ports.Session.Start(context.Background(), workoutID)
		return sessionStartedMsg{out: out, err: err}
	}
}
