package picker

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	timelinedto "pajama/internal/modules/timeline/dto"
	workoutdto "pajama/internal/modules/workout/dto"
	"pajama/internal/ui/theme"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type WorkoutPort interface {
	List(ctx context.Context) ([]workoutdto.WorkoutSummary, error)
}

type TimelinePort interface {
	Show(ctx context.Context, workoutID string) (timelinedto.TimelineOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type WorkoutsLoadedMsg struct {
	Workouts []workoutdto.WorkoutSummary
	Err      error
}

type PreviewLoadedMsg struct {
	Timeline timelinedto.TimelineOutput
	Err      error
}

// ─── list item ───────────────────────────────────────────────────────────────

type workoutItem struct {
	workout workoutdto.WorkoutSummary
}

func (i workoutItem) Title() string { return i.workout.Title }
func (i workoutItem) Description() string {
	kind := "custom"
	if i.workout.Builtin {
		kind = i.workout.Category
	}
	return fmt.Sprintf("%s  %d phases  %s", kind, i.workout.PhaseCount, clock(i.workout.TotalSeconds))
}
func (i workoutItem) FilterValue() string { return i.workout.Title }

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	workouts WorkoutPort
	timeline TimelinePort
	list     list.Model
	preview  viewport.Model
	spinner  spinner.Model
	current  timelinedto.TimelineOutput
	loading  bool
	width    int
	height   int
}

func New(workouts WorkoutPort, timeline TimelinePort) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Workouts"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().
		Background(theme.Mantle).
		Foreground(theme.Text).
		Padding(1)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{
		workouts: workouts,
		timeline: timeline,
		list:     l,
		preview:  vp,
		spinner:  sp,
		loading:  true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadWorkoutsCmd(), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case WorkoutsLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.list.Title = "Workouts: " + msg.Err.Error()
			return m, nil
		}
		items := make([]list.Item, len(msg.Workouts))
		for i, w := range msg.Workouts {
			items[i] = workoutItem{workout: w}
		}
		cmds = append(cmds, m.list.SetItems(items))
		if len(msg.Workouts) > 0 {
			cmds = append(cmds, m.loadPreviewCmd(msg.Workouts[0].ID))
		}

	case PreviewLoadedMsg:
		if msg.Err == nil {
			m.current = msg.Timeline
			m.preview.SetContent(m.renderPreview())
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	if !m.loading {
		var lCmd tea.Cmd
		prevIdx := m.list.Index()
		m.list, lCmd = m.list.Update(msg)
		cmds = append(cmds, lCmd)
		if m.list.Index() != prevIdx {
			if item, ok := m.list.SelectedItem().(workoutItem); ok {
				cmds = append(cmds, m.loadPreviewCmd(item.workout.ID))
			}
		}

		var vCmd tea.Cmd
		m.preview, vCmd = m.preview.Update(msg)
		cmds = append(cmds, vCmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading workouts…")
	}

	listW := m.width * 4 / 10
	detailW := m.width - listW

	listPane := lipgloss.NewStyle().
		Width(listW).
		Height(m.height).
		Render(m.list.View())

	detailPane := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Surface1).
		Background(theme.Mantle).
		Width(detailW - 2).
		Height(m.height - 2).
		Render(m.preview.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
}

// SelectedWorkoutID returns the current selection, if any.
func (m Model) SelectedWorkoutID() (string, bool) {
	if item, ok := m.list.SelectedItem().(workoutItem); ok {
		return item.workout.ID, true
	}
	return "", false
}

// Filtering reports whether the list's search filter is active. The app
// model checks this to avoid consuming global keys during a search.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) resize() {
	listW := m.width * 4 / 10
	detailW := m.width - listW
	m.list.SetSize(listW, m.height)
	m.preview.Width = detailW - 4
	m.preview.Height = m.height - 4
}

func (m Model) renderPreview() string {
	t := m.current
	if t.WorkoutID == "" {
		return theme.Muted.Render("Select a workout to preview its timeline")
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(t.Title) + "\n")
	sb.WriteString(theme.Muted.Render(fmt.Sprintf("pace %s  rest %s", multiplier(t.Multiplier), multiplier(t.RestMultiplier))) + "\n\n")
	sb.WriteString(t.Listing)
	sb.WriteString("\n" + theme.Muted.Render("enter: play  /: filter"))
	return sb.String()
}

func (m Model) loadWorkoutsCmd() tea.Cmd {
	return func() tea.Msg {
		workouts, err := m.workouts.List(context.Background())
		return WorkoutsLoadedMsg{Workouts: workouts, Err: err}
	}
}

func (m Model) loadPreviewCmd(id string) tea.Cmd {
	return func() tea.Msg {
		timeline, err := m.timeline.Show(context.Background(), id)
		return PreviewLoadedMsg{Timeline: timeline, Err: err}
	}
}

func clock(secs int) string {
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

func multiplier(m float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", m), "0"), ".") + "×"
}
