package player

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sessiondto "pajama/internal/modules/session/dto"
)

type fakeSession struct {
	completed []int
	abandoned int
}

func (f *fakeSession) Complete(_ context.Context, sessionID string, durationSecs, phasesCompleted int) (sessiondto.CompleteOutput, error) {
	f.completed = append(f.completed, durationSecs, phasesCompleted)
	return sessiondto.CompleteOutput{SessionID: sessionID, DurationSecs: durationSecs, PhasesCompleted: phasesCompleted}, nil
}

func (f *fakeSession) Abandon(context.Context) error {
	f.abandoned++
	return nil
}

func session() sessiondto.StartOutput {
	return sessiondto.StartOutput{
		SessionID: "sess-1",
		Steps: []sessiondto.StepOutput{
			{Name: "Squats", Type: "work", Duration: 2, Hint: "Sit back"},
			{Name: "Rest", Type: "rest", Duration: 1},
		},
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestPlayerTicksToCompletion(t *testing.T) {
	t.Parallel()
	port := &fakeSession{}
	m := New(port, session(), 1, true)
	require.NotNil(t, m.Init())
	assert.Contains(t, m.View(), "starts in 1s")

	var cmd tea.Cmd
	for i := 0; i < 4 && !m.Done(); i++ {
		m, cmd = m.Update(tickMsg{})
	}
	require.True(t, m.Done())
	require.NotNil(t, cmd)

	msg, ok := cmd().(CompletedMsg)
	require.True(t, ok)
	require.NoError(t, msg.Err)
	assert.Equal(t, []int{3, 2}, port.completed)
	assert.Contains(t, m.View(), "All done.")

	m, cmd = m.Update(tickMsg{})
	assert.Nil(t, cmd)
}

func TestPlayerPauseSkipAndStop(t *testing.T) {
	t.Parallel()
	port := &fakeSession{}
	m := New(port, session(), 5, true)

	m, _ = m.Update(runes("p"))
	assert.Contains(t, m.View(), "Squats")
	assert.Contains(t, m.View(), "Sit back")

	m, _ = m.Update(runes("p"))
	assert.Contains(t, m.View(), "paused")
	m, _ = m.Update(tickMsg{})
	assert.Contains(t, m.View(), "0:02")

	m, _ = m.Update(runes("s"))
	assert.Contains(t, m.View(), "REST")

	m, cmd := m.Update(runes("q"))
	require.True(t, m.Done())
	msg, ok := cmd().(AbandonedMsg)
	require.True(t, ok)
	assert.NoError(t, msg.Err)
	assert.Equal(t, 1, port.abandoned)
	assert.Empty(t, port.completed)
}

func TestPlayerEmptySessionCompletesImmediately(t *testing.T) {
	t.Parallel()
	port := &fakeSession{}
	m := New(port, sessiondto.StartOutput{SessionID: "empty"}, 10, false)
	require.True(t, m.Done())
	_, ok := m.Init()().(CompletedMsg)
	assert.True(t, ok)
}
