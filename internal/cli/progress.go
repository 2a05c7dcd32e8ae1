package cli

import (
	"context"
	"fmt"

	"charm.land/bubbles/v2/progress"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/lipgloss"

	"github.com/davidkellner/molscope/internal/chem"
	"github.com/davidkellner/molscope/internal/pipeline"
)

// Theme holds the color scheme for the progress display.
type Theme struct {
	Status  lipgloss.Color
	Success lipgloss.Color
	Error   lipgloss.Color
	Hint    lipgloss.Color
}

// defaultTheme provides default colors.
var defaultTheme = Theme{
	Status:  lipgloss.Color("#5FAFD7"), // light blue
	Success: lipgloss.Color("#00D787"), // green
	Error:   lipgloss.Color("#FF005F"), // red
	Hint:    lipgloss.Color("#6C6C6C"), // dim gray
}

func (t Theme) statusStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Status)
}

func (t Theme) completedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Success).Bold(true)
}

func (t Theme) errorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Error).Bold(true)
}

func (t Theme) hintStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Hint).Italic(true)
}

// transitionMsg carries one pipeline state change.
type transitionMsg pipeline.Transition

// analysisDoneMsg carries the final outcome of the run.
type analysisDoneMsg struct {
	result *chem.AnalysisResult
	err    error
}

// stageProgress maps run states to progress bar positions.
var stageProgress = map[pipeline.State]float64{
	pipeline.StateResolving: 0.25,
	pipeline.StateAnalyzing: 0.65,
	pipeline.StateDone:      1.0,
	pipeline.StateFailed:    1.0,
}

// stageLabel maps run states to display labels.
var stageLabel = map[pipeline.State]string{
	pipeline.StateResolving: "resolving structure",
	pipeline.StateAnalyzing: "gathering data and synthesizing",
	pipeline.StateDone:      "done",
	pipeline.StateFailed:    "failed",
}

// analysisModel is the bubbletea model for a pipeline run.
type analysisModel struct {
	transitions <-chan pipeline.Transition
	outcome     <-chan analysisDoneMsg

	state    pipeline.State
	detail   string
	progress progress.Model
	theme    Theme

	result   *chem.AnalysisResult
	err      error
	done     bool
	quitting bool
}

// newAnalysisModel creates a progress model over the pipeline's transitions.
func newAnalysisModel(transitions <-chan pipeline.Transition, outcome <-chan analysisDoneMsg) analysisModel {
	prog := progress.New(
		progress.WithDefaultBlend(),
		progress.WithWidth(40),
	)

	return analysisModel{
		transitions: transitions,
		outcome:     outcome,
		state:       pipeline.StateResolving,
		progress:    prog,
		theme:       defaultTheme,
	}
}

// Init starts listening for transitions and the final outcome.
func (m analysisModel) Init() tea.Cmd {
	return tea.Batch(
		m.waitForTransition(),
		m.waitForOutcome(),
		m.progress.Init(),
	)
}

// Update handles messages and returns the updated model.
func (m analysisModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit
		}

	case transitionMsg:
		m.state = msg.State
		m.detail = msg.Detail
		return m, m.waitForTransition()

	case analysisDoneMsg:
		m.result = msg.result
		m.err = msg.err
		m.done = true
		return m, tea.Quit

	case progress.FrameMsg:
		var cmd tea.Cmd
		m.progress, cmd = m.progress.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the progress display.
func (m analysisModel) View() tea.View {
	return tea.NewView(m.renderContent())
}

// renderContent builds the display string.
func (m analysisModel) renderContent() string {
	if m.done {
		return m.finalView()
	}

	label := stageLabel[m.state]
	if m.detail != "" {
		label += ": " + m.detail
	}
	status := m.theme.statusStyle().Render(fmt.Sprintf("[%s]", label))

	progressBar := m.progress.ViewAs(stageProgress[m.state])
	hint := m.theme.hintStyle().Render("Press Ctrl+C to abort")

	return fmt.Sprintf("%s %s\n%s\n", status, progressBar, hint)
}

// finalView renders the completion message.
func (m analysisModel) finalView() string {
	if m.err != nil {
		return m.theme.errorStyle().Render("✗ Analysis failed\n")
	}
	return m.theme.completedStyle().Render("✓ Analysis complete\n")
}

// waitForTransition blocks on the next pipeline state change.
func (m analysisModel) waitForTransition() tea.Cmd {
	return func() tea.Msg {
		tr, ok := <-m.transitions
		if !ok {
			return nil
		}
		return transitionMsg(tr)
	}
}

// waitForOutcome blocks until the pipeline run finishes.
func (m analysisModel) waitForOutcome() tea.Cmd {
	return func() tea.Msg {
		return <-m.outcome
	}
}

// RunAnalysisProgress runs the pipeline with an interactive progress UI and
// returns the analysis outcome.
func RunAnalysisProgress(ctx context.Context, p *pipeline.Pipeline, query chem.AnalysisQuery) (*chem.AnalysisResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	transitions := p.Tracker().Subscribe()
	outcome := make(chan analysisDoneMsg, 1)

	go func() {
		result, err := p.Analyze(ctx, query)
		outcome <- analysisDoneMsg{result: result, err: err}
	}()

	model := newAnalysisModel(transitions, outcome)
	prog := tea.NewProgram(model)

	finalModel, err := prog.Run()
	if err != nil {
		return nil, fmt.Errorf("progress UI error: %w", err)
	}

	if m, ok := finalModel.(analysisModel); ok {
		if m.quitting {
			cancel()
			return nil, fmt.Errorf("analysis aborted")
		}
		return m.result, m.err
	}
	return nil, fmt.Errorf("progress UI returned unexpected model")
}
