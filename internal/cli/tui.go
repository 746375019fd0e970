package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/lightning/pkg/observability"
	"github.com/matzehuels/lightning/pkg/pipeline"
)

var (
	progressBarStyle  = lipgloss.NewStyle().Foreground(colorCyan)
	progressDimStyle  = lipgloss.NewStyle().Foreground(colorDim)
	progressDoneStyle = lipgloss.NewStyle().Foreground(colorGreen)
)

// =============================================================================
// ProgressModel - Per-layer generation progress
// =============================================================================

// generateStartMsg carries the total layer count once the stack is loaded.
type generateStartMsg struct {
	layerCount int
}

// layerDoneMsg reports one completed layer.
type layerDoneMsg struct {
	index     int
	treeCount int
	lineCount int
}

// generateDoneMsg ends the TUI session.
type generateDoneMsg struct {
	result *pipeline.Result
	err    error
}

// ProgressModel is the bubbletea model showing per-layer generation progress.
// Layers are generated top-down, so the counter runs from the highest layer
// to the bottom.
type ProgressModel struct {
	Total     int
	Completed int
	Trees     int
	Lines     int
	Start     time.Time

	Result *pipeline.Result
	Err    error
}

// NewProgressModel creates a progress model with no layers known yet.
func NewProgressModel() ProgressModel {
	return ProgressModel{Start: time.Now()}
}

func (m ProgressModel) Init() tea.Cmd {
	return nil
}

func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.Err = context.Canceled
			return m, tea.Quit
		}
	case generateStartMsg:
		m.Total = msg.layerCount
	case layerDoneMsg:
		m.Completed++
		m.Trees += msg.treeCount
		m.Lines += msg.lineCount
	case generateDoneMsg:
		m.Result = msg.result
		m.Err = msg.err
		return m, tea.Quit
	}
	return m, nil
}

func (m ProgressModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Generating infill"))
	b.WriteString("\n")
	b.WriteString(progressDimStyle.Render("q quit"))
	b.WriteString("\n\n")

	b.WriteString("  " + m.renderBar(40))
	b.WriteString("\n\n")

	if m.Total > 0 {
		b.WriteString(progressDimStyle.Render(fmt.Sprintf("  layer %d/%d", m.Completed, m.Total)))
	} else {
		b.WriteString(progressDimStyle.Render("  loading stack..."))
	}
	if m.Trees > 0 || m.Lines > 0 {
		b.WriteString(progressDimStyle.Render(fmt.Sprintf("  ·  %d trees  ·  %d lines", m.Trees, m.Lines)))
	}
	b.WriteString(progressDimStyle.Render(fmt.Sprintf("  ·  %s", time.Since(m.Start).Round(time.Millisecond))))
	b.WriteString("\n")

	return b.String()
}

// renderBar draws a fixed-width progress bar.
func (m ProgressModel) renderBar(width int) string {
	if m.Total == 0 {
		return progressDimStyle.Render(strings.Repeat("░", width))
	}
	filled := width * m.Completed / m.Total
	if filled > width {
		filled = width
	}
	bar := progressBarStyle.Render(strings.Repeat("█", filled)) +
		progressDimStyle.Render(strings.Repeat("░", width-filled))
	if m.Completed >= m.Total {
		bar = progressDoneStyle.Render(strings.Repeat("█", width))
	}
	return bar
}

// =============================================================================
// Hook Bridge
// =============================================================================

// progressHooks forwards pipeline events into the running TUI program.
type progressHooks struct {
	observability.NoopPipelineHooks
	program *tea.Program
}

func (h *progressHooks) OnGenerateStart(_ context.Context, layerCount int) {
	h.program.Send(generateStartMsg{layerCount: layerCount})
}

func (h *progressHooks) OnLayerComplete(_ context.Context, index, treeCount, lineCount int) {
	h.program.Send(layerDoneMsg{index: index, treeCount: treeCount, lineCount: lineCount})
}

// runWithProgress executes the pipeline while driving the progress TUI.
// Hook registration is global, so only one progress run may be active at a time.
func runWithProgress(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options) (*pipeline.Result, error) {
	p := tea.NewProgram(NewProgressModel(), tea.WithContext(ctx))

	observability.SetPipelineHooks(&progressHooks{program: p})
	defer observability.Reset()

	go func() {
		result, err := runner.Execute(ctx, opts)
		p.Send(generateDoneMsg{result: result, err: err})
	}()

	final, err := p.Run()
	if err != nil {
		return nil, err
	}
	m, ok := final.(ProgressModel)
	if !ok {
		return nil, fmt.Errorf("unexpected model type %T", final)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Result, nil
}
