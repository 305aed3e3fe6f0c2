package cli

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/packlab/rollpack/pkg/pack"
	"github.com/packlab/rollpack/pkg/render"
)

// Editor styles
var (
	editorSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	editorNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	editorDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// tuiCommand creates the interactive pack parameter editor.
func (c *CLI) tuiCommand() *cobra.Command {
	cfgFlags := &configFlags{}
	var output string

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Edit pack parameters interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cfgFlags.resolve(cmd)
			if err != nil {
				return err
			}
			if output == "" {
				output = "pack.svg"
			}

			model := newEditorModel(cfg, output)
			p := tea.NewProgram(model, tea.WithAltScreen())
			final, err := p.Run()
			if err != nil {
				return err
			}
			if m, ok := final.(editorModel); ok && m.written {
				printSuccess("Wrote %s", m.output)
			}
			return nil
		},
	}

	cfgFlags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "SVG output path (default pack.svg)")

	return cmd
}

// =============================================================================
// editorModel - Interactive pack parameter editing
// =============================================================================

// editorField is one tunable pack parameter.
type editorField struct {
	name  string
	value func(pack.Config) string
	step  func(cfg *pack.Config, delta int)
}

// editorFields lists the tunable parameters in display order. Counts step
// by one, dimensions by 5mm, the gap by 0.5mm. Steps never push a field
// below its valid floor.
var editorFields = []editorField{
	{
		name:  "Lanes",
		value: func(c pack.Config) string { return fmt.Sprintf("%d", c.LaneCount) },
		step:  func(c *pack.Config, d int) { c.LaneCount = max(1, c.LaneCount+d) },
	},
	{
		name:  "Channels",
		value: func(c pack.Config) string { return fmt.Sprintf("%d", c.ChannelCount) },
		step:  func(c *pack.Config, d int) { c.ChannelCount = max(1, c.ChannelCount+d) },
	},
	{
		name:  "Layers",
		value: func(c pack.Config) string { return fmt.Sprintf("%d", c.LayerCount) },
		step:  func(c *pack.Config, d int) { c.LayerCount = max(1, c.LayerCount+d) },
	},
	{
		name:  "Roll diameter",
		value: func(c pack.Config) string { return fmt.Sprintf("%.0f mm", c.RollOuterDiameterMm) },
		step: func(c *pack.Config, d int) {
			c.RollOuterDiameterMm = max(5, c.RollOuterDiameterMm+float64(d)*5)
		},
	},
	{
		name:  "Core diameter",
		value: func(c pack.Config) string { return fmt.Sprintf("%.0f mm", c.CoreOuterDiameterMm) },
		step: func(c *pack.Config, d int) {
			c.CoreOuterDiameterMm = max(5, c.CoreOuterDiameterMm+float64(d)*5)
		},
	},
	{
		name:  "Roll length",
		value: func(c pack.Config) string { return fmt.Sprintf("%.0f mm", c.RollLengthMm) },
		step: func(c *pack.Config, d int) {
			c.RollLengthMm = max(5, c.RollLengthMm+float64(d)*5)
		},
	},
	{
		name:  "Gap",
		value: func(c pack.Config) string { return fmt.Sprintf("%.1f mm", c.GapMm) },
		step: func(c *pack.Config, d int) {
			c.GapMm = max(0, c.GapMm+float64(d)*0.5)
		},
	},
}

// statusKind selects the style of the editor status line.
type statusKind int

const (
	statusNeutral statusKind = iota
	statusOK
	statusErr
)

// editorModel is the bubbletea model for the pack parameter editor.
type editorModel struct {
	cfg     pack.Config
	cursor  int
	output  string
	status  string
	kind    statusKind
	written bool
}

// newEditorModel creates an editor seeded with cfg.
func newEditorModel(cfg pack.Config, output string) editorModel {
	return editorModel{cfg: cfg, output: output}
}

func (m editorModel) Init() tea.Cmd {
	return nil
}

func (m editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(editorFields)-1 {
			m.cursor++
		}
	case "left", "h", "-":
		editorFields[m.cursor].step(&m.cfg, -1)
		m.status = ""
	case "right", "l", "+":
		editorFields[m.cursor].step(&m.cfg, +1)
		m.status = ""
	case "d":
		m.cfg = pack.DefaultConfig()
		m.status = "reset to defaults"
		m.kind = statusNeutral
	case "enter", "w":
		if err := m.writeSVG(); err != nil {
			m.status = "write failed: " + err.Error()
			m.kind = statusErr
		} else {
			m.status = "wrote " + m.output
			m.kind = statusOK
			m.written = true
		}
	}
	return m, nil
}

// writeSVG assembles the current configuration and writes it as SVG.
func (m *editorModel) writeSVG() error {
	scene := pack.Assemble(m.cfg)
	defer scene.Release()
	return os.WriteFile(m.output, render.RenderSVG(scene), 0o644)
}

func (m editorModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Pack Editor"))
	b.WriteString("\n")
	b.WriteString(editorDimStyle.Render("↑/↓ select  ←/→ adjust  d defaults  ⏎ write SVG  q quit"))
	b.WriteString("\n\n")

	for i, f := range editorFields {
		cursor := "  "
		style := editorNormalStyle
		if i == m.cursor {
			cursor = "▸ "
			style = editorSelectedStyle
		}
		b.WriteString(fmt.Sprintf("%s%s %s\n",
			cursor,
			style.Render(fmt.Sprintf("%-14s", f.name)),
			StyleValue.Render(f.value(m.cfg))))
	}

	cfg := m.cfg.Normalize()
	b.WriteString("\n")
	b.WriteString(editorDimStyle.Render(fmt.Sprintf("%d rolls · %s", cfg.TotalRollCount(), cfg)))
	b.WriteString("\n")

	if m.status != "" {
		style := StyleHighlight
		switch m.kind {
		case statusOK:
			style = StyleSuccess
		case statusErr:
			style = StyleWarning
		}
		b.WriteString("\n")
		b.WriteString(style.Render(m.status))
		b.WriteString("\n")
	}

	return b.String()
}
