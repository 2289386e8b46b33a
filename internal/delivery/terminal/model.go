// Package terminal runs the quiz as a full-screen terminal program.
package terminal

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/aliskhannn/kakaenen/internal/domain/entities"
)

const defaultWidth = 60

type QuizService interface {
	Start(ctx context.Context) (*entities.QuizSession, error)
	SubmitChoice(ctx context.Context, sessionID string, position, choice int) (*entities.QuizSession, entities.QuizAnswer, error)
	Restart(ctx context.Context, sessionID string) (*entities.QuizSession, error)
	End(ctx context.Context, sessionID string)
}

var (
	styleHeader    = lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true)
	styleSubtle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	stylePrompt    = lipgloss.NewStyle().Bold(true)
	styleCursor    = lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true)
	styleCorrect   = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	styleIncorrect = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	styleError     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	styleDone      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("208")).Padding(1, 3)
	styleBarFull   = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
)

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Submit  key.Binding
	Restart key.Binding
	Quit    key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Submit, k.Restart, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var keys = keyMap{
	Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Submit:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "送出答案")),
	Restart: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "重新抽題")),
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// Model is a single quiz session driven from the keyboard.
type Model struct {
	ctx      context.Context
	quiz     QuizService
	unit     entities.Unit
	session  *entities.QuizSession
	cursor   int
	feedback *entities.QuizAnswer
	err      error
	width    int
	help     help.Model
}

// NewModel starts a quiz session for the terminal.
func NewModel(ctx context.Context, quiz QuizService, unit entities.Unit) (*Model, error) {
	session, err := quiz.Start(ctx)
	if err != nil {
		return nil, err
	}

	return &Model{
		ctx:     ctx,
		quiz:    quiz,
		unit:    unit,
		session: session,
		width:   defaultWidth,
		help:    help.New(),
	}, nil
}

// Session returns the session state as last seen by the model.
func (m *Model) Session() *entities.QuizSession {
	return m.session
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}

		case key.Matches(msg, keys.Down):
			if cur, ok := m.session.Current(); ok && m.cursor < len(cur.Options)-1 {
				m.cursor++
			}

		case key.Matches(msg, keys.Submit):
			m.submit()

		case key.Matches(msg, keys.Restart):
			m.restart()
		}
	}

	return m, nil
}

func (m *Model) submit() {
	if m.session.IsCompleted() {
		return
	}

	session, answer, err := m.quiz.SubmitChoice(m.ctx, m.session.ID, m.session.CurrentIndex, m.cursor)
	if err != nil {
		m.err = err
		return
	}

	m.session = session
	m.feedback = &answer
	m.cursor = 0
	m.err = nil
}

func (m *Model) restart() {
	session, err := m.quiz.Restart(m.ctx, m.session.ID)
	if err != nil {
		m.err = err
		return
	}

	m.session = session
	m.feedback = nil
	m.cursor = 0
	m.err = nil
}

func (m *Model) View() string {
	var sb strings.Builder

	sb.WriteString(styleHeader.Render(fmt.Sprintf("Unit %d: %s", m.unit.Number, m.unit.Title)))
	sb.WriteString("\n")
	sb.WriteString(styleSubtle.Render(m.unit.Subtitle))
	sb.WriteString("\n\n")

	if m.feedback != nil {
		if m.feedback.IsCorrect {
			sb.WriteString(styleCorrect.Render("🎉 答對了！"))
		} else {
			sb.WriteString(styleIncorrect.Render(m.wrap("不對喔！提示：" + m.feedback.Hint)))
		}
		sb.WriteString("\n\n")
	}

	if m.session.IsCompleted() {
		sb.WriteString(styleDone.Render(fmt.Sprintf("🏆 挑戰成功！\n本次得分：%d", m.session.Score)))
		sb.WriteString("\n\n")
		sb.WriteString(styleSubtle.Render("r: 再來一局 (重新抽題)"))
	} else {
		m.writeQuestion(&sb)
	}

	if m.err != nil {
		sb.WriteString("\n\n")
		sb.WriteString(styleError.Render(m.err.Error()))
	}

	sb.WriteString("\n\n")
	sb.WriteString(m.help.View(keys))
	sb.WriteString("\n")

	return sb.String()
}

func (m *Model) writeQuestion(sb *strings.Builder) {
	cur, _ := m.session.Current()

	sb.WriteString(progressBar(m.session.CurrentIndex, m.session.Total(), 20))
	sb.WriteString(fmt.Sprintf("  Question %d / %d", m.session.CurrentIndex+1, m.session.Total()))
	sb.WriteString("\n\n")
	sb.WriteString(stylePrompt.Render(m.wrap(cur.Question.Prompt)))
	sb.WriteString("\n\n")

	for i, opt := range cur.Options {
		if i == m.cursor {
			sb.WriteString(styleCursor.Render("> " + opt))
		} else {
			sb.WriteString("  " + opt)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(styleSubtle.Render(fmt.Sprintf("得分：%d", m.session.Score)))
}

func (m *Model) wrap(s string) string {
	return wordwrap.String(s, m.width)
}

func progressBar(done, total, width int) string {
	if total <= 0 {
		return ""
	}
	filled := done * width / total
	return styleBarFull.Render(strings.Repeat("█", filled)) + styleSubtle.Render(strings.Repeat("░", width-filled))
}

// Run blocks until the user quits or ctx is cancelled, then discards the session.
func Run(ctx context.Context, m *Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		<-runCtx.Done()
		p.Quit()
	}()

	_, err := p.Run()
	m.quiz.End(context.WithoutCancel(ctx), m.session.ID)

	return err
}
