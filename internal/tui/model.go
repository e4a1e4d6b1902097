package tui

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/timer"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/ttt/internal/logging"
	"github.com/verte-zerg/ttt/internal/model"
	"github.com/verte-zerg/ttt/internal/stats"
	"github.com/verte-zerg/ttt/internal/textsource"
	"github.com/verte-zerg/ttt/internal/typing"
)

const (
	refreshInterval = 500 * time.Millisecond
	timerInterval   = time.Second
)

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	cardStyle        = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("#6E6E6E")).
				Padding(0, 2)
	cardTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C89A3A"))
)

// Options wires the model to its collaborators. Source is required.
type Options struct {
	Config  model.Config
	Source  textsource.Source
	Watcher *textsource.Watcher
	Clock   typing.Clock
	Logger  *logging.Logger
	Run     *stats.Run
}

type refreshMsg struct {
	gen int
}

type reloadMsg struct {
	text string
}

type reloadErrMsg struct {
	err error
}

// Model implements the Bubble Tea typing UI.
type Model struct {
	config  model.Config
	source  textsource.Source
	watcher *textsource.Watcher
	clock   typing.Clock
	log     *logging.Logger
	run     *stats.Run

	session   *typing.Session
	tracker   *stats.Tracker
	startedAt time.Time
	started   bool
	weakSet   map[rune]struct{}

	timer      timer.Model
	timing     bool
	refreshGen int

	keys   keyMap
	help   help.Model
	notice string
	err    error

	width  int
	height int
}

// NewModel constructs a typing TUI model with its first session ready.
func NewModel(opts Options) (*Model, error) {
	if opts.Source == nil {
		return nil, errors.New("text source is required")
	}
	m := &Model{
		config:  opts.Config,
		source:  opts.Source,
		watcher: opts.Watcher,
		clock:   opts.Clock,
		log:     opts.Logger,
		run:     opts.Run,
		tracker: stats.NewTracker(),
		keys:    newKeyMap(),
		help:    help.New(),
	}
	if m.clock == nil {
		m.clock = typing.SystemClock{}
	}
	if m.log == nil {
		m.log = logging.Discard()
	}
	if m.run == nil {
		m.run = stats.NewRun()
	}
	if err := m.newSession(); err != nil {
		return nil, err
	}
	return m, nil
}

// Err returns the error that stopped the program, if any.
func (m *Model) Err() error {
	return m.err
}

// Run returns the results recorded so far.
func (m *Model) Run() *stats.Run {
	return m.run
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.waitForReload()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	case timer.TickMsg, timer.StartStopMsg:
		var cmd tea.Cmd
		m.timer, cmd = m.timer.Update(msg)
		return m, cmd
	case timer.TimeoutMsg:
		if !m.timing || msg.ID != m.timer.ID() {
			return m, nil
		}
		return m, m.timeout(m.clock.Now())
	case refreshMsg:
		if msg.gen != m.refreshGen || m.session.State() != typing.Running {
			return m, nil
		}
		if now := m.clock.Now(); m.deadlinePassed(now) {
			return m, m.timeout(now)
		}
		return m, m.refresh()
	case reloadMsg:
		m.applyReload(msg.text)
		return m, m.waitForReload()
	case reloadErrMsg:
		m.log.Warn("text reload failed", "err", msg.err)
		m.notice = "reload failed"
		return m, m.waitForReload()
	default:
		return m, nil
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	snap := m.session.Snapshot(m.clock.Now())
	cursorIndex := -1
	if !snap.Ended() && snap.Cursor < snap.Len() {
		cursorIndex = snap.Cursor
	}
	styledRunes := buildStyledRunes(snap.Slots, cursorIndex)
	if m.width == 0 || m.height == 0 {
		return renderStyledRunes(styledRunes)
	}
	contentWidth := max(1, int(float64(m.width)*0.70))
	wrapped := wrapStyledRunes(styledRunes, contentWidth)
	content := lipgloss.NewStyle().Width(contentWidth).Render(wrapped)
	if snap.Ended() {
		if card := m.renderResult(); card != "" {
			content = lipgloss.JoinVertical(lipgloss.Center, content, "", card)
		}
	}
	footer := m.renderFooter(snap)
	if footer == "" || m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	helpLine := m.help.View(m.keys)
	footerHeight := 1
	if m.height >= 5 && helpLine != "" {
		footerHeight = 2
	}
	body := lipgloss.Place(m.width, m.height-footerHeight, lipgloss.Center, lipgloss.Center, content)
	out := body + "\n" + lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	if footerHeight == 2 {
		out += "\n" + lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, helpLine)
	}
	return out
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	now := m.clock.Now()
	state := m.session.State()
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.abort(now, model.OutcomeAborted)
		return tea.Quit
	case key.Matches(msg, m.keys.Abort):
		if state == typing.Running {
			return m.abort(now, model.OutcomeAborted)
		}
		return tea.Quit
	case key.Matches(msg, m.keys.NewText):
		return m.regenerate()
	case key.Matches(msg, m.keys.Next):
		return m.nextSession()
	}
	if state.Terminal() {
		return nil
	}
	if state == typing.Running && m.deadlinePassed(now) {
		return m.timeout(now)
	}
	// Enter only types a line break where the text has one.
	if msg.Type == tea.KeyEnter {
		if r, ok := m.session.Expected(); !ok || r != '\n' {
			return nil
		}
	}
	return m.typeKeys(decodeKey(msg, now))
}

func (m *Model) typeKeys(events []typing.KeyEvent) tea.Cmd {
	var cmds []tea.Cmd
	for _, ev := range events {
		change := m.session.Apply(ev)
		m.tracker.Record(change)
		if change.Started {
			m.startedAt = change.At
			m.started = true
			m.log.Debug("session started", "runes", m.session.Len())
			cmds = append(cmds, m.startClock())
		}
		if change.State == typing.Finished {
			cmds = append(cmds, m.finalize(model.OutcomeFinished))
			break
		}
	}
	m.keys.syncState(m.session.State())
	return tea.Batch(cmds...)
}

func (m *Model) startClock() tea.Cmd {
	m.refreshGen++
	cmds := []tea.Cmd{m.refresh()}
	if limit := m.config.TimeLimit(); limit > 0 {
		m.timer = timer.NewWithInterval(limit, timerInterval)
		m.timing = true
		cmds = append(cmds, m.timer.Init())
	}
	return tea.Batch(cmds...)
}

func (m *Model) refresh() tea.Cmd {
	gen := m.refreshGen
	return tea.Tick(refreshInterval, func(time.Time) tea.Msg {
		return refreshMsg{gen: gen}
	})
}

func (m *Model) deadlinePassed(now time.Time) bool {
	limit := m.config.TimeLimit()
	if limit <= 0 || !m.started {
		return false
	}
	return !now.Before(m.startedAt.Add(limit))
}

// timeout aborts the running session at its deadline, or at now when the
// deadline lies ahead of the clock.
func (m *Model) timeout(now time.Time) tea.Cmd {
	at := now
	if deadline := m.startedAt.Add(m.config.TimeLimit()); m.started && deadline.Before(at) {
		at = deadline
	}
	return m.abort(at, model.OutcomeTimedOut)
}

func (m *Model) abort(at time.Time, outcome model.Outcome) tea.Cmd {
	change := m.session.Apply(typing.Abort(at))
	if change.Kind != typing.ChangeAborted {
		return nil
	}
	return m.finalize(outcome)
}

func (m *Model) finalize(outcome model.Outcome) tea.Cmd {
	snap := m.session.Snapshot(m.clock.Now())
	res := stats.NewResult(snap, outcome)
	m.run.Add(res, m.tracker.CharStats())
	m.log.Info("session ended",
		"outcome", string(outcome),
		"wpm", res.WPM,
		"accuracy", res.Accuracy,
		"typed", res.Typed,
		"length", res.Length,
		"duration", res.Duration,
	)
	if m.config.FocusWeak {
		m.refreshWeakSet()
	}
	m.keys.syncState(snap.State)
	m.refreshGen++
	if !m.timing {
		return nil
	}
	m.timing = false
	return m.timer.Stop()
}

func (m *Model) refreshWeakSet() {
	m.weakSet = m.run.WeakChars(m.config.WeakTop)
	if len(m.weakSet) == 0 {
		m.notice = "no weak characters yet"
		return
	}
	m.notice = ""
	m.log.Debug("weak characters updated", "chars", weakString(m.weakSet))
}

func (m *Model) nextSession() tea.Cmd {
	if err := m.newSession(); err != nil {
		m.err = err
		m.log.Error("failed to start session", "err", err)
		return tea.Quit
	}
	return nil
}

// regenerate throws the current text away, including a running session,
// and starts over with a fresh one.
func (m *Model) regenerate() tea.Cmd {
	var cmd tea.Cmd
	if m.session.State() == typing.Running {
		m.log.Debug("session discarded")
		if m.timing {
			m.timing = false
			cmd = m.timer.Stop()
		}
	}
	return tea.Batch(cmd, m.nextSession())
}

func (m *Model) newSession() error {
	text, err := m.source.Next(m.weakSet)
	if err != nil {
		return fmt.Errorf("failed to get text: %w", err)
	}
	session, err := typing.New(text,
		typing.WithClock(m.clock),
		typing.WithStopOnError(m.config.StopOnError),
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	m.session = session
	m.tracker.Reset()
	m.startedAt = time.Time{}
	m.started = false
	m.timing = false
	m.refreshGen++
	m.keys.syncState(typing.NotStarted)
	return nil
}

func (m *Model) applyReload(text string) {
	fixed, ok := m.source.(*textsource.Fixed)
	if !ok {
		return
	}
	fixed.Set(text)
	m.log.Info("text reloaded", "path", fixed.Describe(), "runes", utf8.RuneCountInString(text))
	m.notice = "text reloaded"
	if m.session.State() != typing.NotStarted {
		return
	}
	if err := m.newSession(); err != nil {
		m.log.Warn("failed to apply reloaded text", "err", err)
	}
}

func (m *Model) waitForReload() tea.Cmd {
	w := m.watcher
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case text := <-w.Texts():
			return reloadMsg{text: text}
		case err := <-w.Errors():
			return reloadErrMsg{err: err}
		case <-w.Done():
			return nil
		}
	}
}

func (m *Model) renderFooter(snap typing.Snapshot) string {
	if snap.Len() == 0 {
		return ""
	}
	progress := int(snap.Progress() * 100)
	segments := []string{fmt.Sprintf("Progress %d%%", progress)}
	if snap.State == typing.Running {
		now := m.clock.Now()
		segments = append(segments, fmt.Sprintf("%.1f WPM · %.1f%%", typing.WPM(snap, now), typing.Accuracy(snap)))
		if m.timing {
			segments = append(segments, "Left "+m.timer.View())
		} else {
			segments = append(segments, "Time "+formatElapsed(snap.Elapsed))
		}
	}
	if last, ok := m.run.Last(); ok {
		segments = append(segments, fmt.Sprintf("Last %.1f WPM · %.1f%%", last.WPM, last.Accuracy))
	}
	if m.run.Len() > 1 {
		wpm, acc := m.run.Totals()
		segments = append(segments, fmt.Sprintf("Run %.1f WPM · %.1f%%", wpm, acc))
	}
	if m.notice != "" {
		segments = append(segments, m.notice)
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}

func (m *Model) renderResult() string {
	res, ok := m.run.Last()
	if !ok {
		return ""
	}
	lines := []string{
		cardTitleStyle.Render(strings.ToUpper(string(res.Outcome))),
		fmt.Sprintf("WPM %.1f   Raw %.1f", res.WPM, res.RawWPM),
		fmt.Sprintf("Accuracy %.1f%%   Raw %.1f%%", res.Accuracy, res.RawAccuracy),
		fmt.Sprintf("Errors %d   Time %s", res.Incorrect, formatElapsed(res.Duration)),
	}
	return cardStyle.Render(strings.Join(lines, "\n"))
}

func formatElapsed(d time.Duration) string {
	d = d.Round(time.Second)
	minutes := int(d / time.Minute)
	seconds := int((d % time.Minute) / time.Second)
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

func weakString(set map[rune]struct{}) string {
	runes := make([]rune, 0, len(set))
	for r := range set {
		runes = append(runes, r)
	}
	slices.Sort(runes)
	return string(runes)
}
