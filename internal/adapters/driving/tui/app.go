package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/medrag/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/medrag/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/medrag/internal/adapters/driving/tui/components/transcript"
	"github.com/custodia-labs/medrag/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/medrag/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/medrag/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/medrag/internal/core/domain"
)

// chromeHeight is the rows taken by the header, input and status bar.
const chromeHeight = 6

// App is the consultation chat following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	config Config
	ctx    context.Context

	styles     *styles.Styles
	keymap     *keymap.KeyMap
	input      *input.QuestionInput
	transcript *transcript.Transcript
	status     *status.Bar

	// sessionID is empty until the first answer assigns one.
	sessionID string
	history   []domain.ConversationTurn

	// pending is true while a consultation is in flight.
	pending bool

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new chat application with the given ports.
func NewApp(ports *Ports, cfg Config) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:      ports,
		config:     cfg,
		ctx:        context.Background(),
		styles:     s,
		keymap:     km,
		input:      input.NewQuestionInput(s),
		transcript: transcript.New(s),
		status:     status.NewBar(s, km),
		sessionID:  cfg.SessionID,
	}, nil
}

// WithContext sets the context consultations run under.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.input.Init(), tea.SetWindowTitle("medrag")}
	if a.sessionID != "" {
		cmds = append(cmds, a.loadHistory(a.sessionID))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case messages.ConsultationCompleted:
		a.pending = false
		if msg.Err != nil {
			a.showError(msg.Err)
			return a, nil
		}
		a.record(msg.Query, msg.Result)
		return a, nil

	case messages.HistoryLoaded:
		if msg.Err != nil {
			a.showError(msg.Err)
			return a, nil
		}
		a.history = msg.Turns
		for _, turn := range msg.Turns {
			kind := transcript.KindAnswer
			if turn.Role == domain.RoleUser {
				kind = transcript.KindUser
			}
			a.transcript.Append(transcript.Entry{Kind: kind, Text: turn.Content})
		}
		return a, nil

	case messages.ErrorOccurred:
		a.showError(msg.Err)
		return a, nil
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch {
	case keymap.Matches(key, a.keymap.Quit):
		return a, tea.Quit

	case keymap.Matches(key, a.keymap.Send):
		query := strings.TrimSpace(a.input.Value())
		if query == "" || a.pending {
			return a, nil
		}
		a.input.Reset()
		a.pending = true
		a.status.SetState(status.StateConsulting)
		a.transcript.Append(transcript.Entry{Kind: transcript.KindUser, Text: query})
		return a, a.consult(query)

	case keymap.Matches(key, a.keymap.ScrollUp), keymap.Matches(key, a.keymap.ScrollDown):
		var cmd tea.Cmd
		a.transcript, cmd = a.transcript.Update(msg)
		return a, cmd

	case keymap.Matches(key, a.keymap.NewSession):
		if a.pending {
			return a, nil
		}
		a.sessionID = ""
		a.history = nil
		a.transcript.Reset()
		a.status.Clear()
		return a, nil
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// consult runs the consultation off the UI goroutine.
func (a *App) consult(query string) tea.Cmd {
	req := &domain.ConsultationRequest{
		UserID:    a.config.UserID,
		UserToken: a.config.UserToken,
		SessionID: a.sessionID,
		Query:     query,
		Profile:   a.config.Profile,
		History:   domain.LastTurns(a.history, domain.HistoryWindow),
		Agent:     a.config.Agent,
	}
	ctx := a.ctx
	svc := a.ports.Consultation

	return func() tea.Msg {
		result, err := svc.Consult(ctx, req)
		return messages.ConsultationCompleted{Query: query, Result: result, Err: err}
	}
}

func (a *App) loadHistory(sessionID string) tea.Cmd {
	ctx := a.ctx
	svc := a.ports.Consultation
	userID := a.config.UserID

	return func() tea.Msg {
		turns, err := svc.History(ctx, userID, sessionID)
		return messages.HistoryLoaded{SessionID: sessionID, Turns: turns, Err: err}
	}
}

func (a *App) record(query string, result *domain.ConsultationResult) {
	if result.SessionID != "" {
		a.sessionID = result.SessionID
	}
	a.history = append(a.history,
		domain.ConversationTurn{Role: domain.RoleUser, Content: query},
		domain.ConversationTurn{Role: domain.RoleAssistant, Content: result.Text},
	)
	a.transcript.Append(transcript.FromResult(result))

	a.status.Clear()
	a.status.SetAgent(string(result.AgentID))
	if result.Safety.EmergencyDetected {
		a.status.SetState(status.StateEmergency)
	}
}

func (a *App) showError(err error) {
	a.status.SetState(status.StateError)
	a.status.SetMessage(err.Error())
	a.transcript.Append(transcript.Entry{Kind: transcript.KindError, Text: err.Error()})
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Loading..."
	}

	header := a.styles.Title.Render("medrag") + a.styles.Muted.Render("  medical document consultation")
	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		a.transcript.View(),
		a.input.View(),
		a.status.View(),
	)
}

// SetDimensions resizes every component.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.input.SetWidth(width)
	a.status.SetWidth(width)
	a.transcript.SetSize(width, height-chromeHeight)
}

// SessionID returns the current session id.
func (a *App) SessionID() string {
	return a.sessionID
}

// History returns the turns of the current session.
func (a *App) History() []domain.ConversationTurn {
	return a.history
}

// Pending reports whether a consultation is in flight.
func (a *App) Pending() bool {
	return a.pending
}
