// Package session models the client phase of a rendered page: one
// websocket connection per mounted document, driving the lifecycle
// initializer and the theme synchronizer.
package session

import (
	"fmt"
	"log/slog"
	"net/url"

	"github.com/google/uuid"

	"github.com/ziadkadry99/docshell/internal/events"
	"github.com/ziadkadry99/docshell/internal/experiments"
	"github.com/ziadkadry99/docshell/internal/lifecycle"
	"github.com/ziadkadry99/docshell/internal/page"
	"github.com/ziadkadry99/docshell/internal/theme"
)

// Message types.
const (
	TypeMount      = "mount"
	TypeNavigate   = "navigate"
	TypeTheme      = "theme"
	TypeSession    = "session"
	TypeAttributes = "attributes"
	TypeError      = "error"
)

// Message is sent by the client.
type Message struct {
	Type   string       `json:"type"`
	Path   string       `json:"path,omitempty"`
	Query  string       `json:"query,omitempty"`
	Locale string       `json:"locale,omitempty"`
	Page   *page.Props  `json:"page,omitempty"`
	Theme  *theme.State `json:"theme,omitempty"`
}

// Reply is sent to the client.
type Reply struct {
	Type        string            `json:"type"`
	SessionID   string            `json:"session_id"`
	Attributes  map[string]string `json:"attributes,omitempty"`
	Experiments map[string]string `json:"experiments,omitempty"`
	Features    []string          `json:"features,omitempty"`
	Error       string            `json:"error,omitempty"`
}

// Session is the state of one mounted document.
type Session struct {
	id          string
	store       *events.Store
	logger      *slog.Logger
	engine      *experiments.Engine
	initializer *lifecycle.Initializer
	root        *theme.Element
	sync        *theme.Synchronizer
	props       page.Props
}

// New creates a session whose document root was rendered with initial.
// store may be nil.
func New(store *events.Store, exps []experiments.Experiment, initial theme.State, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	id := uuid.New().String()

	var recorder experiments.Recorder
	if store != nil {
		recorder = store
	}

	root := theme.NewElement()
	sync := theme.NewSynchronizer(root)
	sync.Apply(initial)

	return &Session{
		id:     id,
		store:  store,
		logger: logger.With("session", id),
		engine: experiments.NewEngine(id, exps, recorder),
		root:   root,
		sync:   sync,
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Attributes returns the theme attributes currently on the document root.
func (s *Session) Attributes() map[string]string { return s.root.Map() }

// Handle applies one client message and returns the reply.
func (s *Session) Handle(msg Message) Reply {
	switch msg.Type {
	case TypeMount:
		return s.mount(msg)
	case TypeNavigate:
		return s.navigate(msg)
	case TypeTheme:
		return s.applyTheme(msg)
	default:
		return s.errorf("unknown message type: %s", msg.Type)
	}
}

func (s *Session) mount(msg Message) Reply {
	nav, err := navigation(msg)
	if err != nil {
		return s.errorf("%v", err)
	}
	if msg.Page != nil {
		s.props = *msg.Page
	}

	if s.initializer == nil {
		var analytics lifecycle.Analytics
		if s.store != nil {
			version := ""
			if mc := s.props.MainContext; mc != nil {
				version = mc.CurrentVersion
			}
			analytics = events.NewTracker(s.store, s.id, nav.Path, nav.Locale, version)
		}
		s.initializer = lifecycle.New(analytics, s.engine, s.logger)
	}

	s.initializer.Mount(nav.Locale, s.props)
	s.initializer.Navigate(nav, s.props)
	return s.sessionReply()
}

func (s *Session) navigate(msg Message) Reply {
	if s.initializer == nil {
		return s.errorf("session is not mounted")
	}
	nav, err := navigation(msg)
	if err != nil {
		return s.errorf("%v", err)
	}
	if msg.Page != nil {
		s.props = *msg.Page
	}
	s.initializer.Navigate(nav, s.props)
	return s.sessionReply()
}

// applyTheme only touches the document root; it never re-runs the
// lifecycle.
func (s *Session) applyTheme(msg Message) Reply {
	if msg.Theme == nil {
		return s.errorf("theme is required")
	}
	if !msg.Theme.Valid() {
		return s.errorf("unsupported theme")
	}
	if s.sync.Apply(*msg.Theme) {
		s.logger.Debug("theme changed", "color_mode", msg.Theme.CSS.ColorMode)
	}
	return Reply{
		Type:       TypeAttributes,
		SessionID:  s.id,
		Attributes: s.root.Map(),
	}
}

func (s *Session) sessionReply() Reply {
	return Reply{
		Type:        TypeSession,
		SessionID:   s.id,
		Experiments: s.engine.Assignments(),
		Features:    s.engine.Features(),
	}
}

func (s *Session) errorf(format string, args ...any) Reply {
	return Reply{
		Type:      TypeError,
		SessionID: s.id,
		Error:     fmt.Sprintf(format, args...),
	}
}

func navigation(msg Message) (lifecycle.Navigation, error) {
	query, err := url.ParseQuery(msg.Query)
	if err != nil {
		return lifecycle.Navigation{}, fmt.Errorf("invalid query: %w", err)
	}
	path := msg.Path
	if path == "" {
		path = "/"
	}
	return lifecycle.Navigation{Path: path, Query: query, Locale: msg.Locale}, nil
}
