package service

import (
	"context"
	"fmt"
	"sync"

	"relic-server/internal/content"
	"relic-server/internal/engine"
	"relic-server/internal/models"
	"relic-server/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PlayService runs story play sessions: it loads and validates content,
// keeps the per-session engine state, and serializes access to it. Sessions
// live in memory only and die with the process or on EndSession; story
// progress is deliberately not persisted.
type PlayService interface {
	StartSession(ctx context.Context, storyID uuid.UUID) (uuid.UUID, engine.View, error)
	CurrentView(sessionID uuid.UUID) (engine.View, error)
	Advance(sessionID uuid.UUID) (engine.StepResult, engine.View, error)
	Retreat(sessionID uuid.UUID) (engine.StepResult, engine.View, error)
	ActivateInteraction(sessionID uuid.UUID, pointID string) (engine.ActivationOutcome, engine.View, error)
	SelectChoice(sessionID uuid.UUID, optionIndex int) (*engine.ChoiceResult, error)
	ToggleQuizOption(sessionID uuid.UUID, optionIndex int) ([]int, error)
	SubmitQuiz(sessionID uuid.UUID) (*engine.QuizResult, engine.SubmitStatus, error)
	CompleteSubDialog(sessionID uuid.UUID) (engine.View, error)
	UpdateDisplay(sessionID uuid.UUID, o engine.Orientation, ext engine.Extents) error
	History(sessionID uuid.UUID) ([]engine.HistoryEntry, error)
	EndSession(sessionID uuid.UUID) error
}

// playSession serializes all engine access for one session. The engine
// assumes a single caller at a time; over HTTP that becomes one mutex per
// session.
type playSession struct {
	mu      sync.Mutex
	session *engine.Session
}

type playServiceImpl struct {
	stories   repository.StoryRepository
	validator *content.Validator
	events    EventPublisher
	logger    *zap.Logger

	mu       sync.RWMutex
	sessions map[uuid.UUID]*playSession
}

func NewPlayService(stories repository.StoryRepository, validator *content.Validator, events EventPublisher, logger *zap.Logger) PlayService {
	if events == nil {
		events = NopEventPublisher{}
	}
	return &playServiceImpl{
		stories:   stories,
		validator: validator,
		events:    events,
		logger:    logger.Named("PlayService"),
		sessions:  make(map[uuid.UUID]*playSession),
	}
}

// StartSession loads the story, validates it, and begins at the first scene
// with the dialog cursor at 0. An unknown story id is a failed session
// start surfaced to the host.
func (s *playServiceImpl) StartSession(ctx context.Context, storyID uuid.UUID) (uuid.UUID, engine.View, error) {
	log := s.logger.With(zap.String("storyID", storyID.String()))

	rec, err := s.stories.GetByID(ctx, storyID)
	if err != nil {
		return uuid.Nil, engine.View{}, fmt.Errorf("failed to load story for session: %w", err)
	}

	story, err := content.FromRecord(rec)
	if err != nil {
		metricContentRejected.Inc()
		log.Error("Story content failed to decode", zap.Error(err))
		return uuid.Nil, engine.View{}, err
	}
	if err := s.validator.Validate(story); err != nil {
		metricContentRejected.Inc()
		log.Error("Story content failed validation", zap.Error(err))
		return uuid.Nil, engine.View{}, err
	}

	sessionID := uuid.New()
	session := engine.NewSession(sessionID, story, s.logger)

	s.mu.Lock()
	s.sessions[sessionID] = &playSession{session: session}
	s.mu.Unlock()

	metricSessionsStarted.Inc()
	log.Info("Play session started",
		zap.String("sessionID", sessionID.String()),
		zap.String("title", story.Title),
	)
	return sessionID, session.Current(), nil
}

func (s *playServiceImpl) CurrentView(sessionID uuid.UUID) (engine.View, error) {
	ps, err := s.get(sessionID)
	if err != nil {
		return engine.View{}, err
	}
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return ps.session.Current(), nil
}

func (s *playServiceImpl) Advance(sessionID uuid.UUID) (engine.StepResult, engine.View, error) {
	ps, err := s.get(sessionID)
	if err != nil {
		return "", engine.View{}, err
	}
	ps.mu.Lock()
	defer ps.mu.Unlock()

	result := ps.session.Advance()
	view := ps.session.Current()
	if result == engine.StepAdvanced {
		s.events.PublishSessionEvent(SessionEvent{
			SessionID: sessionID,
			Type:      EventDialogAdvanced,
			Payload:   view,
		})
	}
	return result, view, nil
}

func (s *playServiceImpl) Retreat(sessionID uuid.UUID) (engine.StepResult, engine.View, error) {
	ps, err := s.get(sessionID)
	if err != nil {
		return "", engine.View{}, err
	}
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return ps.session.Retreat(), ps.session.Current(), nil
}

func (s *playServiceImpl) ActivateInteraction(sessionID uuid.UUID, pointID string) (engine.ActivationOutcome, engine.View, error) {
	ps, err := s.get(sessionID)
	if err != nil {
		return "", engine.View{}, err
	}
	ps.mu.Lock()
	defer ps.mu.Unlock()

	outcome, err := ps.session.ActivateInteraction(pointID)
	if err != nil {
		// Content-integrity failure: the session stays on its current,
		// valid state and the client is told nothing changed.
		return "", ps.session.Current(), err
	}

	view := ps.session.Current()
	switch outcome {
	case engine.ActivationSceneChanged:
		metricSceneTransitions.Inc()
		s.events.PublishSessionEvent(SessionEvent{SessionID: sessionID, Type: EventSceneChanged, Payload: view})
	case engine.ActivationDialogOpened:
		s.events.PublishSessionEvent(SessionEvent{SessionID: sessionID, Type: EventSubDialogOpened, Payload: view.SubDialog})
	case engine.ActivationInert:
		s.events.PublishSessionEvent(SessionEvent{SessionID: sessionID, Type: EventInteractionInert, Payload: pointID})
	}
	return outcome, view, nil
}

func (s *playServiceImpl) SelectChoice(sessionID uuid.UUID, optionIndex int) (*engine.ChoiceResult, error) {
	ps, err := s.get(sessionID)
	if err != nil {
		return nil, err
	}
	ps.mu.Lock()
	defer ps.mu.Unlock()

	result, err := ps.session.SelectChoice(optionIndex)
	if err == nil {
		s.events.PublishSessionEvent(SessionEvent{SessionID: sessionID, Type: EventChoiceSelected, Payload: result})
	}
	return result, err
}

func (s *playServiceImpl) ToggleQuizOption(sessionID uuid.UUID, optionIndex int) ([]int, error) {
	ps, err := s.get(sessionID)
	if err != nil {
		return nil, err
	}
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if _, err := ps.session.ToggleQuizOption(optionIndex); err != nil {
		return nil, err
	}
	sub := ps.session.Current().SubDialog
	if sub == nil {
		return nil, models.ErrNoActiveSubDialog
	}
	return sub.Selected, nil
}

func (s *playServiceImpl) SubmitQuiz(sessionID uuid.UUID) (*engine.QuizResult, engine.SubmitStatus, error) {
	ps, err := s.get(sessionID)
	if err != nil {
		return nil, "", err
	}
	ps.mu.Lock()
	defer ps.mu.Unlock()

	result, status, err := ps.session.SubmitQuiz()
	if err != nil {
		return nil, "", err
	}
	metricQuizSubmissions.WithLabelValues(string(status)).Inc()
	if status == engine.SubmitAccepted {
		s.events.PublishSessionEvent(SessionEvent{SessionID: sessionID, Type: EventQuizSubmitted, Payload: result})
	}
	return result, status, nil
}

func (s *playServiceImpl) CompleteSubDialog(sessionID uuid.UUID) (engine.View, error) {
	ps, err := s.get(sessionID)
	if err != nil {
		return engine.View{}, err
	}
	ps.mu.Lock()
	defer ps.mu.Unlock()

	ps.session.CompleteSubDialog()
	view := ps.session.Current()
	s.events.PublishSessionEvent(SessionEvent{SessionID: sessionID, Type: EventSubDialogClosed, Payload: view})
	return view, nil
}

func (s *playServiceImpl) UpdateDisplay(sessionID uuid.UUID, o engine.Orientation, ext engine.Extents) error {
	ps, err := s.get(sessionID)
	if err != nil {
		return err
	}
	ps.mu.Lock()
	defer ps.mu.Unlock()

	ps.session.UpdateDisplay(o, ext)
	s.events.PublishSessionEvent(SessionEvent{SessionID: sessionID, Type: EventDisplayUpdated, Payload: ps.session.Current()})
	return nil
}

func (s *playServiceImpl) History(sessionID uuid.UUID) ([]engine.HistoryEntry, error) {
	ps, err := s.get(sessionID)
	if err != nil {
		return nil, err
	}
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return ps.session.History(), nil
}

// EndSession discards the session state. Idempotent: ending an unknown
// session reports ErrSessionNotFound but leaves nothing dangling.
func (s *playServiceImpl) EndSession(sessionID uuid.UUID) error {
	s.mu.Lock()
	_, ok := s.sessions[sessionID]
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	if !ok {
		return models.ErrSessionNotFound
	}
	metricSessionsEnded.Inc()
	s.events.PublishSessionEvent(SessionEvent{SessionID: sessionID, Type: EventSessionEnded})
	s.logger.Info("Play session ended", zap.String("sessionID", sessionID.String()))
	return nil
}

func (s *playServiceImpl) get(sessionID uuid.UUID) (*playSession, error) {
	s.mu.RLock()
	ps, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, models.ErrSessionNotFound
	}
	return ps, nil
}
