// Package interview holds the state of one interview attempt, from the
// profession/position selection through questions to the feedback report.
package interview

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/interview-coach/internal/ai"
	"github.com/spigell/interview-coach/internal/catalog"
	"github.com/spigell/interview-coach/internal/logger"
)

// Step is the screen the session is currently on.
type Step string

const (
	StepSelection Step = "selection"
	StepQuestions Step = "questions"
	StepFeedback  Step = "feedback"
)

var (
	// ErrIncompleteSelection is returned when a profession or a position is missing.
	ErrIncompleteSelection = errors.New("profession or position is not selected")
	// ErrNoProfession is returned when a position is chosen before a profession.
	ErrNoProfession = errors.New("profession is not selected")
	ErrAnswerIndex  = errors.New("answer index out of range")
	// ErrAnswersLocked is returned when answers change after feedback was produced.
	ErrAnswersLocked = errors.New("answers can not change after feedback")
	// ErrStaleSession is returned when the session was reset while a generator was running.
	ErrStaleSession = errors.New("session was reset during generation")
)

// State is a snapshot of the session. Exactly one of SelectedProfession and
// CustomProfession is set once a profession was chosen; the same holds for
// positions. Answers always has the length of Questions.
type State struct {
	ID                 string
	CurrentStep        Step
	SelectedProfession *catalog.Profession
	CustomProfession   string
	SelectedPosition   *catalog.Position
	CustomPosition     string
	Questions          []ai.Question
	Answers            []string
	Feedback           *ai.Feedback
}

// Session is safe for concurrent use. Generators run without holding the
// lock; results of a generation that started before Reset are discarded.
type Session struct {
	mu    sync.Mutex
	state State

	questions ai.QuestionGenerator
	feedback  ai.FeedbackGenerator
	logger    *zap.Logger
}

func NewSession(questions ai.QuestionGenerator, feedback ai.FeedbackGenerator, log *zap.Logger) *Session {
	log = logger.OrNop(log)

	return &Session{
		state:     initialState(),
		questions: questions,
		feedback:  feedback,
		logger:    log,
	}
}

func initialState() State {
	return State{
		ID:          uuid.NewString(),
		CurrentStep: StepSelection,
		Questions:   []ai.Question{},
		Answers:     []string{},
	}
}

// State returns a deep copy of the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// SelectProfession picks a cataloged profession, dropping any custom
// profession and every position choice.
func (s *Session) SelectProfession(p catalog.Profession) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.Positions = append([]catalog.Position(nil), p.Positions...)
	s.state.SelectedProfession = &p
	s.state.CustomProfession = ""
	s.clearPosition()

	s.log().Debug("profession selected", zap.String(logger.FieldProfession, p.ID))
}

// SelectCustomProfession picks a free-text profession. The name must not be
// empty and must not repeat a cataloged profession.
func (s *Session) SelectCustomProfession(name string) error {
	name, err := catalog.ValidateCustomName(name, catalog.ProfessionNames())
	if err != nil {
		return fmt.Errorf("custom profession: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.SelectedProfession = nil
	s.state.CustomProfession = name
	s.clearPosition()

	s.log().Debug("custom profession selected", zap.String(logger.FieldProfession, catalog.CustomID(name)))
	return nil
}

// SelectPosition picks a cataloged position, dropping any custom position.
func (s *Session) SelectPosition(p catalog.Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasProfession() {
		return ErrNoProfession
	}

	s.state.SelectedPosition = &p
	s.state.CustomPosition = ""

	s.log().Debug("position selected", zap.String(logger.FieldPosition, p.ID))
	return nil
}

// SelectCustomPosition picks a free-text position. For a cataloged profession
// the name must not repeat one of its positions.
func (s *Session) SelectCustomPosition(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasProfession() {
		return ErrNoProfession
	}

	var existing []string
	if s.state.SelectedProfession != nil {
		existing = s.state.SelectedProfession.PositionNames()
	}

	name, err := catalog.ValidateCustomName(name, existing)
	if err != nil {
		return fmt.Errorf("custom position: %w", err)
	}

	s.state.SelectedPosition = nil
	s.state.CustomPosition = name

	s.log().Debug("custom position selected", zap.String(logger.FieldPosition, catalog.CustomID(name)))
	return nil
}

// BeginQuestions generates questions for the current selection and moves to
// the questions step with one empty answer per question. Without a complete
// selection it returns ErrIncompleteSelection and changes nothing.
func (s *Session) BeginQuestions(ctx context.Context) error {
	s.mu.Lock()
	professionID, positionID, ok := s.selectionIDs()
	id := s.state.ID
	s.mu.Unlock()

	if !ok {
		return ErrIncompleteSelection
	}

	questions := s.questions.Generate(ctx, professionID, positionID)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.ID != id {
		s.log().Warn("discarding questions of a reset session", zap.String("generation", id))
		return ErrStaleSession
	}

	s.state.Questions = append([]ai.Question(nil), questions...)
	s.state.Answers = make([]string, len(questions))
	s.state.Feedback = nil
	s.state.CurrentStep = StepQuestions

	s.log().Info("interview started",
		zap.String(logger.FieldProfession, professionID),
		zap.String(logger.FieldPosition, positionID),
		zap.Int("questions", len(questions)),
	)
	return nil
}

// SetAnswer overwrites the answer at index.
func (s *Session) SetAnswer(index int, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.CurrentStep == StepFeedback {
		return ErrAnswersLocked
	}
	if index < 0 || index >= len(s.state.Answers) {
		return fmt.Errorf("%w: %d of %d", ErrAnswerIndex, index, len(s.state.Answers))
	}

	s.state.Answers[index] = text
	return nil
}

// SubmitAnswers evaluates the answers and moves to the feedback step. Without
// a complete selection it returns ErrIncompleteSelection and changes nothing.
func (s *Session) SubmitAnswers(ctx context.Context) error {
	s.mu.Lock()
	professionID, positionID, ok := s.selectionIDs()
	id := s.state.ID
	questions := append([]ai.Question(nil), s.state.Questions...)
	answers := append([]string(nil), s.state.Answers...)
	s.mu.Unlock()

	if !ok {
		return ErrIncompleteSelection
	}

	report := s.feedback.Generate(ctx, professionID, positionID, questions, answers)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.ID != id {
		s.log().Warn("discarding feedback of a reset session", zap.String("generation", id))
		return ErrStaleSession
	}

	s.state.Feedback = report
	s.state.CurrentStep = StepFeedback

	s.log().Info("feedback ready", zap.Int("score", report.OverallScore))
	return nil
}

// Reset discards everything and starts a new generation.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous := s.state.ID
	s.state = initialState()

	s.logger.Debug("session reset", zap.String("previous", previous), zap.String(logger.FieldSession, s.state.ID))
}

// ProfessionID returns the cataloged id or the id derived from the custom name.
func (s *Session) ProfessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, _, _ := s.selectionIDs()
	return id
}

// PositionID returns the cataloged id or the id derived from the custom name.
func (s *Session) PositionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, id, _ := s.selectionIDs()
	return id
}

func (s *Session) clearPosition() {
	s.state.SelectedPosition = nil
	s.state.CustomPosition = ""
}

func (s *Session) hasProfession() bool {
	return s.state.SelectedProfession != nil || s.state.CustomProfession != ""
}

// selectionIDs must be called with the lock held.
func (s *Session) selectionIDs() (string, string, bool) {
	var professionID, positionID string

	switch {
	case s.state.SelectedProfession != nil:
		professionID = s.state.SelectedProfession.ID
	case s.state.CustomProfession != "":
		professionID = catalog.CustomID(s.state.CustomProfession)
	}

	switch {
	case s.state.SelectedPosition != nil:
		positionID = s.state.SelectedPosition.ID
	case s.state.CustomPosition != "":
		positionID = catalog.CustomID(s.state.CustomPosition)
	}

	return professionID, positionID, professionID != "" && positionID != ""
}

func (s *Session) log() *zap.Logger {
	return logger.WithSession(s.logger, s.state.ID)
}

func (st State) clone() State {
	out := st

	if st.SelectedProfession != nil {
		p := *st.SelectedProfession
		p.Positions = append([]catalog.Position(nil), p.Positions...)
		out.SelectedProfession = &p
	}
	if st.SelectedPosition != nil {
		p := *st.SelectedPosition
		out.SelectedPosition = &p
	}

	out.Questions = append([]ai.Question{}, st.Questions...)
	out.Answers = append([]string{}, st.Answers...)

	if st.Feedback != nil {
		f := *st.Feedback
		f.Strengths = append([]string(nil), f.Strengths...)
		f.Weaknesses = append([]string(nil), f.Weaknesses...)
		out.Feedback = &f
	}

	return out
}
