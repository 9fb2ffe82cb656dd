// Package feedback evaluates interview answers, remotely when a completer is
// configured and with a local heuristic otherwise.
package feedback

import (
	"context"
	"fmt"
	"strings"

	_ "embed"

	"go.uber.org/zap"

	"github.com/spigell/interview-coach/internal/ai"
	"github.com/spigell/interview-coach/internal/catalog"
	"github.com/spigell/interview-coach/internal/chain"
	"github.com/spigell/interview-coach/internal/logger"
)

const (
	systemPrompt = "Sen profesyonel bir mülakat koçusun. Mülakat cevaplarını değerlendiriyorsun."

	unanswered = "Cevap verilmedi"
)

//go:embed prompt.md
var promptTemplate string

type request struct {
	professionID string
	positionID   string
	questions    []ai.Question
	answers      []string
}

// Generator implements ai.FeedbackGenerator.
type Generator struct {
	completer ai.Completer
	logger    *zap.Logger
	steps     []chain.Strategy[request, *ai.Feedback]
}

// New builds a generator. A nil completer leaves only the local heuristic.
func New(completer ai.Completer, log *zap.Logger) *Generator {
	log = logger.OrNop(log)

	g := &Generator{completer: completer, logger: log}
	g.steps = []chain.Strategy[request, *ai.Feedback]{
		chain.Func[request, *ai.Feedback]{Cap: chain.RemoteGenerate, Fn: g.remote},
		chain.Func[request, *ai.Feedback]{Cap: chain.LocalHeuristic, Fn: heuristic},
	}

	log.Debug("feedback chain ready",
		zap.Any("steps", chain.Capabilities(g.steps)),
		zap.Bool("remote", completer != nil),
	)

	return g
}

// Generate always returns a report.
func (g *Generator) Generate(ctx context.Context, professionID, positionID string, questions []ai.Question, answers []string) *ai.Feedback {
	log := logger.WithFields(g.logger, logger.SelectionFields(professionID, positionID)...)

	req := request{
		professionID: professionID,
		positionID:   positionID,
		questions:    questions,
		answers:      answers,
	}

	report, capability, err := chain.Run(ctx, log, g.steps, req)
	if err != nil || report == nil {
		log.Error("feedback generation failed, using local evaluation", zap.Error(err))
		return Score(professionID, positionID, questions, answers)
	}

	log.Info("feedback generated",
		zap.String("capability", string(capability)),
		zap.Int("score", report.OverallScore),
	)

	return report
}

func (g *Generator) remote(ctx context.Context, req request) (*ai.Feedback, error) {
	if g.completer == nil || len(req.questions) == 0 {
		return nil, chain.ErrNotApplicable
	}

	profession, position := catalog.TitleFor(req.professionID, req.positionID)
	prompt := buildPrompt(profession, position, Transcript(req.questions, req.answers))

	raw, err := g.completer.Complete(ctx, systemPrompt, prompt)
	if err != nil {
		return nil, err
	}

	return ParseReport(raw)
}

func heuristic(_ context.Context, req request) (*ai.Feedback, error) {
	return Score(req.professionID, req.positionID, req.questions, req.answers), nil
}

// Transcript renders question/answer pairs as "Soru i: ...\nCevap i: ..."
// blocks separated by blank lines.
func Transcript(questions []ai.Question, answers []string) string {
	blocks := make([]string, 0, len(questions))
	for i, q := range questions {
		answer := unanswered
		if i < len(answers) && strings.TrimSpace(answers[i]) != "" {
			answer = strings.TrimSpace(answers[i])
		}
		blocks = append(blocks, fmt.Sprintf("Soru %d: %s\nCevap %d: %s", i+1, q.Question, i+1, answer))
	}
	return strings.Join(blocks, "\n\n")
}

func buildPrompt(profession, position, transcript string) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "{{PROFESSION}} alanında {{POSITION}} pozisyonu için cevapları değerlendir:\n\n{{TRANSCRIPT}}"
	}
	prompt := strings.ReplaceAll(template, "{{PROFESSION}}", profession)
	prompt = strings.ReplaceAll(prompt, "{{POSITION}}", position)
	prompt = strings.ReplaceAll(prompt, "{{TRANSCRIPT}}", transcript)
	return prompt
}
