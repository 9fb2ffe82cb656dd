// Package questions produces interview questions for a profession/position
// pair, degrading from remote generation to a fixed table and finally to a
// generic default pair.
package questions

import (
	"context"
	"strconv"
	"strings"

	_ "embed"

	"go.uber.org/zap"

	"github.com/spigell/interview-coach/internal/ai"
	"github.com/spigell/interview-coach/internal/catalog"
	"github.com/spigell/interview-coach/internal/chain"
	"github.com/spigell/interview-coach/internal/logger"
)

const (
	DefaultCount = 2

	systemPrompt = "Sen profesyonel bir mülakat koçusun. Verilen meslek ve pozisyona göre mülakat soruları üretiyorsun."
)

//go:embed prompt.md
var promptTemplate string

type request struct {
	professionID string
	positionID   string
}

// Generator implements ai.QuestionGenerator.
type Generator struct {
	completer ai.Completer
	count     int
	logger    *zap.Logger
	steps     []chain.Strategy[request, []ai.Question]
}

// New builds a generator. A nil completer disables the remote step.
func New(completer ai.Completer, count int, log *zap.Logger) *Generator {
	if count <= 0 {
		count = DefaultCount
	}
	log = logger.OrNop(log)

	g := &Generator{
		completer: completer,
		count:     count,
		logger:    log,
	}

	g.steps = []chain.Strategy[request, []ai.Question]{
		chain.Func[request, []ai.Question]{Cap: chain.RemoteGenerate, Fn: g.remote},
		chain.Func[request, []ai.Question]{Cap: chain.StaticTable, Fn: fromTable},
		chain.Func[request, []ai.Question]{Cap: chain.HardCodedDefault, Fn: fromDefaults},
	}

	log.Debug("question chain ready",
		zap.Any("steps", chain.Capabilities(g.steps)),
		zap.Bool("remote", completer != nil),
	)

	return g
}

// Generate always returns a non-empty list.
func (g *Generator) Generate(ctx context.Context, professionID, positionID string) []ai.Question {
	log := logger.WithFields(g.logger, logger.SelectionFields(professionID, positionID)...)

	list, capability, err := chain.Run(ctx, log, g.steps, request{professionID: professionID, positionID: positionID})
	if err != nil {
		log.Error("question generation failed, using defaults", zap.Error(err))
		return Defaults()
	}

	log.Info("questions generated",
		zap.String("capability", string(capability)),
		zap.Int("count", len(list)),
	)

	return list
}

func (g *Generator) remote(ctx context.Context, req request) ([]ai.Question, error) {
	if g.completer == nil {
		return nil, chain.ErrNotApplicable
	}
	if !catalog.IsCustom(req.professionID) && !catalog.IsCustom(req.positionID) {
		return nil, chain.ErrNotApplicable
	}

	profession, position := catalog.TitleFor(req.professionID, req.positionID)

	raw, err := g.completer.Complete(ctx, systemPrompt, buildPrompt(profession, position, g.count))
	if err != nil {
		return nil, err
	}

	return ParseQuestionList(raw, g.count)
}

func fromTable(_ context.Context, req request) ([]ai.Question, error) {
	if list, ok := Lookup(req.professionID, req.positionID); ok {
		return list, nil
	}
	return nil, chain.ErrNotApplicable
}

func fromDefaults(context.Context, request) ([]ai.Question, error) {
	return Defaults(), nil
}

func buildPrompt(profession, position string, count int) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "{{PROFESSION}} alanında {{POSITION}} pozisyonu için {{COUNT}} adet mülakat sorusu oluştur."
	}
	prompt := strings.ReplaceAll(template, "{{PROFESSION}}", profession)
	prompt = strings.ReplaceAll(prompt, "{{POSITION}}", position)
	prompt = strings.ReplaceAll(prompt, "{{COUNT}}", strconv.Itoa(count))
	return prompt
}
