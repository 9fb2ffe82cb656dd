package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/interview-coach/internal/catalog"
	"github.com/spigell/interview-coach/internal/interview"
	"github.com/spigell/interview-coach/internal/logger"
	"github.com/spigell/interview-coach/internal/tts"
)

const (
	PromptYes      = "Evet"
	PromptNo       = "Hayır"
	PromptCustom   = "Diğer (kendiniz yazın)"
	PromptBack     = "Geri"
	PromptExit     = "Çıkış"
	PromptAnswer   = "Cevapla"
	PromptListen   = "Soruyu dinle"
	PromptPrevious = "Önceki soru"
	PromptNext     = "Sonraki soru"
	PromptSubmit   = "Cevapları gönder"
	PromptRestart  = "Baştan başla"
	PromptToStart  = "Seçim ekranına dön"
	PromptNewRound = "Yeni mülakat"

	msgNoSelection = "Hata: Meslek veya pozisyon seçilmemiş."
	msgNoFeedback  = "Hata: Henüz geri bildirim oluşturulmamış."
	msgAnswerFirst = "Lütfen soruyu cevaplayınız."
)

var errExit = errors.New("exit requested")

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start an interactive interview",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Bool("speak", false, "read questions aloud (overrides tts.enabled)")
	runCmd.Flags().IntP("questions", "n", 0, "number of questions for custom selections (overrides interview.question-count)")

	viper.BindPFlag("tts.enabled", runCmd.Flags().Lookup("speak"))
}

// coach drives one interactive session through its three screens.
type coach struct {
	session *interview.Session
	speaker *tts.Azure
	out     io.Writer
	logger  *zap.Logger
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	l, config := setup()

	if n, _ := cmd.Flags().GetInt("questions"); n > 0 {
		config.Interview.QuestionCount = n
	}

	l.Info("starting the interview-coach", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	l.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	questionGen, feedbackGen := newGenerators(ctx, config, l)

	var speaker *tts.Azure
	if config.TTS.Enabled {
		s, err := newSynthesizer(config.TTS, l)
		if err != nil {
			l.Warn("text to speech disabled", zap.Error(err))
		} else {
			speaker = s
		}
	}

	session := interview.NewSession(questionGen, feedbackGen, l.Named("session"))
	c := &coach{session: session, speaker: speaker, out: cmd.OutOrStdout(), logger: l}

	if err := c.loop(ctx); err != nil && !errors.Is(err, errExit) {
		l.Fatal("exiting", zap.Error(err))
	}

	l.Info("exiting", zap.String("reason", "user request"))
}

func (c *coach) loop(ctx context.Context) error {
	for {
		var err error
		switch c.session.State().CurrentStep {
		case interview.StepSelection:
			err = c.selectionScreen(ctx)
		case interview.StepQuestions:
			err = c.questionsScreen(ctx)
		case interview.StepFeedback:
			err = c.feedbackScreen()
		}

		if err != nil {
			if isPromptAbort(err) {
				return errExit
			}
			return err
		}
	}
}

func (c *coach) selectionScreen(ctx context.Context) error {
	professions := catalog.List()

	items := make([]string, 0, len(professions)+2)
	for _, p := range professions {
		items = append(items, p.Title)
	}
	items = append(items, PromptCustom, PromptExit)

	idx, choice, err := (&promptui.Select{Label: "Meslek grubunu seçin", Items: items, Size: len(items)}).Run()
	if err != nil {
		return err
	}

	switch choice {
	case PromptExit:
		return errExit
	case PromptCustom:
		name, err := askName("Meslek grubu", catalog.ProfessionNames())
		if err != nil {
			return err
		}
		if err := c.session.SelectCustomProfession(name); err != nil {
			fmt.Fprintf(c.out, "Hata: %s\n", err)
			return nil
		}
	default:
		c.session.SelectProfession(professions[idx])
	}

	back, err := c.positionStep()
	if err != nil || back {
		return err
	}

	return c.begin(ctx)
}

// positionStep asks for a position. back reports that the user wants to pick
// another profession.
func (c *coach) positionStep() (bool, error) {
	st := c.session.State()

	var positions []catalog.Position
	var existing []string
	if st.SelectedProfession != nil {
		positions = st.SelectedProfession.Positions
		existing = st.SelectedProfession.PositionNames()
	}

	items := make([]string, 0, len(positions)+2)
	for _, p := range positions {
		items = append(items, p.Title)
	}
	items = append(items, PromptCustom, PromptBack)

	idx, choice, err := (&promptui.Select{Label: "Pozisyonu seçin", Items: items, Size: len(items)}).Run()
	if err != nil {
		return false, err
	}

	switch choice {
	case PromptBack:
		return true, nil
	case PromptCustom:
		name, err := askName("Pozisyon", existing)
		if err != nil {
			return false, err
		}
		if err := c.session.SelectCustomPosition(name); err != nil {
			fmt.Fprintf(c.out, "Hata: %s\n", err)
			return true, nil
		}
	default:
		if err := c.session.SelectPosition(positions[idx]); err != nil {
			return false, err
		}
	}

	return false, nil
}

func (c *coach) begin(ctx context.Context) error {
	fmt.Fprintln(c.out, "Sorular hazırlanıyor...")

	err := c.session.BeginQuestions(ctx)
	switch {
	case errors.Is(err, interview.ErrIncompleteSelection):
		fmt.Fprintln(c.out, msgNoSelection)
		return nil
	case errors.Is(err, interview.ErrStaleSession):
		return nil
	default:
		return err
	}
}

func (c *coach) questionsScreen(ctx context.Context) error {
	st := c.session.State()
	if blocked := questionsBlocked(st); blocked != "" {
		return c.errorScreen(blocked)
	}

	log := logger.WithSession(c.logger, st.ID)
	total := len(st.Questions)
	current := 0

	for {
		st = c.session.State()
		if st.CurrentStep != interview.StepQuestions {
			return nil
		}

		renderQuestion(c.out, st, current)

		_, action, err := (&promptui.Select{
			Label: "Ne yapmak istersiniz?",
			Items: questionActions(current, total, c.speaker != nil),
		}).Run()
		if err != nil {
			return err
		}

		switch action {
		case PromptAnswer:
			answer, err := (&promptui.Prompt{
				Label:     fmt.Sprintf("Cevap %d", current+1),
				Default:   st.Answers[current],
				AllowEdit: true,
			}).Run()
			if err != nil {
				return err
			}
			if err := c.session.SetAnswer(current, strings.TrimSpace(answer)); err != nil {
				return err
			}
		case PromptListen:
			path, err := c.speaker.Synthesize(ctx, st.Questions[current].Question, "", "")
			if err != nil {
				log.Warn("synthesizing question", zap.Error(err))
				fmt.Fprintln(c.out, "Ses dosyası oluşturulamadı.")
				continue
			}
			fmt.Fprintf(c.out, "Ses dosyası: %s\n", path)
		case PromptPrevious:
			current--
		case PromptNext:
			if strings.TrimSpace(st.Answers[current]) == "" {
				fmt.Fprintln(c.out, msgAnswerFirst)
				continue
			}
			current++
		case PromptSubmit:
			if strings.TrimSpace(st.Answers[current]) == "" {
				fmt.Fprintln(c.out, msgAnswerFirst)
				continue
			}
			if !confirm("Cevaplarınızı göndermek istediğinize emin misiniz?") {
				continue
			}
			fmt.Fprintln(c.out, "Cevaplarınız değerlendiriliyor...")
			err := c.session.SubmitAnswers(ctx)
			switch {
			case errors.Is(err, interview.ErrIncompleteSelection):
				return c.errorScreen(msgNoSelection)
			case errors.Is(err, interview.ErrStaleSession):
				return nil
			default:
				return err
			}
		case PromptRestart:
			c.session.Reset()
			return nil
		}
	}
}

func (c *coach) feedbackScreen() error {
	st := c.session.State()
	if st.Feedback == nil {
		return c.errorScreen(msgNoFeedback)
	}

	renderFeedback(c.out, st.Feedback)

	_, action, err := (&promptui.Select{Label: "Ne yapmak istersiniz?", Items: []string{PromptNewRound, PromptExit}}).Run()
	if err != nil {
		return err
	}

	if action == PromptExit {
		return errExit
	}

	c.session.Reset()
	return nil
}

// errorScreen shows message with the single way out: back to selection.
func (c *coach) errorScreen(message string) error {
	fmt.Fprintln(c.out, message)

	if _, _, err := (&promptui.Select{Label: "Devam", Items: []string{PromptToStart}}).Run(); err != nil {
		return err
	}

	c.session.Reset()
	return nil
}

func askName(label string, existing []string) (string, error) {
	p := promptui.Prompt{
		Label: label,
		Validate: func(input string) error {
			_, err := catalog.ValidateCustomName(input, existing)
			return err
		},
	}
	return p.Run()
}

func confirm(label string) bool {
	_, answer, err := (&promptui.Select{Label: label, Items: []string{PromptYes, PromptNo}}).Run()
	return err == nil && answer == PromptYes
}

func isPromptAbort(err error) bool {
	return errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) || errors.Is(err, errExit)
}
