package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spigell/interview-coach/internal/catalog"
	"github.com/spigell/interview-coach/internal/interview"
	"github.com/spigell/interview-coach/internal/logger"
)

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "Print interview questions for a profession and a position",
	Example: `  interview-coach questions --profession tech --position backend-developer
  interview-coach questions --custom-profession "Havacılık" --custom-position "Pilot"`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		l, config := setup()

		if n, _ := cmd.Flags().GetInt("count"); n > 0 {
			config.Interview.QuestionCount = n
		}

		questionGen, feedbackGen := newGenerators(cmd.Context(), config, l)
		session := interview.NewSession(questionGen, feedbackGen, l.Named("session"))

		if err := applySelection(cmd, session); err != nil {
			return err
		}

		if err := session.BeginQuestions(cmd.Context()); err != nil {
			if errors.Is(err, interview.ErrIncompleteSelection) {
				return errors.New(msgNoSelection)
			}
			return err
		}

		l.Debug("questions ready", logger.SelectionFields(session.ProfessionID(), session.PositionID())...)
		renderQuestions(cmd.OutOrStdout(), session.State().Questions)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(questionsCmd)

	questionsCmd.Flags().String("profession", "", "cataloged profession id (see the catalog command)")
	questionsCmd.Flags().String("position", "", "cataloged position id of the profession")
	questionsCmd.Flags().String("custom-profession", "", "free-text profession")
	questionsCmd.Flags().String("custom-position", "", "free-text position")
	questionsCmd.Flags().IntP("count", "n", 0, "number of questions for custom selections")

	questionsCmd.MarkFlagsMutuallyExclusive("profession", "custom-profession")
	questionsCmd.MarkFlagsMutuallyExclusive("position", "custom-position")
}

// applySelection feeds the selection flags into the session.
func applySelection(cmd *cobra.Command, session *interview.Session) error {
	professionID, _ := cmd.Flags().GetString("profession")
	positionID, _ := cmd.Flags().GetString("position")
	customProfession, _ := cmd.Flags().GetString("custom-profession")
	customPosition, _ := cmd.Flags().GetString("custom-position")

	return selectByIDs(session, professionID, positionID, customProfession, customPosition)
}

func selectByIDs(session *interview.Session, professionID, positionID, customProfession, customPosition string) error {
	var profession catalog.Profession
	switch {
	case customProfession != "":
		if err := session.SelectCustomProfession(customProfession); err != nil {
			return err
		}
	case professionID != "":
		p, ok := catalog.FindProfession(professionID)
		if !ok {
			return fmt.Errorf("unknown profession %q", professionID)
		}
		profession = p
		session.SelectProfession(p)
	default:
		return errors.New(msgNoSelection)
	}

	switch {
	case customPosition != "":
		return session.SelectCustomPosition(customPosition)
	case positionID != "":
		if profession.ID == "" {
			return fmt.Errorf("position %q needs a cataloged profession, use --custom-position", positionID)
		}
		pos, ok := profession.FindPosition(positionID)
		if !ok {
			return fmt.Errorf("unknown position %q for profession %q", positionID, profession.ID)
		}
		return session.SelectPosition(pos)
	default:
		return errors.New(msgNoSelection)
	}
}
