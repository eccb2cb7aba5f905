package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-intake/pkg/steps"
	"github.com/goliatone/go-intake/pkg/validation"
)

// ErrInvalidAnswers is returned when validate finds failing fields, so the
// process exits non-zero.
var ErrInvalidAnswers = errors.New("answers failed validation")

// Validate returns the command that checks saved answers against a step.
func Validate(g *globals) *cobra.Command {
	var (
		answersPath string
		stepID      string
		conditional bool
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate saved answers against a step's rules",
		Long: `Validate reads answers from a JSON or YAML file and checks them against
the rules of a step. Each failing field is printed with its message and the
command exits with status 1.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			gen, err := g.orchestrator(conditional)
			if err != nil {
				return err
			}
			step, err := gen.Step(stepID)
			if err != nil {
				return err
			}
			answers, err := readAnswers(answersPath)
			if err != nil {
				return err
			}

			for _, issue := range validation.CheckAnswers(answers, step.Rules).Issues {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", issue.Error())
			}

			result, err := gen.Validate(step.ID, answers)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if result.Valid {
				fmt.Fprintf(out, "%s: valid\n", step.ID)
				return nil
			}
			fmt.Fprintf(out, "%s: %d field(s) need attention\n", step.ID, len(result.Errors))
			for _, field := range result.Errors.Fields() {
				fmt.Fprintf(out, "  %s: %s\n", field, result.Errors[field])
			}
			return ErrInvalidAnswers
		},
	}

	cmd.Flags().StringVar(&answersPath, "answers", "", "answers file (.json, .yaml or .yml)")
	cmd.Flags().StringVar(&stepID, "step", steps.MedicalHistoryID, "step to validate against")
	cmd.Flags().BoolVar(&conditional, "conditional-details", false, "require Yes/No details only after a Yes")
	_ = cmd.MarkFlagRequired("answers")

	return cmd
}
