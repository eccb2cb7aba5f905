package commands

import (
	"fmt"
	"os"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-intake/pkg/metrics"
	"github.com/goliatone/go-intake/pkg/model"
	"github.com/goliatone/go-intake/pkg/renderers/tui"
	"github.com/goliatone/go-intake/pkg/steps"
	"github.com/goliatone/go-intake/pkg/wizard"
)

// newPromptDriver is replaced in tests.
var newPromptDriver = tui.NewDriver

// Prompt returns the command that runs steps interactively.
func Prompt(g *globals) *cobra.Command {
	var (
		driverName  string
		format      string
		stepIDs     []string
		answersPath string
		outputPath  string
		conditional bool
	)

	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Ask a wizard's questions in the terminal",
		Long: `Prompt walks the given steps in order. After each step choose Next to
submit the answers, which are re-asked until they pass validation, or Back to
return to the previous step. The validated answers are printed on completion.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if driverName == "" {
				driverName = g.cfg.Prompt.Driver
			}
			if format == "" {
				format = g.cfg.Output.Format
			}

			gen, err := g.orchestrator(conditional)
			if err != nil {
				return err
			}
			defs := make([]model.Step, 0, len(stepIDs))
			for _, id := range stepIDs {
				step, err := gen.Step(id)
				if err != nil {
					return err
				}
				defs = append(defs, step)
			}

			var initial model.AnswerSet
			if answersPath != "" {
				if initial, err = readAnswers(answersPath); err != nil {
					return err
				}
			}

			registry := prometheus.NewRegistry()
			recorder, err := metrics.NewRecorder(registry)
			if err != nil {
				return err
			}
			flow, err := wizard.New(defs,
				wizard.WithLogger(g.logger),
				wizard.WithRecorder(recorder),
				wizard.WithInitialValues(initial),
			)
			if err != nil {
				return err
			}

			driver, err := newPromptDriver(driverName, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			session, err := tui.NewSession(tui.WithPromptDriver(driver), tui.WithLogger(g.logger))
			if err != nil {
				return err
			}

			for !flow.Done() {
				step, _ := flow.Current()
				nav, err := flow.Navigator()
				if err != nil {
					return err
				}
				outcome, err := session.Drive(cmd.Context(), step, flow.Initial(), nav)
				if err != nil {
					return err
				}
				g.logger.V(1).Info("step finished", "step", step.ID, "outcome", string(outcome))
			}
			logCounters(g.logger, registry)

			out := cmd.OutOrStdout()
			if outputPath != "" {
				file, err := os.Create(outputPath)
				if err != nil {
					return fmt.Errorf("create %s: %w", outputPath, err)
				}
				defer file.Close()
				out = file
			}
			return writeAnswers(out, flow.Answers(), format)
		},
	}

	cmd.Flags().StringVar(&driverName, "driver", "", "prompt toolkit: survey or huh (default from config)")
	cmd.Flags().StringVar(&format, "format", "", "output format: json or yaml (default from config)")
	cmd.Flags().StringSliceVar(&stepIDs, "step", []string{steps.MedicalHistoryID}, "steps to ask, in order")
	cmd.Flags().StringVar(&answersPath, "answers", "", "saved answers used as initial values")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "write answers to this file instead of stdout")
	cmd.Flags().BoolVar(&conditional, "conditional-details", false, "require Yes/No details only after a Yes")

	return cmd
}

// logCounters writes every non-zero navigation counter at V(1).
func logCounters(logger logr.Logger, gatherer prometheus.Gatherer) {
	families, err := gatherer.Gather()
	if err != nil {
		logger.Error(err, "gather metrics")
		return
	}
	for _, family := range families {
		for _, m := range family.GetMetric() {
			value := m.GetCounter().GetValue()
			if value == 0 {
				continue
			}
			kv := []any{"metric", family.GetName(), "value", value}
			for _, label := range m.GetLabel() {
				kv = append(kv, label.GetName(), label.GetValue())
			}
			logger.V(1).Info("counter", kv...)
		}
	}
}
