package commands

import (
	"fmt"
	"os"

	theme "github.com/goliatone/go-theme"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-intake/pkg/orchestrator"
	"github.com/goliatone/go-intake/pkg/render"
	"github.com/goliatone/go-intake/pkg/renderers/html"
	"github.com/goliatone/go-intake/pkg/steps"
)

// CSRFFieldName is the hidden input carrying --csrf.
const CSRFFieldName = "_csrf"

// tokensFile is the YAML layout accepted by --tokens.
type tokensFile struct {
	Tokens   map[string]string            `yaml:"tokens"`
	Variants map[string]map[string]string `yaml:"variants"`
}

// Render returns the command that writes a step as an HTML form.
func Render(g *globals) *cobra.Command {
	var (
		stepID      string
		answersPath string
		outputPath  string
		csrf        string
		action      string
		tokensPath  string
		conditional bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a step as an HTML form",
		Long: `Render writes the step as an HTML form. With --answers the controls are
pre-filled and, when the answers fail validation, each message is shown next
to its field.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			gen, err := g.orchestrator(conditional)
			if err != nil {
				return err
			}

			req := orchestrator.Request{
				StepID:        stepID,
				Renderer:      html.Name,
				RenderOptions: render.RenderOptions{Action: action},
			}
			if csrf != "" {
				req.RenderOptions.Hidden = append(req.RenderOptions.Hidden, render.CSRFToken(CSRFFieldName, csrf))
			}
			if answersPath != "" {
				if req.Answers, err = readAnswers(answersPath); err != nil {
					return err
				}
			}
			if req.RenderOptions.Theme, err = g.themeSelection(tokensPath); err != nil {
				return err
			}

			resp, err := gen.Generate(cmd.Context(), req)
			if err != nil {
				return err
			}

			if outputPath == "" {
				_, err = cmd.OutOrStdout().Write(resp.Output)
				return err
			}
			if err := os.WriteFile(outputPath, resp.Output, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", outputPath, err)
			}
			g.logger.Info("wrote form", "step", resp.Step.ID, "path", outputPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&stepID, "step", steps.MedicalHistoryID, "step to render")
	cmd.Flags().StringVar(&answersPath, "answers", "", "answers file used to pre-fill and validate the form")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "write HTML to this file instead of stdout")
	cmd.Flags().StringVar(&csrf, "csrf", "", "CSRF token emitted as a hidden "+CSRFFieldName+" input")
	cmd.Flags().StringVar(&action, "action", "", "form action URL")
	cmd.Flags().StringVar(&tokensPath, "tokens", "", "YAML file of theme tokens exposed as CSS variables")
	cmd.Flags().BoolVar(&conditional, "conditional-details", false, "require Yes/No details only after a Yes")

	return cmd
}

// themeSelection builds the go-theme selection from render.theme,
// render.variant and an optional tokens file. It returns nil when neither a
// theme nor tokens are configured.
func (g *globals) themeSelection(tokensPath string) (*theme.Selection, error) {
	name, variant := g.cfg.Render.Theme, g.cfg.Render.Variant
	if name == "" && tokensPath == "" {
		return nil, nil
	}
	if name == "" {
		name = "default"
	}
	selection := &theme.Selection{Theme: name, Variant: variant}
	if tokensPath == "" {
		return selection, nil
	}

	data, err := os.ReadFile(tokensPath)
	if err != nil {
		return nil, fmt.Errorf("read tokens: %w", err)
	}
	var file tokensFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse tokens %s: %w", tokensPath, err)
	}
	manifest := &theme.Manifest{
		Name:     name,
		Tokens:   file.Tokens,
		Variants: make(map[string]theme.Variant, len(file.Variants)),
	}
	for key, tokens := range file.Variants {
		manifest.Variants[key] = theme.Variant{Tokens: tokens}
	}
	selection.Manifest = manifest
	return selection, nil
}
