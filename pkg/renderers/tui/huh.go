package tui

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/huh"
)

// huhDriver asks each prompt as a single-field huh form.
type huhDriver struct {
	out io.Writer
}

func (d *huhDriver) Input(ctx context.Context, cfg InputConfig) (string, error) {
	value := cfg.Default
	field := huh.NewInput().
		Title(cfg.Message).
		Description(cfg.Help).
		Value(&value)
	if cfg.Validator != nil {
		field = field.Validate(cfg.Validator)
	}
	if err := d.run(ctx, field); err != nil {
		return "", err
	}
	return value, nil
}

func (d *huhDriver) Select(ctx context.Context, cfg SelectConfig) (int, error) {
	var value string
	if cfg.DefaultIndex >= 0 && cfg.DefaultIndex < len(cfg.Options) {
		value = cfg.Options[cfg.DefaultIndex]
	}
	field := huh.NewSelect[string]().
		Title(cfg.Message).
		Description(cfg.Help).
		Options(huh.NewOptions(cfg.Options...)...).
		Value(&value)
	if cfg.PageSize > 0 {
		field = field.Height(cfg.PageSize + 2)
	}
	if err := d.run(ctx, field); err != nil {
		return 0, err
	}
	return indexOf(cfg.Options, value), nil
}

func (d *huhDriver) MultiSelect(ctx context.Context, cfg SelectConfig) ([]int, error) {
	value := defaultsFromIndices(cfg.Options, cfg.Defaults)
	field := huh.NewMultiSelect[string]().
		Title(cfg.Message).
		Description(cfg.Help).
		Options(huh.NewOptions(cfg.Options...)...).
		Value(&value)
	if cfg.PageSize > 0 {
		field = field.Height(cfg.PageSize + 2)
	}
	if err := d.run(ctx, field); err != nil {
		return nil, err
	}
	return indicesOf(cfg.Options, value), nil
}

func (d *huhDriver) Info(ctx context.Context, msg string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(d.out, msg)
	return err
}

func (d *huhDriver) run(ctx context.Context, field huh.Field) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := huh.NewForm(huh.NewGroup(field)).RunWithContext(ctx)
	if errors.Is(err, huh.ErrUserAborted) {
		return ErrAborted
	}
	return err
}
