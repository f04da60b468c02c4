package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/mdiez/promptly/pkg/catalog"
	"github.com/mdiez/promptly/pkg/completion"
)

// runSettingsForm shows an interactive form for the model and generation
// settings, prefilled with the current values. Empty inputs keep the values
// shown in the field.
func runSettingsForm(cat catalog.Catalog, model catalog.Model, settings completion.Settings) (catalog.Model, completion.Settings, error) {
	modelID := model.ID
	temp := strconv.FormatFloat(settings.Temperature, 'g', -1, 64)
	tokens := strconv.Itoa(settings.MaxTokens)

	opts := make([]huh.Option[string], cat.Len())
	for i, m := range cat.Models() {
		opts[i] = huh.NewOption(m.Label(), m.ID)
	}

	fields := []huh.Field{
		huh.NewSelect[string]().
			Title("Model").
			Options(opts...).
			Value(&modelID),
	}
	fields = append(fields, generationFields(&temp, &tokens)...)

	if err := huh.NewForm(huh.NewGroup(fields...)).Run(); err != nil {
		return model, settings, err
	}

	chosen, ok := cat.ByID(modelID)
	if !ok {
		chosen = model
	}

	return chosen, applyGeneration(settings, temp, tokens), nil
}

// runGenerationForm asks for the generation settings only. Shown once at
// startup; empty inputs keep the configured defaults.
func runGenerationForm(settings completion.Settings) (completion.Settings, error) {
	temp := strconv.FormatFloat(settings.Temperature, 'g', -1, 64)
	tokens := strconv.Itoa(settings.MaxTokens)

	if err := huh.NewForm(huh.NewGroup(generationFields(&temp, &tokens)...)).Run(); err != nil {
		return settings, err
	}

	return applyGeneration(settings, temp, tokens), nil
}

// generationFields builds the temperature and max-tokens inputs shared by
// both forms.
func generationFields(temp, tokens *string) []huh.Field {
	return []huh.Field{
		huh.NewInput().
			Title(fmt.Sprintf("Creativity (%g-%g)", completion.MinTemperature, completion.MaxTemperature)).
			Value(temp).
			Validate(validateTemperature),
		huh.NewInput().
			Title(fmt.Sprintf("Response length in tokens (%d-%d)", completion.MinMaxTokens, completion.MaxMaxTokens)).
			Value(tokens).
			Validate(validateMaxTokens),
	}
}

// applyGeneration overlays non-empty form inputs onto settings. Inputs have
// already passed validation.
func applyGeneration(settings completion.Settings, temp, tokens string) completion.Settings {
	out := settings

	if s := strings.TrimSpace(temp); s != "" {
		out.Temperature, _ = strconv.ParseFloat(s, 64)
	}

	if s := strings.TrimSpace(tokens); s != "" {
		out.MaxTokens, _ = strconv.Atoi(s)
	}

	return out
}

// validateTemperature accepts an empty string (keep current) or a float
// within the sampling range.
func validateTemperature(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("enter a number")
	}

	if v < completion.MinTemperature || v > completion.MaxTemperature {
		return fmt.Errorf("must be between %g and %g", completion.MinTemperature, completion.MaxTemperature)
	}

	return nil
}

// validateMaxTokens accepts an empty string (keep current) or an integer
// within the completion window.
func validateMaxTokens(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	v, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("enter a whole number")
	}

	if v < completion.MinMaxTokens || v > completion.MaxMaxTokens {
		return fmt.Errorf("must be between %d and %d", completion.MinMaxTokens, completion.MaxMaxTokens)
	}

	return nil
}
