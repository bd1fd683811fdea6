package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"
)

const asciiLogo = `
██╗   ██╗██████╗ ██████╗ ██╗ ██████╗ ██╗  ██╗████████╗
██║   ██║██╔══██╗██╔══██╗██║██╔════╝ ██║  ██║╚══██╔══╝
██║   ██║██████╔╝██████╔╝██║██║  ███╗███████║   ██║
██║   ██║██╔═══╝ ██╔══██╗██║██║   ██║██╔══██║   ██║
╚██████╔╝██║     ██║  ██║██║╚██████╔╝██║  ██║   ██║
 ╚═════╝ ╚═╝     ╚═╝  ╚═╝╚═╝ ╚═════╝ ╚═╝  ╚═╝   ╚═╝`

// PromptOptions holds the user's responses to the configuration prompts.
type PromptOptions struct {
	HydrationInterval int
	BreakInterval     int
}

// WithPromptConfig returns an Option that configures settings via
// interactive prompts. The prompt only runs before the config file exists.
func WithPromptConfig(configPath string) Option {
	return func(c *Config) error {
		_, err := os.Stat(configPath)
		if err == nil || !errors.Is(err, os.ErrNotExist) {
			return err
		}

		opts, err := promptUser()
		if err != nil {
			return fmt.Errorf("user prompt failed: %w", err)
		}

		return applyPromptOptions(c, opts)
	}
}

// IntervalForm builds the form used to choose the reminder intervals. The
// options preselect the current values when they match.
func IntervalForm(opts *PromptOptions) *huh.Form {
	hydration := []int{10, 15, 20, 30, 45}
	breaks := []int{20, 30, 45, 60, 90}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Hydration reminder interval").
				Options(minuteOptions(hydration, opts.HydrationInterval)...).
				Value(&opts.HydrationInterval),
		),
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Break reminder interval").
				Options(minuteOptions(breaks, opts.BreakInterval)...).
				Value(&opts.BreakInterval),
		),
	)
}

func minuteOptions(values []int, selected int) []huh.Option[int] {
	options := make([]huh.Option[int], 0, len(values))

	for _, v := range values {
		options = append(
			options,
			huh.NewOption(fmt.Sprintf("%d minutes", v), v).Selected(v == selected),
		)
	}

	return options
}

// promptUser handles the interactive configuration process.
func promptUser() (PromptOptions, error) {
	opts := PromptOptions{
		HydrationInterval: 15,
		BreakInterval:     30,
	}

	// Display welcome message
	pterm.Println(asciiLogo)

	_ = putils.BulletListFromString(`Follow the prompts below to configure Upright for the first time.
Select your preferred value, or press ENTER to accept the defaults.
Edit the config file with 'upright edit-config' to change any settings.`, " ").
		Render()

	err := IntervalForm(&opts).Run()
	if err != nil {
		return opts, fmt.Errorf("form interaction failed: %w", err)
	}

	return opts, nil
}

// applyPromptOptions applies the user's prompt responses to the configuration.
func applyPromptOptions(c *Config, opts PromptOptions) error {
	c.Reminders.Hydration = time.Duration(opts.HydrationInterval) * time.Minute
	c.Reminders.Break = time.Duration(opts.BreakInterval) * time.Minute

	return nil
}
