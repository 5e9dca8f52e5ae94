package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/scopecurve/internal/cli/formatter"
	"github.com/alexanderramin/scopecurve/internal/dates"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// scopecurveHuhTheme returns a huh theme using the formatter palette.
func scopecurveHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// validateDate accepts a YYYY-MM-DD date.
func validateDate(s string) error {
	if _, ok := dates.Parse(s); !ok {
		return fmt.Errorf("use YYYY-MM-DD format")
	}
	return nil
}

// historyDateForm asks which calendar date a progress edit applies to.
func historyDateForm(value *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Record progress for which date?").
				Description("Esc to skip; you will not be asked again for a while").
				Placeholder(*value).
				Value(value).
				Validate(validateDate),
		),
	).WithTheme(scopecurveHuhTheme()).WithShowHelp(false)
}

// askHistoryDate runs the history-date form. Aborting the form reports
// ok=false with no error.
func askHistoryDate(ctx context.Context, suggested time.Time) (time.Time, bool, error) {
	value := dates.Format(suggested)
	if err := historyDateForm(&value).RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, err
	}
	d, err := parseDate(value)
	if err != nil {
		return time.Time{}, false, err
	}
	return d, true, nil
}

func confirmForm(title string, result *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(result),
		),
	).WithTheme(scopecurveHuhTheme()).WithShowHelp(false)
}

func confirm(title string) (bool, error) {
	var ok bool
	if err := confirmForm(title, &ok).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, err
	}
	return ok, nil
}
