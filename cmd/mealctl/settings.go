package main

import (
	"fmt"
	"strings"

	"connectrpc.com/connect"
	"github.com/spf13/cobra"

	"github.com/mmynk/mealbook/pkg/api"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change the meal plan and preferences",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show settings and daily targets",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := connectClients()
		if err != nil {
			return err
		}
		res, err := c.settings.GetSettings(cmd.Context(), connect.NewRequest(&api.GetSettingsRequest{}))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderSettings(res.Msg.Settings, res.Msg.Targets))
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <field>=<value>...",
	Short: "Change one or more settings",
	Long: `Change settings. Unlisted fields keep their saved values.

Examples:
  mealctl settings set proteinPerMeal=40 fatPerMeal=20 carbsPerMeal=50
  mealctl settings set dietaryPreferences=vegetarian`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := connectClients()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		current, err := c.settings.GetSettings(ctx, connect.NewRequest(&api.GetSettingsRequest{}))
		if err != nil {
			return err
		}
		s := current.Msg.Settings
		if err := applySettings(s, args); err != nil {
			return err
		}

		res, err := c.settings.SaveSettings(ctx, connect.NewRequest(&api.SaveSettingsRequest{Settings: s}))
		if err != nil {
			return err
		}
		printOK(cmd.OutOrStdout(), "settings saved")
		fmt.Fprintln(cmd.OutOrStdout(), renderSettings(res.Msg.Settings, res.Msg.Targets))
		return nil
	},
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd, settingsSetCmd)
}

// applySettings assigns field=value pairs to s.
func applySettings(s *api.Settings, pairs []string) error {
	fields := map[string]*string{
		"height":             &s.Height,
		"weight":             &s.Weight,
		"calorieGoal":        &s.CalorieGoal,
		"dietaryPreferences": &s.DietaryPreferences,
		"measurementUnit":    &s.MeasurementUnit,
		"mealsPerDay":        &s.MealsPerDay,
		"proteinPerMeal":     &s.ProteinPerMeal,
		"fatPerMeal":         &s.FatPerMeal,
		"carbsPerMeal":       &s.CarbsPerMeal,
		"snacksPerDay":       &s.SnacksPerDay,
		"proteinPerSnack":    &s.ProteinPerSnack,
		"fatPerSnack":        &s.FatPerSnack,
		"carbsPerSnack":      &s.CarbsPerSnack,
	}
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok {
			return fmt.Errorf("expected field=value, got %q", pair)
		}
		field, known := fields[name]
		if !known {
			return fmt.Errorf("unknown setting %q", name)
		}
		*field = strings.TrimSpace(value)
	}
	return nil
}
