package calculator

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/mmynk/mealbook/internal/models"
)

// Energy per gram of each macronutrient.
const (
	KcalPerGramProtein = 4
	KcalPerGramFat     = 9
	KcalPerGramCarbs   = 4
)

// Macros is an amount of protein, fat and carbohydrate in grams.
type Macros struct {
	Protein float64 `json:"protein"`
	Fat     float64 `json:"fat"`
	Carbs   float64 `json:"carbs"`
}

// Calories returns the energy of m in kcal.
func (m Macros) Calories() float64 {
	return m.Protein*KcalPerGramProtein + m.Fat*KcalPerGramFat + m.Carbs*KcalPerGramCarbs
}

func (m Macros) scale(n float64) Macros {
	return Macros{Protein: m.Protein * n, Fat: m.Fat * n, Carbs: m.Carbs * n}
}

func (m Macros) add(o Macros) Macros {
	return Macros{Protein: m.Protein + o.Protein, Fat: m.Fat + o.Fat, Carbs: m.Carbs + o.Carbs}
}

// Targets are the daily totals implied by the settings.
type Targets struct {
	PerMeal  Macros  `json:"perMeal"`
	PerSnack Macros  `json:"perSnack"`
	Daily    Macros  `json:"daily"`
	Calories float64 `json:"calories"`
}

// DailyTargets computes per-day macros from the per-meal and per-snack
// targets. Empty values count as zero; anything else non-numeric fails
// with models.ErrValidation naming every bad field.
func DailyTargets(s models.UserSettings) (Targets, error) {
	p := &numberParser{}
	meals := p.parse("mealsPerDay", s.MealsPerDay)
	perMeal := Macros{
		Protein: p.parse("proteinPerMeal", s.ProteinPerMeal),
		Fat:     p.parse("fatPerMeal", s.FatPerMeal),
		Carbs:   p.parse("carbsPerMeal", s.CarbsPerMeal),
	}
	snacks := p.parse("snacksPerDay", s.SnacksPerDay)
	perSnack := Macros{
		Protein: p.parse("proteinPerSnack", s.ProteinPerSnack),
		Fat:     p.parse("fatPerSnack", s.FatPerSnack),
		Carbs:   p.parse("carbsPerSnack", s.CarbsPerSnack),
	}
	if err := p.err(); err != nil {
		return Targets{}, err
	}

	daily := perMeal.scale(meals).add(perSnack.scale(snacks))
	return Targets{
		PerMeal:  perMeal,
		PerSnack: perSnack,
		Daily:    daily,
		Calories: daily.Calories(),
	}, nil
}

// ValidateSettings checks enumerated fields and that every numeric field
// parses.
func ValidateSettings(s models.UserSettings) error {
	var errs []error
	if s.DietaryPreferences != "" && !slices.Contains(models.DietaryPreferences, s.DietaryPreferences) {
		errs = append(errs, fmt.Errorf("unknown dietary preference %q", s.DietaryPreferences))
	}
	if s.MeasurementUnit != "" && !slices.Contains(models.MeasurementUnits, s.MeasurementUnit) {
		errs = append(errs, fmt.Errorf("unknown measurement unit %q", s.MeasurementUnit))
	}

	p := &numberParser{}
	p.parse("height", s.Height)
	p.parse("weight", s.Weight)
	p.parse("calorieGoal", s.CalorieGoal)
	if err := p.err(); err != nil {
		errs = append(errs, err)
	}
	if _, err := DailyTargets(s); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", models.ErrValidation, errors.Join(errs...))
	}
	return nil
}

type numberParser struct {
	bad []string
}

func (p *numberParser) parse(field, value string) float64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	n, err := strconv.ParseFloat(value, 64)
	if err != nil || n < 0 || math.IsNaN(n) || math.IsInf(n, 0) {
		p.bad = append(p.bad, field)
		return 0
	}
	return n
}

func (p *numberParser) err() error {
	if len(p.bad) == 0 {
		return nil
	}
	return fmt.Errorf("%w: not a number: %s", models.ErrValidation, strings.Join(p.bad, ", "))
}
