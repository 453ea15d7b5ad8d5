package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/mmynk/mealbook/pkg/api"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("51"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("45"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("46"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	gainStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1)
)

func printOK(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, okStyle.Render("✓ "+fmt.Sprintf(format, args...)))
}

func printWarn(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, warnStyle.Render("! "+fmt.Sprintf(format, args...)))
}

// renderMeal formats a meal with its foods, one per line.
func renderMeal(m *api.Meal) string {
	var b strings.Builder
	photo := ""
	if m.Image != "" {
		photo = " " + dimStyle.Render("[photo]")
	}
	fmt.Fprintf(&b, "%s%s %s\n", labelStyle.Render(m.Name), photo, dimStyle.Render(m.Id))
	if len(m.Foods) == 0 {
		b.WriteString(dimStyle.Render("  no foods") + "\n")
	}
	for _, f := range m.Foods {
		line := fmt.Sprintf("  • %s  %s", f.Name, dimStyle.Render(f.Quantity))
		if f.Notes != "" {
			line += dimStyle.Render(" (" + f.Notes + ")")
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

// renderDay formats the dashboard view of one day.
func renderDay(day *api.GetDayResponse) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(day.Date) + "\n\n")
	for _, g := range day.Groups {
		b.WriteString(headerStyle.Render(g.Category) + "\n")
		if len(g.Meals) == 0 {
			b.WriteString(dimStyle.Render("  nothing logged") + "\n")
		}
		for _, m := range g.Meals {
			b.WriteString(renderMeal(m))
		}
		b.WriteString("\n")
	}
	if day.Unclassified > 0 {
		b.WriteString(warnStyle.Render(fmt.Sprintf("%d meal(s) with an unknown category not shown", day.Unclassified)) + "\n")
	}
	return b.String()
}

// renderCalendar lists meal counts per day between the given dates.
func renderCalendar(meals []*api.Meal, loc *time.Location) string {
	counts := map[string]int{}
	var days []string
	for _, m := range meals {
		day := time.UnixMilli(m.Timestamp).In(loc).Format(dateLayout)
		if counts[day] == 0 {
			days = append(days, day)
		}
		counts[day]++
	}
	if len(days) == 0 {
		return dimStyle.Render("no meals in range") + "\n"
	}

	var b strings.Builder
	for _, d := range days {
		fmt.Fprintf(&b, "%s  %s\n", labelStyle.Render(d), strings.Repeat("■", counts[d]))
	}
	return b.String()
}

func renderSettings(s *api.Settings, t *api.Targets) string {
	rows := [][2]string{
		{"height", s.Height},
		{"weight", s.Weight},
		{"calorieGoal", s.CalorieGoal},
		{"dietaryPreferences", s.DietaryPreferences},
		{"measurementUnit", s.MeasurementUnit},
		{"mealsPerDay", s.MealsPerDay},
		{"proteinPerMeal", s.ProteinPerMeal},
		{"fatPerMeal", s.FatPerMeal},
		{"carbsPerMeal", s.CarbsPerMeal},
		{"snacksPerDay", s.SnacksPerDay},
		{"proteinPerSnack", s.ProteinPerSnack},
		{"fatPerSnack", s.FatPerSnack},
		{"carbsPerSnack", s.CarbsPerSnack},
	}
	var b strings.Builder
	for _, r := range rows {
		fmt.Fprintf(&b, "%-20s %s\n", labelStyle.Render(r[0]), r[1])
	}
	if t != nil {
		fmt.Fprintf(&b, "\n%s protein %.0fg · fat %.0fg · carbs %.0fg · %.0f kcal",
			headerStyle.Render("Daily"), t.Protein, t.Fat, t.Carbs, t.Calories)
	}
	return boxStyle.Render(b.String())
}

// renderChange colors a weight change: losses green, gains red.
func renderChange(change string) string {
	padded := fmt.Sprintf("%6s", change)
	switch {
	case change == "-", strings.Trim(change, "-0.") == "":
		return dimStyle.Render(padded)
	case strings.HasPrefix(change, "-"):
		return okStyle.Render(padded)
	default:
		return gainStyle.Render(padded)
	}
}

const chartWidth = 40

// renderChart draws one horizontal bar per point, scaled between the
// lowest and highest weight.
func renderChart(points []*api.ChartPoint) string {
	if len(points) == 0 {
		return dimStyle.Render("no entries in range") + "\n"
	}

	lo, hi := points[0].Weight, points[0].Weight
	for _, p := range points {
		lo = min(lo, p.Weight)
		hi = max(hi, p.Weight)
	}

	var b strings.Builder
	for _, p := range points {
		n := chartWidth
		if hi > lo {
			n = 1 + int((p.Weight-lo)/(hi-lo)*float64(chartWidth-1))
		}
		fmt.Fprintf(&b, "%-7s %s %.1f\n", p.Label, labelStyle.Render(strings.Repeat("█", n)), p.Weight)
	}
	return b.String()
}
