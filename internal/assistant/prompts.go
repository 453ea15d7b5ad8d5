package assistant

import (
	"fmt"
	"strings"

	"github.com/mmynk/mealbook/internal/models"
)

// startSystemPrompt frames the first recipe of a conversation.
func startSystemPrompt(mt MealType) string {
	meal := strings.ToLower(string(mt))
	if mt == Breakfast {
		return fmt.Sprintf("You are a master chef specializing in **exceptional %s recipes**. "+
			"Your creations are flavorful, balanced and exciting. Skip generic or overly simple options and "+
			"lift classic breakfasts with unusual ingredients, techniques or twists. Format responses in markdown.", meal)
	}
	return fmt.Sprintf("You are a world-class chef known for **incredible** %s recipes. "+
		"Create **distinctive, restaurant-quality dishes** with creative ingredients and bold flavors. "+
		"No greetings or extra commentary. Format responses in markdown.", meal)
}

// followUpSystemPrompt frames every later turn.
func followUpSystemPrompt(mt MealType) string {
	if mt == Breakfast {
		return "You are a **world-class breakfast chef**. Your recipes are unique, flavorful and thoughtfully crafted. " +
			"Keep answers focused on **delicious, high-quality breakfast ideas** and avoid anything plain or generic. " +
			"Format responses in markdown."
	}
	return fmt.Sprintf("You are a **renowned chef specializing in %s cuisine**. "+
		"Your recipes should be **bold, exciting and built on top-tier culinary technique**. "+
		"Format responses in markdown.", strings.ToLower(string(mt)))
}

// initialPrompt asks for a recipe hitting the per-meal macro targets.
func initialPrompt(mt MealType, s models.UserSettings, previous []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are a **culinary expert** writing **creative, quick and flavorful** %s recipes "+
		"that precisely match these macronutrient targets:\n\n", strings.ToLower(string(mt)))
	fmt.Fprintf(&b, "- **Protein:** %sg\n", s.ProteinPerMeal)
	fmt.Fprintf(&b, "- **Fat:** %sg\n", s.FatPerMeal)
	fmt.Fprintf(&b, "- **Carbs:** %sg\n", s.CarbsPerMeal)
	if pref := strings.TrimSpace(s.DietaryPreferences); pref != "" && pref != "none" {
		fmt.Fprintf(&b, "- **Dietary Restriction:** Ensure the recipe is **%s**.\n", pref)
	}

	b.WriteString("\n**🚫 Prohibited ingredients:** Do **NOT** use quinoa. " +
		"Use other carbohydrate sources such as rice, potatoes, oats or whole-grain pasta.\n\n")

	b.WriteString("Your recipe **must not repeat** any of these previously suggested ones:\n")
	if len(previous) == 0 {
		b.WriteString("None yet\n\n")
	} else {
		b.WriteString(strings.Join(previous, ", "))
		b.WriteString("\n\n")
	}

	b.WriteString(`🎯 **Your goal:**
- Avoid generic, boring or common meal ideas.
- Think like a **Michelin-starred chef** optimizing flavor, texture and efficiency.
- Keep prep time **under 20 minutes**.

### **Provide ONLY the following in Markdown format:**

# [Recipe Name]

**Difficulty:** [Beginner / Intermediate / Advanced]

## Ingredients
- [ingredient 1]
- [ingredient 2]
- ...

## Quick Instructions
1. [Step 1]
2. [Step 2]

## Nutritional Information
- **Protein:** [amount]g
- **Fat:** [amount]g
- **Carbs:** [amount]g
- **Calories:** [amount]

**Important:** The recipe **must match** the macronutrient targets above within ±2g. Double-check the values before finalizing.`)

	return b.String()
}
