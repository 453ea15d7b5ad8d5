package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mmynk/mealbook/internal/models"
)

func TestDraft(t *testing.T) {
	d := NewDraft([]models.FoodItem{{Name: "Eggs", Quantity: "2"}})

	idx := d.Append()
	assert.Equal(t, 1, idx)
	d.Update(idx, models.FoodFieldName, "Toast")
	d.Update(idx, models.FoodFieldQuantity, "1 slice")
	d.Update(idx, models.FoodFieldNotes, "buttered")

	assert.Equal(t, []models.FoodItem{
		{Name: "Eggs", Quantity: "2"},
		{Name: "Toast", Quantity: "1 slice", Notes: "buttered"},
	}, d.Items())

	d.Remove(0)
	assert.Equal(t, []models.FoodItem{{Name: "Toast", Quantity: "1 slice", Notes: "buttered"}}, d.Items())
}

func TestDraft_OutOfRangeIsNoop(t *testing.T) {
	d := NewDraft([]models.FoodItem{{Name: "A"}})
	d.Update(5, models.FoodFieldName, "B")
	d.Update(-1, models.FoodFieldName, "B")
	d.Remove(3)
	d.Remove(-1)
	assert.Equal(t, []models.FoodItem{{Name: "A"}}, d.Items())
}

func TestDraft_CopiesInput(t *testing.T) {
	src := []models.FoodItem{{Name: "A"}}
	d := NewDraft(src)
	d.Update(0, models.FoodFieldName, "B")
	assert.Equal(t, "A", src[0].Name)

	out := d.Items()
	out[0].Name = "C"
	assert.Equal(t, "B", d.Items()[0].Name)
}
