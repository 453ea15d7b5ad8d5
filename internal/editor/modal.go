package editor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mmynk/mealbook/internal/models"
)

// State is the modal's position in Upload -> Edit -> (Saved | Cancelled).
type State int

const (
	StateUpload State = iota
	StateEdit
	StateSaved
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateUpload:
		return "upload"
	case StateEdit:
		return "edit"
	case StateSaved:
		return "saved"
	case StateCancelled:
		return "cancelled"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

var (
	// ErrInvalidState is returned when an action is not allowed in the current state.
	ErrInvalidState = errors.New("action not allowed in current state")

	// ErrNoImage is returned when extraction results arrive before an image was attached.
	ErrNoImage = errors.New("no image selected")
)

// Saver persists the modal's result. The RPC client implements it.
type Saver interface {
	CreateMeal(ctx context.Context, meal models.Meal) (*models.Meal, error)
	UpdateMeal(ctx context.Context, id string, patch models.MealPatch) (*models.Meal, error)
}

// Modal drives the creation or edit of a single meal.
type Modal struct {
	state    State
	category models.Category
	mealID   string
	image    string
	draft    *Draft
	at       time.Time
	now      func() time.Time
}

// NewModal starts a new meal in the given category in the Upload state.
func NewModal(category models.Category) *Modal {
	return &Modal{
		state:    StateUpload,
		category: category,
		draft:    NewDraft(nil),
		now:      time.Now,
	}
}

// EditExisting opens an existing meal directly in the Edit state.
func EditExisting(meal models.Meal) *Modal {
	return &Modal{
		state:    StateEdit,
		category: meal.Category,
		mealID:   meal.ID,
		image:    meal.Image,
		draft:    NewDraft(meal.Foods),
		now:      time.Now,
	}
}

// State returns the modal's current state.
func (m *Modal) State() State { return m.state }

// Draft returns the food list being edited.
func (m *Modal) Draft() *Draft { return m.draft }

// Image returns the attached image data URL, or "" when there is none.
func (m *Modal) Image() string { return m.image }

// Category returns the category the meal is logged under.
func (m *Modal) Category() models.Category { return m.category }

// IsNew reports whether saving will create a meal rather than update one.
func (m *Modal) IsNew() bool { return m.mealID == "" }

// SetTime logs a new meal at t instead of the moment it is saved, so a meal
// can be recorded against another day. Existing meals keep their timestamp.
func (m *Modal) SetTime(t time.Time) error {
	if m.state != StateUpload && m.state != StateEdit {
		return fmt.Errorf("set time in %s: %w", m.state, ErrInvalidState)
	}
	if !m.IsNew() {
		return fmt.Errorf("set time on existing meal: %w", ErrInvalidState)
	}
	m.at = t
	return nil
}

// AttachImage records the selected (already normalized) image.
func (m *Modal) AttachImage(dataURL string) error {
	if m.state != StateUpload {
		return fmt.Errorf("attach image in %s: %w", m.state, ErrInvalidState)
	}
	m.image = dataURL
	return nil
}

// SkipImage moves to Edit without a photo so foods can be entered by hand.
func (m *Modal) SkipImage() error {
	if m.state != StateUpload {
		return fmt.Errorf("skip image in %s: %w", m.state, ErrInvalidState)
	}
	m.state = StateEdit
	return nil
}

// ApplyExtraction consumes the outcome of analyzing the attached image.
// On success the draft is replaced with foods. On failure the draft is left
// as it was and extractErr is returned for reporting. Either way the modal
// moves to Edit so a manual list can still be saved.
func (m *Modal) ApplyExtraction(foods []models.FoodItem, extractErr error) error {
	if m.state != StateUpload && m.state != StateEdit {
		return fmt.Errorf("apply extraction in %s: %w", m.state, ErrInvalidState)
	}
	if m.image == "" {
		return ErrNoImage
	}
	m.state = StateEdit
	if extractErr != nil {
		return extractErr
	}
	m.draft.Replace(foods)
	return nil
}

// Save creates the meal, or updates foods and image of an existing one.
// On success the modal reports Saved and its draft is cleared; Reset
// returns it to Upload for the next meal.
func (m *Modal) Save(ctx context.Context, saver Saver) (*models.Meal, error) {
	if m.state != StateEdit {
		return nil, fmt.Errorf("save in %s: %w", m.state, ErrInvalidState)
	}

	var (
		saved *models.Meal
		err   error
	)
	if m.IsNew() {
		at := m.at
		if at.IsZero() {
			at = m.now()
		}
		saved, err = saver.CreateMeal(ctx, models.Meal{
			Foods:     m.draft.Items(),
			Image:     m.image,
			Timestamp: at.UnixMilli(),
			Category:  m.category,
		})
	} else {
		image := m.image
		saved, err = saver.UpdateMeal(ctx, m.mealID, models.MealPatch{
			Foods:    m.draft.Items(),
			SetFoods: true,
			Image:    &image,
		})
	}
	if err != nil {
		return nil, err
	}

	m.state = StateSaved
	m.clear()
	return saved, nil
}

// Cancel discards pending edits from any state.
func (m *Modal) Cancel() {
	m.state = StateCancelled
	m.clear()
}

// Reset prepares a new meal in the same category.
func (m *Modal) Reset() {
	m.state = StateUpload
	m.mealID = ""
	m.at = time.Time{}
	m.clear()
}

func (m *Modal) clear() {
	m.image = ""
	m.draft = NewDraft(nil)
}
