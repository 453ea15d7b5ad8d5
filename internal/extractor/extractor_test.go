package extractor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/mealbook/internal/ai"
	"github.com/mmynk/mealbook/internal/models"
)

type fakeCompleter struct {
	reply string
	err   error
	calls []ai.Request
}

func (f *fakeCompleter) Complete(_ context.Context, req ai.Request) (string, error) {
	f.calls = append(f.calls, req)
	return f.reply, f.err
}

func TestParseReply(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  []models.FoodItem
	}{
		{
			name:  "two lines keep order",
			reply: "A|||1 cup\nB|||2\n",
			want: []models.FoodItem{
				{Name: "A", Quantity: "1 cup"},
				{Name: "B", Quantity: "2"},
			},
		},
		{
			name:  "missing quantity defaults",
			reply: "Toast",
			want:  []models.FoodItem{{Name: "Toast", Quantity: DefaultQuantity}},
		},
		{
			name:  "empty quantity defaults",
			reply: "Toast|||   ",
			want:  []models.FoodItem{{Name: "Toast", Quantity: DefaultQuantity}},
		},
		{
			name:  "empty name kept",
			reply: "|||2 slices",
			want:  []models.FoodItem{{Name: "", Quantity: "2 slices"}},
		},
		{
			name:  "blank lines and whitespace trimmed",
			reply: "\n  Grilled chicken |||  3 pieces \n\n\t\nRice|||1 cup",
			want: []models.FoodItem{
				{Name: "Grilled chicken", Quantity: "3 pieces"},
				{Name: "Rice", Quantity: "1 cup"},
			},
		},
		{
			name:  "crlf line endings",
			reply: "Eggs|||2\r\nBacon|||3 strips\r\n",
			want: []models.FoodItem{
				{Name: "Eggs", Quantity: "2"},
				{Name: "Bacon", Quantity: "3 strips"},
			},
		},
		{
			name:  "extra fields ignored",
			reply: "Rice|||1 cup|||steamed",
			want:  []models.FoodItem{{Name: "Rice", Quantity: "1 cup"}},
		},
		{
			name:  "empty reply",
			reply: "   \n\n",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseReply(tt.reply))
		})
	}
}

func TestExtract(t *testing.T) {
	fc := &fakeCompleter{reply: "A|||1 cup\nB|||2\n"}
	e := New(fc, "vision-model")

	foods, err := e.Extract(context.Background(), "data:image/jpeg;base64,AAAA")
	require.NoError(t, err)
	assert.Equal(t, []models.FoodItem{{Name: "A", Quantity: "1 cup"}, {Name: "B", Quantity: "2"}}, foods)

	require.Len(t, fc.calls, 1)
	req := fc.calls[0]
	assert.Equal(t, "vision-model", req.Model)
	assert.Equal(t, MaxTokens, req.MaxTokens)
	require.Len(t, req.Messages, 1)
	assert.Equal(t, ai.RoleUser, req.Messages[0].Role)
	assert.Equal(t, Prompt, req.Messages[0].Text)
	assert.Equal(t, "data:image/jpeg;base64,AAAA", req.Messages[0].ImageURL)
}

func TestExtract_Failures(t *testing.T) {
	t.Run("completion error", func(t *testing.T) {
		cause := errors.New("network down")
		fc := &fakeCompleter{err: cause}
		_, err := New(fc, "").Extract(context.Background(), "x")
		assert.ErrorIs(t, err, ErrExtraction)
		assert.ErrorIs(t, err, cause)
		assert.Len(t, fc.calls, 1, "no retry")
	})

	t.Run("empty content", func(t *testing.T) {
		fc := &fakeCompleter{err: ai.ErrEmptyCompletion}
		_, err := New(fc, "").Extract(context.Background(), "x")
		assert.ErrorIs(t, err, ErrExtraction)
	})

	t.Run("blank reply", func(t *testing.T) {
		fc := &fakeCompleter{reply: "\n \n"}
		_, err := New(fc, "").Extract(context.Background(), "x")
		assert.ErrorIs(t, err, ErrExtraction)
	})
}
