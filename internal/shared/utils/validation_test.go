package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/errors"
)

type cardFilter struct {
	Dataset   string `json:"dataset" validate:"required"`
	SeasonID  *int   `json:"season_id" validate:"omitempty,min=46,max=52"`
	PosGroup  string `json:"pos_group" validate:"omitempty,oneof=C W D"`
	PlayerIDs []int  `json:"player_ids" validate:"omitempty,max=2,dive,gt=0"`
	Internal  string `json:"-" validate:"-"`
}

func TestValidate(t *testing.T) {
	season := 40

	tests := []struct {
		name    string
		input   cardFilter
		details []string
	}{
		{name: "valid", input: cardFilter{Dataset: "player_cards", PlayerIDs: []int{7}}},
		{name: "missing dataset", input: cardFilter{}, details: []string{"dataset is required"}},
		{
			name:    "several violations",
			input:   cardFilter{Dataset: "x", SeasonID: &season, PosGroup: "G"},
			details: []string{"season_id must be at least 46", "pos_group must be one of [C W D]"},
		},
		{
			name:    "slice length",
			input:   cardFilter{Dataset: "x", PlayerIDs: []int{1, 2, 3}},
			details: []string{"player_ids must contain at most 2 items"},
		},
		{
			name:    "dive element",
			input:   cardFilter{Dataset: "x", PlayerIDs: []int{1, 0}},
			details: []string{"player_ids[1] must be greater than 0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.input)
			if len(tt.details) == 0 {
				assert.NoError(t, err)
				return
			}
			appErr := errors.GetAppError(err)
			require.NotNil(t, appErr)
			assert.Equal(t, errors.ErrorTypeValidation, appErr.Type)
			for _, d := range tt.details {
				assert.Contains(t, appErr.Details, d)
			}
		})
	}
}
