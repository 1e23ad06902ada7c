package predictor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magdaondimu/Capstone-Project-Phase-5/pkg/models"
)

func TestDescribe(t *testing.T) {
	tests := map[string]string{
		models.ResponsePassiveOrConcessive: "The government will most likely ignore or accommodate the protesters.",
		models.ResponseControlMeasures:     "The government will most likely use crowd control measures against the protesters.",
		models.ResponseForcefulRepression:  "The government will most likely take up excessive measures against the protesters.",
	}
	for label, want := range tests {
		got, err := Describe(label)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := Describe("Martial Law")
	assert.True(t, errors.Is(err, ErrUnmappedLabel))
}

func TestResponseGuides(t *testing.T) {
	guides := ResponseGuides()
	require.Len(t, guides, 3)
	for i, g := range guides {
		assert.Equal(t, models.ResponseLabels[i], g.Label)
		assert.NotEmpty(t, g.Description)
	}
}
