package predictor

import (
	"fmt"

	"github.com/magdaondimu/Capstone-Project-Phase-5/pkg/models"
)

var responseDescriptions = map[string]string{
	models.ResponsePassiveOrConcessive: "The government will most likely ignore or accommodate the protesters.",
	models.ResponseControlMeasures:     "The government will most likely use crowd control measures against the protesters.",
	models.ResponseForcefulRepression:  "The government will most likely take up excessive measures against the protesters.",
}

// Sidebar text explaining each label on the prediction form
var responseGuides = map[string]string{
	models.ResponsePassiveOrConcessive: "The government is likely to ignore the protest or accommodate the protesters' demands.",
	models.ResponseControlMeasures:     "The government is likely to use crowd control measures such as dispersal or arrests.",
	models.ResponseForcefulRepression:  "The government is likely to engage in forceful repression, including beatings, shootings, or killings.",
}

// Describe returns the result sentence for a response label
func Describe(label string) (string, error) {
	desc, ok := responseDescriptions[label]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnmappedLabel, label)
	}
	return desc, nil
}

// ResponseGuides lists the sidebar explanation of every response label
func ResponseGuides() []models.ResponseGuide {
	guides := make([]models.ResponseGuide, 0, len(models.ResponseLabels))
	for _, label := range models.ResponseLabels {
		guides = append(guides, models.ResponseGuide{Label: label, Description: responseGuides[label]})
	}
	return guides
}
