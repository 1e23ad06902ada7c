package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/magdaondimu/Capstone-Project-Phase-5/pkg/models"
	"github.com/magdaondimu/Capstone-Project-Phase-5/pkg/predictor"
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Predict the government response to one protest",
	Example: `  protestd predict --region "N.America (Canada)" --demand "Police Brutality" \
    --duration 3 --participants 500 --violence`,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		modelDir, _ := flags.GetString("model-dir")
		region, _ := flags.GetString("region")
		demands, _ := flags.GetStringSlice("demand")
		duration, _ := flags.GetInt("duration")
		participants, _ := flags.GetInt("participants")
		violence, _ := flags.GetBool("violence")

		artifacts, err := predictor.LoadArtifacts(modelDir)
		if err != nil {
			return err
		}
		pipeline := predictor.NewPipeline(artifacts, zap.NewNop())

		result, err := pipeline.Predict(models.PredictionRequest{
			Region:            region,
			Demands:           demands,
			ProtestDuration:   duration,
			Participants:      participants,
			ProtesterViolence: violence,
		})
		if err != nil {
			return err
		}

		if asJSON, _ := flags.GetBool("json"); asJSON {
			out, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Prediction: %s\n%s\n", result.Label, result.Description)
		for _, label := range artifacts.Response.Classes() {
			fmt.Fprintf(out, "  %-22s %6.2f%%\n", label, 100*result.Probabilities[label])
		}
		return nil
	},
}

func init() {
	flags := predictCmd.Flags()
	flags.String("model-dir", "predictor_model", "directory holding the fitted artifacts")
	flags.String("region", "", "region, as listed by the prediction form")
	flags.StringSlice("demand", nil, "demand label or column name; repeatable")
	flags.Int("duration", 1, "protest duration in days")
	flags.Int("participants", 1, "number of participants")
	flags.Bool("violence", false, "protesters used violence")
	flags.Bool("json", false, "print the result as JSON")
	if err := predictCmd.MarkFlagRequired("region"); err != nil {
		panic(fmt.Sprintf("predict: %v", err))
	}
}
