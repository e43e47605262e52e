package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/intentd/internal/dataset"
	"github.com/kailas-cloud/intentd/internal/metrics"
	"github.com/kailas-cloud/intentd/internal/model/softmax"
	"github.com/kailas-cloud/intentd/internal/nlp"
	"github.com/kailas-cloud/intentd/internal/usecase/encoder"
	"github.com/kailas-cloud/intentd/internal/usecase/training"
)

var (
	trainEpochs       int
	trainLearningRate float64
	trainDryRun       bool
)

var trainCmd = &cobra.Command{
	Use:   "train [dataset.json...]",
	Short: "Train the predictor and store a model snapshot",
	Long: `Build the training set from the datasets (the configured ones when no
arguments are given), fit the predictor and save a snapshot to the model
store. Records that cannot be used are skipped with a warning.`,
	RunE: runTrain,
}

func init() {
	trainCmd.Flags().IntVar(&trainEpochs, "epochs", 0, "override model.epochs")
	trainCmd.Flags().Float64Var(&trainLearningRate, "learning-rate", 0, "override model.learning_rate")
	trainCmd.Flags().BoolVar(&trainDryRun, "dry-run", false, "fit the model without saving it")
}

func runTrain(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := setup(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	if len(args) > 0 {
		a.cfg.Datasets = args
	}
	metrics.Register()

	reg, err := a.registry()
	if err != nil {
		return err
	}
	vectors, err := a.vectors()
	if err != nil {
		return err
	}

	opts := softmax.Options{Epochs: a.cfg.Model.Epochs, LearningRate: a.cfg.Model.LearningRate}
	if trainEpochs > 0 {
		opts.Epochs = trainEpochs
	}
	if trainLearningRate > 0 {
		opts.LearningRate = trainLearningRate
	}

	var saver training.ModelSaver
	if !trainDryRun {
		snaps, err := a.snapshots()
		if err != nil {
			return err
		}
		saver = snaps
	}

	builder := training.NewBuilder(dataset.Loader{}, encoder.New(nlp.New(), vectors), reg, a.logger)
	svc := training.NewService(builder, softmax.New(opts), saver, a.maxTokens(), a.logger)

	a.logger.Info("Training", zap.Int("epochs", opts.Epochs), zap.Float64("learning_rate", opts.LearningRate))
	res, err := svc.Train(ctx, a.cfg.Datasets)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "trained %d features over %d tags in %s\n", res.Features, res.Tags, res.Duration.Round(time.Millisecond))
	if res.ModelRef != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "model: %s\n", res.ModelRef)
	}
	return nil
}
