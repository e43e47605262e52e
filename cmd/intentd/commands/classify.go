package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/intentd/internal/transport/protocol"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <sentence...>",
	Short: "Classify a sentence locally using the stored model",
	Long: `Load the model the same way 'serve' does and print the JSON response
for one sentence. Useful for checking a freshly trained snapshot.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runClassify,
}

func runClassify(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := setup(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	classifier, _, err := a.classifier(ctx)
	if err != nil {
		return err
	}

	sentence := strings.Join(args, " ")
	var payload any
	pred, err := classifier.Classify(ctx, sentence)
	if err != nil {
		payload = protocol.Failure(err)
	} else {
		payload = protocol.Success(sentence, pred)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(protocol.Marshal(payload)))
	return nil
}
