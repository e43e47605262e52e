package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/intentd/pkg/client"
)

var (
	askAddr    string
	askTimeout time.Duration
	askRaw     bool
)

var askCmd = &cobra.Command{
	Use:   "ask <sentence...>",
	Short: "Send a sentence to a running intentd server",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askAddr, "addr", "a", "localhost:5000", "server address (host:port)")
	askCmd.Flags().DurationVar(&askTimeout, "timeout", 10*time.Second, "request timeout")
	askCmd.Flags().BoolVar(&askRaw, "raw", false, "print the raw JSON response")
}

func runAsk(cmd *cobra.Command, args []string) error {
	c := client.New(askAddr, client.WithTimeout(askTimeout))
	sentence := strings.Join(args, " ")
	out := cmd.OutOrStdout()

	if askRaw {
		payload, err := json.Marshal(map[string]string{"sentence": sentence})
		if err != nil {
			return err
		}
		raw, err := c.Do(cmd.Context(), payload)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(raw))
		return nil
	}

	answer, err := c.Ask(cmd.Context(), sentence)
	if err != nil {
		var srvErr *client.ServerError
		if errors.As(err, &srvErr) {
			fmt.Fprintln(out, srvErr.Message)
			return nil
		}
		return err
	}

	fmt.Fprintf(out, "%s (%.2f)\n", answer.Tag, answer.Confidence)
	for _, r := range answer.Responses {
		fmt.Fprintf(out, "  - %s\n", r)
	}
	return nil
}
