package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/webcode-dev/webcode/pkg/client"
)

var (
	awaitServer    string
	awaitRequestID string
	awaitTimeout   time.Duration
)

var awaitCallbackCmd = &cobra.Command{
	Use:   "await-callback",
	Short: "Wait for a browser-delivered callback URI",
	Long: `Poll a running gateway until the browser has delivered the
callback URI for the given request id, then print it.

This is the out-of-band half of the authentication callback protocol:
the browser registers the URI at /callback, this command consumes it.`,
	RunE: runAwaitCallback,
}

func init() {
	awaitCallbackCmd.Flags().StringVar(&awaitServer, "server", "http://127.0.0.1:9888", "Gateway base URL")
	awaitCallbackCmd.Flags().StringVar(&awaitRequestID, "request-id", "", "Callback request id")
	awaitCallbackCmd.Flags().DurationVar(&awaitTimeout, "timeout", 5*time.Minute, "How long to keep polling")
	awaitCallbackCmd.MarkFlagRequired("request-id")
}

func runAwaitCallback(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), awaitTimeout)
	defer cancel()

	poller := &client.Poller{BaseURL: awaitServer}
	uri, err := poller.Await(ctx, awaitRequestID)
	if err != nil {
		return fmt.Errorf("await-callback: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), uri.String())
	return nil
}
