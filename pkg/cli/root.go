package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/omondijeff/pension-pilot-mail-service/pkg/mail"
	"github.com/omondijeff/pension-pilot-mail-service/pkg/version"
)

const defaultServer = "http://localhost:3000"

type runtimeState struct {
	server  string
	timeout time.Duration
	writer  io.Writer
}

func (rt *runtimeState) client() (*Client, error) {
	return NewClient(
		WithServer(rt.server),
		WithTimeout(rt.timeout),
	)
}

// NewRootCommand builds the mailctl command tree. Output goes to writer,
// which defaults to stdout.
func NewRootCommand(writer io.Writer) *cobra.Command {
	if writer == nil {
		writer = os.Stdout
	}
	rt := &runtimeState{writer: writer}

	root := &cobra.Command{
		Use:           "mailctl",
		Short:         "Pension Pilot mail service CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if rt.server == "" {
				rt.server = os.Getenv("MAILCTL_SERVER")
			}
			if rt.server == "" {
				rt.server = defaultServer
			}
		},
	}
	root.PersistentFlags().StringVar(&rt.server, "server", "", "mail service base URL (env: MAILCTL_SERVER)")
	root.PersistentFlags().DurationVar(&rt.timeout, "timeout", 30*time.Second, "request timeout")

	root.AddCommand(
		newStatusCommand(rt),
		newSendCommand(rt),
		newTestEmailCommand(rt),
		newVersionCommand(rt),
	)
	return root
}

func newStatusCommand(rt *runtimeState) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show relay connection status",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := rt.client()
			if err != nil {
				return err
			}
			snap, err := client.Status(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(rt.writer, "status:       %s\n", snap.CurrentStatus)
			fmt.Fprintf(rt.writer, "relay:        %s:%d\n", snap.Host, snap.Port)
			fmt.Fprintf(rt.writer, "passwordSet:  %t\n", snap.PasswordSet)
			fmt.Fprintf(rt.writer, "attempts:     %d/%d\n", snap.ReconnectAttempts, snap.MaxReconnectAttempts)
			if snap.LastError != "" {
				fmt.Fprintf(rt.writer, "lastError:    %s\n", snap.LastError)
			}
			if !snap.LastChecked.IsZero() {
				fmt.Fprintf(rt.writer, "lastChecked:  %s\n", snap.LastChecked.Format(time.RFC3339))
			}
			return nil
		},
	}
}

func newSendCommand(rt *runtimeState) *cobra.Command {
	var req mail.SendRequest

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Relay a message through the service",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := rt.client()
			if err != nil {
				return err
			}
			result, err := client.Send(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(rt.writer, "sent: %s\n", result.MessageID)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.To, "to", "", "recipient address (required)")
	cmd.Flags().StringVar(&req.Subject, "subject", "", "message subject (required)")
	cmd.Flags().StringVar(&req.Body, "body", "", "plain text body (required)")
	cmd.Flags().StringVar(&req.ReplyTo, "reply-to", "", "reply-to override")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("subject")
	_ = cmd.MarkFlagRequired("body")
	return cmd
}

func newTestEmailCommand(rt *runtimeState) *cobra.Command {
	return &cobra.Command{
		Use:   "test-email",
		Short: "Send the self-addressed diagnostic message",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := rt.client()
			if err != nil {
				return err
			}
			result, err := client.TestEmail(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(rt.writer, "sent: %s\n", result.MessageID)
			return nil
		},
	}
}

func newVersionCommand(rt *runtimeState) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Run: func(_ *cobra.Command, _ []string) {
			info := version.GetBuildInfo()
			fmt.Fprintf(rt.writer, "mailctl %s (%s, %s, %s)\n",
				info.Version, info.GitCommit, info.GoVersion, info.Platform)
		},
	}
}
