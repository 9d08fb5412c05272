// Package cli implements the approvalflow command line.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/viant/approvalflow"
)

const configFlag = "config"

// NewRootCommand creates the approvalflow command tree
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "approvalflow",
		Short:         "Hierarchical content approval workflows",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().String(configFlag, "approvalflow.yaml", "Path to config file")
	cmd.AddCommand(
		newStartCommand(),
		newRouteCommand(),
		newDecideCommand(),
		newEscalateCommand(),
		newFinalizeCommand(),
		newShowCommand(),
		newListCommand(),
		newTerminateCommand(),
		newServeCommand(),
	)
	return cmd
}

// withService runs fn against a service built from the --config file
func withService(cmd *cobra.Command, fn func(ctx context.Context, srv *approvalflow.Service) error) error {
	configPath, _ := cmd.Flags().GetString(configFlag)
	cfg, err := approvalflow.LoadConfig(configPath)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	srv, err := approvalflow.New(ctx, approvalflow.WithConfig(cfg))
	if err != nil {
		return err
	}
	defer srv.Close()
	return fn(ctx, srv)
}

func printJSON(w io.Writer, value interface{}) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
