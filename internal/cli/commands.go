package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/viant/approvalflow"
	"github.com/viant/approvalflow/runtime/instance"
	"github.com/viant/approvalflow/service/decision"
	"github.com/viant/approvalflow/service/escalation"
)

func newStartCommand() *cobra.Command {
	var initiator, priority string
	cmd := &cobra.Command{
		Use:   "start <content-path>...",
		Short: "Start approval workflows",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, func(ctx context.Context, srv *approvalflow.Service) error {
				if len(args) > 1 {
					started := srv.Runtime().BulkStart(ctx, args, initiator)
					_, err := fmt.Fprintf(cmd.OutOrStdout(), "started %d of %d\n", started, len(args))
					return err
				}
				anInstance, err := srv.Runtime().StartWithMetadata(ctx, args[0], initiator, priority)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), anInstance.ID)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&initiator, "initiator", "", "Workflow initiator")
	cmd.Flags().StringVar(&priority, "priority", "", "Workflow priority")
	return cmd
}

func newRouteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "route <id>",
		Short: "Assign the approver group for the next level",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, func(ctx context.Context, srv *approvalflow.Service) error {
				group, err := srv.Runtime().Route(ctx, args[0])
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), group)
				return err
			})
		},
	}
}

func newDecideCommand() *cobra.Command {
	request := &decision.Request{}
	cmd := &cobra.Command{
		Use:   "decide <id>",
		Short: "Record an approver decision",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, func(ctx context.Context, srv *approvalflow.Service) error {
				result, err := srv.Runtime().Decide(ctx, args[0], request)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), result.Route)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&request.Args, "args", "", "DECISION:<approve|reject>,COMMENTS:<text>")
	cmd.Flags().StringVar(&request.Approver, "approver", "", "Approver")
	cmd.Flags().StringVar(&request.StepTitle, "step", "", "Step title")
	cmd.Flags().StringVar(&request.InvocationID, "invocation", "", "Invocation id used to ignore replays")
	return cmd
}

func newEscalateCommand() *cobra.Command {
	request := &escalation.Request{}
	cmd := &cobra.Command{
		Use:   "escalate [id]",
		Short: "Check one or all pending workflows for escalation",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, func(ctx context.Context, srv *approvalflow.Service) error {
				if len(args) == 0 {
					escalated := escalation.PollOnce(ctx, srv.Runtime(), request.Args, srv.Logger())
					_, err := fmt.Fprintf(cmd.OutOrStdout(), "escalated %d\n", escalated)
					return err
				}
				outcome, err := srv.Runtime().Escalate(ctx, args[0], request)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), outcome)
			})
		},
	}
	cmd.Flags().StringVar(&request.Args, "args", "", "THRESHOLD_HOURS:<int>")
	return cmd
}

func newFinalizeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "finalize <id>",
		Short: "Complete a workflow and print its notification",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, func(ctx context.Context, srv *approvalflow.Service) error {
				summary, err := srv.Runtime().Finalize(ctx, args[0])
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), summary.Notification)
				return err
			})
		},
	}
}

func newShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print a workflow instance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, func(ctx context.Context, srv *approvalflow.Service) error {
				anInstance, err := srv.Runtime().Instance(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), anInstance)
			})
		},
	}
}

func newListCommand() *cobra.Command {
	var statuses []string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List workflow instances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, func(ctx context.Context, srv *approvalflow.Service) error {
				var filter []instance.Status
				for _, status := range statuses {
					filter = append(filter, instance.Status(status))
				}
				instances, err := srv.Runtime().Instances(ctx, filter...)
				if err != nil {
					return err
				}
				for _, anInstance := range instances {
					if _, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", anInstance.ID, anInstance.Status, anInstance.Payload); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
	cmd.Flags().StringSliceVar(&statuses, "status", nil, "Filter by status (running, completed, terminated)")
	return cmd
}

func newTerminateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "terminate <id>",
		Short: "Terminate a running workflow",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, func(ctx context.Context, srv *approvalflow.Service) error {
				terminated, err := srv.Runtime().Terminate(ctx, args[0])
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), terminated)
				return err
			})
		},
	}
}
