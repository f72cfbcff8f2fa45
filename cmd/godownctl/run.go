package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"godowncore/internal/core"
	"godowncore/pkg/domain"
)

var runShowMetrics bool

var runCmd = &cobra.Command{
	Use:   "run <script.yaml>",
	Short: "Execute a scripted session against a fresh in-memory warehouse",
	Args:  cobra.ExactArgs(1),
	RunE:  runRun,
}

func init() {
	runCmd.Flags().BoolVar(&runShowMetrics, "metrics", false, "print the operation counters after the session")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	script, err := ParseScript(args[0])
	if err != nil {
		return err
	}
	sess, err := newSession(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = sess.logger.Sync() }()

	ctx := context.Background()
	out := cmd.OutOrStdout()

	if len(script.Items) > 0 {
		count, err := sess.svc.LoadPending(ctx, script.Consignment, script.PendingItems())
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "loaded %d pending items for %s\n", count, script.Consignment)
	}

	for i, step := range script.Steps {
		fmt.Fprintf(out, "[%d] %s\n", i+1, step.Op)
		if err := executeStep(ctx, sess.svc, out, step); err != nil {
			var capErr domain.CapacityError
			if errors.As(err, &capErr) {
				// Capacity shortages are operator feedback, not script failures.
				fmt.Fprintf(out, "    %v\n", capErr)
				continue
			}
			return fmt.Errorf("step %d (%s): %w", i+1, step.Op, err)
		}
	}

	if runShowMetrics {
		printMetrics(out, sess)
	}
	return nil
}

func executeStep(ctx context.Context, svc *core.Service, out io.Writer, step ScriptStep) error {
	switch step.Op {
	case "advise":
		advice, err := svc.Advise(ctx, step.Room, step.Qty)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "    %s\n", advice)
	case "plan":
		mode, err := parseFillMode(step.Mode)
		if err != nil {
			return err
		}
		targets, err := svc.PlanTargets(ctx, step.Start, mode, step.Qty)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "    %d slots: %s\n", len(targets), strings.Join(targets, " "))
	case "allocate":
		mode, err := parseFillMode(step.Mode)
		if err != nil {
			return err
		}
		receipt, err := svc.Allocate(ctx, core.AllocationRequest{
			StartSlotID: step.Start,
			Mode:        mode,
			ItemIDs:     step.Items,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "    allocated %d slots in %s (%d items pending)\n",
			receipt.Allocated, receipt.RoomID, receipt.PendingLeft)
	case "remove":
		var receipt domain.RemovalReceipt
		var err error
		if len(step.Slots) == 1 {
			receipt, err = svc.RemoveSlot(ctx, step.Slots[0])
		} else {
			receipt, err = svc.RemoveSlots(ctx, step.Slots)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "    freed %d slots in %s\n", receipt.Freed, receipt.RoomID)
	case "clear":
		receipt, err := svc.ClearRoom(ctx, step.Room)
		if err != nil {
			return err
		}
		if receipt.AlreadyEmpty {
			fmt.Fprintf(out, "    room %s was already empty\n", receipt.RoomID)
		} else {
			fmt.Fprintf(out, "    freed %d slots in %s\n", receipt.Freed, receipt.RoomID)
		}
	case "undo":
		receipt, err := svc.Undo(ctx)
		if err != nil {
			return err
		}
		if !receipt.Undone {
			fmt.Fprintln(out, "    nothing to undo")
		} else {
			fmt.Fprintf(out, "    undid %s: %s\n", receipt.Kind, receipt.Description)
		}
	case "search":
		ids, err := svc.Search(ctx, step.Room, step.Query)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "    %d matches: %s\n", len(ids), strings.Join(ids, " "))
	case "status":
		status, err := svc.RoomStatus(ctx, step.Room)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "    %s: %d free, %d occupied of %d\n",
			status.Room.Name, status.Free, status.Occupied, status.Room.Capacity())
	default:
		return fmt.Errorf("unknown op %q", step.Op)
	}
	return nil
}

// printMetrics dumps the session's operation counters.
func printMetrics(out io.Writer, sess *session) {
	families, err := sess.metrics.Gather()
	if err != nil {
		fmt.Fprintf(out, "metrics: %v\n", err)
		return
	}
	for _, family := range families {
		if family.GetName() != "godown_operations_total" {
			continue
		}
		for _, metric := range family.GetMetric() {
			labels := make([]string, 0, len(metric.GetLabel()))
			for _, pair := range metric.GetLabel() {
				labels = append(labels, pair.GetName()+"="+pair.GetValue())
			}
			fmt.Fprintf(out, "%s{%s} %.0f\n", family.GetName(), strings.Join(labels, ","), metric.GetCounter().GetValue())
		}
	}
}
