package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"godowncore/pkg/domain"
)

var (
	planStart string
	planMode  string
	planQty   int
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Preview which empty slots a fill would consume, without committing",
	Args:  cobra.NoArgs,
	RunE:  runPlan,
}

func init() {
	planCmd.Flags().StringVar(&planStart, "start", "", "start slot id, e.g. GA-R01-C01")
	planCmd.Flags().StringVar(&planMode, "mode", string(domain.FillHorizontal), "fill mode: horizontal or vertical")
	planCmd.Flags().IntVar(&planQty, "qty", 1, "number of slots required")
	_ = planCmd.MarkFlagRequired("start")
}

func parseFillMode(mode string) (domain.FillMode, error) {
	switch domain.FillMode(strings.ToLower(mode)) {
	case domain.FillHorizontal, "":
		return domain.FillHorizontal, nil
	case domain.FillVertical:
		return domain.FillVertical, nil
	default:
		return "", fmt.Errorf("unknown fill mode %q (want horizontal or vertical)", mode)
	}
}

func runPlan(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	sess, err := newSession(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = sess.logger.Sync() }()

	mode, err := parseFillMode(planMode)
	if err != nil {
		return err
	}
	targets, err := sess.svc.PlanTargets(context.Background(), planStart, mode, planQty)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%d of %d slots available from %s (%s):\n", len(targets), planQty, planStart, mode)
	for _, id := range targets {
		fmt.Fprintln(out, " ", id)
	}
	return nil
}
