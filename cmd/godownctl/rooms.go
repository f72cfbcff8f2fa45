package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var roomsCmd = &cobra.Command{
	Use:   "rooms",
	Short: "List the configured rooms and their free capacity",
	Args:  cobra.NoArgs,
	RunE:  runRooms,
}

func runRooms(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
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
	for _, room := range sess.svc.Rooms(ctx) {
		status, err := sess.svc.RoomStatus(ctx, room.ID)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%-12s %-10s %s  %dx%d  free %d/%d\n",
			room.ID, room.Code, room.Name, room.Rows, room.Cols, status.Free, room.Capacity())
	}
	return nil
}
