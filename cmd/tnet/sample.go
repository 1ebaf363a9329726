package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/tnetkit/tnet/internal/errors"
	"github.com/tnetkit/tnet/pkg/protocol"
)

type sample struct {
	dir protocol.Direction
	new func() protocol.Message
}

var samples = map[string]sample{
	"connect": {protocol.ToServer, func() protocol.Message {
		return &protocol.ConnectRequest{Version: "Terraria279"}
	}},
	"disconnect": {protocol.ToClient, func() protocol.Message {
		m := protocol.NewDisconnect(protocol.Localized("CLI.KickMessage", "spam"))
		return &m
	}},
	"player-slot": {protocol.ToClient, func() protocol.Message {
		return &protocol.PlayerSlot{PlayerIndex: 3}
	}},
	"tile-modify": {protocol.ToServer, func() protocol.Message {
		return &protocol.TileModify{Kind: protocol.PlaceTile, X: 4200, Y: 310, Style: 1}
	}},
	"item-owner": {protocol.ToClient, func() protocol.Message {
		return &protocol.ItemOwner{ItemIndex: 10, OwnerIndex: 5}
	}},
	"projectile": {protocol.ToClient, func() protocol.Message {
		return &protocol.ProjectileUpdate{
			Identity: 42, Position: protocol.Vector2{X: 1600, Y: 800}, Velocity: protocol.Vector2{X: 8},
			Owner: 3, Type: 14, Damage: protocol.Some[int16](20), Knockback: protocol.Some[float32](2),
		}
	}},
	"player-buffs": {protocol.ToClient, func() protocol.Message {
		m := protocol.NewPlayerBuffs(3, 1, 2, 94)
		return &m
	}},
	"chest-name": {protocol.ToClient, func() protocol.Message {
		return &protocol.ChestName{Chest: 5, X: 100, Y: 200, Name: "Loot"}
	}},
	"smart-text": {protocol.ToClient, func() protocol.Message {
		m := protocol.NewSmartText(protocol.Color{R: 255, G: 240, B: 20}, protocol.Formatted("{0} has joined.", "Ana"), 600)
		return &m
	}},
	"player-hurt": {protocol.ToServer, func() protocol.Message {
		return &protocol.PlayerHurt{
			PlayerIndex: 1,
			Reason:      protocol.DeathReason{KillerNPC: protocol.Some[int16](12)},
			Damage:      25, HitDirection: 1,
		}
	}},
	"player-death": {protocol.ToClient, func() protocol.Message {
		return &protocol.PlayerDeath{
			PlayerIndex: 1,
			Reason:      protocol.DeathReason{CustomReason: protocol.Some("fell out of the world")},
			Damage:      1000,
		}
	}},
	"chat": {protocol.ToServer, func() protocol.Message {
		m := protocol.NewChatCommand("Say", "hello")
		return &m
	}},
	"broadcast": {protocol.ToClient, func() protocol.Message {
		m := protocol.NewChatBroadcast(255, protocol.Literal("Server restarting"), protocol.Color{R: 255, G: 255, B: 255})
		return &m
	}},
	"ping": {protocol.ToClient, func() protocol.Message {
		return &protocol.PingModule{Position: protocol.Vector2{X: 1024, Y: 512}}
	}},
}

func sampleNames() []string {
	names := make([]string, 0, len(samples))
	for name := range samples {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func encodeSampleCmd() *cobra.Command {
	var list, quiet bool

	cmd := &cobra.Command{
		Use:   "encode-sample <name>",
		Short: "Print the hex frame of a sample message",
		Long: `Encode one of the built-in sample messages and print the frame as hex.

The output can be fed back to 'tnet decode'. Each sample has a fixed
direction, printed alongside the frame.

Examples:
  tnet encode-sample --list
  tnet encode-sample item-owner
  tnet decode --to-client $(tnet encode-sample -q item-owner)`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if list || len(args) == 0 {
				for _, name := range sampleNames() {
					fmt.Fprintf(out, "%-14s %s\n", name, samples[name].dir)
				}
				return nil
			}
			return runEncodeSample(out, args[0], quiet)
		},
	}

	cmd.Flags().BoolVarP(&list, "list", "l", false, "List sample names")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Print only the hex frame")

	return cmd
}

func runEncodeSample(out io.Writer, name string, quiet bool) error {
	s, ok := samples[name]
	if !ok {
		return errors.New("T402").
			WithDetailf("No sample named %q", name).
			WithSuggestion("Run 'tnet encode-sample --list' to see the samples")
	}

	frame, err := protocol.Encode(s.new(), s.dir)
	if err != nil {
		return errors.Newf(errors.CategoryCLI, "encode %s: %v", name, err)
	}

	if quiet {
		fmt.Fprintln(out, hex.EncodeToString(frame))
		return nil
	}
	fmt.Fprintf(out, "%s %s\n", s.dir, hex.EncodeToString(frame))
	return nil
}
