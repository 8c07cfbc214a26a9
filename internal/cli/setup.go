package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newSetupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Game setup commands",
	}

	cmd.AddCommand(newSetupShowCmd())
	cmd.AddCommand(newSetupModeCmd())
	cmd.AddCommand(newSetupPlayersCmd())
	cmd.AddCommand(newSetupAvatarCmd())
	cmd.AddCommand(newSetupResetCmd())

	return cmd
}

func newSetupShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current setup",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Setup
			if err := client.Get("/api/v1/setup", &result); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newSetupModeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mode <single_player|two_player> <rounds>",
		Short: "Choose the game mode and number of rounds",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rounds, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid rounds: %w", err)
			}

			req := map[string]any{"mode": args[0], "num_of_games": rounds}
			var result Setup
			if err := client.Put("/api/v1/setup/mode", req, &result); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newSetupPlayersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "players <player1> [player2]",
		Short: "Enter player names (player2 is the computer in single player mode)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"player1": args[0]}
			if len(args) == 2 {
				req["player2"] = args[1]
			}

			var result Setup
			if err := client.Post("/api/v1/setup/players", req, &result); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newSetupAvatarCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "avatar <slot> <avatar>",
		Short: "Pick an avatar for the player in slot 1 or 2",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			slot, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid slot: %w", err)
			}

			req := map[string]any{"slot": slot, "avatar": args[1]}
			var result Player
			if err := client.Post("/api/v1/setup/avatar", req, &result); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newSetupResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Clear the setup and players stored for this session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete("/api/v1/setup"); err != nil {
				return err
			}
			NewOutput(cfg.Output).PrintMessage("Setup cleared")
			return nil
		},
	}
}

func newAvatarsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "avatars",
		Short: "List the selectable avatars",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Avatars
			if err := client.Get("/api/v1/avatars", &result); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}
