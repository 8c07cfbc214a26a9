package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Game commands",
	}

	cmd.AddCommand(newGameCreateCmd())
	cmd.AddCommand(newGameStartCmd())
	cmd.AddCommand(newGameShowCmd())
	cmd.AddCommand(newGameChooseCmd())
	cmd.AddCommand(newGameAbandonCmd())
	cmd.AddCommand(newGamePlayCmd())

	return cmd
}

func newGameCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create",
		Short: "Create a game from the current setup",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Game
			if err := client.Post("/api/v1/games", nil, &result); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newGameStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start <id>",
		Short: "Start the first round",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Game
			if err := client.Post(fmt.Sprintf("/api/v1/games/%s/start", args[0]), nil, &result); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newGameShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show the game state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Game
			if err := client.Get(fmt.Sprintf("/api/v1/games/%s", args[0]), &result); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newGameChooseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "choose <id> <slot> <R|P|S>",
		Short: "Submit a choice for the player in slot 1 or 2",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			slot, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid slot: %w", err)
			}

			req := map[string]any{"slot": slot, "choice": args[2]}
			var result Game
			if err := client.Post(fmt.Sprintf("/api/v1/games/%s/choices", args[0]), req, &result); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newGameAbandonCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "abandon <id>",
		Short: "Abandon the game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete(fmt.Sprintf("/api/v1/games/%s", args[0])); err != nil {
				return err
			}
			NewOutput(cfg.Output).PrintMessage("Game abandoned")
			return nil
		},
	}
}

func newGamePlayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "play <id> <slot>",
		Short: "Play interactively over WebSocket",
		Long: `Connect to the game's WebSocket, print every event and send each
line typed on stdin (R, P or S) as a choice for the given slot.

Press Ctrl+D to disconnect.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			slot, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid slot: %w", err)
			}
			return playGame(args[0], slot)
		},
	}
}

func playGame(gameID string, slot int) error {
	wsURL := "ws" + strings.TrimPrefix(client.BaseURL(), "http") + "/api/v1/games/" + gameID + "/ws"

	header := http.Header{}
	if client.Token() != "" {
		header.Set("Authorization", "Bearer "+client.Token())
	}

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, header)
	if err != nil {
		if resp != nil {
			return fmt.Errorf("connection failed: HTTP %d", resp.StatusCode)
		}
		return fmt.Errorf("connection failed: %w", err)
	}
	defer func() { _ = conn.Close() }()

	jsonOutput := cfg.Output == "json"
	if !jsonOutput {
		fmt.Printf("Connected to game %s as slot %d\n", gameID, slot)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var frame struct {
				Type string `json:"type"`
			}
			_ = json.Unmarshal(data, &frame)
			printEvent(frame.Type, string(data), jsonOutput)
		}
	}()

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		choice := strings.TrimSpace(scanner.Text())
		if choice == "" {
			continue
		}
		if err := conn.WriteJSON(map[string]any{"slot": slot, "choice": choice}); err != nil {
			return fmt.Errorf("send failed: %w", err)
		}
	}

	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	<-done
	return nil
}
