// Command mcg-cli is a thin HTTP client for a running mcg-server: join
// a lobby, inspect its state, and act on a hand from the terminal.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/urfave/cli"

	"github.com/mentalcardgames/mcg-sub000/internal/game"
)

func main() {
	app := cli.NewApp()
	app.Name = "mcg-cli"
	app.Usage = "talk to a mental card game server over HTTP"
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "server", Value: "http://127.0.0.1:8081", Usage: "server base URL"},
		cli.BoolFlag{Name: "json", Usage: "print raw JSON responses"},
	}
	app.Commands = []cli.Command{
		{
			Name:  "join",
			Usage: "join the lobby under a name",
			Flags: []cli.Flag{cli.StringFlag{Name: "name", Usage: "player name"}},
			Action: func(c *cli.Context) error {
				return cmdJoin(c)
			},
		},
		{
			Name:  "state",
			Usage: "print the current table state",
			Action: func(c *cli.Context) error {
				return cmdState(c)
			},
		},
		{
			Name:  "action",
			Usage: "act on behalf of a seat",
			Flags: []cli.Flag{
				cli.IntFlag{Name: "seat", Usage: "seat index"},
				cli.StringFlag{Name: "kind", Usage: "fold|check_call|bet_raise"},
				cli.Uint64Flag{Name: "amount", Usage: "desired street commitment for bet_raise"},
			},
			Action: func(c *cli.Context) error {
				return cmdAction(c)
			},
		},
		{
			Name:  "next-hand",
			Usage: "deal the next hand",
			Flags: []cli.Flag{cli.IntFlag{Name: "seat", Usage: "seat index issuing the request"}},
			Action: func(c *cli.Context) error {
				return cmdMessage(c, "next_hand")
			},
		},
		{
			Name:  "reset",
			Usage: "clear the lobby",
			Flags: []cli.Flag{cli.IntFlag{Name: "seat", Usage: "seat index issuing the request"}},
			Action: func(c *cli.Context) error {
				return cmdMessage(c, "reset")
			},
		},
		{
			Name:  "watch",
			Usage: "long-poll the server, printing new action-log entries as they appear",
			Action: func(c *cli.Context) error {
				return cmdWatch(c)
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func cmdJoin(c *cli.Context) error {
	body, _ := json.Marshal(map[string]string{"name": c.String("name")})
	resp, err := http.Post(c.GlobalString("server")+"/api/join", "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	return printResponse(c, resp)
}

func cmdState(c *cli.Context) error {
	resp, err := http.Get(c.GlobalString("server") + "/api/state")
	if err != nil {
		return err
	}
	return printResponse(c, resp)
}

func cmdAction(c *cli.Context) error {
	msg := map[string]any{"type": "action", "action": c.String("kind"), "amount": c.Uint64("amount")}
	return postMessage(c, c.Int("seat"), msg)
}

func cmdMessage(c *cli.Context, typ string) error {
	return postMessage(c, c.Int("seat"), map[string]any{"type": typ})
}

func postMessage(c *cli.Context, seat int, msg map[string]any) error {
	body, _ := json.Marshal(msg)
	url := fmt.Sprintf("%s/api/message?seat=%d", c.GlobalString("server"), seat)
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	return printResponse(c, resp)
}

func printResponse(c *cli.Context, resp *http.Response) error {
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("server: %s", bytes.TrimSpace(raw))
	}
	if c.GlobalBool("json") {
		fmt.Println(string(raw))
		return nil
	}
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "  "); err != nil {
		fmt.Println(string(raw))
		return nil
	}
	fmt.Println(pretty.String())
	return nil
}

// cmdWatch repeatedly long-polls /api/state, printing only the new
// entries of the action log since the last poll rather than the whole
// state every time.
func cmdWatch(c *cli.Context) error {
	var lastLen int
	for {
		resp, err := http.Get(c.GlobalString("server") + "/api/state")
		if err != nil {
			fmt.Fprintln(os.Stderr, "watch:", err)
			time.Sleep(time.Second)
			continue
		}
		var msg struct {
			State *game.PublicState `json:"state"`
		}
		err = json.NewDecoder(resp.Body).Decode(&msg)
		resp.Body.Close()
		if err != nil || msg.State == nil {
			if err != nil {
				fmt.Fprintln(os.Stderr, "watch:", err)
			}
			time.Sleep(time.Second)
			continue
		}
		if lastLen > len(msg.State.ActionLog) {
			lastLen = 0 // a new hand started and the log reset under us
		}
		for _, ev := range msg.State.ActionLog[lastLen:] {
			fmt.Println(formatActionEvent(ev))
		}
		lastLen = len(msg.State.ActionLog)
		time.Sleep(500 * time.Millisecond)
	}
}

func formatActionEvent(ev game.ActionEvent) string {
	switch ev.Kind {
	case "deal_community":
		return fmt.Sprintf("board: %v", ev.Cards)
	case "stage_changed":
		return fmt.Sprintf("-- %s --", ev.Stage)
	case "showdown", "pot_awarded":
		return fmt.Sprintf("%s: winners=%v amount=%d", ev.Kind, ev.Winners, ev.Amount)
	case "bet", "raise":
		return fmt.Sprintf("seat %d: %s to %d", ev.Seat, ev.Kind, ev.To)
	case "call":
		return fmt.Sprintf("seat %d: call %d", ev.Seat, ev.Amount)
	default:
		return fmt.Sprintf("seat %d: %s", ev.Seat, ev.Kind)
	}
}
