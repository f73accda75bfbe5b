package cli

import (
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"ganttboard/internal/webtui"

	"github.com/spf13/cobra"
)

func newWebTUICmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "webtui",
		Short: "Run the terminal board in your browser (pty + websocket)",
		Long: strings.TrimSpace(`
Run the terminal board over the web via a server-side pty and xterm.js.

Each browser tab starts its own "ganttboard tui" process, so every tab is an
independent session.
`),
		Example: strings.TrimSpace(`
ganttboard webtui --addr 127.0.0.1:3334
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = app.cfg.WebTUI.Addr
			}
			command, err := app.sessionCommand()
			if err != nil {
				return writeErr(cmd, err)
			}

			log := app.log.WithField("component", "webtui")
			srv, err := webtui.NewServer(webtui.ServerConfig{
				Addr:    strings.TrimSpace(addr),
				Command: command,
				Logger:  log,
			})
			if err != nil {
				return writeErr(cmd, err)
			}

			ln, err := net.Listen("tcp", srv.Addr())
			if err != nil {
				return writeErr(cmd, err)
			}
			url := "http://" + ln.Addr().String() + "/"

			_ = writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"addr":      ln.Addr().String(),
					"url":       url,
					"command":   command,
					"startedAt": time.Now().UTC().Format(time.RFC3339Nano),
				},
				"_hints": []string{"open " + url},
			})
			fmt.Fprintf(cmd.ErrOrStderr(), "ganttboard webtui running at %s\n", url)
			return serve(cmd.Context(), ln, srv.Handler(), log)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:0", "Bind address (host:port or :port; default from config webtui.addr)")
	return cmd
}

// sessionCommand is the argv each web terminal session runs: this executable's tui
// with the same config and clock.
func (app *App) sessionCommand() ([]string, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, err
	}
	argv := []string{exe, "tui"}
	if p := strings.TrimSpace(app.ConfigPath); p != "" {
		argv = append(argv, "--config", p)
	}
	if d := strings.TrimSpace(app.Today); d != "" {
		argv = append(argv, "--today", d)
	}
	return argv, nil
}
