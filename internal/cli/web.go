package cli

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"ganttboard/internal/web"

	"github.com/spf13/cobra"
)

func newWebCmd(app *App) *cobra.Command {
	var addr string
	var open bool

	cmd := &cobra.Command{
		Use:   "web",
		Short: "Serve the board in a browser (Datastar, live updates)",
		Long: strings.TrimSpace(`
Serve the board from a local HTTP server. Every open tab shares one session:
edits in one tab stream to the others over server-sent events.
`),
		Example: strings.TrimSpace(`
# Pick a free port and open the browser
ganttboard web --open

# Fixed address
ganttboard web --addr 127.0.0.1:3335
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = app.cfg.Web.Addr
			}
			if !cmd.Flags().Changed("open") {
				open = app.cfg.Web.Open
			}
			listenAddr := strings.TrimSpace(addr)
			if listenAddr == "" {
				return writeErr(cmd, errors.New("web: missing --addr"))
			}

			st, done, err := app.newStore(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()

			log := app.log.WithField("component", "web")
			srv, err := web.NewServer(web.ServerConfig{Store: st, Logger: log})
			if err != nil {
				return writeErr(cmd, err)
			}

			ln, err := net.Listen("tcp", listenAddr)
			if err != nil {
				return writeErr(cmd, err)
			}

			actualAddr := ln.Addr().String()
			url := "http://" + actualAddr + "/"

			opened := false
			openErr := ""
			if open {
				if err := openPath(url); err != nil {
					openErr = err.Error()
				} else {
					opened = true
				}
			}

			hints := []string{}
			if !opened {
				hints = append(hints, "open "+url)
			}
			_ = writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"addr":      actualAddr,
					"url":       url,
					"opened":    opened,
					"openError": openErr,
					"startedAt": time.Now().UTC().Format(time.RFC3339Nano),
				},
				"_hints": hints,
			})

			fmt.Fprintf(cmd.ErrOrStderr(), "ganttboard web running at %s\n", url)
			if openErr != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Failed to open browser: %s\n", openErr)
			}
			log.WithField("addr", actualAddr).Info("listening")
			return serve(cmd.Context(), ln, srv.Handler(), log)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:0", "Bind address (host:port or :port; default from config web.addr)")
	cmd.Flags().BoolVar(&open, "open", false, "Open the UI in your default browser")
	return cmd
}
