// Package interactive provides the interactive command-line interface
// for mercury-client.
package interactive

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"github.com/mercury-transport/mercury-go/pkg/connection"
)

// Manager is the part of *connection.Manager the commands drive.
type Manager interface {
	Connect(ctx context.Context, url string) error
	Disconnect(ctx context.Context, opts connection.CloseOptions) error
	Logout(ctx context.Context, reason string) error
	State() connection.State
	LastError() error
	ActiveSocketID() string
	TimeOffset() (time.Duration, bool)
}

// Client handles interactive mode for mercury-client.
type Client struct {
	mgr Manager
	url string
	rl  *readline.Instance
	out io.Writer
}

// New creates a new interactive client that connects to url.
func New(mgr Manager, url string) (*Client, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "mercury> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete: readline.NewPrefixCompleter(
			readline.PcItem("connect"),
			readline.PcItem("disconnect"),
			readline.PcItem("logout"),
			readline.PcItem("status"),
			readline.PcItem("help"),
			readline.PcItem("quit"),
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	c := newClient(mgr, url, rl.Stdout())
	c.rl = rl
	return c, nil
}

func newClient(mgr Manager, url string, out io.Writer) *Client {
	return &Client{mgr: mgr, url: url, out: out}
}

// Stdout returns a writer that properly coordinates with the readline input.
// Use this for log output to avoid interfering with the command prompt.
func (c *Client) Stdout() io.Writer {
	return c.rl.Stdout()
}

// Stderr returns a writer that properly coordinates with the readline input.
func (c *Client) Stderr() io.Writer {
	return c.rl.Stderr()
}

// Run starts the interactive command loop.
func (c *Client) Run(ctx context.Context, cancel context.CancelFunc) {
	defer c.rl.Close()

	c.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := c.rl.Readline()
		if err != nil {
			// EOF or interrupt
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(c.out, "Exiting...")
			cancel()
			return
		}

		if c.Execute(ctx, line) {
			cancel()
			return
		}
	}
}

// Execute runs one command line and reports whether the client should exit.
func (c *Client) Execute(ctx context.Context, line string) (quit bool) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return false
	}
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help", "?":
		c.printHelp()

	case "connect", "c":
		c.cmdConnect(ctx)

	case "disconnect", "d":
		c.cmdDisconnect(ctx)

	case "logout":
		c.cmdLogout(ctx, args)

	case "status", "s":
		c.cmdStatus()

	case "quit", "exit", "q":
		fmt.Fprintln(c.out, "Exiting...")
		return true

	default:
		fmt.Fprintf(c.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	return false
}

func (c *Client) printHelp() {
	fmt.Fprintln(c.out, `
Mercury Client Commands:
  connect            - Open the channel (retries in the background)
  disconnect         - Close the channel
  logout [reason]    - Close the channel for logout
  status             - Show connection status
  help               - Show this help
  quit               - Log out and exit`)
}

// cmdConnect runs the connect in the background so the prompt stays usable
// while the retry loop waits.
func (c *Client) cmdConnect(ctx context.Context) {
	if c.mgr.State().Connected {
		fmt.Fprintln(c.out, "Already connected")
		return
	}
	fmt.Fprintf(c.out, "Connecting to %s...\n", c.url)
	go func() {
		if err := c.mgr.Connect(ctx, c.url); err != nil {
			fmt.Fprintf(c.out, "Connect failed: %v\n", err)
			return
		}
		fmt.Fprintf(c.out, "Connected (socket: %s)\n", c.mgr.ActiveSocketID())
	}()
}

func (c *Client) cmdDisconnect(ctx context.Context) {
	if err := c.mgr.Disconnect(ctx, connection.CloseOptions{}); err != nil {
		fmt.Fprintf(c.out, "Disconnect failed: %v\n", err)
		return
	}
	fmt.Fprintln(c.out, "Disconnected")
}

func (c *Client) cmdLogout(ctx context.Context, args []string) {
	reason := strings.Join(args, " ")
	if err := c.mgr.Logout(ctx, reason); err != nil {
		fmt.Fprintf(c.out, "Logout failed: %v\n", err)
		return
	}
	fmt.Fprintln(c.out, "Logged out")
}

func (c *Client) cmdStatus() {
	st := c.mgr.State()
	fmt.Fprintf(c.out, "URL:             %s\n", c.url)
	fmt.Fprintf(c.out, "State:           %s\n", st)
	fmt.Fprintf(c.out, "Ever connected:  %t\n", st.HasEverConnected)
	if id := c.mgr.ActiveSocketID(); id != "" {
		fmt.Fprintf(c.out, "Active socket:   %s\n", id)
	}
	if offset, ok := c.mgr.TimeOffset(); ok {
		fmt.Fprintf(c.out, "Clock offset:    %s\n", offset)
	}
	if err := c.mgr.LastError(); err != nil {
		fmt.Fprintf(c.out, "Last error:      %v\n", err)
	}
}

var _ Manager = (*connection.Manager)(nil)
