// craft-shell is an interactive console for a running game server. It
// understands a few convenience commands and passes anything else to
// the server verbatim.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/craftconn/craftconn/internal/core/events"
	"github.com/craftconn/craftconn/internal/core/observability/log"
	"github.com/craftconn/craftconn/internal/core/protocol"
	"github.com/craftconn/craftconn/internal/core/world"
	"github.com/craftconn/craftconn/pkg/block"
	"github.com/craftconn/craftconn/pkg/vector"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to a YAML config file")
		host       = flag.String("host", "", "server host (overrides config)")
		port       = flag.Int("port", 0, "server port (overrides config)")
		verbose    = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	cfg := protocol.DefaultConfig()
	if *configPath != "" {
		f, err := os.Open(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "config:", err)
			os.Exit(1)
		}
		cfg, err = protocol.LoadConfig(f)
		_ = f.Close()
		if err != nil {
			fmt.Fprintln(os.Stderr, "config:", err)
			os.Exit(1)
		}
	}
	if *host != "" {
		cfg.Host = *host
	}
	if *port != 0 {
		cfg.Port = *port
	}
	level := cfg.LogLevel
	if *verbose {
		level = log.LevelDebug
	}
	logger := log.New(level)

	ctx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	w, err := world.Connect(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, "connect:", err)
		os.Exit(1)
	}
	defer func() { _ = w.Close() }()

	fmt.Printf("connected to %s\n", cfg.Addr())
	if err := run(ctx, w, logger); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, w *world.World, logger *log.Logger) error {
	sc := bufio.NewScanner(os.Stdin)
	fmt.Print("> ")
	for sc.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		line := strings.TrimSpace(sc.Text())
		if line != "" {
			if err := eval(ctx, w, logger, line); err != nil {
				if errors.Is(err, errQuit) {
					return nil
				}
				fmt.Println("error:", err)
			}
		}
		fmt.Print("> ")
	}
	return sc.Err()
}

var errQuit = errors.New("quit")

func eval(ctx context.Context, w *world.World, logger *log.Logger, line string) error {
	cmd, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)
	switch cmd {
	case "quit", "exit":
		return errQuit

	case "help":
		fmt.Print(usage)
		return nil

	case "say":
		return w.Say(rest)

	case "pos":
		pos, err := w.Player.Pos()
		if err != nil {
			return err
		}
		fmt.Println(pos)
		return nil

	case "tele":
		pos, err := vector.Parse(rest)
		if err != nil {
			return err
		}
		return w.Player.SetPos(pos)

	case "get":
		pos, err := vector.Parse(rest)
		if err != nil {
			return err
		}
		bl, err := w.Blocks.Get(pos)
		if err != nil {
			return err
		}
		fmt.Printf("%s (%s)\n", bl, bl.Description())
		return nil

	case "set":
		fields := strings.Fields(rest)
		if len(fields) != 2 {
			return errors.New("usage: set x,y,z id[,data]")
		}
		pos, err := vector.Parse(fields[0])
		if err != nil {
			return err
		}
		bl, err := parseBlockArg(fields[1])
		if err != nil {
			return err
		}
		return w.Blocks.Set(pos, bl)

	case "players":
		ps, err := w.Players()
		if err != nil {
			return err
		}
		for id, p := range ps {
			pos, err := p.Pos()
			if err != nil {
				return err
			}
			fmt.Printf("player %d at %s\n", id, pos)
		}
		return nil

	case "watch":
		return watch(ctx, w, logger)

	default:
		// raw protocol command
		reply, err := w.Session().Transact(line)
		if err != nil {
			return err
		}
		if reply != "" {
			fmt.Println(reply)
		}
		return nil
	}
}

// watch streams block hit and chat events until interrupted.
func watch(ctx context.Context, w *world.World, logger *log.Logger) error {
	q := events.NewQueue(w.Session(), events.DefaultConfig(), logger)
	if err := q.Clear(); err != nil {
		return err
	}
	q.OnBlockHit(func(e events.BlockHitEvent) error {
		fmt.Println(e)
		return nil
	})
	q.OnChatPost(func(e events.ChatPostEvent) error {
		fmt.Println(e)
		return nil
	})

	fmt.Println("watching events, interrupt to stop")
	err := q.Serve(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func parseBlockArg(s string) (block.Block, error) {
	if bl, err := block.Parse(s); err == nil {
		return bl, nil
	}
	if id, err := strconv.Atoi(s); err == nil {
		return block.New(id, 0)
	}
	return block.FromName(s, 0)
}

const usage = `commands:
  say <message>       post to chat
  pos                 print the host player position
  tele x,y,z          teleport the host player
  get x,y,z           read a block
  set x,y,z id[,data] place a block (name or id)
  players             list connected players
  watch               stream events until interrupted
  quit                leave the shell
anything else is sent to the server as a raw command
`
