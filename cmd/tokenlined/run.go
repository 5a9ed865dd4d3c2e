package main

import (
	"fmt"
	"os"
	"os/signal"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/serialconsole/tokenline"
	"github.com/serialconsole/tokenline/grammarfile"
)

// grammarUpdate carries one reloaded grammar from the watcher's goroutine
// to the read loop below, which applies it only once AtLineStart is true.
type grammarUpdate struct {
	root tokenline.TokenList
	dict tokenline.TokenDict
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Drive the editor directly against this terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive()
		},
	}
}

func newLogger() *charmlog.Logger {
	l := charmlog.NewWithOptions(os.Stderr, charmlog.Options{Prefix: "tokenlined"})
	lvl, err := charmlog.ParseLevel(viper.GetString("log-level"))
	if err != nil {
		lvl = charmlog.WarnLevel
	}
	l.SetLevel(lvl)
	return l
}

func runInteractive() error {
	log := newLogger()

	var root tokenline.TokenList
	var dict tokenline.TokenDict
	var watcher *grammarfile.Watcher

	if dir := viper.GetString("grammar"); dir != "" {
		w, r, d, err := grammarfile.NewWatcher(dir, tokenline.NewLogger(log))
		if err != nil {
			return fmt.Errorf("tokenlined: load grammar: %w", err)
		}
		watcher, root, dict = w, r, d
	} else {
		root, dict = demoGrammar()
	}

	e := tokenline.New(root, dict, os.Stdout)
	e.SetPrompt(viper.GetString("prompt"))
	e.SetLogger(tokenline.NewLogger(log))
	e.SetCallback(func(p *tokenline.ParsedLine) {
		fmt.Fprintf(os.Stdout, "\r\n[tokens: %v]\r\n", p.Tokens)
	})

	// A hot-swapped grammar is only ever applied here, between Feed calls,
	// never from the watcher's own goroutine: Feed is not safe to call
	// concurrently with itself. It is held back further still, until the
	// engine reports AtLineStart, so a reload never lands mid-line.
	pending := make(chan grammarUpdate, 1)
	if watcher != nil {
		watcher.OnReload(func(r tokenline.TokenList, d tokenline.TokenDict) {
			select {
			case pending <- grammarUpdate{r, d}:
			default:
			}
		})
		watcher.OnError(func(err error) {
			log.Warn("grammar reload failed", "error", err)
		})
		stop := make(chan struct{})
		go watcher.Run(stop)
		defer func() {
			close(stop)
			watcher.Close()
		}()
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("tokenlined: make raw stdin: %w", err)
	}
	defer term.Restore(fd, oldState)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	defer signal.Stop(sigCh)

	e.WritePrompt()

	var swap *grammarUpdate
	buf := make([]byte, 1)
	for {
		select {
		case p := <-pending:
			swap = &p
		default:
		}
		if swap != nil && e.AtLineStart() {
			e.SetGrammar(swap.root, swap.dict)
			swap = nil
		}

		n, err := os.Stdin.Read(buf)
		if n == 0 && err != nil {
			return nil
		}
		sig, err := e.Feed(buf[0])
		if err != nil {
			return err
		}
		if sig == tokenline.SignalExit {
			fmt.Fprint(os.Stdout, "\r\n")
			return nil
		}
	}
}
