package main

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/creack/pty"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newRecordCmd() *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "record -- <command> [args...]",
		Short: "Run a command under a pty and log every write for later replay",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecord(outPath, args)
		},
	}
	cmd.Flags().StringVar(&outPath, "out", "", "transcript output path (default: stderr)")
	return cmd
}

func runRecord(outPath string, args []string) error {
	var logOut io.Writer = os.Stderr
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("tokenlined: create %s: %w", outPath, err)
		}
		defer f.Close()
		logOut = f
	}

	child := exec.Command(args[0], args[1:]...)
	ptmx, err := pty.Start(child)
	if err != nil {
		return fmt.Errorf("tokenlined: start pty: %w", err)
	}
	defer ptmx.Close()

	handleResize(ptmx)
	forwardSignals(child)

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err == nil {
		defer term.Restore(fd, oldState)
	}

	rec := &transcriptRecorder{out: logOut}

	go io.Copy(ptmx, io.TeeReader(os.Stdin, rec.inputSink()))
	io.Copy(io.MultiWriter(os.Stdout, rec.outputSink()), ptmx)

	child.Wait()

	exitCode := 0
	if child.ProcessState != nil {
		exitCode = child.ProcessState.ExitCode()
	}
	if exitCode != 0 {
		return fmt.Errorf("tokenlined: child exited %d", exitCode)
	}
	return nil
}

func handleResize(ptmx *os.File) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGWINCH)
	go func() {
		for range ch {
			pty.InheritSize(os.Stdin, ptmx)
		}
	}()
	ch <- syscall.SIGWINCH
}

func forwardSignals(cmd *exec.Cmd) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		for sig := range ch {
			if cmd.Process != nil {
				cmd.Process.Signal(sig)
			}
		}
	}()
}
