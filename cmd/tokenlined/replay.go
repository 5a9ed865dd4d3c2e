package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"regexp"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var writeHeaderPattern = regexp.MustCompile(`^=== Write #(\d+) \((\d+) bytes\) (in|out) ===$`)
var errInterrupted = errors.New("interrupted")

func newReplayCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "replay <transcript-file>",
		Short: "Step through a recorded transcript one write at a time",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(args[0], writeDirection(dir))
		},
	}
	cmd.Flags().StringVar(&dir, "direction", "out", "which recorded direction to play back: in, out")
	return cmd
}

func parseTranscript(r io.Reader) ([]transcriptWrite, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var writes []transcriptWrite
	var lineNum int
	var pendingSeq int
	var pendingDir writeDirection
	var haveHeader bool

	for scanner.Scan() {
		lineNum++
		line := scanner.Text()

		if strings.HasPrefix(line, "=== Write #") {
			m := writeHeaderPattern.FindStringSubmatch(line)
			if m == nil {
				return nil, fmt.Errorf("line %d: invalid write header %q", lineNum, line)
			}
			seq, err := strconv.Atoi(m[1])
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid sequence in %q", lineNum, line)
			}
			pendingSeq = seq
			pendingDir = writeDirection(m[3])
			haveHeader = true
			continue
		}

		if strings.TrimSpace(line) == "" {
			continue
		}

		if !strings.HasPrefix(line, "Data: ") {
			return nil, fmt.Errorf("line %d: unexpected line %q", lineNum, line)
		}
		if !haveHeader {
			return nil, fmt.Errorf("line %d: Data line before any header", lineNum)
		}
		data, err := strconv.Unquote(strings.TrimPrefix(line, "Data: "))
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid quoted payload: %w", lineNum, err)
		}
		writes = append(writes, transcriptWrite{Seq: pendingSeq, Dir: pendingDir, Data: []byte(data)})
		haveHeader = false
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(writes) == 0 {
		return nil, errors.New("no writes found in transcript")
	}
	return writes, nil
}

// replayWrites emits every write matching dir, pausing after each one for
// an Enter keypress on step (Ctrl-C aborts).
func replayWrites(ctx context.Context, writes []transcriptWrite, dir writeDirection, step io.Reader, out io.Writer) error {
	reader := bufio.NewReader(step)
	var matched []transcriptWrite
	for _, w := range writes {
		if w.Dir == dir {
			matched = append(matched, w)
		}
	}
	if len(matched) == 0 {
		return fmt.Errorf("no %s writes in transcript", dir)
	}

	for i, w := range matched {
		if _, err := out.Write(w.Data); err != nil {
			return err
		}
		if i == len(matched)-1 {
			break
		}

		errCh := make(chan error, 1)
		go func() { errCh <- waitForNextStep(reader) }()
		select {
		case <-ctx.Done():
			return errInterrupted
		case err := <-errCh:
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func waitForNextStep(reader *bufio.Reader) error {
	for {
		b, err := reader.ReadByte()
		if err != nil {
			return err
		}
		switch b {
		case '\n', '\r':
			return nil
		case 0x03:
			return errInterrupted
		}
	}
}

func runReplay(path string, dir writeDirection) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("tokenlined: open %s: %w", path, err)
	}
	defer f.Close()

	writes, err := parseTranscript(f)
	if err != nil {
		return fmt.Errorf("tokenlined: parse %s: %w", path, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("tokenlined: make raw stdin: %w", err)
	}
	defer term.Restore(fd, oldState)

	fmt.Fprintf(os.Stderr, "tokenlined: replaying %s (%s). Press enter to advance\r\n", path, dir)

	if err := replayWrites(ctx, writes, dir, os.Stdin, os.Stdout); err != nil {
		if errors.Is(err, errInterrupted) {
			return fmt.Errorf("interrupted")
		}
		return err
	}
	return nil
}
