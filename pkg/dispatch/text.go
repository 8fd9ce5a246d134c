package dispatch

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// RunText runs a read-print loop over in/out until an exit phrase, EOF, or
// ctx cancellation. The dispatcher should be configured with ModeText so
// "bye" also exits.
func RunText(ctx context.Context, d *Dispatcher, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)

	fmt.Fprintln(out, "Jarvis ready. Type 'exit' to quit.")
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprint(out, "You: ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return err
			}
			return nil
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		turn := d.HandleUtterance(ctx, line)
		if turn.Response != "" {
			fmt.Fprintf(out, "Jarvis: %s\n", turn.Response)
		}
		if turn.Action == ActionExit {
			return nil
		}
	}
}
