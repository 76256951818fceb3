package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/calenhq/calen/internal/calendar"
	"github.com/calenhq/calen/internal/flow"
)

var askCmd = &cobra.Command{
	Use:   "ask [text]",
	Short: "Process one natural language request",
	Long: `Process one natural language calendar request, e.g.
'calen ask "yarin saat 14:00'te dis hekimi randevusu olustur"'.
Without an argument the text is read from standard input.`,
	RunE: runAsk,
}

var errTextRequired = errors.New("request text is required")

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		var err error
		text, err = promptForText(cmd.InOrStdin(), cmd.OutOrStdout())
		if err != nil {
			if errors.Is(err, errTextRequired) {
				return fmt.Errorf("request text required: pass it as an argument or via standard input")
			}
			return err
		}
	}

	a, err := buildApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	temporal, err := temporalNow(a.cfg)
	if err != nil {
		return err
	}

	turnCtx, cancel := turnContext(ctx, 0)
	defer cancel()

	result, err := a.service.Process(turnCtx, flow.TurnInput{
		OwnerID:  a.owner,
		Text:     text,
		Temporal: temporal,
	})
	if err != nil {
		return err
	}

	printResult(cmd.OutOrStdout(), result)
	return nil
}

func promptForText(r io.Reader, w io.Writer) (string, error) {
	if file, ok := r.(*os.File); ok && isTerminalFile(file) {
		fmt.Fprint(w, "calen> ")
	}
	reader := bufio.NewReader(r)
	line, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return "", errTextRequired
	}
	return line, nil
}

func isTerminalFile(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}

func printResult(w io.Writer, result flow.TurnResult) {
	fmt.Fprintln(w, result.Message)

	if len(result.Events) > 0 {
		fmt.Fprintln(w)
		for i, ev := range result.Events {
			fmt.Fprintf(w, "  %d. %s\n", i+1, formatEvent(ev))
		}
	}
	if len(result.Created) > 0 {
		fmt.Fprintln(w)
		for _, ev := range result.Created {
			fmt.Fprintf(w, "  + %s\n", formatEvent(ev))
		}
	}
	if len(result.ConflictEvents) > 0 {
		fmt.Fprintln(w)
		for _, ev := range result.ConflictEvents {
			fmt.Fprintf(w, "  ! %s\n", formatEvent(ev))
		}
	}
	if result.ConflictEvent != nil {
		fmt.Fprintf(w, "\n  ! %s\n", formatEvent(*result.ConflictEvent))
	}
}

func formatEvent(ev calendar.Event) string {
	const layout = "02.01.2006 15:04"
	var b strings.Builder
	b.WriteString(ev.Title)
	b.WriteString(" (")
	b.WriteString(ev.StartDate.Format(layout))
	if ev.EndDate != nil {
		b.WriteString(" - ")
		b.WriteString(ev.EndDate.Format(layout))
	}
	b.WriteString(")")
	if ev.Location != "" {
		b.WriteString(" @ ")
		b.WriteString(ev.Location)
	}
	b.WriteString(" [")
	b.WriteString(ev.ID)
	b.WriteString("]")
	return b.String()
}

// used by voice as well; keep the turn bounded even if the model CLI hangs.
func turnContext(parent context.Context, timeoutS int) (context.Context, context.CancelFunc) {
	if timeoutS <= 0 {
		timeoutS = 600
	}
	return context.WithTimeout(parent, time.Duration(timeoutS)*time.Second)
}
