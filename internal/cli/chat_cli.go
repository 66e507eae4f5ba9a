package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/at-ishikawa/wikibot/internal/resolver"
	"github.com/fatih/color"
)

var errEnd = errors.New("end")

// Resolver answers a single question. Satisfied by *resolver.Resolver.
type Resolver interface {
	Resolve(ctx context.Context, query string) resolver.FinalAnswer
}

// ChatCLI manages the interactive question and answer session
type ChatCLI struct {
	resolver     Resolver
	stdinReader  *bufio.Reader
	stdoutWriter io.Writer

	bold       *color.Color
	italic     *color.Color
	modelBadge *color.Color
	wikiBadge  *color.Color
	noneBadge  *color.Color

	sessionTokens int
}

// NewChatCLI creates an interactive CLI reading from stdin
func NewChatCLI(res Resolver) *ChatCLI {
	return &ChatCLI{
		resolver:     res,
		stdinReader:  bufio.NewReader(os.Stdin),
		stdoutWriter: os.Stdout,
		bold:         color.New(color.Bold),
		italic:       color.New(color.Italic),
		modelBadge:   color.New(color.FgGreen),
		wikiBadge:    color.New(color.FgBlue),
		noneBadge:    color.New(color.FgRed),
	}
}

type Session interface {
	Session(ctx context.Context) error
}

// Run drives the session loop until the session ends or an interrupt arrives
func (cli *ChatCLI) Run(ctx context.Context, session Session) error {
	ctx, cancel := signal.NotifyContext(
		ctx,
		os.Interrupt,
	)
	defer cancel()

	errCh := make(chan error)
	go func() {
		defer close(errCh)

	LOOP:
		for {
			select {
			case <-ctx.Done():
				break LOOP
			default:
			}

			if err := session.Session(ctx); err != nil {
				if errors.Is(err, errEnd) {
					break
				}
				errCh <- err
				break
			}
		}
	}()
	select {
	case <-ctx.Done():
		fmt.Fprintln(cli.stdoutWriter, "\nReceived interrupt signal, exiting...")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("error: %w", err)
		}
	}
	return nil
}

// Session reads one question, resolves it, and prints the answer.
// An empty line, "quit", "exit" or EOF ends the session.
func (cli *ChatCLI) Session(ctx context.Context) error {
	if _, err := cli.bold.Fprint(cli.stdoutWriter, "You: "); err != nil {
		return fmt.Errorf("failed to write the prompt: %w", err)
	}

	input, err := cli.stdinReader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			cli.printGoodbye()
			return errEnd
		}
		return fmt.Errorf("error reading input: %w", err)
	}

	query := strings.TrimSpace(input)
	if query == "" || strings.EqualFold(query, "quit") || strings.EqualFold(query, "exit") {
		cli.printGoodbye()
		return errEnd
	}

	answer := cli.resolver.Resolve(ctx, query)
	cli.printAnswer(answer)
	return nil
}

func (cli *ChatCLI) printAnswer(answer resolver.FinalAnswer) {
	fmt.Fprintln(cli.stdoutWriter, answer.Text)

	switch answer.Source {
	case resolver.SourceModel:
		cli.modelBadge.Fprintln(cli.stdoutWriter, "[source: model]")
	case resolver.SourceWikipedia:
		if answer.Title != "" {
			cli.wikiBadge.Fprintf(cli.stdoutWriter, "[source: wikipedia - %s]\n", answer.Title)
		} else {
			cli.wikiBadge.Fprintln(cli.stdoutWriter, "[source: wikipedia]")
		}
	default:
		cli.noneBadge.Fprintln(cli.stdoutWriter, "[no answer]")
	}

	usage := answer.Usage
	if usage.TotalTokens > 0 {
		cli.sessionTokens += usage.TotalTokens
		cli.italic.Fprintf(cli.stdoutWriter,
			"Token usage - prompt: %d | completion: %d | total: %d | session: %d\n",
			usage.PromptTokens, usage.CompletionTokens, usage.TotalTokens, cli.sessionTokens,
		)
		if usage.RemainingTokens != "" || usage.LimitTokens != "" {
			cli.italic.Fprintf(cli.stdoutWriter,
				"Tokens remaining: %s / %s\n",
				orNA(usage.RemainingTokens), orNA(usage.LimitTokens),
			)
		}
	}
	fmt.Fprintln(cli.stdoutWriter)
}

func (cli *ChatCLI) printGoodbye() {
	if cli.sessionTokens > 0 {
		fmt.Fprintf(cli.stdoutWriter, "\nSession total tokens used: %d\n", cli.sessionTokens)
	}
	fmt.Fprintln(cli.stdoutWriter, "Goodbye!")
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
