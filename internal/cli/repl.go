// Package cli provides the interactive chat loop and console output for sozoku.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/hyperjump/sozoku/internal/models"
)

// Console text of the chat loop.
const (
	// Greeting is printed once when the loop starts.
	Greeting = "RAG + LLM チャットシステムへようこそ。質問を入力してください。"
	// Prompt precedes every input line.
	Prompt = "あなた: "
	// Farewell is printed when an exit keyword is entered.
	Farewell = "チャットを終了します。"
)

var exitKeywords = map[string]struct{}{"終了": {}, "exit": {}, "quit": {}}

// IsExit reports whether line asks to leave the chat.
func IsExit(line string) bool {
	_, ok := exitKeywords[strings.ToLower(strings.TrimSpace(line))]
	return ok
}

// Responder writes the response to one question to w.
type Responder interface {
	Respond(ctx context.Context, query string, w io.Writer) error
}

// REPL reads questions line by line and prints responses.
type REPL struct {
	in        io.Reader
	out       io.Writer
	responder Responder
}

// NewREPL creates a chat loop reading from in and writing to out.
func NewREPL(in io.Reader, out io.Writer, responder Responder) *REPL {
	return &REPL{in: in, out: out, responder: responder}
}

// Run loops until an exit keyword, end of input, or a failed response.
// Invalid model output is reported and the loop continues; any other
// failure ends it with the error.
func (r *REPL) Run(ctx context.Context) error {
	fmt.Fprintln(r.out, Greeting)
	scanner := bufio.NewScanner(r.in)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for {
		fmt.Fprint(r.out, Prompt)
		if !scanner.Scan() {
			fmt.Fprintln(r.out)
			return scanner.Err()
		}
		line := scanner.Text()
		if IsExit(line) {
			fmt.Fprintln(r.out, Farewell)
			return nil
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		fmt.Fprint(r.out, "\nAI: ")
		err := r.responder.Respond(ctx, line, r.out)
		fmt.Fprintln(r.out)
		if err == nil {
			continue
		}
		if errors.Is(err, models.ErrValidation) {
			fmt.Fprintf(r.out, "エラー: %v\n", err)
			continue
		}
		return err
	}
}
