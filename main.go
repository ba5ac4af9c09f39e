package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/peterh/liner"
)

var (
	timeout     = flag.Duration("timeout", 0, "limit on total run time")
	trace       = flag.Bool("trace", false, "trace inner interpreter execution")
	heapSize    = flag.Int("heap", 0, "heap size in bytes")
	expr        = flag.String("e", "", "evaluate an expression instead of reading stdin")
	interactive = flag.Bool("i", false, "read lines interactively with history")
)

func main() {
	flag.Parse()
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %+v\n", err)
		os.Exit(1)
	}
}

func run() error {
	opts := []VMOption{
		WithInputWriter(fifthKernel),
		WithOutput(os.Stdout),
	}

	switch {
	case *expr != "":
		opts = append(opts, WithInput(NamedReader("-e", strings.NewReader(*expr+"\n"))))
	case *interactive:
		lr := &linerReader{state: liner.NewLiner()}
		lr.state.SetCtrlCAborts(true)
		opts = append(opts, WithInput(lr))
	default:
		opts = append(opts, WithInput(NamedReader("stdin", os.Stdin)))
	}

	if *heapSize != 0 {
		opts = append(opts, WithHeapSize(*heapSize))
	}
	if *trace {
		opts = append(opts, WithLogf(log.Printf))
	}

	ctx := context.Background()
	if *timeout != 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *timeout)
		defer cancel()
	}

	vm := New(opts...)
	err := vm.Run(ctx)
	if cerr := vm.Close(); err == nil {
		err = cerr
	}
	return err
}

// linerReader adapts a line editor into the byte stream the interpreter
// expects, prompting once per exhausted buffer.
type linerReader struct {
	state *liner.State
	buf   bytes.Buffer
}

func (lr *linerReader) Name() string { return "interactive" }

func (lr *linerReader) Read(p []byte) (int, error) {
	if lr.buf.Len() == 0 {
		line, err := lr.state.Prompt("fifth> ")
		if err != nil {
			if err == liner.ErrPromptAborted {
				return 0, io.EOF
			}
			return 0, err
		}
		if line != "" {
			lr.state.AppendHistory(line)
		}
		lr.buf.WriteString(line)
		lr.buf.WriteByte('\n')
	}
	return lr.buf.Read(p)
}

func (lr *linerReader) Close() error { return lr.state.Close() }
