package main

import (
	"context"
	"fmt"
	"io"
	"runtime/debug"

	"gofifth/internal/textin"
)

// New builds a machine with opts applied over the defaults. Construction
// finishes lazily on first Run, so options that size the heap or stacks must
// be given up front.
func New(opts ...VMOption) *VM {
	vm := &VM{}
	defaultOptions.apply(vm)
	VMOptions(opts...).apply(vm)
	return vm
}

// Run boots the kernel if needed, then interprets queued input until BYE or
// end of input. Internal faults surface as returned errors, never panics.
func (vm *VM) Run(ctx context.Context) error {
	err := recoverErr(func() error {
		return vm.run(ctx)
	})
	if err == io.EOF {
		err = nil
	}
	return err
}

// recoverErr converts panics out of f into returned errors: a halt unwraps to
// the fault that stopped the machine, anything else is a host bug reported
// with its stack.
func recoverErr(f func() error) (err error) {
	defer func() {
		switch e := recover().(type) {
		case nil:
		case haltError:
			err = e.error
		default:
			err = panicError{e, debug.Stack()}
		}
	}()
	return f()
}

type panicError struct {
	value interface{}
	stack []byte
}

func (pe panicError) Error() string { return fmt.Sprint(pe) }

func (pe panicError) Format(f fmt.State, c rune) {
	fmt.Fprintf(f, "paniced: %v", pe.value)
	if f.Flag('+') {
		fmt.Fprintf(f, "\nPanic stack: %s", pe.stack)
	}
}

func (pe panicError) Unwrap() error {
	err, _ := pe.value.(error)
	return err
}

// WithInput queues an input stream for the interpreter to read.
func WithInput(r io.Reader) VMOption { return withInput(r) }

// WithInputWriter queues the content written by wt as an input stream.
func WithInputWriter(wt io.WriterTo) VMOption { return withInputWriter(wt) }

// WithOutput sets the interpreter's output stream.
func WithOutput(w io.Writer) VMOption { return withOutput(w) }

// WithTee copies interpreter output into an additional writer.
func WithTee(w io.Writer) VMOption { return withTee(w) }

// WithDumpOutput directs DUMP output somewhere other than regular output.
func WithDumpOutput(w io.Writer) VMOption { return withDumpOutput(w) }

// WithHeapSize sets the heap size in bytes.
func WithHeapSize(size int) VMOption { return withHeapSize(size) }

// WithStackDepth bounds the data and return stacks.
func WithStackDepth(depth int) VMOption { return withStackDepth(depth) }

// WithLogf enables execution tracing through a printf-ish function.
func WithLogf(f func(mess string, args ...interface{})) VMOption { return withLogfn(f) }

// NamedReader wraps a reader so that input locations report the given name.
func NamedReader(name string, r io.Reader) io.Reader { return textin.NamedReader(name, r) }
