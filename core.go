package main

import (
	"fmt"
	"io"
	"strings"

	"gofifth/internal/textin"
)

// Core bundles the host-facing concerns of a VM: queued rune input with line
// tracking, flushable output, a dump sink, and tracing.
type Core struct {
	logging
	textin.Input
	out     writeFlusher
	dumpOut writeFlusher
	closers []io.Closer
}

func (core *Core) Close() (err error) {
	for i := len(core.closers) - 1; i >= 0; i-- {
		if cerr := core.closers[i].Close(); err == nil {
			err = cerr
		}
	}
	return err
}

func (core *Core) halt(err error) {
	// ignore any panics while trying to flush output
	func() {
		defer func() { recover() }()
		if core.out != nil {
			if ferr := core.out.Flush(); err == nil {
				err = ferr
			}
		}
	}()

	// ignore any panics while logging
	func() {
		defer func() { recover() }()
		core.logf("#", "halt error: %v", err)
	}()

	panic(haltError{err})
}

// writeRune sends one rune to output utf8 encoded, through the sink's own
// rune support when it has any.
func (core *Core) writeRune(r rune) {
	var err error
	if rw, ok := core.out.(interface{ WriteRune(r rune) (int, error) }); ok {
		_, err = rw.WriteRune(r)
	} else {
		_, err = io.WriteString(core.out, string(r))
	}
	if err != nil {
		core.halt(err)
	}
}

// readRune pulls the next input rune, flushing any pending output first so
// that prompts and echoes land before the read blocks.
func (core *Core) readRune() (rune, error) {
	if core.out != nil {
		if err := core.out.Flush(); err != nil {
			core.halt(err)
		}
	}
	r, _, err := core.Input.ReadRune()
	return r, err
}

type haltError struct{ error }

func (err haltError) Error() string {
	if err.error != nil {
		return fmt.Sprintf("halted: %v", err.error)
	}
	return "halted"
}
func (err haltError) Unwrap() error { return err.error }

type logging struct {
	logfn func(mess string, args ...interface{})

	markWidth int
}

func (log *logging) logf(mark, mess string, args ...interface{}) {
	if log.logfn == nil {
		return
	}
	if n := log.markWidth - len(mark); n > 0 {
		for _, r := range mark {
			mark = strings.Repeat(string(r), n) + mark
			break
		}
	} else if n < 0 {
		log.markWidth = len(mark)
	}
	if len(args) > 0 {
		mess = fmt.Sprintf(mess, args...)
	}
	log.logfn("%v %v", mark, mess)
}
