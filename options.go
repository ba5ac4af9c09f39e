package main

import (
	"bytes"
	"fmt"
	"io"
)

// VMOption is a composable piece of VM construction.
type VMOption interface {
	apply(vm *VM)
}

// VMOptions compounds any number of options into one.
func VMOptions(opts ...VMOption) VMOption {
	switch opts := flattenOptions(nil, opts...); len(opts) {
	case 0:
		return nil
	case 1:
		return opts[0]
	default:
		return opts
	}
}

type options []VMOption

func (opts options) apply(vm *VM) {
	for _, opt := range opts {
		opt.apply(vm)
	}
}

func flattenOptions(all options, some ...VMOption) options {
	for _, one := range some {
		if many, ok := one.(options); ok {
			all = append(all, many...)
		} else if one != nil {
			all = append(all, one)
		}
	}
	return all
}

type optionFunc func(vm *VM)

func (f optionFunc) apply(vm *VM) { f(vm) }

var defaultOptions = VMOptions(
	withOutput(io.Discard),
)

// withInput queues a reader for the interpreter to consume; closed with the
// VM if it is a closer.
func withInput(r io.Reader) VMOption {
	return optionFunc(func(vm *VM) {
		vm.Queue = append(vm.Queue, r)
		vm.keepCloser(r)
	})
}

// withInputWriter queues the content written by wt, materialized on first
// read. The stream is named after wt when it has a name.
func withInputWriter(wt io.WriterTo) VMOption {
	return withInput(&writerToReader{wt: wt})
}

type writerToReader struct {
	wt io.WriterTo
	r  io.Reader
}

func (wr *writerToReader) Name() string {
	if nom, ok := wr.wt.(interface{ Name() string }); ok {
		return nom.Name()
	}
	return fmt.Sprintf("<unnamed %T>", wr.wt)
}

func (wr *writerToReader) Read(p []byte) (int, error) {
	if wr.r == nil {
		var buf bytes.Buffer
		if _, err := wr.wt.WriteTo(&buf); err != nil {
			return 0, err
		}
		wr.r = &buf
	}
	return wr.r.Read(p)
}

// withOutput sets the interpreter's output stream; closed with the VM if it
// is a closer.
func withOutput(w io.Writer) VMOption {
	return optionFunc(func(vm *VM) { vm.setOutput(w) })
}

// withTee copies interpreter output into an additional writer.
func withTee(w io.Writer) VMOption {
	return optionFunc(func(vm *VM) { vm.teeOutput(w) })
}

// withDumpOutput directs DUMP rows somewhere other than interpreter output.
func withDumpOutput(w io.Writer) VMOption {
	return optionFunc(func(vm *VM) { vm.setDumpOutput(w) })
}

// withHeapSize sets the heap size in bytes; must be applied before first run.
func withHeapSize(size int) VMOption {
	return optionFunc(func(vm *VM) {
		vm.heapSize = size
	})
}

// withStackDepth bounds both the data and return stacks.
func withStackDepth(depth int) VMOption {
	return optionFunc(func(vm *VM) {
		vm.stack.limit = depth
		vm.rstack.limit = depth
	})
}

// withLogfn sets a tracing sink; nil disables tracing.
func withLogfn(f func(mess string, args ...interface{})) VMOption {
	return optionFunc(func(vm *VM) {
		vm.logfn = f
	})
}
