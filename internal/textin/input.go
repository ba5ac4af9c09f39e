// Package textin feeds a tokenizer runes from a queue of named input streams,
// tracking which line of which stream is being scanned so that errors can
// point back into the source text.
package textin

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
)

// Location names a line in a queued input stream.
type Location struct {
	Name string
	Line int
}

func (loc Location) String() string { return fmt.Sprintf("%v:%v", loc.Name, loc.Line) }

// Line combines a Location with the text scanned from it so far.
type Line struct {
	Location
	bytes.Buffer
}

func (ln Line) String() string { return fmt.Sprintf("%v %q", ln.Location, ln.Buffer.String()) }

// Input reads runes sequentially through a Queue of input streams. Scan is
// the line in progress; Last holds the line before it for diagnostics.
type Input struct {
	Queue []io.Reader
	rr    io.RuneReader
	Last  Line
	Scan  Line
}

// Loc returns the location of the line currently being scanned.
func (in *Input) Loc() Location { return in.Scan.Location }

// ReadRune reads one rune, moving on through the queued streams as each is
// exhausted; io.EOF means the whole queue is spent. Line feed rolls the Scan
// line over into Last.
func (in *Input) ReadRune() (rune, int, error) {
	for {
		if in.rr == nil && !in.next() {
			return 0, 0, io.EOF
		}
		r, n, err := in.rr.ReadRune()
		if err == io.EOF {
			if !in.next() {
				return 0, 0, io.EOF
			}
			continue
		}
		if err != nil {
			return 0, n, err
		}
		if r == '\n' {
			in.endLine()
		} else {
			in.Scan.WriteRune(r)
		}
		return r, n, nil
	}
}

// next closes out the current stream and its unfinished line, then starts
// scanning the head of the queue at line 1.
func (in *Input) next() bool {
	in.endLine()
	if cl, ok := in.rr.(io.Closer); ok {
		cl.Close()
	}
	in.rr = nil
	if len(in.Queue) == 0 {
		return false
	}
	r := in.Queue[0]
	in.Queue = in.Queue[1:]
	if rr, ok := r.(io.RuneReader); ok {
		in.rr = rr
	} else {
		in.rr = bufio.NewReader(r)
	}
	in.Scan.Location = Location{Name: nameOf(r), Line: 1}
	return true
}

func (in *Input) endLine() {
	in.Last.Reset()
	in.Last.Location = in.Scan.Location
	in.Last.Write(in.Scan.Bytes())
	in.Scan.Reset()
	in.Scan.Line++
}

// NamedReader wraps a reader so that it reports the given stream name.
func NamedReader(name string, r io.Reader) io.Reader {
	return namedReader{r, name}
}

type namedReader struct {
	io.Reader
	name string
}

func (nr namedReader) Name() string { return nr.name }

func nameOf(obj interface{}) string {
	if nom, ok := obj.(interface{ Name() string }); ok {
		return nom.Name()
	}
	return fmt.Sprintf("<unnamed %T>", obj)
}
