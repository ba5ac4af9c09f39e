/* Package main: FOURTH & FIFTH -- still almost FORTH

FIFTH is a small FORTH-flavored language built in two layers.

The FOURTH layer is the kernel: a virtual machine with a flat byte heap viewed
as 32-bit little-endian cells, a data stack and a return stack held outside the
heap, and a few dozen primitives driven by an indirect threaded inner
interpreter. Words live in the heap as linked dictionary entries; each entry's
code field holds an opcode, so built-in primitives and user-defined words are
executed by exactly the same loop. The kernel also carries the outer
interpreter as the single primitive EVALUATE: scan one token, then execute it,
compile it, or push it as a number, depending on STATE and the word's
immediate flag. The top level of the machine is just EVALUATE in a loop.

The FIFTH layer is written in itself. The kernel deliberately omits everything
that can be bootstrapped: there is no DUP or SWAP primitive, no IF, no loops,
no comments. The bootstrap source (see fifth.go) starts from three scratch
cells and builds the stock vocabulary on top -- stack shufflers, line
comments, IF ELSE THEN, BEGIN UNTIL AGAIN, inline quotations, and vectored
words whose behavior can be re-pointed at runtime with IS.

Two compiler facilities make the bootstrap work. The bracket pair [ and ]
toggles STATE mid-definition, so a definition can compute a value at compile
time and then compile it as a literal with LITERAL; the idiom

	[ ' BRANCH ] LITERAL ,

is how the control flow words compile branch instructions. And RETURN splits a
defining word in two: everything before it runs when the defining word is
invoked, everything after it becomes the runtime behavior of the word just
defined. CREATE ... RETURN ... is how VECTOR gives its children their shared
dispatch code.

Nothing here aims at speed. The machine is meant to be small enough to read
whole, and transparent enough that DUMP and the trace log can show every cell
it touches.
*/
package main
