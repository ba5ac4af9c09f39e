package main

import (
	"io"
	"strconv"
)

// Opcodes name the primitive routines of the inner interpreter. The first
// three are code fields that give a dictionary entry its execution semantics;
// the rest are ordinary primitives bound to kernel words.
const (
	opDocol = iota
	opDovar
	opDoreturn

	opExit
	opLit
	opBranch
	opBranch0
	opEvaluate
	opExecute
	opBye

	opToR
	opRFrom

	opAdd
	opSub
	opMul
	opDiv
	opEq
	opLess
	opLess0

	opLoad
	opStor
	opCLoad
	opCStor

	opComma
	opCComma
	opAlign
	opHere
	opState
	opLatest

	opCreate
	opDef
	opEnd
	opImmediate
	opReturn
	opTick
	opLBrac
	opRBrac
	opLiteral
	opParse

	opEmit
	opPrint
	opDump

	opMax
)

var (
	opTable [opMax]func(*VM, int, int) (int, int)
	opNames [opMax]string
)

// assigned here rather than declared inline to break the initialization cycle
// through the *VM methods
func init() {
	opTable = [opMax]func(*VM, int, int) (int, int){
		opDocol:     (*VM).docol,
		opDovar:     (*VM).dovar,
		opDoreturn:  (*VM).doreturn,
		opExit:      (*VM).exit,
		opLit:       (*VM).lit,
		opBranch:    (*VM).branch,
		opBranch0:   (*VM).branch0,
		opEvaluate:  (*VM).evaluate,
		opExecute:   (*VM).execute,
		opBye:       (*VM).bye,
		opToR:       (*VM).toR,
		opRFrom:     (*VM).rFrom,
		opAdd:       (*VM).add,
		opSub:       (*VM).sub,
		opMul:       (*VM).mul,
		opDiv:       (*VM).div,
		opEq:        (*VM).eq,
		opLess:      (*VM).less,
		opLess0:     (*VM).less0,
		opLoad:      (*VM).load,
		opStor:      (*VM).stor,
		opCLoad:     (*VM).cload,
		opCStor:     (*VM).cstor,
		opComma:     (*VM).comma,
		opCComma:    (*VM).cComma,
		opAlign:     (*VM).alignWord,
		opHere:      (*VM).hereWord,
		opState:     (*VM).stateWord,
		opLatest:    (*VM).latestWord,
		opCreate:    (*VM).createWord,
		opDef:       (*VM).defWord,
		opEnd:       (*VM).endWord,
		opImmediate: (*VM).immediateWord,
		opReturn:    (*VM).returnWord,
		opTick:      (*VM).tick,
		opLBrac:     (*VM).lbrac,
		opRBrac:     (*VM).rbrac,
		opLiteral:   (*VM).literalWord,
		opParse:     (*VM).parseWord,
		opEmit:      (*VM).emit,
		opPrint:     (*VM).print,
		opDump:      (*VM).dumpWord,
	}
	opNames = [opMax]string{
		opDocol:     "docol",
		opDovar:     "dovar",
		opDoreturn:  "doreturn",
		opExit:      "EXIT",
		opLit:       "LIT",
		opBranch:    "BRANCH",
		opBranch0:   "0BRANCH",
		opEvaluate:  "EVALUATE",
		opExecute:   "EXECUTE",
		opBye:       "BYE",
		opToR:       ">R",
		opRFrom:     "R>",
		opAdd:       "+",
		opSub:       "-",
		opMul:       "*",
		opDiv:       "/",
		opEq:        "=",
		opLess:      "<",
		opLess0:     "0<",
		opLoad:      "@",
		opStor:      "!",
		opCLoad:     "C@",
		opCStor:     "C!",
		opComma:     ",",
		opCComma:    "C,",
		opAlign:     "ALIGN",
		opHere:      "HERE",
		opState:     "STATE",
		opLatest:    "LATEST",
		opCreate:    "CREATE",
		opDef:       "DEF",
		opEnd:       "END",
		opImmediate: "IMMEDIATE",
		opReturn:    "RETURN",
		opTick:      "'",
		opLBrac:     "[",
		opRBrac:     "]",
		opLiteral:   "LITERAL",
		opParse:     "PARSE",
		opEmit:      "EMIT",
		opPrint:     "PRINT",
		opDump:      "DUMP",
	}
}

// kernelWords binds the primitives to their dictionary names. END, IMMEDIATE,
// [, and LITERAL act during compilation, so they carry the immediate flag.
var kernelWords = []struct {
	name  string
	code  int
	flags byte
}{
	{"EXIT", opExit, 0},
	{"LIT", opLit, 0},
	{"BRANCH", opBranch, 0},
	{"0BRANCH", opBranch0, 0},
	{"EVALUATE", opEvaluate, 0},
	{"EXECUTE", opExecute, 0},
	{"BYE", opBye, 0},
	{">R", opToR, 0},
	{"R>", opRFrom, 0},
	{"+", opAdd, 0},
	{"-", opSub, 0},
	{"*", opMul, 0},
	{"/", opDiv, 0},
	{"=", opEq, 0},
	{"<", opLess, 0},
	{"0<", opLess0, 0},
	{"@", opLoad, 0},
	{"!", opStor, 0},
	{"C@", opCLoad, 0},
	{"C!", opCStor, 0},
	{",", opComma, 0},
	{"C,", opCComma, 0},
	{"ALIGN", opAlign, 0},
	{"HERE", opHere, 0},
	{"STATE", opState, 0},
	{"LATEST", opLatest, 0},
	{"CREATE", opCreate, 0},
	{"DEF", opDef, 0},
	{"END", opEnd, flagImmediate},
	{"IMMEDIATE", opImmediate, flagImmediate},
	{"RETURN", opReturn, 0},
	{"'", opTick, 0},
	{"[", opLBrac, flagImmediate},
	{"]", opRBrac, 0},
	{"LITERAL", opLiteral, flagImmediate},
	{"PARSE", opParse, 0},
	{"EMIT", opEmit, 0},
	{"PRINT", opPrint, 0},
	{"DUMP", opDump, 0},
}

// compileKernel lays the primitive words into the dictionary and caches the
// code field addresses that the compiler itself needs.
func (vm *VM) compileKernel() {
	for _, w := range kernelWords {
		vm.create(w.name, w.flags)
		vm.compile(w.code)
		vm.compile(0)
		vm.publish()
	}
	vm.litCFA = vm.cfa(vm.find("LIT"))
	vm.branchCFA = vm.cfa(vm.find("BRANCH"))
	vm.exitCFA = vm.cfa(vm.find("EXIT"))
}

// compileEntry lays down the top level loop: evaluate one token, branch back.
func (vm *VM) compileEntry() {
	vm.alignHere()
	q := vm.here()
	vm.compile(vm.cfa(vm.find("EVALUATE")))
	vm.compile(vm.branchCFA)
	vm.compile(q)
	vm.entry = q
}

//// code fields

// docol calls a threaded word: save the continuation, thread into the body.
func (vm *VM) docol(ip, np int) (int, int) {
	vm.rpush(np)
	return vm.next(ip + 2*cellSize)
}

// dovar pushes the body address of a data word.
func (vm *VM) dovar(ip, np int) (int, int) {
	vm.push(ip + 2*cellSize)
	return vm.next(np)
}

// doreturn pushes the body address, saves the continuation, and resumes at
// the address stashed by RETURN in the reserved cell.
func (vm *VM) doreturn(ip, np int) (int, int) {
	vm.push(ip + 2*cellSize)
	vm.rpush(np)
	return vm.next(vm.loadCell(ip + cellSize))
}

//// control

func (vm *VM) exit(ip, np int) (int, int) {
	return vm.next(vm.rpop())
}

func (vm *VM) lit(ip, np int) (int, int) {
	vm.push(vm.loadCell(np))
	return vm.next(np + cellSize)
}

func (vm *VM) branch(ip, np int) (int, int) {
	return vm.next(vm.loadCell(np))
}

func (vm *VM) branch0(ip, np int) (int, int) {
	if vm.pop() == 0 {
		return vm.next(vm.loadCell(np))
	}
	return vm.next(np + cellSize)
}

func (vm *VM) execute(ip, np int) (int, int) {
	return vm.pop(), np
}

func (vm *VM) bye(ip, np int) (int, int) {
	return -1, np
}

func (vm *VM) toR(ip, np int) (int, int) {
	vm.rpush(vm.pop())
	return vm.next(np)
}

func (vm *VM) rFrom(ip, np int) (int, int) {
	vm.push(vm.rpop())
	return vm.next(np)
}

//// arithmetic and comparison, all in 32-bit two's complement

func (vm *VM) add(ip, np int) (int, int) {
	b, a := vm.pop(), vm.pop()
	vm.push(int(int32(a) + int32(b)))
	return vm.next(np)
}

func (vm *VM) sub(ip, np int) (int, int) {
	b, a := vm.pop(), vm.pop()
	vm.push(int(int32(a) - int32(b)))
	return vm.next(np)
}

func (vm *VM) mul(ip, np int) (int, int) {
	b, a := vm.pop(), vm.pop()
	vm.push(int(int32(a) * int32(b)))
	return vm.next(np)
}

func (vm *VM) div(ip, np int) (int, int) {
	b, a := vm.pop(), vm.pop()
	if b == 0 {
		vm.halt(errDivideByZero)
	}
	vm.push(int(int32(a) / int32(b)))
	return vm.next(np)
}

func (vm *VM) eq(ip, np int) (int, int) {
	b, a := vm.pop(), vm.pop()
	vm.push(boolInt(a == b))
	return vm.next(np)
}

func (vm *VM) less(ip, np int) (int, int) {
	b, a := vm.pop(), vm.pop()
	vm.push(boolInt(a < b))
	return vm.next(np)
}

func (vm *VM) less0(ip, np int) (int, int) {
	vm.push(boolInt(vm.pop() < 0))
	return vm.next(np)
}

//// memory access

func (vm *VM) load(ip, np int) (int, int) {
	vm.push(vm.loadCell(vm.pop()))
	return vm.next(np)
}

func (vm *VM) stor(ip, np int) (int, int) {
	addr, val := vm.pop(), vm.pop()
	vm.storCell(addr, val)
	return vm.next(np)
}

func (vm *VM) cload(ip, np int) (int, int) {
	vm.push(int(vm.loadByte(vm.pop())))
	return vm.next(np)
}

func (vm *VM) cstor(ip, np int) (int, int) {
	addr, val := vm.pop(), vm.pop()
	vm.storByte(addr, byte(val))
	return vm.next(np)
}

//// compilation space

func (vm *VM) comma(ip, np int) (int, int) {
	vm.compile(vm.pop())
	return vm.next(np)
}

func (vm *VM) cComma(ip, np int) (int, int) {
	vm.compileByte(byte(vm.pop()))
	return vm.next(np)
}

func (vm *VM) alignWord(ip, np int) (int, int) {
	vm.alignHere()
	return vm.next(np)
}

func (vm *VM) hereWord(ip, np int) (int, int) {
	vm.push(vm.here())
	return vm.next(np)
}

func (vm *VM) stateWord(ip, np int) (int, int) {
	vm.push(regState * cellSize)
	return vm.next(np)
}

func (vm *VM) latestWord(ip, np int) (int, int) {
	vm.push(regLatest * cellSize)
	return vm.next(np)
}

//// defining words

func (vm *VM) createWord(ip, np int) (int, int) {
	vm.create(vm.scanName(), flagData)
	vm.compile(opDovar)
	vm.compile(0)
	vm.publish()
	return vm.next(np)
}

func (vm *VM) defWord(ip, np int) (int, int) {
	vm.create(vm.scanName(), 0)
	vm.compile(opDocol)
	vm.compile(0)
	vm.setReg(regState, 1)
	return vm.next(np)
}

func (vm *VM) endWord(ip, np int) (int, int) {
	vm.compile(vm.exitCFA)
	vm.setReg(regState, 0)
	vm.publish()
	return vm.next(np)
}

func (vm *VM) immediateWord(ip, np int) (int, int) {
	head := vm.loadCell(vm.reg(regCurrent))
	flag := vm.loadByte(head + cellSize)
	vm.storByte(head+cellSize, flag|flagImmediate)
	return vm.next(np)
}

// returnWord retargets the latest data word: its dovar code field becomes
// doreturn, the reserved cell captures the continuation, and control unwinds
// as if the calling word had exited.
func (vm *VM) returnWord(ip, np int) (int, int) {
	latest := vm.reg(regLatest)
	if latest == 0 || vm.rstack.depth() == 0 {
		vm.halt(returnStateError("RETURN"))
	}
	c := vm.cfa(latest)
	if code := vm.loadCell(c); code != opDovar {
		vm.halt(returnStateError(vm.entryName(latest)))
	}
	vm.storCell(c, opDoreturn)
	vm.storCell(c+cellSize, np)
	return vm.next(vm.rpop())
}

func (vm *VM) tick(ip, np int) (int, int) {
	if addr := vm.find(vm.scanName()); addr >= 0 {
		vm.push(vm.cfa(addr))
	} else {
		vm.push(-1)
	}
	return vm.next(np)
}

func (vm *VM) lbrac(ip, np int) (int, int) {
	vm.setReg(regState, 0)
	return vm.next(np)
}

func (vm *VM) rbrac(ip, np int) (int, int) {
	vm.setReg(regState, 1)
	return vm.next(np)
}

func (vm *VM) literalWord(ip, np int) (int, int) {
	val := vm.pop()
	vm.compile(vm.litCFA)
	vm.compile(val)
	return vm.next(np)
}

//// output

func (vm *VM) emit(ip, np int) (int, int) {
	vm.writeRune(rune(vm.pop()))
	return vm.next(np)
}

func (vm *VM) print(ip, np int) (int, int) {
	if _, err := io.WriteString(vm.out, strconv.Itoa(int(int32(vm.pop())))); err != nil {
		vm.halt(err)
	}
	return vm.next(np)
}

func (vm *VM) dumpWord(ip, np int) (int, int) {
	n := vm.pop()
	addr := vm.pop()
	vm.dumpRegion(addr, n)
	return vm.next(np)
}
