package main

import "encoding/binary"

// The heap is addressed in bytes; cells are 32-bit little-endian.
const cellSize = 4

// Register block at low cell indices. CONTEXT and CURRENT hold the byte
// address of the vocabulary head cell (the FORTH register), one level of
// indirection that keeps lookup and definition retargetable.
const (
	regForth   = 0x04
	regContext = 0x19
	regCurrent = 0x1b
	regLatest  = 0x1c
	regHere    = 0x1d
	regState   = 0x20
)

const (
	hereStart       = 0x23 * cellSize
	defaultHeapSize = 4 << 20
)

func alignCell(addr int) int {
	return (addr + cellSize - 1) &^ (cellSize - 1)
}

func (vm *VM) loadCell(addr int) int {
	if addr < 0 || addr+cellSize > len(vm.heap) {
		vm.halt(heapError{addr, "load"})
	}
	return int(int32(binary.LittleEndian.Uint32(vm.heap[addr:])))
}

func (vm *VM) storCell(addr, val int) {
	if addr < 0 || addr+cellSize > len(vm.heap) {
		vm.halt(heapError{addr, "stor"})
	}
	binary.LittleEndian.PutUint32(vm.heap[addr:], uint32(int32(val)))
}

func (vm *VM) loadByte(addr int) byte {
	if addr < 0 || addr >= len(vm.heap) {
		vm.halt(heapError{addr, "load"})
	}
	return vm.heap[addr]
}

func (vm *VM) storByte(addr int, val byte) {
	if addr < 0 || addr >= len(vm.heap) {
		vm.halt(heapError{addr, "stor"})
	}
	vm.heap[addr] = val
}

func (vm *VM) reg(r int) int     { return vm.loadCell(r * cellSize) }
func (vm *VM) setReg(r, val int) { vm.storCell(r*cellSize, val) }
func (vm *VM) here() int         { return vm.reg(regHere) }
func (vm *VM) compiling() bool   { return vm.reg(regState) != 0 }

// compile writes one cell at HERE and advances it.
func (vm *VM) compile(val int) {
	h := vm.here()
	if h+cellSize > len(vm.heap) {
		vm.halt(heapError{h, "compile"})
	}
	vm.storCell(h, val)
	vm.setReg(regHere, h+cellSize)
}

// compileByte writes one byte at HERE and advances it.
func (vm *VM) compileByte(val byte) {
	h := vm.here()
	if h >= len(vm.heap) {
		vm.halt(heapError{h, "compile"})
	}
	vm.storByte(h, val)
	vm.setReg(regHere, h+1)
}

// alignHere rounds HERE up to the next cell boundary, zero-filling the pad.
func (vm *VM) alignHere() {
	h := vm.here()
	for h%cellSize != 0 {
		vm.storByte(h, 0)
		h++
	}
	vm.setReg(regHere, h)
}

// compileName writes the raw bytes of a name at HERE.
func (vm *VM) compileName(name string) {
	for i := 0; i < len(name); i++ {
		vm.compileByte(name[i])
	}
}
