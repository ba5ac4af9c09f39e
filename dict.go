package main

// Dictionary entries live in the heap as a singly linked list threaded through
// CONTEXT/CURRENT. Each entry is:
//
//	link     cell    byte address of the previous entry, 0 terminates
//	flag|len byte    flag bits or'd with the name length
//	name     bytes   raw name bytes, unpadded
//	         pad     zero fill to the next cell boundary
//	code     cell    opcode executed by the inner interpreter
//	extra    cell    reserved for the code field's use
//	body...  cells   threaded code or data
const (
	flagImmediate = 0x80
	flagData      = 0x40
	flagHidden    = 0x20

	maxNameLen = 0x1f
)

// create lays down a new dictionary entry header at HERE and points LATEST at
// it. The entry stays unpublished until publish links it into CURRENT's chain,
// so a definition cannot find itself mid-build.
func (vm *VM) create(name string, flags byte) {
	if len(name) > maxNameLen {
		vm.halt(nameError(name))
	}
	vm.alignHere()
	addr := vm.here()
	vm.compile(vm.reg(regLatest))
	vm.compileByte(flags | byte(len(name)))
	vm.compileName(name)
	vm.alignHere()
	vm.setReg(regLatest, addr)
}

// publish links LATEST into the vocabulary that CURRENT points at, making it
// findable.
func (vm *VM) publish() {
	vm.storCell(vm.reg(regCurrent), vm.reg(regLatest))
}

// entryName reads the name bytes of the entry at addr.
func (vm *VM) entryName(addr int) string {
	n := int(vm.loadByte(addr+cellSize) & maxNameLen)
	name := make([]byte, n)
	for i := 0; i < n; i++ {
		name[i] = vm.loadByte(addr + cellSize + 1 + i)
	}
	return string(name)
}

// entryFlags reads the flag bits of the entry at addr.
func (vm *VM) entryFlags(addr int) byte {
	return vm.loadByte(addr+cellSize) &^ maxNameLen
}

// cfa computes the code field address of the entry at addr: the first aligned
// cell past the name.
func (vm *VM) cfa(addr int) int {
	n := int(vm.loadByte(addr+cellSize) & maxNameLen)
	return alignCell(addr + cellSize + 1 + n)
}

// find walks the vocabulary that CONTEXT points at, newest first, and returns
// the entry address of the first visible entry named name, or -1.
func (vm *VM) find(name string) int {
	for addr := vm.loadCell(vm.reg(regContext)); addr != 0; addr = vm.loadCell(addr) {
		if vm.entryFlags(addr)&flagHidden != 0 {
			continue
		}
		if vm.entryName(addr) == name {
			return addr
		}
	}
	return -1
}
