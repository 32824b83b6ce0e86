package comet

// MEMORY_SIZE is the number of words addressable by the machine.
const MEMORY_SIZE = 0x10000

// Memory is the linear word memory of the machine. Addresses wrap
// modulo 2^16 by construction of the index type.
type Memory [MEMORY_SIZE]uint16

// Clear zeroes the whole memory.
func (mem *Memory) Clear() {
	clear(mem[:])
}
