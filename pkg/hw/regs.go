/*
Copyright 2024.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package hw

import "sync"

// VF interrupt register block. Offsets are relative to BAR 0.
const (
	// RegVFICR is the interrupt cause, read-to-clear.
	RegVFICR uint32 = 0x00100
	// RegVFICS is the interrupt cause set.
	RegVFICS uint32 = 0x00104
	// RegVFIMS is the interrupt mask set/read.
	RegVFIMS uint32 = 0x00108
	// RegVFIMC is the interrupt mask clear.
	RegVFIMC uint32 = 0x0010C

	// VFIMSMask covers every cause the VF owns: the mailbox cause and the
	// two queue causes.
	VFIMSMask uint32 = 0x00000003
	// VFIMCMask mirrors VFIMSMask for the clear register.
	VFIMCMask uint32 = VFIMSMask
)

// Registers is the memory-mapped register access contract. Write ordering is
// only guaranteed after Flush: a write followed by Flush is visible to the
// device before any subsequent dependent operation.
type Registers interface {
	Read32(offset uint32) uint32
	Write32(offset uint32, value uint32)

	// Flush forces posted writes out, typically by a read-back of a
	// status register.
	Flush()
}

// MemRegisters implements Registers over process memory. It backs the PF
// simulator and the register-ordering assertions in tests; real deployments
// substitute an implementation over the mapped BAR.
type MemRegisters struct {
	mu      sync.Mutex
	regs    map[uint32]uint32
	writes  []RegWrite
	flushes int
}

// RegWrite records one Write32 for later inspection. FlushedAt is the flush
// count at the time of the write, so ordering against Flush is recoverable.
type RegWrite struct {
	Offset    uint32
	Value     uint32
	FlushedAt int
}

// NewMemRegisters returns an empty in-memory register file.
func NewMemRegisters() *MemRegisters {
	return &MemRegisters{regs: make(map[uint32]uint32)}
}

func (m *MemRegisters) Read32(offset uint32) uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.regs[offset]
}

func (m *MemRegisters) Write32(offset uint32, value uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.regs[offset] = value
	m.writes = append(m.writes, RegWrite{Offset: offset, Value: value, FlushedAt: m.flushes})
}

func (m *MemRegisters) Flush() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flushes++
}

// Writes returns a copy of the write log in issue order.
func (m *MemRegisters) Writes() []RegWrite {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]RegWrite, len(m.writes))
	copy(out, m.writes)
	return out
}

// Flushes returns how many times Flush has been called.
func (m *MemRegisters) Flushes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.flushes
}
