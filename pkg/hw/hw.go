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

// Package hw provides the hardware abstraction for the Wangxun Raptor
// virtual function: the device handle, register access, the per-revision
// mac-ops vtable and the driver error taxonomy.
package hw

import (
	"fmt"

	"github.com/virtnic/txgbevf/pkg/mbx"
)

// PCI identity of the adapter family this driver claims.
const (
	VendorIDWangxun uint16 = 0x8088

	// DevIDRaptorVF is the Raptor virtual function.
	DevIDRaptorVF uint16 = 0x1000
	// DevIDRaptorVFHV is the Raptor virtual function, high-availability variant.
	DevIDRaptorVFHV uint16 = 0x2000
)

// Raptor family limits, fixed in silicon.
const (
	// NumRARSlotsRaptor is the receive address register count of the
	// underlying PF. The VF sees the PF maximum.
	NumRARSlotsRaptor = 128

	// DefaultMaxRxQueues and DefaultMaxTxQueues are the reset-time queue
	// limits before the mailbox resource query refines them.
	DefaultMaxRxQueues = 4
	DefaultMaxTxQueues = 4
)

// MACAddr is a MAC-layer address.
type MACAddr [6]byte

// LocalAdminBit marks a locally administered address in byte 0.
const LocalAdminBit = 0x02

// IsZero reports whether the address is all-zero, the "no address" value.
func (a MACAddr) IsZero() bool {
	return a == MACAddr{}
}

// Equal reports whether two addresses are byte-identical.
func (a MACAddr) Equal(b MACAddr) bool {
	return a == b
}

func (a MACAddr) String() string {
	return fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x",
		a[0], a[1], a[2], a[3], a[4], a[5])
}

// Handle is the per-device hardware handle. It is exclusively owned by one
// primary device instance; components operating on the same device share it
// read-only.
type Handle struct {
	// Bus identity, copied from the PCI collaborator at init.
	VendorID          uint16
	DeviceID          uint16
	SubsystemVendorID uint16
	SubsystemDeviceID uint16

	// Regs is the mapped register space of BAR 0.
	Regs Registers

	// Mbx is the mailbox transport to the PF.
	Mbx mbx.Transport

	// Mac is the mac-ops vtable, bound by InitSharedCode.
	Mac MacOps

	// NumRARSlots is the receive address table capacity, set by
	// InitSharedCode from the family constants.
	NumRARSlots int

	// MaxRxQueues and MaxTxQueues are the reset-time queue limits.
	MaxRxQueues int
	MaxTxQueues int

	// APIVersion is the negotiated mailbox protocol level. Reset returns
	// it to the baseline; negotiation raises it on success.
	APIVersion mbx.APIVersion

	// PermAddr is the permanent address. Zero until reset, and still zero
	// afterwards when the PF assigned none.
	PermAddr MACAddr
}

// InitSharedCode validates the bus identity against the silicon this driver
// knows and binds the family constants. It must run before any mac-ops call.
// An unrecognized device is fatal to initialization.
func (h *Handle) InitSharedCode() error {
	if h.Mac == nil {
		return &DeviceError{Op: "init_shared_code", Err: ErrUnsupportedDevice,
			Device: fmt.Sprintf("%04x:%04x", h.VendorID, h.DeviceID)}
	}
	if h.VendorID != VendorIDWangxun {
		return &DeviceError{Op: "init_shared_code", Err: ErrUnsupportedDevice,
			Device: fmt.Sprintf("%04x:%04x", h.VendorID, h.DeviceID)}
	}
	switch h.DeviceID {
	case DevIDRaptorVF, DevIDRaptorVFHV:
	default:
		return &DeviceError{Op: "init_shared_code", Err: ErrUnsupportedDevice,
			Device: fmt.Sprintf("%04x:%04x", h.VendorID, h.DeviceID)}
	}

	h.NumRARSlots = NumRARSlotsRaptor
	h.MaxRxQueues = DefaultMaxRxQueues
	h.MaxTxQueues = DefaultMaxTxQueues
	return nil
}

// MacType names the silicon revision, for log lines only.
func (h *Handle) MacType() string {
	return "raptor_vf"
}
