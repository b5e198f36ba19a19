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

package vf

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"github.com/go-logr/logr"

	"github.com/virtnic/txgbevf/pkg/hw"
	"github.com/virtnic/txgbevf/pkg/mbx"
	"github.com/virtnic/txgbevf/pkg/metrics"
)

// BusInfo is the PCI identity copied from the bus collaborator at init.
type BusInfo struct {
	VendorID          uint16
	DeviceID          uint16
	SubsystemVendorID uint16
	SubsystemDeviceID uint16
}

// Config assembles a primary Device.
type Config struct {
	// Handle is the hardware handle; Regs, Mbx and Mac must be set.
	Handle *hw.Handle

	// Bus identity to copy into the handle. Left zero, the handle's
	// existing identity is kept.
	Bus BusInfo

	// Queues is the external queue collaborator. Nil means no queues.
	Queues QueueState

	// MaxVFs is reported in the capability descriptor; the bus layer
	// knows how many sibling VFs the PF exposes.
	MaxVFs int

	// Log defaults to logr.Discard.
	Log logr.Logger

	// Rand is the entropy source for generated addresses; defaults to
	// crypto/rand.
	Rand io.Reader
}

// Device is the primary-process attachment to one VF. It exclusively owns
// the hardware-mutating control plane. All methods are invoked from a
// single control thread; the owning framework serializes calls per device.
type Device struct {
	h      *hw.Handle
	queues QueueState
	maxVFs int
	log    logr.Logger
	rand   io.Reader

	state State
	intr  *IntrMask
	table *addrTable

	resolved    ResolvedAddr
	tcs         int
	queuesPerTC int
}

var _ Ops = (*Device)(nil)

// New assembles a primary device in the Uninitialized state.
func New(cfg Config) *Device {
	log := cfg.Log
	if log.GetSink() == nil {
		log = logr.Discard()
	}
	rnd := cfg.Rand
	if rnd == nil {
		rnd = rand.Reader
	}

	h := cfg.Handle
	if cfg.Bus != (BusInfo{}) {
		h.VendorID = cfg.Bus.VendorID
		h.DeviceID = cfg.Bus.DeviceID
		h.SubsystemVendorID = cfg.Bus.SubsystemVendorID
		h.SubsystemDeviceID = cfg.Bus.SubsystemDeviceID
	}

	return &Device{
		h:      h,
		queues: cfg.Queues,
		maxVFs: cfg.MaxVFs,
		log:    log,
		rand:   rnd,
		state:  Uninitialized,
	}
}

// State returns the current lifecycle state.
func (d *Device) State() State {
	return d.state
}

// ResolvedAddr returns the permanent address and where it came from.
// Meaningful once Init has passed address resolution.
func (d *Device) ResolvedAddr() ResolvedAddr {
	return d.resolved
}

// InterruptMask returns the mirrored interrupt mask value.
func (d *Device) InterruptMask() uint32 {
	if d.intr == nil {
		return 0
	}
	return d.intr.Mask()
}

// Init drives the device from Uninitialized to Running: shared-code init,
// mailbox setup, the interrupt-bracketed reset, API negotiation, resource
// query, address resolution and hardware start.
//
// Error classes: shared-code init and start failures are I/O-class and
// fatal; a reset failure other than the missing-address condition is
// retryable, so the framework may reattempt the whole Init; everything
// else in the sequence either cannot fail or falls back.
func (d *Device) Init() error {
	if d.state == Closed {
		return ErrClosed
	}

	// Shared hardware-abstraction code. Fatal on failure.
	if err := d.h.InitSharedCode(); err != nil {
		d.log.Error(err, "shared code init failed")
		return fmt.Errorf("%w: shared code init: %v", hw.ErrIO, err)
	}
	d.state = SharedCodeReady

	// Mailbox parameters. No failure path: the transport is already
	// constructed and reset drops the protocol to the baseline anyway.
	d.h.APIVersion = mbx.Baseline
	d.state = MailboxReady

	// Interrupts off for the whole reset window.
	d.intr = newIntrMask(d.h.Regs)
	d.intr.Disable()
	d.state = InterruptsDisabled

	// Reset. The missing-address condition is expected and resolved
	// below; anything else is a retryable init failure.
	err := d.h.Mac.Reset(d.h)
	if err != nil && !hw.IsNoAddr(err) {
		d.log.Error(err, "VF initialization failure")
		if errors.Is(err, hw.ErrResetFailed) {
			return err
		}
		return fmt.Errorf("%w: %v", hw.ErrResetFailed, err)
	}
	d.state = ResetDone

	// Negotiate the mailbox API version. Never fails the caller.
	res := mbx.Negotiate(d.h.Mbx, d.log)
	d.h.APIVersion = res.Version
	d.state = VersionNegotiated

	// Queue resources, ready once reset_hw completed. The answer feeds
	// the resource table later; a failed exchange keeps the minimum
	// grant and is not a gate here.
	d.tcs, d.queuesPerTC = 1, 1
	if reply, qerr := d.h.Mbx.Exchange(mbx.GetQueues{}); qerr == nil {
		if layout, ok := reply.(mbx.QueueLayout); ok {
			d.tcs = layout.TrafficClasses
			d.queuesPerTC = layout.QueuesPerTC
			if layout.MaxRxQueues > 0 && layout.MaxRxQueues < d.h.MaxRxQueues {
				d.h.MaxRxQueues = layout.MaxRxQueues
			}
			if layout.MaxTxQueues > 0 && layout.MaxTxQueues < d.h.MaxTxQueues {
				d.h.MaxTxQueues = layout.MaxTxQueues
			}
		}
	} else {
		d.log.V(1).Info("queue resource query failed, keeping minimum grant",
			"reason", qerr.Error())
	}
	d.state = ResourcesQueried

	// Address table storage, sized to the hardware RAR count.
	table, err := newAddrTable(d.h, d.log)
	if err != nil {
		d.log.Error(err, "failed to allocate MAC address table",
			"entries", d.h.NumRARSlots)
		return err
	}
	table.perm = d.h.PermAddr

	// Resolve the permanent address: keep the PF assignment, or generate
	// a locally administered one when the PF gave none.
	if d.h.PermAddr.IsZero() {
		addr, gerr := generateMACAddr(d.rand)
		if gerr != nil {
			return fmt.Errorf("%w: %v", hw.ErrIO, gerr)
		}
		if ierr := table.installPerm(addr); ierr != nil {
			// Must not leave a half-attached device behind.
			d.table = nil
			return ierr
		}
		d.h.PermAddr = addr
		d.resolved = ResolvedAddr{Source: AddrGenerated, Addr: addr}
		d.log.Info("VF MAC address not assigned by Host PF")
		d.log.Info("assigned randomly generated MAC address", "addr", addr.String())
	} else {
		d.resolved = ResolvedAddr{Source: AddrFromPF, Addr: d.h.PermAddr}
	}
	d.table = table

	// The permanent address is externally visible in slot 0.
	d.table.slots[0] = d.h.PermAddr
	d.state = AddressResolved

	// Start the hardware with the now-known settings.
	if err := d.h.Mac.Start(d.h); err != nil {
		d.log.Error(err, "VF initialization failure")
		return fmt.Errorf("%w: start: %v", hw.ErrIO, err)
	}
	d.state = Started

	d.intr.Enable()
	d.state = Running

	metrics.DevicesInitialized.Inc()
	d.log.V(1).Info("VF device initialized",
		"vendorID", fmt.Sprintf("0x%x", d.h.VendorID),
		"deviceID", fmt.Sprintf("0x%x", d.h.DeviceID),
		"macType", d.h.MacType(),
		"apiVersion", d.h.APIVersion.String())
	return nil
}

// Close tears the device down: reset, queue release, removal of the
// device's own address so post-detach traffic falls back to the PF, and
// interrupt disable. Not idempotent; closing twice returns ErrClosed.
func (d *Device) Close() error {
	if d.state == Closed {
		return ErrClosed
	}
	if d.table == nil {
		return ErrNotInitialized
	}

	_ = d.h.Mac.Reset(d.h)

	if d.queues != nil {
		d.queues.FreeAll()
	}

	// Index 0 holds our own address; removing it purges it from the
	// adapter's forwarding view.
	d.table.remove(0)

	d.intr.Disable()

	d.table = nil
	d.state = Closed
	return nil
}

// AddAddress programs one more unicast address at the given table slot.
// Adding the permanent address is rejected with ErrPermAddrExists; mailbox
// failures are reported to the caller and logged, never fatal to the device.
func (d *Device) AddAddress(addr hw.MACAddr, index int) error {
	if d.table == nil {
		return d.notReady()
	}
	return d.table.add(addr, index)
}

// RemoveAddress drops the address at the given slot via clear-and-replay.
// Best-effort: replay failures are logged per entry.
func (d *Device) RemoveAddress(index int) {
	if d.table == nil {
		return
	}
	d.table.remove(index)
}

// SetDefaultAddress reprograms the permanent-address hardware slot
// directly. Always succeeds in this design.
func (d *Device) SetDefaultAddress(addr hw.MACAddr) error {
	if d.table == nil {
		return d.notReady()
	}
	d.table.setDefault(addr)
	return nil
}

// RxQueueInfo reports the shape of one configured receive queue.
func (d *Device) RxQueueInfo(queue int) (RxQueueInfo, bool) {
	if d.queues == nil {
		return RxQueueInfo{}, false
	}
	return d.queues.RxQueueInfo(queue)
}

// TxQueueInfo reports the shape of one configured transmit queue.
func (d *Device) TxQueueInfo(queue int) (TxQueueInfo, bool) {
	if d.queues == nil {
		return TxQueueInfo{}, false
	}
	return d.queues.TxQueueInfo(queue)
}

func (d *Device) notReady() error {
	if d.state == Closed {
		return ErrClosed
	}
	return ErrNotInitialized
}
