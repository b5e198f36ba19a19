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

// Package vf implements the control-plane lifecycle of a Raptor virtual
// function: device init/close, the receive address table, the interrupt
// mask and the capability report exposed to the host framework.
//
// A process attaches to a device in exactly one of two roles. The primary
// process constructs a Device and owns every hardware-mutating operation;
// any further process constructs a Secondary via Attach, which only binds
// data-path function variants. The split is enforced by the types: the
// Secondary has no hardware-mutating methods at all.
package vf

import (
	"errors"

	"github.com/virtnic/txgbevf/pkg/hw"
)

var (
	// ErrPermAddrExists rejects adding an address equal to the permanent
	// one. On a VF that add is not idempotent and would burn one of the
	// PF's very limited per-VF address slots on every call.
	ErrPermAddrExists = errors.New("address equals the permanent MAC address")

	// ErrClosed is returned when operating on a closed device.
	ErrClosed = errors.New("device is closed")

	// ErrNotInitialized is returned when operating on a device before a
	// successful Init.
	ErrNotInitialized = errors.New("device not initialized")
)

// State is the device lifecycle state. It moves strictly forward during
// Init and ends in Closed.
type State int

const (
	Uninitialized State = iota
	SharedCodeReady
	MailboxReady
	InterruptsDisabled
	ResetDone
	VersionNegotiated
	ResourcesQueried
	AddressResolved
	Started
	Running
	Closed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case SharedCodeReady:
		return "shared_code_ready"
	case MailboxReady:
		return "mailbox_ready"
	case InterruptsDisabled:
		return "interrupts_disabled"
	case ResetDone:
		return "reset_done"
	case VersionNegotiated:
		return "version_negotiated"
	case ResourcesQueried:
		return "resources_queried"
	case AddressResolved:
		return "address_resolved"
	case Started:
		return "started"
	case Running:
		return "running"
	case Closed:
		return "closed"
	}
	return "unknown"
}

// RingThresh is a descriptor ring threshold triple.
type RingThresh struct {
	Prefetch  uint8
	Host      uint8
	WriteBack uint8
}

// RxConf is the receive queue configuration.
type RxConf struct {
	Thresh      RingThresh
	FreeThresh  int
	DropEnabled bool
	Offloads    Offload
}

// TxConf is the transmit queue configuration.
type TxConf struct {
	Thresh     RingThresh
	FreeThresh int
	Offloads   Offload
}

// RxQueueInfo describes one configured receive queue.
type RxQueueInfo struct {
	Descriptors    int
	BufSize        int
	ScatterEnabled bool
	Conf           RxConf
}

// TxQueueInfo describes one configured transmit queue.
type TxQueueInfo struct {
	Descriptors int
	Conf        TxConf
}

// QueueState is the packet-queue collaborator. The queue implementation
// lives outside this core; the lifecycle controller only reads its shape
// and releases it on close. A nil QueueState means no queues configured.
type QueueState interface {
	NumRxQueues() int
	NumTxQueues() int
	RxQueueInfo(queue int) (RxQueueInfo, bool)
	TxQueueInfo(queue int) (TxQueueInfo, bool)

	// FreeAll releases every queue resource. Called once during close.
	FreeAll()
}

// Ops is the device operations contract exposed to the host framework.
// It is the deliberately restricted subset a basic VF supports; statistics
// and VLAN filtering are not part of it.
type Ops interface {
	Info() DeviceInfo
	AddAddress(addr hw.MACAddr, index int) error
	RemoveAddress(index int)
	SetDefaultAddress(addr hw.MACAddr) error
	RxQueueInfo(queue int) (RxQueueInfo, bool)
	TxQueueInfo(queue int) (TxQueueInfo, bool)
}
