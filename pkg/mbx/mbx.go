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

// Package mbx defines the VF-to-PF mailbox contract: the message set, the
// blocking transport interface and the API version negotiator.
package mbx

import (
	"errors"
	"fmt"
)

// APIVersion is a mailbox control-protocol level.
type APIVersion int

// Protocol levels, lowest to highest. Baseline is in effect after every
// hardware reset until a negotiation round raises it.
const (
	API10 APIVersion = 10
	API11 APIVersion = 11
	API12 APIVersion = 12
	API13 APIVersion = 13

	Baseline = API10
)

func (v APIVersion) String() string {
	return fmt.Sprintf("api_%d", int(v))
}

// candidates is the negotiation order: highest supported first.
var candidates = []APIVersion{API13, API12, API11, API10}

// ErrNACK is returned by a transport when the PF rejects a request.
var ErrNACK = errors.New("mailbox: request nacked by PF")

// UCAddrOp selects the unicast address table operation, values as carried
// on the wire.
type UCAddrOp int

const (
	// UCAddrClear removes every unicast address programmed by this VF.
	UCAddrClear UCAddrOp = 0
	// UCAddrAdd programs one more unicast address.
	UCAddrAdd UCAddrOp = 2
)

// Message is a request the VF sends to the PF.
type Message interface {
	// Name is the wire-level message name, used for logs and metrics.
	Name() string
}

// Reply is a PF response. The concrete type depends on the request.
type Reply interface {
	reply()
}

// NegotiateAPI asks the PF to speak the given protocol level.
// The PF acks or nacks; a nack is final for this candidate.
type NegotiateAPI struct {
	Version APIVersion
}

func (NegotiateAPI) Name() string { return "negotiate_api" }

// GetQueues queries the queue resources granted to this VF.
type GetQueues struct{}

func (GetQueues) Name() string { return "get_queues" }

// SetUCAddr adds one unicast address or clears them all, depending on Op.
type SetUCAddr struct {
	Op   UCAddrOp
	Addr [6]byte
}

func (SetUCAddr) Name() string { return "set_uc_addr" }

// SetMACAddr programs the permanent address slot.
type SetMACAddr struct {
	Addr [6]byte
}

func (SetMACAddr) Name() string { return "set_mac_addr" }

// Reset asks the PF to reset this VF. The reply carries the PF-assigned
// permanent address, when one exists.
type Reset struct{}

func (Reset) Name() string { return "reset" }

// Ack is the bare positive reply.
type Ack struct{}

func (Ack) reply() {}

// QueueLayout is the reply to GetQueues.
type QueueLayout struct {
	TrafficClasses int
	QueuesPerTC    int
	MaxRxQueues    int
	MaxTxQueues    int
}

func (QueueLayout) reply() {}

// ResetReply is the reply to Reset. AddrValid is false when the PF has not
// assigned an address to this VF.
type ResetReply struct {
	PermAddr  [6]byte
	AddrValid bool
}

func (ResetReply) reply() {}

// Transport is the synchronous mailbox channel to the PF. Exchange blocks
// the calling thread for the full PF round-trip; timeouts, if any, are the
// transport implementation's business and are not modeled at this layer.
// A nil error means the PF acked the request.
type Transport interface {
	Exchange(msg Message) (Reply, error)
}
