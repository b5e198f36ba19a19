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

// Package mbxtest provides an in-memory PF simulator implementing the
// mailbox transport. Driver tests and the vfctl demo run against it.
package mbxtest

import (
	"fmt"
	"sync"

	"github.com/virtnic/txgbevf/pkg/mbx"
)

// PF simulates the privileged PF side of the mailbox. The zero value is a
// permissive PF: every API version acked, no assigned address, unlimited
// unicast slots.
type PF struct {
	mu sync.Mutex

	// MaxAPI is the highest protocol level this PF acks. Zero means the
	// PF predates negotiation and nacks every NegotiateAPI request.
	MaxAPI mbx.APIVersion

	// PermAddr is the address this PF assigns to the VF on reset.
	// AssignAddr gates whether it is handed out at all.
	PermAddr   [6]byte
	AssignAddr bool

	// TrafficClasses and QueuesPerTC are the resource-query answers.
	// Zero values fall back to 1/1, the minimum grant.
	TrafficClasses int
	QueuesPerTC    int

	// UCSlotBudget caps unicast addresses this VF may program. Zero means
	// unlimited.
	UCSlotBudget int

	// RejectAddrs nacks specific unicast adds, for partial-replay tests.
	RejectAddrs map[[6]byte]bool

	// ResetErr, when set, fails the reset exchange outright.
	ResetErr error

	// FailGetQueues nacks the resource query.
	FailGetQueues bool

	calls   []mbx.Message
	unicast [][6]byte
	defAddr [6]byte
}

var _ mbx.Transport = (*PF)(nil)

// Exchange implements mbx.Transport.
func (p *PF) Exchange(msg mbx.Message) (mbx.Reply, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, msg)

	switch m := msg.(type) {
	case mbx.Reset:
		if p.ResetErr != nil {
			return nil, p.ResetErr
		}
		p.unicast = nil
		if !p.AssignAddr {
			return mbx.ResetReply{}, nil
		}
		return mbx.ResetReply{PermAddr: p.PermAddr, AddrValid: true}, nil

	case mbx.NegotiateAPI:
		if p.MaxAPI == 0 || m.Version > p.MaxAPI {
			return nil, mbx.ErrNACK
		}
		return mbx.Ack{}, nil

	case mbx.GetQueues:
		if p.FailGetQueues {
			return nil, mbx.ErrNACK
		}
		tcs, qpt := p.TrafficClasses, p.QueuesPerTC
		if tcs == 0 {
			tcs = 1
		}
		if qpt == 0 {
			qpt = 1
		}
		return mbx.QueueLayout{
			TrafficClasses: tcs,
			QueuesPerTC:    qpt,
			MaxRxQueues:    tcs * qpt,
			MaxTxQueues:    tcs * qpt,
		}, nil

	case mbx.SetUCAddr:
		switch m.Op {
		case mbx.UCAddrClear:
			p.unicast = nil
			return mbx.Ack{}, nil
		case mbx.UCAddrAdd:
			if p.RejectAddrs[m.Addr] {
				return nil, mbx.ErrNACK
			}
			if p.UCSlotBudget > 0 && len(p.unicast) >= p.UCSlotBudget {
				return nil, mbx.ErrNACK
			}
			p.unicast = append(p.unicast, m.Addr)
			return mbx.Ack{}, nil
		default:
			return nil, fmt.Errorf("mbxtest: unknown uc addr op %d", m.Op)
		}

	case mbx.SetMACAddr:
		p.defAddr = m.Addr
		return mbx.Ack{}, nil

	default:
		return nil, fmt.Errorf("mbxtest: unhandled message %q", msg.Name())
	}
}

// Calls returns every message received, in order.
func (p *PF) Calls() []mbx.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]mbx.Message, len(p.calls))
	copy(out, p.calls)
	return out
}

// CallsNamed returns the received messages with the given wire name.
func (p *PF) CallsNamed(name string) []mbx.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []mbx.Message
	for _, c := range p.calls {
		if c.Name() == name {
			out = append(out, c)
		}
	}
	return out
}

// Unicast returns the unicast addresses currently programmed, in the order
// the PF received them.
func (p *PF) Unicast() [][6]byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([][6]byte, len(p.unicast))
	copy(out, p.unicast)
	return out
}

// DefaultAddr returns the last address programmed via SetMACAddr.
func (p *PF) DefaultAddr() [6]byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.defAddr
}

// ClearLog drops the recorded call log, keeping programmed state.
func (p *PF) ClearLog() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = nil
}
