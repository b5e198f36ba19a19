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

import (
	"fmt"

	"github.com/virtnic/txgbevf/pkg/mbx"
)

// RaptorVF is the mac-ops implementation for the Raptor virtual function.
// Every privileged operation goes through the mailbox; the VF has no direct
// access to the MAC configuration space.
type RaptorVF struct{}

var _ MacOps = (*RaptorVF)(nil)

// NewRaptorVF returns the Raptor VF operations table.
func NewRaptorVF() *RaptorVF {
	return &RaptorVF{}
}

// Reset performs the VF reset handshake. The PF replies with the permanent
// address it assigned, if any; a reply without one is the expected
// ErrInvalidMACAddr condition, not a failure.
func (r *RaptorVF) Reset(h *Handle) error {
	// Reset always drops the negotiated protocol back to the baseline,
	// whatever the exchange outcome.
	h.APIVersion = mbx.Baseline

	reply, err := h.Mbx.Exchange(mbx.Reset{})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrResetFailed, err)
	}
	rr, ok := reply.(mbx.ResetReply)
	if !ok {
		return fmt.Errorf("%w: unexpected reply %T", ErrResetFailed, reply)
	}

	if !rr.AddrValid {
		h.PermAddr = MACAddr{}
		return ErrInvalidMACAddr
	}
	h.PermAddr = MACAddr(rr.PermAddr)
	return nil
}

// Start brings the MAC out of reset. Stale interrupt causes from before the
// reset are cleared by reading the cause register.
func (r *RaptorVF) Start(h *Handle) error {
	if h.Regs == nil {
		return fmt.Errorf("%w: no register space mapped", ErrIO)
	}
	_ = h.Regs.Read32(RegVFICR)
	return nil
}

// SetRAR programs a receive address register slot through the PF.
func (r *RaptorVF) SetRAR(h *Handle, slot int, addr MACAddr) error {
	if slot < 0 || slot >= h.NumRARSlots {
		return fmt.Errorf("rar slot %d out of range [0,%d)", slot, h.NumRARSlots)
	}
	if _, err := h.Mbx.Exchange(mbx.SetMACAddr{Addr: addr}); err != nil {
		return fmt.Errorf("set rar %d: %w", slot, err)
	}
	return nil
}
