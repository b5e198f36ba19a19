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
	"fmt"

	"github.com/go-logr/logr"

	"github.com/virtnic/txgbevf/pkg/hw"
	"github.com/virtnic/txgbevf/pkg/mbx"
	"github.com/virtnic/txgbevf/pkg/metrics"
)

// addrTable is the fixed-capacity receive address table. Slots are
// positional: a zero address marks an empty slot and replay preserves the
// original indices across holes. Slot 0 conceptually holds the permanent
// address, but the permanent value is tracked separately so replay can skip
// it wherever it sits.
type addrTable struct {
	h    *hw.Handle
	log  logr.Logger
	perm hw.MACAddr

	slots []hw.MACAddr
}

func newAddrTable(h *hw.Handle, log logr.Logger) (*addrTable, error) {
	if h.NumRARSlots <= 0 {
		return nil, fmt.Errorf("%w: cannot size address table for %d RAR entries",
			hw.ErrNoMemory, h.NumRARSlots)
	}
	return &addrTable{
		h:     h,
		log:   log,
		slots: make([]hw.MACAddr, h.NumRARSlots),
	}, nil
}

// add programs one more unicast address through the PF and records it at
// the given slot. Adding the permanent address again is rejected up front:
// the PF stores VF addresses in a very limited slot budget and the add is
// not idempotent on its side.
func (t *addrTable) add(addr hw.MACAddr, index int) error {
	if addr.Equal(t.perm) {
		return ErrPermAddrExists
	}

	if _, err := t.h.Mbx.Exchange(mbx.SetUCAddr{Op: mbx.UCAddrAdd, Addr: [6]byte(addr)}); err != nil {
		t.log.Error(err, "unable to add MAC address", "addr", addr.String())
		return fmt.Errorf("add MAC address %s: %w", addr, err)
	}
	if index >= 0 && index < len(t.slots) {
		t.slots[index] = addr
	}
	return nil
}

// remove emulates single-entry deletion, which the PF mailbox does not
// offer: clear every unicast address, then re-add the whole table except
// the removed index and the permanent value. The clear result is ignored
// on purpose; its only job is to force a known-empty starting state.
// Re-add failures are logged per entry and never abort the replay, so a
// partial failure leaves some addresses unprogrammed but keeps going.
func (t *addrTable) remove(index int) {
	_, _ = t.h.Mbx.Exchange(mbx.SetUCAddr{Op: mbx.UCAddrClear})
	metrics.AddressReplays.Inc()

	for i, addr := range t.slots {
		if i == index {
			continue
		}
		if addr.IsZero() {
			continue
		}
		if addr.Equal(t.perm) {
			continue
		}
		if _, err := t.h.Mbx.Exchange(mbx.SetUCAddr{Op: mbx.UCAddrAdd, Addr: [6]byte(addr)}); err != nil {
			metrics.AddressReplayFailures.Inc()
			t.log.Error(err, "adding again MAC address failed",
				"addr", addr.String(), "slot", i)
		}
	}

	if index >= 0 && index < len(t.slots) {
		t.slots[index] = hw.MACAddr{}
	}
}

// setDefault programs the permanent-address hardware slot directly, outside
// the unicast add/remove path. The primitive has no failure mode in this
// design.
func (t *addrTable) setDefault(addr hw.MACAddr) {
	_ = t.h.Mac.SetRAR(t.h, 0, addr)
	t.slots[0] = addr
}

// installPerm records addr as the permanent address and programs it into
// the permanent slot. Used during init when the PF assigned no address.
func (t *addrTable) installPerm(addr hw.MACAddr) error {
	if err := t.h.Mac.SetRAR(t.h, 0, addr); err != nil {
		return err
	}
	t.perm = addr
	return nil
}
