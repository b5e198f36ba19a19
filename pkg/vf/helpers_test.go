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
	"github.com/virtnic/txgbevf/pkg/hw"
	"github.com/virtnic/txgbevf/pkg/mbx/mbxtest"
)

// newTestHandle builds a handle wired to the PF simulator and an in-memory
// register file, identity set to the Raptor VF.
func newTestHandle(pf *mbxtest.PF) *hw.Handle {
	return &hw.Handle{
		VendorID: hw.VendorIDWangxun,
		DeviceID: hw.DevIDRaptorVF,
		Regs:     hw.NewMemRegisters(),
		Mbx:      pf,
		Mac:      hw.NewRaptorVF(),
	}
}

// fakeQueues is a canned QueueState.
type fakeQueues struct {
	rx    []RxQueueInfo
	tx    []TxQueueInfo
	freed bool
}

func (f *fakeQueues) NumRxQueues() int { return len(f.rx) }
func (f *fakeQueues) NumTxQueues() int { return len(f.tx) }

func (f *fakeQueues) RxQueueInfo(q int) (RxQueueInfo, bool) {
	if q < 0 || q >= len(f.rx) {
		return RxQueueInfo{}, false
	}
	return f.rx[q], true
}

func (f *fakeQueues) TxQueueInfo(q int) (TxQueueInfo, bool) {
	if q < 0 || q >= len(f.tx) {
		return TxQueueInfo{}, false
	}
	return f.tx[q], true
}

func (f *fakeQueues) FreeAll() { f.freed = true }
