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

// DataPathVariant selects which burst function family a process binds for
// one direction of the data path. The data path itself is outside this
// core; the control plane only picks the variant.
type DataPathVariant int

const (
	// DataPathDefault is the generic, full-featured burst function.
	DataPathDefault DataPathVariant = iota
	// DataPathSimple is the no-offload fast path, usable only when the
	// queue configuration permits it.
	DataPathSimple
)

func (v DataPathVariant) String() string {
	if v == DataPathSimple {
		return "simple"
	}
	return "default"
}

// txVariantFor picks the transmit variant from the configuration of the
// last transmit queue set up, mirroring how the queue layer decides.
func txVariantFor(info TxQueueInfo) DataPathVariant {
	if info.Conf.Offloads == 0 && info.Conf.FreeThresh >= DefaultTxFreeThresh {
		return DataPathSimple
	}
	return DataPathDefault
}

// rxVariantFor picks the receive variant from the whole receive queue set:
// any scattered or offloading queue forces the generic path.
func rxVariantFor(queues QueueState) DataPathVariant {
	if queues == nil || queues.NumRxQueues() == 0 {
		return DataPathDefault
	}
	for q := 0; q < queues.NumRxQueues(); q++ {
		info, ok := queues.RxQueueInfo(q)
		if !ok {
			continue
		}
		if info.ScatterEnabled || info.Conf.Offloads != 0 {
			return DataPathDefault
		}
	}
	return DataPathSimple
}
