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

// Offload is a bit-set of packet offload capabilities.
type Offload uint64

const (
	OffloadVLANStrip Offload = 1 << iota
	OffloadIPv4Cksum
	OffloadUDPCksum
	OffloadTCPCksum
	OffloadTSO
	OffloadScatter
	OffloadRSSHash
	OffloadMultiSegs
)

// Raptor family limits and ring defaults.
const (
	RingDescMax = 8192
	RingDescMin = 128
	RxDescAlign = 8
	TxDescAlign = 8
	TxMaxSeg    = 40

	MinRxBufSize = 1024
	FrameSizeMax = 9728

	MaxHashMACAddrs = 4096
	MaxVMDqPools    = 64

	RSSHashKeySize = 40
	RSSRetaSize    = 128

	DefaultRxPrefetchThresh  = 8
	DefaultRxHostThresh      = 8
	DefaultRxWriteBackThresh = 0
	DefaultRxFreeThresh      = 32

	DefaultTxPrefetchThresh  = 32
	DefaultTxHostThresh      = 0
	DefaultTxWriteBackThresh = 0
	DefaultTxFreeThresh      = 32
)

// DescLim bounds a descriptor ring.
type DescLim struct {
	Max    int
	Min    int
	Align  int
	SegMax int
}

// DeviceInfo is the capability descriptor handed to the host framework.
type DeviceInfo struct {
	MaxRxQueues     int
	MaxTxQueues     int
	TrafficClasses  int
	QueuesPerTC     int
	MinRxBufSize    int
	MaxRxPktLen     int
	MaxMACAddrs     int
	MaxHashMACAddrs int
	MaxVFs          int
	MaxVMDqPools    int

	RxQueueOffloads Offload
	RxOffloads      Offload
	TxQueueOffloads Offload
	TxOffloads      Offload

	HashKeySize int
	RetaSize    int

	DefaultRxConf RxConf
	DefaultTxConf TxConf

	RxDescLim DescLim
	TxDescLim DescLim
}

// Per-queue receive offloads: only VLAN stripping can differ per queue on
// this family.
func rxQueueOffloads() Offload {
	return OffloadVLANStrip
}

// Port-level receive offloads shared by every queue.
func rxPortOffloads() Offload {
	return OffloadIPv4Cksum | OffloadUDPCksum | OffloadTCPCksum |
		OffloadScatter | OffloadRSSHash
}

func txQueueOffloads() Offload {
	return 0
}

func txPortOffloads() Offload {
	return OffloadIPv4Cksum | OffloadUDPCksum | OffloadTCPCksum |
		OffloadTSO | OffloadMultiSegs
}

// Info derives the capability descriptor from the hardware handle and the
// family constants. Pure: no hardware access, no failure path.
func (d *Device) Info() DeviceInfo {
	rxq := rxQueueOffloads()
	txq := txQueueOffloads()

	return DeviceInfo{
		MaxRxQueues:     d.h.MaxRxQueues,
		MaxTxQueues:     d.h.MaxTxQueues,
		TrafficClasses:  d.tcs,
		QueuesPerTC:     d.queuesPerTC,
		MinRxBufSize:    MinRxBufSize,
		MaxRxPktLen:     FrameSizeMax,
		MaxMACAddrs:     d.h.NumRARSlots,
		MaxHashMACAddrs: MaxHashMACAddrs,
		MaxVFs:          d.maxVFs,
		MaxVMDqPools:    MaxVMDqPools,

		RxQueueOffloads: rxq,
		// Port capability is the union of port-level and queue-level bits.
		RxOffloads:      rxPortOffloads() | rxq,
		TxQueueOffloads: txq,
		TxOffloads:      txPortOffloads() | txq,

		HashKeySize: RSSHashKeySize,
		RetaSize:    RSSRetaSize,

		DefaultRxConf: RxConf{
			Thresh: RingThresh{
				Prefetch:  DefaultRxPrefetchThresh,
				Host:      DefaultRxHostThresh,
				WriteBack: DefaultRxWriteBackThresh,
			},
			FreeThresh: DefaultRxFreeThresh,
		},
		DefaultTxConf: TxConf{
			Thresh: RingThresh{
				Prefetch:  DefaultTxPrefetchThresh,
				Host:      DefaultTxHostThresh,
				WriteBack: DefaultTxWriteBackThresh,
			},
			FreeThresh: DefaultTxFreeThresh,
		},

		RxDescLim: DescLim{Max: RingDescMax, Min: RingDescMin, Align: RxDescAlign},
		TxDescLim: DescLim{Max: RingDescMax, Min: RingDescMin, Align: TxDescAlign, SegMax: TxMaxSeg},
	}
}
