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
	"testing"

	"github.com/virtnic/txgbevf/pkg/hw"
	"github.com/virtnic/txgbevf/pkg/mbx"
	"github.com/virtnic/txgbevf/pkg/mbx/mbxtest"
)

func initializedDevice(t *testing.T) *Device {
	t.Helper()
	dev := New(Config{Handle: newTestHandle(&mbxtest.PF{MaxAPI: mbx.API13}), MaxVFs: 8})
	if err := dev.Init(); err != nil {
		t.Fatal(err)
	}
	return dev
}

func TestInfoPortOffloadsIncludeQueueOffloads(t *testing.T) {
	info := initializedDevice(t).Info()

	if info.RxOffloads&info.RxQueueOffloads != info.RxQueueOffloads {
		t.Errorf("rx port offloads %#x do not contain queue offloads %#x",
			info.RxOffloads, info.RxQueueOffloads)
	}
	if info.TxOffloads&info.TxQueueOffloads != info.TxQueueOffloads {
		t.Errorf("tx port offloads %#x do not contain queue offloads %#x",
			info.TxOffloads, info.TxQueueOffloads)
	}
	if info.RxQueueOffloads&OffloadVLANStrip == 0 {
		t.Error("VLAN strip missing from per-queue rx offloads")
	}
}

func TestInfoStaticLimits(t *testing.T) {
	info := initializedDevice(t).Info()

	if info.MaxMACAddrs != hw.NumRARSlotsRaptor {
		t.Errorf("MaxMACAddrs = %d, want %d", info.MaxMACAddrs, hw.NumRARSlotsRaptor)
	}
	if info.MinRxBufSize != 1024 {
		t.Errorf("MinRxBufSize = %d, want 1024", info.MinRxBufSize)
	}
	if info.MaxRxPktLen != FrameSizeMax {
		t.Errorf("MaxRxPktLen = %d, want %d", info.MaxRxPktLen, FrameSizeMax)
	}
	if info.HashKeySize != 40 || info.RetaSize != 128 {
		t.Errorf("rss key/reta = %d/%d, want 40/128", info.HashKeySize, info.RetaSize)
	}
	if info.MaxVFs != 8 {
		t.Errorf("MaxVFs = %d, want 8", info.MaxVFs)
	}
	if info.MaxVMDqPools != 64 {
		t.Errorf("MaxVMDqPools = %d, want 64", info.MaxVMDqPools)
	}
}

func TestInfoDefaultRingConfig(t *testing.T) {
	info := initializedDevice(t).Info()

	wantRx := RingThresh{Prefetch: 8, Host: 8, WriteBack: 0}
	if info.DefaultRxConf.Thresh != wantRx || info.DefaultRxConf.FreeThresh != 32 {
		t.Errorf("rx conf = %+v, want thresh %+v free 32", info.DefaultRxConf, wantRx)
	}
	wantTx := RingThresh{Prefetch: 32, Host: 0, WriteBack: 0}
	if info.DefaultTxConf.Thresh != wantTx || info.DefaultTxConf.FreeThresh != 32 {
		t.Errorf("tx conf = %+v, want thresh %+v free 32", info.DefaultTxConf, wantTx)
	}

	if info.RxDescLim.Max != RingDescMax || info.RxDescLim.Min != RingDescMin || info.RxDescLim.Align != RxDescAlign {
		t.Errorf("rx desc lim = %+v", info.RxDescLim)
	}
	if info.TxDescLim.SegMax != TxMaxSeg {
		t.Errorf("tx seg max = %d, want %d", info.TxDescLim.SegMax, TxMaxSeg)
	}
}
