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

package hw_test

import (
	"errors"
	"testing"

	"github.com/virtnic/txgbevf/pkg/hw"
	"github.com/virtnic/txgbevf/pkg/mbx"
	"github.com/virtnic/txgbevf/pkg/mbx/mbxtest"
)

func raptorHandle(pf *mbxtest.PF) *hw.Handle {
	h := &hw.Handle{
		VendorID: hw.VendorIDWangxun,
		DeviceID: hw.DevIDRaptorVF,
		Regs:     hw.NewMemRegisters(),
		Mbx:      pf,
		Mac:      hw.NewRaptorVF(),
	}
	if err := h.InitSharedCode(); err != nil {
		panic(err)
	}
	return h
}

func TestResetReturnsAssignedAddress(t *testing.T) {
	want := [6]byte{0x02, 0x09, 0xC0, 9, 9, 9}
	h := raptorHandle(&mbxtest.PF{PermAddr: want, AssignAddr: true})
	h.APIVersion = mbx.API13 // pretend a previous negotiation round

	if err := h.Mac.Reset(h); err != nil {
		t.Fatal(err)
	}
	if h.PermAddr != hw.MACAddr(want) {
		t.Errorf("PermAddr = %v, want %v", h.PermAddr, want)
	}
	// Reset always drops the protocol back to the baseline.
	if h.APIVersion != mbx.Baseline {
		t.Errorf("APIVersion = %v after reset, want baseline", h.APIVersion)
	}
}

func TestResetWithoutAddressIsExpectedCondition(t *testing.T) {
	h := raptorHandle(&mbxtest.PF{})

	err := h.Mac.Reset(h)
	if !hw.IsNoAddr(err) {
		t.Fatalf("Reset = %v, want the missing-address condition", err)
	}
	if !h.PermAddr.IsZero() {
		t.Errorf("PermAddr = %v, want zero", h.PermAddr)
	}
	// Expected condition, not retryable.
	if hw.IsRetryable(err) {
		t.Error("missing-address condition classified as retryable")
	}
}

func TestResetTransportFailure(t *testing.T) {
	h := raptorHandle(&mbxtest.PF{ResetErr: errors.New("mailbox stuck")})

	err := h.Mac.Reset(h)
	if !errors.Is(err, hw.ErrResetFailed) {
		t.Fatalf("Reset = %v, want ErrResetFailed", err)
	}
}

func TestSetRARRange(t *testing.T) {
	h := raptorHandle(&mbxtest.PF{})

	if err := h.Mac.SetRAR(h, h.NumRARSlots, hw.MACAddr{0x02}); err == nil {
		t.Error("SetRAR accepted out-of-range slot")
	}
	if err := h.Mac.SetRAR(h, 0, hw.MACAddr{0x02}); err != nil {
		t.Errorf("SetRAR(0) = %v", err)
	}
}

func TestInitSharedCodeRejectsUnknownSilicon(t *testing.T) {
	tests := []struct {
		name     string
		vendorID uint16
		deviceID uint16
		ok       bool
	}{
		{"raptor vf", hw.VendorIDWangxun, hw.DevIDRaptorVF, true},
		{"raptor vf hv", hw.VendorIDWangxun, hw.DevIDRaptorVFHV, true},
		{"wrong vendor", 0x8086, hw.DevIDRaptorVF, false},
		{"wrong device", hw.VendorIDWangxun, 0x0001, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &hw.Handle{
				VendorID: tt.vendorID,
				DeviceID: tt.deviceID,
				Mac:      hw.NewRaptorVF(),
			}
			err := h.InitSharedCode()
			if tt.ok {
				if err != nil {
					t.Fatalf("InitSharedCode = %v", err)
				}
				if h.NumRARSlots != hw.NumRARSlotsRaptor {
					t.Errorf("NumRARSlots = %d, want %d", h.NumRARSlots, hw.NumRARSlotsRaptor)
				}
				return
			}
			if !errors.Is(err, hw.ErrUnsupportedDevice) {
				t.Fatalf("InitSharedCode = %v, want ErrUnsupportedDevice", err)
			}
		})
	}
}

func TestMACAddrString(t *testing.T) {
	a := hw.MACAddr{0x00, 0x09, 0xC0, 0x0a, 0x0b, 0x0c}
	if got := a.String(); got != "00:09:c0:0a:0b:0c" {
		t.Errorf("String() = %q", got)
	}
}
