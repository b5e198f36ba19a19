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

package raptor

import (
	"testing"

	"github.com/virtnic/txgbevf/pkg/driver"
	"github.com/virtnic/txgbevf/pkg/hw"
)

func TestRaptorClaimsBothVariants(t *testing.T) {
	reg := driver.DefaultRegistry()

	for _, devID := range []uint16{hw.DevIDRaptorVF, hw.DevIDRaptorVFHV} {
		d, ok := reg.ForDevice(hw.VendorIDWangxun, devID)
		if !ok {
			t.Fatalf("device %04x:%04x not claimed", hw.VendorIDWangxun, devID)
		}
		if d.Name != DriverName {
			t.Errorf("claimed by %q, want %q", d.Name, DriverName)
		}
	}
}

func TestRaptorMacOpsFactory(t *testing.T) {
	d := driver.DefaultRegistry().Get(DriverName)
	if d == nil {
		t.Fatal("raptor driver not registered")
	}
	if _, ok := d.NewMacOps().(*hw.RaptorVF); !ok {
		t.Error("factory did not produce Raptor VF mac-ops")
	}
}
