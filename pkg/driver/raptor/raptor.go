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

// Package raptor registers the Wangxun Raptor VF driver. Importing it for
// side effects makes the driver claim its devices in the default registry.
package raptor

import (
	"github.com/virtnic/txgbevf/pkg/driver"
	"github.com/virtnic/txgbevf/pkg/hw"
)

// DriverName is the registered name of the Raptor VF driver.
const DriverName = "net_txgbe_vf"

// supportedDevices lists the PCI identities this driver claims: the normal
// VF and its high-availability variant.
var supportedDevices = []driver.DeviceID{
	{VendorID: hw.VendorIDWangxun, DeviceID: hw.DevIDRaptorVF},
	{VendorID: hw.VendorIDWangxun, DeviceID: hw.DevIDRaptorVFHV},
}

func init() {
	driver.MustRegister(&driver.Driver{
		Name:    DriverName,
		Devices: supportedDevices,
		NewMacOps: func() hw.MacOps {
			return hw.NewRaptorVF()
		},
	})
}
