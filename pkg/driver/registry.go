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

// Package driver maintains the table of device drivers and the PCI
// identities they claim. Drivers register themselves via init(), and the
// bus-matching logic queries the registry for discovered hardware.
package driver

import (
	"fmt"
	"sync"

	"github.com/virtnic/txgbevf/pkg/hw"
)

// DeviceID is one (vendor, device) pair a driver claims.
type DeviceID struct {
	VendorID uint16
	DeviceID uint16
}

// String returns the ID in standard "vendor:device" hex format.
func (d DeviceID) String() string {
	return fmt.Sprintf("%04x:%04x", d.VendorID, d.DeviceID)
}

// Driver describes one registered device driver. The fields are immutable
// configuration constructed at module load.
type Driver struct {
	// Name is the unique driver identifier, e.g. "net_txgbe_vf".
	Name string

	// Devices are the PCI identities this driver claims, in match order.
	Devices []DeviceID

	// NewMacOps builds the per-revision operations table for a matched
	// device.
	NewMacOps func() hw.MacOps
}

// Registry maps PCI identities to drivers.
type Registry struct {
	mu sync.RWMutex

	// drivers maps driver name -> Driver
	drivers map[string]*Driver

	// deviceIndex maps DeviceID -> driver name for fast lookup
	deviceIndex map[DeviceID]string
}

// defaultRegistry is the singleton registry instance.
var defaultRegistry = NewRegistry()

// NewRegistry creates a new empty driver registry.
func NewRegistry() *Registry {
	return &Registry{
		drivers:     make(map[string]*Driver),
		deviceIndex: make(map[DeviceID]string),
	}
}

// DefaultRegistry returns the global registry drivers register with during
// init().
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Register adds a driver to the registry. Duplicate driver names and
// already-claimed device identities are rejected before anything mutates.
func (r *Registry) Register(d *Driver) error {
	if d == nil {
		return fmt.Errorf("cannot register nil driver")
	}
	if d.Name == "" {
		return fmt.Errorf("driver name cannot be empty")
	}
	if d.NewMacOps == nil {
		return fmt.Errorf("driver %q has no mac-ops factory", d.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.drivers[d.Name]; exists {
		return fmt.Errorf("driver %q already registered", d.Name)
	}
	for _, dev := range d.Devices {
		if owner, exists := r.deviceIndex[dev]; exists {
			return fmt.Errorf("device %s already claimed by driver %s", dev, owner)
		}
	}

	r.drivers[d.Name] = d
	for _, dev := range d.Devices {
		r.deviceIndex[dev] = d.Name
	}
	return nil
}

// MustRegister registers a driver and panics on failure. For init() use.
func MustRegister(d *Driver) {
	if err := defaultRegistry.Register(d); err != nil {
		panic(fmt.Sprintf("failed to register driver: %v", err))
	}
}

// Get retrieves a driver by name, or nil.
func (r *Registry) Get(name string) *Driver {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.drivers[name]
}

// ForDevice finds the driver claiming the given PCI identity.
func (r *Registry) ForDevice(vendorID, deviceID uint16) (*Driver, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	name, ok := r.deviceIndex[DeviceID{VendorID: vendorID, DeviceID: deviceID}]
	if !ok {
		return nil, false
	}
	return r.drivers[name], true
}

// List returns every registered driver.
func (r *Registry) List() []*Driver {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Driver, 0, len(r.drivers))
	for _, d := range r.drivers {
		out = append(out, d)
	}
	return out
}

// Count returns the number of registered drivers.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.drivers)
}

// Clear removes all drivers. Primarily useful for testing.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.drivers = make(map[string]*Driver)
	r.deviceIndex = make(map[DeviceID]string)
}
