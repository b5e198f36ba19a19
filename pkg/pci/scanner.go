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

// Package pci reads PCI device identity from sysfs.
package pci

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/afero"
)

// DefaultSysfsPath is where the kernel exposes PCI devices.
const DefaultSysfsPath = "/sys/bus/pci/devices"

// Identity is the bus identity of one PCI function.
type Identity struct {
	Address           string // e.g., "0000:03:00.0"
	VendorID          uint16
	DeviceID          uint16
	SubsystemVendorID uint16
	SubsystemDeviceID uint16
	Driver            string // bound kernel driver, if any
}

func (id Identity) String() string {
	return fmt.Sprintf("%s [%04x:%04x]", id.Address, id.VendorID, id.DeviceID)
}

// Scanner reads device identities from a sysfs tree. The filesystem is
// injected so tests can run against a memory fs.
type Scanner struct {
	fs        afero.Fs
	sysfsPath string
}

// NewScanner creates a scanner over the given filesystem rooted at the
// standard sysfs location.
func NewScanner(fs afero.Fs) *Scanner {
	return &Scanner{fs: fs, sysfsPath: DefaultSysfsPath}
}

// NewScannerAt creates a scanner rooted at a non-standard sysfs path.
func NewScannerAt(fs afero.Fs, sysfsPath string) *Scanner {
	return &Scanner{fs: fs, sysfsPath: sysfsPath}
}

// Scan reads every device on the bus. Devices that fail to parse are
// skipped; an unreadable bus directory is an error.
func (s *Scanner) Scan() ([]Identity, error) {
	entries, err := afero.ReadDir(s.fs, s.sysfsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read PCI devices directory: %w", err)
	}

	var devices []Identity
	for _, entry := range entries {
		id, err := s.Read(entry.Name())
		if err != nil {
			continue
		}
		devices = append(devices, id)
	}
	return devices, nil
}

// Read reads the identity of the device at the given bus address.
func (s *Scanner) Read(address string) (Identity, error) {
	id := Identity{Address: address}
	devicePath := filepath.Join(s.sysfsPath, address)

	var err error
	if id.VendorID, err = s.readHexID(filepath.Join(devicePath, "vendor")); err != nil {
		return Identity{}, fmt.Errorf("device %s: %w", address, err)
	}
	if id.DeviceID, err = s.readHexID(filepath.Join(devicePath, "device")); err != nil {
		return Identity{}, fmt.Errorf("device %s: %w", address, err)
	}

	// Subsystem IDs are optional on some buses.
	id.SubsystemVendorID, _ = s.readHexID(filepath.Join(devicePath, "subsystem_vendor"))
	id.SubsystemDeviceID, _ = s.readHexID(filepath.Join(devicePath, "subsystem_device"))

	if target, err := readlink(s.fs, filepath.Join(devicePath, "driver")); err == nil {
		id.Driver = filepath.Base(target)
	}
	return id, nil
}

// readHexID parses a sysfs id file like "0x8088" into a uint16.
func (s *Scanner) readHexID(path string) (uint16, error) {
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return 0, err
	}
	text := strings.TrimSpace(string(data))
	text = strings.TrimPrefix(text, "0x")
	v, err := strconv.ParseUint(text, 16, 16)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", path, err)
	}
	return uint16(v), nil
}

func readlink(fs afero.Fs, path string) (string, error) {
	if lr, ok := fs.(afero.LinkReader); ok {
		return lr.ReadlinkIfPossible(path)
	}
	// Memory filesystems have no symlinks; a plain file stands in.
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
