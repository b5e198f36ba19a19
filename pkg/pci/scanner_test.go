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

package pci

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
)

func writeDevice(t *testing.T, fs afero.Fs, addr string, files map[string]string) {
	t.Helper()
	dir := filepath.Join(DefaultSysfsPath, addr)
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	for name, content := range files {
		if err := afero.WriteFile(fs, filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestScannerRead(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeDevice(t, fs, "0000:03:10.0", map[string]string{
		"vendor":           "0x8088\n",
		"device":           "0x1000\n",
		"subsystem_vendor": "0x8088\n",
		"subsystem_device": "0x0000\n",
		"driver":           "txgbevf\n",
	})

	id, err := NewScanner(fs).Read("0000:03:10.0")
	if err != nil {
		t.Fatal(err)
	}
	if id.VendorID != 0x8088 || id.DeviceID != 0x1000 {
		t.Errorf("identity = %04x:%04x, want 8088:1000", id.VendorID, id.DeviceID)
	}
	if id.SubsystemVendorID != 0x8088 {
		t.Errorf("subsystem vendor = %04x, want 8088", id.SubsystemVendorID)
	}
	if id.Driver != "txgbevf" {
		t.Errorf("driver = %q, want txgbevf", id.Driver)
	}
}

func TestScannerScanSkipsBrokenEntries(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeDevice(t, fs, "0000:03:10.0", map[string]string{
		"vendor": "0x8088\n",
		"device": "0x1000\n",
	})
	writeDevice(t, fs, "0000:03:10.1", map[string]string{
		"vendor": "not-hex\n",
		"device": "0x1000\n",
	})
	writeDevice(t, fs, "0000:03:10.2", map[string]string{
		// vendor file missing entirely
		"device": "0x2000\n",
	})

	ids, err := NewScanner(fs).Scan()
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 1 {
		t.Fatalf("Scan returned %d devices, want 1: %v", len(ids), ids)
	}
	if ids[0].Address != "0000:03:10.0" {
		t.Errorf("kept %s, want 0000:03:10.0", ids[0].Address)
	}
}

func TestScannerMissingSubsystemIDs(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeDevice(t, fs, "0000:03:10.0", map[string]string{
		"vendor": "0x8088\n",
		"device": "0x2000\n",
	})

	id, err := NewScanner(fs).Read("0000:03:10.0")
	if err != nil {
		t.Fatal(err)
	}
	if id.SubsystemVendorID != 0 || id.SubsystemDeviceID != 0 {
		t.Errorf("subsystem ids = %04x:%04x, want zero", id.SubsystemVendorID, id.SubsystemDeviceID)
	}
}

func TestScannerAtCustomRoot(t *testing.T) {
	fs := afero.NewMemMapFs()
	root := "/fake/sysfs"
	dir := filepath.Join(root, "0000:00:01.0")
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := afero.WriteFile(fs, filepath.Join(dir, "vendor"), []byte("0x8088"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := afero.WriteFile(fs, filepath.Join(dir, "device"), []byte("0x1000"), 0o644); err != nil {
		t.Fatal(err)
	}

	ids, err := NewScannerAt(fs, root).Scan()
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 1 || ids[0].VendorID != 0x8088 {
		t.Fatalf("Scan = %v", ids)
	}
}
