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
	"fmt"
	"io"

	"github.com/virtnic/txgbevf/pkg/hw"
)

// AddrSource says where the resolved permanent address came from.
type AddrSource int

const (
	// AddrFromPF means the PF assigned the address during reset.
	AddrFromPF AddrSource = iota
	// AddrGenerated means the PF assigned none and the driver generated
	// a locally administered address instead.
	AddrGenerated
)

func (s AddrSource) String() string {
	if s == AddrGenerated {
		return "generated"
	}
	return "pf-assigned"
}

// ResolvedAddr is the permanent address resolution outcome. Both sources
// are normal results; the generated path is not an error.
type ResolvedAddr struct {
	Source AddrSource
	Addr   hw.MACAddr
}

// macOUI is the Organizationally Unique Identifier prefix for generated
// addresses.
var macOUI = [3]byte{0x00, 0x09, 0xC0}

// generateMACAddr builds a locally administered address: the fixed OUI
// prefix with the local-admin bit forced on, and three random trailing
// bytes from r.
func generateMACAddr(r io.Reader) (hw.MACAddr, error) {
	var addr hw.MACAddr
	addr[0] = macOUI[0] | hw.LocalAdminBit
	addr[1] = macOUI[1]
	addr[2] = macOUI[2]

	if _, err := io.ReadFull(r, addr[3:]); err != nil {
		return hw.MACAddr{}, fmt.Errorf("random MAC generation: %w", err)
	}
	return addr, nil
}
