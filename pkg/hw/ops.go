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

package hw

// MacOps is the per-silicon-revision operations table. The lifecycle
// controller holds this interface and never a concrete hardware type; each
// supported revision provides one implementation.
type MacOps interface {
	// Reset resets the VF through the PF and refreshes h.PermAddr with
	// the PF-assigned permanent address. It returns ErrInvalidMACAddr
	// (with a zero PermAddr) when the PF assigned none; the caller is
	// expected to continue with a generated address. Any other error is a
	// reset failure. Reset drops the negotiated API version back to the
	// mailbox baseline.
	Reset(h *Handle) error

	// Start brings the MAC out of reset with the current settings.
	Start(h *Handle) error

	// SetRAR programs one receive address register slot.
	SetRAR(h *Handle, slot int, addr MACAddr) error
}
