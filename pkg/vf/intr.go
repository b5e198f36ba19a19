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

import "github.com/virtnic/txgbevf/pkg/hw"

// IntrMask controls the VF interrupt mask and mirrors the last value the
// driver wrote. The hardware never changes the mask on its own, so the
// mirror is authoritative within a process.
type IntrMask struct {
	regs hw.Registers

	// maskMisc is the mirror of the last mask write.
	maskMisc uint32
}

func newIntrMask(regs hw.Registers) *IntrMask {
	return &IntrMask{regs: regs}
}

// Disable masks every VF interrupt cause. The flush guarantees the mask is
// in effect before the next dependent hardware action, notably reset.
func (c *IntrMask) Disable() {
	c.regs.Write32(hw.RegVFIMS, hw.VFIMSMask)
	c.regs.Flush()
	c.maskMisc = hw.VFIMSMask
}

// Enable unmasks every VF interrupt cause via the mask-clear register; the
// cause auto-clear on read is the hardware's side of the contract.
func (c *IntrMask) Enable() {
	c.regs.Write32(hw.RegVFIMC, hw.VFIMCMask)
	c.regs.Flush()
	c.maskMisc = 0
}

// Mask returns the locally mirrored mask value.
func (c *IntrMask) Mask() uint32 {
	return c.maskMisc
}
