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

import (
	"errors"
	"fmt"
)

// Error taxonomy surfaced to the host framework.
var (
	// ErrInvalidMACAddr reports that the PF has not assigned a MAC address
	// to this VF. It is an expected outcome of reset, not a failure: the
	// caller proceeds with a locally generated address.
	ErrInvalidMACAddr = errors.New("no MAC address assigned by PF")

	// ErrResetFailed reports a hardware reset failure other than the
	// missing-address case. The owning framework may retry the whole
	// initialization.
	ErrResetFailed = errors.New("hardware reset failed")

	// ErrIO reports an I/O-class failure: shared-code init or hardware
	// start. Fatal to initialization, not retryable.
	ErrIO = errors.New("hardware i/o error")

	// ErrNoMemory reports an allocation failure for the address table.
	ErrNoMemory = errors.New("out of memory")

	// ErrUnsupportedDevice reports bus identity this driver does not claim.
	ErrUnsupportedDevice = errors.New("unsupported device")
)

// DeviceError wraps an error with the device and operation it came from.
type DeviceError struct {
	Device string
	Op     string
	Err    error
}

func (e *DeviceError) Error() string {
	if e.Device == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("device %s: %s: %v", e.Device, e.Op, e.Err)
}

func (e *DeviceError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether err is the retry-class reset failure.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrResetFailed)
}

// IsNoAddr reports whether err is the expected missing-address condition.
func IsNoAddr(err error) bool {
	return errors.Is(err, ErrInvalidMACAddr)
}
