/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package models

import (
	"errors"
	"fmt"
)

var ErrUnknownDeviceKind = errors.New("unknown device kind")

// DeviceKind is the concrete type of a catalog entry. The set is closed.
type DeviceKind string

const (
	KindDesktop    DeviceKind = "Desktop"
	KindLaptop     DeviceKind = "Laptop"
	KindNetbook    DeviceKind = "Netbook"
	KindServer     DeviceKind = "Server"
	KindMicrotower DeviceKind = "Microtower"

	KindGraphicCard    DeviceKind = "GraphicCard"
	KindHardDrive      DeviceKind = "HardDrive"
	KindMotherboard    DeviceKind = "Motherboard"
	KindNetworkAdapter DeviceKind = "NetworkAdapter"
	KindProcessor      DeviceKind = "Processor"
	KindRamModule      DeviceKind = "RamModule"
)

// ParseDeviceKind maps a wire value onto a DeviceKind.
func ParseDeviceKind(s string) (DeviceKind, error) {
	kind := DeviceKind(s)
	if !kind.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownDeviceKind, s)
	}

	return kind, nil
}

// IsComputer reports whether the kind can hold components.
func (k DeviceKind) IsComputer() bool {
	switch k {
	case KindDesktop, KindLaptop, KindNetbook, KindServer, KindMicrotower:
		return true
	case KindGraphicCard, KindHardDrive, KindMotherboard, KindNetworkAdapter, KindProcessor, KindRamModule:
		return false
	default:
		return false
	}
}

// IsComponent reports whether the kind lives inside a computer.
func (k DeviceKind) IsComponent() bool {
	switch k {
	case KindGraphicCard, KindHardDrive, KindMotherboard, KindNetworkAdapter, KindProcessor, KindRamModule:
		return true
	case KindDesktop, KindLaptop, KindNetbook, KindServer, KindMicrotower:
		return false
	default:
		return false
	}
}

func (k DeviceKind) Valid() bool {
	return k.IsComputer() || k.IsComponent()
}

func (k DeviceKind) String() string {
	return string(k)
}
