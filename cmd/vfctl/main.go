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

// vfctl is a diagnostic tool for the txgbevf driver: it probes the PCI bus
// for claimable VFs and can bring a device up against the in-memory PF
// simulator to inspect negotiation and capability reporting.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/jaypipes/ghw"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v2"
	"github.com/vishvananda/netlink"
	"go.uber.org/zap"

	"github.com/virtnic/txgbevf/pkg/driver"
	"github.com/virtnic/txgbevf/pkg/hw"
	"github.com/virtnic/txgbevf/pkg/mbx"
	"github.com/virtnic/txgbevf/pkg/mbx/mbxtest"
	"github.com/virtnic/txgbevf/pkg/pci"
	"github.com/virtnic/txgbevf/pkg/vf"

	// Register the Raptor VF driver in the default registry.
	_ "github.com/virtnic/txgbevf/pkg/driver/raptor"
)

func main() {
	zl, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := zapr.NewLogger(zl)

	app := &cli.App{
		Name:  "vfctl",
		Usage: "probe and exercise Wangxun Raptor virtual functions",
		Commands: []*cli.Command{
			probeCommand(log),
			demoCommand(log),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Error(err, "vfctl failed")
		os.Exit(1)
	}
}

func probeCommand(log logr.Logger) *cli.Command {
	return &cli.Command{
		Name:  "probe",
		Usage: "scan the PCI bus for devices this driver claims",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "all",
				Usage: "list every PCI device, not only claimed ones",
			},
		},
		Action: func(c *cli.Context) error {
			if c.Bool("all") {
				return probeAll()
			}
			return probeClaimed(log)
		},
	}
}

func probeAll() error {
	info, err := ghw.PCI()
	if err != nil {
		return fmt.Errorf("pci inventory: %w", err)
	}
	for _, dev := range info.Devices {
		fmt.Printf("%s  %s:%s  %s %s\n", dev.Address,
			dev.Vendor.ID, dev.Product.ID,
			dev.Vendor.Name, dev.Product.Name)
	}
	return nil
}

func probeClaimed(log logr.Logger) error {
	scanner := pci.NewScanner(afero.NewOsFs())
	ids, err := scanner.Scan()
	if err != nil {
		return err
	}

	reg := driver.DefaultRegistry()
	matched := 0
	for _, id := range ids {
		drv, ok := reg.ForDevice(id.VendorID, id.DeviceID)
		if !ok {
			continue
		}
		matched++
		fmt.Printf("%s  driver=%s", id, drv.Name)
		if name, mac, state, err := netdevFor(id.Address); err == nil {
			fmt.Printf("  netdev=%s mac=%s state=%s", name, mac, state)
		}
		fmt.Println()
	}
	if matched == 0 {
		log.Info("no claimable devices found")
	}
	return nil
}

// netdevFor resolves the kernel network interface bound to a PCI address
// and reports its link attributes.
func netdevFor(address string) (name, mac, state string, err error) {
	entries, err := os.ReadDir(filepath.Join(pci.DefaultSysfsPath, address, "net"))
	if err != nil || len(entries) == 0 {
		return "", "", "", fmt.Errorf("no netdev for %s", address)
	}
	name = entries[0].Name()

	link, err := netlink.LinkByName(name)
	if err != nil {
		return "", "", "", err
	}
	attrs := link.Attrs()
	return name, attrs.HardwareAddr.String(), attrs.OperState.String(), nil
}

func demoCommand(log logr.Logger) *cli.Command {
	return &cli.Command{
		Name:  "demo",
		Usage: "bring a simulated device up and print its capabilities",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "no-pf-mac",
				Usage: "simulate a PF that assigns no MAC address",
			},
			&cli.IntFlag{
				Name:  "api-max",
				Value: 13,
				Usage: "highest mailbox API version the simulated PF acks (0 disables negotiation)",
			},
		},
		Action: func(c *cli.Context) error {
			return runDemo(log, c.Bool("no-pf-mac"), c.Int("api-max"))
		},
	}
}

func runDemo(log logr.Logger, noPFMAC bool, apiMax int) error {
	pf := &mbxtest.PF{
		MaxAPI:         mbx.APIVersion(apiMax),
		TrafficClasses: 1,
		QueuesPerTC:    4,
	}
	if !noPFMAC {
		pf.PermAddr = [6]byte{0x02, 0x09, 0xC0, 0xde, 0xad, 0x01}
		pf.AssignAddr = true
	}

	drv := driver.DefaultRegistry().Get("net_txgbe_vf")
	if drv == nil {
		return fmt.Errorf("raptor driver not registered")
	}

	handle := &hw.Handle{
		Regs: hw.NewMemRegisters(),
		Mbx:  mbx.WithMetrics(pf),
		Mac:  drv.NewMacOps(),
	}
	dev := vf.New(vf.Config{
		Handle: handle,
		Bus: vf.BusInfo{
			VendorID: hw.VendorIDWangxun,
			DeviceID: hw.DevIDRaptorVF,
		},
		Log: log.WithName("demo"),
	})

	if err := dev.Init(); err != nil {
		return fmt.Errorf("device init: %w", err)
	}
	defer func() {
		if err := dev.Close(); err != nil {
			log.Error(err, "device close failed")
		}
	}()

	resolved := dev.ResolvedAddr()
	fmt.Printf("permanent address: %s (%s)\n", resolved.Addr, resolved.Source)
	fmt.Printf("mailbox API:       %s\n", handle.APIVersion)

	info := dev.Info()
	fmt.Printf("queues:            rx=%d tx=%d (tcs=%d, per-tc=%d)\n",
		info.MaxRxQueues, info.MaxTxQueues, info.TrafficClasses, info.QueuesPerTC)
	fmt.Printf("address slots:     %d (hash: %d)\n", info.MaxMACAddrs, info.MaxHashMACAddrs)
	fmt.Printf("frame size:        %d..%d\n", info.MinRxBufSize, info.MaxRxPktLen)
	fmt.Printf("rss:               key=%dB reta=%d\n", info.HashKeySize, info.RetaSize)
	fmt.Printf("rx offloads:       %#x (queue %#x)\n", info.RxOffloads, info.RxQueueOffloads)
	fmt.Printf("tx offloads:       %#x (queue %#x)\n", info.TxOffloads, info.TxQueueOffloads)

	// Short address-table walk: add two secondaries, then drop the first
	// to show the clear-and-replay behavior in the PF call log.
	a := hw.MACAddr{0x02, 0x11, 0x22, 0x33, 0x44, 0x55}
	b := hw.MACAddr{0x02, 0x11, 0x22, 0x33, 0x44, 0x66}
	if err := dev.AddAddress(a, 2); err != nil {
		return err
	}
	if err := dev.AddAddress(b, 5); err != nil {
		return err
	}
	pf.ClearLog()
	dev.RemoveAddress(2)
	fmt.Printf("remove replay:     %d mailbox calls, %d addresses programmed\n",
		len(pf.Calls()), len(pf.Unicast()))
	return nil
}
