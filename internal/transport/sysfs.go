package transport

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const sysfsDeviceDir = "/sys/bus/usb/devices"

func readSysfsAttrInt(devName, attrName string, base int) (int, error) {
	data, err := os.ReadFile(fmt.Sprintf("%s/%s/%s", sysfsDeviceDir, devName, attrName))
	if err != nil {
		return 0, err
	}
	value, err := strconv.ParseInt(strings.TrimSpace(string(data)), base, 64)
	if err != nil {
		return 0, err
	}
	return int(value), nil
}

func getDeviceAddress(devName string) (busNum, devNum int, err error) {
	busNum, err = readSysfsAttrInt(devName, "busnum", 10)
	if err != nil {
		return 0, 0, err
	}
	devNum, err = readSysfsAttrInt(devName, "devnum", 10)
	if err != nil {
		return 0, 0, err
	}
	return busNum, devNum, nil
}

func getDeviceIDs(devName string) (vendor, product int, err error) {
	vendor, err = readSysfsAttrInt(devName, "idVendor", 16)
	if err != nil {
		return 0, 0, err
	}
	product, err = readSysfsAttrInt(devName, "idProduct", 16)
	if err != nil {
		return 0, 0, err
	}
	return vendor, product, nil
}

// FindDevice scans /sys/bus/usb/devices for the first node matching the
// given vendor and product IDs and returns an unopened Device for it.
// It returns (nil, nil) when no match is found, matching the teacher's
// pattern of distinguishing "no device yet" from a sysfs read error.
func FindDevice(vendorID, productID int) (*Device, error) {
	entries, err := os.ReadDir(sysfsDeviceDir)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, "usb") || strings.Contains(name, ":") {
			continue
		}
		vendor, product, err := getDeviceIDs(name)
		if err != nil {
			continue
		}
		if vendor != vendorID || product != productID {
			continue
		}
		busNum, devNum, err := getDeviceAddress(name)
		if err != nil {
			continue
		}
		return newDevice(busNum, devNum), nil
	}
	return nil, nil
}
