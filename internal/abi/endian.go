package abi

import (
	"encoding/binary"

	"golang.org/x/sys/cpu"
)

// Native is the host byte order.
var Native binary.ByteOrder = binary.LittleEndian

func init() {
	if cpu.IsBigEndian {
		Native = binary.BigEndian
	}
}

// Endianness reports "BE" or "LE" for the host.
func Endianness() string {
	if cpu.IsBigEndian {
		return "BE"
	}
	return "LE"
}
