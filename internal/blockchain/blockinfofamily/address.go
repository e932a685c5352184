// Package blockinfofamily reads the block info records the sawtooth
// BlockInfo transaction processor injects at the start of every block.
package blockinfofamily

import (
	"fmt"
	"strings"
)

const Namespace = "00b10c"

var ConfigAddress = Namespace + "01" + strings.Repeat("0", 62)

// GetAddress returns the address of the info record of blockNum.
func GetAddress(blockNum uint64) string {
	return Namespace + "00" + fmt.Sprintf("%062x", blockNum)
}
