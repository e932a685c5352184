package settingsfamily

import (
	"dao-governance/internal/hashing"
	"strings"
)

const Namespace = "000000"

// Setting keys read by the governance family, values are go durations
const (
	KeyActivePeriod      = "daogovernance.period.active"
	KeyVetoActivePeriod  = "daogovernance.period.vetoactive"
	KeyPendingPeriod     = "daogovernance.period.pending"
	KeyExecutePeriod     = "daogovernance.period.execute"
	KeyVetoExecutePeriod = "daogovernance.period.vetoexecute"
)

func GetAddress(settingName string) string {
	addr := Namespace
	parts := strings.SplitN(settingName, ".", 4)
	for i := 0; i < 4; i++ {
		if i < len(parts) {
			addr += hashing.CalculateSHA256(parts[i])[:16]
		} else {
			addr += hashing.CalculateSHA256("")[:16]
		}
	}
	return addr
}
