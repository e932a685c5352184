package processor

import (
	"dao-governance/internal/blockchain/settingsfamily"
	"dao-governance/internal/ledger"
	"dao-governance/internal/model"
	"errors"
	"time"
)

// loadPeriods overrides the configured periods with the values found in the
// settings family. Missing settings keep the configured value.
func loadPeriods(state ledger.State, periods model.Periods) (model.Periods, error) {
	overrides := []struct {
		key    string
		target *time.Duration
	}{
		{settingsfamily.KeyActivePeriod, &periods.Active},
		{settingsfamily.KeyVetoActivePeriod, &periods.VetoActive},
		{settingsfamily.KeyPendingPeriod, &periods.Pending},
		{settingsfamily.KeyExecutePeriod, &periods.Execute},
		{settingsfamily.KeyVetoExecutePeriod, &periods.VetoExecute},
	}

	addresses := make([]string, 0, len(overrides))
	for _, o := range overrides {
		addresses = append(addresses, settingsfamily.GetAddress(o.key))
	}

	entries, err := state.GetState(addresses)
	if err != nil {
		return model.Periods{}, errors.New("failed to read the settings: " + err.Error())
	}

	for i, o := range overrides {
		value, found, err := settingsfamily.Lookup(entries[addresses[i]], o.key)
		if err != nil {
			return model.Periods{}, err
		}
		if !found {
			continue
		}

		d, err := time.ParseDuration(value)
		if err != nil || d <= 0 {
			return model.Periods{}, errors.New("invalid value of the setting " + o.key + ": " + value)
		}
		*o.target = d
	}
	return periods, nil
}
