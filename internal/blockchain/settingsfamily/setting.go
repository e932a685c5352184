package settingsfamily

import (
	"errors"

	"github.com/hyperledger/sawtooth-sdk-go/protobuf/setting_pb2"
	"google.golang.org/protobuf/proto"
)

// Lookup extracts the value of key from a serialized settings entry. Several
// keys may share an address, so the entries are scanned for an exact match.
func Lookup(data []byte, key string) (string, bool, error) {
	if len(data) == 0 {
		return "", false, nil
	}

	setting := &setting_pb2.Setting{}
	if err := proto.Unmarshal(data, setting); err != nil {
		return "", false, errors.New("failed to unmarshal the setting " + key + ": " + err.Error())
	}

	for _, entry := range setting.GetEntries() {
		if entry.GetKey() == key {
			return entry.GetValue(), true, nil
		}
	}
	return "", false, nil
}

// Encode serializes a single settings entry the way the settings family
// stores it.
func Encode(key, value string) ([]byte, error) {
	setting := &setting_pb2.Setting{
		Entries: []*setting_pb2.Setting_Entry{{Key: key, Value: value}},
	}
	return proto.Marshal(setting)
}
