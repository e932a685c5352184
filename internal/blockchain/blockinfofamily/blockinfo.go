package blockinfofamily

import (
	"errors"
	"time"

	"google.golang.org/protobuf/encoding/protowire"
)

// DefaultSyncTolerance is the tolerance the BlockInfo processor applies
// when its config does not set one.
const DefaultSyncTolerance = 300 * time.Second

// Config mirrors the BlockInfoConfig message.
type Config struct {
	LatestBlock   uint64
	OldestBlock   uint64
	TargetCount   uint64
	SyncTolerance uint64
}

// BlockInfo mirrors the BlockInfo message. Timestamp is in unix seconds.
type BlockInfo struct {
	BlockNum        uint64
	PreviousBlockID string
	SignerPublicKey string
	HeaderSignature string
	Timestamp       uint64
}

func (b BlockInfo) Time() time.Time {
	return time.Unix(int64(b.Timestamp), 0).UTC()
}

func (c Config) Tolerance() time.Duration {
	if c.SyncTolerance == 0 {
		return DefaultSyncTolerance
	}
	return time.Duration(c.SyncTolerance) * time.Second
}

func DecodeConfig(data []byte) (Config, error) {
	var config Config
	err := walk(data, func(num protowire.Number, varint uint64, _ []byte) {
		switch num {
		case 1:
			config.LatestBlock = varint
		case 2:
			config.OldestBlock = varint
		case 3:
			config.TargetCount = varint
		case 4:
			config.SyncTolerance = varint
		}
	})
	if err != nil {
		return Config{}, errors.New("failed to decode the block info config: " + err.Error())
	}
	return config, nil
}

func DecodeBlockInfo(data []byte) (BlockInfo, error) {
	var info BlockInfo
	err := walk(data, func(num protowire.Number, varint uint64, bytes []byte) {
		switch num {
		case 1:
			info.BlockNum = varint
		case 2:
			info.PreviousBlockID = string(bytes)
		case 3:
			info.SignerPublicKey = string(bytes)
		case 4:
			info.HeaderSignature = string(bytes)
		case 5:
			info.Timestamp = varint
		}
	})
	if err != nil {
		return BlockInfo{}, errors.New("failed to decode the block info: " + err.Error())
	}
	return info, nil
}

func EncodeConfig(config Config) []byte {
	var b []byte
	b = appendVarint(b, 1, config.LatestBlock)
	b = appendVarint(b, 2, config.OldestBlock)
	b = appendVarint(b, 3, config.TargetCount)
	b = appendVarint(b, 4, config.SyncTolerance)
	return b
}

func EncodeBlockInfo(info BlockInfo) []byte {
	var b []byte
	b = appendVarint(b, 1, info.BlockNum)
	b = appendString(b, 2, info.PreviousBlockID)
	b = appendString(b, 3, info.SignerPublicKey)
	b = appendString(b, 4, info.HeaderSignature)
	b = appendVarint(b, 5, info.Timestamp)
	return b
}

func appendVarint(b []byte, num protowire.Number, v uint64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendString(b []byte, num protowire.Number, v string) []byte {
	if v == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, v)
}

// walk visits the varint and length delimited fields of a message and
// skips the others.
func walk(data []byte, field func(num protowire.Number, varint uint64, bytes []byte)) error {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return protowire.ParseError(n)
		}
		data = data[n:]

		switch typ {
		case protowire.VarintType:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			field(num, v, nil)
			data = data[n:]
		case protowire.BytesType:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			field(num, 0, v)
			data = data[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			data = data[n:]
		}
	}
	return nil
}
