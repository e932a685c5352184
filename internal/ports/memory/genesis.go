package memory

import (
	"dao-governance/internal/ports"
	"dao-governance/internal/ports/onchain"
	"errors"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"gopkg.in/yaml.v3"
)

type genesisDAO struct {
	ID              string   `yaml:"id"`
	Creator         string   `yaml:"creator"`
	GovernanceToken string   `yaml:"governanceToken"`
	NetworkDAO      bool     `yaml:"networkDAO"`
	Subsisting      bool     `yaml:"subsisting"`
	Members         []string `yaml:"members"`
	HighCouncil     []string `yaml:"highCouncil"`
	BlockProducers  []string `yaml:"blockProducers"`
}

type Genesis struct {
	DAOs            []genesisDAO                `yaml:"daos"`
	Balances        map[string]map[string]int64 `yaml:"balances"`
	RootHistorySize int                         `yaml:"rootHistorySize"`
	AcceptAllProofs bool                        `yaml:"acceptAllProofs"`
}

// World holds the collaborators seeded by a genesis file. Tokens and trees
// keep their records in the ledger, the genesis only provides allocations.
type World struct {
	Registry    *Registry
	Tokens      *onchain.TokenLedger
	Accumulator *onchain.Accumulator
	Verifier    StaticVerifier
}

func (w World) Collaborators() ports.Collaborators {
	return ports.Collaborators{
		DAO:      w.Registry,
		Election: w.Registry,
		Token:    w.Tokens,
		Merkle:   w.Accumulator,
		Verifier: w.Verifier,
	}
}

func LoadGenesisFile(path string) (World, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return World{}, errors.New("failed to read the genesis file: " + err.Error())
	}
	return LoadGenesis(data)
}

func LoadGenesis(data []byte) (World, error) {
	var genesis Genesis
	if err := yaml.Unmarshal(data, &genesis); err != nil {
		return World{}, errors.New("failed to parse the genesis: " + err.Error())
	}

	world := World{
		Registry:    NewRegistry(),
		Tokens:      onchain.NewTokenLedger(),
		Accumulator: onchain.NewAccumulator(genesis.RootHistorySize),
		Verifier:    StaticVerifier{Accept: genesis.AcceptAllProofs},
	}

	for _, dao := range genesis.DAOs {
		if len(common.FromHex(dao.ID)) != common.HashLength {
			return World{}, errors.New("invalid DAO id: " + dao.ID)
		}
		daoID := common.HexToHash(dao.ID)
		world.Registry.AddDAO(ports.DAOInfo{
			DAOID:           daoID,
			Creator:         dao.Creator,
			GovernanceToken: dao.GovernanceToken,
			IsNetworkDAO:    dao.NetworkDAO,
		}, dao.Subsisting)
		world.Registry.SetMembers(daoID, dao.Members...)
		world.Registry.SetHighCouncil(daoID, dao.HighCouncil...)
		world.Registry.SetBlockProducers(daoID, dao.BlockProducers...)

		if dao.GovernanceToken != "" {
			world.Tokens.Create(dao.GovernanceToken)
		}
	}

	for symbol, owners := range genesis.Balances {
		world.Tokens.Create(symbol)
		for owner, amount := range owners {
			world.Tokens.Mint(symbol, owner, amount)
		}
	}

	return world, nil
}
