package memory

import (
	"context"
	"dao-governance/internal/model"
	"dao-governance/internal/ports"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/lo"
)

type daoRecord struct {
	info       ports.DAOInfo
	subsisting bool
	members    []string
	council    []string
	producers  []string
}

// Registry serves both the DAO and the Election ports.
type Registry struct {
	mutex sync.RWMutex
	daos  map[common.Hash]*daoRecord
}

func NewRegistry() *Registry {
	return &Registry{daos: make(map[common.Hash]*daoRecord)}
}

func (r *Registry) AddDAO(info ports.DAOInfo, subsisting bool) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.daos[info.DAOID] = &daoRecord{info: info, subsisting: subsisting}
}

func (r *Registry) SetSubsisting(daoID common.Hash, subsisting bool) {
	r.update(daoID, func(d *daoRecord) { d.subsisting = subsisting })
}

func (r *Registry) SetMembers(daoID common.Hash, members ...string) {
	r.update(daoID, func(d *daoRecord) { d.members = members })
}

func (r *Registry) SetHighCouncil(daoID common.Hash, members ...string) {
	r.update(daoID, func(d *daoRecord) { d.council = members })
}

func (r *Registry) SetBlockProducers(daoID common.Hash, producers ...string) {
	r.update(daoID, func(d *daoRecord) { d.producers = producers })
}

func (r *Registry) update(daoID common.Hash, fn func(d *daoRecord)) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if d, ok := r.daos[daoID]; ok {
		fn(d)
	}
}

func (r *Registry) get(daoID common.Hash) (*daoRecord, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	d, ok := r.daos[daoID]
	if !ok {
		return nil, model.NotFound("DAO " + daoID.Hex() + " not found.")
	}
	return d, nil
}

func (r *Registry) GetDAOInfo(ctx context.Context, daoID common.Hash) (ports.DAOInfo, error) {
	d, err := r.get(daoID)
	if err != nil {
		return ports.DAOInfo{}, err
	}
	return d.info, nil
}

func (r *Registry) GetSubsistStatus(ctx context.Context, daoID common.Hash) (bool, error) {
	d, err := r.get(daoID)
	if err != nil {
		return false, err
	}
	return d.subsisting, nil
}

func (r *Registry) GetIsMember(ctx context.Context, daoID common.Hash, member string) (bool, error) {
	d, err := r.get(daoID)
	if err != nil {
		return false, err
	}
	return lo.Contains(d.members, member), nil
}

func (r *Registry) GetHighCouncilMembers(ctx context.Context, daoID common.Hash) ([]string, error) {
	d, err := r.get(daoID)
	if err != nil {
		return nil, err
	}
	return append([]string(nil), d.council...), nil
}

func (r *Registry) GetVictories(ctx context.Context, daoID common.Hash) ([]string, error) {
	d, err := r.get(daoID)
	if err != nil {
		return nil, err
	}
	return append([]string(nil), d.producers...), nil
}
