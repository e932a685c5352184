package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

type retrievedVotingRecord struct {
	Voter         string `json:"voter"`
	Amount        int64  `json:"amount"`
	Option        string `json:"option"`
	VoteTimestamp int64  `json:"voteTimestamp"`
	VoteID        string `json:"voteID"`
}

func (ser *server) getVotingItem(w http.ResponseWriter, r *http.Request) {
	votingItemID, err := readHash(r, "votingItemID")
	if err != nil {
		ser.badRequest(w, err.Error())
		return
	}

	item, err := ser.votes.GetVotingItem(ser.state(r.Context()), votingItemID)
	if err != nil {
		ser.engineError(w, err)
		return
	}

	ser.respond(w, item)
}

func (ser *server) getVotingResult(w http.ResponseWriter, r *http.Request) {
	votingItemID, err := readHash(r, "votingItemID")
	if err != nil {
		ser.badRequest(w, err.Error())
		return
	}

	result, err := ser.votes.GetVotingResult(ser.state(r.Context()), votingItemID)
	if err != nil {
		ser.engineError(w, err)
		return
	}

	ser.respond(w, result)
}

func (ser *server) getVotingRecord(w http.ResponseWriter, r *http.Request) {
	votingItemID, err := readHash(r, "votingItemID")
	if err != nil {
		ser.badRequest(w, err.Error())
		return
	}
	voter := normalize(mux.Vars(r)["voter"])

	record, found, err := ser.votes.GetVotingRecord(ser.state(r.Context()), votingItemID, voter)
	if err != nil {
		ser.engineError(w, err)
		return
	}
	if !found {
		ser.notFound(w, "voting record not found")
		return
	}

	ser.respond(w, retrievedVotingRecord{
		Voter:         voter,
		Amount:        record.Amount,
		Option:        record.Option.String(),
		VoteTimestamp: record.VoteTimestamp,
		VoteID:        record.VoteID.Hex(),
	})
}
