package service

import (
	"fmt"
	"testing"

	"ballot-ui/database/model"
	"ballot-ui/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTallyCountsAndZeroVoteCandidates(t *testing.T) {
	setupDB(t)
	service := TallyService{}

	election := januaryElection(t)
	x := &model.Candidate{Name: "X", ElectionId: election.Id}
	y := &model.Candidate{Name: "Y", ElectionId: election.Id}
	mustCreate(t, x)
	mustCreate(t, y)

	for i := 0; i < 3; i++ {
		voter := newVoter(t, fmt.Sprintf("tally%d", i), true)
		mustCreate(t, &model.Vote{UserId: voter.Id, CandidateId: x.Id, ElectionId: election.Id})
	}

	_, rows, err := service.Tally(model.RoleAdmin, election.Id, "2024-01-20T00:00:00")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, TallyRow{Candidate: "X", Votes: 3}, rows[0])
	assert.Equal(t, TallyRow{Candidate: "Y", Votes: 0}, rows[1])
}

func TestTallyVisibilityGate(t *testing.T) {
	setupDB(t)
	service := TallyService{}

	election := januaryElection(t)
	mustCreate(t, &model.Candidate{Name: "X", ElectionId: election.Id})

	// Non-admin before the end, and exactly at the end, is gated.
	_, _, err := service.Tally(model.RoleUser, election.Id, "2024-01-20T00:00:00")
	assert.ErrorIs(t, err, domain.ErrResultsNotYetAvailable)
	_, _, err = service.Tally(model.RoleUser, election.Id, election.EndDate)
	assert.ErrorIs(t, err, domain.ErrResultsNotYetAvailable)

	// Admin early-peek is allowed.
	_, _, err = service.Tally(model.RoleAdmin, election.Id, "2024-01-20T00:00:00")
	assert.NoError(t, err)

	// Everyone sees results after the window.
	_, rows, err := service.Tally(model.RoleUser, election.Id, "2024-02-01T00:00:00")
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	_, _, err = service.Tally(model.RoleUser, 9999, "2024-02-01T00:00:00")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestExportElectionTally(t *testing.T) {
	setupDB(t)
	service := TallyService{}

	election := januaryElection(t)
	x := &model.Candidate{Name: "X", ElectionId: election.Id}
	y := &model.Candidate{Name: "Y", ElectionId: election.Id}
	mustCreate(t, x)
	mustCreate(t, y)
	voter := newVoter(t, "export", true)
	mustCreate(t, &model.Vote{UserId: voter.Id, CandidateId: x.Id, ElectionId: election.Id})

	f, err := service.ExportElectionTally(election.Id)
	require.NoError(t, err)
	rows, err := f.GetRows("Results")
	require.NoError(t, err)
	require.Len(t, rows, 3) // header + both candidates, zero-vote included
	assert.Equal(t, []string{"Candidate", "Votes"}, rows[0])
	assert.Equal(t, []string{"X", "1"}, rows[1])
	assert.Equal(t, []string{"Y", "0"}, rows[2])
}

func TestExportAllVotes(t *testing.T) {
	setupDB(t)
	service := TallyService{}

	election := januaryElection(t)
	x := &model.Candidate{Name: "X", ElectionId: election.Id}
	mustCreate(t, x)
	a := newVoter(t, "va", true)
	b := newVoter(t, "vb", true)
	mustCreate(t, &model.Vote{UserId: a.Id, CandidateId: x.Id, ElectionId: election.Id})
	mustCreate(t, &model.Vote{UserId: b.Id, CandidateId: x.Id, ElectionId: election.Id})

	f, err := service.ExportAllVotes()
	require.NoError(t, err)
	rows, err := f.GetRows("Votes")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"ID", "UserID", "CandidateID", "ElectionID"}, rows[0])
}
