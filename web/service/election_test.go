package service

import (
	"testing"

	"ballot-ui/database"
	"ballot-ui/database/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeleteElectionCascades(t *testing.T) {
	setupDB(t)
	service := ElectionService{}

	election, err := service.CreateElection("City Council", "2024-01-01T00:00:00", "2024-01-31T23:59:00")
	require.NoError(t, err)
	keep, err := service.CreateElection("School Board", "2024-01-01T00:00:00", "2024-01-31T23:59:00")
	require.NoError(t, err)

	c1, err := service.AddCandidate("X", "P1", election.Id)
	require.NoError(t, err)
	_, err = service.AddCandidate("Y", "P2", election.Id)
	require.NoError(t, err)
	kept, err := service.AddCandidate("Z", "P3", keep.Id)
	require.NoError(t, err)

	voter := newVoter(t, "casc", true)
	mustCreate(t, &model.Vote{UserId: voter.Id, CandidateId: c1.Id, ElectionId: election.Id})
	mustCreate(t, &model.Vote{UserId: voter.Id, CandidateId: kept.Id, ElectionId: keep.Id})

	require.NoError(t, service.DeleteElection(election.Id))

	candidates, err := service.ElectionCandidates(election.Id)
	require.NoError(t, err)
	assert.Empty(t, candidates)

	var votes int64
	require.NoError(t, database.GetDB().Model(model.Vote{}).
		Where("election_id = ?", election.Id).Count(&votes).Error)
	assert.Zero(t, votes)

	// The other election is untouched.
	candidates, err = service.ElectionCandidates(keep.Id)
	require.NoError(t, err)
	assert.Len(t, candidates, 1)
	require.NoError(t, database.GetDB().Model(model.Vote{}).
		Where("election_id = ?", keep.Id).Count(&votes).Error)
	assert.EqualValues(t, 1, votes)
}

func TestDeleteCandidateRemovesItsVotes(t *testing.T) {
	setupDB(t)
	service := ElectionService{}

	election, err := service.CreateElection("Board", "2024-01-01T00:00:00", "2024-01-31T23:59:00")
	require.NoError(t, err)
	c1, err := service.AddCandidate("X", "P1", election.Id)
	require.NoError(t, err)
	c2, err := service.AddCandidate("Y", "P2", election.Id)
	require.NoError(t, err)

	a := newVoter(t, "a", true)
	b := newVoter(t, "b", true)
	mustCreate(t, &model.Vote{UserId: a.Id, CandidateId: c1.Id, ElectionId: election.Id})
	mustCreate(t, &model.Vote{UserId: b.Id, CandidateId: c2.Id, ElectionId: election.Id})

	require.NoError(t, service.DeleteCandidate(c1.Id))

	var votes []model.Vote
	require.NoError(t, database.GetDB().Find(&votes).Error)
	require.Len(t, votes, 1)
	assert.Equal(t, c2.Id, votes[0].CandidateId)
}

func TestListCandidatesJoinsElectionTitles(t *testing.T) {
	setupDB(t)
	service := ElectionService{}

	election, err := service.CreateElection("Board", "2024-01-01T00:00:00", "2024-01-31T23:59:00")
	require.NoError(t, err)
	_, err = service.AddCandidate("X", "P1", election.Id)
	require.NoError(t, err)
	// Dangling election reference is allowed; title comes back empty.
	_, err = service.AddCandidate("Orphan", "P2", 9999)
	require.NoError(t, err)

	views, err := service.ListCandidates()
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "Board", views[0].ElectionTitle)
	assert.Equal(t, "", views[1].ElectionTitle)
}
