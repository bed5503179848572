package service

import (
	"fmt"

	"ballot-ui/database"
	"ballot-ui/database/model"
	"ballot-ui/domain"

	"github.com/xuri/excelize/v2"
)

// TallyService aggregates votes into per-candidate counts and produces the
// downloadable spreadsheet exports.
type TallyService struct{}

// TallyRow is one line of an election result.
type TallyRow struct {
	Candidate string `json:"candidate"`
	Votes     int64  `json:"votes"`
}

// Tally counts votes per candidate for one election. Candidates without any
// votes are included with a zero count. Non-admin callers are gated until
// the election window has passed; admins may peek early.
func (s *TallyService) Tally(role string, electionId int, now string) (*model.Election, []TallyRow, error) {
	db := database.GetDB()

	election := &model.Election{}
	err := db.First(election, electionId).Error
	if database.IsNotFound(err) {
		return nil, nil, domain.ErrNotFound
	} else if err != nil {
		return nil, nil, err
	}

	if role != model.RoleAdmin && now <= election.EndDate {
		return nil, nil, domain.ErrResultsNotYetAvailable
	}

	rows, err := s.countVotes(electionId)
	if err != nil {
		return nil, nil, err
	}
	return election, rows, nil
}

// countVotes joins from candidates so zero-vote candidates stay in the
// result set.
func (s *TallyService) countVotes(electionId int) ([]TallyRow, error) {
	db := database.GetDB()
	var rows []TallyRow
	err := db.Table("candidates").
		Select("candidates.name AS candidate, COUNT(votes.id) AS votes").
		Joins("LEFT JOIN votes ON votes.candidate_id = candidates.id AND votes.election_id = candidates.election_id").
		Where("candidates.election_id = ?", electionId).
		Group("candidates.id").
		Order("COUNT(votes.id) DESC, candidates.name").
		Scan(&rows).
		Error
	return rows, err
}

// ExportAllVotes builds a spreadsheet of every raw vote record. A pure
// projection; the data model is untouched.
func (s *TallyService) ExportAllVotes() (*excelize.File, error) {
	db := database.GetDB()
	var votes []model.Vote
	if err := db.Model(model.Vote{}).Order("id").Find(&votes).Error; err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	const sheet = "Votes"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(sheet, "A1", &[]any{"ID", "UserID", "CandidateID", "ElectionID"}); err != nil {
		return nil, err
	}
	for i, v := range votes {
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, cell, &[]any{v.Id, v.UserId, v.CandidateId, v.ElectionId}); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// ExportElectionTally builds a Candidate/Votes spreadsheet for one election,
// zero-vote candidates included.
func (s *TallyService) ExportElectionTally(electionId int) (*excelize.File, error) {
	rows, err := s.countVotes(electionId)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	const sheet = "Results"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(sheet, "A1", &[]any{"Candidate", "Votes"}); err != nil {
		return nil, err
	}
	for i, r := range rows {
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, cell, &[]any{r.Candidate, r.Votes}); err != nil {
			return nil, err
		}
	}
	return f, nil
}
