package service

import (
	"ballot-ui/database"
	"ballot-ui/database/model"
	"ballot-ui/logger"

	"gorm.io/gorm"
)

// ElectionService manages elections and candidates. All of its mutating
// operations are admin-only; the controllers enforce the role gate.
type ElectionService struct{}

// CandidateView is a candidate joined with its election title for display.
type CandidateView struct {
	Id            int    `json:"id"`
	Name          string `json:"name"`
	Party         string `json:"party"`
	ElectionId    int    `json:"electionId"`
	ElectionTitle string `json:"electionTitle"`
}

// CreateElection appends a new election. The window is taken as given; no
// overlap or ordering validation against other elections.
func (s *ElectionService) CreateElection(title, startDate, endDate string) (*model.Election, error) {
	db := database.GetDB()
	election := &model.Election{
		Title:     title,
		StartDate: startDate,
		EndDate:   endDate,
	}
	if err := db.Create(election).Error; err != nil {
		return nil, err
	}
	logger.Infof("created election %q [%s, %s]", title, startDate, endDate)
	return election, nil
}

// AddCandidate appends a candidate. The election reference is advisory and
// not checked for existence.
func (s *ElectionService) AddCandidate(name, party string, electionId int) (*model.Candidate, error) {
	db := database.GetDB()
	candidate := &model.Candidate{
		Name:       name,
		Party:      party,
		ElectionId: electionId,
	}
	if err := db.Create(candidate).Error; err != nil {
		return nil, err
	}
	return candidate, nil
}

// DeleteElection removes the election's votes and candidates, then the
// election itself, all-or-nothing. A failed delete leaves everything in
// place.
func (s *ElectionService) DeleteElection(electionId int) error {
	db := database.GetDB()
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("election_id = ?", electionId).Delete(&model.Vote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("election_id = ?", electionId).Delete(&model.Candidate{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Election{}, electionId).Error
	})
	if err == nil {
		logger.Infof("deleted election %d and its dependents", electionId)
	}
	return err
}

// DeleteCandidate removes the candidate's votes, then the candidate, as one
// transaction.
func (s *ElectionService) DeleteCandidate(candidateId int) error {
	db := database.GetDB()
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("candidate_id = ?", candidateId).Delete(&model.Vote{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Candidate{}, candidateId).Error
	})
}

func (s *ElectionService) ListElections() ([]model.Election, error) {
	db := database.GetDB()
	var elections []model.Election
	err := db.Model(model.Election{}).Order("id").Find(&elections).Error
	return elections, err
}

// ListCandidates returns all candidates with their election titles. A
// candidate whose election no longer exists gets an empty title.
func (s *ElectionService) ListCandidates() ([]CandidateView, error) {
	db := database.GetDB()
	var candidates []CandidateView
	err := db.Table("candidates").
		Select("candidates.id, candidates.name, candidates.party, candidates.election_id, COALESCE(elections.title, '') AS election_title").
		Joins("LEFT JOIN elections ON elections.id = candidates.election_id").
		Order("candidates.id").
		Scan(&candidates).
		Error
	return candidates, err
}

// ElectionCandidates returns the candidate list of one election.
func (s *ElectionService) ElectionCandidates(electionId int) ([]model.Candidate, error) {
	db := database.GetDB()
	var candidates []model.Candidate
	err := db.Model(model.Candidate{}).
		Where("election_id = ?", electionId).
		Order("id").
		Find(&candidates).
		Error
	return candidates, err
}
