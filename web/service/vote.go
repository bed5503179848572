package service

import (
	"time"

	"ballot-ui/database"
	"ballot-ui/database/model"
	"ballot-ui/domain"
	"ballot-ui/logger"

	"gorm.io/gorm"
)

// timeFormat matches the precision the elections store their windows in.
// ISO-8601 strings compare lexicographically in chronological order.
const timeFormat = "2006-01-02T15:04:05"

// Now returns the current time as a window-comparable string.
func Now() string {
	return time.Now().Format(timeFormat)
}

// VoteService implements the voting workflow: the eligibility rules deciding
// who may vote and when, and the atomic ballot cast.
type VoteService struct{}

// ElectionOverview partitions the elections for a voter's dashboard, with
// the ids of elections the voter already cast a ballot in.
type ElectionOverview struct {
	Ongoing []model.Election `json:"ongoing"`
	Future  []model.Election `json:"future"`
	Expired []model.Election `json:"expired"`
	Voted   []int            `json:"voted"`
}

// checkEligibility evaluates the voting rules for (userId, electionId) at
// the given instant, in precedence order: verification, election window
// (inclusive at both ends), then the duplicate check. It runs against the
// supplied handle so CastVote can re-check inside its transaction.
func checkEligibility(tx *gorm.DB, userId, electionId int, now string) (*model.Election, error) {
	user := &model.User{}
	err := tx.First(user, userId).Error
	if database.IsNotFound(err) {
		return nil, domain.ErrNotFound
	} else if err != nil {
		return nil, err
	}
	if !user.Verified {
		return nil, domain.ErrNotVerified
	}

	election := &model.Election{}
	err = tx.First(election, electionId).Error
	if database.IsNotFound(err) {
		return nil, domain.ErrNotFound
	} else if err != nil {
		return nil, err
	}
	if now < election.StartDate {
		return nil, domain.ErrElectionNotStarted
	}
	if now > election.EndDate {
		return nil, domain.ErrElectionClosed
	}

	var count int64
	err = tx.Model(model.Vote{}).
		Where("user_id = ? AND election_id = ?", userId, electionId).
		Count(&count).
		Error
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, domain.ErrAlreadyVoted
	}

	return election, nil
}

// Eligibility reports whether the user may currently vote in the election.
func (s *VoteService) Eligibility(userId, electionId int, now string) (*model.Election, error) {
	return checkEligibility(database.GetDB(), userId, electionId, now)
}

// Ballot returns the election and its candidate list once the user passes
// the eligibility rules.
func (s *VoteService) Ballot(userId, electionId int, now string) (*model.Election, []model.Candidate, error) {
	db := database.GetDB()
	election, err := checkEligibility(db, userId, electionId, now)
	if err != nil {
		return nil, nil, err
	}

	var candidates []model.Candidate
	err = db.Model(model.Candidate{}).
		Where("election_id = ?", electionId).
		Order("id").
		Find(&candidates).
		Error
	if err != nil {
		return nil, nil, err
	}
	return election, candidates, nil
}

// CastVote re-validates every eligibility rule and inserts the ballot as one
// transaction, so two concurrent casts by the same user cannot both commit.
// The unique index on (user_id, election_id) backs this up; a constraint
// violation surfaces as ErrAlreadyVoted. A cast ballot is final.
func (s *VoteService) CastVote(userId, electionId, candidateId int, now string) error {
	db := database.GetDB()
	err := db.Transaction(func(tx *gorm.DB) error {
		if _, err := checkEligibility(tx, userId, electionId, now); err != nil {
			return err
		}
		vote := &model.Vote{
			UserId:      userId,
			CandidateId: candidateId,
			ElectionId:  electionId,
		}
		return tx.Create(vote).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyVoted
		}
		return err
	}
	logger.Infof("user %d cast a vote in election %d", userId, electionId)
	return nil
}

// ClassifyElections partitions all elections relative to now and collects
// the election ids the user has voted in, for dashboard badges.
func (s *VoteService) ClassifyElections(userId int, now string) (*ElectionOverview, error) {
	db := database.GetDB()
	overview := &ElectionOverview{
		Ongoing: []model.Election{},
		Future:  []model.Election{},
		Expired: []model.Election{},
		Voted:   []int{},
	}

	err := db.Model(model.Election{}).
		Where("start_date <= ? AND end_date >= ?", now, now).
		Order("id").
		Find(&overview.Ongoing).
		Error
	if err != nil {
		return nil, err
	}
	err = db.Model(model.Election{}).
		Where("start_date > ?", now).
		Order("id").
		Find(&overview.Future).
		Error
	if err != nil {
		return nil, err
	}
	err = db.Model(model.Election{}).
		Where("end_date < ?", now).
		Order("id").
		Find(&overview.Expired).
		Error
	if err != nil {
		return nil, err
	}

	err = db.Model(model.Vote{}).
		Where("user_id = ?", userId).
		Order("election_id").
		Pluck("election_id", &overview.Voted).
		Error
	if err != nil {
		return nil, err
	}
	return overview, nil
}
