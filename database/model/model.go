// Package model defines the persistent entities of the election panel.
package model

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User is a registered account. Non-admin accounts start unverified and may
// not log in or vote until an admin flips Verified.
type User struct {
	Id               int    `json:"id" gorm:"primaryKey;autoIncrement"`
	Username         string `json:"username" gorm:"uniqueIndex;not null"`
	Password         string `json:"-"` // bcrypt hash, never the raw credential
	Name             string `json:"name"`
	Dob              string `json:"dob"`
	CitizenshipId    string `json:"citizenshipId"`
	CitizenshipPhoto string `json:"citizenshipPhoto"`
	PersonalPhoto    string `json:"personalPhoto"`
	Verified         bool   `json:"verified" gorm:"default:false"`
	Role             string `json:"role" gorm:"not null;default:user"`
}

// Election holds a voting window. Dates are ISO-8601 strings so lexicographic
// comparison matches chronological order. start <= end is the admin's
// responsibility and is not validated at write time.
type Election struct {
	Id        int    `json:"id" gorm:"primaryKey;autoIncrement"`
	Title     string `json:"title"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type Candidate struct {
	Id         int    `json:"id" gorm:"primaryKey;autoIncrement"`
	Name       string `json:"name"`
	Party      string `json:"party"`
	ElectionId int    `json:"electionId" gorm:"index"`
}

// Vote records one ballot. The composite unique index backs up the
// transactional duplicate check in the voting workflow.
type Vote struct {
	Id          int `json:"id" gorm:"primaryKey;autoIncrement"`
	UserId      int `json:"userId" gorm:"uniqueIndex:idx_votes_user_election"`
	CandidateId int `json:"candidateId" gorm:"index"`
	ElectionId  int `json:"electionId" gorm:"uniqueIndex:idx_votes_user_election"`
}
