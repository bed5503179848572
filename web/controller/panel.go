package controller

import (
	"net/http"
	"strconv"

	"ballot-ui/web/service"
	"ballot-ui/web/session"

	"github.com/gin-gonic/gin"
)

// VoteForm carries the chosen candidate of a ballot submission.
type VoteForm struct {
	CandidateId int `json:"candidateId" form:"candidate_id"`
}

// PanelController serves the voter-facing endpoints: the election overview,
// the ballot, vote casting and results.
type PanelController struct {
	BaseController

	voteService  service.VoteService
	tallyService service.TallyService
}

// NewPanelController creates a PanelController and initializes its routes.
func NewPanelController(g *gin.RouterGroup) *PanelController {
	a := &PanelController{}
	a.initRouter(g)
	return a
}

func (a *PanelController) initRouter(g *gin.RouterGroup) {
	g = g.Group("/panel")
	g.Use(a.checkLogin)

	g.GET("/elections", a.elections)
	g.GET("/ballot/:id", a.ballot)
	g.POST("/vote/:id", a.vote)
	g.GET("/result/:id", a.result)
}

// elections returns the ongoing/future/expired partition with the ids the
// voter already voted in.
func (a *PanelController) elections(c *gin.Context) {
	user := session.GetLoginUser(c)
	overview, err := a.voteService.ClassifyElections(user.Id, service.Now())
	if err != nil {
		jsonMsg(c, "list elections", err)
		return
	}
	jsonObj(c, overview, nil)
}

// ballot checks eligibility and returns the election's candidate list.
func (a *PanelController) ballot(c *gin.Context) {
	electionId, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		pureJsonMsg(c, http.StatusBadRequest, false, "invalid election id")
		return
	}
	user := session.GetLoginUser(c)

	election, candidates, err := a.voteService.Ballot(user.Id, electionId, service.Now())
	if err != nil {
		jsonMsg(c, "ballot", err)
		return
	}
	jsonObj(c, gin.H{"election": election, "candidates": candidates}, nil)
}

// vote casts the ballot. The service re-validates every eligibility rule
// atomically before the insert.
func (a *PanelController) vote(c *gin.Context) {
	electionId, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		pureJsonMsg(c, http.StatusBadRequest, false, "invalid election id")
		return
	}
	var form VoteForm
	if err := c.ShouldBind(&form); err != nil || form.CandidateId == 0 {
		pureJsonMsg(c, http.StatusOK, false, "a candidate is required")
		return
	}
	user := session.GetLoginUser(c)

	if err := a.voteService.CastVote(user.Id, electionId, form.CandidateId, service.Now()); err != nil {
		jsonMsg(c, "cast vote", err)
		return
	}
	jsonMsg(c, "Vote cast!", nil)
}

// result returns the tally. Non-admins are gated until the election ends.
func (a *PanelController) result(c *gin.Context) {
	electionId, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		pureJsonMsg(c, http.StatusBadRequest, false, "invalid election id")
		return
	}
	user := session.GetLoginUser(c)

	election, rows, err := a.tallyService.Tally(user.Role, electionId, service.Now())
	if err != nil {
		jsonMsg(c, "results", err)
		return
	}
	jsonObj(c, gin.H{"election": election, "results": rows}, nil)
}
