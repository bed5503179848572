package controller

import (
	"fmt"
	"net/http"
	"strconv"

	"ballot-ui/logger"
	"ballot-ui/web/service"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// ElectionForm represents the create-election request.
type ElectionForm struct {
	Title     string `json:"title" form:"title"`
	StartDate string `json:"startDate" form:"start_date"`
	EndDate   string `json:"endDate" form:"end_date"`
}

// CandidateForm represents the add-candidate request.
type CandidateForm struct {
	Name       string `json:"name" form:"name"`
	Party      string `json:"party" form:"party"`
	ElectionId int    `json:"electionId" form:"election_id"`
}

// AdminController serves the management API: voter approval, election and
// candidate administration, exports and the log view.
type AdminController struct {
	BaseController

	userService     service.UserService
	electionService service.ElectionService
	tallyService    service.TallyService
}

// NewAdminController creates an AdminController and initializes its routes.
func NewAdminController(g *gin.RouterGroup) *AdminController {
	a := &AdminController{}
	a.initRouter(g)
	return a
}

func (a *AdminController) initRouter(g *gin.RouterGroup) {
	g = g.Group("/admin")
	g.Use(a.checkLogin, a.checkAdmin)

	g.GET("/users", a.users)
	g.POST("/users/:id/approve", a.approveUser)
	g.POST("/users/:id/delete", a.deleteUser)

	g.GET("/elections", a.elections)
	g.POST("/elections", a.createElection)
	g.POST("/elections/:id/delete", a.deleteElection)

	g.GET("/candidates", a.candidates)
	g.POST("/candidates", a.addCandidate)
	g.POST("/candidates/:id/delete", a.deleteCandidate)

	g.GET("/export/votes", a.exportVotes)
	g.GET("/export/elections/:id", a.exportElection)

	g.GET("/logs", a.logs)
}

// users lists voter accounts with verification state for the review page.
func (a *AdminController) users(c *gin.Context) {
	users, err := a.userService.PendingUsers()
	if err != nil {
		jsonMsg(c, "list users", err)
		return
	}
	jsonObj(c, users, nil)
}

// approveUser flips the verification flag. Idempotent.
func (a *AdminController) approveUser(c *gin.Context) {
	userId, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		pureJsonMsg(c, http.StatusBadRequest, false, "invalid user id")
		return
	}
	if err := a.userService.Approve(userId); err != nil {
		jsonMsg(c, "approve user", err)
		return
	}
	jsonMsg(c, "User approved.", nil)
}

// deleteUser removes the account and its votes.
func (a *AdminController) deleteUser(c *gin.Context) {
	userId, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		pureJsonMsg(c, http.StatusBadRequest, false, "invalid user id")
		return
	}
	if err := a.userService.DeleteUser(userId); err != nil {
		jsonMsg(c, "delete user", err)
		return
	}
	jsonMsg(c, "User deleted.", nil)
}

func (a *AdminController) elections(c *gin.Context) {
	elections, err := a.electionService.ListElections()
	if err != nil {
		jsonMsg(c, "list elections", err)
		return
	}
	jsonObj(c, elections, nil)
}

func (a *AdminController) createElection(c *gin.Context) {
	var form ElectionForm
	if err := c.ShouldBind(&form); err != nil {
		pureJsonMsg(c, http.StatusOK, false, "invalid form data")
		return
	}
	if form.Title == "" || form.StartDate == "" || form.EndDate == "" {
		pureJsonMsg(c, http.StatusOK, false, "title, start date and end date are required")
		return
	}
	election, err := a.electionService.CreateElection(form.Title, form.StartDate, form.EndDate)
	if err != nil {
		jsonMsg(c, "create election", err)
		return
	}
	jsonMsgObj(c, "Election created.", election, nil)
}

// deleteElection removes the election with its candidates and votes,
// all-or-nothing.
func (a *AdminController) deleteElection(c *gin.Context) {
	electionId, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		pureJsonMsg(c, http.StatusBadRequest, false, "invalid election id")
		return
	}
	if err := a.electionService.DeleteElection(electionId); err != nil {
		jsonMsg(c, "delete election", err)
		return
	}
	jsonMsg(c, "Election and related data deleted.", nil)
}

func (a *AdminController) candidates(c *gin.Context) {
	candidates, err := a.electionService.ListCandidates()
	if err != nil {
		jsonMsg(c, "list candidates", err)
		return
	}
	jsonObj(c, candidates, nil)
}

func (a *AdminController) addCandidate(c *gin.Context) {
	var form CandidateForm
	if err := c.ShouldBind(&form); err != nil {
		pureJsonMsg(c, http.StatusOK, false, "invalid form data")
		return
	}
	if form.Name == "" || form.ElectionId == 0 {
		pureJsonMsg(c, http.StatusOK, false, "name and election are required")
		return
	}
	candidate, err := a.electionService.AddCandidate(form.Name, form.Party, form.ElectionId)
	if err != nil {
		jsonMsg(c, "add candidate", err)
		return
	}
	jsonMsgObj(c, "Candidate added.", candidate, nil)
}

func (a *AdminController) deleteCandidate(c *gin.Context) {
	candidateId, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		pureJsonMsg(c, http.StatusBadRequest, false, "invalid candidate id")
		return
	}
	if err := a.electionService.DeleteCandidate(candidateId); err != nil {
		jsonMsg(c, "delete candidate", err)
		return
	}
	jsonMsg(c, "Candidate deleted.", nil)
}

// exportVotes streams the raw vote records as an xlsx download.
func (a *AdminController) exportVotes(c *gin.Context) {
	f, err := a.tallyService.ExportAllVotes()
	if err != nil {
		jsonMsg(c, "export votes", err)
		return
	}
	a.sendWorkbook(c, f, "votes_export.xlsx")
}

// exportElection streams one election's tally as an xlsx download.
func (a *AdminController) exportElection(c *gin.Context) {
	electionId, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		pureJsonMsg(c, http.StatusBadRequest, false, "invalid election id")
		return
	}
	f, err := a.tallyService.ExportElectionTally(electionId)
	if err != nil {
		jsonMsg(c, "export election", err)
		return
	}
	a.sendWorkbook(c, f, fmt.Sprintf("election_%d_results.xlsx", electionId))
}

func (a *AdminController) sendWorkbook(c *gin.Context, f *excelize.File, filename string) {
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := f.Write(c.Writer); err != nil {
		logger.Warning("write workbook failed: ", err)
	}
}

// logs returns recent log entries from the in-memory buffer.
func (a *AdminController) logs(c *gin.Context) {
	count, err := strconv.Atoi(c.DefaultQuery("count", "50"))
	if err != nil || count <= 0 {
		count = 50
	}
	level := c.DefaultQuery("level", "INFO")
	jsonObj(c, logger.GetLogs(count, level), nil)
}
