package http

import (
	"net/http"

	"github.com/dkeye/roomchat/internal/adapters/signal"
	"github.com/dkeye/roomchat/internal/app/orch"
	"github.com/dkeye/roomchat/internal/domain"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

type NickRequest struct {
	Name string `json:"name"`
}

type NickResponse struct {
	Name string `json:"name"`
}

type RoomInfo struct {
	Name        domain.RoomName `json:"name"`
	MemberCount int             `json:"memberCount"`
}

// handleNickname stores the display name the next websocket of this browser
// connects with.
func handleNickname(c *gin.Context) {
	var req NickRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing or invalid name"})
		return
	}
	session := sessions.Default(c)
	session.Set(signal.NicknameKey, req.Name)
	if err := session.Save(); err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("save session")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session unavailable"})
		return
	}
	c.JSON(http.StatusOK, NickResponse{Name: req.Name})
}

type roomHandlers struct {
	orch *orch.Orchestrator
}

// GET /api/rooms
func (h *roomHandlers) list(c *gin.Context) {
	infos := lo.Map(h.orch.Rooms.List(), func(name domain.RoomName, _ int) RoomInfo {
		return RoomInfo{Name: name, MemberCount: h.orch.Members.MemberCount(name)}
	})
	c.JSON(http.StatusOK, gin.H{"rooms": infos})
}

// GET /api/rooms/:name
func (h *roomHandlers) roster(c *gin.Context) {
	name := domain.RoomName(c.Param("name"))
	if !h.orch.Rooms.Exists(name) {
		c.JSON(http.StatusNotFound, gin.H{"error": "room does not exist"})
		return
	}
	c.JSON(http.StatusOK, domain.Roster{RoomName: name, ChatUsers: h.orch.Members.ListMembers(name)})
}
