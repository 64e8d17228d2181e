package roomhandler

import (
	"net/http"

	"codecollabgo/internal/services/rooms"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc rooms.IRoomService
}

func New(svc rooms.IRoomService) *Handler { return &Handler{svc: svc} }

func (h *Handler) Register(r gin.IRoutes) {
	r.GET("/rooms/:id", h.info)
}

// @Summary		Get room details
// @Description	Returns the current member list of a room and which editor state fields have been recorded.
// @Tags			Rooms
// @Param			id	path		string	true	"Room ID"	default(123456)
// @Success		200	{object}	RoomInfoResponse
// @Failure		404	{object}	ErrorResponse
// @Router			/rooms/{id} [get]
func (h *Handler) info(c *gin.Context) {
	roomID := c.Param("id")

	users, ok := h.svc.Members(roomID)
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "room not found"})
		return
	}

	snap, _ := h.svc.Snapshot(roomID)
	c.JSON(http.StatusOK, RoomInfoResponse{
		RoomID:      roomID,
		Users:       users,
		HasCode:     snap.Code != nil,
		HasLanguage: snap.Language != nil,
		HasTheme:    snap.Theme != nil,
	})
}
