package controllers

import (
	"net/http"

	"github.com/sujinlee/moamall/app/chat"
	"github.com/sujinlee/moamall/pkg/response"
	"github.com/sujinlee/moamall/pkg/ws"
)

// ChatController upgrades visitors onto the random-chat websocket hub.
type ChatController struct {
	hub     *ws.Hub
	matcher *chat.Matcher
}

func NewChatController(hub *ws.Hub, matcher *chat.Matcher) *ChatController {
	return &ChatController{hub: hub, matcher: matcher}
}

func (c *ChatController) Connect(w http.ResponseWriter, r *http.Request) {
	ws.Upgrade(w, r, c.hub)
}

// Stats reports how many visitors are waiting or paired.
func (c *ChatController) Stats(w http.ResponseWriter, r *http.Request) {
	waiting, paired := c.matcher.Stats()
	response.Success(w, map[string]int{"waiting": waiting, "paired": paired})
}
