package websocket

import (
	"github.com/gofiber/websocket/v2"
)

// ServeWs attaches a new dashboard connection to the hub.
func ServeWs(hub *Hub, c *websocket.Conn, subject string) {
	client := &Client{Hub: hub, Conn: c, Subject: subject, Send: make(chan []byte, 256)}
	client.Hub.register <- client

	go client.writePump()
	client.readPump()
}
