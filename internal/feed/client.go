package feed

import "childguard/backend/internal/models"

// Client is one subscriber of the moderator feed.
type Client interface {
	// GetID identifies the connection inside the hub.
	GetID() string
	// GetSendChannel is where the hub pushes notices for this client.
	GetSendChannel() chan<- models.ReportNotice
	// Run starts the client's read and write pumps.
	Run()
	// Close stops the write pump and drops the connection.
	Close()
}
