package services

import "mines-backend/internal/models"

// Broadcaster fans committed round events out to live subscribers.
type Broadcaster interface {
	Publish(event *models.RoundEvent)
}

type nopBroadcaster struct{}

func (nopBroadcaster) Publish(*models.RoundEvent) {}
