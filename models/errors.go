package models

import "errors"

var (
	// ErrNotFound is returned by repositories when a record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrTenantNotFound means no active tenant owns the channel.
	ErrTenantNotFound = errors.New("tenant not found for channel")
	// ErrSlotTaken means another live appointment already holds the start time.
	ErrSlotTaken = errors.New("slot already booked")
	// ErrChannelTaken means another tenant already uses the channel id.
	ErrChannelTaken = errors.New("channel already registered")
)
