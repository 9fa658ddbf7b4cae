package client

import (
	"context"
	"fmt"
	"time"
)

// BookingService provides coaching session operations
type BookingService struct {
	client *Client
}

// CreateBookingRequest is the payload for booking a session
type CreateBookingRequest struct {
	Topic    string    `json:"topic"`
	Notes    string    `json:"notes,omitempty"`
	StartsAt time.Time `json:"startsAt"`
}

// SOSBookingRequest is the payload for an emergency session. The server
// picks the earliest available slot.
type SOSBookingRequest struct {
	Topic string `json:"topic"`
	Notes string `json:"notes,omitempty"`
}

// Create books a standard coaching session
func (s *BookingService) Create(ctx context.Context, req CreateBookingRequest) (*Booking, error) {
	var b Booking
	if err := s.client.doRequest(ctx, "POST", "/api/v1/bookings", req, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// CreatePriority books a priority session, confirmed immediately
func (s *BookingService) CreatePriority(ctx context.Context, req CreateBookingRequest) (*Booking, error) {
	var b Booking
	if err := s.client.doRequest(ctx, "POST", "/api/v1/bookings/priority", req, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// CreateSOS books an emergency session in the next available slot
func (s *BookingService) CreateSOS(ctx context.Context, req SOSBookingRequest) (*Booking, error) {
	var b Booking
	if err := s.client.doRequest(ctx, "POST", "/api/v1/bookings/sos", req, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// List retrieves the caller's bookings, soonest first
func (s *BookingService) List(ctx context.Context, limit, offset int) ([]*Booking, error) {
	path := fmt.Sprintf("/api/v1/bookings?limit=%d&offset=%d", limit, offset)
	var bookings []*Booking
	if err := s.client.doRequest(ctx, "GET", path, nil, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// Cancel cancels a booking
func (s *BookingService) Cancel(ctx context.Context, id string) (*Booking, error) {
	var b Booking
	if err := s.client.doRequest(ctx, "POST", "/api/v1/bookings/"+id+"/cancel", nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}
