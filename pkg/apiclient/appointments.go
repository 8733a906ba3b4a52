package apiclient

import (
	"context"
	"time"
)

// Appointment mirrors the GraphQL Appointment type.
type Appointment struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
	UserID      string    `json:"userId"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

const appointmentFields = `id title description startTime endTime userId status createdAt updatedAt`

// NewAppointment is the createAppointment input. Status may be left empty.
type NewAppointment struct {
	Title       string
	Description *string
	StartTime   time.Time
	EndTime     time.Time
	Status      string
}

func (c *Client) CreateAppointment(ctx context.Context, in NewAppointment) (*Appointment, error) {
	input := map[string]any{
		"title":     in.Title,
		"startTime": in.StartTime.Format(time.RFC3339),
		"endTime":   in.EndTime.Format(time.RFC3339),
	}
	if in.Description != nil {
		input["description"] = *in.Description
	}
	if in.Status != "" {
		input["status"] = in.Status
	}

	var out struct {
		CreateAppointment Appointment `json:"createAppointment"`
	}
	err := c.GraphQL(ctx,
		`mutation($input: AppointmentInput!) { createAppointment(input: $input) { `+appointmentFields+` } }`,
		map[string]any{"input": input}, &out)
	if err != nil {
		return nil, err
	}
	return &out.CreateAppointment, nil
}

// UpdateAppointment sends only the keys present in fields, e.g.
// {"status": "confirmed"}.
func (c *Client) UpdateAppointment(ctx context.Context, id string, fields map[string]any) (*Appointment, error) {
	var out struct {
		UpdateAppointment Appointment `json:"updateAppointment"`
	}
	err := c.GraphQL(ctx,
		`mutation($id: ID!, $input: AppointmentUpdateInput!) { updateAppointment(id: $id, input: $input) { `+appointmentFields+` } }`,
		map[string]any{"id": id, "input": fields}, &out)
	if err != nil {
		return nil, err
	}
	return &out.UpdateAppointment, nil
}

func (c *Client) DeleteAppointment(ctx context.Context, id string) (bool, error) {
	var out struct {
		DeleteAppointment bool `json:"deleteAppointment"`
	}
	err := c.GraphQL(ctx, `mutation($id: ID!) { deleteAppointment(id: $id) }`, map[string]any{"id": id}, &out)
	return out.DeleteAppointment, err
}

// Appointment returns nil without error when the API answers null.
func (c *Client) Appointment(ctx context.Context, id string) (*Appointment, error) {
	var out struct {
		Appointment *Appointment `json:"appointment"`
	}
	err := c.GraphQL(ctx, `query($id: ID!) { appointment(id: $id) { `+appointmentFields+` } }`, map[string]any{"id": id}, &out)
	if err != nil {
		return nil, err
	}
	return out.Appointment, nil
}

func (c *Client) MyAppointments(ctx context.Context) ([]Appointment, error) {
	var out struct {
		MyAppointments []Appointment `json:"myAppointments"`
	}
	if err := c.GraphQL(ctx, `{ myAppointments { `+appointmentFields+` } }`, nil, &out); err != nil {
		return nil, err
	}
	return out.MyAppointments, nil
}

// Appointments lists every appointment visible to the caller.
func (c *Client) Appointments(ctx context.Context) ([]Appointment, error) {
	var out struct {
		Appointments []Appointment `json:"appointments"`
	}
	if err := c.GraphQL(ctx, `{ appointments { `+appointmentFields+` } }`, nil, &out); err != nil {
		return nil, err
	}
	return out.Appointments, nil
}
