package handlers

import (
	"context"

	"github.com/buildclub/mcp-server/pkg/buildclub"
	"github.com/buildclub/mcp-server/pkg/mcp"
)

// Tools binds the three event tools to the BuildClub API client. The
// definitions are handed to the gateway once at startup.
type Tools struct {
	API *buildclub.Client
}

func (t *Tools) Definitions() []mcp.Tool {
	return []mcp.Tool{
		{
			Name:        "list_events",
			Description: "Retrieve a list of BuildClub.io events",
			InputSchema: mcp.Schema{},
			Handler:     t.listEvents,
		},
		{
			Name:        "get_event",
			Description: "Retrieve a BuildClub.io event by UUID",
			InputSchema: mcp.Schema{
				Properties: map[string]mcp.Property{
					"uuid": {Type: mcp.TypeString, Description: "The UUID of the event you're retrieving"},
				},
				Required: []string{"uuid"},
			},
			Handler: t.getEvent,
		},
		{
			Name: "event_registration",
			Description: "Register for a BuildClub.io event by providing your first name, last name, email, " +
				"and some optional notes for things like dietary restrictions and other needs",
			InputSchema: mcp.Schema{
				Properties: map[string]mcp.Property{
					"hubEventId": {
						Type:        mcp.TypeString,
						Description: "The Hub Event UUID of the event you're registering for, not to be confused with the Event UUID",
					},
					"firstName": {Type: mcp.TypeString, Description: "Your first name"},
					"lastName":  {Type: mcp.TypeString, Description: "Your last name"},
					"email":     {Type: mcp.TypeString, Format: "email", Description: "Your email address"},
					"interestAreas": {
						Type:        mcp.TypeArray,
						Description: "Areas of interest for this event",
						Items:       &mcp.Property{Type: mcp.TypeString},
					},
					"notes": {Type: mcp.TypeString, Description: "Optional notes, e.g. dietary restrictions"},
				},
				Required: []string{"hubEventId", "firstName", "lastName", "email"},
			},
			Handler: t.registerForEvent,
		},
	}
}

func (t *Tools) listEvents(ctx context.Context, _ map[string]any) (any, error) {
	return t.API.ListEvents(ctx)
}

func (t *Tools) getEvent(ctx context.Context, args map[string]any) (any, error) {
	return t.API.GetEvent(ctx, mcp.StringArg(args, "uuid"))
}

func (t *Tools) registerForEvent(ctx context.Context, args map[string]any) (any, error) {
	return t.API.RegisterForEvent(ctx, buildclub.RegistrationRequest{
		HubEventID:    mcp.StringArg(args, "hubEventId"),
		FirstName:     mcp.StringArg(args, "firstName"),
		LastName:      mcp.StringArg(args, "lastName"),
		Email:         mcp.StringArg(args, "email"),
		InterestAreas: mcp.StringSliceArg(args, "interestAreas"),
		Notes:         mcp.StringArg(args, "notes"),
	})
}
