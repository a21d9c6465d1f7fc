package main

import (
	"context"
	"io"

	"github.com/maxviazov/session-limit-service/internal/app"
	"github.com/maxviazov/session-limit-service/internal/repository"
	"github.com/maxviazov/session-limit-service/internal/service"
	"github.com/maxviazov/session-limit-service/pkg/response"
)

// Globals are shared by every command; the unexported fields are filled in after parsing.
type Globals struct {
	Config string `name:"config" short:"c" default:"config.yaml" help:"Path to the YAML config file"`

	ctx context.Context
	app *app.App
	out io.Writer
}

type CreateCmd struct {
	Limit int `arg:"" help:"Limit value"`
}

func (c *CreateCmd) Run(g *Globals) error {
	out, err := g.app.SessionLimits.CreateSessionLimit(g.ctx, service.SessionLimitInput{Limit: &c.Limit})
	if err != nil {
		return err
	}
	return response.WriteData(g.out, out)
}

type GetCmd struct {
	ID int64 `arg:"" help:"Session limit id"`
}

func (c *GetCmd) Run(g *Globals) error {
	out, err := g.app.SessionLimits.GetSessionLimit(g.ctx, c.ID)
	if err != nil {
		return err
	}
	return response.WriteData(g.out, out)
}

type UpdateCmd struct {
	ID    int64 `arg:"" help:"Session limit id"`
	Limit int   `arg:"" help:"New limit value"`
}

func (c *UpdateCmd) Run(g *Globals) error {
	out, err := g.app.SessionLimits.UpdateSessionLimit(g.ctx, c.ID, service.SessionLimitInput{Limit: &c.Limit})
	if err != nil {
		return err
	}
	return response.WriteData(g.out, out)
}

type DeleteCmd struct {
	ID int64 `arg:"" help:"Session limit id"`
}

func (c *DeleteCmd) Run(g *Globals) error {
	if err := g.app.SessionLimits.DeleteSessionLimit(g.ctx, c.ID); err != nil {
		return err
	}
	return response.WriteData(g.out, map[string]any{"deleted": c.ID})
}

type ListCmd struct {
	Limit  int `name:"limit" default:"50" help:"Page size"`
	Offset int `name:"offset" default:"0" help:"Rows to skip"`
}

func (c *ListCmd) Run(g *Globals) error {
	res, err := g.app.SessionLimits.ListSessionLimits(g.ctx, repository.Page{Limit: c.Limit, Offset: c.Offset})
	if err != nil {
		return err
	}
	return response.WriteData(g.out, res)
}

type PingCmd struct{}

func (c *PingCmd) Run(g *Globals) error {
	if err := g.app.Pinger.Ping(g.ctx); err != nil {
		return err
	}
	return response.WriteData(g.out, map[string]string{"status": "ready"})
}
