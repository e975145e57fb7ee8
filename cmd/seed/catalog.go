package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"portal/internal/domain/auth"
	"portal/internal/domain/room"
)

type Catalog struct {
	Rooms []RoomEntry `yaml:"rooms"`
	Users []UserEntry `yaml:"users"`
}

type RoomEntry struct {
	Name            string `yaml:"name"`
	Capacity        int    `yaml:"capacity"`
	Floor           string `yaml:"floor"`
	Location        string `yaml:"location"`
	Projector       bool   `yaml:"projector"`
	TV              bool   `yaml:"tv"`
	Whiteboard      bool   `yaml:"whiteboard"`
	Videoconference bool   `yaml:"videoconference"`
	Computer        bool   `yaml:"computer"`
	Coffee          bool   `yaml:"coffee"`

	// Active defaults to true when omitted.
	Active *bool `yaml:"active"`
}

type UserEntry struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	Sector   string `yaml:"sector"`
	Role     string `yaml:"role"`
	Position string `yaml:"position"`
}

func parseCatalog(r io.Reader) (*Catalog, error) {
	var cat Catalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cat); err != nil {
		if errors.Is(err, io.EOF) {
			return &cat, nil
		}
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := cat.validate(); err != nil {
		return nil, err
	}
	return &cat, nil
}

func (c *Catalog) validate() error {
	seen := map[string]bool{}
	for i, r := range c.Rooms {
		name := strings.TrimSpace(r.Name)
		if name == "" {
			return fmt.Errorf("rooms[%d]: name is required", i)
		}
		if r.Capacity < 1 {
			return fmt.Errorf("rooms[%d] %q: capacity must be >= 1", i, name)
		}
		if seen[name] {
			return fmt.Errorf("rooms[%d]: duplicate name %q", i, name)
		}
		seen[name] = true
	}

	emails := map[string]bool{}
	for i, u := range c.Users {
		email := strings.ToLower(strings.TrimSpace(u.Email))
		if email == "" || u.Password == "" || strings.TrimSpace(u.Name) == "" {
			return fmt.Errorf("users[%d]: email, password and name are required", i)
		}
		switch auth.UserRole(u.Role) {
		case "", auth.RoleEmployee, auth.RoleManager, auth.RoleAdmin:
		default:
			return fmt.Errorf("users[%d] %s: unknown role %q", i, email, u.Role)
		}
		if emails[email] {
			return fmt.Errorf("users[%d]: duplicate email %s", i, email)
		}
		emails[email] = true
	}
	return nil
}

type seedResult struct {
	RoomsCreated int
	RoomsUpdated int
	Users        int
}

// apply upserts rooms by name and users by email. Running it twice with the
// same catalog leaves the store unchanged.
func apply(ctx context.Context, cat *Catalog, rooms room.Repository, users auth.UserRepository) (seedResult, error) {
	var res seedResult

	for _, e := range cat.Rooms {
		existing, err := rooms.GetByName(ctx, e.Name)
		switch {
		case errors.Is(err, room.ErrRoomNotFound):
			r := e.toRoom()
			if err := rooms.Create(ctx, &r); err != nil {
				return res, fmt.Errorf("create room %q: %w", e.Name, err)
			}
			res.RoomsCreated++
		case err != nil:
			return res, fmt.Errorf("lookup room %q: %w", e.Name, err)
		default:
			r := e.toRoom()
			r.ID = existing.ID
			r.CreatedAt = existing.CreatedAt
			if err := rooms.Save(ctx, &r); err != nil {
				return res, fmt.Errorf("update room %q: %w", e.Name, err)
			}
			res.RoomsUpdated++
		}
	}

	for _, e := range cat.Users {
		hash, err := auth.HashPassword(e.Password)
		if err != nil {
			return res, fmt.Errorf("hash password for %s: %w", e.Email, err)
		}
		role := auth.UserRole(e.Role)
		if role == "" {
			role = auth.RoleEmployee
		}
		u := &auth.User{
			Email:        e.Email,
			PasswordHash: hash,
			Name:         strings.TrimSpace(e.Name),
			Sector:       strings.TrimSpace(e.Sector),
			Role:         role,
			Position:     strings.TrimSpace(e.Position),
			Active:       true,
		}
		if err := users.Upsert(ctx, u); err != nil {
			return res, fmt.Errorf("upsert user %s: %w", e.Email, err)
		}
		res.Users++
	}

	return res, nil
}

func (e RoomEntry) toRoom() room.Room {
	active := true
	if e.Active != nil {
		active = *e.Active
	}
	return room.Room{
		Name:            strings.TrimSpace(e.Name),
		Capacity:        e.Capacity,
		Floor:           e.Floor,
		Location:        e.Location,
		Projector:       e.Projector,
		TV:              e.TV,
		Whiteboard:      e.Whiteboard,
		Videoconference: e.Videoconference,
		Computer:        e.Computer,
		Coffee:          e.Coffee,
		Active:          active,
	}
}
